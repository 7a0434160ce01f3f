package service

import (
	"time"

	"github.com/pucklab/puckrank/internal/adapters/nhl"
	"github.com/pucklab/puckrank/internal/adapters/repository"
	"github.com/pucklab/puckrank/internal/domain/gamecache"
	"github.com/pucklab/puckrank/internal/domain/ranking"
	"github.com/pucklab/puckrank/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithProvider injects a stats provider, replacing the default client.
func WithProvider(p nhl.Provider) Option {
	return func(s *Service) {
		if p != nil {
			s.provider = p
		}
	}
}

// WithStore injects a snapshot store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithEngine injects a pre-configured ranking engine.
func WithEngine(e *ranking.Engine) Option {
	return func(s *Service) {
		if e != nil {
			s.engine = e
		}
	}
}

// WithGameCache injects a shared processed-game cache.
func WithGameCache(c gamecache.Cache) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithStatsBaseURL points the default provider at a different API host.
func WithStatsBaseURL(url string) Option {
	return func(s *Service) {
		if url != "" {
			s.statsBaseURL = url
		}
	}
}

// WithSeason labels the season the service ranks, e.g. "20252026".
func WithSeason(season string) Option {
	return func(s *Service) {
		if season != "" {
			s.season = season
		}
	}
}

// WithRequestTimeout bounds individual stats API requests.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		if timeout > 0 {
			s.requestTimeout = timeout
		}
	}
}

// WithMaxRetries sets how many attempts a stats request gets.
func WithMaxRetries(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxRetries = n
		}
	}
}

// WithRecentDays sets the trailing window for recent-form scoring.
func WithRecentDays(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.recentDays = days
		}
	}
}

// WithRecentGamesWindow sets the last-N game window for the improved variant.
func WithRecentGamesWindow(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.recentGames = n
		}
	}
}

// WithRefreshInterval sets the periodic refresh cadence. Zero disables
// periodic refreshes; manual triggers still work.
func WithRefreshInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval >= 0 {
			s.refreshInterval = interval
		}
	}
}

// WithTriggerQueueSize bounds the pending refresh trigger queue.
func WithTriggerQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithGameCacheSize bounds the processed-game cache built at Start.
func WithGameCacheSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.cacheSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
