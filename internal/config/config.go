// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - Provide New() to build a Config with defaults, Load(ctx) to layer
//     file and environment sources on top.
//   - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Season selects the season to rank, e.g. "20252026".
	Season string `koanf:"season"`

	// StatsBaseURL points at the league stats API.
	StatsBaseURL string `koanf:"stats_base_url"`

	// RequestTimeoutMS bounds a single stats API request.
	RequestTimeoutMS int `koanf:"request_timeout_ms"`

	// MaxRetries sets how many times a failed stats request is retried.
	MaxRetries int `koanf:"max_retries"`

	// RecentDays sets the trailing window for recent-form scoring.
	RecentDays int `koanf:"recent_days"`

	// RefreshIntervalMinutes drives the periodic background refresh.
	// Zero disables periodic refreshes; manual triggers still work.
	RefreshIntervalMinutes int `koanf:"refresh_interval_minutes"`

	// TriggerQueueSize bounds the pending refresh trigger queue.
	TriggerQueueSize int `koanf:"trigger_queue_size"`

	// GameCacheSize bounds the processed-game cache.
	GameCacheSize int `koanf:"game_cache_size"`

	// RecentGamesWindow sets the last-N window for the improved variant.
	RecentGamesWindow int `koanf:"recent_games_window"`

	// MaxRankingsLimit caps the limit query parameter on GET /rankings.
	MaxRankingsLimit int `koanf:"max_rankings_limit"`

	// Improved-variant blend weights. Applied together; each must be
	// positive or the engine keeps its defaults.
	ImprovedRecentWeight  float64 `koanf:"improved_recent_weight"`
	ImprovedSeasonWeight  float64 `koanf:"improved_season_weight"`
	ImprovedSpecialWeight float64 `koanf:"improved_special_weight"`

	// Win-streak bonus parameters for the improved variant.
	StreakMinLength int     `koanf:"streak_min_length"`
	StreakIncrement float64 `koanf:"streak_increment"`
	StreakBonusCap  float64 `koanf:"streak_bonus_cap"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		Addr:                   ":8090",
		Season:                 "20252026",
		StatsBaseURL:           "https://api-web.nhle.com",
		RequestTimeoutMS:       10_000,
		MaxRetries:             3,
		RecentDays:             14,
		RefreshIntervalMinutes: 30,
		TriggerQueueSize:       64,
		GameCacheSize:          10_000,
		RecentGamesWindow:      10,
		MaxRankingsLimit:       32,
		ImprovedRecentWeight:   0.45,
		ImprovedSeasonWeight:   0.30,
		ImprovedSpecialWeight:  0.25,
		StreakMinLength:        3,
		StreakIncrement:        0.5,
		StreakBonusCap:         4.0,
	}
}
