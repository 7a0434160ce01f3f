// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pucklab/puckrank/internal/adapters/nhl"
	"github.com/pucklab/puckrank/internal/adapters/refresh"
	"github.com/pucklab/puckrank/internal/adapters/repository"
	"github.com/pucklab/puckrank/internal/domain/directory"
	"github.com/pucklab/puckrank/internal/domain/gamecache"
	"github.com/pucklab/puckrank/internal/domain/model"
	"github.com/pucklab/puckrank/internal/domain/ranking"
	"github.com/pucklab/puckrank/internal/domain/types"
	"github.com/pucklab/puckrank/pkg/logger"
	"github.com/pucklab/puckrank/pkg/metrics"
)

// Service owns the provider, engine, store and refresh machinery.
type Service struct {
	mu sync.RWMutex

	// Core components
	provider nhl.Provider
	store    repository.Store
	engine   *ranking.Engine
	cache    gamecache.Cache
	queue    *refresh.InMemoryQueue
	runner   *refresh.InMemoryRunner

	// Configuration
	statsBaseURL    string
	season          string
	requestTimeout  time.Duration
	maxRetries      int
	recentDays      int
	recentGames     int
	refreshInterval time.Duration
	queueSize       int
	cacheSize       int

	// State
	started    bool
	stopCh     chan struct{}
	runnerDone sync.WaitGroup

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		statsBaseURL:    "https://api-web.nhle.com",
		season:          "20252026",
		requestTimeout:  10 * time.Second,
		maxRetries:      3,
		recentDays:      14,
		recentGames:     10,
		refreshInterval: 30 * time.Minute,
		queueSize:       64,
		cacheSize:       10_000,
		stopCh:          make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting rankings service...")

	if s.cache == nil {
		s.cache = gamecache.New(gamecache.WithMaxSize(s.cacheSize))
	}
	if s.provider == nil {
		s.provider = nhl.New(
			nhl.WithBaseURL(s.statsBaseURL),
			nhl.WithHTTPClient(&http.Client{Timeout: s.requestTimeout}),
			nhl.WithMaxRetries(s.maxRetries),
			nhl.WithGameCache(s.cache),
		)
	}
	if s.store == nil {
		s.store = repository.NewMemStore()
	}
	if s.engine == nil {
		s.engine = ranking.New(ranking.WithRecentGamesWindow(s.recentGames))
	}

	s.queue = refresh.NewInMemoryQueue(refresh.WithCapacity(s.queueSize))
	s.runner = refresh.NewInMemoryRunner(s.queue, s)

	runCtx, cancel := context.WithCancel(context.Background())
	s.runnerDone.Add(1)
	go func() {
		defer s.runnerDone.Done()
		s.runner.Run(runCtx)
	}()
	go func() {
		<-s.stopCh
		cancel()
	}()

	if s.refreshInterval > 0 {
		go s.tick()
	}

	s.started = true
	s.logger.Info(ctx, "rankings service started",
		logger.String("season", s.season),
		logger.Int("queueSize", s.queueSize),
		logger.Int("recentDays", s.recentDays),
		logger.Any("refreshInterval", s.refreshInterval),
	)

	// Warm the store so reads work before the first tick.
	s.enqueue(ctx, "startup")

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping rankings service...")

	if s.queue != nil {
		_ = s.queue.Close()
	}

	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}

	if s.runner != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		_ = s.runner.Shutdown(shutdownCtx)
	}
	s.runnerDone.Wait()

	s.started = false
	s.logger.Info(ctx, "rankings service stopped")
}

// tick feeds periodic triggers into the queue until Stop.
func (s *Service) tick() {
	ticker := time.NewTicker(s.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.enqueue(context.Background(), "periodic")
		}
	}
}

func (s *Service) enqueue(ctx context.Context, source string) types.RefreshAccepted {
	t := refresh.Trigger{
		ID:          uuid.NewString(),
		Source:      source,
		RequestedAt: time.Now(),
	}
	if s.queue.Enqueue(ctx, t) {
		return types.RefreshAccepted{TriggerID: t.ID, Status: "queued"}
	}
	// A full queue means a refresh is already pending; the caller's
	// request is covered by it.
	return types.RefreshAccepted{TriggerID: t.ID, Status: "coalesced"}
}

// TriggerRefresh enqueues a manual refresh trigger.
func (s *Service) TriggerRefresh(ctx context.Context) (types.RefreshAccepted, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return types.RefreshAccepted{}, ErrNotStarted
	}
	return s.enqueue(ctx, "manual"), nil
}

// Refresh recomputes both ranking variants and installs the snapshots.
// It implements refresh.Refresher and is invoked only by the runner, so
// at most one refresh executes at a time.
func (s *Service) Refresh(ctx context.Context, trigger refresh.Trigger) error {
	runID := trigger.ID
	log := s.logger.Named("refresh")
	log.Info(ctx, "refresh starting",
		logger.String("run_id", runID),
		logger.String("source", trigger.Source))

	standings, err := s.provider.Standings(ctx)
	if err != nil {
		return fmt.Errorf("%w: standings: %v", ErrRefreshFailed, err)
	}

	to := time.Now()
	from := to.AddDate(0, 0, -s.recentDays)

	snapshot := make([]model.TeamSnapshot, 0, len(standings))
	partial := 0
	for i := range standings {
		season := standings[i]
		recent, err := s.provider.RecentGames(ctx, season.TeamID, from, to)
		if err != nil {
			// Degrade to season-only scoring rather than failing the run.
			log.Warn(ctx, "recent games unavailable",
				logger.String("run_id", runID),
				logger.String("team", season.TeamID),
				logger.Error(err))
			recent = nil
			partial++
		}
		snapshot = append(snapshot, model.TeamSnapshot{
			TeamID: season.TeamID,
			Season: &season,
			Recent: recent,
		})
	}

	computeStart := time.Now()
	baseline, err := s.engine.ComputeRankings(ctx, snapshot)
	if err != nil {
		return fmt.Errorf("%w: baseline: %v", ErrRefreshFailed, err)
	}
	improved, err := s.engine.ComputeImproved(ctx, snapshot)
	if err != nil {
		return fmt.Errorf("%w: improved: %v", ErrRefreshFailed, err)
	}
	metrics.RecordComputeDuration(float64(time.Since(computeStart).Milliseconds()))

	computedAt := time.Now()
	if err := s.store.SetRankings(ctx, repository.VariantBaseline, repository.Snapshot{
		RunID: runID, ComputedAt: computedAt, Scores: baseline,
	}); err != nil {
		return fmt.Errorf("%w: store baseline: %v", ErrRefreshFailed, err)
	}
	if err := s.store.SetRankings(ctx, repository.VariantImproved, repository.Snapshot{
		RunID: runID, ComputedAt: computedAt, Scores: improved,
	}); err != nil {
		return fmt.Errorf("%w: store improved: %v", ErrRefreshFailed, err)
	}

	metrics.UpdateTeamsRanked(len(baseline))
	metrics.UpdatePartialTeams(countPartial(baseline))

	log.Info(ctx, "refresh stored",
		logger.String("run_id", runID),
		logger.Int("teams", len(baseline)),
		logger.Int("degraded", partial))
	return nil
}

func countPartial(scores []model.TeamScore) int {
	n := 0
	for _, s := range scores {
		if s.Partial {
			n++
		}
	}
	return n
}

// Rankings returns the latest ranking for a variant, top limit rows.
// A non-positive limit returns the whole table.
func (s *Service) Rankings(ctx context.Context, variant string, limit int) (types.RankingsResponse, error) {
	v, err := repository.ParseVariant(variant)
	if err != nil {
		return types.RankingsResponse{}, err
	}

	snap, err := s.store.Latest(ctx, v)
	if err != nil {
		return types.RankingsResponse{}, err
	}

	scores := snap.Scores
	if limit > 0 && limit < len(scores) {
		scores = scores[:limit]
	}

	teams := make([]types.RankingEntry, len(scores))
	for i, score := range scores {
		teams[i] = toEntry(score)
	}

	return types.RankingsResponse{
		Variant:    string(v),
		RunID:      snap.RunID,
		ComputedAt: snap.ComputedAt,
		Teams:      teams,
	}, nil
}

// TeamRank returns one team's row from the latest snapshot.
func (s *Service) TeamRank(ctx context.Context, variant, teamID string) (types.RankingEntry, error) {
	v, err := repository.ParseVariant(variant)
	if err != nil {
		return types.RankingEntry{}, err
	}
	if _, err := directory.Lookup(teamID); err != nil {
		return types.RankingEntry{}, err
	}

	score, err := s.store.TeamRank(ctx, v, teamID)
	if err != nil {
		return types.RankingEntry{}, err
	}
	return toEntry(score), nil
}

// Movers compares the previous snapshot against the latest and returns
// the per-team deltas, biggest climbers first.
func (s *Service) Movers(ctx context.Context, variant string) (types.MoversResponse, error) {
	v, err := repository.ParseVariant(variant)
	if err != nil {
		return types.MoversResponse{}, err
	}

	latest, err := s.store.Latest(ctx, v)
	if err != nil {
		return types.MoversResponse{}, err
	}
	previous, err := s.store.Previous(ctx, v)
	if err != nil {
		return types.MoversResponse{}, err
	}

	entries := ranking.Compare(previous.Scores, latest.Scores)
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].RankDelta != entries[j].RankDelta {
			return entries[i].RankDelta > entries[j].RankDelta
		}
		return entries[i].TeamID < entries[j].TeamID
	})

	movers := make([]types.Mover, len(entries))
	for i, e := range entries {
		movers[i] = types.Mover{
			TeamID:        e.TeamID,
			TeamName:      directory.Name(e.TeamID),
			OriginalRank:  e.OriginalRank,
			NewRank:       e.NewRank,
			RankDelta:     e.RankDelta,
			OriginalScore: e.OriginalScore,
			NewScore:      e.NewScore,
			ScoreDelta:    e.ScoreDelta,
		}
	}

	return types.MoversResponse{Variant: string(v), Movers: movers}, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":         s.started,
		"season":          s.season,
		"queueSize":       s.queueSize,
		"recentDays":      s.recentDays,
		"refreshInterval": s.refreshInterval.String(),
		"gameCacheSize":   int64(0),
		"teamsRanked":     0,
		"triggersPending": 0,
	}

	if s.started {
		stats["gameCacheSize"] = s.cache.Size()
		stats["teamsRanked"] = s.store.Count(ctx, repository.VariantBaseline)
		stats["triggersPending"] = s.queue.Len(ctx)

		if snap, err := s.store.Latest(ctx, repository.VariantBaseline); err == nil {
			stats["lastRunId"] = snap.RunID
			stats["lastComputedAt"] = snap.ComputedAt
		}

		metrics.UpdateGameCacheSize(s.cache.Size())
	}

	return stats
}

func toEntry(score model.TeamScore) types.RankingEntry {
	return types.RankingEntry{
		Rank:     score.Rank,
		TeamID:   score.TeamID,
		TeamName: directory.Name(score.TeamID),
		LogoURL:  directory.LogoURL(score.TeamID),
		Score:    score.Score,
		Partial:  score.Partial,
		Components: types.Components{
			Recent:       score.Components.Recent,
			Season:       score.Components.Season,
			Performance:  score.Components.Performance,
			SpecialTeams: score.Components.SpecialTeams,
			QualityWins:  score.Components.QualityWins,
		},
	}
}
