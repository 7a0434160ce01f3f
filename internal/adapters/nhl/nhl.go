// Package nhl implements the stats provider against the league's public
// API (api-web.nhle.com). All calls honor context, retry transient
// failures, and report per-endpoint metrics.
package nhl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pucklab/puckrank/internal/domain/gamecache"
	"github.com/pucklab/puckrank/internal/domain/model"
	"github.com/pucklab/puckrank/pkg/logger"
	"github.com/pucklab/puckrank/pkg/metrics"
)

// Provider fetches team season stats and recent game results.
type Provider interface {
	// Standings returns season stats for every team in the current
	// standings feed.
	Standings(ctx context.Context) ([]model.TeamSeasonStats, error)

	// RecentGames returns processed results for a team's completed
	// regular-season games between from and to, most recent first.
	RecentGames(ctx context.Context, teamID string, from, to time.Time) ([]model.RecentGameResult, error)
}

const (
	defaultBaseURL   = "https://api-web.nhle.com"
	defaultUserAgent = "puckrank/1.0"
	defaultTimeout   = 10 * time.Second
	defaultRetries   = 3
	retryBackoff     = time.Second

	endpointStandings = "standings"
	endpointSchedule  = "club-schedule"
	endpointBoxscore  = "boxscore"

	gameTypeRegularSeason = 2
)

// client implements Provider over HTTP.
type client struct {
	baseURL    string
	userAgent  string
	maxRetries int
	httpClient *http.Client
	cache      gamecache.Cache
	log        logger.Logger
}

// New creates a Provider with configuration options.
func New(opts ...Option) Provider {
	c := &client{
		baseURL:    defaultBaseURL,
		userAgent:  defaultUserAgent,
		maxRetries: defaultRetries,
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        logger.Get().Named("nhl"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cache == nil {
		c.cache = gamecache.New()
	}
	return c
}

// Standings fetches /v1/standings/now and converts each row.
func (c *client) Standings(ctx context.Context) ([]model.TeamSeasonStats, error) {
	var resp standingsResponse
	url := fmt.Sprintf("%s/v1/standings/now", c.baseURL)
	if err := c.getJSON(ctx, endpointStandings, url, &resp); err != nil {
		return nil, err
	}
	if len(resp.Standings) == 0 {
		return nil, fmt.Errorf("%w: standings feed returned no teams", ErrBadPayload)
	}

	stats := make([]model.TeamSeasonStats, 0, len(resp.Standings))
	for _, row := range resp.Standings {
		stats = append(stats, row.toSeasonStats())
	}
	return stats, nil
}

// RecentGames walks the weekly schedule pages between from and to, then
// resolves each completed game through the cache or a boxscore fetch.
// Individual game failures are logged and skipped so one bad boxscore
// cannot sink a whole refresh.
func (c *client) RecentGames(ctx context.Context, teamID string, from, to time.Time) ([]model.RecentGameResult, error) {
	games, err := c.schedule(ctx, teamID, from, to)
	if err != nil {
		return nil, err
	}

	results := make([]model.RecentGameResult, 0, len(games))
	for _, g := range games {
		key := gamecache.Key(g.ID, teamID)
		if cached, ok := c.cache.Get(ctx, key); ok {
			metrics.RecordGameCacheHit()
			results = append(results, cached)
			continue
		}
		metrics.RecordGameCacheMiss()

		result, err := c.boxscoreResult(ctx, g.ID, teamID)
		if err != nil {
			c.log.Warn(ctx, "skipping game",
				logger.Int("game_id", g.ID),
				logger.String("team", teamID),
				logger.Error(err))
			continue
		}
		c.cache.Put(ctx, key, result)
		metrics.UpdateGameCacheSize(c.cache.Size())
		results = append(results, result)
	}

	// Most recent first.
	for i, j := 0, len(results)-1; i < j; i, j = i+1, j-1 {
		results[i], results[j] = results[j], results[i]
	}
	return results, nil
}

// schedule pages through /v1/club-schedule/{team}/week/{date} via
// nextStartDate until the window is covered, keeping completed
// regular-season games only.
func (c *client) schedule(ctx context.Context, teamID string, from, to time.Time) ([]scheduleGame, error) {
	var all []scheduleGame
	start := from.Format("2006-01-02")

	for {
		var page scheduleResponse
		url := fmt.Sprintf("%s/v1/club-schedule/%s/week/%s", c.baseURL, teamID, start)
		if err := c.getJSON(ctx, endpointSchedule, url, &page); err != nil {
			return nil, err
		}

		for _, g := range page.Games {
			day, err := time.Parse("2006-01-02", g.GameDate)
			if err != nil || day.After(to) {
				continue
			}
			if g.GameType != gameTypeRegularSeason || !g.completed() {
				continue
			}
			all = append(all, g)
		}

		if page.NextStartDate == "" {
			break
		}
		next, err := time.Parse("2006-01-02", page.NextStartDate)
		if err != nil || next.After(to) {
			break
		}
		start = page.NextStartDate
	}
	return all, nil
}

// boxscoreResult fetches and processes a single game's boxscore.
func (c *client) boxscoreResult(ctx context.Context, gameID int, teamID string) (model.RecentGameResult, error) {
	var box boxscoreResponse
	url := fmt.Sprintf("%s/v1/gamecenter/%d/boxscore", c.baseURL, gameID)
	if err := c.getJSON(ctx, endpointBoxscore, url, &box); err != nil {
		return model.RecentGameResult{}, err
	}
	return processBoxscore(&box, teamID)
}

// getJSON performs a GET with retries. Non-2xx statuses and transport
// errors are retried with a flat backoff; the last error wins.
func (c *client) getJSON(ctx context.Context, endpoint, url string, out any) error {
	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		start := time.Now()
		metrics.RecordProviderRequest(endpoint)
		lastErr = c.doOnce(ctx, url, out)
		metrics.RecordProviderLatency(endpoint, float64(time.Since(start).Milliseconds()))

		if lastErr == nil {
			return nil
		}
		metrics.RecordProviderError(endpoint)
		c.log.Debug(ctx, "request failed",
			logger.String("url", url),
			logger.Int("attempt", attempt),
			logger.Error(lastErr))

		if attempt < c.maxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryBackoff):
			}
		}
	}
	return fmt.Errorf("%w: %v", ErrRequestFailed, lastErr)
}

func (c *client) doOnce(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	return nil
}
