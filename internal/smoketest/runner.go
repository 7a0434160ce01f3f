package smoketest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pucklab/puckrank/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// Run executes the complete smoke test.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting puckrank smoke test",
		logger.String("baseURL", config.BaseURL),
		logger.String("variant", config.Variant),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.String("waitFor", config.WaitFor.String()),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Trigger a refresh
	if err := triggerRefresh(ctx, config, stats); err != nil {
		return fmt.Errorf("refresh trigger failed: %w", err)
	}

	// Step 3: Wait until a snapshot is served
	table, err := waitForSnapshot(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("snapshot wait failed: %w", err)
	}

	// Step 4: Retrieve per-team ranks concurrently
	entries, err := retrieveTeamRanks(ctx, config, table, stats)
	if err != nil {
		return fmt.Errorf("rank retrieval failed: %w", err)
	}

	// Step 5: Retrieve movers (tolerated when only one run exists)
	movers := retrieveMovers(ctx, config, stats)

	// Step 6: Verify results
	if err := verifyResults(ctx, config, table, entries, movers); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	// Step 7: Save the table to file
	if err := saveTableToFile(ctx, config, table); err != nil {
		logger.Get().Warn(ctx, "failed to save table to file", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "smoke test completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Accept any 200 response as healthy (the service returns Prometheus metrics)
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// triggerRefresh posts a manual refresh trigger.
func triggerRefresh(ctx context.Context, config *Config, stats *Stats) error {
	logger.Get().Info(ctx, "triggering refresh")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/refresh"

	resp, err := client.Post(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to post refresh: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != StatusAccepted {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var ack RefreshAck
	if err := json.Unmarshal(body, &ack); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	stats.RefreshStatus = ack.Status
	logger.Get().Info(ctx, "refresh accepted",
		logger.String("triggerId", ack.TriggerID),
		logger.String("status", ack.Status))
	return nil
}

// waitForSnapshot polls the rankings endpoint until a table is served
// or the wait budget runs out. A fresh service returns 503 until the
// first refresh run completes.
func waitForSnapshot(ctx context.Context, config *Config, stats *Stats) (*Table, error) {
	logger.Get().Info(ctx, "waiting for a ranking snapshot", logger.String("waitFor", config.WaitFor.String()))

	client := newHTTPClient(config.Timeout)
	url := fmt.Sprintf("%s/rankings?variant=%s", config.BaseURL, config.Variant)
	deadline := time.Now().Add(config.WaitFor)

	for {
		var table Table
		err := client.getJSON(ctx, url, &table)
		if err == nil && len(table.Teams) > 0 {
			stats.TeamsRanked = len(table.Teams)
			logger.Get().Info(ctx, "snapshot available",
				logger.String("runId", table.RunID),
				logger.Int("teams", len(table.Teams)))
			return &table, nil
		}

		if time.Now().After(deadline) {
			if err == nil {
				err = fmt.Errorf("rankings table is empty")
			}
			return nil, fmt.Errorf("no snapshot after %s: %w", config.WaitFor, err)
		}

		if config.Verbose {
			logger.Get().Info(ctx, "snapshot not ready yet", logger.Error(err))
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled while waiting for snapshot: %w", ctx.Err())
		case <-time.After(SnapshotPollInterval):
		}
	}
}

// saveTableToFile saves the retrieved ranking table to a JSON file.
func saveTableToFile(ctx context.Context, config *Config, table *Table) error {
	if table == nil || len(table.Teams) == 0 {
		return fmt.Errorf("no table to save")
	}

	// Determine output filename
	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "rankings_" + timestamp + ".json"
	}

	// Ensure the directory exists
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal table: %w", err)
	}
	if err := os.WriteFile(filename, data, logFilePermission); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	logger.Get().Info(ctx, "table saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final smoke test statistics.
func displayFinalStats(stats *Stats) {
	var successRate float64
	total := stats.RanksRetrieved + stats.RanksFailed
	if total > 0 {
		successRate = float64(stats.RanksRetrieved) / float64(total) * PercentageMultiplier
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("teamsRanked", stats.TeamsRanked),
		logger.Int("ranksRetrieved", stats.RanksRetrieved),
		logger.Int("ranksFailed", stats.RanksFailed),
		logger.Int("moversRows", stats.MoversRows),
		logger.String("refreshStatus", stats.RefreshStatus),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate))
}
