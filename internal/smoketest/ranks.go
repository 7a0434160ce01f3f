package smoketest

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// retrieveTeamRanks looks up every ranked team individually and
// collects the per-team entries for cross-checking against the table.
func retrieveTeamRanks(ctx context.Context, config *Config, table *Table, stats *Stats) ([]Entry, error) {
	log.Printf("Retrieving ranks for %d teams with %d workers...", len(table.Teams), config.Workers)

	client := newHTTPClient(config.Timeout)

	teamIDs := make([]string, len(table.Teams))
	for i, row := range table.Teams {
		teamIDs[i] = row.TeamID
	}

	// Results storage
	entries := make([]Entry, len(teamIDs))
	var (
		retrieved int64
		failed    int64
	)

	// Progress reporting
	var lastReport time.Time
	reportInterval := 1 * time.Second

	// Create worker pool
	teamChan := make(chan int, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			for index := range teamChan {
				select {
				case <-ctx.Done():
					return
				default:
					teamID := teamIDs[index]
					entry, err := retrieveSingleRank(ctx, client, config, teamID)

					if err != nil {
						atomic.AddInt64(&failed, 1)
						if config.Verbose {
							log.Printf("failed to get rank for %s: %v", teamID, err)
						}
					} else {
						entries[index] = entry
						atomic.AddInt64(&retrieved, 1)
					}

					// Progress reporting
					if time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						total := atomic.LoadInt64(&retrieved) + atomic.LoadInt64(&failed)
						log.Printf("ranks: %d/%d retrieved (success: %d, failed: %d)",
							total, len(teamIDs), atomic.LoadInt64(&retrieved), atomic.LoadInt64(&failed))
					}
				}
			}
		}(i)
	}

	// Send team indices to workers
	go func() {
		defer close(teamChan)
		for i := range teamIDs {
			select {
			case <-ctx.Done():
				return
			case teamChan <- i:
			}
		}
	}()

	// Wait for all workers to complete
	wg.Wait()

	// Filter out empty entries (failed retrievals)
	validEntries := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if entry.TeamID != "" {
			validEntries = append(validEntries, entry)
		}
	}

	// Update stats
	stats.RanksRetrieved = len(validEntries)
	stats.RanksFailed = int(atomic.LoadInt64(&failed))

	log.Printf("rank retrieval completed: retrieved %d, failed %d",
		len(validEntries), stats.RanksFailed)

	return validEntries, nil
}

// retrieveSingleRank retrieves the rank entry for a single team.
func retrieveSingleRank(ctx context.Context, client *HTTPClient, config *Config, teamID string) (Entry, error) {
	url := fmt.Sprintf("%s/rank/%s?variant=%s", config.BaseURL, teamID, config.Variant)

	var entry Entry
	if err := client.getJSON(ctx, url, &entry); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// retrieveMovers fetches the rank comparison. A service with a single
// completed run legitimately has no movers yet, so failures here only
// log and return nil.
func retrieveMovers(ctx context.Context, config *Config, stats *Stats) []Mover {
	log.Printf("Getting movers for variant %q...", config.Variant)

	client := newHTTPClient(config.Timeout)
	url := fmt.Sprintf("%s/movers?variant=%s", config.BaseURL, config.Variant)

	var payload MoversPayload
	if err := client.getJSON(ctx, url, &payload); err != nil {
		log.Printf("movers not available: %v", err)
		return nil
	}

	stats.MoversRows = len(payload.Movers)
	log.Printf("retrieved %d mover rows", len(payload.Movers))
	return payload.Movers
}
