package simulate

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/pucklab/puckrank/internal/domain/directory"
	"github.com/pucklab/puckrank/internal/domain/model"
	"github.com/pucklab/puckrank/internal/domain/ranking"
	"github.com/pucklab/puckrank/pkg/logger"
)

// File permission constants.
const (
	outputFilePermission = 0600
)

// Run generates a synthetic league, computes both ranking variants and
// verifies the ranking invariants against the output.
func Run(ctx context.Context, config *Config) error {
	start := time.Now()
	runID := uuid.NewString()

	logger.Get().Info(ctx, "starting ranking simulation",
		logger.String("runId", runID),
		logger.Any("seed", config.Seed),
		logger.Int("gamesPlayed", config.GamesPlayed),
		logger.Int("recentGames", config.RecentGames),
		logger.Int("failureEvery", config.FailureEvery))

	// Step 1: Generate the league
	gen := newGenerator(config.Seed)
	snapshots := gen.snapshots(config)
	log.Printf("Generated %d team snapshots", len(snapshots))

	// Step 2: Compute both variants
	engine := ranking.New(ranking.WithRecentGamesWindow(config.RecentGames))

	baseline, err := engine.ComputeRankings(ctx, snapshots)
	if err != nil {
		return fmt.Errorf("baseline computation failed: %w", err)
	}
	improved, err := engine.ComputeImproved(ctx, snapshots)
	if err != nil {
		return fmt.Errorf("improved computation failed: %w", err)
	}

	// Step 3: Verify invariants on both tables
	if err := verifyTable("baseline", baseline, true); err != nil {
		return fmt.Errorf("baseline verification failed: %w", err)
	}
	if err := verifyTable("improved", improved, false); err != nil {
		return fmt.Errorf("improved verification failed: %w", err)
	}
	log.Println("ranking invariants verified for both variants")

	// Step 4: Print the tables
	printTable("baseline", baseline, config.Verbose)
	printTable("improved", improved, config.Verbose)
	printShifts(baseline, improved)

	// Step 5: Save results
	result := &Result{
		RunID:    runID,
		Baseline: toRows(baseline),
		Improved: toRows(improved),
	}
	if config.OutputFile != "" {
		if err := saveResult(config.OutputFile, result); err != nil {
			logger.Get().Warn(ctx, "failed to save result", logger.Error(err))
		} else {
			log.Printf("result saved to %s", config.OutputFile)
		}
	}

	logger.Get().Info(ctx, "simulation completed",
		logger.String("runId", runID),
		logger.Int("teams", len(baseline)),
		logger.String("duration", time.Since(start).String()))
	return nil
}

// printTable writes one variant's table to the log.
func printTable(variant string, scores []model.TeamScore, verbose bool) {
	log.Printf("=== %s rankings ===", variant)
	for _, s := range scores {
		marker := ""
		if s.Partial {
			marker = " (partial)"
		}
		log.Printf("%3d. %-22s %s %7.2f%s", s.Rank, directory.Name(s.TeamID), s.TeamID, s.Score, marker)
		if verbose {
			c := s.Components
			log.Printf("      recent %.2f  season %.2f  perf %.2f  special %.2f  quality %.2f",
				c.Recent, c.Season, c.Performance, c.SpecialTeams, c.QualityWins)
		}
	}
}

// printShifts shows how the two variants disagree, using the same
// comparison the movers endpoint is built on.
func printShifts(baseline, improved []model.TeamScore) {
	entries := ranking.Compare(baseline, improved)

	shifted := 0
	for _, e := range entries {
		if e.RankDelta != 0 {
			shifted++
		}
	}
	log.Printf("=== variant disagreement: %d of %d teams shift ===", shifted, len(entries))
	for _, e := range entries {
		if e.RankDelta != 0 {
			log.Printf("  %s: baseline %d -> improved %d (delta %+d)",
				e.TeamID, e.OriginalRank, e.NewRank, e.RankDelta)
		}
	}
}

func toRows(scores []model.TeamScore) []Row {
	rows := make([]Row, len(scores))
	for i, s := range scores {
		rows[i] = Row{
			Rank:     s.Rank,
			TeamID:   s.TeamID,
			TeamName: directory.Name(s.TeamID),
			Score:    s.Score,
			Partial:  s.Partial,
		}
	}
	return rows
}

func saveResult(filename string, result *Result) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	if err := os.WriteFile(filename, data, outputFilePermission); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}
