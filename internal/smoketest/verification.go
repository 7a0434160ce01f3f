package smoketest

import (
	"context"
	"fmt"
	"log"
)

// verifyResults cross-checks the ranking table against per-team
// lookups and the movers payload.
func verifyResults(ctx context.Context, config *Config, table *Table, entries []Entry, movers []Mover) error {
	log.Println("Verifying results...")

	if table == nil || len(table.Teams) == 0 {
		return fmt.Errorf("no table to verify")
	}

	if err := verifyTableShape(table); err != nil {
		return fmt.Errorf("table shape: %w", err)
	}
	log.Println("table shape verified")

	if err := verifyRankConsistency(table, entries); err != nil {
		return fmt.Errorf("rank consistency: %w", err)
	}
	log.Println("per-team rank consistency verified")

	if len(movers) > 0 {
		if err := verifyMoverOrdering(movers); err != nil {
			log.Printf("mover ordering warning: %v", err)
		} else {
			log.Println("mover ordering verified")
		}
	}

	displayTopTeams(table, config.Verbose)

	log.Println("result verification completed")
	return nil
}

// verifyTableShape checks that ranks are contiguous from 1 and scores
// never increase down the table.
func verifyTableShape(table *Table) error {
	for i, row := range table.Teams {
		if row.Rank != i+1 {
			return fmt.Errorf("row %d has rank %d, want %d", i, row.Rank, i+1)
		}
		if i > 0 && row.Score > table.Teams[i-1].Score {
			return fmt.Errorf("row %d (%s) has higher score than row %d", i, row.TeamID, i-1)
		}
	}
	return nil
}

// verifyRankConsistency checks that every per-team lookup matches the
// corresponding row of the full table.
func verifyRankConsistency(table *Table, entries []Entry) error {
	byTeam := make(map[string]Entry, len(table.Teams))
	for _, row := range table.Teams {
		byTeam[row.TeamID] = row
	}

	for _, entry := range entries {
		row, ok := byTeam[entry.TeamID]
		if !ok {
			return fmt.Errorf("team %s returned by /rank but missing from the table", entry.TeamID)
		}
		if entry.Rank != row.Rank {
			return fmt.Errorf("team %s: /rank says %d, table says %d", entry.TeamID, entry.Rank, row.Rank)
		}
		if entry.Score != row.Score {
			return fmt.Errorf("team %s: /rank score %.3f, table score %.3f", entry.TeamID, entry.Score, row.Score)
		}
	}
	return nil
}

// verifyMoverOrdering checks the movers payload is sorted by rank gain
// and that the deltas are internally consistent.
func verifyMoverOrdering(movers []Mover) error {
	for i, m := range movers {
		if m.OriginalRank-m.NewRank != m.RankDelta {
			return fmt.Errorf("team %s: delta %d does not match ranks %d -> %d",
				m.TeamID, m.RankDelta, m.OriginalRank, m.NewRank)
		}
		if i > 0 && m.RankDelta > movers[i-1].RankDelta {
			return fmt.Errorf("movers not sorted: row %d gains more than row %d", i, i-1)
		}
	}
	return nil
}

// displayTopTeams shows the top of the retrieved table.
func displayTopTeams(table *Table, verbose bool) {
	topN := 10
	if len(table.Teams) < topN {
		topN = len(table.Teams)
	}

	log.Printf("Top %d teams (%s):", topN, table.Variant)
	for i := 0; i < topN; i++ {
		row := table.Teams[i]
		log.Printf("   %d. %s (%s) - Score: %.2f", row.Rank, row.TeamName, row.TeamID, row.Score)
	}

	if verbose && len(table.Teams) > 0 {
		sum := 0.0
		partial := 0
		for _, row := range table.Teams {
			sum += row.Score
			if row.Partial {
				partial++
			}
		}
		log.Printf("score statistics: avg %.2f, max %.2f, min %.2f, partial %d",
			sum/float64(len(table.Teams)),
			table.Teams[0].Score,
			table.Teams[len(table.Teams)-1].Score,
			partial)
	}
}
