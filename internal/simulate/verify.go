package simulate

import (
	"fmt"
	"math"

	"github.com/pucklab/puckrank/internal/domain/model"
)

// Baseline component ceilings, mirrored from the scoring rules.
const (
	capRecent       = 75.0
	capSeason       = 25.0
	capPerformance  = 50.0
	capSpecialTeams = 30.0
	capQualityWins  = 20.0
)

// verifyTable checks the structural invariants every ranking table must
// hold: a contiguous 1-based rank permutation with unique teams, scores
// never increasing down the table, and every score finite. For the
// baseline variant the per-component caps are checked too.
func verifyTable(variant string, scores []model.TeamScore, checkCaps bool) error {
	if len(scores) == 0 {
		return fmt.Errorf("%s: empty table", variant)
	}

	seen := make(map[string]bool, len(scores))
	for i, s := range scores {
		if s.Rank != i+1 {
			return fmt.Errorf("%s: row %d has rank %d, want %d", variant, i, s.Rank, i+1)
		}
		if seen[s.TeamID] {
			return fmt.Errorf("%s: team %s appears twice", variant, s.TeamID)
		}
		seen[s.TeamID] = true

		if math.IsNaN(s.Score) || math.IsInf(s.Score, 0) {
			return fmt.Errorf("%s: team %s has non-finite score", variant, s.TeamID)
		}
		if i > 0 && s.Score > scores[i-1].Score {
			return fmt.Errorf("%s: team %s outscores the row above it", variant, s.TeamID)
		}

		if checkCaps {
			if err := verifyComponents(s); err != nil {
				return fmt.Errorf("%s: %w", variant, err)
			}
		}
	}
	return nil
}

func verifyComponents(s model.TeamScore) error {
	checks := []struct {
		name  string
		value float64
		limit float64
	}{
		{"recent", s.Components.Recent, capRecent},
		{"season", s.Components.Season, capSeason},
		{"performance", s.Components.Performance, capPerformance},
		{"special_teams", s.Components.SpecialTeams, capSpecialTeams},
		{"quality_wins", s.Components.QualityWins, capQualityWins},
	}
	for _, c := range checks {
		if c.value < 0 || c.value > c.limit {
			return fmt.Errorf("team %s: component %s = %.3f outside [0, %.0f]",
				s.TeamID, c.name, c.value, c.limit)
		}
	}
	return nil
}
