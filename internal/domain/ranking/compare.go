package ranking

import "github.com/pucklab/puckrank/internal/domain/model"

// Compare joins two ranked runs by team id and reports per-team rank and
// score movement. Teams absent from either side are excluded. RankDelta is
// original minus new (positive = the team climbed); ScoreDelta is new minus
// original. No output ordering is imposed; presentation layers sort.
func Compare(original, updated []model.TeamScore) []model.ComparisonEntry {
	prev := make(map[string]model.TeamScore, len(original))
	for _, s := range original {
		prev[s.TeamID] = s
	}

	entries := make([]model.ComparisonEntry, 0, len(updated))
	for _, next := range updated {
		before, ok := prev[next.TeamID]
		if !ok {
			continue
		}
		entries = append(entries, model.ComparisonEntry{
			TeamID:        next.TeamID,
			OriginalRank:  before.Rank,
			NewRank:       next.Rank,
			RankDelta:     before.Rank - next.Rank,
			OriginalScore: before.Score,
			NewScore:      next.Score,
			ScoreDelta:    next.Score - before.Score,
		})
	}
	return entries
}
