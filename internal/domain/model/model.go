// Package model contains domain models passed between layers.
package model

import "time"

// GameOutcome classifies a completed game from one team's perspective.
type GameOutcome int

const (
	// OutcomeWin covers regulation, overtime and shootout wins.
	OutcomeWin GameOutcome = iota
	// OutcomeLoss is a regulation loss.
	OutcomeLoss
	// OutcomeOTLoss is an overtime or shootout loss (worth one point).
	OutcomeOTLoss
)

// TeamSeasonStats is an immutable season-to-date snapshot for one team,
// taken from the standings feed on each refresh cycle.
type TeamSeasonStats struct {
	TeamID         string
	GamesPlayed    int
	Wins           int
	Losses         int
	OTLosses       int
	Points         int
	PointsPct      float64 // 0-100
	RegulationWins int
	OvertimeWins   int
	ShootoutWins   int
	GoalsFor       int
	GoalsAgainst   int
	ShotsFor       int
	ShotsAgainst   int
	PowerPlayPct   float64 // 0-100
	PenaltyKillPct float64 // 0-100
	SavePct        float64 // 0-100
	ShootingPct    float64 // 0-100
	StreakType     string  // "W", "L" or "OT"
	StreakCount    int
}

// RecentGameResult is one completed game from a team's perspective.
type RecentGameResult struct {
	TeamID        string
	GameID        int
	Date          time.Time
	Outcome       GameOutcome
	GoalsFor      int
	GoalsAgainst  int
	ShotsFor      int
	ShotsAgainst  int
	Home          bool
	ScoredFirst   bool
	EmptyNetGoals int // goals in this game scored into an empty net
}

// Margin returns the signed score margin (positive for a win).
func (g RecentGameResult) Margin() int {
	return g.GoalsFor - g.GoalsAgainst
}

// Points returns the standings points earned in this game.
func (g RecentGameResult) Points() int {
	switch g.Outcome {
	case OutcomeWin:
		return 2
	case OutcomeOTLoss:
		return 1
	default:
		return 0
	}
}

// CloseGame reports whether the game was decided by a single goal,
// ignoring empty-net goals that pad the final margin.
func (g RecentGameResult) CloseGame() bool {
	diff := g.Margin()
	if diff < 0 {
		diff = -diff
	}
	return diff == 1 || diff-g.EmptyNetGoals == 1
}

// ComebackWin reports whether the team won without scoring first.
func (g RecentGameResult) ComebackWin() bool {
	return g.Outcome == OutcomeWin && !g.ScoredFirst
}

// TeamSnapshot bundles everything the ranking engine needs for one team.
// Season is nil when the standings fetch failed for the team; Recent is
// ordered most recent first and may be empty.
type TeamSnapshot struct {
	TeamID string
	Season *TeamSeasonStats
	Recent []RecentGameResult
}

// ComponentScores holds the clamped sub-component values of a team score.
type ComponentScores struct {
	Recent       float64 `json:"recent"`
	Season       float64 `json:"season"`
	Performance  float64 `json:"performance"`
	SpecialTeams float64 `json:"special_teams"`
	QualityWins  float64 `json:"quality_wins"`
}

// TeamScore is one row of a computed ranking.
type TeamScore struct {
	Rank       int             `json:"rank"`
	TeamID     string          `json:"team"`
	Score      float64         `json:"score"`
	Components ComponentScores `json:"components"`
	// Partial marks a team scored from incomplete data; missing
	// components contributed zero.
	Partial bool `json:"partial,omitempty"`
}

// ComparisonEntry is the per-team result of joining two ranking runs.
// RankDelta is original minus new, so positive means the team improved.
type ComparisonEntry struct {
	TeamID        string  `json:"team"`
	OriginalRank  int     `json:"original_rank"`
	NewRank       int     `json:"new_rank"`
	RankDelta     int     `json:"rank_delta"`
	OriginalScore float64 `json:"original_score"`
	NewScore      float64 `json:"new_score"`
	ScoreDelta    float64 `json:"score_delta"`
}
