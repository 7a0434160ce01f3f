// Package types contains API-facing types shared across the application
package types

import "time"

// RankingEntry is one row of a served power ranking.
type RankingEntry struct {
	Rank     int     `json:"rank"`
	TeamID   string  `json:"team"`
	TeamName string  `json:"team_name"`
	LogoURL  string  `json:"logo_url"`
	Score    float64 `json:"score"`
	Partial  bool    `json:"partial,omitempty"`

	Components Components `json:"components"`
}

// Components mirrors the per-component breakdown of a team score.
type Components struct {
	Recent       float64 `json:"recent"`
	Season       float64 `json:"season"`
	Performance  float64 `json:"performance"`
	SpecialTeams float64 `json:"special_teams"`
	QualityWins  float64 `json:"quality_wins"`
}

// Mover is one row of a ranking comparison, ordered by rank gain.
type Mover struct {
	TeamID        string  `json:"team"`
	TeamName      string  `json:"team_name"`
	OriginalRank  int     `json:"original_rank"`
	NewRank       int     `json:"new_rank"`
	RankDelta     int     `json:"rank_delta"`
	OriginalScore float64 `json:"original_score"`
	NewScore      float64 `json:"new_score"`
	ScoreDelta    float64 `json:"score_delta"`
}

// RankingsResponse is the GET /rankings payload.
type RankingsResponse struct {
	Variant    string         `json:"variant"`
	RunID      string         `json:"run_id"`
	ComputedAt time.Time      `json:"computed_at"`
	Teams      []RankingEntry `json:"teams"`
}

// MoversResponse is the GET /movers payload.
type MoversResponse struct {
	Variant string  `json:"variant"`
	Movers  []Mover `json:"movers"`
}

// RefreshAccepted is the POST /refresh payload.
type RefreshAccepted struct {
	TriggerID string `json:"trigger_id"`
	Status    string `json:"status"` // "queued" or "coalesced"
}
