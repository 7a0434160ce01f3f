package smoketest

import "time"

// Config holds configuration for the smoke test
type Config struct {
	BaseURL    string        // Base URL of the service
	Variant    string        // Ranking variant to exercise
	Workers    int           // Number of concurrent workers for per-team lookups
	Timeout    time.Duration // HTTP request timeout
	WaitFor    time.Duration // How long to wait for the first snapshot
	OutputFile string        // Output file for the retrieved table
	LogFile    string        // Log file for test output
	Verbose    bool          // Enable verbose logging
}

// Entry mirrors one row of the served ranking table
type Entry struct {
	Rank     int     `json:"rank"`
	TeamID   string  `json:"team"`
	TeamName string  `json:"team_name"`
	Score    float64 `json:"score"`
	Partial  bool    `json:"partial"`
}

// Table mirrors the GET /rankings payload
type Table struct {
	Variant    string  `json:"variant"`
	RunID      string  `json:"run_id"`
	ComputedAt string  `json:"computed_at"`
	Teams      []Entry `json:"teams"`
}

// Mover mirrors one row of the GET /movers payload
type Mover struct {
	TeamID       string `json:"team"`
	OriginalRank int    `json:"original_rank"`
	NewRank      int    `json:"new_rank"`
	RankDelta    int    `json:"rank_delta"`
}

// MoversPayload mirrors the GET /movers payload
type MoversPayload struct {
	Variant string  `json:"variant"`
	Movers  []Mover `json:"movers"`
}

// RefreshAck mirrors the POST /refresh payload
type RefreshAck struct {
	TriggerID string `json:"trigger_id"`
	Status    string `json:"status"`
}

// Stats holds smoke test statistics
type Stats struct {
	TeamsRanked    int
	RanksRetrieved int
	RanksFailed    int
	MoversRows     int
	RefreshStatus  string
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
}
