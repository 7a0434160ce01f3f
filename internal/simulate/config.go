package simulate

// Config holds configuration for a simulation run
type Config struct {
	Seed         int64  // Seed for the deterministic generator
	GamesPlayed  int    // Season games played per team
	RecentGames  int    // Recent-window length per team
	OutputFile   string // Output file for the computed tables
	Verbose      bool   // Enable verbose logging
	FailureEvery int    // Every Nth team gets a degraded snapshot (0 disables)
}

// Result bundles the outcome of one simulation run
type Result struct {
	RunID    string
	Baseline []Row
	Improved []Row
}

// Row is one serializable row of a simulated ranking table
type Row struct {
	Rank     int     `json:"rank"`
	TeamID   string  `json:"team"`
	TeamName string  `json:"team_name"`
	Score    float64 `json:"score"`
	Partial  bool    `json:"partial,omitempty"`
}
