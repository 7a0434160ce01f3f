package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/pucklab/puckrank/internal/simulate"
	"github.com/pucklab/puckrank/pkg/logger"
)

// Default configuration constants.
const (
	defaultGamesPlayed  = 50
	defaultRecentGames  = 10
	defaultFailureEvery = 0
	defaultRunTimeout   = 1 * time.Minute
)

func main() {
	var (
		seed         = flag.Int64("seed", time.Now().UnixNano(), "Seed for the deterministic generator")
		gamesPlayed  = flag.Int("games", defaultGamesPlayed, "Season games played per team")
		recentGames  = flag.Int("recent", defaultRecentGames, "Recent-window length per team")
		failureEvery = flag.Int("fail-every", defaultFailureEvery, "Degrade every Nth team's snapshot (0 disables)")
		outputFile   = flag.String("output", "", "Output file for the computed tables (JSON)")
		verbose      = flag.Bool("verbose", false, "Print per-component breakdowns")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &simulate.Config{
		Seed:         *seed,
		GamesPlayed:  *gamesPlayed,
		RecentGames:  *recentGames,
		FailureEvery: *failureEvery,
		OutputFile:   *outputFile,
		Verbose:      *verbose,
	}

	if err := simulate.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		return
	}
}
