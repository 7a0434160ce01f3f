package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/pucklab/puckrank/internal/smoketest"
)

// Default configuration constants.
const (
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultWaitFor     = 2 * time.Minute
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:8090", "Base URL of the service")
		variant    = flag.String("variant", "baseline", "Ranking variant to exercise")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		waitFor    = flag.Duration("wait", defaultWaitFor, "How long to wait for the first snapshot")
		outputFile = flag.String("output", "", "Output file for the retrieved table (default: rankings_TIMESTAMP.json)")
		logFile    = flag.String("log", "", "Log file for test output (default: smoketest_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		smoketest.ShowHelp()
		return
	}

	// Setup logging
	if err := smoketest.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	// Create test configuration
	config := &smoketest.Config{
		BaseURL:    *baseURL,
		Variant:    *variant,
		Workers:    *workers,
		Timeout:    *timeout,
		WaitFor:    *waitFor,
		OutputFile: *outputFile,
		LogFile:    *logFile,
		Verbose:    *verbose,
	}

	// Run the test
	if err := smoketest.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Smoke test failed: " + err.Error() + "\n")
		return
	}
}
