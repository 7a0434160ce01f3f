package smoketest

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/pucklab/puckrank/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	// Initialize the logger first
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "smoketest_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the smoke test tool.
func ShowHelp() {
	os.Stdout.WriteString(`Puckrank Smoke Test Tool
========================

Exercises a running puckrank service end to end: triggers a refresh,
waits for the snapshot, and cross-checks every read endpoint against
the full ranking table.

Usage:
  go run cmd/smoketest/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:8090")
  -variant string
        Ranking variant to exercise (default "baseline")
  -workers int
        Number of concurrent workers for per-team lookups (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -wait duration
        How long to wait for the first snapshot (default 2m)
  -output string
        Output file for the retrieved table (default: rankings_TIMESTAMP.json)
  -log string
        Log file for test output (default: smoketest_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Smoke test a local service with default settings
  go run cmd/smoketest/main.go

  # Exercise the improved variant against a remote host
  go run cmd/smoketest/main.go -variant improved -url http://rankings:8090

  # Keep the retrieved table for later inspection
  go run cmd/smoketest/main.go -output table.json -verbose
`)
}
