package simulate

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/offseason/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0o600
)

// SetupLogging configures logging to the console and, when logFile is set,
// to that file too.
func SetupLogging(logFile, level string) error {
	var out io.Writer = os.Stdout
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return fmt.Errorf("failed to create log file: %w", err)
		}
		out = io.MultiWriter(os.Stdout, file)
	}
	if err := logger.Init(logger.WithWriter(out)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if level != "" {
		if err := logger.SetLevelString(level); err != nil {
			return fmt.Errorf("invalid log level: %w", err)
		}
	}
	return nil
}

// ShowHelp prints usage information for the simulator.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Offseason Draft Simulator
=========================

Plays real-mode drafts and contract offers against a running service and
verifies that every drafted player lands on exactly one roster.

Usage:
  simulate [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -drafts int
        Number of drafts to play (default 20)
  -offers int
        Number of contract offers to submit (default 200)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -seed int
        Seed of the first draft (default 1)
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        Write the played drafts as JSON to this file
  -log string
        Also write logs to this file
  -level string
        Log level: debug, info, warn or error (default "info")
  -verbose
        Log every finished draft
  -help
        Show this help message

Examples:
  simulate -drafts 100 -workers 16
  simulate -url http://localhost:8080 -offers 0 -output drafts.json
`)
}
