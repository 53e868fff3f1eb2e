package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/offseason/internal/simulate"
)

// Default configuration constants.
const (
	defaultDrafts     = 20
	defaultOffers     = 200
	defaultWorkers    = 2 // multiplier for runtime.NumCPU()
	defaultSeed       = 1
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		drafts     = flag.Int("drafts", defaultDrafts, "Number of real-mode drafts to play")
		offers     = flag.Int("offers", defaultOffers, "Number of contract offers to submit")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		seed       = flag.Int64("seed", defaultSeed, "Seed of the first draft")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile = flag.String("output", "", "Write the played drafts as JSON to this file")
		logFile    = flag.String("log", "", "Also write logs to this file")
		logLevel   = flag.String("level", "info", "Log level")
		verbose    = flag.Bool("verbose", false, "Log every finished draft")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		simulate.ShowHelp()
		return
	}

	if err := simulate.SetupLogging(*logFile, *logLevel); err != nil {
		_, _ = os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	cfg := &simulate.Config{
		BaseURL:    *baseURL,
		Drafts:     *drafts,
		Offers:     *offers,
		Workers:    *workers,
		Seed:       *seed,
		Timeout:    *timeout,
		OutputFile: *outputFile,
		Verbose:    *verbose,
	}

	if _, err := simulate.Run(ctx, cfg); err != nil {
		_, _ = os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1) //nolint:gocritic // cancel called above
	}
}
