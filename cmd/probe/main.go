package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/dailyword/internal/probe"
	"github.com/okian/dailyword/pkg/logger"
)

// Default configuration constants.
const (
	defaultClients      = 200
	defaultWorkers      = 4 // multiplier for runtime.NumCPU()
	defaultTimeout      = 10 * time.Second
	defaultProbeTimeout = 2 * time.Minute
)

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:9080", "Base URL of the service")
		clients  = flag.Int("clients", defaultClients, "Number of daily word requests")
		workers  = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		testDate = flag.String("testdate", "", "Optional YYYY-MM-DD override sent with every request")
		timeout  = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		format   = flag.String("log-format", logger.FormatText, "Log format: text or json")
		verbose  = flag.Bool("verbose", false, "Log every response")
	)
	flag.Parse()

	if err := logger.Init(logger.WithFormat(*format)); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultProbeTimeout)
	defer cancel()

	if _, err := probe.Run(ctx, &probe.Config{
		BaseURL:  *baseURL,
		Clients:  *clients,
		Workers:  *workers,
		TestDate: *testDate,
		Timeout:  *timeout,
		Verbose:  *verbose,
	}); err != nil {
		os.Stderr.WriteString("Probe failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
