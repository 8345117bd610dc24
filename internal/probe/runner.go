// Package probe checks a running service for cross-client convergence:
// many concurrent first callers must all see the same daily word.
package probe

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/okian/dailyword/pkg/logger"
)

// Run fires cfg.Clients concurrent daily word requests and verifies that
// every successful response carries the same word and date.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Named("probe")

	log.Info(ctx, "starting daily word probe",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("clients", cfg.Clients),
		logger.Int("workers", cfg.Workers),
		logger.String("testdate", cfg.TestDate),
		logger.Duration("timeout", cfg.Timeout))

	client := newHTTPClient(cfg.Timeout)

	if err := checkServiceHealth(ctx, client, cfg.BaseURL); err != nil {
		return stats, err
	}

	words := fetchConcurrently(ctx, log, client, cfg, stats)

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	err := verify(words, stats)
	displayFinalStats(ctx, log, stats)
	if err != nil {
		return stats, err
	}

	log.Info(ctx, "probe completed successfully")
	return stats, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *httpClient, baseURL string) error {
	status, _, err := client.get(ctx, baseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, status)
	}
	return nil
}

// fetchConcurrently runs the requests through a worker pool and returns
// the successful answers.
func fetchConcurrently(ctx context.Context, log logger.Logger, client *httpClient, cfg *Config, stats *Stats) []Word {
	workers := cfg.Workers
	if workers <= 0 || workers > cfg.Clients {
		workers = cfg.Clients
	}

	jobs := make(chan int, cfg.Clients)
	for i := 0; i < cfg.Clients; i++ {
		jobs <- i
	}
	close(jobs)

	var (
		mu    sync.Mutex
		words []Word
		wg    sync.WaitGroup
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := range jobs {
				if ctx.Err() != nil {
					return
				}
				w, err := client.fetchWord(ctx, cfg.BaseURL, cfg.TestDate)

				mu.Lock()
				stats.Requests++
				if err != nil {
					stats.Failed++
				} else {
					stats.Succeeded++
					words = append(words, w)
				}
				mu.Unlock()

				if err != nil {
					log.Warn(ctx, "request failed", logger.Int("client", n), logger.Error(err))
				} else if cfg.Verbose {
					log.Debug(ctx, "response",
						logger.Int("client", n),
						logger.String("primary", w.WordPrimary),
						logger.String("date", w.ActiveDate))
				}
			}
		}()
	}
	wg.Wait()
	return words
}

// verify checks that every answer is identical.
func verify(words []Word, stats *Stats) error {
	if len(words) == 0 {
		return ErrNoAnswers
	}

	seen := make(map[Word]int)
	for _, w := range words {
		seen[w]++
	}
	stats.Distinct = len(seen)
	stats.Word = words[0]

	if len(seen) > 1 {
		return fmt.Errorf("%w: %d distinct answers: %v", ErrDiverged, len(seen), seen)
	}
	return nil
}

// displayFinalStats logs the final probe statistics.
func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	var perSecond float64
	if stats.Duration > 0 {
		perSecond = float64(stats.Requests) / stats.Duration.Seconds()
	}

	log.Info(ctx, "final statistics",
		logger.Int("requests", stats.Requests),
		logger.Int("succeeded", stats.Succeeded),
		logger.Int("failed", stats.Failed),
		logger.Int("distinct", stats.Distinct),
		logger.String("primary", stats.Word.WordPrimary),
		logger.String("secondary", stats.Word.WordSecondary),
		logger.String("activeDate", stats.Word.ActiveDate),
		logger.Duration("duration", stats.Duration),
		logger.Float64("requestsPerSecond", perSecond))
}
