// Package service wires the clock, word store, allocator and memo into the
// daily word service consumed by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/dailyword/internal/adapters/repository"
	"github.com/okian/dailyword/internal/domain/allocator"
	"github.com/okian/dailyword/internal/domain/clock"
	"github.com/okian/dailyword/internal/domain/memo"
	"github.com/okian/dailyword/internal/domain/model"
	"github.com/okian/dailyword/internal/provision"
	"github.com/okian/dailyword/pkg/logger"
	"github.com/okian/dailyword/pkg/metrics"
)

// Service resolves the daily word for API callers.
type Service struct {
	mu sync.RWMutex

	// Core components
	clock     *clock.Clock
	store     repository.Backend
	ownsStore bool
	allocator *allocator.Allocator
	memo      *memo.Memo
	redis     *memo.RedisBacking

	// Configuration
	timezone          string
	policy            allocator.Policy
	fallbackPrimary   string
	fallbackSecondary string
	storeConfig       repository.Config
	memoRedisURL      string
	seedFile          string

	// State
	started   bool
	startedAt time.Time

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		timezone:          clock.DefaultZone,
		policy:            allocator.DefaultPolicy(),
		fallbackPrimary:   allocator.FallbackPrimary,
		fallbackSecondary: allocator.FallbackSecondary,
		storeConfig:       repository.Config{Driver: repository.DriverMemory},
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.clock == nil {
		s.clock = clock.New(s.timezone)
	}
	return s
}

// Start opens the store and builds the allocator and memo.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting daily word service...")

	metrics.UpdateClockDegraded(s.clock.Degraded())
	if s.clock.Degraded() {
		s.logger.Warn(ctx, "timezone unavailable, using UTC civil dates", logger.String("zone", s.clock.Zone()))
	}

	if s.store == nil {
		store, err := repository.Open(ctx, s.storeConfig)
		if err != nil {
			return err
		}
		s.store = store
		s.ownsStore = true
		s.logger.Info(ctx, "word store opened", logger.String("driver", s.storeConfig.Driver))
	}

	if s.seedFile != "" {
		if err := s.seed(ctx); err != nil {
			s.closeStore(ctx)
			return err
		}
	}

	s.allocator = allocator.New(s.store,
		allocator.WithPolicy(s.policy),
		allocator.WithFallbackWord(s.fallbackPrimary, s.fallbackSecondary),
		allocator.WithLogger(s.logger.Named("allocator")),
	)

	memoOpts := []memo.Option{
		memo.WithTTL(s.clock.UntilMidnight),
		memo.WithLogger(s.logger.Named("memo")),
	}
	if s.memoRedisURL != "" {
		backing, err := memo.DialRedis(ctx, s.memoRedisURL)
		if err != nil {
			// The memo is best-effort; run without persistence.
			s.logger.Warn(ctx, "memo redis unavailable", logger.Error(err))
		} else {
			s.redis = backing
			memoOpts = append(memoOpts, memo.WithBacking(backing))
		}
	}
	s.memo = memo.New(memoOpts...)

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "daily word service started",
		logger.String("zone", s.clock.Zone()),
		logger.Int("cooldownDays", s.policy.CooldownDays),
		logger.Float64("usageShare", s.policy.UsageShare),
		logger.Bool("durableMemo", s.redis != nil),
	)

	return nil
}

// Stop releases the store and memo backing.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping daily word service...")

	if s.redis != nil {
		_ = s.redis.Close()
		s.redis = nil
	}
	s.closeStore(context.Background())

	s.started = false
	s.logger.Info(context.Background(), "daily word service stopped")
}

// seed upserts the configured word list. Existing records keep their
// rotation metadata, so restarting over a durable store is safe.
func (s *Service) seed(ctx context.Context) error {
	words, err := provision.LoadFile(s.seedFile)
	if err != nil {
		return err
	}
	report, err := provision.New(s.store, provision.WithLogger(s.logger.Named("seed"))).Apply(ctx, words)
	if err != nil {
		return fmt.Errorf("seed %s: %w", s.seedFile, err)
	}
	s.logger.Info(ctx, "word list loaded",
		logger.String("file", s.seedFile),
		logger.Int("inserted", report.Inserted),
		logger.Int("updated", report.Updated))
	return nil
}

func (s *Service) closeStore(ctx context.Context) {
	if !s.ownsStore || s.store == nil {
		return
	}
	if err := s.store.Close(); err != nil {
		s.logger.Warn(ctx, "closing word store", logger.Error(err))
	}
	s.store = nil
	s.ownsStore = false
}

// GetDailyWord returns the word for the override date when it is a valid
// YYYY-MM-DD, otherwise for today. It never fails.
func (s *Service) GetDailyWord(ctx context.Context, todayOverride string) model.DailyWord {
	today := s.clock.Resolve(todayOverride)

	s.mu.RLock()
	started, alloc, m := s.started, s.allocator, s.memo
	s.mu.RUnlock()

	if !started {
		metrics.RecordFallback("not_started")
		return s.GetFallbackWord(today)
	}

	return m.Get(ctx, today, func(ctx context.Context, date string) (model.DailyWord, bool) {
		word, outcome := alloc.Resolve(ctx, date)
		return word, outcome != allocator.Fallback
	})
}

// GetFallbackWord returns the fixed fallback word for today without touching
// the store.
func (s *Service) GetFallbackWord(today string) model.DailyWord {
	return model.DailyWord{
		WordPrimary:   s.fallbackPrimary,
		WordSecondary: s.fallbackSecondary,
		ActiveDate:    today,
	}
}

// Clock exposes the service clock.
func (s *Service) Clock() *clock.Clock {
	return s.clock
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":       s.started,
		"timezone":      s.clock.Zone(),
		"clockDegraded": s.clock.Degraded(),
		"today":         s.clock.Today(),
		"cooldownDays":  s.policy.CooldownDays,
		"usageShare":    s.policy.UsageShare,
		"storeDriver":   s.storeConfig.Driver,
		"durableMemo":   s.redis != nil,
		"seedFile":      s.seedFile,
	}

	if s.started {
		stats["uptimeSeconds"] = int64(time.Since(s.startedAt).Seconds())
		stats["memoDate"] = s.memo.Date()
		stats["outcomes"] = s.allocator.Stats()
	}

	return stats
}
