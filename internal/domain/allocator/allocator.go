// Package allocator assigns the word of the day against a shared store.
//
// Every client runs the same protocol independently: look for today's
// assignment, otherwise pick a candidate deterministically, recheck, and
// commit. The recheck turns most write races into "first committer wins";
// the remaining window is tolerated as last-writer-wins on a single row.
package allocator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/okian/dailyword/internal/adapters/repository"
	"github.com/okian/dailyword/internal/domain/clock"
	"github.com/okian/dailyword/internal/domain/model"
	"github.com/okian/dailyword/pkg/logger"
	"github.com/okian/dailyword/pkg/metrics"
)

// Fixed fallback word.
const (
	FallbackPrimary   = "EXPLORE"
	FallbackSecondary = "explorar"
)

// Outcome is the terminal state of one resolution.
type Outcome string

// Terminal states.
const (
	Found     Outcome = metrics.OutcomeFound
	Committed Outcome = metrics.OutcomeCommitted
	LostRace  Outcome = metrics.OutcomeLostRace
	Fallback  Outcome = metrics.OutcomeFallback
)

// Allocator resolves the daily word. It holds no state between calls other
// than counters; the store is the only shared resource.
type Allocator struct {
	store  repository.Store
	policy Policy
	log    logger.Logger

	fallbackPrimary   string
	fallbackSecondary string

	found     atomic.Int64
	committed atomic.Int64
	lostRace  atomic.Int64
	fallbacks atomic.Int64
}

// New builds an allocator over store.
func New(store repository.Store, opts ...Option) *Allocator {
	a := &Allocator{
		store:             store,
		policy:            DefaultPolicy(),
		log:               logger.Discard(),
		fallbackPrimary:   FallbackPrimary,
		fallbackSecondary: FallbackSecondary,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Policy returns the active rotation policy.
func (a *Allocator) Policy() Policy { return a.policy }

// Fallback returns the fixed fallback word for today. It never touches the
// store and is never persisted.
func (a *Allocator) Fallback(today string) model.DailyWord {
	return model.DailyWord{
		WordPrimary:   a.fallbackPrimary,
		WordSecondary: a.fallbackSecondary,
		ActiveDate:    today,
	}
}

// Resolve returns the word for today, assigning one if needed. It always
// returns a word: every failure degrades to Fallback.
func (a *Allocator) Resolve(ctx context.Context, today string) (model.DailyWord, Outcome) {
	start := time.Now()
	word, outcome, err := a.resolve(ctx, today)
	if err != nil {
		a.log.Warn(ctx, "serving fallback word",
			logger.String("date", today),
			logger.String("reason", reason(err)),
			logger.Error(err))
		metrics.RecordFallback(reason(err))
		word, outcome = a.Fallback(today), Fallback
	}

	a.count(outcome)
	metrics.RecordAllocation(string(outcome))
	metrics.RecordResolveLatency(float64(time.Since(start).Microseconds()) / 1000.0)
	return word, outcome
}

func (a *Allocator) resolve(ctx context.Context, today string) (model.DailyWord, Outcome, error) {
	// Fast path.
	existing, ok, err := a.findActive(ctx, today)
	if err != nil {
		return model.DailyWord{}, "", err
	}
	if ok {
		a.log.Debug(ctx, "word already active", logger.String("date", today), logger.String("id", existing.ID))
		return existing.Result(today), Found, nil
	}

	pool, err := a.candidates(ctx, today)
	if err != nil {
		return model.DailyWord{}, "", err
	}

	pick, err := Pick(pool, today)
	if err != nil {
		return model.DailyWord{}, "", err
	}

	// Someone may have committed while we were choosing.
	existing, ok, err = a.findActive(ctx, today)
	if err != nil {
		return model.DailyWord{}, "", err
	}
	if ok {
		a.log.Info(ctx, "lost assignment race",
			logger.String("date", today),
			logger.String("winner", existing.ID),
			logger.String("candidate", pick.ID))
		return existing.Result(today), LostRace, nil
	}

	err = a.store.UpdateAssignment(ctx, pick.ID, repository.Assignment{
		ActiveDate:   today,
		LastUsedDate: today,
		TimesUsed:    pick.TimesUsed + 1,
	})
	if err != nil {
		return model.DailyWord{}, "", fmt.Errorf("%w: %s: %w", ErrCommit, pick.ID, err)
	}

	a.log.Info(ctx, "assigned daily word",
		logger.String("date", today),
		logger.String("id", pick.ID),
		logger.Int("times_used", pick.TimesUsed+1),
		logger.Int("pool", len(pool)))
	return model.DailyWord{
		WordPrimary:   pick.WordPrimary,
		WordSecondary: pick.WordSecondary,
		ActiveDate:    today,
	}, Committed, nil
}

func (a *Allocator) findActive(ctx context.Context, today string) (model.WordRecord, bool, error) {
	rec, err := a.store.FindByActiveDate(ctx, today)
	if errors.Is(err, repository.ErrNotFound) {
		return model.WordRecord{}, false, nil
	}
	if err != nil {
		return model.WordRecord{}, false, fmt.Errorf("%w: find by active date: %w", ErrStoreRead, err)
	}
	return rec, true, nil
}

// candidates returns the preferred pool, or the never-active pool when the
// preferred one is empty.
func (a *Allocator) candidates(ctx context.Context, today string) ([]model.WordRecord, error) {
	staleBefore, err := clock.AddDays(today, -a.policy.CooldownDays)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadDate, err)
	}

	total, err := a.store.SumTimesUsed(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: sum times used: %w", ErrStoreRead, err)
	}
	limit := a.policy.MaxPerWord(total)
	metrics.UpdateUsageCap(limit)

	pool, err := a.store.ListCandidates(ctx, repository.CandidateFilter{
		UsageBelow:  limit,
		StaleBefore: staleBefore,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: list candidates: %w", ErrStoreRead, err)
	}
	metrics.UpdatePoolSize("preferred", len(pool))
	if len(pool) > 0 {
		return pool, nil
	}

	pool, err = a.store.ListNeverActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list never active: %w", ErrStoreRead, err)
	}
	metrics.UpdatePoolSize("never_active", len(pool))
	if len(pool) == 0 {
		return nil, ErrEmptyPool
	}
	a.log.Debug(ctx, "preferred pool empty, using never-active pool",
		logger.String("date", today),
		logger.Int("usage_cap", limit),
		logger.Int("pool", len(pool)))
	return pool, nil
}

// Pick orders pool by (TimesUsed, ID) and selects the record at
// dayOfYear(today) mod len(pool). pool is not modified.
func Pick(pool []model.WordRecord, today string) (model.WordRecord, error) {
	if len(pool) == 0 {
		return model.WordRecord{}, ErrEmptyPool
	}
	day, err := clock.DayOfYear(today)
	if err != nil {
		return model.WordRecord{}, fmt.Errorf("%w: %w", ErrBadDate, err)
	}

	sorted := make([]model.WordRecord, len(pool))
	copy(sorted, pool)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].TimesUsed != sorted[j].TimesUsed {
			return sorted[i].TimesUsed < sorted[j].TimesUsed
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted[day%len(sorted)], nil
}

func (a *Allocator) count(o Outcome) {
	switch o {
	case Found:
		a.found.Add(1)
	case Committed:
		a.committed.Add(1)
	case LostRace:
		a.lostRace.Add(1)
	case Fallback:
		a.fallbacks.Add(1)
	}
}

// Stats returns resolution counts by outcome since construction.
func (a *Allocator) Stats() map[string]int64 {
	return map[string]int64{
		string(Found):     a.found.Load(),
		string(Committed): a.committed.Load(),
		string(LostRace):  a.lostRace.Load(),
		string(Fallback):  a.fallbacks.Load(),
	}
}
