package repository

import (
	"context"
	"errors"
	"time"

	"github.com/okian/dailyword/internal/domain/model"
	"github.com/okian/dailyword/pkg/metrics"
)

// instrumented decorates a Backend with latency metrics and a per-call
// deadline.
type instrumented struct {
	next    Backend
	backend string
	timeout time.Duration
}

// Instrument wraps b so every call is timed under the given backend label.
// A positive timeout bounds each call.
func Instrument(b Backend, backend string, timeout time.Duration) Backend {
	return &instrumented{next: b, backend: backend, timeout: timeout}
}

func (i *instrumented) call(ctx context.Context, op string, fn func(context.Context) error) error {
	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	start := time.Now()
	err := fn(ctx)
	metrics.RecordStoreLatency(i.backend, op, float64(time.Since(start).Microseconds())/1000.0)
	if err != nil && !errors.Is(err, ErrNotFound) {
		metrics.RecordStoreError(i.backend, op)
	}
	return err
}

func (i *instrumented) FindByActiveDate(ctx context.Context, date string) (model.WordRecord, error) {
	var rec model.WordRecord
	err := i.call(ctx, "find_by_active_date", func(ctx context.Context) error {
		var err error
		rec, err = i.next.FindByActiveDate(ctx, date)
		return err
	})
	return rec, err
}

func (i *instrumented) ListCandidates(ctx context.Context, filter CandidateFilter) ([]model.WordRecord, error) {
	var out []model.WordRecord
	err := i.call(ctx, "list_candidates", func(ctx context.Context) error {
		var err error
		out, err = i.next.ListCandidates(ctx, filter)
		return err
	})
	return out, err
}

func (i *instrumented) ListNeverActive(ctx context.Context) ([]model.WordRecord, error) {
	var out []model.WordRecord
	err := i.call(ctx, "list_never_active", func(ctx context.Context) error {
		var err error
		out, err = i.next.ListNeverActive(ctx)
		return err
	})
	return out, err
}

func (i *instrumented) SumTimesUsed(ctx context.Context) (int, error) {
	var total int
	err := i.call(ctx, "sum_times_used", func(ctx context.Context) error {
		var err error
		total, err = i.next.SumTimesUsed(ctx)
		return err
	})
	return total, err
}

func (i *instrumented) UpdateAssignment(ctx context.Context, id string, a Assignment) error {
	return i.call(ctx, "update_assignment", func(ctx context.Context) error {
		return i.next.UpdateAssignment(ctx, id, a)
	})
}

func (i *instrumented) Upsert(ctx context.Context, records []model.WordRecord) (int, error) {
	var n int
	err := i.call(ctx, "upsert", func(ctx context.Context) error {
		var err error
		n, err = i.next.Upsert(ctx, records)
		return err
	})
	return n, err
}

func (i *instrumented) List(ctx context.Context) ([]model.WordRecord, error) {
	var out []model.WordRecord
	err := i.call(ctx, "list", func(ctx context.Context) error {
		var err error
		out, err = i.next.List(ctx)
		return err
	})
	return out, err
}

func (i *instrumented) Close() error {
	return i.next.Close()
}
