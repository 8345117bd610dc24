// Package memo keeps the resolved daily word for the current date.
package memo

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/okian/dailyword/internal/domain/model"
	"github.com/okian/dailyword/pkg/logger"
	"github.com/okian/dailyword/pkg/metrics"
)

// Resolver produces the word for date. keep reports whether the result may
// be memoized; fallback words are not.
type Resolver func(ctx context.Context, date string) (word model.DailyWord, keep bool)

// Backing persists the memo across process restarts. It is best-effort:
// errors are logged and otherwise ignored.
type Backing interface {
	Load(ctx context.Context, date string) (model.DailyWord, bool, error)
	Save(ctx context.Context, date string, word model.DailyWord, ttl time.Duration) error
}

// Memo holds at most one entry, keyed by date. Asking for any other date
// discards it.
type Memo struct {
	mu    sync.Mutex
	date  string
	word  model.DailyWord
	valid bool

	flights singleflight.Group
	backing Backing
	ttl     func() time.Duration
	timeout time.Duration
	log     logger.Logger
}

// defaultResolveTimeout bounds one shared resolution.
const defaultResolveTimeout = 10 * time.Second

// New creates an empty memo.
func New(opts ...Option) *Memo {
	m := &Memo{
		ttl:     func() time.Duration { return 24 * time.Hour },
		timeout: defaultResolveTimeout,
		log:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Peek returns the memoized word if it is for date.
func (m *Memo) Peek(date string) (model.DailyWord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.valid || m.date != date {
		return model.DailyWord{}, false
	}
	return m.word, true
}

// Date returns the key currently held, or "" when empty.
func (m *Memo) Date() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.valid {
		return ""
	}
	return m.date
}

// Reset drops the entry.
func (m *Memo) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.date, m.word, m.valid = "", model.DailyWord{}, false
}

// Get returns the word for date, calling resolve at most once per date at a
// time. Concurrent callers for the same date share one resolution, which
// runs detached from the caller's cancellation and bounded by the resolve
// timeout instead.
func (m *Memo) Get(ctx context.Context, date string, resolve Resolver) model.DailyWord {
	if word, ok := m.lookup(date); ok {
		metrics.RecordMemoHit()
		return word
	}
	metrics.RecordMemoMiss()

	v, _, _ := m.flights.Do(date, func() (interface{}, error) {
		ctx := context.WithoutCancel(ctx)
		if m.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, m.timeout)
			defer cancel()
		}

		if word, ok := m.Peek(date); ok {
			return word, nil
		}
		if word, ok := m.load(ctx, date); ok {
			m.store(date, word)
			return word, nil
		}

		word, keep := resolve(ctx, date)
		if keep {
			m.store(date, word)
			m.save(ctx, date, word)
		}
		return word, nil
	})
	return v.(model.DailyWord)
}

// lookup is Peek plus rollover: an entry for another date is discarded.
func (m *Memo) lookup(date string) (model.DailyWord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.valid && m.date == date {
		return m.word, true
	}
	if m.valid {
		m.date, m.word, m.valid = "", model.DailyWord{}, false
	}
	return model.DailyWord{}, false
}

func (m *Memo) store(date string, word model.DailyWord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.date, m.word, m.valid = date, word, true
}

func (m *Memo) load(ctx context.Context, date string) (model.DailyWord, bool) {
	if m.backing == nil {
		return model.DailyWord{}, false
	}
	word, ok, err := m.backing.Load(ctx, date)
	if err != nil {
		metrics.RecordMemoBackingError("load")
		m.log.Warn(ctx, "memo backing load failed", logger.String("date", date), logger.Error(err))
		return model.DailyWord{}, false
	}
	return word, ok
}

func (m *Memo) save(ctx context.Context, date string, word model.DailyWord) {
	if m.backing == nil {
		return
	}
	if err := m.backing.Save(ctx, date, word, m.ttl()); err != nil {
		metrics.RecordMemoBackingError("save")
		m.log.Warn(ctx, "memo backing save failed", logger.String("date", date), logger.Error(err))
	}
}
