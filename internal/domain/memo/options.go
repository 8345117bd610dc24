package memo

import (
	"time"

	"github.com/okian/dailyword/pkg/logger"
)

// Option configures a Memo.
type Option func(*Memo)

// WithBacking persists entries through b.
func WithBacking(b Backing) Option {
	return func(m *Memo) {
		m.backing = b
	}
}

// WithTTL sets how long a persisted entry lives, typically the time left
// until the next local midnight.
func WithTTL(ttl func() time.Duration) Option {
	return func(m *Memo) {
		if ttl != nil {
			m.ttl = ttl
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(m *Memo) {
		if l != nil {
			m.log = l
		}
	}
}

// WithResolveTimeout bounds each shared resolution; 0 removes the bound.
func WithResolveTimeout(d time.Duration) Option {
	return func(m *Memo) {
		if d >= 0 {
			m.timeout = d
		}
	}
}
