package clock

import "time"

// Option applies a configuration option to the Clock.
type Option func(*Clock)

// WithNow replaces the time source, mainly for tests.
func WithNow(now func() time.Time) Option {
	return func(c *Clock) {
		if now != nil {
			c.now = now
		}
	}
}
