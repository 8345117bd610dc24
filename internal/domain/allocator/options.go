package allocator

import "github.com/okian/dailyword/pkg/logger"

// Option configures an Allocator.
type Option func(*Allocator)

// WithPolicy replaces the whole rotation policy.
func WithPolicy(p Policy) Option {
	return func(a *Allocator) {
		if p.CooldownDays >= 0 {
			a.policy.CooldownDays = p.CooldownDays
		}
		if p.UsageShare > 0 {
			a.policy.UsageShare = p.UsageShare
		}
	}
}

// WithFallbackWord sets the word served when nothing can be allocated.
func WithFallbackWord(primary, secondary string) Option {
	return func(a *Allocator) {
		if primary != "" {
			a.fallbackPrimary = primary
		}
		if secondary != "" {
			a.fallbackSecondary = secondary
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(a *Allocator) {
		if l != nil {
			a.log = l
		}
	}
}
