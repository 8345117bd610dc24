package allocator

import "math"

// Default rotation policy.
const (
	DefaultCooldownDays = 30
	DefaultUsageShare   = 0.3
)

// Policy holds the repetition controls applied when building the
// preferred candidate pool.
type Policy struct {
	// CooldownDays is how long a used word stays out of the preferred pool.
	CooldownDays int
	// UsageShare scales the per-word usage cap with total corpus usage.
	UsageShare float64
}

// DefaultPolicy returns the 30 day / 0.3 policy.
func DefaultPolicy() Policy {
	return Policy{CooldownDays: DefaultCooldownDays, UsageShare: DefaultUsageShare}
}

// MaxPerWord is the usage cap for a corpus whose records have been used
// totalUses times in aggregate: max(1, floor(share * (totalUses + 1))).
func (p Policy) MaxPerWord(totalUses int) int {
	limit := int(math.Floor(p.UsageShare * float64(totalUses+1)))
	if limit < 1 {
		return 1
	}
	return limit
}
