package probe

import "errors"

// Sentinel kinds for probe failures.
var (
	ErrUnhealthy = errors.New("service unhealthy")
	ErrNoAnswers = errors.New("no successful responses")
	ErrDiverged  = errors.New("clients saw different words")
)
