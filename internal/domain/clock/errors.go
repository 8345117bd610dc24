package clock

import "errors"

// Sentinel kinds for clock errors.
var (
	ErrInvalidDate = errors.New("invalid civil date")
)
