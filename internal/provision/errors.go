package provision

import "errors"

// ErrInvalidSeed reports a seed file that cannot be applied.
var ErrInvalidSeed = errors.New("invalid seed")
