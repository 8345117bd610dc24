package allocator

import "errors"

// Reasons a resolution degrades to the fallback word.
var (
	ErrStoreRead = errors.New("store read failed")
	ErrCommit    = errors.New("commit failed")
	ErrEmptyPool = errors.New("no candidate words")
	ErrBadDate   = errors.New("invalid date")
)

// reason maps a resolution error to a short metrics label.
func reason(err error) string {
	switch {
	case errors.Is(err, ErrEmptyPool):
		return "empty_pool"
	case errors.Is(err, ErrCommit):
		return "commit_failed"
	case errors.Is(err, ErrBadDate):
		return "invalid_date"
	default:
		return "store_error"
	}
}
