package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound      = errors.New("word not found")
	ErrInvalidRecord = errors.New("invalid word record")
	ErrUnknownDriver = errors.New("unknown store driver")
	ErrStoreClosed   = errors.New("store closed")
)
