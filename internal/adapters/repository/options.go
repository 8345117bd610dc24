package repository

import "time"

// SQLOption applies a configuration option to the SQLStore.
type SQLOption func(*SQLStore)

// WithMaxOpenConns caps the number of open connections.
func WithMaxOpenConns(n int) SQLOption {
	return func(s *SQLStore) {
		if n > 0 {
			s.maxOpenConns = n
		}
	}
}

// WithMaxIdleConns sets the idle pool size.
func WithMaxIdleConns(n int) SQLOption {
	return func(s *SQLStore) {
		if n > 0 {
			s.maxIdleConns = n
		}
	}
}

// WithConnMaxLifetime sets how long a connection may be reused.
func WithConnMaxLifetime(d time.Duration) SQLOption {
	return func(s *SQLStore) {
		if d > 0 {
			s.connMaxLifetime = d
		}
	}
}
