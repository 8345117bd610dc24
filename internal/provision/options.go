package provision

import (
	"github.com/google/uuid"

	"github.com/okian/dailyword/pkg/logger"
)

// Option configures a Seeder.
type Option func(*Seeder)

// WithIDGenerator replaces the id source for entries without an id.
func WithIDGenerator(gen func() (uuid.UUID, error)) Option {
	return func(s *Seeder) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Seeder) {
		if l != nil {
			s.logger = l
		}
	}
}
