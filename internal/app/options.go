package service

import (
	"github.com/okian/dailyword/internal/adapters/repository"
	"github.com/okian/dailyword/internal/domain/allocator"
	"github.com/okian/dailyword/internal/domain/clock"
	"github.com/okian/dailyword/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTimezone sets the zone whose civil date defines today.
func WithTimezone(zone string) Option {
	return func(s *Service) {
		if zone != "" {
			s.timezone = zone
		}
	}
}

// WithClock injects a ready clock, overriding WithTimezone.
func WithClock(c *clock.Clock) Option {
	return func(s *Service) {
		s.clock = c
	}
}

// WithPolicy sets the cooldown and usage share.
func WithPolicy(cooldownDays int, usageShare float64) Option {
	return func(s *Service) {
		s.policy = allocator.Policy{CooldownDays: cooldownDays, UsageShare: usageShare}
	}
}

// WithFallbackWord sets the word served when nothing can be allocated.
func WithFallbackWord(primary, secondary string) Option {
	return func(s *Service) {
		if primary != "" {
			s.fallbackPrimary = primary
		}
		if secondary != "" {
			s.fallbackSecondary = secondary
		}
	}
}

// WithStore selects the backend opened on Start.
func WithStore(cfg repository.Config) Option {
	return func(s *Service) {
		s.storeConfig = cfg
	}
}

// WithBackend injects an already open backend. The service does not close it.
func WithBackend(b repository.Backend) Option {
	return func(s *Service) {
		s.store = b
	}
}

// WithMemoRedisURL enables the durable memo.
func WithMemoRedisURL(url string) Option {
	return func(s *Service) {
		s.memoRedisURL = url
	}
}

// WithSeedFile loads the YAML word list at path into the store on Start.
func WithSeedFile(path string) Option {
	return func(s *Service) {
		s.seedFile = path
	}
}
