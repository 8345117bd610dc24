package repository

import (
	"context"
	"fmt"
	"time"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// Config selects and configures a backend.
type Config struct {
	Driver        string
	DSN           string
	MongoDatabase string
	Timeout       time.Duration

	// SQL pool tuning; zero values keep the defaults.
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func (c Config) sqlOptions() []SQLOption {
	return []SQLOption{
		WithMaxOpenConns(c.MaxOpenConns),
		WithMaxIdleConns(c.MaxIdleConns),
		WithConnMaxLifetime(c.ConnMaxLifetime),
	}
}

// Open builds the backend named by cfg.Driver, wrapped with metrics and the
// configured per-call timeout.
func Open(ctx context.Context, cfg Config) (Backend, error) {
	var (
		b   Backend
		err error
	)
	switch cfg.Driver {
	case DriverMemory, "":
		b = NewMemoryStore()
	case DriverSQLite:
		dsn := cfg.DSN
		if dsn == "" {
			dsn = "file::memory:?cache=shared"
		}
		b, err = OpenSQL(ctx, DialectSQLite, dsn, cfg.sqlOptions()...)
	case DriverPostgres:
		b, err = OpenSQL(ctx, DialectPostgres, cfg.DSN, cfg.sqlOptions()...)
	case DriverMongo:
		b, err = OpenMongo(ctx, cfg.DSN, cfg.MongoDatabase)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	driver := cfg.Driver
	if driver == "" {
		driver = DriverMemory
	}
	return Instrument(b, driver, cfg.Timeout), nil
}
