package repository

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("memory is the default", func(t *testing.T) {
		b, err := Open(ctx, Config{})
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		defer b.Close()
		runStoreContract(t, b)
	})

	t.Run("sqlite without a dsn is in memory", func(t *testing.T) {
		b, err := Open(ctx, Config{Driver: DriverSQLite, Timeout: time.Second})
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		defer b.Close()
		if _, err := b.SumTimesUsed(ctx); err != nil {
			t.Fatalf("sum: %v", err)
		}
	})

	t.Run("pool settings reach the sql store", func(t *testing.T) {
		cfg := Config{MaxOpenConns: 7, MaxIdleConns: 3, ConnMaxLifetime: time.Minute}
		s := &SQLStore{}
		for _, opt := range cfg.sqlOptions() {
			opt(s)
		}
		if s.maxOpenConns != 7 || s.maxIdleConns != 3 || s.connMaxLifetime != time.Minute {
			t.Fatalf("unexpected pool settings: %+v", s)
		}
	})

	t.Run("in-memory sqlite keeps a single connection", func(t *testing.T) {
		s, err := OpenSQL(ctx, DialectSQLite, ":memory:", WithMaxOpenConns(10))
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		defer s.Close()
		if got := s.DB().Stats().MaxOpenConnections; got != 1 {
			t.Fatalf("expected 1 open connection, got %d", got)
		}
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := Open(ctx, Config{Driver: "cassandra"})
		if !errors.Is(err, ErrUnknownDriver) {
			t.Fatalf("expected ErrUnknownDriver, got %v", err)
		}
	})
}

func TestInstrument_NotFoundPassesThrough(t *testing.T) {
	b := Instrument(NewMemoryStore(), DriverMemory, time.Second)
	_, err := b.FindByActiveDate(context.Background(), "2025-03-01")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
