package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/okian/dailyword/internal/adapters/repository"
	"github.com/okian/dailyword/internal/config"
	"github.com/okian/dailyword/internal/provision"
	"github.com/okian/dailyword/pkg/logger"
)

const defaultSeedTimeout = 5 * time.Minute

// errVolatileStore rejects targets that vanish when this process exits.
var errVolatileStore = errors.New("store does not outlive the seed run; use seed_file on the server instead")

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		os.Stderr.WriteString("failed to read .env: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	var (
		seedFile = flag.String("file", "words.yaml", "YAML seed file")
		driver   = flag.String("driver", cfg.StoreDriver, "Store driver: memory, sqlite, postgres or mongo")
		dsn      = flag.String("dsn", cfg.StoreDSN, "Store connection string")
		mongoDB  = flag.String("mongo-db", cfg.MongoDatabase, "Mongo database name")
		dryRun   = flag.Bool("dry-run", false, "Validate the seed and print the plan without writing")
		timeout  = flag.Duration("timeout", defaultSeedTimeout, "Overall timeout")
	)
	flag.Parse()

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Named("seed")

	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	if err := run(ctx, log, *seedFile, repository.Config{
		Driver:        *driver,
		DSN:           *dsn,
		MongoDatabase: *mongoDB,
		Timeout:       cfg.StoreTimeout(),
	}, *dryRun); err != nil {
		log.Error(ctx, "seeding failed", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, log logger.Logger, path string, storeCfg repository.Config, dryRun bool) error {
	seed, err := provision.LoadFile(path)
	if err != nil {
		return err
	}
	if !dryRun {
		if err := checkDurable(storeCfg); err != nil {
			return err
		}
	}

	store, err := repository.Open(ctx, storeCfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn(ctx, "closing word store", logger.Error(err))
		}
	}()

	seeder := provision.New(store, provision.WithLogger(log))

	if dryRun {
		records, err := seeder.Plan(ctx, seed)
		if err != nil {
			return err
		}
		for _, r := range records {
			log.Info(ctx, "planned",
				logger.String("id", r.ID),
				logger.String("primary", r.WordPrimary),
				logger.String("secondary", r.WordSecondary))
		}
		return nil
	}

	_, err = seeder.Apply(ctx, seed)
	return err
}

// checkDurable refuses in-process stores, which a separate seed run cannot
// share with the server.
func checkDurable(cfg repository.Config) error {
	switch cfg.Driver {
	case "", repository.DriverMemory:
		return fmt.Errorf("%w: driver %q", errVolatileStore, repository.DriverMemory)
	case repository.DriverSQLite:
		if cfg.DSN == "" || strings.Contains(cfg.DSN, ":memory:") || strings.Contains(cfg.DSN, "mode=memory") {
			return fmt.Errorf("%w: sqlite dsn %q", errVolatileStore, cfg.DSN)
		}
	}
	return nil
}
