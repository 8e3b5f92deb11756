package main

import (
	"context"
	"fmt"
	"log/slog"

	dbfs "github.com/garnizeh/oppboard/db"
	"github.com/garnizeh/oppboard/internal/config"
	"github.com/garnizeh/oppboard/internal/db"
	"github.com/garnizeh/oppboard/internal/jobs"
	"github.com/garnizeh/oppboard/internal/repository/postgres"
	"github.com/garnizeh/oppboard/internal/repository/sqlite"
	"github.com/garnizeh/oppboard/pkg/repository"
)

// backend is the configured store together with the job queue it hosts.
type backend struct {
	store repository.Store
	queue jobs.Queue
	close func()
}

func openBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*backend, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		if cfg.MigrateOnStart {
			if err := postgres.EnsureSchema(ctx, pool, dbfs.PostgresSchema); err != nil {
				pool.Close()
				return nil, err
			}
		}
		repo := postgres.New(pool, logger)
		return &backend{store: repo, queue: repo, close: pool.Close}, nil

	case config.DriverSQLite:
		d, err := db.New(ctx, cfg.Database.Path, logger)
		if err != nil {
			return nil, err
		}
		if cfg.MigrateOnStart {
			if err := db.Migrate(ctx, d, dbfs.Migrations); err != nil {
				_ = d.Close()
				return nil, err
			}
		}
		repo := sqlite.New(d, logger)
		return &backend{store: repo, queue: repo, close: func() { _ = d.Close() }}, nil
	}

	return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
}
