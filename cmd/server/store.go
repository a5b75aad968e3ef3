package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/and161185/repairflow/internal/config"
	"github.com/and161185/repairflow/internal/limiter"
	"github.com/and161185/repairflow/internal/migrate"
	"github.com/and161185/repairflow/internal/repository"
	"github.com/and161185/repairflow/internal/repository/memory"
	"github.com/and161185/repairflow/internal/repository/mongodb"
	"github.com/and161185/repairflow/internal/repository/postgres"
	"github.com/and161185/repairflow/internal/repository/sqlite"
)

// openStore connects the configured backend. Postgres also backs the login limiter so
// lockouts are shared between replicas; every other driver limits in process.
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.Store, limiter.Limiter, error) {
	policy := cfg.LimiterPolicy()

	switch cfg.Store.Driver {
	case config.StoreMemory:
		log.Warn("using in-memory store, data is lost on restart")
		return memory.NewStore().Repositories(), limiter.NewMemory(policy), nil

	case config.StoreSQLite:
		s, err := sqlite.Open(ctx, cfg.Store.Path)
		if err != nil {
			return repository.Store{}, nil, err
		}
		log.Info("sqlite store opened", zap.String("path", s.Path()))
		return s.Repositories(), limiter.NewMemory(policy), nil

	case config.StorePostgres:
		if err := migrate.Up(ctx, cfg.Store.DSN); err != nil {
			return repository.Store{}, nil, fmt.Errorf("migrate up: %w", err)
		}
		db, err := postgres.New(ctx, cfg.Store.DSN)
		if err != nil {
			return repository.Store{}, nil, fmt.Errorf("pgxpool: %w", err)
		}
		return db.Repositories(), limiter.NewPG(db.Pool, policy), nil

	case config.StoreMongo:
		s, err := mongodb.Connect(ctx, cfg.Store.URI, cfg.Store.Database)
		if err != nil {
			return repository.Store{}, nil, err
		}
		log.Info("mongo store connected", zap.String("database", cfg.Store.Database))
		return s.Repositories(), limiter.NewMemory(policy), nil

	default:
		return repository.Store{}, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
