package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/beavernet-backend/internal/adapter/badger"
	"github.com/heartmarshall/beavernet-backend/internal/adapter/memory"
	"github.com/heartmarshall/beavernet-backend/internal/adapter/postgres"
	"github.com/heartmarshall/beavernet-backend/internal/config"
	"github.com/heartmarshall/beavernet-backend/internal/storage"
)

// OpenStore builds the entity store selected by cfg.Storage.Driver.
func OpenStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*storage.Store, error) {
	switch cfg.Storage.DriverName() {
	case config.DriverMemory:
		logger.Warn("using in-memory storage; data is lost on restart")
		return memory.NewStore(), nil

	case config.DriverPostgres:
		store, err := postgres.Open(ctx, cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		return store, nil

	case config.DriverBadger:
		store, err := badger.Open(badger.Options{Path: cfg.Storage.BadgerPath, Logger: logger})
		if err != nil {
			return nil, fmt.Errorf("open badger store: %w", err)
		}
		logger.Info("badger store opened", slog.String("path", cfg.Storage.BadgerPath))
		return store, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
