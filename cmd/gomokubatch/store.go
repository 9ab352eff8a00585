package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/e8yes/gomokubatch/internal/config"
	"github.com/e8yes/gomokubatch/internal/importer"
	"github.com/e8yes/gomokubatch/internal/sampler"
	"github.com/e8yes/gomokubatch/internal/store/memstore"
	"github.com/e8yes/gomokubatch/internal/store/postgres"
	"github.com/e8yes/gomokubatch/internal/store/sqlite"
)

type rowStore interface {
	sampler.RowSource
	importer.Sink
}

// openStore opens the configured store. The memory store is filled from the
// JSON lines file named by the DSN, if any.
func openStore(ctx context.Context, cfg config.StoreConfig, logger zerolog.Logger) (rowStore, func() error, error) {
	var noop = func() error { return nil }
	switch cfg.Driver {
	case "memory":
		var s = memstore.New()
		if cfg.DSN == "" {
			return s, noop, nil
		}
		file, err := os.Open(cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		defer file.Close()
		stats, err := importer.Load(ctx, file, s, 0)
		if err != nil {
			return nil, nil, fmt.Errorf("load %v: %w", cfg.DSN, err)
		}
		logger.Info().Int("games", stats.Games).Int("actions", stats.Actions).Msg("memory store loaded")
		return s, noop, nil

	case "sqlite":
		s, err := sqlite.Open(cfg.DSN, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			s.Close()
			return nil, nil, err
		}
		return s, s.Close, nil

	case "postgres":
		s, err := postgres.Open(ctx, cfg.DSN, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			s.Close()
			return nil, nil, err
		}
		return s, s.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}
