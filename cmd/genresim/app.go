package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"genresim/internal/classifier"
	"genresim/internal/config"
	"genresim/internal/domain"
	"genresim/internal/logging"
	"genresim/internal/service"
	"genresim/internal/similarity"
	"genresim/internal/store/memory"
	"genresim/internal/store/sqlite"
)

type serviceHandle = service.ClassificationServiceImpl

// commandLogger keeps the console's full-screen view free of log output:
// it logs to --log-file or nowhere. Other commands log to stderr.
func commandLogger(command string, opts options, cfg config.LogConfig) (*slog.Logger, io.Closer, error) {
	if command == "console" {
		return logging.NewFile(opts.logFile, cfg)
	}
	return logging.New(cfg), io.NopCloser(nil), nil
}

// newService assembles store, similarity and index from cfg and restores
// any documents the store already holds.
func newService(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (*serviceHandle, error) {
	var st domain.Store
	switch cfg.Store.Type {
	case "memory", "":
		st = memory.NewStorage()
	case "sqlite":
		if cfg.Store.SQLite == nil {
			return nil, fmt.Errorf("sqlite store config missing")
		}
		s, err := sqlite.Open(sqlite.Config{
			Path:     cfg.Store.SQLite.Path,
			PoolSize: cfg.Store.SQLite.PoolSize,
			Logger:   logger.With("component", "sqlite"),
		})
		if err != nil {
			return nil, err
		}
		st = s
	default:
		return nil, fmt.Errorf("unknown store: %s", cfg.Store.Type)
	}

	sim, err := similarity.New(cfg.Similarity.Type)
	if err != nil {
		st.Close()
		return nil, err
	}

	index := classifier.NewIndex(st,
		classifier.WithSimilarity(sim),
		classifier.WithLogger(logger.With("component", "classifier")),
	)
	if err := index.Restore(ctx); err != nil {
		st.Close()
		return nil, fmt.Errorf("restore index: %w", err)
	}
	return service.NewClassificationService(index, st, logger.With("component", "service")), nil
}
