package main

import (
	"context"
	"log/slog"
	"path/filepath"
	"reflect"
	"testing"

	"genresim/internal/config"
)

func discard() *slog.Logger { return slog.New(slog.DiscardHandler) }

func TestNewServiceMemory(t *testing.T) {
	cfg := &config.AppConfig{}
	svc, err := newService(context.Background(), cfg, discard())
	if err != nil {
		t.Fatal(err)
	}
	defer svc.Close()
	if err := svc.AddDocumentToGenre(context.Background(), "g", "1", "x"); err != nil {
		t.Fatal(err)
	}
}

func TestNewServiceSQLiteRestores(t *testing.T) {
	ctx := context.Background()
	cfg := &config.AppConfig{Store: config.StoreConfig{
		Type:   "sqlite",
		SQLite: &config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "g.db")},
	}}

	svc, err := newService(ctx, cfg, discard())
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.AddDocumentToGenre(ctx, "music", "1", "synthwave retro music"); err != nil {
		t.Fatal(err)
	}
	if err := svc.AddDocumentToGenre(ctx, "film", "2", "noir movies"); err != nil {
		t.Fatal(err)
	}
	if err := svc.Close(); err != nil {
		t.Fatal(err)
	}

	svc, err = newService(ctx, cfg, discard())
	if err != nil {
		t.Fatal(err)
	}
	defer svc.Close()
	got, err := svc.NearestGenres("retro music", 2)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []string{"music", "film"}) {
		t.Errorf("NearestGenres after reopen = %v", got)
	}
}

func TestNewServiceRejectsUnknown(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.AppConfig
	}{
		{"store", config.AppConfig{Store: config.StoreConfig{Type: "redis"}}},
		{"sqlite without section", config.AppConfig{Store: config.StoreConfig{Type: "sqlite"}}},
		{"similarity", config.AppConfig{Similarity: config.SimilarityConfig{Type: "jaccard"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := newService(context.Background(), &tt.cfg, discard()); err == nil {
				t.Error("newService succeeded")
			}
		})
	}
}

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags("serve", []string{"--config", "x.yaml", "--addr", ":9000", "--seed", "corpus"})
	if err != nil {
		t.Fatal(err)
	}
	if opts != (options{configPath: "x.yaml", addr: ":9000", seed: "corpus"}) {
		t.Errorf("opts = %+v", opts)
	}
	opts, err = parseFlags("ingest", []string{"corpus"})
	if err != nil || opts.seed != "corpus" {
		t.Errorf("ingest opts = %+v, %v", opts, err)
	}
	if _, err := parseFlags("ingest", nil); err == nil {
		t.Error("ingest without directory succeeded")
	}
	if _, err := parseFlags("console", []string{"--addr", ":1"}); err == nil {
		t.Error("console accepted --addr")
	}
	opts, err = parseFlags("console", []string{"--log-file", "console.log"})
	if err != nil || opts.logFile != "console.log" {
		t.Errorf("console opts = %+v, %v", opts, err)
	}
	if _, err := parseFlags("serve", []string{"--log-file", "x.log"}); err == nil {
		t.Error("serve accepted --log-file")
	}
}

func TestConsoleLoggerStaysOffTerminal(t *testing.T) {
	cfg := config.LogConfig{Level: "debug", Format: "text"}

	logger, closer, err := commandLogger("console", options{}, cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer closer.Close()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Error("console logger without --log-file writes records")
	}

	path := filepath.Join(t.TempDir(), "console.log")
	logger, closer, err = commandLogger("console", options{logFile: path}, cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer closer.Close()
	if !logger.Enabled(context.Background(), slog.LevelWarn) {
		t.Error("console logger with --log-file discards records")
	}

	logger, closer, err = commandLogger("serve", options{}, cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer closer.Close()
	if !logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("serve logger discards records")
	}
}
