package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Store.Type != "memory" || cfg.Similarity.Type != "cosine" || cfg.Server.Addr != "127.0.0.1:8080" {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.Server.ReadTimeout() != 10*time.Second {
		t.Errorf("ReadTimeout = %v", cfg.Server.ReadTimeout())
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genresim.yaml")
	data := `
server:
  addr: ":9090"
store:
  type: sqlite
similarity:
  type: ochiai
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.WriteTimeoutSecs != 10 {
		t.Errorf("WriteTimeoutSecs = %d, want default 10", cfg.Server.WriteTimeoutSecs)
	}
	if cfg.Store.SQLite == nil || cfg.Store.SQLite.Path != "genresim.db" {
		t.Errorf("SQLite = %+v, want default path", cfg.Store.SQLite)
	}
	if cfg.Similarity.Type != "ochiai" || cfg.Log.Level != "debug" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadJSONC(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genresim.jsonc")
	data := `{
	// listen everywhere
	"server": {"addr": "0.0.0.0:8000"},
	"store": {"type": "sqlite", "sqlite": {"path": "/tmp/g.db", "pool_size": 2,},},
}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != "0.0.0.0:8000" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
	if cfg.Store.SQLite == nil || cfg.Store.SQLite.Path != "/tmp/g.db" || cfg.Store.SQLite.PoolSize != 2 {
		t.Errorf("SQLite = %+v", cfg.Store.SQLite)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GENRESIM_ADDR", ":7070")
	t.Setenv("GENRESIM_STORE", "sqlite")
	t.Setenv("GENRESIM_SQLITE_PATH", "/data/genres.db")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":7070" || cfg.Store.Type != "sqlite" || cfg.Store.SQLite.Path != "/data/genres.db" {
		t.Errorf("cfg = %+v, sqlite = %+v", cfg, cfg.Store.SQLite)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := defaultConfig()
	cfg.Similarity.Type = "ochiai"
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Similarity.Type != "ochiai" {
		t.Errorf("Similarity.Type = %q", got.Similarity.Type)
	}
}
