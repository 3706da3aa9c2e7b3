package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Cache.Backend != CacheFile {
		t.Errorf("expected cache backend file, got %s", cfg.Cache.Backend)
	}
	if cfg.Store.Backend != "file" {
		t.Errorf("expected store backend file, got %s", cfg.Store.Backend)
	}
	if cfg.Render.Style != "simple" {
		t.Errorf("expected style simple, got %s", cfg.Render.Style)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected addr :8080, got %s", cfg.Server.Addr)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoadFrom_FileNotExists(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Render.Width != Default().Render.Width {
		t.Errorf("expected default width, got %v", cfg.Render.Width)
	}
}

func TestLoadFrom_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[cache]
backend = "redis"
ttl = "2h"

[cache.redis]
addr = "cache:6379"
db = 2

[store]
backend = "sqlite"
path = "` + filepath.ToSlash(filepath.Join(tmpDir, "layouts.db")) + `"

[render]
width = 1200
style = "outline"
formats = ["SVG", "json"]

[server]
addr = "127.0.0.1:9000"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Cache.Backend != CacheRedis || cfg.Cache.Redis.Addr != "cache:6379" || cfg.Cache.Redis.DB != 2 {
		t.Errorf("cache section not loaded: %+v", cfg.Cache)
	}
	if ttl, _ := cfg.CacheTTL(); ttl != 2*time.Hour {
		t.Errorf("expected ttl 2h, got %v", ttl)
	}
	if cfg.Store.Backend != "sqlite" {
		t.Errorf("expected sqlite store, got %s", cfg.Store.Backend)
	}
	if cfg.Render.Width != 1200 {
		t.Errorf("expected width 1200, got %v", cfg.Render.Width)
	}
	// Unset keys keep their defaults.
	if cfg.Render.Height != Default().Render.Height {
		t.Errorf("expected default height, got %v", cfg.Render.Height)
	}
	if len(cfg.Render.Formats) != 2 || cfg.Render.Formats[0] != "svg" {
		t.Errorf("expected normalized formats, got %v", cfg.Render.Formats)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("expected addr 127.0.0.1:9000, got %s", cfg.Server.Addr)
	}

	opts := cfg.RedisOptions()
	if opts.Addr != "cache:6379" || opts.Prefix != "gridslot:" {
		t.Errorf("RedisOptions() = %+v", opts)
	}
	if so := cfg.StoreOptions(); so.Backend != "sqlite" || so.Path == "" {
		t.Errorf("StoreOptions() = %+v", so)
	}
}

func TestLoadFrom_InvalidTOML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[cache\nbackend ="), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(configPath); err == nil {
		t.Error("expected parse error")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GRIDSLOT_CACHE_BACKEND", "none")
	t.Setenv("GRIDSLOT_RENDER_STYLE", "outline")
	t.Setenv("GRIDSLOT_RENDER_FORMATS", "svg,dot")
	t.Setenv("GRIDSLOT_REDIS_DB", "5")
	t.Setenv("GRIDSLOT_SERVER_ADDR", ":7000")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Cache.Backend != CacheNone {
		t.Errorf("expected cache none, got %s", cfg.Cache.Backend)
	}
	if cfg.Render.Style != "outline" {
		t.Errorf("expected style outline, got %s", cfg.Render.Style)
	}
	if len(cfg.Render.Formats) != 2 || cfg.Render.Formats[1] != "dot" {
		t.Errorf("expected [svg dot], got %v", cfg.Render.Formats)
	}
	if cfg.Cache.Redis.DB != 5 {
		t.Errorf("expected redis db 5, got %d", cfg.Cache.Redis.DB)
	}
	if cfg.Server.Addr != ":7000" {
		t.Errorf("expected addr :7000, got %s", cfg.Server.Addr)
	}
}

func TestEnvOverrides_BadNumber(t *testing.T) {
	t.Setenv("GRIDSLOT_REDIS_DB", "two")
	if _, err := LoadFrom(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for non-numeric GRIDSLOT_REDIS_DB")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"bad cache backend", func(c *Config) { c.Cache.Backend = "memcached" }, true},
		{"redis without addr", func(c *Config) { c.Cache.Backend = CacheRedis; c.Cache.Redis.Addr = "" }, true},
		{"bad ttl", func(c *Config) { c.Cache.TTL = "soon" }, true},
		{"negative ttl", func(c *Config) { c.Cache.TTL = "-1h" }, true},
		{"namespace", func(c *Config) { c.Cache.Namespace = "staging" }, false},
		{"namespace with colon", func(c *Config) { c.Cache.Namespace = "a:b" }, true},
		{"bad store backend", func(c *Config) { c.Store.Backend = "s3" }, true},
		{"mongo without uri", func(c *Config) { c.Store.Backend = "mongo" }, true},
		{"negative width", func(c *Config) { c.Render.Width = -1 }, true},
		{"bad style", func(c *Config) { c.Render.Style = "comic" }, true},
		{"bad format", func(c *Config) { c.Render.Formats = []string{"bmp"} }, true},
		{"empty addr", func(c *Config) { c.Server.Addr = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.Render.Style = "outline"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}
	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if loaded.Render.Style != "outline" {
		t.Errorf("expected style outline after round trip, got %s", loaded.Render.Style)
	}
}

func TestCacheKeyer(t *testing.T) {
	cfg := Default()
	if cfg.CacheKeyer() != nil {
		t.Error("no namespace should leave the runner's default keyer")
	}
	cfg.Cache.Namespace = "staging"
	if got := cfg.CacheKeyer().PackKey("abc"); !strings.HasPrefix(got, "staging:") {
		t.Errorf("PackKey = %q, want staging: prefix", got)
	}
}
