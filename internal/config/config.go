// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/matzehuels/gridslot/pkg/cache"
	"github.com/matzehuels/gridslot/pkg/frame"
	"github.com/matzehuels/gridslot/pkg/render"
	"github.com/matzehuels/gridslot/pkg/render/styles"
	"github.com/matzehuels/gridslot/pkg/store"
)

// Config holds the application configuration.
type Config struct {
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
	Render RenderConfig `toml:"render"`
	Server ServerConfig `toml:"server"`
}

// CacheConfig selects the pipeline cache.
type CacheConfig struct {
	Backend string `toml:"backend"` // "file", "redis", "none"
	Dir     string `toml:"dir"`
	TTL     string `toml:"ttl"` // e.g. "24h"; empty keeps the per-stage defaults
	// Namespace scopes every cache key, so deployments can share a backend.
	Namespace string      `toml:"namespace"`
	Redis     RedisConfig `toml:"redis"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	URL      string `toml:"url"` // takes precedence over addr/password/db
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// StoreConfig selects the layout store.
type StoreConfig struct {
	Backend string      `toml:"backend"` // "file", "sqlite", "mongo"
	Dir     string      `toml:"dir"`
	Path    string      `toml:"path"`
	Mongo   MongoConfig `toml:"mongo"`
}

// MongoConfig holds MongoDB settings.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// RenderConfig holds default render settings.
type RenderConfig struct {
	Width   float64  `toml:"width"`
	Height  float64  `toml:"height"`
	Padding float64  `toml:"padding"`
	Style   string   `toml:"style"`
	Formats []string `toml:"formats"`
}

// ServerConfig holds API server settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Cache backend names.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Cache: CacheConfig{
			Backend: CacheFile,
			Dir:     filepath.Join(dataHome(".cache"), "gridslot"),
			Redis:   RedisConfig{Addr: "localhost:6379", Prefix: "gridslot:"},
		},
		Store: StoreConfig{
			Backend: store.BackendFile,
			Dir:     filepath.Join(dataHome(".config"), "gridslot", "layouts"),
			Path:    filepath.Join(dataHome(".local", "share"), "gridslot", "layouts.db"),
			Mongo: MongoConfig{
				Database:   store.DefaultMongoDatabase,
				Collection: store.DefaultMongoCollection,
			},
		},
		Render: RenderConfig{
			Width:   frame.DefaultWidth,
			Height:  frame.DefaultHeight,
			Padding: frame.DefaultPadding,
			Style:   styles.StyleSimple,
			Formats: []string{render.FormatSVG},
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

func dataHome(parts ...string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(append([]string{home}, parts...)...)
}

// DefaultConfigPath returns the default config file path, honouring
// XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "gridslot", "config.toml")
	}
	return filepath.Join(dataHome(".config"), "gridslot", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	// Try to load from file (not an error if it doesn't exist)
	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Cache.Dir = expandPath(cfg.Cache.Dir)
	cfg.Store.Dir = expandPath(cfg.Store.Dir)
	cfg.Store.Path = expandPath(cfg.Store.Path)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	return nil
}

// applyEnvOverrides applies GRIDSLOT_* environment variables.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	str := map[string]*string{
		"GRIDSLOT_CACHE_BACKEND":   &cfg.Cache.Backend,
		"GRIDSLOT_CACHE_DIR":       &cfg.Cache.Dir,
		"GRIDSLOT_CACHE_TTL":       &cfg.Cache.TTL,
		"GRIDSLOT_CACHE_NAMESPACE": &cfg.Cache.Namespace,
		"GRIDSLOT_REDIS_URL":       &cfg.Cache.Redis.URL,
		"GRIDSLOT_REDIS_ADDR":      &cfg.Cache.Redis.Addr,
		"GRIDSLOT_REDIS_PASSWORD":  &cfg.Cache.Redis.Password,
		"GRIDSLOT_STORE_BACKEND":   &cfg.Store.Backend,
		"GRIDSLOT_STORE_DIR":       &cfg.Store.Dir,
		"GRIDSLOT_STORE_PATH":      &cfg.Store.Path,
		"GRIDSLOT_MONGO_URI":       &cfg.Store.Mongo.URI,
		"GRIDSLOT_MONGO_DATABASE":  &cfg.Store.Mongo.Database,
		"GRIDSLOT_RENDER_STYLE":    &cfg.Render.Style,
		"GRIDSLOT_SERVER_ADDR":     &cfg.Server.Addr,
	}
	for env, dst := range str {
		if v := os.Getenv(env); v != "" {
			*dst = v
		}
	}

	if v := os.Getenv("GRIDSLOT_REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("GRIDSLOT_REDIS_DB: %w", err)
		}
		cfg.Cache.Redis.DB = n
	}
	if v := os.Getenv("GRIDSLOT_RENDER_FORMATS"); v != "" {
		cfg.Render.Formats = strings.Split(v, ",")
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case CacheFile:
		if c.Cache.Dir == "" {
			return errors.New("cache.dir must be set for the file cache")
		}
	case CacheRedis:
		if c.Cache.Redis.URL == "" && c.Cache.Redis.Addr == "" {
			return errors.New("cache.redis needs url or addr")
		}
	case CacheNone:
	default:
		return fmt.Errorf("invalid cache backend: %q (want file, redis or none)", c.Cache.Backend)
	}
	if _, err := c.CacheTTL(); err != nil {
		return err
	}
	if strings.ContainsAny(c.Cache.Namespace, ": \t\n") {
		return fmt.Errorf("invalid cache namespace: %q (no colons or spaces)", c.Cache.Namespace)
	}

	switch c.Store.Backend {
	case store.BackendFile:
		if c.Store.Dir == "" {
			return errors.New("store.dir must be set for the file store")
		}
	case store.BackendSQLite:
		if c.Store.Path == "" {
			return errors.New("store.path must be set for the sqlite store")
		}
	case store.BackendMongo:
		if c.Store.Mongo.URI == "" {
			return errors.New("store.mongo.uri must be set for the mongo store")
		}
	default:
		return fmt.Errorf("invalid store backend: %q (want file, sqlite or mongo)", c.Store.Backend)
	}

	fo := frame.Options{Width: c.Render.Width, Height: c.Render.Height, Padding: c.Render.Padding}
	if err := fo.Validate(); err != nil {
		return err
	}
	if _, err := styles.Lookup(c.Render.Style); err != nil {
		return err
	}
	formats, err := render.ValidateFormats(c.Render.Formats)
	if err != nil {
		return err
	}
	c.Render.Formats = formats

	if c.Server.Addr == "" {
		return errors.New("server.addr must be set")
	}
	return nil
}

// CacheTTL parses cache.ttl. Zero means the per-stage defaults apply.
func (c *Config) CacheTTL() (time.Duration, error) {
	if c.Cache.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil {
		return 0, fmt.Errorf("cache.ttl: %w", err)
	}
	if d < 0 {
		return 0, errors.New("cache.ttl must not be negative")
	}
	return d, nil
}

// RedisOptions converts the redis section for cache.NewRedisCache.
func (c *Config) RedisOptions() cache.RedisOptions {
	r := c.Cache.Redis
	return cache.RedisOptions{URL: r.URL, Addr: r.Addr, Password: r.Password, DB: r.DB, Prefix: r.Prefix}
}

// StoreOptions converts the store section for store.Open.
func (c *Config) StoreOptions() store.Options {
	return store.Options{
		Backend: c.Store.Backend,
		Dir:     c.Store.Dir,
		Path:    c.Store.Path,
		Mongo: store.MongoOptions{
			URI:        c.Store.Mongo.URI,
			Database:   c.Store.Mongo.Database,
			Collection: c.Store.Mongo.Collection,
		},
	}
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// CacheKeyer returns the keyer for the configured namespace, or nil for the
// runner's default.
func (c *Config) CacheKeyer() cache.Keyer {
	if c.Cache.Namespace == "" {
		return nil
	}
	return cache.NewScopedKeyer(nil, c.Cache.Namespace)
}
