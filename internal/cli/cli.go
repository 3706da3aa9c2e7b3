package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridslot/internal/config"
	"github.com/matzehuels/gridslot/pkg/buildinfo"
	"github.com/matzehuels/gridslot/pkg/cache"
	gridio "github.com/matzehuels/gridslot/pkg/io"
	"github.com/matzehuels/gridslot/pkg/observability"
	"github.com/matzehuels/gridslot/pkg/pipeline"
	"github.com/matzehuels/gridslot/pkg/render"
	"github.com/matzehuels/gridslot/pkg/slot"
	"github.com/matzehuels/gridslot/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "gridslot"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath overrides the default config location (--config).
	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Gridslot packs variable-size slots onto a grid and rearranges them",
		Long:         `Gridslot is a CLI tool for packing rows of fixed-footprint slots onto a two-dimensional grid, moving slots one step at a time, and rendering the resulting layouts.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			if c.Logger.GetLevel() <= log.DebugLevel {
				observability.NewLogHooks(c.Logger.WithPrefix("hooks")).Install()
			}
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.DefaultConfigPath()+")")

	// Register all subcommands
	root.AddCommand(c.packCommand())
	root.AddCommand(c.moveCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.kindsCommand())
	root.AddCommand(c.layoutsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.tuiCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig loads the configuration once per CLI instance.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	path := c.configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded config", "path", path, "cache", cfg.Cache.Backend, "store", cfg.Store.Backend)
	c.cfg = cfg
	return cfg, nil
}

// =============================================================================
// Runner and Store Factories
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	cc, err := newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, cfg.CacheKeyer(), c.Logger), nil
}

func newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	ttl, err := cfg.CacheTTL()
	if err != nil {
		return nil, err
	}

	var cc cache.Cache
	switch cfg.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cfg.RedisOptions())
		if err != nil {
			return nil, fmt.Errorf("connect redis cache: %w", err)
		}
		cc = rc
	default:
		fc, err := cache.NewFileCache(cfg.Cache.Dir)
		if err != nil {
			return cache.NewNullCache(), nil
		}
		cc = fc
	}
	if ttl > 0 {
		cc = cache.FixedTTL(cc, ttl)
	}
	return cc, nil
}

// newStore opens the configured layout store.
func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	return store.Open(ctx, cfg.StoreOptions())
}

// =============================================================================
// Options Helpers
// =============================================================================

// setCLIDefaults applies configured render defaults on top of pipeline defaults.
func (c *CLI) setCLIDefaults(opts *pipeline.Options) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if opts.Width == 0 {
		opts.Width = cfg.Render.Width
	}
	if opts.Height == 0 {
		opts.Height = cfg.Render.Height
	}
	if opts.Padding == 0 {
		opts.Padding = cfg.Render.Padding
	}
	if opts.Style == "" {
		opts.Style = cfg.Render.Style
	}
	if len(opts.Formats) == 0 {
		opts.Formats = cfg.Render.Formats
	}
	opts.Logger = c.Logger
	opts.SetDefaults()
	return nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// formatList renders the supported formats for flag help.
func formatList() string {
	return strings.Join(render.Formats, ", ")
}

// =============================================================================
// Document Loading
// =============================================================================

// loadedDocument is a slot document resolved against the built-in kinds.
type loadedDocument struct {
	Doc      *gridio.Document
	Registry *slot.Registry
	Matrix   slot.Matrix
}

// loadDocument reads a .toml or .json slot document and resolves its kinds.
func loadDocument(path string) (*loadedDocument, error) {
	doc, err := gridio.Import(path)
	if err != nil {
		return nil, err
	}
	return resolveDocument(doc)
}

func resolveDocument(doc *gridio.Document) (*loadedDocument, error) {
	reg, err := doc.Registry(nil)
	if err != nil {
		return nil, err
	}
	m, err := doc.Matrix(reg)
	if err != nil {
		return nil, err
	}
	return &loadedDocument{Doc: doc, Registry: reg, Matrix: m}, nil
}
