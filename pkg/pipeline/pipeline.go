// Package pipeline provides the pack → layout → render pipeline for gridslot.
//
// This package implements the complete pipeline used by the CLI, the TUI and
// the API server. By centralizing this logic, every entry point packs, moves
// and renders a grid the same way and shares one cache.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Pack: Place a slot matrix on a grid (pkg/grid)
//  2. Layout: Compute pixel frames for every placement (pkg/frame)
//  3. Render: Generate output in various formats (SVG, PNG, PDF, JSON, DOT)
//
// A fourth operation, Move, applies one rearrangement step to a packed grid
// (pkg/rearrange). Each stage can be run independently or as part of the
// complete pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, m, reg, pipeline.Options{
//	    Formats: []string{"svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	p, hash, hit, err := runner.PackWithCacheInfo(ctx, m)
//	res, hit, err := runner.MoveWithCacheInfo(ctx, p, hash, target, grid.Right)
//	l, err := runner.Layout(ctx, p, hash, reg, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gridslot/pkg/cache"
	"github.com/matzehuels/gridslot/pkg/errors"
	"github.com/matzehuels/gridslot/pkg/frame"
	"github.com/matzehuels/gridslot/pkg/grid"
	"github.com/matzehuels/gridslot/pkg/render"
	"github.com/matzehuels/gridslot/pkg/render/styles"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and TUI
// =============================================================================

const (
	DefaultStyle  = styles.StyleSimple
	DefaultFormat = render.FormatSVG
	DefaultScale  = 2.0
)

// =============================================================================
// Options and Results
// =============================================================================

// Options configures a pipeline run.
type Options struct {
	// Layout options
	Width   float64 `json:"width,omitempty"`
	Height  float64 `json:"height,omitempty"`
	Padding float64 `json:"padding,omitempty"`

	// Render options
	Formats   []string `json:"formats,omitempty"`
	Style     string   `json:"style,omitempty"`
	GridLines bool     `json:"grid_lines,omitempty"`
	NoLabels  bool     `json:"no_labels,omitempty"`
	Highlight string   `json:"highlight,omitempty"` // slot id "row:item"
	Detailed  bool     `json:"detailed,omitempty"`  // detailed DOT labels
	Scale     float64  `json:"scale,omitempty"`     // PNG scale

	// Refresh bypasses cache reads; results are still written back.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	highlight *grid.ID
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Packed is the packed grid.
	Packed *grid.Packed

	// PackHash is the content hash of the source matrix. It keys every
	// downstream cache entry.
	PackHash string

	// Layout contains the pixel frames.
	Layout frame.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Slots      int
	Rows       int
	Columns    int
	PackTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	PackHit   bool
	LayoutHit bool
	RenderHit bool // all artifacts came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills zero-valued options.
func (o *Options) SetDefaults() {
	fo := o.FrameOptions()
	fo.SetDefaults()
	o.Width, o.Height, o.Padding = fo.Width, fo.Height, fo.Padding
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout sets defaults and checks the frame options.
func (o *Options) ValidateForLayout() error {
	o.SetDefaults()
	return o.FrameOptions().Validate()
}

// ValidateForRender sets defaults and checks formats, style and highlight.
// Formats are normalized to lower case.
func (o *Options) ValidateForRender() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	formats, err := render.ValidateFormats(o.Formats)
	if err != nil {
		return err
	}
	o.Formats = formats
	if _, err := styles.Lookup(o.Style); err != nil {
		return err
	}
	o.highlight = nil
	if o.Highlight != "" {
		id, err := grid.ParseID(o.Highlight)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "highlight")
		}
		o.highlight = &id
	}
	return nil
}

// FrameOptions returns the layout options for pkg/frame.
func (o *Options) FrameOptions() frame.Options {
	return frame.Options{Width: o.Width, Height: o.Height, Padding: o.Padding}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{Width: o.Width, Height: o.Height, Padding: o.Padding}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:    format,
		Style:     o.Style,
		GridLines: o.GridLines,
		NoLabels:  o.NoLabels,
		Highlight: o.Highlight,
		Detailed:  o.Detailed,
		Scale:     o.Scale,
	}
}
