package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-json"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/matzehuels/gridslot/pkg/cache"
	"github.com/matzehuels/gridslot/pkg/frame"
	"github.com/matzehuels/gridslot/pkg/grid"
	"github.com/matzehuels/gridslot/pkg/observability"
	"github.com/matzehuels/gridslot/pkg/rearrange"
	"github.com/matzehuels/gridslot/pkg/slot"
)

// Runner encapsulates pipeline execution with caching.
// The CLI, the TUI and the API server all use it to avoid duplicating
// caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete pack → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, m slot.Matrix, reg *slot.Registry, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Pack
	packStart := time.Now()
	p, hash, packHit, err := r.packWithCacheInfo(ctx, m, opts.Refresh)
	if err != nil {
		return nil, fmt.Errorf("pack: %w", err)
	}
	result.Packed = p
	result.PackHash = hash
	result.Stats.PackTime = time.Since(packStart)
	result.Stats.Slots = p.Len()
	result.Stats.Rows = p.Rows()
	result.Stats.Columns = p.Columns()
	result.CacheInfo.PackHit = packHit

	r.Logger.Info("packed slots",
		"slots", p.Len(),
		"rows", p.Rows(),
		"columns", p.Columns(),
		"duration", result.Stats.PackTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	l, layoutHit, err := r.LayoutWithCacheInfo(ctx, p, hash, reg, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed frames",
		"frames", len(l.Frames),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, p, l, reg, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// PackWithCacheInfo packs m with caching. It returns the packed grid, the
// matrix hash used to key later stages, and whether the cache was hit.
func (r *Runner) PackWithCacheInfo(ctx context.Context, m slot.Matrix) (*grid.Packed, string, bool, error) {
	return r.packWithCacheInfo(ctx, m, false)
}

func (r *Runner) packWithCacheInfo(ctx context.Context, m slot.Matrix, refresh bool) (*grid.Packed, string, bool, error) {
	hash, err := MatrixHash(m)
	if err != nil {
		return nil, "", false, err
	}
	cacheKey := r.Keyer.PackKey(hash)

	// Try cache first (unless refresh requested)
	if !refresh {
		if p, ok := r.cachedSnapshot(ctx, "pack", cacheKey); ok {
			return p, hash, true, nil
		}
	}

	observability.Pipeline().OnPackStart(ctx, m.Count())
	start := time.Now()
	p, err := grid.Pack(m)
	if err != nil {
		observability.Pipeline().OnPackComplete(ctx, 0, 0, time.Since(start), err)
		return nil, "", false, err
	}
	observability.Pipeline().OnPackComplete(ctx, p.Rows(), p.Columns(), time.Since(start), nil)

	if data, err := msgpack.Marshal(p.Snapshot()); err == nil {
		r.store(ctx, "pack", cacheKey, data, cache.PackTTL)
	}
	return p, hash, false, nil
}

// Pack is a convenience wrapper that calls PackWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Pack(ctx context.Context, m slot.Matrix) (*grid.Packed, string, error) {
	p, hash, _, err := r.PackWithCacheInfo(ctx, m)
	return p, hash, err
}

// MoveResult is a rearrangement together with the hash of the new matrix.
type MoveResult struct {
	*rearrange.Result
	PackHash string
}

// moveRecord is the cached form of a move. Mapping is stored as pairs
// because msgpack map keys must be scalars.
type moveRecord struct {
	Snapshot  grid.Snapshot `msgpack:"snapshot"`
	From      []grid.ID     `msgpack:"from"`
	To        []grid.ID     `msgpack:"to"`
	Order     []grid.ID     `msgpack:"order"`
	Displaced []grid.ID     `msgpack:"displaced"`
}

// MoveWithCacheInfo moves target one step in dir on the grid identified by
// packHash. Rejected moves are never cached.
func (r *Runner) MoveWithCacheInfo(ctx context.Context, p *grid.Packed, packHash string, target grid.ID, dir grid.Direction) (*MoveResult, bool, error) {
	if packHash == "" {
		h, err := MatrixHash(p.Matrix())
		if err != nil {
			return nil, false, err
		}
		packHash = h
	}
	cacheKey := r.Keyer.MoveKey(packHash, target.String(), dir.String())

	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		if res, err := decodeMove(data, target, dir); err == nil {
			observability.Cache().OnCacheHit(ctx, "move")
			return res, true, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "move")

	observability.Pipeline().OnMoveStart(ctx, target.String(), dir.String())
	start := time.Now()
	res, err := rearrange.Move(p, target, dir)
	if err != nil {
		observability.Pipeline().OnMoveComplete(ctx, target.String(), dir.String(), 0, time.Since(start), err)
		return nil, false, err
	}
	observability.Pipeline().OnMoveComplete(ctx, target.String(), dir.String(), len(res.Displaced), time.Since(start), nil)

	hash, err := MatrixHash(res.Matrix)
	if err != nil {
		return nil, false, err
	}
	r.Logger.Debug("moved slot", "target", target, "direction", dir, "displaced", len(res.Displaced))

	if data, err := encodeMove(res); err == nil {
		r.store(ctx, "move", cacheKey, data, cache.PackTTL)
	}
	return &MoveResult{Result: res, PackHash: hash}, false, nil
}

// Move is a convenience wrapper that calls MoveWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Move(ctx context.Context, p *grid.Packed, packHash string, target grid.ID, dir grid.Direction) (*MoveResult, error) {
	res, _, err := r.MoveWithCacheInfo(ctx, p, packHash, target, dir)
	return res, err
}

// LayoutWithCacheInfo computes frames with caching and returns cache hit info.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, p *grid.Packed, packHash string, reg *slot.Registry, opts Options) (frame.Layout, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return frame.Layout{}, false, err
	}

	cacheKey := ""
	if packHash != "" {
		cacheKey = r.Keyer.LayoutKey(layoutSource(packHash, reg), opts.LayoutKeyOpts())
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				var cached frame.Layout
				if err := json.Unmarshal(data, &cached); err == nil {
					observability.Cache().OnCacheHit(ctx, "layout")
					return cached, true, nil
				}
				// If deserialization fails, fall through to recompute
			}
			observability.Cache().OnCacheMiss(ctx, "layout")
		}
	}

	observability.Pipeline().OnLayoutStart(ctx, p.Len())
	start := time.Now()
	l, err := frame.Compute(p, reg, opts.FrameOptions())
	observability.Pipeline().OnLayoutComplete(ctx, len(l.Frames), time.Since(start), err)
	if err != nil {
		return frame.Layout{}, false, err
	}

	if cacheKey != "" {
		if data, err := json.Marshal(l); err == nil {
			r.store(ctx, "layout", cacheKey, data, cache.LayoutTTL)
		}
	}
	return l, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, p *grid.Packed, packHash string, reg *slot.Registry, opts Options) (frame.Layout, error) {
	l, _, err := r.LayoutWithCacheInfo(ctx, p, packHash, reg, opts)
	return l, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, p *grid.Packed, l frame.Layout, reg *slot.Registry, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	// Compute cache key from layout data
	layoutData, err := json.Marshal(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			data, hit, err := r.Cache.Get(ctx, r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format)))
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(ctx, p, l, reg, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		r.store(ctx, "artifact", r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format)), data, cache.ArtifactTTL)
	}
	return rendered, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// MatrixHash returns the content hash of a slot matrix.
func MatrixHash(m slot.Matrix) (string, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("hash matrix: %w", err)
	}
	return cache.Hash(data), nil
}

// layoutSource combines the pack hash with the registry contents, since
// labels and colours end up in the frames.
func layoutSource(packHash string, reg *slot.Registry) string {
	if reg == nil {
		return packHash
	}
	data, err := json.Marshal(reg.Kinds())
	if err != nil {
		return packHash
	}
	return packHash + "." + cache.Hash(data)
}

func (r *Runner) cachedSnapshot(ctx context.Context, keyType, key string) (*grid.Packed, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	var snap grid.Snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		r.Logger.Debug("discarding unreadable cache entry", "key", key, "error", err)
		return nil, false
	}
	p, err := grid.FromSnapshot(snap)
	if err != nil {
		r.Logger.Debug("discarding invalid cache entry", "key", key, "error", err)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return p, true
}

// store writes a cache entry. Write failures only cost a future miss.
func (r *Runner) store(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Debug("cache write failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

func encodeMove(res *rearrange.Result) ([]byte, error) {
	rec := moveRecord{
		Snapshot:  res.Packed.Snapshot(),
		Order:     res.Order,
		Displaced: res.Displaced,
	}
	// Order covers every old identity exactly once.
	for _, from := range res.Order {
		rec.From = append(rec.From, from)
		rec.To = append(rec.To, res.Mapping[from])
	}
	return msgpack.Marshal(rec)
}

func decodeMove(data []byte, target grid.ID, dir grid.Direction) (*MoveResult, error) {
	var rec moveRecord
	if err := msgpack.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	if len(rec.From) != len(rec.To) {
		return nil, fmt.Errorf("move record has %d sources for %d targets", len(rec.From), len(rec.To))
	}
	p, err := grid.FromSnapshot(rec.Snapshot)
	if err != nil {
		return nil, err
	}
	mapping := make(map[grid.ID]grid.ID, len(rec.From))
	for i, from := range rec.From {
		mapping[from] = rec.To[i]
	}
	m := p.Matrix()
	hash, err := MatrixHash(m)
	if err != nil {
		return nil, err
	}
	return &MoveResult{
		Result: &rearrange.Result{
			Target:    target,
			Direction: dir,
			Matrix:    m,
			Packed:    p,
			Mapping:   mapping,
			Order:     rec.Order,
			Displaced: rec.Displaced,
		},
		PackHash: hash,
	}, nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
