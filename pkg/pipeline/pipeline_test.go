package pipeline

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/gridslot/pkg/errors"
	"github.com/matzehuels/gridslot/pkg/grid"
	"github.com/matzehuels/gridslot/pkg/slot"
)

// memCache is an in-memory cache.Cache that counts hits.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	hits int
	sets int
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	if ok {
		c.hits++
	}
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func testMatrix(t *testing.T) (slot.Matrix, *slot.Registry) {
	t.Helper()
	reg := slot.Builtin()
	m, err := reg.Build([][]slot.Ref{
		{{Kind: "map"}, {Kind: "chart"}},
		{{Kind: "sky"}},
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return m, reg
}

func TestOptionsSetDefaults(t *testing.T) {
	var opts Options
	opts.SetDefaults()

	if opts.Width == 0 || opts.Height == 0 || opts.Padding == 0 {
		t.Errorf("frame defaults not applied: %+v", opts)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != DefaultFormat {
		t.Errorf("Formats = %v, want [%s]", opts.Formats, DefaultFormat)
	}
	if opts.Style != DefaultStyle {
		t.Errorf("Style = %q, want %q", opts.Style, DefaultStyle)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale = %v, want %v", opts.Scale, DefaultScale)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestOptionsValidateForRender(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"defaults", Options{}, ""},
		{"upper case format", Options{Formats: []string{"SVG", "json"}}, ""},
		{"bad format", Options{Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"bad style", Options{Style: "handdrawn"}, errors.ErrCodeInvalidStyle},
		{"bad highlight", Options{Highlight: "x"}, errors.ErrCodeInvalidInput},
		{"negative width", Options{Width: -1}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateForRender()
			if tt.code == "" {
				if err != nil {
					t.Fatalf("ValidateForRender() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("ValidateForRender() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestOptionsNormalizesFormats(t *testing.T) {
	opts := Options{Formats: []string{" SVG ", "Dot"}}
	if err := opts.ValidateForRender(); err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(opts.Formats, ","); got != "svg,dot" {
		t.Errorf("Formats = %q, want svg,dot", got)
	}
}

func TestExecute(t *testing.T) {
	m, reg := testMatrix(t)
	c := newMemCache()
	r := NewRunner(c, nil, nil)
	ctx := context.Background()

	opts := Options{Formats: []string{"svg", "json", "dot"}, Highlight: "0:1"}
	res, err := r.Execute(ctx, m, reg, opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if res.Stats.Slots != 3 || res.Stats.Rows != 2 || res.Stats.Columns != 4 {
		t.Errorf("Stats = %+v, want 3 slots on 2x4", res.Stats)
	}
	if res.CacheInfo.PackHit || res.CacheInfo.LayoutHit || res.CacheInfo.RenderHit {
		t.Errorf("first run should miss every cache: %+v", res.CacheInfo)
	}
	if !bytes.HasPrefix(res.Artifacts["svg"], []byte("<svg")) {
		t.Errorf("svg artifact does not start with <svg: %.40q", res.Artifacts["svg"])
	}
	if !bytes.Contains(res.Artifacts["json"], []byte(`"frames"`)) {
		t.Error("json artifact missing frames")
	}
	if !bytes.Contains(res.Artifacts["dot"], []byte("digraph")) {
		t.Error("dot artifact missing digraph")
	}
	if len(res.Layout.Frames) != 3 {
		t.Errorf("len(Frames) = %d, want 3", len(res.Layout.Frames))
	}

	again, err := r.Execute(ctx, m, reg, opts)
	if err != nil {
		t.Fatalf("second Execute() error = %v", err)
	}
	if !again.CacheInfo.PackHit || !again.CacheInfo.LayoutHit || !again.CacheInfo.RenderHit {
		t.Errorf("second run should hit every cache: %+v", again.CacheInfo)
	}
	if again.PackHash != res.PackHash {
		t.Errorf("PackHash changed: %s != %s", again.PackHash, res.PackHash)
	}
	if !again.Packed.Equal(res.Packed) {
		t.Error("cached packing differs from computed packing")
	}
	if !bytes.Equal(again.Artifacts["svg"], res.Artifacts["svg"]) {
		t.Error("cached svg differs")
	}
}

func TestExecuteRefresh(t *testing.T) {
	m, reg := testMatrix(t)
	c := newMemCache()
	r := NewRunner(c, nil, nil)
	ctx := context.Background()

	if _, err := r.Execute(ctx, m, reg, Options{}); err != nil {
		t.Fatal(err)
	}
	res, err := r.Execute(ctx, m, reg, Options{Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.PackHit || res.CacheInfo.LayoutHit || res.CacheInfo.RenderHit {
		t.Errorf("refresh should bypass cache reads: %+v", res.CacheInfo)
	}
}

func TestExecuteInvalidSlot(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	m := slot.Matrix{{slot.New("bad", 0, 1, nil)}}
	_, err := r.Execute(context.Background(), m, nil, Options{})
	if !errors.Is(err, errors.ErrCodeInvalidSlot) {
		t.Errorf("Execute() error = %v, want INVALID_SLOT", err)
	}
}

func TestMoveWithCacheInfo(t *testing.T) {
	m, _ := testMatrix(t)
	c := newMemCache()
	r := NewRunner(c, nil, nil)
	ctx := context.Background()

	p, hash, err := r.Pack(ctx, m)
	if err != nil {
		t.Fatal(err)
	}
	target := grid.ID{Row: 0, Item: 1}

	first, hit, err := r.MoveWithCacheInfo(ctx, p, hash, target, grid.Left)
	if err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if hit {
		t.Error("first move should miss the cache")
	}
	if first.PackHash == hash {
		t.Error("moved grid should hash differently")
	}

	second, hit, err := r.MoveWithCacheInfo(ctx, p, hash, target, grid.Left)
	if err != nil {
		t.Fatal(err)
	}
	if !hit {
		t.Error("second move should hit the cache")
	}
	if !second.Packed.Equal(first.Packed) {
		t.Error("cached move packing differs")
	}
	if second.PackHash != first.PackHash {
		t.Errorf("PackHash = %s, want %s", second.PackHash, first.PackHash)
	}
	if len(second.Mapping) != len(first.Mapping) {
		t.Fatalf("len(Mapping) = %d, want %d", len(second.Mapping), len(first.Mapping))
	}
	for from, to := range first.Mapping {
		if second.Mapping[from] != to {
			t.Errorf("Mapping[%s] = %s, want %s", from, second.Mapping[from], to)
		}
	}
}

func TestMoveRejectedIsNotCached(t *testing.T) {
	m, _ := testMatrix(t)
	c := newMemCache()
	r := NewRunner(c, nil, nil)
	ctx := context.Background()

	p, hash, err := r.Pack(ctx, m)
	if err != nil {
		t.Fatal(err)
	}
	sets := c.sets
	_, err = r.Move(ctx, p, hash, grid.ID{Row: 0, Item: 0}, grid.Left)
	if !errors.Is(err, errors.ErrCodeMoveRejected) {
		t.Fatalf("Move() error = %v, want MOVE_REJECTED", err)
	}
	if c.sets != sets {
		t.Errorf("rejected move wrote %d cache entries", c.sets-sets)
	}
}

func TestLayoutKeyDependsOnRegistry(t *testing.T) {
	m, reg := testMatrix(t)
	other := reg.Clone()
	if err := other.Register(slot.Kind{Name: "map", Width: 2, Height: 2, Label: "Atlas"}); err != nil {
		t.Fatal(err)
	}
	if layoutSource("h", reg) == layoutSource("h", other) {
		t.Error("registries with different labels should key different layouts")
	}
	if layoutSource("h", nil) != "h" {
		t.Error("nil registry should key by pack hash alone")
	}

	r := NewRunner(newMemCache(), nil, nil)
	ctx := context.Background()
	p, hash, err := r.Pack(ctx, m)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.Layout(ctx, p, hash, reg, Options{}); err != nil {
		t.Fatal(err)
	}
	l, hit, err := r.LayoutWithCacheInfo(ctx, p, hash, other, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("layout for a different registry should miss")
	}
	f, ok := l.Frame(grid.ID{Row: 0, Item: 0})
	if !ok || f.Label != "Atlas" {
		t.Errorf("Frame(0:0).Label = %q, want Atlas", f.Label)
	}
}

func TestMatrixHashStable(t *testing.T) {
	m, _ := testMatrix(t)
	h1, err := MatrixHash(m)
	if err != nil {
		t.Fatal(err)
	}
	h2, _ := MatrixHash(m.Clone())
	if h1 != h2 {
		t.Errorf("MatrixHash differs for equal matrices: %s != %s", h1, h2)
	}
	m[1] = append(m[1], slot.New("sky", 1, 1, nil))
	h3, _ := MatrixHash(m)
	if h3 == h1 {
		t.Error("MatrixHash should change when the matrix changes")
	}
}

func TestRenderDiagramDOT(t *testing.T) {
	m, reg := testMatrix(t)
	p, err := grid.Pack(m)
	if err != nil {
		t.Fatal(err)
	}
	data, err := RenderDiagram(context.Background(), p, reg, "dot", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "digraph") {
		t.Errorf("RenderDiagram(dot) = %.30q", data)
	}
	if _, err := RenderDiagram(context.Background(), p, reg, "json", Options{}); err == nil {
		t.Error("RenderDiagram(json) should fail")
	}
}
