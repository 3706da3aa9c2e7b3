package pipeline

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/gridslot/pkg/frame"
	"github.com/matzehuels/gridslot/pkg/grid"
	"github.com/matzehuels/gridslot/pkg/render"
	"github.com/matzehuels/gridslot/pkg/render/nodelink"
	"github.com/matzehuels/gridslot/pkg/render/sink"
	"github.com/matzehuels/gridslot/pkg/render/styles"
	"github.com/matzehuels/gridslot/pkg/slot"
)

// Render generates output artifacts in the requested formats. Formats are
// rendered concurrently; the first failure cancels the rest.
func Render(ctx context.Context, p *grid.Packed, l frame.Layout, reg *slot.Registry, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	svgOpts, err := buildSVGOptions(opts)
	if err != nil {
		return nil, err
	}

	var (
		mu        sync.Mutex
		artifacts = make(map[string][]byte, len(opts.Formats))
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		g.Go(func() error {
			data, err := renderFormat(gctx, format, p, l, reg, opts, svgOpts)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	opts.Logger.Debug("rendered artifacts", "formats", opts.Formats, "frames", len(l.Frames))
	return artifacts, nil
}

func renderFormat(ctx context.Context, format string, p *grid.Packed, l frame.Layout, reg *slot.Registry, opts Options, svgOpts []sink.SVGOption) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch format {
	case render.FormatSVG:
		return sink.RenderSVG(l, svgOpts...), nil
	case render.FormatPNG:
		return sink.RenderPNG(l, opts.Scale, svgOpts...)
	case render.FormatPDF:
		return sink.RenderPDF(l, svgOpts...)
	case render.FormatJSON:
		return sink.RenderJSON(l, sink.WithJSONStyle(opts.Style), sink.WithJSONIndent())
	case render.FormatDOT:
		return []byte(nodelink.ToDOT(p, reg, nodelink.Options{Detailed: opts.Detailed})), nil
	}
	return nil, fmt.Errorf("unsupported format: %s", format)
}

// buildSVGOptions builds SVG rendering options.
func buildSVGOptions(opts Options) ([]sink.SVGOption, error) {
	style, err := styles.Lookup(opts.Style)
	if err != nil {
		return nil, err
	}
	svgOpts := []sink.SVGOption{sink.WithStyle(style)}
	if opts.GridLines {
		svgOpts = append(svgOpts, sink.WithGridLines())
	}
	if opts.NoLabels {
		svgOpts = append(svgOpts, sink.WithoutLabels())
	}
	if opts.highlight != nil {
		svgOpts = append(svgOpts, sink.WithHighlight(*opts.highlight))
	}
	return svgOpts, nil
}

// RenderDiagram renders the slot adjacency diagram through graphviz as SVG,
// PNG or PDF.
func RenderDiagram(ctx context.Context, p *grid.Packed, reg *slot.Registry, format string, opts Options) ([]byte, error) {
	dot := nodelink.ToDOT(p, reg, nodelink.Options{Detailed: opts.Detailed})
	switch format {
	case render.FormatSVG:
		return nodelink.RenderSVG(ctx, dot)
	case render.FormatPNG:
		scale := opts.Scale
		if scale <= 0 {
			scale = DefaultScale
		}
		return nodelink.RenderPNG(ctx, dot, scale)
	case render.FormatPDF:
		return nodelink.RenderPDF(ctx, dot)
	case render.FormatDOT:
		return []byte(dot), nil
	}
	return nil, fmt.Errorf("unsupported diagram format: %s", format)
}
