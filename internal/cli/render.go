package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridslot/pkg/errors"
	"github.com/matzehuels/gridslot/pkg/pipeline"
	"github.com/matzehuels/gridslot/pkg/render"
	"github.com/matzehuels/gridslot/pkg/render/styles"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	pipeline.Options
	formats string // comma-separated formats
	output  string // output file (single format) or base path (multiple)
	layout  string // render a saved layout instead of a file
	diagram bool   // render the adjacency diagram through graphviz
	noCache bool
}

// renderCommand creates the render command for generating visualizations.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [FILE]",
		Short: "Render a slot document to SVG, PNG, PDF, JSON or DOT",
		Long: `Render packs a slot document, computes pixel frames for every slot and
writes the requested formats. With --layout a saved layout is rendered
instead of a file. With --diagram the slot adjacency graph is drawn through
graphviz instead of the grid.`,
		Example: `  gridslot render dashboard.toml
  gridslot render dashboard.toml -f svg,png -o out/dashboard
  gridslot render --layout home -f json -o -
  gridslot render dashboard.toml --diagram -f svg`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			if (input == "") == (opts.layout == "") {
				return errors.New(errors.ErrCodeInvalidInput, "give either FILE or --layout")
			}
			return c.runRender(cmd.Context(), input, &opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s), comma-separated: "+formatList())
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format), base path (multiple), - for stdout")
	cmd.Flags().StringVar(&opts.layout, "layout", "", "render the saved layout with this name")
	_ = cmd.RegisterFlagCompletionFunc("layout", func(cmd *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return c.layoutNames(cmd.Context(), toComplete), cobra.ShellCompDirectiveNoFileComp
	})
	cmd.Flags().StringVar(&opts.Style, "style", "", "visual style: "+styles.StyleSimple+", "+styles.StyleOutline)
	cmd.Flags().Float64Var(&opts.Width, "width", 0, "frame width in pixels")
	cmd.Flags().Float64Var(&opts.Height, "height", 0, "frame height in pixels")
	cmd.Flags().Float64Var(&opts.Padding, "padding", 0, "padding between slots in pixels")
	cmd.Flags().BoolVar(&opts.GridLines, "grid", false, "draw grid unit lines")
	cmd.Flags().BoolVar(&opts.NoLabels, "no-labels", false, "omit slot labels")
	cmd.Flags().StringVar(&opts.Highlight, "highlight", "", "highlight a slot (row:item)")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "detailed labels in DOT output")
	cmd.Flags().Float64Var(&opts.Scale, "scale", 0, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.diagram, "diagram", false, "render the slot adjacency diagram")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute instead of reading the cache")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts, stdout io.Writer) error {
	opts.Formats = parseFormats(opts.formats)
	if err := c.setCLIDefaults(&opts.Options); err != nil {
		return err
	}
	if err := opts.ValidateForRender(); err != nil {
		return err
	}
	if opts.output == "-" && len(opts.Formats) > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "stdout output takes a single format")
	}

	doc, name, err := c.renderSource(ctx, input, opts.layout)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinner(ctx, os.Stderr, fmt.Sprintf("Rendering %s...", name))
	if opts.output != "-" {
		spinner.Start()
	}

	var (
		artifacts map[string][]byte
		stats     pipeline.Stats
		cached    bool
	)
	if opts.diagram {
		spinner.Update(fmt.Sprintf("Drawing %s adjacency...", name))
		artifacts, stats, err = c.renderDiagram(ctx, runner, doc, opts)
	} else {
		var res *pipeline.Result
		res, err = runner.Execute(ctx, doc.Matrix, doc.Registry, opts.Options)
		if res != nil {
			artifacts, stats = res.Artifacts, res.Stats
			cached = res.CacheInfo.RenderHit
		}
	}
	if opts.output != "-" {
		spinner.Stop()
	}
	if err != nil {
		return err
	}

	if opts.output == "-" {
		_, err := stdout.Write(artifacts[opts.Formats[0]])
		return err
	}

	single := len(opts.Formats) == 1
	printSuccess("Rendered %s", name)
	printStats(stats.Slots, stats.Rows, stats.Columns, cached)
	for _, format := range opts.Formats {
		path := artifactPath(opts.output, name, format, single)
		out, err := openOutput(path, stdout)
		if err != nil {
			return err
		}
		_, err = out.Write(artifacts[format])
		out.Close()
		if err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}

// renderSource loads the document to render and the base name for outputs.
func (c *CLI) renderSource(ctx context.Context, input, layout string) (*loadedDocument, string, error) {
	if input != "" {
		doc, err := loadDocument(input)
		return doc, input, err
	}
	st, err := c.newStore(ctx)
	if err != nil {
		return nil, "", err
	}
	defer st.Close()
	rec, err := st.Get(ctx, layout)
	if err != nil {
		return nil, "", err
	}
	doc, err := resolveDocument(rec.Document)
	return doc, layout, err
}

// diagramFormats are the formats graphviz can produce for the adjacency diagram.
var diagramFormats = []string{render.FormatSVG, render.FormatPNG, render.FormatPDF, render.FormatDOT}

func (c *CLI) renderDiagram(ctx context.Context, runner *pipeline.Runner, doc *loadedDocument, opts *renderOpts) (map[string][]byte, pipeline.Stats, error) {
	for _, f := range opts.Formats {
		if !slices.Contains(diagramFormats, f) {
			return nil, pipeline.Stats{}, errors.New(errors.ErrCodeInvalidFormat, "diagram cannot be rendered as %s", f)
		}
	}
	p, hash, err := runner.Pack(ctx, doc.Matrix)
	if err != nil {
		return nil, pipeline.Stats{}, err
	}
	c.Logger.Debug("rendering diagram", "hash", hash, "formats", opts.Formats)

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, f := range opts.Formats {
		data, err := pipeline.RenderDiagram(ctx, p, doc.Registry, f, opts.Options)
		if err != nil {
			return nil, pipeline.Stats{}, err
		}
		artifacts[f] = data
	}
	return artifacts, pipeline.Stats{Slots: p.Len(), Rows: p.Rows(), Columns: p.Columns()}, nil
}
