package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridslot/pkg/errors"
	"github.com/matzehuels/gridslot/pkg/grid"
	gridio "github.com/matzehuels/gridslot/pkg/io"
	"github.com/matzehuels/gridslot/pkg/rearrange"
)

// moveOpts holds the command-line flags for the move command.
type moveOpts struct {
	target     string // slot id "row:item"
	directions string // comma-separated steps
	output     string // rearranged document path
	write      bool   // overwrite the input document
	save       string // store the result under this layout name
	noCache    bool
}

// moveCommand creates the move command.
func (c *CLI) moveCommand() *cobra.Command {
	var opts moveOpts

	cmd := &cobra.Command{
		Use:   "move FILE",
		Short: "Move a slot one step in a direction",
		Long: `Move swaps a slot with its neighbours in the given direction and repacks
the grid. Several comma-separated directions move the same slot repeatedly.

The rearranged document can be written to a file (--output), back to the
input (--write), or saved as a named layout (--save).`,
		Example: `  gridslot move dashboard.toml --target 0:1 --direction left
  gridslot move dashboard.toml -t 1:0 -d up,right -o moved.toml
  gridslot move dashboard.toml -t 0:0 -d down --save home`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runMove(cmd.Context(), args[0], opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.target, "target", "t", "", "slot to move as row:item (required)")
	cmd.Flags().StringVarP(&opts.directions, "direction", "d", "", "left, right, up or down; comma-separated for several steps (required)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the rearranged document (.toml or .json)")
	cmd.Flags().BoolVarP(&opts.write, "write", "w", false, "overwrite the input document")
	cmd.Flags().StringVar(&opts.save, "save", "", "save the rearranged document as a named layout")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	_ = cmd.MarkFlagRequired("target")
	_ = cmd.MarkFlagRequired("direction")
	_ = cmd.RegisterFlagCompletionFunc("direction", completeDirections)

	return cmd
}

// parseDirections parses a comma-separated list of directions.
func parseDirections(s string) ([]grid.Direction, error) {
	var dirs []grid.Direction
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := grid.ParseDirection(part)
		if err != nil {
			return nil, err
		}
		dirs = append(dirs, d)
	}
	if len(dirs) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no direction given")
	}
	return dirs, nil
}

func (c *CLI) runMove(ctx context.Context, input string, opts moveOpts, stdout io.Writer) error {
	target, err := grid.ParseID(opts.target)
	if err != nil {
		return err
	}
	dirs, err := parseDirections(opts.directions)
	if err != nil {
		return err
	}
	doc, err := loadDocument(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	p, hash, err := runner.Pack(ctx, doc.Matrix)
	if err != nil {
		return err
	}

	remap := make(map[grid.ID]grid.ID, p.Len())
	for _, pl := range p.Placements() {
		remap[pl.ID] = pl.ID
	}

	cur := target
	for i, dir := range dirs {
		res, hit, err := runner.MoveWithCacheInfo(ctx, p, hash, cur, dir)
		if errors.Is(err, errors.ErrCodeMoveRejected) {
			printWarning("Cannot move %s %s (step %d)", cur, dir, i+1)
			if avail := rearrange.Available(p, cur); len(avail) > 0 {
				printDetail("Available: %s", joinDirections(avail))
			} else {
				printDetail("Slot %s cannot move in any direction", cur)
			}
			return err
		}
		if err != nil {
			return err
		}
		c.Logger.Debug("step", "n", i+1, "target", cur, "direction", dir, "cached", hit)
		cur = res.Mapping[cur]
		for orig, id := range remap {
			remap[orig] = res.Mapping[id]
		}
		p, hash = res.Packed, res.PackHash
	}
	prog.done(fmt.Sprintf("Moved %s to %s", target, cur))

	fmt.Fprintln(stdout, drawGrid(p, doc.Registry, &cur))
	printStats(p.Len(), p.Rows(), p.Columns(), false)
	printRemap(remap)

	moved := doc.Doc.Rearranged(p.Matrix(), doc.Registry)
	return c.persistDocument(ctx, moved, input, opts)
}

// persistDocument writes the rearranged document where the flags ask.
func (c *CLI) persistDocument(ctx context.Context, doc *gridio.Document, input string, opts moveOpts) error {
	var paths []string
	if opts.output != "" {
		paths = append(paths, opts.output)
	}
	if opts.write {
		paths = append(paths, input)
	}
	for _, path := range paths {
		if err := gridio.Export(doc, path); err != nil {
			return err
		}
		printSuccess("Document written")
		printFile(path)
	}

	if opts.save != "" {
		if err := errors.ValidateLayoutName(opts.save); err != nil {
			return err
		}
		st, err := c.newStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()
		rec, err := st.Put(ctx, opts.save, doc)
		if err != nil {
			return err
		}
		printSuccess("Saved layout %s", StyleHighlight.Render(rec.Name))
		printDetail("Revision %s", rec.Revision)
	}
	return nil
}

func joinDirections(dirs []grid.Direction) string {
	s := make([]string, len(dirs))
	for i, d := range dirs {
		s[i] = d.String()
	}
	return strings.Join(s, ", ")
}
