package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	gridio "github.com/matzehuels/gridslot/pkg/io"
)

// packOpts holds the command-line flags for the pack command.
type packOpts struct {
	output  string // packed JSON output path ("-" for stdout)
	trace   bool   // print the placement trace
	noCache bool
}

// packCommand creates the pack command.
func (c *CLI) packCommand() *cobra.Command {
	var opts packOpts

	cmd := &cobra.Command{
		Use:   "pack FILE",
		Short: "Place a slot document on the grid",
		Long: `Pack reads a slot document (.toml or .json), places every slot on the
grid and draws the result. With --output the packed grid is written as JSON.`,
		Example: `  gridslot pack dashboard.toml
  gridslot pack dashboard.toml --trace
  gridslot pack dashboard.toml -o packed.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPack(cmd.Context(), args[0], opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write packed grid JSON to file (- for stdout)")
	cmd.Flags().BoolVar(&opts.trace, "trace", false, "print the placement trace")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runPack(ctx context.Context, input string, opts packOpts, stdout io.Writer) error {
	prog := newProgress(c.Logger)

	doc, err := loadDocument(input)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	p, hash, hit, err := runner.PackWithCacheInfo(ctx, doc.Matrix)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Packed %d slots", p.Len()))
	c.Logger.Debug("pack hash", "hash", hash)

	if opts.output == "-" {
		return gridio.WritePacked(p, stdout)
	}

	fmt.Fprintln(stdout, drawGrid(p, doc.Registry, nil))
	printStats(p.Len(), p.Rows(), p.Columns(), hit)
	if opts.trace {
		steps := make([]string, 0, len(p.Trace()))
		for _, s := range p.Trace() {
			steps = append(steps, s.String())
		}
		printKeyValue("Trace", strings.Join(steps, " "))
	}

	if opts.output != "" {
		out, err := openOutput(opts.output, stdout)
		if err != nil {
			return err
		}
		defer out.Close()
		if err := gridio.WritePacked(p, out); err != nil {
			return err
		}
		printSuccess("Packed grid written")
		printFile(opts.output)
	}
	printNextStep("Move a slot", fmt.Sprintf("%s move %s --target 0:0 --direction right", appName, input))
	return nil
}
