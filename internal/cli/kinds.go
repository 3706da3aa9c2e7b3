package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridslot/pkg/slot"
)

// kindsCommand lists the registered slot kinds.
func (c *CLI) kindsCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "kinds",
		Short: "List slot kinds and their footprints",
		Long: `Kinds lists the built-in slot kinds. With --file the kinds declared by a
document are included.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := slot.Builtin()
			if file != "" {
				doc, err := loadDocument(file)
				if err != nil {
					return err
				}
				reg = doc.Registry
			}
			printKinds(cmd.OutOrStdout(), reg.Kinds())
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "include kinds declared by this document")
	return cmd
}

func printKinds(w io.Writer, kinds []slot.Kind) {
	rows := make([][]string, 0, len(kinds))
	for _, k := range kinds {
		rows = append(rows, []string{
			k.Name,
			strconv.Itoa(k.Width) + "x" + strconv.Itoa(k.Height),
			k.DisplayLabel(),
			k.Color,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Kind", "Size", "Label", "Color").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			switch col {
			case 0:
				return base.Foreground(colorCyan)
			case 3:
				if c := kinds[row].Color; c != "" {
					return base.Foreground(lipgloss.Color(c))
				}
				return base.Foreground(colorDim)
			}
			return base
		})

	fmt.Fprintln(w, t.Render())
}
