package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	gridio "github.com/matzehuels/gridslot/pkg/io"
	"github.com/matzehuels/gridslot/pkg/store"
)

// layoutsCommand creates the layout store management command.
func (c *CLI) layoutsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "layouts",
		Aliases: []string{"layout"},
		Short:   "Manage saved layouts",
		Long: `Layouts are named slot documents kept in the configured store (file,
sqlite or mongo). Each save stamps a new revision.`,
	}

	cmd.AddCommand(c.layoutsListCommand())
	cmd.AddCommand(c.layoutsGetCommand())
	cmd.AddCommand(c.layoutsPutCommand())
	cmd.AddCommand(c.layoutsDeleteCommand())

	return cmd
}

// withStore opens the store, runs fn and closes the store.
func (c *CLI) withStore(ctx context.Context, fn func(store.Store) error) error {
	st, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}

func (c *CLI) layoutsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved layouts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(st store.Store) error {
				summaries, err := st.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(summaries) == 0 {
					printInfo("No saved layouts")
					printNextStep("Save one", appName+" layouts put NAME FILE")
					return nil
				}
				printLayouts(cmd.OutOrStdout(), summaries)
				return nil
			})
		},
	}
}

func (c *CLI) layoutsGetCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:               "get NAME",
		Short:             "Print or export a saved layout",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeLayoutNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(st store.Store) error {
				rec, err := st.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if output == "" {
					return gridio.WriteJSON(rec.Document, cmd.OutOrStdout())
				}
				if err := gridio.Export(rec.Document, output); err != nil {
					return err
				}
				printSuccess("Exported layout %s", StyleHighlight.Render(rec.Name))
				printFile(output)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "export to file (.toml or .json) instead of stdout")
	return cmd
}

func (c *CLI) layoutsPutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "put NAME FILE",
		Short: "Save a slot document as a named layout",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(args[1])
			if err != nil {
				return err
			}
			return c.withStore(cmd.Context(), func(st store.Store) error {
				rec, err := st.Put(cmd.Context(), args[0], doc.Doc)
				if err != nil {
					return err
				}
				printSuccess("Saved layout %s", StyleHighlight.Render(rec.Name))
				printDetail("Revision %s", rec.Revision)
				printNextStep("Render it", fmt.Sprintf("%s render --layout %s", appName, rec.Name))
				return nil
			})
		},
	}
}

func (c *CLI) layoutsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "delete NAME",
		Aliases:           []string{"rm"},
		Short:             "Delete a saved layout",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeLayoutNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(st store.Store) error {
				if err := st.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				printSuccess("Deleted layout %s", args[0])
				return nil
			})
		},
	}
}

func printLayouts(w io.Writer, summaries []store.Summary) {
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rev := s.Revision
		if len(rev) > 8 {
			rev = rev[:8]
		}
		rows = append(rows, []string{
			s.Name,
			strconv.Itoa(s.Rows),
			strconv.Itoa(s.Slots),
			rev,
			formatRelativeTime(s.UpdatedAt),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Name", "Rows", "Slots", "Revision", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			switch col {
			case 0:
				return base.Foreground(colorCyan)
			case 3, 4:
				return base.Foreground(colorDim)
			}
			return base
		})

	fmt.Fprintln(w, t.Render())
}

func formatRelativeTime(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
