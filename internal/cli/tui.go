package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/matzehuels/gridslot/pkg/controller"
	"github.com/matzehuels/gridslot/pkg/errors"
	"github.com/matzehuels/gridslot/pkg/grid"
	gridio "github.com/matzehuels/gridslot/pkg/io"
	"github.com/matzehuels/gridslot/pkg/rearrange"
	"github.com/matzehuels/gridslot/pkg/store"
)

// moveDelay is how long a move stays pending before it is committed.
// It stands in for the host's rearrangement animation.
const moveDelay = 150 * time.Millisecond

// tuiCommand creates the interactive rearrangement command.
func (c *CLI) tuiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui FILE",
		Short: "Rearrange a slot document interactively",
		Long: `Tui opens a slot document in the terminal. Select a slot with the arrow
keys and move it with shift+arrows. Changes can be written back to the
file or saved as a named layout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return errors.New(errors.ErrCodeUnsupported, "tui needs an interactive terminal")
			}
			doc, err := loadDocument(args[0])
			if err != nil {
				return err
			}
			g, err := controller.New(doc.Matrix, controller.WithLogger(c.Logger))
			if err != nil {
				return err
			}
			m := newGridModel(cmd.Context(), g, doc, args[0], c.newStore)
			m.width = termWidth()

			final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return err
			}
			if gm, ok := final.(gridModel); ok && gm.dirty {
				printWarning("Unsaved changes discarded")
			}
			return nil
		},
	}
}

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// =============================================================================
// Key Bindings
// =============================================================================

type gridKeyMap struct {
	Up, Down, Left, Right                 key.Binding
	MoveUp, MoveDown, MoveLeft, MoveRight key.Binding
	Next                                  key.Binding
	Write, Save                           key.Binding
	Help, Quit                            key.Binding
}

func newGridKeyMap() gridKeyMap {
	return gridKeyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "select up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "select down")),
		Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "select left")),
		Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "select right")),
		MoveUp:    key.NewBinding(key.WithKeys("shift+up", "K"), key.WithHelp("⇧↑/K", "move up")),
		MoveDown:  key.NewBinding(key.WithKeys("shift+down", "J"), key.WithHelp("⇧↓/J", "move down")),
		MoveLeft:  key.NewBinding(key.WithKeys("shift+left", "H"), key.WithHelp("⇧←/H", "move left")),
		MoveRight: key.NewBinding(key.WithKeys("shift+right", "L"), key.WithHelp("⇧→/L", "move right")),
		Next:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next slot")),
		Write:     key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "write file")),
		Save:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save layout")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k gridKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.MoveLeft, k.MoveRight, k.Next, k.Save, k.Help, k.Quit}
}

func (k gridKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Next},
		{k.MoveUp, k.MoveDown, k.MoveLeft, k.MoveRight},
		{k.Write, k.Save, k.Help, k.Quit},
	}
}

// =============================================================================
// gridModel - Interactive rearrangement
// =============================================================================

type gridMode int

const (
	modeNormal gridMode = iota
	modeSave
)

// moveDoneMsg commits a pending move once its delay has passed.
type moveDoneMsg struct{ pending *controller.Pending }

// persistedMsg reports the outcome of a write or save.
type persistedMsg struct {
	what string
	err  error
}

type storeOpener func(context.Context) (store.Store, error)

// gridModel is the bubbletea model for interactive rearrangement. Input
// other than quit is ignored while a move is pending.
type gridModel struct {
	ctx       context.Context
	grid      *controller.Grid
	doc       *loadedDocument
	path      string
	openStore storeOpener

	selected controller.Handle
	mode     gridMode
	prompt   textinput.Model
	keys     gridKeyMap
	help     help.Model
	status   string
	dirty    bool
	width    int
}

func newGridModel(ctx context.Context, g *controller.Grid, doc *loadedDocument, path string, open storeOpener) gridModel {
	prompt := textinput.New()
	prompt.Placeholder = "layout name"
	prompt.CharLimit = 64
	prompt.Width = 30

	m := gridModel{
		ctx:       ctx,
		grid:      g,
		doc:       doc,
		path:      path,
		openStore: open,
		prompt:    prompt,
		keys:      newGridKeyMap(),
		help:      help.New(),
	}
	if pl := g.Packed().Placements(); len(pl) > 0 {
		m.selected, _ = g.Handle(pl[0].ID)
	}
	return m
}

func (m gridModel) Init() tea.Cmd {
	return nil
}

func (m gridModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case moveDoneMsg:
		msg.pending.Commit()
		m.dirty = true
		res := msg.pending.Result
		m.status = fmt.Sprintf("Moved %s %s → %s", res.Target, res.Direction, res.Mapping[res.Target])
		return m, nil

	case persistedMsg:
		if msg.err != nil {
			m.status = StyleWarning.Render(errors.UserMessage(msg.err))
			return m, nil
		}
		m.dirty = false
		m.status = StyleSuccess.Render(msg.what)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) && (m.mode == modeNormal || msg.String() == "ctrl+c") {
			return m, tea.Quit
		}
		if m.grid.State() == controller.Rearranging {
			return m, nil
		}
		if m.mode == modeSave {
			return m.handleSaveKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}
	return m, nil
}

func (m gridModel) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.selectToward(grid.Up)
	case key.Matches(msg, m.keys.Down):
		m.selectToward(grid.Down)
	case key.Matches(msg, m.keys.Left):
		m.selectToward(grid.Left)
	case key.Matches(msg, m.keys.Right):
		m.selectToward(grid.Right)
	case key.Matches(msg, m.keys.Next):
		m.selectNext()
	case key.Matches(msg, m.keys.MoveUp):
		return m.beginMove(grid.Up)
	case key.Matches(msg, m.keys.MoveDown):
		return m.beginMove(grid.Down)
	case key.Matches(msg, m.keys.MoveLeft):
		return m.beginMove(grid.Left)
	case key.Matches(msg, m.keys.MoveRight):
		return m.beginMove(grid.Right)
	case key.Matches(msg, m.keys.Write):
		return m, m.writeFile()
	case key.Matches(msg, m.keys.Save):
		m.mode = modeSave
		m.prompt.SetValue(m.doc.Doc.Name)
		m.prompt.CursorEnd()
		cmd := m.prompt.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m gridModel) handleSaveKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNormal
		m.prompt.Blur()
		m.status = "Save cancelled"
		return m, nil
	case "enter":
		name := strings.TrimSpace(m.prompt.Value())
		m.mode = modeNormal
		m.prompt.Blur()
		return m, m.saveLayout(name)
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

// current returns the selected slot's position.
func (m gridModel) current() (grid.ID, bool) {
	return m.grid.Resolve(m.selected)
}

func (m *gridModel) selectToward(dir grid.Direction) {
	id, ok := m.current()
	if !ok {
		return
	}
	side, err := m.grid.Packed().Side(id, dir)
	if err != nil || len(side) == 0 {
		return
	}
	if h, ok := m.grid.Handle(side[0]); ok {
		m.selected = h
	}
}

func (m *gridModel) selectNext() {
	p := m.grid.Packed()
	id, ok := m.current()
	if !ok || p.Len() == 0 {
		return
	}
	pl := p.Placements()
	next := pl[(p.Position(id)+1)%len(pl)].ID
	if h, ok := m.grid.Handle(next); ok {
		m.selected = h
	}
}

// beginMove starts a move and schedules its commit. A rejected move only
// updates the status line.
func (m gridModel) beginMove(dir grid.Direction) (tea.Model, tea.Cmd) {
	id, ok := m.current()
	if !ok {
		return m, nil
	}
	pending, err := m.grid.Begin(id, dir)
	if err != nil {
		if errors.Is(err, errors.ErrCodeMoveRejected) {
			m.status = StyleWarning.Render(fmt.Sprintf("%s cannot move %s", id, dir))
			if avail := rearrange.Available(m.grid.Packed(), id); len(avail) > 0 {
				m.status += StyleDim.Render(" (try " + joinDirections(avail) + ")")
			}
			return m, nil
		}
		m.status = StyleWarning.Render(errors.UserMessage(err))
		return m, nil
	}
	m.status = StyleDim.Render("rearranging...")
	return m, tea.Tick(moveDelay, func(time.Time) tea.Msg {
		return moveDoneMsg{pending: pending}
	})
}

// document returns the current arrangement as a document.
func (m gridModel) document() *gridio.Document {
	return m.doc.Doc.Rearranged(m.grid.Packed().Matrix(), m.doc.Registry)
}

func (m gridModel) writeFile() tea.Cmd {
	doc, path := m.document(), m.path
	return func() tea.Msg {
		if err := gridio.Export(doc, path); err != nil {
			return persistedMsg{err: err}
		}
		return persistedMsg{what: "Wrote " + path}
	}
}

func (m gridModel) saveLayout(name string) tea.Cmd {
	doc, ctx, open := m.document(), m.ctx, m.openStore
	return func() tea.Msg {
		st, err := open(ctx)
		if err != nil {
			return persistedMsg{err: err}
		}
		defer st.Close()
		rec, err := st.Put(ctx, name, doc)
		if err != nil {
			return persistedMsg{err: err}
		}
		return persistedMsg{what: fmt.Sprintf("Saved layout %s (%s)", rec.Name, rec.Revision[:8])}
	}
}

func (m gridModel) View() string {
	var b strings.Builder

	title := m.path
	if m.dirty {
		title += " *"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n\n")

	p := m.grid.Packed()
	id, ok := m.current()
	var sel *grid.ID
	if ok {
		sel = &id
	}
	b.WriteString(drawGrid(p, m.doc.Registry, sel))
	b.WriteString("\n\n")

	info := fmt.Sprintf("%d slots · %dx%d grid · %s", p.Len(), p.Rows(), p.Columns(), m.grid.State())
	if ok {
		if s, found := p.Slot(id); found {
			info = fmt.Sprintf("%s · %s (%s)", info, id, s.Kind)
		}
	}
	b.WriteString(StyleDim.Render(info))
	b.WriteString("\n")

	if m.mode == modeSave {
		b.WriteString("Save as: " + m.prompt.View())
	} else if m.status != "" {
		b.WriteString(m.status)
	}
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
