package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/gridslot/pkg/grid"
	"github.com/matzehuels/gridslot/pkg/slot"
)

// Terminal cell size of one grid unit.
const (
	unitWidth  = 10
	unitHeight = 3
)

type boxRunes struct {
	tl, tr, bl, br, h, v rune
}

var (
	thinBox  = boxRunes{'┌', '┐', '└', '┘', '─', '│'}
	thickBox = boxRunes{'┏', '┓', '┗', '┛', '━', '┃'}
)

// drawGrid draws p as boxes on a character canvas, one box per placement.
// The selected slot, if any, gets a heavy border. Unoccupied units show a
// dim dot.
func drawGrid(p *grid.Packed, reg *slot.Registry, selected *grid.ID) string {
	if p.Len() == 0 {
		return StyleDim.Render("(empty grid)")
	}
	if reg == nil {
		reg = slot.Builtin()
	}

	w, h := p.Columns()*unitWidth, p.Rows()*unitHeight
	canvas := make([][]rune, h)
	owner := make([][]int, h)
	for y := range canvas {
		canvas[y] = []rune(strings.Repeat(" ", w))
		owner[y] = make([]int, w)
		for x := range owner[y] {
			owner[y][x] = -1
		}
	}
	for r := 0; r < p.Rows(); r++ {
		for c := 0; c < p.Columns(); c++ {
			if _, ok := p.CellAt(r, c); !ok {
				canvas[r*unitHeight+unitHeight/2][c*unitWidth+unitWidth/2] = '·'
			}
		}
	}

	placements := p.Placements()
	styles := make([]lipgloss.Style, len(placements))
	for i, pl := range placements {
		s, _ := p.Slot(pl.ID)
		k, _ := reg.Lookup(s.Kind)
		label := k.DisplayLabel()
		if label == "" {
			label = s.Kind
		}

		box := thinBox
		style := lipgloss.NewStyle().Foreground(colorGray)
		if k.Color != "" {
			style = style.Foreground(lipgloss.Color(k.Color))
		}
		if selected != nil && *selected == pl.ID {
			box = thickBox
			style = style.Bold(true)
		}
		styles[i] = style

		x0, y0 := pl.Cols.First*unitWidth, pl.Rows.First*unitHeight
		x1, y1 := (pl.Cols.Last+1)*unitWidth-1, (pl.Rows.Last+1)*unitHeight-1
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				owner[y][x] = i
				switch {
				case y == y0 && x == x0:
					canvas[y][x] = box.tl
				case y == y0 && x == x1:
					canvas[y][x] = box.tr
				case y == y1 && x == x0:
					canvas[y][x] = box.bl
				case y == y1 && x == x1:
					canvas[y][x] = box.br
				case y == y0 || y == y1:
					canvas[y][x] = box.h
				case x == x0 || x == x1:
					canvas[y][x] = box.v
				default:
					canvas[y][x] = ' '
				}
			}
		}
		writeLabel(canvas[y0+1], x0+1, x1-1, pl.ID.String()+" "+label)
	}

	var b strings.Builder
	for y := range canvas {
		if y > 0 {
			b.WriteByte('\n')
		}
		start := 0
		for x := 1; x <= w; x++ {
			if x < w && owner[y][x] == owner[y][start] {
				continue
			}
			run := string(canvas[y][start:x])
			if o := owner[y][start]; o >= 0 {
				b.WriteString(styles[o].Render(run))
			} else {
				b.WriteString(StyleDim.Render(run))
			}
			start = x
		}
	}
	return b.String()
}

// writeLabel writes s into line between columns from and to, truncating.
func writeLabel(line []rune, from, to int, s string) {
	for i, r := range []rune(s) {
		if from+i > to {
			return
		}
		line[from+i] = r
	}
}
