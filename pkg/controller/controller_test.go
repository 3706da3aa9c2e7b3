package controller_test

import (
	"io"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/gridslot/pkg/controller"
	"github.com/matzehuels/gridslot/pkg/errors"
	"github.com/matzehuels/gridslot/pkg/grid"
	"github.com/matzehuels/gridslot/pkg/rearrange"
	"github.com/matzehuels/gridslot/pkg/slot"
)

func row(kinds ...string) []slot.Slot {
	out := make([]slot.Slot, len(kinds))
	for i, k := range kinds {
		out[i] = slot.New(k, 1, 1, nil)
	}
	return out
}

func newGrid(t *testing.T, m slot.Matrix, opts ...controller.Option) *controller.Grid {
	t.Helper()
	opts = append([]controller.Option{controller.WithLogger(log.New(io.Discard))}, opts...)
	g, err := controller.New(m, opts...)
	require.NoError(t, err)
	return g
}

func TestNewRejectsInvalidMatrix(t *testing.T) {
	_, err := controller.New(slot.Matrix{{slot.New("x", 0, 1, nil)}}, controller.WithLogger(log.New(io.Discard)))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidSlot))
}

func TestMoveInstallsNewGrid(t *testing.T) {
	var seen *rearrange.Result
	g := newGrid(t, slot.Matrix{row("a", "b")}, controller.WithObserver(func(r *rearrange.Result) { seen = r }))
	before := g.Packed()

	res, err := g.Move(grid.ID{Row: 0, Item: 0}, grid.Right)
	require.NoError(t, err)

	assert.Same(t, res.Packed, g.Packed())
	assert.NotSame(t, before, g.Packed())
	assert.Equal(t, controller.Idle, g.State())
	assert.Same(t, res, seen)

	s, _ := g.Packed().Slot(grid.ID{Row: 0, Item: 0})
	assert.Equal(t, "b", s.Kind)
}

func TestRejectedMoveKeepsGrid(t *testing.T) {
	g := newGrid(t, slot.Matrix{row("a", "b")})
	before := g.Packed()

	_, err := g.Move(grid.ID{Row: 0, Item: 1}, grid.Right)
	assert.True(t, errors.Is(err, errors.ErrCodeMoveRejected))
	assert.Same(t, before, g.Packed())
	assert.Equal(t, controller.Idle, g.State())
}

func TestBeginBlocksSecondMove(t *testing.T) {
	g := newGrid(t, slot.Matrix{row("a", "b", "c")})

	p, err := g.Begin(grid.ID{Row: 0, Item: 0}, grid.Right)
	require.NoError(t, err)
	assert.Equal(t, controller.Rearranging, g.State())

	_, err = g.Move(grid.ID{Row: 0, Item: 2}, grid.Left)
	assert.True(t, errors.Is(err, errors.ErrCodeBusy))
	assert.True(t, errors.Is(g.Install(slot.Matrix{row("z")}), errors.ErrCodeBusy))

	before := g.Packed()
	p.Commit()
	assert.Equal(t, controller.Idle, g.State())
	assert.NotSame(t, before, g.Packed())

	p.Commit() // no-op
	assert.Equal(t, controller.Idle, g.State())
}

func TestAbortReturnsToIdle(t *testing.T) {
	g := newGrid(t, slot.Matrix{row("a", "b")})
	before := g.Packed()

	p, err := g.Begin(grid.ID{Row: 0, Item: 0}, grid.Right)
	require.NoError(t, err)
	p.Abort()

	assert.Equal(t, controller.Idle, g.State())
	assert.Same(t, before, g.Packed())
}

func TestHandlesFollowSlots(t *testing.T) {
	g := newGrid(t, slot.Matrix{row("a", "b", "c")})

	ha, ok := g.Handle(grid.ID{Row: 0, Item: 0})
	require.True(t, ok)
	hb, ok := g.Handle(grid.ID{Row: 0, Item: 1})
	require.True(t, ok)

	_, err := g.MoveHandle(ha, grid.Right)
	require.NoError(t, err)

	ida, _ := g.Resolve(ha)
	idb, _ := g.Resolve(hb)
	assert.Equal(t, grid.ID{Row: 0, Item: 1}, ida)
	assert.Equal(t, grid.ID{Row: 0, Item: 0}, idb)

	_, err = g.MoveHandle(ha, grid.Right)
	require.NoError(t, err)
	ida, _ = g.Resolve(ha)
	assert.Equal(t, grid.ID{Row: 0, Item: 2}, ida)

	s, _ := g.Packed().Slot(ida)
	assert.Equal(t, "a", s.Kind)

	_, err = g.MoveHandle(controller.Handle(999), grid.Left)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
}

func TestConcurrentMovesNeverOverlap(t *testing.T) {
	g := newGrid(t, slot.Matrix{row("a", "b", "c", "d")})

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			dir := grid.Right
			if i%2 == 1 {
				dir = grid.Left
			}
			_, err := g.Move(grid.ID{Row: 0, Item: 1}, dir)
			if err != nil {
				assert.True(t, errors.Is(err, errors.ErrCodeBusy) || errors.Is(err, errors.ErrCodeMoveRejected), "err = %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, controller.Idle, g.State())
	assert.Equal(t, 4, g.Packed().Len())
	assert.Equal(t, 4, g.Packed().Columns())
}
