// Package controller owns the currently installed packed grid.
//
// A [Grid] holds exactly one *grid.Packed at a time and swaps it atomically
// when a move completes. Moves run through a two-state machine:
//
//	Idle --Begin--> Rearranging --Commit/Abort--> Idle
//
// A second Begin while Rearranging fails with ErrCodeBusy. Hosts that
// animate a move keep the [Pending] value until the animation finishes and
// then Commit it; hosts that don't animate call [Grid.Move].
//
// Handles give rendering layers a stable identity for a slot across moves:
// after a commit every handle resolves to its slot's new position.
package controller

import (
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gridslot/pkg/errors"
	"github.com/matzehuels/gridslot/pkg/grid"
	"github.com/matzehuels/gridslot/pkg/rearrange"
	"github.com/matzehuels/gridslot/pkg/slot"
)

// State is the controller's rearrangement state.
type State int32

const (
	Idle State = iota
	Rearranging
)

func (s State) String() string {
	if s == Rearranging {
		return "rearranging"
	}
	return "idle"
}

// Handle is a stable slot identity that survives moves.
type Handle uint64

// Option configures a Grid.
type Option func(*Grid)

// WithLogger sets the logger used for move diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(g *Grid) { g.logger = l }
}

// WithObserver registers fn to run after every committed move.
func WithObserver(fn func(*rearrange.Result)) Option {
	return func(g *Grid) { g.observers = append(g.observers, fn) }
}

// Grid is the owning controller for one packed grid.
// It is safe for concurrent use.
type Grid struct {
	packed atomic.Pointer[grid.Packed]
	state  atomic.Int32

	mu      sync.Mutex // guards handles
	handles map[Handle]grid.ID
	next    Handle

	logger    *log.Logger
	observers []func(*rearrange.Result)
}

// New packs m and returns a controller holding the result.
func New(m slot.Matrix, opts ...Option) (*Grid, error) {
	g := &Grid{}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = log.Default()
	}
	if err := g.Install(m); err != nil {
		return nil, err
	}
	return g, nil
}

// Packed returns the installed grid. The value is immutable.
func (g *Grid) Packed() *grid.Packed { return g.packed.Load() }

// State returns the current rearrangement state.
func (g *Grid) State() State { return State(g.state.Load()) }

// Install packs m and replaces the current grid and all handles.
// It fails with ErrCodeBusy while a move is pending.
func (g *Grid) Install(m slot.Matrix) error {
	if !g.state.CompareAndSwap(int32(Idle), int32(Rearranging)) {
		return errors.New(errors.ErrCodeBusy, "grid is rearranging")
	}
	defer g.state.Store(int32(Idle))

	p, err := grid.Pack(m)
	if err != nil {
		return err
	}

	g.mu.Lock()
	g.handles = make(map[Handle]grid.ID, p.Len())
	for _, pl := range p.Placements() {
		g.next++
		g.handles[g.next] = pl.ID
	}
	g.mu.Unlock()

	g.packed.Store(p)
	g.logger.Debug("installed grid", "rows", p.Rows(), "columns", p.Columns(), "slots", p.Len())
	return nil
}

// Pending is a computed move awaiting Commit or Abort.
type Pending struct {
	g      *Grid
	base   *grid.Packed
	Result *rearrange.Result
	done   atomic.Bool
}

// Begin computes a move and enters Rearranging. The installed grid does not
// change until Commit. A rejected move leaves the controller Idle.
func (g *Grid) Begin(target grid.ID, dir grid.Direction) (*Pending, error) {
	if !g.state.CompareAndSwap(int32(Idle), int32(Rearranging)) {
		return nil, errors.New(errors.ErrCodeBusy, "a move is already in progress")
	}
	base := g.packed.Load()
	res, err := rearrange.Move(base, target, dir)
	if err != nil {
		g.state.Store(int32(Idle))
		g.logger.Debug("move rejected", "target", target, "direction", dir, "err", err)
		return nil, err
	}
	return &Pending{g: g, base: base, Result: res}, nil
}

// Commit installs the new grid, retargets handles and returns to Idle.
// Calling it twice, or after Abort, is a no-op.
func (p *Pending) Commit() {
	if !p.done.CompareAndSwap(false, true) {
		return
	}
	g := p.g
	g.mu.Lock()
	for h, id := range g.handles {
		if nu, ok := p.Result.Mapping[id]; ok {
			g.handles[h] = nu
		}
	}
	g.mu.Unlock()

	g.packed.Store(p.Result.Packed)
	g.state.Store(int32(Idle))

	g.logger.Debug("move committed",
		"target", p.Result.Target,
		"direction", p.Result.Direction,
		"displaced", len(p.Result.Displaced),
		"rows", p.Result.Packed.Rows(),
		"columns", p.Result.Packed.Columns())
	for _, fn := range g.observers {
		fn(p.Result)
	}
}

// Abort drops the move and returns to Idle.
func (p *Pending) Abort() {
	if p.done.CompareAndSwap(false, true) {
		p.g.state.Store(int32(Idle))
	}
}

// Move runs Begin and Commit.
func (g *Grid) Move(target grid.ID, dir grid.Direction) (*rearrange.Result, error) {
	p, err := g.Begin(target, dir)
	if err != nil {
		return nil, err
	}
	p.Commit()
	return p.Result, nil
}

// Handle returns the handle currently bound to id.
func (g *Grid) Handle(id grid.ID) (Handle, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for h, cur := range g.handles {
		if cur == id {
			return h, true
		}
	}
	return 0, false
}

// Resolve returns the current position of h.
func (g *Grid) Resolve(h Handle) (grid.ID, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id, ok := g.handles[h]
	return id, ok
}

// MoveHandle moves the slot behind h.
func (g *Grid) MoveHandle(h Handle, dir grid.Direction) (*rearrange.Result, error) {
	id, ok := g.Resolve(h)
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "unknown handle %d", h)
	}
	return g.Move(id, dir)
}
