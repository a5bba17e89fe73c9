// Package lattice owns the 3D cell arena (x, y, t), the symmetry orbit
// table, the exterior boundary sentinel, and the assignment journal that a
// backtracking search mutates and unwinds. It is the "World" of the design:
// everything here is arena-allocated and index-addressed per the flattened
// layout described for this kind of solver -- neighbors and orbit partners
// are stored as indices, never as pointers, so the whole lattice lives in a
// handful of contiguous slices.
package lattice

import (
	"errors"
	"fmt"

	"github.com/telepair/lifesearch/engine/rule"
	"github.com/telepair/lifesearch/engine/symmetry"
)

// ErrInvalidGeometry is wrapped into every geometry validation failure.
var ErrInvalidGeometry = errors.New("invalid geometry")

// Re-exported so callers of this package rarely need to import engine/rule
// just to spell the three cell states.
type State = rule.State

const (
	Unknown = rule.Unknown
	Dead    = rule.Dead
	Alive   = rule.Alive
)

// Kind distinguishes an assignment forced by propagation from one chosen by
// the search as an untried branch point.
type Kind uint8

// Kind values.
const (
	Deduction Kind = iota
	Guess
)

// Cell addresses one element of the flattened arena; ExteriorCell is the
// single shared sentinel representing every point outside the bounding box.
type Cell int32

// Frame is one entry of the assignment journal: enough to undo exactly one
// assignment and nothing else.
type Frame struct {
	Cell Cell
	Prev State
	Next State
	Kind Kind
}

// World is the solver's lattice: W*H*P interior cells plus one exterior
// sentinel, their neighbor/successor/predecessor index tables, their
// symmetry orbits, and the assignment journal.
type World struct {
	w, h, p int
	dx, dy  int
	rule    rule.Rule
	sym     symmetry.Group

	exterior Cell

	states       []State
	neighbors    [][8]Cell // spatial neighbors of (x,y) at the same t, per interior cell
	succOf       []Cell    // (x,y,t+1), wrapping t=P-1 -> t=0 translated by (dx,dy)
	predOf       []Cell    // inverse of succOf
	aliveCount   []int16   // live neighbor count, recomputed incrementally
	unknownCount []int16   // unknown neighbor count, recomputed incrementally
	orbit2D      [][]symmetry.Point
	orderIndex   []int32 // cell -> position in the fixed traversal order
	order        []Cell  // the fixed traversal order itself: (t, y, x) ascending

	stack     []Frame
	cursorPos int

	onAssign func(Cell)
}

// OnAssign registers a callback invoked for every cell that transitions out
// of Unknown, including orbit partners assigned as part of the same call --
// the propagator uses this to discover every cell whose neighborhood just
// changed without needing to know the orbit structure itself.
func (w *World) OnAssign(f func(Cell)) { w.onAssign = f }

// Build validates (W, H, P, DX, DY, symmetry) and constructs a World with
// every cell Unknown except the permanently-Dead exterior sentinel.
func Build(w, h, p, dx, dy int, r rule.Rule, sym symmetry.Group) (*World, error) {
	if w <= 0 || h <= 0 || p <= 0 {
		return nil, fmt.Errorf("%w: width=%d height=%d period=%d must be positive", ErrInvalidGeometry, w, h, p)
	}
	if err := sym.Validate(w, h, dx, dy); err != nil {
		return nil, err
	}

	n := w * h * p
	wd := &World{
		w: w, h: h, p: p, dx: dx, dy: dy,
		rule: r, sym: sym,
		exterior:     Cell(n),
		states:       make([]State, n+1),
		neighbors:    make([][8]Cell, n),
		succOf:       make([]Cell, n),
		predOf:       make([]Cell, n),
		aliveCount:   make([]int16, n),
		unknownCount: make([]int16, n),
		orderIndex:   make([]int32, n),
		order:        make([]Cell, n),
	}
	wd.states[wd.exterior] = Dead

	wd.buildOrbits()
	wd.buildIndexTables()
	wd.buildOrder()
	return wd, nil
}

func (w *World) siteIndex(x, y int) int { return y*w.w + x }

func (w *World) cellIndex(x, y, t int) Cell {
	return Cell(t*(w.w*w.h) + w.siteIndex(x, y))
}

// CellAt returns the interior cell at (x, y, t). Callers (search, property
// tests, rendering) build cell addresses from coordinates through this
// rather than recomputing the flattened layout themselves.
func (w *World) CellAt(x, y, t int) Cell { return w.cellIndex(x, y, t) }

// Coords returns the (x, y, t) address of an interior cell.
func (w *World) Coords(c Cell) (x, y, t int) {
	area := w.w * w.h
	t = int(c) / area
	rem := int(c) % area
	y = rem / w.w
	x = rem % w.w
	return
}

func (w *World) inBounds(x, y int) bool {
	return x >= 0 && x < w.w && y >= 0 && y < w.h
}

var moore = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0} /*      */, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

func (w *World) buildIndexTables() {
	area := w.w * w.h
	for t := 0; t < w.p; t++ {
		for y := 0; y < w.h; y++ {
			for x := 0; x < w.w; x++ {
				idx := w.cellIndex(x, y, t)

				var nb [8]Cell
				for i, d := range moore {
					nx, ny := x+d[0], y+d[1]
					if w.inBounds(nx, ny) {
						nb[i] = w.cellIndex(nx, ny, t)
					} else {
						nb[i] = w.exterior
					}
				}
				w.neighbors[idx] = nb

				if t < w.p-1 {
					w.succOf[idx] = w.cellIndex(x, y, t+1)
				} else {
					tx := mod(x+w.dx, w.w)
					ty := mod(y+w.dy, w.h)
					w.succOf[idx] = w.cellIndex(tx, ty, 0)
				}

				var unk int16
				for _, n := range nb {
					if n != w.exterior {
						unk++
					}
				}
				w.unknownCount[idx] = unk
			}
		}
	}
	// predOf is the inverse permutation of succOf, which is a bijection on
	// the n interior cells (every (x,y,t) has exactly one successor and,
	// by translation invertibility mod (W,H), exactly one predecessor).
	for idx := Cell(0); int(idx) < area*w.p; idx++ {
		w.predOf[w.succOf[idx]] = idx
	}
}

func mod(a, m int) int {
	a %= m
	if a < 0 {
		a += m
	}
	return a
}

func (w *World) buildOrbits() {
	area := w.w * w.h
	w.orbit2D = make([][]symmetry.Point, area)
	for y := 0; y < w.h; y++ {
		for x := 0; x < w.w; x++ {
			w.orbit2D[w.siteIndex(x, y)] = w.sym.Orbit(w.w, w.h, x, y)
		}
	}
}

func (w *World) buildOrder() {
	i := 0
	for t := 0; t < w.p; t++ {
		for y := 0; y < w.h; y++ {
			for x := 0; x < w.w; x++ {
				c := w.cellIndex(x, y, t)
				w.order[i] = c
				w.orderIndex[c] = int32(i)
				i++
			}
		}
	}
}

// Dimensions returns (W, H, P, DX, DY).
func (w *World) Dimensions() (width, height, period, dx, dy int) {
	return w.w, w.h, w.p, w.dx, w.dy
}

// Rule returns the transition rule this world was built with.
func (w *World) Rule() rule.Rule { return w.rule }

// Symmetry returns the symmetry group this world was built with.
func (w *World) Symmetry() symmetry.Group { return w.sym }

// ExteriorCell is the shared sentinel for every point outside the box.
func (w *World) ExteriorCell() Cell { return w.exterior }

// Get returns the current state of a cell.
func (w *World) Get(c Cell) State { return w.states[c] }

// NeighborsOf returns the 8 spatial neighbors of c's site at c's own time.
func (w *World) NeighborsOf(c Cell) [8]Cell { return w.neighbors[c] }

// SuccOf returns the cell that c feeds into under the transition rule
// (t -> t+1, wrapping the last generation through the translation).
func (w *World) SuccOf(c Cell) Cell { return w.succOf[c] }

// PredOf returns the cell that feeds into c under the transition rule.
func (w *World) PredOf(c Cell) Cell { return w.predOf[c] }

// NeighborCounts returns the live and unknown counts of c's own 8 spatial
// neighbors, maintained incrementally as those neighbors are assigned.
func (w *World) NeighborCounts(c Cell) (alive, unknown int) {
	return int(w.aliveCount[c]), int(w.unknownCount[c])
}

// OrbitPartners returns every other cell in c's symmetry orbit at c's time.
func (w *World) OrbitPartners(c Cell) []Cell {
	x, y, t := w.Coords(c)
	pts := w.orbit2D[w.siteIndex(x, y)]
	if len(pts) <= 1 {
		return nil
	}
	out := make([]Cell, 0, len(pts)-1)
	for _, p := range pts {
		if p.X == x && p.Y == y {
			continue
		}
		out = append(out, w.cellIndex(p.X, p.Y, t))
	}
	return out
}

// AssignResult is the outcome of Assign.
type AssignResult uint8

// AssignResult values.
const (
	Ok AssignResult = iota
	Conflict
)

// Assign sets c to state, recording a journal frame. Already-Unknown cells
// become state; a cell already at state is a deliberate no-op (no frame is
// pushed, matching the "replay from empty reproduces state" invariant);
// a cell already at the other concrete state is a Conflict and leaves the
// journal untouched for this call other than whatever orbit partners were
// assigned before the conflicting partner was reached -- those frames stay
// on the stack and are unwound by the caller's subsequent backtrack, the
// same way any other contradiction is unwound.
func (w *World) Assign(c Cell, state State, kind Kind) AssignResult {
	if c == w.exterior {
		if state == Dead {
			return Ok
		}
		return Conflict
	}
	cur := w.states[c]
	if cur == state {
		return Ok
	}
	if cur != Unknown {
		return Conflict
	}

	w.states[c] = state
	w.stack = append(w.stack, Frame{Cell: c, Prev: Unknown, Next: state, Kind: kind})
	if pos := int(w.orderIndex[c]); pos < w.cursorPos {
		w.cursorPos = pos
	}
	w.updateNeighborCounts(c, state, +1)
	if w.onAssign != nil {
		w.onAssign(c)
	}

	for _, partner := range w.OrbitPartners(c) {
		if res := w.Assign(partner, state, Deduction); res == Conflict {
			return Conflict
		}
	}
	return Ok
}

func (w *World) updateNeighborCounts(c Cell, state State, sign int) {
	for _, n := range w.neighbors[c] {
		if n == w.exterior {
			continue
		}
		w.unknownCount[n] -= int16(sign)
		if state == Alive {
			w.aliveCount[n] += int16(sign)
		}
	}
}

// UndoOne pops the most recent journal frame, restoring its cell to
// Unknown and reversing the neighbor-count update it made.
func (w *World) UndoOne() (Frame, bool) {
	if len(w.stack) == 0 {
		return Frame{}, false
	}
	f := w.stack[len(w.stack)-1]
	w.stack = w.stack[:len(w.stack)-1]

	w.updateNeighborCounts(f.Cell, f.Next, -1)
	w.states[f.Cell] = Unknown
	if pos := int(w.orderIndex[f.Cell]); pos < w.cursorPos {
		w.cursorPos = pos
	}
	return f, true
}

// BacktrackToLastGuess pops frames, including the guess frame itself, until
// a Guess frame has been undone. It returns the cell and the state that
// guess tried, so the caller can assign the other state. ok is false when
// the journal contains no more guesses (search is Exhausted).
func (w *World) BacktrackToLastGuess() (cell Cell, tried State, ok bool) {
	for {
		f, popped := w.UndoOne()
		if !popped {
			return 0, Unknown, false
		}
		if f.Kind == Guess {
			return f.Cell, f.Next, true
		}
	}
}

// StackLen reports the current journal depth, for tests asserting P5.
func (w *World) StackLen() int { return len(w.stack) }

// FirstUnknown advances the internal traversal cursor and returns the first
// still-Unknown cell in (t, y, x) order. The cursor only ever needs to move
// forward during forward propagation/branching and is pulled back by
// Assign/UndoOne whenever an earlier cell reverts to Unknown, so a single
// monotonic scan suffices without re-walking the whole lattice on backtrack.
func (w *World) FirstUnknown() (Cell, bool) {
	for w.cursorPos < len(w.order) {
		c := w.order[w.cursorPos]
		if w.states[c] == Unknown {
			return c, true
		}
		w.cursorPos++
	}
	return 0, false
}
