// Package propagate drives local consistency over a lattice.World: when a
// cell's state becomes known, it touches exactly two transition constraints
// (the one producing it and the one it feeds into) plus its symmetry
// partners. Propagate narrows whatever those constraints allow and repeats
// until no more narrowing is possible (fixpoint) or a contradiction
// surfaces.
//
// Symmetry is enforced by lattice.World.Assign itself (every orbit partner
// is assigned in the same call), so the propagator's own job reduces to the
// two transition checks described in the package doc above; it never walks
// orbits directly.
package propagate

import (
	"github.com/telepair/lifesearch/engine/lattice"
	"github.com/telepair/lifesearch/engine/rule"
)

// Result is the outcome of running propagation to fixpoint.
type Result uint8

// Result values.
const (
	Consistent Result = iota
	Contradiction
)

// Propagator maintains a FIFO work queue of cells whose neighborhood (or
// own state) has changed and still needs to be re-examined.
type Propagator struct {
	world  *lattice.World
	queue  []lattice.Cell
	queued []bool
}

// New creates a Propagator over w and wires itself into w's assignment
// hook, so every future Assign call -- whether made by the propagator
// itself or by a Search branch -- automatically re-enqueues the cells it
// touched.
func New(w *lattice.World) *Propagator {
	p := &Propagator{
		world:  w,
		queued: make([]bool, w.ExteriorCell()+1),
	}
	w.OnAssign(p.onAssigned)
	return p
}

func (p *Propagator) onAssigned(c lattice.Cell) {
	p.Enqueue(c)
	for _, n := range p.world.NeighborsOf(c) {
		if n != p.world.ExteriorCell() {
			p.Enqueue(n)
		}
	}
}

// Enqueue schedules c for re-examination if it is not already queued.
func (p *Propagator) Enqueue(c lattice.Cell) {
	if c == p.world.ExteriorCell() || p.queued[c] {
		return
	}
	p.queued[c] = true
	p.queue = append(p.queue, c)
}

// EnqueueAll schedules every interior cell; used once, right after World
// construction, to absorb whatever the boundary and symmetry alone imply
// before any cell has been guessed.
func (p *Propagator) EnqueueAll() {
	exterior := p.world.ExteriorCell()
	for c := lattice.Cell(0); c < exterior; c++ {
		p.Enqueue(c)
	}
}

// Run drains the queue to fixpoint, returning Contradiction as soon as any
// constraint becomes unsatisfiable. Frames pushed before the contradiction
// was found are left on the journal; the caller backtracks to undo them.
func (p *Propagator) Run() Result {
	for len(p.queue) > 0 {
		c := p.queue[0]
		p.queue = p.queue[1:]
		p.queued[c] = false

		if p.process(c) {
			p.drain()
			return Contradiction
		}
	}
	return Consistent
}

// drain empties the queue without processing it, used once a contradiction
// has already been reported so stale entries don't linger into the next Run.
func (p *Propagator) drain() {
	for _, c := range p.queue {
		p.queued[c] = false
	}
	p.queue = p.queue[:0]
}

// process re-examines c: the forward check (c as self, producing its
// successor), the backward check (c as a known successor, constraining its
// predecessor's self-state and forced neighbors), and the forced-neighbor
// check for c's own outgoing transition. It returns true on contradiction.
func (p *Propagator) process(c lattice.Cell) bool {
	w := p.world
	r := w.Rule()

	self := w.Get(c)
	alive, unknown := w.NeighborCounts(c)
	succ := w.SuccOf(c)

	forward := r.PossibleSuccessors(self, alive, unknown)
	if forward.Empty() {
		return true
	}
	if succState := w.Get(succ); succState == lattice.Unknown {
		if forward.Single() {
			if w.Assign(succ, singleState(forward), lattice.Deduction) == lattice.Conflict {
				return true
			}
		}
	} else if !forward.Has(possibilityOf(succState)) {
		return true
	}

	pred := w.PredOf(c)
	if self != lattice.Unknown {
		predAlive, predUnknown := w.NeighborCounts(pred)
		implied := r.ImpliedSelf(self, predAlive, predUnknown)
		if implied.Empty() {
			return true
		}
		if predState := w.Get(pred); predState == lattice.Unknown {
			if implied.Single() {
				if w.Assign(pred, singleState(implied), lattice.Deduction) == lattice.Conflict {
					return true
				}
			}
		} else if !implied.Has(possibilityOf(predState)) {
			return true
		}
	}

	if p.forceUnknownNeighbors(c) {
		return true
	}
	if p.forceUnknownNeighbors(pred) {
		return true
	}
	return false
}

// forceUnknownNeighbors applies Rule.ForcedUnknownNeighbor to the
// transition from x to its successor: when the transition is only
// satisfiable with all or none of x's remaining unknown neighbors alive,
// every one of them can be assigned immediately.
func (p *Propagator) forceUnknownNeighbors(x lattice.Cell) bool {
	w := p.world
	self := w.Get(x)
	succState := w.Get(w.SuccOf(x))
	if self == lattice.Unknown || succState == lattice.Unknown {
		return false
	}

	alive, unknown := w.NeighborCounts(x)
	if unknown == 0 {
		return false
	}
	aliveAmongUnknown, ok := w.Rule().ForcedUnknownNeighbor(self, succState, alive, unknown)
	if !ok {
		return false
	}

	var target lattice.State
	switch aliveAmongUnknown {
	case 0:
		target = lattice.Dead
	case unknown:
		target = lattice.Alive
	default:
		return false // forced count known but not attributable to a specific neighbor
	}

	for _, n := range w.NeighborsOf(x) {
		if n == w.ExteriorCell() || w.Get(n) != lattice.Unknown {
			continue
		}
		if w.Assign(n, target, lattice.Deduction) == lattice.Conflict {
			return true
		}
	}
	return false
}

func singleState(p rule.Possibilities) lattice.State {
	if p.Has(rule.PossibleAlive) {
		return lattice.Alive
	}
	return lattice.Dead
}

// possibilityOf converts an already-known cell state into the singleton
// Possibilities membership check needs to test it against.
func possibilityOf(s lattice.State) rule.Possibilities {
	if s == lattice.Alive {
		return rule.PossibleAlive
	}
	return rule.PossibleDead
}
