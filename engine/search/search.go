// Package search drives a lattice.World to a solution (or exhaustion) by
// alternating constraint propagation with guessing: propagate to fixpoint,
// pick the first still-unknown cell in traversal order, guess one of its
// two states, and repeat. A contradiction unwinds to the most recent guess
// and tries the state not yet tried; running out of guesses to unwind to
// means every configuration has been ruled out.
package search

import (
	"math/rand/v2"

	"github.com/telepair/lifesearch/engine/lattice"
	"github.com/telepair/lifesearch/engine/propagate"
)

// Phase is the current state of a Search.
type Phase uint8

// Phase values.
const (
	Searching Phase = iota
	Found
	Exhausted
)

// Mode selects how a Search orders the two branches of a guess.
type Mode uint8

// Mode values.
const (
	// Deterministic always tries Dead before Alive, giving a fixed,
	// reproducible traversal of the search tree.
	Deterministic Mode = iota
	// Random tries Dead or Alive first with equal probability at every
	// guess, seeded for reproducibility.
	Random
)

// Search holds one in-progress backtracking search over a World.
type Search struct {
	World *lattice.World
	prop  *propagate.Propagator
	mode  Mode
	rng   *rand.Rand
	phase Phase
}

// New creates a Search over w. seed is only consumed in Random mode, where
// the same seed over the same World reproduces the same search.
func New(w *lattice.World, mode Mode, seed uint64) *Search {
	p := propagate.New(w)
	p.EnqueueAll()
	return &Search{
		World: w,
		prop:  p,
		mode:  mode,
		rng:   rand.New(rand.NewPCG(seed, seed)),
		phase: Searching,
	}
}

// Phase reports the search's current phase.
func (s *Search) Phase() Phase { return s.phase }

// Step advances the search by one unit of work and returns the phase
// afterward. Once the phase is Found or Exhausted, Step is a no-op; call
// Resume to look for another solution after Found.
func (s *Search) Step() Phase {
	if s.phase != Searching {
		return s.phase
	}

	if s.prop.Run() == propagate.Contradiction {
		if !s.backtrack() {
			s.phase = Exhausted
		}
		return s.phase
	}

	c, ok := s.World.FirstUnknown()
	if !ok {
		s.phase = Found
		return s.phase
	}

	first := lattice.Dead
	if s.mode == Random && s.rng.Uint64()&1 == 1 {
		first = lattice.Alive
	}
	if s.World.Assign(c, first, lattice.Guess) == lattice.Conflict {
		if !s.backtrack() {
			s.phase = Exhausted
		}
	}
	return s.phase
}

// Resume looks for another solution after Found, treating the solution just
// reported the same way a contradiction is treated: unwind to the last
// guess and try the branch not yet tried.
func (s *Search) Resume() {
	if s.phase != Found {
		return
	}
	if s.backtrack() {
		s.phase = Searching
	} else {
		s.phase = Exhausted
	}
}

// Run drives Step to completion, invoking onFound for every solution. A
// false return from onFound stops the search after that solution (first-hit
// callers return false immediately); a true return keeps searching for the
// next one.
func (s *Search) Run(onFound func(*lattice.World) bool) Phase {
	for {
		switch s.Step() {
		case Found:
			if !onFound(s.World) {
				return Found
			}
			s.Resume()
		case Exhausted:
			return Exhausted
		}
	}
}

// backtrack unwinds to the most recent guess and assigns the state not yet
// tried there, re-unwinding past guesses whose only remaining branch also
// conflicts. It returns false once there is no guess left to unwind to.
func (s *Search) backtrack() bool {
	for {
		cell, tried, ok := s.World.BacktrackToLastGuess()
		if !ok {
			return false
		}
		other := lattice.Dead
		if tried == lattice.Dead {
			other = lattice.Alive
		}
		if s.World.Assign(cell, other, lattice.Deduction) != lattice.Conflict {
			return true
		}
	}
}
