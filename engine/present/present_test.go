package present

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telepair/lifesearch/engine/lattice"
	"github.com/telepair/lifesearch/engine/rule"
	"github.com/telepair/lifesearch/engine/symmetry"
)

func TestGridRendersGlyphs(t *testing.T) {
	w, err := lattice.Build(3, 2, 1, 0, 0, rule.Conway, symmetry.C1)
	require.NoError(t, err)

	require.Equal(t, lattice.Ok, w.Assign(w.CellAt(1, 0, 0), lattice.Alive, lattice.Guess))
	require.Equal(t, lattice.Ok, w.Assign(w.CellAt(0, 0, 0), lattice.Dead, lattice.Guess))
	require.Equal(t, lattice.Ok, w.Assign(w.CellAt(2, 0, 0), lattice.Dead, lattice.Guess))
	// Row y=1 left Unknown on purpose.

	got := Grid(w, 0)
	assert.Equal(t, ".O.\n???", got)
}

func TestAllGenerationsSeparatesByBlankLine(t *testing.T) {
	w, err := lattice.Build(1, 1, 2, 0, 0, rule.Conway, symmetry.C1)
	require.NoError(t, err)
	require.Equal(t, lattice.Ok, w.Assign(w.CellAt(0, 0, 0), lattice.Dead, lattice.Guess))
	require.Equal(t, lattice.Ok, w.Assign(w.CellAt(0, 0, 1), lattice.Alive, lattice.Guess))

	got := AllGenerations(w)
	assert.Equal(t, ".\n\nO", got)
}
