// Package present renders a lattice.World as the glyph grids the CLI and
// TUI front-ends print: "." for Dead, "O" for Alive, "?" for cells a
// caller chooses to show mid-search as still Unknown.
package present

import (
	"strings"

	"github.com/telepair/lifesearch/engine/lattice"
)

// Grid renders generation t of w as H lines of W glyphs.
func Grid(w *lattice.World, t int) string {
	width, height, _, _, _ := w.Dimensions()
	var sb strings.Builder
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			sb.WriteString(w.Get(w.CellAt(x, y, t)).String())
		}
		if y < height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// AllGenerations renders every generation 0..P-1 of w, separated by a blank
// line, in the order the CLI's "search" and "browse" commands present a
// found pattern's full period.
func AllGenerations(w *lattice.World) string {
	_, _, period, _, _ := w.Dimensions()
	grids := make([]string, period)
	for t := 0; t < period; t++ {
		grids[t] = Grid(w, t)
	}
	return strings.Join(grids, "\n\n")
}
