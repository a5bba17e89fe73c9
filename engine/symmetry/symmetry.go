// Package symmetry implements the ten symmetry groups a search may be
// restricted to: the group action on (x, y) determines which cells must
// share state at every generation (an orbit).
package symmetry

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSymmetry is wrapped into every symmetry parse/validation failure.
var ErrInvalidSymmetry = errors.New("invalid symmetry")

// Group identifies one of the ten supported symmetry classes.
type Group uint8

// Group values, named after the symmetry they induce on the bounding box.
const (
	C1 Group = iota
	C2
	C4
	D2Horizontal // D2| -- mirror across the vertical axis
	D2Minus      // D2- -- mirror across the horizontal axis
	D2Diagonal   // D2\ -- mirror across the main diagonal
	D2Slash      // D2/ -- mirror across the anti-diagonal
	D4Plus       // D4+ -- C2 plus both axis mirrors
	D4X          // D4X -- C2 plus both diagonal mirrors
	D8           // D8  -- full dihedral group of the square
)

var names = map[Group]string{
	C1: "C1", C2: "C2", C4: "C4",
	D2Horizontal: "D2|", D2Minus: "D2-", D2Diagonal: "D2\\", D2Slash: "D2/",
	D4Plus: "D4+", D4X: "D4X", D8: "D8",
}

// String renders the group's canonical flag spelling.
func (g Group) String() string {
	if s, ok := names[g]; ok {
		return s
	}
	return "C1"
}

// Parse parses one of the ten canonical symmetry spellings. An empty string
// parses as C1.
func Parse(s string) (Group, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return C1, nil
	}
	for g, name := range names {
		if strings.EqualFold(name, s) {
			return g, nil
		}
	}
	return C1, fmt.Errorf("%w: %q", ErrInvalidSymmetry, s)
}

// RequiresSquare reports whether g can only act on a square bounding box
// (any symmetry with a 90-degree rotation or a diagonal reflection).
func (g Group) RequiresSquare() bool {
	switch g {
	case C4, D2Diagonal, D2Slash, D4X, D8:
		return true
	default:
		return false
	}
}

// transform maps a point within a w*h box to its image under one generator.
type transform func(w, h, x, y int) (int, int)

// linear maps a translation vector through the same generator's linear part
// (the part that matters for commuting with the periodic wrap).
type linear func(dx, dy int) (int, int)

type generator struct {
	apply transform
	lin   linear
}

var (
	genID = generator{
		apply: func(_, _, x, y int) (int, int) { return x, y },
		lin:   func(dx, dy int) (int, int) { return dx, dy },
	}
	genRot180 = generator{
		apply: func(w, h, x, y int) (int, int) { return w - 1 - x, h - 1 - y },
		lin:   func(dx, dy int) (int, int) { return -dx, -dy },
	}
	genRot90CW = generator{
		apply: func(_, h, x, y int) (int, int) { return h - 1 - y, x },
		lin:   func(dx, dy int) (int, int) { return -dy, dx },
	}
	genRot90CCW = generator{
		apply: func(w, _, x, y int) (int, int) { return y, w - 1 - x },
		lin:   func(dx, dy int) (int, int) { return dy, -dx },
	}
	genMirrorV = generator{ // D2| : reflect across the vertical axis, x -> W-1-x
		apply: func(w, _, x, y int) (int, int) { return w - 1 - x, y },
		lin:   func(dx, dy int) (int, int) { return -dx, dy },
	}
	genMirrorH = generator{ // D2- : reflect across the horizontal axis, y -> H-1-y
		apply: func(_, h, x, y int) (int, int) { return x, h - 1 - y },
		lin:   func(dx, dy int) (int, int) { return dx, -dy },
	}
	genDiag = generator{ // D2\ : transpose
		apply: func(_, _, x, y int) (int, int) { return y, x },
		lin:   func(dx, dy int) (int, int) { return dy, dx },
	}
	genAntiDiag = generator{ // D2/ : anti-transpose
		apply: func(w, h, x, y int) (int, int) { return h - 1 - y, w - 1 - x },
		lin:   func(dx, dy int) (int, int) { return -dy, -dx },
	}
)

func (g Group) generators() []generator {
	switch g {
	case C1:
		return []generator{genID}
	case C2:
		return []generator{genID, genRot180}
	case C4:
		return []generator{genID, genRot90CW, genRot180, genRot90CCW}
	case D2Horizontal:
		return []generator{genID, genMirrorV}
	case D2Minus:
		return []generator{genID, genMirrorH}
	case D2Diagonal:
		return []generator{genID, genDiag}
	case D2Slash:
		return []generator{genID, genAntiDiag}
	case D4Plus:
		return []generator{genID, genRot180, genMirrorV, genMirrorH}
	case D4X:
		return []generator{genID, genRot180, genDiag, genAntiDiag}
	case D8:
		return []generator{genID, genRot90CW, genRot180, genRot90CCW, genMirrorV, genMirrorH, genDiag, genAntiDiag}
	default:
		return []generator{genID}
	}
}

// Point is a 2D lattice coordinate.
type Point struct{ X, Y int }

// Orbit returns every point (x, y) maps to under g's group action within a
// w*h box, including (x, y) itself, de-duplicated.
func (g Group) Orbit(w, h, x, y int) []Point {
	gens := g.generators()
	seen := make(map[Point]struct{}, len(gens))
	out := make([]Point, 0, len(gens))
	for _, gen := range gens {
		nx, ny := gen.apply(w, h, x, y)
		p := Point{nx, ny}
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}

// CompatibleWithTranslation reports whether g commutes with a periodic wrap
// translating by (dx, dy): every generator's linear part must fix (dx, dy),
// or the symmetric images of a solution would have to satisfy a different,
// contradictory translation. C1 is always compatible.
func (g Group) CompatibleWithTranslation(dx, dy int) bool {
	for _, gen := range g.generators() {
		nx, ny := gen.lin(dx, dy)
		if nx != dx || ny != dy {
			return false
		}
	}
	return true
}

// Validate checks that g can be used with a w*h bounding box and a (dx, dy)
// translation, returning ErrInvalidSymmetry describing the first violation.
func (g Group) Validate(w, h, dx, dy int) error {
	if g.RequiresSquare() && w != h {
		return fmt.Errorf("%w: %v requires a square bounding box, got %dx%d", ErrInvalidSymmetry, g, w, h)
	}
	if (dx != 0 || dy != 0) && !g.CompatibleWithTranslation(dx, dy) {
		return fmt.Errorf("%w: %v is incompatible with translation (%d, %d)", ErrInvalidSymmetry, g, dx, dy)
	}
	return nil
}
