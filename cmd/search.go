/*
Copyright © 2025 Liys <liys87x@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/telepair/lifesearch/engine/lattice"
	"github.com/telepair/lifesearch/engine/present"
	"github.com/telepair/lifesearch/engine/rule"
	"github.com/telepair/lifesearch/engine/search"
	"github.com/telepair/lifesearch/engine/symmetry"
)

var (
	searchAll     bool
	searchRandom  bool
	searchTime    bool
	searchRuleStr string
	searchSymStr  string
	searchSeed    uint64
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search X Y [P [DX [DY]]]",
	Short: "Search for a still life, oscillator, or spaceship",
	Long: `Search for an initial generation, on a W×H bounding box, whose P-th
generation equals the initial one translated by (DX, DY), under a B/S rule
and an optional symmetry restriction.

P defaults to 1 (a still life); DX and DY default to 0. A still life is an
oscillator of period 1 with no translation; a spaceship is any solution with
a nonzero translation.`,
	Args: cobra.RangeArgs(2, 5),
	RunE: func(cmd *cobra.Command, args []string) error {
		InitLog()
		ctx := context.Background()
		InitProfile(ctx)

		geom, err := parseGeometry(args)
		if err != nil {
			return err
		}

		r, err := rule.Parse(searchRuleStr)
		if err != nil {
			return err
		}
		sym, err := symmetry.Parse(searchSymStr)
		if err != nil {
			return err
		}

		world, err := lattice.Build(geom.w, geom.h, geom.p, geom.dx, geom.dy, r, sym)
		if err != nil {
			return err
		}

		mode := search.Deterministic
		if searchRandom {
			mode = search.Random
			if !cmd.Flags().Changed("seed") {
				searchSeed = uint64(time.Now().UnixNano())
				fmt.Printf("Seed: %d\n", searchSeed)
			}
		}
		s := search.New(world, mode, searchSeed)

		start := time.Now()
		slog.Info("search starting", "w", geom.w, "h", geom.h, "p", geom.p,
			"dx", geom.dx, "dy", geom.dy, "rule", r.String(), "symmetry", sym.String(),
			"mode", mode, "seed", searchSeed, "all", searchAll)

		found := 0
		phase := s.Run(func(w *lattice.World) bool {
			found++
			fmt.Println()
			fmt.Println(present.AllGenerations(w))
			return searchAll
		})

		elapsed := time.Since(start)
		if phase != search.Found {
			slog.Info("search exhausted", "elapsed", elapsed, "found", found)
			if found == 0 {
				fmt.Println("Found no result.")
			}
		} else {
			slog.Info("search stopped after first result", "elapsed", elapsed)
		}
		if searchTime {
			fmt.Printf("\n(%s)\n", elapsed)
		}
		return nil
	},
}

type geometry struct {
	w, h, p, dx, dy int
}

func parseGeometry(args []string) (geometry, error) {
	vals := []int{0, 0, 1, 0, 0} // W, H, P, DX, DY
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return geometry{}, fmt.Errorf("%w: argument %q is not an integer", lattice.ErrInvalidGeometry, a)
		}
		vals[i] = n
	}
	return geometry{w: vals[0], h: vals[1], p: vals[2], dx: vals[3], dy: vals[4]}, nil
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().BoolVarP(&searchAll, "all", "a", false, "Report every solution instead of stopping at the first")
	searchCmd.Flags().BoolVar(&searchRandom, "random", false, "Guess branch order randomly instead of Dead-first")
	searchCmd.Flags().BoolVarP(&searchTime, "time", "t", false, "Print elapsed search time")
	searchCmd.Flags().StringVarP(&searchRuleStr, "rule", "r", "B3/S23", "Life-like rule, e.g. B3/S23")
	searchCmd.Flags().StringVarP(&searchSymStr, "symmetry", "s", "C1", "Symmetry restriction (C1/C2/C4/D2|/D2-/D2\\/D2//D4+/D4X/D8)")
	searchCmd.Flags().Uint64Var(&searchSeed, "seed", 0, "Seed for --random, for reproducible searches (default: time-derived, printed)")
	searchCmd.MarkFlagsMutuallyExclusive("random", "all")
}
