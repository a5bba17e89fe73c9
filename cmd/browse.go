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
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/telepair/lifesearch/engine/browse"
	"github.com/telepair/lifesearch/engine/rule"
	"github.com/telepair/lifesearch/engine/search"
	"github.com/telepair/lifesearch/engine/symmetry"
	"github.com/telepair/lifesearch/pkg/ui"
)

var (
	browseRandom  bool
	browseRuleStr string
	browseSymStr  string
	browseSeed    uint64
)

// browseCmd represents the browse command
var browseCmd = &cobra.Command{
	Use:   "browse X Y [P [DX [DY]]]",
	Short: "Watch a search unfold, or step through a found pattern, in a terminal UI",
	Long: `Browse runs the same backtracking search as "search" but renders it live:
watch cells get guessed and backtracked, and once a solution is found, step
through its generations with N/P.`,
	Args: cobra.RangeArgs(2, 5),
	RunE: func(cmd *cobra.Command, args []string) error {
		InitLog()
		ctx := context.Background()
		InitProfile(ctx)

		geom, err := parseGeometry(args)
		if err != nil {
			return err
		}
		r, err := rule.Parse(browseRuleStr)
		if err != nil {
			return err
		}
		sym, err := symmetry.Parse(browseSymStr)
		if err != nil {
			return err
		}

		mode := search.Deterministic
		if browseRandom {
			mode = search.Random
		}

		b, err := browse.New(browse.Config{
			Width: geom.w, Height: geom.h, Period: geom.p, DX: geom.dx, DY: geom.dy,
			Rule: r, Symmetry: sym, Mode: mode, Seed: browseSeed,
		})
		if err != nil {
			return err
		}

		if err := ui.RunModel("lifesearch browse", b, lang, refreshInterval); err != nil {
			slog.Error("Failed to run browse", "error", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)

	browseCmd.Flags().BoolVar(&browseRandom, "random", false, "Guess branch order randomly instead of Dead-first")
	browseCmd.Flags().StringVarP(&browseRuleStr, "rule", "r", "B3/S23", "Life-like rule, e.g. B3/S23")
	browseCmd.Flags().StringVarP(&browseSymStr, "symmetry", "s", "C1", "Symmetry restriction")
	browseCmd.Flags().Uint64Var(&browseSeed, "seed", 0, "Seed for --random, for reproducible searches")
}
