// Package browse adapts engine/search to pkg/ui.StepEngine so the "browse"
// command can watch a search unfold (or a found pattern cycle through its
// period) in a terminal UI, the same way the teacher's Conway's-Game-of-Life
// and cellular-automaton engines drive the same harness.
package browse

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/telepair/lifesearch/engine/lattice"
	"github.com/telepair/lifesearch/engine/present"
	"github.com/telepair/lifesearch/engine/rule"
	"github.com/telepair/lifesearch/engine/search"
	"github.com/telepair/lifesearch/engine/symmetry"
	"github.com/telepair/lifesearch/pkg/ui"
)

var _ ui.StepEngine = (*Browser)(nil)

var (
	// HeaderEN is the English header text shown above the search view.
	HeaderEN = "\U0001F50E Life-like Pattern Search \U0001F50E"
	// HeaderCN is the Chinese header text shown above the search view.
	HeaderCN = "\U0001F50E 类生命模式搜索 \U0001F50E"

	deadColor    = lipgloss.Color("#000000")
	aliveColor   = lipgloss.Color("#00FF00")
	unknownColor = lipgloss.Color("#555555")
)

// Config is the fixed geometry and rule a Browser plays back; it never
// changes across Reset, unlike the teacher's row/col-resizable engines,
// since a lattice's shape is part of what is being searched.
type Config struct {
	Width, Height, Period, DX, DY int
	Rule                          rule.Rule
	Symmetry                      symmetry.Group
	Mode                          search.Mode
	Seed                          uint64
}

// Browser drives a search.Search one step per tick and renders whichever
// generation is currently selected for viewing.
type Browser struct {
	cfg Config

	world *lattice.World
	srch  *search.Search

	screen    *ui.Screen
	viewGen   int
	paused    bool
	steps     int
	solutions int
}

// New builds a Browser from cfg. Geometry and symmetry errors from building
// the World are returned, prefixed with "browse:".
func New(cfg Config) (*Browser, error) {
	b := &Browser{cfg: cfg}
	if err := b.rebuild(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Browser) rebuild() error {
	w, err := lattice.Build(b.cfg.Width, b.cfg.Height, b.cfg.Period, b.cfg.DX, b.cfg.DY, b.cfg.Rule, b.cfg.Symmetry)
	if err != nil {
		return fmt.Errorf("browse: %w", err)
	}
	b.world = w
	b.srch = search.New(w, b.cfg.Mode, b.cfg.Seed)
	b.viewGen = 0
	b.steps = 0
	b.solutions = 0
	if b.screen == nil {
		b.screen = ui.NewScreen(b.cfg.Height, b.cfg.Width)
		b.screen.SetCharColor('.', deadColor)
		b.screen.SetCharColor('O', aliveColor)
		b.screen.SetCharColor('?', unknownColor)
	} else {
		b.screen.SetSize(b.cfg.Width, b.cfg.Height)
	}
	b.render()
	return nil
}

// View returns the current rendering of the selected generation.
func (b *Browser) View() string { return b.screen.View() }

// Step advances the search by one unit of work, returning the number of
// steps taken so far and whether the search can still make progress.
func (b *Browser) Step() (int, bool) {
	if b.paused {
		return b.steps, true
	}
	phase := b.srch.Phase()
	if phase == search.Searching {
		phase = b.srch.Step()
		b.steps++
		if phase == search.Found {
			b.solutions++
			slog.Info("browse: found solution", "solutions", b.solutions, "steps", b.steps)
		}
	}
	b.render()
	return b.steps, phase == search.Searching
}

// Header returns the header text in the requested language.
func (b *Browser) Header(lang ui.Language) string {
	if lang == ui.Chinese {
		return HeaderCN
	}
	return HeaderEN
}

// Status reports the search's progress and the currently-viewed generation.
func (b *Browser) Status(lang ui.Language) []ui.Status {
	phaseLabel := b.phaseLabel(lang)
	if lang == ui.Chinese {
		return []ui.Status{
			{Label: "步骤", Value: strconv.Itoa(b.steps)},
			{Label: "阶段", Value: phaseLabel},
			{Label: "已找到", Value: strconv.Itoa(b.solutions)},
			{Label: "代数", Value: fmt.Sprintf("%d/%d", b.viewGen, b.cfg.Period)},
			{Label: "规则", Value: b.cfg.Rule.String()},
			{Label: "对称", Value: b.cfg.Symmetry.String()},
		}
	}
	return []ui.Status{
		{Label: "Steps", Value: strconv.Itoa(b.steps)},
		{Label: "Phase", Value: phaseLabel},
		{Label: "Found", Value: strconv.Itoa(b.solutions)},
		{Label: "Generation", Value: fmt.Sprintf("%d/%d", b.viewGen, b.cfg.Period)},
		{Label: "Rule", Value: b.cfg.Rule.String()},
		{Label: "Symmetry", Value: b.cfg.Symmetry.String()},
	}
}

func (b *Browser) phaseLabel(lang ui.Language) string {
	switch b.srch.Phase() {
	case search.Found:
		if lang == ui.Chinese {
			return "已找到"
		}
		return "Found"
	case search.Exhausted:
		if lang == ui.Chinese {
			return "已穷尽"
		}
		return "Exhausted"
	default:
		if lang == ui.Chinese {
			return "搜索中"
		}
		return "Searching"
	}
}

// HandleKeys returns the keyboard controls this engine responds to.
func (b *Browser) HandleKeys(lang ui.Language) []ui.Control {
	if lang == ui.Chinese {
		return []ui.Control{
			{Keys: []string{"Space"}, Label: "暂停/继续"},
			{Keys: []string{"N"}, Label: "下一代"},
			{Keys: []string{"P"}, Label: "上一代"},
			{Keys: []string{"R"}, Label: "重新开始"},
		}
	}
	return []ui.Control{
		{Keys: []string{"Space"}, Label: "Pause/Resume"},
		{Keys: []string{"N"}, Label: "Next generation"},
		{Keys: []string{"P"}, Label: "Previous generation"},
		{Keys: []string{"R"}, Label: "Restart"},
	}
}

// Handle processes a key press, returning true if it was recognized.
func (b *Browser) Handle(key string) (bool, error) {
	switch strings.ToLower(key) {
	case " ", "space":
		b.paused = !b.paused
		return true, nil
	case "n":
		if b.cfg.Period > 0 {
			b.viewGen = (b.viewGen + 1) % b.cfg.Period
		}
		b.render()
		return true, nil
	case "p":
		if b.cfg.Period > 0 {
			b.viewGen = (b.viewGen - 1 + b.cfg.Period) % b.cfg.Period
		}
		b.render()
		return true, nil
	case "r":
		if err := b.rebuild(); err != nil {
			return true, err
		}
		return true, nil
	}
	return false, nil
}

// Reset does not resize anything. Width and height are geometry, not
// viewport size here, so Reset only re-renders the current grid at the new terminal
// bounds; it does not restart the search.
func (b *Browser) Reset(height, width int) error {
	b.render()
	return nil
}

// IsFinished reports whether the search can no longer make progress.
func (b *Browser) IsFinished() bool {
	return b.srch.Phase() != search.Searching
}

// Stop is a no-op: a Search has no background goroutines to release.
func (b *Browser) Stop() {}

func (b *Browser) render() {
	grid := present.Grid(b.world, b.viewGen)
	rows := strings.Split(grid, "\n")
	data := make([][]rune, len(rows))
	for i, row := range rows {
		data[i] = []rune(row)
	}
	b.screen.SetData(data)
}
