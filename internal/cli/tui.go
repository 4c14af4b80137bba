package cli

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphsynth/pkg/layout"
	"github.com/matzehuels/graphsynth/pkg/models"
	"github.com/matzehuels/graphsynth/pkg/pipeline"
	"github.com/matzehuels/graphsynth/pkg/weights"
)

// Preview styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	previewStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
)

const (
	previewCols = 64
	previewRows = 22
)

// exportFormats are written by the tune view's export key.
var exportFormats = []string{pipeline.FormatSVG, pipeline.FormatGEXF, pipeline.FormatJSON}

// tuneCommand creates the interactive tuning command.
func (c *CLI) tuneCommand() *cobra.Command {
	var cf *configFlags
	var outDir string

	cmd := &cobra.Command{
		Use:   "tune",
		Short: "Adjust parameters interactively with a live preview",
		Long: `Open a terminal view that regenerates the graph whenever a parameter changes.
The seed stays fixed while tuning so that changes are comparable; press r for a new one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cf.resolve(cmd, loadPresets)
			if err != nil {
				return err
			}
			m := NewTuneModel(cmd.Context(), pipeline.New(), cfg, outDir)
			final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return err
			}
			for _, p := range final.(TuneModel).Exported {
				printFile(p)
			}
			return nil
		},
	}

	cf = bindConfigFlags(cmd)
	cmd.Flags().StringVarP(&outDir, "output", "o", ".", "directory for exported files")
	return cmd
}

// =============================================================================
// Parameters
// =============================================================================

// param is one adjustable row of the tune view.
type param struct {
	name   string
	value  func(pipeline.Config) string
	adjust func(c *pipeline.Config, delta int)
}

var tuneParams = []param{
	{"model", func(c pipeline.Config) string { return c.Model },
		func(c *pipeline.Config, d int) { c.Model = cycle(models.Names(), c.Model, d) }},
	{"nodes", func(c pipeline.Config) string { return strconv.Itoa(c.Nodes) },
		func(c *pipeline.Config, d int) { c.Nodes = clampInt(c.Nodes+d*nodeStep(c.Nodes), 1, pipeline.MaxNodes) }},
	{"density", func(c pipeline.Config) string { return strconv.FormatFloat(c.Density, 'f', 2, 64) },
		func(c *pipeline.Config, d int) { c.Density = math.Round(clamp(c.Density+0.05*float64(d), 0, 1)*100) / 100 }},
	{"directed", func(c pipeline.Config) string { return onOff(c.Directed) },
		func(c *pipeline.Config, _ int) { c.Directed = !c.Directed }},
	{"weights", func(c pipeline.Config) string { return onOff(c.Weights.Enabled) },
		func(c *pipeline.Config, _ int) { c.Weights.Enabled = !c.Weights.Enabled }},
	{"distribution", func(c pipeline.Config) string { return c.Weights.Distribution },
		func(c *pipeline.Config, d int) {
			c.Weights.Distribution = cycle(weights.Names(), c.Weights.Distribution, d)
		}},
	{"communities", func(c pipeline.Config) string { return onOff(c.Communities.Enabled) },
		func(c *pipeline.Config, _ int) { c.Communities.Enabled = !c.Communities.Enabled }},
	{"community count", func(c pipeline.Config) string { return strconv.Itoa(c.Communities.Count) },
		func(c *pipeline.Config, d int) { c.Communities.Count = clampInt(c.Communities.Count+d, 0, 50) }},
	{"reinforce", func(c pipeline.Config) string { return onOff(c.Communities.Reinforce) },
		func(c *pipeline.Config, _ int) { c.Communities.Reinforce = !c.Communities.Reinforce }},
	{"layout", func(c pipeline.Config) string { return c.Layout },
		func(c *pipeline.Config, d int) { c.Layout = cycle(layout.Names(), c.Layout, d) }},
}

// =============================================================================
// TuneModel
// =============================================================================

// generatedMsg carries the result of a background generation.
type generatedMsg struct {
	rg  *pipeline.RenderedGraph
	err error
}

// exportedMsg carries the files written by an export.
type exportedMsg struct {
	paths []string
	err   error
}

// TuneModel is the bubbletea model for the tune command.
type TuneModel struct {
	Config   pipeline.Config
	Cursor   int
	Exported []string

	// EdgeLabels draws edge weights in exported drawings.
	EdgeLabels bool

	ctx    context.Context
	pipe   *pipeline.Pipeline
	outDir string

	current *pipeline.RenderedGraph
	err     error
	busy    bool
	dirty   bool
	status  string
}

// NewTuneModel creates a tune model that generates through p.
func NewTuneModel(ctx context.Context, p *pipeline.Pipeline, cfg pipeline.Config, outDir string) TuneModel {
	return TuneModel{Config: cfg, ctx: ctx, pipe: p, outDir: outDir, busy: true}
}

func (m TuneModel) Init() tea.Cmd {
	return m.generate()
}

func (m *TuneModel) generateCmd() tea.Cmd {
	m.busy = true
	m.dirty = false
	return m.generate()
}

func (m TuneModel) generate() tea.Cmd {
	ctx, p, cfg := m.ctx, m.pipe, m.Config
	return func() tea.Msg {
		rg, err := p.Generate(ctx, cfg)
		return generatedMsg{rg: rg, err: err}
	}
}

// regenerate starts a run, or queues one if a run is in flight.
func (m TuneModel) regenerate() (tea.Model, tea.Cmd) {
	if m.busy {
		m.dirty = true
		return m, nil
	}
	cmd := m.generateCmd()
	return m, cmd
}

func (m TuneModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case generatedMsg:
		m.busy = false
		m.current, m.err = msg.rg, msg.err
		if msg.rg != nil && m.Config.Seed == nil {
			m.Config = m.Config.WithSeed(msg.rg.Seed())
		}
		if m.dirty {
			cmd := m.generateCmd()
			return m, cmd
		}
		return m, nil

	case exportedMsg:
		if msg.err != nil {
			m.status = "export failed: " + msg.err.Error()
		} else {
			m.Exported = append(m.Exported, msg.paths...)
			m.status = fmt.Sprintf("exported %d files to %s", len(msg.paths), m.outDir)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(tuneParams)-1 {
				m.Cursor++
			}
		case "left", "h", "-":
			tuneParams[m.Cursor].adjust(&m.Config, -1)
			return m.regenerate()
		case "right", "l", "+", " ":
			tuneParams[m.Cursor].adjust(&m.Config, 1)
			return m.regenerate()
		case "r":
			m.Config = m.Config.WithSeed(rand.Uint64() & pipeline.MaxSeed)
			return m.regenerate()
		case "w":
			m.EdgeLabels = !m.EdgeLabels
			m.status = "weight labels " + onOff(m.EdgeLabels) + " for export"
			return m, nil
		case "e":
			if m.current == nil {
				return m, nil
			}
			return m, m.export(m.current)
		}
	}
	return m, nil
}

func (m TuneModel) export(rg *pipeline.RenderedGraph) tea.Cmd {
	ctx, dir := m.ctx, m.outDir
	opts := pipeline.Options{Formats: exportFormats, EdgeLabels: m.EdgeLabels}
	return func() tea.Msg {
		artifacts, err := pipeline.Render(ctx, rg, opts)
		if err != nil {
			return exportedMsg{err: err}
		}
		paths, err := writeArtifacts(dir, rg.Config().Model, time.Now(), artifacts)
		return exportedMsg{paths: paths, err: err}
	}
}

func (m TuneModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("graphsynth tune"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ select  ←/→ adjust  r reseed  w weight labels  e export  q quit"))
	b.WriteString("\n\n")

	var params strings.Builder
	for i, p := range tuneParams {
		line := fmt.Sprintf("%-16s %s", p.name, p.value(m.Config))
		if i == m.Cursor {
			params.WriteString(listSelectedStyle.Render("▸ " + line))
		} else {
			params.WriteString(listNormalStyle.Render("  " + line))
		}
		params.WriteString("\n")
	}
	if m.Config.Seed != nil {
		params.WriteString(listDimStyle.Render(fmt.Sprintf("  %-16s %d", "seed", *m.Config.Seed)))
		params.WriteString("\n")
	}

	var side string
	switch {
	case m.err != nil:
		side = styleIconError.Render(iconError) + " " + m.err.Error()
	case m.current != nil:
		side = m.summary()
	default:
		side = listDimStyle.Render("generating...")
	}

	left := lipgloss.JoinVertical(lipgloss.Left, params.String(), side)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", m.preview()))
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(listDimStyle.Render(m.status))
		b.WriteString("\n")
	}
	return b.String()
}

func (m TuneModel) summary() string {
	rg := m.current
	met := rg.Metrics()
	rows := [][]string{
		{"edges", strconv.Itoa(met.Edges)},
		{"density", formatFloat(met.Density)},
		{"clustering", formatFloat(met.AverageClustering)},
		{"components", strconv.Itoa(met.Components)},
		{"diameter", met.Diameter.String()},
	}
	if a, ok := rg.Communities(); ok {
		rows = append(rows, []string{"modularity", formatFloat(a.Modularity)})
	}
	out := renderTable([]string{"metric", "value"}, rows)
	if l := rg.Layout(); l.Fallback {
		out += "\n" + StyleWarning.Render(fmt.Sprintf("layout fell back to %s", l.Used))
	}
	return out
}

// preview draws the current layout as characters. Edges are dots and nodes
// show their community label modulo 10, or "o" without communities.
func (m TuneModel) preview() string {
	cv := newCanvas(previewCols, previewRows)
	if m.current == nil {
		return previewStyle.Render(cv.String())
	}
	rg := m.current
	cfg := rg.Config()
	pos := make([][2]int, rg.Graph().N())
	for i, p := range rg.Positions() {
		pos[i] = [2]int{
			int(p.X / cfg.Width * float64(previewCols-1)),
			int(p.Y / cfg.Height * float64(previewRows-1)),
		}
	}
	for _, e := range rg.Graph().Edges() {
		cv.line(pos[e.U], pos[e.V], '·')
	}
	labels := rg.Labels()
	for i, p := range pos {
		r := 'o'
		if labels != nil {
			r = rune('0' + labels[i]%10)
		}
		cv.set(p[0], p[1], r)
	}
	return previewStyle.Render(cv.String())
}

// =============================================================================
// Canvas
// =============================================================================

type canvas struct {
	cols, rows int
	cells      [][]rune
}

func newCanvas(cols, rows int) *canvas {
	c := &canvas{cols: cols, rows: rows, cells: make([][]rune, rows)}
	for y := range c.cells {
		c.cells[y] = []rune(strings.Repeat(" ", cols))
	}
	return c
}

func (c *canvas) set(x, y int, r rune) {
	if x >= 0 && x < c.cols && y >= 0 && y < c.rows {
		c.cells[y][x] = r
	}
}

// line draws from a to b with Bresenham's algorithm.
func (c *canvas) line(a, b [2]int, r rune) {
	x0, y0, x1, y1 := a[0], a[1], b[0], b[1]
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		c.set(x0, y0, r)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func (c *canvas) String() string {
	lines := make([]string, c.rows)
	for y, row := range c.cells {
		lines[y] = string(row)
	}
	return strings.Join(lines, "\n")
}

// =============================================================================
// Helpers
// =============================================================================

func cycle(names []string, cur string, delta int) string {
	i := slices.Index(names, cur)
	if i < 0 {
		return names[0]
	}
	n := len(names)
	return names[((i+delta)%n+n)%n]
}

func nodeStep(n int) int {
	switch {
	case n >= 500:
		return 50
	case n >= 100:
		return 10
	default:
		return 1
	}
}

func clamp(v, lo, hi float64) float64 { return math.Max(lo, math.Min(hi, v)) }

func clampInt(v, lo, hi int) int { return max(lo, min(hi, v)) }

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
