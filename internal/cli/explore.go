package cli

import (
	"context"
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/brushlink/pkg/brush"
	"github.com/matzehuels/brushlink/pkg/dashboard"
	"github.com/matzehuels/brushlink/pkg/dataset"
	"github.com/matzehuels/brushlink/pkg/view"
)

// Plot grid bounds in terminal cells.
const (
	minPlotCols     = 20
	maxPlotCols     = 120
	minPlotRows     = 8
	maxPlotRows     = 40
	defaultPlotCols = 60
	defaultPlotRows = 20
	sidebarWidth    = 36
)

var (
	styleMarkFaded = lipgloss.NewStyle().Foreground(colorDim)
	styleMarkLit   = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	styleBrushCell = lipgloss.NewStyle().Foreground(colorBlue)
	styleCursor    = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	stylePlotFrame = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
	styleSidebar   = lipgloss.NewStyle().Width(sidebarWidth).PaddingLeft(2)
	styleHelp      = lipgloss.NewStyle().Foreground(colorGray)
)

// exploreCommand creates the explore command.
func (c *CLI) exploreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "explore [data.csv]",
		Short: "Brush the dataset interactively in the terminal",
		Long: `Explore the dataset in the terminal.

The scatterplot is drawn as a character grid. Move the cursor with the arrow
keys or hjkl (HJKL moves faster), press space to start a rectangle brush and
space again to commit it. Esc cancels a brush in progress, or clears the
selection when idle. The sidebar shows how many records are selected in both
linked views and the record under the cursor.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var data string
			if len(args) == 1 {
				data = args[0]
			}
			return c.runExplore(cmd.Context(), data)
		},
	}
}

func (c *CLI) runExplore(ctx context.Context, data string) error {
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	src, err := cfg.Source(data)
	if err != nil {
		return err
	}

	// The dashboard logs nothing while the TUI owns the terminal.
	d, err := dashboard.New(
		dashboard.WithClassifier(cfg.BuildClassifier()),
		dashboard.WithViews(cfg.ViewSpecs()...),
	)
	if err != nil {
		return err
	}
	defer d.Close()

	prog := newProgress(logger)
	if err := d.Load(ctx, src); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Loaded %d records from %s", d.Dataset().Len(), src))

	m, err := newExploreModel(d)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// exploreModel is the bubbletea model of the explore command. Every key
// press becomes a dashboard event on the scatterplot.
type exploreModel struct {
	dash     *dashboard.Dashboard
	scatter  *view.View
	parallel *view.View

	cols, rows int
	cx, cy     int

	hover    dataset.Record
	hovering bool
	status   string
}

func newExploreModel(d *dashboard.Dashboard) (*exploreModel, error) {
	m := &exploreModel{dash: d, cols: defaultPlotCols, rows: defaultPlotRows}
	for _, v := range d.Views() {
		switch {
		case v.Kind() == view.Scatterplot && m.scatter == nil:
			m.scatter = v
		case v.Kind() == view.ParallelCoordinates && m.parallel == nil:
			m.parallel = v
		}
	}
	if m.scatter == nil {
		return nil, fmt.Errorf("explore needs a scatterplot view")
	}
	m.cx, m.cy = m.cols/2, m.rows/2
	return m, nil
}

func (m *exploreModel) Init() tea.Cmd { return nil }

func (m *exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "left", "h":
			m.move(-1, 0)
		case "right", "l":
			m.move(1, 0)
		case "up", "k":
			m.move(0, -1)
		case "down", "j":
			m.move(0, 1)
		case "H":
			m.move(-5, 0)
		case "L":
			m.move(5, 0)
		case "K":
			m.move(0, -5)
		case "J":
			m.move(0, 5)
		case " ", "enter":
			m.toggleBrush()
		case "esc":
			if m.dragging() {
				m.apply(dashboard.PointerEvent{View: m.scatter.Name(), Action: dashboard.PointerLeave}, "brush cancelled")
			} else {
				m.apply(dashboard.ClearEvent{}, "selection cleared")
			}
		case "c":
			m.apply(dashboard.ClearEvent{View: m.scatter.Name()}, "scatter brush cleared")
		}
	}
	return m, nil
}

func (m *exploreModel) resize(width, height int) {
	cx := float64(m.cx) / float64(max(1, m.cols-1))
	cy := float64(m.cy) / float64(max(1, m.rows-1))
	m.cols = clampInt(width-sidebarWidth-4, minPlotCols, maxPlotCols)
	m.rows = clampInt(height-6, minPlotRows, maxPlotRows)
	m.cx = int(math.Round(cx * float64(m.cols-1)))
	m.cy = int(math.Round(cy * float64(m.rows-1)))
}

func (m *exploreModel) move(dx, dy int) {
	m.cx = clampInt(m.cx+dx, 0, m.cols-1)
	m.cy = clampInt(m.cy+dy, 0, m.rows-1)
	p := m.cursorPoint()
	if m.dragging() {
		m.apply(dashboard.PointerEvent{View: m.scatter.Name(), Action: dashboard.PointerMove, Point: p}, "")
	}
	m.hover, m.hovering = m.scatter.Hover(p)
}

func (m *exploreModel) toggleBrush() {
	p := m.cursorPoint()
	if m.dragging() {
		m.apply(dashboard.PointerEvent{View: m.scatter.Name(), Action: dashboard.PointerUp, Point: p}, "brush committed")
		return
	}
	m.apply(dashboard.PointerEvent{View: m.scatter.Name(), Action: dashboard.PointerDown, Point: p}, "brushing")
}

func (m *exploreModel) apply(ev dashboard.Event, status string) {
	if err := m.dash.Apply(ev); err != nil {
		m.status = err.Error()
		return
	}
	if status != "" {
		m.status = status
	}
}

func (m *exploreModel) dragging() bool {
	return m.scatter.BrushState() == brush.Dragging
}

// cursorPoint maps the cursor cell to view coordinates. The outer cells lie
// on the plot edges.
func (m *exploreModel) cursorPoint() view.Point {
	g := m.scatter.Geometry()
	return view.Point{
		X: g.Left() + float64(m.cx)/float64(max(1, m.cols-1))*g.InnerWidth(),
		Y: g.Top() + float64(m.cy)/float64(max(1, m.rows-1))*g.InnerHeight(),
	}
}

// cellOf maps view coordinates to the nearest grid cell.
func (m *exploreModel) cellOf(p view.Point) (col, row int) {
	g := m.scatter.Geometry()
	fx := (p.X - g.Left()) / math.Max(g.InnerWidth(), 1)
	fy := (p.Y - g.Top()) / math.Max(g.InnerHeight(), 1)
	col = clampInt(int(math.Round(fx*float64(m.cols-1))), 0, m.cols-1)
	row = clampInt(int(math.Round(fy*float64(m.rows-1))), 0, m.rows-1)
	return col, row
}

type cellState uint8

const (
	cellEmpty cellState = iota
	cellFaded
	cellLit
)

func (m *exploreModel) View() string {
	f := m.scatter.Frame()

	grid := make([][]cellState, m.rows)
	for i := range grid {
		grid[i] = make([]cellState, m.cols)
	}
	for _, e := range f.Elements {
		col, row := m.cellOf(e.Center)
		if e.Highlighted {
			grid[row][col] = cellLit
		} else if grid[row][col] == cellEmpty {
			grid[row][col] = cellFaded
		}
	}

	var rect struct{ c0, r0, c1, r1 int }
	hasRect := f.Rect != nil
	if hasRect {
		rect.c0, rect.r0 = m.cellOf(f.Rect.Min)
		rect.c1, rect.r1 = m.cellOf(f.Rect.Max)
	}

	var b strings.Builder
	for row := range m.rows {
		for col := range m.cols {
			inRect := hasRect && col >= rect.c0 && col <= rect.c1 && row >= rect.r0 && row <= rect.r1
			switch {
			case col == m.cx && row == m.cy:
				b.WriteString(styleCursor.Render("+"))
			case grid[row][col] == cellLit:
				b.WriteString(styleMarkLit.Render("●"))
			case grid[row][col] == cellFaded:
				b.WriteString(styleMarkFaded.Render("·"))
			case inRect:
				b.WriteString(styleBrushCell.Render("░"))
			default:
				b.WriteByte(' ')
			}
		}
		if row < m.rows-1 {
			b.WriteByte('\n')
		}
	}

	cfg := m.scatter.Config()
	plot := lipgloss.JoinVertical(lipgloss.Left,
		StyleDim.Render("↑ "+cfg.Y.Dim),
		stylePlotFrame.Render(b.String()),
		StyleDim.Render(strings.Repeat(" ", max(0, m.cols-len(cfg.X.Dim)))+cfg.X.Dim+" →"),
	)

	body := lipgloss.JoinHorizontal(lipgloss.Top, plot, styleSidebar.Render(m.sidebar(f)))
	help := styleHelp.Render("arrows/hjkl move · space brush · esc cancel/clear · c clear scatter · q quit")
	return lipgloss.JoinVertical(lipgloss.Left, StyleTitle.Render(appName+" explore"), body, help)
}

func (m *exploreModel) sidebar(f view.Frame) string {
	var lines []string
	lines = append(lines, StyleTitle.Render("Selection"))
	lines = append(lines, countLine(f))
	if m.parallel != nil {
		pf := m.parallel.Frame()
		lines = append(lines, countLine(pf))
		for _, a := range pf.Axes {
			if a.Brush != nil {
				lines = append(lines, StyleDim.Render(fmt.Sprintf("  %s %.4g..%.4g px", a.Dim, a.Brush.Lo, a.Brush.Hi)))
			}
		}
	}
	store := m.dash.Store()
	lines = append(lines, StyleDim.Render(fmt.Sprintf("revision %d · origin %s", store.Revision(), orNone(store.Origin()))))
	lines = append(lines, StyleDim.Render("brush "+f.BrushState.String()))

	lines = append(lines, "", StyleTitle.Render("Under cursor"))
	if m.hovering {
		lines = append(lines, m.hoverTable())
	} else {
		lines = append(lines, StyleDim.Render("no record"))
	}

	if m.status != "" {
		lines = append(lines, "", StyleWarning.Render(m.status))
	}
	return strings.Join(lines, "\n")
}

func (m *exploreModel) hoverTable() string {
	ds := m.dash.Dataset()
	values := m.hover.Values()
	rows := make([][]string, 0, len(ds.Fields)+1)
	rows = append(rows, []string{"id", fmt.Sprint(m.hover.ID)})
	for i, field := range ds.Fields {
		if i < len(values) && !values[i].IsMissing() {
			rows = append(rows, []string{field, values[i].String()})
		}
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(StyleDim).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return StyleDim
			}
			return StyleValue
		}).
		Rows(rows...).
		String()
}

func countLine(f view.Frame) string {
	line := fmt.Sprintf("%-9s %s of %d", f.View, StyleNumber.Render(fmt.Sprint(f.Selected)), f.Total)
	if f.Preview {
		line += StyleWarning.Render(" preview")
	}
	return line
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
