package cli

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/brushlink/pkg/brush"
	"github.com/matzehuels/brushlink/pkg/config"
	"github.com/matzehuels/brushlink/pkg/dashboard"
	"github.com/matzehuels/brushlink/pkg/dataset"
)

func exploreFixture(t *testing.T) *exploreModel {
	t.Helper()
	cfg := config.Default()
	d, err := dashboard.New(
		dashboard.WithClassifier(cfg.BuildClassifier()),
		dashboard.WithViews(cfg.ViewSpecs()...),
	)
	require.NoError(t, err)
	t.Cleanup(d.Close)

	src := dataset.SourceFunc(func(ctx context.Context) (*dataset.Dataset, error) {
		return dataset.ReadCSV(ctx, strings.NewReader(bikeCSV), ',', dataset.DefaultRequired...)
	})
	require.NoError(t, d.Load(context.Background(), src))

	m, err := newExploreModel(d)
	require.NoError(t, err)
	return m
}

func keys(m *exploreModel, ks ...string) {
	for _, k := range ks {
		var msg tea.KeyMsg
		switch k {
		case "space":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m.Update(msg)
	}
}

// corner moves the cursor to the top-left cell.
func corner(m *exploreModel) {
	m.cx, m.cy = 0, 0
}

func TestExploreBrushCommitsToBothViews(t *testing.T) {
	m := exploreFixture(t)
	corner(m)

	keys(m, "space")
	if got := m.scatter.BrushState(); got != brush.Dragging {
		t.Fatalf("BrushState() = %v, want %v", got, brush.Dragging)
	}
	for range m.cols {
		keys(m, "l")
	}
	for range m.rows {
		keys(m, "j")
	}
	assert.Equal(t, uint64(0), m.dash.Store().Revision(), "dragging must not commit")

	keys(m, "space")
	sel := m.dash.Selection()
	require.False(t, sel.IsEmpty(), "a plot-wide brush selects records")

	pf := m.parallel.Frame()
	if pf.Selected != sel.Len() {
		t.Errorf("parallel Selected = %d, want %d", pf.Selected, sel.Len())
	}
	if sf := m.scatter.Frame(); sf.Selected != sel.Len() {
		t.Errorf("scatter Selected = %d, want %d", sf.Selected, sel.Len())
	}
	assert.Equal(t, "scatter", m.dash.Store().Origin())
	assert.Equal(t, "brush committed", m.status)
}

func TestExploreEscCancelsThenClears(t *testing.T) {
	m := exploreFixture(t)
	corner(m)

	keys(m, "space", "L", "L", "J", "esc")
	assert.Equal(t, brush.Idle, m.scatter.BrushState())
	assert.Equal(t, uint64(0), m.dash.Store().Revision(), "a cancelled brush never commits")

	require.NoError(t, m.dash.Apply(dashboard.AxisEvent{View: "parallel", Dim: "Temperature", From: 15, To: 25, Data: true}))
	require.Equal(t, 2, m.dash.Selection().Len())

	keys(m, "esc")
	assert.True(t, m.dash.Selection().IsEmpty())
	assert.Equal(t, "host", m.dash.Store().Origin())
}

func TestExploreCursorStaysOnGrid(t *testing.T) {
	m := exploreFixture(t)
	corner(m)

	keys(m, "h", "k", "H", "K")
	if m.cx != 0 || m.cy != 0 {
		t.Errorf("cursor = (%d, %d), want (0, 0)", m.cx, m.cy)
	}
	for range 3 * m.cols {
		keys(m, "L")
	}
	if m.cx != m.cols-1 {
		t.Errorf("cursor x = %d, want %d", m.cx, m.cols-1)
	}

	g := m.scatter.Geometry()
	p := m.cursorPoint()
	if p.X != g.Right() || p.Y != g.Top() {
		t.Errorf("cursorPoint() = %v, want top-right plot corner (%v, %v)", p, g.Right(), g.Top())
	}
	col, row := m.cellOf(p)
	if col != m.cx || row != m.cy {
		t.Errorf("cellOf(cursorPoint()) = (%d, %d), want (%d, %d)", col, row, m.cx, m.cy)
	}
}

func TestExploreResize(t *testing.T) {
	m := exploreFixture(t)
	m.Update(tea.WindowSizeMsg{Width: 10, Height: 5})
	if m.cols != minPlotCols || m.rows != minPlotRows {
		t.Errorf("grid = %dx%d, want minimum %dx%d", m.cols, m.rows, minPlotCols, minPlotRows)
	}
	m.Update(tea.WindowSizeMsg{Width: 1000, Height: 1000})
	if m.cols != maxPlotCols || m.rows != maxPlotRows {
		t.Errorf("grid = %dx%d, want maximum %dx%d", m.cols, m.rows, maxPlotCols, maxPlotRows)
	}
	if m.cx >= m.cols || m.cy >= m.rows {
		t.Errorf("cursor (%d, %d) outside %dx%d grid", m.cx, m.cy, m.cols, m.rows)
	}
}

func TestExploreView(t *testing.T) {
	m := exploreFixture(t)
	require.NoError(t, m.dash.Apply(dashboard.AxisEvent{View: "parallel", Dim: "Temperature", From: 15, To: 25, Data: true}))

	out := m.View()
	for _, want := range []string{"explore", "Selection", "scatter", "parallel", "of 5", "Temperature", "origin parallel"} {
		assert.Contains(t, out, want)
	}
	assert.Contains(t, out, "●", "selected records are drawn lit")
}

func TestExploreHoverShowsRecord(t *testing.T) {
	m := exploreFixture(t)
	f := m.scatter.Frame()
	require.NotEmpty(t, f.Elements)

	e := f.Elements[0]
	m.cx, m.cy = m.cellOf(e.Center)
	m.hover, m.hovering = m.scatter.Hover(e.Center)
	require.True(t, m.hovering)
	assert.Equal(t, e.ID, m.hover.ID)
	assert.Contains(t, m.View(), "Seasons")
}

func TestExploreQuit(t *testing.T) {
	m := exploreFixture(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
