package view

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/brushlink/pkg/brush"
	"github.com/matzehuels/brushlink/pkg/dataset"
	"github.com/matzehuels/brushlink/pkg/dimension"
	brerrors "github.com/matzehuels/brushlink/pkg/errors"
	"github.com/matzehuels/brushlink/pkg/reconcile"
	"github.com/matzehuels/brushlink/pkg/scale"
	"github.com/matzehuels/brushlink/pkg/selection"
)

// The plot area spans [20, 120] on both axes.
var testGeometry = Geometry{Width: 140, Height: 140, Margins: Margins{Top: 20, Right: 20, Bottom: 20, Left: 20}}

func build(t *testing.T, fields []string, rows ...[]string) (*dataset.Dataset, *dimension.Schema) {
	t.Helper()
	b, err := dataset.NewBuilder(fields)
	require.NoError(t, err)
	for _, r := range rows {
		b.Add(r)
	}
	ds := b.Build()
	return ds, dimension.DefaultClassifier().Schema(ds.Fields)
}

func scatterView(t *testing.T, store *selection.Store) *View {
	t.Helper()
	v, err := New("scatter", Scatterplot, store,
		WithGeometry(testGeometry),
		WithResolver(scale.Resolver{}),
		WithConfig(AxisConfig{X: Axis{Dim: "x"}, Y: Axis{Dim: "y"}}),
	)
	require.NoError(t, err)
	t.Cleanup(v.Close)
	return v
}

func parallelView(t *testing.T, store *selection.Store) *View {
	t.Helper()
	v, err := New("parallel", ParallelCoordinates, store,
		WithGeometry(testGeometry),
		WithConfig(AxisConfig{Axes: []Axis{{Dim: "a"}, {Dim: "b"}}}),
	)
	require.NoError(t, err)
	t.Cleanup(v.Close)
	return v
}

func scatterData(t *testing.T) (*dataset.Dataset, *dimension.Schema) {
	return build(t, []string{"x", "y"},
		[]string{"0", "0"}, []string{"2", "5"}, []string{"4", "4"}, []string{"6", "8"}, []string{"10", "10"}, []string{"", "3"})
}

func TestScatterPlacement(t *testing.T) {
	v := scatterView(t, selection.NewStore())
	ds, schema := scatterData(t)
	require.NoError(t, v.SetDataset(ds, schema))

	// The record with a missing x is not drawn.
	assert.Equal(t, 5, v.Scene().Len())
	e, ok := v.Scene().Lookup(1)
	require.True(t, ok)
	assert.InDelta(t, 40, e.Center.X, 1e-9)
	assert.InDelta(t, 70, e.Center.Y, 1e-9)
	assert.Equal(t, 0.3, e.Opacity)
	_, ok = v.Scene().Lookup(5)
	assert.False(t, ok)
}

func TestRectBrushCommitsExactSubset(t *testing.T) {
	store := selection.NewStore()
	v := scatterView(t, store)
	ds, schema := scatterData(t)
	require.NoError(t, v.SetDataset(ds, schema))

	// x in [2, 6] maps to [40, 80]; the full height is covered.
	require.True(t, v.PointerDown(Point{X: 40, Y: 20}))
	v.PointerMove(Point{X: 60, Y: 80})
	assert.True(t, v.Scene().IsPreview())
	assert.True(t, store.Get().IsEmpty(), "preview must not reach the store")
	require.True(t, v.PointerUp(Point{X: 80, Y: 120}))

	want := selection.Where(ds.Records, func(r dataset.Record) bool {
		x, ok := r.Get("x").Float()
		return ok && x >= 2 && x <= 6
	})
	assert.True(t, store.Get().Equal(want), "got %v, want %v", store.Get(), want)
	assert.Equal(t, []dataset.Identity{1, 2, 3}, store.Get().IDs())
	assert.Equal(t, brush.Committed, v.BrushState())
	assert.False(t, v.Scene().IsPreview())

	f := v.Frame()
	assert.Equal(t, 3, f.Selected)
	require.NotNil(t, f.Rect)
	assert.Equal(t, 40.0, f.Rect.Min.X)
}

func TestEmptyBrushCommitsEmpty(t *testing.T) {
	store := selection.NewStore()
	v := scatterView(t, store)
	ds, schema := scatterData(t)
	require.NoError(t, v.SetDataset(ds, schema))
	store.Commit("other", selection.Of(0, 1))

	// A region with no points commits the empty selection.
	v.PointerDown(Point{X: 100, Y: 100})
	v.PointerUp(Point{X: 110, Y: 110})
	assert.True(t, store.Get().IsEmpty())
	for _, e := range v.Scene().Elements() {
		assert.Equal(t, 0.3, e.Opacity)
	}
}

func TestPointerDownOutsidePlotIgnored(t *testing.T) {
	v := scatterView(t, selection.NewStore())
	ds, schema := scatterData(t)
	require.NoError(t, v.SetDataset(ds, schema))
	assert.False(t, v.PointerDown(Point{X: 5, Y: 5}))
	assert.Equal(t, brush.Idle, v.BrushState())
}

func TestPointerLeaveCancels(t *testing.T) {
	store := selection.NewStore()
	v := scatterView(t, store)
	ds, schema := scatterData(t)
	require.NoError(t, v.SetDataset(ds, schema))

	v.PointerDown(Point{X: 20, Y: 20})
	v.PointerMove(Point{X: 120, Y: 120})
	v.PointerLeave()
	assert.Equal(t, uint64(0), store.Revision())
	assert.Equal(t, brush.Idle, v.BrushState())
	assert.False(t, v.Scene().IsPreview())
	assert.Empty(t, v.Scene().Highlighted())
}

func pcpData(t *testing.T) (*dataset.Dataset, *dimension.Schema) {
	return build(t, []string{"a", "b"},
		[]string{"0", "0"}, []string{"1", "1"}, []string{"2", "2"}, []string{"3", "3"}, []string{"4", "4"})
}

func TestParallelCoordinatesConjunction(t *testing.T) {
	store := selection.NewStore()
	v := parallelView(t, store)
	ds, schema := pcpData(t)
	require.NoError(t, v.SetDataset(ds, schema))

	ax, ok := v.AxisPosition("a")
	require.True(t, ok)
	bx, _ := v.AxisPosition("b")
	assert.Equal(t, 45.0, ax)
	assert.Equal(t, 95.0, bx)

	// Values 0..4 map to y = 120 - 25*v.
	pos := func(val float64) float64 {
		p, ok := v.Position("a", dataset.Number(val))
		require.True(t, ok)
		return p
	}

	require.True(t, v.PointerDown(Point{X: ax + 3, Y: pos(1)}))
	v.PointerMove(Point{X: ax, Y: pos(2)})
	v.PointerUp(Point{X: ax, Y: pos(3)})
	assert.Equal(t, []dataset.Identity{1, 2, 3}, store.Get().IDs())

	require.True(t, v.PointerDown(Point{X: bx, Y: pos(2)}))
	v.PointerUp(Point{X: bx, Y: pos(4)})
	assert.Equal(t, []dataset.Identity{2, 3}, store.Get().IDs())

	v.ClearAxisBrush("a")
	assert.Equal(t, []dataset.Identity{2, 3, 4}, store.Get().IDs())

	v.ClearAxisBrush("b")
	assert.True(t, store.Get().IsEmpty())
	assert.Equal(t, brush.Idle, v.BrushState())
}

func TestParallelPointerDownAwayFromAxis(t *testing.T) {
	v := parallelView(t, selection.NewStore())
	ds, schema := pcpData(t)
	require.NoError(t, v.SetDataset(ds, schema))
	assert.False(t, v.PointerDown(Point{X: 70, Y: 60}))
	assert.False(t, v.PointerDown(Point{X: 45, Y: 130}))
}

func TestCrossViewPropagation(t *testing.T) {
	store := selection.NewStore()
	sc := scatterView(t, store)
	pc, err := New("parallel", ParallelCoordinates, store,
		WithGeometry(testGeometry),
		WithConfig(AxisConfig{Axes: []Axis{{Dim: "x"}, {Dim: "y"}}}),
	)
	require.NoError(t, err)
	defer pc.Close()

	ds, schema := scatterData(t)
	require.NoError(t, sc.SetDataset(ds, schema))
	require.NoError(t, pc.SetDataset(ds, schema))

	sc.PointerDown(Point{X: 40, Y: 20})
	sc.PointerUp(Point{X: 80, Y: 120})
	assert.Equal(t, []dataset.Identity{1, 2, 3}, pc.Scene().Highlighted())
	for _, e := range pc.Scene().Elements() {
		want := 0.05
		if e.ID >= 1 && e.ID <= 3 {
			want = 0.6
		}
		assert.Equal(t, want, e.Opacity, "id %d", e.ID)
	}

	// A commit from the other view drops the scatterplot brush widget.
	xAxis, _ := pc.AxisPosition("x")
	top, _ := pc.Position("x", dataset.Number(10))
	bottom, _ := pc.Position("x", dataset.Number(6))
	pc.PointerDown(Point{X: xAxis, Y: top})
	pc.PointerUp(Point{X: xAxis, Y: bottom})
	assert.Equal(t, brush.Idle, sc.BrushState())
	assert.Equal(t, brush.Committed, pc.BrushState())
	assert.Equal(t, []dataset.Identity{3, 4}, sc.Scene().Highlighted())
	assert.Nil(t, sc.Frame().Rect)
}

func TestDegenerateDimension(t *testing.T) {
	v, err := New("scatter", Scatterplot, selection.NewStore(),
		WithGeometry(testGeometry),
		WithConfig(AxisConfig{X: Axis{Dim: "Rainfall"}, Y: Axis{Dim: "y"}}),
	)
	require.NoError(t, err)
	defer v.Close()
	ds, schema := build(t, []string{"Rainfall", "y"}, []string{"0", "1"}, []string{"0", "2"})
	require.NoError(t, v.SetDataset(ds, schema))

	for _, e := range v.Scene().Elements() {
		assert.False(t, math.IsNaN(e.Center.X))
		assert.Equal(t, 70.0, e.Center.X)
	}
	f := v.Frame()
	require.Len(t, f.Axes, 2)
	assert.Len(t, f.Axes[0].Ticks, 1)
}

func TestSetConfigValidates(t *testing.T) {
	v := scatterView(t, selection.NewStore())
	ds, schema := scatterData(t)
	require.NoError(t, v.SetDataset(ds, schema))

	err := v.SetConfig(AxisConfig{X: Axis{Dim: "x"}, Y: Axis{Dim: "Humidity"}})
	assert.True(t, brerrors.Is(err, brerrors.ErrCodeInvalidDimension))
	assert.Equal(t, "y", v.Config().Y.Dim)

	require.NoError(t, v.SetConfig(AxisConfig{X: Axis{Dim: "y"}, Y: Axis{Dim: "x", Invert: true}}))
	e, _ := v.Scene().Lookup(4)
	assert.Equal(t, reconcile.Updating, e.State)
	assert.InDelta(t, 120, e.Center.Y, 1e-9, "inverted y puts the maximum at the bottom")
	assert.InDelta(t, 20, e.From.Center.Y, 1e-9)
}

func TestSetConfigResetsBrush(t *testing.T) {
	store := selection.NewStore()
	v := scatterView(t, store)
	ds, schema := scatterData(t)
	require.NoError(t, v.SetDataset(ds, schema))
	v.PointerDown(Point{X: 20, Y: 20})
	v.PointerUp(Point{X: 120, Y: 120})
	require.Equal(t, brush.Committed, v.BrushState())

	require.NoError(t, v.SetConfig(AxisConfig{X: Axis{Dim: "y"}, Y: Axis{Dim: "x"}}))
	assert.Equal(t, brush.Idle, v.BrushState())
	assert.Equal(t, 5, store.Get().Len(), "changing axes keeps the selection")
}

func TestReloadKeepsSelectionAndContinuity(t *testing.T) {
	store := selection.NewStore()
	v := scatterView(t, store)
	ds, schema := scatterData(t)
	require.NoError(t, v.SetDataset(ds, schema))
	store.Commit("other", selection.Of(1, 40))

	d2, s2 := build(t, []string{"x", "y"}, []string{"1", "1"}, []string{"2", "5"}, []string{"3", "3"})
	require.NoError(t, v.SetDataset(d2, s2))
	st := v.Scene().Stats()
	assert.Equal(t, 0, st.Entered)
	assert.Equal(t, 3, st.Updated)
	assert.Equal(t, 2, st.Exited)
	assert.Equal(t, []dataset.Identity{1}, v.Scene().Highlighted())
	assert.Equal(t, d2.Generation, v.Scene().Generation())
}

func TestHover(t *testing.T) {
	v := scatterView(t, selection.NewStore())
	ds, schema := scatterData(t)
	require.NoError(t, v.SetDataset(ds, schema))

	r, ok := v.Hover(Point{X: 41, Y: 71})
	require.True(t, ok)
	assert.Equal(t, dataset.Identity(1), r.ID)

	_, ok = v.Hover(Point{X: 110, Y: 30})
	assert.False(t, ok)
}

func TestHoverParallel(t *testing.T) {
	v := parallelView(t, selection.NewStore())
	ds, schema := pcpData(t)
	require.NoError(t, v.SetDataset(ds, schema))

	y, _ := v.Position("a", dataset.Number(2))
	r, ok := v.Hover(Point{X: 70, Y: y + 1})
	require.True(t, ok)
	assert.Equal(t, dataset.Identity(2), r.ID)
}

func TestResize(t *testing.T) {
	v := scatterView(t, selection.NewStore())
	ds, schema := scatterData(t)
	require.NoError(t, v.SetDataset(ds, schema))
	require.NoError(t, v.Resize(240, 140))
	e, _ := v.Scene().Lookup(4)
	assert.InDelta(t, 220, e.Center.X, 1e-9)

	assert.Error(t, v.Resize(0, 10))
}

func TestFrameParallel(t *testing.T) {
	v := parallelView(t, selection.NewStore())
	ds, schema := pcpData(t)
	require.NoError(t, v.SetDataset(ds, schema))
	ax, _ := v.AxisPosition("a")
	v.PointerDown(Point{X: ax, Y: 30})
	v.PointerMove(Point{X: ax, Y: 60})

	f := v.Frame()
	assert.True(t, f.Preview)
	require.Len(t, f.Axes, 2)
	assert.Equal(t, Vertical, f.Axes[0].Orientation)
	require.NotNil(t, f.Axes[0].Brush)
	assert.Equal(t, brush.Interval{Lo: 30, Hi: 60}, *f.Axes[0].Brush)
	assert.Nil(t, f.Axes[1].Brush)
	assert.Equal(t, 5, f.Total)
}

func TestNewValidates(t *testing.T) {
	store := selection.NewStore()
	_, err := New("Bad Name", Scatterplot, store)
	assert.True(t, brerrors.Is(err, brerrors.ErrCodeInvalidView))
	_, err = New("scatter", Scatterplot, nil)
	assert.Error(t, err)
	_, err = New("pcp", ParallelCoordinates, store, WithConfig(AxisConfig{}))
	assert.True(t, brerrors.Is(err, brerrors.ErrCodeInvalidConfig))
}

func TestAxisConfigSet(t *testing.T) {
	var c AxisConfig
	require.NoError(t, c.Set("x", "Hour"))
	require.NoError(t, c.Set("invert-y", "true"))
	require.NoError(t, c.Set("axes", "RentedBikeCount, -SolarRadiation"))
	assert.Equal(t, "Hour", c.X.Dim)
	assert.True(t, c.Y.Invert)
	assert.Equal(t, []Axis{{Dim: "RentedBikeCount"}, {Dim: "SolarRadiation", Invert: true}}, c.Axes)
	assert.Error(t, c.Set("opacity", "1"))
	assert.Equal(t, "axes=RentedBikeCount,-SolarRadiation", c.String())
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("PCP")
	require.NoError(t, err)
	assert.Equal(t, ParallelCoordinates, k)
	_, err = ParseKind("bar")
	assert.Error(t, err)
}
