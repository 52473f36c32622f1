package brush

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/brushlink/pkg/dataset"
	"github.com/matzehuels/brushlink/pkg/selection"
)

type fakeTarget struct {
	previews []selection.Selection
	restyles []selection.Selection
}

func (f *fakeTarget) Preview(sel selection.Selection) { f.previews = append(f.previews, sel) }
func (f *fakeTarget) Restyle(sel selection.Selection) { f.restyles = append(f.restyles, sel) }

// points are placed at (10*id, 10*id).
var points = []Point{{X: 0, Y: 0}, {X: 10, Y: 10}, {X: 20, Y: 20}, {X: 30, Y: 30}, {X: 40, Y: 40}}

func inRect(r Rect) selection.Selection {
	var ids []dataset.Identity
	for i, p := range points {
		if r.Contains(p) {
			ids = append(ids, dataset.Identity(i))
		}
	}
	return selection.Of(ids...)
}

func TestRectBrushPreviewsThenCommitsOnce(t *testing.T) {
	store := selection.NewStore()
	var changes []selection.Change
	store.Subscribe(func(c selection.Change) { changes = append(changes, c) })
	target := &fakeTarget{}
	b := NewRect("scatter", store, target, inRect)

	b.Begin(Point{X: 5, Y: 5})
	assert.Equal(t, Dragging, b.State())
	b.Move(Point{X: 15, Y: 15})
	b.Move(Point{X: 25, Y: 25})
	assert.Empty(t, changes, "moves must not write to the store")
	require.Len(t, target.previews, 2)
	assert.Equal(t, []dataset.Identity{1}, target.previews[0].IDs())
	assert.Equal(t, []dataset.Identity{1, 2}, target.previews[1].IDs())

	assert.True(t, b.End(Point{X: 35, Y: 25}))
	assert.Equal(t, Committed, b.State())
	require.Len(t, changes, 1)
	assert.Equal(t, "scatter", changes[0].Origin)
	assert.Equal(t, []dataset.Identity{1, 2}, store.Get().IDs())

	r, ok := b.Rect()
	assert.True(t, ok)
	assert.Equal(t, Rect{Min: Point{X: 5, Y: 5}, Max: Point{X: 35, Y: 25}}, r)

	assert.False(t, b.End(Point{X: 0, Y: 0}), "End without drag is ignored")
	assert.Len(t, changes, 1)
}

func TestRectBrushClickClears(t *testing.T) {
	store := selection.NewStore()
	store.Commit("scatter", selection.Of(1))
	b := NewRect("scatter", store, &fakeTarget{}, inRect)

	b.Begin(Point{X: 10, Y: 10})
	b.End(Point{X: 10, Y: 10})
	assert.Equal(t, Idle, b.State())
	assert.True(t, store.Get().IsEmpty())
	_, ok := b.Rect()
	assert.False(t, ok)
}

func TestRectBrushEmptyPredicateCommitsEmpty(t *testing.T) {
	store := selection.NewStore()
	store.Commit("parallel", selection.Of(1, 2))
	b := NewRect("scatter", store, &fakeTarget{}, inRect)

	b.Begin(Point{X: 100, Y: 100})
	b.End(Point{X: 200, Y: 200})
	assert.Equal(t, Committed, b.State())
	assert.True(t, store.Get().IsEmpty())
	assert.Equal(t, uint64(2), store.Revision())
}

func TestRectBrushCancel(t *testing.T) {
	store := selection.NewStore()
	store.Commit("parallel", selection.Of(4))
	target := &fakeTarget{}
	b := NewRect("scatter", store, target, inRect)

	b.Begin(Point{X: 0, Y: 0})
	b.Move(Point{X: 20, Y: 20})
	b.Cancel()

	assert.Equal(t, Idle, b.State())
	assert.Equal(t, uint64(1), store.Revision(), "cancel must not commit")
	require.Len(t, target.restyles, 1)
	assert.Equal(t, []dataset.Identity{4}, target.restyles[0].IDs())

	b.Cancel()
	assert.Len(t, target.restyles, 1, "cancel while idle is a no-op")
}

func TestRectBrushResetAndClear(t *testing.T) {
	store := selection.NewStore()
	b := NewRect("scatter", store, &fakeTarget{}, inRect)
	b.Begin(Point{X: 0, Y: 0})
	b.End(Point{X: 20, Y: 20})

	b.Reset()
	assert.Equal(t, Idle, b.State())
	assert.Equal(t, []dataset.Identity{0, 1, 2}, store.Get().IDs(), "reset keeps the store")

	b.Clear()
	assert.True(t, store.Get().IsEmpty())
	assert.Equal(t, uint64(2), store.Revision())
}

func TestRectBrushZeroAreaPreviewMatchesCommit(t *testing.T) {
	store := selection.NewStore()
	target := &fakeTarget{}
	b := NewRect("scatter", store, target, inRect)

	b.Begin(Point{X: 10, Y: 10})
	b.Move(Point{X: 20, Y: 20})
	b.Move(Point{X: 10, Y: 10})
	require.Len(t, target.previews, 2)
	assert.Equal(t, []dataset.Identity{1, 2}, target.previews[0].IDs())
	if got := target.previews[1]; !got.IsEmpty() {
		t.Errorf("zero-area preview = %v, want empty", got.IDs())
	}

	b.End(Point{X: 10, Y: 10})
	assert.True(t, store.Get().IsEmpty())
}

func TestMoveWhileIdleIsIgnored(t *testing.T) {
	target := &fakeTarget{}
	b := NewRect("scatter", selection.NewStore(), target, inRect)
	b.Move(Point{X: 3, Y: 3})
	assert.Empty(t, target.previews)
}

// Five records; values per axis, one screen unit per value.
var axes = map[string][]float64{
	"a": {0, 1, 2, 3, 4},
	"b": {4, 3, 2, 1, 0},
}

func inAll(ivs map[string]Interval) selection.Selection {
	var ids []dataset.Identity
	for i := range 5 {
		ok := true
		for axis, iv := range ivs {
			if !iv.Contains(axes[axis][i]) {
				ok = false
			}
		}
		if ok {
			ids = append(ids, dataset.Identity(i))
		}
	}
	return selection.Of(ids...)
}

func TestAxisBrushConjunction(t *testing.T) {
	store := selection.NewStore()
	target := &fakeTarget{}
	b := NewAxis("parallel", store, target, inAll)

	b.Begin("a", 1)
	b.Move(3)
	b.End(3)
	assert.Equal(t, []dataset.Identity{1, 2, 3}, store.Get().IDs())

	b.Begin("b", 0)
	b.Move(2)
	require.NotEmpty(t, target.previews)
	assert.Equal(t, []dataset.Identity{2, 3}, target.previews[len(target.previews)-1].IDs())
	b.End(2)
	assert.Equal(t, []dataset.Identity{2, 3}, store.Get().IDs())
	assert.Len(t, b.Intervals(), 2)

	b.ClearAxis("a")
	assert.Equal(t, []dataset.Identity{2, 3, 4}, store.Get().IDs())
	assert.Equal(t, Committed, b.State())

	b.ClearAxis("b")
	assert.True(t, store.Get().IsEmpty())
	assert.Equal(t, Idle, b.State())
}

func TestAxisBrushZeroLengthPreviewMatchesCommit(t *testing.T) {
	tests := []struct {
		name  string
		other bool // commit b in [0,2] first
		want  []dataset.Identity
	}{
		{"alone", false, []dataset.Identity{}},
		{"with other axis", true, []dataset.Identity{2, 3, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := selection.NewStore()
			target := &fakeTarget{}
			b := NewAxis("parallel", store, target, inAll)
			if tt.other {
				b.Begin("b", 0)
				b.End(2)
			}

			b.Begin("a", 1)
			b.Move(3)
			b.Move(1)
			last := target.previews[len(target.previews)-1]
			assert.Equal(t, tt.want, last.IDs(), "preview")

			b.End(1)
			assert.Equal(t, tt.want, store.Get().IDs(), "commit")
		})
	}
}

func TestAxisBrushClearOtherAxisKeepsDrag(t *testing.T) {
	store := selection.NewStore()
	target := &fakeTarget{}
	b := NewAxis("parallel", store, target, inAll)
	b.Begin("b", 0)
	b.End(2)
	assert.Equal(t, []dataset.Identity{2, 3, 4}, store.Get().IDs())

	b.Begin("a", 1)
	b.Move(3)
	b.ClearAxis("b")

	assert.Equal(t, Dragging, b.State())
	axis, dragging := b.Dragging()
	assert.True(t, dragging)
	assert.Equal(t, "a", axis)
	assert.True(t, store.Get().IsEmpty())
	assert.Equal(t, []dataset.Identity{1, 2, 3}, target.previews[len(target.previews)-1].IDs())

	assert.True(t, b.End(3))
	assert.Equal(t, Committed, b.State())
	assert.Equal(t, []dataset.Identity{1, 2, 3}, store.Get().IDs())
}

func TestAxisBrushClearDraggedAxisEndsDrag(t *testing.T) {
	store := selection.NewStore()
	b := NewAxis("parallel", store, &fakeTarget{}, inAll)
	b.Begin("a", 1)
	b.Move(3)
	b.ClearAxis("a")
	assert.Equal(t, Idle, b.State())
	assert.False(t, b.End(3))
}

func TestAxisBrushClickClearsAxis(t *testing.T) {
	store := selection.NewStore()
	b := NewAxis("parallel", store, &fakeTarget{}, inAll)
	b.Begin("a", 0)
	b.End(2)
	b.Begin("a", 1)
	b.End(1)
	assert.Equal(t, Idle, b.State())
	assert.True(t, store.Get().IsEmpty())
}

func TestAxisBrushCancelKeepsCommittedIntervals(t *testing.T) {
	store := selection.NewStore()
	target := &fakeTarget{}
	b := NewAxis("parallel", store, target, inAll)
	b.Begin("a", 0)
	b.End(1)
	rev := store.Revision()

	b.Begin("b", 0)
	b.Move(4)
	axis, dragging := b.Dragging()
	assert.True(t, dragging)
	assert.Equal(t, "b", axis)
	b.Cancel()

	assert.Equal(t, Committed, b.State())
	assert.Equal(t, rev, store.Revision())
	assert.Equal(t, map[string]Interval{"a": {0, 1}}, b.Intervals())
	require.Len(t, target.restyles, 1)
}

func TestAxisBrushResetAndClear(t *testing.T) {
	store := selection.NewStore()
	b := NewAxis("parallel", store, &fakeTarget{}, inAll)
	b.Begin("a", 0)
	b.End(4)
	b.Reset()
	assert.Empty(t, b.Intervals())
	assert.Equal(t, uint64(1), store.Revision())

	b.Begin("a", 0)
	b.End(4)
	b.Clear()
	assert.True(t, store.Get().IsEmpty())
	assert.Equal(t, Idle, b.State())
}

func TestGeometry(t *testing.T) {
	r := Corners(Point{X: 10, Y: 0}, Point{X: 0, Y: 10})
	assert.Equal(t, Rect{Min: Point{X: 0, Y: 0}, Max: Point{X: 10, Y: 10}}, r)
	assert.False(t, r.Empty())
	assert.True(t, Corners(Point{X: 1, Y: 1}, Point{X: 1, Y: 9}).Empty())
	assert.Equal(t, Interval{2, 5}, Span(5, 2))
	assert.True(t, Span(3, 3).Empty())
}
