package view

import (
	"math"

	"github.com/matzehuels/brushlink/pkg/brush"
	"github.com/matzehuels/brushlink/pkg/dataset"
	"github.com/matzehuels/brushlink/pkg/reconcile"
	"github.com/matzehuels/brushlink/pkg/scale"
	"github.com/matzehuels/brushlink/pkg/selection"
)

// Point is a pointer position in container coordinates.
type Point = reconcile.Point

// PointerDown starts a brush. Scatterplots accept presses inside the plot
// area; parallel coordinates accept presses within the hit width of an
// axis. It reports whether a drag started.
func (v *View) PointerDown(p Point) bool {
	if v.ds == nil {
		return false
	}
	if v.kind == ParallelCoordinates {
		i, ok := v.axisAt(p)
		if !ok {
			return false
		}
		v.axis.Begin(v.axes[i].Dimension().Name, v.clampY(p.Y))
		return true
	}
	if !v.inPlot(p) {
		return false
	}
	v.rect.Begin(p)
	return true
}

// PointerMove extends a drag. Positions are clamped to the plot area.
func (v *View) PointerMove(p Point) {
	if v.kind == ParallelCoordinates {
		v.axis.Move(v.clampY(p.Y))
		return
	}
	v.rect.Move(v.clamp(p))
}

// PointerUp ends a drag and commits. It reports whether a drag ended.
func (v *View) PointerUp(p Point) bool {
	if v.kind == ParallelCoordinates {
		return v.axis.End(v.clampY(p.Y))
	}
	return v.rect.End(v.clamp(p))
}

// PointerLeave cancels a drag in progress.
func (v *View) PointerLeave() { v.cancelDrag() }

// ClearBrush removes the brush and commits the empty selection.
func (v *View) ClearBrush() {
	if v.axis != nil {
		v.axis.Clear()
		return
	}
	v.rect.Clear()
}

// ClearAxisBrush removes the interval on one parallel-coordinates axis.
func (v *View) ClearAxisBrush(dim string) {
	if v.axis == nil {
		return
	}
	if _, ok := v.axis.Intervals()[dim]; !ok {
		return
	}
	v.axis.ClearAxis(dim)
}

// AxisPosition returns the x position of a parallel-coordinates axis.
func (v *View) AxisPosition(dim string) (float64, bool) {
	for i, s := range v.axes {
		if s.Dimension().Name == dim {
			return v.axisX[i], true
		}
	}
	return 0, false
}

// Position returns the screen position of value on the named dimension's
// axis, for hosts that brush in data units.
func (v *View) Position(dim string, value dataset.Value) (float64, bool) {
	if s := v.scaleOf(dim); s != nil {
		return s.Map(value)
	}
	return 0, false
}

func (v *View) scaleOf(dim string) *scale.Scale {
	if v.kind == ParallelCoordinates {
		for _, s := range v.axes {
			if s.Dimension().Name == dim {
				return s
			}
		}
		return nil
	}
	switch {
	case v.x != nil && v.x.Dimension().Name == dim:
		return v.x
	case v.y != nil && v.y.Dimension().Name == dim:
		return v.y
	}
	return nil
}

func (v *View) inPlot(p Point) bool {
	g := v.geom
	return p.X >= g.Left() && p.X <= g.Right() && p.Y >= g.Top() && p.Y <= g.Bottom()
}

func (v *View) clamp(p Point) Point {
	g := v.geom
	return Point{
		X: math.Max(g.Left(), math.Min(g.Right(), p.X)),
		Y: v.clampY(p.Y),
	}
}

func (v *View) clampY(y float64) float64 {
	return math.Max(v.geom.Top(), math.Min(v.geom.Bottom(), y))
}

func (v *View) axisAt(p Point) (int, bool) {
	if p.Y < v.geom.Top() || p.Y > v.geom.Bottom() {
		return 0, false
	}
	best, bestDist := -1, v.hitWidth
	for i, x := range v.axisX {
		if d := math.Abs(p.X - x); d <= bestDist {
			best, bestDist = i, d
		}
	}
	return best, best >= 0
}

// inRect selects the records whose placement falls inside r.
func (v *View) inRect(r brush.Rect) selection.Selection {
	if v.ds == nil || v.x == nil || v.y == nil {
		return selection.Empty()
	}
	return selection.Where(v.ds.Records, func(rec dataset.Record) bool {
		px, okx := v.x.Map(rec.Get(v.cfg.X.Dim))
		py, oky := v.y.Map(rec.Get(v.cfg.Y.Dim))
		return okx && oky && r.Contains(Point{X: px, Y: py})
	})
}

// inIntervals selects the records inside every interval.
func (v *View) inIntervals(ivs map[string]brush.Interval) selection.Selection {
	if v.ds == nil || len(ivs) == 0 {
		return selection.Empty()
	}
	type test struct {
		s  *scale.Scale
		iv brush.Interval
	}
	tests := make([]test, 0, len(ivs))
	for dim, iv := range ivs {
		s := v.scaleOf(dim)
		if s == nil {
			return selection.Empty()
		}
		tests = append(tests, test{s, iv})
	}
	return selection.Where(v.ds.Records, func(rec dataset.Record) bool {
		for _, t := range tests {
			pos, ok := t.s.Map(rec.Get(t.s.Dimension().Name))
			if !ok || !t.iv.Contains(pos) {
				return false
			}
		}
		return true
	})
}

// Hover returns the record whose mark is nearest to p, if one is close
// enough to be under the pointer.
func (v *View) Hover(p Point) (dataset.Record, bool) {
	if v.ds == nil {
		return dataset.Record{}, false
	}
	var (
		bestID   dataset.Identity
		bestDist = math.Inf(1)
		found    bool
	)
	for _, e := range v.scene.Elements() {
		var d, limit float64
		if v.kind == ParallelCoordinates {
			d, limit = pathDistance(p, e.Path), 4
		} else {
			d, limit = math.Hypot(p.X-e.Center.X, p.Y-e.Center.Y), e.Radius+3
		}
		if d <= limit && d < bestDist {
			bestID, bestDist, found = e.ID, d, true
		}
	}
	if !found {
		return dataset.Record{}, false
	}
	return v.ds.Lookup(bestID)
}

func pathDistance(p Point, path []Point) float64 {
	best := math.Inf(1)
	for i := 1; i < len(path); i++ {
		best = math.Min(best, segmentDistance(p, path[i-1], path[i]))
	}
	if len(path) == 1 {
		best = math.Hypot(p.X-path[0].X, p.Y-path[0].Y)
	}
	return best
}

func segmentDistance(p, a, b Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	t := math.Max(0, math.Min(1, ((p.X-a.X)*dx+(p.Y-a.Y)*dy)/l2))
	return math.Hypot(p.X-(a.X+t*dx), p.Y-(a.Y+t*dy))
}
