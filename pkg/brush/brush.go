package brush

import (
	"math"

	"github.com/matzehuels/brushlink/pkg/observability"
	"github.com/matzehuels/brushlink/pkg/reconcile"
	"github.com/matzehuels/brushlink/pkg/selection"
)

// Point is a screen position.
type Point = reconcile.Point

// State is the brush state.
type State uint8

const (
	Idle State = iota
	Dragging
	Committed
)

func (s State) String() string {
	switch s {
	case Dragging:
		return "dragging"
	case Committed:
		return "committed"
	default:
		return "idle"
	}
}

// Committer is the write side of the selection store.
type Committer interface {
	Commit(origin string, sel selection.Selection)
	Current() selection.Selection
}

// Target is the view being brushed.
type Target interface {
	// Preview shows sel without touching the store.
	Preview(sel selection.Selection)
	// Restyle shows sel as the committed state.
	Restyle(sel selection.Selection)
}

// Rect is an axis-aligned screen rectangle with Min <= Max.
type Rect struct {
	Min, Max Point
}

// Corners returns the rectangle spanned by two opposite corners.
func Corners(a, b Point) Rect {
	return Rect{
		Min: Point{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)},
		Max: Point{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y)},
	}
}

// Empty reports whether the rectangle has zero area.
func (r Rect) Empty() bool { return r.Min.X == r.Max.X || r.Min.Y == r.Max.Y }

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Width returns Max.X-Min.X.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height returns Max.Y-Min.Y.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Interval is a one-dimensional screen extent with Lo <= Hi.
type Interval struct {
	Lo, Hi float64
}

// Span returns the interval between a and b.
func Span(a, b float64) Interval {
	return Interval{Lo: math.Min(a, b), Hi: math.Max(a, b)}
}

// Empty reports whether the interval has zero length.
func (iv Interval) Empty() bool { return iv.Lo == iv.Hi }

// Contains reports whether pos lies inside iv, ends included.
func (iv Interval) Contains(pos float64) bool { return pos >= iv.Lo && pos <= iv.Hi }

func preview(origin string, t Target, sel selection.Selection) {
	observability.Selection().OnPreview(origin, sel.Len())
	t.Preview(sel)
}
