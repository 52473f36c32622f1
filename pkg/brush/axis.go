package brush

import (
	"maps"

	"github.com/matzehuels/brushlink/pkg/selection"
)

// AxisBrush holds one interval per parallel-coordinates axis.
type AxisBrush struct {
	origin   string
	store    Committer
	target   Target
	evaluate func(map[string]Interval) selection.Selection

	state     State
	intervals map[string]Interval

	dragAxis string
	anchor   float64
	drag     Interval
}

// NewAxis returns an idle brush. evaluate returns the records inside every
// given interval; it is never called with an empty map.
func NewAxis(origin string, store Committer, target Target, evaluate func(map[string]Interval) selection.Selection) *AxisBrush {
	return &AxisBrush{
		origin:    origin,
		store:     store,
		target:    target,
		evaluate:  evaluate,
		intervals: make(map[string]Interval),
	}
}

// State returns the current state.
func (b *AxisBrush) State() State { return b.state }

// Intervals returns the visible intervals by axis, including the one being
// dragged.
func (b *AxisBrush) Intervals() map[string]Interval {
	out := maps.Clone(b.intervals)
	if b.state == Dragging {
		out[b.dragAxis] = b.drag
	}
	return out
}

// Dragging returns the axis being dragged.
func (b *AxisBrush) Dragging() (axis string, ok bool) {
	return b.dragAxis, b.state == Dragging
}

// Begin starts a drag on axis at pos.
func (b *AxisBrush) Begin(axis string, pos float64) {
	b.state = Dragging
	b.dragAxis = axis
	b.anchor = pos
	b.drag = Span(pos, pos)
}

// Move extends the drag to pos and previews the conjunction.
func (b *AxisBrush) Move(pos float64) {
	if b.state != Dragging {
		return
	}
	b.drag = Span(b.anchor, pos)
	b.previewPending()
}

// End finishes the drag at pos and commits the conjunction. A zero-length
// drag clears that axis. It reports whether a drag was in progress.
func (b *AxisBrush) End(pos float64) bool {
	if b.state != Dragging {
		return false
	}
	iv := Span(b.anchor, pos)
	axis := b.dragAxis
	b.dragAxis = ""
	b.state = Idle
	if iv.Empty() {
		delete(b.intervals, axis)
	} else {
		b.intervals[axis] = iv
	}
	b.commit()
	return true
}

// ClearAxis removes the interval of one axis and commits what remains. A
// drag on another axis stays in progress.
func (b *AxisBrush) ClearAxis(axis string) {
	delete(b.intervals, axis)
	if b.state == Dragging && b.dragAxis == axis {
		b.dragAxis = ""
		b.state = Idle
	}
	b.commit()
}

// Clear removes every interval and commits the empty selection.
func (b *AxisBrush) Clear() {
	clear(b.intervals)
	b.dragAxis = ""
	b.state = Idle
	b.commit()
}

// commit writes the conjunction of the committed intervals. While a drag is
// in progress the state stays Dragging and the preview is redrawn on top.
func (b *AxisBrush) commit() {
	sel := selection.Empty()
	if len(b.intervals) > 0 {
		sel = b.evaluate(maps.Clone(b.intervals))
	}
	if b.state != Dragging {
		b.state = Idle
		if len(b.intervals) > 0 {
			b.state = Committed
		}
	}
	b.store.Commit(b.origin, sel)
	if b.state == Dragging {
		b.previewPending()
	}
}

// previewPending previews what End would commit at the current drag
// position. A zero-length drag counts as no interval on its axis.
func (b *AxisBrush) previewPending() {
	ivs := maps.Clone(b.intervals)
	if b.drag.Empty() {
		delete(ivs, b.dragAxis)
	} else {
		ivs[b.dragAxis] = b.drag
	}
	if len(ivs) == 0 {
		preview(b.origin, b.target, selection.Empty())
		return
	}
	preview(b.origin, b.target, b.evaluate(ivs))
}

// Cancel abandons a drag in progress without committing. Intervals
// committed earlier stay visible.
func (b *AxisBrush) Cancel() {
	if b.state != Dragging {
		return
	}
	b.dragAxis = ""
	b.state = Idle
	if len(b.intervals) > 0 {
		b.state = Committed
	}
	b.target.Restyle(b.store.Current())
}

// Reset drops every interval without committing.
func (b *AxisBrush) Reset() {
	clear(b.intervals)
	b.dragAxis = ""
	b.state = Idle
}
