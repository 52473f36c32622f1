package brush

import (
	"github.com/matzehuels/brushlink/pkg/selection"
)

// RectBrush is the two-dimensional brush of a scatterplot.
type RectBrush struct {
	origin   string
	store    Committer
	target   Target
	evaluate func(Rect) selection.Selection

	state  State
	anchor Point
	rect   Rect
}

// NewRect returns an idle brush. evaluate returns the records whose
// placement falls inside a rectangle under the view's current scales.
func NewRect(origin string, store Committer, target Target, evaluate func(Rect) selection.Selection) *RectBrush {
	return &RectBrush{origin: origin, store: store, target: target, evaluate: evaluate}
}

// State returns the current state.
func (b *RectBrush) State() State { return b.state }

// Rect returns the visible brush rectangle. ok is false when idle.
func (b *RectBrush) Rect() (r Rect, ok bool) {
	if b.state == Idle {
		return Rect{}, false
	}
	return b.rect, true
}

// Begin starts a drag at p.
func (b *RectBrush) Begin(p Point) {
	b.state = Dragging
	b.anchor = p
	b.rect = Corners(p, p)
}

// Move extends the drag to p and previews the result.
func (b *RectBrush) Move(p Point) {
	if b.state != Dragging {
		return
	}
	b.rect = Corners(b.anchor, p)
	if b.rect.Empty() {
		// End clears on a zero-area rectangle.
		preview(b.origin, b.target, selection.Empty())
		return
	}
	preview(b.origin, b.target, b.evaluate(b.rect))
}

// End finishes the drag at p and commits. It reports whether a drag was in
// progress.
func (b *RectBrush) End(p Point) bool {
	if b.state != Dragging {
		return false
	}
	b.rect = Corners(b.anchor, p)
	if b.rect.Empty() {
		b.Clear()
		return true
	}
	b.state = Committed
	b.store.Commit(b.origin, b.evaluate(b.rect))
	return true
}

// Clear removes the brush and commits the empty selection.
func (b *RectBrush) Clear() {
	b.state = Idle
	b.rect = Rect{}
	b.store.Commit(b.origin, selection.Empty())
}

// Cancel abandons a drag in progress without committing.
func (b *RectBrush) Cancel() {
	if b.state != Dragging {
		return
	}
	b.state = Idle
	b.rect = Rect{}
	b.target.Restyle(b.store.Current())
}

// Reset drops the brush without committing.
func (b *RectBrush) Reset() {
	b.state = Idle
	b.rect = Rect{}
}
