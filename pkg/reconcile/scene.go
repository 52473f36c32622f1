package reconcile

import (
	"errors"
	"fmt"
	"image/color"
	"slices"

	"github.com/matzehuels/brushlink/pkg/dataset"
	"github.com/matzehuels/brushlink/pkg/selection"
)

// ErrStaleScale is returned when placements come from scales built for a
// different dataset generation than the records.
var ErrStaleScale = errors.New("scale built for a different dataset generation")

// Point is a screen position.
type Point struct {
	X, Y float64
}

// State tells how an element took part in the last pass.
type State uint8

const (
	Stable State = iota
	Entering
	Updating
)

func (s State) String() string {
	switch s {
	case Entering:
		return "enter"
	case Updating:
		return "update"
	default:
		return "stable"
	}
}

// Geometry is the shape of a mark: a circle for scatterplots, a polyline
// for parallel coordinates.
type Geometry struct {
	Center Point
	Radius float64
	Path   []Point
}

// Element is one mark bound to a record identity.
type Element struct {
	ID   dataset.Identity
	Fill color.RGBA
	Geometry
	Opacity     float64
	Highlighted bool

	// State and the From fields describe the transition into this pass.
	State       State
	From        Geometry
	FromOpacity float64
}

// Opacity is the highlight rule of a view.
type Opacity struct {
	Default     float64
	Highlighted float64
}

// For returns the opacity of id under sel.
func (o Opacity) For(id dataset.Identity, sel selection.Selection) float64 {
	if sel.Contains(id) {
		return o.Highlighted
	}
	return o.Default
}

// Placer computes the mark of a record from the current scales.
type Placer interface {
	// Generation is the dataset generation the scales were built for.
	Generation() uint64
	// Place returns false when the record cannot be drawn.
	Place(r dataset.Record) (Element, bool)
}

// Stats summarizes the last reconciliation.
type Stats struct {
	Entered, Updated, Exited, Skipped int
}

// Scene is a keyed set of elements. It is not safe for concurrent use.
type Scene struct {
	origin     Point
	generation uint64
	elements   map[dataset.Identity]*Element
	order      []dataset.Identity
	exited     []Element
	preview    bool
	revision   uint64
	stats      Stats
}

// NewScene returns an empty scene whose entering elements start at origin.
func NewScene(origin Point) *Scene {
	return &Scene{origin: origin, elements: make(map[dataset.Identity]*Element)}
}

// SetOrigin moves the point entering elements start from.
func (s *Scene) SetOrigin(p Point) { s.origin = p }

// Generation returns the dataset generation of the last reconciliation.
func (s *Scene) Generation() uint64 { return s.generation }

// Revision counts passes of any kind.
func (s *Scene) Revision() uint64 { return s.revision }

// IsPreview reports whether the last pass was a brush preview.
func (s *Scene) IsPreview() bool { return s.preview }

// Stats returns the counts of the last reconciliation.
func (s *Scene) Stats() Stats { return s.stats }

// Len returns the number of elements.
func (s *Scene) Len() int { return len(s.order) }

// Lookup returns the element bound to id.
func (s *Scene) Lookup(id dataset.Identity) (Element, bool) {
	e, ok := s.elements[id]
	if !ok {
		return Element{}, false
	}
	return e.clone(), true
}

// Elements returns a copy of the elements in draw order.
func (s *Scene) Elements() []Element {
	out := make([]Element, len(s.order))
	for i, id := range s.order {
		out[i] = s.elements[id].clone()
	}
	return out
}

// Exited returns the elements removed by the last reconciliation, as they
// were before removal.
func (s *Scene) Exited() []Element {
	out := make([]Element, len(s.exited))
	for i := range s.exited {
		out[i] = s.exited[i].clone()
	}
	return out
}

// Reconcile joins the scene against the records of ds. Records the placer
// rejects are skipped and leave the scene if they were drawn before.
func (s *Scene) Reconcile(ds *dataset.Dataset, p Placer, sel selection.Selection, op Opacity) (Join[dataset.Identity], error) {
	gen := uint64(0)
	var records []dataset.Record
	if ds != nil {
		gen = ds.Generation
		records = ds.Records
	}
	if p.Generation() != gen {
		return Join[dataset.Identity]{}, fmt.Errorf("%w: scales %d, records %d", ErrStaleScale, p.Generation(), gen)
	}

	placed := make(map[dataset.Identity]Element, len(records))
	next := make([]dataset.Identity, 0, len(records))
	skipped := 0
	for _, r := range records {
		e, ok := p.Place(r)
		if !ok {
			skipped++
			continue
		}
		e.ID = r.ID
		if _, dup := placed[r.ID]; !dup {
			next = append(next, r.ID)
		}
		placed[r.ID] = e
	}

	j := Diff(s.order, next)

	s.exited = s.exited[:0]
	for _, id := range j.Exit {
		s.exited = append(s.exited, *s.elements[id])
		delete(s.elements, id)
	}
	for _, id := range j.Enter {
		e := placed[id]
		e.State = Entering
		e.From = Geometry{Center: s.origin, Radius: e.Radius, Path: s.collapse(e.Path)}
		e.FromOpacity = op.Default
		s.elements[id] = &e
	}
	for _, id := range j.Update {
		prev := s.elements[id]
		e := placed[id]
		e.State = Updating
		e.From = prev.Geometry
		e.FromOpacity = prev.Opacity
		s.elements[id] = &e
	}
	s.order = next

	for _, e := range s.elements {
		e.Opacity = op.For(e.ID, sel)
		e.Highlighted = sel.Contains(e.ID)
	}

	s.generation = gen
	s.preview = false
	s.revision++
	s.stats = Stats{Entered: len(j.Enter), Updated: len(j.Update), Exited: len(j.Exit), Skipped: skipped}
	return j, nil
}

// collapse maps every vertex of path onto the origin's Y, keeping X, so that
// polylines grow out of a flat line.
func (s *Scene) collapse(path []Point) []Point {
	if path == nil {
		return nil
	}
	out := make([]Point, len(path))
	for i, p := range path {
		out[i] = Point{X: p.X, Y: s.origin.Y}
	}
	return out
}

// Restyle updates opacities after a store change. Geometry is untouched.
func (s *Scene) Restyle(sel selection.Selection, op Opacity) {
	s.restyle(sel, op)
	s.preview = false
}

// Preview shows the opacities a brush in progress would produce.
func (s *Scene) Preview(sel selection.Selection, op Opacity) {
	s.restyle(sel, op)
	s.preview = true
}

func (s *Scene) restyle(sel selection.Selection, op Opacity) {
	for _, id := range s.order {
		e := s.elements[id]
		e.State = Stable
		e.From = e.Geometry
		e.FromOpacity = e.Opacity
		e.Opacity = op.For(id, sel)
		e.Highlighted = sel.Contains(id)
	}
	s.exited = s.exited[:0]
	s.revision++
}

// Highlighted returns the identities currently drawn highlighted, in draw
// order.
func (s *Scene) Highlighted() []dataset.Identity {
	var ids []dataset.Identity
	for _, id := range s.order {
		if s.elements[id].Highlighted {
			ids = append(ids, id)
		}
	}
	return ids
}

func (e *Element) clone() Element {
	c := *e
	c.Path = slices.Clone(e.Path)
	c.From.Path = slices.Clone(e.From.Path)
	return c
}
