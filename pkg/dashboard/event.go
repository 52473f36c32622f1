package dashboard

import (
	"fmt"

	"github.com/matzehuels/brushlink/pkg/view"
)

// Event is host input addressed to one view.
type Event interface {
	// Target names the view the event is for.
	Target() string
}

// PointerAction is the kind of a pointer event.
type PointerAction uint8

const (
	PointerDown PointerAction = iota
	PointerMove
	PointerUp
	PointerLeave
)

var pointerActionNames = [...]string{"down", "move", "up", "leave"}

func (a PointerAction) String() string {
	if int(a) < len(pointerActionNames) {
		return pointerActionNames[a]
	}
	return fmt.Sprintf("PointerAction(%d)", a)
}

// PointerEvent is a single pointer input in container coordinates.
type PointerEvent struct {
	View   string
	Action PointerAction
	Point  view.Point
}

// DragEvent is a full press, move and release gesture.
type DragEvent struct {
	View     string
	From, To view.Point
}

// AxisEvent brushes one parallel-coordinates axis from one position to
// another. With Data set, From and To are values of the axis dimension
// instead of screen positions.
type AxisEvent struct {
	View     string
	Dim      string
	From, To float64
	Data     bool
}

// ConfigEvent changes a view's channel assignment. Config replaces the
// whole assignment when non-nil; Set then applies key=value changes on top.
type ConfigEvent struct {
	View   string
	Config *view.AxisConfig
	Set    []string
}

// ResizeEvent changes a view's container size.
type ResizeEvent struct {
	View          string
	Width, Height float64
}

// ClearEvent removes a brush. An empty Axis clears the whole brush of View;
// an empty View clears the selection for every view.
type ClearEvent struct {
	View string
	Axis string
}

func (e PointerEvent) Target() string { return e.View }
func (e DragEvent) Target() string    { return e.View }
func (e AxisEvent) Target() string    { return e.View }
func (e ConfigEvent) Target() string  { return e.View }
func (e ResizeEvent) Target() string  { return e.View }
func (e ClearEvent) Target() string   { return e.View }
