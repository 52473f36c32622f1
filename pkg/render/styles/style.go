// Package styles defines how the SVG sink draws marks, axes, brushes and
// legends.
package styles

import (
	"bytes"
	"slices"
	"strings"

	brerrors "github.com/matzehuels/brushlink/pkg/errors"
)

// Style defines the visual appearance of a rendered view.
type Style interface {
	// Name identifies the style in configs and on the command line.
	Name() string
	// RenderDefs writes SVG <defs> and <style> content.
	RenderDefs(buf *bytes.Buffer)
	// RenderBackground fills the frame.
	RenderBackground(buf *bytes.Buffer, w, h float64)
	// RenderMark writes one circle or polyline.
	RenderMark(buf *bytes.Buffer, m Mark)
	// RenderAxis writes an axis line with its ticks and title.
	RenderAxis(buf *bytes.Buffer, a Axis)
	// RenderBrush writes a brush rectangle.
	RenderBrush(buf *bytes.Buffer, b Brush)
	// RenderLegend writes a color legend.
	RenderLegend(buf *bytes.Buffer, l Legend)
}

// Point is a position in frame coordinates.
type Point struct{ X, Y float64 }

// Mark is a circle when Path is empty, a polyline otherwise.
type Mark struct {
	ID          string
	Fill        string // #rrggbb
	Opacity     float64
	Highlighted bool
	CX, CY, R   float64
	Path        []Point

	// Animate, when set, is where the mark transitions from.
	Animate *Transition
}

// Transition is the start state of an animated mark.
type Transition struct {
	CX, CY, R float64
	Path      []Point
	Opacity   float64
	Duration  float64 // seconds
}

// Axis is one axis line with ticks.
type Axis struct {
	Title          string
	X1, Y1, X2, Y2 float64
	Vertical       bool
	Ticks          []Tick
}

// Tick is one tick position and label.
type Tick struct {
	X, Y  float64
	Label string
}

// Brush is a brush rectangle in frame coordinates.
type Brush struct {
	X, Y, W, H float64
}

// Legend is a list of color swatches anchored at X, Y.
type Legend struct {
	Title   string
	X, Y    float64
	Entries []Swatch
}

// Swatch is one legend entry.
type Swatch struct {
	Label string
	Color string
}

var registry = map[string]func() Style{
	"simple": func() Style { return Simple{} },
	"dark":   func() Style { return Dark() },
}

// ByName returns the named style.
func ByName(name string) (Style, error) {
	if name == "" {
		return Simple{}, nil
	}
	mk, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, brerrors.New(brerrors.ErrCodeInvalidStyle, "unknown style %q (want one of %s)", name, strings.Join(Names(), ", "))
	}
	return mk(), nil
}

// Names lists the registered styles.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
