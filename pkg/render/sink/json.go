package sink

import (
	gojson "github.com/goccy/go-json"

	"github.com/matzehuels/brushlink/pkg/encoding"
	"github.com/matzehuels/brushlink/pkg/reconcile"
	"github.com/matzehuels/brushlink/pkg/view"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	indent bool
	style  string
	exited bool
}

// WithJSONIndent pretty-prints the output.
func WithJSONIndent() JSONOption { return func(r *jsonRenderer) { r.indent = true } }

// WithJSONStyle records the style name for hosts that draw the frame
// themselves.
func WithJSONStyle(s string) JSONOption { return func(r *jsonRenderer) { r.style = s } }

// WithJSONExited includes marks removed in the last reconciliation so hosts
// can animate them out.
func WithJSONExited() JSONOption { return func(r *jsonRenderer) { r.exited = true } }

// Document is the JSON form of a frame.
type Document struct {
	View     string          `json:"view"`
	Kind     string          `json:"kind"`
	Style    string          `json:"style,omitempty"`
	Width    float64         `json:"width"`
	Height   float64         `json:"height"`
	Margins  view.Margins    `json:"margins"`
	Config   view.AxisConfig `json:"config"`
	Revision uint64          `json:"revision"`
	Preview  bool            `json:"preview,omitempty"`
	Brush    string          `json:"brush"`
	Selected int             `json:"selected"`
	Total    int             `json:"total"`
	Marks    []Mark          `json:"marks"`
	Exited   []Mark          `json:"exited,omitempty"`
	Axes     []Axis          `json:"axes"`
	Legend   *Legend         `json:"legend,omitempty"`
	Rect     *Box            `json:"rect,omitempty"`
}

// Mark is one element.
type Mark struct {
	ID          uint32       `json:"id"`
	State       string       `json:"state"`
	Fill        string       `json:"fill"`
	Opacity     float64      `json:"opacity"`
	Highlighted bool         `json:"highlighted,omitempty"`
	X           float64      `json:"x,omitempty"`
	Y           float64      `json:"y,omitempty"`
	R           float64      `json:"r,omitempty"`
	Path        [][2]float64 `json:"path,omitempty"`
	From        *From        `json:"from,omitempty"`
}

// From is where a mark transitions from.
type From struct {
	X       float64      `json:"x,omitempty"`
	Y       float64      `json:"y,omitempty"`
	R       float64      `json:"r,omitempty"`
	Path    [][2]float64 `json:"path,omitempty"`
	Opacity float64      `json:"opacity"`
}

// Axis is one axis with its ticks.
type Axis struct {
	Dim      string      `json:"dim"`
	Vertical bool        `json:"vertical"`
	Offset   float64     `json:"offset"`
	From     float64     `json:"from"`
	To       float64     `json:"to"`
	Inverted bool        `json:"inverted,omitempty"`
	Ticks    []Tick      `json:"ticks"`
	Brush    *[2]float64 `json:"brush,omitempty"`
}

// Tick is one tick.
type Tick struct {
	Pos   float64 `json:"pos"`
	Label string  `json:"label"`
}

// Legend is the color legend.
type Legend struct {
	Title   string   `json:"title"`
	Entries []Swatch `json:"entries"`
}

// Swatch is one legend entry.
type Swatch struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// Box is a rectangle.
type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// RenderJSON exports f as a [Document]. It returns an error only if
// marshaling fails.
func RenderJSON(f view.Frame, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	doc := BuildDocument(f)
	doc.Style = r.style
	if !r.exited {
		doc.Exited = nil
	}
	if r.indent {
		return gojson.MarshalIndent(doc, "", "  ")
	}
	return gojson.Marshal(doc)
}

// ReadJSON decodes a document written by [RenderJSON].
func ReadJSON(data []byte) (Document, error) {
	var doc Document
	err := gojson.Unmarshal(data, &doc)
	return doc, err
}

// BuildDocument converts f without encoding it.
func BuildDocument(f view.Frame) Document {
	doc := Document{
		View:     f.View,
		Kind:     f.Kind.String(),
		Width:    f.Geometry.Width,
		Height:   f.Geometry.Height,
		Margins:  f.Geometry.Margins,
		Config:   f.Config,
		Revision: f.Revision,
		Preview:  f.Preview,
		Brush:    f.BrushState.String(),
		Selected: f.Selected,
		Total:    f.Total,
		Marks:    make([]Mark, 0, len(f.Elements)),
		Axes:     make([]Axis, 0, len(f.Axes)),
	}
	for _, e := range f.Elements {
		doc.Marks = append(doc.Marks, toMark(e))
	}
	for _, e := range f.Exited {
		doc.Exited = append(doc.Exited, toMark(e))
	}
	for _, a := range f.Axes {
		ja := Axis{
			Dim: a.Dim, Vertical: a.Orientation == view.Vertical, Offset: a.Offset,
			From: a.From, To: a.To, Inverted: a.Inverted,
			Ticks: make([]Tick, 0, len(a.Ticks)),
		}
		for _, t := range a.Ticks {
			ja.Ticks = append(ja.Ticks, Tick{Pos: t.Pos, Label: t.Label})
		}
		if a.Brush != nil {
			ja.Brush = &[2]float64{a.Brush.Lo, a.Brush.Hi}
		}
		doc.Axes = append(doc.Axes, ja)
	}
	if len(f.Legend) > 0 {
		doc.Legend = &Legend{Title: f.LegendTitle}
		for _, e := range f.Legend {
			doc.Legend.Entries = append(doc.Legend.Entries, Swatch{Label: e.Label, Color: encoding.Hex(e.Color)})
		}
	}
	if f.Rect != nil {
		doc.Rect = &Box{X: f.Rect.Min.X, Y: f.Rect.Min.Y, W: f.Rect.Width(), H: f.Rect.Height()}
	}
	return doc
}

func toMark(e reconcile.Element) Mark {
	m := Mark{
		ID:          uint32(e.ID),
		State:       e.State.String(),
		Fill:        encoding.Hex(e.Fill),
		Opacity:     e.Opacity,
		Highlighted: e.Highlighted,
		X:           e.Center.X,
		Y:           e.Center.Y,
		R:           e.Radius,
		Path:        pairs(e.Path),
	}
	if e.State != reconcile.Stable {
		m.From = &From{
			X: e.From.Center.X, Y: e.From.Center.Y, R: e.From.Radius,
			Path:    pairs(e.From.Path),
			Opacity: e.FromOpacity,
		}
	}
	return m
}

func pairs(path []reconcile.Point) [][2]float64 {
	if len(path) == 0 {
		return nil
	}
	out := make([][2]float64, len(path))
	for i, p := range path {
		out[i] = [2]float64{p.X, p.Y}
	}
	return out
}
