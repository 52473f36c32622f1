package sink

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/matzehuels/brushlink/pkg/encoding"
	"github.com/matzehuels/brushlink/pkg/reconcile"
	"github.com/matzehuels/brushlink/pkg/render/styles"
	"github.com/matzehuels/brushlink/pkg/view"
)

const legendWidth = 90

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style    styles.Style
	duration float64
	title    string
	legend   bool
}

func WithStyle(s styles.Style) SVGOption { return func(r *svgRenderer) { r.style = s } }
func WithTitle(t string) SVGOption       { return func(r *svgRenderer) { r.title = t } }
func WithoutLegend() SVGOption           { return func(r *svgRenderer) { r.legend = false } }

// WithTransitions animates entering and updating marks over seconds.
func WithTransitions(seconds float64) SVGOption {
	return func(r *svgRenderer) { r.duration = seconds }
}

// RenderSVG draws f as a standalone SVG document.
func RenderSVG(f view.Frame, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	g := f.Geometry

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		g.Width, g.Height, g.Width, g.Height)
	fmt.Fprintf(&buf, "  <desc>%s %s revision %d: %d of %d selected</desc>\n",
		styles.EscapeXML(f.View), f.Kind, f.Revision, f.Selected, f.Total)

	r.style.RenderDefs(&buf)
	r.style.RenderBackground(&buf, g.Width, g.Height)
	if r.title != "" {
		fmt.Fprintf(&buf, `  <text class="title" x="%.2f" y="%.2f">%s</text>`+"\n", g.Left(), g.Top()/2+4, styles.EscapeXML(r.title))
	}

	for _, a := range buildAxes(f) {
		r.style.RenderAxis(&buf, a)
	}
	for _, m := range buildMarks(f.Elements, r.duration) {
		r.style.RenderMark(&buf, m)
	}
	for _, b := range buildBrushes(f) {
		r.style.RenderBrush(&buf, b)
	}
	if r.legend && len(f.Legend) > 0 {
		r.style.RenderLegend(&buf, buildLegend(f))
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{style: styles.Simple{}, legend: true}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// buildMarks draws highlighted marks last, keeping scene order otherwise.
func buildMarks(elems []reconcile.Element, duration float64) []styles.Mark {
	marks := make([]styles.Mark, 0, len(elems))
	var top []styles.Mark
	for _, e := range elems {
		m := styles.Mark{
			ID:          strconv.FormatUint(uint64(e.ID), 10),
			Fill:        encoding.Hex(e.Fill),
			Opacity:     e.Opacity,
			Highlighted: e.Highlighted,
			CX:          e.Center.X,
			CY:          e.Center.Y,
			R:           e.Radius,
			Path:        toPoints(e.Path),
		}
		if duration > 0 && e.State != reconcile.Stable {
			m.Animate = &styles.Transition{
				CX: e.From.Center.X, CY: e.From.Center.Y, R: e.From.Radius,
				Path:     toPoints(e.From.Path),
				Opacity:  e.FromOpacity,
				Duration: duration,
			}
		}
		if e.Highlighted {
			top = append(top, m)
			continue
		}
		marks = append(marks, m)
	}
	return append(marks, top...)
}

func toPoints(path []reconcile.Point) []styles.Point {
	if len(path) == 0 {
		return nil
	}
	out := make([]styles.Point, len(path))
	for i, p := range path {
		out[i] = styles.Point{X: p.X, Y: p.Y}
	}
	return out
}

func buildAxes(f view.Frame) []styles.Axis {
	axes := make([]styles.Axis, 0, len(f.Axes))
	for _, a := range f.Axes {
		sa := styles.Axis{Title: a.Dim, Vertical: a.Orientation == view.Vertical}
		if sa.Vertical {
			sa.X1, sa.Y1, sa.X2, sa.Y2 = a.Offset, a.From, a.Offset, a.To
		} else {
			sa.X1, sa.Y1, sa.X2, sa.Y2 = a.From, a.Offset, a.To, a.Offset
		}
		for _, t := range a.Ticks {
			st := styles.Tick{Label: t.Label, X: t.Pos, Y: a.Offset}
			if sa.Vertical {
				st.X, st.Y = a.Offset, t.Pos
			}
			sa.Ticks = append(sa.Ticks, st)
		}
		axes = append(axes, sa)
	}
	return axes
}

const axisBrushWidth = 16

func buildBrushes(f view.Frame) []styles.Brush {
	var out []styles.Brush
	if f.Rect != nil {
		out = append(out, styles.Brush{X: f.Rect.Min.X, Y: f.Rect.Min.Y, W: f.Rect.Width(), H: f.Rect.Height()})
	}
	for _, a := range f.Axes {
		if a.Brush == nil {
			continue
		}
		out = append(out, styles.Brush{X: a.Offset - axisBrushWidth/2, Y: a.Brush.Lo, W: axisBrushWidth, H: a.Brush.Hi - a.Brush.Lo})
	}
	return out
}

func buildLegend(f view.Frame) styles.Legend {
	l := styles.Legend{
		Title: f.LegendTitle,
		X:     f.Geometry.Width - legendWidth,
		Y:     f.Geometry.Top(),
	}
	for _, e := range f.Legend {
		l.Entries = append(l.Entries, styles.Swatch{Label: e.Label, Color: encoding.Hex(e.Color)})
	}
	return l
}
