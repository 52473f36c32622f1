package styles

import (
	"bytes"
	"fmt"
)

// Simple is a clean light style.
type Simple struct {
	Background string
	Ink        string
	Muted      string
	BrushFill  string
	FontFamily string
	FontSize   float64
}

func (Simple) Name() string { return "simple" }

type dark struct{ Simple }

func (dark) Name() string { return "dark" }

// Dark returns Simple with a dark palette.
func Dark() Style {
	return dark{Simple{
		Background: "#1e1e24",
		Ink:        "#e6e6e6",
		Muted:      "#8a8a94",
		BrushFill:  "#ffffff",
	}}
}

func (s Simple) or(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func (s Simple) fontSize() float64 {
	if s.FontSize <= 0 {
		return 11
	}
	return s.FontSize
}

func (s Simple) RenderDefs(buf *bytes.Buffer) {
	fmt.Fprintf(buf, `  <style>
    text { font-family: %s; font-size: %.0fpx; fill: %s; }
    .axis line, .axis path { stroke: %s; stroke-width: 1; }
    .axis .title { font-weight: bold; }
    .mark.highlight { stroke: %s; stroke-width: 0.5; }
    .brush { fill: %s; fill-opacity: 0.12; stroke: %s; stroke-dasharray: 4 2; }
  </style>
`, s.or(s.FontFamily, "Helvetica, Arial, sans-serif"), s.fontSize(), s.or(s.Ink, "#222222"),
		s.or(s.Muted, "#888888"), s.or(s.Ink, "#222222"), s.or(s.BrushFill, "#4682b4"), s.or(s.Muted, "#888888"))
}

func (s Simple) RenderBackground(buf *bytes.Buffer, w, h float64) {
	fmt.Fprintf(buf, `  <rect class="background" x="0" y="0" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
		w, h, s.or(s.Background, "#ffffff"))
}

func (s Simple) RenderMark(buf *bytes.Buffer, m Mark) {
	class := "mark"
	if m.Highlighted {
		class += " highlight"
	}
	if len(m.Path) == 0 {
		fmt.Fprintf(buf, `  <circle id="mark-%s" class="%s" cx="%.2f" cy="%.2f" r="%.2f" fill="%s" fill-opacity="%.3g">`,
			m.ID, class, m.CX, m.CY, m.R, m.Fill, m.Opacity)
		if a := m.Animate; a != nil {
			animate(buf, "cx", a.CX, m.CX, a.Duration)
			animate(buf, "cy", a.CY, m.CY, a.Duration)
			animate(buf, "fill-opacity", a.Opacity, m.Opacity, a.Duration)
		}
		buf.WriteString("</circle>\n")
		return
	}
	fmt.Fprintf(buf, `  <path id="mark-%s" class="%s" d="%s" fill="none" stroke="%s" stroke-opacity="%.3g">`,
		m.ID, class, PathData(m.Path), m.Fill, m.Opacity)
	if a := m.Animate; a != nil && len(a.Path) == len(m.Path) {
		fmt.Fprintf(buf, `<animate attributeName="d" from="%s" to="%s" dur="%.2fs"/>`, PathData(a.Path), PathData(m.Path), a.Duration)
		animate(buf, "stroke-opacity", a.Opacity, m.Opacity, a.Duration)
	}
	buf.WriteString("</path>\n")
}

func animate(buf *bytes.Buffer, attr string, from, to, dur float64) {
	if from == to {
		return
	}
	fmt.Fprintf(buf, `<animate attributeName="%s" from="%.3g" to="%.3g" dur="%.2fs"/>`, attr, from, to, dur)
}

func (s Simple) RenderAxis(buf *bytes.Buffer, a Axis) {
	fs := s.fontSize()
	buf.WriteString(`  <g class="axis">` + "\n")
	fmt.Fprintf(buf, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/>`+"\n", a.X1, a.Y1, a.X2, a.Y2)
	for _, t := range a.Ticks {
		label := EscapeXML(t.Label)
		if a.Vertical {
			fmt.Fprintf(buf, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/><text x="%.2f" y="%.2f" text-anchor="end" dominant-baseline="middle">%s</text>`+"\n",
				t.X-4, t.Y, t.X, t.Y, t.X-6, t.Y, label)
		} else {
			fmt.Fprintf(buf, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/><text x="%.2f" y="%.2f" text-anchor="middle">%s</text>`+"\n",
				t.X, t.Y, t.X, t.Y+4, t.X, t.Y+4+fs, label)
		}
	}
	if a.Title != "" {
		title := EscapeXML(TruncateLabel(a.Title, 160, fs))
		if a.Vertical {
			fmt.Fprintf(buf, `    <text class="title" x="%.2f" y="%.2f" text-anchor="middle">%s</text>`+"\n", a.X1, min(a.Y1, a.Y2)-8, title)
		} else {
			fmt.Fprintf(buf, `    <text class="title" x="%.2f" y="%.2f" text-anchor="end">%s</text>`+"\n", max(a.X1, a.X2), a.Y1+2*fs+8, title)
		}
	}
	buf.WriteString("  </g>\n")
}

func (s Simple) RenderBrush(buf *bytes.Buffer, b Brush) {
	fmt.Fprintf(buf, `  <rect class="brush" x="%.2f" y="%.2f" width="%.2f" height="%.2f"/>`+"\n", b.X, b.Y, b.W, b.H)
}

func (s Simple) RenderLegend(buf *bytes.Buffer, l Legend) {
	if len(l.Entries) == 0 {
		return
	}
	fs := s.fontSize()
	row := fs + 4
	buf.WriteString(`  <g class="legend">` + "\n")
	if l.Title != "" {
		fmt.Fprintf(buf, `    <text class="title" x="%.2f" y="%.2f">%s</text>`+"\n", l.X, l.Y, EscapeXML(l.Title))
	}
	for i, e := range l.Entries {
		y := l.Y + float64(i+1)*row
		fmt.Fprintf(buf, `    <rect x="%.2f" y="%.2f" width="%.0f" height="%.0f" fill="%s"/><text x="%.2f" y="%.2f" dominant-baseline="middle">%s</text>`+"\n",
			l.X, y-fs/2, fs, fs, e.Color, l.X+fs+4, y, EscapeXML(e.Label))
	}
	buf.WriteString("  </g>\n")
}
