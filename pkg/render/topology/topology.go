package topology

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/brushlink/pkg/dashboard"
	"github.com/matzehuels/brushlink/pkg/dimension"
	"github.com/matzehuels/brushlink/pkg/view"
)

// Graph is the wiring of a dashboard.
type Graph struct {
	Views      []View
	Dimensions []dimension.Dimension
	// Selected is the size of the committed selection.
	Selected int
	// Origin is the view that made the last commit.
	Origin string
}

// View is one view and the channels it encodes.
type View struct {
	Name     string
	Kind     view.Kind
	Channels []Channel
}

// Channel links a view to a dimension.
type Channel struct {
	Name string // x, y, color, size, or axis<N>
	Dim  string
}

// Options configures diagram generation.
type Options struct {
	// Detailed adds kind and categorical order to dimension labels.
	Detailed bool
}

// FromDashboard reads the wiring of d.
func FromDashboard(d *dashboard.Dashboard) Graph {
	g := Graph{Selected: d.Selection().Len(), Origin: d.Store().Origin()}
	used := make(map[string]bool)
	for _, v := range d.Views() {
		tv := View{Name: v.Name(), Kind: v.Kind(), Channels: channels(v.Kind(), v.Config())}
		for _, c := range tv.Channels {
			used[c.Dim] = true
		}
		g.Views = append(g.Views, tv)
	}

	names := make([]string, 0, len(used))
	for n := range used {
		names = append(names, n)
	}
	slices.Sort(names)
	for _, n := range names {
		dim, ok := d.Schema().Lookup(n)
		if !ok {
			dim = d.Classifier().Dimension(n)
		}
		g.Dimensions = append(g.Dimensions, dim)
	}
	return g
}

func channels(k view.Kind, c view.AxisConfig) []Channel {
	var out []Channel
	if k == view.ParallelCoordinates {
		for i, a := range c.Axes {
			out = append(out, Channel{Name: "axis" + strconv.Itoa(i+1), Dim: a.Dim})
		}
	} else {
		out = append(out, Channel{Name: "x", Dim: c.X.Dim}, Channel{Name: "y", Dim: c.Y.Dim})
		if c.Size != "" {
			out = append(out, Channel{Name: "size", Dim: c.Size})
		}
	}
	if c.Color != "" {
		out = append(out, Channel{Name: "color", Dim: c.Color})
	}
	return out
}

// ToDOT converts g to Graphviz DOT source.
func ToDOT(g Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	storeLabel := fmt.Sprintf("selection store\n%d selected", g.Selected)
	if g.Origin != "" {
		storeLabel += "\nlast commit: " + g.Origin
	}
	fmt.Fprintf(&buf, "  %q [label=%q, shape=cylinder, fillcolor=lightyellow];\n", "store", storeLabel)

	for _, v := range g.Views {
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=lightblue];\n", viewID(v.Name), v.Name+"\n"+v.Kind.String())
	}
	for _, d := range g.Dimensions {
		attrs := []string{fmt.Sprintf("label=%q", dimLabel(d, opts.Detailed))}
		if d.IsCategorical() {
			attrs = append(attrs, "shape=note")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", dimID(d.Name), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, v := range g.Views {
		fmt.Fprintf(&buf, "  %q -> %q [label=\"commit\"];\n", viewID(v.Name), "store")
		fmt.Fprintf(&buf, "  %q -> %q [label=\"notify\", style=dashed];\n", "store", viewID(v.Name))
		for _, c := range v.Channels {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q, color=grey];\n", viewID(v.Name), dimID(c.Dim), c.Name)
		}
	}
	buf.WriteString("}\n")
	return buf.String()
}

func viewID(name string) string { return "view:" + name }
func dimID(name string) string  { return "dim:" + name }

func dimLabel(d dimension.Dimension, detailed bool) string {
	if !detailed {
		return d.Name
	}
	label := d.Name + "\n" + d.Kind.String()
	if d.IsCategorical() && d.Order.IsFixed() {
		label += "\n" + strings.Join(d.Order.Sequence(), " < ")
	}
	return label
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with one sized
// in user units so the SVG converts cleanly.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
