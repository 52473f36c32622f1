package topology

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/brushlink/pkg/dashboard"
	"github.com/matzehuels/brushlink/pkg/dimension"
	"github.com/matzehuels/brushlink/pkg/view"
)

func TestFromDashboard(t *testing.T) {
	d, err := dashboard.New()
	if err != nil {
		t.Fatalf("dashboard.New() error: %v", err)
	}
	defer d.Close()

	g := FromDashboard(d)
	if len(g.Views) != 2 {
		t.Fatalf("Views = %d, want 2", len(g.Views))
	}
	sc := g.Views[0]
	if sc.Name != "scatter" || sc.Kind != view.Scatterplot {
		t.Errorf("Views[0] = %s/%v, want scatter", sc.Name, sc.Kind)
	}
	if got := sc.Channels[0]; got != (Channel{Name: "x", Dim: "Temperature"}) {
		t.Errorf("scatter first channel = %+v", got)
	}

	var names []string
	for _, dim := range g.Dimensions {
		names = append(names, dim.Name)
	}
	want := "Humidity,RentedBikeCount,SolarRadiation,Temperature,Visibility,WindSpeed"
	if got := strings.Join(names, ","); got != want {
		t.Errorf("Dimensions = %s, want %s", got, want)
	}
}

func TestToDOT(t *testing.T) {
	c := dimension.DefaultClassifier()
	g := Graph{
		Views:      []View{{Name: "scatter", Kind: view.Scatterplot, Channels: []Channel{{"x", "Hour"}, {"color", "Seasons"}}}},
		Dimensions: []dimension.Dimension{c.Dimension("Hour"), c.Dimension("Seasons")},
		Selected:   3,
		Origin:     "scatter",
	}
	dot := ToDOT(g, Options{Detailed: true})

	for _, want := range []string{
		`"view:scatter" -> "store" [label="commit"]`,
		`"store" -> "view:scatter" [label="notify", style=dashed]`,
		`"view:scatter" -> "dim:Seasons" [label="color", color=grey]`,
		`Spring < Summer < Autumn < Winter`,
		`3 selected`,
		`shape=note`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %s\n%s", want, dot)
		}
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG("digraph G { a -> b; }")
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !bytes.Contains(svg, []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0`)) {
		t.Errorf("RenderSVG() root not normalized: %.200s", svg)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="116pt" viewBox="0.00 0.00 62.00 116.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 116.00" width="62" height="116"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s, want %s", got, want)
	}
}
