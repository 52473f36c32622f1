package encoding

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/aclements/go-gg/palette"

	"github.com/matzehuels/brushlink/pkg/dataset"
	"github.com/matzehuels/brushlink/pkg/dimension"
	"github.com/matzehuels/brushlink/pkg/scale"
)

// MissingColor is used for values that cannot be encoded.
var MissingColor = color.RGBA{R: 0xbb, G: 0xbb, B: 0xbb, A: 0xff}

// Category10 is the categorical palette.
var Category10 = []color.RGBA{
	{0x1f, 0x77, 0xb4, 0xff},
	{0xff, 0x7f, 0x0e, 0xff},
	{0x2c, 0xa0, 0x2c, 0xff},
	{0xd6, 0x27, 0x28, 0xff},
	{0x94, 0x67, 0xbd, 0xff},
	{0x8c, 0x56, 0x4b, 0xff},
	{0xe3, 0x77, 0xc2, 0xff},
	{0x7f, 0x7f, 0x7f, 0xff},
	{0xbc, 0xbd, 0x22, 0xff},
	{0x17, 0xbe, 0xcf, 0xff},
}

var gradients = map[string]palette.Continuous{
	"viridis": palette.Viridis,
	"plasma": palette.RGBGradient{Colors: []color.RGBA{
		{0x0d, 0x08, 0x87, 0xff},
		{0x7e, 0x03, 0xa8, 0xff},
		{0xcc, 0x47, 0x78, 0xff},
		{0xf8, 0x95, 0x40, 0xff},
		{0xf0, 0xf9, 0x21, 0xff},
	}},
	"turbo": palette.RGBGradient{Colors: []color.RGBA{
		{0x30, 0x12, 0x3b, 0xff},
		{0x41, 0x45, 0xab, 0xff},
		{0x46, 0x75, 0xed, 0xff},
		{0x39, 0xa2, 0xfc, 0xff},
		{0x1b, 0xcf, 0xd4, 0xff},
		{0x24, 0xec, 0xa6, 0xff},
		{0x61, 0xfc, 0x6c, 0xff},
		{0xa4, 0xfc, 0x3b, 0xff},
		{0xd1, 0xe8, 0x34, 0xff},
		{0xf3, 0xc6, 0x3a, 0xff},
		{0xfe, 0x9b, 0x2d, 0xff},
		{0xf3, 0x63, 0x15, 0xff},
		{0xd9, 0x38, 0x06, 0xff},
		{0xb1, 0x19, 0x01, 0xff},
		{0x7a, 0x04, 0x02, 0xff},
	}},
}

// Gradient returns the named continuous palette.
func Gradient(name string) (palette.Continuous, bool) {
	g, ok := gradients[strings.ToLower(name)]
	return g, ok
}

// GradientNames lists the accepted gradient names.
func GradientNames() []string { return []string{"plasma", "turbo", "viridis"} }

// ColorOption configures ResolveColor.
type ColorOption func(*colorConfig)

type colorConfig struct {
	gradient   palette.Continuous
	categories []color.RGBA
	missing    color.RGBA
	budget     int
}

// WithGradient selects a continuous palette by name. Unknown names keep
// the default.
func WithGradient(name string) ColorOption {
	return func(c *colorConfig) {
		if g, ok := Gradient(name); ok {
			c.gradient = g
		}
	}
}

// WithPalette replaces the categorical palette.
func WithPalette(p []color.RGBA) ColorOption {
	return func(c *colorConfig) {
		if len(p) > 0 {
			c.categories = p
		}
	}
}

// WithMissingColor replaces MissingColor.
func WithMissingColor(col color.RGBA) ColorOption {
	return func(c *colorConfig) { c.missing = col }
}

// ColorScale maps values of one dimension to colors.
type ColorScale struct {
	dim  dimension.Dimension
	cfg  colorConfig
	cats []dataset.Value
	idx  map[string]int

	min, max float64
	hasRange bool
}

// LegendEntry is one swatch of a color legend.
type LegendEntry struct {
	Label string
	Color color.RGBA
}

// ResolveColor builds the color scale of dim over the records of ds.
func ResolveColor(ds *dataset.Dataset, dim dimension.Dimension, opts ...ColorOption) *ColorScale {
	cfg := colorConfig{
		gradient:   palette.Viridis,
		categories: Category10,
		missing:    MissingColor,
		budget:     5,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	c := &ColorScale{dim: dim, cfg: cfg}
	vals := ds.Column(dim.Name)
	if dim.Kind == dimension.Categorical {
		c.cats = dim.Order.Sort(vals)
		c.idx = make(map[string]int, len(c.cats))
		for i, v := range c.cats {
			c.idx[v.String()] = i
		}
		return c
	}
	c.min, c.max, c.hasRange = scale.Extent(vals)
	return c
}

// Dimension returns the encoded dimension.
func (c *ColorScale) Dimension() dimension.Dimension { return c.dim }

// Map returns the color of v.
func (c *ColorScale) Map(v dataset.Value) color.RGBA {
	if v.IsMissing() {
		return c.cfg.missing
	}
	if c.dim.Kind == dimension.Categorical {
		i, ok := c.idx[v.String()]
		if !ok {
			return c.cfg.missing
		}
		return c.cfg.categories[i%len(c.cfg.categories)]
	}
	f, ok := v.Float()
	if !ok || !c.hasRange {
		return c.cfg.missing
	}
	return c.at(f)
}

func (c *ColorScale) at(f float64) color.RGBA {
	t := 0.5
	if c.max > c.min {
		t = math.Max(0, math.Min(1, (f-c.min)/(c.max-c.min)))
	}
	return toRGBA(c.cfg.gradient.Map(t))
}

// Legend returns the swatches to draw: every category for categorical
// dimensions, evenly spaced stops for continuous ones.
func (c *ColorScale) Legend() []LegendEntry {
	if c.dim.Kind == dimension.Categorical {
		out := make([]LegendEntry, len(c.cats))
		for i, v := range c.cats {
			out[i] = LegendEntry{Label: v.String(), Color: c.cfg.categories[i%len(c.cfg.categories)]}
		}
		return out
	}
	if !c.hasRange {
		return nil
	}
	if c.max == c.min {
		return []LegendEntry{{Label: formatNumber(c.min), Color: c.at(c.min)}}
	}
	n := c.cfg.budget
	out := make([]LegendEntry, n)
	for i := range out {
		f := c.min + (c.max-c.min)*float64(i)/float64(n-1)
		out[i] = LegendEntry{Label: formatNumber(f), Color: c.at(f)}
	}
	return out
}

func toRGBA(col color.Color) color.RGBA {
	return color.RGBAModel.Convert(col).(color.RGBA)
}

func formatNumber(f float64) string {
	return fmt.Sprintf("%.4g", f)
}

// Hex formats a color as #rrggbb.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseHex parses #rgb or #rrggbb.
func ParseHex(s string) (color.RGBA, error) {
	c := color.RGBA{A: 0xff}
	var err error
	switch len(s) {
	case 7:
		_, err = fmt.Sscanf(s, "#%2x%2x%2x", &c.R, &c.G, &c.B)
	case 4:
		_, err = fmt.Sscanf(s, "#%1x%1x%1x", &c.R, &c.G, &c.B)
		c.R *= 17
		c.G *= 17
		c.B *= 17
	default:
		err = fmt.Errorf("invalid color %q", s)
	}
	return c, err
}
