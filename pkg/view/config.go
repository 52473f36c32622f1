package view

import (
	"fmt"
	"strings"

	"github.com/matzehuels/brushlink/pkg/dimension"
	brerrors "github.com/matzehuels/brushlink/pkg/errors"
)

// Kind selects the chart a view draws.
type Kind uint8

const (
	Scatterplot Kind = iota
	ParallelCoordinates
)

func (k Kind) String() string {
	if k == ParallelCoordinates {
		return "parallel"
	}
	return "scatter"
}

// ParseKind accepts "scatter"/"scatterplot" and "parallel"/"pcp".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "scatter", "scatterplot":
		return Scatterplot, nil
	case "parallel", "pcp", "parallel-coordinates":
		return ParallelCoordinates, nil
	}
	return 0, brerrors.New(brerrors.ErrCodeInvalidView, "unknown view kind %q", s)
}

// Axis binds a dimension to a positional channel.
type Axis struct {
	Dim    string `json:"dim" toml:"dim" yaml:"dim"`
	Invert bool   `json:"invert,omitempty" toml:"invert,omitempty" yaml:"invert,omitempty"`
}

// AxisConfig is the channel assignment of a view. Scatterplots use X, Y,
// Color and Size; parallel coordinates use Axes and Color.
type AxisConfig struct {
	X     Axis   `json:"x" toml:"x" yaml:"x"`
	Y     Axis   `json:"y" toml:"y" yaml:"y"`
	Color string `json:"color,omitempty" toml:"color,omitempty" yaml:"color,omitempty"`
	Size  string `json:"size,omitempty" toml:"size,omitempty" yaml:"size,omitempty"`
	Axes  []Axis `json:"axes,omitempty" toml:"axes,omitempty" yaml:"axes,omitempty"`
}

// DefaultConfig returns the channel assignment used for the Seoul bike
// data.
func DefaultConfig(k Kind) AxisConfig {
	if k == ParallelCoordinates {
		return AxisConfig{
			Axes: []Axis{
				{Dim: "RentedBikeCount"},
				{Dim: "Temperature"},
				{Dim: "SolarRadiation", Invert: true},
			},
			Color: "Humidity",
		}
	}
	return AxisConfig{
		X:     Axis{Dim: "Temperature"},
		Y:     Axis{Dim: "RentedBikeCount"},
		Color: "WindSpeed",
		Size:  "Visibility",
	}
}

// Dimensions lists every dimension the config refers to, in channel order.
func (c AxisConfig) Dimensions(k Kind) []string {
	var dims []string
	if k == ParallelCoordinates {
		for _, a := range c.Axes {
			dims = append(dims, a.Dim)
		}
	} else {
		dims = append(dims, c.X.Dim, c.Y.Dim)
		if c.Size != "" {
			dims = append(dims, c.Size)
		}
	}
	if c.Color != "" {
		dims = append(dims, c.Color)
	}
	return dims
}

// Validate checks that the config is complete for kind k and, when schema
// is non-nil, that every dimension exists.
func (c AxisConfig) Validate(k Kind, schema *dimension.Schema) error {
	if k == ParallelCoordinates {
		if len(c.Axes) == 0 {
			return brerrors.New(brerrors.ErrCodeInvalidConfig, "parallel coordinates need at least one axis")
		}
		seen := make(map[string]bool, len(c.Axes))
		for _, a := range c.Axes {
			if seen[a.Dim] {
				return brerrors.New(brerrors.ErrCodeInvalidConfig, "axis %q appears twice", a.Dim)
			}
			seen[a.Dim] = true
		}
	} else if c.X.Dim == "" || c.Y.Dim == "" {
		return brerrors.New(brerrors.ErrCodeInvalidConfig, "scatterplot needs x and y dimensions")
	}

	for _, d := range c.Dimensions(k) {
		if err := brerrors.ValidateFieldName(d); err != nil {
			return err
		}
		if schema == nil {
			continue
		}
		if _, ok := schema.Lookup(d); !ok {
			return brerrors.New(brerrors.ErrCodeInvalidDimension, "unknown dimension %q", d)
		}
	}
	return nil
}

// Set applies one key=value assignment as used by interaction scripts:
// x, y, color, size, invert-x, invert-y, and axes (comma separated, a
// leading '-' inverts an axis).
func (c *AxisConfig) Set(key, value string) error {
	switch strings.ToLower(key) {
	case "x":
		c.X.Dim = value
	case "y":
		c.Y.Dim = value
	case "color":
		c.Color = value
	case "size":
		c.Size = value
	case "invert-x":
		c.X.Invert = value == "true" || value == "1"
	case "invert-y":
		c.Y.Invert = value == "true" || value == "1"
	case "axes":
		c.Axes = c.Axes[:0]
		for _, f := range strings.Split(value, ",") {
			f = strings.TrimSpace(f)
			if f == "" {
				continue
			}
			a := Axis{Dim: strings.TrimPrefix(f, "-"), Invert: strings.HasPrefix(f, "-")}
			c.Axes = append(c.Axes, a)
		}
	default:
		return brerrors.New(brerrors.ErrCodeInvalidConfig, "unknown config key %q", key)
	}
	return nil
}

func (c AxisConfig) String() string {
	var b strings.Builder
	if len(c.Axes) > 0 {
		b.WriteString("axes=")
		for i, a := range c.Axes {
			if i > 0 {
				b.WriteByte(',')
			}
			if a.Invert {
				b.WriteByte('-')
			}
			b.WriteString(a.Dim)
		}
	} else {
		fmt.Fprintf(&b, "x=%s y=%s", c.X.Dim, c.Y.Dim)
		if c.Size != "" {
			fmt.Fprintf(&b, " size=%s", c.Size)
		}
	}
	if c.Color != "" {
		fmt.Fprintf(&b, " color=%s", c.Color)
	}
	return b.String()
}

// Margins around the plot area.
type Margins struct {
	Top    float64 `json:"top" toml:"top" yaml:"top"`
	Right  float64 `json:"right" toml:"right" yaml:"right"`
	Bottom float64 `json:"bottom" toml:"bottom" yaml:"bottom"`
	Left   float64 `json:"left" toml:"left" yaml:"left"`
}

// Geometry is the size of the host container.
type Geometry struct {
	Width   float64 `json:"width" toml:"width" yaml:"width"`
	Height  float64 `json:"height" toml:"height" yaml:"height"`
	Margins Margins `json:"margins" toml:"margins" yaml:"margins"`
}

// DefaultGeometry returns the container size and margins of each chart.
func DefaultGeometry(k Kind) Geometry {
	if k == ParallelCoordinates {
		return Geometry{Width: 800, Height: 500, Margins: Margins{Top: 30, Right: 40, Bottom: 10, Left: 40}}
	}
	return Geometry{Width: 800, Height: 500, Margins: Margins{Top: 40, Right: 40, Bottom: 40, Left: 85}}
}

// Left returns the x of the plot area's left edge.
func (g Geometry) Left() float64 { return g.Margins.Left }

// Right returns the x of the plot area's right edge.
func (g Geometry) Right() float64 { return g.Width - g.Margins.Right }

// Top returns the y of the plot area's top edge.
func (g Geometry) Top() float64 { return g.Margins.Top }

// Bottom returns the y of the plot area's bottom edge.
func (g Geometry) Bottom() float64 { return g.Height - g.Margins.Bottom }

// InnerWidth returns the plot area width, never negative.
func (g Geometry) InnerWidth() float64 { return max(0, g.Right()-g.Left()) }

// InnerHeight returns the plot area height, never negative.
func (g Geometry) InnerHeight() float64 { return max(0, g.Bottom()-g.Top()) }

// Validate rejects non-positive sizes.
func (g Geometry) Validate() error {
	if g.Width <= 0 || g.Height <= 0 {
		return brerrors.New(brerrors.ErrCodeInvalidConfig, "view size must be positive, got %gx%g", g.Width, g.Height)
	}
	return nil
}
