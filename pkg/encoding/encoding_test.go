package encoding

import (
	"image/color"
	"testing"

	"github.com/aclements/go-gg/palette"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/brushlink/pkg/dataset"
	"github.com/matzehuels/brushlink/pkg/dimension"
)

func build(t *testing.T, field string, cells ...string) *dataset.Dataset {
	t.Helper()
	b, err := dataset.NewBuilder([]string{field})
	require.NoError(t, err)
	for _, c := range cells {
		b.Add([]string{c})
	}
	return b.Build()
}

func TestCategoricalColor(t *testing.T) {
	dim := dimension.DefaultClassifier().Dimension("Seasons")
	ds := build(t, "Seasons", "Winter", "Spring", "Summer", "Autumn")
	c := ResolveColor(ds, dim)

	assert.Equal(t, Category10[0], c.Map(dataset.Text("Spring")))
	assert.Equal(t, Category10[3], c.Map(dataset.Text("Winter")))
	assert.Equal(t, MissingColor, c.Map(dataset.Missing()))
	assert.Equal(t, MissingColor, c.Map(dataset.Text("Monsoon")))

	legend := c.Legend()
	require.Len(t, legend, 4)
	assert.Equal(t, "Spring", legend[0].Label)
	assert.Equal(t, Category10[1], legend[1].Color)
}

func TestCategoricalPaletteCycles(t *testing.T) {
	var cells []string
	for i := 0; i < 12; i++ {
		cells = append(cells, string(rune('a'+i)))
	}
	ds := build(t, "c", cells...)
	c := ResolveColor(ds, dimension.Dimension{Name: "c", Kind: dimension.Categorical})
	assert.Equal(t, Category10[0], c.Map(dataset.Text("k")))
	assert.Equal(t, Category10[1], c.Map(dataset.Text("l")))
}

func TestContinuousColor(t *testing.T) {
	ds := build(t, "Humidity", "0", "50", "100", "")
	dim := dimension.Dimension{Name: "Humidity"}
	c := ResolveColor(ds, dim)

	assert.Equal(t, toRGBA(palette.Viridis.Map(0)), c.Map(dataset.Number(0)))
	assert.Equal(t, toRGBA(palette.Viridis.Map(1)), c.Map(dataset.Number(100)))
	assert.Equal(t, toRGBA(palette.Viridis.Map(1)), c.Map(dataset.Number(250)), "clamped above")
	assert.Equal(t, MissingColor, c.Map(dataset.Missing()))
	assert.Equal(t, MissingColor, c.Map(dataset.Text("humid")))

	legend := c.Legend()
	require.Len(t, legend, 5)
	assert.Equal(t, "0", legend[0].Label)
	assert.Equal(t, "100", legend[4].Label)
}

func TestContinuousColorDegenerate(t *testing.T) {
	ds := build(t, "Rainfall", "0", "0")
	c := ResolveColor(ds, dimension.Dimension{Name: "Rainfall"}, WithGradient("plasma"))
	g, _ := Gradient("plasma")
	assert.Equal(t, toRGBA(g.Map(0.5)), c.Map(dataset.Number(0)))
	assert.Len(t, c.Legend(), 1)
}

func TestWithGradientUnknownKeepsDefault(t *testing.T) {
	ds := build(t, "x", "1", "2")
	c := ResolveColor(ds, dimension.Dimension{Name: "x"}, WithGradient("rainbow"))
	assert.Equal(t, toRGBA(palette.Viridis.Map(0)), c.Map(dataset.Number(1)))
}

func TestGradientNames(t *testing.T) {
	for _, name := range GradientNames() {
		_, ok := Gradient(name)
		assert.True(t, ok, name)
	}
	_, ok := Gradient("TURBO")
	assert.True(t, ok)
}

func TestSize(t *testing.T) {
	ds := build(t, "Visibility", "0", "1000", "2000", "")
	s := ResolveSize(ds, dimension.Dimension{Name: "Visibility"})

	tests := []struct {
		in   dataset.Value
		want float64
	}{
		{dataset.Number(0), 2},
		{dataset.Number(1000), 4},
		{dataset.Number(2000), 6},
		{dataset.Number(5000), 6},
		{dataset.Number(-10), 2},
		{dataset.Missing(), 4},
		{dataset.Text("far"), 4},
	}
	for _, tt := range tests {
		if got := s.Map(tt.in); got != tt.want {
			t.Errorf("Map(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSizeCategorical(t *testing.T) {
	dim := dimension.DefaultClassifier().Dimension("FunctioningDay")
	ds := build(t, "FunctioningDay", "No", "Yes")
	s := ResolveSize(ds, dim, WithSizeRange(10, 1))

	lo, hi := s.Bounds()
	assert.Equal(t, 1.0, lo)
	assert.Equal(t, 10.0, hi)
	assert.Equal(t, 1.0, s.Map(dataset.Text("Yes")))
	assert.Equal(t, 10.0, s.Map(dataset.Text("No")))
	assert.Equal(t, 5.5, s.Map(dataset.Text("Maybe")))
}

func TestHex(t *testing.T) {
	assert.Equal(t, "#1f77b4", Hex(Category10[0]))

	c, err := ParseHex("#ff7f0e")
	require.NoError(t, err)
	assert.Equal(t, Category10[1], c)

	c, err = ParseHex("#fff")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0xff, 0xff, 0xff, 0xff}, c)

	_, err = ParseHex("red")
	assert.Error(t, err)
}
