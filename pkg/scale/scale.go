package scale

import (
	"fmt"
	"math"

	mscale "github.com/aclements/go-moremath/scale"

	"github.com/matzehuels/brushlink/pkg/dataset"
	"github.com/matzehuels/brushlink/pkg/dimension"
)

// Range is a pair of screen positions. Lo is where the smallest domain
// value lands; it may be greater than Hi.
type Range struct {
	Lo, Hi float64
}

// Span returns Hi-Lo.
func (r Range) Span() float64 { return r.Hi - r.Lo }

// Mid returns the middle of the range.
func (r Range) Mid() float64 { return (r.Lo + r.Hi) / 2 }

// Min returns the smaller end.
func (r Range) Min() float64 { return math.Min(r.Lo, r.Hi) }

// Max returns the larger end.
func (r Range) Max() float64 { return math.Max(r.Lo, r.Hi) }

// Contains reports whether pos lies between the ends, inclusive.
func (r Range) Contains(pos float64) bool {
	return pos >= r.Min() && pos <= r.Max()
}

// Reverse swaps the ends.
func (r Range) Reverse() Range { return Range{Lo: r.Hi, Hi: r.Lo} }

// Tick is a labelled axis position.
type Tick struct {
	Pos   float64
	Label string
}

// Scale maps the values of one dimension onto a range.
type Scale struct {
	dim        dimension.Dimension
	rng        Range
	inverted   bool
	generation uint64
	ticks      []Tick

	// continuous
	lin        mscale.Linear
	empty      bool
	degenerate bool

	// categorical
	cats  []dataset.Value
	index map[string]int
	step  float64
	start float64
}

// Dimension returns the dimension the scale was built for.
func (s *Scale) Dimension() dimension.Dimension { return s.dim }

// Kind returns the dimension kind.
func (s *Scale) Kind() dimension.Kind { return s.dim.Kind }

// Range returns the output range with inversion applied.
func (s *Scale) Range() Range { return s.rng }

// Inverted reports whether the range ends were swapped.
func (s *Scale) Inverted() bool { return s.inverted }

// Generation returns the generation of the dataset the scale was built from.
func (s *Scale) Generation() uint64 { return s.generation }

// Domain returns the continuous extent. ok is false for categorical scales
// and for continuous scales without any numeric value.
func (s *Scale) Domain() (min, max float64, ok bool) {
	if s.dim.Kind != dimension.Continuous || s.empty {
		return 0, 0, false
	}
	return s.lin.Min, s.lin.Max, true
}

// Categories returns the ordered categorical domain.
func (s *Scale) Categories() []dataset.Value {
	out := make([]dataset.Value, len(s.cats))
	copy(out, s.cats)
	return out
}

// Step returns the distance between adjacent categories, or zero for
// continuous scales.
func (s *Scale) Step() float64 { return s.step }

// Ticks returns the labelled positions for drawing the axis.
func (s *Scale) Ticks() []Tick {
	out := make([]Tick, len(s.ticks))
	copy(out, s.ticks)
	return out
}

// Contains reports whether pos lies inside the output range.
func (s *Scale) Contains(pos float64) bool { return s.rng.Contains(pos) }

// Map returns the position of v. ok is false when v cannot be placed.
func (s *Scale) Map(v dataset.Value) (pos float64, ok bool) {
	if v.IsMissing() {
		return 0, false
	}
	if s.dim.Kind == dimension.Categorical {
		i, ok := s.index[v.String()]
		if !ok {
			return 0, false
		}
		return s.start + s.step*float64(i), true
	}
	f, ok := v.Float()
	if !ok {
		return 0, false
	}
	return s.MapFloat(f), true
}

// MapFloat places a raw number on a continuous scale. Values outside the
// domain extrapolate linearly.
func (s *Scale) MapFloat(f float64) float64 {
	if s.empty || s.degenerate {
		return s.rng.Mid()
	}
	return s.rng.Lo + s.lin.Map(f)*s.rng.Span()
}

func (s *Scale) String() string {
	if s.dim.Kind == dimension.Categorical {
		return fmt.Sprintf("point %s %d categories => [%g,%g]", s.dim.Name, len(s.cats), s.rng.Lo, s.rng.Hi)
	}
	return fmt.Sprintf("linear %s [%g,%g] => [%g,%g]", s.dim.Name, s.lin.Min, s.lin.Max, s.rng.Lo, s.rng.Hi)
}

// Points returns n evenly spaced positions across rng with the given outer
// padding, measured in steps. A single point sits in the middle.
func Points(n int, rng Range, padding float64) (positions []float64, step float64) {
	if n <= 0 {
		return nil, 0
	}
	step = rng.Span() / math.Max(1, float64(n-1)+2*padding)
	start := rng.Lo + (rng.Span()-step*float64(n-1))/2
	positions = make([]float64, n)
	for i := range positions {
		positions[i] = start + step*float64(i)
	}
	return positions, step
}

// Extent returns the smallest and largest numeric value in vals, skipping
// everything that is not a number.
func Extent(vals []dataset.Value) (min, max float64, ok bool) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, v := range vals {
		f, isNum := v.Float()
		if !isNum {
			continue
		}
		ok = true
		min = math.Min(min, f)
		max = math.Max(max, f)
	}
	if !ok {
		return 0, 0, false
	}
	return min, max, true
}
