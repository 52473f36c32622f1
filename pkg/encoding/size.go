package encoding

import (
	"math"

	"github.com/matzehuels/brushlink/pkg/dataset"
	"github.com/matzehuels/brushlink/pkg/dimension"
	"github.com/matzehuels/brushlink/pkg/scale"
)

// Default radius range.
const (
	DefaultMinSize = 2.0
	DefaultMaxSize = 6.0
)

// SizeOption configures ResolveSize.
type SizeOption func(*SizeScale)

// WithSizeRange sets the radius range. Reversed bounds are swapped.
func WithSizeRange(min, max float64) SizeOption {
	return func(s *SizeScale) {
		if min > max {
			min, max = max, min
		}
		s.lo, s.hi = min, max
	}
}

// SizeScale maps values of one dimension to a radius.
type SizeScale struct {
	dim    dimension.Dimension
	lo, hi float64

	idx map[string]int
	n   int

	min, max float64
	hasRange bool
}

// ResolveSize builds the size scale of dim over the records of ds.
func ResolveSize(ds *dataset.Dataset, dim dimension.Dimension, opts ...SizeOption) *SizeScale {
	s := &SizeScale{dim: dim, lo: DefaultMinSize, hi: DefaultMaxSize}
	for _, opt := range opts {
		opt(s)
	}
	vals := ds.Column(dim.Name)
	if dim.Kind == dimension.Categorical {
		cats := dim.Order.Sort(vals)
		s.n = len(cats)
		s.idx = make(map[string]int, len(cats))
		for i, v := range cats {
			s.idx[v.String()] = i
		}
		return s
	}
	s.min, s.max, s.hasRange = scale.Extent(vals)
	return s
}

// Dimension returns the encoded dimension.
func (s *SizeScale) Dimension() dimension.Dimension { return s.dim }

// Bounds returns the radius range.
func (s *SizeScale) Bounds() (min, max float64) { return s.lo, s.hi }

// Map returns the radius for v, always within the configured range.
func (s *SizeScale) Map(v dataset.Value) float64 {
	mid := (s.lo + s.hi) / 2
	if v.IsMissing() {
		return mid
	}
	var t float64
	if s.dim.Kind == dimension.Categorical {
		i, ok := s.idx[v.String()]
		if !ok || s.n < 2 {
			return mid
		}
		t = float64(i) / float64(s.n-1)
	} else {
		f, ok := v.Float()
		if !ok || !s.hasRange || s.max == s.min {
			return mid
		}
		t = (f - s.min) / (s.max - s.min)
	}
	t = math.Max(0, math.Min(1, t))
	return s.lo + t*(s.hi-s.lo)
}
