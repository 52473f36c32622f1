package scale

import (
	"math"
	"strconv"

	mscale "github.com/aclements/go-moremath/scale"

	"github.com/matzehuels/brushlink/pkg/dataset"
	"github.com/matzehuels/brushlink/pkg/dimension"
)

// Defaults for Resolver fields left at zero.
const (
	DefaultTickBudget = 10
	DefaultPadding    = 0.5
)

// Resolver builds scales. The zero Resolver uses the defaults with Nice off.
type Resolver struct {
	// TickBudget is the maximum number of labelled ticks.
	TickBudget int

	// Padding is the outer padding of categorical point scales, in steps.
	// Negative means none.
	Padding float64

	// Nice extends continuous domains outward to whole tick steps.
	Nice bool
}

// Resolve builds a scale with the default resolver.
func Resolve(ds *dataset.Dataset, dim dimension.Dimension, rng Range, invert bool) *Scale {
	return Resolver{}.Resolve(ds, dim, rng, invert)
}

// Resolve builds the scale of dim over the records of ds. The result
// depends only on its inputs; calling it twice gives equal scales.
func (r Resolver) Resolve(ds *dataset.Dataset, dim dimension.Dimension, rng Range, invert bool) *Scale {
	if invert {
		rng = rng.Reverse()
	}
	s := &Scale{dim: dim, rng: rng, inverted: invert}
	var vals []dataset.Value
	if ds != nil {
		s.generation = ds.Generation
		vals = ds.Column(dim.Name)
	}
	if dim.Kind == dimension.Categorical {
		r.categorical(s, vals)
	} else {
		r.continuous(s, vals)
	}
	return s
}

func (r Resolver) budget() int {
	if r.TickBudget <= 0 {
		return DefaultTickBudget
	}
	return r.TickBudget
}

func (r Resolver) padding() float64 {
	switch {
	case r.Padding < 0:
		return 0
	case r.Padding == 0:
		return DefaultPadding
	}
	return r.Padding
}

func (r Resolver) continuous(s *Scale, vals []dataset.Value) {
	min, max, ok := Extent(vals)
	if !ok {
		s.empty = true
		return
	}
	s.lin = mscale.Linear{Min: min, Max: max}
	if min == max {
		s.degenerate = true
		s.ticks = []Tick{{Pos: s.rng.Mid(), Label: formatTick(min)}}
		return
	}

	opts := mscale.TickOptions{Max: r.budget()}
	if r.Nice {
		s.lin.Nice(opts)
	}
	major, _ := s.lin.Ticks(opts)
	s.ticks = make([]Tick, 0, len(major))
	for _, m := range major {
		s.ticks = append(s.ticks, Tick{Pos: s.MapFloat(m), Label: formatTick(m)})
	}
}

func (r Resolver) categorical(s *Scale, vals []dataset.Value) {
	s.cats = s.dim.Order.Sort(vals)
	s.index = make(map[string]int, len(s.cats))
	for i, c := range s.cats {
		s.index[c.String()] = i
	}
	n := len(s.cats)
	if n == 0 {
		return
	}
	positions, step := Points(n, s.rng, r.padding())
	s.step = step
	s.start = positions[0]

	stride := (n + r.budget() - 1) / r.budget()
	s.ticks = make([]Tick, 0, (n+stride-1)/stride)
	for i := 0; i < n; i += stride {
		s.ticks = append(s.ticks, Tick{Pos: positions[i], Label: s.cats[i].String()})
	}
}

func formatTick(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', 6, 64)
}
