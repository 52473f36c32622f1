package dimension

import (
	"cmp"
	"slices"
	"strings"

	"github.com/matzehuels/brushlink/pkg/dataset"
)

// Order is a total order over the values of a categorical dimension.
// The zero Order is lexicographic.
type Order struct {
	fixed []string
	rank  map[string]int
}

// Lexical returns the lexicographic order.
func Lexical() Order { return Order{} }

// Fixed returns an order that places the given values first, in the given
// sequence. Duplicates keep their first position.
func Fixed(values ...string) Order {
	if len(values) == 0 {
		return Order{}
	}
	o := Order{rank: make(map[string]int, len(values))}
	for _, v := range values {
		if _, dup := o.rank[v]; dup {
			continue
		}
		o.rank[v] = len(o.fixed)
		o.fixed = append(o.fixed, v)
	}
	return o
}

// IsFixed reports whether the order has an explicit sequence.
func (o Order) IsFixed() bool { return len(o.fixed) > 0 }

// Sequence returns the explicit sequence, or nil for a lexicographic order.
func (o Order) Sequence() []string { return slices.Clone(o.fixed) }

// Compare orders two labels: fixed members by rank, then every other label
// lexicographically.
func (o Order) Compare(a, b string) int {
	ra, aok := o.rank[a]
	rb, bok := o.rank[b]
	switch {
	case aok && bok:
		return cmp.Compare(ra, rb)
	case aok:
		return -1
	case bok:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

// CompareValues orders two values. Labels in the fixed sequence come first.
// Outside it numbers precede text and compare numerically, so "2" sorts
// before "10"; text compares lexicographically.
func (o Order) CompareValues(a, b dataset.Value) int {
	as, bs := a.String(), b.String()
	_, aok := o.rank[as]
	_, bok := o.rank[bs]
	if aok || bok {
		return o.Compare(as, bs)
	}
	af, anum := a.Float()
	bf, bnum := b.Float()
	switch {
	case anum && bnum:
		return cmp.Compare(af, bf)
	case anum:
		return -1
	case bnum:
		return 1
	}
	return strings.Compare(as, bs)
}

// Sort returns the distinct present values of vals in this order.
// Missing values are dropped.
func (o Order) Sort(vals []dataset.Value) []dataset.Value {
	seen := make(map[string]bool, len(vals))
	out := make([]dataset.Value, 0, len(vals))
	for _, v := range vals {
		if v.IsMissing() {
			continue
		}
		key := v.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	slices.SortStableFunc(out, o.CompareValues)
	return out
}
