package dimension

import (
	"maps"
	"slices"
)

// Classifier maps field names to dimension kinds using a fixed membership
// list of categorical fields. It is immutable once built.
type Classifier struct {
	categorical map[string]Order
}

// NewClassifier builds a classifier. Each key is a categorical field; its
// slice is the fixed value order, or empty for lexicographic order.
func NewClassifier(categorical map[string][]string) *Classifier {
	c := &Classifier{categorical: make(map[string]Order, len(categorical))}
	for name, seq := range categorical {
		c.categorical[name] = Fixed(seq...)
	}
	return c
}

// DefaultClassifier returns the classifier for the Seoul bike sharing
// dataset.
func DefaultClassifier() *Classifier {
	return NewClassifier(map[string][]string{
		"Date":           nil,
		"Seasons":        {"Spring", "Summer", "Autumn", "Winter"},
		"Holiday":        {"Holiday", "No Holiday"},
		"FunctioningDay": {"Yes", "No"},
	})
}

// Classify returns the kind of the named field. Unknown names are
// continuous.
func (c *Classifier) Classify(name string) Kind {
	if c == nil {
		return Continuous
	}
	if _, ok := c.categorical[name]; ok {
		return Categorical
	}
	return Continuous
}

// Dimension resolves a single field.
func (c *Classifier) Dimension(name string) Dimension {
	d := Dimension{Name: name, Kind: c.Classify(name)}
	if d.Kind == Categorical {
		d.Order = c.categorical[name]
	}
	return d
}

// Schema resolves every field, preserving order.
func (c *Classifier) Schema(fields []string) *Schema {
	s := &Schema{
		dims:   make([]Dimension, 0, len(fields)),
		byName: make(map[string]int, len(fields)),
	}
	for _, f := range fields {
		if _, dup := s.byName[f]; dup {
			continue
		}
		s.byName[f] = len(s.dims)
		s.dims = append(s.dims, c.Dimension(f))
	}
	return s
}

// Categorical returns the categorical membership list with each field's
// fixed sequence (nil for lexicographic).
func (c *Classifier) Categorical() map[string][]string {
	out := make(map[string][]string)
	if c == nil {
		return out
	}
	for name, o := range c.categorical {
		out[name] = o.Sequence()
	}
	return out
}

// Names returns the categorical field names, sorted.
func (c *Classifier) Names() []string {
	if c == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(c.categorical))
}
