package dimension

import (
	"fmt"
	"slices"
	"strings"
)

// Kind is the measurement level of a dimension.
type Kind uint8

const (
	Continuous Kind = iota
	Categorical
)

func (k Kind) String() string {
	if k == Categorical {
		return "categorical"
	}
	return "continuous"
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "categorical":
		*k = Categorical
	case "continuous":
		*k = Continuous
	default:
		return fmt.Errorf("unknown dimension kind %q", b)
	}
	return nil
}

// Dimension is a field resolved against a classifier.
type Dimension struct {
	Name  string
	Kind  Kind
	Order Order
}

// IsCategorical reports whether d is categorical.
func (d Dimension) IsCategorical() bool { return d.Kind == Categorical }

func (d Dimension) String() string {
	return d.Name + ":" + d.Kind.String()
}

// Schema is the resolved dimension set of one dataset, in field order.
type Schema struct {
	dims   []Dimension
	byName map[string]int
}

// Lookup returns the dimension named name.
func (s *Schema) Lookup(name string) (Dimension, bool) {
	if s == nil {
		return Dimension{}, false
	}
	i, ok := s.byName[name]
	if !ok {
		return Dimension{}, false
	}
	return s.dims[i], true
}

// Dimensions returns every dimension in field order.
func (s *Schema) Dimensions() []Dimension {
	if s == nil {
		return nil
	}
	return slices.Clone(s.dims)
}

// Names returns the field names in order.
func (s *Schema) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, len(s.dims))
	for i, d := range s.dims {
		names[i] = d.Name
	}
	return names
}

// Of returns the names of the dimensions of kind k, in field order.
func (s *Schema) Of(k Kind) []string {
	var names []string
	for _, d := range s.Dimensions() {
		if d.Kind == k {
			names = append(names, d.Name)
		}
	}
	return names
}
