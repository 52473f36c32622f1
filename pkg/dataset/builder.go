package dataset

import (
	"fmt"
	"slices"
)

// Builder accumulates rows and assigns identities when Build is called.
type Builder struct {
	fields   []string
	index    map[string]int
	required []int
	rows     [][]Value
	dropped  int
}

// NewBuilder returns a builder for rows with the given fields.
// Duplicate field names are rejected.
func NewBuilder(fields []string) (*Builder, error) {
	index := make(map[string]int, len(fields))
	for i, f := range fields {
		if _, dup := index[f]; dup {
			return nil, fmt.Errorf("duplicate field %q", f)
		}
		index[f] = i
	}
	return &Builder{fields: slices.Clone(fields), index: index}, nil
}

// Require marks fields that must be present in a row for it to be kept.
// Fields the builder does not know are ignored.
func (b *Builder) Require(fields ...string) *Builder {
	for _, f := range fields {
		if i, ok := b.index[f]; ok && !slices.Contains(b.required, i) {
			b.required = append(b.required, i)
		}
	}
	return b
}

// Add appends a row of raw cells, parsing each with Parse. Short rows are
// padded with Missing; extra cells are ignored. It reports whether the row
// was kept.
func (b *Builder) Add(cells []string) bool {
	values := make([]Value, len(b.fields))
	for i := range values {
		if i < len(cells) {
			values[i] = Parse(cells[i])
		}
	}
	return b.AddValues(values)
}

// AddValues appends a row of already typed values.
func (b *Builder) AddValues(values []Value) bool {
	row := make([]Value, len(b.fields))
	copy(row, values)
	for _, i := range b.required {
		if row[i].IsMissing() {
			b.dropped++
			return false
		}
	}
	b.rows = append(b.rows, row)
	return true
}

// Dropped returns how many rows were rejected by Require.
func (b *Builder) Dropped() int { return b.dropped }

// Build assigns identities in row order, starting at zero, and returns the
// dataset stamped with a fresh generation. The builder may be reused; later
// builds get a new generation.
func (b *Builder) Build() *Dataset {
	ds := &Dataset{
		Fields:     slices.Clone(b.fields),
		Records:    make([]Record, len(b.rows)),
		Generation: NextGeneration(),
		byID:       make(map[Identity]int, len(b.rows)),
	}
	for i, row := range b.rows {
		id := Identity(i)
		ds.Records[i] = Record{ID: id, index: b.index, values: row}
		ds.byID[id] = i
	}
	return ds
}
