package dataset

import (
	"slices"
	"sync/atomic"
)

// Identity is the synthetic key of a record, unique within a dataset.
type Identity uint32

// Record is an immutable row. The zero Record has no fields.
type Record struct {
	ID     Identity
	index  map[string]int
	values []Value
}

// Get returns the value of field, or Missing when the record has no such
// field.
func (r Record) Get(field string) Value {
	i, ok := r.index[field]
	if !ok {
		return Missing()
	}
	return r.values[i]
}

// Has reports whether the record carries field.
func (r Record) Has(field string) bool {
	_, ok := r.index[field]
	return ok
}

// Values returns a copy of the record's values in dataset field order.
func (r Record) Values() []Value {
	return slices.Clone(r.values)
}

// Dataset is an ordered, read-only collection of records.
type Dataset struct {
	Fields     []string
	Records    []Record
	Generation uint64

	byID map[Identity]int
}

var generation atomic.Uint64

// NextGeneration returns a new process-wide unique generation number.
func NextGeneration() uint64 {
	return generation.Add(1)
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// HasField reports whether name is one of the dataset's fields.
func (d *Dataset) HasField(name string) bool {
	if d == nil {
		return false
	}
	return slices.Contains(d.Fields, name)
}

// Lookup returns the record with the given identity.
func (d *Dataset) Lookup(id Identity) (Record, bool) {
	if d == nil {
		return Record{}, false
	}
	i, ok := d.byID[id]
	if !ok {
		return Record{}, false
	}
	return d.Records[i], true
}

// Column returns the values of field across all records, in record order.
func (d *Dataset) Column(field string) []Value {
	if d == nil {
		return nil
	}
	out := make([]Value, len(d.Records))
	for i, r := range d.Records {
		out[i] = r.Get(field)
	}
	return out
}

// Identities returns the identity of every record, in record order.
func (d *Dataset) Identities() []Identity {
	if d == nil {
		return nil
	}
	ids := make([]Identity, len(d.Records))
	for i, r := range d.Records {
		ids[i] = r.ID
	}
	return ids
}
