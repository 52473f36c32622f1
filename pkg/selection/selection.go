package selection

import (
	"iter"
	"strconv"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
	gojson "github.com/goccy/go-json"

	"github.com/matzehuels/brushlink/pkg/dataset"
)

// Selection is an immutable identity set. The zero Selection is empty.
type Selection struct {
	rb *roaring.Bitmap
}

// Empty returns the empty selection.
func Empty() Selection { return Selection{} }

// Of returns a selection holding ids.
func Of(ids ...dataset.Identity) Selection {
	if len(ids) == 0 {
		return Selection{}
	}
	rb := roaring.New()
	for _, id := range ids {
		rb.Add(uint32(id))
	}
	return Selection{rb: rb}
}

// Where returns the identities of the records matching pred.
func Where(records []dataset.Record, pred func(dataset.Record) bool) Selection {
	rb := roaring.New()
	for _, r := range records {
		if pred(r) {
			rb.Add(uint32(r.ID))
		}
	}
	if rb.IsEmpty() {
		return Selection{}
	}
	rb.RunOptimize()
	return Selection{rb: rb}
}

// Contains reports whether id is selected.
func (s Selection) Contains(id dataset.Identity) bool {
	return s.rb != nil && s.rb.Contains(uint32(id))
}

// IsEmpty reports whether nothing is selected.
func (s Selection) IsEmpty() bool {
	return s.rb == nil || s.rb.IsEmpty()
}

// Len returns the number of selected identities.
func (s Selection) Len() int {
	if s.rb == nil {
		return 0
	}
	return int(s.rb.GetCardinality())
}

// All iterates the identities in ascending order.
func (s Selection) All() iter.Seq[dataset.Identity] {
	return func(yield func(dataset.Identity) bool) {
		if s.rb == nil {
			return
		}
		it := s.rb.Iterator()
		for it.HasNext() {
			if !yield(dataset.Identity(it.Next())) {
				return
			}
		}
	}
}

// IDs returns the identities in ascending order.
func (s Selection) IDs() []dataset.Identity {
	ids := make([]dataset.Identity, 0, s.Len())
	for id := range s.All() {
		ids = append(ids, id)
	}
	return ids
}

// Intersect returns the identities present in both selections.
func (s Selection) Intersect(o Selection) Selection {
	if s.IsEmpty() || o.IsEmpty() {
		return Selection{}
	}
	return Selection{rb: roaring.And(s.rb, o.rb)}
}

// Union returns the identities present in either selection.
func (s Selection) Union(o Selection) Selection {
	switch {
	case s.IsEmpty():
		return o
	case o.IsEmpty():
		return s
	}
	return Selection{rb: roaring.Or(s.rb, o.rb)}
}

// Equal reports whether both selections hold the same identities.
func (s Selection) Equal(o Selection) bool {
	if s.IsEmpty() || o.IsEmpty() {
		return s.IsEmpty() == o.IsEmpty()
	}
	return s.rb.Equals(o.rb)
}

// Matching counts how many of the dataset's records are selected.
func (s Selection) Matching(ds *dataset.Dataset) int {
	if s.IsEmpty() || ds == nil {
		return 0
	}
	n := 0
	for _, r := range ds.Records {
		if s.Contains(r.ID) {
			n++
		}
	}
	return n
}

func (s Selection) String() string {
	var b strings.Builder
	b.WriteByte('{')
	i := 0
	for id := range s.All() {
		if i > 0 {
			b.WriteByte(',')
		}
		if i == 16 {
			b.WriteString("...")
			break
		}
		b.WriteString(strconv.FormatUint(uint64(id), 10))
		i++
	}
	b.WriteByte('}')
	return b.String()
}

// MarshalJSON encodes the selection as an ascending array of identities.
func (s Selection) MarshalJSON() ([]byte, error) {
	return gojson.Marshal(s.IDs())
}

// UnmarshalJSON decodes an array of identities.
func (s *Selection) UnmarshalJSON(b []byte) error {
	var ids []dataset.Identity
	if err := gojson.Unmarshal(b, &ids); err != nil {
		return err
	}
	*s = Of(ids...)
	return nil
}
