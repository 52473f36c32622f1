package selection

import (
	"github.com/matzehuels/brushlink/pkg/observability"
)

// Change is delivered to subscribers after every commit.
type Change struct {
	Selection Selection
	Origin    string
	Revision  uint64
}

// Listener receives store changes.
type Listener func(Change)

// Store is the cross-view selection store. It is not safe for concurrent
// use; hosts serialize access.
type Store struct {
	current  Selection
	origin   string
	revision uint64

	listeners map[int]Listener
	order     []int
	nextID    int

	notifying bool
	queue     []Change
}

// NewStore returns a store holding the empty selection.
func NewStore() *Store {
	return &Store{listeners: make(map[int]Listener)}
}

// Get returns the current selection.
func (s *Store) Get() Selection { return s.current }

// Current is Get; it lets the store serve as a brush committer.
func (s *Store) Current() Selection { return s.current }

// Origin returns the name of the view that made the last commit.
func (s *Store) Origin() string { return s.origin }

// Revision counts commits since the store was created.
func (s *Store) Revision() uint64 { return s.revision }

// Commit replaces the current selection and notifies every subscriber.
// A commit made from inside a listener replaces the state immediately and
// is delivered once the current fan-out has finished.
func (s *Store) Commit(origin string, sel Selection) {
	s.revision++
	s.current = sel
	s.origin = origin
	observability.Selection().OnCommit(origin, sel.Len())

	s.queue = append(s.queue, Change{Selection: sel, Origin: origin, Revision: s.revision})
	if s.notifying {
		return
	}
	s.notifying = true
	defer func() { s.notifying = false }()

	for len(s.queue) > 0 {
		ch := s.queue[0]
		s.queue = s.queue[1:]
		for _, id := range append([]int(nil), s.order...) {
			if fn, ok := s.listeners[id]; ok {
				fn(ch)
			}
		}
	}
}

// Subscribe registers fn and returns a function that removes it.
// Cancelling twice is harmless.
func (s *Store) Subscribe(fn Listener) (cancel func()) {
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.order = append(s.order, id)
	return func() {
		if _, ok := s.listeners[id]; !ok {
			return
		}
		delete(s.listeners, id)
		for i, o := range s.order {
			if o == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
}
