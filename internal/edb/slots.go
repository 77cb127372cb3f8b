package edb

import (
	"iter"

	"github.com/google/uuid"
)

// Slots is an ordered set of registrations addressed by uuid handles.
// The zero value is ready to use.
type Slots[T any] struct {
	order   []uuid.UUID
	entries map[uuid.UUID]T
}

// Register adds v and returns the handle that removes it.
func (s *Slots[T]) Register(v T) uuid.UUID {
	if s.entries == nil {
		s.entries = make(map[uuid.UUID]T)
	}
	id := uuid.New()
	s.order = append(s.order, id)
	s.entries[id] = v
	return id
}

// Unregister removes the registration for id.
// Returns false if id was not registered.
func (s *Slots[T]) Unregister(id uuid.UUID) bool {
	if _, ok := s.entries[id]; !ok {
		return false
	}
	delete(s.entries, id)
	for i, o := range s.order {
		if o == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of registrations.
func (s *Slots[T]) Len() int {
	return len(s.order)
}

// All yields registrations in registration order.
// The order is captured when iteration starts, so callbacks may register or
// unregister without disturbing the pass in progress.
func (s *Slots[T]) All() iter.Seq2[uuid.UUID, T] {
	return func(yield func(uuid.UUID, T) bool) {
		ids := make([]uuid.UUID, len(s.order))
		copy(ids, s.order)
		for _, id := range ids {
			v, ok := s.entries[id]
			if !ok {
				continue
			}
			if !yield(id, v) {
				return
			}
		}
	}
}
