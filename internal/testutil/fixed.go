package testutil

import "github.com/google/uuid"

// FixedSource returns the same UUID on every call.
//
// Useful when every insert in a test should carry one provenance tag.
//
// Thread-safety: FixedSource is stateless and safe for concurrent use.
type FixedSource struct {
	id uuid.UUID
}

// NewFixedSource creates a source that always returns id.
// If id is uuid.Nil, SequenceID(1) is used instead.
func NewFixedSource(id uuid.UUID) *FixedSource {
	if id == uuid.Nil {
		id = SequenceID(1)
	}
	return &FixedSource{id: id}
}

// Next returns the fixed id.
//
// Implements edb.IDSource.
func (s *FixedSource) Next() uuid.UUID {
	return s.id
}
