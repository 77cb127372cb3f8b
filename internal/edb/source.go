package edb

import "github.com/google/uuid"

// IDSource hands out store identities and provenance tags.
// Implemented by UUIDv7Source (production) and testutil.SequenceSource (tests).
type IDSource interface {
	Next() uuid.UUID
}

// UUIDv7Source generates time-ordered UUIDv7 identifiers.
//
// Thread-safety: safe for concurrent use.
type UUIDv7Source struct{}

// Next returns a fresh UUIDv7.
func (UUIDv7Source) Next() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}
