package edb

import "github.com/google/uuid"

// Leaf is the unit of storage behind one (e, a, v) triple.
type Leaf struct {
	// M is the signed multiset count. Zero means logically absent.
	M int

	// Provenance is the tag recorded by the insert that made the fact present.
	// Accumulating inserts do not overwrite it.
	Provenance uuid.UUID
}

// handle addresses a Leaf in an arena. Both index trees store handles,
// never Leaf values, so one leaf has exactly one home.
type handle uint32

// tombstone is the reserved handle marking a retracted terminal slot.
const tombstone handle = 0

// arena owns the leaves of one EDB.
// Slot 0 is reserved for tombstone; released slots are reused LIFO.
type arena struct {
	leaves []Leaf
	free   []handle
}

func newArena() arena {
	return arena{leaves: make([]Leaf, 1)}
}

// alloc stores l and returns its handle.
func (a *arena) alloc(l Leaf) handle {
	if n := len(a.free); n > 0 {
		h := a.free[n-1]
		a.free = a.free[:n-1]
		a.leaves[h] = l
		return h
	}
	a.leaves = append(a.leaves, l)
	return handle(len(a.leaves) - 1)
}

// get returns the leaf for h. The pointer is only valid until the next alloc.
func (a *arena) get(h handle) *Leaf {
	return &a.leaves[h]
}

// release returns h to the free list. The caller must already have
// tombstoned every slot pointing at h.
func (a *arena) release(h handle) {
	a.leaves[h] = Leaf{}
	a.free = append(a.free, h)
}

// live is the number of allocated, unreleased leaves.
func (a *arena) live() int {
	return len(a.leaves) - 1 - len(a.free)
}

// capacity is the number of slots ever allocated (excluding tombstone).
func (a *arena) capacity() int {
	return len(a.leaves) - 1
}
