package edb

import (
	"github.com/emirpasic/gods/maps/treemap"

	"github.com/roach88/eavstore/internal/ir"
)

// Index levels are gods treemaps keyed by ir.Value. The two upper levels map
// to *treemap.Map; the terminal level maps to handle.

// Keys are never nil: bound positions reaching a lookup are rejected by
// levelFind and slotFind first.
func compareValues(a, b interface{}) int {
	return ir.Compare(a.(ir.Value), b.(ir.Value))
}

func newLevel() *treemap.Map {
	return treemap.NewWith(compareValues)
}

// levelFetch returns the sub-level stored under key, creating and inserting
// an empty one if absent. It never replaces an existing sub-level.
// This is the only primitive that materializes index paths.
func levelFetch(current *treemap.Map, key ir.Value) *treemap.Map {
	if next, ok := current.Get(key); ok {
		return next.(*treemap.Map)
	}
	next := newLevel()
	current.Put(key, next)
	return next
}

// levelFind looks up a sub-level without creating it. A nil key matches
// nothing.
func levelFind(current *treemap.Map, key ir.Value) (*treemap.Map, bool) {
	if key == nil {
		return nil, false
	}
	next, ok := current.Get(key)
	if !ok {
		return nil, false
	}
	return next.(*treemap.Map), true
}

// slotFind returns the handle in a terminal level, or tombstone when the key
// is missing, retracted or nil.
func slotFind(terminal *treemap.Map, key ir.Value) handle {
	if key == nil {
		return tombstone
	}
	h, ok := terminal.Get(key)
	if !ok {
		return tombstone
	}
	return h.(handle)
}

// eachLevel visits sub-levels in key order until fn returns false.
// Returns false if iteration was stopped early.
func eachLevel(current *treemap.Map, fn func(key ir.Value, next *treemap.Map) bool) bool {
	it := current.Iterator()
	for it.Next() {
		if !fn(it.Key().(ir.Value), it.Value().(*treemap.Map)) {
			return false
		}
	}
	return true
}

// eachSlot visits live terminal slots in key order, skipping tombstones,
// until fn returns false. Returns false if iteration was stopped early.
func eachSlot(terminal *treemap.Map, fn func(key ir.Value, h handle) bool) bool {
	it := terminal.Iterator()
	for it.Next() {
		h := it.Value().(handle)
		if h == tombstone {
			continue
		}
		if !fn(it.Key().(ir.Value), h) {
			return false
		}
	}
	return true
}
