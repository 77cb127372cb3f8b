package edb

import (
	"github.com/roach88/eavstore/internal/ir"
)

// LookupValue returns a value v such that (e, a, v) is present.
//
// Local facts win; the first live value in ascending ir.Compare order is
// returned. Otherwise includes are searched in order, each applying the same
// rule recursively.
func (b *EDB) LookupValue(e, a ir.Value) (ir.Value, bool) {
	if al, ok := levelFind(b.eav, e); ok {
		if vl, ok := levelFind(al, a); ok {
			var found ir.Value
			eachSlot(vl, func(v ir.Value, h handle) bool {
				if b.leaves.get(h).M == 0 {
					return true
				}
				found = v
				return false
			})
			if found != nil {
				return found, true
			}
		}
	}

	for _, inc := range b.includes {
		if v, ok := inc.LookupValue(e, a); ok {
			return v, true
		}
	}
	return nil, false
}

// CountOf returns the local multiplicity of (e, a, v), or 0 if absent.
// Includes are not consulted.
func (b *EDB) CountOf(e, a, v ir.Value) int {
	al, ok := levelFind(b.eav, e)
	if !ok {
		return 0
	}
	vl, ok := levelFind(al, a)
	if !ok {
		return 0
	}
	h := slotFind(vl, v)
	if h == tombstone {
		return 0
	}
	return b.leaves.get(h).M
}

// Leaf returns a copy of the local leaf for (e, a, v).
func (b *EDB) Leaf(e, a, v ir.Value) (Leaf, bool) {
	al, ok := levelFind(b.eav, e)
	if !ok {
		return Leaf{}, false
	}
	vl, ok := levelFind(al, a)
	if !ok {
		return Leaf{}, false
	}
	h := slotFind(vl, v)
	if h == tombstone {
		return Leaf{}, false
	}
	return *b.leaves.get(h), true
}
