package edb

import (
	"github.com/google/uuid"

	"github.com/roach88/eavstore/internal/ir"
)

// Insert applies delta to the multiplicity of (e, a, v).
//
// If the fact is absent (or tombstoned) a new leaf {delta, prov} is linked
// into both indices and Size increases by one. Otherwise delta accumulates
// into the existing leaf and prov is ignored. A result of zero tombstones the
// fact in both indices.
//
// A zero delta against an absent fact still allocates a leaf with M = 0 and
// counts toward Size. Such leaves are present in both indices but never
// yielded by Scan. Negative results are allowed. Delta listeners run after
// the indices are updated.
func (b *EDB) Insert(e, a, v ir.Value, delta int, prov uuid.UUID) {
	al := levelFetch(levelFetch(b.eav, e), a)

	if h := slotFind(al, v); h != tombstone {
		leaf := b.leaves.get(h)
		leaf.M += delta
		if leaf.M == 0 {
			al.Put(v, tombstone)
			levelFetch(levelFetch(b.ave, a), v).Put(e, tombstone)
			b.leaves.release(h)
		}
	} else {
		h := b.leaves.alloc(Leaf{M: delta, Provenance: prov})
		al.Put(v, h)
		levelFetch(levelFetch(b.ave, a), v).Put(e, h)
		b.count++
	}

	b.notifyDelta(Fact{E: e, A: a, V: v, M: delta, Provenance: prov})
}

func (b *EDB) notifyDelta(f Fact) {
	if b.deltaListeners.Len() == 0 {
		return
	}
	for _, l := range b.deltaListeners.All() {
		l(f)
	}
}
