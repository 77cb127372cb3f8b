package edb

import (
	"iter"
	"slices"
	"testing"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/roach88/eavstore/internal/ir"
	"github.com/roach88/eavstore/internal/testutil"
)

type str = ir.String

type num = ir.Int

// slotKey identifies a terminal slot independent of index orientation.
type slotKey struct{ e, a, v string }

func keyOf(e, a, v ir.Value) slotKey {
	return slotKey{
		e: ir.Kind(e) + ":" + e.String(),
		a: ir.Kind(a) + ":" + a.String(),
		v: ir.Kind(v) + ":" + v.String(),
	}
}

func newTestStore(t *testing.T, ids *testutil.SequenceSource, includes ...*EDB) *EDB {
	t.Helper()
	return New(ids.Next(), includes)
}

// requireIndicesAgree walks both indices, including tombstones, and checks
// they hold identical slots with identical handles.
func requireIndicesAgree(t *testing.T, b *EDB) {
	t.Helper()

	fromEAV := make(map[slotKey]handle)
	eachLevel(b.eav, func(e ir.Value, al *treemap.Map) bool {
		return eachLevel(al, func(a ir.Value, vl *treemap.Map) bool {
			it := vl.Iterator()
			for it.Next() {
				fromEAV[keyOf(e, a, it.Key().(ir.Value))] = it.Value().(handle)
			}
			return true
		})
	})

	fromAVE := make(map[slotKey]handle)
	eachLevel(b.ave, func(a ir.Value, vl *treemap.Map) bool {
		return eachLevel(vl, func(v ir.Value, el *treemap.Map) bool {
			it := el.Iterator()
			for it.Next() {
				fromAVE[keyOf(it.Key().(ir.Value), a, v)] = it.Value().(handle)
			}
			return true
		})
	})

	require.Equal(t, fromEAV, fromAVE, "EAV and AVE must hold the same slots")

	used := make(map[handle]bool)
	nonzero := 0
	for k, h := range fromEAV {
		if h == tombstone {
			continue
		}
		require.False(t, used[h], "handle %d shared by two facts (%v)", h, k)
		used[h] = true
		if b.leaves.get(h).M != 0 {
			nonzero++
		}
	}
	require.Equal(t, len(used), b.leaves.live())
	require.Equal(t, nonzero, b.Live())
}

func collectAll(seq iter.Seq[Fact]) []Fact {
	return slices.Collect(seq)
}

var provA = uuid.MustParse("0192d1d4-3c1e-7c55-8f4e-5b2a9a6b1c01")

var provB = uuid.MustParse("0192d1d4-3c1e-7c55-8f4e-5b2a9a6b1c02")
