package edb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/eavstore/internal/testutil"
)

func TestInsert_NewFact(t *testing.T) {
	b := New(testutil.SequenceID(1), nil)

	b.Insert(str("alice"), str("age"), num(30), 1, provA)

	assert.Equal(t, 1, b.CountOf(str("alice"), str("age"), num(30)))
	assert.Equal(t, 1, b.Size())
	assert.Equal(t, 1, b.Live())

	leaf, ok := b.Leaf(str("alice"), str("age"), num(30))
	require.True(t, ok)
	assert.Equal(t, provA, leaf.Provenance)
	requireIndicesAgree(t, b)
}

func TestInsert_AccumulatesAndKeepsProvenance(t *testing.T) {
	b := New(testutil.SequenceID(1), nil)

	b.Insert(str("alice"), str("age"), num(30), 1, provA)
	b.Insert(str("alice"), str("age"), num(30), 2, provB)

	assert.Equal(t, 3, b.CountOf(str("alice"), str("age"), num(30)))
	assert.Equal(t, 1, b.Size(), "accumulation is not a new fact")

	leaf, _ := b.Leaf(str("alice"), str("age"), num(30))
	assert.Equal(t, provA, leaf.Provenance, "first provenance wins")
}

func TestInsert_RetractionTombstonesBothIndices(t *testing.T) {
	b := New(testutil.SequenceID(1), nil)

	b.Insert(str("alice"), str("age"), num(30), 1, provA)
	b.Insert(str("alice"), str("age"), num(30), -1, provA)

	assert.Equal(t, 0, b.CountOf(str("alice"), str("age"), num(30)))
	assert.Equal(t, 1, b.Size(), "size never decreases")
	assert.Equal(t, 0, b.Live())

	al, _ := levelFind(b.eav, str("alice"))
	vl, ok := levelFind(al, str("age"))
	require.True(t, ok, "intermediate levels stay after retraction")
	assert.Equal(t, tombstone, slotFind(vl, num(30)))
	requireIndicesAgree(t, b)

	for _, sig := range Signatures {
		for f := range b.Scan(sig, str("alice"), str("age"), num(30)) {
			t.Errorf("%s yielded tombstoned fact %v", sig, f)
		}
	}
}

func TestInsert_ReassertAfterRetraction(t *testing.T) {
	b := New(testutil.SequenceID(1), nil)

	b.Insert(str("alice"), str("age"), num(30), 1, provA)
	b.Insert(str("alice"), str("age"), num(30), -1, provA)
	b.Insert(str("alice"), str("age"), num(30), 1, provB)

	assert.Equal(t, 1, b.CountOf(str("alice"), str("age"), num(30)))
	assert.Equal(t, 2, b.Size(), "re-assertion counts as a new transition")

	leaf, _ := b.Leaf(str("alice"), str("age"), num(30))
	assert.Equal(t, provB, leaf.Provenance, "fresh leaf carries the new provenance")
	requireIndicesAgree(t, b)
}

func TestInsert_NegativeMultiplicity(t *testing.T) {
	b := New(testutil.SequenceID(1), nil)

	b.Insert(str("x"), str("y"), str("z"), -1, provA)

	assert.Equal(t, -1, b.CountOf(str("x"), str("y"), str("z")))
	assert.Equal(t, 1, b.Size())

	facts := collectAll(b.Scan(SigEAV, str("x"), str("y"), str("z")))
	require.Len(t, facts, 1)
	assert.Equal(t, -1, facts[0].M)

	b.Insert(str("x"), str("y"), str("z"), 1, provA)
	assert.Equal(t, 0, b.Live())
}

func TestInsert_ZeroDeltaOnAbsentCreatesZeroLeaf(t *testing.T) {
	b := New(testutil.SequenceID(1), nil)

	var notified []Fact
	b.DeltaListeners().Register(func(f Fact) { notified = append(notified, f) })

	b.Insert(str("x"), str("y"), str("z"), 0, provA)

	assert.Equal(t, 1, b.Size(), "zero leaf counts as a first insert")
	assert.Equal(t, 0, b.Live())
	assert.Equal(t, 0, b.CountOf(str("x"), str("y"), str("z")))

	leaf, ok := b.Leaf(str("x"), str("y"), str("z"))
	require.True(t, ok, "leaf is linked into the indices")
	assert.Equal(t, Leaf{M: 0, Provenance: provA}, leaf)

	require.Len(t, notified, 1)
	assert.Equal(t, 0, notified[0].M)

	for _, sig := range Signatures {
		assert.Empty(t, collectAll(b.Scan(sig, str("x"), str("y"), str("z"))), sig.String())
	}
	assert.Empty(t, b.Dump())
	requireIndicesAgree(t, b)
}

func TestInsert_ZeroLeafAccumulates(t *testing.T) {
	b := New(testutil.SequenceID(1), nil)

	b.Insert(str("x"), str("y"), str("z"), 0, provA)
	b.Insert(str("x"), str("y"), str("z"), 2, provB)

	leaf, ok := b.Leaf(str("x"), str("y"), str("z"))
	require.True(t, ok)
	assert.Equal(t, 2, leaf.M)
	assert.Equal(t, provA, leaf.Provenance, "provenance from the first insert")
	assert.Equal(t, 1, b.Size())
	assert.Equal(t, 1, b.Live())
	requireIndicesAgree(t, b)
}

func TestInsert_ZeroDeltaOnZeroLeafTombstones(t *testing.T) {
	b := New(testutil.SequenceID(1), nil)

	b.Insert(str("x"), str("y"), str("z"), 0, provA)
	b.Insert(str("x"), str("y"), str("z"), 0, provA)

	_, ok := b.Leaf(str("x"), str("y"), str("z"))
	assert.False(t, ok)
	assert.Equal(t, 1, b.Size())

	b.Insert(str("x"), str("y"), str("z"), 0, provA)
	assert.Equal(t, 2, b.Size(), "re-insert after tombstone counts again")
	requireIndicesAgree(t, b)
}

func TestInsert_ZeroDeltaOnPresentKeepsFact(t *testing.T) {
	b := New(testutil.SequenceID(1), nil)

	b.Insert(str("x"), str("y"), str("z"), 2, provA)
	b.Insert(str("x"), str("y"), str("z"), 0, provB)

	assert.Equal(t, 2, b.CountOf(str("x"), str("y"), str("z")))
	assert.Equal(t, 1, b.Size())
}

func TestInsert_NotifiesDeltaListeners(t *testing.T) {
	b := New(testutil.SequenceID(1), nil)

	var got []Fact
	var seenCount []int
	b.DeltaListeners().Register(func(f Fact) {
		got = append(got, f)
		seenCount = append(seenCount, b.CountOf(f.E, f.A, f.V))
	})

	b.Insert(str("alice"), str("age"), num(30), 1, provA)
	b.Insert(str("alice"), str("age"), num(30), 2, provB)
	b.Insert(str("alice"), str("age"), num(30), -3, provB)

	require.Len(t, got, 3)
	assert.Equal(t, []int{1, 2, -3}, []int{got[0].M, got[1].M, got[2].M})
	assert.Equal(t, provB, got[1].Provenance, "listeners see the caller's provenance")
	assert.Equal(t, []int{1, 3, 0}, seenCount, "listeners run after the indices update")
}

func TestInsert_DistinctKindsAreDistinctFacts(t *testing.T) {
	b := New(testutil.SequenceID(1), nil)

	b.Insert(str("e"), str("a"), num(1), 1, provA)
	b.Insert(str("e"), str("a"), str("1"), 1, provA)

	assert.Equal(t, 2, b.Live())
	assert.Len(t, collectAll(b.Scan(SigEAv, str("e"), str("a"), nil)), 2)
}
