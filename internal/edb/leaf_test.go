package edb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArena_ReservesTombstone(t *testing.T) {
	a := newArena()

	h := a.alloc(Leaf{M: 1})

	assert.NotEqual(t, tombstone, h)
	assert.Equal(t, 1, a.live())
}

func TestArena_ReusesReleasedSlots(t *testing.T) {
	a := newArena()
	h1 := a.alloc(Leaf{M: 1, Provenance: provA})
	a.alloc(Leaf{M: 2})

	a.release(h1)
	assert.Equal(t, 1, a.live())
	assert.Equal(t, Leaf{}, *a.get(h1), "released leaf is zeroed")

	h3 := a.alloc(Leaf{M: 3})
	assert.Equal(t, h1, h3, "released handle is reused")
	assert.Equal(t, 2, a.capacity(), "no growth on reuse")
	assert.Equal(t, 3, a.get(h3).M)
}

func TestEDB_RetractChurnDoesNotGrowArena(t *testing.T) {
	b := New(provA, nil)

	for i := 0; i < 100; i++ {
		b.Insert(str("e"), str("a"), num(i), 1, provA)
		b.Insert(str("e"), str("a"), num(i), -1, provA)
	}

	assert.Equal(t, 1, b.leaves.capacity())
	assert.Equal(t, 0, b.Live())
	assert.Equal(t, 100, b.Size())
}
