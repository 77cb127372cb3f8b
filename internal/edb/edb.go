package edb

import (
	"fmt"
	"iter"
	"log/slog"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/google/uuid"

	"github.com/roach88/eavstore/internal/ir"
)

// Fact is one (e, a, v) triple as yielded by a scan.
type Fact struct {
	E, A, V ir.Value

	// M is the multiplicity. For delta listeners it holds the applied delta.
	M int

	Provenance uuid.UUID
}

// String renders the fact as "e a v xM".
func (f Fact) String() string {
	return fmt.Sprintf("%s %s %s x%d", f.E, f.A, f.V, f.M)
}

// Listener receives facts from a callback scan or a delta notification.
type Listener func(Fact)

// Bag is the interface the rest of the system programs against.
type Bag interface {
	ID() uuid.UUID
	Insert(e, a, v ir.Value, delta int, prov uuid.UUID)
	Scan(sig Sig, e, a, v ir.Value) iter.Seq[Fact]
}

var _ Bag = (*EDB)(nil)

// EDB is a single extensional store with optional federated includes.
//
// INVARIANTS:
//   - eav[e][a][v] and ave[a][v][e] always hold the same handle
//   - count never decreases
//   - the include graph is acyclic
type EDB struct {
	id       uuid.UUID
	eav      *treemap.Map
	ave      *treemap.Map
	leaves   arena
	count    int
	includes []*EDB
	logger   *slog.Logger

	listeners      Slots[Listener]
	deltaListeners Slots[Listener]
	implications   Slots[any]
}

// Option configures an EDB at construction.
type Option func(*EDB)

// WithLogger sets the logger used for diagnostics.
// Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *EDB) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// New creates an empty store with identity id that federates over includes.
//
// The includes slice is copied; nil entries are skipped. Construction cannot
// create a cycle because the new store is not yet reachable from anything.
func New(id uuid.UUID, includes []*EDB, opts ...Option) *EDB {
	b := &EDB{
		id:     id,
		eav:    newLevel(),
		ave:    newLevel(),
		leaves: newArena(),
		logger: slog.Default(),
	}
	for _, inc := range includes {
		if inc != nil {
			b.includes = append(b.includes, inc)
		}
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// ID returns the store's identity.
func (b *EDB) ID() uuid.UUID {
	return b.id
}

// Includes returns a copy of the include list in scan order.
func (b *EDB) Includes() []*EDB {
	out := make([]*EDB, len(b.includes))
	copy(out, b.includes)
	return out
}

// Include appends other to the include list.
//
// Returns ErrNilInclude for nil and ErrIncludeCycle if other is b or
// already reaches b through its own includes.
func (b *EDB) Include(other *EDB) error {
	if other == nil {
		return ErrNilInclude
	}
	if other == b || other.reaches(b) {
		return fmt.Errorf("include %s into %s: %w", other.id, b.id, ErrIncludeCycle)
	}
	b.includes = append(b.includes, other)
	return nil
}

// reaches reports whether target is reachable from b through includes.
func (b *EDB) reaches(target *EDB) bool {
	seen := make(map[*EDB]bool)
	var walk func(*EDB) bool
	walk = func(n *EDB) bool {
		if n == target {
			return true
		}
		if seen[n] {
			return false
		}
		seen[n] = true
		for _, inc := range n.includes {
			if walk(inc) {
				return true
			}
		}
		return false
	}
	return walk(b)
}

// Size returns the number of absent->present transitions seen by this store.
// It never decreases and does not include federated stores.
func (b *EDB) Size() int {
	return b.count
}

// Live returns the number of local facts with nonzero multiplicity.
func (b *EDB) Live() int {
	n := 0
	for _, l := range b.leaves.leaves[1:] {
		if l.M != 0 {
			n++
		}
	}
	return n
}

// Listeners holds scan listeners registered by collaborators.
func (b *EDB) Listeners() *Slots[Listener] {
	return &b.listeners
}

// DeltaListeners are notified synchronously after every effective Insert.
func (b *EDB) DeltaListeners() *Slots[Listener] {
	return &b.deltaListeners
}

// Implications holds opaque rule objects attached by collaborators.
func (b *EDB) Implications() *Slots[any] {
	return &b.implications
}
