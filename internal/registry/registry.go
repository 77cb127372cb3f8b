// Package registry names and owns the edb stores of one process.
//
// Stores are created by name with optional includes that must already
// exist, so the include graph built through Create is acyclic by
// construction. Include adds edges later and inherits edb's cycle check.
//
// The registry map is safe for concurrent use. The stores themselves are not:
// callers follow edb's single-writer rule per store.
package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/roach88/eavstore/internal/edb"
)

var (
	// ErrDuplicateStore is returned when creating a name that already exists.
	ErrDuplicateStore = errors.New("store already exists")

	// ErrUnknownStore is returned when a name has no store.
	ErrUnknownStore = errors.New("unknown store")
)

// Registry maps names to stores in creation order.
type Registry struct {
	mu     sync.RWMutex
	ids    edb.IDSource
	logger *slog.Logger
	order  []string
	byName map[string]*edb.EDB
	byID   map[uuid.UUID]string
	stats  *statsCollector
}

// Option configures a Registry.
type Option func(*Registry)

// WithIDSource sets where store identities come from.
// Default: edb.UUIDv7Source.
func WithIDSource(src edb.IDSource) Option {
	return func(r *Registry) {
		if src != nil {
			r.ids = src
		}
	}
}

// WithLogger sets the logger handed to every created store.
// Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		ids:    edb.UUIDv7Source{},
		logger: slog.Default(),
		byName: make(map[string]*edb.EDB),
		byID:   make(map[uuid.UUID]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.stats = newStatsCollector(r)
	return r
}

// IDSource returns the identity source, so callers can draw provenance tags
// from the same sequence as store ids.
func (r *Registry) IDSource() edb.IDSource {
	return r.ids
}

// Create makes a new store named name that federates over includes, in order.
func (r *Registry) Create(name string, includes ...string) (*edb.EDB, error) {
	if name == "" {
		return nil, fmt.Errorf("create store: empty name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[name]; ok {
		return nil, fmt.Errorf("create store %q: %w", name, ErrDuplicateStore)
	}

	incs := make([]*edb.EDB, 0, len(includes))
	for _, inc := range includes {
		b, ok := r.byName[inc]
		if !ok {
			return nil, fmt.Errorf("create store %q: include %q: %w", name, inc, ErrUnknownStore)
		}
		incs = append(incs, b)
	}

	b := edb.New(r.ids.Next(), incs, edb.WithLogger(r.logger.With("store", name)))
	b.DeltaListeners().Register(r.stats.observe(name))

	r.order = append(r.order, name)
	r.byName[name] = b
	r.byID[b.ID()] = name

	r.logger.Debug("store created",
		"store", name,
		"id", b.ID().String(),
		"includes", includes,
	)
	return b, nil
}

// Get returns the store named name.
func (r *Registry) Get(name string) (*edb.EDB, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("store %q: %w", name, ErrUnknownStore)
	}
	return b, nil
}

// MustGet is like Get but panics if the store does not exist.
// Use only in tests or when inputs are known to be valid.
func (r *Registry) MustGet(name string) *edb.EDB {
	b, err := r.Get(name)
	if err != nil {
		panic(err)
	}
	return b
}

// Include makes store name federate over store other.
func (r *Registry) Include(name, other string) error {
	b, err := r.Get(name)
	if err != nil {
		return fmt.Errorf("include: %w", err)
	}
	inc, err := r.Get(other)
	if err != nil {
		return fmt.Errorf("include: %w", err)
	}
	if err := b.Include(inc); err != nil {
		return fmt.Errorf("include %q into %q: %w", other, name, err)
	}
	return nil
}

// Names returns store names in creation order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// NameOf returns the name registered for a store id.
func (r *Registry) NameOf(id uuid.UUID) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.byID[id]
	return name, ok
}

// NameMap returns a copy of the id to name mapping.
func (r *Registry) NameMap() map[uuid.UUID]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[uuid.UUID]string, len(r.byID))
	for id, name := range r.byID {
		out[id] = name
	}
	return out
}

// Len returns the number of stores.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
