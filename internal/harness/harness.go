package harness

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/roach88/eavstore/internal/edb"
	"github.com/roach88/eavstore/internal/ir"
	"github.com/roach88/eavstore/internal/registry"
	"github.com/roach88/eavstore/internal/testutil"
)

// Harness applies a scenario to a fresh registry and records the trace.
type Harness struct {
	reg    *registry.Registry
	ids    *testutil.SequenceSource
	prov   edb.IDSource
	logger *slog.Logger
	seq    int64
	result *Result
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger sets the logger for step progress and store diagnostics.
// Default: discard.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithProvenanceSource sets where default provenance tags come from.
// Default: the scenario's id sequence, continuing after the store ids.
func WithProvenanceSource(src edb.IDSource) Option {
	return func(h *Harness) {
		if src != nil {
			h.prov = src
		}
	}
}

// Build creates the scenario's stores and applies its steps without
// evaluating assertions. The returned result carries the trace and registry.
func Build(scenario *Scenario, opts ...Option) (*Result, error) {
	h := &Harness{
		ids:    testutil.NewSequenceSource(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		result: NewResult(),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.prov == nil {
		h.prov = h.ids
	}
	h.reg = registry.New(
		registry.WithIDSource(h.ids),
		registry.WithLogger(h.logger),
	)
	h.result.Registry = h.reg

	for i, decl := range scenario.Stores {
		b, err := h.reg.Create(decl.Name, decl.Includes...)
		if err != nil {
			return nil, fmt.Errorf("store %d: %w", i, err)
		}
		b.DeltaListeners().Register(h.record(decl.Name))
	}

	for i, step := range scenario.Steps {
		if err := h.apply(i, step); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
	}

	for _, name := range h.reg.Names() {
		b := h.reg.MustGet(name)
		h.result.Stores[name] = StoreState{
			Size: b.Size(),
			Live: b.Live(),
			Dump: b.Dump(),
		}
	}

	return h.result, nil
}

// Run builds the scenario and evaluates every assertion.
//
// Each scenario runs against a fresh registry for isolation. Assertion
// failures are reported in Result.Errors; the error return is reserved for
// scenarios that cannot be executed at all.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	result, err := Build(scenario, opts...)
	if err != nil {
		return nil, err
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// record returns the delta listener appending to the trace.
func (h *Harness) record(store string) edb.Listener {
	return func(f edb.Fact) {
		h.seq++
		h.result.Trace = append(h.result.Trace, TraceEvent{
			Seq:        h.seq,
			Store:      store,
			E:          f.E,
			A:          f.A,
			V:          f.V,
			Delta:      f.M,
			Provenance: f.Provenance.String(),
		})
	}
}

func (h *Harness) apply(index int, step Step) error {
	switch {
	case step.Insert != nil:
		return h.applyInsert(index, step.Insert)
	case step.Include != nil:
		if err := h.reg.Include(step.Include.Store, step.Include.Other); err != nil {
			return err
		}
		h.logger.Info("include applied",
			"step", index,
			"store", step.Include.Store,
			"other", step.Include.Other,
		)
		return nil
	default:
		return fmt.Errorf("empty step")
	}
}

func (h *Harness) applyInsert(index int, s *InsertStep) error {
	b, err := h.reg.Get(s.Store)
	if err != nil {
		return err
	}

	e, a, v, err := convertTriple(s.E, s.A, s.V)
	if err != nil {
		return err
	}

	delta := 1
	if s.M != nil {
		delta = *s.M
	}

	var prov uuid.UUID
	if s.Provenance != "" {
		prov, err = uuid.Parse(s.Provenance)
		if err != nil {
			return fmt.Errorf("provenance %q: %w", s.Provenance, err)
		}
	} else {
		prov = h.prov.Next()
	}

	b.Insert(e, a, v, delta, prov)

	h.logger.Info("insert applied",
		"step", index,
		"store", s.Store,
		"e", e.String(),
		"a", a.String(),
		"v", v.String(),
		"delta", delta,
	)
	return nil
}

// convertTriple converts YAML scalars to identifiers.
func convertTriple(e, a, v any) (ir.Value, ir.Value, ir.Value, error) {
	ev, err := ir.FromAny(e)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("entity: %w", err)
	}
	av, err := ir.FromAny(a)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("attribute: %w", err)
	}
	vv, err := ir.FromAny(v)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("value: %w", err)
	}
	return ev, av, vv, nil
}
