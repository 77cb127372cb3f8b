package harness

import (
	"github.com/roach88/eavstore/internal/ir"
	"github.com/roach88/eavstore/internal/registry"
)

// TraceEvent records one effective insert observed through a store's delta
// listeners.
type TraceEvent struct {
	Seq        int64    `json:"seq"`
	Store      string   `json:"store"`
	E          ir.Value `json:"e"`
	A          ir.Value `json:"a"`
	V          ir.Value `json:"v"`
	Delta      int      `json:"delta"`
	Provenance string   `json:"provenance"`
}

// StoreState is the final bookkeeping of one store.
type StoreState struct {
	Size int    `json:"size"`
	Live int    `json:"live"`
	Dump string `json:"dump"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every assertion held.
	Pass bool `json:"pass"`

	// Trace contains every effective insert in application order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Stores holds the final state keyed by store name.
	Stores map[string]StoreState `json:"stores"`

	// Registry holds the live stores for further inspection.
	Registry *registry.Registry `json:"-"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
		Stores: make(map[string]StoreState),
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
