package query

import (
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/roach88/eavstore/internal/edb"
	"github.com/roach88/eavstore/internal/ir"
)

// ErrUnsupportedShape is returned for patterns no index can answer.
var ErrUnsupportedShape = errors.New("unsupported query shape")

// Query is a triple pattern. Nil positions are free.
type Query struct {
	E, A, V ir.Value
}

// Sig returns the scan signature for the bound positions.
func (q Query) Sig() edb.Sig {
	return edb.SigOf(q.E != nil, q.A != nil, q.V != nil)
}

// Validate reports whether an edb scan can answer q.
func (q Query) Validate() error {
	if sig := q.Sig(); !sig.Valid() {
		return fmt.Errorf("query %q has shape %s: %w", q.String(), sig, ErrUnsupportedShape)
	}
	return nil
}

// Matches reports whether f satisfies every bound position.
func (q Query) Matches(f edb.Fact) bool {
	return (q.E == nil || ir.Equal(q.E, f.E)) &&
		(q.A == nil || ir.Equal(q.A, f.A)) &&
		(q.V == nil || ir.Equal(q.V, f.V))
}

// Seq validates q and returns the federated scan over b.
func (q Query) Seq(b edb.Bag) (iter.Seq[edb.Fact], error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return b.Scan(q.Sig(), q.E, q.A, q.V), nil
}

// Run validates q and collects every matching fact from b.
func (q Query) Run(b edb.Bag) ([]edb.Fact, error) {
	seq, err := q.Seq(b)
	if err != nil {
		return nil, err
	}
	var out []edb.Fact
	for f := range seq {
		out = append(out, f)
	}
	return out, nil
}

// String renders q in the syntax Parse accepts.
func (q Query) String() string {
	parts := make([]string, 3)
	for i, v := range []ir.Value{q.E, q.A, q.V} {
		if v == nil {
			parts[i] = "?"
			continue
		}
		parts[i] = ir.FormatLiteral(v)
	}
	return strings.Join(parts, " ")
}
