package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/eavstore/internal/edb"
	"github.com/roach88/eavstore/internal/ir"
	"github.com/roach88/eavstore/internal/query"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Store    string       // Store the assertion ran against
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s (store %s)\n", e.Type, e.Store)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, ev := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s: %s %s %s %+d\n", ev.Seq, ev.Store,
				ir.FormatLiteral(ev.E), ir.FormatLiteral(ev.A), ir.FormatLiteral(ev.V), ev.Delta)
		}
	}

	return buf.String()
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string

	for i, assertion := range assertions {
		if err := evaluate(result, assertion); err != nil {
			errors = append(errors, fmt.Sprintf("assertion[%d]: %v", i, err))
		}
	}

	return errors
}

func evaluate(result *Result, a Assertion) error {
	if result.Registry == nil {
		return fmt.Errorf("%s requires a built registry", a.Type)
	}
	b, err := result.Registry.Get(a.Store)
	if err != nil {
		return err
	}

	fail := func(expected, actual string) error {
		return &AssertionError{
			Type:     a.Type,
			Store:    a.Store,
			Expected: expected,
			Actual:   actual,
			Trace:    result.Trace,
		}
	}

	switch a.Type {
	case AssertCountOf:
		e, at, v, err := convertTriple(a.E, a.A, a.V)
		if err != nil {
			return err
		}
		if got := b.CountOf(e, at, v); got != *a.Count {
			return fail(
				fmt.Sprintf("count_of(%s) = %d", formatTriple(e, at, v), *a.Count),
				fmt.Sprintf("%d", got))
		}

	case AssertSize:
		if got := b.Size(); got != *a.Count {
			return fail(fmt.Sprintf("size = %d", *a.Count), fmt.Sprintf("%d", got))
		}

	case AssertLive:
		if got := b.Live(); got != *a.Count {
			return fail(fmt.Sprintf("live = %d", *a.Count), fmt.Sprintf("%d", got))
		}

	case AssertLookup:
		return assertLookup(b, a, fail)

	case AssertScanCount:
		facts, err := runQuery(b, a.Query)
		if err != nil {
			return err
		}
		if len(facts) != *a.Count {
			return fail(
				fmt.Sprintf("%d facts for %q", *a.Count, a.Query),
				fmt.Sprintf("%d facts: %s", len(facts), formatFacts(facts)))
		}

	case AssertScanContains:
		return assertScanContains(b, a, fail)

	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}

	return nil
}

func assertLookup(b *edb.EDB, a Assertion, fail func(string, string) error) error {
	e, err := ir.FromAny(a.E)
	if err != nil {
		return fmt.Errorf("entity: %w", err)
	}
	at, err := ir.FromAny(a.A)
	if err != nil {
		return fmt.Errorf("attribute: %w", err)
	}

	got, found := b.LookupValue(e, at)

	if a.Found != nil && !*a.Found {
		if found {
			return fail(
				fmt.Sprintf("no value for %s %s", ir.FormatLiteral(e), ir.FormatLiteral(at)),
				ir.FormatLiteral(got))
		}
		return nil
	}

	want, err := ir.FromAny(a.Value)
	if err != nil {
		return fmt.Errorf("value: %w", err)
	}
	if !found {
		return fail(ir.FormatLiteral(want), "no value")
	}
	if !ir.Equal(want, got) {
		return fail(
			fmt.Sprintf("%s (%s)", ir.FormatLiteral(want), ir.Kind(want)),
			fmt.Sprintf("%s (%s)", ir.FormatLiteral(got), ir.Kind(got)))
	}
	return nil
}

func assertScanContains(b *edb.EDB, a Assertion, fail func(string, string) error) error {
	facts, err := runQuery(b, a.Query)
	if err != nil {
		return err
	}
	e, at, v, err := convertTriple(a.E, a.A, a.V)
	if err != nil {
		return err
	}

	for _, f := range facts {
		if !ir.Equal(f.E, e) || !ir.Equal(f.A, at) || !ir.Equal(f.V, v) {
			continue
		}
		if a.Count == nil || f.M == *a.Count {
			return nil
		}
	}

	want := formatTriple(e, at, v)
	if a.Count != nil {
		want = fmt.Sprintf("%s x%d", want, *a.Count)
	}
	return fail(
		fmt.Sprintf("%q yields %s", a.Query, want),
		formatFacts(facts))
}

func runQuery(b *edb.EDB, text string) ([]edb.Fact, error) {
	q, err := query.Parse(text)
	if err != nil {
		return nil, err
	}
	return q.Run(b)
}

func formatTriple(e, a, v ir.Value) string {
	return ir.FormatLiteral(e) + " " + ir.FormatLiteral(a) + " " + ir.FormatLiteral(v)
}

func formatFacts(facts []edb.Fact) string {
	if len(facts) == 0 {
		return "(none)"
	}
	parts := make([]string, len(facts))
	for i, f := range facts {
		parts[i] = fmt.Sprintf("%s x%d", formatTriple(f.E, f.A, f.V), f.M)
	}
	return strings.Join(parts, ", ")
}
