package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/eavstore/internal/ir"
)

// Snapshot captures a scenario's trace and final store state.
// It serializes through ir.MarshalCanonical for deterministic comparison.
type Snapshot struct {
	ScenarioName string
	Trace        []TraceEvent
	Stores       map[string]StoreState
}

// toCanonicalMap converts a Snapshot to a map[string]any for canonical JSON
// serialization, since ir.MarshalCanonical only handles identifiers and
// primitives.
func (s *Snapshot) toCanonicalMap() map[string]any {
	traceList := make([]any, len(s.Trace))
	for i, ev := range s.Trace {
		traceList[i] = map[string]any{
			"seq":        ev.Seq,
			"store":      ev.Store,
			"e":          ev.E,
			"a":          ev.A,
			"v":          ev.V,
			"delta":      ev.Delta,
			"provenance": ev.Provenance,
		}
	}

	stores := make(map[string]any, len(s.Stores))
	for name, st := range s.Stores {
		stores[name] = map[string]any{
			"size": st.Size,
			"live": st.Live,
			"dump": st.Dump,
		}
	}

	return map[string]any{
		"scenario_name": s.ScenarioName,
		"trace":         traceList,
		"stores":        stores,
	}
}

// MarshalSnapshot renders the canonical JSON snapshot of a result.
func MarshalSnapshot(name string, result *Result) ([]byte, error) {
	snap := Snapshot{
		ScenarioName: name,
		Trace:        result.Trace,
		Stores:       result.Stores,
	}
	return ir.MarshalCanonical(snap.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an already computed result against a golden file.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := MarshalSnapshot(name, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)

	return nil
}
