package harness

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/eavstore/internal/ir"
	"github.com/roach88/eavstore/internal/testutil"
)

func intPtr(n int) *int { return &n }

func boolPtr(b bool) *bool { return &b }

func TestRun_Scenarios(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			scenario, err := LoadScenario(path)
			require.NoError(t, err)

			result, err := Run(scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
			assert.Empty(t, result.Errors)
		})
	}
}

func TestBuild_TraceAndProvenance(t *testing.T) {
	scenario := &Scenario{
		Name:   "trace",
		Stores: []StoreDecl{{Name: "s"}},
		Steps: []Step{
			{Insert: &InsertStep{Store: "s", E: "alice", A: "age", V: 30}},
			{Insert: &InsertStep{Store: "s", E: "alice", A: "age", V: 30, M: intPtr(-1)}},
			{Insert: &InsertStep{
				Store: "s", E: "bob", A: "age", V: 25, M: intPtr(4),
				Provenance: "00000000-0000-0000-0000-0000000000ff",
			}},
		},
	}

	result, err := Build(scenario)
	require.NoError(t, err)
	require.Len(t, result.Trace, 3)

	// Store s consumes sequence 1; default provenance continues from 2
	assert.Equal(t, int64(1), result.Trace[0].Seq)
	assert.Equal(t, testutil.SequenceID(2).String(), result.Trace[0].Provenance)
	assert.Equal(t, 1, result.Trace[0].Delta)
	assert.Equal(t, ir.Int(30), result.Trace[0].V)

	assert.Equal(t, testutil.SequenceID(3).String(), result.Trace[1].Provenance)
	assert.Equal(t, -1, result.Trace[1].Delta)

	assert.Equal(t, "00000000-0000-0000-0000-0000000000ff", result.Trace[2].Provenance)
	assert.Equal(t, 4, result.Trace[2].Delta)

	state := result.Stores["s"]
	assert.Equal(t, 2, state.Size)
	assert.Equal(t, 1, state.Live)
	assert.Equal(t, "bob age 25\n", state.Dump)

	b := result.Registry.MustGet("s")
	assert.Equal(t, testutil.SequenceID(1), b.ID())
}

func TestBuild_ProvenanceSource(t *testing.T) {
	tag := testutil.SequenceID(0xbeef)
	scenario := &Scenario{
		Name:   "fixed",
		Stores: []StoreDecl{{Name: "s"}},
		Steps: []Step{
			{Insert: &InsertStep{Store: "s", E: "a", A: "n", V: 1}},
			{Insert: &InsertStep{Store: "s", E: "b", A: "n", V: 2}},
		},
	}

	result, err := Build(scenario, WithProvenanceSource(testutil.NewFixedSource(tag)))
	require.NoError(t, err)
	require.Len(t, result.Trace, 2)
	for _, ev := range result.Trace {
		assert.Equal(t, tag.String(), ev.Provenance)
	}

	leaf, ok := result.Registry.MustGet("s").Leaf(ir.String("b"), ir.String("n"), ir.Int(2))
	require.True(t, ok)
	assert.Equal(t, tag, leaf.Provenance)
}

func TestBuild_Deterministic(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/federated_people.yaml")
	require.NoError(t, err)

	first, err := Build(scenario)
	require.NoError(t, err)
	second, err := Build(scenario)
	require.NoError(t, err)

	a, err := MarshalSnapshot(scenario.Name, first)
	require.NoError(t, err)
	b, err := MarshalSnapshot(scenario.Name, second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestBuild_IncludeCycleFails(t *testing.T) {
	scenario := &Scenario{
		Name: "cycle",
		Stores: []StoreDecl{
			{Name: "a"},
			{Name: "b", Includes: []string{"a"}},
		},
		Steps: []Step{
			{Include: &IncludeStep{Store: "a", Other: "b"}},
		},
	}

	_, err := Build(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 0")
}

func TestBuild_BadProvenance(t *testing.T) {
	scenario := &Scenario{
		Name:   "bad",
		Stores: []StoreDecl{{Name: "s"}},
		Steps: []Step{
			{Insert: &InsertStep{Store: "s", E: "e", A: "a", V: "v", Provenance: "not-a-uuid"}},
		},
	}

	_, err := Build(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provenance")
}

func TestBuild_RejectsFloat(t *testing.T) {
	scenario := &Scenario{
		Name:   "float",
		Stores: []StoreDecl{{Name: "s"}},
		Steps: []Step{
			{Insert: &InsertStep{Store: "s", E: "e", A: "a", V: 1.5}},
		},
	}

	_, err := Build(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "value")
}

func TestRun_FailingAssertionsReported(t *testing.T) {
	scenario := &Scenario{
		Name:   "failing",
		Stores: []StoreDecl{{Name: "s"}},
		Steps: []Step{
			{Insert: &InsertStep{Store: "s", E: "alice", A: "age", V: 30}},
		},
		Assertions: []Assertion{
			{Type: AssertSize, Store: "s", Count: intPtr(1)},
			{Type: AssertLive, Store: "s", Count: intPtr(7)},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "assertion[1]")
	assert.Contains(t, result.Errors[0], "live = 7")
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	scenario := &Scenario{
		Name:   "logged",
		Stores: []StoreDecl{{Name: "s"}, {Name: "t"}},
		Steps: []Step{
			{Insert: &InsertStep{Store: "s", E: "e", A: "a", V: "v"}},
			{Include: &IncludeStep{Store: "t", Other: "s"}},
		},
	}

	_, err := Build(scenario, WithLogger(logger))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "insert applied")
	assert.Contains(t, buf.String(), "include applied")
}
