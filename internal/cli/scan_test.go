package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanCommand_Text(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "attribute and value bound",
			args: []string{"?", "age", "30"},
			want: "alice age 30 x1\ncarol age 30 x2\n",
		},
		{
			name: "entity bound visits includes first",
			args: []string{"alice", "_", "?"},
			want: "alice name Alice x1\nalice age 30 x1\n",
		},
		{
			name: "string value does not match int",
			args: []string{"?", "age", `"30"`},
			want: "(no facts)\n",
		},
		{
			name: "retracted fact is gone",
			args: []string{"bob", "age", "25"},
			want: "(no facts)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"scan", peopleScenario, "--store", "people"}, tt.args...)
			stdout, stderr, code := execute(t, args...)
			require.Equal(t, ExitSuccess, code, stderr)
			assert.Equal(t, tt.want, stdout)
		})
	}
}

func TestScanCommand_Local(t *testing.T) {
	stdout, _, code := execute(t, "scan", peopleScenario, "--store", "people", "--local", "alice", "?", "?")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "alice age 30 x1\n", stdout)
}

func TestScanCommand_JSON(t *testing.T) {
	stdout, _, code := execute(t, "scan", peopleScenario, "--store", "people", "--format", "json", "carol", "age", "?")
	require.Equal(t, ExitSuccess, code)

	var resp struct {
		Status string     `json:"status"`
		Data   ScanResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "carol age ?", resp.Data.Query)
	assert.Equal(t, "EAv", resp.Data.Signature)
	require.Len(t, resp.Data.Facts, 1)

	f := resp.Data.Facts[0]
	assert.Equal(t, "carol", f.E)
	assert.Equal(t, float64(30), f.V)
	assert.Equal(t, []string{"string", "string", "int"}, f.Kinds)
	assert.Equal(t, 2, f.M)
	assert.NotEmpty(t, f.Provenance)
}

func TestScanCommand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"unsupported shape", []string{"scan", peopleScenario, "--store", "people", "?", "?", "30"}, "unsupported query shape"},
		{"entity and value only", []string{"scan", peopleScenario, "--store", "people", "alice", "?", "30"}, "E005"},
		{"missing store flag", []string{"scan", peopleScenario, "?", "age", "?"}, "store"},
		{"unknown store", []string{"scan", peopleScenario, "--store", "ghost", "?", "age", "?"}, "unknown store"},
		{"wrong arity", []string{"scan", peopleScenario, "--store", "people", "?", "age"}, "accepts 4 arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, code := execute(t, tt.args...)
			assert.Equal(t, ExitCommandError, code)
			assert.Contains(t, stderr, tt.wantErr)
		})
	}
}
