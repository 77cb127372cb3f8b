package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const peopleScenario = "testdata/scenarios/people.yaml"

// isolate keeps a developer's config file and EAVSTORE_* variables out of
// the test.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, name := range []string{"EAVSTORE_FORMAT", "EAVSTORE_LOG_LEVEL", "EAVSTORE_DB"} {
		// Setenv registers the restore; an empty value would still override
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
}

// execute runs the CLI and returns stdout, stderr and the exit code.
func execute(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	isolate(t)
	var stdout, stderr bytes.Buffer
	code := Main(args, &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

// copyScenario copies a testdata scenario into dir.
func copyScenario(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "scenarios", name))
	require.NoError(t, err)
	dst := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(dst, data, 0644))
	return dst
}
