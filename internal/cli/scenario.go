package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/roach88/eavstore/internal/edb"
	"github.com/roach88/eavstore/internal/harness"
)

// buildScenario loads a scenario file and applies its steps. Assertions are
// not evaluated; inspection commands only need the resulting stores.
func buildScenario(opts *RootOptions, path string) (*harness.Scenario, *harness.Result, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, nil, NewExitError(ExitCommandError, ErrCodeNotFound,
			fmt.Sprintf("scenario file not found: %s", path))
	}

	scenario, err := harness.LoadScenario(path)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, ErrCodeLoadFailed, "failed to load scenario", err)
	}

	result, err := harness.Build(scenario, harness.WithLogger(opts.logger()))
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, ErrCodeBuildFailed,
			fmt.Sprintf("failed to build scenario %s", scenario.Name), err)
	}

	opts.logger().Debug("scenario built",
		"scenario", scenario.Name,
		"stores", result.Registry.Len(),
		"events", len(result.Trace),
	)
	return scenario, result, nil
}

// selectStores resolves --store flags against the built registry. An empty
// selection means every store in creation order.
func selectStores(result *harness.Result, names []string) ([]string, []*edb.EDB, error) {
	if len(names) == 0 {
		names = result.Registry.Names()
	}

	stores := make([]*edb.EDB, len(names))
	for i, name := range names {
		b, err := result.Registry.Get(name)
		if err != nil {
			return nil, nil, WrapExitError(ExitCommandError, ErrCodeNotFound, "unknown store", err)
		}
		stores[i] = b
	}
	return names, stores, nil
}
