package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/eavstore/internal/harness"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Update    bool   // regenerate golden files
	Filter    string // scenario filter (glob pattern)
	GoldenDir string // directory holding <scenario name>.golden files
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name   string   `json:"name"`
	File   string   `json:"file"`
	Pass   bool     `json:"pass"`
	Golden string   `json:"golden,omitempty"` // "match", "updated" or "" when no golden file exists
	Errors []string `json:"errors,omitempty"`
}

// RunResult holds the overall result.
type RunResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario-file-or-dir>...",
		Short: "Run scenarios and check their assertions",
		Long: `Run scenario files, evaluating every assertion.

Directories are searched recursively for .yaml and .yml files. When a golden
file named after the scenario exists, the canonical trace and store snapshot
must match it byte for byte.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  eavstore run ./scenarios
  eavstore run ./scenarios --filter "people*"
  eavstore run ./scenarios --update
  eavstore run people.yaml --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern on the file name")
	cmd.Flags().StringVar(&opts.GoldenDir, "golden-dir", "", "golden file directory (default <scenario dir>/golden)")

	return cmd
}

func runScenarios(opts *RunOptions, paths []string, cmd *cobra.Command) error {
	var files []string
	for _, p := range paths {
		found, err := findScenarioFiles(p, opts.Filter)
		if err != nil {
			return err
		}
		files = append(files, found...)
	}

	out := opts.formatter(cmd)

	if len(files) == 0 {
		if opts.Format == "json" {
			return out.Success(RunResult{Scenarios: []ScenarioResult{}})
		}
		return out.Success("No scenarios found.")
	}

	result := RunResult{
		Scenarios: make([]ScenarioResult, 0, len(files)),
		Total:     len(files),
	}

	for _, file := range files {
		sr := runOne(opts, file)
		result.Scenarios = append(result.Scenarios, sr)
		if sr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
		if opts.Format != "json" {
			writeScenarioText(cmd, sr)
		}
	}

	summary := fmt.Sprintf("Summary: %d passed, %d failed, %d total", result.Passed, result.Failed, result.Total)

	if result.Failed > 0 {
		msg := fmt.Sprintf("%d scenario(s) failed", result.Failed)
		if opts.Format == "json" {
			if err := out.Failure(result, ErrCodeRunFailed, msg); err != nil {
				return err
			}
		} else {
			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout(), summary)
		}
		return NewExitError(ExitFailure, ErrCodeRunFailed, msg)
	}

	if opts.Format == "json" {
		return out.Success(result)
	}
	fmt.Fprintln(cmd.OutOrStdout())
	return out.Success(summary)
}

// findScenarioFiles returns path itself when it is a file, or every YAML
// scenario below it when it is a directory.
func findScenarioFiles(path, filter string) ([]string, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, NewExitError(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("path not found: %s", path))
	}
	if err != nil {
		return nil, WrapExitError(ExitCommandError, ErrCodeGeneric, "failed to stat path", err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := filepath.Ext(p)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		if filter != "" {
			name := strings.TrimSuffix(d.Name(), ext)
			matched, err := filepath.Match(filter, name)
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}

		files = append(files, p)
		return nil
	})
	if err != nil {
		return nil, WrapExitError(ExitCommandError, ErrCodeGeneric, "failed to find scenarios", err)
	}
	return files, nil
}

// runOne executes a single scenario and checks its golden file.
func runOne(opts *RunOptions, file string) ScenarioResult {
	sr := ScenarioResult{Name: filepath.Base(file), File: file}

	scenario, err := harness.LoadScenario(file)
	if err != nil {
		sr.Errors = []string{fmt.Sprintf("failed to load scenario: %v", err)}
		return sr
	}
	sr.Name = scenario.Name

	result, err := harness.Run(scenario, harness.WithLogger(opts.logger()))
	if err != nil {
		sr.Errors = []string{fmt.Sprintf("execution failed: %v", err)}
		return sr
	}
	sr.Errors = result.Errors

	status, err := checkGolden(opts, file, scenario, result)
	if err != nil {
		sr.Errors = append(sr.Errors, err.Error())
		return sr
	}
	sr.Golden = status
	sr.Pass = result.Pass
	return sr
}

// checkGolden compares (or with --update, rewrites) the golden snapshot.
// Returns "" when no golden file exists and no update was requested.
func checkGolden(opts *RunOptions, file string, scenario *harness.Scenario, result *harness.Result) (string, error) {
	path := goldenFilePath(opts.GoldenDir, file, scenario.Name)

	current, err := harness.MarshalSnapshot(scenario.Name, result)
	if err != nil {
		return "", fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if opts.Update {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return "", fmt.Errorf("failed to create golden directory: %w", err)
		}
		if err := os.WriteFile(path, current, 0644); err != nil {
			return "", fmt.Errorf("failed to write golden file: %w", err)
		}
		return "updated", nil
	}

	golden, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read golden file: %w", err)
	}
	if !bytes.Equal(golden, current) {
		return "", fmt.Errorf("snapshot does not match golden file %s (run with --update to regenerate)", path)
	}
	return "match", nil
}

// goldenFilePath returns the golden file for a scenario.
func goldenFilePath(goldenDir, scenarioFile, name string) string {
	if goldenDir == "" {
		goldenDir = filepath.Join(filepath.Dir(scenarioFile), "golden")
	}
	return filepath.Join(goldenDir, name+".golden")
}

func writeScenarioText(cmd *cobra.Command, sr ScenarioResult) {
	w := cmd.OutOrStdout()
	if sr.Pass {
		switch sr.Golden {
		case "updated":
			fmt.Fprintf(w, "PASS %s (golden updated)\n", sr.Name)
		case "match":
			fmt.Fprintf(w, "PASS %s (golden match)\n", sr.Name)
		default:
			fmt.Fprintf(w, "PASS %s\n", sr.Name)
		}
		return
	}
	fmt.Fprintf(w, "FAIL %s\n", sr.Name)
	for _, e := range sr.Errors {
		for _, line := range strings.Split(strings.TrimRight(e, "\n"), "\n") {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
}
