package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/eavstore/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string

	// Set by the root PersistentPreRunE before any command runs.
	Config *config.Config
	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{config.FormatText, config.FormatJSON}

// NewRootCommand creates the root command for the eavstore CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eavstore",
		Short: "eavstore - federated entity/attribute/value fact stores",
		Long: `Build in-memory triple stores from scenario files and inspect them.

Stores hold (entity, attribute, value) facts with signed multiplicities,
indexed both entity-first and attribute-first, and can federate over other
stores. Scenarios declare stores, apply inserts, and assert on the result.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(opts, cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", config.FormatText, "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default ~/.config/eavstore/config.yaml)")

	// Add subcommands
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewDumpCommand(opts))
	cmd.AddCommand(NewScanCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))

	return cmd
}

// setup loads configuration, resolves the output format and builds the
// logger. Flags set on the command line win over config values.
func setup(opts *RootOptions, cmd *cobra.Command) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, ErrCodeLoadFailed, "failed to load config", err)
	}
	opts.Config = cfg

	if !cmd.Flags().Changed("format") {
		opts.Format = cfg.Format
	}
	if !isValidFormat(opts.Format) {
		return NewExitError(ExitCommandError, ErrCodeGeneric,
			fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
	}

	level := cfg.SlogLevel()
	if opts.Verbose {
		level = slog.LevelDebug
	}
	opts.Logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	return nil
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// Main runs the CLI with args and returns the process exit code.
// Errors are reported on stderr in the selected format.
func Main(args []string, stdout, stderr io.Writer) int {
	opts := &RootOptions{}
	cmd := newRootCommand(opts)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	format := opts.Format
	if !isValidFormat(format) {
		format = config.FormatText
	}
	out := &OutputFormatter{Format: format, Writer: stderr, Verbose: opts.Verbose}
	_ = out.Error(GetErrCode(err), err.Error(), nil)

	return GetExitCode(err)
}

// formatter returns the output formatter for a command invocation.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// logger returns the configured logger, or a discard logger when the
// command runs without the root pre-run (as in unit tests).
func (o *RootOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
