package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/eavstore/internal/ir"
	"github.com/roach88/eavstore/internal/query"
)

// ScanOptions holds flags for the scan command.
type ScanOptions struct {
	*RootOptions
	Store string
	Local bool
}

// FactOutput is a fact in JSON output. Values keep their JSON kind, and
// Kinds records the identifier kind of each position.
type FactOutput struct {
	E          any      `json:"e"`
	A          any      `json:"a"`
	V          any      `json:"v"`
	Kinds      []string `json:"kinds"`
	M          int      `json:"m"`
	Provenance string   `json:"provenance"`
}

// ScanResult holds the scan command output.
type ScanResult struct {
	Store     string       `json:"store"`
	Query     string       `json:"query"`
	Signature string       `json:"signature"`
	Facts     []FactOutput `json:"facts"`
}

// NewScanCommand creates the scan command.
func NewScanCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScanOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "scan <scenario-file> <e> <a> <v>",
		Short: "Query a store with a triple pattern",
		Long: `Build a scenario and scan one store with a triple pattern.

Use ? or _ for a free position. Bound terms are typed like scenario scalars:
integers, true/false and canonical UUIDs are parsed, everything else is a
string. Quote a term ("30") to force a string. Patterns binding only the
value, or the entity and value, are not supported.

The scan is federated: included stores are visited first, in include order.
Use --local to restrict it to the store's own facts.

Examples:
  eavstore scan people.yaml --store people alice ? ?
  eavstore scan people.yaml --store people ? age 30
  eavstore scan people.yaml --store people ? age ? --format json`,
		Args:          cobra.ExactArgs(4),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Store, "store", "", "store to scan (required)")
	_ = cmd.MarkFlagRequired("store")
	cmd.Flags().BoolVar(&opts.Local, "local", false, "skip included stores")

	return cmd
}

func runScan(opts *ScanOptions, args []string, cmd *cobra.Command) error {
	q, err := query.ParseTerms(args[1], args[2], args[3])
	if err != nil {
		return WrapExitError(ExitCommandError, ErrCodeQuery, "invalid query", err)
	}
	if err := q.Validate(); err != nil {
		return WrapExitError(ExitCommandError, ErrCodeQuery, "invalid query", err)
	}

	_, result, err := buildScenario(opts.RootOptions, args[0])
	if err != nil {
		return err
	}
	_, stores, err := selectStores(result, []string{opts.Store})
	if err != nil {
		return err
	}
	b := stores[0]

	out := ScanResult{
		Store:     opts.Store,
		Query:     q.String(),
		Signature: q.Sig().String(),
		Facts:     []FactOutput{},
	}

	seq := b.Scan(q.Sig(), q.E, q.A, q.V)
	if opts.Local {
		seq = b.LocalScan(q.Sig(), q.E, q.A, q.V)
	}

	var lines []string
	for f := range seq {
		out.Facts = append(out.Facts, FactOutput{
			E:          jsonValue(f.E),
			A:          jsonValue(f.A),
			V:          jsonValue(f.V),
			Kinds:      []string{ir.Kind(f.E), ir.Kind(f.A), ir.Kind(f.V)},
			M:          f.M,
			Provenance: f.Provenance.String(),
		})
		lines = append(lines, fmt.Sprintf("%s %s %s x%d",
			ir.FormatLiteral(f.E), ir.FormatLiteral(f.A), ir.FormatLiteral(f.V), f.M))
	}

	formatter := opts.formatter(cmd)
	if opts.Format == "json" {
		return formatter.Success(out)
	}

	w := cmd.OutOrStdout()
	formatter.VerboseLog("scan %s on %s (signature %s)", out.Query, out.Store, out.Signature)
	if len(lines) == 0 {
		fmt.Fprintln(w, "(no facts)")
		return nil
	}
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
	return nil
}

// jsonValue unwraps an identifier into its plain JSON value.
func jsonValue(v ir.Value) any {
	switch val := v.(type) {
	case ir.String:
		return string(val)
	case ir.Int:
		return int64(val)
	case ir.Bool:
		return bool(val)
	default:
		return v.String()
	}
}
