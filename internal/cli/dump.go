package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// DumpOptions holds flags for the dump command.
type DumpOptions struct {
	*RootOptions
	Stores []string
}

// StoreDump is one store's listing.
type StoreDump struct {
	Store string `json:"store"`
	ID    string `json:"id"`
	Size  int    `json:"size"`
	Live  int    `json:"live"`
	Dump  string `json:"dump"`
}

// NewDumpCommand creates the dump command.
func NewDumpCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DumpOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "dump <scenario-file>",
		Short: "Print the local facts of each store",
		Long: `Build a scenario and print every store's local facts, grouped by
entity and attribute. Federated facts are not shown; dump the included store
instead.

Examples:
  eavstore dump people.yaml
  eavstore dump people.yaml --store people
  eavstore dump people.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Stores, "store", nil, "store to dump (repeatable, default all)")

	return cmd
}

func runDump(opts *DumpOptions, path string, cmd *cobra.Command) error {
	_, result, err := buildScenario(opts.RootOptions, path)
	if err != nil {
		return err
	}

	names, stores, err := selectStores(result, opts.Stores)
	if err != nil {
		return err
	}

	dumps := make([]StoreDump, len(stores))
	for i, b := range stores {
		dumps[i] = StoreDump{
			Store: names[i],
			ID:    b.ID().String(),
			Size:  b.Size(),
			Live:  b.Live(),
			Dump:  b.Dump(),
		}
	}

	out := opts.formatter(cmd)
	if opts.Format == "json" {
		return out.Success(dumps)
	}

	var buf strings.Builder
	for i, d := range dumps {
		if i > 0 {
			buf.WriteByte('\n')
		}
		fmt.Fprintf(&buf, "== %s (size %d, live %d) ==\n", d.Store, d.Size, d.Live)
		if opts.Verbose {
			fmt.Fprintf(&buf, "id: %s\n", d.ID)
		}
		if d.Dump == "" {
			buf.WriteString("(empty)\n")
			continue
		}
		buf.WriteString(d.Dump)
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), buf.String())
	return err
}
