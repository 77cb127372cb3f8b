package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/roach88/eavstore/internal/ir"
	"github.com/roach88/eavstore/internal/query"
	"github.com/roach88/eavstore/internal/snapshot"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Database string
	Stores   []string
	Query    string
}

// ExportedStore describes one store written to the snapshot.
type ExportedStore struct {
	Name     string   `json:"name"`
	ID       string   `json:"id"`
	Size     int      `json:"size"`
	Live     int      `json:"live"`
	Includes []string `json:"includes"`
}

// ExportedRow is a fact read back from the snapshot by --query.
type ExportedRow struct {
	Store string `json:"store"`
	E     any    `json:"e"`
	A     any    `json:"a"`
	V     any    `json:"v"`
	M     int    `json:"m"`

	text string
}

// ExportResult holds the export command output.
type ExportResult struct {
	Database string          `json:"database"`
	Stores   []ExportedStore `json:"stores"`
	Query    string          `json:"query,omitempty"`
	Rows     []ExportedRow   `json:"rows,omitempty"`
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export <scenario-file>",
		Short: "Write stores to a sqlite snapshot",
		Long: `Build a scenario and write its stores, with everything they include,
to a sqlite snapshot. Re-exporting a store replaces its previous rows.

The snapshot is for inspection only. --query reads facts back with a triple
pattern; unlike scan, every pattern shape is accepted.

Examples:
  eavstore export people.yaml --db facts.db
  eavstore export people.yaml --store people
  eavstore export people.yaml --query "? ? 30"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default from config)")
	cmd.Flags().StringSliceVar(&opts.Stores, "store", nil, "store to export with its includes (repeatable, default all)")
	cmd.Flags().StringVar(&opts.Query, "query", "", "triple pattern to read back after writing")

	return cmd
}

func runExport(opts *ExportOptions, path string, cmd *cobra.Command) error {
	ctx := context.Background()

	dbPath := opts.Database
	if dbPath == "" && opts.Config != nil {
		dbPath = opts.Config.DB
	}
	if dbPath == "" {
		return NewExitError(ExitCommandError, ErrCodeGeneric, "no database path: pass --db or set db in config")
	}

	var q *query.Query
	if opts.Query != "" {
		parsed, err := query.Parse(opts.Query)
		if err != nil {
			return WrapExitError(ExitCommandError, ErrCodeQuery, "invalid query", err)
		}
		q = &parsed
	}

	_, result, err := buildScenario(opts.RootOptions, path)
	if err != nil {
		return err
	}
	_, stores, err := selectStores(result, opts.Stores)
	if err != nil {
		return err
	}

	snap, err := snapshot.Open(dbPath)
	if err != nil {
		return WrapExitError(ExitCommandError, ErrCodeSnapshot, "failed to open database", err)
	}
	defer snap.Close()

	names := result.Registry.NameMap()
	written := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, b := range stores {
		if err := snap.WriteFederation(ctx, b, names); err != nil {
			return WrapExitError(ExitCommandError, ErrCodeSnapshot, "failed to write snapshot", err)
		}
		for _, fb := range snapshot.Federation(b) {
			if !written[fb.ID()] {
				written[fb.ID()] = true
				ids = append(ids, fb.ID())
			}
		}
	}
	opts.logger().Info("snapshot written", "db", dbPath, "stores", len(ids))

	infos, err := snap.ListStores(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, ErrCodeSnapshot, "failed to list stores", err)
	}

	out := ExportResult{Database: dbPath, Stores: []ExportedStore{}}
	for _, info := range infos {
		if !written[info.ID] {
			continue
		}
		incs := make([]string, len(info.Includes))
		for i, id := range info.Includes {
			incs[i] = storeLabel(names, id)
		}
		out.Stores = append(out.Stores, ExportedStore{
			Name:     info.Name,
			ID:       info.ID.String(),
			Size:     info.Size,
			Live:     info.Live,
			Includes: incs,
		})
	}

	if q != nil {
		rows, err := snap.Scan(ctx, *q, ids...)
		if err != nil {
			return WrapExitError(ExitCommandError, ErrCodeSnapshot, "failed to query snapshot", err)
		}
		out.Query = q.String()
		out.Rows = make([]ExportedRow, len(rows))
		for i, r := range rows {
			out.Rows[i] = ExportedRow{
				Store: storeLabel(names, r.Store),
				E:     jsonValue(r.E),
				A:     jsonValue(r.A),
				V:     jsonValue(r.V),
				M:     r.M,
				text:  fmt.Sprintf("%s: %s %s %s x%d", storeLabel(names, r.Store),
					ir.FormatLiteral(r.E), ir.FormatLiteral(r.A), ir.FormatLiteral(r.V), r.M),
			}
		}
	}

	formatter := opts.formatter(cmd)
	if opts.Format == "json" {
		return formatter.Success(out)
	}
	return formatter.Success(exportText(out))
}

func storeLabel(names map[uuid.UUID]string, id uuid.UUID) string {
	if name, ok := names[id]; ok {
		return name
	}
	return id.String()
}

func exportText(out ExportResult) string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Exported %d store(s) to %s\n", len(out.Stores), out.Database)
	for _, s := range out.Stores {
		fmt.Fprintf(&buf, "  %s size=%d live=%d", s.Name, s.Size, s.Live)
		if len(s.Includes) > 0 {
			fmt.Fprintf(&buf, " includes=%s", strings.Join(s.Includes, ","))
		}
		buf.WriteByte('\n')
	}
	if out.Query != "" {
		fmt.Fprintf(&buf, "\nQuery %s: %d row(s)\n", out.Query, len(out.Rows))
		for _, r := range out.Rows {
			fmt.Fprintf(&buf, "  %s\n", r.text)
		}
	}
	return strings.TrimRight(buf.String(), "\n")
}
