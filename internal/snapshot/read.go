package snapshot

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/eavstore/internal/edb"
	"github.com/roach88/eavstore/internal/ir"
	"github.com/roach88/eavstore/internal/query"
	"github.com/roach88/eavstore/internal/querysql"
)

// Row is a fact read back from a snapshot together with its owning store.
type Row struct {
	Store uuid.UUID
	edb.Fact
}

// StoreInfo describes one written store.
type StoreInfo struct {
	ID       uuid.UUID
	Name     string
	Size     int
	Live     int
	Includes []uuid.UUID
}

// Scan runs q against the snapshot, restricted to stores when given.
// Every query shape is accepted, including those edb cannot index.
//
// Returns an empty slice (not nil) when nothing matches.
func (s *Snapshot) Scan(ctx context.Context, q query.Query, stores ...uuid.UUID) ([]Row, error) {
	sqlText, params, err := querysql.NewSQLCompiler(stores...).Compile(q)
	if err != nil {
		return nil, fmt.Errorf("scan snapshot: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, sqlText, params...)
	if err != nil {
		return nil, fmt.Errorf("scan snapshot: %w", err)
	}
	defer rows.Close()

	out := []Row{}
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate facts: %w", err)
	}
	return out, nil
}

// scanRow decodes one row in querysql.Columns order.
func scanRow(rows *sql.Rows) (Row, error) {
	var (
		storeID, eKind, e, aKind, a, vKind, v, prov string
		m                                           int
	)
	if err := rows.Scan(&storeID, &eKind, &e, &aKind, &a, &vKind, &v, &m, &prov); err != nil {
		return Row{}, fmt.Errorf("scan fact: %w", err)
	}

	var r Row
	var err error
	if r.Store, err = uuid.Parse(storeID); err != nil {
		return Row{}, fmt.Errorf("decode store id: %w", err)
	}
	if r.E, err = ir.Decode(eKind, e); err != nil {
		return Row{}, fmt.Errorf("decode entity: %w", err)
	}
	if r.A, err = ir.Decode(aKind, a); err != nil {
		return Row{}, fmt.Errorf("decode attribute: %w", err)
	}
	if r.V, err = ir.Decode(vKind, v); err != nil {
		return Row{}, fmt.Errorf("decode value: %w", err)
	}
	if r.Provenance, err = uuid.Parse(prov); err != nil {
		return Row{}, fmt.Errorf("decode provenance: %w", err)
	}
	r.M = m
	return r, nil
}

// ListStores returns every written store ordered by name, then id.
func (s *Snapshot) ListStores(ctx context.Context) ([]StoreInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, size, live
		FROM stores
		ORDER BY name COLLATE BINARY ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query stores: %w", err)
	}
	defer rows.Close()

	out := []StoreInfo{}
	for rows.Next() {
		var info StoreInfo
		var id string
		if err := rows.Scan(&id, &info.Name, &info.Size, &info.Live); err != nil {
			return nil, fmt.Errorf("scan store: %w", err)
		}
		if info.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("decode store id: %w", err)
		}
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stores: %w", err)
	}
	rows.Close()

	for i := range out {
		incs, err := s.readIncludes(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Includes = incs
	}
	return out, nil
}

func (s *Snapshot) readIncludes(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT include_id
		FROM store_includes
		WHERE store_id = ?
		ORDER BY position ASC
	`, id.String())
	if err != nil {
		return nil, fmt.Errorf("query includes: %w", err)
	}
	defer rows.Close()

	out := []uuid.UUID{}
	for rows.Next() {
		var inc string
		if err := rows.Scan(&inc); err != nil {
			return nil, fmt.Errorf("scan include: %w", err)
		}
		u, err := uuid.Parse(inc)
		if err != nil {
			return nil, fmt.Errorf("decode include id: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate includes: %w", err)
	}
	return out, nil
}
