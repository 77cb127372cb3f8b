package snapshot

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/eavstore/internal/edb"
	"github.com/roach88/eavstore/internal/ir"
)

// WriteStore replaces the snapshot rows of b with its current live local
// facts. Included stores are referenced by id but not written.
func (s *Snapshot) WriteStore(ctx context.Context, b *edb.EDB, name string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return writeStore(ctx, tx, b, name)
	})
}

// WriteFederation writes b and every store reachable through its includes,
// each exactly once, in one transaction. names supplies the display name per
// store id; missing entries are written with an empty name.
func (s *Snapshot) WriteFederation(ctx context.Context, b *edb.EDB, names map[uuid.UUID]string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, store := range Federation(b) {
			if err := writeStore(ctx, tx, store, names[store.ID()]); err != nil {
				return err
			}
		}
		return nil
	})
}

// Federation lists b and its transitive includes, depth-first, each store
// once, includes before the stores that include them.
func Federation(b *edb.EDB) []*edb.EDB {
	seen := make(map[*edb.EDB]bool)
	var out []*edb.EDB
	var walk func(*edb.EDB)
	walk = func(n *edb.EDB) {
		if seen[n] {
			return
		}
		seen[n] = true
		for _, inc := range n.Includes() {
			walk(inc)
		}
		out = append(out, n)
	}
	walk(b)
	return out
}

func (s *Snapshot) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

func writeStore(ctx context.Context, tx *sql.Tx, b *edb.EDB, name string) error {
	id := b.ID().String()

	for _, clear := range []string{
		`DELETE FROM facts WHERE store_id = ?`,
		`DELETE FROM store_includes WHERE store_id = ?`,
		`DELETE FROM stores WHERE id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, clear, id); err != nil {
			return fmt.Errorf("write store %s: clear: %w", id, err)
		}
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO stores (id, name, size, live)
		VALUES (?, ?, ?, ?)
	`, id, name, b.Size(), b.Live())
	if err != nil {
		return fmt.Errorf("write store %s: %w", id, err)
	}

	for pos, inc := range b.Includes() {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO store_includes (store_id, position, include_id)
			VALUES (?, ?, ?)
		`, id, pos, inc.ID().String())
		if err != nil {
			return fmt.Errorf("write store %s: include %d: %w", id, pos, err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO facts (store_id, id, e_kind, e, a_kind, a, v_kind, v, m, provenance)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("write store %s: prepare: %w", id, err)
	}
	defer stmt.Close()

	for f := range b.LocalScan(edb.Sigeav, nil, nil, nil) {
		factID, err := ir.FactID(f.E, f.A, f.V)
		if err != nil {
			return fmt.Errorf("write store %s: fact %v: %w", id, f, err)
		}
		_, err = stmt.ExecContext(ctx,
			id,
			factID,
			ir.Kind(f.E), f.E.String(),
			ir.Kind(f.A), f.A.String(),
			ir.Kind(f.V), f.V.String(),
			f.M,
			f.Provenance.String(),
		)
		if err != nil {
			return fmt.Errorf("write store %s: fact %v: %w", id, f, err)
		}
	}

	return nil
}
