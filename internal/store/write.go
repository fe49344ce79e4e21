package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/hyperpipe/internal/ir"
)

// WriteRun stores an aligned pipeline and returns its run ID.
//
// Runs are unique by pipeline digest. If the digest is already stored the
// existing run's ID is returned with inserted=false and nothing is written.
// The whole run is written in one transaction.
func (s *Store) WriteRun(ctx context.Context, source string, p *ir.Pipeline) (id string, inserted bool, err error) {
	if p == nil {
		return "", false, fmt.Errorf("write run: nil pipeline")
	}
	if err := p.Validate(); err != nil {
		return "", false, fmt.Errorf("write run: %w", err)
	}
	digest, err := ir.PipelineDigest(p)
	if err != nil {
		return "", false, fmt.Errorf("write run: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", false, fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	err = tx.QueryRowContext(ctx, `SELECT id FROM runs WHERE digest = ?`, digest).Scan(&id)
	switch {
	case err == nil:
		return id, false, nil
	case !errors.Is(err, sql.ErrNoRows):
		return "", false, fmt.Errorf("write run: lookup digest: %w", err)
	}

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(created_seq), 0) + 1 FROM runs`).Scan(&seq); err != nil {
		return "", false, fmt.Errorf("write run: next seq: %w", err)
	}

	id = s.ids.Generate()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, source, digest, entity_count, stage_count, created_seq, tool_version, format)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, id, source, digest, len(p.Entities), len(p.Stages), seq, ir.ToolVersion, ir.FormatVersion)
	if err != nil {
		return "", false, fmt.Errorf("write run: insert run: %w", err)
	}

	if err := insertEntities(ctx, tx, id, p.Entities); err != nil {
		return "", false, err
	}
	if err := insertStages(ctx, tx, id, p.Stages); err != nil {
		return "", false, err
	}
	if err := insertCells(ctx, tx, id, p.Cells); err != nil {
		return "", false, err
	}

	if err := tx.Commit(); err != nil {
		return "", false, fmt.Errorf("write run: commit: %w", err)
	}
	return id, true, nil
}

func insertEntities(ctx context.Context, tx *sql.Tx, runID string, entities []ir.EntityID) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO run_entities (run_id, col, entity) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("write run: prepare entities: %w", err)
	}
	defer stmt.Close()

	for col, e := range entities {
		if _, err := stmt.ExecContext(ctx, runID, col, string(e)); err != nil {
			return fmt.Errorf("write run: entity %q: %w", e, err)
		}
	}
	return nil
}

func insertStages(ctx context.Context, tx *sql.Tx, runID string, stages []ir.Stage) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO run_stages (run_id, pos, stage) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("write run: prepare stages: %w", err)
	}
	defer stmt.Close()

	for pos, st := range stages {
		if _, err := stmt.ExecContext(ctx, runID, pos, string(st)); err != nil {
			return fmt.Errorf("write run: stage %d: %w", pos, err)
		}
	}
	return nil
}

func insertCells(ctx context.Context, tx *sql.Tx, runID string, cells [][]ir.Snapshot) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_cells (run_id, pos, col, missing, properties)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("write run: prepare cells: %w", err)
	}
	defer stmt.Close()

	for pos, row := range cells {
		for col, snap := range row {
			missing, props, err := marshalSnapshot(snap)
			if err != nil {
				return fmt.Errorf("write run: cell (%d,%d): %w", pos, col, err)
			}
			if _, err := stmt.ExecContext(ctx, runID, pos, col, missing, props); err != nil {
				return fmt.Errorf("write run: cell (%d,%d): %w", pos, col, err)
			}
		}
	}
	return nil
}
