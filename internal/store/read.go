package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/hyperpipe/internal/ir"
)

// ReadRun loads a stored run with its full pipeline.
// Returns an error wrapping ErrRunNotFound if the ID is unknown.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	run := Run{ID: id}
	var entityCount, stageCount int
	err := s.db.QueryRowContext(ctx, `
		SELECT source, digest, entity_count, stage_count, created_seq, tool_version, format
		FROM runs
		WHERE id = ?
	`, id).Scan(&run.Source, &run.Digest, &entityCount, &stageCount, &run.Seq, &run.ToolVersion, &run.Format)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("read run %q: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run %q: %w", id, err)
	}

	p := &ir.Pipeline{
		Entities: make([]ir.EntityID, entityCount),
		Stages:   make([]ir.Stage, stageCount),
		Cells:    make([][]ir.Snapshot, stageCount),
	}
	for pos := range p.Cells {
		p.Cells[pos] = make([]ir.Snapshot, entityCount)
	}

	if err := s.readEntities(ctx, id, p); err != nil {
		return Run{}, err
	}
	if err := s.readStages(ctx, id, p); err != nil {
		return Run{}, err
	}
	if err := s.readCells(ctx, id, p); err != nil {
		return Run{}, err
	}

	if err := p.Validate(); err != nil {
		return Run{}, fmt.Errorf("read run %q: %w", id, err)
	}
	run.Pipeline = p
	return run, nil
}

// LatestRun loads the most recently written run.
// Returns an error wrapping ErrRunNotFound if the store is empty.
func (s *Store) LatestRun(ctx context.Context) (Run, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM runs
		ORDER BY created_seq DESC, id COLLATE BINARY DESC
		LIMIT 1
	`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("latest run: %w", ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("latest run: %w", err)
	}
	return s.ReadRun(ctx, id)
}

// ListRuns returns summaries of all runs in write order.
// Returns an empty slice (not nil) if the store is empty.
func (s *Store) ListRuns(ctx context.Context) ([]RunSummary, error) {
	return s.listRuns(ctx, `
		SELECT id, source, digest, entity_count, stage_count, created_seq
		FROM runs
		ORDER BY created_seq ASC, id COLLATE BINARY ASC
	`)
}

// RunsContaining returns summaries of runs whose pipeline has a column for
// the entity, in write order.
func (s *Store) RunsContaining(ctx context.Context, entity ir.EntityID) ([]RunSummary, error) {
	return s.listRuns(ctx, `
		SELECT r.id, r.source, r.digest, r.entity_count, r.stage_count, r.created_seq
		FROM runs r
		JOIN run_entities e ON e.run_id = r.id
		WHERE e.entity = ?
		ORDER BY r.created_seq ASC, r.id COLLATE BINARY ASC
	`, string(entity))
}

func (s *Store) listRuns(ctx context.Context, query string, args ...any) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []RunSummary{}
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.ID, &r.Source, &r.Digest, &r.Entities, &r.Stages, &r.Seq); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

func (s *Store) readEntities(ctx context.Context, runID string, p *ir.Pipeline) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT col, entity FROM run_entities WHERE run_id = ? ORDER BY col ASC
	`, runID)
	if err != nil {
		return fmt.Errorf("query entities: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var col int
		var entity string
		if err := rows.Scan(&col, &entity); err != nil {
			return fmt.Errorf("scan entity: %w", err)
		}
		if col < 0 || col >= len(p.Entities) {
			return fmt.Errorf("run %q: entity column %d out of range", runID, col)
		}
		p.Entities[col] = ir.EntityID(entity)
	}
	return rows.Err()
}

func (s *Store) readStages(ctx context.Context, runID string, p *ir.Pipeline) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT pos, stage FROM run_stages WHERE run_id = ? ORDER BY pos ASC
	`, runID)
	if err != nil {
		return fmt.Errorf("query stages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var pos int
		var stage string
		if err := rows.Scan(&pos, &stage); err != nil {
			return fmt.Errorf("scan stage: %w", err)
		}
		if pos < 0 || pos >= len(p.Stages) {
			return fmt.Errorf("run %q: stage position %d out of range", runID, pos)
		}
		p.Stages[pos] = ir.Stage(stage)
	}
	return rows.Err()
}

func (s *Store) readCells(ctx context.Context, runID string, p *ir.Pipeline) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT pos, col, missing, properties
		FROM run_cells
		WHERE run_id = ?
		ORDER BY pos ASC, col ASC
	`, runID)
	if err != nil {
		return fmt.Errorf("query cells: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var pos, col, missing int
		var props sql.NullString
		if err := rows.Scan(&pos, &col, &missing, &props); err != nil {
			return fmt.Errorf("scan cell: %w", err)
		}
		if pos < 0 || pos >= len(p.Cells) || col < 0 || col >= len(p.Entities) {
			return fmt.Errorf("run %q: cell (%d,%d) out of range", runID, pos, col)
		}
		snap, err := unmarshalSnapshot(missing, props)
		if err != nil {
			return fmt.Errorf("run %q: cell (%d,%d): %w", runID, pos, col, err)
		}
		p.Cells[pos][col] = snap
	}
	return rows.Err()
}
