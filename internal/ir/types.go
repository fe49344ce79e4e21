package ir

import "fmt"

// Stage names one step in an entity's observed trace (e.g. an optimization pass).
// Stage names are opaque and order-sensitive; a pipeline may contain duplicates.
type Stage string

// EntityID identifies a traced entity (e.g. a function).
type EntityID string

// Record is one raw log entry as produced by the log parser.
type Record struct {
	Header string   `json:"header,omitempty"` // Leading field, unused by alignment
	Stage  Stage    `json:"stage"`
	Entity EntityID `json:"entity"`
	Block  string   `json:"block"` // Raw property block, possibly empty
}

// EntityTrace is one entity's stages with a snapshot per stage.
// Invariant: len(Stages) == len(Snapshots).
type EntityTrace struct {
	Entity    EntityID   `json:"entity"`
	Stages    []Stage    `json:"stages"`
	Snapshots []Snapshot `json:"snapshots"`
}

// Len returns the number of stages in the trace.
func (t EntityTrace) Len() int {
	return len(t.Stages)
}

// Append adds one stage with its snapshot.
func (t *EntityTrace) Append(stage Stage, snap Snapshot) {
	t.Stages = append(t.Stages, stage)
	t.Snapshots = append(t.Snapshots, snap)
}

// Validate checks the stage/snapshot length invariant.
func (t EntityTrace) Validate() error {
	if len(t.Stages) != len(t.Snapshots) {
		return fmt.Errorf("trace %q: %d stages but %d snapshots", t.Entity, len(t.Stages), len(t.Snapshots))
	}
	return nil
}

// Pipeline is the merged master stage sequence with one row of cells per stage.
//
// Cells[pos][col] is the snapshot of Entities[col] at Stages[pos]. Every row has
// exactly len(Entities) cells; an entity absent at a position holds Missing().
type Pipeline struct {
	Entities []EntityID   `json:"entities"`
	Stages   []Stage      `json:"stages"`
	Cells    [][]Snapshot `json:"cells"`
}

// NewPipeline seeds a single-entity pipeline from a trace.
// The trace's slices are copied; the pipeline owns its rows.
func NewPipeline(t EntityTrace) *Pipeline {
	p := &Pipeline{
		Entities: []EntityID{t.Entity},
		Stages:   make([]Stage, len(t.Stages)),
		Cells:    make([][]Snapshot, len(t.Snapshots)),
	}
	copy(p.Stages, t.Stages)
	for i, snap := range t.Snapshots {
		p.Cells[i] = []Snapshot{snap}
	}
	return p
}

// Len returns the number of positions in the master sequence.
func (p *Pipeline) Len() int {
	return len(p.Stages)
}

// Column returns the column index of an entity, or -1.
func (p *Pipeline) Column(id EntityID) int {
	for i, e := range p.Entities {
		if e == id {
			return i
		}
	}
	return -1
}

// Trace extracts one entity's observed stages, skipping positions where it is missing.
func (p *Pipeline) Trace(id EntityID) (EntityTrace, bool) {
	col := p.Column(id)
	if col < 0 {
		return EntityTrace{}, false
	}
	t := EntityTrace{Entity: id}
	for pos, row := range p.Cells {
		if row[col].IsMissing() {
			continue
		}
		t.Append(p.Stages[pos], row[col])
	}
	return t, true
}

// Validate checks that the stage and row counts agree and that every row
// covers every entity.
func (p *Pipeline) Validate() error {
	if len(p.Stages) != len(p.Cells) {
		return fmt.Errorf("pipeline has %d stages but %d metadata rows", len(p.Stages), len(p.Cells))
	}
	for pos, row := range p.Cells {
		if len(row) != len(p.Entities) {
			return fmt.Errorf("pipeline position %d covers %d entities, want %d", pos, len(row), len(p.Entities))
		}
	}
	return nil
}
