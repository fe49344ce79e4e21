package align

import (
	"fmt"

	"github.com/roach88/hyperpipe/internal/ir"
)

// Fixed scoring scheme.
const (
	MatchAward      = 20
	MismatchPenalty = -1_000_000
	GapPenalty      = -5
)

// Stats describes one pairwise alignment.
type Stats struct {
	Score        int `json:"score"`
	Matches      int `json:"matches"`
	TraceGaps    int `json:"trace_gaps"`    // Positions only the pipeline has
	PipelineGaps int `json:"pipeline_gaps"` // Positions only the trace has
}

func matchScore(a, b ir.Stage) int {
	if a == b {
		return MatchAward
	}
	return MismatchPenalty
}

// scoreTable is a row-major (m+1)x(n+1) DP table.
type scoreTable struct {
	cols  int
	cells []int
}

func (t *scoreTable) at(i, j int) int {
	return t.cells[i*t.cols+j]
}

func (t *scoreTable) set(i, j, v int) {
	t.cells[i*t.cols+j] = v
}

func fill(a, b []ir.Stage) *scoreTable {
	m, n := len(a), len(b)
	t := &scoreTable{cols: n + 1, cells: make([]int, (m+1)*(n+1))}
	for i := 0; i <= m; i++ {
		t.set(i, 0, GapPenalty*i)
	}
	for j := 0; j <= n; j++ {
		t.set(0, j, GapPenalty*j)
	}
	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			match := t.at(i-1, j-1) + matchScore(a[i-1], b[j-1])
			del := t.at(i-1, j) + GapPenalty
			ins := t.at(i, j-1) + GapPenalty
			t.set(i, j, max(match, del, ins))
		}
	}
	return t
}

// Align merges one entity trace into a pipeline and returns a new pipeline.
//
// The trace contributes exactly one entity column. Matched positions take the
// pipeline's row plus the trace's snapshot; positions only the trace has get
// Missing for every pipeline entity; positions only the pipeline has get
// Missing for the trace entity. If the trace entity is already a pipeline
// column, that column is overwritten.
//
// Neither input is modified and the output shares no rows with the pipeline.
func Align(trace ir.EntityTrace, pipeline *ir.Pipeline) (*ir.Pipeline, error) {
	out, _, err := align(trace, pipeline)
	return out, err
}

func align(trace ir.EntityTrace, pipeline *ir.Pipeline) (*ir.Pipeline, Stats, error) {
	if err := trace.Validate(); err != nil {
		return nil, Stats{}, &LengthInvariantError{Entity: trace.Entity, Err: err}
	}
	if err := pipeline.Validate(); err != nil {
		return nil, Stats{}, &LengthInvariantError{Entity: trace.Entity, Err: err}
	}

	m, n := trace.Len(), pipeline.Len()
	a := reversed(trace.Stages)
	b := reversed(pipeline.Stages)
	table := fill(a, b)

	// Column layout of the output rows.
	entities := make([]ir.EntityID, len(pipeline.Entities), len(pipeline.Entities)+1)
	copy(entities, pipeline.Entities)
	col := pipeline.Column(trace.Entity)
	if col < 0 {
		col = len(entities)
		entities = append(entities, trace.Entity)
	}
	width := len(entities)

	out := &ir.Pipeline{
		Entities: entities,
		Stages:   make([]ir.Stage, 0, max(m, n)),
		Cells:    make([][]ir.Snapshot, 0, max(m, n)),
	}
	stats := Stats{Score: table.at(m, n)}

	// Reversed index k maps to forward index len-k-1.
	traceSnap := func(i int) ir.Snapshot { return trace.Snapshots[m-i] }
	pipeRow := func(j int) []ir.Snapshot { return pipeline.Cells[n-j] }

	emitMatch := func(i, j int) {
		row := make([]ir.Snapshot, width)
		copy(row, pipeRow(j))
		row[col] = traceSnap(i)
		out.Stages = append(out.Stages, a[i-1])
		out.Cells = append(out.Cells, row)
		stats.Matches++
	}
	emitTraceOnly := func(i int) {
		row := make([]ir.Snapshot, width) // zero Snapshot is Missing
		row[col] = traceSnap(i)
		out.Stages = append(out.Stages, a[i-1])
		out.Cells = append(out.Cells, row)
		stats.PipelineGaps++
	}
	emitPipelineOnly := func(j int) {
		row := make([]ir.Snapshot, width)
		copy(row, pipeRow(j))
		row[col] = ir.Missing()
		out.Stages = append(out.Stages, b[j-1])
		out.Cells = append(out.Cells, row)
		stats.TraceGaps++
	}

	i, j := m, n
	for i > 0 && j > 0 {
		current := table.at(i, j)
		switch {
		case current == table.at(i-1, j-1)+matchScore(a[i-1], b[j-1]):
			emitMatch(i, j)
			i--
			j--
		case current == table.at(i-1, j)+GapPenalty:
			emitTraceOnly(i)
			i--
		case current == table.at(i, j-1)+GapPenalty:
			emitPipelineOnly(j)
			j--
		default:
			return nil, Stats{}, fmt.Errorf("align %q at (%d, %d): %w", trace.Entity, i, j, ErrTracebackStuck)
		}
	}
	for ; i > 0; i-- {
		emitTraceOnly(i)
	}
	for ; j > 0; j-- {
		emitPipelineOnly(j)
	}

	if err := out.Validate(); err != nil {
		return nil, Stats{}, &LengthInvariantError{Entity: trace.Entity, Err: err}
	}
	return out, stats, nil
}

func reversed(s []ir.Stage) []ir.Stage {
	out := make([]ir.Stage, len(s))
	for i, v := range s {
		out[len(s)-1-i] = v
	}
	return out
}
