package align

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hyperpipe/internal/ir"
	"github.com/roach88/hyperpipe/internal/testutil"
)

func TestAlignFillsMissingStage(t *testing.T) {
	x := ir.NewPipeline(testutil.Trace("X", "A", "B", "C"))
	y := testutil.Trace("Y", "A", "C")

	out, err := Align(y, x)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C"}, testutil.Stages(out))
	assert.Equal(t, []ir.EntityID{"X", "Y"}, out.Entities)
	assert.Equal(t, []string{"0", "1", "2"}, testutil.Positions(out, "X"))
	assert.Equal(t, []string{"0", "-", "1"}, testutil.Positions(out, "Y"))
}

func TestAlignShorterPipeline(t *testing.T) {
	y := ir.NewPipeline(testutil.Trace("Y", "A", "C"))
	x := testutil.Trace("X", "A", "B", "C")

	out, err := Align(x, y)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C"}, testutil.Stages(out))
	assert.Equal(t, []string{"0", "-", "1"}, testutil.Positions(out, "Y"))
	assert.Equal(t, []string{"0", "1", "2"}, testutil.Positions(out, "X"))
}

func TestAlignDisjointNeverMatches(t *testing.T) {
	out, err := Align(testutil.Trace("Y", "Q"), ir.NewPipeline(testutil.Trace("X", "P")))
	require.NoError(t, err)

	// The trace side is consumed first on a tie.
	assert.Equal(t, []string{"Q", "P"}, testutil.Stages(out))
	assert.Equal(t, []string{"-", "0"}, testutil.Positions(out, "X"))
	assert.Equal(t, []string{"0", "-"}, testutil.Positions(out, "Y"))
}

func TestAlignTieBreakOrder(t *testing.T) {
	tests := []struct {
		name     string
		trace    []string
		pipeline []string
		stages   []string
		traceAt  []string
		pipeAt   []string
	}{
		{
			name:     "duplicate matches the front",
			trace:    []string{"A"},
			pipeline: []string{"A", "A"},
			stages:   []string{"A", "A"},
			traceAt:  []string{"0", "-"},
			pipeAt:   []string{"0", "1"},
		},
		{
			name:     "swapped stages",
			trace:    []string{"A", "B"},
			pipeline: []string{"B", "A"},
			stages:   []string{"A", "B", "A"},
			traceAt:  []string{"0", "1", "-"},
			pipeAt:   []string{"-", "0", "1"},
		},
		{
			name:     "interleaved gap puts trace stage first",
			trace:    []string{"A", "D", "C"},
			pipeline: []string{"A", "B", "C"},
			stages:   []string{"A", "D", "B", "C"},
			traceAt:  []string{"0", "1", "-", "2"},
			pipeAt:   []string{"0", "-", "1", "2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Align(testutil.Trace("T", tt.trace...), ir.NewPipeline(testutil.Trace("P", tt.pipeline...)))
			require.NoError(t, err)
			assert.Equal(t, tt.stages, testutil.Stages(out))
			assert.Equal(t, tt.traceAt, testutil.Positions(out, "T"))
			assert.Equal(t, tt.pipeAt, testutil.Positions(out, "P"))
		})
	}
}

func TestAlignSelfIsIdentity(t *testing.T) {
	stages := []string{"A", "B", "A", "C"}
	out, err := Align(testutil.Trace("Y", stages...), ir.NewPipeline(testutil.Trace("X", stages...)))
	require.NoError(t, err)

	assert.Equal(t, stages, testutil.Stages(out), "self-alignment must add no gaps")
	assert.Equal(t, []string{"0", "1", "2", "3"}, testutil.Positions(out, "X"))
	assert.Equal(t, []string{"0", "1", "2", "3"}, testutil.Positions(out, "Y"))
}

func TestAlignCollisionOverwritesColumn(t *testing.T) {
	p := ir.NewPipeline(testutil.Trace("X", "A", "B"))
	again := ir.EntityTrace{Entity: "X"}
	again.Append("B", ir.Observed(ir.Properties{testutil.PositionKey: "new"}))

	out, err := Align(again, p)
	require.NoError(t, err)

	assert.Equal(t, []ir.EntityID{"X"}, out.Entities, "no duplicate column")
	assert.Equal(t, []string{"A", "B"}, testutil.Stages(out))
	assert.Equal(t, []string{"-", "new"}, testutil.Positions(out, "X"))
}

func TestAlignDoesNotAliasInput(t *testing.T) {
	p := ir.NewPipeline(testutil.Trace("X", "A", "B"))
	out, err := Align(testutil.Trace("Y", "A"), p)
	require.NoError(t, err)

	out.Cells[0][0] = ir.Missing()
	out.Stages[1] = "Z"

	assert.False(t, p.Cells[0][0].IsMissing(), "input rows must not be shared")
	assert.Equal(t, ir.Stage("B"), p.Stages[1])
	assert.Len(t, p.Entities, 1)
}

func TestAlignEmptyInputs(t *testing.T) {
	empty := &ir.Pipeline{}

	out, err := Align(testutil.Trace("X", "A", "B"), empty)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, testutil.Stages(out))
	assert.Equal(t, []ir.EntityID{"X"}, out.Entities)

	out, err = Align(ir.EntityTrace{Entity: "Y"}, ir.NewPipeline(testutil.Trace("X", "A")))
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, testutil.Stages(out))
	assert.Equal(t, []string{"-"}, testutil.Positions(out, "Y"))
}

func TestAlignRejectsBrokenInput(t *testing.T) {
	bad := ir.EntityTrace{Entity: "Y", Stages: []ir.Stage{"A"}}
	_, err := Align(bad, ir.NewPipeline(testutil.Trace("X", "A")))
	require.Error(t, err)
	assert.True(t, IsLengthInvariant(err))

	broken := ir.NewPipeline(testutil.Trace("X", "A", "B"))
	broken.Cells = broken.Cells[:1]
	_, err = Align(testutil.Trace("Y", "A"), broken)
	require.Error(t, err)
	assert.True(t, IsLengthInvariant(err))
}

func TestAlignStats(t *testing.T) {
	_, stats, err := align(testutil.Trace("Y", "A", "C"), ir.NewPipeline(testutil.Trace("X", "A", "B", "C")))
	require.NoError(t, err)

	assert.Equal(t, Stats{Score: 2*MatchAward + GapPenalty, Matches: 2, TraceGaps: 1}, stats)
}

func TestAlignStatsScore(t *testing.T) {
	tests := []struct {
		name     string
		trace    ir.EntityTrace
		pipeline []string
		want     int
	}{
		{"both empty", testutil.Trace("Y"), nil, 0},
		{"trace only", testutil.Trace("Y", "A", "B", "C"), nil, 3 * GapPenalty},
		{"disjoint", testutil.Trace("Y", "P"), []string{"Q"}, 2 * GapPenalty},
		{"identical", testutil.Trace("Y", "A", "B", "C"), []string{"A", "B", "C"}, 3 * MatchAward},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ir.NewPipeline(testutil.Trace("X", tt.pipeline...))
			_, stats, err := align(tt.trace, p)
			require.NoError(t, err)
			assert.Equal(t, tt.want, stats.Score)
		})
	}
}
