package testutil

import (
	"strconv"

	"github.com/roach88/hyperpipe/internal/ir"
)

// PositionKey is the property Trace stores each stage's original index under.
const PositionKey = "Position"

// Trace builds an entity trace whose snapshot at index k is
// {"Position": "k"}, so tests can see where each original position landed.
//
//	Trace("main", "A", "B", "C")
func Trace(entity string, stages ...string) ir.EntityTrace {
	t := ir.EntityTrace{Entity: ir.EntityID(entity)}
	for k, s := range stages {
		t.Append(ir.Stage(s), ir.Observed(ir.Properties{PositionKey: strconv.Itoa(k)}))
	}
	return t
}

// Buffer builds a buffer from traces, preserving argument order as
// first-seen order.
func Buffer(traces ...ir.EntityTrace) *ir.Buffer {
	b := ir.NewBuffer()
	for _, t := range traces {
		for k, s := range t.Stages {
			b.Add(t.Entity, s, t.Snapshots[k])
		}
	}
	return b
}

// Stages returns a pipeline's master sequence as plain strings.
func Stages(p *ir.Pipeline) []string {
	out := make([]string, len(p.Stages))
	for i, s := range p.Stages {
		out[i] = string(s)
	}
	return out
}

// Positions returns, for one entity, the original trace index at every
// pipeline position, or "-" where the entity is missing.
func Positions(p *ir.Pipeline, entity string) []string {
	col := p.Column(ir.EntityID(entity))
	out := make([]string, len(p.Cells))
	for pos, row := range p.Cells {
		if col < 0 || row[col].IsMissing() {
			out[pos] = "-"
			continue
		}
		v, _ := row[col].Get(PositionKey)
		out[pos] = v
	}
	return out
}
