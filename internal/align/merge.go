package align

import (
	"context"
	"errors"
	"log/slog"

	"github.com/roach88/hyperpipe/internal/ir"
)

// FoldEvent describes one completed fold.
type FoldEvent struct {
	Fold   int         // 1-based fold number
	Total  int         // Number of folds in this merge
	Entity ir.EntityID // Entity folded in
	Length int         // Pipeline length after the fold
	Stats  Stats
}

// FoldObserver is called after every successful fold.
type FoldObserver func(FoldEvent)

type mergeConfig struct {
	observers []FoldObserver
}

// MergeOption configures MergeAll.
type MergeOption func(*mergeConfig)

// WithObserver registers a fold observer. Observers run synchronously in
// registration order.
func WithObserver(o FoldObserver) MergeOption {
	return func(c *mergeConfig) {
		if o != nil {
			c.observers = append(c.observers, o)
		}
	}
}

// Result is the outcome of a merge.
type Result struct {
	Pipeline *ir.Pipeline
	Seed     ir.EntityID // Entity whose trace seeded the pipeline
	Order    []ir.EntityID
}

// MergeAll drains buf into a single aligned pipeline.
//
// The entity with the strictly longest trace seeds the pipeline (ties go to
// the entity seen first). Every other entity is then folded in, in the
// buffer's first-seen order, and removed from the buffer. An empty buffer
// yields an empty pipeline.
//
// ctx is checked between folds; a fold itself is never interrupted. A length
// invariant violation after any fold aborts the merge.
func MergeAll(ctx context.Context, buf *ir.Buffer, opts ...MergeOption) (*Result, error) {
	cfg := &mergeConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	seedID, ok := buf.Longest()
	if !ok {
		slog.Debug("merge skipped: empty buffer")
		return &Result{
			Pipeline: &ir.Pipeline{Entities: []ir.EntityID{}, Stages: []ir.Stage{}, Cells: [][]ir.Snapshot{}},
			Order:    []ir.EntityID{},
		}, nil
	}

	seed, _ := buf.Take(seedID)
	if err := seed.Validate(); err != nil {
		return nil, &LengthInvariantError{Fold: 0, Entity: seedID, Err: err}
	}
	acc := ir.NewPipeline(seed)
	order := buf.Entities()

	slog.Debug("merge starting",
		"seed", seedID,
		"seed_length", seed.Len(),
		"folds", len(order))

	for n, id := range order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		trace, _ := buf.Take(id)
		next, stats, err := align(trace, acc)
		if err != nil {
			var le *LengthInvariantError
			if errors.As(err, &le) {
				le.Fold = n + 1
			}
			return nil, err
		}
		acc = next

		if err := acc.Validate(); err != nil {
			return nil, &LengthInvariantError{Fold: n + 1, Entity: id, Err: err}
		}

		ev := FoldEvent{
			Fold:   n + 1,
			Total:  len(order),
			Entity: id,
			Length: acc.Len(),
			Stats:  stats,
		}
		for _, o := range cfg.observers {
			o(ev)
		}
	}

	if err := acc.Validate(); err != nil {
		return nil, &LengthInvariantError{Fold: len(order), Err: err}
	}

	slog.Debug("merge complete",
		"entities", len(acc.Entities),
		"stages", acc.Len())

	return &Result{Pipeline: acc, Seed: seedID, Order: order}, nil
}
