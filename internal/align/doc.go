// Package align merges per-entity stage traces into one aligned pipeline.
//
// Align is a Needleman–Wunsch global alignment of two stage sequences with a
// fixed scoring scheme:
//
//	match    +20
//	mismatch -1_000_000
//	gap      -5 (open and extend alike)
//
// The mismatch penalty is large enough that unequal stage names are never
// paired; the alignment only ever matches identical names or opens a gap.
//
// Both sequences are reversed before the score table is filled, and the
// traceback walks from the bottom-right corner, so positions are emitted in
// forward order and ties are resolved at the front of the traces first. On a
// tie the traceback prefers, in this fixed order:
//
//  1. a diagonal match
//  2. consuming the trace (gap in the pipeline)
//  3. consuming the pipeline (gap in the trace)
//
// MergeAll folds every trace of an ir.Buffer into the longest one, one
// entity at a time, in first-seen order. The result depends on fold order by
// construction; it is a progressive fold, not a joint optimum.
package align
