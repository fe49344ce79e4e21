package align

import (
	"errors"
	"fmt"

	"github.com/roach88/hyperpipe/internal/ir"
)

// ErrTracebackStuck indicates no predecessor cell reproduces the current score.
// It can only happen if the score table is corrupt.
var ErrTracebackStuck = errors.New("traceback found no predecessor")

// LengthInvariantError reports a pipeline whose stage and metadata counts
// disagree. It always signals an internal bug and aborts the whole run.
type LengthInvariantError struct {
	// Fold is the 1-based fold that produced the pipeline; 0 is the seed.
	Fold int

	// Entity is the entity folded in at that step.
	Entity ir.EntityID

	// Err is the underlying validation failure.
	Err error
}

func (e *LengthInvariantError) Error() string {
	if e.Entity != "" {
		return fmt.Sprintf("length invariant violated at fold %d (entity %q): %v", e.Fold, e.Entity, e.Err)
	}
	return fmt.Sprintf("length invariant violated at fold %d: %v", e.Fold, e.Err)
}

func (e *LengthInvariantError) Unwrap() error {
	return e.Err
}

// IsLengthInvariant returns true if err is, or wraps, a LengthInvariantError.
func IsLengthInvariant(err error) bool {
	var le *LengthInvariantError
	return errors.As(err, &le)
}
