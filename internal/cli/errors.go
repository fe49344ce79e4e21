package cli

import (
	"context"
	"errors"
	"fmt"

	"cuelang.org/go/cue/token"

	"github.com/roach88/hyperpipe/internal/align"
	"github.com/roach88/hyperpipe/internal/config"
	"github.com/roach88/hyperpipe/internal/ingest"
	"github.com/roach88/hyperpipe/internal/store"
)

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric       = "E001" // Generic/unknown error
	ErrCodeReadFailed    = "E002" // Input could not be read
	ErrCodeConfigInvalid = "E003" // Config file rejected
	ErrCodeMalformed     = "E004" // Malformed log record
	ErrCodeNotFound      = "E005" // Path or run not found
	ErrCodeAlignFailed   = "E006" // Length invariant violated during merge
	ErrCodeWriteFailed   = "E007" // File write error
	ErrCodeStoreFailed   = "E008" // Database error
	ErrCodeCanceled      = "E009" // Interrupted between folds
)

// CommandError is a coded failure from one step of a command.
type CommandError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
	Err     error
}

func (e *CommandError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// newCommandError classifies err and wraps it with context.
func newCommandError(step string, err error) *CommandError {
	var ce *CommandError
	if errors.As(err, &ce) {
		return ce
	}
	out := &CommandError{
		Code:    classify(err),
		Message: fmt.Sprintf("%s: %v", step, err),
		Err:     err,
	}
	var cfgErr *config.ConfigError
	if errors.As(err, &cfgErr) {
		out.Pos = cfgErr.Pos
	}
	return out
}

// classify maps a domain error to an error code.
func classify(err error) string {
	var cfgErr *config.ConfigError
	switch {
	case errors.As(err, &cfgErr):
		return ErrCodeConfigInvalid
	case ingest.IsMalformed(err):
		return ErrCodeMalformed
	case align.IsLengthInvariant(err):
		return ErrCodeAlignFailed
	case errors.Is(err, store.ErrRunNotFound):
		return ErrCodeNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrCodeCanceled
	default:
		return ErrCodeGeneric
	}
}

// exitCodeFor returns the process exit code for an error code. Bad input
// data and failed alignments are failures; everything else is a command error.
func exitCodeFor(code string) int {
	switch code {
	case ErrCodeMalformed, ErrCodeAlignFailed:
		return ExitFailure
	default:
		return ExitCommandError
	}
}

// fail reports err through the formatter and returns the matching ExitError.
func fail(formatter *OutputFormatter, step string, err error) error {
	ce := newCommandError(step, err)
	var details any
	if ce.Pos.IsValid() {
		details = map[string]any{
			"file":   ce.Pos.Filename(),
			"line":   ce.Pos.Line(),
			"column": ce.Pos.Column(),
		}
	}
	_ = formatter.Error(ce.Code, ce.Message, details)
	return WrapExitError(exitCodeFor(ce.Code), "", ce)
}
