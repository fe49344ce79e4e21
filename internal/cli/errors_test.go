package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hyperpipe/internal/align"
	"github.com/roach88/hyperpipe/internal/config"
	"github.com/roach88/hyperpipe/internal/ingest"
	"github.com/roach88/hyperpipe/internal/store"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"config", &config.ConfigError{Message: "bad"}, ErrCodeConfigInvalid},
		{"malformed", fmt.Errorf("load: %w", &ingest.MalformedRecordError{Index: 2, Reason: "x"}), ErrCodeMalformed},
		{"length invariant", &align.LengthInvariantError{Fold: 1, Entity: "f", Err: errors.New("short")}, ErrCodeAlignFailed},
		{"run not found", fmt.Errorf("read: %w", store.ErrRunNotFound), ErrCodeNotFound},
		{"canceled", context.Canceled, ErrCodeCanceled},
		{"other", errors.New("boom"), ErrCodeGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.err))
		})
	}
}

func TestExitCodeFor(t *testing.T) {
	assert.Equal(t, ExitFailure, exitCodeFor(ErrCodeMalformed))
	assert.Equal(t, ExitFailure, exitCodeFor(ErrCodeAlignFailed))
	assert.Equal(t, ExitCommandError, exitCodeFor(ErrCodeNotFound))
	assert.Equal(t, ExitCommandError, exitCodeFor(ErrCodeConfigInvalid))
	assert.Equal(t, ExitCommandError, exitCodeFor(ErrCodeGeneric))
}

func TestCommandErrorFormatting(t *testing.T) {
	err := &CommandError{Code: ErrCodeNotFound, Message: "log file not found: x.log"}
	assert.Equal(t, "E005: log file not found: x.log", err.Error())

	inner := errors.New("inner")
	assert.ErrorIs(t, &CommandError{Code: ErrCodeGeneric, Err: inner}, inner)
}

func TestNewCommandErrorKeepsExistingCode(t *testing.T) {
	orig := &CommandError{Code: ErrCodeWriteFailed, Message: "disk full"}
	got := newCommandError("write csv", fmt.Errorf("wrapped: %w", orig))
	assert.Same(t, orig, got)
}

func TestNewCommandErrorFromCUEConfig(t *testing.T) {
	_, err := config.Load(writeTemp(t, "c.cue", "output: preview_positions: -1\n"))
	require.Error(t, err)

	got := newCommandError("load config", err)
	assert.Equal(t, ErrCodeConfigInvalid, got.Code)
	assert.Contains(t, got.Message, "load config: ")
}

func TestFailReportsAndWraps(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	err := fail(formatter, "align", &align.LengthInvariantError{Fold: 3, Entity: "f", Err: errors.New("short")})
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.True(t, align.IsLengthInvariant(err))
	assert.Contains(t, buf.String(), "Error [E006]: align: ")
}
