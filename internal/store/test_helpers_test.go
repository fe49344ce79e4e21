package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/hyperpipe/internal/align"
	"github.com/roach88/hyperpipe/internal/ir"
	"github.com/roach88/hyperpipe/internal/testutil"
)

// createTestStore opens a fresh store in a temp dir with deterministic IDs.
func createTestStore(t *testing.T, ids ...string) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, WithIDGenerator(testutil.NewFixedIDGenerator(ids...)))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// alignedPipeline merges traces the way the align command does.
func alignedPipeline(t *testing.T, traces ...ir.EntityTrace) *ir.Pipeline {
	t.Helper()
	res, err := align.MergeAll(context.Background(), testutil.Buffer(traces...))
	require.NoError(t, err)
	return res.Pipeline
}
