package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hyperpipe/internal/store"
)

func TestRunsList(t *testing.T) {
	db := seedDatabase(t, "run-1")

	out, err := execute(t, NewRunsCommand(&RootOptions{Format: "text"}), "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "testdata/sample.log")
}

func TestRunsJSONFilteredByEntity(t *testing.T) {
	db := seedDatabase(t, "run-1")

	out, err := execute(t, NewRunsCommand(&RootOptions{Format: "json"}), "--db", db, "--entity", "helper")
	require.NoError(t, err)
	var resp struct {
		Data []store.RunSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "run-1", resp.Data[0].ID)
	assert.Equal(t, 2, resp.Data[0].Entities)

	out, err = execute(t, NewRunsCommand(&RootOptions{Format: "json"}), "--db", db, "--entity", "nope")
	require.NoError(t, err)
	resp.Data = nil
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Empty(t, resp.Data)
}

func TestRunsEmpty(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")
	st, err := store.Open(db)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	out, err := execute(t, NewRunsCommand(&RootOptions{Format: "text"}), "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "No runs stored")
}

func TestRunsMissingDatabase(t *testing.T) {
	_, err := execute(t, NewRunsCommand(&RootOptions{Format: "text"}), "--db", filepath.Join(t.TempDir(), "absent.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestShortDigest(t *testing.T) {
	assert.Equal(t, "0123456789ab", shortDigest("0123456789abcdef"))
	assert.Equal(t, "abc", shortDigest("abc"))
}
