package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hyperpipe/internal/ir"
)

func TestDecodeSnapshotEmpty(t *testing.T) {
	for _, block := range []string{"", "   ", "\n\t\n"} {
		snap, err := DecodeSnapshot(block)
		require.NoError(t, err)
		assert.True(t, snap.IsMissing(), "block %q", block)
	}
}

func TestDecodeSnapshotProperties(t *testing.T) {
	snap, err := DecodeSnapshot(`
		BasicBlockCount : 3
		Uses:1

		MaxLoopDepth :  0  `)
	require.NoError(t, err)
	require.False(t, snap.IsMissing())
	assert.Equal(t, ir.Properties{
		"BasicBlockCount": "3",
		"Uses":            "1",
		"MaxLoopDepth":    "0",
	}, snap.Properties())
}

func TestDecodeSnapshotValueStopsAtSecondColon(t *testing.T) {
	snap, err := DecodeSnapshot("Key : a : b")
	require.NoError(t, err)
	v, ok := snap.Get("Key")
	require.True(t, ok)
	assert.Equal(t, "a", v)
}

func TestDecodeSnapshotEmptyKey(t *testing.T) {
	snap, err := DecodeSnapshot(": 5\nUses : 2")
	require.NoError(t, err)
	assert.Equal(t, ir.Properties{"": "5", "Uses": "2"}, snap.Properties())
}

func TestDecodeSnapshotMalformed(t *testing.T) {
	tests := []struct {
		name  string
		block string
		want  string
	}{
		{"no separator", "BasicBlockCount 3", "no ':' separator"},
		{"second line bad", "Uses : 1\nbroken", "no ':' separator"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeSnapshot(tt.block)
			require.Error(t, err)
			assert.True(t, IsMalformed(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
