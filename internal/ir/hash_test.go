package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePipeline() *Pipeline {
	return &Pipeline{
		Entities: []EntityID{"main"},
		Stages:   []Stage{"A", "B"},
		Cells: [][]Snapshot{
			{Observed(Properties{"Uses": "1"})},
			{Observed(Properties{"Uses": "2"})},
		},
	}
}

func TestPipelineDigestDeterminism(t *testing.T) {
	d1, err := PipelineDigest(samplePipeline())
	require.NoError(t, err)
	d2, err := PipelineDigest(samplePipeline())
	require.NoError(t, err)

	assert.Equal(t, d1, d2, "PipelineDigest must be deterministic")
	assert.Len(t, d1, 64, "SHA-256 hex is 64 characters")
}

func TestPipelineDigestChangesWithInput(t *testing.T) {
	base := MustPipelineDigest(samplePipeline())

	missing := samplePipeline()
	missing.Cells[1][0] = Missing()

	renamed := samplePipeline()
	renamed.Stages[0] = "C"

	assert.NotEqual(t, base, MustPipelineDigest(missing), "missing marker must change digest")
	assert.NotEqual(t, base, MustPipelineDigest(renamed), "stage name must change digest")
}

func TestTraceDigestDomainSeparation(t *testing.T) {
	trace := EntityTrace{
		Entity:    "main",
		Stages:    []Stage{"A", "B"},
		Snapshots: []Snapshot{Observed(Properties{"Uses": "1"}), Observed(Properties{"Uses": "2"})},
	}

	td, err := TraceDigest(trace)
	require.NoError(t, err)

	// Same content, different domain.
	assert.NotEqual(t, MustPipelineDigest(NewPipeline(trace)), td)
}
