package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hyperpipe/internal/ir"
)

func TestGroupSample(t *testing.T) {
	records, err := ParseString(`
*** h # A # main # Uses : 1
*** h # A # llvm.lifetime.end.p0 # Uses : 0
*** h # A # helper # Uses : 2
*** h # B # main #
*** h # C # helper # Uses : 3
`)
	require.NoError(t, err)

	buf, stats, err := Group(records, GroupOptions{})
	require.NoError(t, err)

	assert.Equal(t, Stats{Records: 5, Excluded: 1, Entities: 2, Missing: 1}, stats)
	assert.Equal(t, []ir.EntityID{"main", "helper"}, buf.Entities())

	main, ok := buf.Get("main")
	require.True(t, ok)
	assert.Equal(t, []ir.Stage{"A", "B"}, main.Stages)
	assert.False(t, main.Snapshots[0].IsMissing())
	assert.True(t, main.Snapshots[1].IsMissing())
	require.NoError(t, main.Validate())
}

func TestGroupCustomPrefixes(t *testing.T) {
	records := []ir.Record{
		{Stage: "A", Entity: "llvm.lifetime.start", Block: "Uses : 1"},
		{Stage: "A", Entity: "llvm.memcpy", Block: "Uses : 1"},
	}

	buf, stats, err := Group(records, GroupOptions{ExcludePrefixes: []string{"llvm.memcpy"}})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Excluded)
	assert.Equal(t, []ir.EntityID{"llvm.lifetime.start"}, buf.Entities())

	buf, stats, err = Group(records, GroupOptions{ExcludePrefixes: []string{}})
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Excluded)
	assert.Equal(t, 2, buf.Len())
}

func TestGroupMalformedAborts(t *testing.T) {
	records := []ir.Record{
		{Stage: "A", Entity: "main", Block: "Uses : 1"},
		{Stage: "B", Entity: "main", Block: "garbage"},
	}

	buf, _, err := Group(records, GroupOptions{})
	require.Error(t, err)
	assert.Nil(t, buf)

	var me *MalformedRecordError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, 1, me.Index)
	assert.Equal(t, "main", me.Entity)
}

func TestGroupExcludedMalformedIsIgnored(t *testing.T) {
	records := []ir.Record{
		{Stage: "A", Entity: "llvm.lifetime.start", Block: "garbage"},
	}
	buf, _, err := Group(records, GroupOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, buf.Len())
}
