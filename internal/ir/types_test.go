package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotTagging(t *testing.T) {
	assert.True(t, Missing().IsMissing())
	assert.True(t, Snapshot{}.IsMissing(), "zero value is missing")
	assert.False(t, Observed(nil).IsMissing(), "empty observed is not missing")

	_, ok := Missing().Get("Uses")
	assert.False(t, ok)

	v, ok := Observed(Properties{"Uses": "4"}).Get("Uses")
	assert.True(t, ok)
	assert.Equal(t, "4", v)
}

func TestSnapshotEqual(t *testing.T) {
	a := Observed(Properties{"Uses": "1"})
	assert.True(t, a.Equal(Observed(Properties{"Uses": "1"})))
	assert.False(t, a.Equal(Observed(Properties{"Uses": "2"})))
	assert.False(t, a.Equal(Missing()))
	assert.True(t, Missing().Equal(Missing()))
}

func TestSnapshotJSONRoundTrip(t *testing.T) {
	in := []Snapshot{Missing(), Observed(Properties{"Uses": "1"})}
	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `[null,{"Uses":"1"}]`, string(data))

	var out []Snapshot
	require.NoError(t, json.Unmarshal(data, &out))
	require.Len(t, out, 2)
	assert.True(t, out[0].IsMissing())
	assert.True(t, out[1].Equal(in[1]))
}

func TestNewPipelineCopiesTrace(t *testing.T) {
	trace := EntityTrace{Entity: "f"}
	trace.Append("A", Observed(Properties{"Uses": "1"}))
	trace.Append("B", Missing())

	p := NewPipeline(trace)
	require.NoError(t, p.Validate())
	assert.Equal(t, []EntityID{"f"}, p.Entities)
	assert.Equal(t, 2, p.Len())

	trace.Stages[0] = "Z"
	assert.Equal(t, Stage("A"), p.Stages[0], "pipeline must not alias trace slices")
}

func TestPipelineValidate(t *testing.T) {
	p := &Pipeline{
		Entities: []EntityID{"f", "g"},
		Stages:   []Stage{"A", "B"},
		Cells:    [][]Snapshot{{Missing(), Missing()}},
	}
	require.Error(t, p.Validate())

	p.Cells = append(p.Cells, []Snapshot{Missing()})
	err := p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "position 1")
}

func TestPipelineTrace(t *testing.T) {
	p := &Pipeline{
		Entities: []EntityID{"f", "g"},
		Stages:   []Stage{"A", "B"},
		Cells: [][]Snapshot{
			{Observed(Properties{"Uses": "1"}), Missing()},
			{Observed(Properties{"Uses": "2"}), Observed(Properties{"Uses": "9"})},
		},
	}

	g, ok := p.Trace("g")
	require.True(t, ok)
	assert.Equal(t, []Stage{"B"}, g.Stages)

	_, ok = p.Trace("nope")
	assert.False(t, ok)
}

func TestBufferOrderAndDrain(t *testing.T) {
	b := NewBuffer()
	b.Add("g", "A", Missing())
	b.Add("f", "A", Missing())
	b.Add("g", "B", Missing())
	b.Add("h", "A", Missing())
	b.Add("h", "B", Missing())

	assert.Equal(t, []EntityID{"g", "f", "h"}, b.Entities())

	longest, ok := b.Longest()
	require.True(t, ok)
	assert.Equal(t, EntityID("g"), longest, "ties go to the first-seen entity")

	g, ok := b.Take("g")
	require.True(t, ok)
	assert.Equal(t, 2, g.Len())
	assert.Equal(t, []EntityID{"f", "h"}, b.Entities())

	_, ok = b.Take("g")
	assert.False(t, ok)

	longest, _ = b.Longest()
	assert.Equal(t, EntityID("h"), longest)
}

func TestBufferLongestEmpty(t *testing.T) {
	_, ok := NewBuffer().Longest()
	assert.False(t, ok)
}
