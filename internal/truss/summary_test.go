package truss

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		force float64
		want  ForceType
	}{
		{25000, Tension},
		{10.5, Tension},
		{10, Neutral},
		{0, Neutral},
		{-10, Neutral},
		{-10.5, Compression},
		{-35355, Compression},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.force), "force %v", tt.force)
	}
}

func TestSafetyFactor(t *testing.T) {
	assert.InDelta(t, 2.5, SafetyFactor(250, 100, 1e-6, 999), 1e-12)
	assert.InDelta(t, 2.5, SafetyFactor(250, -100, 1e-6, 999), 1e-12)
	assert.Equal(t, 999.0, SafetyFactor(250, 1e-7, 1e-6, 999))
	assert.Equal(t, 999.0, SafetyFactor(250, 0, 1e-6, 999))
}

func TestSummarizeBridge(t *testing.T) {
	nodes, elements := bridge()
	m := NewModel(nodes, elements, 1e-9)
	res, err := AnalyzeModel(m, DefaultOptions())
	require.NoError(t, err)

	s := Summarize(m, res)
	assert.Equal(t, VerdictSafe, s.Verdict)
	assert.InDelta(t, 50000, s.TotalLoad, 1e-9)
	assert.InDelta(t, (4+4+4+2*4*math.Sqrt2)*15e-4, s.Volume, 1e-12)
	assert.InDelta(t, 50000/15e-4, s.MaxStress, 1)
	assert.InDelta(t, 250e6/(50000/15e-4), s.MinSafety, 1e-6)
	assert.Equal(t, 3, s.Tension)
	assert.Equal(t, 2, s.Compression)
	assert.Zero(t, s.Neutral)

	require.Len(t, s.Reactions, 2)
	assert.Equal(t, 1, s.Reactions[0].NodeID)
	assert.True(t, s.Reactions[0].Support)
	assert.InDelta(t, 25000, s.Reactions[0].Magnitude, 1e-3)
	assert.InDelta(t, 90, s.Reactions[0].Angle, 1e-6)
	assert.Equal(t, 3, s.Reactions[1].NodeID)
}

func TestSummarizeFailingStructure(t *testing.T) {
	nodes, elements := bridge()
	nodes[1].LoadY = -5e6
	m := NewModel(nodes, elements, 1e-9)
	res, err := AnalyzeModel(m, DefaultOptions())
	require.NoError(t, err)

	s := Summarize(m, res)
	assert.Equal(t, VerdictFailing, s.Verdict)
	assert.Less(t, s.MinSafety, 1.0)
}

func TestSummarizeUnstable(t *testing.T) {
	m := NewModel([]Node{{ID: 1}, {ID: 2, X: 3, LoadX: 4}}, []Element{{ID: 1, Start: 1, End: 2, E: 1, A: 2}}, 1e-9)
	res, err := AnalyzeModel(m, DefaultOptions())
	require.NoError(t, err)

	s := Summarize(m, res)
	assert.Equal(t, VerdictUnstable, s.Verdict)
	assert.InDelta(t, 4, s.TotalLoad, 1e-12)
	assert.InDelta(t, 6, s.Volume, 1e-12)
	assert.Empty(t, s.Reactions)
}
