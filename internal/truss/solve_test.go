package truss

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func constrained(nodes []Node, elements []Element) (*Model, *System) {
	m := NewModel(nodes, elements, 1e-9)
	sys := Assemble(m)
	ApplySupports(m, sys)
	return m, sys
}

func TestSolveDetectsInstability(t *testing.T) {
	tests := []struct {
		name     string
		nodes    []Node
		elements []Element
	}{
		{
			name:     "unsupported bar",
			nodes:    []Node{{ID: 1}, {ID: 2, X: 10, LoadX: 100}},
			elements: []Element{{ID: 1, Start: 1, End: 2, E: 200000, A: 1}},
		},
		{
			name:     "bar free to swing about its pin",
			nodes:    []Node{{ID: 1, FixedX: true, FixedY: true}, {ID: 2, X: 10, LoadX: 100}},
			elements: []Element{{ID: 1, Start: 1, End: 2, E: 200000, A: 1}},
		},
		{
			name: "disconnected node",
			nodes: []Node{
				{ID: 1, FixedX: true, FixedY: true},
				{ID: 2, X: 1, FixedY: true},
				{ID: 3, X: 5, Y: 5},
			},
			elements: []Element{{ID: 1, Start: 1, End: 2, E: 1, A: 1}},
		},
		{
			name:     "only member collapsed to a point",
			nodes:    []Node{{ID: 1, FixedX: true, FixedY: true}, {ID: 2}},
			elements: []Element{{ID: 1, Start: 1, End: 2, E: 1, A: 1}},
		},
		{
			name: "collinear mechanism",
			nodes: []Node{
				{ID: 1, FixedX: true, FixedY: true},
				{ID: 2, X: 1, LoadY: -10},
				{ID: 3, X: 2, FixedX: true, FixedY: true},
			},
			elements: []Element{
				{ID: 1, Start: 1, End: 2, E: 1000, A: 1},
				{ID: 2, Start: 2, End: 3, E: 1000, A: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, sys := constrained(tt.nodes, tt.elements)
			u, err := Solve(sys, mat.ConditionTolerance)
			assert.ErrorIs(t, err, ErrUnstable)
			assert.Nil(t, u)
		})
	}
}

func TestSolveAxialBar(t *testing.T) {
	m, sys := constrained(
		[]Node{{ID: 1, FixedX: true, FixedY: true}, {ID: 2, X: 10, LoadX: 100, FixedY: true}},
		[]Element{{ID: 1, Start: 1, End: 2, E: 200000, A: 1}},
	)

	u, err := Solve(sys, mat.ConditionTolerance)
	require.NoError(t, err)

	disp := Displacements(m, u)
	require.Len(t, disp, 2)
	assert.Equal(t, Displacement{}, disp[0])
	assert.InDelta(t, 0.005, disp[1].Ux, 1e-15)
	assert.Zero(t, disp[1].Uy)
}

func TestSolveRespectsConditionLimit(t *testing.T) {
	_, sys := constrained(
		[]Node{{ID: 1, FixedX: true, FixedY: true}, {ID: 2, X: 1, LoadX: 1, FixedY: true}},
		[]Element{{ID: 1, Start: 1, End: 2, E: 1e6, A: 1}},
	)

	_, err := Solve(sys, 1e3)
	assert.ErrorIs(t, err, ErrUnstable)

	_, err = Solve(sys, mat.ConditionTolerance)
	assert.NoError(t, err)
}

func TestSolveEmptySystem(t *testing.T) {
	u, err := Solve(&System{}, mat.ConditionTolerance)
	assert.NoError(t, err)
	assert.Nil(t, u)
}
