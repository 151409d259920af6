package truss

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestLocalStiffnessIsSymmetricWithZeroRowSums(t *testing.T) {
	nodes := []Node{{ID: 1}, {ID: 2, X: 3, Y: 4}}
	m := NewModel(nodes, []Element{{ID: 1, Start: 1, End: 2, E: 10, A: 2}}, 1e-9)
	k := LocalStiffness(m.Members()[0])

	// EA/L = 4, c = 0.6, s = 0.8
	assert.InDelta(t, 4*0.36, k[0][0], 1e-12)
	assert.InDelta(t, 4*0.48, k[0][1], 1e-12)
	assert.InDelta(t, 4*0.64, k[1][1], 1e-12)

	for r := 0; r < 4; r++ {
		var sum float64
		for c := 0; c < 4; c++ {
			assert.InDelta(t, k[r][c], k[c][r], 1e-12)
			sum += k[r][c]
		}
		assert.InDelta(t, 0, sum, 1e-12, "row %d", r)
	}
}

func TestAssemblePlacesLoadsDirectly(t *testing.T) {
	nodes := []Node{
		{ID: 10, LoadX: 1, LoadY: 2},
		{ID: 20, X: 1, LoadX: 3, LoadY: 4},
	}
	sys := Assemble(NewModel(nodes, nil, 1e-9))

	require.Equal(t, 4, sys.Size())
	assert.Equal(t, []float64{1, 2, 3, 4}, sys.F.RawVector().Data)
	assert.True(t, mat.Equal(sys.K, mat.NewDense(4, 4, nil)))
}

func TestAssembleSuperposesMembersAtSharedNode(t *testing.T) {
	// two horizontal bars in series: 1 -- 2 -- 3
	nodes := []Node{{ID: 1}, {ID: 2, X: 1}, {ID: 3, X: 2}}
	elements := []Element{
		{ID: 1, Start: 1, End: 2, E: 100, A: 1},
		{ID: 2, Start: 2, End: 3, E: 300, A: 1},
	}
	sys := Assemble(NewModel(nodes, elements, 1e-9))

	assert.InDelta(t, 100, sys.K.At(0, 0), 1e-12)
	assert.InDelta(t, 400, sys.K.At(2, 2), 1e-12)
	assert.InDelta(t, 300, sys.K.At(4, 4), 1e-12)
	assert.InDelta(t, -100, sys.K.At(0, 2), 1e-12)
	assert.InDelta(t, -300, sys.K.At(2, 4), 1e-12)
	assert.Zero(t, sys.K.At(0, 4))
	assert.True(t, mat.EqualApprox(sys.K, sys.K.T(), 1e-12))
}

func TestAssembleIgnoresDegenerateAndDanglingElements(t *testing.T) {
	nodes := []Node{{ID: 1}, {ID: 2, X: 1}, {ID: 3, X: 1}}
	base := []Element{{ID: 1, Start: 1, End: 2, E: 5, A: 1}}
	withExtras := append(append([]Element{}, base...),
		Element{ID: 2, Start: 2, End: 3, E: 5, A: 1},  // zero length
		Element{ID: 3, Start: 1, End: 77, E: 5, A: 1}, // dangling
	)

	want := Assemble(NewModel(nodes, base, 1e-9))
	got := Assemble(NewModel(nodes, withExtras, 1e-9))
	assert.True(t, mat.Equal(want.K, got.K))
}

func TestAssembleEmptyModel(t *testing.T) {
	sys := Assemble(NewModel(nil, nil, 1e-9))
	assert.Equal(t, 0, sys.Size())
}
