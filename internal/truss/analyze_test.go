package truss

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bridge is the default four-joint, five-member bridge of the design sheet:
// pinned at joint 1, roller at joint 3, 50 kN down at joint 2. Steel, 15 cm².
func bridge() ([]Node, []Element) {
	nodes := []Node{
		{ID: 1, X: 0, Y: 0, FixedX: true, FixedY: true},
		{ID: 2, X: 4, Y: 0, LoadY: -50000},
		{ID: 3, X: 8, Y: 0, FixedY: true},
		{ID: 4, X: 4, Y: 4},
	}
	steel := func(id, s, e int) Element {
		return Element{ID: id, Start: s, End: e, E: 200e9, A: 15e-4, Yield: 250e6}
	}
	elements := []Element{
		steel(1, 1, 2),
		steel(2, 2, 3),
		steel(3, 1, 4),
		steel(4, 2, 4),
		steel(5, 4, 3),
	}
	return nodes, elements
}

func TestAnalyzeClosedFormAxialBar(t *testing.T) {
	const (
		F = 100.0
		L = 10.0
		E = 200000.0
		A = 1.0
	)
	nodes := []Node{
		{ID: 1, X: 0, Y: 0, FixedX: true, FixedY: true},
		{ID: 2, X: L, Y: 0, LoadX: F, FixedY: true},
	}
	elements := []Element{{ID: 1, Start: 1, End: 2, E: E, A: A, Yield: 250}}

	res, err := Analyze(nodes, elements, DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, StatusSuccess, res.Status)

	require.Len(t, res.Nodes, 2)
	assert.InDelta(t, F*L/(E*A), res.Nodes[1].Ux, 1e-12)
	assert.Zero(t, res.Nodes[1].Uy)
	assert.InDelta(t, -F, res.Nodes[0].Rx, 1e-9)
	assert.InDelta(t, 0, res.Nodes[0].Ry, 1e-9)
	assert.InDelta(t, 0, res.Nodes[1].Rx, 1e-9)

	require.Len(t, res.Elements, 1)
	assert.Equal(t, 1, res.Elements[0].ID)
	assert.InDelta(t, F, res.Elements[0].Force, 1e-9)
	assert.InDelta(t, F/A, res.Elements[0].Stress, 1e-9)
	assert.InDelta(t, 2.5, res.Elements[0].Safety, 1e-9)
}

func TestAnalyzeBarWithoutTransverseRestraintIsUnstable(t *testing.T) {
	// a single bar has no stiffness across its axis, so a free end is a mechanism
	nodes := []Node{
		{ID: 1, FixedX: true, FixedY: true},
		{ID: 2, X: 10, LoadX: 100},
	}
	elements := []Element{{ID: 1, Start: 1, End: 2, E: 200000, A: 1, Yield: 250}}

	res, err := Analyze(nodes, elements, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, StatusUnstable, res.Status)
	assert.False(t, res.Stable())
	assert.Empty(t, res.Nodes)
	assert.Empty(t, res.Elements)
}

func TestAnalyzeUnsupportedBarIsUnstable(t *testing.T) {
	nodes := []Node{{ID: 1}, {ID: 2, X: 1}}
	res, err := Analyze(nodes, []Element{{ID: 1, Start: 1, End: 2, E: 1, A: 1}}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, StatusUnstable, res.Status)
}

func TestAnalyzeBridge(t *testing.T) {
	nodes, elements := bridge()
	res, err := Analyze(nodes, elements, DefaultOptions())
	require.NoError(t, err)
	require.True(t, res.Stable())

	diag := 50000 / (2 * math.Sin(math.Pi/4))
	want := map[int]float64{1: 25000, 2: 25000, 3: -diag, 4: 50000, 5: -diag}
	require.Len(t, res.Elements, len(want))
	for _, e := range res.Elements {
		assert.InDelta(t, want[e.ID], e.Force, 1e-3, "element %d", e.ID)
		assert.InDelta(t, e.Force/15e-4, e.Stress, 1, "element %d", e.ID)
		assert.InDelta(t, 250e6/math.Abs(e.Stress), e.Safety, 1e-9, "element %d", e.ID)
	}

	assert.InDelta(t, 0, res.Nodes[0].Rx, 1e-3)
	assert.InDelta(t, 25000, res.Nodes[0].Ry, 1e-3)
	assert.InDelta(t, 25000, res.Nodes[2].Ry, 1e-3)

	// fixed DOFs do not move
	assert.Zero(t, res.Nodes[0].Ux)
	assert.Zero(t, res.Nodes[0].Uy)
	assert.Zero(t, res.Nodes[2].Uy)
	assert.Less(t, res.Nodes[1].Uy, 0.0)
}

func TestAnalyzeEquilibrium(t *testing.T) {
	nodes, elements := bridge()
	nodes[3].LoadX = 12000
	nodes[1].LoadX = -3000

	res, err := Analyze(nodes, elements, DefaultOptions())
	require.NoError(t, err)
	require.True(t, res.Stable())

	var sumX, sumY float64
	for i, n := range res.Nodes {
		sumX += n.Rx + nodes[i].LoadX
		sumY += n.Ry + nodes[i].LoadY
	}
	assert.InDelta(t, 0, sumX, 1e-6)
	assert.InDelta(t, 0, sumY, 1e-6)

	// free joints carry no reaction, loaded or not
	for _, i := range []int{1, 3} {
		assert.InDelta(t, 0, res.Nodes[i].Rx, 1e-3, "node %d", nodes[i].ID)
		assert.InDelta(t, 0, res.Nodes[i].Ry, 1e-3, "node %d", nodes[i].ID)
	}
	// roller takes no horizontal reaction
	assert.InDelta(t, 0, res.Nodes[2].Rx, 1e-3)
	assert.InDelta(t, -9000, res.Nodes[0].Rx, 1e-3)
}

func TestAnalyzeDiscardsLoadAtFixedDOF(t *testing.T) {
	nodes, elements := bridge()
	nodes[0].LoadX = 1e6

	res, err := Analyze(nodes, elements, DefaultOptions())
	require.NoError(t, err)
	assert.Zero(t, res.Nodes[0].Ux)
	// the reaction balances the discarded load as well
	assert.InDelta(t, -1e6, res.Nodes[0].Rx, 1e-3)
}

func TestAnalyzeExcludesDanglingElements(t *testing.T) {
	nodes, elements := bridge()
	base, err := Analyze(nodes, elements, DefaultOptions())
	require.NoError(t, err)

	withDangling := append([]Element{{ID: 99, Start: 1, End: 404, E: 1, A: 1, Yield: 1}}, elements...)
	res, err := Analyze(nodes, withDangling, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, base.Nodes, res.Nodes)
	assert.Equal(t, base.Elements, res.Elements)
	assert.Equal(t, []Skipped{{ElementID: 99, Reason: SkipDangling}}, res.Skipped)
}

func TestAnalyzeReportsDegenerateElementAsUnstressed(t *testing.T) {
	nodes, elements := bridge()
	nodes = append(nodes, Node{ID: 5, X: 4, Y: 4, FixedX: true, FixedY: true})
	elements = append(elements, Element{ID: 6, Start: 4, End: 5, E: 200e9, A: 15e-4, Yield: 250e6})

	res, err := Analyze(nodes, elements, DefaultOptions())
	require.NoError(t, err)
	require.True(t, res.Stable())
	require.Len(t, res.Elements, 6)

	last := res.Elements[5]
	assert.Equal(t, ElementResult{ID: 6, Force: 0, Stress: 0, Safety: 999}, last)
	assert.Equal(t, []Skipped{{ElementID: 6, Reason: SkipDegenerate}}, res.Skipped)
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	nodes, elements := bridge()
	first, err := Analyze(nodes, elements, DefaultOptions())
	require.NoError(t, err)
	second, err := Analyze(nodes, elements, DefaultOptions())
	require.NoError(t, err)

	for i := range first.Nodes {
		assert.Equal(t, math.Float64bits(first.Nodes[i].Ux), math.Float64bits(second.Nodes[i].Ux))
		assert.Equal(t, math.Float64bits(first.Nodes[i].Ry), math.Float64bits(second.Nodes[i].Ry))
	}
	assert.Equal(t, first, second)
}

func TestAnalyzeSanitizesNonFiniteResults(t *testing.T) {
	nodes := []Node{
		{ID: 1, FixedX: true, FixedY: true},
		{ID: 2, X: 1, FixedY: true, LoadX: math.Inf(1)},
	}
	res, err := Analyze(nodes, []Element{{ID: 1, Start: 1, End: 2, E: 1, A: 1, Yield: 1}}, DefaultOptions())
	require.NoError(t, err)
	require.True(t, res.Stable())

	for _, n := range res.Nodes {
		for _, v := range []float64{n.Ux, n.Uy, n.Rx, n.Ry} {
			assert.False(t, math.IsInf(v, 0) || math.IsNaN(v))
		}
	}
	for _, e := range res.Elements {
		for _, v := range []float64{e.Force, e.Stress, e.Safety} {
			assert.False(t, math.IsInf(v, 0) || math.IsNaN(v))
		}
	}
}

func TestAnalyzeZeroAreaMemberDoesNotPanic(t *testing.T) {
	nodes, elements := bridge()
	elements = append(elements, Element{ID: 6, Start: 1, End: 3, E: 200e9, A: 0, Yield: 250e6})

	res, err := Analyze(nodes, elements, DefaultOptions())
	require.NoError(t, err)
	require.True(t, res.Stable())
	assert.Equal(t, 6, res.Elements[5].ID)
	assert.Zero(t, res.Elements[5].Stress)
}

func TestAnalyzeEmptyModel(t *testing.T) {
	res, err := Analyze(nil, []Element{{ID: 1, Start: 1, End: 2}}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, res.Status)
	assert.Empty(t, res.Nodes)
	assert.Empty(t, res.Elements)
}

func TestAnalyzePreservesNonContiguousIDs(t *testing.T) {
	nodes := []Node{
		{ID: 100, FixedX: true, FixedY: true},
		{ID: 7, X: 2, LoadX: 10, FixedY: true},
	}
	res, err := Analyze(nodes, []Element{{ID: 55, Start: 100, End: 7, E: 10, A: 1, Yield: 1}}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 100, res.Nodes[0].ID)
	assert.Equal(t, 7, res.Nodes[1].ID)
	assert.Equal(t, 55, res.Elements[0].ID)
	assert.InDelta(t, 2.0, res.Nodes[1].Ux, 1e-12)
}
