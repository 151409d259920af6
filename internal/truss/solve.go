package truss

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrUnstable reports a singular or numerically non-invertible stiffness
// system: the structure is a mechanism, under-supported, or disconnected.
var ErrUnstable = errors.New("truss: structure is unstable")

// Displacement is the solved translation of one node.
type Displacement struct {
	Ux, Uy float64
}

// Solve factorizes the constrained system with partial-pivot LU and returns
// the displacement vector. A system whose determinant vanishes or whose
// estimated condition number exceeds conditionLimit is reported as
// ErrUnstable instead of yielding a spurious solution.
func Solve(sys *System, conditionLimit float64) (*mat.VecDense, error) {
	n := sys.Size()
	if n == 0 {
		return nil, nil
	}

	var lu mat.LU
	lu.Factorize(sys.K)

	if logDet, _ := lu.LogDet(); math.IsInf(logDet, -1) || math.IsNaN(logDet) {
		return nil, ErrUnstable
	}
	if cond := lu.Cond(); math.IsInf(cond, 0) || math.IsNaN(cond) || cond > conditionLimit {
		return nil, ErrUnstable
	}

	u := mat.NewVecDense(n, nil)
	if err := lu.SolveVecTo(u, false, sys.F); err != nil {
		var c mat.Condition
		if errors.Is(err, mat.ErrSingular) || errors.As(err, &c) {
			return nil, ErrUnstable
		}
		return nil, err
	}
	return u, nil
}

// Displacements splits u into per-node pairs using the DOF numbering of m.
func Displacements(m *Model, u *mat.VecDense) []Displacement {
	out := make([]Displacement, len(m.nodes))
	if u == nil {
		return out
	}
	for i := range out {
		out[i] = Displacement{Ux: u.AtVec(2 * i), Uy: u.AtVec(2*i + 1)}
	}
	return out
}
