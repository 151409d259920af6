package truss

import "gonum.org/v1/gonum/mat"

// System is the global stiffness system K·U = F of one analysis run.
// It is owned by the run and mutated in place by ApplySupports.
type System struct {
	K *mat.Dense    // 2N x 2N stiffness matrix
	F *mat.VecDense // 2N load vector
}

// Size returns the number of degrees of freedom.
func (s *System) Size() int {
	if s.K == nil {
		return 0
	}
	r, _ := s.K.Dims()
	return r
}

// LocalStiffness returns the 4x4 stiffness matrix of a member in global
// axes, ordered as start-X, start-Y, end-X, end-Y.
func LocalStiffness(m Member) [4][4]float64 {
	k := m.Stiffness()
	c, s := m.Cos, m.Sin
	cc, cs, ss := k*c*c, k*c*s, k*s*s
	return [4][4]float64{
		{+cc, +cs, -cc, -cs},
		{+cs, +ss, -cs, -ss},
		{-cc, -cs, +cc, +cs},
		{-cs, -ss, +cs, +ss},
	}
}

// Assemble builds the global stiffness matrix and load vector. Each node's
// load is placed at its two DOFs; member stiffnesses are superposed.
func Assemble(m *Model) *System {
	n := m.DOF()
	if n == 0 {
		return &System{}
	}

	sys := &System{
		K: mat.NewDense(n, n, nil),
		F: mat.NewVecDense(n, nil),
	}

	for i, node := range m.nodes {
		sys.F.SetVec(2*i, node.LoadX)
		sys.F.SetVec(2*i+1, node.LoadY)
	}

	for _, mem := range m.members {
		if mem.Degenerate {
			continue
		}
		local := LocalStiffness(mem)
		dofs := mem.DOFs()
		for r, gr := range dofs {
			for c, gc := range dofs {
				sys.K.Set(gr, gc, sys.K.At(gr, gc)+local[r][c])
			}
		}
	}

	return sys
}
