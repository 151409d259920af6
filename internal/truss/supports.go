package truss

// ApplySupports imposes the fixed-displacement supports of m on sys by row and
// column elimination: the row and column of every restrained DOF are zeroed,
// its diagonal set to 1 and its load discarded, so it solves to zero.
func ApplySupports(m *Model, sys *System) {
	for i, node := range m.nodes {
		if node.FixedX {
			sys.restrain(2 * i)
		}
		if node.FixedY {
			sys.restrain(2*i + 1)
		}
	}
}

func (s *System) restrain(dof int) {
	n := s.Size()
	for j := 0; j < n; j++ {
		s.K.Set(dof, j, 0)
		s.K.Set(j, dof, 0)
	}
	s.K.Set(dof, dof, 1)
	s.F.SetVec(dof, 0)
}
