package truss

import "math"

// NodeResult holds the response of one node.
type NodeResult struct {
	ID     int
	Ux, Uy float64 // displacement
	Rx, Ry float64 // support reaction
}

// ElementResult holds the response of one member.
type ElementResult struct {
	ID     int
	Force  float64 // axial force, positive in tension
	Stress float64 // axial stress
	Safety float64 // yield strength over |stress|
}

// Elongation is the relative end displacement projected onto the member axis.
func Elongation(m Member, start, end Displacement) float64 {
	return (end.Ux-start.Ux)*m.Cos + (end.Uy-start.Uy)*m.Sin
}

// SafetyFactor returns yield/|stress|, or sentinel when the member is
// effectively unstressed.
func SafetyFactor(yield, stress, threshold, sentinel float64) float64 {
	if math.Abs(stress) > threshold {
		return yield / math.Abs(stress)
	}
	return sentinel
}

// Recover back-calculates member forces, stresses and safety factors and the
// nodal reactions from the solved displacements. The reaction at a node is the
// negative of the internal member forces acting on it plus its applied load,
// so it vanishes at free joints up to round-off. Non-finite values are
// reported as zero.
func Recover(m *Model, disp []Displacement, opts Options) ([]NodeResult, []ElementResult) {
	internal := make([][2]float64, len(m.nodes))
	elements := make([]ElementResult, 0, len(m.members))

	for _, mem := range m.members {
		res := ElementResult{ID: mem.ID, Safety: opts.SafetySentinel}
		if !mem.Degenerate {
			e := Elongation(mem, disp[mem.Start], disp[mem.End])
			res.Force = mem.Stiffness() * e
			res.Stress = res.Force / mem.A
			res.Safety = SafetyFactor(mem.Yield, res.Stress, opts.StressThreshold, opts.SafetySentinel)

			internal[mem.Start][0] += res.Force * mem.Cos
			internal[mem.Start][1] += res.Force * mem.Sin
			internal[mem.End][0] -= res.Force * mem.Cos
			internal[mem.End][1] -= res.Force * mem.Sin
		}

		res.Force = finite(res.Force)
		res.Stress = finite(res.Stress)
		res.Safety = finite(res.Safety)
		elements = append(elements, res)
	}

	nodes := make([]NodeResult, len(m.nodes))
	for i, node := range m.nodes {
		nodes[i] = NodeResult{
			ID: node.ID,
			Ux: finite(disp[i].Ux),
			Uy: finite(disp[i].Uy),
			Rx: finite(-(internal[i][0] + node.LoadX)),
			Ry: finite(-(internal[i][1] + node.LoadY)),
		}
	}

	return nodes, elements
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
