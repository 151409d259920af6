package project

import (
	"fmt"

	"github.com/alexiusacademia/gotruss/internal/apperr"
	"github.com/alexiusacademia/gotruss/internal/nscp"
	"github.com/alexiusacademia/gotruss/internal/record"
)

// Build validates the project and compiles it into an input record in SI
// units. Loads are factored by the project's combination and summed per
// joint. Members that loop on one joint or reference an unknown joint are
// dropped and reported as warnings.
func (p *Project) Build() (*record.Input, []string, error) {
	if err := p.Validate(); err != nil {
		return nil, nil, err
	}
	mat, err := p.Material.resolve()
	if err != nil {
		return nil, nil, apperr.Wrap(apperr.CodeInvalidProject, err, "material")
	}
	combo, err := nscp.LookupCombination(p.Combination)
	if err != nil {
		return nil, nil, apperr.Wrap(apperr.CodeInvalidProject, err, "combination")
	}

	in := &record.Input{
		Nodes:    make([]record.Node, 0, len(p.Joints)),
		Elements: make([]record.Element, 0, len(p.Members)),
	}
	index := make(map[int]int, len(p.Joints))
	for _, j := range p.Joints {
		fx, fy := j.Support.Restraints()
		index[j.ID] = len(in.Nodes)
		in.Nodes = append(in.Nodes, record.Node{
			ID:       j.ID,
			X:        j.X,
			Y:        j.Y,
			IsFixedX: record.Flag(fx),
			IsFixedY: record.Flag(fy),
			Type:     j.Support.Label(),
		})
	}

	for _, l := range p.Loads {
		kind, err := nscp.ParseLoadKind(l.Kind)
		if err != nil {
			return nil, nil, apperr.Wrap(apperr.CodeInvalidProject, err, "load on joint %d", l.Joint)
		}
		fx, fy := combo.Components(kind, l.Magnitude, l.Angle)
		n := &in.Nodes[index[l.Joint]]
		n.LoadX += fx
		n.LoadY += fy
	}

	var warnings []string
	e, yield := mat.SI()
	area := p.Material.AreaCm2 * nscp.Cm2
	for _, m := range p.Members {
		_, okFrom := index[m.From]
		_, okTo := index[m.To]
		switch {
		case m.From == m.To:
			warnings = append(warnings, fmt.Sprintf("member %d connects joint %d to itself; dropped", m.ID, m.From))
			continue
		case !okFrom || !okTo:
			warnings = append(warnings, fmt.Sprintf("member %d references a missing joint (%d-%d); dropped", m.ID, m.From, m.To))
			continue
		}
		in.Elements = append(in.Elements, record.Element{
			ID:    m.ID,
			Start: m.From,
			End:   m.To,
			E:     e,
			A:     area,
			Yield: yield,
		})
	}
	return in, warnings, nil
}
