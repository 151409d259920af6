package truss

import "math"

// Node is a pin joint of the truss.
type Node struct {
	ID     int
	X, Y   float64 // position
	LoadX  float64 // applied force, X component
	LoadY  float64 // applied force, Y component
	FixedX bool    // horizontal translation restrained
	FixedY bool    // vertical translation restrained
}

// Element is a two-force member connecting two nodes by identifier.
type Element struct {
	ID    int
	Start int // start node ID
	End   int // end node ID

	// Material and section
	E     float64 // modulus of elasticity
	A     float64 // cross-sectional area
	Yield float64 // yield strength
}

// Member is an element whose endpoints were resolved against the node set.
type Member struct {
	Element

	Pos   int // position of the element in the input
	Start int // dense index of the start node
	End   int // dense index of the end node

	Length float64
	Cos    float64 // direction cosine, start to end
	Sin    float64 // direction sine, start to end

	// Degenerate members have coincident endpoints and take no part in assembly.
	Degenerate bool
}

// Stiffness returns the axial stiffness EA/L of the member.
func (m Member) Stiffness() float64 {
	return m.E * m.A / m.Length
}

// DOFs returns the global degree-of-freedom indices ordered as
// start-X, start-Y, end-X, end-Y.
func (m Member) DOFs() [4]int {
	return [4]int{2 * m.Start, 2*m.Start + 1, 2 * m.End, 2*m.End + 1}
}

// SkipReason tells why an element was left out of the analysis.
type SkipReason string

const (
	SkipDangling   SkipReason = "dangling"   // an endpoint ID is not a node
	SkipDegenerate SkipReason = "degenerate" // endpoints coincide
)

// Skipped records an element excluded from assembly.
type Skipped struct {
	ElementID int
	Reason    SkipReason
}

// Model is the validated, index-stable view of the structure.
// Dense node indices follow input order and never change during a run.
type Model struct {
	nodes    []Node
	elements []Element
	index    map[int]int
	members  []Member
	skipped  []Skipped
}

// NewModel resolves elements against nodes. Elements with an unknown endpoint
// are skipped. Elements shorter than minLength are kept as degenerate members
// so they still appear in the output, but they carry no stiffness.
func NewModel(nodes []Node, elements []Element, minLength float64) *Model {
	m := &Model{
		nodes:    nodes,
		elements: elements,
		index:    make(map[int]int, len(nodes)),
	}

	// a repeated ID resolves to its last occurrence
	for i, n := range nodes {
		m.index[n.ID] = i
	}

	for pos, el := range elements {
		si, okStart := m.index[el.Start]
		ei, okEnd := m.index[el.End]
		if !okStart || !okEnd {
			m.skipped = append(m.skipped, Skipped{ElementID: el.ID, Reason: SkipDangling})
			continue
		}

		s, e := nodes[si], nodes[ei]
		dx, dy := e.X-s.X, e.Y-s.Y
		mem := Member{
			Element: el,
			Pos:     pos,
			Start:   si,
			End:     ei,
			Length:  math.Sqrt(dx*dx + dy*dy),
		}
		if !(mem.Length >= minLength) {
			mem.Degenerate = true
			m.skipped = append(m.skipped, Skipped{ElementID: el.ID, Reason: SkipDegenerate})
		} else {
			mem.Cos = dx / mem.Length
			mem.Sin = dy / mem.Length
		}
		m.members = append(m.members, mem)
	}

	return m
}

// Nodes returns the nodes in input order.
func (m *Model) Nodes() []Node { return m.nodes }

// Elements returns the elements in input order, including skipped ones.
func (m *Model) Elements() []Element { return m.elements }

// Members returns the resolved elements in input order.
func (m *Model) Members() []Member { return m.members }

// Skipped lists the elements excluded from assembly.
func (m *Model) Skipped() []Skipped { return m.skipped }

// Index returns the dense index of the node with the given ID.
func (m *Model) Index(id int) (int, bool) {
	i, ok := m.index[id]
	return i, ok
}

// DOF returns the size of the global system, two per node.
func (m *Model) DOF() int { return 2 * len(m.nodes) }
