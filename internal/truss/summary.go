package truss

import "math"

// Force classification thresholds and reaction significance, in force units.
const (
	NeutralForce        = 10.0
	SignificantReaction = 10.0
)

// Verdict is the overall yield check of a structure.
type Verdict string

const (
	VerdictSafe     Verdict = "SAFE"
	VerdictFailing  Verdict = "FAILING"
	VerdictUnstable Verdict = "UNSTABLE"
)

// ForceType classifies a member force.
type ForceType string

const (
	Tension     ForceType = "tension"
	Compression ForceType = "compression"
	Neutral     ForceType = "neutral"
)

// Classify returns the force type of an axial force.
func Classify(force float64) ForceType {
	switch {
	case force > NeutralForce:
		return Tension
	case force < -NeutralForce:
		return Compression
	default:
		return Neutral
	}
}

// Reaction is a support reaction in polar form.
type Reaction struct {
	NodeID    int     `json:"nodeId"`
	Rx        float64 `json:"rx"`
	Ry        float64 `json:"ry"`
	Magnitude float64 `json:"magnitude"`
	Angle     float64 `json:"angle"`   // degrees, atan2(ry, rx)
	Support   bool    `json:"support"` // node has at least one restrained DOF
}

// Summary aggregates an analysis for reporting.
type Summary struct {
	Verdict     Verdict `json:"verdict"`
	TotalLoad   float64 `json:"totalLoad"` // sum of applied load magnitudes
	Volume      float64 `json:"volume"`    // sum of L·A over assembled members
	MaxStress   float64 `json:"maxStress"` // largest |stress|
	MinSafety   float64 `json:"minSafety"` // smallest safety factor
	Tension     int     `json:"tension"`
	Compression int     `json:"compression"`
	Neutral     int     `json:"neutral"`

	// Reactions lists significant reactions: supports, or any node whose
	// reaction exceeds SignificantReaction in either direction.
	Reactions []Reaction `json:"reactions"`
}

// Summarize derives report metrics from a model and its result.
func Summarize(m *Model, r *Result) Summary {
	var s Summary
	for _, n := range m.Nodes() {
		s.TotalLoad += math.Hypot(n.LoadX, n.LoadY)
	}
	for _, mem := range m.Members() {
		if !mem.Degenerate {
			s.Volume += mem.Length * mem.A
		}
	}

	if !r.Stable() {
		s.Verdict = VerdictUnstable
		return s
	}

	for i, e := range r.Elements {
		s.MaxStress = math.Max(s.MaxStress, math.Abs(e.Stress))
		if i == 0 || e.Safety < s.MinSafety {
			s.MinSafety = e.Safety
		}
		switch Classify(e.Force) {
		case Tension:
			s.Tension++
		case Compression:
			s.Compression++
		default:
			s.Neutral++
		}
	}

	s.Verdict = VerdictFailing
	if s.MinSafety > 1 {
		s.Verdict = VerdictSafe
	}

	nodes := m.Nodes()
	for i, n := range r.Nodes {
		support := nodes[i].FixedX || nodes[i].FixedY
		if !support && math.Abs(n.Rx) <= SignificantReaction && math.Abs(n.Ry) <= SignificantReaction {
			continue
		}
		s.Reactions = append(s.Reactions, Reaction{
			NodeID:    n.ID,
			Rx:        n.Rx,
			Ry:        n.Ry,
			Magnitude: math.Hypot(n.Rx, n.Ry),
			Angle:     math.Atan2(n.Ry, n.Rx) * 180 / math.Pi,
			Support:   support,
		})
	}

	return s
}
