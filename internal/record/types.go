// Package record defines the input and output records exchanged with the
// truss engine and their encodings.
//
// The input record carries two ordered collections:
//
//	{"nodes":    [{"id":1,"x":0,"y":0,"loadX":0,"loadY":0,"isFixedX":true,"isFixedY":true}],
//	 "elements": [{"id":1,"start":1,"end":2,"E":2e11,"A":0.0015,"yield":2.5e8}]}
//
// The output record is tagged by status. An unstable structure is reported as
// {"status":"unstable"} and nothing else.
package record

import (
	"encoding/json"

	"github.com/alexiusacademia/gotruss/internal/truss"
)

// Node is one entry of the input node list.
type Node struct {
	ID       int     `json:"id" yaml:"id" toml:"id"`
	X        float64 `json:"x" yaml:"x" toml:"x"`
	Y        float64 `json:"y" yaml:"y" toml:"y"`
	LoadX    float64 `json:"loadX" yaml:"loadX" toml:"loadX"`
	LoadY    float64 `json:"loadY" yaml:"loadY" toml:"loadY"`
	IsFixedX Flag    `json:"isFixedX" yaml:"isFixedX" toml:"isFixedX"`
	IsFixedY Flag    `json:"isFixedY" yaml:"isFixedY" toml:"isFixedY"`

	// Type is the support label written by the design sheet. The engine
	// ignores it; reports use it for display.
	Type string `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
}

// Element is one entry of the input element list.
type Element struct {
	ID    int     `json:"id" yaml:"id" toml:"id"`
	Start int     `json:"start" yaml:"start" toml:"start"`
	End   int     `json:"end" yaml:"end" toml:"end"`
	E     float64 `json:"E" yaml:"E" toml:"E"`
	A     float64 `json:"A" yaml:"A" toml:"A"`
	Yield float64 `json:"yield" yaml:"yield" toml:"yield"`
}

// Input is the structure to analyze.
type Input struct {
	Nodes    []Node    `json:"nodes" yaml:"nodes" toml:"nodes"`
	Elements []Element `json:"elements" yaml:"elements" toml:"elements"`
}

// Truss converts the record into engine types, preserving order.
func (in *Input) Truss() ([]truss.Node, []truss.Element) {
	nodes := make([]truss.Node, len(in.Nodes))
	for i, n := range in.Nodes {
		nodes[i] = truss.Node{
			ID:     n.ID,
			X:      n.X,
			Y:      n.Y,
			LoadX:  n.LoadX,
			LoadY:  n.LoadY,
			FixedX: bool(n.IsFixedX),
			FixedY: bool(n.IsFixedY),
		}
	}
	elements := make([]truss.Element, len(in.Elements))
	for i, e := range in.Elements {
		elements[i] = truss.Element{ID: e.ID, Start: e.Start, End: e.End, E: e.E, A: e.A, Yield: e.Yield}
	}
	return nodes, elements
}

// Model resolves the record into an engine model.
func (in *Input) Model(opts truss.Options) *truss.Model {
	nodes, elements := in.Truss()
	return truss.NewModel(nodes, elements, opts.MinLength)
}

// NodeResult is one entry of the output node list.
type NodeResult struct {
	ID int     `json:"id" yaml:"id"`
	Ux float64 `json:"ux" yaml:"ux"`
	Uy float64 `json:"uy" yaml:"uy"`
	Rx float64 `json:"rx" yaml:"rx"`
	Ry float64 `json:"ry" yaml:"ry"`
}

// ElementResult is one entry of the output element list.
type ElementResult struct {
	ID     int     `json:"id" yaml:"id"`
	Force  float64 `json:"force" yaml:"force"`
	Stress float64 `json:"stress" yaml:"stress"`
	Safety float64 `json:"safety" yaml:"safety"`
}

// Output is the result record.
type Output struct {
	Status   truss.Status    `json:"status" yaml:"status"`
	Nodes    []NodeResult    `json:"nodes" yaml:"nodes"`
	Elements []ElementResult `json:"elements" yaml:"elements"`
}

// NewOutput builds the result record of an analysis. A successful result
// always carries both lists, even when empty.
func NewOutput(r *truss.Result) Output {
	if !r.Stable() {
		return Output{Status: truss.StatusUnstable}
	}
	out := Output{
		Status:   truss.StatusSuccess,
		Nodes:    make([]NodeResult, len(r.Nodes)),
		Elements: make([]ElementResult, len(r.Elements)),
	}
	for i, n := range r.Nodes {
		out.Nodes[i] = NodeResult{ID: n.ID, Ux: n.Ux, Uy: n.Uy, Rx: n.Rx, Ry: n.Ry}
	}
	for i, e := range r.Elements {
		out.Elements[i] = ElementResult{ID: e.ID, Force: e.Force, Stress: e.Stress, Safety: e.Safety}
	}
	return out
}

type statusOnly struct {
	Status truss.Status `json:"status" yaml:"status"`
}

// plainOutput has Output's fields without its marshalers.
type plainOutput Output

// MarshalJSON writes an unstable result as the bare status tag.
func (o Output) MarshalJSON() ([]byte, error) {
	if o.Status != truss.StatusSuccess {
		return json.Marshal(statusOnly{Status: o.Status})
	}
	p := plainOutput(o)
	if p.Nodes == nil {
		p.Nodes = []NodeResult{}
	}
	if p.Elements == nil {
		p.Elements = []ElementResult{}
	}
	return json.Marshal(p)
}

// MarshalYAML writes an unstable result as the bare status tag.
func (o Output) MarshalYAML() (any, error) {
	if o.Status != truss.StatusSuccess {
		return statusOnly{Status: o.Status}, nil
	}
	return plainOutput(o), nil
}
