// Package truss implements static analysis of 2D pin-jointed trusses by the
// direct-stiffness method.
//
// An analysis runs as a fixed sequence of stages, each taking and returning
// explicit buffers:
//
//	m := NewModel(nodes, elements, opts.MinLength)
//	sys := Assemble(m)
//	ApplySupports(m, sys)
//	u, err := Solve(sys, opts.ConditionLimit)
//	nodes, elements := Recover(m, Displacements(m, u), opts)
//
// Analyze wires them together. The formulation is linear-elastic and
// small-displacement with two translational DOFs per node. Runs share no
// state, so independent structures may be analyzed concurrently.
package truss

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// Status tags the outcome of an analysis.
type Status string

const (
	StatusSuccess  Status = "success"
	StatusUnstable Status = "unstable"
)

// Options holds the numerical tolerances of the engine.
type Options struct {
	MinLength       float64 // members shorter than this are degenerate
	StressThreshold float64 // |stress| at or below this is treated as zero
	SafetySentinel  float64 // safety factor reported for unstressed members
	ConditionLimit  float64 // condition numbers above this are singular
}

// DefaultOptions returns the engine tolerances.
func DefaultOptions() Options {
	return Options{
		MinLength:       1e-9,
		StressThreshold: 1e-6,
		SafetySentinel:  999,
		ConditionLimit:  mat.ConditionTolerance,
	}
}

// Result is the outcome of one analysis. Nodes and Elements are empty when
// the structure is unstable.
type Result struct {
	Status   Status
	Nodes    []NodeResult
	Elements []ElementResult

	// Skipped lists elements excluded from assembly. It is informational
	// and is not part of the result record.
	Skipped []Skipped
}

// Stable reports whether the analysis produced a solution.
func (r *Result) Stable() bool { return r.Status == StatusSuccess }

// Analyze runs the full pipeline on one structure.
func Analyze(nodes []Node, elements []Element, opts Options) (*Result, error) {
	m := NewModel(nodes, elements, opts.MinLength)
	return AnalyzeModel(m, opts)
}

// AnalyzeModel runs assembly, support enforcement, solution and recovery on
// an already resolved model.
func AnalyzeModel(m *Model, opts Options) (*Result, error) {
	sys := Assemble(m)
	ApplySupports(m, sys)

	u, err := Solve(sys, opts.ConditionLimit)
	if errors.Is(err, ErrUnstable) {
		return &Result{Status: StatusUnstable, Skipped: m.Skipped()}, nil
	}
	if err != nil {
		return nil, err
	}

	nodeRes, elemRes := Recover(m, Displacements(m, u), opts)
	return &Result{
		Status:   StatusSuccess,
		Nodes:    nodeRes,
		Elements: elemRes,
		Skipped:  m.Skipped(),
	}, nil
}
