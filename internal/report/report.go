// Package report renders analysis results for people: a terminal text
// report, an Excel workbook and a PDF with the truss diagram.
package report

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"
	"time"

	"github.com/alexiusacademia/gotruss/internal/diagram"
	"github.com/alexiusacademia/gotruss/internal/truss"
)

// Report is one analyzed structure.
type Report struct {
	Title       string
	Combination string // load combination description, if any
	Date        time.Time
	Warnings    []string

	Model   *truss.Model
	Result  *truss.Result
	Summary truss.Summary
}

// New summarizes an analysis for reporting.
func New(title string, m *truss.Model, r *truss.Result) *Report {
	if title == "" {
		title = "Truss Analysis"
	}
	return &Report{
		Title:   title,
		Date:    time.Now(),
		Model:   m,
		Result:  r,
		Summary: truss.Summarize(m, r),
	}
}

// Diagram returns the drawing data of the report. A negative scale picks
// one automatically.
func (r *Report) Diagram(scale float64) diagram.TrussDiagramData {
	return diagram.NewTrussDiagramData(r.Title, r.Model, r.Result, scale)
}

// SupportLabel names the restraint of a node.
func SupportLabel(n truss.Node) string {
	switch {
	case n.FixedX && n.FixedY:
		return "Pinned"
	case n.FixedY:
		return "Roller"
	case n.FixedX:
		return "Guide"
	}
	return "Free"
}

// memberRow is a member with its result in display units.
type memberRow struct {
	ID       int
	From, To int
	Length   float64 // m
	Force    float64 // kN
	Stress   float64 // MPa
	Safety   float64
	Type     truss.ForceType
}

func (r *Report) memberRows() []memberRow {
	rows := make([]memberRow, 0, len(r.Model.Members()))
	for i, m := range r.Model.Members() {
		row := memberRow{ID: m.ID, From: m.Element.Start, To: m.Element.End, Length: m.Length, Type: truss.Neutral}
		if r.Result.Stable() {
			e := r.Result.Elements[i]
			row.Force = e.Force / 1000
			row.Stress = e.Stress / 1e6
			row.Safety = e.Safety
			row.Type = truss.Classify(e.Force)
		}
		rows = append(rows, row)
	}
	return rows
}

const rule = "───────────────────────────────────────────────────────────────"

// WriteText writes the terminal report.
func (r *Report) WriteText(out io.Writer) error {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintf(out, "     %s - DIRECT STIFFNESS METHOD\n", r.Title)
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintln(out)

	fmt.Fprintln(out, "INPUT DATA:")
	fmt.Fprintln(out, rule)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Joints:\t%d\n", len(r.Model.Nodes()))
	fmt.Fprintf(w, "  Members:\t%d\n", len(r.Model.Members()))
	fmt.Fprintf(w, "  Total applied load:\t%.2f kN\n", r.Summary.TotalLoad/1000)
	fmt.Fprintf(w, "  Material volume:\t%.6f m³\n", r.Summary.Volume)
	if r.Combination != "" {
		fmt.Fprintf(w, "  Load combination:\t%s\n", r.Combination)
	}
	w.Flush()
	fmt.Fprintln(out)

	for _, s := range r.Model.Skipped() {
		fmt.Fprintf(out, "  ⚠ Element %d skipped: %s\n", s.ElementID, s.Reason)
	}
	for _, msg := range r.Warnings {
		fmt.Fprintf(out, "  ⚠ %s\n", msg)
	}

	if !r.Result.Stable() {
		fmt.Fprintln(out, "STATUS:")
		fmt.Fprintln(out, rule)
		fmt.Fprintln(out, "  Structure is UNSTABLE: the stiffness matrix is singular.")
		fmt.Fprintln(out, "  Check supports and member connectivity.")
		fmt.Fprintln(out)
		return nil
	}

	fmt.Fprintln(out, "MEMBER FORCES:")
	fmt.Fprintln(out, rule)
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "  Member\tJoints\tL (m)\tForce (kN)\tStress (MPa)\tFS\tType\t")
	for _, m := range r.memberRows() {
		fmt.Fprintf(w, "  %d\t%d-%d\t%.3f\t%.2f\t%.2f\t%s\t%s\t\n",
			m.ID, m.From, m.To, m.Length, m.Force, m.Stress, FormatSafety(m.Safety), m.Type)
	}
	w.Flush()
	fmt.Fprintln(out)

	fmt.Fprintln(out, "REACTIONS:")
	fmt.Fprintln(out, rule)
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "  Joint\tRx (kN)\tRy (kN)\t|R| (kN)\tAngle (°)\t")
	for _, re := range r.Summary.Reactions {
		fmt.Fprintf(w, "  %d\t%.2f\t%.2f\t%.2f\t%.1f\t\n",
			re.NodeID, re.Rx/1000, re.Ry/1000, re.Magnitude/1000, re.Angle)
	}
	w.Flush()
	fmt.Fprintln(out)

	fmt.Fprintln(out, "DISPLACEMENTS:")
	fmt.Fprintln(out, rule)
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "  Joint\tSupport\tux (mm)\tuy (mm)\t")
	nodes := r.Model.Nodes()
	for i, n := range r.Result.Nodes {
		fmt.Fprintf(w, "  %d\t%s\t%.4f\t%.4f\t\n", n.ID, SupportLabel(nodes[i]), n.Ux*1000, n.Uy*1000)
	}
	w.Flush()
	fmt.Fprintln(out)

	fmt.Fprintln(out, "STATUS:")
	fmt.Fprintln(out, rule)
	fmt.Fprintf(out, "  Max |stress|: %.2f MPa\n", r.Summary.MaxStress/1e6)
	fmt.Fprintf(out, "  Min safety factor: %s\n", FormatSafety(r.Summary.MinSafety))
	fmt.Fprintf(out, "  Members: %d tension, %d compression, %d zero-force\n",
		r.Summary.Tension, r.Summary.Compression, r.Summary.Neutral)
	fmt.Fprintln(out)
	return nil
}

// FormatSafety drops the decimals of sentinel-sized factors.
func FormatSafety(fs float64) string {
	if math.Abs(fs) >= 999 {
		return fmt.Sprintf("%.0f", fs)
	}
	return fmt.Sprintf("%.2f", fs)
}
