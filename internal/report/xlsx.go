package report

import (
	"io"

	"github.com/xuri/excelize/v2"
)

// Workbook sheet names
const (
	SheetSummary  = "Summary"
	SheetNodes    = "Nodes"
	SheetElements = "Elements"
)

// WriteXLSX writes the report as a workbook with Summary, Nodes and
// Elements sheets. The Nodes and Elements sheets repeat the input columns,
// so the workbook can be read back as an input record.
func (r *Report) WriteXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return err
	}
	for _, name := range []string{SheetNodes, SheetElements} {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		return err
	}

	s := r.Summary
	summary := [][]any{
		{"Title", r.Title},
		{"Date", r.Date.Format("2006-01-02")},
		{"Status", string(r.Result.Status)},
		{"Verdict", string(s.Verdict)},
		{"Total load (kN)", s.TotalLoad / 1000},
		{"Volume (m³)", s.Volume},
	}
	if r.Combination != "" {
		summary = append(summary, []any{"Load combination", r.Combination})
	}
	if r.Result.Stable() {
		summary = append(summary,
			[]any{"Max |stress| (MPa)", s.MaxStress / 1e6},
			[]any{"Min safety factor", s.MinSafety},
			[]any{"Tension members", s.Tension},
			[]any{"Compression members", s.Compression},
			[]any{"Zero-force members", s.Neutral},
		)
	}
	if err := writeRows(f, SheetSummary, summary); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetSummary, "A", "A", 22); err != nil {
		return err
	}

	stable := r.Result.Stable()
	nodes := [][]any{{"id", "x", "y", "loadX", "loadY", "isFixedX", "isFixedY", "type", "ux", "uy", "rx", "ry"}}
	for i, n := range r.Model.Nodes() {
		row := []any{n.ID, n.X, n.Y, n.LoadX, n.LoadY, n.FixedX, n.FixedY, SupportLabel(n)}
		if stable {
			res := r.Result.Nodes[i]
			row = append(row, res.Ux, res.Uy, res.Rx, res.Ry)
		}
		nodes = append(nodes, row)
	}
	if err := writeRows(f, SheetNodes, nodes); err != nil {
		return err
	}

	elements := [][]any{{"id", "start", "end", "E", "A", "yield", "length", "force", "stress", "safety", "type"}}
	rows := r.memberRows()
	for i, m := range r.Model.Members() {
		row := []any{m.ID, m.Element.Start, m.Element.End, m.E, m.A, m.Yield, m.Length}
		if stable {
			res := r.Result.Elements[i]
			row = append(row, res.Force, res.Stress, res.Safety, string(rows[i].Type))
		}
		elements = append(elements, row)
	}
	if err := writeRows(f, SheetElements, elements); err != nil {
		return err
	}

	for _, sheet := range []string{SheetNodes, SheetElements} {
		if err := f.SetRowStyle(sheet, 1, 1, header); err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, "A", "L", 13); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	return f.Write(w)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
