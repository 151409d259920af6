package report

import (
	"bytes"
	"fmt"
	"io"

	"github.com/phpdave11/gofpdf"

	"github.com/alexiusacademia/gotruss/internal/diagram"
	"github.com/alexiusacademia/gotruss/internal/truss"
)

// WritePDF writes an A4 report with the truss diagram, member forces and
// reactions. scale is the deformed-shape magnification passed to the
// diagram; negative picks one automatically.
func (r *Report) WritePDF(w io.Writer, scale float64) error {
	var img bytes.Buffer
	if err := diagram.WriteTruss(r.Diagram(scale), &img, "png"); err != nil {
		return fmt.Errorf("render diagram: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(r.Title, true)
	pdf.SetCreationDate(r.Date)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr(r.Title))
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", r.Date.Format("2006-01-02")))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Joints: %d   Members: %d   Total load: %.2f kN",
		len(r.Model.Nodes()), len(r.Model.Members()), r.Summary.TotalLoad/1000))
	pdf.Ln(6)
	if r.Combination != "" {
		pdf.Cell(0, 6, tr("Load combination: "+r.Combination))
		pdf.Ln(6)
	}

	pdf.SetFont("Helvetica", "B", 12)
	if r.Summary.Verdict == truss.VerdictSafe {
		pdf.SetFillColor(200, 235, 200)
	} else {
		pdf.SetFillColor(245, 200, 200)
	}
	pdf.Ln(2)
	pdf.CellFormat(0, 9, "Verdict: "+string(r.Summary.Verdict), "1", 1, "C", true, 0, "")
	pdf.Ln(3)

	pdf.RegisterImageOptionsReader("truss", gofpdf.ImageOptions{ImageType: "PNG"}, &img)
	pdf.ImageOptions("truss", 10, pdf.GetY(), 190, 0, true, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	pdf.Ln(4)

	if !r.Result.Stable() {
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, "The stiffness matrix is singular. Check supports and member connectivity.", "", "L", false)
		return output(pdf, w)
	}

	table := func(title string, header []string, widths []float64, rows [][]string) {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, title)
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(221, 235, 247)
		for i, h := range header {
			pdf.CellFormat(widths[i], 7, tr(h), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 9)
		for _, row := range rows {
			for i, c := range row {
				pdf.CellFormat(widths[i], 6, tr(c), "1", 0, "R", false, 0, "")
			}
			pdf.Ln(-1)
		}
		pdf.Ln(4)
	}

	var members [][]string
	for _, m := range r.memberRows() {
		members = append(members, []string{
			fmt.Sprint(m.ID),
			fmt.Sprintf("%d-%d", m.From, m.To),
			fmt.Sprintf("%.3f", m.Length),
			fmt.Sprintf("%.2f", m.Force),
			fmt.Sprintf("%.2f", m.Stress),
			FormatSafety(m.Safety),
			string(m.Type),
		})
	}
	table("Member Forces",
		[]string{"Member", "Joints", "L (m)", "Force (kN)", "Stress (MPa)", "FS", "Type"},
		[]float64{20, 25, 25, 30, 30, 25, 35}, members)

	var reactions [][]string
	for _, re := range r.Summary.Reactions {
		reactions = append(reactions, []string{
			fmt.Sprint(re.NodeID),
			fmt.Sprintf("%.2f", re.Rx/1000),
			fmt.Sprintf("%.2f", re.Ry/1000),
			fmt.Sprintf("%.2f", re.Magnitude/1000),
			fmt.Sprintf("%.1f", re.Angle),
		})
	}
	table("Reactions",
		[]string{"Joint", "Rx (kN)", "Ry (kN)", "|R| (kN)", "Angle (°)"},
		[]float64{25, 35, 35, 35, 30}, reactions)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Max |stress| %.2f MPa, min safety factor %s",
		r.Summary.MaxStress/1e6, FormatSafety(r.Summary.MinSafety)))
	pdf.Ln(6)

	return output(pdf, w)
}

func output(pdf *gofpdf.Fpdf, w io.Writer) error {
	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}
