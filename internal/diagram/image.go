package diagram

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/alexiusacademia/gotruss/internal/truss"
)

// Point represents a 2D coordinate
type Point struct {
	X float64
	Y float64
}

// NodePoint is a joint as drawn
type NodePoint struct {
	ID     int
	Pos    Point
	Disp   Point // displacement, model units
	Load   Point // applied force, N
	FixedX bool
	FixedY bool
}

// MemberLine is a member as drawn
type MemberLine struct {
	ID         int
	Start, End int // indices into Nodes
	Force      float64
	Type       truss.ForceType
	Degenerate bool
}

// TrussDiagramData holds data for drawing a truss
type TrussDiagramData struct {
	Title   string
	Nodes   []NodePoint
	Members []MemberLine

	// Scale magnifies displacements in the deformed shape. Zero draws no
	// deformed shape.
	Scale float64
}

// Colors of the member force types
var (
	TensionColor     = color.RGBA{R: 30, G: 90, B: 200, A: 255}
	CompressionColor = color.RGBA{R: 230, G: 120, B: 0, A: 255}
	NeutralColor     = color.Gray{Y: 140}
	DeformedColor    = color.RGBA{R: 200, G: 0, B: 0, A: 180}
)

// NewTrussDiagramData collects the drawing data of an analyzed model. A
// negative scale picks one that makes the largest displacement a twentieth
// of the structure's extent. Unstable results draw the undeformed truss.
func NewTrussDiagramData(title string, m *truss.Model, r *truss.Result, scale float64) TrussDiagramData {
	data := TrussDiagramData{Title: title}
	for _, n := range m.Nodes() {
		data.Nodes = append(data.Nodes, NodePoint{
			ID:     n.ID,
			Pos:    Point{X: n.X, Y: n.Y},
			Load:   Point{X: n.LoadX, Y: n.LoadY},
			FixedX: n.FixedX,
			FixedY: n.FixedY,
		})
	}
	stable := r != nil && r.Stable()
	if stable {
		for i, n := range r.Nodes {
			data.Nodes[i].Disp = Point{X: n.Ux, Y: n.Uy}
		}
	}
	for i, mem := range m.Members() {
		line := MemberLine{ID: mem.ID, Start: mem.Start, End: mem.End, Type: truss.Neutral, Degenerate: mem.Degenerate}
		if stable {
			line.Force = r.Elements[i].Force
			line.Type = truss.Classify(line.Force)
		}
		data.Members = append(data.Members, line)
	}

	if !stable {
		return data
	}
	if scale >= 0 {
		data.Scale = scale
		return data
	}
	maxDisp := 0.0
	for _, n := range data.Nodes {
		maxDisp = math.Max(maxDisp, math.Hypot(n.Disp.X, n.Disp.Y))
	}
	if maxDisp > 0 {
		minX, maxX, minY, maxY := data.bounds()
		data.Scale = 0.05 * math.Max(maxX-minX, maxY-minY) / maxDisp
	}
	return data
}

func (d TrussDiagramData) bounds() (minX, maxX, minY, maxY float64) {
	for i, n := range d.Nodes {
		if i == 0 {
			minX, maxX, minY, maxY = n.Pos.X, n.Pos.X, n.Pos.Y, n.Pos.Y
			continue
		}
		minX = math.Min(minX, n.Pos.X)
		maxX = math.Max(maxX, n.Pos.X)
		minY = math.Min(minY, n.Pos.Y)
		maxY = math.Max(maxY, n.Pos.Y)
	}
	return minX, maxX, minY, maxY
}

const (
	diagramWidth  = 8 * vg.Inch
	diagramHeight = 6 * vg.Inch
)

// TrussPlot builds the truss diagram: undeformed members colored by force
// type, the scaled deformed shape dashed, supports, loads and labels
func TrussPlot(data TrussDiagramData) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = data.Title
	if p.Title.Text == "" {
		p.Title.Text = "Truss Analysis"
	}
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = "y (m)"
	p.Add(plotter.NewGrid())

	if len(data.Nodes) == 0 {
		return p, nil
	}

	for _, m := range data.Members {
		if m.Degenerate {
			continue
		}
		a, b := data.Nodes[m.Start].Pos, data.Nodes[m.End].Pos
		line, err := plotter.NewLine(plotter.XYs{{X: a.X, Y: a.Y}, {X: b.X, Y: b.Y}})
		if err != nil {
			return nil, err
		}
		line.LineStyle.Width = vg.Points(2.5)
		switch m.Type {
		case truss.Tension:
			line.LineStyle.Color = TensionColor
		case truss.Compression:
			line.LineStyle.Color = CompressionColor
		default:
			line.LineStyle.Color = NeutralColor
		}
		p.Add(line)
	}

	if data.Scale > 0 {
		for _, m := range data.Members {
			if m.Degenerate {
				continue
			}
			a, b := data.Nodes[m.Start], data.Nodes[m.End]
			line, err := plotter.NewLine(plotter.XYs{
				{X: a.Pos.X + data.Scale*a.Disp.X, Y: a.Pos.Y + data.Scale*a.Disp.Y},
				{X: b.Pos.X + data.Scale*b.Disp.X, Y: b.Pos.Y + data.Scale*b.Disp.Y},
			})
			if err != nil {
				return nil, err
			}
			line.LineStyle.Width = vg.Points(1)
			line.LineStyle.Color = DeformedColor
			line.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
			p.Add(line)
		}
	}

	minX, maxX, minY, maxY := data.bounds()
	extent := math.Max(maxX-minX, maxY-minY)
	if extent == 0 {
		extent = 1
	}

	// Loads as arrows ending at the joint
	maxLoad := 0.0
	for _, n := range data.Nodes {
		maxLoad = math.Max(maxLoad, math.Hypot(n.Load.X, n.Load.Y))
	}
	for _, n := range data.Nodes {
		mag := math.Hypot(n.Load.X, n.Load.Y)
		if mag == 0 {
			continue
		}
		length := 0.15 * extent * mag / maxLoad
		ux, uy := n.Load.X/mag, n.Load.Y/mag
		tail := Point{X: n.Pos.X - ux*length, Y: n.Pos.Y - uy*length}
		head := 0.03 * extent
		arrow, err := plotter.NewLine(plotter.XYs{
			{X: tail.X, Y: tail.Y},
			{X: n.Pos.X, Y: n.Pos.Y},
			{X: n.Pos.X - head*(ux-uy*0.5), Y: n.Pos.Y - head*(uy+ux*0.5)},
			{X: n.Pos.X, Y: n.Pos.Y},
			{X: n.Pos.X - head*(ux+uy*0.5), Y: n.Pos.Y - head*(uy-ux*0.5)},
		})
		if err != nil {
			return nil, err
		}
		arrow.LineStyle.Width = vg.Points(1.5)
		arrow.LineStyle.Color = color.RGBA{R: 200, G: 0, B: 0, A: 255}
		p.Add(arrow)

		l, err := plotter.NewLabels(plotter.XYLabels{
			XYs:    []plotter.XY{{X: tail.X, Y: tail.Y}},
			Labels: []string{fmt.Sprintf("%.1f kN", mag/1000)},
		})
		if err != nil {
			return nil, err
		}
		p.Add(l)
	}

	// Supports: pins as triangles, rollers as circles, X-only restraints as squares
	glyphs := []struct {
		match func(NodePoint) bool
		shape draw.GlyphDrawer
	}{
		{func(n NodePoint) bool { return n.FixedX && n.FixedY }, draw.TriangleGlyph{}},
		{func(n NodePoint) bool { return !n.FixedX && n.FixedY }, draw.CircleGlyph{}},
		{func(n NodePoint) bool { return n.FixedX && !n.FixedY }, draw.BoxGlyph{}},
	}
	for _, g := range glyphs {
		var pts plotter.XYs
		for _, n := range data.Nodes {
			if g.match(n) {
				pts = append(pts, plotter.XY{X: n.Pos.X, Y: n.Pos.Y})
			}
		}
		if len(pts) == 0 {
			continue
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, err
		}
		s.GlyphStyle.Shape = g.shape
		s.GlyphStyle.Radius = vg.Points(6)
		s.GlyphStyle.Color = color.RGBA{R: 0, G: 120, B: 0, A: 255}
		p.Add(s)
	}

	// Joints and labels
	joints := make(plotter.XYs, len(data.Nodes))
	labels := make([]string, len(data.Nodes))
	for i, n := range data.Nodes {
		joints[i] = plotter.XY{X: n.Pos.X, Y: n.Pos.Y}
		labels[i] = fmt.Sprintf("N%d", n.ID)
	}
	js, err := plotter.NewScatter(joints)
	if err != nil {
		return nil, err
	}
	js.GlyphStyle.Shape = draw.CircleGlyph{}
	js.GlyphStyle.Radius = vg.Points(3)
	js.GlyphStyle.Color = color.Black
	p.Add(js)

	nl, err := plotter.NewLabels(plotter.XYLabels{XYs: joints, Labels: labels})
	if err != nil {
		return nil, err
	}
	nl.Offset = vg.Point{X: vg.Points(5), Y: vg.Points(5)}
	p.Add(nl)

	var mxy plotter.XYs
	var mlabels []string
	for _, m := range data.Members {
		if m.Degenerate {
			continue
		}
		a, b := data.Nodes[m.Start].Pos, data.Nodes[m.End].Pos
		mxy = append(mxy, plotter.XY{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2})
		mlabels = append(mlabels, fmt.Sprintf("M%d", m.ID))
	}
	if len(mxy) > 0 {
		ml, err := plotter.NewLabels(plotter.XYLabels{XYs: mxy, Labels: mlabels})
		if err != nil {
			return nil, err
		}
		p.Add(ml)
	}

	// Equal scale on both axes
	pad := 0.2 * extent
	unit := math.Max((maxX-minX+2*pad)/diagramWidth.Points(), (maxY-minY+2*pad)/diagramHeight.Points())
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	halfW, halfH := unit*diagramWidth.Points()/2, unit*diagramHeight.Points()/2
	p.X.Min, p.X.Max = cx-halfW, cx+halfW
	p.Y.Min, p.Y.Max = cy-halfH, cy+halfH

	return p, nil
}

// WriteTruss renders the truss diagram to w in the given format (png, svg,
// pdf, ...)
func WriteTruss(data TrussDiagramData, w io.Writer, format string) error {
	p, err := TrussPlot(data)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(diagramWidth, diagramHeight, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// ExportTruss exports a truss diagram to an image file
func ExportTruss(data TrussDiagramData, filename string) error {
	p, err := TrussPlot(data)
	if err != nil {
		return err
	}

	// Create directory if needed
	dir := filepath.Dir(filename)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png", ".svg", ".pdf", ".jpg", ".jpeg", ".eps", ".tif", ".tiff":
		return p.Save(diagramWidth, diagramHeight, filename)
	default:
		return p.Save(diagramWidth, diagramHeight, filename+".png")
	}
}
