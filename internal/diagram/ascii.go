package diagram

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/alexiusacademia/gotruss/internal/truss"
)

// chartWidth is the bar length of the largest member force
const chartWidth = 30

// DrawForceChart creates an ASCII bar chart of member forces, tension to the
// right of the axis and compression to the left
func DrawForceChart(data TrussDiagramData) string {
	var sb strings.Builder

	maxForce := 0.0
	for _, m := range data.Members {
		maxForce = math.Max(maxForce, math.Abs(m.Force))
	}

	sb.WriteString("\n")
	sb.WriteString("  MEMBER FORCES (kN)\n")
	sb.WriteString("  ──────────────────\n\n")
	sb.WriteString(fmt.Sprintf("  %6s  %*s┃%-*s\n", "", chartWidth, "compression ", chartWidth, " tension"))

	for _, m := range data.Members {
		bar := 0
		if maxForce > 0 {
			bar = int(math.Round(math.Abs(m.Force) / maxForce * chartWidth))
		}

		left := strings.Repeat(" ", chartWidth)
		right := ""
		switch m.Type {
		case truss.Tension:
			right = strings.Repeat("█", bar)
		case truss.Compression:
			left = strings.Repeat(" ", chartWidth-bar) + strings.Repeat("▒", bar)
		}

		label := fmt.Sprintf("M%d", m.ID)
		if m.Degenerate {
			label += "*"
		}
		sb.WriteString(fmt.Sprintf("  %6s  %s┃%s %.2f\n", label, left, right, m.Force/1000))
	}

	sb.WriteString("\n")
	sb.WriteString("  Legend:\n")
	sb.WriteString("  ███ = Tension\n")
	sb.WriteString("  ▒▒▒ = Compression\n")
	for _, m := range data.Members {
		if m.Degenerate {
			sb.WriteString("  *   = Zero-length member, not analyzed\n")
			break
		}
	}

	return sb.String()
}

// DrawSummaryBox creates a summary box for results
func DrawSummaryBox(title string, lines []string) string {
	var sb strings.Builder

	maxLen := len([]rune(title))
	for _, line := range lines {
		if n := len([]rune(line)); n > maxLen {
			maxLen = n
		}
	}
	maxLen += 4

	border := strings.Repeat("═", maxLen)
	sb.WriteString(fmt.Sprintf("  ╔%s╗\n", border))
	sb.WriteString(fmt.Sprintf("  ║  %-*s  ║\n", maxLen-4, title))
	sb.WriteString(fmt.Sprintf("  ╠%s╣\n", border))
	for _, line := range lines {
		sb.WriteString(fmt.Sprintf("  ║  %-*s  ║\n", maxLen-4, line))
	}
	sb.WriteString(fmt.Sprintf("  ╚%s╝\n", border))

	return sb.String()
}

// DrawDeflectionGraph plots the vertical displacement (mm) of the joints,
// ordered left to right. It returns "" when there is nothing to plot.
func DrawDeflectionGraph(data TrussDiagramData, width, height int) string {
	if len(data.Nodes) < 2 {
		return ""
	}
	nodes := make([]NodePoint, len(data.Nodes))
	copy(nodes, data.Nodes)
	sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].Pos.X < nodes[j].Pos.X })

	uy := make([]float64, len(nodes))
	moved := false
	for i, n := range nodes {
		uy[i] = n.Disp.Y * 1000
		moved = moved || uy[i] != 0
	}
	if !moved {
		return ""
	}

	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = fmt.Sprint(n.ID)
	}
	graph := asciigraph.Plot(uy,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Precision(3),
		asciigraph.Caption("uy (mm) at joints "+strings.Join(ids, ", ")),
	)
	return "\n  JOINT DEFLECTION\n  ────────────────\n\n" + graph + "\n"
}
