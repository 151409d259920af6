package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/alexiusacademia/gotruss/internal/truss"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	styleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim   = lipgloss.NewStyle().Foreground(colorDim)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)

	styleHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleBorder = lipgloss.NewStyle().Foreground(colorDim)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError writes to stderr so piped records stay clean.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, styleIconError.Render(iconError)+" "+msg)
}

// verdictStyle colors an analysis verdict.
func verdictStyle(v truss.Verdict) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 2)
	switch v {
	case truss.VerdictSafe:
		return base.Foreground(colorGreen)
	case truss.VerdictFailing:
		return base.Foreground(colorRed)
	}
	return base.Foreground(colorYellow)
}

func printVerdict(w io.Writer, v truss.Verdict) {
	banner := verdictStyle(v).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorDim).
		Render(string(v))
	fmt.Fprintln(w, banner)
}

// renderTable draws rows in the rounded table style.
func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Render()
}
