package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/gotruss/internal/apperr"
	"github.com/alexiusacademia/gotruss/internal/diagram"
	"github.com/alexiusacademia/gotruss/internal/record"
	"github.com/alexiusacademia/gotruss/internal/report"
	"github.com/alexiusacademia/gotruss/internal/truss"
)

var (
	// Input
	analyzeFile   string
	analyzeFormat string
	analyzeTitle  string

	// Output
	analyzeOutput    string
	analyzeOutFormat string
	analyzeReport    bool
	analyzeASCII     bool

	// Exports
	analyzeXLSX    string
	analyzePDF     string
	analyzeDiagram string
	analyzeScale   float64
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a truss input record",
	Long: `Analyze a plane truss by the direct stiffness method.

The input record lists nodes (id, x, y, loadX, loadY, isFixedX, isFixedY)
and elements (id, start, end, E, A, yield) in SI units. It is read from
--file or standard input as JSON, YAML, TOML or an XLSX workbook with
"nodes" and "elements" sheets.

The result record is written to standard output as compact JSON:
  {"status":"success","nodes":[...],"elements":[...]}
or, for a mechanism or an unsupported structure,
  {"status":"unstable"}

Both outcomes exit with status 0. Malformed input exits with status 1.

Examples:
  # Analyze a record and print the result record
  gotruss analyze -f truss.json

  # Pipe a record through the engine
  cat truss.json | gotruss analyze

  # Terminal report with a force chart, plus a PDF and a diagram
  gotruss analyze -f truss.yaml --report --ascii --pdf truss.pdf --diagram truss.png`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "Input record (default stdin)")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "", "Input format: json, yaml, toml, xlsx (default from extension, json for stdin)")
	analyzeCmd.Flags().StringVarP(&analyzeTitle, "title", "t", "", "Report title")

	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "Write the result record to a file")
	analyzeCmd.Flags().StringVar(&analyzeOutFormat, "out-format", "json", "Result record format: json, yaml")
	analyzeCmd.Flags().BoolVarP(&analyzeReport, "report", "r", false, "Print a text report instead of the result record")
	analyzeCmd.Flags().BoolVar(&analyzeASCII, "ascii", false, "Print the member force chart, deflection graph and summary box")

	analyzeCmd.Flags().StringVar(&analyzeXLSX, "xlsx", "", "Export an Excel workbook")
	analyzeCmd.Flags().StringVar(&analyzePDF, "pdf", "", "Export a PDF report")
	analyzeCmd.Flags().StringVar(&analyzeDiagram, "diagram", "", "Export the truss diagram (.png, .svg, .pdf)")
	analyzeCmd.Flags().Float64Var(&analyzeScale, "scale", -1, "Deformed shape scale (negative picks one)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	logger := loggerFromContext(cmd.Context())

	in, err := readInput(cmd.InOrStdin(), analyzeFile, analyzeFormat)
	if err != nil {
		return err
	}
	outFormat, err := record.ParseFormat(analyzeOutFormat)
	if err != nil {
		return err
	}

	rep, err := analyzeInput(cmd.Context(), in, analyzeTitle)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if analyzeReport {
		if err := rep.WriteText(out); err != nil {
			return err
		}
		printVerdict(out, rep.Summary.Verdict)
	} else if analyzeOutput == "" {
		if err := record.NewOutput(rep.Result).Encode(out, outFormat); err != nil {
			return err
		}
	}
	if analyzeOutput != "" {
		err := writeFile(analyzeOutput, func(w io.Writer) error {
			return record.NewOutput(rep.Result).Encode(w, outFormat)
		})
		if err != nil {
			return err
		}
		logger.Info("wrote result record", "file", analyzeOutput)
	}
	if analyzeASCII {
		printCharts(out, rep, analyzeScale)
	}

	return exportReport(cmd.Context(), rep, exports{
		xlsx:    analyzeXLSX,
		pdf:     analyzePDF,
		diagram: analyzeDiagram,
		scale:   analyzeScale,
	})
}

// readInput reads a record from path, or from stdin when path is empty or "-".
func readInput(stdin io.Reader, path, format string) (*record.Input, error) {
	if path == "" || path == "-" {
		f := record.JSON
		if format != "" {
			var err error
			if f, err = record.ParseFormat(format); err != nil {
				return nil, err
			}
		}
		return record.Decode(bufio.NewReader(stdin), f)
	}
	if format == "" {
		return record.LoadFromFile(path)
	}
	f, err := record.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeFileNotFound, err, "input %s", path)
	}
	defer file.Close()
	return record.Decode(file, f)
}

// analyzeInput runs the engine on a record and logs the elements it skipped.
func analyzeInput(ctx context.Context, in *record.Input, title string) (*report.Report, error) {
	logger := loggerFromContext(ctx)
	opts := appConfig.Analysis.Options()

	p := newProgress(logger)
	m := in.Model(opts)
	for _, s := range m.Skipped() {
		logger.Warn("element skipped", "element", s.ElementID, "reason", s.Reason)
	}
	res, err := truss.AnalyzeModel(m, opts)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, err, "analyze")
	}
	p.done("analysis complete", "nodes", len(m.Nodes()), "members", len(m.Members()), "status", res.Status)
	if !res.Stable() {
		logger.Warn("structure is unstable")
	}
	return report.New(title, m, res), nil
}

// printCharts writes the terminal force chart, deflection graph and summary
// box.
func printCharts(out io.Writer, rep *report.Report, scale float64) {
	data := rep.Diagram(scale)
	fmt.Fprintln(out, diagram.DrawForceChart(data))
	if g := diagram.DrawDeflectionGraph(data, 50, 10); g != "" {
		fmt.Fprintln(out, g)
	}

	s := rep.Summary
	lines := []string{fmt.Sprintf("Total load:  %.2f kN", s.TotalLoad/1000)}
	if rep.Result.Stable() {
		lines = append(lines,
			fmt.Sprintf("Max |σ|:     %.2f MPa", s.MaxStress/1e6),
			fmt.Sprintf("Min FS:      %s", report.FormatSafety(s.MinSafety)),
			fmt.Sprintf("Members:     %dT / %dC / %d0", s.Tension, s.Compression, s.Neutral),
		)
	}
	fmt.Fprint(out, diagram.DrawSummaryBox("VERDICT: "+string(s.Verdict), lines))
}

type exports struct {
	xlsx    string
	pdf     string
	diagram string
	scale   float64
}

func exportReport(ctx context.Context, rep *report.Report, ex exports) error {
	logger := loggerFromContext(ctx)
	if ex.xlsx != "" {
		if err := writeFile(ex.xlsx, rep.WriteXLSX); err != nil {
			return err
		}
		logger.Info("wrote workbook", "file", ex.xlsx)
	}
	if ex.pdf != "" {
		err := writeFile(ex.pdf, func(w io.Writer) error {
			return rep.WritePDF(w, ex.scale)
		})
		if err != nil {
			return err
		}
		logger.Info("wrote pdf report", "file", ex.pdf)
	}
	if ex.diagram != "" {
		if err := diagram.ExportTruss(rep.Diagram(ex.scale), ex.diagram); err != nil {
			return fmt.Errorf("export diagram: %w", err)
		}
		logger.Info("wrote diagram", "file", ex.diagram)
	}
	return nil
}

// writeFile creates path and hands a buffered writer to fn. A failed write
// leaves no file behind.
func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	err = fn(bw)
	if err == nil {
		err = bw.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return err
	}
	return nil
}
