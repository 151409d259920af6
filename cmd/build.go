package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/gotruss/internal/nscp"
	"github.com/alexiusacademia/gotruss/internal/project"
	"github.com/alexiusacademia/gotruss/internal/record"
)

var (
	buildFile      string
	buildOutput    string
	buildOutFormat string
	buildAnalyze   bool

	buildXLSX    string
	buildPDF     string
	buildDiagram string
	buildScale   float64
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Compile a design-sheet project into an input record",
	Long: `Compile a project into an input record in SI units.

A project describes joints with support types (free, pinned, roller,
fixed), members between joints, loads as a magnitude (kN) at an angle
(degrees) with a load kind, a material preset and a member area (cm²).
When the project names an NSCP 2015 load combination (1 to 7) each load
is multiplied by that combination's factor for its kind.

Material presets:
  Steel     E = 200 GPa, Fy = 250 MPa
  Aluminum  E =  70 GPa, Fy =  95 MPa
  Wood      E =  13 GPa, Fy =  40 MPa
  Custom    eGPa and yieldMPa given in the project

Examples:
  # Write the input record
  gotruss build -f bridge.yaml -o bridge.json

  # Compile and analyze in one go, with a text report
  gotruss build -f bridge.yaml --analyze

  # Compile, analyze and export a PDF report
  gotruss build -f bridge.yaml --analyze --pdf bridge.pdf`,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVarP(&buildFile, "file", "f", "", "Project file (.json, .yaml, .toml) [required]")
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "Write the input record to a file (default stdout)")
	buildCmd.Flags().StringVar(&buildOutFormat, "out-format", "", "Input record format: json, yaml, toml (default from -o extension)")
	buildCmd.Flags().BoolVarP(&buildAnalyze, "analyze", "a", false, "Analyze the compiled record and print a report")

	buildCmd.Flags().StringVar(&buildXLSX, "xlsx", "", "Export an Excel workbook (with --analyze)")
	buildCmd.Flags().StringVar(&buildPDF, "pdf", "", "Export a PDF report (with --analyze)")
	buildCmd.Flags().StringVar(&buildDiagram, "diagram", "", "Export the truss diagram (with --analyze)")
	buildCmd.Flags().Float64Var(&buildScale, "scale", -1, "Deformed shape scale (negative picks one)")

	buildCmd.MarkFlagRequired("file")
}

func runBuild(cmd *cobra.Command, args []string) error {
	logger := loggerFromContext(cmd.Context())

	p, err := project.LoadFromFile(buildFile)
	if err != nil {
		return err
	}
	p.ApplyDefaults(appConfig.Defaults.Material, appConfig.Defaults.AreaCm2)

	in, warnings, err := p.Build()
	if err != nil {
		return err
	}
	for _, w := range warnings {
		logger.Warn(w)
	}
	logger.Debug("project compiled", "name", p.Name, "nodes", len(in.Nodes), "elements", len(in.Elements))

	format := record.JSON
	switch {
	case buildOutFormat != "":
		if format, err = record.ParseFormat(buildOutFormat); err != nil {
			return err
		}
	case buildOutput != "":
		format = record.FormatFromPath(buildOutput)
	}

	out := cmd.OutOrStdout()
	if buildOutput != "" {
		err := writeFile(buildOutput, func(w io.Writer) error {
			return in.Encode(w, format)
		})
		if err != nil {
			return err
		}
		logger.Info("wrote input record", "file", buildOutput)
	} else if !buildAnalyze {
		return in.Encode(out, format)
	}

	if !buildAnalyze {
		return nil
	}

	rep, err := analyzeInput(cmd.Context(), in, p.Name)
	if err != nil {
		return err
	}
	combo, _ := nscp.LookupCombination(p.Combination)
	rep.Combination = combo.Description
	rep.Warnings = warnings
	if err := rep.WriteText(out); err != nil {
		return err
	}
	printVerdict(out, rep.Summary.Verdict)

	return exportReport(cmd.Context(), rep, exports{
		xlsx:    buildXLSX,
		pdf:     buildPDF,
		diagram: buildDiagram,
		scale:   buildScale,
	})
}
