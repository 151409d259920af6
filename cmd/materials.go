package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/gotruss/internal/nscp"
)

var materialsCmd = &cobra.Command{
	Use:   "materials",
	Short: "List material presets and NSCP load combinations",
	Long: `List the member material presets and the NSCP 2015 Section 203.3.1
load combinations a project may name.`,
	Run: runMaterials,
}

func init() {
	rootCmd.AddCommand(materialsCmd)
}

func runMaterials(cmd *cobra.Command, args []string) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, styleTitle.Render("MATERIAL PRESETS"))
	rows := make([][]string, 0, len(nscp.Materials)+1)
	for _, m := range nscp.Materials {
		name := m.Name
		if strings.EqualFold(m.Name, appConfig.Defaults.Material) {
			name += " (default)"
		}
		rows = append(rows, []string{name, fmt.Sprintf("%.0f", m.E), fmt.Sprintf("%.0f", m.Yield), m.Describe})
	}
	rows = append(rows, []string{nscp.Custom, "eGPa", "yieldMPa", "Values given in the project"})
	fmt.Fprintln(out, renderTable([]string{"Preset", "E (GPa)", "Fy (MPa)", "Description"}, rows))
	fmt.Fprintln(out, styleDim.Render(fmt.Sprintf("  Default member area: %.2f cm²", appConfig.Defaults.AreaCm2)))
	fmt.Fprintln(out)

	fmt.Fprintln(out, styleTitle.Render("LOAD COMBINATIONS (NSCP 2015 Section 203.3.1)"))
	rows = rows[:0]
	for _, c := range nscp.LoadCombinations {
		rows = append(rows, []string{c.ID, c.Description})
	}
	rows = append(rows, []string{"(none)", nscp.Unfactored.Description})
	fmt.Fprintln(out, renderTable([]string{"#", "Combination"}, rows))
}
