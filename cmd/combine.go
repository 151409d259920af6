package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/gotruss/internal/apperr"
	"github.com/alexiusacademia/gotruss/internal/nscp"
	"github.com/alexiusacademia/gotruss/internal/truss"
)

var (
	// Unfactored member forces (kN), tension positive
	forceDead       float64
	forceLive       float64
	forceRoof       float64
	forceWind       float64
	forceEarthquake float64
	forceRain       float64

	showAll bool
)

var combineCmd = &cobra.Command{
	Use:   "combine",
	Short: "Calculate the factored member force using NSCP load combinations",
	Long: `Calculate the factored axial force of a member based on NSCP 2015 load
combinations.

Provide the unfactored member forces from separate analyses of each load
type (tension positive) and this command computes the factored force for
every combination and reports the governing one.

Load Types:
  D  - Dead load
  L  - Live load
  Lr - Roof live load
  W  - Wind load
  E  - Earthquake load
  R  - Rain load

Examples:
  # Gravity loads
  gotruss combine --dead 50 --live 30

  # Wind suction reversing a member
  gotruss combine --dead 10 --wind -40 --all`,
	RunE: runCombine,
}

func init() {
	rootCmd.AddCommand(combineCmd)

	combineCmd.Flags().Float64VarP(&forceDead, "dead", "d", 0, "Member force due to dead load (kN)")
	combineCmd.Flags().Float64VarP(&forceLive, "live", "l", 0, "Member force due to live load (kN)")
	combineCmd.Flags().Float64VarP(&forceRoof, "roof", "r", 0, "Member force due to roof live load (kN)")
	combineCmd.Flags().Float64VarP(&forceWind, "wind", "w", 0, "Member force due to wind load (kN)")
	combineCmd.Flags().Float64VarP(&forceEarthquake, "earthquake", "e", 0, "Member force due to earthquake load (kN)")
	combineCmd.Flags().Float64VarP(&forceRain, "rain", "R", 0, "Member force due to rain load (kN)")

	combineCmd.Flags().BoolVarP(&showAll, "all", "a", false, "Show all load combination results")
}

func runCombine(cmd *cobra.Command, args []string) error {
	loads := nscp.ServiceLoads{}
	for kind, v := range map[nscp.LoadKind]float64{
		nscp.Dead:       forceDead,
		nscp.Live:       forceLive,
		nscp.Roof:       forceRoof,
		nscp.Wind:       forceWind,
		nscp.Earthquake: forceEarthquake,
		nscp.Rain:       forceRain,
	} {
		if v != 0 {
			loads[kind] = v
		}
	}
	if len(loads) == 0 {
		return apperr.New(apperr.CodeInvalidInput, "provide at least one unfactored member force (see 'gotruss combine --help')")
	}

	out := cmd.OutOrStdout()
	labels := map[nscp.LoadKind]string{
		nscp.Dead:       "Dead Load (D)",
		nscp.Live:       "Live Load (L)",
		nscp.Roof:       "Roof Live Load (Lr)",
		nscp.Wind:       "Wind Load (W)",
		nscp.Earthquake: "Earthquake Load (E)",
		nscp.Rain:       "Rain Load (R)",
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintln(out, "          NSCP 2015 FACTORED MEMBER FORCE CALCULATION")
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintln(out)

	fmt.Fprintln(out, "UNFACTORED MEMBER FORCES (kN):")
	fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, kind := range nscp.LoadKinds {
		if v, ok := loads[kind]; ok {
			fmt.Fprintf(w, "  %s:\t%.2f\n", labels[kind], v)
		}
	}
	w.Flush()
	fmt.Fprintln(out)

	pu, governing := nscp.Governing(loads, nscp.LoadCombinations)

	if showAll {
		fmt.Fprintln(out, "LOAD COMBINATIONS (NSCP 2015 Section 203.3):")
		fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
		w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "  #\tCombination\tPu (kN)\n")
		fmt.Fprintf(w, "  ─\t───────────\t───────\n")
		for _, combo := range nscp.LoadCombinations {
			marker := ""
			if combo.ID == governing.ID {
				marker = " ← GOVERNS"
			}
			fmt.Fprintf(w, "  %s\t%s\t%.2f%s\n", combo.ID, combo.Description, combo.Combine(loads), marker)
		}
		w.Flush()
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, "RESULT:")
	fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
	fmt.Fprintf(out, "  Governing Combination: %s (%s)\n", governing.ID, governing.Description)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  ╔═══════════════════════════════════╗\n")
	fmt.Fprintf(out, "  ║  FACTORED FORCE (Pu) = %.2f kN (%s)\n", pu, truss.Classify(pu*nscp.KN))
	fmt.Fprintf(out, "  ╚═══════════════════════════════════╝\n")
	fmt.Fprintln(out)
	return nil
}
