package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/gotruss/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of gotruss",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.String())
		fmt.Fprintln(cmd.OutOrStdout(), "2D Truss Analysis Tool")
		fmt.Fprintln(cmd.OutOrStdout(), "Direct stiffness method, NSCP 2015 load combinations")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
