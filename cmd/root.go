package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/alexiusacademia/gotruss/internal/apperr"
	"github.com/alexiusacademia/gotruss/internal/config"
	"github.com/alexiusacademia/gotruss/internal/version"
)

var (
	verbose    bool
	configPath string
	envFile    string

	// appConfig is loaded before any subcommand runs
	appConfig = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "gotruss",
	Short: "2D Truss Analysis Tool",
	Long: `gotruss - Go Truss Analyzer

A CLI tool for the static analysis of plane pin-jointed trusses
by the direct stiffness method.

This tool helps structural engineers:
  - Compute joint displacements and support reactions
  - Compute member axial forces, stresses and safety factors
  - Detect unstable (mechanism) structures
  - Compile design-sheet projects with NSCP 2015 load combinations
  - Produce text, Excel and PDF reports with truss diagrams

Input records are read as JSON, YAML, TOML or XLSX.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath, envFile)
		if err != nil {
			return err
		}
		appConfig = cfg

		level, err := log.ParseLevel(cfg.Log.Level)
		if err != nil {
			return apperr.Wrap(apperr.CodeInvalidInput, err, "log level")
		}
		if verbose {
			level = log.DebugLevel
		}
		logger := newLogger(os.Stderr, level)
		logger.Debug("configuration loaded", "config", configPath, "level", level)
		cmd.SetContext(withLogger(cmd.Context(), logger))
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println()
		fmt.Println("  ╔═══════════════════════════════════════════════════════════╗")
		fmt.Println("  ║                                                           ║")
		fmt.Printf("  ║   gotruss v%-47s║\n", version.Version)
		fmt.Println("  ║   Go Truss Analyzer                                       ║")
		fmt.Printf("  ║   %-56s║\n", version.Author+" ©  "+version.Year)
		fmt.Println("  ║                                                           ║")
		fmt.Println("  ╚═══════════════════════════════════════════════════════════╝")
		fmt.Println()
		fmt.Println("  A CLI tool for the static analysis of plane trusses")
		fmt.Println("  by the direct stiffness method.")
		fmt.Println()
		fmt.Println("  Features:")
		fmt.Println("    • Joint displacements, reactions and member forces")
		fmt.Println("    • Yield safety factor of every member")
		fmt.Println("    • Design-sheet projects with NSCP 2015 load combinations")
		fmt.Println("    • Text, Excel and PDF reports with truss diagrams")
		fmt.Println("    • HTTP API for the analysis engine")
		fmt.Println()
		fmt.Println("  Use 'gotruss --help' to see available commands.")
		fmt.Println()
		fmt.Println("  ─────────────────────────────────────────────────────────────")
		fmt.Printf("  Copyright © %s %s. All rights reserved.\n", version.Year, version.Author)
		fmt.Println()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		printError("%s", apperr.UserMessage(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (TOML, default ./"+config.DefaultPath+" if present)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Dotenv file with TRUSS_* overrides")
}
