package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/gotruss/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis engine over HTTP",
	Long: `Serve the analysis engine over HTTP.

Routes:
  POST /api/analyze           input record in, result record out
  POST /api/project/analyze   project in, result record with summary out
  POST /api/report/pdf        input record (or ?input=project) in, PDF out
  POST /api/report/xlsx       input record (or ?input=project) in, workbook out
  GET  /api/materials         material presets and load combinations
  GET  /healthz               liveness

Request bodies are JSON unless Content-Type or ?format= says yaml, toml or
xlsx. Requests under /api are rate limited per client address.

Examples:
  gotruss serve
  gotruss serve --addr :9000
  TRUSS_ADDR=127.0.0.1:8080 gotruss serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := loggerFromContext(cmd.Context())
	if serveAddr != "" {
		appConfig.Server.Addr = serveAddr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(appConfig, logger).ListenAndServe(ctx)
}
