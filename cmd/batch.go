package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/alexiusacademia/gotruss/internal/apperr"
	"github.com/alexiusacademia/gotruss/internal/record"
	"github.com/alexiusacademia/gotruss/internal/report"
	"github.com/alexiusacademia/gotruss/internal/truss"
)

var (
	batchJobs      int
	batchOutDir    string
	batchOutFormat string
)

var batchCmd = &cobra.Command{
	Use:   "batch files...",
	Short: "Analyze many input records concurrently",
	Long: `Analyze independent input records concurrently.

Each file is analyzed on its own model and stiffness system. The result
record of <name>.<ext> is written to <name>.result.json (or .yaml) next to
the input, or in --out-dir. A file that cannot be read is reported and the
rest still run; the command then exits with status 1.

Examples:
  gotruss batch trusses/*.json
  gotruss batch a.json b.yaml c.xlsx --jobs 2 --out-dir results`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVarP(&batchJobs, "jobs", "j", runtime.NumCPU(), "Maximum concurrent analyses")
	batchCmd.Flags().StringVar(&batchOutDir, "out-dir", "", "Directory for result records (default next to each input)")
	batchCmd.Flags().StringVar(&batchOutFormat, "out-format", "json", "Result record format: json, yaml")
}

// batchResult is the outcome of one file.
type batchResult struct {
	file    string
	output  string
	status  truss.Status
	summary truss.Summary
	err     error
}

func runBatch(cmd *cobra.Command, args []string) error {
	logger := loggerFromContext(cmd.Context())

	format, err := record.ParseFormat(batchOutFormat)
	if err != nil {
		return err
	}
	if format != record.JSON && format != record.YAML {
		return apperr.New(apperr.CodeInvalidFormat, "result records are json or yaml")
	}
	if batchJobs < 1 {
		return apperr.New(apperr.CodeInvalidInput, "--jobs must be at least 1")
	}
	if batchOutDir != "" {
		if err := os.MkdirAll(batchOutDir, 0o755); err != nil {
			return err
		}
	}

	results, err := analyzeFiles(cmd.Context(), args, batchJobs, format, batchOutDir)
	if err != nil {
		return err
	}

	failed := 0
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		if r.err != nil {
			failed++
			logger.Error("analysis failed", "file", r.file, "err", r.err)
			rows = append(rows, []string{r.file, "error", "", "", apperr.UserMessage(r.err)})
			continue
		}
		minFS := ""
		if r.status == truss.StatusSuccess {
			minFS = report.FormatSafety(r.summary.MinSafety)
		}
		rows = append(rows, []string{r.file, string(r.status), string(r.summary.Verdict), minFS, r.output})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"File", "Status", "Verdict", "Min FS", "Result"}, rows))

	if failed > 0 {
		return apperr.New(apperr.CodeInvalidInput, "%d of %d files failed", failed, len(results))
	}
	printSuccess("%d files analyzed", len(results))
	return nil
}

// analyzeFiles runs at most jobs analyses at a time. Results keep the order
// of files.
func analyzeFiles(ctx context.Context, files []string, jobs int, format record.Format, outDir string) ([]batchResult, error) {
	results := make([]batchResult, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = analyzeFile(ctx, file, format, outDir)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func analyzeFile(ctx context.Context, file string, format record.Format, outDir string) batchResult {
	res := batchResult{file: file}
	ctx = withLogger(ctx, loggerFromContext(ctx).With("file", file))
	in, err := record.LoadFromFile(file)
	if err != nil {
		res.err = err
		return res
	}
	rep, err := analyzeInput(ctx, in, filepath.Base(file))
	if err != nil {
		res.err = err
		return res
	}
	res.status = rep.Result.Status
	res.summary = rep.Summary
	res.output = resultPath(file, outDir, format)
	res.err = writeFile(res.output, func(w io.Writer) error {
		return record.NewOutput(rep.Result).Encode(w, format)
	})
	return res
}

// resultPath maps truss.json to truss.result.json, in outDir if given.
func resultPath(file, outDir string, format record.Format) string {
	dir, base := filepath.Split(file)
	if outDir != "" {
		dir = outDir
	}
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, name+".result."+string(format))
}
