// Threadscan turns a directory of project email threads into an
// evidence-backed portfolio health report: open action items and risks,
// each with a verbatim quote behind it.
//
// The detection pipeline is fully deterministic and needs no credentials.
// When OPENAI_API_KEY is set, a two-tier LLM pass additionally filters
// false positives and assigns owners and priorities to open flags.
//
// Usage:
//
//	# Deterministic run
//	threadscan run --email-dir ./emails --output report.md
//
//	# With LLM enrichment
//	OPENAI_API_KEY=... threadscan run --email-dir ./emails --output report.md
package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/threadscan/internal/config"
	"github.com/fyrsmithlabs/threadscan/internal/logging"
	"github.com/fyrsmithlabs/threadscan/internal/orchestrator"
	"github.com/fyrsmithlabs/threadscan/internal/report"
)

// Version information (set via ldflags during build)
var version = "dev"

var (
	configPath  string
	emailDir    string
	outputPath  string
	metricsPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "threadscan",
	Short:   "Portfolio health report generator for project email threads",
	Version: version,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Analyse email threads and write the Markdown report",
	Long: `Analyse a directory of .txt email thread files and write a Markdown
portfolio health report plus a JSON metrics file.

Examples:
  # Deterministic run
  threadscan run --email-dir ./emails

  # With LLM enrichment
  OPENAI_API_KEY=sk-... threadscan run --email-dir ./emails --output report.md`,
	RunE: runPipeline,
}

func init() {
	runCmd.Flags().StringVar(&configPath, "config", "", "optional YAML config file")
	runCmd.Flags().StringVar(&emailDir, "email-dir", "./emails", "directory of .txt email thread files")
	runCmd.Flags().StringVar(&outputPath, "output", "report.md", "output report file")
	runCmd.Flags().StringVar(&metricsPath, "metrics", "metrics.json", "output metrics file")
	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck // stderr sync failure is uninteresting

	ctx := logging.WithRunID(cmd.Context(), uuid.NewString())
	log.Info(ctx, "run starting",
		zap.String("email_dir", emailDir),
		zap.Bool("enrichment", cfg.Enrichment.Enabled()),
	)

	result, err := orchestrator.New(cfg, log).Run(ctx, emailDir)
	if err != nil {
		return err
	}

	md := report.Render(report.Input{
		Store:             result.Store,
		Projects:          result.Projects,
		Roster:            result.Roster,
		EnrichmentEnabled: cfg.Enrichment.Enabled(),
	})
	if err := os.WriteFile(outputPath, []byte(md), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if err := result.Metrics.WriteJSON(metricsPath); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}

	log.Info(ctx, "run complete",
		zap.String("report", outputPath),
		zap.String("metrics", metricsPath),
		zap.Int("open_flags", result.Metrics.OpenFlags),
		zap.Int("resolved_flags", result.Metrics.ResolvedFlags),
		zap.Float64("duration_seconds", result.Metrics.DurationSeconds),
	)
	return nil
}
