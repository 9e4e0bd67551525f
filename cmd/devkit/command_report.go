package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jguida941/contact-suite-spring-react/pkg/lib"
	"github.com/jguida941/contact-suite-spring-react/pkg/lib/history"
	"github.com/jguida941/contact-suite-spring-react/pkg/lib/report"
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize Maven QA metrics into a job summary and dashboard",
		Long: "Aggregates Surefire, JaCoCo, PITest, and Dependency-Check reports into\n" +
			"a Markdown summary (appended to $GITHUB_STEP_SUMMARY when set) and an\n" +
			"HTML dashboard under target/site/qa-dashboard. Missing reports are\n" +
			"recorded as such instead of failing the workflow.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := slog.Default()
			target := viper.GetString("report.target")
			started := time.Now()

			metrics, err := report.Collect(cmd.Context(), target)
			if err != nil {
				return lib.Exit(lib.ExitInfra, err)
			}

			if err := writeSummary(metrics, viper.GetString("report.summary-out")); err != nil {
				return lib.Exit(lib.ExitInfra, err)
			}

			recordRun(cmd.Context(), "report", started, lib.ExitOK, log)
			runs := recentRuns(cmd, log)

			dashboardDir := filepath.Join(target, "site", "qa-dashboard")
			if err := report.WriteDashboard(dashboardDir, metrics, runs); err != nil {
				return lib.Exit(lib.ExitInfra, err)
			}
			log.Info("dashboard written", "path", filepath.Join(dashboardDir, "index.html"))
			return nil
		},
	}

	cmd.Flags().String("target", "target", "Maven target directory holding the reports")
	cmd.Flags().String("summary-out", "", "write the Markdown summary to this file instead of $GITHUB_STEP_SUMMARY/stdout")
	bindFlags(cmd, "report")

	return cmd
}

// writeSummary writes the Markdown summary to out when given, otherwise
// appends it to the GitHub Actions job summary when running in CI, or
// prints it to stdout.
func writeSummary(m *report.Metrics, out string) error {
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		return report.WriteSummary(f, m)
	}
	if path := os.Getenv("GITHUB_STEP_SUMMARY"); path != "" {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		return report.WriteSummary(f, m)
	}
	return report.WriteSummary(os.Stdout, m)
}

// recentRuns loads trend rows for the dashboard; history being absent is
// not an error.
func recentRuns(cmd *cobra.Command, log *slog.Logger) []report.Run {
	store, err := history.Open(viper.GetString("history-db"))
	if err != nil {
		log.Warn("run history unavailable", "err", err)
		return nil
	}
	defer store.Close()

	entries, err := store.Recent(cmd.Context(), 10)
	if err != nil {
		log.Warn("failed to read run history", "err", err)
		return nil
	}
	runs := make([]report.Run, 0, len(entries))
	for _, e := range entries {
		runs = append(runs, report.Run{
			Kind:     e.Kind,
			Started:  e.Started,
			Duration: e.Duration,
			Outcome:  e.Outcome,
		})
	}
	return runs
}
