package report

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// colorBlock maps a percentage to the traffic-light marker used in the
// job summary table.
func colorBlock(pct float64) string {
	switch {
	case pct >= 90:
		return "🟢"
	case pct >= 80:
		return "🟡"
	default:
		return "🔴"
	}
}

// bar renders a fixed-width unicode progress bar.
func bar(pct float64, width int) string {
	filled := int(pct/100*float64(width) + 0.5)
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func row(metric, value, detail string) string {
	return fmt.Sprintf("| %s | %s | %s |", metric, value, detail)
}

// sectionHeader identifies the CI matrix entry producing this summary.
func sectionHeader() string {
	matrixOS := os.Getenv("MATRIX_OS")
	if matrixOS == "" {
		matrixOS = "unknown-os"
	}
	matrixJava := os.Getenv("MATRIX_JAVA")
	if matrixJava == "" {
		matrixJava = "unknown"
	}
	return fmt.Sprintf("### QA Metrics (%s, JDK %s)", matrixOS, matrixJava)
}

// WriteSummary renders the GitHub job-summary Markdown for m to w.
func WriteSummary(w io.Writer, m *Metrics) error {
	lines := []string{
		sectionHeader(),
		"",
		"| Metric | Result | Details |",
		"| --- | --- | --- |",
	}

	if t := m.Tests; t != nil {
		icon := "✅"
		if !t.Green() {
			icon = "⚠️"
		}
		lines = append(lines, row(
			"Tests",
			fmt.Sprintf("%s %d executed", icon, t.Tests),
			fmt.Sprintf("Runtime %gs — failures: %d, errors: %d, skipped: %d",
				t.Time, t.Failures, t.Errors, t.Skipped),
		))
	} else {
		lines = append(lines, row("Tests", "_no data_", "Surefire reports not found."))
	}

	if c := m.Coverage; c != nil {
		lines = append(lines, row(
			"Line coverage (JaCoCo)",
			fmt.Sprintf("%s %g%% %s", colorBlock(c.Pct), c.Pct, bar(c.Pct, 20)),
			fmt.Sprintf("%d / %d lines covered", c.Covered, c.Total),
		))
	} else {
		lines = append(lines, row("Line coverage (JaCoCo)", "_no data_", "Jacoco XML report missing."))
	}

	if p := m.Mutation; p != nil {
		lines = append(lines, row(
			"Mutation score (PITest)",
			fmt.Sprintf("%s %g%% %s", colorBlock(p.Pct), p.Pct, bar(p.Pct, 20)),
			fmt.Sprintf("%d killed, %d survived out of %d mutations", p.Killed, p.Survived, p.Total),
		))
	} else {
		lines = append(lines, row("Mutation score (PITest)", "_no data_",
			"PITest report not generated (likely skipped)."))
	}

	if v := m.Vulns; v != nil {
		lines = append(lines, row(
			"Dependency-Check",
			"✅ scan complete",
			fmt.Sprintf("%d dependencies with issues (%d vulnerabilities) out of %d scanned. %s",
				v.VulnerableDeps, v.Vulnerabilities, v.Dependencies, v.SeveritySummary()),
		))
	} else {
		lines = append(lines, row("Dependency-Check", "_not run_",
			"Report missing (probably skipped when `NVD_API_KEY` was not provided)."))
	}

	lines = append(lines,
		"",
		"Interactive dashboard: `target/site/qa-dashboard/index.html` (packaged in the `quality-reports-*` artifact).",
		"Artifacts: `target/site/`, `target/pit-reports/`, `target/dependency-check-report.*`.",
		"",
	)

	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}
