package report

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"
)

// Run is one row of the "recent runs" section, fed from the run-history
// store by the caller.
type Run struct {
	Kind     string
	Started  time.Time
	Duration time.Duration
	Outcome  string
}

type card struct {
	Label    string
	Primary  string
	Detail   string
	Pct      float64
	ShowBar  bool
	Severity []string
}

type dashboardData struct {
	Generated string
	Cards     []card
	Runs      []Run
}

// WriteDashboard renders the HTML dashboard for m (plus optional run
// history) into dir/index.html, creating dir as needed.
func WriteDashboard(dir string, m *Metrics, runs []Run) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data := dashboardData{
		Generated: time.Now().UTC().Format("2006-01-02 15:04:05 UTC"),
		Runs:      runs,
	}

	tests := card{Label: "Tests", Primary: "No data", Detail: "Surefire reports not found."}
	if t := m.Tests; t != nil {
		status := "✅ All passing"
		if !t.Green() {
			status = "⚠️ Attention needed"
		}
		extra := ""
		if t.Failures > 0 || t.Errors > 0 || t.Skipped > 0 {
			extra = fmt.Sprintf(" (failures: %d, errors: %d, skipped: %d)", t.Failures, t.Errors, t.Skipped)
		}
		tests.Primary = fmt.Sprintf("%s — %d/%d tests green", status, t.Passed(), t.Tests)
		tests.Detail = fmt.Sprintf("Runtime: %gs%s", t.Time, extra)
	}
	data.Cards = append(data.Cards, tests)

	coverage := card{Label: "Line Coverage", Primary: "No data", Detail: "Jacoco XML report missing."}
	if c := m.Coverage; c != nil {
		coverage.Primary = fmt.Sprintf("%g%% covered", c.Pct)
		coverage.Detail = fmt.Sprintf("%d / %d lines", c.Covered, c.Total)
		coverage.Pct = c.Pct
		coverage.ShowBar = true
	}
	data.Cards = append(data.Cards, coverage)

	mutation := card{Label: "Mutation Score", Primary: "No data", Detail: "PITest report missing or skipped."}
	if p := m.Mutation; p != nil {
		mutation.Primary = fmt.Sprintf("%g%% mutations killed", p.Pct)
		mutation.Detail = fmt.Sprintf("%d / %d mutants (survived %d)", p.Killed, p.Total, p.Survived)
		mutation.Pct = p.Pct
		mutation.ShowBar = true
	}
	data.Cards = append(data.Cards, mutation)

	deps := card{Label: "Dependency-Check", Primary: "Not run", Detail: "Dependency-Check report missing."}
	if v := m.Vulns; v != nil {
		deps.Primary = fmt.Sprintf("%d vulnerable deps (%d findings)", v.VulnerableDeps, v.Vulnerabilities)
		deps.Detail = fmt.Sprintf("Scanned dependencies: %d", v.Dependencies)
		for _, level := range SeverityOrder {
			deps.Severity = append(deps.Severity,
				fmt.Sprintf("%s — %d", severityLabels[level], v.Severity[level]))
		}
	}
	data.Cards = append(data.Cards, deps)

	f, err := os.Create(filepath.Join(dir, "index.html"))
	if err != nil {
		return err
	}
	defer f.Close()
	return dashboardTmpl.Execute(f, data)
}

var dashboardTmpl = template.Must(template.New("dashboard").Parse(`<!doctype html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <title>QA Dashboard</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif;
            background: #0f172a;
            color: #e2e8f0;
            margin: 0;
            padding: 2rem;
        }
        h1 { margin-top: 0; }
        .grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(250px, 1fr));
            gap: 1.5rem;
        }
        .card {
            background: rgba(30, 41, 59, 0.9);
            border-radius: 12px;
            padding: 1.25rem;
            box-shadow: 0 10px 25px rgba(0, 0, 0, 0.4);
        }
        .label {
            text-transform: uppercase;
            font-size: 0.9rem;
            letter-spacing: 0.08em;
            color: #94a3b8;
        }
        .value {
            font-size: 1.4rem;
            margin: 0.4rem 0;
            color: #38bdf8;
        }
        .detail {
            color: #cbd5f5;
            font-size: 0.95rem;
        }
        .progress {
            background: #1e293b;
            border-radius: 999px;
            height: 6px;
            margin-top: 0.75rem;
        }
        .progress-bar {
            background: linear-gradient(90deg, #22d3ee, #14b8a6);
            height: 100%;
            border-radius: inherit;
        }
        .links { margin-top: 2rem; }
        .links a {
            color: #38bdf8;
            margin-right: 1rem;
            text-decoration: none;
            border-bottom: 1px solid transparent;
        }
        .links a:hover { border-color: #38bdf8; }
        .severity {
            padding-left: 1.2rem;
            margin: 0.5rem 0 0;
            color: #e2e8f0;
        }
        table.runs {
            margin-top: 2rem;
            border-collapse: collapse;
            width: 100%;
        }
        table.runs th, table.runs td {
            text-align: left;
            padding: 0.4rem 0.8rem;
            border-bottom: 1px solid #1e293b;
            font-size: 0.9rem;
        }
        table.runs th { color: #94a3b8; }
        footer {
            margin-top: 2rem;
            font-size: 0.85rem;
            color: #94a3b8;
        }
    </style>
</head>
<body>
    <h1>QA Dashboard</h1>
    <p>Generated {{.Generated}}. Download the artifact from GitHub Actions for interactive viewing.</p>
    <div class="grid">
{{- range .Cards}}
        <div class="card">
            <div class="label">{{.Label}}</div>
            <div class="value">{{.Primary}}</div>
            <div class="detail">{{.Detail}}</div>
{{- if .ShowBar}}
            <div class="progress">
                <div class="progress-bar" style="width:{{printf "%.1f" .Pct}}%"></div>
            </div>
{{- end}}
{{- if .Severity}}
            <ul class="severity">
{{- range .Severity}}
                <li>{{.}}</li>
{{- end}}
            </ul>
{{- end}}
        </div>
{{- end}}
    </div>
{{- if .Runs}}
    <table class="runs">
        <tr><th>Run</th><th>Started</th><th>Duration</th><th>Outcome</th></tr>
{{- range .Runs}}
        <tr>
            <td>{{.Kind}}</td>
            <td>{{.Started.UTC.Format "2006-01-02 15:04:05"}}</td>
            <td>{{.Duration}}</td>
            <td>{{.Outcome}}</td>
        </tr>
{{- end}}
    </table>
{{- end}}
    <div class="links">
        <strong>Detailed reports:</strong>
        <a href="../jacoco/index.html">JaCoCo</a>
        <a href="../spotbugs.html">SpotBugs</a>
        <a href="../../pit-reports/index.html">PITest</a>
        <a href="../dependency-check-report.html">Dependency-Check</a>
    </div>
    <footer>QA dashboard generated by devkit report</footer>
</body>
</html>
`))
