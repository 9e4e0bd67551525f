package report

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const surefireXML = `<?xml version="1.0" encoding="UTF-8"?>
<testsuite name="com.example.ContactServiceTest" tests="12" failures="1" errors="0" skipped="2" time="3.456">
  <testcase name="addsContact" time="0.01"/>
</testsuite>`

const jacocoXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<!DOCTYPE report PUBLIC "-//JACOCO//DTD Report 1.1//EN" "report.dtd">
<report name="contact-suite">
  <package name="com/example">
    <class name="com/example/Contact">
      <counter type="LINE" missed="5" covered="15"/>
    </class>
    <counter type="LINE" missed="10" covered="40"/>
  </package>
  <counter type="INSTRUCTION" missed="100" covered="900"/>
  <counter type="LINE" missed="20" covered="180"/>
</report>`

const pitestXML = `<?xml version="1.0" encoding="UTF-8"?>
<mutations>
  <mutation detected="true" status="KILLED"><sourceFile>Contact.java</sourceFile></mutation>
  <mutation detected="true" status="KILLED"><sourceFile>Contact.java</sourceFile></mutation>
  <mutation detected="false" status="SURVIVED"><sourceFile>Contact.java</sourceFile></mutation>
  <mutation detected="false" status="NO_COVERAGE"><sourceFile>Contact.java</sourceFile></mutation>
</mutations>`

const depcheckJSON = `{
  "dependencies": [
    {"fileName": "spring-web.jar", "vulnerabilities": [
      {"name": "CVE-1", "severity": "CRITICAL"},
      {"name": "CVE-2", "severity": "medium"},
      {"name": "CVE-3", "severity": "weird"}
    ]},
    {"fileName": "clean.jar"},
    {"fileName": "guava.jar", "vulnerabilities": []}
  ]
}`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 66.7, percent(2, 3))
	assert.Equal(t, 100.0, percent(5, 5))
	assert.Equal(t, 0.0, percent(1, 0), "zero denominator must not divide")
}

func TestLoadSurefire(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "TEST-com.example.ContactServiceTest.xml"), surefireXML)
	writeFile(t, filepath.Join(dir, "TEST-com.example.OtherTest.xml"),
		`<testsuite tests="8" failures="0" errors="0" skipped="0" time="1.2"/>`)
	writeFile(t, filepath.Join(dir, "TEST-broken.xml"), "<not-xml")
	writeFile(t, filepath.Join(dir, "unrelated.txt"), "ignore me")

	stats, err := LoadSurefire(dir)
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, 20, stats.Tests)
	assert.Equal(t, 1, stats.Failures)
	assert.Equal(t, 2, stats.Skipped)
	assert.Equal(t, 4.66, stats.Time)
	assert.Equal(t, 17, stats.Passed())
	assert.False(t, stats.Green())
}

func TestLoadSurefireMissingDir(t *testing.T) {
	stats, err := LoadSurefire(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Nil(t, stats)
}

func TestLoadJaCoCoPrefersReportTotals(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jacoco.xml")
	writeFile(t, path, jacocoXML)

	cov, err := LoadJaCoCo(path)
	require.NoError(t, err)
	require.NotNil(t, cov)
	// Report-level totals, not the first class-level counter.
	assert.Equal(t, 180, cov.Covered)
	assert.Equal(t, 20, cov.Missed)
	assert.Equal(t, 200, cov.Total)
	assert.Equal(t, 90.0, cov.Pct)
}

func TestLoadJaCoCoFallsBackToFirstCounter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jacoco.xml")
	writeFile(t, path, `<report><package><counter type="LINE" missed="1" covered="3"/></package></report>`)

	cov, err := LoadJaCoCo(path)
	require.NoError(t, err)
	require.NotNil(t, cov)
	assert.Equal(t, 3, cov.Covered)
	assert.Equal(t, 75.0, cov.Pct)
}

func TestLoadJaCoCoMissing(t *testing.T) {
	cov, err := LoadJaCoCo(filepath.Join(t.TempDir(), "absent.xml"))
	require.NoError(t, err)
	assert.Nil(t, cov)
}

func TestLoadPITest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mutations.xml")
	writeFile(t, path, pitestXML)

	stats, err := LoadPITest(path)
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.Killed)
	assert.Equal(t, 1, stats.Survived)
	assert.Equal(t, 2, stats.Detected)
	assert.Equal(t, 50.0, stats.Pct)
}

func TestLoadPITestEmptyReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mutations.xml")
	writeFile(t, path, `<mutations></mutations>`)

	stats, err := LoadPITest(path)
	require.NoError(t, err)
	require.NotNil(t, stats, "zero mutations is data, not absence")
	assert.Equal(t, 0, stats.Total)
}

func TestLoadDependencyCheck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dependency-check-report.json")
	writeFile(t, path, depcheckJSON)

	stats, err := LoadDependencyCheck(path)
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, 3, stats.Dependencies)
	assert.Equal(t, 1, stats.VulnerableDeps)
	assert.Equal(t, 3, stats.Vulnerabilities)
	assert.Equal(t, 1, stats.Severity["CRITICAL"])
	assert.Equal(t, 1, stats.Severity["MEDIUM"], "severity comparison is case-insensitive")
	assert.Equal(t, 1, stats.Severity["UNKNOWN"], "unrecognized severities bucket as unknown")
	assert.Contains(t, stats.SeveritySummary(), "🟥 Critical: 1")
}

func TestLoadDependencyCheckInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dependency-check-report.json")
	writeFile(t, path, "{broken")

	stats, err := LoadDependencyCheck(path)
	require.NoError(t, err)
	assert.Nil(t, stats)
}

func TestCollect(t *testing.T) {
	target := t.TempDir()
	writeFile(t, filepath.Join(target, "surefire-reports", "TEST-a.xml"), surefireXML)
	writeFile(t, filepath.Join(target, "site", "jacoco", "jacoco.xml"), jacocoXML)
	writeFile(t, filepath.Join(target, "pit-reports", "mutations.xml"), pitestXML)
	writeFile(t, filepath.Join(target, "dependency-check-report.json"), depcheckJSON)

	m, err := Collect(context.Background(), target)
	require.NoError(t, err)
	assert.NotNil(t, m.Tests)
	assert.NotNil(t, m.Coverage)
	assert.NotNil(t, m.Mutation)
	assert.NotNil(t, m.Vulns)
}

func TestCollectEmptyTarget(t *testing.T) {
	m, err := Collect(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, m.Tests)
	assert.Nil(t, m.Coverage)
	assert.Nil(t, m.Mutation)
	assert.Nil(t, m.Vulns)
}

func TestWriteSummary(t *testing.T) {
	t.Setenv("MATRIX_OS", "ubuntu-latest")
	t.Setenv("MATRIX_JAVA", "21")

	m := &Metrics{
		Tests:    &TestStats{Tests: 20, Failures: 0, Errors: 0, Skipped: 1, Time: 4.2},
		Coverage: &Coverage{Covered: 180, Missed: 20, Total: 200, Pct: 90},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, m))
	out := buf.String()

	assert.Contains(t, out, "### QA Metrics (ubuntu-latest, JDK 21)")
	assert.Contains(t, out, "✅ 20 executed")
	assert.Contains(t, out, "🟢 90% ")
	assert.Contains(t, out, "180 / 200 lines covered")
	assert.Contains(t, out, "PITest report not generated")
	assert.Contains(t, out, "`NVD_API_KEY`")
}

func TestWriteSummaryFailingTests(t *testing.T) {
	m := &Metrics{Tests: &TestStats{Tests: 5, Failures: 2}}
	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, m))
	assert.Contains(t, buf.String(), "⚠️ 5 executed")
}

func TestColorBlock(t *testing.T) {
	assert.Equal(t, "🟢", colorBlock(95))
	assert.Equal(t, "🟡", colorBlock(85))
	assert.Equal(t, "🔴", colorBlock(50))
}

func TestBar(t *testing.T) {
	assert.Equal(t, strings.Repeat("█", 10)+strings.Repeat("░", 10), bar(50, 20))
	assert.Equal(t, strings.Repeat("░", 20), bar(0, 20))
	assert.Equal(t, strings.Repeat("█", 20), bar(100, 20))
}

func TestWriteDashboard(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "site", "qa-dashboard")
	m := &Metrics{
		Coverage: &Coverage{Covered: 90, Missed: 10, Total: 100, Pct: 90},
		Vulns: &VulnStats{
			Dependencies: 12, VulnerableDeps: 1, Vulnerabilities: 2,
			Severity: map[string]int{"CRITICAL": 1, "HIGH": 1, "MEDIUM": 0, "LOW": 0, "UNKNOWN": 0},
		},
	}
	runs := []Run{{Kind: "fuzz", Outcome: "ok"}}

	require.NoError(t, WriteDashboard(dir, m, runs))

	data, err := os.ReadFile(filepath.Join(dir, "index.html"))
	require.NoError(t, err)
	html := string(data)
	assert.Contains(t, html, "90% covered")
	assert.Contains(t, html, "1 vulnerable deps (2 findings)")
	assert.Contains(t, html, "🟥 Critical — 1")
	assert.Contains(t, html, "width:90.0%")
	assert.Contains(t, html, "<td>fuzz</td>")
	assert.Contains(t, html, "Surefire reports not found.")
}
