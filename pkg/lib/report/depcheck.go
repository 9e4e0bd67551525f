package report

import (
	"os"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Severity buckets in display order. Anything unrecognized is counted
// as UNKNOWN.
var SeverityOrder = []string{"CRITICAL", "HIGH", "MEDIUM", "LOW", "UNKNOWN"}

var severityLabels = map[string]string{
	"CRITICAL": "🟥 Critical",
	"HIGH":     "🟧 High",
	"MEDIUM":   "🟨 Medium",
	"LOW":      "🟩 Low",
	"UNKNOWN":  "⬜ Unknown",
}

// VulnStats summarizes the Dependency-Check JSON report.
type VulnStats struct {
	Dependencies    int
	VulnerableDeps  int
	Vulnerabilities int
	Severity        map[string]int
}

// LoadDependencyCheck parses the Dependency-Check JSON report at path.
// A missing or invalid report yields (nil, nil).
func LoadDependencyCheck(path string) (*VulnStats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil
	}
	if !gjson.ValidBytes(data) {
		return nil, nil
	}

	stats := VulnStats{Severity: make(map[string]int, len(SeverityOrder))}
	for _, level := range SeverityOrder {
		stats.Severity[level] = 0
	}

	gjson.GetBytes(data, "dependencies").ForEach(func(_, dep gjson.Result) bool {
		stats.Dependencies++
		vulns := dep.Get("vulnerabilities")
		if !vulns.IsArray() {
			return true
		}
		count := 0
		vulns.ForEach(func(_, vuln gjson.Result) bool {
			count++
			severity := strings.ToUpper(vuln.Get("severity").String())
			if _, known := severityLabels[severity]; !known {
				severity = "UNKNOWN"
			}
			stats.Severity[severity]++
			return true
		})
		if count > 0 {
			stats.VulnerableDeps++
			stats.Vulnerabilities += count
		}
		return true
	})

	return &stats, nil
}

// SeveritySummary renders the severity counts as a single line in
// display order.
func (v *VulnStats) SeveritySummary() string {
	parts := make([]string, 0, len(SeverityOrder))
	for _, level := range SeverityOrder {
		parts = append(parts, severityLabels[level]+": "+strconv.Itoa(v.Severity[level]))
	}
	return strings.Join(parts, ", ")
}
