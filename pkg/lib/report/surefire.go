package report

import (
	"encoding/xml"
	"math"
	"os"
	"path/filepath"
)

// TestStats aggregates JUnit results across all Surefire report files.
type TestStats struct {
	Tests    int
	Failures int
	Errors   int
	Skipped  int
	Time     float64 // total runtime in seconds
}

// Passed returns the number of green tests.
func (t *TestStats) Passed() int {
	return t.Tests - t.Failures - t.Errors - t.Skipped
}

// Green reports whether no test failed or errored.
func (t *TestStats) Green() bool {
	return t.Failures == 0 && t.Errors == 0
}

type surefireSuite struct {
	Tests    int     `xml:"tests,attr"`
	Failures int     `xml:"failures,attr"`
	Errors   int     `xml:"errors,attr"`
	Skipped  int     `xml:"skipped,attr"`
	Time     float64 `xml:"time,attr"`
}

// LoadSurefire aggregates every TEST-*.xml under dir. A missing
// directory, or one with no usable data, yields (nil, nil). Individual
// files that fail to parse are skipped.
func LoadSurefire(dir string) (*TestStats, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, nil
	}
	paths, err := filepath.Glob(filepath.Join(dir, "TEST-*.xml"))
	if err != nil {
		return nil, err
	}

	var stats TestStats
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var suite surefireSuite
		if err := xml.Unmarshal(data, &suite); err != nil {
			continue
		}
		stats.Tests += suite.Tests
		stats.Failures += suite.Failures
		stats.Errors += suite.Errors
		stats.Skipped += suite.Skipped
		stats.Time += suite.Time
	}

	if stats.Tests == 0 && stats.Failures == 0 && stats.Errors == 0 {
		return nil, nil
	}
	stats.Time = math.Round(stats.Time*100) / 100
	return &stats, nil
}
