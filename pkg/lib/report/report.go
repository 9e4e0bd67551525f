// Package report aggregates Maven QA artifacts (Surefire test results,
// JaCoCo line coverage, PITest mutation scores, Dependency-Check
// findings) into a Markdown job summary and an HTML dashboard.
//
// All loaders are defensive: a missing or unparseable report usually
// means the corresponding gate was skipped, so it is recorded as "no
// data" instead of failing the workflow.
package report

import (
	"context"
	"math"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// Metrics is the aggregated result of one collection pass. Nil fields
// mean the report was absent or unreadable.
type Metrics struct {
	Tests    *TestStats
	Coverage *Coverage
	Mutation *MutationStats
	Vulns    *VulnStats
}

// Collect reads every known report under the Maven target directory.
// The four artifacts are independent files, so they are parsed
// concurrently.
func Collect(ctx context.Context, target string) (*Metrics, error) {
	var m Metrics
	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		m.Tests, err = LoadSurefire(filepath.Join(target, "surefire-reports"))
		return err
	})
	g.Go(func() error {
		var err error
		m.Coverage, err = LoadJaCoCo(filepath.Join(target, "site", "jacoco", "jacoco.xml"))
		return err
	})
	g.Go(func() error {
		var err error
		m.Mutation, err = LoadPITest(filepath.Join(target, "pit-reports", "mutations.xml"))
		return err
	})
	g.Go(func() error {
		var err error
		m.Vulns, err = LoadDependencyCheck(filepath.Join(target, "dependency-check-report.json"))
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &m, nil
}

// percent returns part/whole as a percentage rounded to 0.1, guarding
// the zero denominator.
func percent(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return math.Round(part/whole*1000) / 10
}
