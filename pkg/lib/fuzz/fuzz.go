// Package fuzz orchestrates a Schemathesis run against the backend's
// OpenAPI document: optionally boot the Spring Boot app, wait for the
// actuator health endpoint, export the spec for downstream scanners,
// run one fuzzing pass, and always tear the app back down.
package fuzz

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/jguida941/contact-suite-spring-react/pkg/lib"
	"github.com/jguida941/contact-suite-spring-react/pkg/lib/procout"
	"github.com/jguida941/contact-suite-spring-react/pkg/lib/supervisor"
)

// Options configures one fuzzing invocation. Zero values fall back to
// the defaults the CI workflow uses.
type Options struct {
	BaseURL      string        // base URL of the running app
	SpecPath     string        // path to the OpenAPI document
	StartApp     bool          // boot the backend before fuzzing
	ExportSpec   string        // write the OpenAPI document here ("" skips)
	ReadyTimeout time.Duration // app startup deadline
	WorkDir      string        // repo root where Maven runs
}

const (
	DefaultBaseURL  = "http://localhost:8080"
	DefaultSpecPath = "/v3/api-docs"

	versionCheckBudget = 10 * time.Second
	runBudget          = 10 * time.Minute
	exportBudget       = 30 * time.Second
	healthPath         = "/actuator/health"
)

func (o Options) withDefaults() Options {
	if o.BaseURL == "" {
		o.BaseURL = DefaultBaseURL
	}
	if o.SpecPath == "" {
		o.SpecPath = DefaultSpecPath
	}
	if o.ReadyTimeout <= 0 {
		o.ReadyTimeout = supervisor.DefaultReadyTimeout
	}
	return o
}

// Args builds the schemathesis command line for one run. The knobs are
// tuned for CI speed: capped examples, one worker so the app is not
// overwhelmed, five-second per-request deadline.
func Args(specURL, baseURL string) []string {
	return []string{
		"run",
		specURL,
		"--checks", "all",
		"--base-url", baseURL,
		"--workers", "1",
		"--max-examples", "50",
		"--hypothesis-deadline", "5000",
		"--hypothesis-suppress-health-check", "all",
		"--validate-schema", "true",
	}
}

// Run executes the full fuzzing flow and returns the process exit code
// per the 0/1/2 convention.
func Run(ctx context.Context, opts Options, log *slog.Logger) int {
	opts = opts.withDefaults()

	if !checkInstalled(ctx, log) {
		log.Error("schemathesis not installed; install with: pip install schemathesis")
		return lib.ExitInfra
	}

	runner := supervisor.New(supervisor.Config{
		ReadyTimeout: opts.ReadyTimeout,
		Logger:       log,
	})
	stop := runner.NotifySignals()
	defer stop()
	defer runner.Terminate()

	backendOut := procout.NewStorage()
	if opts.StartApp {
		_, err := runner.Spawn(supervisor.Spec{
			Name:   "backend",
			Dir:    opts.WorkDir,
			Argv:   []string{"mvn", "-q", "spring-boot:run"},
			Stdout: backendOut,
			Stderr: backendOut,
		})
		if err != nil {
			log.Error("failed to start backend", "err", err)
			return lib.ExitInfra
		}
	}

	result, err := runner.AwaitReady(ctx, supervisor.ReadinessCheck{
		URL:     opts.BaseURL + healthPath,
		Timeout: opts.ReadyTimeout,
	})
	if err != nil {
		logBackendTail(log, backendOut)
		log.Error("aborted while waiting for the app", "err", err)
		return lib.ExitInfra
	}
	if result == supervisor.TimedOut {
		logBackendTail(log, backendOut)
		log.Error("app is not responding; is it running?", "url", opts.BaseURL)
		return lib.ExitInfra
	}

	if opts.ExportSpec != "" {
		if err := ExportSpec(ctx, opts.BaseURL+opts.SpecPath, opts.ExportSpec, log); err != nil {
			log.Warn("failed to export OpenAPI spec, continuing with fuzzing", "err", err)
		}
	}

	code, err := runner.RunForeground(ctx, func(taskCtx context.Context) (int, error) {
		return runSchemathesis(taskCtx, opts, log)
	})
	if err != nil {
		return lib.ExitInfra
	}
	return code
}

// checkInstalled verifies schemathesis is on PATH and logs its version.
func checkInstalled(ctx context.Context, log *slog.Logger) bool {
	checkCtx, cancel := context.WithTimeout(ctx, versionCheckBudget)
	defer cancel()

	out, err := exec.CommandContext(checkCtx, "schemathesis", "--version").Output()
	if err != nil {
		return false
	}
	log.Info("schemathesis version", "version", strings.TrimSpace(string(out)))
	return true
}

// ExportSpec downloads the OpenAPI document so it can be archived as a
// CI artifact for ZAP and other scanners.
func ExportSpec(ctx context.Context, specURL, outPath string, log *slog.Logger) error {
	log.Info("exporting OpenAPI spec", "url", specURL, "out", outPath)

	reqCtx, cancel := context.WithTimeout(ctx, exportBudget)
	defer cancel()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, specURL, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch spec: status %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(outPath, body, 0o644); err != nil {
		return err
	}
	log.Info("OpenAPI spec saved", "out", outPath)
	return nil
}

// runSchemathesis runs one fuzzing pass streaming output to the console.
func runSchemathesis(ctx context.Context, opts Options, log *slog.Logger) (int, error) {
	specURL := opts.BaseURL + opts.SpecPath
	args := Args(specURL, opts.BaseURL)
	log.Info("running schemathesis", "cmd", "schemathesis "+strings.Join(args, " "))

	runCtx, cancel := context.WithTimeout(ctx, runBudget)
	defer cancel()

	cmd := exec.CommandContext(runCtx, "schemathesis", args...)
	cmd.Dir = opts.WorkDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	switch {
	case err == nil:
		log.Info("schemathesis completed successfully (no issues found)")
		return lib.ExitOK, nil
	case runCtx.Err() != nil && ctx.Err() == nil:
		log.Error("schemathesis timed out", "budget", runBudget)
		return lib.ExitInfra, nil
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			log.Error("schemathesis found issues", "exit_code", exitErr.ExitCode())
			return lib.ExitIssues, nil
		}
		log.Error("failed to run schemathesis", "err", err)
		return lib.ExitInfra, nil
	}
}

func logBackendTail(log *slog.Logger, out *procout.Storage) {
	for _, line := range out.Tail(20) {
		log.Info("backend output", "line", line)
	}
}
