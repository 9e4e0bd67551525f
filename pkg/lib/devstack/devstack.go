// Package devstack runs the Spring Boot API and the Vite UI together
// for local development: start the backend, poll its health endpoint
// until Spring reports UP, then launch the React dev server so both
// stacks come up with one command. The frontend depends on the backend,
// so teardown stops it first.
package devstack

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jguida941/contact-suite-spring-react/pkg/lib"
	"github.com/jguida941/contact-suite-spring-react/pkg/lib/procout"
	"github.com/jguida941/contact-suite-spring-react/pkg/lib/supervisor"
)

// Options configures the launcher. Zero values fall back to defaults.
type Options struct {
	RootDir        string        // repo root where Maven runs
	FrontendDir    string        // Vite app directory
	BackendURL     string        // actuator health URL to poll
	BackendTimeout time.Duration // max wait for the health endpoint
	FrontendPort   int           // port passed to `npm run dev -- --port`
	SkipInstall    bool          // skip npm install even without node_modules
	BackendGoal    string        // Maven goal used to start the backend
}

const (
	DefaultBackendURL   = "http://localhost:8080/actuator/health"
	DefaultFrontendPort = 5173
	DefaultBackendGoal  = "spring-boot:run"

	healthInterval = 1 * time.Second
)

func (o Options) withDefaults() Options {
	if o.RootDir == "" {
		o.RootDir = "."
	}
	if o.FrontendDir == "" {
		o.FrontendDir = filepath.Join(o.RootDir, "ui", "contact-app")
	}
	if o.BackendURL == "" {
		o.BackendURL = DefaultBackendURL
	}
	if o.BackendTimeout <= 0 {
		o.BackendTimeout = supervisor.DefaultReadyTimeout
	}
	if o.FrontendPort == 0 {
		o.FrontendPort = DefaultFrontendPort
	}
	if o.BackendGoal == "" {
		o.BackendGoal = DefaultBackendGoal
	}
	return o
}

// Run starts both stacks and blocks until one of them dies or a stop
// signal arrives. Returns the process exit code.
func Run(ctx context.Context, opts Options, log *slog.Logger) int {
	opts = opts.withDefaults()

	runner := supervisor.New(supervisor.Config{
		ReadyTimeout: opts.BackendTimeout,
		PollInterval: healthInterval,
		Logger:       log,
	})
	stop := runner.NotifySignals()
	defer stop()
	defer runner.Terminate()

	backendOut := procout.NewStorage()
	backendWriter := procout.NewLineWriter("backend", os.Stdout, backendOut)
	defer backendWriter.Flush()

	log.Info("starting Spring Boot backend")
	if _, err := runner.Spawn(supervisor.Spec{
		Name:   "backend",
		Dir:    opts.RootDir,
		Argv:   []string{"mvn", opts.BackendGoal},
		Stdout: backendWriter,
		Stderr: backendWriter,
	}); err != nil {
		log.Error("failed to start backend", "err", err)
		return lib.ExitInfra
	}

	result, err := runner.AwaitReady(ctx, supervisor.ReadinessCheck{
		URL:          opts.BackendURL,
		ExpectStatus: "UP",
		Interval:     healthInterval,
		Timeout:      opts.BackendTimeout,
	})
	if err != nil {
		log.Error("aborted while waiting for the backend", "err", err)
		return lib.ExitInfra
	}
	if result == supervisor.TimedOut {
		log.Error("backend did not become healthy in time",
			"url", opts.BackendURL, "timeout", opts.BackendTimeout)
		return lib.ExitInfra
	}

	log.Info("backend is UP, preparing frontend")
	if err := maybeInstallFrontend(ctx, opts, log); err != nil {
		log.Error("npm install failed", "err", err)
		return lib.ExitInfra
	}

	log.Info("launching Vite dev server")
	frontendWriter := procout.NewLineWriter("frontend", os.Stdout, nil)
	defer frontendWriter.Flush()
	if _, err := runner.Spawn(supervisor.Spec{
		Name:   "frontend",
		Dir:    opts.FrontendDir,
		Argv:   []string{"npm", "run", "dev", "--", "--port", strconv.Itoa(opts.FrontendPort)},
		Stdout: frontendWriter,
		Stderr: frontendWriter,
	}); err != nil {
		log.Error("failed to start frontend", "err", err)
		return lib.ExitInfra
	}

	fmt.Printf("Both servers are running.\n"+
		"  - API: http://localhost:8080\n"+
		"  - UI:  http://localhost:%d\n"+
		"Press Ctrl+C to stop both.\n", opts.FrontendPort)

	// The foreground "task" is just waiting: the interesting exits are a
	// dying child or a stop signal, both handled by the runner.
	_, err = runner.RunForeground(ctx, func(taskCtx context.Context) (int, error) {
		<-taskCtx.Done()
		return lib.ExitOK, nil
	})
	switch {
	case errors.Is(err, supervisor.ErrInterrupted):
		log.Info("received stop signal, stopping services")
		return lib.ExitInfra
	case errors.Is(err, supervisor.ErrDependencyExited):
		for _, line := range backendOut.Tail(20) {
			log.Info("backend output", "line", line)
		}
		return lib.ExitInfra
	case err != nil:
		return lib.ExitInfra
	}
	return lib.ExitOK
}

// maybeInstallFrontend installs npm dependencies the first time the UI
// runs; a present node_modules makes it a no-op.
func maybeInstallFrontend(ctx context.Context, opts Options, log *slog.Logger) error {
	if opts.SkipInstall {
		return nil
	}
	if _, err := os.Stat(filepath.Join(opts.FrontendDir, "node_modules")); err == nil {
		return nil
	}

	log.Info("installing frontend dependencies (npm install)")
	cmd := exec.CommandContext(ctx, "npm", "install")
	cmd.Dir = opts.FrontendDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
