// Package supervisor implements the supervised external process runner
// shared by the fuzzing orchestrator and the dev-stack launcher: spawn
// zero or more long-running processes, poll a readiness probe under a
// deadline, run a bounded foreground task, and guarantee teardown of
// every spawned process on every exit path.
package supervisor

import (
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"sync"
	"time"
)

// Defaults applied by New when the corresponding Config field is zero.
// They match the values the CI scripts have always used.
const (
	DefaultProbeTimeout = 5 * time.Second
	DefaultPollInterval = 2 * time.Second
	DefaultReadyTimeout = 120 * time.Second
	DefaultGracePeriod  = 10 * time.Second
)

// Sentinel errors for error inspection with errors.Is.
var (
	// ErrDependencyExited indicates a background process died while it
	// was still needed: during the readiness wait or while the
	// foreground task was running. The task's own result is discarded
	// when this is reported.
	ErrDependencyExited = errors.New("background process exited")

	// ErrInterrupted indicates RequestShutdown fired before the
	// invocation reached a natural end. It is a controlled shutdown,
	// not a crash.
	ErrInterrupted = errors.New("shutdown requested")
)

// SpawnError wraps a failure to create a process: executable missing or
// the OS refusing the spawn. It is fatal and never retried.
type SpawnError struct {
	Name string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("spawn %s: %v", e.Name, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// Config carries the runner's timing knobs. These used to live as
// module-level constants in the scripts this tool replaces; keeping them
// on the Runner makes every invocation self-contained.
type Config struct {
	ProbeTimeout time.Duration // per-attempt probe budget, < ReadyTimeout
	PollInterval time.Duration // delay between readiness probes
	ReadyTimeout time.Duration // overall readiness deadline
	GracePeriod  time.Duration // SIGTERM-to-SIGKILL escalation window
	Logger       *slog.Logger  // defaults to slog.Default()
}

func (c Config) withDefaults() Config {
	if c.ProbeTimeout <= 0 {
		c.ProbeTimeout = DefaultProbeTimeout
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.ReadyTimeout <= 0 {
		c.ReadyTimeout = DefaultReadyTimeout
	}
	if c.GracePeriod <= 0 {
		c.GracePeriod = DefaultGracePeriod
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// ManagedProcess is one spawned external process under the Runner's
// lifecycle control. The handle is owned exclusively by the Runner;
// command line and directory are immutable after spawn.
type ManagedProcess struct {
	name string
	dir  string
	argv []string

	cmd      *exec.Cmd
	done     chan struct{} // closed once cmd.Wait returns
	exitCode int           // valid only after done is closed
	waitErr  error

	stopOnce sync.Once
}

// Name returns the identifying name given at spawn.
func (p *ManagedProcess) Name() string { return p.name }

// Alive reports whether the process has not yet exited.
func (p *ManagedProcess) Alive() bool {
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}

// Done returns a channel closed when the process exits.
func (p *ManagedProcess) Done() <-chan struct{} { return p.done }

// ExitCode returns the process exit code. The boolean is false while the
// process is still running or when no code is available (signal death on
// some platforms reports -1, which is returned as-is).
func (p *ManagedProcess) ExitCode() (int, bool) {
	select {
	case <-p.done:
		return p.exitCode, true
	default:
		return 0, false
	}
}

// Runner drives one invocation of the spawn / await / run / teardown
// state machine. A single control goroutine mutates the group; the only
// asynchronous input is RequestShutdown, which any interrupt source may
// call at any time.
type Runner struct {
	cfg Config
	log *slog.Logger

	mu    sync.Mutex
	group []*ManagedProcess // insertion order = startup order

	shutdown     chan struct{}
	shutdownOnce sync.Once
}

// New creates a Runner with cfg, filling unset fields from the defaults.
func New(cfg Config) *Runner {
	cfg = cfg.withDefaults()
	return &Runner{
		cfg:      cfg,
		log:      cfg.Logger,
		shutdown: make(chan struct{}),
	}
}

// Group returns a snapshot of the managed processes in startup order.
func (r *Runner) Group() []*ManagedProcess {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*ManagedProcess, len(r.group))
	copy(out, r.group)
	return out
}

// ShuttingDown returns a channel closed once RequestShutdown has fired.
func (r *Runner) ShuttingDown() <-chan struct{} { return r.shutdown }

// exitedProcess reports the first group member that has already exited.
func (r *Runner) exitedProcess() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.group {
		select {
		case <-p.done:
			return p.name, true
		default:
		}
	}
	return "", false
}
