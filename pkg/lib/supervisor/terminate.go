package supervisor

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// killDrainTimeout bounds the wait for process exit after SIGKILL.
// SIGKILL cannot be caught, so this should never fire; it guards against
// stuck I/O keeping the wait goroutine alive forever.
const killDrainTimeout = 10 * time.Second

// Terminate stops every process in the group, strictly in reverse spawn
// order so a dependent process always stops before its dependency. Each
// process gets the graceful stop signal, up to the configured grace
// period to exit, then a forced kill.
//
// Terminate is idempotent (a second call, or a call racing an
// already-exited process, is a no-op) and never returns an error:
// teardown problems are logged so they cannot mask the outcome that
// triggered the teardown.
func (r *Runner) Terminate() {
	r.mu.Lock()
	group := make([]*ManagedProcess, len(r.group))
	copy(group, r.group)
	r.mu.Unlock()

	for i := len(group) - 1; i >= 0; i-- {
		group[i].stop(r.cfg.GracePeriod, r.log)
	}
}

func (p *ManagedProcess) stop(grace time.Duration, log *slog.Logger) {
	p.stopOnce.Do(func() {
		select {
		case <-p.done:
			log.Debug("process already exited", "name", p.name)
			return
		default:
		}

		log.Info("stopping process", "name", p.name)
		if err := terminateProcess(p.cmd); err != nil {
			log.Debug("graceful stop signal failed", "name", p.name, "err", err)
		}

		graceTimer := time.NewTimer(grace)
		defer graceTimer.Stop()
		select {
		case <-p.done:
			log.Info("process stopped", "name", p.name, "exit_code", p.exitCode)
			return
		case <-graceTimer.C:
		}

		log.Warn("grace period elapsed, force killing", "name", p.name)
		if err := killProcess(p.cmd); err != nil {
			log.Warn("force kill failed", "name", p.name, "err", err)
		}
		drain := time.NewTimer(killDrainTimeout)
		defer drain.Stop()
		select {
		case <-p.done:
			log.Info("process killed", "name", p.name)
		case <-drain.C:
			log.Warn("process did not exit after kill", "name", p.name)
		}
	})
}

// RequestShutdown is the single entry point every interrupt source uses:
// OS signals, explicit caller stops, and budget expiry all funnel here,
// triggering the transition to teardown regardless of current state. It
// is safe to call from any goroutine, any number of times.
func (r *Runner) RequestShutdown() {
	r.shutdownOnce.Do(func() {
		r.log.Info("shutdown requested")
		close(r.shutdown)
	})
}

// NotifySignals forwards SIGINT and SIGTERM to RequestShutdown. The
// returned function releases the handler.
func (r *Runner) NotifySignals() func() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		for range ch {
			r.RequestShutdown()
		}
	}()
	return func() {
		signal.Stop(ch)
		close(ch)
	}
}
