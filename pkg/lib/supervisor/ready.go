package supervisor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"
)

// ReadyResult is the outcome of AwaitReady. Timing out is a routine,
// expected condition here, so it is a result variant the caller must
// branch on, never an error.
type ReadyResult int

const (
	Ready ReadyResult = iota
	TimedOut
)

func (r ReadyResult) String() string {
	if r == Ready {
		return "ready"
	}
	return "timed out"
}

// ReadinessCheck describes an HTTP readiness probe: success is status
// 200 and, when ExpectStatus is set, a JSON body whose "status" field
// equals it (e.g. "UP" for a Spring actuator health endpoint).
//
// Zero durations fall back to the Runner's configuration. ProbeTimeout
// bounds a single attempt and must stay well under Timeout so the
// polling loop can respect the overall deadline.
type ReadinessCheck struct {
	URL          string
	ExpectStatus string
	Interval     time.Duration
	Timeout      time.Duration
	ProbeTimeout time.Duration
}

// AwaitReady polls check at its interval until the probe succeeds or the
// deadline elapses. Transient probe failures (connection refused, wrong
// status, malformed body) are logged at debug level and polling
// continues.
//
// The result is meaningful only when the returned error is nil: Ready or
// TimedOut. A non-nil error means the wait was aborted for a reason the
// caller must treat as fatal: a group member died (ErrDependencyExited)
// or a shutdown was requested (ErrInterrupted).
func (r *Runner) AwaitReady(ctx context.Context, check ReadinessCheck) (ReadyResult, error) {
	interval := check.Interval
	if interval <= 0 {
		interval = r.cfg.PollInterval
	}
	timeout := check.Timeout
	if timeout <= 0 {
		timeout = r.cfg.ReadyTimeout
	}
	probeTimeout := check.ProbeTimeout
	if probeTimeout <= 0 {
		probeTimeout = r.cfg.ProbeTimeout
	}

	r.log.Info("waiting for readiness", "url", check.URL, "timeout", timeout)

	client := &http.Client{}
	attempt := 0
	err := wait.PollUntilContextTimeout(ctx, interval, timeout, true,
		func(pollCtx context.Context) (bool, error) {
			select {
			case <-r.shutdown:
				return false, ErrInterrupted
			default:
			}
			// A probe cannot succeed against a dead dependency; abort
			// instead of burning the rest of the deadline.
			if name, exited := r.exitedProcess(); exited {
				return false, fmt.Errorf("%w: %s", ErrDependencyExited, name)
			}

			attempt++
			if perr := check.probe(pollCtx, client, probeTimeout); perr != nil {
				r.log.Debug("not ready yet", "url", check.URL, "attempt", attempt, "err", perr)
				return false, nil
			}
			return true, nil
		})

	switch {
	case err == nil:
		r.log.Info("readiness check passed", "url", check.URL, "attempt", attempt)
		return Ready, nil
	case errors.Is(err, ErrInterrupted) || errors.Is(err, ErrDependencyExited):
		return TimedOut, err
	case wait.Interrupted(err):
		if ctx.Err() != nil {
			// Caller cancellation, not deadline expiry.
			return TimedOut, ErrInterrupted
		}
		r.log.Error("readiness deadline elapsed", "url", check.URL, "timeout", timeout)
		return TimedOut, nil
	default:
		return TimedOut, err
	}
}
