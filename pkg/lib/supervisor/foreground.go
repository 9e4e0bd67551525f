package supervisor

import (
	"context"
	"fmt"
	"time"

	"github.com/jguida941/contact-suite-spring-react/pkg/lib"
)

// Task is the bounded unit of work executed once the group is ready,
// e.g. a single fuzzing pass. It returns the invocation exit code
// (lib.ExitOK or lib.ExitIssues) plus an error for failures that are
// neither. Tasks must honor ctx: it is cancelled when a dependency dies
// or a shutdown is requested.
type Task func(ctx context.Context) (int, error)

// watchInterval is the liveness poll period during the foreground run.
const watchInterval = 200 * time.Millisecond

// RunForeground executes task while the background processes are live.
// If any group member exits before the task finishes, the task context
// is cancelled, its result is discarded, and (lib.ExitInfra,
// ErrDependencyExited) is returned instead: a dead dependency
// invalidates whatever the task produced. A shutdown request is handled
// the same way with ErrInterrupted.
func (r *Runner) RunForeground(ctx context.Context, task Task) (int, error) {
	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	stopWatch := make(chan struct{})
	defer close(stopWatch)
	aborted := make(chan error, 1)
	go r.watch(aborted, stopWatch)

	type result struct {
		code int
		err  error
	}
	results := make(chan result, 1)
	go func() {
		code, err := task(taskCtx)
		results <- result{code, err}
	}()

	select {
	case res := <-results:
		return res.code, res.err
	case err := <-aborted:
		r.log.Error("foreground task aborted", "err", err)
		cancel()
		// The task runs in-process and is only asked to stop
		// cooperatively; wait for it to unwind, then drop its result.
		<-results
		return lib.ExitInfra, err
	}
}

// watch reports on out the first abort condition it observes: a group
// member exiting or a shutdown request.
func (r *Runner) watch(out chan<- error, stop <-chan struct{}) {
	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-r.shutdown:
			out <- ErrInterrupted
			return
		case <-ticker.C:
			if name, exited := r.exitedProcess(); exited {
				out <- fmt.Errorf("%w: %s", ErrDependencyExited, name)
				return
			}
		}
	}
}
