package lib

import "fmt"

// Exit codes shared by every devkit subcommand. The CI workflows branch on
// these values, so they are part of the tool's contract:
//
//	0 - the foreground task completed and found nothing
//	1 - the foreground task itself reported problems (failing checks)
//	2 - infrastructure failure: missing tool, spawn error, readiness
//	    timeout, dependency death, or interruption
const (
	ExitOK     = 0
	ExitIssues = 1
	ExitInfra  = 2
)

// ExitError carries a process exit code through cobra's error return.
// main unwraps it with errors.As and exits with the embedded code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit code %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// Exit returns an *ExitError for code, or nil when there is nothing to
// report, so callers can return it directly from RunE.
func Exit(code int, err error) error {
	if code == ExitOK && err == nil {
		return nil
	}
	return &ExitError{Code: code, Err: err}
}
