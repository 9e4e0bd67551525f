package supervisor

import (
	"errors"
	"io"
	"os"
	"os/exec"
)

// Spec describes one process to spawn. Argv[0] is the executable.
type Spec struct {
	Name string // identifying name used in logs and teardown
	Dir  string // working directory; empty means inherit
	Argv []string
	Env  []string // appended to the inherited environment

	Stdout io.Writer // nil discards
	Stderr io.Writer // nil discards
}

// Spawn launches the process described by spec and adds it to the group.
// The child is placed in its own process group where the platform allows
// it, so teardown can signal the whole tree as a unit. Stdin is left
// nil, so the child reads from the null device.
//
// On failure the returned error is a *SpawnError and nothing is added to
// the group.
func (r *Runner) Spawn(spec Spec) (*ManagedProcess, error) {
	if len(spec.Argv) == 0 {
		return nil, &SpawnError{Name: spec.Name, Err: errors.New("command is required")}
	}
	name := spec.Name
	if name == "" {
		name = spec.Argv[0]
	}

	cmd := exec.Command(spec.Argv[0], spec.Argv[1:]...)
	cmd.Dir = spec.Dir
	cmd.SysProcAttr = sysProcAttr()
	if len(spec.Env) > 0 {
		cmd.Env = append(os.Environ(), spec.Env...)
	}
	cmd.Stdout = spec.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = io.Discard
	}
	cmd.Stderr = spec.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = io.Discard
	}

	r.log.Info("starting process", "name", name, "argv", spec.Argv, "dir", spec.Dir)
	if err := cmd.Start(); err != nil {
		r.log.Error("failed to start process", "name", name, "err", err)
		return nil, &SpawnError{Name: name, Err: err}
	}

	p := &ManagedProcess{
		name: name,
		dir:  spec.Dir,
		argv: append([]string(nil), spec.Argv...),
		cmd:  cmd,
		done: make(chan struct{}),
	}

	// Waiter: exactly one cmd.Wait per process; everything else observes
	// the done channel.
	go func() {
		err := cmd.Wait()
		p.waitErr = err
		p.exitCode = 0
		if err != nil {
			p.exitCode = -1
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				p.exitCode = exitErr.ExitCode()
			}
		}
		close(p.done)
		r.log.Debug("process exited", "name", name, "pid", cmd.Process.Pid, "exit_code", p.exitCode)
	}()

	r.mu.Lock()
	r.group = append(r.group, p)
	r.mu.Unlock()

	r.log.Info("started process", "name", name, "pid", cmd.Process.Pid)
	return p, nil
}
