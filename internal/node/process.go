// Copyright 2025 The Localnet Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package node

import (
	"context"
	"io"
	"os"
	"os/exec"

	"gitlab.com/nearlocal/localnetd/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Command describes one invocation of the node binary.
type Command struct {
	// Path is the binary, a bare name resolved from PATH or a path.
	Path string

	// Args are the arguments, excluding the binary name.
	Args []string

	// Dir is the working directory.
	Dir string

	// Stdout and Stderr receive the process output when the command is
	// launched with [Runner.Start]. They are ignored by [Runner.Run],
	// which captures output instead.
	Stdout io.Writer
	Stderr io.Writer
}

// Output is the captured result of a completed invocation.
type Output struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Process is a launched node process.
type Process interface {
	// PID returns the operating system process id.
	PID() int

	// Signal sends a signal to the process.
	Signal(sig os.Signal) error

	// Kill forcibly terminates the process.
	Kill() error

	// Wait blocks until the process exits and returns its exit code. If
	// the process was terminated by a signal the code is 128 plus the
	// signal number.
	Wait() (int, error)
}

// Runner executes node binary invocations. The default runner uses
// os/exec; tests substitute their own. Runners report failures as plain
// errors; callers assign status codes.
type Runner interface {
	// Run executes the command to completion and captures its output. A
	// non-zero exit is reported in the output, not as an error.
	Run(ctx context.Context, cmd *Command) (*Output, error)

	// Start launches the command with its output streams attached and
	// returns without waiting.
	Start(ctx context.Context, cmd *Command) (Process, error)
}

// NewExecRunner returns a Runner backed by os/exec.
func NewExecRunner() Runner { return execRunner{} }

type execRunner struct{}

func (execRunner) Run(ctx context.Context, c *Command) (*Output, error) {
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Dir = c.Dir

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}

	err = cmd.Start()
	if err != nil {
		return nil, err
	}

	g, _ := errgroup.WithContext(ctx)
	var stdoutBytes, stderrBytes []byte
	g.Go(func() error {
		var err error
		stdoutBytes, err = io.ReadAll(stdout)
		return err
	})
	g.Go(func() error {
		var err error
		stderrBytes, err = io.ReadAll(stderr)
		return err
	})
	readErr := g.Wait()

	err = cmd.Wait()
	if readErr != nil {
		return nil, readErr
	}

	out := &Output{Stdout: stdoutBytes, Stderr: stderrBytes}
	var xerr *exec.ExitError
	switch {
	case err == nil:
		// Exited zero
	case errors.As(err, &xerr):
		out.ExitCode = exitStatus(xerr.ProcessState)
	default:
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (execRunner) Start(ctx context.Context, c *Command) (Process, error) {
	// Not CommandContext: cancellation must go through the graceful
	// shutdown path, not a hard kill.
	cmd := exec.Command(c.Path, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr
	setSysProcAttr(cmd)

	err := cmd.Start()
	if err != nil {
		return nil, err
	}
	return &execProcess{cmd}, nil
}

type execProcess struct {
	cmd *exec.Cmd
}

func (p *execProcess) PID() int { return p.cmd.Process.Pid }

func (p *execProcess) Signal(sig os.Signal) error { return p.cmd.Process.Signal(sig) }

func (p *execProcess) Kill() error { return p.cmd.Process.Kill() }

func (p *execProcess) Wait() (int, error) {
	err := p.cmd.Wait()
	var xerr *exec.ExitError
	switch {
	case err == nil:
		return 0, nil
	case errors.As(err, &xerr):
		return exitStatus(xerr.ProcessState), nil
	default:
		return -1, err
	}
}
