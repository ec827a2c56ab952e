// Copyright 2025 The Localnet Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package node

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"syscall"
	"time"

	"gitlab.com/nearlocal/localnetd/pkg/errors"
)

// RunHandle is a launched node. The CLI and tests hold it to forward
// signals and await the exit.
type RunHandle struct {
	node  *Node
	proc  Process
	grace time.Duration

	done     chan struct{}
	exitCode int
	exitErr  error

	stopOnce sync.Once
}

// Start launches the node in the foreground against the fixture with its
// stdout and stderr attached to the node's streams. Cancelling the
// context shuts the node down gracefully.
func (n *Node) Start(ctx context.Context, opts RunOptions) (*RunHandle, error) {
	f := fixtureAt(n.Home)
	if f == nil {
		return nil, errors.NotInitialized.WithFormat("%s is not initialized; run init first", n.Home)
	}
	if missing := f.Missing(); len(missing) > 0 {
		return nil, errors.NotInitialized.WithFormat(
			"fixture at %s is incomplete: missing %s", n.Home, strings.Join(missing, ", "))
	}
	if pid := livePid(n.Home); pid != 0 {
		return nil, errors.FixtureLocked.WithFormat("a node is already running against %s (pid %d)", n.Home, pid)
	}

	produceEmpty := *n.Config.ProduceEmptyBlocks
	if opts.ProduceEmptyBlocks != nil {
		produceEmpty = *opts.ProduceEmptyBlocks
	}

	args := []string{"run", "--home", n.Home}
	if opts.Verbose {
		args = append(args, "--verbose")
	}
	args = append(args, fmt.Sprintf("--produce-empty-blocks=%t", produceEmpty))
	extra, err := splitArgs(n.Config.ExtraRunArgs)
	if err != nil {
		return nil, err
	}
	args = append(args, extra...)
	args = append(args, opts.ExtraArgs...)

	stdout, stderr := n.Stdout, n.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	n.Logger.Info("Starting node",
		"binary", n.Config.Binary,
		"produce-empty-blocks", produceEmpty,
		"verbose", opts.Verbose)

	proc, err := n.Runner.Start(ctx, &Command{
		Path:   n.Config.Binary,
		Args:   args,
		Dir:    n.Home,
		Stdout: stdout,
		Stderr: stderr,
	})
	if err != nil {
		return nil, errors.StartFailure.WithFormat("start %s: %w", n.Config.Binary, err)
	}

	err = writePidFile(n.Home, proc.PID())
	if err != nil {
		// Do not leak a node we cannot track
		_ = proc.Kill()
		_, _ = proc.Wait()
		return nil, errors.WriteFailure.WithFormat("write pid file: %w", err)
	}

	n.journal(&JournalEntry{Event: EventStarted, PID: proc.PID()})
	n.Logger.Info("Node running", "pid", proc.PID())

	grace := n.Config.GracePeriod.Get()
	if opts.GracePeriod > 0 {
		grace = opts.GracePeriod
	}

	h := &RunHandle{node: n, proc: proc, grace: grace, done: make(chan struct{})}
	go h.reap()
	go h.superviseContext(ctx)
	return h, nil
}

// Run launches the node and blocks until it exits. The node's exit code
// is reported through [errors.ExitCode]; a zero exit returns nil.
func (n *Node) Run(ctx context.Context, opts RunOptions) error {
	h, err := n.Start(ctx, opts)
	if err != nil {
		return err
	}
	// Block until the child is reaped even if the context is cancelled;
	// cancellation shuts the node down through the supervise path.
	return h.Wait(context.Background())
}

// PID returns the node's process id.
func (h *RunHandle) PID() int { return h.proc.PID() }

// Done is closed after the node has exited and its pid file is removed.
func (h *RunHandle) Done() <-chan struct{} { return h.done }

// ExitCode returns the node's exit code. It is meaningful only after Done
// is closed.
func (h *RunHandle) ExitCode() int { return h.exitCode }

// Wait blocks until the node exits. A non-zero exit is reported as
// ExitedNonZero carrying the code. If the context expires first, its
// error is returned and the node keeps running.
func (h *RunHandle) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-h.done:
	}

	if h.exitErr != nil {
		return errors.UnknownError.WithFormat("wait for node: %w", h.exitErr)
	}
	if h.exitCode != 0 {
		e := errors.ExitedNonZero.WithFormat("node exited with code %d", h.exitCode)
		e.ExitCode = int64(h.exitCode)
		return e
	}
	return nil
}

// Forward relays a signal to the node. Forwarding an interrupt or
// termination signal starts the grace period; if the node outlives it,
// the node is killed.
func (h *RunHandle) Forward(sig os.Signal) {
	select {
	case <-h.done:
		return
	default:
	}

	h.node.Logger.Debug("Forwarding signal", "signal", sig)
	err := h.proc.Signal(sig)
	if err != nil {
		h.node.Logger.Warn("Failed to forward signal", "signal", sig, "error", err)
	}

	if sig == os.Interrupt || sig == syscall.SIGTERM {
		h.escalate()
	}
}

// Stop shuts the node down gracefully, killing it if it outlives the
// grace period, and waits for it to exit.
func (h *RunHandle) Stop() {
	h.Forward(syscall.SIGTERM)
	<-h.done
}

func (h *RunHandle) reap() {
	code, err := h.proc.Wait()
	h.exitCode, h.exitErr = code, err
	removePidFile(h.node.Home)
	h.node.journal(&JournalEntry{Event: EventExited, PID: h.proc.PID(), ExitCode: &code})
	if err != nil {
		h.node.Logger.Error("Node wait failed", "error", err)
	} else {
		h.node.Logger.Info("Node exited", "code", code)
	}
	close(h.done)
}

func (h *RunHandle) superviseContext(ctx context.Context) {
	select {
	case <-h.done:
	case <-ctx.Done():
		h.Forward(syscall.SIGTERM)
	}
}

// escalate kills the node if it does not exit within the grace period.
func (h *RunHandle) escalate() {
	h.stopOnce.Do(func() {
		go func() {
			select {
			case <-h.done:
			case <-time.After(h.grace):
				h.node.Logger.Warn("Node did not stop in time, killing", "grace", h.grace)
				_ = h.proc.Kill()
			}
		}()
	})
}
