// Copyright 2025 The Localnet Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package node

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"
	"gitlab.com/nearlocal/localnetd/internal/logging"
)

func testNode(t testing.TB, home string) *Node {
	n := New(home, nil)
	n.Logger = logging.NewTestLogger(t).With("module", "node")
	return n
}

func writeFixtureFiles(t testing.TB, home string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(home, 0700))
	for _, name := range FixtureFiles {
		require.NoError(t, os.WriteFile(filepath.Join(home, name), []byte(`{"file":"`+name+`"}`+"\n"), 0600))
	}
}

func initializedHome(t testing.TB) string {
	home := t.TempDir()
	writeFixtureFiles(t, home)
	return home
}

func argValue(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func ptr[T any](v T) *T { return &v }

// fakeRunner scripts the node binary.
type fakeRunner struct {
	mu      sync.Mutex
	runs    []*Command
	starts  []*Command
	onRun   func(*Command) (*Output, error)
	onStart func(*Command) (Process, error)
}

func (r *fakeRunner) Run(_ context.Context, c *Command) (*Output, error) {
	r.mu.Lock()
	r.runs = append(r.runs, c)
	fn := r.onRun
	r.mu.Unlock()
	if fn == nil {
		return new(Output), nil
	}
	return fn(c)
}

func (r *fakeRunner) Start(_ context.Context, c *Command) (Process, error) {
	r.mu.Lock()
	r.starts = append(r.starts, c)
	fn := r.onStart
	r.mu.Unlock()
	if fn == nil {
		return newFakeProcess(os.Getpid()), nil
	}
	return fn(c)
}

// fakeProcess stands in for a launched node. Tests drive it to exit, or
// set stopOnSignal so an interrupt or termination signal stops it like a
// well-behaved node.
type fakeProcess struct {
	pid          int
	stopOnSignal bool

	mu      sync.Mutex
	signals []os.Signal
	killed  bool

	exited   chan struct{}
	exitOnce sync.Once
	exitCode int
	exitErr  error
}

func newFakeProcess(pid int) *fakeProcess {
	return &fakeProcess{pid: pid, exited: make(chan struct{})}
}

func (p *fakeProcess) PID() int { return p.pid }

func (p *fakeProcess) Signal(sig os.Signal) error {
	p.mu.Lock()
	p.signals = append(p.signals, sig)
	stop := p.stopOnSignal
	p.mu.Unlock()

	if stop && (sig == os.Interrupt || sig == syscall.SIGTERM) {
		p.exit(0)
	}
	return nil
}

func (p *fakeProcess) Kill() error {
	p.mu.Lock()
	p.killed = true
	p.mu.Unlock()
	p.exit(137)
	return nil
}

func (p *fakeProcess) Wait() (int, error) {
	<-p.exited
	return p.exitCode, p.exitErr
}

func (p *fakeProcess) exit(code int) {
	p.exitOnce.Do(func() {
		p.exitCode = code
		close(p.exited)
	})
}

func (p *fakeProcess) Signals() []os.Signal {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]os.Signal(nil), p.signals...)
}

func (p *fakeProcess) Killed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.killed
}
