// Copyright 2025 The Localnet Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

//go:build !windows

package node

import (
	"bytes"
	"context"
	"io"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestExecRunnerRun(t *testing.T) {
	r := NewExecRunner()
	out, err := r.Run(context.Background(), &Command{
		Path: "/bin/sh",
		Args: []string{"-c", "echo out; echo err >&2; exit 7"},
		Dir:  t.TempDir(),
	})
	require.NoError(t, err)
	require.Equal(t, 7, out.ExitCode)
	require.Equal(t, "out\n", string(out.Stdout))
	require.Equal(t, "err\n", string(out.Stderr))
}

func TestExecRunnerRunMissingBinary(t *testing.T) {
	r := NewExecRunner()
	_, err := r.Run(context.Background(), &Command{Path: "./no-such-binary-for-this-test"})
	require.Error(t, err)
}

func TestExecRunnerRunCancelled(t *testing.T) {
	r := NewExecRunner()
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := r.Run(ctx, &Command{Path: "/bin/sh", Args: []string{"-c", "sleep 30"}})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(start), 10*time.Second)
}

func TestExecRunnerStart(t *testing.T) {
	r := NewExecRunner()
	var stdout bytes.Buffer
	p, err := r.Start(context.Background(), &Command{
		Path:   "/bin/sh",
		Args:   []string{"-c", "echo hello; exit 3"},
		Stdout: &stdout,
		Stderr: io.Discard,
	})
	require.NoError(t, err)
	require.Greater(t, p.PID(), 0)

	code, err := p.Wait()
	require.NoError(t, err)
	require.Equal(t, 3, code)
	require.Equal(t, "hello\n", stdout.String())
}

func TestExecRunnerStartMissingBinary(t *testing.T) {
	r := NewExecRunner()
	start := time.Now()
	_, err := r.Start(context.Background(), &Command{Path: "./no-such-binary-for-this-test"})
	require.Error(t, err)
	require.Less(t, time.Since(start), 10*time.Second)
}

func TestExecRunnerSignal(t *testing.T) {
	r := NewExecRunner()
	p, err := r.Start(context.Background(), &Command{
		Path:   "/bin/sh",
		Args:   []string{"-c", "sleep 30"},
		Stdout: io.Discard,
		Stderr: io.Discard,
	})
	require.NoError(t, err)

	require.NoError(t, p.Signal(syscall.SIGTERM))
	code, err := p.Wait()
	require.NoError(t, err)

	// Terminated by a signal reports 128 plus the signal number
	require.Equal(t, 128+int(syscall.SIGTERM), code)
}

func TestExecRunnerKill(t *testing.T) {
	r := NewExecRunner()
	p, err := r.Start(context.Background(), &Command{
		Path:   "/bin/sh",
		Args:   []string{"-c", "sleep 30"},
		Stdout: io.Discard,
		Stderr: io.Discard,
	})
	require.NoError(t, err)

	require.NoError(t, p.Kill())
	code, err := p.Wait()
	require.NoError(t, err)
	require.Equal(t, 128+int(syscall.SIGKILL), code)
}
