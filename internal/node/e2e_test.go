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
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gitlab.com/nearlocal/localnetd/internal/logging"
	"gitlab.com/nearlocal/localnetd/pkg/client"
)

// TestEndToEnd drives a real node binary through the full init and run
// cycle. It needs a binary that speaks the init/run interface, so it only
// runs when LOCALNETD_NODE_BINARY is set, e.g.
//
//	LOCALNETD_NODE_BINARY=$(which neard) go test -run EndToEnd ./internal/node
func TestEndToEnd(t *testing.T) {
	binary := os.Getenv("LOCALNETD_NODE_BINARY")
	if binary == "" {
		t.Skip("set LOCALNETD_NODE_BINARY to run against a real node binary")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	home := filepath.Join(t.TempDir(), "node")
	n := New(home, &Config{Binary: binary})
	n.Logger = logging.NewTestLogger(t).With("module", "node")

	// Bootstrap twice with the same seed; the fixture must not change
	opts := InitOptions{TestSeed: "alice.near", AccountID: "test.near"}
	f, err := n.Initialize(ctx, opts)
	require.NoError(t, err)
	m1, err := f.Manifest()
	require.NoError(t, err)

	f, err = n.Initialize(ctx, opts)
	require.NoError(t, err)
	m2, err := f.Manifest()
	require.NoError(t, err)
	require.Equal(t, m1, m2)

	// Launch with empty blocks off
	h, err := n.Start(ctx, RunOptions{Verbose: true})
	require.NoError(t, err)
	defer h.Stop()

	c, err := client.New(n.Config.RPCListen)
	require.NoError(t, err)

	readyCtx, cancelReady := context.WithTimeout(ctx, time.Minute)
	defer cancelReady()
	require.NoError(t, c.WaitReady(readyCtx, time.Second))

	status, err := c.Status(ctx)
	require.NoError(t, err)
	require.Equal(t, f.ChainID, status.ChainID)

	// With no traffic and empty blocks off, the height must hold still
	stable, err := c.HeightStable(ctx, 10*time.Second)
	require.NoError(t, err)
	require.True(t, stable)

	// A graceful stop leaves no pid file behind
	h.Stop()
	_, err = os.Stat(filepath.Join(home, PidFile))
	require.ErrorIs(t, err, os.ErrNotExist)
}
