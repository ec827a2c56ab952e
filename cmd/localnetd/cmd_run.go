// Copyright 2025 The Localnet Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	shellwords "github.com/mattn/go-shellwords"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gitlab.com/nearlocal/localnetd/internal/node"
	"gitlab.com/nearlocal/localnetd/pkg/client"
)

var cmdRun = &cobra.Command{
	Use:   "run",
	Short: "Run the node in the foreground",
	Long:  "Run launches the node against the initialized fixture and blocks until it exits. The harness exits with the node's exit code.",
	Run:   runNode,
	Args:  cobra.NoArgs,
}

var flagRun = struct {
	Verbose            bool
	ProduceEmptyBlocks bool
	Binary             string
	GracePeriod        time.Duration
	WaitReady          time.Duration
	ExtraArgs          string
}{}

func init() {
	cmdMain.AddCommand(cmdRun)

	cmdRun.Flags().BoolVarP(&flagRun.Verbose, "verbose", "v", false, "Run the node with verbose logging")
	cmdRun.Flags().BoolVar(&flagRun.ProduceEmptyBlocks, "produce-empty-blocks", false, "Produce blocks even when there are no transactions")
	cmdRun.Flags().StringVar(&flagRun.Binary, "binary", "", "Node binary (default neard)")
	cmdRun.Flags().DurationVar(&flagRun.GracePeriod, "grace-period", 0, "How long to wait for the node to stop before killing it")
	cmdRun.Flags().DurationVar(&flagRun.WaitReady, "wait-ready", 0, "Log once the status endpoint answers, giving up after this long")
	cmdRun.Flags().StringVar(&flagRun.ExtraArgs, "extra-args", "", "Extra arguments for the node's run command, in shell syntax")
}

func runNode(cmd *cobra.Command, _ []string) {
	cfg := setup(cmd, flagRun.Verbose)
	if flagRun.Binary != "" {
		cfg.Binary = flagRun.Binary
	}

	var set []string
	cmd.Flags().Visit(func(flag *pflag.Flag) {
		set = append(set, fmt.Sprintf("--%s=%v", flag.Name, flag.Value))
	})
	if len(set) > 0 {
		slog.Debug("Run flags", "flags", set)
	}

	extra, err := shellwords.Parse(flagRun.ExtraArgs)
	checkf(err, "--extra-args")

	opts := node.RunOptions{
		Verbose:     flagRun.Verbose,
		GracePeriod: flagRun.GracePeriod,
		ExtraArgs:   extra,
	}
	if cmd.Flags().Changed("produce-empty-blocks") {
		opts.ProduceEmptyBlocks = &flagRun.ProduceEmptyBlocks
	}

	n := node.New(flagMain.WorkDir, cfg)
	h, err := n.Start(cmd.Context(), opts)
	checkNode(err)

	// Forward interrupts to the node
	sigs := make(chan os.Signal, 2)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		for sig := range sigs {
			h.Forward(sig)
		}
	}()

	if flagRun.WaitReady > 0 {
		go waitReady(cmd.Context(), n.Config.RPCListen, flagRun.WaitReady, h)
	}

	checkNode(h.Wait(cmd.Context()))
}

// waitReady polls the node's status endpoint and logs once it answers.
// Purely informational. A node that never answers does not fail the run.
func waitReady(ctx context.Context, server string, timeout time.Duration, h *node.RunHandle) {
	c, err := client.New(server)
	if err != nil {
		slog.Error("Readiness check failed", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	go func() {
		// Stop polling once the node exits
		select {
		case <-h.Done():
			cancel()
		case <-ctx.Done():
		}
	}()

	start := time.Now()
	err = c.WaitReady(ctx, time.Second)
	if err != nil {
		slog.Warn("Node did not answer within the readiness window", "rpc", server, "timeout", timeout)
		return
	}
	slog.Info("Node is ready", "rpc", server, "after", time.Since(start).Round(time.Millisecond))
}
