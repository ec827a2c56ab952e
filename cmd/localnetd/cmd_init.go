// Copyright 2025 The Localnet Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"log/slog"

	shellwords "github.com/mattn/go-shellwords"
	"github.com/spf13/cobra"
	"gitlab.com/nearlocal/localnetd/internal/node"
)

var cmdInit = &cobra.Command{
	Use:   "init",
	Short: "Initialize the node fixture",
	Long:  "Init invokes the node binary to generate a deterministic genesis, node key, and validator key for the given test seed and account.",
	Run:   initNode,
	Args:  cobra.NoArgs,
}

var flagInit = struct {
	TestSeed  string
	AccountID string
	ChainID   string
	Binary    string
	Reset     bool
	ExtraArgs string
}{}

func init() {
	cmdMain.AddCommand(cmdInit)

	cmdInit.Flags().StringVar(&flagInit.TestSeed, "test-seed", "", "Deterministic seed for key and genesis generation")
	cmdInit.Flags().StringVar(&flagInit.AccountID, "account-id", "", "Validator account id, e.g. alice.near")
	cmdInit.Flags().StringVar(&flagInit.ChainID, "chain-id", "", "Chain id (default localnet)")
	cmdInit.Flags().StringVar(&flagInit.Binary, "binary", "", "Node binary (default neard)")
	cmdInit.Flags().BoolVar(&flagInit.Reset, "reset", false, "Remove an existing fixture first")
	cmdInit.Flags().StringVar(&flagInit.ExtraArgs, "extra-args", "", "Extra arguments for the node's init command, in shell syntax")
	_ = cmdInit.MarkFlagRequired("test-seed")
	_ = cmdInit.MarkFlagRequired("account-id")
}

func initNode(cmd *cobra.Command, _ []string) {
	cfg := setup(cmd, false)
	if flagInit.Binary != "" {
		cfg.Binary = flagInit.Binary
	}

	extra, err := shellwords.Parse(flagInit.ExtraArgs)
	checkf(err, "--extra-args")

	n := node.New(flagMain.WorkDir, cfg)
	fixture, err := n.Initialize(cmd.Context(), node.InitOptions{
		TestSeed:  flagInit.TestSeed,
		AccountID: flagInit.AccountID,
		ChainID:   flagInit.ChainID,
		Reset:     flagInit.Reset,
		ExtraArgs: extra,
	})
	checkNode(err)

	slog.Info("Fixture ready", "home", fixture.Home, "chain", fixture.ChainID, "account", fixture.AccountID)
}
