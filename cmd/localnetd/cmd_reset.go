// Copyright 2025 The Localnet Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"github.com/spf13/cobra"
	"gitlab.com/nearlocal/localnetd/internal/node"
)

var cmdReset = &cobra.Command{
	Use:   "reset",
	Short: "Remove the node fixture",
	Long:  "Reset deletes the generated genesis, keys, and chain data. It refuses while a node is running against the fixture.",
	Run:   resetNode,
	Args:  cobra.NoArgs,
}

func init() {
	cmdMain.AddCommand(cmdReset)
}

func resetNode(cmd *cobra.Command, _ []string) {
	cfg := setup(cmd, false)
	n := node.New(flagMain.WorkDir, cfg)
	check(n.Reset())
}
