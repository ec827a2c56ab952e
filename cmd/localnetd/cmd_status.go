// Copyright 2025 The Localnet Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gitlab.com/nearlocal/localnetd/internal/node"
	"gitlab.com/nearlocal/localnetd/pkg/client"
)

var cmdStatus = &cobra.Command{
	Use:   "status",
	Short: "Query the node's status",
	Run:   showStatus,
	Args:  cobra.NoArgs,
}

var flagStatus = struct {
	NodeRPC string
	Local   bool
}{}

func init() {
	cmdMain.AddCommand(cmdStatus)

	cmdStatus.Flags().StringVar(&flagStatus.NodeRPC, "node-rpc", "", "The node's JSON-RPC address (default from configuration)")
	cmdStatus.Flags().BoolVar(&flagStatus.Local, "local", false, "Report the fixture state instead of querying the node")
}

func showStatus(cmd *cobra.Command, _ []string) {
	cfg := setup(cmd, false)
	n := node.New(flagMain.WorkDir, cfg)

	if flagStatus.Local {
		showLocalStatus(n)
		return
	}

	server := flagStatus.NodeRPC
	if server == "" {
		server = n.Config.RPCListen
	}
	c, err := client.New(server)
	check(err)

	ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
	defer cancel()
	status, err := c.Status(ctx)
	checkf(err, "query %s", server)

	fmt.Printf("Chain:    %s\n", status.ChainID)
	fmt.Printf("Height:   %d\n", status.SyncInfo.LatestBlockHeight)
	fmt.Printf("Block:    %s\n", status.SyncInfo.LatestBlockHash)
	fmt.Printf("Syncing:  %v\n", status.SyncInfo.Syncing)
	if status.ValidatorAccountID != "" {
		fmt.Printf("Account:  %s\n", status.ValidatorAccountID)
	}
	if status.Version.Version != "" {
		fmt.Printf("Version:  %s\n", status.Version.Version)
	}
}

func showLocalStatus(n *node.Node) {
	phase := n.Phase()

	c := color.New(color.FgRed)
	switch phase {
	case node.PhaseRunning:
		c = color.New(color.FgGreen)
	case node.PhaseInitialized, node.PhaseTerminated:
		c = color.New(color.FgYellow)
	}
	fmt.Printf("Phase:    %s\n", c.Sprint(phase))
	fmt.Printf("Home:     %s\n", n.Home)

	fixture := n.Fixture()
	if fixture == nil {
		return
	}
	if missing := fixture.Missing(); len(missing) > 0 {
		fmt.Printf("Missing:  %v\n", missing)
	}
}
