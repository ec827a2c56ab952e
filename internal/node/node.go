// Copyright 2025 The Localnet Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package node bootstraps and runs a single local validator node for
// integration testing. [Node.Initialize] invokes the node binary's init
// command to materialize a deterministic fixture, and [Node.Run] launches
// the node in the foreground against that fixture.
package node

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Node drives one validator node rooted at a home directory. The zero
// value is not usable; construct with [New].
type Node struct {
	// Home is the node home directory.
	Home string

	// Config is the harness configuration with defaults applied.
	Config *Config

	// Runner executes the node binary. Replaceable for tests.
	Runner Runner

	// Logger receives harness logs.
	Logger *slog.Logger

	// Stdout and Stderr are where the run phase attaches the node's
	// output. They default to the harness's own streams.
	Stdout io.Writer
	Stderr io.Writer
}

// New returns a Node for the given home directory. A nil config gets
// defaults throughout.
func New(home string, cfg *Config) *Node {
	if cfg == nil {
		cfg = new(Config)
	}
	cfg.applyDefaults()
	return &Node{
		Home:   home,
		Config: cfg,
		Runner: NewExecRunner(),
		Logger: slog.Default().With("module", "node"),
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Fixture returns the fixture state at the node's home directory, or nil
// if the home is not initialized.
func (n *Node) Fixture() *FixtureState { return fixtureAt(n.Home) }

// Phase is the lifecycle phase of a node home directory.
type Phase int

const (
	// PhaseUninitialized means no fixture exists.
	PhaseUninitialized Phase = iota
	// PhaseInitialized means the fixture exists and no node is running.
	PhaseInitialized
	// PhaseRunning means a node is running against the fixture.
	PhaseRunning
	// PhaseTerminated means a node ran against the fixture and exited.
	PhaseTerminated
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseInitialized:
		return "initialized"
	case PhaseRunning:
		return "running"
	case PhaseTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("Phase:%d", int(p))
	}
}

// PhaseOf reports the lifecycle phase of a home directory, determined
// from the fixture files, the pid file, and the session journal.
func PhaseOf(home string) Phase {
	if fixtureAt(home) == nil {
		return PhaseUninitialized
	}
	if livePid(home) != 0 {
		return PhaseRunning
	}
	switch e := lastJournalEntry(home); {
	case e == nil:
		return PhaseInitialized
	case e.Event == EventExited, e.Event == EventStarted:
		// A started event with no live pid means the node is gone
		return PhaseTerminated
	default:
		return PhaseInitialized
	}
}

// Phase reports the node's lifecycle phase.
func (n *Node) Phase() Phase { return PhaseOf(n.Home) }
