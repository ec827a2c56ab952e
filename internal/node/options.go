// Copyright 2025 The Localnet Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package node

import (
	"time"

	shellwords "github.com/mattn/go-shellwords"
	"gitlab.com/nearlocal/localnetd/pkg/errors"
)

// InitOptions configures the bootstrap phase.
type InitOptions struct {
	// TestSeed seeds the node's deterministic key generation. The same
	// seed always yields the same fixture.
	TestSeed string

	// AccountID is the validator account to create.
	AccountID string

	// ChainID overrides the configured chain id.
	ChainID string

	// Reset deletes an existing fixture before bootstrapping.
	Reset bool

	// ExtraArgs are appended to the node init invocation.
	ExtraArgs []string
}

// RunOptions configures the run phase.
type RunOptions struct {
	// Verbose enables the node's verbose logging.
	Verbose bool

	// ProduceEmptyBlocks overrides the configured empty-block setting.
	// Left nil, the configured value applies, which defaults to off.
	ProduceEmptyBlocks *bool

	// GracePeriod overrides the configured shutdown grace period.
	GracePeriod time.Duration

	// ExtraArgs are appended to the node run invocation.
	ExtraArgs []string
}

// splitArgs splits a shell-syntax argument string.
func splitArgs(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	args, err := shellwords.Parse(s)
	if err != nil {
		return nil, errors.BadRequest.WithFormat("parse extra arguments: %w", err)
	}
	return args, nil
}
