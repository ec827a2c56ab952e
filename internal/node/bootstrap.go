// Copyright 2025 The Localnet Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package node

import (
	"context"
	"io/fs"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"gitlab.com/nearlocal/localnetd/pkg/errors"
)

// minDiskSpace is the minimum free fraction of the volume required to
// bootstrap.
const minDiskSpace = 0.05

// Initialize bootstraps the node home directory by invoking the node
// binary's init command with a deterministic test seed. Re-initializing
// with the same seed overwrites the fixture with identical contents, so
// the operation is idempotent. The account id is validated locally before
// anything is written.
func (n *Node) Initialize(ctx context.Context, opts InitOptions) (_ *FixtureState, err error) {
	// Validate before any filesystem effect
	err = ValidateSeed(opts.TestSeed)
	if err != nil {
		return nil, err
	}
	err = ValidateAccountID(opts.AccountID, n.Config.AccountSuffixes)
	if err != nil {
		return nil, err
	}

	chainID := opts.ChainID
	setDefaultVal(&chainID, n.Config.ChainID)
	session := sessionID(chainID, opts.TestSeed, opts.AccountID)
	logger := n.Logger.With("session", session)

	// Refuse to touch a fixture a live node is using
	if pid := livePid(n.Home); pid != 0 {
		return nil, errors.FixtureLocked.WithFormat(
			"a node is running against %s (pid %d); stop it before reinitializing", n.Home, pid)
	}

	// If the home did not exist before, do not leave a partial one behind
	var created bool
	defer func() {
		if err != nil && created {
			_ = os.RemoveAll(n.Home)
		}
	}()

	if opts.Reset {
		err = removeFixture(n.Home)
		if err != nil {
			return nil, err
		}
	}

	created, err = n.prepareHome()
	if err != nil {
		return nil, err
	}

	args, err := initArgs(n.Home, chainID, &opts, n.Config)
	if err != nil {
		return nil, err
	}

	logger.Info("Bootstrapping node", "binary", n.Config.Binary, "account", opts.AccountID, "chain", chainID)
	out, err := n.Runner.Run(ctx, &Command{Path: n.Config.Binary, Args: args, Dir: n.Home})
	if err != nil {
		return nil, errors.ProcessFailure.WithFormat("run %s init: %w", n.Config.Binary, err)
	}
	if out.ExitCode != 0 {
		e := errors.ProcessFailure.WithFormat("%s init exited with code %d: %s",
			n.Config.Binary, out.ExitCode, strings.TrimSpace(string(out.Stderr)))
		e.ExitCode = int64(out.ExitCode)
		return nil, e
	}

	f := &FixtureState{Home: n.Home, ChainID: chainID, AccountID: opts.AccountID, Session: session}
	if missing := f.Missing(); len(missing) > 0 {
		return nil, errors.ProcessFailure.WithFormat(
			"%s init reported success but the fixture is incomplete: missing %s",
			n.Config.Binary, strings.Join(missing, ", "))
	}

	n.journal(&JournalEntry{Event: EventInitialized, Session: session, Account: opts.AccountID})
	logger.Info("Node initialized", "home", n.Home)
	return f, nil
}

// Reset deletes the fixture and the node's data directory. It refuses
// while a node is live. The session journal survives.
func (n *Node) Reset() error {
	if pid := livePid(n.Home); pid != 0 {
		return errors.FixtureLocked.WithFormat(
			"a node is running against %s (pid %d); stop it before resetting", n.Home, pid)
	}

	err := removeFixture(n.Home)
	if err != nil {
		return err
	}
	n.Logger.Info("Fixture removed", "home", n.Home)
	return nil
}

// prepareHome ensures the home directory exists, is writable, and has
// room. It reports whether it created the directory.
func (n *Node) prepareHome() (created bool, err error) {
	_, err = os.Stat(n.Home)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist):
		err = os.MkdirAll(n.Home, 0700)
		if err != nil {
			return false, errors.WriteFailure.WithFormat("create %s: %w", n.Home, err)
		}
		created = true
	default:
		return false, errors.WriteFailure.Wrap(err)
	}

	// Probe that the directory is actually writable
	probe, err := os.CreateTemp(n.Home, ".probe-*")
	if err != nil {
		return created, errors.WriteFailure.WithFormat("%s is not writable: %w", n.Home, err)
	}
	_ = probe.Close()
	_ = os.Remove(probe.Name())

	free, freeBytes, err := diskUsage(n.Home)
	if err != nil {
		return created, errors.WriteFailure.WithFormat("check disk space: %w", err)
	}
	if free < minDiskSpace {
		return created, errors.WriteFailure.WithFormat("disk is full: %s free", humanize.IBytes(freeBytes))
	}
	n.Logger.Debug("Disk usage", "free", humanize.IBytes(freeBytes))

	return created, nil
}

func initArgs(home, chainID string, opts *InitOptions, cfg *Config) ([]string, error) {
	args := []string{
		"init",
		"--home", home,
		"--chain-id", chainID,
		"--test-seed", opts.TestSeed,
		"--account-id", opts.AccountID,
	}
	extra, err := splitArgs(cfg.ExtraInitArgs)
	if err != nil {
		return nil, err
	}
	args = append(args, extra...)
	return append(args, opts.ExtraArgs...), nil
}

// sessionID derives a stable identifier from the bootstrap inputs. Equal
// inputs yield equal sessions.
func sessionID(chainID, seed, account string) string {
	return uuid.NewSHA1(uuid.Nil, []byte(chainID+"\x00"+seed+"\x00"+account)).String()
}
