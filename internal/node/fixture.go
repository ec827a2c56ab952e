// Copyright 2025 The Localnet Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package node

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gitlab.com/nearlocal/localnetd/pkg/errors"
)

// Artifacts written into the node home by init.
const (
	GenesisFile      = "genesis.json"
	NodeConfigFile   = "config.json"
	NodeKeyFile      = "node_key.json"
	ValidatorKeyFile = "validator_key.json"

	// DataDir is created by the node on first run.
	DataDir = "data"
)

// FixtureFiles lists the artifacts a complete fixture must contain.
var FixtureFiles = []string{GenesisFile, NodeConfigFile, NodeKeyFile, ValidatorKeyFile}

// FixtureState describes an initialized node home directory. The files it
// names are created by the node binary's init command and are opaque to
// the harness.
type FixtureState struct {
	// Home is the node home directory.
	Home string `json:"home"`

	// ChainID names the chain the fixture was generated for.
	ChainID string `json:"chainId,omitempty"`

	// AccountID is the validator account the fixture is bound to.
	AccountID string `json:"accountId,omitempty"`

	// Session identifies the bootstrap session. It is a pure function of
	// the seed, account, and chain, so re-initializing with the same
	// inputs yields the same session.
	Session string `json:"session,omitempty"`
}

// Path returns the path of a file within the fixture.
func (f *FixtureState) Path(name ...string) string {
	return filepath.Join(append([]string{f.Home}, name...)...)
}

// Missing returns the fixture files that are absent or empty.
func (f *FixtureState) Missing() []string {
	var missing []string
	for _, name := range FixtureFiles {
		st, err := os.Stat(f.Path(name))
		if err != nil || st.Size() == 0 {
			missing = append(missing, name)
		}
	}
	return missing
}

// Complete returns true if every fixture file is present and non-empty.
func (f *FixtureState) Complete() bool { return len(f.Missing()) == 0 }

// Manifest returns the SHA-256 digest of each fixture file, keyed by file
// name. Two bootstraps from the same seed must produce equal manifests.
func (f *FixtureState) Manifest() (map[string]string, error) {
	m := make(map[string]string, len(FixtureFiles))
	for _, name := range FixtureFiles {
		g, err := os.Open(f.Path(name))
		if err != nil {
			return nil, errors.UnknownError.WithFormat("open %s: %w", name, err)
		}

		h := sha256.New()
		_, err = io.Copy(h, g)
		_ = g.Close()
		if err != nil {
			return nil, errors.UnknownError.WithFormat("read %s: %w", name, err)
		}

		m[name] = hex.EncodeToString(h.Sum(nil))
	}
	return m, nil
}

// fixtureAt returns the fixture state recorded at the home directory, or
// nil if the directory is not initialized.
func fixtureAt(home string) *FixtureState {
	f := &FixtureState{Home: home}
	if _, err := os.Stat(home); err != nil {
		return nil
	}
	if len(f.Missing()) == len(FixtureFiles) {
		return nil
	}
	return f
}

// removeFixture deletes the fixture artifacts and the node's data
// directory, leaving the harness's own files in place.
func removeFixture(home string) error {
	var errs []error
	for _, name := range FixtureFiles {
		err := os.Remove(filepath.Join(home, name))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	err := os.RemoveAll(filepath.Join(home, DataDir))
	if err != nil {
		errs = append(errs, err)
	}
	return errors.WriteFailure.Wrap(errors.Join(errs...))
}
