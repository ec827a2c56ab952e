// Copyright 2025 The Localnet Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package node

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gitlab.com/nearlocal/localnetd/pkg/errors"
)

func TestValidateAccountID(t *testing.T) {
	good := []string{
		"alice.near",
		"test.near",
		"sub.alice.near",
		"a-b_c.test",
		"0x4f.near",
		"99.test",
	}
	for _, id := range good {
		require.NoError(t, ValidateAccountID(id, DefaultAccountSuffixes), id)
	}

	bad := []string{
		"",
		"a",
		strings.Repeat("a", 63) + ".near",
		"Alice.near",
		"alice..near",
		".near",
		"alice_.near",
		"-alice.near",
		"alice near",
		"alice@near",
		"near",
		"alice.com",
	}
	for _, id := range bad {
		err := ValidateAccountID(id, DefaultAccountSuffixes)
		require.Error(t, err, id)
		require.ErrorIs(t, err, errors.InvalidAccount, id)
	}
}

func TestValidateAccountIDAnyNamespace(t *testing.T) {
	// With no configured suffixes any well-formed namespace is accepted
	require.NoError(t, ValidateAccountID("alice.anything", nil))
	require.ErrorIs(t, ValidateAccountID("Alice.anything", nil), errors.InvalidAccount)
}

func TestValidateSeed(t *testing.T) {
	require.NoError(t, ValidateSeed("alice.near"))
	require.NoError(t, ValidateSeed("a seed with spaces"))

	require.ErrorIs(t, ValidateSeed(""), errors.InvalidSeed)
	require.ErrorIs(t, ValidateSeed("with\nnewline"), errors.InvalidSeed)
	require.ErrorIs(t, ValidateSeed("with\x00nul"), errors.InvalidSeed)
}
