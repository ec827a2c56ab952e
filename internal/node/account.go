// Copyright 2025 The Localnet Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package node

import (
	"regexp"
	"strings"

	"gitlab.com/nearlocal/localnetd/pkg/errors"
	"golang.org/x/exp/slices"
)

// Account ids are lowercase alphanumeric segments joined by separators,
// matching the rules the node itself enforces.
const (
	MinAccountIDLen = 2
	MaxAccountIDLen = 64
)

var reAccountID = regexp.MustCompile(`^(([a-z\d]+[-_])*[a-z\d]+\.)*([a-z\d]+[-_])*[a-z\d]+$`)

// ValidateAccountID checks an account id locally, before anything touches
// the disk or the node binary. Suffixes restrict the account to the given
// namespaces; an empty list accepts any namespace.
func ValidateAccountID(id string, suffixes []string) error {
	if len(id) < MinAccountIDLen || len(id) > MaxAccountIDLen {
		return errors.InvalidAccount.WithFormat(
			"account id must be %d to %d characters, got %d", MinAccountIDLen, MaxAccountIDLen, len(id))
	}
	if !reAccountID.MatchString(id) {
		return errors.InvalidAccount.WithFormat("%q is not a well-formed account id", id)
	}
	if len(suffixes) == 0 {
		return nil
	}
	ok := slices.ContainsFunc(suffixes, func(s string) bool {
		return strings.HasSuffix(id, s) && id != strings.TrimPrefix(s, ".")
	})
	if !ok {
		return errors.InvalidAccount.WithFormat(
			"%q does not belong to a recognized namespace (%s)", id, strings.Join(suffixes, ", "))
	}
	return nil
}

// ValidateSeed checks the test seed.
func ValidateSeed(seed string) error {
	if seed == "" {
		return errors.InvalidSeed.With("test seed must not be empty")
	}
	if strings.ContainsAny(seed, "\x00\n") {
		return errors.InvalidSeed.With("test seed must not contain control characters")
	}
	return nil
}
