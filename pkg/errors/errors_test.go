// Copyright 2025 The Localnet Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package errors

import (
	stderr "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMatchesCode(t *testing.T) {
	err := InvalidAccount.WithFormat("account %q is not well formed", "Bob")
	require.Error(t, err)
	assert.True(t, Is(err, InvalidAccount))
	assert.False(t, Is(err, InvalidSeed))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := WriteFailure.With("disk full")
	err := ProcessFailure.Wrap(cause)
	assert.True(t, Is(err, ProcessFailure))
	assert.True(t, Is(err, WriteFailure))
	assert.Equal(t, ProcessFailure, Code(err))
}

func TestWrapNil(t *testing.T) {
	require.NoError(t, UnknownError.Wrap(nil))
}

func TestWrapForeignError(t *testing.T) {
	err := StartFailure.Wrap(stderr.New("exec: not found"))
	assert.True(t, Is(err, StartFailure))
	assert.Contains(t, err.Error(), "not found")
}

func TestWithFormatWrapsVerb(t *testing.T) {
	cause := stderr.New("boom")
	err := ProcessFailure.WithFormat("init failed: %w", cause)
	assert.True(t, Is(err, ProcessFailure))
	assert.Equal(t, "init failed: boom", err.Error())
}

func TestExitCode(t *testing.T) {
	inner := ExitedNonZero.WithFormat("node exited with code %d", 3)
	inner.ExitCode = 3
	err := ProcessFailure.Wrap(inner)

	code, ok := ExitCode(err)
	require.True(t, ok)
	assert.Equal(t, 3, code)

	_, ok = ExitCode(BadRequest.With("nope"))
	assert.False(t, ok)
}

func TestCodeSkipsUnknown(t *testing.T) {
	err := UnknownError.Wrap(FixtureLocked.With("node is running"))
	assert.Equal(t, FixtureLocked, Code(err))
}

func TestPrintIncludesCallStack(t *testing.T) {
	err := InternalError.With("bad state")
	require.NotEmpty(t, err.CallStack)
	assert.Contains(t, err.Print(), "errors_test.go")
	assert.Contains(t, fmt.Sprintf("%+v", err), "bad state")
}

func TestStatusJSONRoundTrip(t *testing.T) {
	for _, s := range []Status{OK, InvalidSeed, FixtureLocked, ExitedNonZero} {
		b, err := s.MarshalJSON()
		require.NoError(t, err)
		var got Status
		require.NoError(t, got.UnmarshalJSON(b))
		assert.Equal(t, s, got)
	}
}
