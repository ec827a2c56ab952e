// Copyright 2025 The Localnet Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package logging

import (
	"io"
	"log/slog"
	"strings"
	"testing"
)

// TestWriter forwards log output to the test log.
type TestWriter struct {
	Test testing.TB
}

var _ io.Writer = (*TestWriter)(nil)

func (w *TestWriter) Write(b []byte) (int, error) {
	w.Test.Helper()
	w.Test.Log(strings.TrimSuffix(string(b), "\n"))
	return len(b), nil
}

// NewTestLogger returns a debug-level plain logger that writes to the test
// log.
func NewTestLogger(t testing.TB) *slog.Logger {
	l, err := New(Options{
		Format:  FormatPlain,
		Rules:   []Rule{{Level: slog.LevelDebug}},
		NoColor: true,
		Writer:  &TestWriter{Test: t},
	})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	return l
}
