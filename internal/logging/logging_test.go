// Copyright 2025 The Localnet Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gitlab.com/nearlocal/localnetd/pkg/errors"
)

func TestJSONLogging(t *testing.T) {
	buf := new(bytes.Buffer)
	logger, err := New(Options{
		Format: FormatJSON,
		Rules:  []Rule{{Level: slog.LevelDebug}},
		Writer: buf,
	})
	require.NoError(t, err)

	logger.Info("node started", "pid", 42)
	out := buf.String()
	require.Contains(t, out, `"level":"INFO"`)
	require.Contains(t, out, `"msg":"node started"`)
	require.Contains(t, out, `"pid":42`)
}

func TestPlainLogging(t *testing.T) {
	buf := new(bytes.Buffer)
	logger, err := New(Options{
		Format:  FormatPlain,
		Rules:   []Rule{{Level: slog.LevelDebug}},
		NoColor: true,
		Writer:  buf,
	})
	require.NoError(t, err)

	logger.Info("node started")
	out := buf.String()
	require.Contains(t, out, "INFO")
	require.Contains(t, out, "node started")
}

func TestModuleRules(t *testing.T) {
	buf := new(bytes.Buffer)
	logger, err := New(Options{
		Format: FormatJSON,
		Rules: []Rule{
			{Level: slog.LevelWarn},
			{Level: slog.LevelDebug, Module: "node"},
		},
		Writer: buf,
	})
	require.NoError(t, err)

	logger.Debug("dropped", "module", "client")
	logger.Debug("kept inline", "module", "node")
	logger.With("module", "node").Debug("kept bound")
	logger.Info("dropped default")
	logger.Warn("kept warn")

	out := buf.String()
	require.NotContains(t, out, "dropped")
	require.Contains(t, out, "kept inline")
	require.Contains(t, out, "kept bound")
	require.Contains(t, out, "kept warn")
	require.Equal(t, 3, strings.Count(out, "\n"))
}

func TestContextAttrs(t *testing.T) {
	buf := new(bytes.Buffer)
	logger, err := New(Options{
		Format: FormatJSON,
		Rules: []Rule{
			{Level: slog.LevelDebug},
			{Level: slog.LevelWarn, Module: "client"},
		},
		Writer: buf,
	})
	require.NoError(t, err)

	ctx := With(context.Background(), "module", "client")
	logger.InfoContext(ctx, "quiet module")
	logger.WarnContext(ctx, "loud enough")

	out := buf.String()
	require.NotContains(t, out, "quiet module")
	require.Contains(t, out, "loud enough")
}

func TestBadFormat(t *testing.T) {
	_, err := New(Options{Format: "xml"})
	require.Error(t, err)
	require.True(t, errors.Is(err, errors.BadRequest))
}
