// Copyright 2025 The Localnet Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/nearlocal/localnetd/pkg/errors"
)

// Log output formats.
const (
	FormatPlain = "plain"
	FormatJSON  = "json"
)

// Options configures a harness logger.
type Options struct {
	// Format is the output format, [FormatPlain] or [FormatJSON].
	Format string

	// Rules set per-module levels. A rule with an empty module sets the
	// default level.
	Rules []Rule

	// NoColor disables color in plain output.
	NoColor bool

	// Writer is the output. Defaults to stderr.
	Writer io.Writer
}

// Rule sets the log level for a module.
type Rule struct {
	Level  slog.Level
	Module string
}

// ParseLevel parses a level name such as "debug" or "warn".
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, errors.BadRequest.WithFormat("%q is not a valid log level", s)
	}
	return l, nil
}

// New builds a logger from the options. Records are filtered per-module by
// the rule set, then handed to a JSON handler. In plain format the JSON is
// piped through zerolog's console writer to produce pretty logs.
func New(opts Options) (*slog.Logger, error) {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	defaultLevel := slog.LevelInfo
	lowestLevel := defaultLevel
	modules := map[string]slog.Level{}
	for _, r := range opts.Rules {
		if r.Module == "" {
			defaultLevel = r.Level
		} else {
			modules[strings.ToLower(r.Module)] = r.Level
		}
		if r.Level < lowestLevel {
			lowestLevel = r.Level
		}
	}

	hopts := &slog.HandlerOptions{
		Level: lowestLevel,
	}

	var h slog.Handler
	switch opts.Format {
	case "", FormatPlain, "text":
		// The console writer wants zerolog's field names
		hopts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
			if a.Key != slog.MessageKey {
				return a
			}
			if a.Value.Kind() == slog.KindString {
				return slog.Any("message", a.Value)
			}
			return slog.String("message", fmt.Sprint(a.Value.Any()))
		}
		h = slog.NewJSONHandler(&zerolog.ConsoleWriter{
			Out:        w,
			NoColor:    opts.NoColor,
			TimeFormat: time.RFC3339,
			FormatLevel: func(i interface{}) string {
				if ll, ok := i.(string); ok {
					return strings.ToUpper(ll)
				}
				return "????"
			},
			FormatMessage: func(i interface{}) string {
				s, ok := i.(string)
				if ok {
					return s
				}
				return fmt.Sprint(i)
			},
		}, hopts)
	case FormatJSON:
		h = slog.NewJSONHandler(w, hopts)
	default:
		return nil, errors.BadRequest.WithFormat("log format %q is not supported", opts.Format)
	}

	return slog.New(&handler{
		handler:      h,
		defaultLevel: defaultLevel,
		lowestLevel:  lowestLevel,
		modules:      modules,
	}), nil
}

// handler filters records per-module before delegating.
type handler struct {
	handler      slog.Handler
	defaultLevel slog.Level
	lowestLevel  slog.Level
	modules      map[string]slog.Level
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	i := *h
	i.handler = h.handler.WithAttrs(attrs)
	i.lowestLevel = h.levelForAttrs(i.lowestLevel, attrs)
	i.defaultLevel = h.levelForAttrs(i.defaultLevel, attrs)
	return &i
}

func (h *handler) WithGroup(name string) slog.Handler {
	i := *h
	i.handler = h.handler.WithGroup(name)
	return &i
}

func (h *handler) Enabled(ctx context.Context, level slog.Level) bool {
	if level < h.lowestLevel {
		return false
	}
	if level < h.levelForAttrs(slog.LevelDebug, Attrs(ctx)) {
		return false
	}
	return h.handler.Enabled(ctx, level)
}

func (h *handler) Handle(ctx context.Context, record slog.Record) error {
	if record.Level < h.levelFor(h.defaultLevel, record.Attrs) {
		return nil
	}
	return h.handler.Handle(ctx, record)
}

func (h *handler) levelForAttrs(level slog.Level, attrs []slog.Attr) slog.Level {
	if len(attrs) == 0 {
		return level
	}
	return h.levelFor(level, func(fn func(slog.Attr) bool) {
		for _, a := range attrs {
			if !fn(a) {
				return
			}
		}
	})
}

func (h *handler) levelFor(level slog.Level, fn func(func(slog.Attr) bool)) slog.Level {
	fn(func(a slog.Attr) bool {
		if a.Key != "module" {
			return true
		}
		if l, ok := h.modules[strings.ToLower(a.Value.String())]; ok {
			level = l
		}
		return false
	})
	return level
}
