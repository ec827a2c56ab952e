// Copyright 2025 The Localnet Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/user"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gitlab.com/nearlocal/localnetd/internal/logging"
	"gitlab.com/nearlocal/localnetd/internal/node"
	"gitlab.com/nearlocal/localnetd/pkg/errors"
	"golang.org/x/term"
)

var currentUser = func() *user.User {
	usr, err := user.Current()
	if err != nil {
		log.Fatal(err)
	}
	return usr
}()

var defaultWorkDir = filepath.Join(currentUser.HomeDir, ".localnet")

var cmdMain = &cobra.Command{
	Use:   "localnetd",
	Short: "Localnet node harness",
	Run:   printUsageAndExit1,
}

var flagMain struct {
	WorkDir   string
	LogFormat string
}

func init() {
	cmdMain.PersistentFlags().StringVarP(&flagMain.WorkDir, "work-dir", "w", defaultWorkDir, "Working directory for the node fixture and configuration")
	cmdMain.PersistentFlags().StringVar(&flagMain.LogFormat, "log-format", logging.FormatPlain, "Log format, plain or json")

	// Accents go to stderr, which the color package does not itself check
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		color.NoColor = true
	}
	if os.Getenv("FORCE_COLOR") != "" {
		color.NoColor = false
	}
}

func main() {
	cmdMain.Execute()
}

// setup loads the work dir's configuration and installs the logger.
// Verbose adds a debug-level default rule on top of the configured rules.
func setup(cmd *cobra.Command, verbose bool) *node.Config {
	cfg, err := node.LoadConfig(flagMain.WorkDir)
	checkf(err, "load configuration")

	var opts logging.Options
	if l := cfg.Logging; l != nil {
		opts.Format = l.Format
		for _, r := range l.Rules {
			level, err := logging.ParseLevel(r.Level)
			checkf(err, "configuration: logging")
			opts.Rules = append(opts.Rules, logging.Rule{Level: level, Module: r.Module})
		}
	}
	if opts.Format == "" || cmd.Flags().Changed("log-format") {
		opts.Format = flagMain.LogFormat
	}
	if verbose {
		// Last rule wins for the default level
		opts.Rules = append(opts.Rules, logging.Rule{Level: slog.LevelDebug})
	}
	opts.NoColor = color.NoColor

	logger, err := logging.New(opts)
	check(err)
	slog.SetDefault(logger)
	return cfg
}

func printUsageAndExit1(cmd *cobra.Command, args []string) {
	_ = cmd.Usage()
	os.Exit(1)
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func check(err error) {
	if err != nil {
		fatalf("%v", err)
	}
}

func checkf(err error, format string, otherArgs ...interface{}) {
	if err != nil {
		fatalf(format+": %v", append(otherArgs, err)...)
	}
}

// checkNode is check for node lifecycle errors: when the error carries
// the child's exit code, the harness exits with that code.
func checkNode(err error) {
	if err == nil {
		return
	}
	if code, ok := errors.ExitCode(err); ok {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(code)
	}
	fatalf("%v", err)
}
