// Copyright 2025 The Localnet Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package node

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// PidFile records the pid of a launched node. It is the guard that keeps
// init, run, and reset from stepping on a live node.
const PidFile = "node.pid"

func writePidFile(home string, pid int) error {
	return os.WriteFile(filepath.Join(home, PidFile), []byte(strconv.Itoa(pid)+"\n"), 0600)
}

func readPidFile(home string) int {
	b, err := os.ReadFile(filepath.Join(home, PidFile))
	if err != nil {
		return 0
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil {
		return 0
	}
	return pid
}

func removePidFile(home string) {
	_ = os.Remove(filepath.Join(home, PidFile))
}

// livePid returns the pid of a live node launched against the home
// directory, or 0. A stale pid file is removed.
func livePid(home string) int {
	pid := readPidFile(home)
	if pid == 0 {
		return 0
	}
	if processAlive(pid) {
		return pid
	}
	removePidFile(home)
	return 0
}
