// Copyright 2025 The Localnet Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package node

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// JournalFile is an append-only JSON-lines record of lifecycle events,
// kept for debugging test sessions. Journal failures never fail the
// operation being journaled.
const JournalFile = "sessions.jsonl"

// Journal events.
const (
	EventInitialized = "initialized"
	EventStarted     = "started"
	EventExited      = "exited"
)

// JournalEntry is one lifecycle event.
type JournalEntry struct {
	Time     time.Time `json:"time"`
	Event    string    `json:"event"`
	Session  string    `json:"session,omitempty"`
	Account  string    `json:"account,omitempty"`
	PID      int       `json:"pid,omitempty"`
	ExitCode *int      `json:"exitCode,omitempty"`
}

func appendJournal(home string, e *JournalEntry) error {
	if e.Time.IsZero() {
		e.Time = time.Now().UTC()
	}
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(filepath.Join(home, JournalFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	_, err = f.Write(append(b, '\n'))
	return err
}

// lastJournalEntry returns the most recent event, or nil.
func lastJournalEntry(home string) *JournalEntry {
	f, err := os.Open(filepath.Join(home, JournalFile))
	if err != nil {
		return nil
	}
	defer func() { _ = f.Close() }()

	var last *JournalEntry
	s := bufio.NewScanner(f)
	for s.Scan() {
		line := s.Bytes()
		if len(line) == 0 {
			continue
		}
		e := new(JournalEntry)
		if json.Unmarshal(line, e) == nil {
			last = e
		}
	}
	return last
}

// journal records a lifecycle event, logging and swallowing failures.
func (n *Node) journal(e *JournalEntry) {
	err := appendJournal(n.Home, e)
	if err != nil {
		n.Logger.Warn("Failed to record session event", "event", e.Event, "error", err)
	}
}
