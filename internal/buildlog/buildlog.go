// Copyright 2026 The VibeCraft Authors
// SPDX-License-Identifier: Apache-2.0

// Package buildlog appends a zstd-compressed, newline-delimited JSON
// record of every dispatched command to an on-disk audit log, when
// Config.CommandLogging is enabled.
//
// The zstd streaming writer setup (one encoder per Log, reused
// across writes rather than constructed per call) follows the
// teacher's lib/artifactstore/compress.go pattern, adapted from a
// one-shot EncodeAll buffer compressor to a long-lived
// *zstd.Encoder wrapping an append-mode file handle, since a build
// log is written incrementally over the life of the process rather
// than compressed once in memory. Each record's integrity digest
// uses the teacher's lib/artifact/hash.go keyed-BLAKE3 domain
// separation technique, with a log-specific domain key, so a
// truncated or corrupted log entry is detectable without needing a
// second file to carry checksums.
package buildlog

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/blake3"
)

// entryDomainKey separates build-log entry digests from any other
// BLAKE3 keyed hash VibeCraft might compute, so the same bytes never
// collide across domains.
var entryDomainKey = [32]byte{
	'v', 'i', 'b', 'e', 'c', 'r', 'a', 'f', 't', '.', 'b', 'u', 'i', 'l', 'd', 'l',
	'o', 'g', '.', 'e', 'n', 't', 'r', 'y', 0, 0, 0, 0, 0, 0, 0, 0,
}

// Entry is one logged command outcome.
type Entry struct {
	Time    time.Time `json:"time"`
	Command string    `json:"command"`
	Status  string    `json:"status"`
	Detail  string    `json:"detail,omitempty"`
	Digest  string    `json:"digest"`
}

// Log is an append-only, zstd-compressed command log. A nil *Log is
// valid and every method on it is a no-op, so callers with
// CommandLogging disabled can hold a nil Log instead of branching at
// every call site.
type Log struct {
	mu      sync.Mutex
	file    *os.File
	encoder *zstd.Encoder
}

// Open creates or appends to the zstd-compressed log file at path.
// Passing an empty path returns a nil, no-op Log.
func Open(path string) (*Log, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("buildlog: open %s: %w", path, err)
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("buildlog: zstd writer: %w", err)
	}
	return &Log{file: f, encoder: enc}, nil
}

// Append writes one command outcome, stamped with its integrity
// digest, as a single compressed JSON line.
func (l *Log) Append(command, status, detail string, at time.Time) error {
	if l == nil {
		return nil
	}
	entry := Entry{Time: at, Command: command, Status: status, Detail: detail}
	entry.Digest = hex.EncodeToString(digest(entry))

	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("buildlog: marshal entry: %w", err)
	}
	line = append(line, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.encoder.Write(line); err != nil {
		return fmt.Errorf("buildlog: write: %w", err)
	}
	return l.encoder.Flush()
}

// Close flushes and closes the underlying file.
func (l *Log) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.encoder.Close(); err != nil {
		l.file.Close()
		return fmt.Errorf("buildlog: close encoder: %w", err)
	}
	return l.file.Close()
}

// digest computes the entry-domain keyed BLAKE3 hash of everything
// except the Digest field itself, so a later reader can recompute it
// and detect a bit flip or truncated write.
func digest(e Entry) []byte {
	e.Digest = ""
	canonical, _ := json.Marshal(e)
	hasher, err := blake3.NewKeyed(entryDomainKey[:])
	if err != nil {
		panic("buildlog: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(canonical)
	return hasher.Sum(nil)
}
