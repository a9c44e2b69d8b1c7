// Copyright 2026 The VibeCraft Authors
// SPDX-License-Identifier: Apache-2.0

// Package obslog constructs the process-wide structured logger.
//
// VibeCraft's stdio MCP transport reserves stdout for the JSON-RPC
// protocol, so every log line goes to stderr regardless of handler.
// When stderr is a terminal (interactive debugging, "vibecraft
// status"), logs use slog.TextHandler for readability. Otherwise
// (piped into a supervisor, redirected to a file) logs use
// slog.JSONHandler so they compose with whatever log pipeline hosts
// the process.
package obslog

import (
	"log/slog"
	"os"

	"golang.org/x/term"
)

// New creates a logger at the given level. Callers scope it with
// With("component", "...") rather than mutating global state.
func New(level slog.Level) *slog.Logger {
	options := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if term.IsTerminal(int(os.Stderr.Fd())) {
		handler = slog.NewTextHandler(os.Stderr, options)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, options)
	}
	return slog.New(handler)
}
