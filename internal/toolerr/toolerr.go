// Copyright 2026 The VibeCraft Authors
// SPDX-License-Identifier: Apache-2.0

// Package toolerr provides categorized errors for VibeCraft's tool
// handlers. The MCP dispatch layer inspects the category to build the
// errorInfo protocol extension on tool-call failures, without parsing
// error message text.
package toolerr

import "fmt"

// Category classifies an error so that MCP clients can make
// programmatic decisions (retry, fix input, escalate).
type Category string

const (
	// Validation indicates the caller provided invalid input: a
	// malformed schematic, a rejected command, bad tool arguments.
	// The caller should fix the input and retry.
	Validation Category = "validation"

	// NotFound indicates a referenced resource does not exist: an
	// unknown catalog pattern, furniture layout, or template id.
	NotFound Category = "not_found"

	// Forbidden indicates the operation is not permitted by policy:
	// a command_execute command outside the build bounding box or with
	// a denylisted verb, a large-region command under WorldEdit mode
	// off, or under auto mode when WorldEdit is unavailable and no
	// vanilla fallback applies, or a failed Bridge authentication.
	Forbidden Category = "forbidden"

	// Conflict indicates the operation conflicts with current state.
	// No tool handler or Bridge call returns it.
	Conflict Category = "conflict"

	// Transient indicates a temporary failure: bridge disconnected,
	// request timed out, request cancelled. The caller should back
	// off and retry.
	Transient Category = "transient"

	// Internal indicates an unexpected failure: a bug, an I/O error,
	// or a peer response that doesn't parse.
	Internal Category = "internal"
)

// Error is a categorized error. It wraps an inner error, preserving
// the chain for debugging while adding category metadata for the MCP
// layer. Use the category constructors below rather than constructing
// Error directly.
type Error struct {
	Category Category
	Err      error
}

// Error returns the underlying message. The category travels
// separately via the MCP errorInfo field, not in the text.
func (e *Error) Error() string { return e.Err.Error() }

// Unwrap allows errors.Is/errors.As to walk through the wrapper.
func (e *Error) Unwrap() error { return e.Err }

func ValidationError(format string, args ...any) *Error {
	return &Error{Category: Validation, Err: fmt.Errorf(format, args...)}
}

func NotFoundError(format string, args ...any) *Error {
	return &Error{Category: NotFound, Err: fmt.Errorf(format, args...)}
}

func ForbiddenError(format string, args ...any) *Error {
	return &Error{Category: Forbidden, Err: fmt.Errorf(format, args...)}
}

func ConflictError(format string, args ...any) *Error {
	return &Error{Category: Conflict, Err: fmt.Errorf(format, args...)}
}

func TransientError(format string, args ...any) *Error {
	return &Error{Category: Transient, Err: fmt.Errorf(format, args...)}
}

func InternalError(format string, args ...any) *Error {
	return &Error{Category: Internal, Err: fmt.Errorf(format, args...)}
}

// Retryable reports whether repeating the call with the same
// arguments might succeed.
func (e *Error) Retryable() bool {
	return e.Category == Transient
}
