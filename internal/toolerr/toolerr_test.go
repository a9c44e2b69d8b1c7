// Copyright 2026 The VibeCraft Authors
// SPDX-License-Identifier: Apache-2.0

package toolerr

import (
	"errors"
	"testing"
)

func TestCategoryConstructors(t *testing.T) {
	cases := []struct {
		name string
		err  *Error
		want Category
	}{
		{"validation", ValidationError("bad arg: %s", "x"), Validation},
		{"not_found", NotFoundError("missing %s", "pattern"), NotFound},
		{"forbidden", ForbiddenError("outside box"), Forbidden},
		{"conflict", ConflictError("busy"), Conflict},
		{"transient", TransientError("timeout"), Transient},
		{"internal", InternalError("bug"), Internal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Category != tc.want {
				t.Fatalf("category = %s, want %s", tc.err.Category, tc.want)
			}
			if tc.err.Error() == "" {
				t.Fatal("expected non-empty error message")
			}
		})
	}
}

func TestRetryable(t *testing.T) {
	if !TransientError("timeout").Retryable() {
		t.Fatal("transient errors should be retryable")
	}
	if ValidationError("bad").Retryable() {
		t.Fatal("validation errors should not be retryable")
	}
}

func TestUnwrap(t *testing.T) {
	inner := errors.New("boom")
	wrapped := &Error{Category: Internal, Err: inner}
	if !errors.Is(wrapped, inner) {
		t.Fatal("expected errors.Is to see through the wrapper")
	}
}
