// Copyright 2026 The VibeCraft Authors
// SPDX-License-Identifier: Apache-2.0

package script

import "testing"

func TestLexerIndentation(t *testing.T) {
	src := "if true:\n    x = 1\ny = 2\n"
	tokens, err := NewLexer(src).Tokenize()
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	var kinds []TokenType
	for _, tok := range tokens {
		kinds = append(kinds, tok.Type)
	}
	wantIndent, wantDedent := false, false
	for _, k := range kinds {
		if k == TokenIndent {
			wantIndent = true
		}
		if k == TokenDedent {
			wantDedent = true
		}
	}
	if !wantIndent || !wantDedent {
		t.Fatalf("expected both Indent and Dedent tokens, got %v", kinds)
	}
}

func TestLexerRejectsInconsistentIndent(t *testing.T) {
	src := "if true:\n    x = 1\n  y = 2\n"
	_, err := NewLexer(src).Tokenize()
	if err == nil {
		t.Fatal("expected inconsistent-indentation error")
	}
}

func TestLexerComments(t *testing.T) {
	src := "# a comment\nx = 1 # trailing\n"
	tokens, err := NewLexer(src).Tokenize()
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if len(tokens) == 0 {
		t.Fatal("expected tokens")
	}
}
