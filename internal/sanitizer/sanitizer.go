// Copyright 2026 The VibeCraft Authors
// SPDX-License-Identifier: Apache-2.0

// Package sanitizer implements the Command Sanitizer: a pure
// predicate over a command string and the active safety policy. It is
// the single choke point every command-producing path must pass
// through before a command reaches the Client Bridge.
//
// The check order and the denylist are grounded on the restrictions
// the original Python implementation's code_sandbox.py enforces for
// its scripting sandbox, adapted here to a command string rather than
// an AST: reject by structure first (length, syntax), then by
// identity (denylisted verb), then by geometry (bounding box).
package sanitizer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/vibecraft/vibecraft/internal/config"
)

// Result is the outcome of sanitizing a single command.
type Result struct {
	Accepted bool
	Reason   string // populated only when Accepted is false
	Rule     string // short machine-stable identifier for the failed rule
}

// accepted is the shared zero-value success result.
var accepted = Result{Accepted: true}

func rejected(rule, format string, args ...any) Result {
	return Result{Accepted: false, Rule: rule, Reason: fmt.Sprintf(format, args...)}
}

// dangerousVerbs is the closed, documented set of first-token verbs
// rejected unless the policy explicitly allows dangerous operations.
// It covers world regeneration, chunk deletion, the catch-all
// remove-sweep commands, and the administrative verbs that change who
// can run commands at all.
var dangerousVerbs = map[string]struct{}{
	"/regen":        {},
	"//regen":       {},
	"/chunk":        {},
	"/deletechunk":  {},
	"//deletechunk": {},
	"/removeabove":  {},
	"//removeabove": {},
	"/removebelow":  {},
	"//removebelow": {},
	"/removenear":   {},
	"//removenear":  {},
	"/op":           {},
	"/deop":         {},
	"/stop":         {},
}

// shellMetacharacters matches characters that could let a command
// string escape the chat-command grammar if ever interpolated into a
// shell or script context downstream. This is a syntactic filter only
// — it does not attempt to understand command semantics.
var shellMetacharacters = regexp.MustCompile("[`$;|&<>\\\\]")

// tripleVanilla matches "x y z" integer triples (vanilla command
// coordinate syntax); tripleLargeRegion matches "x,y,z" (WorldEdit
// selection syntax).
var (
	tripleVanilla     = regexp.MustCompile(`(-?\d+)\s+(-?\d+)\s+(-?\d+)`)
	tripleLargeRegion = regexp.MustCompile(`(-?\d+),(-?\d+),(-?\d+)`)
)

// Sanitize applies the four ordered checks from the active policy to
// a single command string, short-circuiting on the first failure.
func Sanitize(command string, cfg *config.Config) Result {
	trimmed := strings.TrimSpace(command)

	if r := checkLength(trimmed, cfg.MaxCommandLength); !r.Accepted {
		return r
	}
	if cfg.SafetyChecksOn {
		if r := checkSyntax(trimmed); !r.Accepted {
			return r
		}
	}
	if !cfg.DangerousAllowed {
		if r := checkDenylist(trimmed); !r.Accepted {
			return r
		}
	}
	if cfg.BuildBox != nil {
		if r := checkBoundingBox(trimmed, cfg.BuildBox); !r.Accepted {
			return r
		}
	}
	return accepted
}

func checkLength(trimmed string, max int) Result {
	if len(trimmed) == 0 {
		return rejected("empty_command", "command is empty after trimming")
	}
	if len(trimmed) > max {
		return rejected("command_too_long", "command length %d exceeds max_command_length %d", len(trimmed), max)
	}
	return accepted
}

func checkSyntax(trimmed string) Result {
	if strings.ContainsAny(trimmed, "\n\x00") {
		return rejected("control_characters", "command contains a newline or null byte")
	}
	if !balancedQuotes(trimmed) {
		return rejected("unbalanced_quotes", "command has unbalanced quoting")
	}
	if shellMetacharacters.MatchString(trimmed) {
		return rejected("shell_metacharacter", "command contains a disallowed metacharacter")
	}
	return accepted
}

func balancedQuotes(s string) bool {
	var inSingle, inDouble bool
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\'':
			if !inDouble {
				inSingle = !inSingle
			}
		case '"':
			if !inSingle {
				inDouble = !inDouble
			}
		}
	}
	return !inSingle && !inDouble
}

func checkDenylist(trimmed string) Result {
	firstToken := strings.Fields(trimmed)
	if len(firstToken) == 0 {
		return accepted
	}
	verb := strings.ToLower(firstToken[0])
	if _, blocked := dangerousVerbs[verb]; blocked {
		return rejected("dangerous_operation", "dangerous operation %q is not permitted", verb)
	}
	return accepted
}

func checkBoundingBox(trimmed string, box *config.BuildBox) Result {
	for _, triple := range extractTriples(trimmed) {
		if !box.Contains(triple[0], triple[1], triple[2]) {
			return rejected("outside_build_box", "coordinate (%d, %d, %d) lies outside the configured build box", triple[0], triple[1], triple[2])
		}
	}
	return accepted
}

// extractTriples parses every best-effort integer triple out of a
// command string: every "x,y,z" WorldEdit-style triple first, then
// every whitespace-separated "x y z" run. Unparseable numerics are
// skipped rather than treated as evidence of violation, per policy.
func extractTriples(s string) [][3]int {
	var triples [][3]int
	for _, m := range tripleLargeRegion.FindAllStringSubmatch(s, -1) {
		if t, ok := parseTriple(m[1], m[2], m[3]); ok {
			triples = append(triples, t)
		}
	}
	for _, m := range tripleVanilla.FindAllStringSubmatch(s, -1) {
		if t, ok := parseTriple(m[1], m[2], m[3]); ok {
			triples = append(triples, t)
		}
	}
	return triples
}

func parseTriple(a, b, c string) ([3]int, bool) {
	x, err1 := strconv.Atoi(a)
	y, err2 := strconv.Atoi(b)
	z, err3 := strconv.Atoi(c)
	if err1 != nil || err2 != nil || err3 != nil {
		return [3]int{}, false
	}
	return [3]int{x, y, z}, true
}
