// Copyright 2026 The VibeCraft Authors
// SPDX-License-Identifier: Apache-2.0

package script

import (
	"strings"
	"testing"
	"time"
)

func run(t *testing.T, source string) []string {
	t.Helper()
	out, err := Run(source, "commands", DefaultQuotas)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out
}

func TestRunSimpleLoop(t *testing.T) {
	src := `
commands = []
for i in range(3):
    commands.append("setblock {} 64 0 stone".format(i))
`
	out := run(t, src)
	want := []string{"setblock 0 64 0 stone", "setblock 1 64 0 stone", "setblock 2 64 0 stone"}
	if len(out) != len(want) {
		t.Fatalf("got %v, want %v", out, want)
	}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("index %d: got %q want %q", i, out[i], want[i])
		}
	}
}

func TestRunIfElifElse(t *testing.T) {
	src := `
commands = []
for i in range(4):
    if i == 0:
        commands.append("zero")
    elif i == 1:
        commands.append("one")
    else:
        commands.append("other")
`
	out := run(t, src)
	want := []string{"zero", "one", "other", "other"}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("index %d: got %q want %q", i, out[i], want[i])
		}
	}
}

func TestRunBreakAndContinue(t *testing.T) {
	src := `
commands = []
for i in range(10):
    if i == 5:
        break
    if i % 2 == 0:
        continue
    commands.append(str(i))
`
	out := run(t, src)
	want := []string{"1", "3"}
	if strings.Join(out, ",") != strings.Join(want, ",") {
		t.Fatalf("got %v, want %v", out, want)
	}
}

func TestRunMathBuiltins(t *testing.T) {
	src := `
commands = []
commands.append(str(sqrt(16)))
commands.append(str(floor(3.7)))
commands.append(str(abs(-5)))
`
	out := run(t, src)
	want := []string{"4", "3", "5"}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("index %d: got %q want %q", i, out[i], want[i])
		}
	}
}

func TestValidateRejectsUnknownCall(t *testing.T) {
	src := `
commands = []
commands.append(eval("1"))
`
	_, err := Run(src, "commands", DefaultQuotas)
	if err == nil {
		t.Fatal("expected rejection of disallowed call")
	}
}

func TestValidateRejectsDunderName(t *testing.T) {
	src := `
__class__ = 1
commands = []
`
	_, err := Run(src, "commands", DefaultQuotas)
	if err == nil {
		t.Fatal("expected rejection of dunder-like name")
	}
}

func TestRunMissingOutputIsError(t *testing.T) {
	src := `x = 1`
	_, err := Run(src, "commands", DefaultQuotas)
	if err == nil {
		t.Fatal("expected error when output name is not bound")
	}
}

func TestRunOutputMustBeStringList(t *testing.T) {
	src := `commands = [1, 2, 3]`
	_, err := Run(src, "commands", DefaultQuotas)
	if err == nil {
		t.Fatal("expected error when output list contains non-strings")
	}
}

func TestRunEnforcesIterationQuota(t *testing.T) {
	src := `
commands = []
for i in range(1000):
    for j in range(1000):
        commands.append("x")
`
	_, err := Run(src, "commands", Quotas{MaxIterations: 100, MaxCommands: 100000, MaxDuration: 5 * time.Second})
	if err == nil {
		t.Fatal("expected iteration quota error")
	}
}

func TestRunRejectsBareRangeExceedingIterationQuota(t *testing.T) {
	src := `
commands = []
huge = range(1000000000000)
commands.append("x")
`
	_, err := Run(src, "commands", Quotas{MaxIterations: 100, MaxCommands: 100000, MaxDuration: 5 * time.Second})
	if err == nil {
		t.Fatal("expected a bare oversized range() call to be rejected before it builds its backing list")
	}
}

func TestRunEnforcesCommandQuota(t *testing.T) {
	src := `
commands = []
for i in range(100):
    commands.append("x")
`
	_, err := Run(src, "commands", Quotas{MaxIterations: 100000, MaxCommands: 10, MaxDuration: 5 * time.Second})
	if err == nil {
		t.Fatal("expected command quota error")
	}
}

func TestRunListAddition(t *testing.T) {
	src := `
a = ["x", "y"]
b = ["z"]
commands = a + b
`
	out := run(t, src)
	if strings.Join(out, ",") != "x,y,z" {
		t.Fatalf("got %v", out)
	}
}

func TestRunAugmentedAssign(t *testing.T) {
	src := `
commands = []
commands += ["a", "b"]
`
	out := run(t, src)
	if strings.Join(out, ",") != "a,b" {
		t.Fatalf("got %v", out)
	}
}
