// Copyright 2026 The VibeCraft Authors
// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/vibecraft/vibecraft/internal/catalog"
	"github.com/vibecraft/vibecraft/internal/config"
	"github.com/vibecraft/vibecraft/internal/toolerr"
)

func testDeps(t *testing.T) *Deps {
	t.Helper()
	cat, err := catalog.Load("")
	if err != nil {
		t.Fatalf("catalog.Load: %v", err)
	}
	cfg := &config.Config{
		MaxCommandLength: 256,
		SafetyChecksOn:   true,
	}
	return &Deps{Catalog: cat, Config: cfg}
}

func raw(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

func TestRegistryListsAllSixteenTools(t *testing.T) {
	r := NewRegistry(testDeps(t))
	names := r.Names()
	if len(names) != 16 {
		t.Fatalf("expected 16 registered tools, got %d: %v", len(names), names)
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("expected sorted names, got %v", names)
		}
	}
	for _, name := range []string{"command_execute", "build", "validate_mask", "pattern_lookup"} {
		if _, ok := r.Schema(name); !ok {
			t.Fatalf("expected a schema for %q", name)
		}
	}
}

func TestCallUnknownToolIsNotFound(t *testing.T) {
	r := NewRegistry(testDeps(t))
	_, err := r.Call(context.Background(), "no_such_tool", nil)
	var terr *toolerr.Error
	if !errors.As(err, &terr) || terr.Category != toolerr.NotFound {
		t.Fatalf("expected a not_found error, got %v", err)
	}
}

func TestCommandExecuteRejectsDangerousVerb(t *testing.T) {
	r := NewRegistry(testDeps(t))
	_, err := r.Call(context.Background(), "command_execute", raw(t, map[string]string{"command": "/stop"}))
	var terr *toolerr.Error
	if !errors.As(err, &terr) || terr.Category != toolerr.Forbidden {
		t.Fatalf("expected a forbidden error for a denylisted verb, got %v", err)
	}
}

func TestCommandExecuteRequiresCommand(t *testing.T) {
	r := NewRegistry(testDeps(t))
	_, err := r.Call(context.Background(), "command_execute", raw(t, map[string]string{}))
	var terr *toolerr.Error
	if !errors.As(err, &terr) || terr.Category != toolerr.Validation {
		t.Fatalf("expected a validation error for a missing command, got %v", err)
	}
}

func TestPatternLookupFindsEmbeddedEntry(t *testing.T) {
	r := NewRegistry(testDeps(t))
	result, err := r.Call(context.Background(), "pattern_lookup", raw(t, map[string]string{"id": "checkerboard"}))
	if err != nil {
		t.Fatalf("pattern_lookup: %v", err)
	}
	if result == nil {
		t.Fatal("expected a non-nil pattern entry")
	}
}

func TestPatternLookupMissingIsNotFound(t *testing.T) {
	r := NewRegistry(testDeps(t))
	_, err := r.Call(context.Background(), "pattern_lookup", raw(t, map[string]string{"id": "does_not_exist"}))
	var terr *toolerr.Error
	if !errors.As(err, &terr) || terr.Category != toolerr.NotFound {
		t.Fatalf("expected a not_found error, got %v", err)
	}
}

func TestTemplateLookupReturnsShapeSchematic(t *testing.T) {
	r := NewRegistry(testDeps(t))
	_, err := r.Call(context.Background(), "template_lookup", raw(t, map[string]string{"id": "small_tower"}))
	if err != nil {
		t.Fatalf("template_lookup: %v", err)
	}
}

func TestValidateMaskExplainsEachTerm(t *testing.T) {
	r := NewRegistry(testDeps(t))
	result, err := r.Call(context.Background(), "validate_mask", raw(t, map[string]string{"mask": "#stone,!air,%50"}))
	if err != nil {
		t.Fatalf("validate_mask: %v", err)
	}
	m, ok := result.(map[string]any)
	if !ok {
		t.Fatalf("expected a map result, got %T", result)
	}
	terms, ok := m["terms"].([]maskTermExplanation)
	if !ok {
		t.Fatalf("expected terms to be []maskTermExplanation, got %T", m["terms"])
	}
	if len(terms) != 3 {
		t.Fatalf("expected 3 explained terms, got %d", len(terms))
	}
	if terms[0].Kind != "function" || terms[1].Kind != "negation" || terms[2].Kind != "percentage" {
		t.Fatalf("unexpected term kinds: %+v", terms)
	}
}

func TestValidateMaskRejectsEmpty(t *testing.T) {
	r := NewRegistry(testDeps(t))
	_, err := r.Call(context.Background(), "validate_mask", raw(t, map[string]string{"mask": ""}))
	var terr *toolerr.Error
	if !errors.As(err, &terr) || terr.Category != toolerr.Validation {
		t.Fatalf("expected a validation error, got %v", err)
	}
}

func TestRegionScanRejectsOversizedVolume(t *testing.T) {
	r := NewRegistry(testDeps(t))
	_, err := r.Call(context.Background(), "region_scan", raw(t, map[string]float64{
		"x1": 0, "y1": 0, "z1": 0, "x2": 500, "y2": 500, "z2": 500,
	}))
	var terr *toolerr.Error
	if !errors.As(err, &terr) || terr.Category != toolerr.Validation {
		t.Fatalf("expected a validation error for an oversized region, got %v", err)
	}
}

func TestSymmetryCheckRejectsBadAxis(t *testing.T) {
	r := NewRegistry(testDeps(t))
	_, err := r.Call(context.Background(), "symmetry_check", raw(t, map[string]any{
		"x1": 0, "y1": 0, "z1": 0, "x2": 1, "y2": 1, "z2": 1, "axis": "w",
	}))
	var terr *toolerr.Error
	if !errors.As(err, &terr) || terr.Category != toolerr.Validation {
		t.Fatalf("expected a validation error for a bad axis, got %v", err)
	}
}
