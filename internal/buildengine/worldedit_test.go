// Copyright 2026 The VibeCraft Authors
// SPDX-License-Identifier: Apache-2.0

package buildengine

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/vibecraft/vibecraft/internal/clientbridge"
	"github.com/vibecraft/vibecraft/internal/config"
)

func TestBuildRejectsLargeRegionCommandWhenWorldEditOff(t *testing.T) {
	e := testEngine() // WorldEditMode: off
	req := &Request{
		Source:   SourceList,
		Commands: []string{"//fill 0,64,0 2,64,0 minecraft:stone"},
	}
	_, err := e.Build(context.Background(), req, nil)
	if err == nil {
		t.Fatal("expected large-region command to be rejected when worldedit mode is off")
	}
}

func TestBuildRejectsLargeRegionCommandWhenAutoUnavailableAndFallbackDisable(t *testing.T) {
	cfg := &config.Config{
		MaxCommandLength:      1000,
		SafetyChecksOn:        true,
		WorldEditMode:         config.WorldEditAuto,
		WorldEditFallback:     config.FallbackDisable,
		RequestTimeoutSeconds: 5,
	}
	e := New(clientbridge.New(cfg, slog.New(slog.DiscardHandler)), cfg)
	req := &Request{
		Source:   SourceList,
		Commands: []string{"//fill 0,64,0 2,64,0 minecraft:stone"},
	}
	_, err := e.Build(context.Background(), req, nil)
	if err == nil {
		t.Fatal("expected rejection when worldedit unavailable and fallback is disable")
	}
}

func TestBuildDowngradesToVanillaWhenAutoUnavailableAndFallbackVanilla(t *testing.T) {
	cfg := &config.Config{
		MaxCommandLength:      1000,
		SafetyChecksOn:        true,
		WorldEditMode:         config.WorldEditAuto,
		WorldEditFallback:     config.FallbackVanilla,
		RequestTimeoutSeconds: 5,
	}
	e := New(clientbridge.New(cfg, slog.New(slog.DiscardHandler)), cfg)
	req := &Request{
		Source:      SourceList,
		Commands:    []string{"//fill 0,64,0 2,64,0 minecraft:stone"},
		PreviewOnly: true,
	}
	result, err := e.Build(context.Background(), req, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(result.Outcomes) != 3 {
		t.Fatalf("expected the fill downgraded to 3 individual setblocks, got %d: %+v", len(result.Outcomes), result.Outcomes)
	}
	for _, o := range result.Outcomes {
		if !strings.HasPrefix(o.Command, "/setblock ") {
			t.Fatalf("expected a vanilla /setblock command, got %q", o.Command)
		}
	}
}

func TestBuildForceModePassesLargeRegionCommandThrough(t *testing.T) {
	cfg := &config.Config{
		MaxCommandLength:      1000,
		SafetyChecksOn:        true,
		WorldEditMode:         config.WorldEditForce,
		RequestTimeoutSeconds: 5,
	}
	e := New(clientbridge.New(cfg, slog.New(slog.DiscardHandler)), cfg)
	req := &Request{
		Source:      SourceList,
		Commands:    []string{"//fill 0,64,0 2,64,0 minecraft:stone"},
		PreviewOnly: true,
	}
	result, err := e.Build(context.Background(), req, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(result.Outcomes) != 1 || result.Outcomes[0].Command != "//fill 0,64,0 2,64,0 minecraft:stone" {
		t.Fatalf("expected the large-region command passed through unchanged, got %+v", result.Outcomes)
	}
}
