// Copyright 2026 The VibeCraft Authors
// SPDX-License-Identifier: Apache-2.0

package config

import "testing"

func clearEnv(t *testing.T) {
	t.Helper()
	names := []string{
		"CLIENT_HOST", "CLIENT_PORT", "CLIENT_PATH", "CLIENT_TOKEN",
		"REQUEST_TIMEOUT", "WORLDEDIT_MODE", "WORLDEDIT_FALLBACK",
		"SAFETY_CHECKS_ON", "DANGEROUS_ALLOWED", "MAX_COMMAND_LENGTH",
		"COMMAND_LOGGING", "VERSION_DETECTION", "REQUIRE_BRIDGE_AT_STARTUP",
		"CATALOG_OVERRIDE_PATH", "BUILD_LOG_PATH",
		"BUILD_MIN_X", "BUILD_MIN_Y", "BUILD_MIN_Z",
		"BUILD_MAX_X", "BUILD_MAX_Y", "BUILD_MAX_Z",
	}
	for _, n := range names {
		t.Setenv(envPrefix+n, "")
		// t.Setenv always sets; unset explicitly isn't available, but
		// getString/getInt/getBool all treat an empty string as unset.
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BridgeHost != "127.0.0.1" || cfg.BridgePort != 8766 {
		t.Fatalf("unexpected bridge address: %s:%d", cfg.BridgeHost, cfg.BridgePort)
	}
	if cfg.WorldEditMode != WorldEditAuto {
		t.Fatalf("WorldEditMode = %s, want auto", cfg.WorldEditMode)
	}
	if cfg.BuildBox != nil {
		t.Fatalf("expected nil BuildBox by default, got %+v", cfg.BuildBox)
	}
	if !cfg.SafetyChecksOn {
		t.Fatal("expected safety checks on by default")
	}
}

func TestLoadInvalidWorldEditMode(t *testing.T) {
	clearEnv(t)
	t.Setenv(envPrefix+"WORLDEDIT_MODE", "sideways")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid WORLDEDIT_MODE")
	}
}

func TestLoadInvalidInt(t *testing.T) {
	clearEnv(t)
	t.Setenv(envPrefix+"CLIENT_PORT", "not-a-number")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-numeric CLIENT_PORT")
	}
}

func TestLoadBuildBoxComplete(t *testing.T) {
	clearEnv(t)
	t.Setenv(envPrefix+"BUILD_MIN_X", "-100")
	t.Setenv(envPrefix+"BUILD_MIN_Y", "0")
	t.Setenv(envPrefix+"BUILD_MIN_Z", "-100")
	t.Setenv(envPrefix+"BUILD_MAX_X", "100")
	t.Setenv(envPrefix+"BUILD_MAX_Y", "255")
	t.Setenv(envPrefix+"BUILD_MAX_Z", "100")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BuildBox == nil {
		t.Fatal("expected non-nil BuildBox")
	}
	if !cfg.BuildBox.Contains(0, 64, 0) {
		t.Fatal("expected origin inside box")
	}
	if cfg.BuildBox.Contains(1000, 64, 0) {
		t.Fatal("expected far point outside box")
	}
}

func TestLoadBuildBoxPartial(t *testing.T) {
	clearEnv(t)
	t.Setenv(envPrefix+"BUILD_MIN_X", "-100")
	t.Setenv(envPrefix+"BUILD_MAX_X", "100")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when only some build box bounds are set")
	}
}

func TestLoadBuildBoxInverted(t *testing.T) {
	clearEnv(t)
	t.Setenv(envPrefix+"BUILD_MIN_X", "100")
	t.Setenv(envPrefix+"BUILD_MIN_Y", "0")
	t.Setenv(envPrefix+"BUILD_MIN_Z", "-100")
	t.Setenv(envPrefix+"BUILD_MAX_X", "-100")
	t.Setenv(envPrefix+"BUILD_MAX_Y", "255")
	t.Setenv(envPrefix+"BUILD_MAX_Z", "100")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when min exceeds max")
	}
}

func TestContainsNilBox(t *testing.T) {
	var box *BuildBox
	if !box.Contains(5, 5, 5) {
		t.Fatal("nil box should contain every point")
	}
}
