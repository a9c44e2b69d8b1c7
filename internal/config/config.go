// Copyright 2026 The VibeCraft Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads VibeCraft's configuration from environment
// variables into a single immutable value at process startup.
//
// There is no config file and no automatic discovery: every tunable
// has a documented environment variable and a sane default. This
// matches the teacher's lib/config philosophy — deterministic,
// auditable configuration with no hidden overrides — adapted from a
// YAML file to env vars because that's the surface spec.md §6.4
// requires and the surface the original Python implementation
// (pydantic BaseSettings with env_prefix="VIBECRAFT_") already used.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// WorldEditMode controls whether and how large-region ("//...")
// commands may be emitted.
type WorldEditMode string

const (
	WorldEditAuto  WorldEditMode = "auto"
	WorldEditForce WorldEditMode = "force"
	WorldEditOff   WorldEditMode = "off"
)

// WorldEditFallback controls auto-mode behavior when the peer reports
// WorldEdit unavailable. Supplemented from original_source per
// SPEC_FULL.md §10.2.
type WorldEditFallback string

const (
	FallbackDisable WorldEditFallback = "disable"
	FallbackVanilla WorldEditFallback = "vanilla"
)

// BuildBox is an optional axis-aligned bounding box that constrains
// every coordinate triple named by a command or schematic placement.
type BuildBox struct {
	MinX, MinY, MinZ int
	MaxX, MaxY, MaxZ int
}

// Contains reports whether the point (x, y, z) lies inside the box,
// inclusive of the boundary.
func (b *BuildBox) Contains(x, y, z int) bool {
	if b == nil {
		return true
	}
	return x >= b.MinX && x <= b.MaxX &&
		y >= b.MinY && y <= b.MaxY &&
		z >= b.MinZ && z <= b.MaxZ
}

// Config is the frozen set of tunables loaded once at startup. It is
// never mutated after Load returns, so it may be shared by reference
// across goroutines without synchronization.
type Config struct {
	// BridgeHost, BridgePort, BridgePath address the local game-client
	// helper's WebSocket endpoint.
	BridgeHost string
	BridgePort int
	BridgePath string

	// BridgeToken is sent with every outgoing envelope when non-empty.
	BridgeToken string

	// RequestTimeoutSeconds is the default per-request deadline. Every
	// tool handler, region scans included, uses it as is; only the
	// Bridge's hello handshake passes its own 10s deadline.
	RequestTimeoutSeconds int

	// WorldEditMode and WorldEditFallback govern large-region command
	// emission; see WorldEditMode and WorldEditFallback.
	WorldEditMode     WorldEditMode
	WorldEditFallback WorldEditFallback

	// SafetyChecksOn enables the syntactic command filter (unbalanced
	// quoting, control characters, shell metacharacters).
	SafetyChecksOn bool

	// DangerousAllowed, when false, rejects commands whose first
	// token matches the destructive-operation denylist.
	DangerousAllowed bool

	// MaxCommandLength bounds a single command string's length.
	MaxCommandLength int

	// BuildBox, when non-nil, constrains every coordinate triple a
	// command or schematic names.
	BuildBox *BuildBox

	// CommandLogging, when true, appends every dispatched command and
	// its outcome to a compressed append-only log (internal/buildlog).
	CommandLogging bool

	// VersionDetection is loaded from VIBECRAFT_VERSION_DETECTION but
	// no component reads it: the Bridge sends no WorldEdit version
	// probe and relies on the hello capabilities alone.
	VersionDetection bool

	// RequireBridgeAtStartup, when true, makes process startup block
	// on a successful Bridge handshake (exit code 2 on failure) rather
	// than serving catalog-only tools immediately and connecting the
	// Bridge lazily.
	RequireBridgeAtStartup bool

	// CatalogOverridePath, when non-empty, names a YAML file merged
	// over the embedded catalog at load time (SPEC_FULL.md §6.5).
	CatalogOverridePath string

	// BuildLogPath, when CommandLogging is set, names the zstd-
	// compressed append-only log file (default: vibecraft-commands.jsonl.zst
	// in the working directory).
	BuildLogPath string
}

const envPrefix = "VIBECRAFT_"

// Load reads configuration from the environment. It returns a
// descriptive error rather than panicking on any unparseable value,
// matching spec.md §6.4's exit code 1 (fatal misconfiguration).
func Load() (*Config, error) {
	cfg := &Config{
		BridgeHost:             getString("CLIENT_HOST", "127.0.0.1"),
		BridgePort:             8766,
		BridgePath:             getString("CLIENT_PATH", "/vibecraft"),
		BridgeToken:            getString("CLIENT_TOKEN", ""),
		RequestTimeoutSeconds:  30,
		WorldEditMode:          WorldEditAuto,
		WorldEditFallback:      FallbackDisable,
		SafetyChecksOn:         true,
		DangerousAllowed:       false,
		MaxCommandLength:       1000,
		CommandLogging:         true,
		VersionDetection:       true,
		RequireBridgeAtStartup: false,
		CatalogOverridePath:    getString("CATALOG_OVERRIDE_PATH", ""),
		BuildLogPath:           getString("BUILD_LOG_PATH", "vibecraft-commands.jsonl.zst"),
	}

	var err error
	if cfg.BridgePort, err = getInt("CLIENT_PORT", cfg.BridgePort); err != nil {
		return nil, err
	}
	if cfg.RequestTimeoutSeconds, err = getInt("REQUEST_TIMEOUT", cfg.RequestTimeoutSeconds); err != nil {
		return nil, err
	}
	if cfg.MaxCommandLength, err = getInt("MAX_COMMAND_LENGTH", cfg.MaxCommandLength); err != nil {
		return nil, err
	}
	if cfg.SafetyChecksOn, err = getBool("SAFETY_CHECKS_ON", cfg.SafetyChecksOn); err != nil {
		return nil, err
	}
	if cfg.DangerousAllowed, err = getBool("DANGEROUS_ALLOWED", cfg.DangerousAllowed); err != nil {
		return nil, err
	}
	if cfg.CommandLogging, err = getBool("COMMAND_LOGGING", cfg.CommandLogging); err != nil {
		return nil, err
	}
	if cfg.VersionDetection, err = getBool("VERSION_DETECTION", cfg.VersionDetection); err != nil {
		return nil, err
	}
	if cfg.RequireBridgeAtStartup, err = getBool("REQUIRE_BRIDGE_AT_STARTUP", cfg.RequireBridgeAtStartup); err != nil {
		return nil, err
	}

	if mode := getString("WORLDEDIT_MODE", string(cfg.WorldEditMode)); mode != "" {
		switch WorldEditMode(mode) {
		case WorldEditAuto, WorldEditForce, WorldEditOff:
			cfg.WorldEditMode = WorldEditMode(mode)
		default:
			return nil, fmt.Errorf("config: %sWORLDEDIT_MODE: invalid value %q (want auto, force, or off)", envPrefix, mode)
		}
	}

	if fallback := getString("WORLDEDIT_FALLBACK", string(cfg.WorldEditFallback)); fallback != "" {
		switch WorldEditFallback(fallback) {
		case FallbackDisable, FallbackVanilla:
			cfg.WorldEditFallback = WorldEditFallback(fallback)
		default:
			return nil, fmt.Errorf("config: %sWORLDEDIT_FALLBACK: invalid value %q (want disable or vanilla)", envPrefix, fallback)
		}
	}

	box, err := loadBuildBox()
	if err != nil {
		return nil, err
	}
	cfg.BuildBox = box

	return cfg, nil
}

func loadBuildBox() (*BuildBox, error) {
	names := []string{"BUILD_MIN_X", "BUILD_MIN_Y", "BUILD_MIN_Z", "BUILD_MAX_X", "BUILD_MAX_Y", "BUILD_MAX_Z"}
	values := make([]int, len(names))
	present := 0
	for i, name := range names {
		raw, ok := os.LookupEnv(envPrefix + name)
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}
		present++
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("config: %s%s: %w", envPrefix, name, err)
		}
		values[i] = n
	}

	if present == 0 {
		return nil, nil
	}
	if present != len(names) {
		return nil, fmt.Errorf("config: build bounding box requires all six of %v, got %d", names, present)
	}

	box := &BuildBox{
		MinX: values[0], MinY: values[1], MinZ: values[2],
		MaxX: values[3], MaxY: values[4], MaxZ: values[5],
	}
	if box.MinX > box.MaxX || box.MinY > box.MaxY || box.MinZ > box.MaxZ {
		return nil, fmt.Errorf("config: build bounding box min exceeds max on some axis: %+v", box)
	}
	return box, nil
}

func getString(name, fallback string) string {
	if v, ok := os.LookupEnv(envPrefix + name); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

func getInt(name string, fallback int) (int, error) {
	raw, ok := os.LookupEnv(envPrefix + name)
	if !ok || strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("config: %s%s: %w", envPrefix, name, err)
	}
	return n, nil
}

func getBool(name string, fallback bool) (bool, error) {
	raw, ok := os.LookupEnv(envPrefix + name)
	if !ok || strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false, fmt.Errorf("config: %s%s: %w", envPrefix, name, err)
	}
	return b, nil
}
