// Copyright 2026 The VibeCraft Authors
// SPDX-License-Identifier: Apache-2.0

// Package tool implements the Tool Handlers: the set of named
// operations exposed to MCP callers. Each handler is pure with
// respect to process state — it reads the immutable Configuration,
// calls the Bridge and/or Build Engine, and returns a structured
// result.
//
// The handler signature (context, raw JSON arguments) -> (result,
// error) and the registry-by-name dispatch pattern are grounded on
// the teacher's cmd/bureau/mcp/server.go, which maps tool names to
// handler functions the same way; the difference is that VibeCraft's
// registry is a static list of domain handlers rather than a
// CLI-command-tree discovery walk, since there is no CLI tree here.
package tool

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/vibecraft/vibecraft/internal/buildengine"
	"github.com/vibecraft/vibecraft/internal/catalog"
	"github.com/vibecraft/vibecraft/internal/clientbridge"
	"github.com/vibecraft/vibecraft/internal/config"
	"github.com/vibecraft/vibecraft/internal/toolerr"
)

// Handler is a single named tool's implementation.
type Handler func(ctx context.Context, rawArgs json.RawMessage) (any, error)

// Registry is the fixed set of tools this server exposes, built once
// at startup from a Deps bundle.
type Registry struct {
	handlers map[string]Handler
	schemas  map[string]Schema
}

// Deps bundles every collaborator a handler might need. Handlers
// close over this rather than receiving it per call, matching the
// teacher's Server struct holding its collaborators as fields.
type Deps struct {
	Bridge  *clientbridge.Bridge
	Engine  *buildengine.Engine
	Catalog *catalog.Catalog
	Config  *config.Config
}

// NewRegistry builds the complete tool registry.
func NewRegistry(deps *Deps) *Registry {
	r := &Registry{handlers: map[string]Handler{}, schemas: map[string]Schema{}}
	r.register("command_execute", commandExecuteSchema, commandExecuteHandler(deps))
	r.register("server_info", serverInfoSchema, serverInfoHandler(deps))
	r.register("player_context", playerContextSchema, playerContextHandler(deps))
	r.register("nearby_entities", nearbyEntitiesSchema, nearbyEntitiesHandler(deps))
	r.register("surface_level", surfaceLevelSchema, surfaceLevelHandler(deps))
	r.register("region_scan", regionScanSchema, regionScanHandler(deps))
	r.register("region_heightmap", heightmapSchema, heightmapHandler(deps))
	r.register("palette_analyze", paletteAnalyzeSchema, paletteAnalyzeHandler(deps))
	r.register("light_analyze", lightAnalyzeSchema, lightAnalyzeHandler(deps))
	r.register("symmetry_check", symmetryCheckSchema, symmetryCheckHandler(deps))
	r.register("screenshot_capture", screenshotCaptureSchema, screenshotCaptureHandler(deps))
	r.register("build", buildSchema, buildHandler(deps))
	r.register("pattern_lookup", lookupSchema, patternLookupHandler(deps))
	r.register("furniture_lookup", lookupSchema, furnitureLookupHandler(deps))
	r.register("template_lookup", lookupSchema, templateLookupHandler(deps))
	r.register("validate_mask", validateMaskSchema, validateMaskHandler(deps))
	return r
}

func (r *Registry) register(name string, schema Schema, h Handler) {
	r.handlers[name] = h
	r.schemas[name] = schema
}

// Names returns every registered tool name, sorted for stable
// tools/list ordering across runs.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Schema returns a tool's declared input schema.
func (r *Registry) Schema(name string) (Schema, bool) {
	s, ok := r.schemas[name]
	return s, ok
}

// Call dispatches to a named tool's handler, or returns a not_found
// error for an unregistered name.
func (r *Registry) Call(ctx context.Context, name string, rawArgs json.RawMessage) (any, error) {
	h, ok := r.handlers[name]
	if !ok {
		return nil, toolerr.NotFoundError("tool %q is not registered", name)
	}
	return h(ctx, rawArgs)
}

func decodeArgs(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return toolerr.ValidationError("invalid arguments: %v", err)
	}
	return nil
}

func bridgeRequest(ctx context.Context, deps *Deps, msgType string, payload any) (any, error) {
	result, err := deps.Bridge.Request(ctx, msgType, payload, 0)
	if err != nil {
		return nil, err
	}
	return result, nil
}
