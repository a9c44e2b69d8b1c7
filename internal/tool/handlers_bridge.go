// Copyright 2026 The VibeCraft Authors
// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"encoding/json"

	"github.com/vibecraft/vibecraft/internal/sanitizer"
	"github.com/vibecraft/vibecraft/internal/toolerr"
)

type commandExecuteArgs struct {
	Command string `json:"command"`
}

func commandExecuteHandler(deps *Deps) Handler {
	return func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args commandExecuteArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		if args.Command == "" {
			return nil, toolerr.ValidationError("command_execute: \"command\" is required")
		}
		if r := sanitizer.Sanitize(args.Command, deps.Config); !r.Accepted {
			return nil, toolerr.ForbiddenError("command rejected: %s (%s)", r.Reason, r.Rule)
		}
		return bridgeRequest(ctx, deps, "command.execute", map[string]any{"command": args.Command})
	}
}

func serverInfoHandler(deps *Deps) Handler {
	return func(ctx context.Context, raw json.RawMessage) (any, error) {
		return bridgeRequest(ctx, deps, "server.info", map[string]any{})
	}
}

type playerContextArgs struct {
	Reach float64 `json:"reach"`
}

func playerContextHandler(deps *Deps) Handler {
	return func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args playerContextArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		if args.Reach <= 0 {
			args.Reach = 20
		}
		resp, err := bridgeRequest(ctx, deps, "player.context", map[string]any{"reach": args.Reach})
		if err != nil {
			return nil, err
		}
		return shapePlayerContext(resp)
	}
}

type nearbyEntitiesArgs struct {
	Radius float64 `json:"radius"`
}

func nearbyEntitiesHandler(deps *Deps) Handler {
	return func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args nearbyEntitiesArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		if args.Radius <= 0 {
			return nil, toolerr.ValidationError("nearby_entities: \"radius\" must be positive")
		}
		resp, err := bridgeRequest(ctx, deps, "player.entities", map[string]any{"radius": args.Radius})
		if err != nil {
			return nil, err
		}
		return shapeEntities(resp)
	}
}

type surfaceLevelArgs struct {
	X float64 `json:"x"`
	Z float64 `json:"z"`
}

type surfaceLevelResult struct {
	SurfaceY int    `json:"surface_y"`
	BlockID  string `json:"block_id"`
}

// surfaceLevelHandler asks for a single-column region.heightmap rather
// than a dedicated message type: spec.md §6.2's closed set has no
// "world.surface" entry, and a 1x1 heightmap column is exactly the
// surface query this tool exposes.
func surfaceLevelHandler(deps *Deps) Handler {
	return func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args surfaceLevelArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		resp, err := bridgeRequest(ctx, deps, "region.heightmap", map[string]any{
			"x1": args.X, "z1": args.Z, "x2": args.X, "z2": args.Z,
		})
		if err != nil {
			return nil, err
		}
		hm, err := shapeHeightmap(resp)
		if err != nil {
			return nil, err
		}
		if len(hm.Cells) == 0 || len(hm.Cells[0]) == 0 {
			return nil, toolerr.InternalError("surface_level: empty heightmap response")
		}
		cell := hm.Cells[0][0]
		return surfaceLevelResult{SurfaceY: cell.SurfaceY, BlockID: cell.BlockID}, nil
	}
}

type regionCorners struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	Z1 float64 `json:"z1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
	Z2 float64 `json:"z2"`
}

// validateCorners rejects a request whose bounding box would sample
// more voxels than the given per-tool ceiling, per spec.md §6.2's
// distinct caps for region_scan (64^3) and light_analyze/symmetry_check
// (128^3).
func validateCorners(c regionCorners, maxVolume int) error {
	dx := absInt(c.X2 - c.X1)
	dy := absInt(c.Y2 - c.Y1)
	dz := absInt(c.Z2 - c.Z1)
	if (dx+1)*(dy+1)*(dz+1) > maxVolume {
		return toolerr.ValidationError("region bounding box exceeds the %d block volume limit", maxVolume)
	}
	return nil
}

func absInt(f float64) int {
	i := int(f)
	if i < 0 {
		return -i
	}
	return i
}

const (
	maxRegionScanVolume  = 64 * 64 * 64   // spec.md §6.2: region_scan ceiling
	maxHeightmapColumns  = 256 * 256      // spec.md §6.2: region_heightmap ceiling
	maxLightSymmetryVolume = 128 * 128 * 128 // spec.md §6.2: light_analyze/symmetry_check ceiling
	maxPaletteRadius     = 64             // spec.md §6.2: palette.analyze/palette.region ceiling
)

type regionScanArgs struct {
	regionCorners
	IncludeStates bool `json:"include_states"`
}

func regionScanHandler(deps *Deps) Handler {
	return func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args regionScanArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		if err := validateCorners(args.regionCorners, maxRegionScanVolume); err != nil {
			return nil, err
		}
		resp, err := bridgeRequest(ctx, deps, "region.scan", map[string]any{
			"x1": args.X1, "y1": args.Y1, "z1": args.Z1,
			"x2": args.X2, "y2": args.Y2, "z2": args.Z2,
			"include_states": args.IncludeStates,
		})
		if err != nil {
			return nil, err
		}
		return shapeRegionScan(resp)
	}
}

type heightmapArgs struct {
	X1 float64 `json:"x1"`
	Z1 float64 `json:"z1"`
	X2 float64 `json:"x2"`
	Z2 float64 `json:"z2"`
}

func heightmapHandler(deps *Deps) Handler {
	return func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args heightmapArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		dx := absInt(args.X2 - args.X1)
		dz := absInt(args.Z2 - args.Z1)
		if (dx+1)*(dz+1) > maxHeightmapColumns {
			return nil, toolerr.ValidationError("region_heightmap area exceeds the %d column limit", maxHeightmapColumns)
		}
		resp, err := bridgeRequest(ctx, deps, "region.heightmap", map[string]any{
			"x1": args.X1, "z1": args.Z1, "x2": args.X2, "z2": args.Z2,
		})
		if err != nil {
			return nil, err
		}
		return shapeHeightmap(resp)
	}
}

type paletteAnalyzeArgs struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Z      float64 `json:"z"`
	Radius float64 `json:"radius"`
}

type paletteAnalyzeResult struct {
	Histogram         map[string]int `json:"histogram"`
	CategoryBreakdown map[string]int `json:"category_breakdown"`
	StyleTag          string         `json:"style_tag"`
}

func paletteAnalyzeHandler(deps *Deps) Handler {
	return func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args paletteAnalyzeArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		if args.Radius <= 0 {
			args.Radius = 8
		}
		if args.Radius > maxPaletteRadius {
			return nil, toolerr.ValidationError("palette_analyze: \"radius\" exceeds the %d block limit", maxPaletteRadius)
		}
		resp, err := bridgeRequest(ctx, deps, "palette.analyze", map[string]any{
			"x": args.X, "y": args.Y, "z": args.Z, "radius": args.Radius,
		})
		if err != nil {
			return nil, err
		}
		m, ok := asMap(resp)
		if !ok {
			return nil, toolerr.InternalError("palette_analyze: malformed response")
		}
		result := paletteAnalyzeResult{StyleTag: asString(m, "style_tag")}
		if hm, ok := asMap(m["histogram"]); ok {
			result.Histogram = intMap(hm)
		}
		if cm, ok := asMap(m["category_breakdown"]); ok {
			result.CategoryBreakdown = intMap(cm)
		}
		return result, nil
	}
}

func intMap(m map[string]any) map[string]int {
	out := make(map[string]int, len(m))
	for k := range m {
		out[k] = asInt(m, k)
	}
	return out
}

// clampResolution enforces spec.md §4.6's 1-4 inclusive sampling step
// for the two tools that trade detail for response size.
func clampResolution(r float64) int {
	i := int(r)
	if i < 1 {
		return 1
	}
	if i > 4 {
		return 4
	}
	return i
}

type lightAnalyzeArgs struct {
	regionCorners
	Resolution float64 `json:"resolution"`
}

func lightAnalyzeHandler(deps *Deps) Handler {
	return func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args lightAnalyzeArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		if err := validateCorners(args.regionCorners, maxLightSymmetryVolume); err != nil {
			return nil, err
		}
		return bridgeRequest(ctx, deps, "light.analyze", map[string]any{
			"x1": args.X1, "y1": args.Y1, "z1": args.Z1,
			"x2": args.X2, "y2": args.Y2, "z2": args.Z2,
			"resolution": clampResolution(args.Resolution),
		})
	}
}

type symmetryCheckArgs struct {
	regionCorners
	Axis       string  `json:"axis"`
	Tolerance  float64 `json:"tolerance"`
	Resolution float64 `json:"resolution"`
}

func symmetryCheckHandler(deps *Deps) Handler {
	return func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args symmetryCheckArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		if err := validateCorners(args.regionCorners, maxLightSymmetryVolume); err != nil {
			return nil, err
		}
		switch args.Axis {
		case "x", "y", "z":
		default:
			return nil, toolerr.ValidationError("symmetry_check: \"axis\" must be one of x, y, z, got %q", args.Axis)
		}
		return bridgeRequest(ctx, deps, "symmetry.check", map[string]any{
			"x1": args.X1, "y1": args.Y1, "z1": args.Z1,
			"x2": args.X2, "y2": args.Y2, "z2": args.Z2,
			"axis": args.Axis, "tolerance": args.Tolerance,
			"resolution": clampResolution(args.Resolution),
		})
	}
}

type screenshotCaptureArgs struct {
	MaxWidth  float64 `json:"max_width"`
	MaxHeight float64 `json:"max_height"`
}

// screenshotCaptureResult mirrors spec.md §6.2's screenshot.capture
// result shape exactly: a base64 PNG data URL plus its dimensions and
// the player pose it was taken from.
type screenshotCaptureResult struct {
	Image          string  `json:"image"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	PlayerPosition [3]float64 `json:"player_position"`
	PlayerRotation struct {
		Yaw   float64 `json:"yaw"`
		Pitch float64 `json:"pitch"`
	} `json:"player_rotation"`
}

func screenshotCaptureHandler(deps *Deps) Handler {
	return func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args screenshotCaptureArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		if args.MaxWidth <= 0 {
			args.MaxWidth = 1280
		}
		if args.MaxHeight <= 0 {
			args.MaxHeight = 720
		}
		resp, err := bridgeRequest(ctx, deps, "screenshot.capture", map[string]any{
			"max_width": args.MaxWidth, "max_height": args.MaxHeight,
		})
		if err != nil {
			return nil, err
		}
		m, ok := asMap(resp)
		if !ok {
			return nil, toolerr.InternalError("screenshot_capture: malformed response")
		}
		result := screenshotCaptureResult{
			Image: asString(m, "image"), Width: asInt(m, "width"), Height: asInt(m, "height"),
		}
		if pos, ok := m["player_position"].([]any); ok && len(pos) == 3 {
			for i, v := range pos {
				f, _ := v.(float64)
				result.PlayerPosition[i] = f
			}
		}
		if rot, ok := asMap(m["player_rotation"]); ok {
			result.PlayerRotation.Yaw = asFloat(rot, "yaw")
			result.PlayerRotation.Pitch = asFloat(rot, "pitch")
		}
		return result, nil
	}
}
