// Copyright 2026 The VibeCraft Authors
// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"fmt"

	"github.com/vibecraft/vibecraft/internal/region"
	"github.com/vibecraft/vibecraft/internal/toolerr"
)

// The helpers in this file shape a Bridge response's generic
// map[string]any (the result of unmarshaling an untyped JSON value)
// into the structured region types, rather than handing the raw map
// back to the MCP caller untouched.

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asFloat(m map[string]any, key string) float64 {
	f, _ := m[key].(float64)
	return f
}

func asInt(m map[string]any, key string) int {
	return int(asFloat(m, key))
}

func asString(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func asBool(m map[string]any, key string) bool {
	b, _ := m[key].(bool)
	return b
}

func asSlice(m map[string]any, key string) []any {
	s, _ := m[key].([]any)
	return s
}

// regionScanResult is the structured region_scan tool result: a
// canonical re-encoding of the peer's Region Snapshot, plus an
// aggregate block histogram.
type regionScanResult struct {
	OriginX    int                 `json:"origin_x"`
	OriginY    int                 `json:"origin_y"`
	OriginZ    int                 `json:"origin_z"`
	SizeX      int                 `json:"size_x"`
	SizeY      int                 `json:"size_y"`
	SizeZ      int                 `json:"size_z"`
	Palette    []string            `json:"palette"`
	Blocks     []region.RunElement `json:"blocks"`
	BlockCount int                 `json:"block_count"`
	Histogram  map[string]int      `json:"histogram"`
}

// decodeSnapshot parses a region.scan response into a region.Snapshot,
// validating that its RLE-encoded blocks decode to exactly
// SizeX*SizeY*SizeZ entries (invariant 7).
func decodeSnapshot(resp any) (*region.Snapshot, error) {
	m, ok := asMap(resp)
	if !ok {
		return nil, toolerr.InternalError("region_scan: malformed response")
	}
	snap := &region.Snapshot{
		OriginX: asInt(m, "origin_x"), OriginY: asInt(m, "origin_y"), OriginZ: asInt(m, "origin_z"),
		SizeX: asInt(m, "size_x"), SizeY: asInt(m, "size_y"), SizeZ: asInt(m, "size_z"),
	}
	for _, p := range asSlice(m, "palette") {
		s, _ := p.(string)
		snap.Palette = append(snap.Palette, s)
	}
	runs, err := decodeRuns(asSlice(m, "blocks"))
	if err != nil {
		return nil, toolerr.InternalError("region_scan: %v", err)
	}
	blocks, err := region.DecodeRLE(runs, snap.SizeX*snap.SizeY*snap.SizeZ)
	if err != nil {
		return nil, toolerr.InternalError("region_scan: %v", err)
	}
	snap.Blocks = blocks
	return snap, nil
}

func decodeRuns(raw []any) ([]region.RunElement, error) {
	runs := make([]region.RunElement, 0, len(raw))
	for _, v := range raw {
		switch t := v.(type) {
		case float64:
			runs = append(runs, region.RunElement{Index: int(t)})
		case []any:
			if len(t) != 2 {
				return nil, fmt.Errorf("malformed run element %v", t)
			}
			idx, _ := t[0].(float64)
			count, _ := t[1].(float64)
			runs = append(runs, region.RunElement{Index: int(idx), Count: int(count)})
		default:
			return nil, fmt.Errorf("unexpected run element type %T", v)
		}
	}
	return runs, nil
}

func shapeRegionScan(resp any) (*regionScanResult, error) {
	snap, err := decodeSnapshot(resp)
	if err != nil {
		return nil, err
	}
	return &regionScanResult{
		OriginX: snap.OriginX, OriginY: snap.OriginY, OriginZ: snap.OriginZ,
		SizeX: snap.SizeX, SizeY: snap.SizeY, SizeZ: snap.SizeZ,
		Palette:    snap.Palette,
		Blocks:     region.EncodeRLE(snap.Blocks),
		BlockCount: len(snap.Blocks),
		Histogram:  snap.Histogram(),
	}, nil
}

// shapeHeightmap parses a region.heightmap response into a
// region.Heightmap.
func shapeHeightmap(resp any) (*region.Heightmap, error) {
	m, ok := asMap(resp)
	if !ok {
		return nil, toolerr.InternalError("region_heightmap: malformed response")
	}
	hm := &region.Heightmap{OriginX: asInt(m, "origin_x"), OriginZ: asInt(m, "origin_z")}
	for _, col := range asSlice(m, "cells") {
		colSlice, ok := col.([]any)
		if !ok {
			return nil, toolerr.InternalError("region_heightmap: malformed column")
		}
		row := make([]region.HeightmapCell, 0, len(colSlice))
		for _, cell := range colSlice {
			cm, ok := asMap(cell)
			if !ok {
				return nil, toolerr.InternalError("region_heightmap: malformed cell")
			}
			row = append(row, region.HeightmapCell{SurfaceY: asInt(cm, "surface_y"), BlockID: asString(cm, "block_id")})
		}
		hm.Cells = append(hm.Cells, row)
	}
	return hm, nil
}

// shapePlayerContext parses a player.context response into a
// region.PlayerContext, deriving the cardinal facing from yaw.
func shapePlayerContext(resp any) (*region.PlayerContext, error) {
	m, ok := asMap(resp)
	if !ok {
		return nil, toolerr.InternalError("player_context: malformed response")
	}
	yaw, pitch := asFloat(m, "yaw"), asFloat(m, "pitch")
	pc := &region.PlayerContext{
		X: asFloat(m, "x"), Y: asFloat(m, "y"), Z: asFloat(m, "z"),
		BlockX: asInt(m, "block_x"), BlockY: asInt(m, "block_y"), BlockZ: asInt(m, "block_z"),
		Rotation: region.Rotation{Yaw: yaw, Pitch: pitch, Cardinal: region.CardinalFromYaw(yaw)},
		EyeX: asFloat(m, "eye_x"), EyeY: asFloat(m, "eye_y"), EyeZ: asFloat(m, "eye_z"),
		LookX: asFloat(m, "look_x"), LookY: asFloat(m, "look_y"), LookZ: asFloat(m, "look_z"),
		HeldItem:  asString(m, "held_item"),
		GameMode:  asString(m, "game_mode"),
		Grounded:  asBool(m, "grounded"),
		Flying:    asBool(m, "flying"),
		Dimension: asString(m, "dimension"),
	}
	if tm, ok := asMap(m["target"]); ok {
		pc.Target = &region.RayTarget{
			BlockID:    asString(tm, "block_id"),
			X:          asInt(tm, "x"),
			Y:          asInt(tm, "y"),
			Z:          asInt(tm, "z"),
			Face:       asString(tm, "face"),
			Distance:   asFloat(tm, "distance"),
			PlacementX: asInt(tm, "placement_x"),
			PlacementY: asInt(tm, "placement_y"),
			PlacementZ: asInt(tm, "placement_z"),
		}
	}
	return pc, nil
}

// shapeEntities parses a player.entities response into []region.Entity.
func shapeEntities(resp any) ([]region.Entity, error) {
	list, ok := resp.([]any)
	if !ok {
		if m, isMap := asMap(resp); isMap {
			list = asSlice(m, "entities")
		} else {
			return nil, toolerr.InternalError("nearby_entities: malformed response")
		}
	}
	entities := make([]region.Entity, 0, len(list))
	for _, v := range list {
		m, ok := asMap(v)
		if !ok {
			continue
		}
		entities = append(entities, region.Entity{
			Type: asString(m, "type"), Name: asString(m, "name"),
			X: asFloat(m, "x"), Y: asFloat(m, "y"), Z: asFloat(m, "z"),
		})
	}
	return entities, nil
}
