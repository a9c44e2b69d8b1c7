// Copyright 2026 The VibeCraft Authors
// SPDX-License-Identifier: Apache-2.0

package tool

import "testing"

func TestShapeRegionScanRoundTripsRLEAndHistogram(t *testing.T) {
	resp := map[string]any{
		"origin_x": 0.0, "origin_y": 0.0, "origin_z": 0.0,
		"size_x": 2.0, "size_y": 1.0, "size_z": 2.0,
		"palette": []any{"minecraft:air", "minecraft:stone"},
		"blocks":  []any{[]any{0.0, 3.0}, 1.0},
	}
	result, err := shapeRegionScan(resp)
	if err != nil {
		t.Fatalf("shapeRegionScan: %v", err)
	}
	if result.BlockCount != 4 {
		t.Fatalf("block count = %d, want 4", result.BlockCount)
	}
	if result.Histogram["minecraft:air"] != 3 || result.Histogram["minecraft:stone"] != 1 {
		t.Fatalf("unexpected histogram: %+v", result.Histogram)
	}
	if len(result.Blocks) != 2 {
		t.Fatalf("expected the re-encoded RLE to still be 2 runs, got %+v", result.Blocks)
	}
}

func TestShapeRegionScanRejectsMismatchedRunLength(t *testing.T) {
	resp := map[string]any{
		"size_x": 2.0, "size_y": 1.0, "size_z": 1.0,
		"palette": []any{"minecraft:stone"},
		"blocks":  []any{0.0},
	}
	if _, err := shapeRegionScan(resp); err == nil {
		t.Fatal("expected an error when decoded run length doesn't match the declared volume")
	}
}

func TestShapeHeightmapBuildsNestedCells(t *testing.T) {
	resp := map[string]any{
		"origin_x": 5.0, "origin_z": 9.0,
		"cells": []any{
			[]any{
				map[string]any{"surface_y": 64.0, "block_id": "minecraft:grass_block"},
			},
		},
	}
	hm, err := shapeHeightmap(resp)
	if err != nil {
		t.Fatalf("shapeHeightmap: %v", err)
	}
	if hm.OriginX != 5 || hm.OriginZ != 9 {
		t.Fatalf("unexpected origin: %+v", hm)
	}
	if len(hm.Cells) != 1 || len(hm.Cells[0]) != 1 {
		t.Fatalf("unexpected cell shape: %+v", hm.Cells)
	}
	if hm.Cells[0][0].SurfaceY != 64 || hm.Cells[0][0].BlockID != "minecraft:grass_block" {
		t.Fatalf("unexpected cell: %+v", hm.Cells[0][0])
	}
}

func TestShapePlayerContextDerivesCardinalFromYaw(t *testing.T) {
	resp := map[string]any{
		"x": 1.5, "y": 64.0, "z": -2.5,
		"yaw": 0.0, "pitch": 0.0,
		"target": map[string]any{"block_id": "minecraft:stone", "x": 1.0, "y": 64.0, "z": -3.0, "face": "north", "distance": 1.5},
	}
	pc, err := shapePlayerContext(resp)
	if err != nil {
		t.Fatalf("shapePlayerContext: %v", err)
	}
	if pc.Rotation.Cardinal != "south" {
		t.Fatalf("cardinal = %q, want south", pc.Rotation.Cardinal)
	}
	if pc.Target == nil || pc.Target.BlockID != "minecraft:stone" {
		t.Fatalf("unexpected target: %+v", pc.Target)
	}
}

func TestShapePlayerContextHandlesMissingTarget(t *testing.T) {
	pc, err := shapePlayerContext(map[string]any{"x": 0.0, "y": 0.0, "z": 0.0, "yaw": 0.0, "pitch": 0.0})
	if err != nil {
		t.Fatalf("shapePlayerContext: %v", err)
	}
	if pc.Target != nil {
		t.Fatalf("expected a nil target, got %+v", pc.Target)
	}
}

func TestShapeEntitiesParsesList(t *testing.T) {
	resp := []any{
		map[string]any{"type": "zombie", "name": "Zombie", "x": 1.0, "y": 64.0, "z": 2.0},
	}
	entities, err := shapeEntities(resp)
	if err != nil {
		t.Fatalf("shapeEntities: %v", err)
	}
	if len(entities) != 1 || entities[0].Type != "zombie" {
		t.Fatalf("unexpected entities: %+v", entities)
	}
}
