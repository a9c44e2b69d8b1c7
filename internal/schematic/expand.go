// Copyright 2026 The VibeCraft Authors
// SPDX-License-Identifier: Apache-2.0

package schematic

import (
	"fmt"
	"sort"
)

// Expand runs the full resolution pipeline described for the
// Schematic Expander: resolve layers, rotate, and emit one placement
// command per non-air cell in bottom-to-top, north-to-south,
// west-to-east order. The anchor must already be resolved (see
// Anchor.ResolveWith) before calling Expand.
func Expand(s *Schematic) ([]string, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if !s.Anchor.resolved {
		return nil, fmt.Errorf("schematic: anchor must be resolved before expansion")
	}

	layers, err := resolveLayers(s)
	if err != nil {
		return nil, err
	}

	steps := rotationSteps(s.Facing)
	for i := range layers {
		layers[i].Grid = RotateGrid(layers[i].Grid, steps)
	}

	sort.SliceStable(layers, func(i, j int) bool { return layers[i].Y < layers[j].Y })

	mode := s.Mode
	if mode == "" {
		mode = "replace"
	}

	var commands []string
	for _, layer := range layers {
		for row := 0; row < len(layer.Grid); row++ {
			for col := 0; col < len(layer.Grid[row]); col++ {
				sym := layer.Grid[row][col]
				if sym == airSentinel || sym == "" {
					continue
				}
				entry, ok := s.Palette[sym]
				if !ok {
					return nil, fmt.Errorf("schematic: symbol %q has no palette entry", sym)
				}
				state := RotateBlockState(entry.State, steps)
				x := s.Anchor.X + col
				y := s.Anchor.Y + layer.Y
				z := s.Anchor.Z + row
				commands = append(commands, buildSetblock(x, y, z, entry.Block, state, mode))
			}
		}
	}
	return commands, nil
}

func resolveLayers(s *Schematic) ([]Layer, error) {
	if s.Shape != nil {
		return s.Shape.Layers()
	}

	var out []Layer
	for _, spec := range s.Layers {
		offsets, err := ParseYRange(spec.YOrRange)
		if err != nil {
			return nil, err
		}
		grid := spec.Grid
		if grid == nil {
			grid, err = DecodeRowString(spec.RowText)
			if err != nil {
				return nil, err
			}
		} else {
			grid = canonicalizeGrid(grid)
		}
		for _, y := range offsets {
			out = append(out, Layer{Y: y, Grid: grid})
		}
	}
	return out, nil
}

func canonicalizeGrid(grid [][]string) [][]string {
	out := make([][]string, len(grid))
	for r, row := range grid {
		out[r] = make([]string, len(row))
		for c, sym := range row {
			out[r][c] = canonicalSymbol(sym)
		}
	}
	return out
}

// buildSetblock formats a vanilla placement command with optional
// block-state attributes in Minecraft's "block[key=value,...]" syntax
// and a trailing placement mode (replace, keep, or destroy). Attribute
// order is sorted for determinism.
func buildSetblock(x, y, z int, block string, state map[string]string, mode string) string {
	blockSpec := block
	if len(state) > 0 {
		keys := make([]string, 0, len(state))
		for k := range state {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		blockSpec += "["
		for i, k := range keys {
			if i > 0 {
				blockSpec += ","
			}
			blockSpec += k + "=" + state[k]
		}
		blockSpec += "]"
	}
	return fmt.Sprintf("/setblock %d %d %d %s %s", x, y, z, blockSpec, mode)
}
