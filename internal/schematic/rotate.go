// Copyright 2026 The VibeCraft Authors
// SPDX-License-Identifier: Apache-2.0

package schematic

import "strconv"

// rotationSteps returns how many 90-degree clockwise steps are needed
// to turn a layer authored facing north into one facing the given
// direction.
func rotationSteps(facing string) int {
	switch facing {
	case "", "north":
		return 0
	case "east":
		return 1
	case "south":
		return 2
	case "west":
		return 3
	default:
		return 0
	}
}

// RotateGrid rotates a row-major grid clockwise by steps * 90
// degrees, where +row is south and +col is east. A clockwise rotation
// about the vertical axis sends north-facing content to face east.
func RotateGrid(grid [][]string, steps int) [][]string {
	for i := 0; i < ((steps % 4) + 4) % 4; i++ {
		grid = rotateOnce(grid)
	}
	return grid
}

func rotateOnce(grid [][]string) [][]string {
	if len(grid) == 0 {
		return grid
	}
	rows := len(grid)
	cols := len(grid[0])
	out := make([][]string, cols)
	for r := range out {
		out[r] = make([]string, rows)
	}
	// A 90-degree clockwise rotation of a grid indexed [row][col] with
	// row=south, col=east: out[c][rows-1-r] = grid[r][c].
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			out[c][rows-1-r] = grid[r][c]
		}
	}
	return out
}

// cardinalRotation maps an orientation value one 90-degree clockwise
// step, for block-state attributes that name a horizontal direction
// ("facing", "hinge" left/right pairs stay fixed, "shape" stays
// fixed). Values outside this set are returned unchanged.
var cardinalRotation = map[string]string{
	"north": "east",
	"east":  "south",
	"south": "west",
	"west":  "north",
}

// RotateBlockState applies `steps` 90-degree clockwise rotations to
// every direction-valued attribute in state, returning a new map.
// "axis" values (x/y/z) swap x and z on an odd number of steps and
// are unaffected by an even number, since a vertical-axis rotation
// exchanges the two horizontal axes every 90 degrees.
//
// "half" (top/bottom) is genuinely rotation-invariant about the
// vertical axis and always passes through unchanged. "shape" (stairs:
// straight/inner_left/inner_right/outer_left/outer_right) and "hinge"
// (doors: left/right) are direction-relative, not direction-valued —
// their correct transform depends on the already-rotated "facing" on
// the same block, which this function does not have enough context to
// derive correctly in every case (see the partial-specification note
// this is grounded on). They are kept identity rather than rotated
// incorrectly; a caller that needs exact stair/door orientation after
// rotation must post-process those two keys itself.
//
// "rotation" (signs: 0-15 in 22.5-degree steps) is a genuine cardinal
// value, unlike "shape"/"hinge", and is rotated by 4 * steps mod 16.
func RotateBlockState(state map[string]string, steps int) map[string]string {
	steps = ((steps % 4) + 4) % 4
	if steps == 0 || len(state) == 0 {
		return state
	}
	out := make(map[string]string, len(state))
	for k, v := range state {
		switch k {
		case "facing":
			rv := v
			for i := 0; i < steps; i++ {
				if next, ok := cardinalRotation[rv]; ok {
					rv = next
				}
			}
			out[k] = rv
		case "axis":
			if steps%2 == 1 && (v == "x" || v == "z") {
				if v == "x" {
					out[k] = "z"
				} else {
					out[k] = "x"
				}
			} else {
				out[k] = v
			}
		case "half", "shape", "hinge":
			// Identity by design; see the function doc comment.
			out[k] = v
		case "rotation":
			// Sign rotation: 0-15 in 22.5-degree increments, so one
			// 90-degree clockwise step is +4, wrapping mod 16.
			if n, err := strconv.Atoi(v); err == nil {
				out[k] = strconv.Itoa(((n+4*steps)%16 + 16) % 16)
			} else {
				out[k] = v
			}
		default:
			out[k] = v
		}
	}
	return out
}
