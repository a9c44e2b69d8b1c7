// Copyright 2026 The VibeCraft Authors
// SPDX-License-Identifier: Apache-2.0

package buildengine

import (
	"fmt"
	"regexp"
	"strconv"
)

var setblockPattern = regexp.MustCompile(`^/setblock (-?\d+) (-?\d+) (-?\d+) (\S+)$`)

type setblockCmd struct {
	x, y, z int
	block   string
}

// coalesceSetblocks scans for maximal runs of adjacent /setblock
// commands along a single axis that place the same block, and
// replaces each run of length >= 2 with a single //fill command
// spanning the run. Commands that don't parse as a bare
// "/setblock x y z block" (no trailing mode or extra arguments), or
// that don't form a contiguous axis-aligned run, are
// left untouched and emitted as-is, in their original relative order.
func coalesceSetblocks(commands []string) []string {
	var out []string
	i := 0
	for i < len(commands) {
		cur, ok := parseSetblock(commands[i])
		if !ok {
			out = append(out, commands[i])
			i++
			continue
		}

		j := i + 1
		axis := -1 // 0=x, 1=y, 2=z
		for j < len(commands) {
			next, ok := parseSetblock(commands[j])
			if !ok || next.block != cur.block {
				break
			}
			a, adjacent := adjacentAxis(cur, next)
			if !adjacent {
				break
			}
			if axis == -1 {
				axis = a
			} else if axis != a {
				break
			}
			cur = next
			j++
		}

		runLen := j - i
		if runLen < 2 {
			out = append(out, commands[i])
			i++
			continue
		}

		first, _ := parseSetblock(commands[i])
		out = append(out, fillCommand(first, cur))
		i = j
	}
	return out
}

func parseSetblock(cmd string) (setblockCmd, bool) {
	m := setblockPattern.FindStringSubmatch(cmd)
	if m == nil {
		return setblockCmd{}, false
	}
	x, _ := strconv.Atoi(m[1])
	y, _ := strconv.Atoi(m[2])
	z, _ := strconv.Atoi(m[3])
	return setblockCmd{x: x, y: y, z: z, block: m[4]}, true
}

// adjacentAxis reports whether b is exactly one step from a along a
// single axis, with the other two coordinates unchanged, and if so
// which axis (0=x, 1=y, 2=z).
func adjacentAxis(a, b setblockCmd) (int, bool) {
	dx, dy, dz := b.x-a.x, b.y-a.y, b.z-a.z
	switch {
	case dx == 1 && dy == 0 && dz == 0:
		return 0, true
	case dx == 0 && dy == 1 && dz == 0:
		return 1, true
	case dx == 0 && dy == 0 && dz == 1:
		return 2, true
	default:
		return -1, false
	}
}

func fillCommand(from, to setblockCmd) string {
	return fmt.Sprintf("//fill %d,%d,%d %d,%d,%d %s", from.x, from.y, from.z, to.x, to.y, to.z, from.block)
}
