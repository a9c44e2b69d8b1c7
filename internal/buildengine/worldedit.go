// Copyright 2026 The VibeCraft Authors
// SPDX-License-Identifier: Apache-2.0

package buildengine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/vibecraft/vibecraft/internal/config"
	"github.com/vibecraft/vibecraft/internal/toolerr"
)

var fillPattern = regexp.MustCompile(`^//fill (-?\d+),(-?\d+),(-?\d+) (-?\d+),(-?\d+),(-?\d+) (\S+)$`)

// applyWorldEditPolicy enforces the active WorldEditMode against every
// large-region ("//...") command before it reaches coalescing or
// dispatch: off rejects them outright, auto downgrades or rejects them
// per WorldEditFallback when the peer hasn't reported WorldEdit
// available, and force passes them through unchanged and lets any
// rejection surface from the peer itself.
func (e *Engine) applyWorldEditPolicy(commands []string) ([]string, error) {
	if e.cfg.WorldEditMode == config.WorldEditForce {
		return commands, nil
	}

	available := e.bridge != nil && e.bridge.WorldEditAvailable()
	out := make([]string, 0, len(commands))
	for _, cmd := range commands {
		if !strings.HasPrefix(cmd, "//") {
			out = append(out, cmd)
			continue
		}

		switch {
		case e.cfg.WorldEditMode == config.WorldEditOff:
			return nil, toolerr.ForbiddenError("buildengine: large-region command %q rejected: worldedit mode is off", cmd)

		case e.cfg.WorldEditMode == config.WorldEditAuto && !available:
			if e.cfg.WorldEditFallback != config.FallbackVanilla {
				return nil, toolerr.ForbiddenError("buildengine: large-region command %q rejected: worldedit unavailable", cmd)
			}
			vanilla, err := vanillaEquivalent(cmd)
			if err != nil {
				return nil, toolerr.ForbiddenError("buildengine: large-region command %q has no vanilla fallback: %v", cmd, err)
			}
			out = append(out, vanilla...)

		default: // auto and available
			out = append(out, cmd)
		}
	}
	return out, nil
}

// vanillaEquivalent expands a //fill command into the equivalent
// sequence of /setblock commands, for the "fallback: vanilla"
// downgrade. Only //fill is recognized; any other large-region
// command has no vanilla equivalent to downgrade to.
func vanillaEquivalent(cmd string) ([]string, error) {
	m := fillPattern.FindStringSubmatch(cmd)
	if m == nil {
		return nil, fmt.Errorf("no known vanilla equivalent")
	}
	x1, _ := strconv.Atoi(m[1])
	y1, _ := strconv.Atoi(m[2])
	z1, _ := strconv.Atoi(m[3])
	x2, _ := strconv.Atoi(m[4])
	y2, _ := strconv.Atoi(m[5])
	z2, _ := strconv.Atoi(m[6])
	block := m[7]

	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	if z1 > z2 {
		z1, z2 = z2, z1
	}

	var out []string
	for x := x1; x <= x2; x++ {
		for y := y1; y <= y2; y++ {
			for z := z1; z <= z2; z++ {
				out = append(out, fmt.Sprintf("/setblock %d %d %d %s", x, y, z, block))
			}
		}
	}
	return out, nil
}
