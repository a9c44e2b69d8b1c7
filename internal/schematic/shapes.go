// Copyright 2026 The VibeCraft Authors
// SPDX-License-Identifier: Apache-2.0

package schematic

import (
	"fmt"
	"strconv"
	"strings"
)

// ShapeSpec is a decoded shape primitive, one of fill/outline/walls/
// frame/box/room, parsed from the compact "kind:dims:symbols" string.
type ShapeSpec struct {
	Kind          string
	Width, Height, Depth int
	Symbol, Border, Interior, Wall, Floor string
}

// ParseShape parses a shape primitive string, e.g. "fill:5x5:S" or
// "room:5x3x5:W:F".
func ParseShape(s string) (*ShapeSpec, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return nil, fmt.Errorf("schematic: invalid shape %q", s)
	}
	kind := parts[0]
	spec := &ShapeSpec{Kind: kind}

	switch kind {
	case "fill", "outline", "walls":
		if len(parts) != 3 {
			return nil, fmt.Errorf("schematic: %s requires WxD:S, got %q", kind, s)
		}
		w, d, err := parseWxD(parts[1])
		if err != nil {
			return nil, err
		}
		spec.Width, spec.Depth = w, d
		spec.Symbol = parts[2]
	case "frame":
		if len(parts) != 4 {
			return nil, fmt.Errorf("schematic: frame requires WxD:B:I, got %q", s)
		}
		w, d, err := parseWxD(parts[1])
		if err != nil {
			return nil, err
		}
		spec.Width, spec.Depth = w, d
		spec.Border, spec.Interior = parts[2], parts[3]
	case "box":
		if len(parts) != 3 {
			return nil, fmt.Errorf("schematic: box requires WxHxD:S, got %q", s)
		}
		w, h, d, err := parseWxHxD(parts[1])
		if err != nil {
			return nil, err
		}
		spec.Width, spec.Height, spec.Depth = w, h, d
		spec.Symbol = parts[2]
	case "room":
		if len(parts) != 4 {
			return nil, fmt.Errorf("schematic: room requires WxHxD:W:F, got %q", s)
		}
		w, h, d, err := parseWxHxD(parts[1])
		if err != nil {
			return nil, err
		}
		spec.Width, spec.Height, spec.Depth = w, h, d
		spec.Wall, spec.Floor = parts[2], parts[3]
	default:
		return nil, fmt.Errorf("schematic: unknown shape kind %q", kind)
	}
	return spec, nil
}

func parseWxD(s string) (int, int, error) {
	idx := strings.IndexByte(s, 'x')
	if idx < 0 {
		return 0, 0, fmt.Errorf("schematic: invalid WxD dims %q", s)
	}
	w, err := strconv.Atoi(s[:idx])
	if err != nil {
		return 0, 0, fmt.Errorf("schematic: invalid width in %q: %w", s, err)
	}
	d, err := strconv.Atoi(s[idx+1:])
	if err != nil {
		return 0, 0, fmt.Errorf("schematic: invalid depth in %q: %w", s, err)
	}
	return w, d, nil
}

func parseWxHxD(s string) (int, int, int, error) {
	parts := strings.Split(s, "x")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("schematic: invalid WxHxD dims %q", s)
	}
	w, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("schematic: invalid width in %q: %w", s, err)
	}
	h, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("schematic: invalid height in %q: %w", s, err)
	}
	d, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("schematic: invalid depth in %q: %w", s, err)
	}
	return w, h, d, nil
}

// Layers expands a shape primitive into its full Layer set, with Y
// offsets starting at 0.
func (sp *ShapeSpec) Layers() ([]Layer, error) {
	switch sp.Kind {
	case "fill":
		return []Layer{{Y: 0, Grid: rect(sp.Width, sp.Depth, sp.Symbol)}}, nil
	case "outline", "walls":
		return []Layer{{Y: 0, Grid: outline(sp.Width, sp.Depth, sp.Symbol)}}, nil
	case "frame":
		return []Layer{{Y: 0, Grid: frame(sp.Width, sp.Depth, sp.Border, sp.Interior)}}, nil
	case "box":
		return boxLayers(sp.Width, sp.Height, sp.Depth, sp.Symbol, sp.Symbol, sp.Symbol), nil
	case "room":
		return boxLayers(sp.Width, sp.Height, sp.Depth, sp.Wall, sp.Floor, sp.Wall), nil
	default:
		return nil, fmt.Errorf("schematic: unknown shape kind %q", sp.Kind)
	}
}

func rect(w, d int, sym string) [][]string {
	grid := make([][]string, d)
	for r := range grid {
		grid[r] = make([]string, w)
		for c := range grid[r] {
			grid[r][c] = sym
		}
	}
	return grid
}

func outline(w, d int, sym string) [][]string {
	grid := rect(w, d, airSentinel)
	for c := 0; c < w; c++ {
		grid[0][c] = sym
		grid[d-1][c] = sym
	}
	for r := 0; r < d; r++ {
		grid[r][0] = sym
		grid[r][w-1] = sym
	}
	return grid
}

func frame(w, d int, border, interior string) [][]string {
	grid := rect(w, d, interior)
	for c := 0; c < w; c++ {
		grid[0][c] = border
		grid[d-1][c] = border
	}
	for r := 0; r < d; r++ {
		grid[r][0] = border
		grid[r][w-1] = border
	}
	return grid
}

// boxLayers builds a hollow box: a solid floor (layer 0, floorSym), a
// hollow-walled interior (layers 1..h-2, wallSym border + air
// interior), and a solid ceiling (layer h-1, ceilingSym). h must be
// at least 2; a height of exactly 2 yields just floor and ceiling.
func boxLayers(w, h, d int, wallSym, floorSym, ceilingSym string) []Layer {
	layers := make([]Layer, 0, h)
	layers = append(layers, Layer{Y: 0, Grid: rect(w, d, floorSym)})
	for y := 1; y < h-1; y++ {
		layers = append(layers, Layer{Y: y, Grid: outline(w, d, wallSym)})
	}
	if h > 1 {
		layers = append(layers, Layer{Y: h - 1, Grid: rect(w, d, ceilingSym)})
	}
	return layers
}
