// Copyright 2026 The VibeCraft Authors
// SPDX-License-Identifier: Apache-2.0

package schematic

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseYRange expands a layer's vertical-offset field, either a bare
// integer or an "i-j" inclusive range, into the enumerated Y offsets
// it names.
func ParseYRange(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("schematic: empty layer offset")
	}
	if idx := strings.IndexByte(s, '-'); idx > 0 {
		lo, err := strconv.Atoi(s[:idx])
		if err != nil {
			return nil, fmt.Errorf("schematic: invalid range start %q: %w", s, err)
		}
		hi, err := strconv.Atoi(s[idx+1:])
		if err != nil {
			return nil, fmt.Errorf("schematic: invalid range end %q: %w", s, err)
		}
		if hi < lo {
			return nil, fmt.Errorf("schematic: layer range %q has end before start", s)
		}
		out := make([]int, 0, hi-lo+1)
		for y := lo; y <= hi; y++ {
			out = append(out, y)
		}
		return out, nil
	}
	y, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("schematic: invalid layer offset %q: %w", s, err)
	}
	return []int{y}, nil
}

// isAirSymbol reports whether a raw row-string symbol represents the
// reserved air sentinel.
func isAirSymbol(sym string) bool {
	return sym == "." || sym == "_" || sym == ""
}

// DecodeRowString decodes one layer's compact RLE row-string into a
// row-major grid of symbols. Rows are separated by '|'; within a row,
// tokens are separated by spaces. A bare symbol places one cell;
// "S*N" repeats a symbol N times horizontally; a trailing "~N" on a
// row repeats that entire decoded row N times going south.
func DecodeRowString(text string) ([][]string, error) {
	rawRows := strings.Split(text, "|")
	var grid [][]string
	for _, raw := range rawRows {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		repeat := 1
		if idx := strings.LastIndex(raw, "~"); idx >= 0 {
			n, err := strconv.Atoi(strings.TrimSpace(raw[idx+1:]))
			if err != nil {
				return nil, fmt.Errorf("schematic: invalid row repeat %q: %w", raw, err)
			}
			repeat = n
			raw = strings.TrimSpace(raw[:idx])
		}

		row, err := decodeRowTokens(raw)
		if err != nil {
			return nil, err
		}
		for i := 0; i < repeat; i++ {
			grid = append(grid, append([]string{}, row...))
		}
	}
	return grid, nil
}

func decodeRowTokens(raw string) ([]string, error) {
	var row []string
	for _, tok := range strings.Fields(raw) {
		if idx := strings.IndexByte(tok, '*'); idx > 0 {
			sym := tok[:idx]
			n, err := strconv.Atoi(tok[idx+1:])
			if err != nil {
				return nil, fmt.Errorf("schematic: invalid repeat token %q: %w", tok, err)
			}
			for i := 0; i < n; i++ {
				row = append(row, canonicalSymbol(sym))
			}
			continue
		}
		row = append(row, canonicalSymbol(tok))
	}
	return row, nil
}

func canonicalSymbol(sym string) string {
	if isAirSymbol(sym) {
		return airSentinel
	}
	return sym
}
