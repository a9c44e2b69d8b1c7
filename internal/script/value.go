// Copyright 2026 The VibeCraft Authors
// SPDX-License-Identifier: Apache-2.0

package script

import "fmt"

// Value is the dynamic value type script expressions evaluate to:
// float64, string, bool, or []Value. There is no object/map type —
// the grammar has no attribute access to put one behind.
type Value interface{}

// List is the concrete representation of a script-level list value.
type List []Value

func asFloat(v Value) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case bool:
		if n {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("expected a number, got %T", v)
	}
}

func asString(v Value) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("expected a string, got %T", v)
	}
	return s, nil
}

func asList(v Value) (List, error) {
	l, ok := v.(List)
	if !ok {
		return nil, fmt.Errorf("expected a list, got %T", v)
	}
	return l, nil
}

func asBool(v Value) bool {
	switch b := v.(type) {
	case bool:
		return b
	case float64:
		return b != 0
	case string:
		return b != ""
	case List:
		return len(b) > 0
	default:
		return v != nil
	}
}

func formatValue(v Value) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		if x == float64(int64(x)) {
			return fmt.Sprintf("%d", int64(x))
		}
		return fmt.Sprintf("%g", x)
	case bool:
		if x {
			return "true"
		}
		return "false"
	case List:
		out := "["
		for i, e := range x {
			if i > 0 {
				out += ", "
			}
			out += formatValue(e)
		}
		return out + "]"
	default:
		return fmt.Sprintf("%v", x)
	}
}
