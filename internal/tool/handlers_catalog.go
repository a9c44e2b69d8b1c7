// Copyright 2026 The VibeCraft Authors
// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/vibecraft/vibecraft/internal/toolerr"
)

type lookupArgs struct {
	ID string `json:"id"`
}

func patternLookupHandler(deps *Deps) Handler {
	return func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args lookupArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		entry, ok := deps.Catalog.Patterns[args.ID]
		if !ok {
			return nil, toolerr.NotFoundError("pattern_lookup: no pattern named %q", args.ID)
		}
		return entry, nil
	}
}

func furnitureLookupHandler(deps *Deps) Handler {
	return func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args lookupArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		entry, ok := deps.Catalog.Furniture[args.ID]
		if !ok {
			return nil, toolerr.NotFoundError("furniture_lookup: no furniture layout named %q", args.ID)
		}
		return entry, nil
	}
}

func templateLookupHandler(deps *Deps) Handler {
	return func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args lookupArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		entry, ok := deps.Catalog.Templates[args.ID]
		if !ok {
			return nil, toolerr.NotFoundError("template_lookup: no template named %q", args.ID)
		}
		return entry, nil
	}
}

// maskTermExplanation is one clause of a decomposed WorldEdit-style
// mask expression.
type maskTermExplanation struct {
	Term        string `json:"term"`
	Kind        string `json:"kind"`
	Explanation string `json:"explanation"`
}

type validateMaskArgs struct {
	Mask string `json:"mask"`
}

// validateMaskHandler explains a WorldEdit-style block mask
// expression term by term without contacting the Bridge. The prefix
// vocabulary (#, !, %, =, >, <) is grounded on the original Python
// implementation's tools/validation.py, which performs this same
// character-class analysis to produce a human-readable mask
// explanation for the model before any command is dispatched.
func validateMaskHandler(deps *Deps) Handler {
	return func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args validateMaskArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		if strings.TrimSpace(args.Mask) == "" {
			return nil, toolerr.ValidationError("validate_mask: \"mask\" is required")
		}
		terms := strings.Split(args.Mask, ",")
		explanations := make([]maskTermExplanation, 0, len(terms))
		for _, term := range terms {
			term = strings.TrimSpace(term)
			if term == "" {
				continue
			}
			explanations = append(explanations, explainMaskTerm(term))
		}
		return map[string]any{"mask": args.Mask, "terms": explanations}, nil
	}
}

func explainMaskTerm(term string) maskTermExplanation {
	switch {
	case strings.HasPrefix(term, "!"):
		return maskTermExplanation{term, "negation", "matches blocks NOT equal to " + term[1:]}
	case strings.HasPrefix(term, "#"):
		return maskTermExplanation{term, "function", "invokes the WorldEdit mask function " + term[1:]}
	case strings.HasPrefix(term, "%"):
		return maskTermExplanation{term, "percentage", "applies a probabilistic weight of " + term[1:] + "%"}
	case strings.HasPrefix(term, ">="), strings.HasPrefix(term, "<="):
		return maskTermExplanation{term, "range_bound", "bounds a numeric block property by " + term}
	case strings.HasPrefix(term, ">"):
		return maskTermExplanation{term, "above", "matches blocks above light/height value " + term[1:]}
	case strings.HasPrefix(term, "<"):
		return maskTermExplanation{term, "below", "matches blocks below light/height value " + term[1:]}
	case strings.Contains(term, "="):
		return maskTermExplanation{term, "state_match", "matches a specific block-state attribute: " + term}
	default:
		return maskTermExplanation{term, "block_id", "matches the literal block id " + term}
	}
}
