// Copyright 2026 The VibeCraft Authors
// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"encoding/json"

	"github.com/vibecraft/vibecraft/internal/buildengine"
	"github.com/vibecraft/vibecraft/internal/schematic"
	"github.com/vibecraft/vibecraft/internal/toolerr"
)

type schematicArgs struct {
	Anchor struct {
		Player bool `json:"player"`
		X      int  `json:"x"`
		Y      int  `json:"y"`
		Z      int  `json:"z"`
	} `json:"anchor"`
	Palette map[string]struct {
		Block string            `json:"block"`
		State map[string]string `json:"state,omitempty"`
	} `json:"palette"`
	Shape  string `json:"shape,omitempty"`
	Facing string `json:"facing,omitempty"`
	Mode   string `json:"mode,omitempty"`
	Layers []struct {
		Y       string `json:"y"`
		RowText string `json:"row_text"`
	} `json:"layers,omitempty"`
}

func (a schematicArgs) toSchematic() *schematic.Schematic {
	palette := make(map[string]schematic.PaletteEntry, len(a.Palette))
	for sym, e := range a.Palette {
		palette[sym] = schematic.PaletteEntry{Block: e.Block, State: e.State}
	}
	sch := &schematic.Schematic{
		Anchor:  schematic.Anchor{Player: a.Anchor.Player, X: a.Anchor.X, Y: a.Anchor.Y, Z: a.Anchor.Z},
		Palette: palette,
		Facing:  a.Facing,
		Mode:    a.Mode,
	}
	if a.Shape != "" {
		shape, err := schematic.ParseShape(a.Shape)
		if err == nil {
			sch.Shape = shape
		}
		return sch
	}
	for _, l := range a.Layers {
		sch.Layers = append(sch.Layers, schematic.LayerSpec{YOrRange: l.Y, RowText: l.RowText})
	}
	return sch
}

type buildArgs struct {
	Source              string         `json:"source"`
	Script              string         `json:"script"`
	Schematic           *schematicArgs `json:"schematic"`
	Commands            []string       `json:"commands"`
	PreviewOnly         bool           `json:"preview_only"`
	AbortOnFirstFailure bool           `json:"abort_on_first_failure"`
}

func buildHandler(deps *Deps) Handler {
	return func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args buildArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}

		req := &buildengine.Request{
			Source:              buildengine.Source(args.Source),
			ScriptSrc:           args.Script,
			Commands:            args.Commands,
			PreviewOnly:         args.PreviewOnly,
			AbortOnFirstFailure: args.AbortOnFirstFailure,
		}

		if args.Schematic != nil {
			sch := args.Schematic.toSchematic()
			if sch.Anchor.Player {
				x, y, z, err := deps.Engine.ResolvePlayerAnchor(ctx)
				if err != nil {
					return nil, err
				}
				sch.Anchor = sch.Anchor.ResolveWith(x, y, z)
			} else {
				sch.Anchor = sch.Anchor.ResolveWith(sch.Anchor.X, sch.Anchor.Y, sch.Anchor.Z)
			}
			if err := sch.Validate(); err != nil {
				return nil, toolerr.ValidationError("build: %v", err)
			}
			req.Schematic = sch
		}

		result, err := deps.Engine.Build(ctx, req, nil)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"applied":  result.Applied,
			"failed":   result.Failed,
			"skipped":  result.Skipped,
			"outcomes": result.Outcomes,
		}, nil
	}
}
