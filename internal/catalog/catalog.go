// Copyright 2026 The VibeCraft Authors
// SPDX-License-Identifier: Apache-2.0

// Package catalog loads VibeCraft's frozen reference data — block
// categories, furniture layouts, structure templates, and mask
// patterns — from embedded JSONC files once at process start, with an
// optional YAML file merged over the embedded defaults.
//
// Embedding static reference data via embed.FS and optionally
// overriding it from an on-disk YAML file follows the teacher's own
// lib/config package's layered-override style (base config plus
// environment overlays), adapted from a single mutable settings
// object to a frozen catalog because spec.md §9 calls for reference
// tables "loaded once" with no dynamic reload. JSONC comment
// stripping uses tidwall/jsonc, the only JSONC-aware library in the
// retrieved corpus; YAML override parsing uses gopkg.in/yaml.v3,
// which the teacher already depends on for lib/config.
package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/vibecraft/vibecraft/internal/schematic"
)

//go:embed data/*.jsonc
var embeddedData embed.FS

// PatternEntry is one named mask pattern.
type PatternEntry struct {
	ID          string `json:"id" yaml:"id"`
	Description string `json:"description" yaml:"description"`
	Mask        string `json:"mask" yaml:"mask"`
}

// StructureEntry is one furniture layout or template: a Catalog
// Entry carrying either an explicit layer list or a shape primitive,
// in the same shape the Schematic Expander consumes directly.
type StructureEntry struct {
	ID          string                             `json:"id" yaml:"id"`
	Description string                             `json:"description" yaml:"description"`
	Palette     map[string]structurePaletteEntry    `json:"palette" yaml:"palette"`
	Layers      []structureLayerEntry               `json:"layers,omitempty" yaml:"layers,omitempty"`
	Shape       string                              `json:"shape,omitempty" yaml:"shape,omitempty"`
}

type structurePaletteEntry struct {
	Block string            `json:"block" yaml:"block"`
	State map[string]string `json:"state,omitempty" yaml:"state,omitempty"`
}

type structureLayerEntry struct {
	Y       string `json:"y" yaml:"y"`
	RowText string `json:"row_text" yaml:"row_text"`
}

// BlockMetadata is the blocks.jsonc document: a style-category tag
// per block id, plus the hazard list.
type BlockMetadata struct {
	Categories map[string]string `json:"categories" yaml:"categories"`
	Hazards    []string          `json:"hazards" yaml:"hazards"`
}

// Catalog is the frozen, read-only set of reference data loaded at
// startup. All fields are populated once by Load and never mutated.
type Catalog struct {
	Patterns  map[string]PatternEntry
	Furniture map[string]StructureEntry
	Templates map[string]StructureEntry
	Blocks    BlockMetadata
}

// Load reads the embedded catalog files and, when overridePath is
// non-empty, merges a YAML override document over them. Override
// entries replace an embedded entry with the same id; they never
// partially merge fields within an entry.
func Load(overridePath string) (*Catalog, error) {
	cat := &Catalog{
		Patterns:  map[string]PatternEntry{},
		Furniture: map[string]StructureEntry{},
		Templates: map[string]StructureEntry{},
	}

	var patterns []PatternEntry
	if err := loadJSONC("data/patterns.jsonc", &patterns); err != nil {
		return nil, err
	}
	for _, p := range patterns {
		cat.Patterns[p.ID] = p
	}

	var furniture []StructureEntry
	if err := loadJSONC("data/furniture.jsonc", &furniture); err != nil {
		return nil, err
	}
	for _, f := range furniture {
		cat.Furniture[f.ID] = f
	}

	var templates []StructureEntry
	if err := loadJSONC("data/templates.jsonc", &templates); err != nil {
		return nil, err
	}
	for _, tpl := range templates {
		cat.Templates[tpl.ID] = tpl
	}

	if err := loadJSONC("data/blocks.jsonc", &cat.Blocks); err != nil {
		return nil, err
	}

	if overridePath != "" {
		if err := mergeOverride(cat, overridePath); err != nil {
			return nil, err
		}
	}

	return cat, nil
}

func loadJSONC(path string, dst any) error {
	raw, err := embeddedData.ReadFile(path)
	if err != nil {
		return fmt.Errorf("catalog: read %s: %w", path, err)
	}
	clean := jsonc.ToJSON(raw)
	if err := json.Unmarshal(clean, dst); err != nil {
		return fmt.Errorf("catalog: parse %s: %w", path, err)
	}
	return nil
}

// overrideDocument is the shape of an on-disk YAML override file: any
// of the four catalogs, each keyed the same way as the embedded
// defaults.
type overrideDocument struct {
	Patterns  []PatternEntry    `yaml:"patterns"`
	Furniture []StructureEntry  `yaml:"furniture"`
	Templates []StructureEntry  `yaml:"templates"`
	Blocks    *BlockMetadata    `yaml:"blocks"`
}

func mergeOverride(cat *Catalog, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("catalog: read override %s: %w", path, err)
	}
	var doc overrideDocument
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("catalog: parse override %s: %w", path, err)
	}
	for _, p := range doc.Patterns {
		cat.Patterns[p.ID] = p
	}
	for _, f := range doc.Furniture {
		cat.Furniture[f.ID] = f
	}
	for _, tpl := range doc.Templates {
		cat.Templates[tpl.ID] = tpl
	}
	if doc.Blocks != nil {
		cat.Blocks = *doc.Blocks
	}
	return nil
}

// ToSchematic converts a catalog structure entry into the expander's
// input type, so furniture/template lookup tools can hand their
// result straight to schematic.Expand after anchor resolution.
func (s StructureEntry) ToSchematic(facing string) *schematic.Schematic {
	palette := make(map[string]schematic.PaletteEntry, len(s.Palette))
	for sym, entry := range s.Palette {
		palette[sym] = schematic.PaletteEntry{Block: entry.Block, State: entry.State}
	}

	out := &schematic.Schematic{Palette: palette, Facing: facing}
	if s.Shape != "" {
		shape, err := schematic.ParseShape(s.Shape)
		if err == nil {
			out.Shape = shape
		}
		return out
	}
	for _, l := range s.Layers {
		out.Layers = append(out.Layers, schematic.LayerSpec{YOrRange: l.Y, RowText: l.RowText})
	}
	return out
}
