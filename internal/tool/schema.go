// Copyright 2026 The VibeCraft Authors
// SPDX-License-Identifier: Apache-2.0

package tool

// Schema is a hand-authored JSON-schema-shaped description of a
// tool's arguments, published verbatim on tools/list. Unlike the
// teacher's reflection-based cmd/bureau/cli/schema.go (which derives
// a Schema from a Go struct's fields), VibeCraft's tool arguments are
// loosely-typed domain payloads (schematics, scripts) that don't map
// cleanly onto a single Go struct, so each tool's schema is authored
// directly — closer to the explicit JSON schemas the original Python
// implementation's tool_schemas.py hand-writes for the same tools.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
	Default     any                `json:"default,omitempty"`
}

func obj(description string, props map[string]*Schema, required ...string) Schema {
	return Schema{Type: "object", Description: description, Properties: props, Required: required}
}

func str(description string) *Schema    { return &Schema{Type: "string", Description: description} }
func num(description string) *Schema    { return &Schema{Type: "number", Description: description} }
func boolean(description string) *Schema { return &Schema{Type: "boolean", Description: description} }
func strEnum(description string, values ...string) *Schema {
	return &Schema{Type: "string", Description: description, Enum: values}
}
func arr(items *Schema, description string) *Schema {
	return &Schema{Type: "array", Description: description, Items: items}
}

var commandExecuteSchema = obj("Sanitize and dispatch a single game command.", map[string]*Schema{
	"command": str("The command string to execute, e.g. \"/setblock 0 64 0 minecraft:stone\"."),
}, "command")

var serverInfoSchema = obj("Fetch the connected server's player list, time, and difficulty.", nil)

var playerContextSchema = obj("Fetch the player's position, rotation, look target, and held item.", map[string]*Schema{
	"reach": num("Maximum ray-cast distance in blocks, for the look-target search."),
})

var nearbyEntitiesSchema = obj("List entities within a radius of the player.", map[string]*Schema{
	"radius": num("Search radius in blocks."),
}, "radius")

var surfaceLevelSchema = obj("Find the Y of the highest non-air block at a given x,z.", map[string]*Schema{
	"x": num("X coordinate."),
	"z": num("Z coordinate."),
}, "x", "z")

var regionScanSchema = obj("Scan a rectangular region into a Region Snapshot.", map[string]*Schema{
	"x1": num("First corner X."), "y1": num("First corner Y."), "z1": num("First corner Z."),
	"x2": num("Second corner X."), "y2": num("Second corner Y."), "z2": num("Second corner Z."),
	"include_states": boolean("Include block-state attributes in the snapshot."),
}, "x1", "y1", "z1", "x2", "y2", "z2")

var heightmapSchema = obj("Compute surface Y and block id per column over a rectangular area.", map[string]*Schema{
	"x1": num("First corner X."), "z1": num("First corner Z."),
	"x2": num("Second corner X."), "z2": num("Second corner Z."),
}, "x1", "z1", "x2", "z2")

var paletteAnalyzeSchema = obj("Analyze the block palette within a radius of a point.", map[string]*Schema{
	"x": num("Center X."), "y": num("Center Y."), "z": num("Center Z."),
	"radius": num("Sample radius in blocks."),
})

var lightAnalyzeSchema = obj("Analyze light levels over a region, flagging dark spots.", map[string]*Schema{
	"x1": num("First corner X."), "y1": num("First corner Y."), "z1": num("First corner Z."),
	"x2": num("Second corner X."), "y2": num("Second corner Y."), "z2": num("Second corner Z."),
	"resolution": num("Sampling step, 1 to 4 inclusive."),
}, "x1", "y1", "z1", "x2", "y2", "z2")

var symmetryCheckSchema = obj("Check a region for mirror symmetry across an axis.", map[string]*Schema{
	"x1": num("First corner X."), "y1": num("First corner Y."), "z1": num("First corner Z."),
	"x2": num("Second corner X."), "y2": num("Second corner Y."), "z2": num("Second corner Z."),
	"axis":       strEnum("Mirror axis.", "x", "y", "z"),
	"tolerance":  num("Allowed mismatch fraction before the verdict flips to asymmetric."),
	"resolution": num("Sampling step, 1 to 4 inclusive."),
}, "x1", "y1", "z1", "x2", "y2", "z2", "axis")

var screenshotCaptureSchema = obj("Capture a screenshot from the player's current view.", map[string]*Schema{
	"max_width":  num("Maximum image width in pixels."),
	"max_height": num("Maximum image height in pixels."),
})

var buildSchema = obj("Run the Build Engine over a script, schematic, or command list.", map[string]*Schema{
	"source":       strEnum("Which normalization path to use.", "script", "schematic", "list"),
	"script":       str("Sandbox script source, required when source is \"script\"."),
	"schematic":    &Schema{Type: "object", Description: "Schematic body (including an optional \"mode\": replace, keep, or destroy), required when source is \"schematic\"."},
	"commands":     arr(str(""), "Plain command list, required when source is \"list\"."),
	"preview_only": boolean("Report what would run without dispatching anything."),
	"abort_on_first_failure": boolean("Stop dispatching after the first failed command."),
}, "source")

var lookupSchema = obj("Look up a catalog entry by id.", map[string]*Schema{
	"id": str("Catalog entry id."),
}, "id")

var validateMaskSchema = obj("Explain a WorldEdit-style block mask expression.", map[string]*Schema{
	"mask": str("The mask expression to analyze, e.g. \"#stone,!air\"."),
}, "mask")
