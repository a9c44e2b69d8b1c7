// Copyright 2026 The VibeCraft Authors
// SPDX-License-Identifier: Apache-2.0

// Package buildengine implements the Build Engine: normalization of
// build inputs (script, schematic, or plain command list), all-or-
// nothing sanitization, WorldEdit mode enforcement (reject or
// downgrade large-region commands per the active policy), optional
// preview short-circuit, optional fill-coalescing, and sequential
// per-command dispatch through the Client Bridge with per-command
// outcome recording.
//
// The pipeline structure — normalize, validate everything up front,
// then dispatch sequentially while reporting incremental progress —
// is grounded on the teacher's lib/command package's three-tier
// execute/send/future model (doc.go), adapted from Matrix-room
// command dispatch to direct sequential calls against a single
// Bridge, since a build has no need for the teacher's asynchronous
// multi-target fan-out.
package buildengine

import (
	"context"
	"fmt"
	"time"

	"github.com/vibecraft/vibecraft/internal/buildlog"
	"github.com/vibecraft/vibecraft/internal/clientbridge"
	"github.com/vibecraft/vibecraft/internal/config"
	"github.com/vibecraft/vibecraft/internal/sanitizer"
	"github.com/vibecraft/vibecraft/internal/schematic"
	"github.com/vibecraft/vibecraft/internal/script"
	"github.com/vibecraft/vibecraft/internal/toolerr"
)

// Source identifies which normalization path a Request takes.
type Source string

const (
	SourceScript    Source = "script"
	SourceSchematic Source = "schematic"
	SourceList      Source = "list"
)

// Request is a single build invocation's input.
type Request struct {
	Source      Source
	ScriptSrc   string
	Schematic   *schematic.Schematic
	Commands    []string
	PreviewOnly bool
	AbortOnFirstFailure bool
	CommandTimeout      time.Duration
}

// Outcome is one command's dispatch result.
type Outcome struct {
	Command string
	Status  string // "applied", "failed", "skipped"
	Detail  string
}

// Result is the full outcome of a build invocation.
type Result struct {
	Outcomes []Outcome
	Applied  int
	Failed   int
	Skipped  int
}

// ProgressSink receives cumulative counts after every dispatched
// command.
type ProgressSink func(applied, failed, skipped, total int)

// Engine ties the Sandbox, Schematic Expander, Sanitizer, and Client
// Bridge together to satisfy a Build Request.
type Engine struct {
	bridge *clientbridge.Bridge
	cfg    *config.Config
	log    *buildlog.Log
}

func New(bridge *clientbridge.Bridge, cfg *config.Config) *Engine {
	return &Engine{bridge: bridge, cfg: cfg}
}

// WithLog attaches a command audit log. Passing nil restores the
// no-op default.
func (e *Engine) WithLog(log *buildlog.Log) *Engine {
	e.log = log
	return e
}

// Build runs the full pipeline for one request.
func (e *Engine) Build(ctx context.Context, req *Request, sink ProgressSink) (*Result, error) {
	commands, err := e.normalize(req)
	if err != nil {
		return nil, err
	}

	for _, cmd := range commands {
		if r := sanitizer.Sanitize(cmd, e.cfg); !r.Accepted {
			return nil, toolerr.ValidationError("sanitization rejected %q: %s (%s)", cmd, r.Reason, r.Rule)
		}
	}

	commands, err = e.applyWorldEditPolicy(commands)
	if err != nil {
		return nil, err
	}

	if req.PreviewOnly {
		outcomes := make([]Outcome, len(commands))
		for i, cmd := range commands {
			outcomes[i] = Outcome{Command: cmd, Status: "skipped", Detail: "preview"}
		}
		return &Result{Outcomes: outcomes, Skipped: len(outcomes)}, nil
	}

	commands = e.coalesce(commands)

	result := &Result{}
	timeout := req.CommandTimeout
	if timeout <= 0 {
		timeout = time.Duration(e.cfg.RequestTimeoutSeconds) * time.Second
	}

	for _, cmd := range commands {
		outcome := e.dispatch(ctx, cmd, timeout)
		if err := e.log.Append(outcome.Command, outcome.Status, outcome.Detail, time.Now()); err != nil {
			return nil, toolerr.InternalError("buildengine: audit log: %w", err)
		}
		result.Outcomes = append(result.Outcomes, outcome)
		switch outcome.Status {
		case "applied":
			result.Applied++
		case "failed":
			result.Failed++
		case "skipped":
			result.Skipped++
		}
		if sink != nil {
			sink(result.Applied, result.Failed, result.Skipped, len(commands))
		}
		if outcome.Status == "failed" && req.AbortOnFirstFailure {
			break
		}
	}
	return result, nil
}

func (e *Engine) dispatch(ctx context.Context, cmd string, timeout time.Duration) Outcome {
	resp, err := e.bridge.Request(ctx, "command.execute", map[string]any{"command": cmd}, timeout)
	if err != nil {
		return Outcome{Command: cmd, Status: "failed", Detail: err.Error()}
	}
	detail := fmt.Sprintf("%v", resp)
	return Outcome{Command: cmd, Status: "applied", Detail: detail}
}

func (e *Engine) normalize(req *Request) ([]string, error) {
	switch req.Source {
	case SourceList:
		if len(req.Commands) == 0 {
			return nil, toolerr.ValidationError("build: command list must not be empty")
		}
		return req.Commands, nil
	case SourceScript:
		commands, err := script.Run(req.ScriptSrc, "commands", script.DefaultQuotas)
		if err != nil {
			return nil, toolerr.ValidationError("build: sandbox: %v", err)
		}
		return commands, nil
	case SourceSchematic:
		if req.Schematic == nil {
			return nil, toolerr.ValidationError("build: schematic request missing schematic body")
		}
		commands, err := schematic.Expand(req.Schematic)
		if err != nil {
			return nil, toolerr.ValidationError("build: schematic: %v", err)
		}
		return commands, nil
	default:
		return nil, toolerr.ValidationError("build: unknown source %q", req.Source)
	}
}

// coalesce merges runs of adjacent single-block setblock commands
// that describe an axis-aligned line of the same block into a single
// WorldEdit //set-style fill, when large-region commands are
// permitted by the active WorldEdit mode. It is optimization-only:
// any uncertainty about legality or aliasing falls back to emitting
// the original unmerged commands.
func (e *Engine) coalesce(commands []string) []string {
	if e.cfg.WorldEditMode == config.WorldEditOff {
		return commands
	}
	if e.cfg.WorldEditMode == config.WorldEditAuto && e.bridge != nil && !e.bridge.WorldEditAvailable() {
		return commands
	}
	return coalesceSetblocks(commands)
}

// ResolvePlayerAnchor queries the Bridge once for the current player
// position, used by the Schematic Expander when a schematic's anchor
// names the player rather than fixed coordinates.
func (e *Engine) ResolvePlayerAnchor(ctx context.Context) (x, y, z int, err error) {
	resp, reqErr := e.bridge.Request(ctx, "player.context", map[string]any{"reach": 0}, 0)
	if reqErr != nil {
		return 0, 0, 0, reqErr
	}
	m, ok := resp.(map[string]any)
	if !ok {
		return 0, 0, 0, toolerr.InternalError("buildengine: malformed player.context response")
	}
	bx, _ := m["block_x"].(float64)
	by, _ := m["block_y"].(float64)
	bz, _ := m["block_z"].(float64)
	return int(bx), int(by), int(bz), nil
}
