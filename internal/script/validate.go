// Copyright 2026 The VibeCraft Authors
// SPDX-License-Identifier: Apache-2.0

package script

import (
	"fmt"
	"strings"
)

// allowedBuiltins is the closed set of pure functions a script may
// call, grounded on the original implementation's code_sandbox.py
// BLOCKED_FUNCTION_NAMES list inverted into an allowlist: only names
// that cannot reach the filesystem, network, process environment, or
// interpreter internals are present.
var allowedBuiltins = map[string]bool{
	"range": true, "len": true, "enumerate": true, "zip": true,
	"abs": true, "min": true, "max": true, "int": true, "float": true, "str": true,
	"sin": true, "cos": true, "tan": true, "sqrt": true,
	"floor": true, "ceil": true, "round": true,
}

// mathConstants names the standard math module's constants exposed
// as bare identifiers.
var mathConstants = map[string]bool{"pi": true, "e": true}

// allowedMethods is the closed set of receiver methods a script may
// call: list mutation and the one string-formatting helper.
var allowedMethods = map[string]bool{
	"append": true, "extend": true, "format": true,
}

// Validate statically inspects a parsed Program before execution,
// rejecting anything outside the allowed construct set. This mirrors
// the original implementation's approach of walking a parsed AST
// against an allowlist before ever running the code, adapted to this
// language's own node kinds (there is no FunctionDef, Lambda, Import,
// With, Try, or raw attribute-access node in this grammar at all, so
// those restrictions are enforced by the grammar itself; this pass
// additionally rejects private/dunder-looking names and calls to
// names outside the two allowlists above).
func Validate(prog *Program) error {
	v := &validator{}
	for _, stmt := range prog.Statements {
		if err := v.checkStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

type validator struct{}

func (v *validator) checkStmt(n Node) error {
	switch s := n.(type) {
	case *AssignStmt:
		if err := v.checkName(s.Name, s.Line); err != nil {
			return err
		}
		return v.checkExpr(s.Value)
	case *AugAssignStmt:
		if err := v.checkName(s.Name, s.Line); err != nil {
			return err
		}
		return v.checkExpr(s.Value)
	case *ExprStmt:
		return v.checkExpr(s.X)
	case *IfStmt:
		if err := v.checkExpr(s.Cond); err != nil {
			return err
		}
		for _, st := range s.Then {
			if err := v.checkStmt(st); err != nil {
				return err
			}
		}
		for _, ei := range s.Elifs {
			if err := v.checkExpr(ei.Cond); err != nil {
				return err
			}
			for _, st := range ei.Body {
				if err := v.checkStmt(st); err != nil {
					return err
				}
			}
		}
		for _, st := range s.Else {
			if err := v.checkStmt(st); err != nil {
				return err
			}
		}
		return nil
	case *ForStmt:
		if err := v.checkName(s.VarName, s.Line); err != nil {
			return err
		}
		if err := v.checkExpr(s.Iter); err != nil {
			return err
		}
		for _, st := range s.Body {
			if err := v.checkStmt(st); err != nil {
				return err
			}
		}
		return nil
	case *BreakStmt, *ContinueStmt:
		return nil
	default:
		return fmt.Errorf("script: unrecognized statement %T", n)
	}
}

func (v *validator) checkExpr(e Expr) error {
	switch x := e.(type) {
	case *NumberLit, *StringLit, *BoolLit:
		return nil
	case *Ident:
		return v.checkName(x.Name, x.Line)
	case *ListLit:
		for _, el := range x.Elements {
			if err := v.checkExpr(el); err != nil {
				return err
			}
		}
		return nil
	case *IndexExpr:
		if err := v.checkExpr(x.X); err != nil {
			return err
		}
		return v.checkExpr(x.Index)
	case *AttrCall:
		if !allowedMethods[x.Method] {
			return fmt.Errorf("script: line %d: method %q is not permitted", x.Line, x.Method)
		}
		if err := v.checkExpr(x.Receiver); err != nil {
			return err
		}
		for _, a := range x.Args {
			if err := v.checkExpr(a); err != nil {
				return err
			}
		}
		return nil
	case *CallExpr:
		if !allowedBuiltins[x.Func] {
			return fmt.Errorf("script: line %d: call to %q is not permitted", x.Line, x.Func)
		}
		for _, a := range x.Args {
			if err := v.checkExpr(a); err != nil {
				return err
			}
		}
		return nil
	case *UnaryExpr:
		return v.checkExpr(x.X)
	case *BinaryExpr:
		if err := v.checkExpr(x.Left); err != nil {
			return err
		}
		return v.checkExpr(x.Right)
	case *CompareExpr:
		if err := v.checkExpr(x.Left); err != nil {
			return err
		}
		return v.checkExpr(x.Right)
	case *BoolExpr:
		if err := v.checkExpr(x.Left); err != nil {
			return err
		}
		return v.checkExpr(x.Right)
	case *NotExpr:
		return v.checkExpr(x.X)
	default:
		return fmt.Errorf("script: unrecognized expression %T", e)
	}
}

// checkName rejects dunder and private-looking identifiers, the same
// boundary the original implementation's BLOCKED_ATTRIBUTES enforces
// against attribute access — here applied to every bound name since
// this grammar has no attribute-access expression to gate separately.
func (v *validator) checkName(name string, line int) error {
	if strings.HasPrefix(name, "_") {
		return fmt.Errorf("script: line %d: name %q is not permitted (leading underscore)", line, name)
	}
	if allowedBuiltins[name] && !mathConstants[name] {
		return fmt.Errorf("script: line %d: %q shadows a builtin function name", line, name)
	}
	return nil
}
