// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package lint checks Python docstrings as reStructuredText.
//
// The checker walks a parsed tree, extracts the docstring of every
// module, class, and function, normalizes its indentation, validates it
// as RST, and reports each violation as a diagnostic with a stable
// RST### code at its absolute position in the original source file.
package lint

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/AleutianAI/rst-docstrings/ast"
	"github.com/AleutianAI/rst-docstrings/rst"
)

// CheckerName identifies this checker in diagnostics and host output.
const CheckerName = "rst-docstrings"

// Settings carries the user-configured extension vocabulary. The zero
// value is valid: nil slices behave as empty sets.
//
// A Settings value is built once by the host before any run and must
// not be mutated while a check is in flight.
type Settings struct {
	// ExtraDirectives are directive names that, though unknown to the
	// validator, must not be reported (e.g. Sphinx directives).
	ExtraDirectives []string

	// ExtraRoles are interpreted text role names to accept likewise.
	ExtraRoles []string
}

// Diagnostic is one reported docstring problem, positioned in the
// original source file's coordinates.
type Diagnostic struct {
	// Line is the 1-based absolute line in the source file.
	Line int

	// Col is the 0-based column of the enclosing definition, or -1 for
	// the module docstring, which has no enclosing column.
	Col int

	// Code is the full diagnostic code: 100*level + local code.
	Code int

	// Message has the fixed shape "RST<3-digit code> <text>".
	Message string

	// Source is the reporter identity, always CheckerName.
	Source string
}

// Validator lints a block of reStructuredText. Implementations must
// tolerate arbitrary malformed markup; returning an error is reserved
// for catastrophic failures such as invalid encoding.
type Validator interface {
	Lint(text string) ([]rst.Violation, error)
}

// ValidatorFunc adapts a function to the Validator interface.
type ValidatorFunc func(text string) ([]rst.Violation, error)

// Lint calls f.
func (f ValidatorFunc) Lint(text string) ([]rst.Violation, error) {
	return f(text)
}

// CheckerOption configures a Checker.
type CheckerOption func(*Checker)

// WithValidator replaces the default RST validator.
func WithValidator(v Validator) CheckerOption {
	return func(c *Checker) {
		if v != nil {
			c.validator = v
		}
	}
}

// Checker runs one docstring check pass over one parsed tree.
//
// A Checker is single-use and fully synchronous: Run processes the tree
// to completion and returns every diagnostic in document order.
type Checker struct {
	tree      *ast.Node
	settings  Settings
	validator Validator
}

// NewChecker creates a Checker over an already-parsed tree.
func NewChecker(tree *ast.Node, settings Settings, opts ...CheckerOption) *Checker {
	c := &Checker{
		tree:      tree,
		settings:  settings,
		validator: ValidatorFunc(rst.Lint),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run checks every docstring in the tree and returns the accumulated
// diagnostics: document order across nodes, validator order within one
// docstring. A failure to validate a single docstring yields one RST903
// diagnostic and never aborts the pass.
func (c *Checker) Run() []Diagnostic {
	var diags []Diagnostic
	ast.Walk(c.tree, func(n *ast.Node) {
		switch n.Kind {
		case ast.KindModule, ast.KindClass, ast.KindFunction:
			diags = append(diags, c.checkNode(n)...)
		}
	})
	return diags
}

// checkNode checks one definition's docstring, if it has one.
func (c *Checker) checkNode(n *ast.Node) []Diagnostic {
	doc, ok := n.Docstring()
	if !ok {
		// No docstring, or the first statement isn't a bare string
		// literal. Not an error.
		return nil
	}

	col := n.StartCol
	if n.Kind == ast.KindModule {
		col = -1
	}
	start := docStartLine(doc.AnchorLine, doc.Raw)

	// Trimming mirrors PEP 257 so the validator never sees the shared
	// indentation; otherwise every interior line would read as a block
	// quote and trip false severe errors.
	violations, err := c.validator.Lint(Trim(doc.Raw))
	if err != nil {
		slog.Debug("docstring validation failed",
			slog.String("node", n.DisplayName()),
			slog.String("error", err.Error()))
		msg := fmt.Sprintf("%s%03d Failed to lint docstring: %s - %s",
			Prefix, CodeFailLint, n.DisplayName(), err)
		return []Diagnostic{{Line: start, Col: col, Code: CodeFailLint, Message: msg, Source: CheckerName}}
	}

	var diags []Diagnostic
	for _, v := range violations {
		// Level 1 info messages (title underline pedantry) stay below
		// the reporting threshold.
		if v.Level <= rst.LevelInfo {
			continue
		}
		msg, _, _ := strings.Cut(v.Message, "\n")
		code := CodeMapping(int(v.Level), msg, c.settings.ExtraDirectives, c.settings.ExtraRoles, DefaultCode)
		if code == 0 {
			// A known extension directive or role.
			continue
		}
		code += 100 * int(v.Level)
		diags = append(diags, Diagnostic{
			Line:    start + v.Line,
			Col:     col,
			Code:    code,
			Message: fmt.Sprintf("%s%03d %s", Prefix, code, msg),
			Source:  CheckerName,
		})
	}
	return diags
}

// docStartLine computes the line the docstring opens on, working
// backward from the anchor line the parser attributes to the docstring
// statement (the string literal's last line).
//
// A multi-line docstring whose last line carries text counts one extra
// line. Single-line docstrings have no interior lines and use a fixed
// offset of one, since the validator numbers from 1.
func docStartLine(anchor int, raw string) int {
	lines := splitLines(raw)
	n := len(lines)
	if n <= 1 {
		return anchor - 1
	}
	if strings.TrimSpace(lines[n-1]) != "" {
		n++
	}
	return anchor - n
}
