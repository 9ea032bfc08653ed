// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package rst validates reStructuredText and reports violations with
// docutils-compatible severity levels, line offsets, and message strings.
//
// The package implements a native subset of the docutils checks that
// matter for docstrings: section title underlines, inline markup
// termination, interpreted text roles, directives, literal blocks, and
// substitution references. Message strings are emitted verbatim as
// docutils would produce them, so downstream message-to-code mapping
// works identically against either validator.
package rst

import "fmt"

// Level is a docutils severity level.
//
// Level 0 (debug) is never reported. The remaining levels mirror the
// docutils system message hierarchy.
type Level int

const (
	// LevelInfo is a minor issue a reader would likely not notice.
	LevelInfo Level = iota + 1

	// LevelWarning is markup that will not render as intended.
	LevelWarning

	// LevelError is markup docutils cannot process.
	LevelError

	// LevelSevere is a structural problem that poisons the whole document.
	LevelSevere
)

// String returns the docutils name for the level.
func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelSevere:
		return "severe"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Violation is one problem found in a block of reStructuredText.
type Violation struct {
	// Level is the docutils severity, 1 through 4.
	Level Level

	// Line is the 1-based line offset within the linted text.
	Line int

	// Message is the docutils message. Only the first line is
	// semantically meaningful; it may contain embedded newlines.
	Message string
}
