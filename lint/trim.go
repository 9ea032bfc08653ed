// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package lint

import "strings"

// tabSize is the tab stop width used when expanding tabs, matching
// Python's str.expandtabs default.
const tabSize = 8

// Trim removes the common leading indentation from a docstring, per the
// PEP 257 reference algorithm: tabs are expanded first, the indent is the
// minimum leading whitespace over all non-blank lines after the first,
// the first line is stripped on both ends, and every later line has the
// indent removed and its trailing whitespace stripped.
//
// Unlike the PEP 257 reference, leading and trailing blank lines are NOT
// dropped. The checker adds validator line offsets to the docstring's
// start line, so Trim must never change the line count.
func Trim(doc string) string {
	if doc == "" {
		return ""
	}
	lines := splitLines(expandTabs(doc))
	if len(lines) == 0 {
		return ""
	}

	// Minimum indentation over non-blank continuation lines. The first
	// line sits right after the opening quotes and doesn't count.
	indent := -1
	for _, line := range lines[1:] {
		stripped := strings.TrimLeft(line, " \t\v\f\r")
		if stripped == "" {
			continue
		}
		width := len(line) - len(stripped)
		if indent < 0 || width < indent {
			indent = width
		}
	}

	trimmed := make([]string, 0, len(lines))
	trimmed = append(trimmed, strings.TrimSpace(lines[0]))
	for _, line := range lines[1:] {
		if indent < 0 {
			// No non-blank continuation line exists; nothing to strip.
			trimmed = append(trimmed, line)
			continue
		}
		if len(line) <= indent {
			trimmed = append(trimmed, "")
			continue
		}
		trimmed = append(trimmed, strings.TrimRight(line[indent:], " \t\v\f\r"))
	}
	return strings.Join(trimmed, "\n")
}

// splitLines splits on newlines with Python str.splitlines semantics:
// a trailing newline does not produce a final empty element, and an
// empty string produces no lines at all.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	if len(lines) > 1 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// expandTabs replaces tabs with spaces up to the next multiple of
// tabSize, resetting the column at every line break, matching Python's
// str.expandtabs.
func expandTabs(s string) string {
	if !strings.ContainsRune(s, '\t') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	col := 0
	for _, r := range s {
		switch r {
		case '\t':
			n := tabSize - col%tabSize
			for j := 0; j < n; j++ {
				b.WriteByte(' ')
			}
			col += n
		case '\n', '\r':
			b.WriteRune(r)
			col = 0
		default:
			b.WriteRune(r)
			col++
		}
	}
	return b.String()
}
