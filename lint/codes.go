// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package lint

import (
	"slices"
	"strings"
)

// Prefix is the three-letter tag every diagnostic code carries.
const Prefix = "RST"

// Reserved codes for failures of the checker itself rather than of the
// docstring markup.
const (
	CodeFailLoad  = 900
	CodeFailParse = 901
	CodeFailAll   = 902
	CodeFailLint  = 903
)

// DefaultCode is assigned to any validator message with no catalogue
// entry, so no violation is ever dropped for being unrecognized.
const DefaultCode = 99

// codeMappings is the hand-maintained catalogue giving each known
// validator message a stable local code within its severity level.
// Entries keyed on a message prefix (no trailing period) are matched
// through the fixed-text fallback in CodeMapping.
var codeMappings = map[int]map[string]int{
	// Level 1 - info
	1: {
		"Possible title underline, too short for the title.": 1,
		"Unexpected possible title overline or transition.":  2,
	},
	// Level 2 - warning
	2: {
		// XXX ends without a blank line; unexpected unindent:
		"Block quote ends without a blank line; unexpected unindent.":     1,
		"Bullet list ends without a blank line; unexpected unindent.":     2,
		"Definition list ends without a blank line; unexpected unindent.": 3,
		"Enumerated list ends without a blank line; unexpected unindent.": 4,
		"Explicit markup ends without a blank line; unexpected unindent.": 5,
		"Field list ends without a blank line; unexpected unindent.":      6,
		"Literal block ends without a blank line; unexpected unindent.":   7,
		"Option list ends without a blank line; unexpected unindent.":     8,
		// Other:
		"Inline strong start-string without end-string.":   10,
		"Blank line required after table.":                 11,
		"Title underline too short.":                       12,
		"Inline emphasis start-string without end-string.": 13,
		"Inline literal start-string without end-string.":  14,
		"Inline interpreted text or phrase reference start-string without end-string.":              15,
		"Multiple roles in interpreted text (both prefix and suffix present; only one allowed).":    16,
		"Mismatch: both interpreted text role suffix and reference suffix.":                         17,
		"Literal block expected; none found.":                                                       18,
		"Inline substitution_reference start-string without end-string.":                           19,
	},
	// Level 3 - error
	3: {
		"Unexpected indentation.": 1,
		"Malformed table.":        2,
		// e.g. Unknown directive type "req".
		"Unknown directive type": 3,
		// e.g. Unknown interpreted text role "need".
		"Unknown interpreted text role": 4,
		// e.g. Undefined substitution referenced: "dict".
		"Undefined substitution referenced:": 5,
		// e.g. Unknown target name: "license_txt".
		"Unknown target name:": 6,
	},
	// Level 4 - severe
	4: {
		"Unexpected section title.": 1,
	},
}

// CodeMapping maps a validator message at the given severity level to a
// local code in [0, 99]. Zero means the violation should be suppressed
// (a user-allowed extension).
//
// Resolution is two-tier: exact message lookup first, then a fallback
// for templated messages of the shape `Fixed text "variable".` whose
// fixed text is looked up instead. The fallback is also where
// user-configured extra directives and roles are recognized and
// suppressed. Anything else maps to def.
func CodeMapping(level int, msg string, extraDirectives, extraRoles []string, def int) int {
	table := codeMappings[level]
	if code, ok := table[msg]; ok {
		return code
	}
	// Following assumes any variable messages take the format
	// of 'Fixed text "variable text".' only:
	// e.g. 'Unknown directive type "req".'
	// ---> 'Unknown directive type'
	// e.g. 'Unknown interpreted text role "need".'
	// ---> 'Unknown interpreted text role'
	if strings.Count(msg, `"`) == 2 && strings.Contains(msg, ` "`) && strings.HasSuffix(msg, `".`) {
		txt := msg[:strings.Index(msg, ` "`)]
		value := strings.SplitN(msg, `"`, 3)[1]
		if txt == "Unknown directive type" && slices.Contains(extraDirectives, value) {
			return 0
		}
		if txt == "Unknown interpreted text role" && slices.Contains(extraRoles, value) {
			return 0
		}
		if code, ok := table[txt]; ok {
			return code
		}
		return def
	}
	return def
}
