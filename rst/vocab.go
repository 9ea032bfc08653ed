// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package rst

// standardDirectives is the docutils built-in directive vocabulary.
// Anything outside this set is reported as an unknown directive type;
// user-configured extensions (e.g. Sphinx directives) are suppressed
// later during code mapping, not here.
var standardDirectives = map[string]bool{
	"attention":                      true,
	"caution":                        true,
	"danger":                         true,
	"error":                          true,
	"hint":                           true,
	"important":                      true,
	"note":                           true,
	"tip":                            true,
	"warning":                        true,
	"admonition":                     true,
	"sidebar":                        true,
	"topic":                          true,
	"line-block":                     true,
	"parsed-literal":                 true,
	"code":                           true,
	"math":                           true,
	"rubric":                         true,
	"epigraph":                       true,
	"highlights":                     true,
	"pull-quote":                     true,
	"compound":                       true,
	"container":                      true,
	"table":                          true,
	"csv-table":                      true,
	"list-table":                     true,
	"contents":                       true,
	"sectnum":                        true,
	"section-numbering":              true,
	"header":                         true,
	"footer":                         true,
	"target-notes":                   true,
	"meta":                           true,
	"image":                          true,
	"figure":                         true,
	"include":                        true,
	"raw":                            true,
	"replace":                        true,
	"unicode":                        true,
	"date":                           true,
	"class":                          true,
	"role":                           true,
	"default-role":                   true,
	"title":                          true,
	"restructuredtext-test-directive": true,
}

// standardRoles is the docutils built-in interpreted text role
// vocabulary, including the documented short aliases.
var standardRoles = map[string]bool{
	"abbreviation":           true,
	"ab":                     true,
	"acronym":                true,
	"ac":                     true,
	"anonymous-reference":    true,
	"citation-reference":     true,
	"code":                   true,
	"emphasis":               true,
	"footnote-reference":     true,
	"index":                  true,
	"i":                      true,
	"literal":                true,
	"math":                   true,
	"named-reference":        true,
	"pep-reference":          true,
	"pep":                    true,
	"rfc-reference":          true,
	"rfc":                    true,
	"strong":                 true,
	"subscript":              true,
	"sub":                    true,
	"superscript":            true,
	"sup":                    true,
	"substitution-reference": true,
	"target":                 true,
	"title-reference":        true,
	"title":                  true,
	"t":                      true,
	"raw":                    true,
	"uri-reference":          true,
	"uri":                    true,
	"url":                    true,
}

// KnownDirective reports whether name is a docutils built-in directive.
func KnownDirective(name string) bool {
	return standardDirectives[name]
}

// KnownRole reports whether name is a docutils built-in role.
func KnownRole(name string) bool {
	return standardRoles[name]
}
