// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package rst

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ErrInvalidText indicates the input was not valid UTF-8. Malformed
// markup never produces an error, only violations.
var ErrInvalidText = errors.New("text is not valid UTF-8")

// Docutils message strings produced by this validator. They must match
// docutils output byte for byte; the diagnostic code catalogue is keyed
// on them.
const (
	msgStrongNoEnd      = "Inline strong start-string without end-string."
	msgEmphasisNoEnd    = "Inline emphasis start-string without end-string."
	msgLiteralNoEnd     = "Inline literal start-string without end-string."
	msgInterpretedNoEnd = "Inline interpreted text or phrase reference start-string without end-string."
	msgMultipleRoles    = "Multiple roles in interpreted text (both prefix and suffix present; only one allowed)."
	msgRoleRefMismatch  = "Mismatch: both interpreted text role suffix and reference suffix."
	msgUnderlineShort   = "Title underline too short."
	msgUnderlinePossible = "Possible title underline, too short for the title."
	msgUnexpectedTitle  = "Unexpected section title."
	msgUnexpectedIndent = "Unexpected indentation."
	msgLiteralExpected  = "Literal block expected; none found."
	msgBlockQuoteUnindent = "Block quote ends without a blank line; unexpected unindent."
	msgBulletUnindent     = "Bullet list ends without a blank line; unexpected unindent."
)

var (
	// Explicit markup constructs. Substitution definitions must be
	// matched before plain directives.
	subDefRe    = regexp.MustCompile(`^\s*\.\.\s+\|([^|]+)\|\s+([\w.+-]+)::`)
	directiveRe = regexp.MustCompile(`^\s*\.\.\s+([\w.+-]+)::`)
	explicitRe  = regexp.MustCompile(`^\s*\.\.(\s|$)`)

	bulletRe = regexp.MustCompile(`^[-*+] `)

	// Inline constructs. Literal spans are masked before role spans so
	// double backticks never feed the single-backtick patterns.
	literalSpanRe = regexp.MustCompile("``[^`]+``")
	roleSpanRe    = regexp.MustCompile("(?::([\\w.:+-]+):)?`([^`]+)`(?::([\\w.:+-]+):)?(__?)?")

	subRefRe = regexp.MustCompile(`\|([A-Za-z0-9][\w.+-]*)\|`)
)

// Lint validates text as reStructuredText and returns its violations in
// line order. Arbitrary malformed markup is tolerated; the only error
// condition is catastrophic input such as invalid UTF-8.
func Lint(text string) ([]Violation, error) {
	if !utf8.ValidString(text) {
		return nil, ErrInvalidText
	}
	l := &linter{
		lines:   strings.Split(text, "\n"),
		subDefs: make(map[string]bool),
	}
	for _, line := range l.lines {
		if m := subDefRe.FindStringSubmatch(line); m != nil {
			l.subDefs[m[1]] = true
		}
	}
	l.run()
	return l.out, nil
}

type blockKind int

const (
	blockNone blockKind = iota
	blockQuote
	blockBullet
)

// linter is the per-document scanner state.
type linter struct {
	lines   []string
	out     []Violation
	subDefs map[string]bool

	// Literal block and directive content is skipped wholesale.
	skipping   bool
	skipIndent int

	paraLen    int
	paraIndent int

	blockKind   blockKind
	blockIndent int
}

func (l *linter) run() {
	for i, line := range l.lines {
		blank := strings.TrimSpace(line) == ""

		if l.skipping {
			if blank || indentOf(line) > l.skipIndent {
				continue
			}
			l.skipping = false
		}

		if blank {
			l.paraLen = 0
			continue
		}
		l.checkLine(i, line)
	}
}

func (l *linter) report(level Level, line int, msg string) {
	l.out = append(l.out, Violation{Level: level, Line: line, Message: msg})
}

// checkLine handles one non-blank line outside skipped blocks.
func (l *linter) checkLine(i int, line string) {
	ind := indentOf(line)
	stripped := strings.TrimSpace(line)
	prevBlank := i == 0 || strings.TrimSpace(l.lines[i-1]) == ""

	// Explicit markup: substitution definitions, directives, comments,
	// targets, footnotes. The indented content block belongs to the
	// construct and is never scanned for inline markup.
	if m := subDefRe.FindStringSubmatch(line); m != nil {
		if !KnownDirective(m[2]) {
			l.report(LevelError, i+1, fmt.Sprintf("Unknown directive type %q.", m[2]))
		}
		l.enterSkip(ind)
		return
	}
	if m := directiveRe.FindStringSubmatch(line); m != nil {
		if !KnownDirective(m[1]) {
			l.report(LevelError, i+1, fmt.Sprintf("Unknown directive type %q.", m[1]))
		}
		l.enterSkip(ind)
		return
	}
	if explicitRe.MatchString(line) {
		l.enterSkip(ind)
		return
	}

	// Section title underlines.
	if isAdornment(stripped) && !prevBlank &&
		!isAdornment(strings.TrimSpace(l.lines[i-1])) {
		l.checkTitle(i, stripped)
		l.paraLen = 0
		l.blockKind = blockNone
		return
	}

	isBullet := bulletRe.MatchString(stripped)

	// Indented blocks that end by unindenting without a blank line.
	if l.blockKind != blockNone && ind < l.blockIndent && !isBullet {
		if !prevBlank {
			switch l.blockKind {
			case blockBullet:
				l.report(LevelWarning, i+1, msgBulletUnindent)
			case blockQuote:
				l.report(LevelWarning, i+1, msgBlockQuoteUnindent)
			}
		}
		l.blockKind = blockNone
	}

	switch {
	case isBullet:
		l.blockKind = blockBullet
		l.blockIndent = ind + 2
	case ind > 0 && prevBlank && l.blockKind == blockNone:
		l.blockKind = blockQuote
		l.blockIndent = ind
	}

	// A paragraph line that gains indentation mid-paragraph.
	if !prevBlank && l.paraLen >= 2 && ind > l.paraIndent &&
		l.blockKind == blockNone && !strings.HasSuffix(strings.TrimSpace(l.lines[i-1]), "::") {
		l.report(LevelError, i+1, msgUnexpectedIndent)
	}

	// Literal block introduction.
	if strings.HasSuffix(stripped, "::") {
		if l.hasLiteralBlock(i, ind) {
			l.checkInline(i+1, line)
			l.checkSubstitutions(i+1, line)
			l.enterSkip(ind)
			return
		}
		l.report(LevelWarning, i+1, msgLiteralExpected)
	}

	l.checkInline(i+1, line)
	l.checkSubstitutions(i+1, line)

	if prevBlank {
		l.paraLen = 1
		l.paraIndent = ind
	} else {
		l.paraLen++
	}
}

func (l *linter) enterSkip(baseIndent int) {
	l.skipping = true
	l.skipIndent = baseIndent
	l.paraLen = 0
}

// hasLiteralBlock reports whether a more-indented block follows line i.
func (l *linter) hasLiteralBlock(i, ind int) bool {
	for j := i + 1; j < len(l.lines); j++ {
		if strings.TrimSpace(l.lines[j]) == "" {
			continue
		}
		return indentOf(l.lines[j]) > ind
	}
	return false
}

// checkTitle validates the underline at line index i against the title
// text on the previous line.
func (l *linter) checkTitle(i int, underline string) {
	title := l.lines[i-1]
	titleLen := utf8.RuneCountInString(strings.TrimSpace(title))
	underLen := utf8.RuneCountInString(underline)

	if indentOf(title) > 0 {
		// A section title inside an indented block poisons the
		// document structure.
		l.report(LevelSevere, i+1, msgUnexpectedTitle)
		return
	}
	if underLen < titleLen {
		if underLen < 4 {
			l.report(LevelInfo, i+1, msgUnderlinePossible)
		} else {
			l.report(LevelWarning, i+1, msgUnderlineShort)
		}
	}
}

// checkInline scans one line for inline markup violations. Spans that
// docutils would accept are masked out before each subsequent pass.
func (l *linter) checkInline(lineNum int, line string) {
	masked := literalSpanRe.ReplaceAllStringFunc(line, blankOut)

	if scanMarker(masked, "``") {
		l.report(LevelWarning, lineNum, msgLiteralNoEnd)
	}
	masked = strings.ReplaceAll(masked, "``", "  ")

	// Interpreted text spans, with optional role prefix/suffix and
	// reference suffix.
	for _, m := range roleSpanRe.FindAllStringSubmatch(masked, -1) {
		prefix, suffix, ref := m[1], m[3], m[4]
		switch {
		case prefix != "" && suffix != "":
			l.report(LevelWarning, lineNum, msgMultipleRoles)
		case suffix != "" && ref != "":
			l.report(LevelWarning, lineNum, msgRoleRefMismatch)
		case prefix != "" && !KnownRole(prefix):
			l.report(LevelError, lineNum, fmt.Sprintf("Unknown interpreted text role %q.", prefix))
		case suffix != "" && !KnownRole(suffix):
			l.report(LevelError, lineNum, fmt.Sprintf("Unknown interpreted text role %q.", suffix))
		}
	}
	masked = roleSpanRe.ReplaceAllStringFunc(masked, blankOut)

	if scanMarker(masked, "`") {
		l.report(LevelWarning, lineNum, msgInterpretedNoEnd)
	}
	masked = strings.ReplaceAll(masked, "`", " ")

	if scanMarker(masked, "**") {
		l.report(LevelWarning, lineNum, msgStrongNoEnd)
	}
	masked = strings.ReplaceAll(masked, "**", "  ")

	if scanMarker(masked, "*") {
		l.report(LevelWarning, lineNum, msgEmphasisNoEnd)
	}
}

// checkSubstitutions reports references to substitutions that were never
// defined in this document.
func (l *linter) checkSubstitutions(lineNum int, line string) {
	for _, m := range subRefRe.FindAllStringSubmatch(line, -1) {
		if !l.subDefs[m[1]] {
			l.report(LevelError, lineNum, fmt.Sprintf("Undefined substitution referenced: %q.", m[1]))
		}
	}
}

// scanMarker reports whether an inline span opened by marker is left
// unterminated. A start-string must not follow a word character and must
// be followed by a non-space; an end-string must follow a non-space.
func scanMarker(s, marker string) bool {
	open := false
	n := len(marker)
	for i := 0; i+n <= len(s); {
		if s[i:i+n] != marker {
			i++
			continue
		}
		if !open {
			if i+n < len(s) && !isSpaceByte(s[i+n]) && s[i+n] != marker[0] &&
				(i == 0 || !isWordByte(s[i-1])) {
				open = true
			}
		} else if i > 0 && !isSpaceByte(s[i-1]) {
			open = false
		}
		i += n
	}
	return open
}

// adornmentChars are the punctuation characters docutils accepts for
// section title underlines.
const adornmentChars = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// isAdornment reports whether the stripped line is a single adornment
// character repeated to the end of the line.
func isAdornment(s string) bool {
	if s == "" {
		return false
	}
	c := s[0]
	if !strings.ContainsRune(adornmentChars, rune(c)) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if s[i] != c {
			return false
		}
	}
	return true
}

func blankOut(s string) string {
	return strings.Repeat(" ", len(s))
}

func indentOf(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t'
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
