// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package lint

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/rst-docstrings/ast"
	"github.com/AleutianAI/rst-docstrings/rst"
)

// Python sources exercised end-to-end through the tree-sitter parser.
const (
	srcFunctionStrong = `def my_function():
    """
    Short summary.

    Here **strong is missing a closing double asterisk.
    """
    return 1
`

	srcModuleStrong = `"""Module summary.

Here **strong is missing a closing double asterisk.
"""

X = 1
`

	srcTwoIssues = `def f():
    """
    Here **strong is missing the end.

    Here *emphasis is missing the end.
    """
`

	srcMethodLiteral = `class MyClass:
    """Class docstring."""

    def method(self):
        """
        Here ` + "``literal" + ` is missing the closing backticks.
        """
`

	srcUnknownDirective = `def d():
    """
    .. req:: The summary line.
    """
`

	srcUnknownRole = "def r():\n    \"\"\"\n    See :need:`R100` for details.\n    \"\"\"\n"

	srcNoDocstring = `def g():
    return 42

class Empty:
    pass
`

	srcNested = `class Outer:
    """Outer doc."""

    class Inner:
        """
        Here *emphasis is missing the end.
        """

        def deep(self):
            """
            Here **strong is missing the end.
            """

def top():
    def inner():
        """
        See :need:` + "`R1`" + `.
        """
    return inner
`

	srcModuleOneLiner = `"""Doc."""
`
)

func parseSource(t *testing.T, src string) *ast.Node {
	t.Helper()
	tree, err := ast.NewParser().Parse(context.Background(), []byte(src), "test.py")
	require.NoError(t, err)
	require.NotNil(t, tree)
	return tree
}

func TestChecker_FunctionStrong(t *testing.T) {
	diags := NewChecker(parseSource(t, srcFunctionStrong), Settings{}).Run()

	require.Len(t, diags, 1)
	d := diags[0]
	assert.Equal(t, 210, d.Code)
	assert.Equal(t, "RST210 Inline strong start-string without end-string.", d.Message)
	assert.Equal(t, 5, d.Line, "line of the offending text in the original file")
	assert.Equal(t, 0, d.Col, "column of the enclosing def")
	assert.Equal(t, CheckerName, d.Source)
}

func TestChecker_ModuleStrong(t *testing.T) {
	diags := NewChecker(parseSource(t, srcModuleStrong), Settings{}).Run()

	require.Len(t, diags, 1)
	d := diags[0]
	assert.Equal(t, 210, d.Code)
	assert.Equal(t, 3, d.Line)
	assert.Equal(t, -1, d.Col, "module docstrings have no enclosing column")
}

func TestChecker_TwoIssuesInDocumentOrder(t *testing.T) {
	diags := NewChecker(parseSource(t, srcTwoIssues), Settings{}).Run()

	require.Len(t, diags, 2)
	assert.Equal(t, 210, diags[0].Code)
	assert.Equal(t, 3, diags[0].Line)
	assert.Equal(t, 213, diags[1].Code)
	assert.Equal(t, 5, diags[1].Line)
	assert.Less(t, diags[0].Line, diags[1].Line)
}

func TestChecker_MethodColumn(t *testing.T) {
	diags := NewChecker(parseSource(t, srcMethodLiteral), Settings{}).Run()

	require.Len(t, diags, 1)
	d := diags[0]
	assert.Equal(t, 214, d.Code)
	assert.Equal(t, 6, d.Line)
	assert.Equal(t, 4, d.Col, "column of the method def, not the class")
}

func TestChecker_UnknownDirective(t *testing.T) {
	diags := NewChecker(parseSource(t, srcUnknownDirective), Settings{}).Run()

	require.Len(t, diags, 1)
	assert.Equal(t, 303, diags[0].Code)
	assert.Equal(t, `RST303 Unknown directive type "req".`, diags[0].Message)
	assert.Equal(t, 3, diags[0].Line)
}

func TestChecker_ExtraDirectiveSuppressed(t *testing.T) {
	settings := Settings{ExtraDirectives: []string{"req"}}
	diags := NewChecker(parseSource(t, srcUnknownDirective), settings).Run()
	assert.Empty(t, diags)
}

func TestChecker_UnknownRole(t *testing.T) {
	diags := NewChecker(parseSource(t, srcUnknownRole), Settings{}).Run()

	require.Len(t, diags, 1)
	assert.Equal(t, 304, diags[0].Code)
	assert.Equal(t, `RST304 Unknown interpreted text role "need".`, diags[0].Message)
}

func TestChecker_ExtraRoleSuppressed(t *testing.T) {
	settings := Settings{ExtraRoles: []string{"need"}}
	diags := NewChecker(parseSource(t, srcUnknownRole), settings).Run()
	assert.Empty(t, diags)
}

func TestChecker_NoDocstringNoDiagnostics(t *testing.T) {
	diags := NewChecker(parseSource(t, srcNoDocstring), Settings{}).Run()
	assert.Empty(t, diags)
}

func TestChecker_NestedScopes(t *testing.T) {
	diags := NewChecker(parseSource(t, srcNested), Settings{}).Run()

	require.Len(t, diags, 3)

	assert.Equal(t, 213, diags[0].Code)
	assert.Equal(t, 6, diags[0].Line)
	assert.Equal(t, 4, diags[0].Col)

	assert.Equal(t, 210, diags[1].Code)
	assert.Equal(t, 11, diags[1].Line)
	assert.Equal(t, 8, diags[1].Col)

	assert.Equal(t, 304, diags[2].Code)
	assert.Equal(t, 17, diags[2].Line)
	assert.Equal(t, 4, diags[2].Col)
}

func TestChecker_InfoLevelSuppressed(t *testing.T) {
	stub := ValidatorFunc(func(string) ([]rst.Violation, error) {
		return []rst.Violation{
			{Level: rst.LevelInfo, Line: 1, Message: "Possible title underline, too short for the title."},
			{Level: rst.LevelWarning, Line: 1, Message: "Title underline too short."},
		}, nil
	})
	diags := NewChecker(parseSource(t, srcModuleOneLiner), Settings{}, WithValidator(stub)).Run()

	require.Len(t, diags, 1)
	assert.Equal(t, 212, diags[0].Code)
}

func TestChecker_UnmappedMessageGetsDefault(t *testing.T) {
	stub := ValidatorFunc(func(string) ([]rst.Violation, error) {
		return []rst.Violation{
			{Level: rst.LevelWarning, Line: 1, Message: "totally novel message"},
		}, nil
	})
	diags := NewChecker(parseSource(t, srcModuleOneLiner), Settings{}, WithValidator(stub)).Run()

	require.Len(t, diags, 1)
	assert.Equal(t, 299, diags[0].Code)
	assert.Equal(t, "RST299 totally novel message", diags[0].Message)
}

func TestChecker_MultiLineMessageUsesFirstLine(t *testing.T) {
	stub := ValidatorFunc(func(string) ([]rst.Violation, error) {
		return []rst.Violation{
			{Level: rst.LevelWarning, Line: 1, Message: "Title underline too short.\n\nShort\n===="},
		}, nil
	})
	diags := NewChecker(parseSource(t, srcModuleOneLiner), Settings{}, WithValidator(stub)).Run()

	require.Len(t, diags, 1)
	assert.Equal(t, "RST212 Title underline too short.", diags[0].Message)
}

func TestChecker_ValidatorFailureYieldsRST903(t *testing.T) {
	boom := ValidatorFunc(func(string) ([]rst.Violation, error) {
		return nil, errors.New("bad encoding")
	})
	diags := NewChecker(parseSource(t, srcModuleOneLiner), Settings{}, WithValidator(boom)).Run()

	require.Len(t, diags, 1)
	d := diags[0]
	assert.Equal(t, CodeFailLint, d.Code)
	assert.Equal(t, "RST903 Failed to lint docstring: module - bad encoding", d.Message)
	assert.Equal(t, 0, d.Line)
	assert.Equal(t, -1, d.Col)
}

func TestChecker_ValidatorFailureDoesNotAbortPass(t *testing.T) {
	calls := 0
	flaky := ValidatorFunc(func(text string) ([]rst.Violation, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("first docstring exploded")
		}
		return rst.Lint(text)
	})
	diags := NewChecker(parseSource(t, srcMethodLiteral), Settings{}, WithValidator(flaky)).Run()

	// The class docstring fails, the method docstring is still checked.
	require.Len(t, diags, 2)
	assert.Equal(t, CodeFailLint, diags[0].Code)
	assert.Equal(t, 214, diags[1].Code)
}

func TestDocStartLine(t *testing.T) {
	// Single-line docstring: fixed offset of one.
	assert.Equal(t, 1, docStartLine(2, "One line."))

	// Multi-line docstring ending in pure indentation: counted lines only.
	assert.Equal(t, 1, docStartLine(4, "\n    Some text\n    "))

	// Multi-line docstring ending flush with text counts one extra line.
	assert.Equal(t, 0, docStartLine(3, "Line one\n    line two"))
}
