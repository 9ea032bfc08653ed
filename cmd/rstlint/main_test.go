// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/rst-docstrings/lint"
)

// chdir is a stand-in for testing.T.Chdir, which requires Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Errorf("restoring working directory: %v", err)
		}
	})
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
rst-directives:
  - req
  - uml
rst-roles:
  - need
  - py:class
select:
  - RST2
  - RST303
`)
	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"req", "uml"}, cfg.Directives)
	assert.Equal(t, []string{"need", "py:class"}, cfg.Roles)
	assert.Equal(t, []string{"RST2", "RST303"}, cfg.Select)
}

func TestLoadConfigInvalidDirectiveName(t *testing.T) {
	path := writeConfig(t, "rst-directives:\n  - \"not a name\"\n")
	_, err := loadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigInvalidSelectPrefix(t *testing.T) {
	path := writeConfig(t, "select:\n  - E501\n")
	_, err := loadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigMalformedYAML(t *testing.T) {
	path := writeConfig(t, "rst-directives: [unclosed\n")
	_, err := loadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigMissingDefaultFile(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Directives)
	assert.Empty(t, cfg.Roles)
	assert.Empty(t, cfg.Select)
}

func TestLoadConfigDefaultFilePickedUp(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, defaultConfigFile),
		[]byte("rst-roles:\n  - need\n"), 0o644))
	chdir(t, dir)

	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, []string{"need"}, cfg.Roles)
}

func TestValidateRSTName(t *testing.T) {
	valid := []string{"req", "py:class", "http:get", "x-y", "a.b+c"}
	for _, name := range valid {
		assert.True(t, rstNameRe.MatchString(name), name)
	}
	invalid := []string{"", "1req", "has space", ":leading"}
	for _, name := range invalid {
		assert.False(t, rstNameRe.MatchString(name), name)
	}
}

func TestSelected(t *testing.T) {
	d := lint.Diagnostic{Code: 210}
	assert.True(t, selected(d, nil), "no prefixes selects everything")
	assert.True(t, selected(d, []string{"RST2"}))
	assert.True(t, selected(d, []string{"RST210"}))
	assert.False(t, selected(d, []string{"RST3"}))
	assert.True(t, selected(d, []string{"RST3", "RST2"}))

	// Codes are compared zero-padded, so RST0 prefixes cannot leak in.
	assert.False(t, selected(lint.Diagnostic{Code: 21}, []string{"RST2"}))
}

func TestDiscoverFiles(t *testing.T) {
	dir := t.TempDir()
	mustWrite := func(rel string) {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0o644))
	}
	mustWrite("b.py")
	mustWrite("a.py")
	mustWrite("stubs/s.pyi")
	mustWrite("notes.txt")
	mustWrite(".hidden/skipped.py")

	files, err := discoverFiles([]string{dir}, []string{".py", ".pyi"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.py"),
		filepath.Join(dir, "b.py"),
		filepath.Join(dir, "stubs", "s.pyi"),
	}, files)
}

func TestDiscoverFilesExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "anything.txt")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	// A path given explicitly bypasses the extension filter.
	files, err := discoverFiles([]string{path}, []string{".py"})
	require.NoError(t, err)
	assert.Equal(t, []string{path}, files)
}

func TestDiscoverFilesMissingPath(t *testing.T) {
	_, err := discoverFiles([]string{filepath.Join(t.TempDir(), "missing")}, []string{".py"})
	assert.Error(t, err)
}

func TestPrintDiagnostic(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	var buf bytes.Buffer
	printDiagnostic(&buf, "pkg/mod.py", lint.Diagnostic{
		Line:    5,
		Col:     0,
		Code:    210,
		Message: "RST210 Inline strong start-string without end-string.",
	})
	assert.Equal(t, "pkg/mod.py:5:1: RST210 Inline strong start-string without end-string.\n", buf.String())

	buf.Reset()
	printDiagnostic(&buf, "mod.py", lint.Diagnostic{
		Line:    1,
		Col:     -1,
		Code:    301,
		Message: "RST301 Unexpected indentation.",
	})
	assert.Equal(t, "mod.py:1:0: RST301 Unexpected indentation.\n", buf.String())
}
