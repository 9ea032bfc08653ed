// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Command rstlint checks Python docstrings as reStructuredText.
//
// Usage:
//
//	rstlint [path ...]
//	rstlint --rst-directives req,need src/
//	rstlint --select RST2 module.py
//
// Each path may be a file or a directory; directories are walked for
// .py and .pyi files. Diagnostics print one per line as
// "file:line:col: RST### message". Exit status is 1 when diagnostics
// were reported, 2 on operational failure.
package main

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/rst-docstrings/ast"
	"github.com/AleutianAI/rst-docstrings/lint"
)

var (
	rootCmd = &cobra.Command{
		Use:   "rstlint [path ...]",
		Short: "Check Python docstrings as reStructuredText",
		Long: `rstlint extracts the docstrings of every module, class, and function
in the given Python files and validates them as reStructuredText,
reporting each problem with a stable RST### code at its position in
the original source file.`,
		Args:          cobra.ArbitraryArgs,
		RunE:          runLint,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cfgFile        string
	flagDirectives []string
	flagRoles      []string
	flagSelect     []string
	flagNoColor    bool
	flagDebug      bool
)

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&cfgFile, "config", "",
		fmt.Sprintf("configuration file (default %s if present)", defaultConfigFile))
	flags.StringSliceVar(&flagDirectives, "rst-directives", nil,
		"comma-separated LIST of additional RST directives")
	flags.StringSliceVar(&flagRoles, "rst-roles", nil,
		"comma-separated LIST of additional RST roles")
	flags.StringSliceVar(&flagSelect, "select", nil,
		"only report diagnostics whose code starts with one of these prefixes")
	flags.BoolVar(&flagNoColor, "no-color", false, "disable colored output")
	flags.BoolVar(&flagDebug, "debug", false, "enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "rstlint: %v\n", err)
		os.Exit(2)
	}
}

func runLint(cmd *cobra.Command, args []string) error {
	setupLogging(flagDebug)
	if flagNoColor {
		color.NoColor = true
	}

	cfg, err := loadConfig(cfgFile)
	if err != nil {
		return err
	}

	settings := lint.Settings{
		ExtraDirectives: cfg.Directives,
		ExtraRoles:      cfg.Roles,
	}
	selects := cfg.Select
	if cmd.Flags().Changed("rst-directives") {
		settings.ExtraDirectives = flagDirectives
	}
	if cmd.Flags().Changed("rst-roles") {
		settings.ExtraRoles = flagRoles
	}
	if cmd.Flags().Changed("select") {
		selects = flagSelect
	}

	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	parser := ast.NewParser()
	files, err := discoverFiles(paths, parser.Extensions())
	if err != nil {
		return err
	}
	slog.Debug("discovered source files", slog.Int("count", len(files)))

	var reported, failures int
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			slog.Error("cannot read file",
				slog.String("file", file),
				slog.String("error", err.Error()))
			failures++
			continue
		}

		tree, err := parser.Parse(cmd.Context(), content, file)
		if err != nil {
			slog.Error("cannot parse file",
				slog.String("file", file),
				slog.String("error", err.Error()))
			failures++
			continue
		}

		for _, d := range lint.NewChecker(tree, settings).Run() {
			if !selected(d, selects) {
				continue
			}
			printDiagnostic(os.Stdout, file, d)
			reported++
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d file(s) could not be checked", failures)
	}
	if reported > 0 {
		os.Exit(1)
	}
	return nil
}

func setupLogging(debug bool) {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// discoverFiles expands the given paths into a sorted list of source
// files with one of the accepted extensions.
func discoverFiles(paths, extensions []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("cannot stat %s: %w", path, err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				// Hidden directories are never worth descending into.
				if name := d.Name(); name != "." && strings.HasPrefix(name, ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if slices.Contains(extensions, filepath.Ext(p)) {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", path, err)
		}
	}
	sort.Strings(files)
	return files, nil
}

// selected applies --select style prefix filtering to a diagnostic.
func selected(d lint.Diagnostic, prefixes []string) bool {
	if len(prefixes) == 0 {
		return true
	}
	code := fmt.Sprintf("%s%03d", lint.Prefix, d.Code)
	for _, p := range prefixes {
		if strings.HasPrefix(code, p) {
			return true
		}
	}
	return false
}

var (
	warningColor = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
	severeColor  = color.New(color.FgRed, color.Bold)
)

// printDiagnostic writes one "file:line:col: message" line, with the
// message colored by severity. Columns print 1-based; the module
// docstring sentinel (-1) therefore prints as column 0.
func printDiagnostic(w io.Writer, file string, d lint.Diagnostic) {
	msg := d.Message
	switch d.Code / 100 {
	case 2:
		msg = warningColor.Sprint(msg)
	case 3:
		msg = errorColor.Sprint(msg)
	default:
		msg = severeColor.Sprint(msg)
	}
	fmt.Fprintf(w, "%s:%d:%d: %s\n", file, d.Line, d.Col+1, msg)
}
