// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// defaultConfigFile is looked up in the working directory when no
// --config flag is given. Its absence is not an error.
const defaultConfigFile = ".rstlint.yaml"

// Config is the project-level configuration. Command-line flags override
// the corresponding file values.
type Config struct {
	// Directives are additional RST directive names to accept.
	Directives []string `yaml:"rst-directives" validate:"omitempty,dive,rstname"`

	// Roles are additional interpreted text role names to accept.
	Roles []string `yaml:"rst-roles" validate:"omitempty,dive,rstname"`

	// Select restricts output to diagnostics whose code starts with one
	// of these prefixes, e.g. ["RST2", "RST301"].
	Select []string `yaml:"select" validate:"omitempty,dive,startswith=RST"`
}

// configValidate is the validator instance for configuration files.
// Initialized in init() with custom validators.
var configValidate *validator.Validate

// rstNameRe matches legal directive and role names, including the
// colon-namespaced forms Sphinx domains use (e.g. "py:class").
var rstNameRe = regexp.MustCompile(`^[A-Za-z][\w.:+-]*$`)

func init() {
	configValidate = validator.New()

	if err := configValidate.RegisterValidation("rstname", validateRSTName); err != nil {
		panic(fmt.Sprintf("failed to register rstname validator: %v", err))
	}
}

func validateRSTName(fl validator.FieldLevel) bool {
	return rstNameRe.MatchString(fl.Field().String())
}

// loadConfig reads and validates the configuration file at path, or the
// default file when path is empty. A missing default file yields an
// empty configuration; a missing explicit file is an error.
func loadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := configValidate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}
