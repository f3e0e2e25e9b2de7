// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads the strel YAML configuration file.
//
// A missing file is not an error: the defaults apply. Keys present in the
// file override the defaults; unknown keys are rejected.
//
// Example:
//
//	logging:
//	  level: debug
//	server:
//	  port: 8089
//	  rate_limit: 20
//	engine:
//	  robustness_tolerance: 1e-9
//	  batch_concurrency: 4
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/AleutianAI/strel/pkg/logging"
	"github.com/AleutianAI/strel/services/strel/telemetry"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the root of the configuration file.
type Config struct {
	Logging   LoggingConfig    `yaml:"logging"`
	Telemetry telemetry.Config `yaml:"telemetry"`
	Server    ServerConfig     `yaml:"server"`
	Engine    EngineConfig     `yaml:"engine"`
}

// LoggingConfig configures pkg/logging.
type LoggingConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn warning error"`
	JSON  bool   `yaml:"json"`
	Dir   string `yaml:"dir"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port         int     `yaml:"port" validate:"min=1,max=65535"`
	RateLimit    float64 `yaml:"rate_limit" validate:"gt=0"`
	Burst        int     `yaml:"burst" validate:"min=1"`
	MaxBodyBytes int64   `yaml:"max_body_bytes" validate:"min=1024"`
}

// EngineConfig tunes evaluation.
type EngineConfig struct {
	// RobustnessTolerance is the equality tolerance of the robustness
	// domain. Zero means exact equality.
	RobustnessTolerance float64 `yaml:"robustness_tolerance" validate:"gte=0"`

	// BatchConcurrency bounds parallel trace evaluations; 0 means one per
	// trace.
	BatchConcurrency int `yaml:"batch_concurrency" validate:"gte=0"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Logging:   LoggingConfig{Level: "info"},
		Telemetry: telemetry.DefaultConfig(),
		Server: ServerConfig{
			Port:         8089,
			RateLimit:    50,
			Burst:        100,
			MaxBodyBytes: 8 << 20,
		},
		Engine: EngineConfig{BatchConcurrency: 4},
	}
}

var validate = validator.New()

// Validate checks every field constraint.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// LoggerConfig translates the logging section for pkg/logging.
func (c Config) LoggerConfig() logging.Config {
	level, _ := logging.ParseLevel(c.Logging.Level)
	return logging.Config{
		Level:   level,
		Service: c.Telemetry.ServiceName,
		JSON:    c.Logging.JSON,
		LogDir:  c.Logging.Dir,
	}
}

// Load reads path over the defaults and validates the result. An empty
// path or a missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// WriteDefault writes the default configuration to path, creating its
// directory.
func WriteDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
