// Copyright 2025 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package planfix

import (
	"os"

	"github.com/spf13/cast"
	errors "gopkg.in/src-d/go-errors.v1"
	yaml "gopkg.in/yaml.v2"
)

const (
	// environment variable names
	envFixture       = "PLANFIX_FIXTURE"
	envDir           = "PLANFIX_DIR"
	envPackage       = "PLANFIX_PACKAGE"
	envRun           = "PLANFIX_RUN"
	envCount         = "PLANFIX_COUNT"
	envCommand       = "PLANFIX_COMMAND"
	envMaxIterations = "PLANFIX_MAX_ITERATIONS"
	envDryRun        = "PLANFIX_DRY_RUN"
	envJournal       = "PLANFIX_JOURNAL"
	envLogDir        = "PLANFIX_LOG_DIR"
)

// Defaults mirror the plan-update scripts this tool grew out of: twenty
// passes over the plan suite with the test cache disabled.
const (
	DefaultMaxIterations = 20
	DefaultCount         = 1
	DefaultRun           = "TestQueryPlans"
	DefaultPackage       = "./enginetest"

	// DefaultConfigPath is where the CLI looks for configuration when no
	// --config flag is given.
	DefaultConfigPath = ".planfix.yaml"
	// DefaultJournalPath is the CLI's default run-history location.
	DefaultJournalPath = ".planfix/history.db"
)

var (
	// ErrNoFixture is returned by Validate when no fixture file is
	// configured at all.
	ErrNoFixture = errors.NewKind("no fixture file configured")
	// ErrInvalidConfig is returned for configurations that cannot drive
	// a run.
	ErrInvalidConfig = errors.NewKind("invalid configuration: %s")
	// ErrBadEnv is returned when an environment override cannot be
	// parsed; a bad value is never silently replaced by a default.
	ErrBadEnv = errors.NewKind("cannot parse env var %s=%s")
	// ErrConfigRead is returned when a config file exists but cannot be
	// read.
	ErrConfigRead = errors.NewKind("couldn't read config file %s")
)

// HarnessConfig selects and parameterizes the suite invocation.
type HarnessConfig struct {
	// Dir is the working directory the suite runs in.
	Dir string `yaml:"dir"`
	// Package is the go test package pattern.
	Package string `yaml:"package"`
	// Run filters tests by name, as in go test -run.
	Run string `yaml:"run"`
	// Count is the go test -count argument.
	Count int `yaml:"count"`
	// Command, when set, replaces go test with a shell command.
	Command string `yaml:"command"`
}

// Config for a reconciliation run.
type Config struct {
	// Fixture is the source file whose expected literals get rewritten.
	Fixture string `yaml:"fixture"`
	// Harness configures the external suite invocation.
	Harness HarnessConfig `yaml:"harness"`
	// MaxIterations caps the reconciliation loop.
	MaxIterations int `yaml:"max_iterations"`
	// DryRun plans and counts edits without writing the fixture.
	DryRun bool `yaml:"dry_run"`
	// JournalPath is the bolt database recording run history. Empty
	// disables journaling.
	JournalPath string `yaml:"journal"`
	// LogDir, when set, receives the raw harness output of every
	// iteration.
	LogDir string `yaml:"log_dir"`
}

// NewConfig returns a Config with the defaults applied.
func NewConfig() *Config {
	return &Config{
		MaxIterations: DefaultMaxIterations,
		Harness: HarnessConfig{
			Package: DefaultPackage,
			Run:     DefaultRun,
			Count:   DefaultCount,
		},
	}
}

// LoadConfig reads the YAML file at path over the defaults and then applies
// environment overrides. A missing file is not an error; defaults and
// environment alone can configure a run.
func LoadConfig(path string) (*Config, error) {
	cfg := NewConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, ErrConfigRead.Wrap(err, path)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, ErrInvalidConfig.Wrap(err, path)
		}
	}

	if err := cfg.fromEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// fromEnv applies PLANFIX_* overrides on top of the current values.
func (c *Config) fromEnv() error {
	if e := os.Getenv(envFixture); e != "" {
		c.Fixture = e
	}

	if e := os.Getenv(envDir); e != "" {
		c.Harness.Dir = e
	}

	if e := os.Getenv(envPackage); e != "" {
		c.Harness.Package = e
	}

	if e := os.Getenv(envRun); e != "" {
		c.Harness.Run = e
	}

	if e := os.Getenv(envCount); e != "" {
		value, err := cast.ToIntE(e)
		if err != nil {
			return ErrBadEnv.Wrap(err, envCount, e)
		}
		c.Harness.Count = value
	}

	if e := os.Getenv(envCommand); e != "" {
		c.Harness.Command = e
	}

	if e := os.Getenv(envMaxIterations); e != "" {
		value, err := cast.ToIntE(e)
		if err != nil {
			return ErrBadEnv.Wrap(err, envMaxIterations, e)
		}
		c.MaxIterations = value
	}

	if e := os.Getenv(envDryRun); e != "" {
		value, err := cast.ToBoolE(e)
		if err != nil {
			return ErrBadEnv.Wrap(err, envDryRun, e)
		}
		c.DryRun = value
	}

	if e := os.Getenv(envJournal); e != "" {
		c.JournalPath = e
	}

	if e := os.Getenv(envLogDir); e != "" {
		c.LogDir = e
	}

	return nil
}

// Validate reports whether the config can drive a run.
func (c *Config) Validate() error {
	if c.Fixture == "" {
		return ErrNoFixture.New()
	}
	if c.MaxIterations <= 0 {
		return ErrInvalidConfig.New("max iterations must be positive")
	}
	if c.Harness.Command == "" && c.Harness.Package == "" {
		return ErrInvalidConfig.New("either a go test package or a command is required")
	}
	return nil
}
