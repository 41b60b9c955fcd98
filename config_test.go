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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	require := require.New(t)

	cfg := NewConfig()
	require.Equal(DefaultMaxIterations, cfg.MaxIterations)
	require.Equal(DefaultPackage, cfg.Harness.Package)
	require.Equal(DefaultRun, cfg.Harness.Run)
	require.Equal(DefaultCount, cfg.Harness.Count)
	require.Empty(cfg.Fixture)
	require.False(cfg.DryRun)
	require.Empty(cfg.JournalPath)
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	require := require.New(t)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(err)
	require.Equal(DefaultMaxIterations, cfg.MaxIterations)
	require.Equal(DefaultRun, cfg.Harness.Run)
}

func TestLoadConfigFile(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "planfix.yaml")
	require.NoError(os.WriteFile(path, []byte(`
fixture: enginetest/query_plans.go
harness:
  dir: ../engine
  run: TestIndexQueryPlans
  count: 2
max_iterations: 5
dry_run: true
journal: .planfix/history.db
log_dir: /tmp/planfix-logs
`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(err)
	require.Equal("enginetest/query_plans.go", cfg.Fixture)
	require.Equal("../engine", cfg.Harness.Dir)
	require.Equal("TestIndexQueryPlans", cfg.Harness.Run)
	require.Equal(2, cfg.Harness.Count)
	require.Equal(5, cfg.MaxIterations)
	require.True(cfg.DryRun)
	require.Equal(".planfix/history.db", cfg.JournalPath)
	require.Equal("/tmp/planfix-logs", cfg.LogDir)

	// Fields absent from the file keep their defaults.
	require.Equal(DefaultPackage, cfg.Harness.Package)
}

func TestLoadConfigBadYAML(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "planfix.yaml")
	require.NoError(os.WriteFile(path, []byte("fixture: [unclosed"), 0644))

	_, err := LoadConfig(path)
	require.Error(err)
	require.True(ErrInvalidConfig.Is(err))
}

func TestConfigEnvOverrides(t *testing.T) {
	require := require.New(t)

	t.Setenv(envFixture, "plans_test.go")
	t.Setenv(envMaxIterations, "7")
	t.Setenv(envDryRun, "true")
	t.Setenv(envCount, "3")
	t.Setenv(envCommand, "make plans")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(err)
	require.Equal("plans_test.go", cfg.Fixture)
	require.Equal(7, cfg.MaxIterations)
	require.True(cfg.DryRun)
	require.Equal(3, cfg.Harness.Count)
	require.Equal("make plans", cfg.Harness.Command)
}

func TestConfigEnvOverrideParseError(t *testing.T) {
	require := require.New(t)

	t.Setenv(envMaxIterations, "soon")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(err)
	require.True(ErrBadEnv.Is(err))
}

func TestConfigValidate(t *testing.T) {
	require := require.New(t)

	cfg := NewConfig()
	err := cfg.Validate()
	require.Error(err)
	require.True(ErrNoFixture.Is(err))

	cfg.Fixture = "plans_test.go"
	require.NoError(cfg.Validate())

	cfg.MaxIterations = 0
	err = cfg.Validate()
	require.Error(err)
	require.True(ErrInvalidConfig.Is(err))

	cfg = NewConfig()
	cfg.Fixture = "plans_test.go"
	cfg.Harness.Package = ""
	err = cfg.Validate()
	require.Error(err)
	require.True(ErrInvalidConfig.Is(err))

	cfg.Harness.Command = "make plans"
	require.NoError(cfg.Validate())
}
