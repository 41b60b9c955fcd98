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

package patch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/planfix/fix"
)

func TestApplyFirstOccurrenceOnly(t *testing.T) {
	require := require.New(t)

	content := `a = "old"; b = "old"`
	plan := fix.EditPlan{
		{Search: `"old"`, Replace: `"new"`, Scope: fix.FirstOccurrenceOnly},
	}

	got, applied := Apply(content, plan)
	require.Equal(1, applied)
	require.Equal(`a = "new"; b = "old"`, got)
}

func TestApplyGlobal(t *testing.T) {
	require := require.New(t)

	content := `a = "old"; b = "old"`
	plan := fix.EditPlan{
		{Search: `"old"`, Replace: `"new"`, Scope: fix.Global},
	}

	got, applied := Apply(content, plan)
	require.Equal(1, applied)
	require.Equal(`a = "new"; b = "new"`, got)
}

func TestApplySkipsAbsentSearch(t *testing.T) {
	require := require.New(t)

	content := `a = "one"`
	plan := fix.EditPlan{
		{Search: `"missing"`, Replace: `"x"`, Scope: fix.FirstOccurrenceOnly},
		{Search: `"one"`, Replace: `"two"`, Scope: fix.FirstOccurrenceOnly},
	}

	got, applied := Apply(content, plan)
	require.Equal(1, applied)
	require.Equal(`a = "two"`, got)
}

func TestApplyInOrder(t *testing.T) {
	require := require.New(t)

	// The first edit rewrites the text the second edit searches for, so the
	// second must see the working copy rather than the original content.
	content := `x = "a"`
	plan := fix.EditPlan{
		{Search: `"a"`, Replace: `"b"`, Scope: fix.FirstOccurrenceOnly},
		{Search: `"b"`, Replace: `"c"`, Scope: fix.FirstOccurrenceOnly},
	}

	got, applied := Apply(content, plan)
	require.Equal(2, applied)
	require.Equal(`x = "c"`, got)
}

func TestApplyEarlierEditConsumesLater(t *testing.T) {
	require := require.New(t)

	// The opposite ordering effect: the first edit removes the only
	// occurrence the second edit would have matched.
	content := `x = "a"`
	plan := fix.EditPlan{
		{Search: `"a"`, Replace: `"b"`, Scope: fix.FirstOccurrenceOnly},
		{Search: `"a"`, Replace: `"c"`, Scope: fix.FirstOccurrenceOnly},
	}

	got, applied := Apply(content, plan)
	require.Equal(1, applied)
	require.Equal(`x = "b"`, got)
}

func TestApplyEmptyPlan(t *testing.T) {
	require := require.New(t)

	content := `unchanged`
	got, applied := Apply(content, nil)
	require.Equal(0, applied)
	require.Equal(content, got)
}

func TestCommitWritesOnlyWhenApplied(t *testing.T) {
	require := require.New(t)
	ctx := fix.NewEmptyContext()

	dir := t.TempDir()
	path := filepath.Join(dir, "fixture.go")
	require.NoError(os.WriteFile(path, []byte(`q = "old"`), 0644))

	file, err := fix.ReadFixture(path)
	require.NoError(err)

	// A plan with no applicable edits must leave the file byte-identical.
	applied, err := Commit(ctx, file, fix.EditPlan{
		{Search: `"missing"`, Replace: `"x"`, Scope: fix.FirstOccurrenceOnly},
	})
	require.NoError(err)
	require.Equal(0, applied)

	onDisk, err := os.ReadFile(path)
	require.NoError(err)
	require.Equal(`q = "old"`, string(onDisk))

	applied, err = Commit(ctx, file, fix.EditPlan{
		{Search: `"old"`, Replace: `"new"`, Scope: fix.FirstOccurrenceOnly},
	})
	require.NoError(err)
	require.Equal(1, applied)

	onDisk, err = os.ReadFile(path)
	require.NoError(err)
	require.Equal(`q = "new"`, string(onDisk))
	require.Equal(`q = "new"`, file.Content)
}
