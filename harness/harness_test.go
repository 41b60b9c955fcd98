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

package harness

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/planfix/fix"
)

func TestGoTestArgs(t *testing.T) {
	require := require.New(t)

	args := goTestArgs(Request{
		Package: "./enginetest",
		Filter:  "TestQueryPlans",
		Count:   1,
	})
	require.Equal([]string{"test", "-v", "./enginetest", "-run", "TestQueryPlans", "-count=1"}, args)

	args = goTestArgs(Request{})
	require.Equal([]string{"test", "-v"}, args)
}

func TestVerdict(t *testing.T) {
	require := require.New(t)

	require.True(verdict("ok \tplans\t0.3s", nil))
	require.False(verdict("--- FAIL: TestQueryPlans", nil))
	require.False(verdict("ok", ErrHarnessStart.New("boom")))
	require.False(verdict("--- FAIL", ErrHarnessStart.New("boom")))
}

func TestScriptPassingRun(t *testing.T) {
	require := require.New(t)
	ctx := fix.NewEmptyContext()

	runner := &Script{Command: "echo all good"}
	res, err := runner.Run(ctx, Request{Dir: t.TempDir()})
	require.NoError(err)
	require.True(res.Passed)
	require.Contains(res.Output, "all good")
	require.True(res.Duration > 0)
}

func TestScriptFailingRunIsNotAnError(t *testing.T) {
	require := require.New(t)
	ctx := fix.NewEmptyContext()

	runner := &Script{Command: "echo '--- FAIL: TestQueryPlans'; exit 1"}
	res, err := runner.Run(ctx, Request{})
	require.NoError(err)
	require.False(res.Passed)
	require.Contains(res.Output, "--- FAIL: TestQueryPlans")
}

func TestScriptFailWordAloneFailsTheRun(t *testing.T) {
	require := require.New(t)
	ctx := fix.NewEmptyContext()

	// Wrappers sometimes swallow the exit code; the marker still counts.
	runner := &Script{Command: "echo FAIL"}
	res, err := runner.Run(ctx, Request{})
	require.NoError(err)
	require.False(res.Passed)
}

func TestScriptNoOutputIsAStartError(t *testing.T) {
	require := require.New(t)
	ctx := fix.NewEmptyContext()

	runner := &Script{Command: "exit 3"}
	_, err := runner.Run(ctx, Request{})
	require.Error(err)
	require.True(ErrHarnessStart.Is(err))
}

func TestRunHonorsContextCancellation(t *testing.T) {
	require := require.New(t)

	base, cancel := context.WithCancel(context.Background())
	cancel()
	ctx := fix.NewContext(base)

	runner := &Script{Command: "sleep 10"}
	_, err := runner.Run(ctx, Request{})
	require.Error(err)
	require.ErrorIs(err, context.Canceled)
}
