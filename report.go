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
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/sirupsen/logrus"

	"github.com/dolthub/planfix/fix"
	"github.com/dolthub/planfix/internal/similartext"
)

// reportUnmatched logs each record no strategy could place, with a unified
// diff of the expected and actual texts and, when one is close enough, the
// fixture line nearest the record's first drifted line. The hint points at
// literals that exist in the fixture but were restructured in source and so
// can't be found verbatim.
func reportUnmatched(ctx *fix.Context, file *fix.FixtureFile, unmatched []fix.FailureRecord) {
	if len(unmatched) == 0 {
		return
	}

	candidates := literalLines(file.Content)
	for i, record := range unmatched {
		entry := ctx.Logger().WithField("record", i+1)

		diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(record.Expected),
			B:        difflib.SplitLines(record.Actual),
			FromFile: "expected",
			ToFile:   "actual",
			Context:  2,
		})
		if err == nil {
			entry = entry.WithField("diff", diff)
		}

		if hint, ok := similartext.Closest(candidates, firstDriftedLine(record)); ok {
			entry = entry.WithField("nearest_fixture_line", hint)
		}

		entry.Warn("no strategy matched failure record")
	}
}

// firstDriftedLine returns the first line of the record's expected text that
// differs from the corresponding actual line, falling back to the first
// line.
func firstDriftedLine(record fix.FailureRecord) string {
	expected := strings.Split(record.Expected, "\n")
	actual := strings.Split(record.Actual, "\n")
	for i, line := range expected {
		if i >= len(actual) || actual[i] != line {
			return line
		}
	}

	return expected[0]
}

// literalLines returns the trimmed lines of the fixture that carry a quoted
// literal; only those are candidates for the nearest-line hint.
func literalLines(content string) []string {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.Contains(line, `"`) {
			lines = append(lines, line)
		}
	}

	return lines
}

// reportResult emits the final status line for the run.
func reportResult(ctx *fix.Context, result *fix.Result) {
	var total int
	for _, n := range result.AppliedHistory {
		total += n
	}

	entry := ctx.Logger().WithFields(logrus.Fields{
		"status":     result.Status.String(),
		"iterations": result.Iterations,
		"applied":    total,
		"remaining":  result.RemainingFailures,
	})

	switch result.Status {
	case fix.Converged:
		entry.Info("fixture reconciled")
	case fix.Exhausted:
		entry.Warn("iteration cap reached before convergence")
	case fix.Stalled:
		entry.Warn("reconciliation stalled; fixture needs manual attention")
	default:
		entry.Info("reconciliation finished")
	}
}
