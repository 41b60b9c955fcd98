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

package match

import (
	"strings"

	"github.com/dolthub/planfix/fix"
	"github.com/dolthub/planfix/internal/literal"
)

// contextRadius is the number of lines kept on each side of the anchor.
const contextRadius = 2

// contextBlock handles records where a token substitution drifted several
// lines of a multi-line value, e.g. a renamed plan-node kind, but the whole
// literal no longer matches the fixture. It anchors on a line that is
// unchanged between expected and actual yet sits next to a changed one,
// takes the anchor's neighborhood from both sides, and replaces the encoded
// expected neighborhood with the encoded actual one. Best-effort: without a
// usable anchor present in the content, the record stays unmatched.
func contextBlock(_ *fix.Context, record fix.FailureRecord, content string) (*fix.Edit, error) {
	expLines := strings.Split(record.Expected, "\n")
	actLines := strings.Split(record.Actual, "\n")

	// A token substitution keeps the line structure intact. Single-line
	// values are already fully served by the exact and numeric strategies.
	if len(expLines) < 2 || len(expLines) != len(actLines) {
		return nil, nil
	}

	changed := make([]bool, len(expLines))
	var any bool
	for i := range expLines {
		if expLines[i] != actLines[i] {
			changed[i] = true
			any = true
		}
	}
	if !any {
		return nil, nil
	}

	for i := range expLines {
		if changed[i] || strings.TrimSpace(expLines[i]) == "" {
			continue
		}

		lo := i - contextRadius
		if lo < 0 {
			lo = 0
		}
		hi := i + contextRadius
		if hi > len(expLines)-1 {
			hi = len(expLines) - 1
		}

		if !anyChanged(changed[lo : hi+1]) {
			// An anchor whose whole neighborhood is unchanged would
			// produce a no-op edit.
			continue
		}

		search := literal.Encode(strings.Join(expLines[lo:hi+1], "\n"))
		if !strings.Contains(content, search) {
			continue
		}

		return &fix.Edit{
			Search:  search,
			Replace: literal.Encode(strings.Join(actLines[lo:hi+1], "\n")),
			Scope:   fix.FirstOccurrenceOnly,
		}, nil
	}

	return nil, nil
}

func anyChanged(window []bool) bool {
	for _, c := range window {
		if c {
			return true
		}
	}
	return false
}
