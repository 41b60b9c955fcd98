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

// Package parse turns raw harness output into the ordered failure records
// the rest of the pipeline consumes.
package parse

import (
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/dolthub/planfix/fix"
	"github.com/dolthub/planfix/internal/literal"
)

// SectionMarker delimits failure sections in harness output. Everything
// between two markers belongs to one failed assertion.
const SectionMarker = "Not equal:"

var (
	// A quoted literal allowing internal escaped characters. The label
	// spelling varies between harness versions ("actual:", "actual  :"),
	// so the colon is matched loosely. (?s) lets the match cross line
	// boundaries inside a section.
	expectedRegex = regexp.MustCompile(`(?s)expected:\s*"((?:\\.|[^"\\])*)"`)
	actualRegex   = regexp.MustCompile(`(?s)actual\s*:\s*"((?:\\.|[^"\\])*)"`)
)

// Parse splits output on the failure-section marker and recovers one
// FailureRecord per section that carries both an expected and an actual
// quoted literal, in output order. Sections missing either literal are
// skipped; harness output routinely contains unrelated text that
// superficially matches the marker. An empty result is valid and common: it
// means either nothing needs reconciling or the output format was not
// recognized.
func Parse(ctx *fix.Context, output string) []fix.FailureRecord {
	span, ctx := ctx.Span("parse.failures")
	defer span.Finish()

	sections := strings.Split(output, SectionMarker)

	var records []fix.FailureRecord
	for _, section := range sections[1:] {
		record, ok := parseSection(section)
		if !ok {
			continue
		}
		records = append(records, record)
	}

	span.SetTag("sections", len(sections)-1)
	span.SetTag("records", len(records))
	ctx.Logger().WithFields(logrus.Fields{
		"sections": len(sections) - 1,
		"records":  len(records),
	}).Debug("parsed harness output")

	return records
}

// parseSection extracts the expected and actual literals from one failure
// section. The expected literal must come first; the actual literal is
// searched only in the remainder of the section so that a stray "actual"
// inside the expected text cannot pair the literals up wrong.
func parseSection(section string) (fix.FailureRecord, bool) {
	expLoc := expectedRegex.FindStringSubmatchIndex(section)
	if expLoc == nil {
		return fix.FailureRecord{}, false
	}

	rest := section[expLoc[1]:]
	actLoc := actualRegex.FindStringSubmatchIndex(rest)
	if actLoc == nil {
		return fix.FailureRecord{}, false
	}

	return fix.FailureRecord{
		Expected: literal.Decode(section[expLoc[2]:expLoc[3]]),
		Actual:   literal.Decode(rest[actLoc[2]:actLoc[3]]),
	}, true
}
