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

// Package fix holds the core types shared by the reconciliation pipeline:
// failure records recovered from harness output, the edits planned against a
// fixture file, and the session state of the reconcile loop.
package fix

// FailureRecord is a single expected/actual pair recovered from one failure
// section of the harness output. Both sides are raw, fully unescaped
// multi-line text. Records are kept in harness-output order and duplicates
// are preserved, since a fixture file may contain the same literal more than
// once.
type FailureRecord struct {
	Expected string
	Actual   string
}

// Scope controls how many occurrences of an edit's search text are replaced.
type Scope byte

const (
	// FirstOccurrenceOnly replaces exactly one occurrence of the search
	// text, the first remaining one in the working copy.
	FirstOccurrenceOnly Scope = iota
	// Global replaces every remaining occurrence of the search text.
	Global
)

func (s Scope) String() string {
	switch s {
	case Global:
		return "global"
	default:
		return "first-occurrence"
	}
}

// Edit is one located replacement. Search and Replace are in encoded literal
// form, exactly as they appear in the fixture source. Strategy names the
// matcher that produced the edit.
type Edit struct {
	Search   string
	Replace  string
	Scope    Scope
	Strategy string
}

// EditPlan is an ordered sequence of edits applied against a single working
// copy of the fixture content. It is built once per reconcile iteration and
// discarded after application.
type EditPlan []Edit
