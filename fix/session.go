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

package fix

import (
	"github.com/mitchellh/hashstructure"
)

// Status is the disposition of a reconciliation session.
type Status byte

const (
	// Running means the loop has not reached a terminal state yet.
	Running Status = iota
	// Converged means a harness run reported zero failures.
	Converged
	// Exhausted means the iteration cap was reached without converging.
	Exhausted
	// Stalled means an iteration applied zero edits, so further iterations
	// would be wasted.
	Stalled
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Converged:
		return "converged"
	case Exhausted:
		return "exhausted"
	case Stalled:
		return "stalled"
	default:
		return "unknown"
	}
}

// Session is the state of one run of the reconcile loop. It is created at
// loop start, observed once per iteration, and discarded at loop exit. It is
// an explicit value rather than ambient state so the loop can be driven and
// inspected by tests without a real harness.
type Session struct {
	// Iteration counts completed iterations.
	Iteration int
	// MaxIterations bounds the loop.
	MaxIterations int
	// FailureHistory records the pre-edit failure count of each iteration.
	FailureHistory []int
	// AppliedHistory records the applied edit count of each iteration.
	AppliedHistory []int

	seen map[uint64]int
}

// NewSession returns a session bounded by maxIterations.
func NewSession(maxIterations int) *Session {
	return &Session{
		MaxIterations: maxIterations,
		seen:          make(map[uint64]int),
	}
}

// Observe records one completed iteration: the failure count reported by the
// harness before edits, and the number of edits actually applied.
func (s *Session) Observe(failures, applied int) {
	s.FailureHistory = append(s.FailureHistory, failures)
	s.AppliedHistory = append(s.AppliedHistory, applied)
	s.Iteration++
}

// Progress returns the delta between the two most recent failure counts, and
// false when fewer than two iterations have been observed. Negative values
// mean the failure count went down. The delta is not required to be
// monotonic; a narrow numeric fix can make an unrelated full-literal match
// newly exact or newly broken.
func (s *Session) Progress() (int, bool) {
	n := len(s.FailureHistory)
	if n < 2 {
		return 0, false
	}

	return s.FailureHistory[n-1] - s.FailureHistory[n-2], true
}

// LastFailureCount returns the most recently observed failure count, or zero
// when nothing has been observed.
func (s *Session) LastFailureCount() int {
	if len(s.FailureHistory) == 0 {
		return 0
	}

	return s.FailureHistory[len(s.FailureHistory)-1]
}

// TotalApplied returns the sum of applied edits across all iterations.
func (s *Session) TotalApplied() int {
	var total int
	for _, n := range s.AppliedHistory {
		total += n
	}

	return total
}

// SeenFailures fingerprints the given failure set and reports the iteration
// at which an identical set was first seen in this session, if any. A repeat
// while edits are still being applied means the edits are not moving the
// harness, which is worth surfacing to the operator before the cap is spent.
func (s *Session) SeenFailures(records []FailureRecord) (int, bool) {
	sum, err := hashstructure.Hash(records, nil)
	if err != nil {
		// Hashing plain string pairs cannot realistically fail; treat a
		// failure as "never seen" rather than aborting the loop.
		return 0, false
	}

	if first, ok := s.seen[sum]; ok {
		return first, true
	}

	s.seen[sum] = s.Iteration
	return 0, false
}

// Result summarizes a finished reconciliation session.
type Result struct {
	Status            Status
	Iterations        int
	FailureHistory    []int
	AppliedHistory    []int
	Unmatched         []FailureRecord
	RemainingFailures int
}
