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

// Package match locates the fixture text corresponding to a failure record
// and produces the replacement edit for it. Strategies are tried in a fixed
// order, strictest first, and the first success wins.
package match

import (
	"github.com/sirupsen/logrus"

	"github.com/dolthub/planfix/fix"
)

// StrategyFunc is the function applied by a strategy. It is a pure function
// of the record and the fixture content: it must not mutate content, and it
// returns a nil edit when the strategy finds no match.
type StrategyFunc func(*fix.Context, fix.FailureRecord, string) (*fix.Edit, error)

// Strategy locates a replacement for one failure record.
type Strategy struct {
	// Name of the strategy.
	Name string
	// Apply attempts to locate a replacement.
	Apply StrategyFunc
}

// DefaultStrategies are applied in order, first success wins. The order runs
// from strictest to most lenient: a verbatim whole-literal match, then a
// single drifted numeric field, then a best-effort block around an anchor
// line.
var DefaultStrategies = []Strategy{
	{"exact_literal", exactLiteral},
	{"numeric_field", numericField},
	{"context_block", contextBlock},
}

// Locate runs record through the strategies in order and returns the first
// located edit, stamped with the strategy's name, or nil when no strategy
// matched.
func Locate(ctx *fix.Context, strategies []Strategy, record fix.FailureRecord, content string) (*fix.Edit, error) {
	for _, strategy := range strategies {
		edit, err := strategy.Apply(ctx, record, content)
		if err != nil {
			return nil, err
		}
		if edit != nil {
			edit.Strategy = strategy.Name
			return edit, nil
		}
	}

	return nil, nil
}

// Plan runs every record through the chain against the same starting
// content, collecting located edits in record order and returning the
// records nothing could locate. Later application happens against a working
// copy, so two records sharing a literal produce two edits and the patcher
// resolves them one occurrence at a time.
func Plan(ctx *fix.Context, strategies []Strategy, records []fix.FailureRecord, content string) (fix.EditPlan, []fix.FailureRecord, error) {
	span, ctx := ctx.Span("match.plan")
	defer span.Finish()

	if len(strategies) == 0 {
		strategies = DefaultStrategies
	}

	var plan fix.EditPlan
	var unmatched []fix.FailureRecord
	for _, record := range records {
		edit, err := Locate(ctx, strategies, record, content)
		if err != nil {
			return nil, nil, err
		}
		if edit == nil {
			unmatched = append(unmatched, record)
			continue
		}

		ctx.Logger().WithFields(logrus.Fields{
			"strategy": edit.Strategy,
			"scope":    edit.Scope.String(),
		}).Debug("located replacement")
		plan = append(plan, *edit)
	}

	span.SetTag("edits", len(plan))
	span.SetTag("unmatched", len(unmatched))

	return plan, unmatched, nil
}
