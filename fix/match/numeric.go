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
	"regexp"
	"strings"

	"github.com/dolthub/planfix/fix"
	"github.com/dolthub/planfix/internal/literal"
)

// A labeled numeric value as printed in plan annotations, e.g. `rows=2` or
// `estimated cost=12.5`. Labels are one or two words so that a long phrase
// before the `=` does not get swallowed into the token.
var numericFieldRegex = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*(?: [A-Za-z_][A-Za-z0-9_]*)?=-?[0-9]+(?:\.[0-9]+)?`)

// numericField matches when the expected and actual text are identical
// except for the value of exactly one labeled numeric token. Whole-literal
// matching fails as soon as anything else in a large multi-line literal has
// drifted too; patching only the stale token is narrower and far more likely
// to succeed. The edit applies globally: a given annotation with a specific
// stale value denotes the same quantity everywhere it appears verbatim.
func numericField(_ *fix.Context, record fix.FailureRecord, content string) (*fix.Edit, error) {
	if record.Expected == record.Actual {
		return nil, nil
	}

	expToks := numericFieldRegex.FindAllStringIndex(record.Expected, -1)
	actToks := numericFieldRegex.FindAllStringIndex(record.Actual, -1)
	if len(expToks) == 0 || len(expToks) != len(actToks) {
		return nil, nil
	}

	diff := -1
	for i := range expToks {
		expTok := record.Expected[expToks[i][0]:expToks[i][1]]
		actTok := record.Actual[actToks[i][0]:actToks[i][1]]
		if expTok == actTok {
			continue
		}
		if diff != -1 {
			// More than one token drifted; this is not a lone numeric
			// change.
			return nil, nil
		}
		diff = i
	}
	if diff == -1 {
		return nil, nil
	}

	expTok := record.Expected[expToks[diff][0]:expToks[diff][1]]
	actTok := record.Actual[actToks[diff][0]:actToks[diff][1]]
	if label(expTok) != label(actTok) {
		return nil, nil
	}

	// Everything around the differing token must be byte-identical,
	// otherwise the record carries more than a numeric drift.
	if record.Expected[:expToks[diff][0]] != record.Actual[:actToks[diff][0]] ||
		record.Expected[expToks[diff][1]:] != record.Actual[actToks[diff][1]:] {
		return nil, nil
	}

	search := literal.Encode(expTok)
	if !strings.Contains(content, search) {
		return nil, nil
	}

	return &fix.Edit{
		Search:  search,
		Replace: literal.Encode(actTok),
		Scope:   fix.Global,
	}, nil
}

func label(token string) string {
	if i := strings.IndexByte(token, '='); i >= 0 {
		return token[:i]
	}
	return token
}
