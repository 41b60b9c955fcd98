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

// exactLiteral searches for the record's expected text as a complete quoted
// literal and replaces it with the actual text. The edit replaces a single
// occurrence; the same literal can legitimately appear under more than one
// fixture entry, and each failure occurrence accounts for exactly one of
// them.
func exactLiteral(_ *fix.Context, record fix.FailureRecord, content string) (*fix.Edit, error) {
	search := literal.Quote(record.Expected)
	if !strings.Contains(content, search) {
		return nil, nil
	}

	return &fix.Edit{
		Search:  search,
		Replace: literal.Quote(record.Actual),
		Scope:   fix.FirstOccurrenceOnly,
	}, nil
}
