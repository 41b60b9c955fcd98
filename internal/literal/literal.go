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

// Package literal converts between raw multi-line text and the escaped form
// it takes inside a double-quoted source literal.
package literal

import (
	"bytes"
	"strings"
)

// encoder escapes the characters that cannot appear raw inside a quoted
// literal. Backslash must come first so that the escapes introduced for
// quotes and newlines are not themselves re-escaped.
var encoder = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\t", `\t`,
	"\r", `\r`,
)

// Encode returns the escaped form raw would take embedded in a double-quoted
// source literal. The quotes themselves are not added.
func Encode(raw string) string {
	return encoder.Replace(raw)
}

// Decode is the exact inverse of Encode: it resolves every backslash escape
// in a literal body back to the character it stands for, so that
// Decode(Encode(x)) == x for any x. A single left-to-right scan is required
// here; replacing escape sequences one kind at a time mis-reads inputs such
// as `\\n`, where the backslash pair must consume its second byte before the
// `n` is considered.
func Decode(literal string) string {
	if !strings.ContainsRune(literal, '\\') {
		return literal
	}

	ret := new(bytes.Buffer)
	ret.Grow(len(literal))
	for i := 0; i < len(literal); i++ {
		if literal[i] != '\\' {
			ret.WriteByte(literal[i])
			continue
		}

		i++
		if i == len(literal) {
			// Trailing lone backslash, nothing to resolve.
			ret.WriteByte('\\')
			break
		}

		switch literal[i] {
		case 'n':
			ret.WriteByte('\n')
		case 't':
			ret.WriteByte('\t')
		case 'r':
			ret.WriteByte('\r')
		case '"':
			ret.WriteByte('"')
		case '\\':
			ret.WriteByte('\\')
		default:
			// For all other escape sequences, backslash is ignored.
			ret.WriteByte(literal[i])
		}
	}

	return ret.String()
}

// Quote wraps the encoded form of raw in double quotes, yielding the complete
// literal as it appears in source.
func Quote(raw string) string {
	return `"` + Encode(raw) + `"`
}
