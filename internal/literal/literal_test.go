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

package literal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		expected string
	}{
		{"empty", "", ""},
		{"plain", "Table(mytable)", "Table(mytable)"},
		{"newline", "Sort(a)\n └─ Table(b)", `Sort(a)\n └─ Table(b)`},
		{"quote", `name = "foo"`, `name = \"foo\"`},
		{"backslash", `C:\dir`, `C:\\dir`},
		{"backslash then n", `\` + "n", `\\n`},
		{"escaped newline text", `a\nb`, `a\\nb`},
		{"tab", "a\tb", `a\tb`},
		{"carriage return", "a\r\nb", `a\r\nb`},
		{"unicode kept raw", "Project\n └─ Filter", `Project\n └─ Filter`},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, Encode(tt.raw))
		})
	}
}

func TestDecode(t *testing.T) {
	testCases := []struct {
		name     string
		literal  string
		expected string
	}{
		{"empty", "", ""},
		{"plain", "Table(mytable)", "Table(mytable)"},
		{"newline", `a\nb`, "a\nb"},
		{"quote", `\"foo\"`, `"foo"`},
		{"double backslash", `C:\\dir`, `C:\dir`},
		{"backslash pair then n", `\\n`, `\` + "n"},
		{"tab and cr", `a\tb\rc`, "a\tb\rc"},
		{"unknown escape drops backslash", `a\qb`, "aqb"},
		{"trailing backslash kept", `abc\`, `abc\`},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, Decode(tt.literal))
		})
	}
}

func TestRoundTrip(t *testing.T) {
	require := require.New(t)

	inputs := []string{
		"",
		"single line",
		"two\nlines",
		`quotes "inside" text`,
		`back\slash`,
		`\` + "n",
		`\\`,
		"mix\\of\n\"every\\nthing\"\n",
		"Project(a, b)\n ├─ Filter(x > 1)\n └─ Table(t)\n",
		"tab\tand\rreturn",
		`trailing backslash \`,
	}

	for _, in := range inputs {
		require.Equal(in, Decode(Encode(in)), "round trip failed for %q", in)
	}
}

func TestQuote(t *testing.T) {
	require := require.New(t)

	require.Equal(`"a\nb"`, Quote("a\nb"))
	require.Equal(`""`, Quote(""))
	require.Equal(`"say \"hi\""`, Quote(`say "hi"`))
}
