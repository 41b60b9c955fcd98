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

package similartext

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDistanceForStrings(t *testing.T) {
	testCases := []struct {
		source   string
		target   string
		expected int
	}{
		{"", "", 0},
		{"foo", "foo", 0},
		{"bar", "baz", 2},
		{"ab", "abc", 1},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 5},
	}

	for _, tt := range testCases {
		t.Run(tt.source+"/"+tt.target, func(t *testing.T) {
			require.Equal(t, tt.expected,
				DistanceForStrings([]rune(tt.source), []rune(tt.target)))
		})
	}
}

func TestClosest(t *testing.T) {
	require := require.New(t)

	res, ok := Closest(nil, "anything")
	require.False(ok)
	require.Empty(res)

	res, ok = Closest([]string{"a"}, "")
	require.False(ok)
	require.Empty(res)

	res, ok = Closest([]string{"alpha", "beta"}, "beta")
	require.True(ok)
	require.Equal("beta", res)

	// A plan line should land on the source line that quotes it, despite
	// the quoting overhead around the text itself.
	lines := []string{
		"func TestPlans(t *testing.T) {",
		`"Project(mytable.i)\n" +`,
		`" └─ Table(mytable)\n",`,
	}
	res, ok = Closest(lines, "Project(mytable.i)")
	require.True(ok)
	require.Equal(`"Project(mytable.i)\n" +`, res)

	_, ok = Closest([]string{"func helper() {", "return nil"}, "Exchange(parallelism=4)")
	require.False(ok)
}

func BenchmarkClosest(b *testing.B) {
	candidates := make([]string, 0, 2000)
	for i := 0; i < 2000; i++ {
		candidates = append(candidates,
			fmt.Sprintf(`"Project(t%d.col%d)\n └─ Filter(t%d.col%d > %d)\n" +`, i, i%7, i, i%5, i))
	}
	target := `"Project(t1500.col2)\n └─ Filter(t1500.col0 > 1500)\n" +`

	for i := 0; i < b.N; i++ {
		if _, ok := Closest(candidates, target); !ok {
			b.Fatal("expected a closest candidate")
		}
	}
}
