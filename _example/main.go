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

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dolthub/planfix"
	"github.com/dolthub/planfix/fix"
)

// Example of reconciling a fixture against a scripted harness. The harness
// here is a shell one-liner standing in for a real test suite: it reports a
// canned "Not equal:" failure until the fixture carries the Exchange node,
// then passes.
//
// ```
// > go run ./_example
// converged
// plans = []string{"Sort(a)\nExchange(n=2)\nTable(t)"}
// ```
func main() {
	dir, err := os.MkdirTemp("", "planfix-example")
	checkIfError(err)
	defer os.RemoveAll(dir)

	result, content, err := reconcileExample(dir)
	checkIfError(err)

	fmt.Println(result.Status)
	fmt.Println(content)
}

// reconcileExample writes the fixture and the canned failure under dir, runs
// the loop against the scripted harness, and returns the outcome along with
// the fixture's final content.
func reconcileExample(dir string) (*fix.Result, string, error) {
	fixture := filepath.Join(dir, "plans.go")
	err := os.WriteFile(fixture, []byte(`plans = []string{"Sort(a)\nTable(t)"}`), 0644)
	if err != nil {
		return nil, "", err
	}

	failure := `--- FAIL: TestQueryPlans
	Error: Not equal:
	expected: "Sort(a)\nTable(t)"
	actual  : "Sort(a)\nExchange(n=2)\nTable(t)"
FAIL
`
	err = os.WriteFile(filepath.Join(dir, "failure.txt"), []byte(failure), 0644)
	if err != nil {
		return nil, "", err
	}

	cfg := planfix.NewConfig()
	cfg.Fixture = fixture
	cfg.Harness.Dir = dir
	cfg.Harness.Command = `if grep -q Exchange plans.go; then echo ok; else cat failure.txt; exit 1; fi`

	engine := planfix.New(cfg)
	result, err := engine.Reconcile(fix.NewEmptyContext())
	if err != nil {
		return nil, "", err
	}

	content, err := os.ReadFile(fixture)
	if err != nil {
		return nil, "", err
	}

	return result, string(content), nil
}

func checkIfError(err error) {
	if err != nil {
		panic(err)
	}
}
