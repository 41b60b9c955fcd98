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

// Package harness invokes the external test suite and returns its combined
// output with a pass or fail verdict. It never interprets the output beyond
// the verdict; parsing failure sections is the caller's concern.
package harness

import (
	"fmt"
	"os/exec"
	"strings"
	"time"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
	errors "gopkg.in/src-d/go-errors.v1"

	"github.com/dolthub/planfix/fix"
)

// ErrHarnessStart is returned when the suite process produced no output at
// all, which means it never ran rather than ran and failed.
var ErrHarnessStart = errors.NewKind("couldn't start test harness: %s")

// failWord marks a failing run in test output even when the process manages
// to exit zero.
const failWord = "FAIL"

// Request describes one invocation of the suite.
type Request struct {
	// Dir is the working directory for the invocation.
	Dir string
	// Package is the package pattern handed to go test.
	Package string
	// Filter selects tests by name, as in go test -run.
	Filter string
	// Count is the -count argument, disabling result caching when 1.
	Count int
}

// Result is the outcome of one invocation.
type Result struct {
	// Output is the combined stdout and stderr of the process.
	Output string
	// Passed is true only when the process exited zero and the output
	// carries no failure marker.
	Passed bool
	// Duration is the wall time of the invocation.
	Duration time.Duration
}

// Runner runs the suite once. A failing suite is a normal result, not an
// error; errors mean the suite could not be invoked at all.
type Runner interface {
	Run(ctx *fix.Context, req Request) (Result, error)
}

// GoTest runs the suite through the go tool, the way plan suites are driven
// in development.
type GoTest struct{}

var _ Runner = (*GoTest)(nil)

func (g *GoTest) Run(ctx *fix.Context, req Request) (Result, error) {
	args := goTestArgs(req)
	return run(ctx, "harness.go_test", req.Dir, "go", args...)
}

// Script runs the suite through an arbitrary shell command, for suites not
// driven by go test. The verdict rules are the same as for GoTest.
type Script struct {
	Command string
}

var _ Runner = (*Script)(nil)

func (s *Script) Run(ctx *fix.Context, req Request) (Result, error) {
	return run(ctx, "harness.script", req.Dir, "sh", "-c", s.Command)
}

func run(ctx *fix.Context, opName, dir, name string, args ...string) (Result, error) {
	span, ctx := ctx.Span(opName,
		opentracing.Tag{Key: "command", Value: name + " " + strings.Join(args, " ")})
	defer span.Finish()

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	start := time.Now()
	output, runErr := cmd.CombinedOutput()
	duration := time.Since(start)

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if runErr != nil && len(output) == 0 {
		return Result{}, ErrHarnessStart.Wrap(runErr, name)
	}

	result := Result{
		Output:   string(output),
		Passed:   verdict(string(output), runErr),
		Duration: duration,
	}
	span.SetTag("passed", result.Passed)

	ctx.Logger().WithFields(logrus.Fields{
		"passed":   result.Passed,
		"duration": duration,
	}).Debug("test harness finished")

	return result, nil
}

// goTestArgs builds the go test argument list for a request. Zero-valued
// fields are simply left out, so a bare request means go test -v in dir.
func goTestArgs(req Request) []string {
	args := []string{"test", "-v"}
	if req.Package != "" {
		args = append(args, req.Package)
	}
	if req.Filter != "" {
		args = append(args, "-run", req.Filter)
	}
	if req.Count > 0 {
		args = append(args, fmt.Sprintf("-count=%d", req.Count))
	}
	return args
}

// verdict decides whether a run passed. An exit error means failure, and so
// does a failure marker in the output, since some suites report FAIL while
// still exiting zero under wrappers that swallow exit codes.
func verdict(output string, runErr error) bool {
	return runErr == nil && !strings.Contains(output, failWord)
}
