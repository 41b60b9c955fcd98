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

// Package planfix reconciles expected-value literals in a test fixture file
// with the values an external test suite actually produces. It runs the
// suite, parses its failure report, locates each stale literal in the
// fixture source, rewrites it, and repeats until the suite passes or no
// further progress is possible.
package planfix

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"

	"github.com/dolthub/planfix/fix"
	"github.com/dolthub/planfix/fix/match"
	"github.com/dolthub/planfix/fix/parse"
	"github.com/dolthub/planfix/fix/patch"
	"github.com/dolthub/planfix/harness"
	"github.com/dolthub/planfix/journal"
)

// Engine drives the reconciliation loop for one fixture file.
type Engine struct {
	Config     *Config
	Runner     harness.Runner
	Strategies []match.Strategy
	// Journal, when set, receives a RunRecord for every finished run.
	Journal *journal.Journal
}

// New creates an Engine for the given config: a Script runner when a shell
// command is configured, the go test runner otherwise, and the default
// strategy chain.
func New(cfg *Config) *Engine {
	var runner harness.Runner
	if cfg.Harness.Command != "" {
		runner = &harness.Script{Command: cfg.Harness.Command}
	} else {
		runner = &harness.GoTest{}
	}

	return &Engine{
		Config:     cfg,
		Runner:     runner,
		Strategies: match.DefaultStrategies,
	}
}

// Reconcile runs the loop to a terminal state: Converged when a suite run
// reports no failures, Stalled when an iteration applies zero edits, and
// Exhausted when the iteration cap is spent first. Errors are operational
// only; a failing suite or an unmatched failure is a result, not an error.
func (e *Engine) Reconcile(ctx *fix.Context) (*fix.Result, error) {
	if err := e.Config.Validate(); err != nil {
		return nil, err
	}

	span, ctx := ctx.Span("reconcile",
		opentracing.Tag{Key: "fixture", Value: e.Config.Fixture})
	defer span.Finish()

	maxIterations := e.Config.MaxIterations
	if e.Config.DryRun {
		// Re-running the suite without writing the fixture cannot change
		// anything, so one planning pass is all a dry run gets.
		maxIterations = 1
	}

	started := time.Now()
	session := fix.NewSession(maxIterations)
	result := &fix.Result{Status: fix.Running}

	for result.Status == fix.Running {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if session.Iteration >= maxIterations {
			result.Status = fix.Exhausted
			break
		}

		if err := e.iterate(ctx, session, result); err != nil {
			return nil, err
		}
	}

	result.Iterations = session.Iteration
	result.FailureHistory = session.FailureHistory
	result.AppliedHistory = session.AppliedHistory
	result.RemainingFailures = session.LastFailureCount()
	span.SetTag("status", result.Status.String())

	reportResult(ctx, result)
	e.journalRun(ctx, started, session, result)

	return result, nil
}

// iterate performs one pass: run the suite, parse its failures, locate and
// apply edits, and record the observation in the session. It moves the
// result to a terminal status when this pass converged or stalled.
func (e *Engine) iterate(ctx *fix.Context, session *fix.Session, result *fix.Result) error {
	span, ctx := ctx.Span("reconcile.iteration",
		opentracing.Tag{Key: "iteration", Value: session.Iteration + 1})
	defer span.Finish()

	run, err := e.Runner.Run(ctx, harness.Request{
		Dir:     e.Config.Harness.Dir,
		Package: e.Config.Harness.Package,
		Filter:  e.Config.Harness.Run,
		Count:   e.Config.Harness.Count,
	})
	if err != nil {
		return err
	}

	if err := e.capture(ctx, session.Iteration+1, run.Output); err != nil {
		return err
	}

	if run.Passed {
		session.Observe(0, 0)
		result.Status = fix.Converged
		result.Unmatched = nil
		return nil
	}

	records := parse.Parse(ctx, run.Output)
	if len(records) == 0 {
		// The suite failed in a shape the parser doesn't recognize; no
		// edit can come out of this output, now or on any later pass.
		session.Observe(0, 0)
		result.Status = fix.Stalled
		result.Unmatched = nil
		ctx.Logger().Warn("suite failed but no failure sections were recognized")
		return nil
	}

	if first, repeated := session.SeenFailures(records); repeated {
		ctx.Logger().WithField("first_seen", first+1).
			Warn("failure set identical to an earlier iteration's")
	}

	file, err := fix.ReadFixture(e.Config.Fixture)
	if err != nil {
		return err
	}

	plan, unmatched, err := match.Plan(ctx, e.Strategies, records, file.Content)
	if err != nil {
		return err
	}

	var applied int
	if e.Config.DryRun {
		_, applied = patch.Apply(file.Content, plan)
	} else {
		applied, err = patch.Commit(ctx, file, plan)
		if err != nil {
			return err
		}
	}

	session.Observe(len(records), applied)
	result.Unmatched = unmatched

	entry := ctx.Logger().WithFields(logrus.Fields{
		"iteration": session.Iteration,
		"failures":  len(records),
		"applied":   applied,
		"unmatched": len(unmatched),
	})
	if delta, ok := session.Progress(); ok {
		entry = entry.WithField("delta", delta)
	}
	entry.Info("iteration finished")

	reportUnmatched(ctx, file, unmatched)

	if applied == 0 {
		result.Status = fix.Stalled
	}

	return nil
}

// capture writes the iteration's raw suite output under LogDir. Capture
// failures abort the run; when nothing is configured this is a no-op.
func (e *Engine) capture(ctx *fix.Context, iteration int, output string) error {
	if e.Config.LogDir == "" {
		return nil
	}

	if err := os.MkdirAll(e.Config.LogDir, 0750); err != nil {
		return err
	}

	name := fmt.Sprintf("%s-iter%d.log", ctx.RunID(), iteration)
	return os.WriteFile(filepath.Join(e.Config.LogDir, name), []byte(output), 0644)
}

// journalRun appends the finished run to the journal, when one is attached.
// Dry runs are not journaled. Journal write failures are reported but do not
// change the run's outcome.
func (e *Engine) journalRun(ctx *fix.Context, started time.Time, session *fix.Session, result *fix.Result) {
	if e.Journal == nil || e.Config.DryRun {
		return
	}

	var firstFailures int
	if len(session.FailureHistory) > 0 {
		firstFailures = session.FailureHistory[0]
	}

	rec := journal.RunRecord{
		ID:                ctx.RunID().String(),
		Fixture:           e.Config.Fixture,
		Status:            result.Status.String(),
		Started:           started,
		Finished:          time.Now(),
		Iterations:        result.Iterations,
		FirstFailureCount: firstFailures,
		RemainingFailures: result.RemainingFailures,
		TotalApplied:      session.TotalApplied(),
	}
	if err := e.Journal.Record(rec); err != nil {
		ctx.Logger().WithError(err).Warn("couldn't record run in journal")
	}
}
