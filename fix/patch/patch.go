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

// Package patch applies located edits to fixture content and persists the
// result.
package patch

import (
	"strings"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"

	"github.com/dolthub/planfix/fix"
)

// Apply runs the plan's edits in order against a single working copy of
// content and returns the new content with the count of edits that applied.
// Each edit sees the text left behind by the edits before it. An edit whose
// search text is absent from the working copy is skipped and not counted;
// edits are never force-applied.
func Apply(content string, plan fix.EditPlan) (string, int) {
	var applied int
	for _, edit := range plan {
		if !strings.Contains(content, edit.Search) {
			continue
		}

		switch edit.Scope {
		case fix.Global:
			content = strings.ReplaceAll(content, edit.Search, edit.Replace)
		default:
			content = strings.Replace(content, edit.Search, edit.Replace, 1)
		}
		applied++
	}

	return content, applied
}

// Commit applies plan to the fixture's content and, when at least one edit
// applied, writes the new content back to the fixture's path in full. With
// zero applied edits nothing is written and the file is untouched.
func Commit(ctx *fix.Context, file *fix.FixtureFile, plan fix.EditPlan) (int, error) {
	span, ctx := ctx.Span("patch.commit", opentracing.Tag{Key: "edits", Value: len(plan)})
	defer span.Finish()

	newContent, applied := Apply(file.Content, plan)
	span.SetTag("applied", applied)
	if applied == 0 {
		return 0, nil
	}

	file.Content = newContent
	if err := file.Write(); err != nil {
		return 0, err
	}

	ctx.Logger().WithFields(logrus.Fields{
		"path":    file.Path,
		"applied": applied,
		"skipped": len(plan) - applied,
	}).Debug("fixture written")

	return applied, nil
}
