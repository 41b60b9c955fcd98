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

package fix

import (
	"os"

	errors "gopkg.in/src-d/go-errors.v1"
)

// ErrFixtureRead is returned when the fixture file cannot be read.
var ErrFixtureRead = errors.NewKind("couldn't read fixture file %s")

// ErrFixtureWrite is returned when the fixture file cannot be written back.
var ErrFixtureWrite = errors.NewKind("couldn't write fixture file %s")

// FixtureFile is the full in-memory content of the fixture source file under
// reconciliation, together with its path on disk. It is read once at the
// start of an iteration and written back at most once at its end.
type FixtureFile struct {
	Path    string
	Content string
}

// ReadFixture loads the file at path fully into memory.
func ReadFixture(path string) (*FixtureFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrFixtureRead.Wrap(err, path)
	}

	return &FixtureFile{Path: path, Content: string(content)}, nil
}

// Write persists the current content to the file's path, replacing the
// previous content in full. There is no partial write: callers either write
// the whole reconciled content or nothing.
func (f *FixtureFile) Write() error {
	if err := os.WriteFile(f.Path, []byte(f.Content), 0644); err != nil {
		return ErrFixtureWrite.Wrap(err, f.Path)
	}

	return nil
}
