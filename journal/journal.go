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

// Package journal keeps an append-only history of reconciliation runs in a
// bolt database, so an operator can see what past runs did to a fixture
// without digging through shell history.
package journal

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/boltdb/bolt"
	errors "gopkg.in/src-d/go-errors.v1"
)

// ErrJournalOpen is returned when the journal database cannot be opened.
var ErrJournalOpen = errors.NewKind("couldn't open journal at %s")

var runsBucket = []byte("runs")

// keyLayout is RFC3339 with fixed-width nanoseconds so keys sort in time
// order; time.RFC3339Nano trims trailing zeros and doesn't.
const keyLayout = "2006-01-02T15:04:05.000000000Z07:00"

// RunRecord is one finished reconciliation run.
type RunRecord struct {
	ID                string    `json:"id"`
	Fixture           string    `json:"fixture"`
	Status            string    `json:"status"`
	Started           time.Time `json:"started"`
	Finished          time.Time `json:"finished"`
	Iterations        int       `json:"iterations"`
	FirstFailureCount int       `json:"first_failure_count"`
	RemainingFailures int       `json:"remaining_failures"`
	TotalApplied      int       `json:"total_applied"`
}

// Journal is the run history database.
// buckets:
// - runs: started timestamp + run ID -> RunRecord (JSON encoding)
type Journal struct {
	db *bolt.DB
}

// Open opens the journal at path, creating the database and its parent
// directory when absent.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, ErrJournalOpen.Wrap(err, path)
	}

	// Fail fast on a held file lock instead of blocking the command.
	db, err := bolt.Open(path, 0640, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, ErrJournalOpen.Wrap(err, path)
	}

	return &Journal{db: db}, nil
}

// Record appends one run to the journal.
func (j *Journal) Record(rec RunRecord) error {
	val, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	return j.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(runsBucket)
		if err != nil {
			return err
		}
		return b.Put(key(rec), val)
	})
}

// key orders records chronologically within the bucket; the run ID breaks
// ties between runs started in the same instant.
func key(rec RunRecord) []byte {
	return []byte(rec.Started.UTC().Format(keyLayout) + "-" + rec.ID)
}

// Last returns up to n records, most recent first. A journal with no runs
// yet returns no records and no error.
func (j *Journal) Last(n int) ([]RunRecord, error) {
	var records []RunRecord
	err := j.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(runsBucket)
		if b == nil {
			return nil
		}

		c := b.Cursor()
		for k, v := c.Last(); k != nil && len(records) < n; k, v = c.Prev() {
			var rec RunRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return records, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}
