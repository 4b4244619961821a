// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package eventindex maps alternative splicing event IDs to the files
// holding their precomputed gene models.
//
// An index is a SQLite database named FileName in the directory that
// holds the gene model files for one event type (for example, all
// skipped exon events). It is written once by the indexing step and
// only read by the plotting tools.
package eventindex

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"

	_ "modernc.org/sqlite"

	"github.com/misoplot/sashimi/internal/failure"
)

// FileName is the name of the index file within an index directory.
const FileName = "genes_to_filenames.db"

const schema = `CREATE TABLE events (
	event TEXT PRIMARY KEY,
	path TEXT NOT NULL
)`

// An Index is an open, read-only event index. Callers must Close it.
type Index struct {
	db   *sql.DB
	path string
}

// Open opens the index file at path for reading. If path does not
// exist, it returns an ErrNotFound error.
func Open(path string) (*Index, error) {
	if err := failure.RequireFile("event index", path); err != nil {
		if errors.Is(err, failure.ErrNotFound) {
			return nil, failure.NotFoundf("cannot find file %s. Are you sure the events were indexed?", path)
		}
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	dsn := (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs), RawQuery: "mode=ro"}).String()
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open event index %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open event index %s: %w", path, err)
	}
	return &Index{db, path}, nil
}

// Path returns the file name the index was opened from.
func (x *Index) Path() string {
	return x.path
}

// Lookup returns the gene model path recorded for event. If the index
// has no entry for event, it returns an ErrNotFound error.
//
// Lookup does not check that the returned path exists.
func (x *Index) Lookup(event string) (string, error) {
	var path string
	err := x.db.QueryRow("SELECT path FROM events WHERE event = ?", event).Scan(&path)
	if errors.Is(err, sql.ErrNoRows) {
		return "", failure.NotFoundf("event %s not found in index directory %s. Are you sure this is the right directory for the event?", event, filepath.Dir(x.path))
	} else if err != nil {
		return "", fmt.Errorf("looking up %s in %s: %w", event, x.path, err)
	}
	return path, nil
}

// Len returns the number of events in the index.
func (x *Index) Len() (int, error) {
	var n int
	if err := x.db.QueryRow("SELECT COUNT(*) FROM events").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting events in %s: %w", x.path, err)
	}
	return n, nil
}

// Close releases the index.
func (x *Index) Close() error {
	return x.db.Close()
}

// Resolve looks up event in the index in directory dir and returns
// the path of its gene model file. The index is closed before Resolve
// returns.
func Resolve(dir, event string) (string, error) {
	x, err := Open(filepath.Join(dir, FileName))
	if err != nil {
		return "", err
	}
	defer x.Close()
	return x.Lookup(event)
}

// Create writes a new index at path mapping each event in entries to
// its gene model path. It fails if path already exists.
func Create(path string, entries map[string]string) (err error) {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("event index %s already exists", path)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("create event index %s: %w", path, err)
	}
	defer func() {
		if err2 := db.Close(); err == nil {
			err = err2
		}
	}()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("create event index %s: %w", path, err)
	}
	defer tx.Rollback()
	if _, err := tx.Exec(schema); err != nil {
		return fmt.Errorf("create event index %s: %w", path, err)
	}
	stmt, err := tx.Prepare("INSERT INTO events(event, path) VALUES(?, ?)")
	if err != nil {
		return fmt.Errorf("create event index %s: %w", path, err)
	}
	defer stmt.Close()

	// Insert in a stable order so identical inputs produce
	// identical files.
	events := make([]string, 0, len(entries))
	for event := range entries {
		events = append(events, event)
	}
	sort.Strings(events)
	for _, event := range events {
		if _, err := stmt.Exec(event, entries[event]); err != nil {
			return fmt.Errorf("indexing %s: %w", event, err)
		}
	}
	return tx.Commit()
}
