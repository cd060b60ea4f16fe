// Package manifest records what each build published into a SQLite database
// so successive runs can be compared.
package manifest

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/docatlas/internal/catalog"
	"git.home.luguber.info/inful/docatlas/internal/foundation/errors"
)

// Run is one recorded build.
type Run struct {
	ID        string
	StartedAt time.Time
	SiteURL   string
	Files     int
}

// Entry is one published file of a run.
type Entry struct {
	Key         string
	Component   string
	Version     string
	Module      string
	Family      string
	Relative    string
	Path        string
	Origin      string
	MediaType   string
	OutPath     string
	URL         string
	Fingerprint string
}

// Change describes a file that differs between two runs.
type Change struct {
	Key  string
	Kind ChangeKind
}

// ChangeKind classifies a Change.
type ChangeKind string

const (
	ChangeAdded    ChangeKind = "added"
	ChangeRemoved  ChangeKind = "removed"
	ChangeModified ChangeKind = "modified"
)

// Store persists build manifests.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens or creates the manifest database at path. Use ":memory:" for
// a throwaway store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "open manifest database").
			WithPath(path).
			Build()
	}
	// A single connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "initialize manifest schema").
			WithPath(path).
			Build()
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at INTEGER NOT NULL,
		site_url TEXT NOT NULL DEFAULT ''
	);
	CREATE TABLE IF NOT EXISTS component_versions (
		run_id TEXT NOT NULL REFERENCES runs(id),
		component TEXT NOT NULL,
		version TEXT NOT NULL,
		title TEXT NOT NULL,
		url TEXT NOT NULL,
		start_page TEXT NOT NULL,
		PRIMARY KEY (run_id, component, version)
	);
	CREATE TABLE IF NOT EXISTS files (
		run_id TEXT NOT NULL REFERENCES runs(id),
		file_key TEXT NOT NULL,
		component TEXT NOT NULL,
		version TEXT NOT NULL,
		module TEXT NOT NULL,
		family TEXT NOT NULL,
		relative TEXT NOT NULL,
		path TEXT NOT NULL,
		origin TEXT NOT NULL,
		media_type TEXT NOT NULL,
		out_path TEXT NOT NULL,
		url TEXT NOT NULL,
		fingerprint TEXT NOT NULL,
		PRIMARY KEY (run_id, file_key)
	);
	CREATE INDEX IF NOT EXISTS idx_files_run ON files(run_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// Record stores the component versions and published files of reader under
// runID. It returns the number of files recorded.
func (s *Store) Record(ctx context.Context, runID string, reader catalog.Reader) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.WrapError(err, errors.CategoryFileSystem, "begin manifest transaction").Build()
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO runs (id, started_at, site_url) VALUES (?, ?, ?)",
		runID, time.Now().UnixNano(), reader.Options().SiteURL,
	); err != nil {
		return 0, errors.WrapError(err, errors.CategoryAlreadyExists, "run already recorded").
			WithContext("run_id", runID).
			Build()
	}

	for _, c := range reader.GetComponents() {
		for _, cv := range c.Versions {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO component_versions (run_id, component, version, title, url, start_page) VALUES (?, ?, ?, ?, ?, ?)",
				runID, c.Name, cv.Version, cv.Title, cv.URL, cv.StartPage,
			); err != nil {
				return 0, errors.WrapError(err, errors.CategoryFileSystem, "insert component version").
					WithContext("component", c.Name).
					WithContext("version", cv.Version).
					Build()
			}
		}
	}

	count := 0
	for _, f := range reader.GetFiles() {
		if f.Out == nil {
			continue
		}
		e := entryFor(f)
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO files (run_id, file_key, component, version, module, family, relative, path, origin, media_type, out_path, url, fingerprint)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, e.Key, e.Component, e.Version, e.Module, e.Family, e.Relative, e.Path, e.Origin, e.MediaType, e.OutPath, e.URL, e.Fingerprint,
		); err != nil {
			return 0, errors.WrapError(err, errors.CategoryFileSystem, "insert file").
				WithKey(e.Key).
				Build()
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.WrapError(err, errors.CategoryFileSystem, "commit manifest").Build()
	}
	return count, nil
}

func entryFor(f *catalog.File) Entry {
	return Entry{
		Key:         f.Key(),
		Component:   f.Src.Component,
		Version:     f.Src.Version,
		Module:      f.Src.Module,
		Family:      f.Src.Family.String(),
		Relative:    f.Src.Relative,
		Path:        f.Path,
		Origin:      f.Origin,
		MediaType:   f.Src.MediaType,
		OutPath:     f.Out.Path,
		URL:         f.URL(),
		Fingerprint: Fingerprint(f),
	}
}

// Runs lists recorded runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.started_at, r.site_url, COUNT(f.file_key)
		FROM runs r LEFT JOIN files f ON f.run_id = r.id
		GROUP BY r.id ORDER BY r.started_at DESC, r.id`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var (
			r       Run
			started int64
		)
		if err := rows.Scan(&r.ID, &started, &r.SiteURL, &r.Files); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.StartedAt = time.Unix(0, started)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Files returns the entries recorded for runID ordered by key.
func (s *Store) Files(ctx context.Context, runID string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT file_key, component, version, module, family, relative, path, origin, media_type, out_path, url, fingerprint
		FROM files WHERE run_id = ? ORDER BY file_key`, runID)
	if err != nil {
		return nil, fmt.Errorf("query files: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Key, &e.Component, &e.Version, &e.Module, &e.Family, &e.Relative,
			&e.Path, &e.Origin, &e.MediaType, &e.OutPath, &e.URL, &e.Fingerprint); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Changes compares two runs by file key and fingerprint.
func (s *Store) Changes(ctx context.Context, fromRun, toRun string) ([]Change, error) {
	before, err := s.Files(ctx, fromRun)
	if err != nil {
		return nil, err
	}
	after, err := s.Files(ctx, toRun)
	if err != nil {
		return nil, err
	}
	return diff(before, after), nil
}

// diff expects both slices ordered by key.
func diff(before, after []Entry) []Change {
	var changes []Change
	i, j := 0, 0
	for i < len(before) || j < len(after) {
		switch {
		case j == len(after) || (i < len(before) && before[i].Key < after[j].Key):
			changes = append(changes, Change{Key: before[i].Key, Kind: ChangeRemoved})
			i++
		case i == len(before) || after[j].Key < before[i].Key:
			changes = append(changes, Change{Key: after[j].Key, Kind: ChangeAdded})
			j++
		default:
			if before[i].Fingerprint != after[j].Fingerprint || before[i].OutPath != after[j].OutPath {
				changes = append(changes, Change{Key: after[j].Key, Kind: ChangeModified})
			}
			i++
			j++
		}
	}
	return changes
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
