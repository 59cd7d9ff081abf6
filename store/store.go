// Package store provides SQLite-based logging of compilation runs. It sits
// outside the pure compile path: the CLI records each run's schema digest and
// artifact digests here so that regenerations can be audited for byte
// stability: the same schema digest must always map to the same bundle
// digests.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/bloxgen-xyz/go-bloxgen/compiler"
)

// Store handles SQLite database operations for run logging.
type Store struct {
	db *sql.DB
}

// Run is one recorded compilation run.
type Run struct {
	ID           string    `json:"id"`
	SchemaDigest string    `json:"schema_digest"`
	CreatedAt    time.Time `json:"created_at"`
	Errors       int       `json:"errors"`
	Warnings     int       `json:"warnings"`
	Emitted      bool      `json:"emitted"`
}

// ArtifactRecord is one artifact digest within a recorded run.
type ArtifactRecord struct {
	RunID     string `json:"run_id"`
	Component string `json:"component"`
	Name      string `json:"name"`
	Digest    string `json:"digest"`
}

// Open creates or opens the run store at the given database path.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		schema_digest TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		errors INTEGER NOT NULL DEFAULT 0,
		warnings INTEGER NOT NULL DEFAULT 0,
		emitted INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS artifacts (
		run_id TEXT NOT NULL,
		component TEXT NOT NULL,
		name TEXT NOT NULL,
		digest TEXT NOT NULL,
		PRIMARY KEY (run_id, component, name),
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_schema ON runs(schema_digest);
	CREATE INDEX IF NOT EXISTS idx_artifacts_run ON artifacts(run_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// RecordRun persists a compilation result: the run row plus one artifact
// row per emitted artifact.
func (s *Store) RecordRun(res *compiler.Result) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (id, schema_digest, created_at, errors, warnings, emitted)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		res.RunID, res.SchemaDigest, time.Now().UTC(),
		len(res.Report.Errors()), len(res.Report.Warnings()), res.Succeeded(),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, b := range res.Bundles {
		for i := range b.Artifacts {
			_, err = tx.Exec(
				`INSERT INTO artifacts (run_id, component, name, digest) VALUES (?, ?, ?, ?)`,
				res.RunID, b.Component, b.Artifacts[i].Name, compiler.ArtifactDigest(&b.Artifacts[i]),
			)
			if err != nil {
				return fmt.Errorf("insert artifact %s/%s: %w", b.Component, b.Artifacts[i].Name, err)
			}
		}
	}

	return tx.Commit()
}

// Runs returns the most recent runs, newest first.
func (s *Store) Runs(limit int) ([]Run, error) {
	rows, err := s.db.Query(
		`SELECT id, schema_digest, created_at, errors, warnings, emitted
		 FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.SchemaDigest, &r.CreatedAt, &r.Errors, &r.Warnings, &r.Emitted); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Artifacts returns the artifact records for a run, in recorded order.
func (s *Store) Artifacts(runID string) ([]ArtifactRecord, error) {
	rows, err := s.db.Query(
		`SELECT run_id, component, name, digest FROM artifacts
		 WHERE run_id = ? ORDER BY component, name`, runID)
	if err != nil {
		return nil, fmt.Errorf("query artifacts: %w", err)
	}
	defer rows.Close()

	var records []ArtifactRecord
	for rows.Next() {
		var a ArtifactRecord
		if err := rows.Scan(&a.RunID, &a.Component, &a.Name, &a.Digest); err != nil {
			return nil, fmt.Errorf("scan artifact: %w", err)
		}
		records = append(records, a)
	}
	return records, rows.Err()
}

// Drift compares a result against the most recent prior run with the same
// schema digest and returns the artifact names whose digests differ. A
// non-empty slice means emission was not reproducible.
func (s *Store) Drift(res *compiler.Result) ([]string, error) {
	var prevID string
	err := s.db.QueryRow(
		`SELECT id FROM runs WHERE schema_digest = ? AND id != ?
		 ORDER BY created_at DESC, id LIMIT 1`,
		res.SchemaDigest, res.RunID,
	).Scan(&prevID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query previous run: %w", err)
	}

	prev, err := s.Artifacts(prevID)
	if err != nil {
		return nil, err
	}
	prevDigests := make(map[string]string, len(prev))
	for _, a := range prev {
		prevDigests[a.Component+"/"+a.Name] = a.Digest
	}

	var drifted []string
	for _, b := range res.Bundles {
		for i := range b.Artifacts {
			key := b.Component + "/" + b.Artifacts[i].Name
			if d, ok := prevDigests[key]; ok && d != compiler.ArtifactDigest(&b.Artifacts[i]) {
				drifted = append(drifted, key)
			}
		}
	}
	return drifted, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
