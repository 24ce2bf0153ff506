// Package db provides the SQLite-backed operational store for rebuild
// history and the chat query log.
package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/showcase-labs/kbsearch/internal/index"
)

// DB wraps a sql.DB with kbsearch-specific helpers.
type DB struct {
	*sql.DB
	path string
}

// Open creates or opens a SQLite database at the given path.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	d := &DB{DB: sqlDB, path: path}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return d, nil
}

// OpenMemory creates an in-memory SQLite database (useful for testing).
func OpenMemory() (*DB, error) {
	sqlDB, err := sql.Open("sqlite", ":memory:?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}

	d := &DB{DB: sqlDB, path: ":memory:"}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return d, nil
}

// migrate runs all schema migrations.
func (d *DB) migrate() error {
	_, err := d.Exec(schema)
	return err
}

// schema contains the full database schema. New tables are added here.
const schema = `
CREATE TABLE IF NOT EXISTS rebuild_runs (
    run_id TEXT PRIMARY KEY,
    started_at DATETIME NOT NULL,
    duration_ms INTEGER NOT NULL,
    chunks INTEGER NOT NULL,
    succeeded INTEGER NOT NULL,
    failures TEXT NOT NULL DEFAULT '[]'
);

CREATE INDEX IF NOT EXISTS idx_rebuild_runs_started ON rebuild_runs(started_at);

CREATE TABLE IF NOT EXISTS chat_log (
    id TEXT PRIMARY KEY,
    query TEXT NOT NULL,
    answer TEXT NOT NULL,
    duration_ms INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_chat_log_created ON chat_log(created_at);
`

// RecordRebuild stores the outcome of an index rebuild.
func (d *DB) RecordRebuild(report *index.Report) error {
	failures, err := json.Marshal(report.Failures)
	if err != nil {
		return fmt.Errorf("encoding failures: %w", err)
	}

	_, err = d.Exec(`INSERT INTO rebuild_runs (run_id, started_at, duration_ms, chunks, succeeded, failures)
		VALUES (?, ?, ?, ?, ?, ?)`,
		report.RunID, report.StartedAt.UTC(), report.Duration.Milliseconds(),
		report.Chunks, report.Succeeded, string(failures))
	if err != nil {
		return fmt.Errorf("recording rebuild %s: %w", report.RunID, err)
	}
	return nil
}

// ListRebuilds returns the most recent rebuild reports, newest first.
func (d *DB) ListRebuilds(limit int) ([]index.Report, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := d.Query(`SELECT run_id, started_at, duration_ms, chunks, succeeded, failures
		FROM rebuild_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing rebuilds: %w", err)
	}
	defer rows.Close()

	var reports []index.Report
	for rows.Next() {
		var (
			r          index.Report
			durationMS int64
			failures   string
		)
		if err := rows.Scan(&r.RunID, &r.StartedAt, &durationMS, &r.Chunks, &r.Succeeded, &failures); err != nil {
			return nil, fmt.Errorf("scanning rebuild row: %w", err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		if err := json.Unmarshal([]byte(failures), &r.Failures); err != nil {
			return nil, fmt.Errorf("decoding failures for %s: %w", r.RunID, err)
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

// RecordChat logs a served question and its answer.
func (d *DB) RecordChat(query, answer string, elapsed time.Duration) error {
	_, err := d.Exec(`INSERT INTO chat_log (id, query, answer, duration_ms)
		VALUES (?, ?, ?, ?)`,
		uuid.NewString(), query, answer, elapsed.Milliseconds())
	if err != nil {
		return fmt.Errorf("recording chat entry: %w", err)
	}
	return nil
}
