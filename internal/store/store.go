// Package store is the durable session store: a SQLite database with
// an FTS5 index over each session's searchable content. The indexer
// and the pane mapper both read and write Session rows through it.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA cache_size = -64000;
PRAGMA busy_timeout = 5000;
PRAGMA foreign_keys = ON;

CREATE TABLE IF NOT EXISTS sessions (
    session_id        TEXT PRIMARY KEY,
    slug              TEXT NOT NULL DEFAULT '',
    project_path      TEXT NOT NULL DEFAULT '',
    project_name      TEXT NOT NULL DEFAULT '',
    working_directory TEXT NOT NULL DEFAULT '',
    file_path         TEXT NOT NULL DEFAULT '',
    file_size_bytes   INTEGER NOT NULL DEFAULT 0,
    started_at        TEXT NOT NULL DEFAULT '',
    last_activity     TEXT NOT NULL DEFAULT '',
    message_count     INTEGER NOT NULL DEFAULT 0,
    tool_call_count   INTEGER NOT NULL DEFAULT 0,
    detected_task     TEXT NOT NULL DEFAULT '',
    detected_activity TEXT NOT NULL DEFAULT '',
    detected_area     TEXT NOT NULL DEFAULT '',
    tmux_session      TEXT NOT NULL DEFAULT '',
    tmux_pane         TEXT NOT NULL DEFAULT '',
    tmux_pane_pid     INTEGER NOT NULL DEFAULT 0,
    tmux_alive        INTEGER,
    status            TEXT NOT NULL DEFAULT 'active',
    name              TEXT NOT NULL DEFAULT '',
    tags              TEXT NOT NULL DEFAULT '',
    ledger_link       TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_sessions_workdir ON sessions(working_directory);
CREATE INDEX IF NOT EXISTS idx_sessions_status ON sessions(status);
CREATE INDEX IF NOT EXISTS idx_sessions_activity ON sessions(last_activity);

CREATE TABLE IF NOT EXISTS session_events (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id    TEXT NOT NULL REFERENCES sessions(session_id) ON DELETE CASCADE,
    ts            TEXT NOT NULL DEFAULT '',
    kind          TEXT NOT NULL,
    content       TEXT NOT NULL DEFAULT '',
    tool_name     TEXT NOT NULL DEFAULT '',
    tool_input    TEXT NOT NULL DEFAULT '',
    tool_output   TEXT NOT NULL DEFAULT '',
    files_touched TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_events_session ON session_events(session_id, id);

CREATE VIRTUAL TABLE IF NOT EXISTS sessions_fts USING fts5(
    session_id UNINDEXED,
    content,
    tool_names,
    files_touched,
    tokenize='unicode61'
);
`

// eventBatchSize is how many event rows go into one INSERT statement.
const eventBatchSize = 200

const timeLayout = "2006-01-02T15:04:05Z"

type Store struct {
	db *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Raw() *sql.DB {
	return s.db
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseStoredTime(v string) time.Time {
	if v == "" {
		return time.Time{}
	}
	t, err := time.Parse(timeLayout, v)
	if err != nil {
		return time.Time{}
	}
	return t
}
