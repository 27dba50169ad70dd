// Package sqlite implements the job store on SQLite, the zero-setup default
// for local use.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS audio_jobs (
	id            TEXT PRIMARY KEY,
	url           TEXT NOT NULL,
	platform      TEXT,
	status        TEXT NOT NULL,
	metadata_json TEXT,
	error_message TEXT,
	created_at    DATETIME NOT NULL,
	updated_at    DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS audio_files (
	id          TEXT PRIMARY KEY,
	job_id      TEXT NOT NULL REFERENCES audio_jobs(id),
	storage_ref TEXT NOT NULL,
	duration    REAL,
	size_bytes  INTEGER,
	created_at  DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS thumbnails (
	id            TEXT PRIMARY KEY,
	job_id        TEXT NOT NULL REFERENCES audio_jobs(id),
	thumbnail_url TEXT NOT NULL,
	created_at    DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS transcriptions (
	id              TEXT PRIMARY KEY,
	audio_file_id   TEXT NOT NULL REFERENCES audio_files(id),
	text            TEXT NOT NULL,
	language        TEXT,
	timestamps_json TEXT,
	created_at      DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS analyses (
	id            TEXT PRIMARY KEY,
	audio_file_id TEXT NOT NULL REFERENCES audio_files(id),
	summary       TEXT NOT NULL,
	topics_json   TEXT,
	sentiment     TEXT,
	category      TEXT,
	created_at    DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS embeddings (
	id            TEXT PRIMARY KEY,
	audio_file_id TEXT NOT NULL REFERENCES audio_files(id),
	vector        TEXT NOT NULL,
	metadata_json TEXT,
	created_at    DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS recipes (
	id                TEXT PRIMARY KEY,
	user_id           TEXT NOT NULL,
	title             TEXT,
	description       TEXT,
	prep_time_minutes INTEGER,
	cook_time_minutes INTEGER,
	servings          INTEGER,
	cuisine           TEXT,
	dietary_tags_json TEXT,
	thumbnail_ref     TEXT,
	status            TEXT NOT NULL DEFAULT 'pending',
	error_message     TEXT,
	created_at        DATETIME NOT NULL,
	updated_at        DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS recipe_ingredients (
	recipe_id   TEXT NOT NULL REFERENCES recipes(id),
	raw_text    TEXT NOT NULL,
	item        TEXT,
	quantity    REAL,
	unit        TEXT,
	order_index INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS recipe_instructions (
	recipe_id   TEXT NOT NULL REFERENCES recipes(id),
	step_number INTEGER NOT NULL,
	text        TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audio_files_job_id ON audio_files(job_id);
CREATE INDEX IF NOT EXISTS idx_audio_jobs_status ON audio_jobs(status);
`

// SqliteStore implements repository.JobStore on SQLite.
type SqliteStore struct {
	db *sql.DB
}

func NewSqliteStore(dbPath string) (*SqliteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?cache=shared&mode=rwc", dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	store := &SqliteStore{db: db}
	if err := store.ensureSchema(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SqliteStore) ensureSchema() error {
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

func (s *SqliteStore) Close() error {
	return s.db.Close()
}
