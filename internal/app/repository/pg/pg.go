// Package pg implements the job store on PostgreSQL.
package pg

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS audio_jobs (
	id            TEXT PRIMARY KEY,
	url           TEXT NOT NULL,
	platform      TEXT,
	status        TEXT NOT NULL,
	metadata_json JSONB,
	error_message TEXT,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS audio_files (
	id          TEXT PRIMARY KEY,
	job_id      TEXT NOT NULL REFERENCES audio_jobs(id),
	storage_ref TEXT NOT NULL,
	duration    DOUBLE PRECISION,
	size_bytes  BIGINT,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS thumbnails (
	id            TEXT PRIMARY KEY,
	job_id        TEXT NOT NULL REFERENCES audio_jobs(id),
	thumbnail_url TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS transcriptions (
	id              TEXT PRIMARY KEY,
	audio_file_id   TEXT NOT NULL REFERENCES audio_files(id),
	text            TEXT NOT NULL,
	language        TEXT,
	timestamps_json JSONB,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS analyses (
	id            TEXT PRIMARY KEY,
	audio_file_id TEXT NOT NULL REFERENCES audio_files(id),
	summary       TEXT NOT NULL,
	topics_json   JSONB,
	sentiment     TEXT,
	category      TEXT,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS embeddings (
	id            TEXT PRIMARY KEY,
	audio_file_id TEXT NOT NULL REFERENCES audio_files(id),
	vector        TEXT NOT NULL,
	metadata_json JSONB,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
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
	dietary_tags_json JSONB,
	thumbnail_ref     TEXT,
	status            TEXT NOT NULL DEFAULT 'pending',
	error_message     TEXT,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS recipe_ingredients (
	recipe_id   TEXT NOT NULL REFERENCES recipes(id),
	raw_text    TEXT NOT NULL,
	item        TEXT,
	quantity    DOUBLE PRECISION,
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

// PostgresStore implements repository.JobStore on PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(connectionString string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to reach postgres: %w", err)
	}

	store := &PostgresStore{db: db}
	if err := store.ensureSchema(); err != nil {
		return nil, err
	}
	return store, nil
}

// NewPostgresStoreWithDB wraps an existing connection, used by tests.
func NewPostgresStoreWithDB(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ensureSchema() error {
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
