// Package db opens the Postgres database and keeps its passphrase history
// trimmed.
package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    login TEXT PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS passphrases (
    id TEXT PRIMARY KEY,
    user_login TEXT REFERENCES users(login) ON DELETE CASCADE,
    hash BYTEA NOT NULL,
    created_at BIGINT NOT NULL,
    superseded BOOLEAN NOT NULL DEFAULT FALSE,
    superseded_at BIGINT
);

ALTER TABLE passphrases ADD COLUMN IF NOT EXISTS superseded_at BIGINT;

CREATE UNIQUE INDEX IF NOT EXISTS passphrases_current
    ON passphrases (user_login) WHERE NOT superseded;
`

// InitPostgres connects to dsn and creates the schema if needed.
func InitPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return db, nil
}
