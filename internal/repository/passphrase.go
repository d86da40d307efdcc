package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atinyakov/keeperpass/internal/models"
)

// ErrNotFound is returned when a user has no current passphrase.
var ErrNotFound = errors.New("not found")

// PostgresPassphraseRepository stores passphrase hashes. Each user has at
// most one current record; older records are kept as superseded.
type PostgresPassphraseRepository struct {
	// DB is the database handle for executing queries and transactions.
	DB *sql.DB
}

// NewPostgresPassphraseRepository creates a new PostgresPassphraseRepository using the provided *sql.DB.
func NewPostgresPassphraseRepository(db *sql.DB) *PostgresPassphraseRepository {
	return &PostgresPassphraseRepository{DB: db}
}

// ReplacePassphrase marks the user's current passphrase as superseded at
// p.CreatedAt and inserts p as the new current one, in a single transaction.
func (s *PostgresPassphraseRepository) ReplacePassphrase(ctx context.Context, p models.Passphrase) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		UPDATE passphrases SET superseded = true, superseded_at = $2 WHERE user_login = $1 AND superseded = false
	`, p.UserLogin, p.CreatedAt); err != nil {
		return fmt.Errorf("supersede: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO passphrases (id, user_login, hash, created_at, superseded)
		VALUES ($1, $2, $3, $4, false)
	`, p.ID, p.UserLogin, p.Hash, p.CreatedAt); err != nil {
		return fmt.Errorf("insert: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// CurrentPassphrase returns the user's current passphrase record or
// ErrNotFound.
func (s *PostgresPassphraseRepository) CurrentPassphrase(ctx context.Context, login string) (*models.Passphrase, error) {
	var p models.Passphrase
	err := s.DB.QueryRowContext(ctx, `
		SELECT id, user_login, hash, created_at FROM passphrases WHERE user_login = $1 AND superseded = false
	`, login).Scan(&p.ID, &p.UserLogin, &p.Hash, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("CurrentPassphrase: %w", err)
	}
	return &p, nil
}

// HasPassphrase reports whether the user has a current passphrase.
func (s *PostgresPassphraseRepository) HasPassphrase(ctx context.Context, login string) (bool, error) {
	var exists bool
	err := s.DB.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM passphrases WHERE user_login = $1 AND superseded = false)
	`, login).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("HasPassphrase: %w", err)
	}
	return exists, nil
}
