// Package repository provides PostgreSQL persistence for managed users and
// their passphrases.
package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresAuthRepository stores managed users.
type PostgresAuthRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresAuthRepository creates a new PostgresAuthRepository with the given database connection.
func NewPostgresAuthRepository(db *sql.DB) *PostgresAuthRepository {
	return &PostgresAuthRepository{DB: db}
}

// UserExists checks whether a user with the specified login exists in the database.
func (s *PostgresAuthRepository) UserExists(ctx context.Context, login string) (bool, error) {
	var exists bool
	err := s.DB.QueryRowContext(
		ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE login = $1)`,
		login,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("UserExists: %w", err)
	}
	return exists, nil
}

// RegisterUser inserts a user with the given login. Registering an existing
// login is not an error.
func (s *PostgresAuthRepository) RegisterUser(ctx context.Context, login string) error {
	_, err := s.DB.ExecContext(
		ctx,
		`INSERT INTO users (login) VALUES ($1) ON CONFLICT DO NOTHING`,
		login,
	)
	if err != nil {
		return fmt.Errorf("RegisterUser: %w", err)
	}
	return nil
}
