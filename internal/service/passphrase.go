package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/atinyakov/keeperpass/internal/models"
	"github.com/atinyakov/keeperpass/internal/repository"
)

var (
	// ErrEmptyPassphrase is returned when an empty passphrase is submitted.
	ErrEmptyPassphrase = errors.New("empty passphrase")
	// ErrPassphraseTooLong is returned for passphrases bcrypt cannot hash.
	ErrPassphraseTooLong = errors.New("passphrase too long")
	// ErrNoPassphrase is returned by Verify when the user never set one.
	ErrNoPassphrase = errors.New("no passphrase set")
	// ErrPassphraseMismatch is returned by Verify for a wrong passphrase.
	ErrPassphraseMismatch = errors.New("passphrase mismatch")
)

// PassphraseHashCost is the bcrypt cost used for new hashes.
var PassphraseHashCost = bcrypt.DefaultCost

// PassphraseRepository defines the persistence operations required by
// PassphraseService.
type PassphraseRepository interface {
	ReplacePassphrase(ctx context.Context, p models.Passphrase) error
	// CurrentPassphrase returns repository.ErrNotFound when none is set.
	CurrentPassphrase(ctx context.Context, login string) (*models.Passphrase, error)
	HasPassphrase(ctx context.Context, login string) (bool, error)
}

// PassphraseService hashes, stores and verifies managed-user passphrases.
type PassphraseService struct {
	repo  PassphraseRepository
	now   func() time.Time
	newID func() string
}

// NewPassphraseService constructs a PassphraseService backed by repo.
func NewPassphraseService(repo PassphraseRepository) *PassphraseService {
	return &PassphraseService{
		repo:  repo,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// SetPassphrase replaces the user's passphrase with a bcrypt hash of
// passphrase. The previous one, if any, is kept as superseded.
func (s *PassphraseService) SetPassphrase(ctx context.Context, login, passphrase string) error {
	if passphrase == "" {
		return ErrEmptyPassphrase
	}
	if len(passphrase) > models.MaxPassphraseBytes {
		return ErrPassphraseTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(passphrase), PassphraseHashCost)
	if err != nil {
		return fmt.Errorf("hash passphrase: %w", err)
	}

	p := models.Passphrase{
		ID:        s.newID(),
		UserLogin: login,
		Hash:      hash,
		CreatedAt: s.now().Unix(),
	}
	if err := s.repo.ReplacePassphrase(ctx, p); err != nil {
		return fmt.Errorf("store passphrase: %w", err)
	}
	return nil
}

// VerifyPassphrase checks passphrase against the user's current hash.
func (s *PassphraseService) VerifyPassphrase(ctx context.Context, login, passphrase string) error {
	if passphrase == "" {
		return ErrEmptyPassphrase
	}
	current, err := s.repo.CurrentPassphrase(ctx, login)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNoPassphrase
	}
	if err != nil {
		return fmt.Errorf("load passphrase: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword(current.Hash, []byte(passphrase)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPassphraseMismatch
		}
		return fmt.Errorf("compare passphrase: %w", err)
	}
	return nil
}

// HasPassphrase reports whether the user has a current passphrase.
func (s *PassphraseService) HasPassphrase(ctx context.Context, login string) (bool, error) {
	return s.repo.HasPassphrase(ctx, login)
}
