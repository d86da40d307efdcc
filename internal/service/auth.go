// Package service provides the business logic for managed users and their
// passphrases, delegating persistence to repositories.
package service

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnknownUser is returned by Login for logins that were never registered.
var ErrUnknownUser = errors.New("user not found")

// AuthRepository defines the persistence operations
// required by the authentication service.
type AuthRepository interface {
	// UserExists returns true if a user with the given login exists.
	UserExists(ctx context.Context, login string) (bool, error)
	// RegisterUser creates a new user record with the given login.
	RegisterUser(ctx context.Context, login string) error
}

// PassphraseLookup reports whether a user already has a passphrase.
type PassphraseLookup interface {
	HasPassphrase(ctx context.Context, login string) (bool, error)
}

// LoginInfo is the result of a successful login.
type LoginInfo struct {
	Login         string
	PassphraseSet bool
}

// Service implements registration and login for managed users.
type Service struct {
	repo        AuthRepository
	passphrases PassphraseLookup
}

// NewAuthService constructs a new Service. passphrases may be nil, in which
// case every login reports no passphrase.
func NewAuthService(repo AuthRepository, passphrases PassphraseLookup) *Service {
	return &Service{repo: repo, passphrases: passphrases}
}

// UserExists checks whether a user with the specified login exists.
func (s *Service) UserExists(ctx context.Context, login string) (bool, error) {
	return s.repo.UserExists(ctx, login)
}

// RegisterUser registers a new user with the given login.
func (s *Service) RegisterUser(ctx context.Context, login string) error {
	return s.repo.RegisterUser(ctx, login)
}

// Login resolves a certificate login into a LoginInfo. The client uses
// PassphraseSet to decide whether the settings start locked.
func (s *Service) Login(ctx context.Context, login string) (LoginInfo, error) {
	exists, err := s.repo.UserExists(ctx, login)
	if err != nil {
		return LoginInfo{}, fmt.Errorf("login: %w", err)
	}
	if !exists {
		return LoginInfo{}, ErrUnknownUser
	}

	info := LoginInfo{Login: login}
	if s.passphrases == nil {
		return info, nil
	}
	info.PassphraseSet, err = s.passphrases.HasPassphrase(ctx, login)
	if err != nil {
		return LoginInfo{}, fmt.Errorf("login: %w", err)
	}
	return info, nil
}
