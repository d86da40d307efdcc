package host

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/atinyakov/keeperpass/internal/models"
)

// StatusError is a non-success response from the service.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server responded %d: %s", e.Code, e.Body)
}

// Unauthorized reports whether the service rejected the credentials.
func (e *StatusError) Unauthorized() bool {
	return e.Code == http.StatusUnauthorized || e.Code == http.StatusForbidden
}

// Session tracks the authentication state of the settings client. It is
// safe for concurrent use: unlock requests run off the UI loop.
type Session struct {
	client  *http.Client
	baseURL string

	mu    sync.RWMutex
	state models.AuthState
	user  string
}

// NewSession creates an unauthenticated session.
func NewSession(client *http.Client, baseURL string) *Session {
	return &Session{client: client, baseURL: baseURL}
}

// AuthenticationState returns the current state.
func (s *Session) AuthenticationState() models.AuthState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// User returns the login reported by the service.
func (s *Session) User() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Session) setState(st models.AuthState) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// Login identifies the client by its certificate. A user without a stored
// passphrase is authenticated right away.
func (s *Session) Login(ctx context.Context) error {
	var resp struct {
		Status        string `json:"status"`
		User          string `json:"user"`
		PassphraseSet bool   `json:"passphrase_set"`
	}
	if err := s.post(ctx, apiLogin, struct{}{}, &resp); err != nil {
		s.setState(models.Unauthenticated)
		return fmt.Errorf("login: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = resp.User
	if resp.PassphraseSet {
		s.state = models.Unauthenticated
	} else {
		s.state = models.Authenticated
	}
	return nil
}

// Unlock verifies passphrase with the service.
func (s *Session) Unlock(ctx context.Context, passphrase string) error {
	s.setState(models.AuthInProgress)

	var resp struct {
		Authenticated bool `json:"authenticated"`
	}
	err := s.post(ctx, apiPassphraseVerify, map[string]string{"passphrase": passphrase}, &resp)
	if err != nil || !resp.Authenticated {
		s.setState(models.Unauthenticated)
		if err == nil {
			err = &StatusError{Code: http.StatusUnauthorized, Body: "not authenticated"}
		}
		return fmt.Errorf("unlock: %w", err)
	}
	s.setState(models.Authenticated)
	return nil
}

func (s *Session) post(ctx context.Context, path string, in, out any) error {
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return &StatusError{Code: resp.StatusCode, Body: string(bytes.TrimSpace(data))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
