// Package http provides the HTTP handlers of the passphrase service:
// registration, certificate login, and passphrase storage.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/atinyakov/keeperpass/internal/service"
)

// AuthService defines the interface for authentication operations
// required by the HTTP handlers.
type AuthService interface {
	// UserExists checks whether a user with the given login exists.
	UserExists(context.Context, string) (bool, error)
	// RegisterUser registers a new user with the given login.
	RegisterUser(context.Context, string) error
	// Login resolves a certificate login.
	Login(context.Context, string) (service.LoginInfo, error)
}

// CertIssuer signs client certificates for newly registered users.
type CertIssuer interface {
	IssueClient(login string) (certPEM, keyPEM []byte, err error)
}

// AuthHandler handles HTTP requests for user registration and login.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
	// Issuer signs the certificate returned by Register.
	Issuer CertIssuer
}

// RegisterRequest represents the JSON payload for user registration.
type RegisterRequest struct {
	// Login is the username to register.
	Login string `json:"login"`
}

// LoginResponse is returned by Login.
type LoginResponse struct {
	Status        string `json:"status"`
	User          string `json:"user"`
	PassphraseSet bool   `json:"passphrase_set"`
}

// Register handles user registration requests.
// It expects a JSON body with a non-empty "login" field. A new user gets a
// client certificate signed by the CA; the PEM-encoded certificate and key
// are returned in the response.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Login == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	exists, err := h.AuthService.UserExists(r.Context(), req.Login)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if exists {
		http.Error(w, "user already exists", http.StatusConflict)
		return
	}

	certPEM, keyPEM, err := h.Issuer.IssueClient(req.Login)
	if err != nil {
		http.Error(w, "failed to generate certificate", http.StatusInternalServerError)
		return
	}

	if err := h.AuthService.RegisterUser(r.Context(), req.Login); err != nil {
		http.Error(w, "failed to save user", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"cert": string(certPEM),
		"key":  string(keyPEM),
	})
}

// Login handles certificate-based login requests.
// The CommonName of the client certificate is the login. The response
// tells the client whether a passphrase already guards the settings.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.TLS == nil || len(r.TLS.PeerCertificates) == 0 {
		http.Error(w, "client certificate required", http.StatusUnauthorized)
		return
	}
	login := r.TLS.PeerCertificates[0].Subject.CommonName

	info, err := h.AuthService.Login(r.Context(), login)
	if errors.Is(err, service.ErrUnknownUser) {
		http.Error(w, "user not found", http.StatusForbidden)
		return
	}
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(LoginResponse{
		Status:        "ok",
		User:          info.Login,
		PassphraseSet: info.PassphraseSet,
	})
}
