package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/keeperpass/internal/middleware"
	"github.com/atinyakov/keeperpass/internal/service"
)

// PassphraseService defines the passphrase operations required by
// PassphraseHandler.
type PassphraseService interface {
	SetPassphrase(ctx context.Context, login, passphrase string) error
	VerifyPassphrase(ctx context.Context, login, passphrase string) error
}

// PassphraseHandler handles passphrase storage and verification for the
// authenticated user.
type PassphraseHandler struct {
	PassphraseService PassphraseService
	Logger            *zap.Logger
}

// PassphraseRequest is the JSON body of both passphrase endpoints.
type PassphraseRequest struct {
	Passphrase string `json:"passphrase"`
}

func (h *PassphraseHandler) logger() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}

func decodePassphrase(r *http.Request) (string, bool) {
	var req PassphraseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Passphrase == "" {
		return "", false
	}
	return req.Passphrase, true
}

// Set handles POST /api/passphrase. It replies 204 once the passphrase is
// stored.
func (h *PassphraseHandler) Set(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	login := middleware.GetUserIDFromContext(ctx)

	passphrase, ok := decodePassphrase(r)
	if !ok {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	err := h.PassphraseService.SetPassphrase(ctx, login, passphrase)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, service.ErrEmptyPassphrase), errors.Is(err, service.ErrPassphraseTooLong):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger().Error("set passphrase", zap.String("user", login), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// Verify handles POST /api/passphrase/verify. A matching passphrase yields
// {"authenticated":true}; a wrong or missing one yields 401.
func (h *PassphraseHandler) Verify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	login := middleware.GetUserIDFromContext(ctx)

	passphrase, ok := decodePassphrase(r)
	if !ok {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	err := h.PassphraseService.VerifyPassphrase(ctx, login, passphrase)
	switch {
	case err == nil:
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]bool{"authenticated": true})
	case errors.Is(err, service.ErrPassphraseMismatch), errors.Is(err, service.ErrNoPassphrase):
		http.Error(w, "wrong passphrase", http.StatusUnauthorized)
	case errors.Is(err, service.ErrEmptyPassphrase):
		http.Error(w, "invalid request", http.StatusBadRequest)
	default:
		h.logger().Error("verify passphrase", zap.String("user", login), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
