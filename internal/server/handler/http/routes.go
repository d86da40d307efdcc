package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/atinyakov/keeperpass/internal/middleware"
)

// NewRouter constructs the HTTP handler of the passphrase service.
//
// Routes:
//
//	POST /api/register           → authHandler.Register (no certificate)
//	POST /api/login              → authHandler.Login
//	POST /api/passphrase         → passphraseHandler.Set
//	POST /api/passphrase/verify  → passphraseHandler.Verify
//
// Middleware, in order: JSON content type, request logging, CertAuth.
func NewRouter(
	authHandler *AuthHandler,
	passphraseHandler *PassphraseHandler,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.AllowContentType("application/json"))
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(middleware.CertAuth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)

		r.Route("/passphrase", func(r chi.Router) {
			r.Post("/", passphraseHandler.Set)
			r.Post("/verify", passphraseHandler.Verify)
		})
	})

	return r
}
