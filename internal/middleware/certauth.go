// Package middleware provides HTTP middlewares for certificate
// authentication and request logging.
package middleware

import (
	"context"
	"net/http"
)

type ctxKey string

const userKey ctxKey = "user"

// publicPaths are served without a client certificate.
var publicPaths = map[string]bool{
	"/api/register": true,
}

// CertAuth is a middleware that enforces mutual TLS authentication.
//
// Requests to public paths pass through untouched so that new users can
// obtain a certificate. Every other request must present a client
// certificate; its Common Name is stored in the request context as the
// authenticated login.
func CertAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if publicPaths[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}
		if r.TLS == nil || len(r.TLS.PeerCertificates) == 0 {
			http.Error(w, "no client certificate provided", http.StatusUnauthorized)
			return
		}
		login := r.TLS.PeerCertificates[0].Subject.CommonName
		if login == "" {
			http.Error(w, "certificate has no common name", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), login)))
	})
}

// WithUser returns a copy of ctx carrying login as the authenticated user.
func WithUser(ctx context.Context, login string) context.Context {
	return context.WithValue(ctx, userKey, login)
}

// GetUserIDFromContext extracts the login stored by CertAuth.
// Returns an empty string if not found.
func GetUserIDFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(userKey).(string); ok {
		return s
	}
	return ""
}
