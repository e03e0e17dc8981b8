package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/oakmount/accounts-api/internal/apperror"
	"github.com/oakmount/accounts-api/internal/domain"
	"github.com/oakmount/accounts-api/internal/platform/auth"
)

// NewAuthMiddleware enforces Authorization: Bearer <JWT> for all API endpoints.
//
// On success, it stores the authenticated subject (JWT `sub`) in request
// context. Failures are written through the shared error envelope.
func NewAuthMiddleware(v *auth.TokenVerifier, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Health endpoint is used by infra checks and stays unauthenticated.
			if r.URL.Path == "/healthz" {
				next.ServeHTTP(w, r)
				return
			}

			authz := r.Header.Get("Authorization")
			if authz == "" {
				WriteError(w, r, log, apperror.Unauthorized("missing Authorization header"))
				return
			}
			const prefix = "Bearer "
			if !strings.HasPrefix(authz, prefix) {
				WriteError(w, r, log, apperror.Unauthorized("malformed Authorization header"))
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, prefix))
			if raw == "" {
				WriteError(w, r, log, apperror.Unauthorized("missing bearer token"))
				return
			}

			sub, err := v.Verify(raw)
			if err != nil {
				WriteError(w, r, log, apperror.Unauthorized("Invalid token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSubject(r.Context(), domain.SubjectID(sub))))
		})
	}
}

// NewDevAuthMiddleware is a local/dev-only auth shim.
//
// It accepts an explicit subject via X-Debug-Subject and stores it in request
// context, falling back to defaultSubject when the header is absent. Do NOT
// use this in production deployments.
func NewDevAuthMiddleware(defaultSubject string, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/healthz" {
				next.ServeHTTP(w, r)
				return
			}

			sub := strings.TrimSpace(r.Header.Get("X-Debug-Subject"))
			if sub == "" {
				sub = strings.TrimSpace(defaultSubject)
			}
			if sub == "" {
				WriteError(w, r, log, apperror.Unauthorized("missing subject (set X-Debug-Subject)"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSubject(r.Context(), domain.SubjectID(sub))))
		})
	}
}
