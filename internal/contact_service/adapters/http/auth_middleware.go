package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aradsms/contactbook/internal/platform/auth"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

// AuthenticatedSubjectContextKey holds the "sub" claim of a verified token.
const AuthenticatedSubjectContextKey = ContextKey("authenticatedSubject")

// JWTAuthMiddleware requires an HS256 bearer token signed with secret.
func JWTAuthMiddleware(secret []byte, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := auth.BearerToken(r.Header.Get("Authorization"))
			if err != nil {
				logger.WarnContext(r.Context(), "Rejected Authorization header", "error", err)
				respondWithError(w, http.StatusUnauthorized, err.Error())
				return
			}

			subject, err := auth.VerifyHS256(tokenString, secret)
			if err != nil {
				logger.WarnContext(r.Context(), "Token validation failed", "error", err)
				respondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), AuthenticatedSubjectContextKey, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SubjectFromContext returns the authenticated token subject, if any.
func SubjectFromContext(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(AuthenticatedSubjectContextKey).(string)
	return s, ok
}
