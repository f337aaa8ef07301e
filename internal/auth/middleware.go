package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	apperrors "cafebook/pkg/errors"
	httputil "cafebook/pkg/http"
	"cafebook/pkg/logger"
)

type contextKey string

// UserKey carries the authenticated user in the request context.
const UserKey contextKey = "auth_user"

// TokenVerifier is the piece of AuthClient the middleware needs.
type TokenVerifier interface {
	VerifyToken(token string) (*User, error)
}

// RequireAuth guards admin routes. Requests without a valid bearer
// token never reach the wrapped handler.
func RequireAuth(verifier TokenVerifier, log *logger.Logger) func(httprouter.Handle) httprouter.Handle {
	return func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			token := extractBearerToken(r)
			if token == "" {
				if writeErr := httputil.WriteError(w, apperrors.Unauthorized("Missing bearer token")); writeErr != nil {
					log.Error("failed to write error response", "middleware", "RequireAuth", "error", writeErr)
				}
				return
			}

			user, err := verifier.VerifyToken(token)
			if err != nil {
				log.Warn("Token verification failed", "path", r.URL.Path, "error", err)
				if writeErr := httputil.WriteError(w, err); writeErr != nil {
					log.Error("failed to write error response", "middleware", "RequireAuth", "error", writeErr)
				}
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, user)
			next(w, r.WithContext(ctx), ps)
		}
	}
}

// UserFromContext returns the authenticated user, or nil outside
// guarded routes.
func UserFromContext(ctx context.Context) *User {
	if u, ok := ctx.Value(UserKey).(*User); ok {
		return u
	}
	return nil
}

func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
