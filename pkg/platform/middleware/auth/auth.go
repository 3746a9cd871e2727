// Package auth attaches the frontend session identity to the request
// context. Missing or invalid credentials leave the request anonymous;
// handlers decide whether an identity is required.
package auth

import (
	"log/slog"
	"net/http"
	"strings"

	id "formprefill/pkg/domain"
	request "formprefill/pkg/platform/middleware/request"
	"formprefill/pkg/requestcontext"
)

// TokenValidator validates session tokens.
type TokenValidator interface {
	ValidateToken(tokenString string) (*SessionClaims, error)
}

// SessionClaims represents the claims we expect from the token validator
type SessionClaims struct {
	UserID    id.UserID
	SessionID string
}

// tokenFromRequest prefers the Authorization header over the session cookie.
func tokenFromRequest(r *http.Request, cookieName string) (string, string) {
	const bearerPrefix = "Bearer "
	if after, ok := strings.CutPrefix(r.Header.Get("Authorization"), bearerPrefix); ok {
		return strings.TrimSpace(after), "header"
	}
	if cookieName != "" {
		if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
			return c.Value, "cookie"
		}
	}
	return "", ""
}

// Authenticate attaches the session identity when a valid token is present
// in the Authorization header or the named cookie.
func Authenticate(validator TokenValidator, cookieName string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, source := tokenFromRequest(r, cookieName)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "ignoring invalid session token",
					"error", err,
					"source", source,
					"request_id", request.GetRequestID(ctx),
				)
				next.ServeHTTP(w, r)
				return
			}

			ctx = requestcontext.WithUserID(ctx, claims.UserID)
			ctx = requestcontext.WithSessionID(ctx, claims.SessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
