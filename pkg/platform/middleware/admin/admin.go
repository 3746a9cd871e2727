// Package admin guards the administrative API with a shared token.
package admin

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	dErrors "formprefill/pkg/domain-errors"
	"formprefill/pkg/platform/httputil"
	request "formprefill/pkg/platform/middleware/request"
)

// HeaderAdminToken carries the admin token.
const HeaderAdminToken = "X-Admin-Token"

// RequireAdminToken rejects requests whose X-Admin-Token does not match
// expected. An empty expected token disables the admin API.
func RequireAdminToken(expected string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(HeaderAdminToken)
			if expected != "" && subtle.ConstantTimeCompare([]byte(got), []byte(expected)) == 1 {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			logger.WarnContext(ctx, "rejected admin request",
				"request_id", request.GetRequestID(ctx),
				"path", r.URL.Path,
				"token_present", got != "",
			)
			httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "admin token required"))
		})
	}
}
