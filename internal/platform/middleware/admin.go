package middleware

import (
	"log/slog"
	"net/http"

	"shopdir/pkg/requestcontext"
)

// RequireAdminToken gates the admin surface behind a shared token carried in
// the X-Admin-Token header. Session management and user authentication are
// handled upstream; this is the narrow contract the directory consumes.
func RequireAdminToken(token string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" || r.Header.Get("X-Admin-Token") != token {
				if logger != nil {
					logger.WarnContext(r.Context(), "admin token rejected",
						"path", r.URL.Path,
						"remote_addr", r.RemoteAddr,
					)
				}
				w.WriteHeader(http.StatusForbidden)
				return
			}
			ctx := requestcontext.WithAdmin(r.Context())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
