package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"memberdesk/pkg/requestcontext"
)

// SessionCookie is the cookie carrying the signed admin session token.
const SessionCookie = "memberdesk_session"

// SessionClaims is the admin identity extracted from a validated token.
type SessionClaims struct {
	AdminID  uuid.UUID
	Username string
}

// SessionValidator validates a session token and returns the admin identity.
// The session manager implements this; middleware stays decoupled from the
// token format.
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (SessionClaims, error)
}

// RequireAdmin guards admin routes. A request without a valid session is
// redirected to the login entry point rather than failing outright; a valid
// session places the admin identity on the request context.
func RequireAdmin(sessions SessionValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil {
				http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
				return
			}

			claims, err := sessions.ValidateSession(r.Context(), cookie.Value)
			if err != nil {
				logger.WarnContext(r.Context(), "rejected admin session",
					"error", err,
					"request_id", requestcontext.RequestID(r.Context()),
				)
				http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
				return
			}

			ctx := requestcontext.WithAdmin(r.Context(), claims.AdminID, claims.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
