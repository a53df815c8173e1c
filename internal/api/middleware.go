package api

import (
	"context"
	"net/http"
	"time"

	"github.com/booknotesapp/booknotes-server/internal/domain"
	domainerrors "github.com/booknotesapp/booknotes-server/internal/errors"
	"github.com/booknotesapp/booknotes-server/internal/http/response"
)

// sessionCookieName is the browser cookie carrying the opaque session token.
const sessionCookieName = "booknotes_session"

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const contextKeyReader contextKey = "reader"

// withSession resolves the session cookie into a reader and attaches it to
// the request context. Requests without a valid session pass through
// anonymous; a stale cookie is cleared on the way. Only domain rejections
// (unknown or expired sessions) downgrade to anonymous; a store failure is
// surfaced so a transient database error can't log a browser out.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		reader, err := s.sessions.Resolve(r.Context(), cookie.Value)
		if err != nil {
			var derr *domainerrors.Error
			if !domainerrors.As(err, &derr) {
				s.logger.Error("session lookup failed", "error", err)
				response.InternalError(w, "internal server error", s.logger)
				return
			}
			s.clearSessionCookie(w)
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyReader, reader)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAuth gates routes on a signed-in reader. Anonymous requests are
// redirected to the login page, matching the browser-form flow.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if currentReader(r.Context()) == nil {
			setFlash(w, "Please log in first")
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// currentReader extracts the signed-in reader from request context.
// Returns nil for anonymous requests.
func currentReader(ctx context.Context) *domain.Reader {
	if reader, ok := ctx.Value(contextKeyReader).(*domain.Reader); ok {
		return reader
	}
	return nil
}

// currentReaderID returns the signed-in reader's ID, or 0 when anonymous.
func currentReaderID(ctx context.Context) int64 {
	if reader := currentReader(ctx); reader != nil {
		return reader.ID
	}
	return 0
}

// setSessionCookie installs the session token cookie. Max-Age matches the
// session row's absolute lifetime so both expire together.
func (s *Server) setSessionCookie(w http.ResponseWriter, token string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie removes the session cookie.
func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
