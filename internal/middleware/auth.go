// Package middleware contains the HTTP middleware for the server.
//
// Middleware functions follow the standard Go pattern of wrapping
// http.Handler and are composed with Stack.
package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dlavarnway/wicket/internal/auth"
	"github.com/dlavarnway/wicket/internal/domain"
	"github.com/dlavarnway/wicket/internal/handler"
	"github.com/dlavarnway/wicket/internal/metrics"
	"github.com/dlavarnway/wicket/internal/options"
	"github.com/dlavarnway/wicket/internal/session"
)

// AuthGuard is the single enforcement point in front of every route that
// requires an authenticated session.
type AuthGuard struct {
	sessions *session.Store
	options  *options.Service
	logger   *slog.Logger
	isSecure bool

	// now is swappable in tests for deterministic expiry.
	now func() time.Time
}

// NewAuthGuard creates an AuthGuard over the given store and options.
func NewAuthGuard(sessions *session.Store, opts *options.Service, logger *slog.Logger, isSecure bool) *AuthGuard {
	return &AuthGuard{
		sessions: sessions,
		options:  opts,
		logger:   logger,
		isSecure: isSecure,
		now:      time.Now,
	}
}

// RequireSession gates a handler behind session authentication.
//
// Exactly one of four outcomes happens per request, checked in this order:
//
//  1. No session cookie -> 401 "Unauthorized".
//  2. Cookie names no live session -> 401 "Invalid session", stale cookie
//     cleared.
//  3. Idle longer than the configured timeout -> session deleted, cookie
//     cleared, 401 "Session timed out". Distinguished from case 2 so the
//     client can tell the user their session timed out rather than that
//     they were never logged in.
//  4. Otherwise the session's activity timestamp is refreshed, the session
//     is attached to the request context, and the request proceeds.
//
// The ordering matters: expiry is only checked for sessions that exist,
// and activity is only refreshed once expiry has been ruled out, so a
// request can never refresh a session past its own timeout check.
func (g *AuthGuard) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(session.CookieName)
		if err != nil {
			handler.ErrorResponse(w, r, g.logger,
				domain.Unauthorized("auth.guard", "Unauthorized"))
			return
		}

		sess, ok := g.sessions.Get(cookie.Value)
		if !ok {
			session.ClearCookie(w, g.isSecure)
			handler.ErrorResponse(w, r, g.logger,
				domain.Unauthorized("auth.guard", "Invalid session"))
			return
		}

		if sess.ExpiredAt(g.now(), g.options.SessionTimeout()) {
			g.sessions.Delete(sess.ID)
			session.ClearCookie(w, g.isSecure)
			metrics.SessionsExpired.Inc()
			g.logger.Info("Session timed out", "username", sess.Username)
			handler.ErrorResponse(w, r, g.logger,
				domain.Unauthorized("auth.guard", "Session timed out"))
			return
		}

		g.sessions.Touch(sess.ID)
		next.ServeHTTP(w, r.WithContext(auth.SetSession(r.Context(), &sess)))
	})
}

// Stack composes multiple middleware functions into a single middleware.
// The first middleware in the slice is the outermost (runs first on the
// request, last on the response).
func Stack(middlewares ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(final http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}
