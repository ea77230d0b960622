// Package auth provides authentication context helpers.
//
// This package is designed to be imported by both middleware and handler
// packages without causing import cycles.
package auth

import (
	"context"
	"net/http"

	"github.com/dlavarnway/wicket/internal/session"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// sessionContextKey is the key used to store the resolved session in context.
	sessionContextKey contextKey = "session"
)

// GetSession retrieves the authenticated session from the context.
//
// Returns nil if the request did not pass the auth guard.
func GetSession(ctx context.Context) *session.Session {
	sess, ok := ctx.Value(sessionContextKey).(*session.Session)
	if !ok {
		return nil
	}
	return sess
}

// GetSessionFromRequest retrieves the authenticated session from the
// request context.
func GetSessionFromRequest(r *http.Request) *session.Session {
	return GetSession(r.Context())
}

// SetSession stores a resolved session in the context. Called by the auth
// guard after a session has been validated and refreshed.
func SetSession(ctx context.Context, sess *session.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}
