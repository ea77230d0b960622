package session

import "net/http"

const (
	// CookieName is the name of the cookie that carries the session id.
	// It is shared with the SPA client and must not change independently.
	CookieName = "session_id"

	// CookiePath ensures the cookie is sent with all requests.
	CookiePath = "/"
)

// SetCookie issues the session cookie.
//
// The cookie is a session cookie (no expiry): server-side idle timeout is
// the authority on session lifetime, not the browser. HttpOnly always;
// in production the cookie is Secure with SameSite=Strict, in development
// SameSite=Lax so the Vite dev server can talk to the API.
func SetCookie(w http.ResponseWriter, id string, isSecure bool) {
	sameSite := http.SameSiteLaxMode
	if isSecure {
		sameSite = http.SameSiteStrictMode
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     CookiePath,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: sameSite,
	})
}

// ClearCookie removes the session cookie from the client by setting
// MaxAge to -1, which tells the browser to delete it immediately.
func ClearCookie(w http.ResponseWriter, isSecure bool) {
	sameSite := http.SameSiteLaxMode
	if isSecure {
		sameSite = http.SameSiteStrictMode
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     CookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: sameSite,
	})
}
