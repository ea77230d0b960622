package handler

import (
	"log/slog"
	"net/http"

	"github.com/dlavarnway/wicket/internal/domain"
	"github.com/dlavarnway/wicket/internal/metrics"
	"github.com/dlavarnway/wicket/internal/service"
	"github.com/dlavarnway/wicket/internal/session"
)

// AuthHandler handles login and logout.
//
// Routes handled:
// - POST /api/auth/login  -> Login
// - POST /api/auth/logout -> Logout
type AuthHandler struct {
	users    *service.UserService
	sessions *session.Store
	logger   *slog.Logger
	isSecure bool
}

// NewAuthHandler creates a new AuthHandler with the required dependencies.
func NewAuthHandler(users *service.UserService, sessions *session.Store, logger *slog.Logger, isSecure bool) *AuthHandler {
	return &AuthHandler{
		users:    users,
		sessions: sessions,
		logger:   logger,
		isSecure: isSecure,
	}
}

// loginRequest is the POST /api/auth/login body.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login verifies credentials, mints a session, and sets the session cookie.
//
// On success the response body is the user's profile. Credential failures
// are 401 and carry no hint whether the username or the password was wrong.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid("auth.login", "Bad request"))
		return
	}
	if req.Username == "" || req.Password == "" {
		ErrorResponse(w, r, h.logger, domain.Invalid("auth.login", "Bad request"))
		return
	}

	user, err := h.users.Authenticate(req.Username, req.Password)
	if err != nil {
		metrics.LoginFailures.Inc()
		ErrorResponse(w, r, h.logger, err)
		return
	}

	id := h.sessions.Create(user.Username, user.FullName)
	session.SetCookie(w, id, h.isSecure)
	metrics.SessionsCreated.Inc()

	h.logger.Info("User logged in", "username", user.Username)
	respondJSON(w, http.StatusOK, user.Profile())
}

// Logout deletes the session named by the cookie, if any, and clears the
// cookie. It succeeds unconditionally so the client can always converge on
// a logged-out state.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(session.CookieName); err == nil {
		h.sessions.Delete(cookie.Value)
	}
	session.ClearCookie(w, h.isSecure)

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// RegisterRoutes registers the auth routes. These are public: the guard
// must not sit in front of login.
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/login", h.Login)
	mux.HandleFunc("POST /api/auth/logout", h.Logout)
}
