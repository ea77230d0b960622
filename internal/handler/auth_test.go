package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dlavarnway/wicket/internal/service"
	"github.com/dlavarnway/wicket/internal/session"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestAuthHandler(t *testing.T) (*AuthHandler, *session.Store) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "users.json")
	users := `[{"username":"alice","password":"s3cret","fullName":"Alice Example"}]`
	if err := os.WriteFile(path, []byte(users), 0o644); err != nil {
		t.Fatal(err)
	}

	svc := service.NewUserService(path, newTestLogger())
	if err := svc.Load(); err != nil {
		t.Fatal(err)
	}

	store := session.NewStore()
	return NewAuthHandler(svc, store, newTestLogger(), false), store
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	return nil
}

func TestLogin_Success(t *testing.T) {
	h, store := newTestAuthHandler(t)

	req := httptest.NewRequest("POST", "/api/auth/login",
		strings.NewReader(`{"username":"alice","password":"s3cret"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var profile map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&profile); err != nil {
		t.Fatal(err)
	}
	if profile["username"] != "alice" || profile["fullName"] != "Alice Example" {
		t.Errorf("profile = %v", profile)
	}

	cookie := sessionCookie(rec)
	if cookie == nil {
		t.Fatal("login must set the session cookie")
	}
	if !cookie.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}

	if store.Count() != 1 {
		t.Fatalf("sessions = %d, want 1", store.Count())
	}
	sess, ok := store.Get(cookie.Value)
	if !ok {
		t.Fatal("cookie value must name the created session")
	}
	if sess.Username != "alice" {
		t.Errorf("session username = %q", sess.Username)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	h, store := newTestAuthHandler(t)

	req := httptest.NewRequest("POST", "/api/auth/login",
		strings.NewReader(`{"username":"alice","password":"wrong"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if store.Count() != 0 {
		t.Error("failed login must not create a session")
	}
	if sessionCookie(rec) != nil {
		t.Error("failed login must not set a cookie")
	}
}

func TestLogin_BadBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"username":`},
		{name: "unknown field", body: `{"username":"alice","password":"s3cret","extra":true}`},
		{name: "missing fields", body: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, store := newTestAuthHandler(t)

			req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.Login(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
			if store.Count() != 0 {
				t.Error("bad request must not create a session")
			}
		})
	}
}

func TestLogout_DeletesSessionAndClearsCookie(t *testing.T) {
	h, store := newTestAuthHandler(t)
	id := store.Create("alice", "Alice Example")

	req := httptest.NewRequest("POST", "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: id})
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if _, ok := store.Get(id); ok {
		t.Error("logout must delete the session")
	}

	cookie := sessionCookie(rec)
	if cookie == nil || cookie.MaxAge >= 0 {
		t.Error("logout must clear the session cookie")
	}
}

func TestLogout_WithoutCookieStillSucceeds(t *testing.T) {
	h, _ := newTestAuthHandler(t)

	req := httptest.NewRequest("POST", "/api/auth/logout", nil)
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestLogout_IsIdempotent(t *testing.T) {
	h, store := newTestAuthHandler(t)
	id := store.Create("alice", "Alice Example")

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("POST", "/api/auth/logout", nil)
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: id})
		rec := httptest.NewRecorder()
		h.Logout(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("logout %d: status = %d, want %d", i+1, rec.Code, http.StatusOK)
		}
	}
	if store.Count() != 0 {
		t.Error("session must stay deleted")
	}
}
