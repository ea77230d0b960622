package handler

import (
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/dlavarnway/wicket/internal/auth"
	"github.com/dlavarnway/wicket/internal/domain"
	"github.com/dlavarnway/wicket/internal/options"
)

// APIHandler serves the authenticated API surface: server info and the
// runtime options endpoints.
type APIHandler struct {
	options *options.Service
	started time.Time
	version string
	logger  *slog.Logger
}

// NewAPIHandler creates a new APIHandler. started is the process start
// time reported by /api/info; version identifies the server build.
func NewAPIHandler(opts *options.Service, started time.Time, version string, logger *slog.Logger) *APIHandler {
	return &APIHandler{
		options: opts,
		started: started,
		version: version,
		logger:  logger,
	}
}

// serverInfo is the GET /api/info response.
type serverInfo struct {
	StartTimestamp string   `json:"startTimestamp"`
	ServerTime     string   `json:"serverTime"`
	GoVersion      string   `json:"goVersion"`
	ServerVersion  string   `json:"serverVersion"`
	User           infoUser `json:"user"`
}

type infoUser struct {
	Username       string `json:"username"`
	FullName       string `json:"fullName"`
	LoginTimestamp string `json:"loginTimestamp"`
}

// Info returns server runtime details plus the calling session's profile.
func (h *APIHandler) Info(w http.ResponseWriter, r *http.Request) {
	sess := auth.GetSession(r.Context())
	if sess == nil {
		// Unreachable behind the guard; kept so the handler is safe on its own.
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	respondJSON(w, http.StatusOK, serverInfo{
		StartTimestamp: h.started.UTC().Format(time.RFC3339),
		ServerTime:     time.Now().UTC().Format(time.RFC3339),
		GoVersion:      runtime.Version(),
		ServerVersion:  h.version,
		User: infoUser{
			Username:       sess.Username,
			FullName:       sess.FullName,
			LoginTimestamp: sess.LoginTimestamp.UTC().Format(time.RFC3339),
		},
	})
}

// GetOptions returns the current runtime options.
func (h *APIHandler) GetOptions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.options.Get())
}

// UpdateOptions validates, persists, and applies new runtime options.
// Changes take effect for the next session-timeout evaluation; no restart.
func (h *APIHandler) UpdateOptions(w http.ResponseWriter, r *http.Request) {
	var opts options.Options
	if err := decodeJSON(w, r, &opts); err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid("options.update", "Bad request"))
		return
	}

	if err := h.options.Update(opts); err != nil {
		if domain.ErrorCode(err) == domain.EINVALID {
			// Keep the original API contract: invalid payloads are a plain
			// bad request, bounds are not echoed back.
			ErrorResponse(w, r, h.logger, domain.Invalid("options.update", "Bad request"))
			return
		}
		ErrorResponse(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, opts)
}

// Health is the unauthenticated liveness probe.
func (h *APIHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// RegisterRoutes registers the API routes. Everything except the health
// check sits behind the supplied session guard.
func (h *APIHandler) RegisterRoutes(mux *http.ServeMux, requireSession func(http.Handler) http.Handler) {
	mux.HandleFunc("GET /api/health", h.Health)

	mux.Handle("GET /api/info", requireSession(http.HandlerFunc(h.Info)))
	mux.Handle("GET /api/options", requireSession(http.HandlerFunc(h.GetOptions)))
	mux.Handle("POST /api/options", requireSession(http.HandlerFunc(h.UpdateOptions)))
}
