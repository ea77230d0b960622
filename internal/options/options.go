// Package options manages the mutable runtime options shared by the auth
// guard, the session sweeper, and the settings endpoints.
//
// Options are backed by a JSON file and held in memory behind a RWMutex;
// updates are validated, persisted, and visible to the next read without a
// restart.
package options

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/dlavarnway/wicket/internal/domain"
)

const (
	// DefaultSessionTimeoutMinutes applies when no options file exists.
	DefaultSessionTimeoutMinutes = 60

	// MinSessionTimeoutMinutes and MaxSessionTimeoutMinutes bound the
	// configurable idle timeout (1 minute to 24 hours).
	MinSessionTimeoutMinutes = 1
	MaxSessionTimeoutMinutes = 1440
)

// Options is the client-editable runtime configuration.
type Options struct {
	SessionTimeoutMinutes int `json:"sessionTimeoutMinutes"`
}

// Validate checks that all option values are within bounds.
func (o Options) Validate() error {
	if o.SessionTimeoutMinutes < MinSessionTimeoutMinutes || o.SessionTimeoutMinutes > MaxSessionTimeoutMinutes {
		return domain.Invalid("options.validate",
			fmt.Sprintf("sessionTimeoutMinutes must be between %d and %d",
				MinSessionTimeoutMinutes, MaxSessionTimeoutMinutes))
	}
	return nil
}

// SessionTimeout returns the idle timeout as a duration.
func (o Options) SessionTimeout() time.Duration {
	return time.Duration(o.SessionTimeoutMinutes) * time.Minute
}

// Service owns the current options and their file persistence.
// All methods are safe for concurrent use.
type Service struct {
	path   string
	logger *slog.Logger

	mu      sync.RWMutex
	current Options
}

// NewService creates an options service persisting to path. The service
// starts with defaults; call Load to read the file.
func NewService(path string, logger *slog.Logger) *Service {
	return &Service{
		path:   path,
		logger: logger,
		current: Options{
			SessionTimeoutMinutes: DefaultSessionTimeoutMinutes,
		},
	}
}

// Load reads the options file. A missing file keeps the defaults; a file
// that exists but cannot be parsed or validated is a startup error.
func (s *Service) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Info("Options file not found, using defaults", "path", s.path)
			return nil
		}
		return fmt.Errorf("read options file: %w", err)
	}

	var opts Options
	if err := json.Unmarshal(data, &opts); err != nil {
		return fmt.Errorf("parse options file %s: %w", s.path, err)
	}
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("options file %s: %w", s.path, err)
	}

	s.mu.Lock()
	s.current = opts
	s.mu.Unlock()

	return nil
}

// Get returns the current options.
func (s *Service) Get() Options {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// SessionTimeout returns the currently configured idle timeout. Read on
// every guard evaluation and every sweep.
func (s *Service) SessionTimeout() time.Duration {
	return s.Get().SessionTimeout()
}

// Update validates, persists, and applies new options. The in-memory value
// only changes if persistence succeeds.
func (s *Service) Update(opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(opts, "", "\t")
	if err != nil {
		return domain.Internal(err, "options.update", "Failed to encode options")
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return domain.Internal(err, "options.update", "Failed to persist options")
	}

	s.mu.Lock()
	s.current = opts
	s.mu.Unlock()

	s.logger.Info("Options updated", "session_timeout_minutes", opts.SessionTimeoutMinutes)
	return nil
}
