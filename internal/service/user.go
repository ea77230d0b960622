// Package service contains business logic sitting between the HTTP
// handlers and the data files.
package service

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/dlavarnway/wicket/internal/domain"
)

// UserService loads the user directory from a JSON file and verifies
// credentials against it.
type UserService struct {
	path   string
	logger *slog.Logger

	mu    sync.RWMutex
	users []domain.User
}

// NewUserService creates a user service reading from path. Call Load
// before serving requests.
func NewUserService(path string, logger *slog.Logger) *UserService {
	return &UserService{
		path:   path,
		logger: logger,
	}
}

// Load reads the users file. Unlike options, a missing users file is a
// startup error: a server nobody can log into is misconfigured.
func (s *UserService) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("read users file: %w", err)
	}

	var users []domain.User
	if err := json.Unmarshal(data, &users); err != nil {
		return fmt.Errorf("parse users file %s: %w", s.path, err)
	}

	s.mu.Lock()
	s.users = users
	s.mu.Unlock()

	s.logger.Info("Users loaded", "count", len(users))
	return nil
}

// Authenticate verifies the credentials and returns the matching user.
// Unknown usernames and wrong passwords are indistinguishable to callers.
func (s *UserService) Authenticate(username, password string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.users {
		u := s.users[i]
		if u.Username == username && verifyPassword(u.Password, password) {
			return &u, nil
		}
	}

	return nil, domain.Unauthorized("user.authenticate", "Invalid credentials")
}

// verifyPassword checks a supplied password against the stored value.
//
// Stored bcrypt hashes are verified with bcrypt; any other stored value is
// compared in constant time, which keeps legacy plaintext fixture files
// working without endorsing them.
func verifyPassword(stored, supplied string) bool {
	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") ||
		strings.HasPrefix(s, "$2b$") ||
		strings.HasPrefix(s, "$2y$")
}
