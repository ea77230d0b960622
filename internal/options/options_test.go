package options

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dlavarnway/wicket/internal/domain"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		minutes int
		wantErr bool
	}{
		{name: "below minimum", minutes: 0, wantErr: true},
		{name: "negative", minutes: -5, wantErr: true},
		{name: "minimum", minutes: 1, wantErr: false},
		{name: "default", minutes: 60, wantErr: false},
		{name: "maximum", minutes: 1440, wantErr: false},
		{name: "above maximum", minutes: 1441, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Options{SessionTimeoutMinutes: tt.minutes}.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestService_MissingFileUsesDefaults(t *testing.T) {
	svc := NewService(filepath.Join(t.TempDir(), "options.json"), newTestLogger())

	require.NoError(t, svc.Load())
	assert.Equal(t, DefaultSessionTimeoutMinutes, svc.Get().SessionTimeoutMinutes)
	assert.Equal(t, time.Duration(DefaultSessionTimeoutMinutes)*time.Minute, svc.SessionTimeout())
}

func TestService_LoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "options.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"sessionTimeoutMinutes": 15}`), 0o644))

	svc := NewService(path, newTestLogger())
	require.NoError(t, svc.Load())
	assert.Equal(t, 15, svc.Get().SessionTimeoutMinutes)
	assert.Equal(t, 15*time.Minute, svc.SessionTimeout())
}

func TestService_LoadRejectsBadFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "malformed json", content: `{"sessionTimeoutMinutes":`},
		{name: "out of range", content: `{"sessionTimeoutMinutes": 9999}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "options.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			svc := NewService(path, newTestLogger())
			assert.Error(t, svc.Load())
		})
	}
}

func TestService_UpdatePersistsAndApplies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "options.json")
	svc := NewService(path, newTestLogger())
	require.NoError(t, svc.Load())

	require.NoError(t, svc.Update(Options{SessionTimeoutMinutes: 5}))
	assert.Equal(t, 5*time.Minute, svc.SessionTimeout())

	// A fresh service sees the persisted value.
	reloaded := NewService(path, newTestLogger())
	require.NoError(t, reloaded.Load())
	assert.Equal(t, 5, reloaded.Get().SessionTimeoutMinutes)
}

func TestService_UpdateRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "options.json")
	svc := NewService(path, newTestLogger())
	require.NoError(t, svc.Load())

	err := svc.Update(Options{SessionTimeoutMinutes: 0})
	require.Error(t, err)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))

	// The rejected update leaves both memory and disk untouched.
	assert.Equal(t, DefaultSessionTimeoutMinutes, svc.Get().SessionTimeoutMinutes)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "invalid update must not write the file")
}
