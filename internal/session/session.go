// Package session persists the signed-in user snapshot between runs.
// The snapshot lives in ~/.config/peloton/session.toml and plays the role
// the web frontend gives localStorage: authentication state is re-derived
// from its presence at startup.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/pcornet/peloton/internal/raceapi"
)

// Session is the persisted user snapshot.
type Session struct {
	User    raceapi.User `toml:"user"`
	SavedAt time.Time    `toml:"saved_at"`
}

const defaultSessionPath = "~/.config/peloton/session.toml"

// DefaultPath returns the default session file path.
func DefaultPath() string {
	return defaultSessionPath
}

// Load reads the session from the given path. The second return value is
// false when no usable session exists; a missing or corrupt file is not an
// error, it just means signed out.
func Load(path string) (Session, bool) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Session{}, false
	}

	bytes, err := os.ReadFile(resolved)
	if err != nil {
		return Session{}, false
	}

	var sess Session
	if err := toml.Unmarshal(bytes, &sess); err != nil {
		return Session{}, false
	}
	if sess.User.ID == 0 {
		return Session{}, false
	}
	return sess, true
}

// Save writes the session, creating directories as needed.
func Save(path string, sess Session) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if sess.SavedAt.IsZero() {
		sess.SavedAt = time.Now()
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	bytes, err := toml.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	// The snapshot may carry a token; keep the file private.
	if err := os.WriteFile(resolved, bytes, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Clear removes the session file. Missing files are fine.
func Clear(path string) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if err := os.Remove(resolved); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultSessionPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
