// Package account wraps the external auth service's login/logout contract
// and keeps the signed-in user snapshot in sync with the session file.
package account

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/pcornet/peloton/internal/raceapi"
	"github.com/pcornet/peloton/internal/session"
)

// Authenticator is the slice of the race API the manager depends on.
type Authenticator interface {
	Login(ctx context.Context, creds raceapi.Credentials) (*raceapi.User, error)
	UpdateUser(ctx context.Context, id int64, update raceapi.UserUpdate) error
}

// Manager owns authentication state for one run of the client.
type Manager struct {
	mu          sync.Mutex
	client      Authenticator
	sessionPath string
	user        *raceapi.User
}

// NewManager restores any persisted session from sessionPath.
func NewManager(client Authenticator, sessionPath string) *Manager {
	m := &Manager{client: client, sessionPath: sessionPath}
	if sess, ok := session.Load(sessionPath); ok {
		user := sess.User
		m.user = &user
	}
	return m
}

// Current returns the signed-in user snapshot, if any.
func (m *Manager) Current() (raceapi.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return raceapi.User{}, false
	}
	return *m.user, true
}

// Authenticated reports whether a user is signed in.
func (m *Manager) Authenticated() bool {
	_, ok := m.Current()
	return ok
}

// Login authenticates and persists the returned user snapshot.
func (m *Manager) Login(ctx context.Context, email, password string) (raceapi.User, error) {
	user, err := m.client.Login(ctx, raceapi.Credentials{Email: strings.TrimSpace(email), Password: password})
	if err != nil {
		return raceapi.User{}, fmt.Errorf("login: %w", err)
	}

	m.mu.Lock()
	m.user = user
	m.mu.Unlock()

	// The login itself succeeded; a session-write failure only costs
	// persistence across restarts.
	_ = session.Save(m.sessionPath, session.Session{User: *user})
	return *user, nil
}

// Logout forgets the user and removes the persisted session.
func (m *Manager) Logout() error {
	m.mu.Lock()
	m.user = nil
	m.mu.Unlock()
	return session.Clear(m.sessionPath)
}

// UpdateName renames the user's profile and refreshes the persisted
// snapshot. Email is immutable.
func (m *Manager) UpdateName(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name is empty")
	}

	m.mu.Lock()
	if m.user == nil {
		m.mu.Unlock()
		return fmt.Errorf("not signed in")
	}
	id := m.user.ID
	m.mu.Unlock()

	if err := m.client.UpdateUser(ctx, id, raceapi.UserUpdate{Name: name}); err != nil {
		return fmt.Errorf("update name: %w", err)
	}

	m.mu.Lock()
	if m.user != nil {
		m.user.Name = name
	}
	updated := m.user
	m.mu.Unlock()

	if updated != nil {
		_ = session.Save(m.sessionPath, session.Session{User: *updated})
	}
	return nil
}

// UpdatePassword changes the user's password. The snapshot is unaffected.
func (m *Manager) UpdatePassword(ctx context.Context, oldPassword, newPassword string) error {
	if strings.TrimSpace(newPassword) == "" {
		return fmt.Errorf("new password is empty")
	}

	m.mu.Lock()
	if m.user == nil {
		m.mu.Unlock()
		return fmt.Errorf("not signed in")
	}
	id := m.user.ID
	m.mu.Unlock()

	if err := m.client.UpdateUser(ctx, id, raceapi.UserUpdate{OldPassword: oldPassword, NewPassword: newPassword}); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
