package account

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/pcornet/peloton/internal/raceapi"
	"github.com/pcornet/peloton/internal/session"
)

type fakeAuth struct {
	loginErr   error
	updateErr  error
	lastUpdate raceapi.UserUpdate
	user       raceapi.User
}

func (f *fakeAuth) Login(ctx context.Context, creds raceapi.Credentials) (*raceapi.User, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	u := f.user
	u.Email = creds.Email
	return &u, nil
}

func (f *fakeAuth) UpdateUser(ctx context.Context, id int64, update raceapi.UserUpdate) error {
	f.lastUpdate = update
	return f.updateErr
}

func TestLogin_PersistsSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.toml")
	auth := &fakeAuth{user: raceapi.User{ID: 7, Name: "Ana", Gender: "f"}}
	m := NewManager(auth, path)

	if m.Authenticated() {
		t.Fatal("Authenticated = true before login")
	}

	user, err := m.Login(context.Background(), " ana@example.com ", "s3cret")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if user.Email != "ana@example.com" {
		t.Fatalf("email = %q, want trimmed input", user.Email)
	}
	if !m.Authenticated() {
		t.Fatal("Authenticated = false after login")
	}

	// A fresh manager restores the session from disk.
	restored := NewManager(auth, path)
	current, ok := restored.Current()
	if !ok || current.ID != 7 {
		t.Fatalf("restored user = %#v ok=%v, want persisted snapshot", current, ok)
	}
}

func TestLogin_FailureLeavesSignedOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.toml")
	auth := &fakeAuth{loginErr: errors.New("bad credentials")}
	m := NewManager(auth, path)

	if _, err := m.Login(context.Background(), "ana@example.com", "wrong"); err == nil {
		t.Fatal("Login returned nil error, want failure")
	}
	if m.Authenticated() {
		t.Fatal("Authenticated = true after failed login")
	}
	if _, ok := session.Load(path); ok {
		t.Fatal("failed login must not persist a session")
	}
}

func TestLogout_ClearsSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.toml")
	auth := &fakeAuth{user: raceapi.User{ID: 7}}
	m := NewManager(auth, path)

	if _, err := m.Login(context.Background(), "ana@example.com", "s3cret"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if err := m.Logout(); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if m.Authenticated() {
		t.Fatal("Authenticated = true after logout")
	}
	if _, ok := session.Load(path); ok {
		t.Fatal("session file must be gone after logout")
	}
}

func TestUpdateName_RefreshesSnapshotAndSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.toml")
	auth := &fakeAuth{user: raceapi.User{ID: 7, Name: "Ana"}}
	m := NewManager(auth, path)
	if _, err := m.Login(context.Background(), "ana@example.com", "s3cret"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	if err := m.UpdateName(context.Background(), "Ana María"); err != nil {
		t.Fatalf("UpdateName returned error: %v", err)
	}
	if auth.lastUpdate.Name != "Ana María" {
		t.Fatalf("update body = %#v, want name only", auth.lastUpdate)
	}
	current, _ := m.Current()
	if current.Name != "Ana María" {
		t.Fatalf("current name = %q, want updated", current.Name)
	}
	sess, ok := session.Load(path)
	if !ok || sess.User.Name != "Ana María" {
		t.Fatalf("persisted name = %q ok=%v, want updated snapshot", sess.User.Name, ok)
	}
}

func TestUpdatePassword(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.toml")
	auth := &fakeAuth{user: raceapi.User{ID: 7}}
	m := NewManager(auth, path)
	if _, err := m.Login(context.Background(), "ana@example.com", "s3cret"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	if err := m.UpdatePassword(context.Background(), "s3cret", "n3w"); err != nil {
		t.Fatalf("UpdatePassword returned error: %v", err)
	}
	if auth.lastUpdate.OldPassword != "s3cret" || auth.lastUpdate.NewPassword != "n3w" {
		t.Fatalf("update body = %#v, want password fields", auth.lastUpdate)
	}

	if err := m.UpdatePassword(context.Background(), "x", "  "); err == nil {
		t.Fatal("UpdatePassword accepted empty new password")
	}
}

func TestUpdates_RequireSignIn(t *testing.T) {
	m := NewManager(&fakeAuth{}, filepath.Join(t.TempDir(), "session.toml"))
	if err := m.UpdateName(context.Background(), "X"); err == nil {
		t.Fatal("UpdateName without sign-in returned nil error")
	}
	if err := m.UpdatePassword(context.Background(), "a", "b"); err == nil {
		t.Fatal("UpdatePassword without sign-in returned nil error")
	}
}
