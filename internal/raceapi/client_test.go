package raceapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != defaultBaseURL {
		t.Fatalf("base = %q, want %q", u.String(), defaultBaseURL)
	}

	u, err = parseBaseURL("races.example.com:9000")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" || u.Host != "races.example.com:9000" {
		t.Fatalf("url = %q, want http scheme with host preserved", u.String())
	}

	u, err = parseBaseURL("https://example.com/base?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func TestClient_FetchesEndpointsAndEncodesBodies(t *testing.T) {
	t.Parallel()

	var gotCreateBody map[string]any
	var gotUpdateBody map[string]any
	var gotDeletePath string
	var gotRequestID string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.URL.Path == "/api/cycling":
			_ = json.NewEncoder(w).Encode([]Race{{ID: 1, Name: "Gran Fondo Norte"}, {ID: 2, Name: "Ultra Sur"}})
		case r.URL.Path == "/api/cycling/2":
			_ = json.NewEncoder(w).Encode(Race{ID: 2, Name: "Ultra Sur", Status: StatusFinished,
				Participants: []Participation{{ID: 9, Dorsal: 12, Time: "01:02:03"}}})
		case r.URL.Path == "/api/cycling_participant/new" && r.Method == http.MethodPost:
			_ = json.NewDecoder(r.Body).Decode(&gotCreateBody)
			w.WriteHeader(http.StatusCreated)
		case strings.HasPrefix(r.URL.Path, "/api/cycling_participant/") && r.Method == http.MethodDelete:
			gotDeletePath = r.URL.Path
		case r.URL.Path == "/api/user/7" && r.Method == http.MethodGet:
			_ = json.NewEncoder(w).Encode(User{ID: 7, Name: "Ana", Gender: "f"})
		case r.URL.Path == "/api/user/7/edit" && r.Method == http.MethodPut:
			_ = json.NewDecoder(r.Body).Decode(&gotUpdateBody)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	races, err := c.ListRaces(ctx)
	if err != nil {
		t.Fatalf("ListRaces returned error: %v", err)
	}
	if len(races) != 2 || races[0].ID != 1 {
		t.Fatalf("ListRaces = %#v, want 2 races", races)
	}
	if gotRequestID == "" {
		t.Fatal("X-Request-ID header not set")
	}

	race, err := c.GetRace(ctx, 2)
	if err != nil {
		t.Fatalf("GetRace returned error: %v", err)
	}
	if race.Name != "Ultra Sur" || len(race.Participants) != 1 {
		t.Fatalf("GetRace = %#v, want Ultra Sur with 1 participant", race)
	}

	if err := c.CreateParticipation(ctx, 7, 2); err != nil {
		t.Fatalf("CreateParticipation returned error: %v", err)
	}
	if gotCreateBody["user"] != float64(7) || gotCreateBody["cycling"] != float64(2) {
		t.Fatalf("create body = %v, want user=7 cycling=2", gotCreateBody)
	}

	if err := c.DeleteParticipation(ctx, 9); err != nil {
		t.Fatalf("DeleteParticipation returned error: %v", err)
	}
	if gotDeletePath != "/api/cycling_participant/9" {
		t.Fatalf("delete path = %q, want /api/cycling_participant/9", gotDeletePath)
	}

	user, err := c.GetUser(ctx, 7)
	if err != nil {
		t.Fatalf("GetUser returned error: %v", err)
	}
	if user.Name != "Ana" {
		t.Fatalf("GetUser = %#v, want Ana", user)
	}

	if err := c.UpdateUser(ctx, 7, UserUpdate{Name: "Ana M"}); err != nil {
		t.Fatalf("UpdateUser returned error: %v", err)
	}
	if gotUpdateBody["name"] != "Ana M" {
		t.Fatalf("update body = %v, want name=Ana M", gotUpdateBody)
	}
	if _, ok := gotUpdateBody["oldpassword"]; ok {
		t.Fatalf("update body = %v, empty password fields should be omitted", gotUpdateBody)
	}
}

func TestClient_Login(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		var creds Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		w.Header().Set("Content-Type", "application/json")
		if creds.Password != "s3cret" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Email o contraseña incorrectos"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"user": User{ID: 7, Email: creds.Email, Gender: "f"}})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	user, err := c.Login(context.Background(), Credentials{Email: "ana@example.com", Password: "s3cret"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if user.ID != 7 || user.Email != "ana@example.com" {
		t.Fatalf("Login user = %#v, want id=7", user)
	}

	_, err = c.Login(context.Background(), Credentials{Email: "ana@example.com", Password: "wrong"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Login error = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusUnauthorized || !strings.Contains(apiErr.Message, "incorrectos") {
		t.Fatalf("APIError = %#v, want 401 with backend message", apiErr)
	}
}

func TestClient_ErrorBodiesAndDecodeErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/cycling":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("{not-json"))
		case "/api/cycling_participant/new":
			w.WriteHeader(http.StatusConflict)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "ya inscrito"})
		case "/api/user/1":
			http.Error(w, "nope", http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = c.ListRaces(context.Background())
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("ListRaces error = %v, want decode response error", err)
	}

	err = c.CreateParticipation(context.Background(), 1, 1)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("CreateParticipation error = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusConflict || apiErr.Message != "ya inscrito" {
		t.Fatalf("APIError = %#v, want 409 with message", apiErr)
	}

	_, err = c.GetUser(context.Background(), 1)
	if !errors.As(err, &apiErr) {
		t.Fatalf("GetUser error = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusInternalServerError || apiErr.Message != "" {
		t.Fatalf("APIError = %#v, want bare 500", apiErr)
	}
}
