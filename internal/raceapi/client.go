package raceapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Service defines the operations the race API exposes. It is implemented
// by *Client and faked in tests.
type Service interface {
	ListRaces(ctx context.Context) ([]Race, error)
	GetRace(ctx context.Context, id int64) (*Race, error)
	CreateParticipation(ctx context.Context, userID, raceID int64) error
	DeleteParticipation(ctx context.Context, participationID int64) error
	GetUser(ctx context.Context, id int64) (*User, error)
	Login(ctx context.Context, creds Credentials) (*User, error)
	UpdateUser(ctx context.Context, id int64, update UserUpdate) error
}

// Ensure Client implements Service at compile time.
var _ Service = (*Client)(nil)

// Client talks to the race registration HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	limiter   *rate.Limiter
}

const (
	defaultBaseURL   = "http://127.0.0.1:8000"
	defaultUserAgent = "peloton/0.1"
	requestTimeout   = 10 * time.Second

	// The backend is shared with the web frontend; keep bursts polite.
	requestsPerSecond = 8
	requestBurst      = 4
)

// APIError is a non-2xx response, carrying the backend's message when the
// body had one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Message) != "" {
		return fmt.Sprintf("api returned status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api returned status %d", e.Status)
}

// NewClient builds a Client for the given base URL.
func NewClient(baseURL string) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		limiter:   rate.NewLimiter(rate.Limit(requestsPerSecond), requestBurst),
	}, nil
}

// ListRaces retrieves the full ordered race list. Pagination is client-side.
func (c *Client) ListRaces(ctx context.Context) ([]Race, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []Race
	if err := c.do(ctx, http.MethodGet, "/api/cycling", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// GetRace retrieves one race with its nested participation list.
func (c *Client) GetRace(ctx context.Context, id int64) (*Race, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload Race
	if err := c.do(ctx, http.MethodGet, "/api/cycling/"+strconv.FormatInt(id, 10), nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// CreateParticipation registers userID for raceID.
func (c *Client) CreateParticipation(ctx context.Context, userID, raceID int64) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	body := struct {
		User    int64 `json:"user"`
		Cycling int64 `json:"cycling"`
	}{User: userID, Cycling: raceID}
	return c.do(ctx, http.MethodPost, "/api/cycling_participant/new", body, nil)
}

// DeleteParticipation cancels a participation by its own id.
func (c *Client) DeleteParticipation(ctx context.Context, participationID int64) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.do(ctx, http.MethodDelete, "/api/cycling_participant/"+strconv.FormatInt(participationID, 10), nil, nil)
}

// GetUser retrieves a user with their participations.
func (c *Client) GetUser(ctx context.Context, id int64) (*User, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload User
	if err := c.do(ctx, http.MethodGet, "/api/user/"+strconv.FormatInt(id, 10), nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Credentials are the login form fields.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates against /api/auth/login and returns the user snapshot.
func (c *Client) Login(ctx context.Context, creds Credentials) (*User, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload struct {
		User    *User  `json:"user"`
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", creds, &payload); err != nil {
		return nil, err
	}
	if payload.User == nil {
		msg := payload.Message
		if strings.TrimSpace(msg) == "" {
			msg = "login rejected"
		}
		return nil, &APIError{Status: http.StatusOK, Message: msg}
	}
	return payload.User, nil
}

// UserUpdate carries the editable profile fields. Zero-valued fields are
// omitted from the request body.
type UserUpdate struct {
	Name        string `json:"name,omitempty"`
	OldPassword string `json:"oldpassword,omitempty"`
	NewPassword string `json:"newpassword,omitempty"`
}

// UpdateUser edits a user's profile or password.
func (c *Client) UpdateUser(ctx context.Context, id int64, update UserUpdate) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.do(ctx, http.MethodPut, "/api/user/"+strconv.FormatInt(id, 10)+"/edit", update, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("throttle request: %w", err)
	}

	reqURL := c.baseURL.ResolveReference(&url.URL{Path: path})

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return &APIError{Status: resp.StatusCode, Message: decodeMessage(resp)}
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeMessage pulls the backend's {"message": ...} out of an error body.
// Bodies that aren't JSON, or don't carry a message, yield "".
func decodeMessage(resp *http.Response) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.Message)
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", raw, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
