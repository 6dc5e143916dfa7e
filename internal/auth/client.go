// Package auth talks to the remote authentication service that issues
// dashboard sessions.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/andreasstove999/logistics-tracker/internal/middleware"
)

var (
	// ErrAuthFailure covers every way a login can fail remotely. No partial
	// session is ever returned with it.
	ErrAuthFailure = errors.New("authentication failed")
	// ErrInvalidCredentials is returned before any network call for an
	// empty email or password.
	ErrInvalidCredentials = errors.New("email and password are required")
)

const (
	loginPath  = "/auth/login"
	healthPath = "/health"
)

type Role string

const (
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
	RoleAgent   Role = "agent"
)

func (r Role) Valid() bool {
	switch r {
	case RoleManager, RoleStaff, RoleAgent:
		return true
	default:
		return false
	}
}

type User struct {
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

type LoginResponse struct {
	User  User   `json:"user"`
	Token string `json:"token,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Client struct {
	Name    string
	BaseURL *url.URL
	HTTP    *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	u, err := url.Parse(baseURL)
	if err != nil {
		// Fail fast: config error
		panic(fmt.Sprintf("invalid auth base url %q: %v", baseURL, err))
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{Name: "auth-service", BaseURL: u, HTTP: httpClient}
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return LoginResponse{}, ErrInvalidCredentials
	}

	body, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		return LoginResponse{}, fmt.Errorf("marshal login request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, loginPath, bytes.NewReader(body))
	if err != nil {
		return LoginResponse{}, fmt.Errorf("%w: %w", ErrAuthFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return LoginResponse{}, fmt.Errorf("%w: auth service returned %d", ErrAuthFailure, resp.StatusCode)
	}

	var out LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return LoginResponse{}, fmt.Errorf("%w: decode response: %w", ErrAuthFailure, err)
	}
	if out.User.Email == "" || !out.User.Role.Valid() {
		return LoginResponse{}, fmt.Errorf("%w: unexpected user %q with role %q", ErrAuthFailure, out.User.Email, out.User.Role)
	}
	return out, nil
}

// Health probes the auth service health endpoint and reports the status code.
func (c *Client) Health(ctx context.Context) (int, error) {
	resp, err := c.do(ctx, http.MethodGet, healthPath, nil)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	u := c.BaseURL.JoinPath(path)

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// Ensure correlation id propagated downstream
	if cid := middleware.GetCorrelationID(ctx); cid != "" {
		req.Header.Set(middleware.HeaderCorrelationID, cid)
	}

	return c.HTTP.Do(req)
}
