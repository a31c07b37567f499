package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/quizdeck/internal/client/models"
)

const (
	loginPath    = "/api/v1/auth/login"
	registerPath = "/api/v1/auth/register"
	mePath       = "/api/v1/auth/me"
	profilePath  = "/api/v1/auth/profile"
	healthPath   = "/health"
)

// envelope is the backend's uniform JSON response shape.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Errors  []FieldError    `json:"errors,omitempty"`
}

type userPayload struct {
	User *models.User `json:"user"`
}

type authPayload struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// HTTPClient implements Client over the backend's JSON API.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient constructs an HTTPClient for the given base URL. Every
// request is bounded by timeout so a hung backend resolves to a failure
// instead of blocking the caller indefinitely.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Verify(ctx context.Context, token string) (*models.User, error) {
	env, status, err := c.do(ctx, http.MethodGet, mePath, token, nil)
	if err != nil {
		return nil, err
	}
	if err := c.authStatusError(env, status); err != nil {
		return nil, err
	}

	var data userPayload
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, fmt.Errorf("malformed verify response: %w", err)
	}
	if data.User == nil {
		return nil, fmt.Errorf("malformed verify response: missing user")
	}
	return data.User, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	body := map[string]string{"email": email, "password": password}
	return c.authExchange(ctx, loginPath, body)
}

func (c *HTTPClient) Register(ctx context.Context, name, email, password string) (*models.User, string, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	return c.authExchange(ctx, registerPath, body)
}

// authExchange posts credentials and expects a user+token payload back.
// Rejections come back as *ValidationError so forms can render them inline.
func (c *HTTPClient) authExchange(ctx context.Context, path string, body any) (*models.User, string, error) {
	env, status, err := c.do(ctx, http.MethodPost, path, "", body)
	if err != nil {
		return nil, "", err
	}
	if status >= http.StatusInternalServerError {
		return nil, "", fmt.Errorf("%w: status %d", ErrUnavailable, status)
	}
	if status >= http.StatusBadRequest || !env.Success {
		return nil, "", &ValidationError{Message: env.Message, Fields: env.Errors}
	}

	var data authPayload
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, "", fmt.Errorf("malformed auth response: %w", err)
	}
	if data.User == nil || data.Token == "" {
		return nil, "", fmt.Errorf("malformed auth response: missing user or token")
	}
	return data.User, data.Token, nil
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, token, name, email string) (*models.User, error) {
	body := map[string]string{"name": name, "email": email}
	env, status, err := c.do(ctx, http.MethodPut, profilePath, token, body)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return nil, ErrUnauthorized
	}
	if status >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, status)
	}
	if status >= http.StatusBadRequest || !env.Success {
		return nil, &ValidationError{Message: env.Message, Fields: env.Errors}
	}

	var data userPayload
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, fmt.Errorf("malformed profile response: %w", err)
	}
	if data.User == nil {
		return nil, fmt.Errorf("malformed profile response: missing user")
	}
	return data.User, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+healthPath, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	return nil
}

// authStatusError maps verification statuses to sentinel errors: any 401/403
// is the expected invalid-credential outcome, 5xx means the backend cannot
// answer, and anything else non-2xx is reported as-is.
func (c *HTTPClient) authStatusError(env *envelope, status int) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrUnauthorized
	case status >= http.StatusInternalServerError:
		return fmt.Errorf("%w: status %d", ErrUnavailable, status)
	case status >= http.StatusBadRequest || !env.Success:
		return fmt.Errorf("unexpected response: status %d: %s", status, env.Message)
	}
	return nil
}

// do performs one JSON round-trip and decodes the response envelope.
// Transport-level failures are mapped to ErrUnavailable.
func (c *HTTPClient) do(ctx context.Context, method, path, token string, body any) (*envelope, int, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, 0, err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		// An error status with an unreadable body still maps through the
		// status handling; only a broken success body is fatal here.
		if resp.StatusCode < http.StatusBadRequest {
			return nil, resp.StatusCode, fmt.Errorf("malformed response body: %w", err)
		}
		env = envelope{}
	}
	return &env, resp.StatusCode, nil
}
