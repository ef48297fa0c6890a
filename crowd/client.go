// Package crowd implements a minimal client for the Atlassian Crowd
// usermanagement REST API, covering SSO session handling and user lookup.
package crowd

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
	"time"

	"go.opentelemetry.io/otel"
)

var (
	// ErrInvalidCredentials is returned when Crowd rejects a username/password pair.
	ErrInvalidCredentials = errors.New("crowd: invalid credentials")
	// ErrSessionInvalid is returned when a session token is unknown, expired,
	// or the session's user cannot be resolved.
	ErrSessionInvalid = errors.New("crowd: session invalid")
)

const tracerName = "github.com/ruhmesmeile/hydra-crowdprovider/crowd"

// Config holds configuration for the Crowd client.
type Config struct {
	BaseURL string // e.g. "https://crowd.example.com/crowd"
	// Application credential used for HTTP basic auth on every call.
	Application string
	Password    string

	Timeout time.Duration
}

// Client is an HTTP client for the Crowd usermanagement API.
type Client struct {
	baseURL string
	app     string
	secret  string
	http    *http.Client
}

// NewClient creates a new Crowd client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("crowd: base URL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("crowd: invalid base URL: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		app:     cfg.Application,
		secret:  cfg.Password,
		http:    &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Session is an SSO session created from a username/password pair.
type Session struct {
	Token string `json:"token"`
}

// User is a directory user profile.
type User struct {
	Name        string `json:"name"`
	FirstName   string `json:"first-name"`
	LastName    string `json:"last-name"`
	DisplayName string `json:"display-name"`
	Email       string `json:"email"`
	Active      bool   `json:"active"`
}

type sessionResponse struct {
	Token string `json:"token"`
	User  struct {
		Name string `json:"name"`
	} `json:"user"`
}

type restError struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// CreateSession authenticates the given credentials against the directory and
// returns a new SSO session. Returns ErrInvalidCredentials if Crowd rejects
// the pair.
func (c *Client) CreateSession(ctx context.Context, username, password string) (*Session, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "crowd.CreateSession")
	defer span.End()

	body, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	var resp sessionResponse
	if err := c.do(ctx, http.MethodPost, "/rest/usermanagement/1/session", bytes.NewReader(body), &resp, ErrInvalidCredentials); err != nil {
		return nil, err
	}

	return &Session{Token: resp.Token}, nil
}

// GetUser resolves a session token to the user profile it belongs to. The
// token is validated against the directory on every call: first the session is
// looked up, then the user it names is fetched. Any failure along the way is
// reported as ErrSessionInvalid.
func (c *Client) GetUser(ctx context.Context, token string) (*User, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "crowd.GetUser")
	defer span.End()

	var sess sessionResponse
	if err := c.do(ctx, http.MethodGet, "/rest/usermanagement/1/session/"+url.PathEscape(token), nil, &sess, ErrSessionInvalid); err != nil {
		return nil, err
	}

	var user User
	path := "/rest/usermanagement/1/user?username=" + url.QueryEscape(sess.User.Name)
	if err := c.do(ctx, http.MethodGet, path, nil, &user, ErrSessionInvalid); err != nil {
		return nil, err
	}

	return &user, nil
}

// do performs a single API call. Client errors (4xx) map to notFoundErr so
// callers get a stable sentinel; everything else surfaces as a transport error.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out interface{}, notFoundErr error) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.app, c.secret)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("crowd: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		var apiErr restError
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Message != "" {
			return fmt.Errorf("%w: %s", notFoundErr, apiErr.Message)
		}
		return notFoundErr
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("crowd: %s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("crowd: decoding %s response: %w", path, err)
		}
	}

	return nil
}
