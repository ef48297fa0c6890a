// Package hydra implements a client for the admin API of an ORY-Hydra-style
// OAuth2 authorization server: fetching login/consent challenges and
// resolving them with accept/reject calls.
package hydra

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
	// ErrChallengeNotFound is returned when an unknown challenge is used.
	ErrChallengeNotFound = errors.New("hydra: challenge not found")
	// ErrChallengeExpired is returned when a challenge was already used.
	ErrChallengeExpired = errors.New("hydra: challenge expired")
)

const tracerName = "github.com/ruhmesmeile/hydra-crowdprovider/hydra"

// Config holds configuration for the Hydra admin client.
type Config struct {
	// AdminURL is the base URL of the Hydra admin API, e.g. "http://hydra:4445".
	AdminURL string
	Timeout  time.Duration
}

// Client talks to the Hydra admin API.
type Client struct {
	adminURL string
	http     *http.Client
}

// NewClient creates a new Hydra admin client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.AdminURL == "" {
		return nil, fmt.Errorf("hydra: admin URL is required")
	}
	if _, err := url.Parse(cfg.AdminURL); err != nil {
		return nil, fmt.Errorf("hydra: invalid admin URL: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &Client{
		adminURL: strings.TrimRight(cfg.AdminURL, "/"),
		http:     &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// GetLoginRequest fetches the details of a login challenge.
func (c *Client) GetLoginRequest(ctx context.Context, challenge string) (*LoginRequest, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "hydra.GetLoginRequest")
	defer span.End()

	var out LoginRequest
	if err := c.do(ctx, http.MethodGet, "login", "login_challenge", challenge, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetConsentRequest fetches the details of a consent challenge.
func (c *Client) GetConsentRequest(ctx context.Context, challenge string) (*ConsentRequest, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "hydra.GetConsentRequest")
	defer span.End()

	var out ConsentRequest
	if err := c.do(ctx, http.MethodGet, "consent", "consent_challenge", challenge, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AcceptLoginRequest completes a login challenge positively.
func (c *Client) AcceptLoginRequest(ctx context.Context, challenge string, body *AcceptLoginRequest) (*CompletedRequest, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "hydra.AcceptLoginRequest")
	defer span.End()

	var out CompletedRequest
	if err := c.do(ctx, http.MethodPut, "login/accept", "login_challenge", challenge, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AcceptConsentRequest completes a consent challenge positively.
func (c *Client) AcceptConsentRequest(ctx context.Context, challenge string, body *AcceptConsentRequest) (*CompletedRequest, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "hydra.AcceptConsentRequest")
	defer span.End()

	var out CompletedRequest
	if err := c.do(ctx, http.MethodPut, "consent/accept", "consent_challenge", challenge, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RejectConsentRequest completes a consent challenge negatively.
func (c *Client) RejectConsentRequest(ctx context.Context, challenge string, body *RejectRequest) (*CompletedRequest, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "hydra.RejectConsentRequest")
	defer span.End()

	var out CompletedRequest
	if err := c.do(ctx, http.MethodPut, "consent/reject", "consent_challenge", challenge, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path, challengeParam, challenge string, body, out interface{}) error {
	endpoint := fmt.Sprintf("%s/oauth2/auth/requests/%s?%s=%s",
		c.adminURL, path, challengeParam, url.QueryEscape(challenge))

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("hydra: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrChallengeNotFound
	case resp.StatusCode == http.StatusGone || resp.StatusCode == http.StatusConflict:
		return ErrChallengeExpired
	case resp.StatusCode >= 300:
		return fmt.Errorf("hydra: %s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("hydra: decoding %s response: %w", path, err)
		}
	}

	return nil
}
