package provider

import (
	"context"
	"fmt"

	"github.com/ruhmesmeile/hydra-crowdprovider/hydra"
)

// Policy holds the fixed policy values attached to accepted challenges.
type Policy struct {
	// RememberForSec is how long Hydra remembers an accepted login/consent,
	// in seconds. Zero means "never expires" and must be chosen deliberately.
	RememberForSec int
	// Locale and Zoneinfo are attached to every issued ID token.
	Locale   string
	Zoneinfo string
}

// Outcome is what the HTTP layer must do after a decision was translated:
// either redirect the browser or render the interactive form, optionally
// mutating the session cookie.
type Outcome struct {
	// RedirectTo, when non-empty, is the continuation URL returned by the
	// authorization server. It must be used verbatim.
	RedirectTo string

	// RenderPrompt indicates the interactive form must be rendered.
	RenderPrompt bool
	PromptError  string

	// SetCookieToken, when non-empty, is the session token to (re-)set on the
	// response cookie.
	SetCookieToken string
}

// Translator maps resolver decisions to the exact accept/reject calls the
// authorization server expects. At most one such call is made per request.
type Translator struct {
	server AuthorizationServer
	policy Policy
}

// NewTranslator creates a new Translator.
func NewTranslator(server AuthorizationServer, policy Policy) *Translator {
	return &Translator{server: server, policy: policy}
}

// CompleteLogin turns a login decision into its accept call or render
// directive. Login challenges are never rejected here; bad credentials
// re-render the prompt instead.
func (t *Translator) CompleteLogin(ctx context.Context, challenge string, d Decision) (*Outcome, error) {
	switch d.Kind {
	case DecisionSkip:
		completed, err := t.server.AcceptLoginRequest(ctx, challenge, &hydra.AcceptLoginRequest{
			Subject:     d.Subject,
			RememberFor: t.policy.RememberForSec,
		})
		if err != nil {
			return nil, fmt.Errorf("accepting login request: %w", err)
		}
		return &Outcome{RedirectTo: completed.RedirectTo}, nil

	case DecisionAuthenticate:
		completed, err := t.server.AcceptLoginRequest(ctx, challenge, &hydra.AcceptLoginRequest{
			Subject:     d.User.Name,
			Remember:    d.Remember,
			RememberFor: t.policy.RememberForSec,
		})
		if err != nil {
			return nil, fmt.Errorf("accepting login request: %w", err)
		}
		return &Outcome{RedirectTo: completed.RedirectTo, SetCookieToken: d.SessionToken}, nil

	case DecisionPrompt:
		return &Outcome{RenderPrompt: true, PromptError: d.PromptError}, nil

	default:
		return nil, fmt.Errorf("login decision kind %d cannot be translated", d.Kind)
	}
}

// CompleteConsent turns a consent decision into its accept/reject call or
// render directive.
func (t *Translator) CompleteConsent(ctx context.Context, challenge string, d Decision) (*Outcome, error) {
	switch d.Kind {
	case DecisionSkip:
		completed, err := t.server.AcceptConsentRequest(ctx, challenge, &hydra.AcceptConsentRequest{
			GrantScope:               d.GrantScope,
			GrantAccessTokenAudience: d.GrantAudience,
			// No established identity context, so no claims are attached.
			Session: &hydra.ConsentSession{},
		})
		if err != nil {
			return nil, fmt.Errorf("accepting consent request: %w", err)
		}
		return &Outcome{RedirectTo: completed.RedirectTo}, nil

	case DecisionAuthenticate:
		completed, err := t.server.AcceptConsentRequest(ctx, challenge, &hydra.AcceptConsentRequest{
			GrantScope:               d.GrantScope,
			GrantAccessTokenAudience: d.GrantAudience,
			Session:                  &hydra.ConsentSession{IDToken: t.idTokenClaims(d)},
			Remember:                 d.Remember,
			RememberFor:              t.policy.RememberForSec,
		})
		if err != nil {
			return nil, fmt.Errorf("accepting consent request: %w", err)
		}
		return &Outcome{RedirectTo: completed.RedirectTo, SetCookieToken: d.SessionToken}, nil

	case DecisionDeny:
		completed, err := t.server.RejectConsentRequest(ctx, challenge, &hydra.RejectRequest{
			Error:            d.ErrorCode,
			ErrorDescription: d.ErrorDescription,
		})
		if err != nil {
			return nil, fmt.Errorf("rejecting consent request: %w", err)
		}
		return &Outcome{RedirectTo: completed.RedirectTo}, nil

	case DecisionPrompt:
		return &Outcome{RenderPrompt: true, PromptError: d.PromptError}, nil

	default:
		return nil, fmt.Errorf("consent decision kind %d cannot be translated", d.Kind)
	}
}

// idTokenClaims maps the resolved profile onto standard OIDC claims. The
// directory is the verified identity source, so email_verified is always true.
func (t *Translator) idTokenClaims(d Decision) map[string]interface{} {
	return map[string]interface{}{
		"sub":                d.User.Name,
		"name":               d.User.DisplayName,
		"email":              d.User.Email,
		"given_name":         d.User.FirstName,
		"family_name":        d.User.LastName,
		"preferred_username": d.User.Name,
		"email_verified":     true,
		"zoneinfo":           t.policy.Zoneinfo,
		"locale":             t.policy.Locale,
	}
}
