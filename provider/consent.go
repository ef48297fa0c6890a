package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/ruhmesmeile/hydra-crowdprovider/hydra"
)

// ErrConsentWithoutSession is returned when a consent form is submitted by a
// browser that holds no valid session. The consent UI is only reachable with
// one, so this state indicates a cleared or expired cookie mid-flow. The
// request is closed with the generic error page instead of being left pending.
var ErrConsentWithoutSession = errors.New("provider: consent submitted without a valid session")

// DenySubmitValue is the form value of the consent screen's deny button.
const DenySubmitValue = "Deny access"

// ConsentSubmission is the consent form submission.
type ConsentSubmission struct {
	Challenge  string
	Submit     string
	GrantScope []string
	Remember   bool
}

// ConsentResolver resolves consent challenges to terminal decisions.
type ConsentResolver struct {
	server   AuthorizationServer
	sessions *SessionCorrelator
}

// NewConsentResolver creates a new ConsentResolver.
func NewConsentResolver(server AuthorizationServer, sessions *SessionCorrelator) *ConsentResolver {
	return &ConsentResolver{server: server, sessions: sessions}
}

// ResolveGet handles the browser arriving with a consent challenge. The
// fetched challenge is returned alongside the decision so the caller can
// render the requested scopes, subject and client on the prompt.
//
// When a valid session exists the full requested scope is granted without a
// narrowing prompt: the authorization server has already filtered the request
// down to the scopes the client is registered for.
func (r *ConsentResolver) ResolveGet(ctx context.Context, challenge, sessionToken string) (Decision, *hydra.ConsentRequest, error) {
	cr, err := r.server.GetConsentRequest(ctx, challenge)
	if err != nil {
		return Decision{}, nil, fmt.Errorf("fetching consent request: %w", err)
	}
	ev := r.sessions.Evaluate(ctx, sessionToken)
	if ev.State == SessionValid {
		d := Authenticate(ev.User, false)
		d.GrantScope = cr.RequestedScope
		d.GrantAudience = cr.RequestedAudience
		// Re-set the cookie with the same value to extend its client-side
		// lifetime.
		d.SessionToken = ev.Token
		return d, cr, nil
	}

	if cr.Skip {
		d := Skip(cr.Subject)
		d.GrantScope = cr.RequestedScope
		d.GrantAudience = cr.RequestedAudience
		return d, cr, nil
	}

	return Prompt(), cr, nil
}

// ResolvePost handles a submitted consent form. Deny short-circuits before any
// session or challenge handling. The grant path re-fetches the challenge so
// the requested audience can be echoed verbatim.
func (r *ConsentResolver) ResolvePost(ctx context.Context, form ConsentSubmission, sessionToken string) (Decision, error) {
	if form.Submit == DenySubmitValue {
		return Deny("access_denied", "The resource owner denied the request"), nil
	}

	cr, err := r.server.GetConsentRequest(ctx, form.Challenge)
	if err != nil {
		return Decision{}, fmt.Errorf("fetching consent request: %w", err)
	}

	ev := r.sessions.Evaluate(ctx, sessionToken)
	if ev.State != SessionValid {
		return Decision{}, ErrConsentWithoutSession
	}

	d := Authenticate(ev.User, form.Remember)
	d.GrantScope = NormalizeScope(form.GrantScope)
	d.GrantAudience = cr.RequestedAudience
	return d, nil
}

// NormalizeScope guarantees granted scopes are a non-nil list. A single
// checked scope arrives as a one-value form field and must still become a
// one-element list on the wire.
func NormalizeScope(scope []string) []string {
	if scope == nil {
		return []string{}
	}
	return scope
}
