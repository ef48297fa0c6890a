package provider

import "github.com/ruhmesmeile/hydra-crowdprovider/crowd"

// DecisionKind enumerates the terminal outcomes a resolver can reach.
type DecisionKind int

const (
	// DecisionSkip accepts the challenge without attaching identity claims;
	// the authorization server already trusts the flow.
	DecisionSkip DecisionKind = iota
	// DecisionAuthenticate accepts the challenge with the resolved user's
	// identity attached.
	DecisionAuthenticate
	// DecisionDeny rejects the challenge with an OAuth2 error code.
	DecisionDeny
	// DecisionPrompt means no decision is possible yet; the interactive form
	// must be rendered.
	DecisionPrompt
)

// Decision is the terminal output of a login or consent resolver. It is
// constructed and consumed within a single request and never stored.
type Decision struct {
	Kind DecisionKind

	// Subject of a skip-accepted login, taken verbatim from the challenge.
	Subject string

	// User and Remember apply to DecisionAuthenticate.
	User     *crowd.User
	Remember bool

	// GrantScope and GrantAudience apply to consent decisions. GrantAudience
	// is always echoed from the fetched challenge, never derived locally.
	GrantScope    []string
	GrantAudience []string

	// SessionToken, when non-empty, instructs the translator to set the
	// session cookie to this value on the response.
	SessionToken string

	// ErrorCode and ErrorDescription apply to DecisionDeny.
	ErrorCode        string
	ErrorDescription string

	// PromptError is an optional message shown on a re-rendered prompt.
	PromptError string
}

// Skip builds a skip-accept decision.
func Skip(subject string) Decision {
	return Decision{Kind: DecisionSkip, Subject: subject}
}

// Authenticate builds an accept decision carrying the resolved profile.
func Authenticate(user *crowd.User, remember bool) Decision {
	return Decision{Kind: DecisionAuthenticate, User: user, Remember: remember}
}

// Deny builds a reject decision.
func Deny(code, description string) Decision {
	return Decision{Kind: DecisionDeny, ErrorCode: code, ErrorDescription: description}
}

// Prompt builds a render-the-form decision.
func Prompt() Decision {
	return Decision{Kind: DecisionPrompt}
}

// PromptWithError builds a render-the-form decision carrying an error message.
func PromptWithError(msg string) Decision {
	return Decision{Kind: DecisionPrompt, PromptError: msg}
}
