package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/ruhmesmeile/hydra-crowdprovider/crowd"
)

// Credentials is the login form submission.
type Credentials struct {
	Username string
	Password string
	Remember bool
}

// LoginResolver resolves login challenges to terminal decisions.
type LoginResolver struct {
	server    AuthorizationServer
	directory Directory
	sessions  *SessionCorrelator
}

// NewLoginResolver creates a new LoginResolver.
func NewLoginResolver(server AuthorizationServer, directory Directory, sessions *SessionCorrelator) *LoginResolver {
	return &LoginResolver{server: server, directory: directory, sessions: sessions}
}

// ResolveGet handles the browser arriving with a login challenge. The
// challenge is fetched fresh from the authorization server; a fetch failure is
// fatal for the request.
func (r *LoginResolver) ResolveGet(ctx context.Context, challenge, sessionToken string) (Decision, error) {
	lr, err := r.server.GetLoginRequest(ctx, challenge)
	if err != nil {
		return Decision{}, fmt.Errorf("fetching login request: %w", err)
	}

	// Hydra already authenticated the user in an earlier flow.
	if lr.Skip {
		return Skip(lr.Subject), nil
	}

	ev := r.sessions.Evaluate(ctx, sessionToken)
	if ev.State == SessionValid {
		// The GET path carries no remember form value.
		return Authenticate(ev.User, false), nil
	}

	return Prompt(), nil
}

// ResolvePost handles a submitted login form. On bad credentials the prompt is
// re-rendered with a message and the same challenge token; the challenge is
// not fetched again.
func (r *LoginResolver) ResolvePost(ctx context.Context, creds Credentials) (Decision, error) {
	sess, err := r.directory.CreateSession(ctx, creds.Username, creds.Password)
	if err != nil {
		if errors.Is(err, crowd.ErrInvalidCredentials) {
			return PromptWithError("The username / password combination is not correct"), nil
		}
		return Decision{}, fmt.Errorf("creating directory session: %w", err)
	}

	user, err := r.directory.GetUser(ctx, sess.Token)
	if err != nil {
		// A freshly created session failing to resolve is not recoverable.
		return Decision{}, fmt.Errorf("resolving new directory session: %w", err)
	}

	d := Authenticate(user, creds.Remember)
	d.SessionToken = sess.Token
	return d, nil
}
