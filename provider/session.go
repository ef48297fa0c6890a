package provider

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/ruhmesmeile/hydra-crowdprovider/crowd"
)

// SessionState classifies the browser's session evidence.
type SessionState int

const (
	// SessionAbsent means no session cookie was presented.
	SessionAbsent SessionState = iota
	// SessionInvalid means a cookie was presented but the directory rejected
	// the token. The cookie is left in place; re-authentication replaces it.
	SessionInvalid
	// SessionValid means the token resolved to a user profile.
	SessionValid
)

// SessionEvidence is the evaluated authentication state of a request. A
// syntactically present cookie never implies a valid session: the token is
// revalidated against the directory on every request.
type SessionEvidence struct {
	State SessionState
	Token string
	User  *crowd.User
}

// SessionCorrelator resolves browser session tokens to directory user
// profiles. It holds no state of its own.
type SessionCorrelator struct {
	directory Directory
}

// NewSessionCorrelator creates a new SessionCorrelator.
func NewSessionCorrelator(directory Directory) *SessionCorrelator {
	return &SessionCorrelator{directory: directory}
}

// Evaluate turns a raw cookie value into session evidence. Callers cannot
// distinguish a failed session lookup from a failed user resolve; both mean
// "treat as unauthenticated".
func (s *SessionCorrelator) Evaluate(ctx context.Context, token string) SessionEvidence {
	if token == "" {
		return SessionEvidence{State: SessionAbsent}
	}

	user, err := s.directory.GetUser(ctx, token)
	if err != nil {
		log.Debug().Err(err).Msg("Session token did not resolve, treating as unauthenticated")
		return SessionEvidence{State: SessionInvalid, Token: token}
	}

	return SessionEvidence{State: SessionValid, Token: token, User: user}
}
