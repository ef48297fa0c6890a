package provider

import (
	"context"

	"github.com/ruhmesmeile/hydra-crowdprovider/crowd"
	"github.com/ruhmesmeile/hydra-crowdprovider/hydra"
)

// AuthorizationServer is the consumed surface of the Hydra admin API.
// Implemented by *hydra.Client.
type AuthorizationServer interface {
	GetLoginRequest(ctx context.Context, challenge string) (*hydra.LoginRequest, error)
	GetConsentRequest(ctx context.Context, challenge string) (*hydra.ConsentRequest, error)
	AcceptLoginRequest(ctx context.Context, challenge string, body *hydra.AcceptLoginRequest) (*hydra.CompletedRequest, error)
	AcceptConsentRequest(ctx context.Context, challenge string, body *hydra.AcceptConsentRequest) (*hydra.CompletedRequest, error)
	RejectConsentRequest(ctx context.Context, challenge string, body *hydra.RejectRequest) (*hydra.CompletedRequest, error)
}

// Directory is the consumed surface of the Crowd directory service.
// Implemented by *crowd.Client.
type Directory interface {
	CreateSession(ctx context.Context, username, password string) (*crowd.Session, error)
	GetUser(ctx context.Context, token string) (*crowd.User, error)
}
