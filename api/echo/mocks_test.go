package echo

import (
	"context"

	"github.com/ruhmesmeile/hydra-crowdprovider/crowd"
	"github.com/ruhmesmeile/hydra-crowdprovider/hydra"
	"github.com/stretchr/testify/mock"
)

// --- Mock Implementations ---
// (copied from provider tests for now, consider shared package)

type MockAuthorizationServer struct {
	mock.Mock
}

func (m *MockAuthorizationServer) GetLoginRequest(ctx context.Context, challenge string) (*hydra.LoginRequest, error) {
	args := m.Called(ctx, challenge)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hydra.LoginRequest), args.Error(1)
}

func (m *MockAuthorizationServer) GetConsentRequest(ctx context.Context, challenge string) (*hydra.ConsentRequest, error) {
	args := m.Called(ctx, challenge)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hydra.ConsentRequest), args.Error(1)
}

func (m *MockAuthorizationServer) AcceptLoginRequest(ctx context.Context, challenge string, body *hydra.AcceptLoginRequest) (*hydra.CompletedRequest, error) {
	args := m.Called(ctx, challenge, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hydra.CompletedRequest), args.Error(1)
}

func (m *MockAuthorizationServer) AcceptConsentRequest(ctx context.Context, challenge string, body *hydra.AcceptConsentRequest) (*hydra.CompletedRequest, error) {
	args := m.Called(ctx, challenge, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hydra.CompletedRequest), args.Error(1)
}

func (m *MockAuthorizationServer) RejectConsentRequest(ctx context.Context, challenge string, body *hydra.RejectRequest) (*hydra.CompletedRequest, error) {
	args := m.Called(ctx, challenge, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hydra.CompletedRequest), args.Error(1)
}

type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) CreateSession(ctx context.Context, username, password string) (*crowd.Session, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crowd.Session), args.Error(1)
}

func (m *MockDirectory) GetUser(ctx context.Context, token string) (*crowd.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crowd.User), args.Error(1)
}
