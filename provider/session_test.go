package provider

import (
	"context"
	"testing"

	"github.com/ruhmesmeile/hydra-crowdprovider/crowd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSessionCorrelator_Evaluate_NoToken(t *testing.T) {
	directory := new(MockDirectory)
	correlator := NewSessionCorrelator(directory)

	ev := correlator.Evaluate(context.Background(), "")

	assert.Equal(t, SessionAbsent, ev.State)
	assert.Nil(t, ev.User)
	directory.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
}

func TestSessionCorrelator_Evaluate_InvalidToken(t *testing.T) {
	directory := new(MockDirectory)
	directory.On("GetUser", mock.Anything, "stale-token").Return(nil, crowd.ErrSessionInvalid)
	correlator := NewSessionCorrelator(directory)

	ev := correlator.Evaluate(context.Background(), "stale-token")

	assert.Equal(t, SessionInvalid, ev.State)
	assert.Equal(t, "stale-token", ev.Token)
	assert.Nil(t, ev.User)
}

func TestSessionCorrelator_Evaluate_ValidToken(t *testing.T) {
	directory := new(MockDirectory)
	directory.On("GetUser", mock.Anything, "sso-token").Return(testUser(), nil)
	correlator := NewSessionCorrelator(directory)

	ev := correlator.Evaluate(context.Background(), "sso-token")

	assert.Equal(t, SessionValid, ev.State)
	assert.Equal(t, "sso-token", ev.Token)
	assert.Equal(t, "alice", ev.User.Name)
}
