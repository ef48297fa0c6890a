package crowd

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{
		BaseURL:     srv.URL,
		Application: "crowdprovider",
		Password:    "app-secret",
	})
	require.NoError(t, err)
	return client, srv
}

func TestClient_CreateSession(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rest/usermanagement/1/session", r.URL.Path)

		app, secret, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "crowdprovider", app)
		assert.Equal(t, "app-secret", secret)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "alice", body["username"])
		assert.Equal(t, "secret", body["password"])

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"token": "sso-token"})
	}))

	sess, err := client.CreateSession(context.Background(), "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "sso-token", sess.Token)
}

func TestClient_CreateSession_InvalidCredentials(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"reason":  "INVALID_USER_AUTHENTICATION",
			"message": "Failed to authenticate principal, password was invalid",
		})
	}))

	_, err := client.CreateSession(context.Background(), "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Contains(t, err.Error(), "password was invalid")
}

func TestClient_GetUser(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rest/usermanagement/1/session/sso-token":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"token": "sso-token",
				"user":  map[string]string{"name": "alice"},
			})
		case "/rest/usermanagement/1/user":
			assert.Equal(t, "alice", r.URL.Query().Get("username"))
			_ = json.NewEncoder(w).Encode(User{
				Name:        "alice",
				FirstName:   "Alice",
				LastName:    "Example",
				DisplayName: "Alice Example",
				Email:       "alice@example.com",
				Active:      true,
			})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))

	user, err := client.GetUser(context.Background(), "sso-token")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Name)
	assert.Equal(t, "Alice Example", user.DisplayName)
	assert.Equal(t, "alice@example.com", user.Email)
}

func TestClient_GetUser_UnknownToken(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.GetUser(context.Background(), "stale-token")
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestClient_GetUser_ResolveFailureIsSessionInvalid(t *testing.T) {
	// Session lookup succeeds but the user fetch fails; callers must not be
	// able to tell the difference.
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/rest/usermanagement/1/session/sso-token" {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"token": "sso-token",
				"user":  map[string]string{"name": "ghost"},
			})
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.GetUser(context.Background(), "sso-token")
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)
}
