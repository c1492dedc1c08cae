package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/beritahub/go-portal-client/api"
	"github.com/beritahub/go-portal-client/session"
	"github.com/beritahub/go-portal-client/storage"
	"github.com/beritahub/go-portal-client/users"
)

type navRecorder struct {
	mu        sync.Mutex
	navigated []string
	reloaded  []string
}

func (n *navRecorder) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.navigated = append(n.navigated, path)
}

func (n *navRecorder) Reload(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reloaded = append(n.reloaded, path)
}

func (n *navRecorder) lastNavigation() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.navigated) == 0 {
		return ""
	}
	return n.navigated[len(n.navigated)-1]
}

func newTestStore(t *testing.T, handler http.Handler) (*session.Store, *storage.InMemoryStorage, *navRecorder) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := storage.NewInMemoryStorage()
	client, err := api.New(server.URL, store)
	require.NoError(t, err)

	userService, err := users.NewService(client)
	require.NoError(t, err)

	nav := &navRecorder{}
	sess, err := session.NewStore(store, userService, nav)
	require.NoError(t, err)
	return sess, store, nav
}

func TestVerifyWithoutStoredStateSettlesUnauthenticated(t *testing.T) {
	var requests atomic.Int32
	sess, _, nav := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))

	require.True(t, sess.Loading())
	sess.Verify(context.Background())

	require.False(t, sess.Loading())
	require.False(t, sess.IsAuthenticated())
	require.Nil(t, sess.User())
	require.Empty(t, nav.navigated)
	require.Zero(t, requests.Load())
}

func TestVerifyRestoresStoredSession(t *testing.T) {
	var lookups atomic.Int32
	var gotAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /user/users/7", func(w http.ResponseWriter, r *http.Request) {
		lookups.Add(1)
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"data":{"id":"7","username":"rina","email":"rina@beritahub.test","fullName":"Rina Wati","role":"writer"}}`))
	})
	sess, store, _ := newTestStore(t, mux)

	require.NoError(t, store.SetAccessToken("stored-token"))
	require.NoError(t, store.SetIdentity([]byte(`{"id":"7","username":"stale-name","role":"writer"}`)))

	sess.Verify(context.Background())

	require.False(t, sess.Loading())
	require.True(t, sess.IsAuthenticated())
	require.Equal(t, "Bearer stored-token", gotAuth)
	user := sess.User()
	require.NotNil(t, user)
	require.Equal(t, "7", user.ID)
	require.Equal(t, "rina", user.Username)
	require.Equal(t, users.RoleWriter, user.Role)

	// The refreshed identity replaces the stale cached one.
	raw, err := store.Identity()
	require.NoError(t, err)
	require.Contains(t, string(raw), `"rina"`)

	// Verify settles once; a second call must not hit the server again.
	sess.Verify(context.Background())
	require.Equal(t, int32(1), lookups.Load())
}

func TestVerifyClearsRejectedSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /user/users/7", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid or expired token"}`))
	})
	mux.HandleFunc("POST /user/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"refresh token not found"}`))
	})
	sess, store, _ := newTestStore(t, mux)

	require.NoError(t, store.SetAccessToken("stale"))
	require.NoError(t, store.SetIdentity([]byte(`{"id":"7","username":"rina","role":"writer"}`)))

	sess.Verify(context.Background())

	require.False(t, sess.Loading())
	require.False(t, sess.IsAuthenticated())

	token, err := store.AccessToken()
	require.NoError(t, err)
	require.Empty(t, token)
	raw, err := store.Identity()
	require.NoError(t, err)
	require.Empty(t, raw)
}

func TestLoginSuccessPersistsAndNavigatesHome(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /user/login", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"accessToken":"minted","user":{"id":"1","username":"admin","email":"admin@beritahub.test","role":"admin"}}`))
	})
	sess, store, nav := newTestStore(t, mux)
	sess.Verify(context.Background())

	result := sess.Login(context.Background(), "admin@beritahub.test", "rahasia123")

	require.True(t, result.Success)
	require.True(t, sess.IsAuthenticated())
	require.Equal(t, users.RoleAdmin, sess.User().Role)
	require.Equal(t, session.RouteHome, nav.lastNavigation())

	token, err := store.AccessToken()
	require.NoError(t, err)
	require.Equal(t, "minted", token)
	raw, err := store.Identity()
	require.NoError(t, err)
	require.Contains(t, string(raw), `"admin"`)
}

func TestLoginFailureSurfacesServerMessage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /user/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"email atau password salah"}`))
	})
	sess, store, nav := newTestStore(t, mux)
	sess.Verify(context.Background())

	result := sess.Login(context.Background(), "admin@beritahub.test", "wrong")

	require.False(t, result.Success)
	require.Equal(t, "email atau password salah", result.Message)
	require.False(t, sess.IsAuthenticated())
	require.Empty(t, nav.navigated)

	token, err := store.AccessToken()
	require.NoError(t, err)
	require.Empty(t, token)
}

func TestLoginRejectsEmptyFieldsWithoutRequest(t *testing.T) {
	var requests atomic.Int32
	sess, _, _ := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	sess.Verify(context.Background())

	for _, tc := range []struct{ email, password string }{
		{"", "secret"},
		{"admin@beritahub.test", ""},
		{"   ", "secret"},
	} {
		result := sess.Login(context.Background(), tc.email, tc.password)
		require.False(t, result.Success)
		require.Equal(t, "email and password must not be empty", result.Message)
	}
	require.Zero(t, requests.Load())
}

func TestLogoutClearsSessionEvenWhenServerFails(t *testing.T) {
	t.Run("server accepts logout", func(t *testing.T) {
		var logoutCalls atomic.Int32
		mux := http.NewServeMux()
		mux.HandleFunc("POST /user/login", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"accessToken":"minted","user":{"id":"1","username":"admin","role":"admin"}}`))
		})
		mux.HandleFunc("POST /user/logout", func(w http.ResponseWriter, r *http.Request) {
			logoutCalls.Add(1)
			_, _ = w.Write([]byte(`{"message":"logged out"}`))
		})
		sess, store, nav := newTestStore(t, mux)
		sess.Verify(context.Background())
		require.True(t, sess.Login(context.Background(), "admin@beritahub.test", "rahasia123").Success)

		sess.Logout(context.Background())

		require.Equal(t, int32(1), logoutCalls.Load())
		require.False(t, sess.IsAuthenticated())
		require.Equal(t, session.RouteLogin, nav.lastNavigation())
		token, err := store.AccessToken()
		require.NoError(t, err)
		require.Empty(t, token)
	})

	t.Run("server rejects logout", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /user/login", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"accessToken":"minted","user":{"id":"1","username":"admin","role":"admin"}}`))
		})
		mux.HandleFunc("POST /user/logout", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		sess, store, nav := newTestStore(t, mux)
		sess.Verify(context.Background())
		require.True(t, sess.Login(context.Background(), "admin@beritahub.test", "rahasia123").Success)

		sess.Logout(context.Background())

		require.False(t, sess.IsAuthenticated())
		require.Equal(t, session.RouteLogin, nav.lastNavigation())
		raw, err := store.Identity()
		require.NoError(t, err)
		require.Empty(t, raw)
	})
}

func TestReplaceIdentityKeepsToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /user/login", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"accessToken":"minted","user":{"id":"1","username":"admin","fullName":"Old Name","role":"admin"}}`))
	})
	sess, store, _ := newTestStore(t, mux)
	sess.Verify(context.Background())
	require.True(t, sess.Login(context.Background(), "admin@beritahub.test", "rahasia123").Success)

	updated := sess.User()
	updated.FullName = "New Name"
	require.NoError(t, sess.ReplaceIdentity(updated))

	require.Equal(t, "New Name", sess.User().FullName)
	token, err := store.AccessToken()
	require.NoError(t, err)
	require.Equal(t, "minted", token)
	raw, err := store.Identity()
	require.NoError(t, err)
	require.Contains(t, string(raw), "New Name")

	require.Error(t, sess.ReplaceIdentity(nil))
}
