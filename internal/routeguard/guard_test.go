package routeguard_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/rashel9255/online-learning-platform-client/internal/identity"
	"github.com/rashel9255/online-learning-platform-client/internal/identity/mocks"
	"github.com/rashel9255/online-learning-platform-client/internal/routeguard"
	"github.com/rashel9255/online-learning-platform-client/internal/session"
)

func TestDecide(t *testing.T) {
	user := &identity.Session{UID: "u1"}
	cases := []struct {
		name  string
		state session.State
		want  routeguard.Decision
	}{
		{"loading with no user is pending", session.State{Loading: true}, routeguard.Pending},
		{"loading with a user is still pending", session.State{Loading: true, User: user}, routeguard.Pending},
		{"resolved with a user is allowed", session.State{User: user}, routeguard.Allowed},
		{"resolved without a user is denied", session.State{}, routeguard.Denied},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, routeguard.Decide(tc.state, "/dashboard"))
		})
	}
}

type stubPending struct{ called bool }

func (p *stubPending) RenderPending(w http.ResponseWriter, _ *http.Request) {
	p.called = true
	w.Header().Set("Refresh", "1")
	w.WriteHeader(http.StatusOK)
}

type memKeeper struct{ token string }

func (k *memKeeper) RefreshToken() (string, bool)     { return k.token, k.token != "" }
func (k *memKeeper) StoreRefreshToken(t string) error { k.token = t; return nil }
func (k *memKeeper) ClearRefreshToken() error         { k.token = ""; return nil }

func guardedRequest(t *testing.T, store *session.Store, target string) (*httptest.ResponseRecorder, *stubPending, bool) {
	t.Helper()
	pending := &stubPending{}
	var reached bool
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	})
	handler := routeguard.Middleware(store, pending, slog.Default())(next)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec, pending, reached
}

func TestMiddleware(t *testing.T) {
	ctx := context.Background()

	newSession := func(t *testing.T) (*mocks.MockProvider, *identity.Client, *session.Store) {
		ctrl := gomock.NewController(t)
		provider := mocks.NewMockProvider(ctrl)
		client := identity.NewClient(provider, &memKeeper{}, identity.WithLogger(slog.Default()))
		store := session.New(client, slog.Default())
		t.Cleanup(store.Close)
		return provider, client, store
	}

	t.Run("unresolved session renders pending without redirecting", func(t *testing.T) {
		_, _, store := newSession(t)

		rec, pending, reached := guardedRequest(t, store, "/dashboard")

		assert.True(t, pending.called)
		assert.False(t, reached)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("Location"))
	})

	t.Run("anonymous visitor is redirected to login with the requested path", func(t *testing.T) {
		_, client, store := newSession(t)
		client.Bootstrap(ctx)

		rec, pending, reached := guardedRequest(t, store, "/dashboard/enrolled?page=2")

		assert.False(t, pending.called)
		assert.False(t, reached)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login?from=%2Fdashboard%2Fenrolled%3Fpage%3D2", rec.Header().Get("Location"))
	})

	t.Run("logged-in visitor passes through", func(t *testing.T) {
		provider, client, store := newSession(t)
		provider.EXPECT().SignIn(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&identity.Credentials{UID: "u1", RefreshToken: "rt"}, nil)
		_, err := client.Login(ctx, "a@example.com", "Secret1")
		require.NoError(t, err)

		rec, pending, reached := guardedRequest(t, store, "/dashboard")

		assert.False(t, pending.called)
		assert.True(t, reached)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
