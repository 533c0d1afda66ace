package web

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestRouter(t *testing.T, env *testEnv, loginRate float64, loginBurst int) http.Handler {
	t.Helper()
	return NewRouter(env.handler, RouterConfig{
		Sessions:       env.sessions,
		Logger:         env.handler.logger,
		RequestTimeout: 5 * time.Second,
		LoginRateLimit: loginRate,
		LoginBurst:     loginBurst,
	})
}

func routerGet(router http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestRouterGuardedRoutes(t *testing.T) {
	t.Run("dashboard renders pending while the session is unresolved", func(t *testing.T) {
		env := newTestEnv(t, nil)
		router := newTestRouter(t, env, 5, 10)

		rec := routerGet(router, "/dashboard")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "1", rec.Header().Get("Refresh"))
	})

	t.Run("dashboard redirects anonymous visitors to login", func(t *testing.T) {
		env := newTestEnv(t, nil)
		env.resolve()
		router := newTestRouter(t, env, 5, 10)

		rec := routerGet(router, "/dashboard")

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login?from=%2Fdashboard", rec.Header().Get("Location"))
	})

	t.Run("dashboard forwards a logged-in visitor", func(t *testing.T) {
		env := newTestEnv(t, nil)
		env.login(t)
		router := newTestRouter(t, env, 5, 10)

		rec := routerGet(router, "/dashboard")

		// HandleDashboard forwards to the enrolled tab.
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/dashboard/enrolled", rec.Header().Get("Location"))
	})

	t.Run("public catalog stays reachable while loading", func(t *testing.T) {
		env := newTestEnv(t, nil)
		router := newTestRouter(t, env, 5, 10)

		rec := routerGet(router, "/courses")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("Refresh"))
	})
}

func TestRouterOperationalEndpoints(t *testing.T) {
	env := newTestEnv(t, nil)
	router := newTestRouter(t, env, 5, 10)

	t.Run("health", func(t *testing.T) {
		rec := routerGet(router, "/healthz")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
	})

	t.Run("metrics", func(t *testing.T) {
		rec := routerGet(router, "/metrics")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown paths render the fallback page", func(t *testing.T) {
		rec := routerGet(router, "/no-such-page")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "404")
	})
}

func TestRouterLoginRateLimit(t *testing.T) {
	env := newTestEnv(t, nil)
	env.resolve()
	router := newTestRouter(t, env, 0.001, 1)

	post := func() *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(url.Values{
			"email":    {"not-an-email"},
			"password": {"x"},
		}.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.RemoteAddr = "203.0.113.7:40000"
		router.ServeHTTP(rec, req)
		return rec
	}

	first := post()
	assert.Equal(t, http.StatusOK, first.Code)

	second := post()
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}
