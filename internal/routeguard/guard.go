// Package routeguard decides, per navigation, whether a request may proceed
// to a destination that requires a session.
package routeguard

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/rashel9255/online-learning-platform-client/internal/session"
)

// Decision is the outcome of guarding one navigation attempt.
type Decision int

const (
	// Pending: session status unknown; suspend rendering, do not redirect.
	// Redirecting before the session is known would bounce a valid
	// logged-in user to login on every refresh.
	Pending Decision = iota
	// Allowed: session present; render the destination unmodified.
	Allowed
	// Denied: no session; redirect to login carrying the requested path.
	Denied
)

func (d Decision) String() string {
	switch d {
	case Pending:
		return "pending"
	case Allowed:
		return "allowed"
	default:
		return "denied"
	}
}

// Decide is a pure function of the session state and the requested path.
// It produces no side effects; the middleware applies the outcome.
func Decide(state session.State, _ string) Decision {
	if state.Loading {
		return Pending
	}
	if state.LoggedIn() {
		return Allowed
	}
	return Denied
}

// LoginPath is where denied navigations are sent. The originally requested
// path travels in the "from" query parameter so a successful login can
// return the user to it.
const LoginPath = "/login"

// PendingRenderer renders the neutral suspended state while the session is
// still unknown.
type PendingRenderer interface {
	RenderPending(w http.ResponseWriter, r *http.Request)
}

// Middleware applies Decide uniformly to every request on the wrapped routes.
func Middleware(store *session.Store, pending PendingRenderer, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.RequestURI()
			switch Decide(store.State(), path) {
			case Pending:
				pending.RenderPending(w, r)
			case Denied:
				logger.Info("navigation denied",
					"path", path,
				)
				http.Redirect(w, r, LoginPath+"?from="+url.QueryEscape(path), http.StatusSeeOther)
			case Allowed:
				next.ServeHTTP(w, r)
			}
		})
	}
}
