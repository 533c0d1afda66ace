// Package session holds the client-wide session state: the current user and
// a loading flag covering the startup bootstrap. It is an explicitly
// constructed object wired through the application, not a package global.
package session

import (
	"log/slog"
	"sync"

	"github.com/rashel9255/online-learning-platform-client/internal/identity"
)

// State is a snapshot of the session store.
type State struct {
	User    *identity.Session
	Loading bool
}

// LoggedIn reports whether a user session is present.
func (s State) LoggedIn() bool {
	return s.User != nil
}

// Store subscribes once to the Identity Client and mirrors its change
// notifications. Loading starts true and transitions to false on the first
// notification; it never becomes true again. The store is written solely by
// the identity notification handler and read everywhere else.
type Store struct {
	logger *slog.Logger

	mu      sync.RWMutex
	user    *identity.Session
	loading bool

	unsubscribe func()
}

// New creates a Store in the loading state and subscribes it to client.
// Call Close at shutdown to detach the subscription.
func New(client *identity.Client, logger *slog.Logger) *Store {
	s := &Store{
		logger:  logger,
		loading: true,
	}
	s.unsubscribe = client.OnSessionChange(s.apply)
	return s
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{User: s.user, Loading: s.loading}
}

// Close detaches the store from the Identity Client.
func (s *Store) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

func (s *Store) apply(user *identity.Session) {
	s.mu.Lock()
	first := s.loading
	s.user = user
	s.loading = false
	s.mu.Unlock()

	if first {
		s.logger.Info("session state resolved", "logged_in", user != nil)
	}
}
