package identity

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/rashel9255/online-learning-platform-client/internal/platform/metrics"
	dErrors "github.com/rashel9255/online-learning-platform-client/pkg/domainerrors"
)

// TokenKeeper persists the refresh token between runs so a restart can
// restore the signed-in session, the way the browser client restored it from
// provider-managed local storage.
type TokenKeeper interface {
	RefreshToken() (string, bool)
	StoreRefreshToken(token string) error
	ClearRefreshToken() error
}

// ChangeHandler observes session changes. A nil session means signed out.
type ChangeHandler func(*Session)

// Client wraps the external identity provider. Every successful
// register/login/logout emits exactly one change notification; callers must
// observe the notification rather than assume the session is available the
// instant a call returns.
type Client struct {
	provider Provider
	tokens   TokenKeeper
	logger   *slog.Logger
	metrics  *metrics.Metrics
	now      func() time.Time

	// notifyMu serializes dispatch so handlers observe changes in emission
	// order.
	notifyMu sync.Mutex

	mu         sync.Mutex
	current    *Session
	generation uint64
	handlers   []registration
	nextHandle int
}

type registration struct {
	id int
	fn ChangeHandler
}

type Option func(*Client)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithClock injects a clock for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

func NewClient(provider Provider, tokens TokenKeeper, opts ...Option) *Client {
	c := &Client{
		provider: provider,
		tokens:   tokens,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// OnSessionChange registers handler for every subsequent session change and
// returns an unsubscribe function. Handlers run in subscription order.
func (c *Client) OnSessionChange(handler ChangeHandler) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextHandle++
	id := c.nextHandle
	c.handlers = append(c.handlers, registration{id: id, fn: handler})
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, reg := range c.handlers {
			if reg.id == id {
				c.handlers = append(c.handlers[:i], c.handlers[i+1:]...)
				return
			}
		}
	}
}

// Bootstrap restores the persisted session, if any, and fires the first
// change notification exactly once, ending the loading period whether or not
// a session could be restored. A login or logout that lands while the refresh
// round trip is in flight wins; the stale response is discarded.
func (c *Client) Bootstrap(ctx context.Context) {
	gen := c.snapshotGeneration()

	token, ok := c.tokens.RefreshToken()
	if !ok {
		c.applyIfCurrent(gen, nil)
		return
	}

	creds, err := c.provider.Refresh(ctx, token)
	if err != nil {
		c.logger.WarnContext(ctx, "stored session could not be restored",
			"error", err,
		)
		_ = c.tokens.ClearRefreshToken()
		c.applyIfCurrent(gen, nil)
		return
	}

	session, err := sessionFromCredentials(creds, c.now())
	if err != nil {
		c.logger.WarnContext(ctx, "restored credentials are unusable",
			"error", err,
		)
		_ = c.tokens.ClearRefreshToken()
		c.applyIfCurrent(gen, nil)
		return
	}

	if !c.applyIfCurrent(gen, session) {
		// A login or logout landed first; its credentials stand.
		return
	}
	if creds.RefreshToken != "" {
		_ = c.tokens.StoreRefreshToken(creds.RefreshToken)
	}
	c.logger.InfoContext(ctx, "session restored",
		"uid", session.UID,
		"log_type", "audit",
	)
}

// Register creates an account, applies the profile, and signs the user in.
// A profile-update failure still leaves the user registered and signed in;
// only the profile fields are missing, matching the provider's semantics.
func (c *Client) Register(ctx context.Context, email, password string, profile Profile) (*Session, error) {
	creds, err := c.provider.SignUp(ctx, email, password)
	if err != nil {
		c.recordAuthFailure(ctx, "register", err)
		return nil, err
	}

	if profile.DisplayName != "" || profile.PhotoURL != "" {
		if err := c.provider.UpdateProfile(ctx, creds.IDToken, profile); err != nil {
			c.logger.WarnContext(ctx, "profile update after registration failed",
				"error", err,
			)
		} else {
			creds.DisplayName = profile.DisplayName
			creds.PhotoURL = profile.PhotoURL
		}
	}

	session, err := c.establish(ctx, creds)
	if err != nil {
		return nil, err
	}
	c.logger.InfoContext(ctx, "user registered",
		"uid", session.UID,
		"log_type", "audit",
	)
	return session, nil
}

// Login signs in with email and password.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	creds, err := c.provider.SignIn(ctx, email, password)
	if err != nil {
		c.recordAuthFailure(ctx, "login", err)
		return nil, err
	}
	session, err := c.establish(ctx, creds)
	if err != nil {
		return nil, err
	}
	c.logger.InfoContext(ctx, "user logged in",
		"uid", session.UID,
		"log_type", "audit",
	)
	return session, nil
}

// LoginWithGoogle exchanges a Google access token (obtained through the OAuth
// code flow) for a provider session.
func (c *Client) LoginWithGoogle(ctx context.Context, accessToken string) (*Session, error) {
	creds, err := c.provider.SignInWithIDP(ctx, "google.com", accessToken)
	if err != nil {
		c.recordAuthFailure(ctx, "google_login", err)
		return nil, err
	}
	session, err := c.establish(ctx, creds)
	if err != nil {
		return nil, err
	}
	c.logger.InfoContext(ctx, "user logged in with google",
		"uid", session.UID,
		"log_type", "audit",
	)
	return session, nil
}

// Logout clears the session and persisted credentials, notifying once.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.tokens.ClearRefreshToken(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "clear stored credentials")
	}
	c.apply(nil)
	c.logger.InfoContext(ctx, "user logged out", "log_type", "audit")
	return nil
}

// RequestPasswordReset asks the provider to send a reset email. The outcome
// is always reported to the caller, including for unknown addresses.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	if err := c.provider.SendPasswordReset(ctx, email); err != nil {
		c.logger.WarnContext(ctx, "password reset request failed",
			"error", err,
		)
		return err
	}
	c.logger.InfoContext(ctx, "password reset requested", "log_type", "audit")
	return nil
}

func (c *Client) establish(ctx context.Context, creds *Credentials) (*Session, error) {
	session, err := sessionFromCredentials(creds, c.now())
	if err != nil {
		c.recordAuthFailure(ctx, "establish", err)
		return nil, err
	}
	if creds.RefreshToken != "" {
		if err := c.tokens.StoreRefreshToken(creds.RefreshToken); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "persist credentials")
		}
	}
	c.apply(session)
	return session, nil
}

// apply installs the session and dispatches one notification in order.
func (c *Client) apply(session *Session) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	c.current = session
	c.generation++
	handlers := make([]registration, len(c.handlers))
	copy(handlers, c.handlers)
	c.mu.Unlock()

	c.updateSessionGauge(session)
	for _, reg := range handlers {
		reg.fn(session)
	}
}

// applyIfCurrent installs the session only when no other change landed since
// gen was captured. Reports whether the session was applied.
func (c *Client) applyIfCurrent(gen uint64, session *Session) bool {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	if c.generation != gen {
		c.mu.Unlock()
		return false
	}
	c.current = session
	c.generation++
	handlers := make([]registration, len(c.handlers))
	copy(handlers, c.handlers)
	c.mu.Unlock()

	c.updateSessionGauge(session)
	for _, reg := range handlers {
		reg.fn(session)
	}
	return true
}

func (c *Client) snapshotGeneration() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

func (c *Client) recordAuthFailure(ctx context.Context, operation string, err error) {
	c.logger.WarnContext(ctx, "auth failed",
		"operation", operation,
		"code", string(dErrors.CodeOf(err)),
		"error", err,
	)
	if c.metrics != nil {
		c.metrics.AuthFailures.Inc()
	}
}

func (c *Client) updateSessionGauge(session *Session) {
	if c.metrics == nil {
		return
	}
	if session != nil {
		c.metrics.SessionActive.Set(1)
		return
	}
	c.metrics.SessionActive.Set(0)
}
