package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	dErrors "github.com/rashel9255/online-learning-platform-client/pkg/domainerrors"
)

// Provider is the raw wire contract with the external identity provider.
// Error Contract: failures surface as domain errors carrying the provider's
// own error code where one is known; transport failures carry CodeNetwork.
type Provider interface {
	SignUp(ctx context.Context, email, password string) (*Credentials, error)
	SignIn(ctx context.Context, email, password string) (*Credentials, error)
	SignInWithIDP(ctx context.Context, providerID, accessToken string) (*Credentials, error)
	Refresh(ctx context.Context, refreshToken string) (*Credentials, error)
	UpdateProfile(ctx context.Context, idToken string, profile Profile) error
	SendPasswordReset(ctx context.Context, email string) error
}

// HTTPProvider talks to the provider's REST surface. One base URL plus an API
// key is the whole configuration.
type HTTPProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPProvider(baseURL, apiKey string) *HTTPProvider {
	return &HTTPProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type credentialsResponse struct {
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	PhotoURL     string `json:"photoUrl"`

	// The token refresh endpoint answers in snake_case.
	SnakeIDToken      string `json:"id_token"`
	SnakeRefreshToken string `json:"refresh_token"`
	SnakeUserID       string `json:"user_id"`
}

func (r *credentialsResponse) credentials() *Credentials {
	c := &Credentials{
		IDToken:      r.IDToken,
		RefreshToken: r.RefreshToken,
		UID:          r.LocalID,
		Email:        r.Email,
		DisplayName:  r.DisplayName,
		PhotoURL:     r.PhotoURL,
	}
	if c.IDToken == "" {
		c.IDToken = r.SnakeIDToken
	}
	if c.RefreshToken == "" {
		c.RefreshToken = r.SnakeRefreshToken
	}
	if c.UID == "" {
		c.UID = r.SnakeUserID
	}
	return c
}

type providerError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (p *HTTPProvider) SignUp(ctx context.Context, email, password string) (*Credentials, error) {
	return p.credentialCall(ctx, "/v1/accounts:signUp", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
}

func (p *HTTPProvider) SignIn(ctx context.Context, email, password string) (*Credentials, error) {
	return p.credentialCall(ctx, "/v1/accounts:signInWithPassword", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
}

// SignInWithIDP exchanges a social provider's access token for a provider
// session. providerID names the upstream IdP, e.g. "google.com".
func (p *HTTPProvider) SignInWithIDP(ctx context.Context, providerID, accessToken string) (*Credentials, error) {
	post := url.Values{}
	post.Set("access_token", accessToken)
	post.Set("providerId", providerID)
	return p.credentialCall(ctx, "/v1/accounts:signInWithIdp", map[string]any{
		"postBody":          post.Encode(),
		"requestUri":        "http://localhost",
		"returnSecureToken": true,
	})
}

func (p *HTTPProvider) Refresh(ctx context.Context, refreshToken string) (*Credentials, error) {
	return p.credentialCall(ctx, "/v1/token", map[string]any{
		"grant_type":    "refresh_token",
		"refresh_token": refreshToken,
	})
}

func (p *HTTPProvider) UpdateProfile(ctx context.Context, idToken string, profile Profile) error {
	_, err := p.credentialCall(ctx, "/v1/accounts:update", map[string]any{
		"idToken":           idToken,
		"displayName":       profile.DisplayName,
		"photoUrl":          profile.PhotoURL,
		"returnSecureToken": false,
	})
	return err
}

// SendPasswordReset asks the provider to mail a reset link. An unknown email
// is still reported to the caller as a terminal outcome rather than being
// swallowed here; the view decides how much to reveal.
func (p *HTTPProvider) SendPasswordReset(ctx context.Context, email string) error {
	_, err := p.credentialCall(ctx, "/v1/accounts:sendOobCode", map[string]any{
		"requestType": "PASSWORD_RESET",
		"email":       email,
	})
	return err
}

func (p *HTTPProvider) credentialCall(ctx context.Context, path string, body map[string]any) (*Credentials, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "encode provider request")
	}

	endpoint := p.baseURL + path
	if p.apiKey != "" {
		endpoint += "?key=" + url.QueryEscape(p.apiKey)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "build provider request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeNetwork, "identity provider unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeProviderError(resp)
	}

	var cr credentialsResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeNetwork, "decode provider response")
	}
	return cr.credentials(), nil
}

func decodeProviderError(resp *http.Response) error {
	var pe providerError
	if err := json.NewDecoder(resp.Body).Decode(&pe); err != nil || pe.Error.Message == "" {
		return dErrors.New(dErrors.CodeNetwork, fmt.Sprintf("identity provider returned status %d", resp.StatusCode))
	}
	return mapProviderCode(pe.Error.Message)
}

// mapProviderCode translates the provider's error vocabulary into our domain
// codes. Unknown messages stay auth failures so no kind is silently swallowed.
func mapProviderCode(message string) error {
	// Messages may carry a suffix, e.g. "WEAK_PASSWORD : Password should be
	// at least 6 characters". Match on the leading token.
	code, _, _ := strings.Cut(message, " ")
	switch code {
	case "EMAIL_EXISTS":
		return dErrors.New(dErrors.CodeEmailInUse, "email already registered")
	case "EMAIL_NOT_FOUND":
		return dErrors.New(dErrors.CodeUserNotFound, "no account for this email")
	case "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS":
		return dErrors.New(dErrors.CodeInvalidCredentials, "invalid email or password")
	case "WEAK_PASSWORD":
		return dErrors.New(dErrors.CodeWeakPassword, "password is too weak")
	case "INVALID_EMAIL":
		return dErrors.New(dErrors.CodeInvalidEmail, "email address is not valid")
	case "INVALID_REFRESH_TOKEN", "TOKEN_EXPIRED", "USER_DISABLED":
		return dErrors.New(dErrors.CodeAuth, "stored session is no longer valid")
	default:
		return dErrors.New(dErrors.CodeAuth, "authentication failed: "+message)
	}
}
