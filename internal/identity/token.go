package identity

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	dErrors "github.com/rashel9255/online-learning-platform-client/pkg/domainerrors"
)

// idTokenClaims are the claims we read from the provider's ID token.
type idTokenClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	jwt.RegisteredClaims
}

// sessionFromCredentials projects a Session from the credentials the provider
// returned. The ID token arrives directly from the provider over TLS, so it
// is parsed without signature verification; expiry is still checked locally.
// Response fields win over token claims when both are present, matching the
// freshest profile data.
func sessionFromCredentials(creds *Credentials, now time.Time) (*Session, error) {
	claims := &idTokenClaims{}
	if creds.IDToken != "" {
		parser := jwt.NewParser()
		if _, _, err := parser.ParseUnverified(creds.IDToken, claims); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeAuth, "malformed ID token")
		}
		if claims.ExpiresAt != nil && claims.ExpiresAt.Before(now) {
			return nil, dErrors.New(dErrors.CodeAuth, "ID token expired")
		}
	}

	s := &Session{
		UID:         creds.UID,
		Email:       creds.Email,
		DisplayName: creds.DisplayName,
		PhotoURL:    creds.PhotoURL,
	}
	if s.UID == "" && claims.Subject != "" {
		s.UID = claims.Subject
	}
	if s.Email == "" {
		s.Email = claims.Email
	}
	if s.DisplayName == "" {
		s.DisplayName = claims.Name
	}
	if s.PhotoURL == "" {
		s.PhotoURL = claims.Picture
	}
	if s.UID == "" {
		return nil, dErrors.New(dErrors.CodeAuth, "provider response carries no user id")
	}
	return s, nil
}
