package identity

// Session is the authenticated identity and profile of the current user, as
// projected from the provider's ID token. It is replaced wholesale on every
// provider change event and never mutated in place.
type Session struct {
	UID         string
	Email       string
	DisplayName string
	PhotoURL    string
}

// Profile carries the mutable profile fields set at registration or through
// a profile update.
type Profile struct {
	DisplayName string
	PhotoURL    string
}

// Credentials is what the provider hands back on any successful sign-in
// style operation. The ID token is a JWT carrying the session claims; the
// refresh token is persisted so a restart can restore the session.
type Credentials struct {
	IDToken      string
	RefreshToken string
	UID          string
	Email        string
	DisplayName  string
	PhotoURL     string
}
