package identity

import "github.com/rashel9255/online-learning-platform-client/internal/prefs"

// PrefsKeeper stores the refresh token in the client's durable local storage.
type PrefsKeeper struct {
	store *prefs.Store
}

func NewPrefsKeeper(store *prefs.Store) *PrefsKeeper {
	return &PrefsKeeper{store: store}
}

func (k *PrefsKeeper) RefreshToken() (string, bool) {
	v, ok := k.store.Get(prefs.KeyRefreshToken)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (k *PrefsKeeper) StoreRefreshToken(token string) error {
	return k.store.Set(prefs.KeyRefreshToken, token)
}

func (k *PrefsKeeper) ClearRefreshToken() error {
	return k.store.Delete(prefs.KeyRefreshToken)
}
