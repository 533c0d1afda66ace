package web

import (
	"net/http"

	"github.com/rashel9255/online-learning-platform-client/internal/prefs"
)

// HandleThemeToggle flips the theme preference, persists it, and sends the
// user back where they were.
func (h *Handler) HandleThemeToggle(w http.ResponseWriter, r *http.Request) {
	next := prefs.ThemeDark
	if h.prefs.Theme() == prefs.ThemeDark {
		next = prefs.ThemeLight
	}
	if err := h.prefs.Set(prefs.KeyTheme, next); err != nil {
		h.logger.Warn("persist theme failed", "error", err)
	}

	// Referer is a full URL; only same-site paths are followed.
	back := "/"
	if u, err := r.URL.Parse(r.Referer()); err == nil && u.Host == r.Host {
		back = safeReturnPath(u.RequestURI())
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}
