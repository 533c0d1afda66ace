package web

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/rashel9255/online-learning-platform-client/internal/identity"
)

const (
	keyReturnTo   = "return_to"
	keyOAuthState = "oauth_state"
	keyResetEmail = "reset_email"
)

// safeReturnPath keeps post-login redirects on this site.
func safeReturnPath(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") {
		return "/"
	}
	return raw
}

func (h *Handler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	if h.sessions.State().LoggedIn() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	data := h.newPageData(w, r, "Login")
	data.From = safeReturnPath(r.URL.Query().Get("from"))
	h.render(w, "login", http.StatusOK, data)
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	form := loginForm{
		Email:    trimmed(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	from := safeReturnPath(r.PostFormValue("from"))

	if err := h.validate.Struct(form); err != nil {
		data := h.newPageData(w, r, "Login")
		data.FormError = validationMessage(err)
		data.Form = map[string]string{"email": form.Email}
		data.From = from
		h.render(w, "login", http.StatusOK, data)
		return
	}

	// Keep the typed email around so the forgot-password page can pre-fill
	// it, matching the original flow.
	h.rememberResetEmail(w, r, form.Email)

	_, err := h.identity.Login(r.Context(), form.Email, form.Password)
	if err != nil {
		data := h.newPageData(w, r, "Login")
		data.FormError = authMessage(err, "Login failed. Please try again.")
		data.Form = map[string]string{"email": form.Email}
		data.From = from
		h.render(w, "login", http.StatusOK, data)
		return
	}

	h.logger.Info("login",
		"device", identity.ParseUserAgent(r.UserAgent()),
		"log_type", "audit",
	)
	h.addFlash(w, r, "success", "Login Successfully")
	http.Redirect(w, r, from, http.StatusSeeOther)
}

func (h *Handler) HandleRegisterPage(w http.ResponseWriter, r *http.Request) {
	if h.sessions.State().LoggedIn() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	data := h.newPageData(w, r, "Register")
	h.render(w, "register", http.StatusOK, data)
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	form := registerForm{
		Name:     trimmed(r.PostFormValue("name")),
		PhotoURL: trimmed(r.PostFormValue("photo")),
		Email:    trimmed(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}

	if err := h.validate.Struct(form); err != nil {
		data := h.newPageData(w, r, "Register")
		data.FormError = validationMessage(err)
		data.Form = map[string]string{
			"name":  form.Name,
			"photo": form.PhotoURL,
			"email": form.Email,
		}
		h.render(w, "register", http.StatusOK, data)
		return
	}

	profile := identity.Profile{DisplayName: form.Name, PhotoURL: form.PhotoURL}
	_, err := h.identity.Register(r.Context(), form.Email, form.Password, profile)
	if err != nil {
		data := h.newPageData(w, r, "Register")
		data.FormError = authMessage(err, "Registration Failed. Please try again.")
		data.Form = map[string]string{
			"name":  form.Name,
			"photo": form.PhotoURL,
			"email": form.Email,
		}
		h.render(w, "register", http.StatusOK, data)
		return
	}

	h.addFlash(w, r, "success", "Registration Successful")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleGoogleLogin starts the OAuth code flow. The random state and the
// post-login return path ride in the cookie session.
func (h *Handler) HandleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	if h.oauth == nil {
		h.addFlash(w, r, "error", "Google sign-in is not configured.")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	state := uuid.New().String()
	sess, _ := h.cookies.Get(r, cookieName)
	sess.Values[keyOAuthState] = state
	sess.Values[keyReturnTo] = safeReturnPath(r.URL.Query().Get("from"))
	if err := sess.Save(r, w); err != nil {
		h.logger.Warn("save oauth state failed", "error", err)
	}
	http.Redirect(w, r, h.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline), http.StatusSeeOther)
}

// HandleGoogleCallback finishes the flow: exchange the code for a Google
// token, then trade that token for a provider session.
func (h *Handler) HandleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	sess, _ := h.cookies.Get(r, cookieName)
	wantState, _ := sess.Values[keyOAuthState].(string)
	returnTo, _ := sess.Values[keyReturnTo].(string)
	delete(sess.Values, keyOAuthState)
	delete(sess.Values, keyReturnTo)
	_ = sess.Save(r, w)

	if wantState == "" || r.URL.Query().Get("state") != wantState {
		h.addFlash(w, r, "error", "Failed to sign in with Google. Please try again.")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	token, err := h.oauth.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		h.logger.Warn("google code exchange failed", "error", err)
		h.addFlash(w, r, "error", "Failed to sign in with Google. Please try again.")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	_, err = h.identity.LoginWithGoogle(r.Context(), token.AccessToken)
	if err != nil {
		h.addFlash(w, r, "error", "Failed to sign in with Google. Please try again.")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	h.logger.Info("google login",
		"device", identity.ParseUserAgent(r.UserAgent()),
		"log_type", "audit",
	)
	h.addFlash(w, r, "success", "Login with Google successful!")
	http.Redirect(w, r, safeReturnPath(returnTo), http.StatusSeeOther)
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.identity.Logout(r.Context()); err != nil {
		h.logger.Error("logout failed", "error", err)
	}
	h.addFlash(w, r, "info", "You have been logged out.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) HandleForgotPasswordPage(w http.ResponseWriter, r *http.Request) {
	data := h.newPageData(w, r, "Forgot Password")
	// Pre-fill with the email last typed on the login page.
	sess, _ := h.cookies.Get(r, cookieName)
	if email, ok := sess.Values[keyResetEmail].(string); ok {
		data.Form = map[string]string{"email": email}
	}
	h.render(w, "forgot_password", http.StatusOK, data)
}

func (h *Handler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	form := forgotPasswordForm{Email: trimmed(r.PostFormValue("email"))}
	if err := h.validate.Struct(form); err != nil {
		data := h.newPageData(w, r, "Forgot Password")
		data.FormError = validationMessage(err)
		h.render(w, "forgot_password", http.StatusOK, data)
		return
	}

	// The outcome is always terminal: an unknown email still resolves the
	// request, without revealing whether the account exists.
	if err := h.identity.RequestPasswordReset(r.Context(), form.Email); err != nil {
		h.logger.Warn("password reset failed", "error", err)
	}
	h.addFlash(w, r, "info", "If an account exists for "+form.Email+", a reset email is on its way.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *Handler) rememberResetEmail(w http.ResponseWriter, r *http.Request, email string) {
	sess, _ := h.cookies.Get(r, cookieName)
	sess.Values[keyResetEmail] = email
	_ = sess.Save(r, w)
}
