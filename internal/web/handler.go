// Package web renders the pages of the course marketplace and submits user
// actions. Views own only local UI state; all records come from the
// data-access client and all identity changes flow through the session store.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/sessions"
	"golang.org/x/oauth2"

	"github.com/rashel9255/online-learning-platform-client/internal/api"
	"github.com/rashel9255/online-learning-platform-client/internal/identity"
	"github.com/rashel9255/online-learning-platform-client/internal/platform/metrics"
	"github.com/rashel9255/online-learning-platform-client/internal/prefs"
	"github.com/rashel9255/online-learning-platform-client/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	siteName   = "Pathshala360"
	cookieName = "pathshala"
)

// Flash is a one-shot notice surfaced on the next rendered page.
type Flash struct {
	Kind string // success, error, info
	Text string
}

// Handler carries the collaborators every page handler needs.
type Handler struct {
	api      *api.Client
	identity *identity.Client
	sessions *session.Store
	prefs    *prefs.Store
	cookies  *sessions.CookieStore
	oauth    *oauth2.Config
	logger   *slog.Logger
	metrics  *metrics.Metrics
	validate *validator.Validate
	pages    map[string]*template.Template
}

func NewHandler(
	apiClient *api.Client,
	identityClient *identity.Client,
	sessionStore *session.Store,
	prefStore *prefs.Store,
	cookieKey string,
	oauthConfig *oauth2.Config,
	logger *slog.Logger,
	m *metrics.Metrics,
) (*Handler, error) {
	cookies := sessions.NewCookieStore([]byte(cookieKey))
	cookies.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
	}

	pages, err := parsePages()
	if err != nil {
		return nil, err
	}

	return &Handler{
		api:      apiClient,
		identity: identityClient,
		sessions: sessionStore,
		prefs:    prefStore,
		cookies:  cookies,
		oauth:    oauthConfig,
		logger:   logger,
		metrics:  m,
		validate: newValidator(),
		pages:    pages,
	}, nil
}

var pageNames = []string{
	"home", "courses", "course_detail", "login", "register",
	"forgot_password", "enrolled", "my_courses", "add_course",
	"update_course", "pending", "error", "notfound",
}

func parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = t
	}
	return pages, nil
}

// PageData is what every template receives. Pages use the fields they need.
type PageData struct {
	Title       string
	Theme       string
	User        *identity.Session
	Flashes     []Flash
	CurrentPath string

	// Catalog pages.
	Courses     []api.Course
	Course      *api.Course
	Instructors []api.Instructor
	Enrollments []api.Enrollment
	Enrolled    bool
	Query       string
	Category    string
	Categories  []string

	// Error/empty/form state.
	ErrorText string
	RetryPath string
	FormError string
	Form      map[string]string
	From      string
}

func (h *Handler) newPageData(w http.ResponseWriter, r *http.Request, title string) PageData {
	return PageData{
		Title:       siteName + " | " + title,
		Theme:       h.prefs.Theme(),
		User:        h.sessions.State().User,
		Flashes:     h.takeFlashes(w, r),
		CurrentPath: r.URL.RequestURI(),
	}
}

func (h *Handler) render(w http.ResponseWriter, page string, status int, data PageData) {
	t, ok := h.pages[page]
	if !ok {
		h.logger.Error("unknown page template", "page", page)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		h.logger.Error("render failed", "page", page, "error", err)
	}
	if h.metrics != nil {
		h.metrics.PageRenders.WithLabelValues(page, outcomeFor(status, data)).Inc()
	}
}

func outcomeFor(status int, data PageData) string {
	switch {
	case data.ErrorText != "":
		return "error"
	case status >= 400:
		return "error"
	case len(data.Courses) == 0 && len(data.Enrollments) == 0 && data.Course == nil && len(data.Instructors) == 0:
		return "empty"
	default:
		return "ready"
	}
}

// renderError shows the Error state of the three-state page contract: the
// message plus a manual retry action that re-issues the same request.
func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, title, message string) {
	data := h.newPageData(w, r, title)
	data.ErrorText = message
	data.RetryPath = r.URL.RequestURI()
	h.render(w, "error", http.StatusOK, data)
}

// RenderPending is the neutral suspended state used by the route guard while
// the session is still being resolved. The page self-refreshes; no redirect
// happens here.
func (h *Handler) RenderPending(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Refresh", "1")
	data := h.newPageData(w, r, "Loading")
	h.render(w, "pending", http.StatusOK, data)
}

// NotFound renders the catch-all fallback page.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	data := h.newPageData(w, r, "Page Not Found")
	h.render(w, "notfound", http.StatusNotFound, data)
}

func (h *Handler) addFlash(w http.ResponseWriter, r *http.Request, kind, text string) {
	sess, _ := h.cookies.Get(r, cookieName)
	sess.AddFlash(kind + "|" + text)
	if err := sess.Save(r, w); err != nil {
		h.logger.Warn("save flash failed", "error", err)
	}
}

// takeFlashes drains pending flashes and rewrites the cookie so each notice
// shows once.
func (h *Handler) takeFlashes(w http.ResponseWriter, r *http.Request) []Flash {
	sess, err := h.cookies.Get(r, cookieName)
	if err != nil {
		return nil
	}
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = sess.Save(r, w)
	flashes := make([]Flash, 0, len(raw))
	for _, f := range raw {
		s, ok := f.(string)
		if !ok {
			continue
		}
		kind, text := "info", s
		if i := strings.IndexByte(s, '|'); i >= 0 {
			kind, text = s[:i], s[i+1:]
		}
		flashes = append(flashes, Flash{Kind: kind, Text: text})
	}
	return flashes
}
