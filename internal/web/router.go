package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rashel9255/online-learning-platform-client/internal/platform/health"
	"github.com/rashel9255/online-learning-platform-client/internal/platform/middleware"
	"github.com/rashel9255/online-learning-platform-client/internal/routeguard"
	"github.com/rashel9255/online-learning-platform-client/internal/session"
)

// RouterConfig carries the pieces NewRouter needs beyond the page handler
// itself.
type RouterConfig struct {
	Sessions       *session.Store
	Logger         *slog.Logger
	RequestTimeout time.Duration
	LoginRateLimit float64
	LoginBurst     int
}

// NewRouter wires every page and action with middleware. Routes under the
// guard render the pending page until the session resolves and bounce
// anonymous visitors to the login page.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	loginLimiter := middleware.NewLoginRateLimiter(cfg.LoginRateLimit, cfg.LoginBurst, 10*time.Minute, cfg.Logger)

	// Public pages.
	r.Get("/", h.HandleHome)
	r.Get("/courses", h.HandleCourses)
	r.Get("/login", h.HandleLoginPage)
	r.Get("/register", h.HandleRegisterPage)
	r.Get("/forgot-password", h.HandleForgotPasswordPage)
	r.Post("/forgot-password", h.HandleForgotPassword)
	r.Get("/auth/google/login", h.HandleGoogleLogin)
	r.Get("/auth/google/callback", h.HandleGoogleCallback)
	r.Post("/logout", h.HandleLogout)
	r.Post("/theme", h.HandleThemeToggle)

	// Credential submissions are rate limited per client IP.
	r.Group(func(r chi.Router) {
		r.Use(loginLimiter.Middleware)
		r.Post("/login", h.HandleLogin)
		r.Post("/register", h.HandleRegister)
	})

	// Guarded pages.
	r.Group(func(r chi.Router) {
		r.Use(routeguard.Middleware(cfg.Sessions, h, cfg.Logger))

		r.Get("/courses/{id}", h.HandleCourseDetail)
		r.Post("/courses/{id}/enroll", h.HandleEnroll)

		r.Get("/dashboard", h.HandleDashboard)
		r.Get("/dashboard/enrolled", h.HandleEnrolledCourses)
		r.Post("/dashboard/enrolled/{id}/unenroll", h.HandleUnenroll)
		r.Get("/dashboard/my-courses", h.HandleMyCourses)
		r.Get("/dashboard/add-course", h.HandleAddCoursePage)
		r.Post("/dashboard/add-course", h.HandleAddCourse)
		r.Get("/dashboard/update-course/{id}", h.HandleUpdateCoursePage)
		r.Post("/dashboard/update-course/{id}", h.HandleUpdateCourse)
		r.Post("/dashboard/my-courses/{id}/delete", h.HandleDeleteCourse)
	})

	// Operational endpoints.
	healthHandler := health.New()
	r.Get("/healthz", healthHandler.HandleStatus)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.NotFound(h.NotFound)

	return r
}
