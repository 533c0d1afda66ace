package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/rashel9255/online-learning-platform-client/internal/api"
	"github.com/rashel9255/online-learning-platform-client/internal/identity"
	"github.com/rashel9255/online-learning-platform-client/internal/platform/config"
	"github.com/rashel9255/online-learning-platform-client/internal/platform/logger"
	"github.com/rashel9255/online-learning-platform-client/internal/platform/metrics"
	"github.com/rashel9255/online-learning-platform-client/internal/prefs"
	"github.com/rashel9255/online-learning-platform-client/internal/session"
	"github.com/rashel9255/online-learning-platform-client/internal/web"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Page and session logic lives in internal packages.
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.New(logger.ParseLevel(cfg.LogLevel))

	log.Info("initializing pathshala360",
		"addr", cfg.Addr,
		"course_api", cfg.CourseAPIBaseURL,
		"identity", cfg.IdentityBaseURL,
	)

	prefStore, err := prefs.Open(cfg.DataDir)
	if err != nil {
		log.Error("open preference store", "error", err)
		os.Exit(1)
	}

	m := metrics.New()

	provider := identity.NewHTTPProvider(cfg.IdentityBaseURL, cfg.IdentityAPIKey)
	identityClient := identity.NewClient(provider, identity.NewPrefsKeeper(prefStore),
		identity.WithLogger(log),
		identity.WithMetrics(m),
	)

	sessionStore := session.New(identityClient, log)
	defer sessionStore.Close()

	apiClient := api.NewClient(cfg.CourseAPIBaseURL,
		api.WithLogger(log),
		api.WithMetrics(m),
	)

	oauthConfig := &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}

	handler, err := web.NewHandler(apiClient, identityClient, sessionStore, prefStore,
		cfg.CookieKey, oauthConfig, log, m)
	if err != nil {
		log.Error("build handler", "error", err)
		os.Exit(1)
	}

	router := web.NewRouter(handler, web.RouterConfig{
		Sessions:       sessionStore,
		Logger:         log,
		RequestTimeout: cfg.RequestTimeout,
		LoginRateLimit: cfg.LoginRateLimit,
		LoginBurst:     cfg.LoginRateBurst,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Restore any persisted credentials in the background. Pages render the
	// pending state until this settles.
	go identityClient.Bootstrap(ctx)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("starting http server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server gracefully")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
