package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// loginVisitor tracks a rate limiter per client IP for the auth endpoints.
type loginVisitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LoginRateLimiter throttles credential-bearing endpoints per client IP so a
// single host cannot hammer the identity provider through us.
type LoginRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*loginVisitor
	rps      rate.Limit
	burst    int
	ttl      time.Duration
	logger   *slog.Logger
}

// NewLoginRateLimiter creates a limiter allowing rps requests per second with
// the given burst per IP. Entries idle longer than ttl are evicted by a
// background sweep.
func NewLoginRateLimiter(rps float64, burst int, ttl time.Duration, logger *slog.Logger) *LoginRateLimiter {
	l := &LoginRateLimiter{
		visitors: make(map[string]*loginVisitor),
		rps:      rate.Limit(rps),
		burst:    burst,
		ttl:      ttl,
		logger:   logger,
	}
	go l.sweep()
	return l
}

func (l *LoginRateLimiter) limiterFor(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[ip]
	if !ok {
		v = &loginVisitor{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

func (l *LoginRateLimiter) sweep() {
	ticker := time.NewTicker(l.ttl)
	defer ticker.Stop()
	for range ticker.C {
		l.mu.Lock()
		cutoff := time.Now().Add(-l.ttl)
		for ip, v := range l.visitors {
			if v.lastSeen.Before(cutoff) {
				delete(l.visitors, ip)
			}
		}
		l.mu.Unlock()
	}
}

// Middleware rejects requests over the per-IP budget with 429.
func (l *LoginRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if !l.limiterFor(ip).Allow() {
			l.logger.Warn("login rate limit exceeded",
				"ip", ip,
				"path", r.URL.Path,
			)
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
