// internal/app/system/ratelimit/ratelimit.go
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Limiter counts requests per key in fixed windows. Safe for concurrent use.
type Limiter struct {
	mu       sync.Mutex
	windows  map[string]*window
	limit    int
	duration time.Duration
	now      func() time.Time
}

type window struct {
	count     int
	expiresAt time.Time
}

// New creates a limiter allowing limit requests per key every duration.
func New(limit int, duration time.Duration) *Limiter {
	return &Limiter{
		windows:  make(map[string]*window),
		limit:    limit,
		duration: duration,
		now:      time.Now,
	}
}

// Allow records a request for key and reports whether it is within the limit.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	w, ok := l.windows[key]
	if !ok || now.After(w.expiresAt) {
		l.windows[key] = &window{count: 1, expiresAt: now.Add(l.duration)}
		return true
	}
	if w.count >= l.limit {
		return false
	}
	w.count++
	return true
}

// Reset forgets key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, key)
}

// sweep drops expired windows once the map grows; callers hold mu.
func (l *Limiter) sweep(now time.Time) {
	if len(l.windows) < 1024 {
		return
	}
	for k, w := range l.windows {
		if now.After(w.expiresAt) {
			delete(l.windows, k)
		}
	}
}

// ClientIP extracts the client address, preferring proxy headers.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
			return ip
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// SignInLimiter throttles sign-in and sign-up attempts per client IP and per
// email address.
type SignInLimiter struct {
	ip    *Limiter
	email *Limiter
}

// NewSignInLimiter builds a limiter with the given per-minute IP limit and
// per-five-minutes email limit.
func NewSignInLimiter(ipPerMinute, emailPerFiveMinutes int) *SignInLimiter {
	return &SignInLimiter{
		ip:    New(ipPerMinute, time.Minute),
		email: New(emailPerFiveMinutes, 5*time.Minute),
	}
}

// Check reports whether an attempt may proceed, and a message when it may not.
func (s *SignInLimiter) Check(r *http.Request, email string) (bool, string) {
	if !s.ip.Allow(ClientIP(r)) {
		return false, "Too many attempts. Please wait a minute and try again."
	}
	if key := strings.ToLower(strings.TrimSpace(email)); key != "" && !s.email.Allow(key) {
		return false, "Too many attempts for this account. Please wait a few minutes."
	}
	return true, ""
}

// ResetEmail clears the email counter after a successful sign-in.
func (s *SignInLimiter) ResetEmail(email string) {
	if key := strings.ToLower(strings.TrimSpace(email)); key != "" {
		s.email.Reset(key)
	}
}
