package middleware

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/triporia/triporia-backend/pkg/clientip"
)

// SecurityHeaders sets security-related response headers.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		next.ServeHTTP(w, r)
	})
}

// --- In-process burst limiting for the login/register endpoints ---
// Sits in front of the Redis window limiter and absorbs credential
// stuffing bursts without a Redis round trip.

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

var (
	loginEntries = make(map[string]*limiterEntry)
	loginMu      sync.Mutex
)

func loginLimiter(ip string) *rate.Limiter {
	loginMu.Lock()
	defer loginMu.Unlock()

	entry, ok := loginEntries[ip]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(rate.Every(2*time.Second), 5)}
		loginEntries[ip] = entry
	}
	entry.lastSeen = time.Now()

	// Opportunistic cleanup of idle entries
	if len(loginEntries) > 1000 {
		cutoff := time.Now().Add(-10 * time.Minute)
		for k, e := range loginEntries {
			if e.lastSeen.Before(cutoff) {
				delete(loginEntries, k)
			}
		}
	}
	return entry.limiter
}

// LoginRateLimit throttles authentication attempts per IP.
func LoginRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !loginLimiter(clientip.FromRequest(r)).Allow() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":"rate_limited","message":"Too many login attempts. Please try again later."}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
