package httpserver

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/time/rate"

	"github.com/nvarma/eldercare-hub/internal/config"
)

// cleanupInterval is how many lookups pass between idle-client sweeps.
const cleanupInterval = 1000

type limiterStore struct {
	mu      sync.Mutex
	byIP    map[string]*rate.Limiter
	rps     rate.Limit
	burst   int
	lookups atomic.Int64
}

func newLimiterStore(rps, burst int) *limiterStore {
	return &limiterStore{
		byIP:  make(map[string]*rate.Limiter),
		rps:   rate.Limit(rps),
		burst: burst,
	}
}

func (s *limiterStore) get(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	lim, ok := s.byIP[ip]
	if !ok {
		lim = rate.NewLimiter(s.rps, s.burst)
		s.byIP[ip] = lim
	}

	if s.lookups.Add(1)%cleanupInterval == 0 {
		s.evictIdle()
	}

	return lim
}

// evictIdle drops entries whose bucket is full again, meaning the client has
// not sent a request recently. Keeps the map bounded. Caller holds s.mu.
func (s *limiterStore) evictIdle() {
	for ip, lim := range s.byIP {
		if lim.Tokens() >= float64(s.burst) {
			delete(s.byIP, ip)
		}
	}
}

// RateLimitMiddleware enforces a per-IP token bucket. This is the admission
// control in front of the one-completion-per-request chat and plan routes.
// With RateLimitRPS <= 0 it is a pass-through.
func RateLimitMiddleware(cfg *config.Config, next http.Handler) http.Handler {
	if cfg.RateLimitRPS <= 0 {
		return next
	}

	burst := cfg.RateLimitBurst
	if burst <= 0 {
		burst = cfg.RateLimitRPS
	}

	store := newLimiterStore(cfg.RateLimitRPS, burst)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !store.get(clientIP(r)).Allow() {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]string{
					"code":    "rate_limited",
					"message": "Too many requests",
				},
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP prefers the first hop of X-Forwarded-For for proxied setups and
// falls back to RemoteAddr.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.IndexByte(xff, ','); idx >= 0 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
