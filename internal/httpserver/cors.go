package httpserver

import (
	"net/http"
	"strings"

	"github.com/nvarma/eldercare-hub/internal/config"
)

// CORSMiddleware adds CORS headers for origins on the configured allowlist
// and short-circuits preflight OPTIONS requests.
func CORSMiddleware(cfg *config.Config, next http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(cfg.CORSAllowedOrigins))
	for _, o := range cfg.CORSAllowedOrigins {
		allowed[strings.TrimSpace(o)] = struct{}{}
	}

	allowCredentials := cfg.CORSAllowCredentials

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		_, originAllowed := allowed[origin]

		if origin != "" && originAllowed {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Vary", "Origin")
			if allowCredentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}
		}

		if r.Method == http.MethodOptions && origin != "" {
			if originAllowed {
				h := w.Header()
				h.Set("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Authorization,Content-Type")
				h.Set("Access-Control-Max-Age", "600")
			}
			// Disallowed origins get 204 without CORS headers; the browser
			// blocks the actual request.
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
