package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/zatekoja/campusmove/pkg/config"
)

// corsMethods are the methods the marketplace routes accept
var corsMethods = []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions}

// corsHeaders are the request headers browsers may send. Last-Event-ID is
// sent by EventSource when it reconnects to a stream.
var corsHeaders = []string{"Accept", "Content-Type", "Last-Event-ID"}

// CORSMiddleware lets the configured browser origins call the API. A
// preflight from an allowed origin is answered here with 204; one from any
// other origin, or for a method the API does not serve, gets 403.
func CORSMiddleware(cfg config.CORSConfig) func(http.Handler) http.Handler {
	wildcard := slices.Contains(cfg.AllowedOrigins, "*")
	allowMethods := strings.Join(corsMethods, ", ")
	allowHeaders := strings.Join(corsHeaders, ", ")
	maxAge := strconv.Itoa(int(cfg.MaxAge.Seconds()))

	allowed := func(origin string) bool {
		return wildcard || slices.Contains(cfg.AllowedOrigins, origin)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			preflight := r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""

			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !wildcard {
				w.Header().Add("Vary", "Origin")
			}
			if !allowed(origin) {
				if preflight {
					w.WriteHeader(http.StatusForbidden)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			if wildcard {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			} else {
				w.Header().Set("Access-Control-Allow-Origin", origin)
			}

			if !preflight {
				next.ServeHTTP(w, r)
				return
			}

			if !slices.Contains(corsMethods, r.Header.Get("Access-Control-Request-Method")) {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			w.Header().Set("Access-Control-Allow-Methods", allowMethods)
			w.Header().Set("Access-Control-Allow-Headers", allowHeaders)
			if cfg.MaxAge > 0 {
				w.Header().Set("Access-Control-Max-Age", maxAge)
			}
			w.WriteHeader(http.StatusNoContent)
		})
	}
}
