package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/zatekoja/campusmove/internal/infrastructure/observability"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

type namedCheck struct {
	name  string
	check HealthCheck
}

// HealthHandler reports liveness and the state of optional dependencies
type HealthHandler struct {
	checks []namedCheck
}

// NewHealthHandler creates a health handler with no dependency checks
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// AddCheck registers a dependency probed on every health request
func (h *HealthHandler) AddCheck(name string, check HealthCheck) {
	h.checks = append(h.checks, namedCheck{name: name, check: check})
}

// Health handles GET /health. Any failing check turns the answer into 503
// naming the failed dependencies.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	var failed []string
	for _, c := range h.checks {
		if err := c.check(ctx); err != nil {
			observability.LoggerFromContext(ctx).Warn().
				Err(err).
				Str("dependency", c.name).
				Msg("health check failed")
			failed = append(failed, c.name)
		}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if len(failed) > 0 {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("UNAVAILABLE: " + strings.Join(failed, ", ")))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
