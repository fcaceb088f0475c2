package routes

import (
	"net/http"

	"github.com/zatekoja/campusmove/internal/api/handlers"
	"github.com/zatekoja/campusmove/internal/api/middleware"
	"github.com/zatekoja/campusmove/internal/infrastructure/observability"
	"github.com/zatekoja/campusmove/pkg/config"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	healthHandler  *handlers.HealthHandler
	requestHandler *handlers.RequestHandler
	userHandler    *handlers.UserHandler
	sessionHandler *handlers.SessionHandler
	paymentHandler *handlers.PaymentHandler
	sseHandler     *handlers.SSEHandler

	metrics *observability.Metrics
	cors    config.CORSConfig
}

// NewRouter creates a new router. A nil health handler answers OK without
// probing dependencies.
func NewRouter(
	healthHandler *handlers.HealthHandler,
	requestHandler *handlers.RequestHandler,
	userHandler *handlers.UserHandler,
	sessionHandler *handlers.SessionHandler,
	paymentHandler *handlers.PaymentHandler,
	sseHandler *handlers.SSEHandler,
	metrics *observability.Metrics,
) *Router {
	if healthHandler == nil {
		healthHandler = handlers.NewHealthHandler()
	}
	return &Router{
		mux:            http.NewServeMux(),
		healthHandler:  healthHandler,
		requestHandler: requestHandler,
		userHandler:    userHandler,
		sessionHandler: sessionHandler,
		paymentHandler: paymentHandler,
		sseHandler:     sseHandler,
		metrics:        metrics,
		cors:           config.DefaultCORS(),
	}
}

// SetCORS replaces the default CORS policy
func (r *Router) SetCORS(cors config.CORSConfig) {
	r.cors = cors
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", r.healthHandler.Health)

	// Move request endpoints
	r.mux.HandleFunc("GET /api/requests", r.requestHandler.ListRequests)
	r.mux.HandleFunc("GET /api/requests/open", r.requestHandler.ListOpenRequests)
	r.mux.HandleFunc("GET /api/requests/{id}", r.requestHandler.GetRequest)
	r.mux.HandleFunc("POST /api/requests", r.requestHandler.CreateRequest)
	r.mux.HandleFunc("PATCH /api/requests/{id}", r.requestHandler.UpdateRequest)
	r.mux.HandleFunc("GET /api/users/{id}/requests", r.requestHandler.ListUserRequests)
	r.mux.HandleFunc("GET /api/helpers/{id}/assignments", r.requestHandler.ListHelperAssignments)
	r.mux.HandleFunc("GET /api/map/markers", r.requestHandler.ListMapMarkers)

	// User and review endpoints
	r.mux.HandleFunc("GET /api/users/{id}", r.userHandler.GetUser)
	r.mux.HandleFunc("PATCH /api/users/{id}", r.userHandler.UpdateUser)
	r.mux.HandleFunc("GET /api/helpers", r.userHandler.ListHelpers)
	r.mux.HandleFunc("GET /api/users/{id}/reviews", r.userHandler.ListReviews)
	r.mux.HandleFunc("POST /api/reviews", r.userHandler.CreateReview)

	// Session endpoints
	r.mux.HandleFunc("POST /api/auth/login", r.sessionHandler.Login)
	r.mux.HandleFunc("POST /api/auth/register", r.sessionHandler.Register)
	r.mux.HandleFunc("POST /api/auth/logout", r.sessionHandler.Logout)
	r.mux.HandleFunc("GET /api/session", r.sessionHandler.GetSession)
	r.mux.HandleFunc("PATCH /api/session", r.sessionHandler.UpdateSession)

	// Payment endpoints
	r.mux.HandleFunc("GET /api/payments/methods", r.paymentHandler.ListMethods)
	r.mux.HandleFunc("POST /api/payments", r.paymentHandler.SendPayment)

	// Event streams need an event bus
	if r.sseHandler != nil {
		r.mux.HandleFunc("GET /api/stream/events", r.sseHandler.StreamMarketplaceEvents)
		r.mux.HandleFunc("GET /api/stream/users/{id}", r.sseHandler.StreamUserEvents)
	}

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.CORSMiddleware(r.cors)(handler)

	return handler
}
