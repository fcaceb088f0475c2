package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/campusmove/internal/adapters/cache"
	"github.com/zatekoja/campusmove/internal/adapters/events"
	"github.com/zatekoja/campusmove/internal/adapters/memory"
	"github.com/zatekoja/campusmove/internal/adapters/providers/geolocation"
	"github.com/zatekoja/campusmove/internal/adapters/providers/payment"
	"github.com/zatekoja/campusmove/internal/api/handlers"
	"github.com/zatekoja/campusmove/internal/api/routes"
	"github.com/zatekoja/campusmove/internal/application/services"
	"github.com/zatekoja/campusmove/internal/domain/providers"
	"github.com/zatekoja/campusmove/internal/infrastructure/clients/redis"
	"github.com/zatekoja/campusmove/internal/infrastructure/observability"
	"github.com/zatekoja/campusmove/pkg/config"
	"github.com/zatekoja/campusmove/pkg/retry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	observability.InitLogger(cfg.App.Name, cfg.App.Environment)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// Load the fixture into the one store this process owns
	seed, err := memory.LoadSeed(cfg.Seed.File)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load seed")
	}
	store := memory.NewStore(seed)
	users, requests, reviews := store.Counts()
	log.Info().Int("users", users).Int("requests", requests).Int("reviews", reviews).Msg("store seeded")

	// Redis is optional; it carries marketplace events and can hold the session
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redis.NewClient(ctx, &cfg.Redis, retry.DefaultConfig())
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize Redis client")
		}
		defer redisClient.Close()
		log.Info().Str("addr", cfg.Redis.RedisAddr()).Msg("connected to Redis")
	}

	marketplace := services.NewMarketplaceService(
		memory.NewUserAdapter(store),
		memory.NewMoveRequestAdapter(store),
		memory.NewReviewAdapter(store),
		cfg.Latency,
	)
	marketplace.SetMetrics(metrics)

	var sseHandler *handlers.SSEHandler
	if redisClient != nil {
		eventBus := events.NewRedisEventBus(redisClient)
		sseHandler = handlers.NewSSEHandler(eventBus)
		defer eventBus.Close()
		marketplace.SetEventBus(eventBus)

		feed, err := eventBus.Subscribe(ctx, providers.EventChannelMarketplace)
		if err != nil {
			log.Warn().Err(err).Msg("failed to subscribe to marketplace events")
		} else {
			go func() {
				for event := range feed {
					log.Debug().
						Str("event_type", string(event.Type)).
						Str("entity_id", event.EntityID).
						Msg("marketplace event")
				}
			}()
		}
	}

	var sessionStore providers.CacheProvider
	switch cfg.Session.Backend {
	case config.SessionBackendRedis:
		sessionStore = cache.NewRedisAdapter(redisClient, "campusmove:session:")
	case config.SessionBackendMemory:
		sessionStore = cache.NewMemoryAdapter()
	default:
		sessionStore = cache.NewFileAdapter(cfg.Session.FilePath)
	}
	session := services.NewSessionService(sessionStore, cfg.Session.LoadDelay)
	go func() {
		if err := session.Initialize(ctx); err != nil {
			log.Error().Err(err).Msg("session initialization failed")
		}
	}()

	geoProvider := geolocation.NewMockGeolocationProvider()
	marketplace.SetGeolocation(geoProvider)
	requestForm := services.NewRequestFormService(marketplace, session, geoProvider)
	payments := services.NewPaymentService(marketplace, session, payment.NewSimulatedProvider(cfg.Latency.Payment))

	health := handlers.NewHealthHandler()
	if redisClient != nil {
		health.AddCheck("redis", redisClient.Ping)
	}

	router := routes.NewRouter(
		health,
		handlers.NewRequestHandler(marketplace, requestForm),
		handlers.NewUserHandler(marketplace, session),
		handlers.NewSessionHandler(marketplace, session),
		handlers.NewPaymentHandler(payments),
		sseHandler,
		metrics,
	)
	router.SetCORS(cfg.CORS)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Str("session_backend", cfg.Session.Backend).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}
