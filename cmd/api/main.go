// Package main provides the entrypoint for the accessibility navigator API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/socnav/socnav/internal/api"
	"github.com/socnav/socnav/internal/api/middleware"
	"github.com/socnav/socnav/internal/assistant"
	"github.com/socnav/socnav/internal/auth"
	"github.com/socnav/socnav/internal/catalog"
	"github.com/socnav/socnav/internal/database"
	"github.com/socnav/socnav/internal/lexicon"
	"github.com/socnav/socnav/internal/navigator"
	"github.com/socnav/socnav/internal/provider/resilience"
	"github.com/socnav/socnav/internal/recommend"
	"github.com/socnav/socnav/internal/review"
	"github.com/socnav/socnav/internal/routing"
	"github.com/socnav/socnav/internal/routing/graphhopper"
	"github.com/socnav/socnav/internal/routing/openrouteservice"
	"github.com/socnav/socnav/internal/routing/osrm"
	"github.com/socnav/socnav/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "socnav-api"

	// Local development convenience; the file is absent in production.
	_ = godotenv.Load()

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Database).
		Msg("database connected")

	// Load the destination catalog (embedded data)
	catalogRepo, err := catalog.NewRepository()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load catalog")
	}
	log.Info().Int("destinations", catalogRepo.Count()).Msg("catalog loaded")

	// Initialize JWT service (get signing key from environment)
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		jwtSigningKey = "local-dev-signing-key-change-in-production"
		log.Warn().Msg("using default JWT signing key - not secure for production")
	}

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SigningKey: jwtSigningKey,
	})

	authService := auth.NewService(auth.ServiceConfig{
		JWTService: jwtService,
		UserRepo:   auth.NewPostgresUserRepository(pool),
	})
	log.Info().Msg("auth service initialized")

	// Initialize review service; the Pub/Sub publisher is optional
	var publisher review.EventPublisher
	if projectID := os.Getenv("PUBSUB_PROJECT_ID"); projectID != "" {
		topic := os.Getenv("PUBSUB_TOPIC")
		if topic == "" {
			topic = "review-events"
		}
		pub, pubErr := review.NewPubSubPublisher(ctx, review.PubSubPublisherConfig{
			ProjectID: projectID,
			Topic:     topic,
			Logger:    log,
		})
		if pubErr != nil {
			log.Fatal().Err(pubErr).Msg("failed to create pubsub publisher")
		}
		defer pub.Close()
		publisher = pub
		log.Info().Str("topic", topic).Msg("review event publisher initialized")
	} else {
		log.Warn().Msg("PUBSUB_PROJECT_ID not set - review events disabled")
	}

	reviewService := review.NewService(review.ServiceConfig{
		Repo:      review.NewPostgresRepository(pool),
		Publisher: publisher,
		Logger:    log,
	})
	log.Info().Msg("review service initialized")

	// Shared health registry for all outbound providers
	registry := resilience.NewRegistry()

	// Routing provider chain, in strict failover order
	providers := []routing.Provider{
		osrm.NewClient(osrm.ClientConfig{
			Mirrors:  splitEnvList("OSRM_MIRRORS"),
			Registry: registry,
			Logger:   log,
		}),
		graphhopper.NewClient(graphhopper.ClientConfig{
			APIKey:   os.Getenv("GRAPHHOPPER_API_KEY"),
			Registry: registry,
			Logger:   log,
		}),
	}
	if orsKey := os.Getenv("ORS_API_KEY"); orsKey != "" {
		providers = append(providers, openrouteservice.NewClient(openrouteservice.ClientConfig{
			APIKey:   orsKey,
			Registry: registry,
			Logger:   log,
		}))
	} else {
		log.Warn().Msg("ORS_API_KEY not set - OpenRouteService excluded from the chain")
	}

	routingService := routing.NewService(routing.ServiceConfig{
		Chain: routing.NewChain(routing.ChainConfig{
			Providers: providers,
			Logger:    log,
		}),
		Logger: log,
	})
	log.Info().Int("providers", len(providers)).Msg("routing chain initialized")

	// Assistant client; disabled without an API key
	assistantClient := assistant.NewClient(assistant.ClientConfig{
		APIKey:   os.Getenv("GIGACHAT_API_KEY"),
		BaseURL:  os.Getenv("GIGACHAT_BASE_URL"),
		Model:    os.Getenv("GIGACHAT_MODEL"),
		Registry: registry,
		Logger:   log,
	})
	if assistantClient.Enabled() {
		log.Info().Msg("assistant client initialized")
	} else {
		log.Warn().Msg("GIGACHAT_API_KEY not set - assistant disabled")
	}

	navService := navigator.NewService(navigator.ServiceConfig{
		Analyzer:  lexicon.NewAnalyzer(),
		Selector:  recommend.NewSelector(catalogRepo, recommend.Config{Logger: log}),
		Router:    routingService,
		Catalog:   catalogRepo,
		Commenter: assistantClient,
		Logger:    log,
	})

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:       Version,
		BuildTime:     BuildTime,
		Logger:        log,
		ServiceName:   serviceName,
		Metrics:       metrics,
		AuthService:   authService,
		ReviewService: reviewService,
		CatalogRepo:   catalogRepo,
		Navigator:     navService,
		Assistant:     assistantClient,
		DB:            pool,
		Registry:      registry,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}

// splitEnvList reads a comma-separated environment variable.
func splitEnvList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
