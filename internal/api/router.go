// Package api provides the HTTP API for the accessibility navigator.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/socnav/socnav/internal/api/handler"
	"github.com/socnav/socnav/internal/api/middleware"
	"github.com/socnav/socnav/internal/assistant"
	"github.com/socnav/socnav/internal/auth"
	"github.com/socnav/socnav/internal/catalog"
	"github.com/socnav/socnav/internal/navigator"
	"github.com/socnav/socnav/internal/provider/resilience"
	"github.com/socnav/socnav/internal/review"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version       string
	BuildTime     string
	Logger        zerolog.Logger
	ServiceName   string
	Metrics       *middleware.Metrics
	AuthService   *auth.Service
	ReviewService *review.Service
	CatalogRepo   *catalog.Repository
	Navigator     *navigator.Service
	Assistant     *assistant.Client
	DB            handler.Pinger
	Registry      *resilience.Registry
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "socnav-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.DB, cfg.Registry)
	authHandler := handler.NewAuthHandler(cfg.AuthService, cfg.ReviewService)
	objectsHandler := handler.NewObjectsHandler(cfg.CatalogRepo)
	reviewHandler := handler.NewReviewHandler(cfg.ReviewService, cfg.CatalogRepo)
	routeHandler := handler.NewRouteHandler(cfg.Navigator)
	assistantHandler := handler.NewAssistantHandler(cfg.Assistant)

	// Create auth middleware
	authMiddleware := middleware.Auth(cfg.AuthService)

	// Create rate limit middleware for different endpoint categories
	authRateLimit := middleware.RateLimitByIP(middleware.AuthRateLimit)           // 10 req/min
	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)   // 100 req/min

	r.Route("/api", func(r chi.Router) {
		// Auth endpoints - strict rate limiting on the public ones
		r.Route("/auth", func(r chi.Router) {
			r.With(authRateLimit).Post("/register", authHandler.Register)
			r.With(authRateLimit).Post("/login", authHandler.Login)
			r.With(authMiddleware).Get("/me", authHandler.Me)
		})

		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.Get("/status", opsHandler.SystemStatus)
		})

		// Catalog and reviews - standard rate limiting
		r.Route("/objects", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/", objectsHandler.List)
			r.Route("/{objectId}", func(r chi.Router) {
				r.Get("/", objectsHandler.Get)
				r.Get("/summary", reviewHandler.Summary)
				r.Route("/reviews", func(r chi.Router) {
					r.Get("/", reviewHandler.List)
					r.With(authMiddleware).Post("/", reviewHandler.Create)
					r.With(authMiddleware).Delete("/{reviewId}", reviewHandler.Delete)
				})
			})
		})

		// Review deletion without the object prefix
		r.With(authMiddleware).Delete("/reviews/{reviewId}", reviewHandler.Delete)

		// Route building - expensive compute, strict rate limiting
		r.With(expensiveRateLimit).Post("/routes/build", routeHandler.Build)

		// Assistant proxy - upstream calls are metered, rate limit hard
		r.With(expensiveRateLimit).Post("/gigachat/v1/chat/completions", assistantHandler.ChatCompletions)
	})

	return r
}
