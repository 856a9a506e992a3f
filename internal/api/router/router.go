package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/campus-guide-ai/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/campus-guide-ai/internal/http/middleware"
	"github.com/wolfman30/campus-guide-ai/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	Chat               *handlers.ChatHandler
	Health             *handlers.HealthHandler
	Reviews            *handlers.ReviewsHandler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// Per-IP limit on the chat endpoints; zero disables it.
	ChatRateLimitRPS   float64
	ChatRateLimitBurst int

	// HS256 secret for operator tokens; operator routes are mounted only when set.
	AdminToken string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	r.Use(httpmiddleware.RequestLogger(cfg.Logger))

	if cfg.Health != nil {
		r.Get("/health", cfg.Health.Health)
	}
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		if cfg.Health != nil {
			api.Get("/health", cfg.Health.Health)
		}
		if cfg.Chat != nil {
			api.Group(func(chat chi.Router) {
				if cfg.ChatRateLimitRPS > 0 && cfg.ChatRateLimitBurst > 0 {
					chat.Use(httpmiddleware.RateLimit(cfg.ChatRateLimitRPS, cfg.ChatRateLimitBurst))
				}
				chat.Post("/chat", cfg.Chat.Chat)
				chat.Post("/clear-history", cfg.Chat.ClearHistory)
			})
		}
		if cfg.Reviews != nil && cfg.AdminToken != "" {
			api.Route("/admin", func(admin chi.Router) {
				admin.Use(httpmiddleware.AdminJWT(cfg.AdminToken, cfg.Logger))
				admin.Get("/reviews/{placeID}", cfg.Reviews.Summary)
			})
		}
	})

	return r
}
