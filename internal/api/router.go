package api

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/sattvadev/fincast-ai-stock-predictor/internal/api/middleware"
	"github.com/sattvadev/fincast-ai-stock-predictor/internal/handlers"
	"github.com/sattvadev/fincast-ai-stock-predictor/internal/predict"
	"github.com/sattvadev/fincast-ai-stock-predictor/internal/store"
)

// NewRouter creates and configures the HTTP router.
// rdb is optional; when present it enables rate limiting.
func NewRouter(logger zerolog.Logger, kv store.KVStore, rdb *redis.Client, predictor *predict.Client) *chi.Mux {
	r := chi.NewRouter()

	// Metrics middleware (first to capture all requests)
	r.Use(middleware.Metrics)

	// Security middleware
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.MaxBodySize(16 * 1024)) // 16KB max body
	r.Use(middleware.RequireJSON)

	// Standard middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Recoverer)

	// Rate limiting (only when Redis is available)
	if rdb != nil {
		limiter := middleware.NewRateLimiter(rdb, logger)
		r.Use(limiter.Middleware)
	}

	// CORS - the demo frontend may be served from anywhere
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	h := handlers.NewHandler(logger, kv, predictor)

	// Metrics endpoint (for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// Static landing page
	r.Get("/", serveLandingPage)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir()))))

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/test", h.Test)

		r.Post("/predict", h.Predict)

		r.Get("/users", h.ListUsers)
		r.Post("/users", h.CreateUser)
		r.Post("/users/deleteMany", h.DeleteManyUsers)
		r.Delete("/users/{id}", h.DeleteUser)

		r.Get("/chats", h.ListChats)
		r.Post("/chats", h.CreateChat)
		r.Post("/chats/deleteMany", h.DeleteManyChats)
		r.Delete("/chats/{id}", h.DeleteChat)

		r.Get("/chats/{chatID}/messages", h.ListMessages)
		r.Post("/chats/{chatID}/messages", h.SendMessage)
	})

	return r
}

// staticDir returns the path to static files directory.
func staticDir() string {
	// Check if running from app directory (production container)
	if _, err := os.Stat("/app/web/static"); err == nil {
		return "/app/web/static"
	}
	return "web/static"
}

// serveLandingPage serves the main landing page.
func serveLandingPage(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, staticDir()+"/index.html")
}
