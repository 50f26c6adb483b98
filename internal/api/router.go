package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"github.com/teamtrackr/teamtrackr/internal/api/handlers"
	"github.com/teamtrackr/teamtrackr/internal/api/middleware"
	"github.com/teamtrackr/teamtrackr/internal/auth"
	"gorm.io/gorm"
)

type Router struct {
	chi.Router
}

type RouterConfig struct {
	DB             *gorm.DB
	Redis          *redis.Client
	Logger         *slog.Logger
	JWTService     *auth.JWTService
	AuthService    *auth.Service
	AllowedOrigins []string // CORS allowed origins
	RateLimitReqs  int      // Rate limit requests per window
	RateLimitSecs  int      // Rate limit window in seconds
}

func NewRouter(cfg RouterConfig) *Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	if cfg.RateLimitReqs > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitReqs, cfg.RateLimitSecs))
	}

	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:8080"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Authorization", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Redis)
	authHandler := handlers.NewAuthHandler(cfg.AuthService)
	userHandler := handlers.NewUserHandler(cfg.DB)
	projectHandler := handlers.NewProjectHandler(cfg.DB)
	taskHandler := handlers.NewTaskHandler(cfg.DB)
	commentHandler := handlers.NewCommentHandler(cfg.DB)
	orgHandler := handlers.NewOrganizationHandler(cfg.DB)

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	r.Route("/api/v1", func(r chi.Router) {
		// Public auth endpoints
		r.Post("/auth/register/employee", authHandler.RegisterEmployee)
		r.Post("/auth/register/organization", authHandler.RegisterOrganization)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/forgot-password", authHandler.ForgotPassword)
		r.Put("/auth/reset-password/{resettoken}", authHandler.ResetPassword)

		// Public reads
		r.Get("/users", userHandler.List)
		r.Get("/users/{id}", userHandler.Get)
		r.Get("/projects", projectHandler.List)
		r.Get("/projects/{id}", projectHandler.Get)
		r.Get("/tasks", taskHandler.List)
		r.Get("/tasks/{id}", taskHandler.Get)
		r.Get("/tasks/project/{projectId}", taskHandler.ListByProject)
		r.Get("/comments", commentHandler.List)
		r.Get("/comments/{id}", commentHandler.Get)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTService))

			r.Post("/auth/logout", authHandler.Logout)
			r.Put("/auth/updatepassword", authHandler.UpdatePassword)

			r.Get("/users/me", userHandler.Me)
			r.Put("/users/update-password", authHandler.UpdatePassword)
			r.Delete("/users/{id}/delete", userHandler.Delete)

			r.Get("/projects/organization", projectHandler.ListOwn)
			r.Post("/projects/new-project", projectHandler.Create)
			r.Patch("/projects/{id}/update", projectHandler.Update)
			r.Delete("/projects/{id}/delete", projectHandler.Delete)
			r.Post("/projects/{id}/new-task", taskHandler.Create)

			r.Patch("/tasks/{id}/update", taskHandler.Update)
			r.Delete("/tasks/{id}/delete", taskHandler.Delete)
			r.Post("/tasks/{id}/new-comment", commentHandler.Create)

			r.Patch("/comments/{id}/update", commentHandler.Update)
			r.Delete("/comments/{id}/delete", commentHandler.Delete)

			r.Patch("/organizations/approve-employee/{userId}", orgHandler.ApproveEmployee)
			r.Patch("/organizations/reject-employee/{userId}", orgHandler.RejectEmployee)
		})
	})

	return &Router{r}
}
