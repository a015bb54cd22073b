package routes

import (
	"github.com/BradenHooton/bastion/internal/handlers"
	"github.com/BradenHooton/bastion/internal/middleware"
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	authHandler *handlers.AuthHandler,
	dashboardHandler *handlers.DashboardHandler,
) {
	// Volume guard on the attempt-facing endpoints; the per-account lockout
	// lives in the policy engine.
	rateLimitConfig := middleware.DefaultAuthRateLimit()

	router.With(middleware.RateLimitByIP(rateLimitConfig)).Post("/auth/login", authHandler.Login)
	router.With(middleware.RateLimitByIP(rateLimitConfig)).Post("/auth/register", authHandler.Register)

	router.Post("/admin/unlock/{username}", authHandler.Unlock)

	router.Get("/dashboard/events", dashboardHandler.GetEvents)
	router.Get("/dashboard/summary", dashboardHandler.GetSummary)
}
