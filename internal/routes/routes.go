package routes

import (
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	access *services.AccessService,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	workoutHandler *handlers.WorkoutHandler,
	reportHandler *handlers.ReportHandler,
	checkoutHandler *handlers.CheckoutHandler,
	webhookHandler *handlers.WebhookHandler,
	adminHandler *handlers.AdminHandler,
) {
	api := app.Group("/api")

	api.Get("/health", healthHandler.Check)

	// Auth (public)
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	// Protected routes (JWT required) - middleware is applied per route so
	// it never runs for the public endpoints above or the webhook below
	jwt := middleware.JWTProtected(cfg)
	api.Post("/auth/logout", jwt, authHandler.Logout)
	api.Get("/me", jwt, workoutHandler.Me)

	api.Get("/workouts", jwt, workoutHandler.List)
	api.Post("/workouts", jwt, workoutHandler.Create)
	api.Delete("/workouts/:id", jwt, workoutHandler.Delete)

	api.Get("/reports/average", jwt, reportHandler.Average)

	api.Post("/checkout/session", jwt, checkoutHandler.CreateSession)

	// Webhooks - authenticated by Stripe-Signature, not JWT
	api.Post("/webhooks/stripe", webhookHandler.HandleStripe)

	// Admin (JWT + admin role)
	admin := api.Group("/admin", jwt, middleware.AdminRequired(access))
	admin.Put("/users/:id/role", adminHandler.SetRole)
}
