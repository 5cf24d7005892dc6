package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/profile-registry/internal/config"
	"github.com/ahmetcoskunkizilkaya/profile-registry/internal/handlers"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	registrationHandler *handlers.RegistrationHandler,
	userHandler *handlers.UserHandler,
	healthHandler *handlers.HealthHandler,
) {
	// Health is outside the rate limit so probes never get throttled.
	app.Get("/health", healthHandler.Check)

	// Per-IP sliding window; disabled with RATE_LIMIT_PER_MINUTE=0.
	if cfg.RateLimitPerMinute > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:               cfg.RateLimitPerMinute,
			Expiration:        1 * time.Minute,
			LimiterMiddleware: limiter.SlidingWindow{},
			KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
		}))
	}

	app.Post("/register/", registrationHandler.Register)
	app.Get("/user/:user_id", userHandler.GetUser)
	app.Get("/profile-picture/:user_id", userHandler.GetProfilePicture)
}
