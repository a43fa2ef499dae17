package authRoutes

import (
	"time"

	authController "kursai/controllers/auth"
	"kursai/middleware"
	authValidator "kursai/validators/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// SetupAuthRoutes mounts /auth. rateLimit caps requests per client per
// minute; zero disables the limiter.
func SetupAuthRoutes(app fiber.Router, ctl *authController.Controller, jwt fiber.Handler, rateLimit int) {
	authGroup := app.Group("/auth")

	if rateLimit > 0 {
		authGroup.Use(limiter.New(limiter.Config{
			Max:        rateLimit,
			Expiration: time.Minute,
			LimitReached: func(c *fiber.Ctx) error {
				return middleware.JsonResponse(c, fiber.StatusTooManyRequests, false, "Too many requests, try again later!", nil)
			},
		}))
	}

	authGroup.Post("/register", authValidator.Register(), ctl.Register)
	authGroup.Post("/login", authValidator.Login(), ctl.Login)
	authGroup.Get("/validate", jwt, ctl.Validate)
}
