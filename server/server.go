package server

import (
	"context"
	"time"

	authController "kursai/controllers/auth"
	courseController "kursai/controllers/course"
	favoriteController "kursai/controllers/favorite"
	purchaseController "kursai/controllers/purchase"
	ratingController "kursai/controllers/rating"
	"kursai/middleware"
	"kursai/routers/authRoutes"
	"kursai/routers/courseRoutes"
	"kursai/routers/favoriteRoutes"
	"kursai/routers/purchaseRoutes"
	"kursai/routers/ratingRoutes"
	"kursai/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Pinger reports database reachability for /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Services struct {
	Auth      *services.AuthService
	Courses   *services.CourseService
	Favorites *services.FavoriteService
	Purchases *services.PurchaseService
	Ratings   *services.RatingService
}

type Options struct {
	MaxAttachmentBytes int64
	AuthRateLimit      int
	AccessLog          bool
}

// New builds the fiber app with every route mounted.
func New(svc Services, db Pinger, opts Options) *fiber.App {
	// Attachments travel as base64 data URLs, so the body can be larger than the file.
	bodyLimit := int(opts.MaxAttachmentBytes)*2 + 1<<20
	if bodyLimit < 4<<20 {
		bodyLimit = 4 << 20
	}

	app := fiber.New(fiber.Config{
		AppName:      "Kursai",
		BodyLimit:    bodyLimit,
		Immutable:    true,
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	if opts.AccessLog {
		app.Use(logger.New(logger.Config{
			Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false, "Database unavailable!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "OK", nil)
	})

	jwt := middleware.JWTMiddleware(svc.Auth)

	authRoutes.SetupAuthRoutes(app, authController.New(svc.Auth), jwt, opts.AuthRateLimit)
	courseRoutes.SetupCourseRoutes(app, courseController.NewCourseController(svc.Courses), jwt, opts.MaxAttachmentBytes)
	favoriteRoutes.SetupFavoriteRoutes(app, favoriteController.New(svc.Favorites), jwt)
	purchaseRoutes.SetupPurchaseRoutes(app, purchaseController.New(svc.Purchases), jwt)
	ratingRoutes.SetupRatingRoutes(app, ratingController.New(svc.Ratings), jwt)

	app.Use(func(c *fiber.Ctx) error {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Route not found!", nil)
	})

	return app
}
