package ratingValidator

import (
	"kursai/middleware"
	"kursai/services"

	"github.com/gofiber/fiber/v2"
)

// CreateRating only parses the body. Score and review are checked by the
// service after eligibility, so an ineligible caller is rejected first.
func CreateRating() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(services.RatingInput)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		c.Locals("validatedRating", reqData)
		return c.Next()
	}
}

// UpdateRating parses and validates the new score and review
func UpdateRating() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(services.RatingInput)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := services.FieldErrors(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedRating", reqData)
		return c.Next()
	}
}
