package ratingController

import (
	"kursai/middleware"
	"kursai/services"
	commonValidator "kursai/validators/common"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	ratings *services.RatingService
}

func New(ratings *services.RatingService) *Controller {
	return &Controller{ratings: ratings}
}

func (ctl *Controller) GetCourseRatings(c *fiber.Ctx) error {
	ratings, err := ctl.ratings.ListForCourse(c.UserContext(), commonValidator.ID(c, "courseId"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Ratings fetched successfully!", ratings)
}

func (ctl *Controller) GetCourseRatingStats(c *fiber.Ctx) error {
	stats, err := ctl.ratings.Stats(c.UserContext(), commonValidator.ID(c, "courseId"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Rating stats fetched successfully!", stats)
}

func (ctl *Controller) GetMyRating(c *fiber.Ctx) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	rating, err := ctl.ratings.GetMine(c.UserContext(), p, commonValidator.ID(c, "courseId"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Rating fetched successfully!", rating)
}

func (ctl *Controller) CreateRating(c *fiber.Ctx) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	reqData := c.Locals("validatedRating").(*services.RatingInput)

	rating, err := ctl.ratings.Create(c.UserContext(), p, commonValidator.ID(c, "courseId"), *reqData)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Rating submitted successfully!", rating)
}

func (ctl *Controller) UpdateRating(c *fiber.Ctx) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	reqData := c.Locals("validatedRating").(*services.RatingInput)

	rating, err := ctl.ratings.Update(c.UserContext(), p, commonValidator.ID(c, "id"), *reqData)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Rating updated successfully!", rating)
}

func (ctl *Controller) DeleteRating(c *fiber.Ctx) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	if err := ctl.ratings.Delete(c.UserContext(), p, commonValidator.ID(c, "id")); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
