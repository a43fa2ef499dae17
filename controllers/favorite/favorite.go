package favoriteController

import (
	"kursai/middleware"
	"kursai/services"
	commonValidator "kursai/validators/common"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	favorites *services.FavoriteService
}

func New(favorites *services.FavoriteService) *Controller {
	return &Controller{favorites: favorites}
}

func (ctl *Controller) GetFavorites(c *fiber.Ctx) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courses, err := ctl.favorites.List(c.UserContext(), p)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Favorites fetched successfully!", courses)
}

func (ctl *Controller) AddFavorite(c *fiber.Ctx) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	fav, err := ctl.favorites.Add(c.UserContext(), p, commonValidator.ID(c, "courseId"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course added to favorites!", fav)
}

func (ctl *Controller) RemoveFavorite(c *fiber.Ctx) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	if err := ctl.favorites.Remove(c.UserContext(), p, commonValidator.ID(c, "courseId")); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (ctl *Controller) CheckFavorite(c *fiber.Ctx) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	isFavorite, err := ctl.favorites.Check(c.UserContext(), p, commonValidator.ID(c, "courseId"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Favorite status fetched!", fiber.Map{"isFavorite": isFavorite})
}
