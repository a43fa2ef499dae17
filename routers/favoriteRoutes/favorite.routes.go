package favoriteRoutes

import (
	favoriteController "kursai/controllers/favorite"
	commonValidator "kursai/validators/common"

	"github.com/gofiber/fiber/v2"
)

func SetupFavoriteRoutes(app fiber.Router, ctl *favoriteController.Controller, jwt fiber.Handler) {
	favoriteGroup := app.Group("/favorites", jwt)
	courseID := commonValidator.IDParam("courseId", "Course ID")

	favoriteGroup.Get("/", ctl.GetFavorites)
	favoriteGroup.Get("/check/:courseId", courseID, ctl.CheckFavorite)
	favoriteGroup.Post("/:courseId", courseID, ctl.AddFavorite)
	favoriteGroup.Delete("/:courseId", courseID, ctl.RemoveFavorite)
}
