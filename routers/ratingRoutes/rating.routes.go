package ratingRoutes

import (
	ratingController "kursai/controllers/rating"
	commonValidator "kursai/validators/common"
	ratingValidator "kursai/validators/rating"

	"github.com/gofiber/fiber/v2"
)

// SetupRatingRoutes mounts /ratings. Reads are public.
func SetupRatingRoutes(app fiber.Router, ctl *ratingController.Controller, jwt fiber.Handler) {
	ratingGroup := app.Group("/ratings")
	courseID := commonValidator.IDParam("courseId", "Course ID")
	ratingID := commonValidator.IDParam("id", "Rating ID")

	ratingGroup.Get("/course/:courseId", courseID, ctl.GetCourseRatings)
	ratingGroup.Get("/course/:courseId/stats", courseID, ctl.GetCourseRatingStats)
	ratingGroup.Get("/course/:courseId/user", jwt, courseID, ctl.GetMyRating)
	ratingGroup.Post("/course/:courseId", jwt, courseID, ratingValidator.CreateRating(), ctl.CreateRating)

	ratingGroup.Put("/:id", jwt, ratingID, ratingValidator.UpdateRating(), ctl.UpdateRating)
	ratingGroup.Delete("/:id", jwt, ratingID, ctl.DeleteRating)
}
