package courseRoutes

import (
	controllers "kursai/controllers/course"
	commonValidator "kursai/validators/common"
	validators "kursai/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up the catalog and seller course routes
func SetupCourseRoutes(app fiber.Router, ctl *controllers.CourseController, jwt fiber.Handler, maxAttachmentBytes int64) {
	courseGroup := app.Group("/courses")
	courseID := commonValidator.IDParam("id", "Course ID")

	// Public catalog
	courseGroup.Get("/", validators.CourseList(), ctl.GetAllCourses)

	// Must be registered before /:id
	courseGroup.Get("/my-courses", jwt, ctl.GetMyCourses)

	courseGroup.Get("/:id", courseID, ctl.GetCourseDetails)

	// Seller management
	courseGroup.Post("/", jwt, validators.CourseBody(maxAttachmentBytes), ctl.CreateCourse)
	courseGroup.Put("/:id", jwt, courseID, validators.CourseBody(maxAttachmentBytes), ctl.UpdateCourse)
	courseGroup.Delete("/:id", jwt, courseID, ctl.DeleteCourse)
}
