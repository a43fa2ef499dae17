package purchaseRoutes

import (
	purchaseController "kursai/controllers/purchase"
	commonValidator "kursai/validators/common"

	"github.com/gofiber/fiber/v2"
)

func SetupPurchaseRoutes(app fiber.Router, ctl *purchaseController.Controller, jwt fiber.Handler) {
	purchaseGroup := app.Group("/purchases", jwt)
	courseID := commonValidator.IDParam("courseId", "Course ID")

	purchaseGroup.Get("/", ctl.GetPurchases)
	purchaseGroup.Get("/check/:courseId", courseID, ctl.CheckPurchase)
	purchaseGroup.Post("/:courseId", courseID, ctl.PurchaseCourse)
}
