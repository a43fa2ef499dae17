package purchaseController

import (
	"kursai/middleware"
	"kursai/services"
	commonValidator "kursai/validators/common"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	purchases *services.PurchaseService
}

func New(purchases *services.PurchaseService) *Controller {
	return &Controller{purchases: purchases}
}

func (ctl *Controller) GetPurchases(c *fiber.Ctx) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courses, err := ctl.purchases.List(c.UserContext(), p)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Purchases fetched successfully!", courses)
}

func (ctl *Controller) PurchaseCourse(c *fiber.Ctx) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	purchase, err := ctl.purchases.Purchase(c.UserContext(), p, commonValidator.ID(c, "courseId"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course purchased successfully!", fiber.Map{
		"id":           purchase.ID,
		"courseId":     purchase.CourseID,
		"price":        purchase.Price.InexactFloat64(),
		"purchaseDate": purchase.PurchaseDate,
	})
}

func (ctl *Controller) CheckPurchase(c *fiber.Ctx) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	purchased, err := ctl.purchases.HasPurchased(c.UserContext(), p, commonValidator.ID(c, "courseId"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Purchase status fetched!", fiber.Map{"hasPurchased": purchased})
}
