package authController

import (
	"kursai/middleware"
	"kursai/services"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	auth *services.AuthService
}

func New(auth *services.AuthService) *Controller {
	return &Controller{auth: auth}
}

func (ctl *Controller) Register(c *fiber.Ctx) error {
	reqData := c.Locals("validatedRegister").(*services.RegisterInput)

	result, err := ctl.auth.Register(c.UserContext(), *reqData)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Registered successfully!", result)
}

func (ctl *Controller) Login(c *fiber.Ctx) error {
	reqData := c.Locals("validatedLogin").(*services.LoginInput)

	result, err := ctl.auth.Login(c.UserContext(), *reqData)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful!", result)
}

// Validate echoes the token with the caller's current profile
func (ctl *Controller) Validate(c *fiber.Ctx) error {
	result, err := ctl.auth.Validate(c.UserContext(), middleware.BearerToken(c))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Token is valid!", result)
}
