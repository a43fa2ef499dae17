package commonValidator

import (
	"strconv"
	"strings"

	"kursai/middleware"

	"github.com/gofiber/fiber/v2"
)

// IDParam validates a positive integer route parameter and stores it as uint
// under the parameter's name.
func IDParam(param, label string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params(param))
		if idStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, label+" is required!", nil)
		}

		id, err := strconv.ParseUint(idStr, 10, 32)
		if err != nil || id == 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid "+label+"!", nil)
		}

		c.Locals(param, uint(id))
		return c.Next()
	}
}

// ID returns the id stored by IDParam.
func ID(c *fiber.Ctx, param string) uint {
	id, _ := c.Locals(param).(uint)
	return id
}
