package middleware

import (
	"errors"

	"kursai/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

func JsonResponse(c *fiber.Ctx, statusCode int, status bool, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return JsonResponse(c, fiber.StatusBadRequest, false, "Validation failed!", errors)
}

// StatusFor maps a service error kind to an HTTP status.
func StatusFor(kind services.Kind) int {
	switch kind {
	case services.KindValidation, services.KindConflict, services.KindBadRequest:
		return fiber.StatusBadRequest
	case services.KindUnauthorized:
		return fiber.StatusUnauthorized
	case services.KindForbidden:
		return fiber.StatusForbidden
	case services.KindNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorResponse writes err in the response envelope. Internal failures are
// logged and answered with a generic message.
func ErrorResponse(c *fiber.Ctx, err error) error {
	var se *services.Error
	if !errors.As(err, &se) || se.Kind == services.KindInternal {
		log.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("request failed")
		return JsonResponse(c, fiber.StatusInternalServerError, false, "Something went wrong!", nil)
	}
	if se.Kind == services.KindValidation {
		return ValidationErrorResponse(c, se.Fields)
	}
	return JsonResponse(c, StatusFor(se.Kind), false, se.Message, nil)
}

// ErrorHandler is the fiber.Config ErrorHandler. It keeps fiber's own errors
// (unknown route, body too large) in the same envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonResponse(c, fe.Code, false, fe.Message, nil)
	}
	return ErrorResponse(c, err)
}
