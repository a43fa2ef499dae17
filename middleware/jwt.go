package middleware

import (
	"context"
	"strings"

	"kursai/services"

	"github.com/gofiber/fiber/v2"
)

const (
	principalKey = "principal"
	tokenKey     = "token"
)

// Authenticator resolves a bearer token to the current user.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (*services.Principal, error)
}

// JWTMiddleware checks the bearer token and stores the resolved principal in
// the request context.
func JWTMiddleware(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Get the token from the Authorization header
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Missing or invalid Authorization header", nil)
		}

		// The token should be prefixed with "Bearer "
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid Authorization header format", nil)
		}
		tokenString := strings.TrimSpace(authHeader[len("Bearer "):])

		principal, err := auth.Authenticate(c.UserContext(), tokenString)
		if err != nil {
			return ErrorResponse(c, err)
		}

		c.Locals(principalKey, *principal)
		c.Locals(tokenKey, tokenString)
		return c.Next()
	}
}

// CurrentPrincipal returns the caller set by JWTMiddleware.
func CurrentPrincipal(c *fiber.Ctx) (services.Principal, bool) {
	p, ok := c.Locals(principalKey).(services.Principal)
	return p, ok
}

// BearerToken returns the raw token accepted by JWTMiddleware.
func BearerToken(c *fiber.Ctx) string {
	tok, _ := c.Locals(tokenKey).(string)
	return tok
}
