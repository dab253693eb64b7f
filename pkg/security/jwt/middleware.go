package jwt

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// LocalsUserID is the request-locals key carrying the verified caller id.
const LocalsUserID = "userId"

// NewAuthMiddleware returns a Fiber middleware that validates Bearer JWT
// (HS256) via the given Generator. On success it sets the caller's user id
// into c.Locals(LocalsUserID). Failures all answer with the same generic
// 401 so nothing about the verification leaks.
func NewAuthMiddleware(gen *Generator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// CORS pre-flight carries no credentials; let it through.
		if c.Method() == fiber.MethodOptions {
			return c.Next()
		}

		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "Authentication failed"})
		}
		// Support both "Bearer <token>" and "<token>" (no prefix).
		var tokenStr string
		if strings.Contains(authHeader, " ") {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenStr = strings.TrimSpace(parts[1])
			} else {
				tokenStr = strings.TrimSpace(authHeader)
			}
		} else {
			tokenStr = strings.TrimSpace(authHeader)
		}
		if tokenStr == "" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "Authentication failed"})
		}

		identity, err := gen.Verify(tokenStr)
		if err != nil {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "Authentication failed"})
		}
		c.Locals(LocalsUserID, identity.UserID.String())
		return c.Next()
	}
}
