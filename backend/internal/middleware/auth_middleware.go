package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/user/stockpile/backend/internal/apperr"
	"github.com/user/stockpile/backend/internal/auth"
)

const userIDKey = "userID"

// Identity reads an optional bearer token. A present token must be valid; the
// user id it carries is stored for downstream handlers (see UserID). When
// require is true a request without a token is rejected.
func Identity(tokens *auth.Tokens, require bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			if require {
				return apperr.NewAuth("Missing authorization header")
			}
			return c.Next()
		}

		// Expecting "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return apperr.NewAuth("Invalid authorization header format")
		}

		claims, err := tokens.Validate(parts[1])
		if err != nil {
			return apperr.NewAuth("Invalid or expired token")
		}

		c.Locals(userIDKey, claims.UserID)
		return c.Next()
	}
}

// UserID returns the user id from a validated token, if the request had one.
func UserID(c *fiber.Ctx) (int64, bool) {
	id, ok := c.Locals(userIDKey).(int64)
	return id, ok
}
