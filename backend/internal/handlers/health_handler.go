package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// Health reports whether the API can reach the database.
func (h *Handler) Health(c *fiber.Ctx) error {
	dbTime, err := h.db.Now(c.Context())
	if err != nil {
		return wrapUnexpected("Database connection failed", err)
	}

	return c.JSON(fiber.Map{
		"status":  "ok",
		"message": "Server is running and DB is connected!",
		"dbTime":  dbTime,
	})
}
