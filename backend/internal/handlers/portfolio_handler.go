package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// GetPortfolio returns the value, cost and gain/loss totals of a user's assets.
func (h *Handler) GetPortfolio(c *fiber.Ctx) error {
	userID, err := queryUserID(c)
	if err != nil {
		return err
	}
	if userID, err = authorize(c, userID); err != nil {
		return err
	}

	summary, err := h.assets.Summary(c.Context(), userID)
	if err != nil {
		return wrapUnexpected("Failed to retrieve portfolio summary", err)
	}

	return c.JSON(summary)
}
