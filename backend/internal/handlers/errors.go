package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/user/stockpile/backend/internal/apperr"
)

// serverError pairs an unexpected failure with the generic message the client sees.
type serverError struct {
	message string
	err     error
}

func (e *serverError) Error() string { return e.message + ": " + e.err.Error() }
func (e *serverError) Unwrap() error { return e.err }

// wrapUnexpected passes expected failures through and tags anything else
// with the endpoint's generic message.
func wrapUnexpected(message string, err error) error {
	if _, ok := apperr.As(err); ok {
		return err
	}
	return &serverError{message: message, err: err}
}

// errorBody is the JSON shape of every failed response.
func errorBody(message string) fiber.Map {
	return fiber.Map{"status": "error", "message": message}
}

// ErrorHandler is the app's failure boundary. Expected failures keep their
// message; anything else is logged and answered with a generic 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if e, ok := apperr.As(err); ok {
		return c.Status(e.Status()).JSON(errorBody(e.Message))
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(errorBody(fe.Message))
	}

	message := "Server error"
	var se *serverError
	if errors.As(err, &se) {
		message = se.message
	}
	log.Printf("[%v] %s %s: %v", c.Locals("requestid"), c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(errorBody(message))
}
