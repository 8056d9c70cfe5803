// Package server assembles the fiber application: middleware stack, failure
// boundary and the /api routes.
package server

import (
	"io"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/user/stockpile/backend/internal/handlers"
)

// Options tune the middleware stack.
type Options struct {
	CORSOrigins string    // comma separated, "*" for any
	AccessLog   io.Writer // defaults to stdout
}

// New returns the application serving h under /api. identity runs before the
// asset routes (see middleware.Identity).
func New(h *handlers.Handler, identity fiber.Handler, opts Options) *fiber.App {
	if opts.AccessLog == nil {
		opts.AccessLog = os.Stdout
	}
	if opts.CORSOrigins == "" {
		opts.CORSOrigins = "*"
	}

	app := fiber.New(fiber.Config{
		AppName:      "Stockpile API",
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
		Output: opts.AccessLog,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: opts.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	h.Routes(app.Group("/api"), identity)
	return app
}
