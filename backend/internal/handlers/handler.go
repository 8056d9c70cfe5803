package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/user/stockpile/backend/internal/auth"
	"github.com/user/stockpile/backend/internal/portfolio"
)

// Clock reports the database's current time for the health check.
type Clock interface {
	Now(ctx context.Context) (time.Time, error)
}

// Handler serves the /api endpoints. It keeps no per-request state.
type Handler struct {
	auth   *auth.Service
	assets *portfolio.Service
	tokens *auth.Tokens // nil disables token issuing on login
	db     Clock
}

func New(authSvc *auth.Service, assets *portfolio.Service, tokens *auth.Tokens, db Clock) *Handler {
	return &Handler{auth: authSvc, assets: assets, tokens: tokens, db: db}
}

// Routes registers the endpoints on api. identity guards the asset routes.
func (h *Handler) Routes(api fiber.Router, identity fiber.Handler) {
	api.Get("/health", h.Health)

	authGroup := api.Group("/auth")
	authGroup.Post("/register", h.Register)
	authGroup.Post("/login", h.Login)

	api.Get("/assets", identity, h.ListAssets)
	api.Post("/assets", identity, h.CreateAsset)
	api.Get("/portfolio", identity, h.GetPortfolio)
}
