package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/user/stockpile/backend/internal/models"
)

// CredentialsRequest is the JSON body for register and login
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse is returned with 201 on registration
type RegisterResponse struct {
	Status string       `json:"status"`
	User   *models.User `json:"user"`
}

// LoginResponse is returned with 200 on login.
// Token is a signed session token; clients may ignore it.
type LoginResponse struct {
	Message string       `json:"message"`
	User    *models.User `json:"user"`
	Token   string       `json:"token,omitempty"`
}

// Register handles user registration.
func (h *Handler) Register(c *fiber.Ctx) error {
	req := new(CredentialsRequest)
	if err := c.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cannot parse request body")
	}

	user, err := h.auth.Register(c.Context(), req.Email, req.Password)
	if err != nil {
		return wrapUnexpected("Registration failed", err)
	}

	return c.Status(fiber.StatusCreated).JSON(RegisterResponse{
		Status: "User created successfully",
		User:   user,
	})
}

// Login handles user authentication.
func (h *Handler) Login(c *fiber.Ctx) error {
	req := new(CredentialsRequest)
	if err := c.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cannot parse request body")
	}

	user, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return wrapUnexpected("Login failed", err)
	}

	resp := LoginResponse{Message: "Login successful", User: user}
	if h.tokens != nil {
		token, err := h.tokens.Generate(user.ID, user.Email)
		if err != nil {
			// The credentials were good; the client can still proceed without a token.
			log.Printf("Error generating token for user %d: %v", user.ID, err)
		}
		resp.Token = token
	}

	return c.JSON(resp)
}
