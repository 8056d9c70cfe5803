package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/user/stockpile/backend/internal/apperr"
	"github.com/user/stockpile/backend/internal/auth"
)

func newTestApp(tokens *auth.Tokens, require bool) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var e *apperr.Error
			if errors.As(err, &e) {
				return c.Status(e.Status()).SendString(e.Message)
			}
			return c.SendStatus(fiber.StatusInternalServerError)
		},
	})
	app.Get("/whoami", Identity(tokens, require), func(c *fiber.Ctx) error {
		id, ok := UserID(c)
		if !ok {
			return c.SendString("anonymous")
		}
		return c.SendString(strconv.FormatInt(id, 10))
	})
	return app
}

func do(t *testing.T, app *fiber.App, header string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestIdentity(t *testing.T) {
	tokens := auth.NewTokens("secret", time.Hour)
	token, err := tokens.Generate(7, "a@x.com")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	foreign, _ := auth.NewTokens("other", time.Hour).Generate(7, "a@x.com")

	tests := []struct {
		name     string
		require  bool
		header   string
		wantCode int
		wantBody string
	}{
		{"optional anonymous", false, "", 200, "anonymous"},
		{"optional valid", false, "Bearer " + token, 200, "7"},
		{"lowercase scheme", false, "bearer " + token, 200, "7"},
		{"bad format", false, "Token " + token, 401, "Invalid authorization header format"},
		{"bad signature", false, "Bearer " + foreign, 401, "Invalid or expired token"},
		{"required missing", true, "", 401, "Missing authorization header"},
		{"required valid", true, "Bearer " + token, 200, "7"},
	}
	for _, tt := range tests {
		app := newTestApp(tokens, tt.require)
		code, body := do(t, app, tt.header)
		if code != tt.wantCode || body != tt.wantBody {
			t.Errorf("%s: got %d %q; want %d %q", tt.name, code, body, tt.wantCode, tt.wantBody)
		}
	}
}
