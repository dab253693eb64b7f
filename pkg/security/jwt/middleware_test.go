package jwt

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placeshare/places/pkg/auth"
)

func newGuardedApp(gen *Generator) *fiber.App {
	app := fiber.New()
	app.Use(NewAuthMiddleware(gen))
	app.Get("/protected", func(c *fiber.Ctx) error {
		uid, _ := c.Locals(LocalsUserID).(string)
		return c.SendString(uid)
	})
	app.Options("/protected", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	gen := NewGenerator("test-secret", "places-backend", time.Hour)
	app := newGuardedApp(gen)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/protected", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	gen := NewGenerator("test-secret", "places-backend", time.Hour)
	app := newGuardedApp(gen)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	expired := NewGenerator("test-secret", "places-backend", -time.Minute)
	token, err := expired.Generate(context.Background(), auth.User{ID: uuid.New(), Email: "a@b.c"})
	require.NoError(t, err)

	app := newGuardedApp(NewGenerator("test-secret", "places-backend", time.Hour))
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	gen := NewGenerator("test-secret", "places-backend", time.Hour)
	user := auth.User{ID: uuid.New(), Email: "a@b.c"}
	token, err := gen.Generate(context.Background(), user)
	require.NoError(t, err)

	app := newGuardedApp(gen)

	// Both the Bearer prefix and the bare token are accepted.
	for _, header := range []string{"Bearer " + token, token} {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", header)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, user.ID.String(), string(body))
	}
}

func TestAuthMiddlewarePreflightPassthrough(t *testing.T) {
	gen := NewGenerator("test-secret", "places-backend", time.Hour)
	app := newGuardedApp(gen)

	resp, err := app.Test(httptest.NewRequest(http.MethodOptions, "/protected", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
