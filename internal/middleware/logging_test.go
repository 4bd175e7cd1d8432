package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCtxHandler_AddsRequestScopedAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(&ctxHandler{slog.NewJSONHandler(&buf, nil)}).With(slog.String("component", "test"))

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	ctx = context.WithValue(ctx, UserIDKey, uint(9))
	logger.InfoContext(ctx, "hello")

	out := buf.String()
	assert.Contains(t, out, `"request_id":"req-1"`)
	assert.Contains(t, out, `"user_id":9`)
	assert.Contains(t, out, `"component":"test"`)
}

func TestContextMiddleware_CopiesLocals(t *testing.T) {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("requestid", "abc")
		c.Locals("userID", uint(3))
		return c.Next()
	})
	app.Use(ContextMiddleware())
	app.Get("/", func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		assert.Equal(t, "abc", ctx.Value(RequestIDKey))
		assert.Equal(t, uint(3), ctx.Value(UserIDKey))
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestNewLogger_PerEnvironment(t *testing.T) {
	inner := func(env string) slog.Handler {
		h, ok := NewLogger(env).Handler().(*ctxHandler)
		require.True(t, ok, env)
		return h.Handler
	}

	assert.IsType(t, &slog.JSONHandler{}, inner("production"))
	assert.IsType(t, &slog.TextHandler{}, inner(""), "unset env logs plain text")
	assert.IsType(t, &slog.TextHandler{}, inner("test"))

	dev := inner("development")
	assert.NotNil(t, dev)
	assert.IsNotType(t, &slog.TextHandler{}, dev)
	assert.IsNotType(t, &slog.JSONHandler{}, dev)
}
