package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillswap/internal/adapters/persistence/models"
	"skillswap/internal/adapters/persistence/repositories"
)

func newErrorTestApp(t *testing.T, errorLogRepo *repositories.ErrorLogRepository, debug bool) *fiber.App {
	t.Helper()

	app := fiber.New(fiber.Config{
		ErrorHandler: NewErrorHandler(zerolog.Nop(), errorLogRepo, debug),
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("database connection refused")
	})
	app.Get("/missing", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "No such thing")
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, target string) (int, map[string]interface{}) {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest("GET", target, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	return resp.StatusCode, body
}

func TestErrorHandlerDebugModeExposesDetail(t *testing.T) {
	db := newAuthTestDB(t)
	repo := repositories.NewErrorLogRepository(db)
	app := newErrorTestApp(t, repo, true)

	code, body := doRequest(t, app, "/boom")
	assert.Equal(t, fiber.StatusInternalServerError, code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Internal Server Error", body["message"])
	assert.NotEmpty(t, body["timestamp"])

	detail, ok := body["errors"].(map[string]interface{})
	require.True(t, ok, "debug responses should carry error detail")
	assert.Equal(t, "database connection refused", detail["detail"])
	assert.Equal(t, "GET", detail["method"])
	assert.Equal(t, "/boom", detail["path"])
	assert.NotEmpty(t, detail["type"])

	var logged models.ErrorLog
	require.NoError(t, db.First(&logged).Error)
	assert.Equal(t, "database connection refused", logged.Message)
	assert.Equal(t, "/boom", logged.Path)
}

func TestErrorHandlerProductionModeHidesDetail(t *testing.T) {
	app := newErrorTestApp(t, nil, false)

	code, body := doRequest(t, app, "/boom")
	assert.Equal(t, fiber.StatusInternalServerError, code)
	assert.Equal(t, "Internal Server Error", body["message"])
	assert.NotEmpty(t, body["timestamp"])
	_, hasDetail := body["errors"]
	assert.False(t, hasDetail, "production responses must not leak error detail")
}

func TestErrorHandlerPassesThroughFiberErrors(t *testing.T) {
	app := newErrorTestApp(t, nil, true)

	code, body := doRequest(t, app, "/missing")
	assert.Equal(t, fiber.StatusNotFound, code)
	assert.Equal(t, "No such thing", body["message"])
	_, hasDetail := body["errors"]
	assert.False(t, hasDetail)
}

func TestAuthRateLimiterEnvelope(t *testing.T) {
	app := fiber.New()
	app.Get("/login", AuthRateLimiter(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	for i := 0; i < 5; i++ {
		r, err := app.Test(httptest.NewRequest("GET", "/login", nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, r.StatusCode)
	}

	r, err := app.Test(httptest.NewRequest("GET", "/login", nil))
	require.NoError(t, err)
	defer r.Body.Close()
	assert.Equal(t, fiber.StatusTooManyRequests, r.StatusCode)
	assert.Equal(t, "60", r.Header.Get(fiber.HeaderRetryAfter))

	raw, err := io.ReadAll(r.Body)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Too many attempts, please wait a minute", body["message"])
	assert.NotEmpty(t, body["timestamp"])
}
