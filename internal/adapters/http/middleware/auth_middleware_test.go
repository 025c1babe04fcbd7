package middleware

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"skillswap/internal/adapters/persistence/models"
	"skillswap/internal/adapters/persistence/repositories"
	"skillswap/internal/config"
	"skillswap/internal/pkg/jwt"
)

const authTestSecret = "auth-middleware-test-secret"

func newAuthTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, models.AutoMigrate(db))
	return db
}

// newAuthTestApp mounts the auth gate in front of a handler that echoes
// the principal it was given.
func newAuthTestApp(t *testing.T, db *gorm.DB) *fiber.App {
	t.Helper()

	cfg := &config.Config{JWT: config.JWTConfig{Secret: authTestSecret}}

	app := fiber.New()
	app.Get("/protected",
		AuthMiddleware(cfg, repositories.NewUserRepository(db), repositories.NewAdminRepository(db)),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{
				"actorID":  c.Locals("actorID"),
				"username": c.Locals("username"),
			})
		})
	return app
}

func requestWithToken(t *testing.T, app *fiber.App, token string) (int, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest("GET", "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	return resp.StatusCode, body
}

func TestAuthMiddlewareAcceptsActiveUser(t *testing.T) {
	db := newAuthTestDB(t)
	user := &models.User{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "hashed",
		Status:   models.UserStatusActive,
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	app := newAuthTestApp(t, db)

	token, err := jwt.GenerateAccessToken(user.ID, jwt.ActorUser, user.Username, "", authTestSecret, 15)
	require.NoError(t, err)

	code, body := requestWithToken(t, app, token)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "alice", body["username"])
}

func TestAuthMiddlewareRejectsSuspendedUserWithLiveToken(t *testing.T) {
	db := newAuthTestDB(t)
	user := &models.User{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "hashed",
		Status:   models.UserStatusActive,
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	app := newAuthTestApp(t, db)

	token, err := jwt.GenerateAccessToken(user.ID, jwt.ActorUser, user.Username, "", authTestSecret, 15)
	require.NoError(t, err)

	// Token is still well within its lifetime when the account is suspended.
	require.NoError(t, db.Model(user).Update("status", models.UserStatusSuspended).Error)

	code, body := requestWithToken(t, app, token)
	assert.Equal(t, fiber.StatusUnauthorized, code)
	assert.Equal(t, "Account is not active", body["message"])
	assert.Equal(t, false, body["success"])
}

func TestAuthMiddlewareRejectsInactiveAdmin(t *testing.T) {
	db := newAuthTestDB(t)
	admin := &models.Admin{
		Username: "mod",
		Email:    "mod@example.com",
		Password: "hashed",
		Role:     models.AdminRoleModerator,
		Status:   models.AdminStatusActive,
	}
	require.NoError(t, db.Create(admin).Error)
	app := newAuthTestApp(t, db)

	token, err := jwt.GenerateAccessToken(admin.ID, jwt.ActorAdmin, admin.Username, admin.Role, authTestSecret, 15)
	require.NoError(t, err)

	code, _ := requestWithToken(t, app, token)
	assert.Equal(t, fiber.StatusOK, code)

	require.NoError(t, db.Model(admin).Update("status", models.AdminStatusInactive).Error)

	code, body := requestWithToken(t, app, token)
	assert.Equal(t, fiber.StatusUnauthorized, code)
	assert.Equal(t, "Account is not active", body["message"])
}

func TestAuthMiddlewareRejectsMissingAndExpiredTokens(t *testing.T) {
	db := newAuthTestDB(t)
	user := &models.User{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "hashed",
		Status:   models.UserStatusActive,
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	app := newAuthTestApp(t, db)

	code, body := requestWithToken(t, app, "")
	assert.Equal(t, fiber.StatusUnauthorized, code)
	assert.Equal(t, "Access token required", body["message"])

	expired, err := jwt.GenerateAccessToken(user.ID, jwt.ActorUser, user.Username, "", authTestSecret, -1)
	require.NoError(t, err)

	code, body = requestWithToken(t, app, expired)
	assert.Equal(t, fiber.StatusUnauthorized, code)
	assert.Equal(t, "Access token expired", body["message"])
}
