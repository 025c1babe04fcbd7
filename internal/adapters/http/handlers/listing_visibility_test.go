package handlers

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"skillswap/internal/adapters/persistence/models"
	"skillswap/internal/adapters/persistence/repositories"
	"skillswap/internal/config"
	"skillswap/internal/core/services"
)

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func newListingTestDB(t *testing.T) *gorm.DB {
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

func newListingTestApp(t *testing.T, db *gorm.DB) *fiber.App {
	t.Helper()

	cfg := &config.Config{
		Pagination: config.PaginationConfig{DefaultPerPage: 10, MaxPerPage: 100},
	}
	marketplace := services.NewMarketplaceService(
		repositories.NewServiceRepository(db),
		repositories.NewDemandRepository(db),
		repositories.NewCategoryRepository(db),
		services.NewAuditService(repositories.NewActivityLogRepository(db), zerolog.Nop()),
	)
	serviceHandler := NewServiceHandler(marketplace, cfg)
	demandHandler := NewDemandHandler(marketplace, cfg)

	withPrincipal := func(next fiber.Handler) fiber.Handler {
		return func(c *fiber.Ctx) error {
			if id := c.QueryInt("as_actor"); id > 0 {
				c.Locals("actorID", uint(id))
			}
			if c.Query("as_admin") == "1" {
				c.Locals("isAdmin", true)
			}
			return next(c)
		}
	}

	app := fiber.New()
	app.Get("/services", withPrincipal(serviceHandler.List))
	app.Get("/demands", withPrincipal(demandHandler.List))
	return app
}

func listTitles(t *testing.T, app *fiber.App, target string) []string {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest("GET", target, nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body struct {
		Data []struct {
			Title string `json:"title"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))

	titles := make([]string, 0, len(body.Data))
	for _, item := range body.Data {
		titles = append(titles, item.Title)
	}
	return titles
}

func createListing(t *testing.T, db *gorm.DB, ownerID uint, title, status string) {
	t.Helper()
	require.NoError(t, db.Create(&models.Service{
		UserID:      ownerID,
		Title:       title,
		Description: "listing",
		Price:       10,
		Status:      status,
	}).Error)
}

func createDemandRow(t *testing.T, db *gorm.DB, ownerID uint, title, status string) {
	t.Helper()
	require.NoError(t, db.Create(&models.Demand{
		UserID:      ownerID,
		Title:       title,
		Description: "demand",
		Budget:      20,
		Status:      status,
		Urgency:     models.DemandUrgencyMedium,
	}).Error)
}

func createListingUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed",
		Status:   models.UserStatusActive,
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestServiceListVisibility(t *testing.T) {
	db := newListingTestDB(t)
	owner := createListingUser(t, db, "owner")
	other := createListingUser(t, db, "other")

	createListing(t, db, owner.ID, "owner active", models.ServiceStatusActive)
	createListing(t, db, owner.ID, "owner paused", models.ServiceStatusInactive)
	createListing(t, db, other.ID, "other active", models.ServiceStatusActive)

	app := newListingTestApp(t, db)

	// Anonymous callers only see active listings, whatever they ask for.
	assert.ElementsMatch(t,
		[]string{"owner active", "other active"},
		listTitles(t, app, "/services"))
	assert.ElementsMatch(t,
		[]string{"owner active", "other active"},
		listTitles(t, app, "/services?status=inactive"))

	// Owners browsing themselves see every state.
	assert.ElementsMatch(t,
		[]string{"owner paused"},
		listTitles(t, app, "/services?user_id="+itoa(owner.ID)+"&status=inactive&as_actor="+itoa(owner.ID)))

	// Another user asking for someone else's inactive listings is forced
	// back to active.
	assert.ElementsMatch(t,
		[]string{"owner active"},
		listTitles(t, app, "/services?user_id="+itoa(owner.ID)+"&status=inactive&as_actor="+itoa(other.ID)))

	// Admins browse any status.
	assert.ElementsMatch(t,
		[]string{"owner paused"},
		listTitles(t, app, "/services?status=inactive&as_admin=1"))
}

func TestDemandListHidesOtherUsersSoftDeleted(t *testing.T) {
	db := newListingTestDB(t)
	owner := createListingUser(t, db, "owner")
	other := createListingUser(t, db, "other")

	createDemandRow(t, db, owner.ID, "owner open", models.DemandStatusOpen)
	createDemandRow(t, db, owner.ID, "owner removed", models.DemandStatusDeleted)

	app := newListingTestApp(t, db)

	// Asking for deleted demands must not expose other users' removals.
	assert.ElementsMatch(t,
		[]string{"owner open"},
		listTitles(t, app, "/demands?status=deleted&as_actor="+itoa(other.ID)))

	// The owner can still audit their own removed demands.
	assert.ElementsMatch(t,
		[]string{"owner removed"},
		listTitles(t, app, "/demands?user_id="+itoa(owner.ID)+"&status=deleted&as_actor="+itoa(owner.ID)))

	// So can moderators.
	assert.ElementsMatch(t,
		[]string{"owner removed"},
		listTitles(t, app, "/demands?status=deleted&as_admin=1"))
}
