package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"skillswap/internal/adapters/persistence/models"
	"skillswap/internal/adapters/persistence/repositories"
)

// newTestDB opens an isolated in-memory database with the full schema.
// Connections are capped at one so every query sees the same memory store.
func newTestDB(t *testing.T) *gorm.DB {
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

func newTestAudit(db *gorm.DB) *AuditService {
	return NewAuditService(repositories.NewActivityLogRepository(db), zerolog.Nop())
}

func newTestNotify(db *gorm.DB) *NotificationService {
	return NewNotificationService(repositories.NewNotificationRepository(db), zerolog.Nop())
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
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

func createTestAdmin(t *testing.T, db *gorm.DB) *models.Admin {
	t.Helper()

	admin := &models.Admin{
		Username: "mod",
		Email:    "mod@example.com",
		Password: "hashed",
		Role:     models.AdminRoleModerator,
		Status:   models.AdminStatusActive,
	}
	require.NoError(t, db.Create(admin).Error)
	return admin
}

func createTestReportType(t *testing.T, db *gorm.DB, slug, entityType string) *models.ReportType {
	t.Helper()

	rt := &models.ReportType{
		Name:       slug,
		Slug:       slug,
		EntityType: entityType,
		IsActive:   true,
	}
	require.NoError(t, db.Create(rt).Error)
	return rt
}

func createTestService(t *testing.T, db *gorm.DB, ownerID uint) *models.Service {
	t.Helper()

	svc := &models.Service{
		UserID:      ownerID,
		Title:       "Guitar lessons",
		Description: "One hour of beginner guitar",
		Price:       30,
		Status:      models.ServiceStatusActive,
	}
	require.NoError(t, db.Create(svc).Error)
	return svc
}

func createTestDemand(t *testing.T, db *gorm.DB, ownerID uint) *models.Demand {
	t.Helper()

	demand := &models.Demand{
		UserID:      ownerID,
		Title:       "Need a logo",
		Description: "Simple logo for a side project",
		Budget:      50,
		Status:      models.DemandStatusOpen,
		Urgency:     models.DemandUrgencyMedium,
	}
	require.NoError(t, db.Create(demand).Error)
	return demand
}
