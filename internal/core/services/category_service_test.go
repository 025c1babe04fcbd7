package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"skillswap/internal/adapters/persistence/models"
	"skillswap/internal/adapters/persistence/repositories"
)

func newCategoryService(db *gorm.DB) *CategoryService {
	return NewCategoryService(repositories.NewCategoryRepository(db), newTestAudit(db))
}

func TestCategoryCreateRejectsDuplicateName(t *testing.T) {
	db := newTestDB(t)
	svc := newCategoryService(db)
	admin := createTestAdmin(t, db)

	_, err := svc.Create(context.Background(), admin.ID, &CreateCategoryInput{Name: "Design"}, RequestMeta{})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), admin.ID, &CreateCategoryInput{Name: "Design"}, RequestMeta{})
	assert.ErrorIs(t, err, ErrCategoryNameTaken)
}

func TestCategoryDeleteBlockedWhileReferenced(t *testing.T) {
	db := newTestDB(t)
	svc := newCategoryService(db)
	admin := createTestAdmin(t, db)
	owner := createTestUser(t, db, "owner")

	category, err := svc.Create(context.Background(), admin.ID, &CreateCategoryInput{Name: "Music"}, RequestMeta{})
	require.NoError(t, err)

	listing := createTestService(t, db, owner.ID)
	require.NoError(t, db.Model(listing).Update("category_id", category.ID).Error)

	err = svc.Delete(context.Background(), category.ID, admin.ID, RequestMeta{})
	assert.ErrorIs(t, err, ErrCategoryReferenced)

	// Once the last reference is gone the delete goes through.
	require.NoError(t, db.Delete(listing).Error)

	err = svc.Delete(context.Background(), category.ID, admin.ID, RequestMeta{})
	require.NoError(t, err)

	_, err = svc.GetByID(context.Background(), category.ID)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCategoryDeleteBlockedByDemandReference(t *testing.T) {
	db := newTestDB(t)
	svc := newCategoryService(db)
	admin := createTestAdmin(t, db)
	owner := createTestUser(t, db, "owner")

	category, err := svc.Create(context.Background(), admin.ID, &CreateCategoryInput{Name: "Writing"}, RequestMeta{})
	require.NoError(t, err)

	demand := createTestDemand(t, db, owner.ID)
	require.NoError(t, db.Model(demand).Update("category_id", category.ID).Error)

	err = svc.Delete(context.Background(), category.ID, admin.ID, RequestMeta{})
	assert.ErrorIs(t, err, ErrCategoryReferenced)
}

func TestCategoryUpdate(t *testing.T) {
	db := newTestDB(t)
	svc := newCategoryService(db)
	admin := createTestAdmin(t, db)

	category, err := svc.Create(context.Background(), admin.ID, &CreateCategoryInput{Name: "Tutoring"}, RequestMeta{})
	require.NoError(t, err)

	name := "Lessons"
	inactive := false
	updated, err := svc.Update(context.Background(), category.ID, admin.ID, &UpdateCategoryInput{
		Name:     &name,
		IsActive: &inactive,
	}, RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, "Lessons", updated.Name)
	assert.False(t, updated.IsActive)

	// Mutations land in the audit trail.
	var audits int64
	require.NoError(t, db.Model(&models.AdminActivityLog{}).
		Where("admin_id = ?", admin.ID).Count(&audits).Error)
	assert.Equal(t, int64(2), audits)
}
