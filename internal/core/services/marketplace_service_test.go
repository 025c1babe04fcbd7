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

func newMarketplaceService(db *gorm.DB) *MarketplaceService {
	return NewMarketplaceService(
		repositories.NewServiceRepository(db),
		repositories.NewDemandRepository(db),
		repositories.NewCategoryRepository(db),
		newTestAudit(db),
	)
}

func TestSetDemandStatusOwnerFlow(t *testing.T) {
	db := newTestDB(t)
	svc := newMarketplaceService(db)
	owner := createTestUser(t, db, "owner")
	demand := createTestDemand(t, db, owner.ID)

	updated, err := svc.SetDemandStatus(context.Background(), demand.ID, owner.ID, false, models.DemandStatusInProgress, RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, models.DemandStatusInProgress, updated.Status)

	updated, err = svc.SetDemandStatus(context.Background(), demand.ID, owner.ID, false, models.DemandStatusFulfilled, RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, models.DemandStatusFulfilled, updated.Status)
}

func TestSetDemandStatusReservesModerationOutcomes(t *testing.T) {
	db := newTestDB(t)
	svc := newMarketplaceService(db)
	owner := createTestUser(t, db, "owner")
	demand := createTestDemand(t, db, owner.ID)

	for _, status := range []string{models.DemandStatusExpired, models.DemandStatusDeleted} {
		_, err := svc.SetDemandStatus(context.Background(), demand.ID, owner.ID, false, status, RequestMeta{})
		assert.ErrorIs(t, err, ErrStatusNotAllowed)
	}

	var stored models.Demand
	require.NoError(t, db.First(&stored, demand.ID).Error)
	assert.Equal(t, models.DemandStatusOpen, stored.Status)
}

func TestSetDemandStatusAdminMaySetAnyStatus(t *testing.T) {
	db := newTestDB(t)
	svc := newMarketplaceService(db)
	owner := createTestUser(t, db, "owner")
	admin := createTestAdmin(t, db)
	demand := createTestDemand(t, db, owner.ID)

	updated, err := svc.SetDemandStatus(context.Background(), demand.ID, admin.ID, true, models.DemandStatusExpired, RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, models.DemandStatusExpired, updated.Status)

	// Admins can still act on a soft-deleted demand.
	_, err = svc.SetDemandStatus(context.Background(), demand.ID, admin.ID, true, models.DemandStatusDeleted, RequestMeta{})
	require.NoError(t, err)

	updated, err = svc.SetDemandStatus(context.Background(), demand.ID, admin.ID, true, models.DemandStatusOpen, RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, models.DemandStatusOpen, updated.Status)
}

func TestSetDemandStatusRejectsUnknownStatus(t *testing.T) {
	db := newTestDB(t)
	svc := newMarketplaceService(db)
	owner := createTestUser(t, db, "owner")
	demand := createTestDemand(t, db, owner.ID)

	_, err := svc.SetDemandStatus(context.Background(), demand.ID, owner.ID, false, "archived", RequestMeta{})
	assert.ErrorIs(t, err, ErrInvalidListingStatus)
}

func TestSetDemandStatusRejectsNonOwner(t *testing.T) {
	db := newTestDB(t)
	svc := newMarketplaceService(db)
	owner := createTestUser(t, db, "owner")
	stranger := createTestUser(t, db, "stranger")
	demand := createTestDemand(t, db, owner.ID)

	_, err := svc.SetDemandStatus(context.Background(), demand.ID, stranger.ID, false, models.DemandStatusClosed, RequestMeta{})
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestGetServiceByIDHidesSoftDeleted(t *testing.T) {
	db := newTestDB(t)
	svc := newMarketplaceService(db)
	owner := createTestUser(t, db, "owner")
	listing := createTestService(t, db, owner.ID)
	require.NoError(t, db.Model(listing).Update("status", models.ServiceStatusDeleted).Error)

	_, err := svc.GetServiceByID(context.Background(), listing.ID, false, false)
	assert.ErrorIs(t, err, ErrServiceNotFound)

	got, err := svc.GetServiceByID(context.Background(), listing.ID, false, true)
	require.NoError(t, err)
	assert.Equal(t, models.ServiceStatusDeleted, got.Status)
}

func TestGetDemandByIDHidesSoftDeleted(t *testing.T) {
	db := newTestDB(t)
	svc := newMarketplaceService(db)
	owner := createTestUser(t, db, "owner")
	demand := createTestDemand(t, db, owner.ID)
	require.NoError(t, db.Model(demand).Update("status", models.DemandStatusDeleted).Error)

	_, err := svc.GetDemandByID(context.Background(), demand.ID, false)
	assert.ErrorIs(t, err, ErrDemandNotFound)

	got, err := svc.GetDemandByID(context.Background(), demand.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.DemandStatusDeleted, got.Status)
}
