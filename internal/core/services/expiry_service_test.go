package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillswap/internal/adapters/persistence/models"
	"skillswap/internal/adapters/persistence/repositories"
)

func TestSweepExpiresOnlyPastDeadlineOpenDemands(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner")
	svc := NewExpiryService(repositories.NewDemandRepository(db), repositories.NewRefreshTokenRepository(db), zerolog.Nop())

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	overdue := createTestDemand(t, db, owner.ID)
	require.NoError(t, db.Model(overdue).Update("deadline", past).Error)

	upcoming := createTestDemand(t, db, owner.ID)
	require.NoError(t, db.Model(upcoming).Update("deadline", future).Error)

	// Closed demands stay closed even when overdue.
	closed := createTestDemand(t, db, owner.ID)
	require.NoError(t, db.Model(closed).Updates(map[string]interface{}{
		"deadline": past,
		"status":   models.DemandStatusClosed,
	}).Error)

	noDeadline := createTestDemand(t, db, owner.ID)

	expired, err := svc.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), expired)

	assertStatus := func(id uint, want string) {
		var d models.Demand
		require.NoError(t, db.First(&d, id).Error)
		assert.Equal(t, want, d.Status)
	}
	assertStatus(overdue.ID, models.DemandStatusExpired)
	assertStatus(upcoming.ID, models.DemandStatusOpen)
	assertStatus(closed.ID, models.DemandStatusClosed)
	assertStatus(noDeadline.ID, models.DemandStatusOpen)
}

func TestSweepIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner")
	svc := NewExpiryService(repositories.NewDemandRepository(db), repositories.NewRefreshTokenRepository(db), zerolog.Nop())

	overdue := createTestDemand(t, db, owner.ID)
	require.NoError(t, db.Model(overdue).Update("deadline", time.Now().Add(-time.Minute)).Error)

	expired, err := svc.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), expired)

	expired, err = svc.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, expired)
}

func TestSweepPurgesExpiredRefreshTokens(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner")
	svc := NewExpiryService(repositories.NewDemandRepository(db), repositories.NewRefreshTokenRepository(db), zerolog.Nop())

	stale := &models.RefreshToken{
		ActorType: "user",
		ActorID:   owner.ID,
		TokenHash: "stale-hash",
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, db.Create(stale).Error)

	live := &models.RefreshToken{
		ActorType: "user",
		ActorID:   owner.ID,
		TokenHash: "live-hash",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, db.Create(live).Error)

	_, err := svc.Sweep(context.Background())
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.RefreshToken{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var remaining models.RefreshToken
	require.NoError(t, db.First(&remaining).Error)
	assert.Equal(t, "live-hash", remaining.TokenHash)
}
