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

func newReportService(db *gorm.DB) *ReportService {
	return NewReportService(
		repositories.NewReportRepository(db),
		repositories.NewReportTypeRepository(db),
		repositories.NewUserRepository(db),
		repositories.NewServiceRepository(db),
		repositories.NewDemandRepository(db),
		newTestAudit(db),
		newTestNotify(db),
	)
}

func TestReportCreateRequiresTarget(t *testing.T) {
	db := newTestDB(t)
	svc := newReportService(db)
	reporter := createTestUser(t, db, "reporter")
	rt := createTestReportType(t, db, "spam", models.ReportEntityAll)

	_, err := svc.Create(context.Background(), reporter.ID, &CreateReportInput{
		ReportTypeID: rt.ID,
		Reason:       "spam everywhere",
	})
	assert.ErrorIs(t, err, ErrNoReportTarget)
}

func TestReportCreateRejectsSelfReport(t *testing.T) {
	db := newTestDB(t)
	svc := newReportService(db)
	reporter := createTestUser(t, db, "reporter")
	rt := createTestReportType(t, db, "spam", models.ReportEntityAll)
	own := createTestService(t, db, reporter.ID)

	_, err := svc.Create(context.Background(), reporter.ID, &CreateReportInput{
		ReportTypeID:      rt.ID,
		ReportedServiceID: &own.ID,
		Reason:            "this listing is spam",
	})
	assert.ErrorIs(t, err, ErrSelfReport)
}

func TestReportCreateRejectsInapplicableType(t *testing.T) {
	db := newTestDB(t)
	svc := newReportService(db)
	reporter := createTestUser(t, db, "reporter")
	seller := createTestUser(t, db, "seller")
	rt := createTestReportType(t, db, "harassment", models.ReportEntityUser)
	listing := createTestService(t, db, seller.ID)

	_, err := svc.Create(context.Background(), reporter.ID, &CreateReportInput{
		ReportTypeID:      rt.ID,
		ReportedServiceID: &listing.ID,
		Reason:            "wrong target kind",
	})
	assert.ErrorIs(t, err, ErrTypeNotApplicable)
}

func TestReportCreateRejectsMissingTarget(t *testing.T) {
	db := newTestDB(t)
	svc := newReportService(db)
	reporter := createTestUser(t, db, "reporter")
	rt := createTestReportType(t, db, "spam", models.ReportEntityAll)

	missing := uint(9999)
	_, err := svc.Create(context.Background(), reporter.ID, &CreateReportInput{
		ReportTypeID:   rt.ID,
		ReportedUserID: &missing,
		Reason:         "ghost user",
	})
	assert.ErrorIs(t, err, ErrTargetNotFound)
}

func TestReportCreateTargetPriorityOrder(t *testing.T) {
	db := newTestDB(t)
	svc := newReportService(db)
	reporter := createTestUser(t, db, "reporter")
	seller := createTestUser(t, db, "seller")
	rt := createTestReportType(t, db, "spam", models.ReportEntityAll)
	listing := createTestService(t, db, seller.ID)

	// Both targets supplied; the user wins and the service is dropped.
	report, err := svc.Create(context.Background(), reporter.ID, &CreateReportInput{
		ReportTypeID:      rt.ID,
		ReportedUserID:    &seller.ID,
		ReportedServiceID: &listing.ID,
		Reason:            "spamming the inbox",
	})
	require.NoError(t, err)

	require.NotNil(t, report.ReportedUserID)
	assert.Equal(t, seller.ID, *report.ReportedUserID)
	assert.Nil(t, report.ReportedServiceID)
	assert.Equal(t, models.ReportStatusPending, report.Status)
	assert.Equal(t, models.ReportPriorityMedium, report.Priority)
}

func TestReportCreateRejectsDuplicateOutstanding(t *testing.T) {
	db := newTestDB(t)
	svc := newReportService(db)
	reporter := createTestUser(t, db, "reporter")
	seller := createTestUser(t, db, "seller")
	admin := createTestAdmin(t, db)
	rt := createTestReportType(t, db, "spam", models.ReportEntityAll)

	input := &CreateReportInput{
		ReportTypeID:   rt.ID,
		ReportedUserID: &seller.ID,
		Reason:         "spamming the inbox",
	}

	first, err := svc.Create(context.Background(), reporter.ID, input)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), reporter.ID, input)
	assert.ErrorIs(t, err, ErrDuplicateReport)

	// A dismissed report no longer blocks a new one.
	_, err = svc.UpdateStatus(context.Background(), first.ID, admin.ID, models.ReportStatusDismissed, "", RequestMeta{})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), reporter.ID, input)
	assert.NoError(t, err)
}

func TestReportResolveBansUserAtomically(t *testing.T) {
	db := newTestDB(t)
	svc := newReportService(db)
	reporter := createTestUser(t, db, "reporter")
	offender := createTestUser(t, db, "offender")
	admin := createTestAdmin(t, db)
	rt := createTestReportType(t, db, "harassment", models.ReportEntityUser)

	report, err := svc.Create(context.Background(), reporter.ID, &CreateReportInput{
		ReportTypeID:   rt.ID,
		ReportedUserID: &offender.ID,
		Reason:         "abusive messages",
	})
	require.NoError(t, err)

	resolved, err := svc.Resolve(context.Background(), report.ID, admin.ID, &ResolveInput{
		ResolutionType: models.ResolutionUserBanned,
		AdminNote:      "Repeated harassment",
	}, RequestMeta{})
	require.NoError(t, err)

	assert.Equal(t, models.ReportStatusResolved, resolved.Status)
	assert.Equal(t, models.ResolutionUserBanned, resolved.ResolutionType)
	require.NotNil(t, resolved.ResolvedBy)
	assert.Equal(t, admin.ID, *resolved.ResolvedBy)
	assert.NotNil(t, resolved.ResolvedAt)

	var banned models.User
	require.NoError(t, db.First(&banned, offender.ID).Error)
	assert.Equal(t, models.UserStatusBanned, banned.Status)

	// The reporter gets a resolution notification.
	var count int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("user_id = ?", reporter.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestReportResolveRemovesContent(t *testing.T) {
	db := newTestDB(t)
	svc := newReportService(db)
	reporter := createTestUser(t, db, "reporter")
	seller := createTestUser(t, db, "seller")
	admin := createTestAdmin(t, db)
	rt := createTestReportType(t, db, "misleading-listing", models.ReportEntityService)
	listing := createTestService(t, db, seller.ID)

	report, err := svc.Create(context.Background(), reporter.ID, &CreateReportInput{
		ReportTypeID:      rt.ID,
		ReportedServiceID: &listing.ID,
		Reason:            "listing promises the impossible",
	})
	require.NoError(t, err)

	_, err = svc.Resolve(context.Background(), report.ID, admin.ID, &ResolveInput{
		ResolutionType: models.ResolutionContentRemoved,
	}, RequestMeta{})
	require.NoError(t, err)

	var removed models.Service
	require.NoError(t, db.First(&removed, listing.ID).Error)
	assert.Equal(t, models.ServiceStatusDeleted, removed.Status)
}

func TestReportResolveRejectsUnknownResolution(t *testing.T) {
	db := newTestDB(t)
	svc := newReportService(db)

	_, err := svc.Resolve(context.Background(), 1, 1, &ResolveInput{
		ResolutionType: "shrug",
	}, RequestMeta{})
	assert.ErrorIs(t, err, ErrInvalidResolution)
}

func TestReportUpdateStatusRejectsUnknownStatus(t *testing.T) {
	db := newTestDB(t)
	svc := newReportService(db)

	_, err := svc.UpdateStatus(context.Background(), 1, 1, "vanished", "", RequestMeta{})
	assert.ErrorIs(t, err, ErrInvalidReportStatus)
}
