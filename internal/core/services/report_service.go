package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"skillswap/internal/adapters/persistence/models"
	"skillswap/internal/adapters/persistence/repositories"
)

// Report service errors
var (
	ErrReportNotFound      = errors.New("report not found")
	ErrReportTypeNotFound  = errors.New("report type not found or inactive")
	ErrNoReportTarget      = errors.New("a report target is required")
	ErrTargetNotFound      = errors.New("reported entity not found")
	ErrSelfReport          = errors.New("cannot report yourself or your own content")
	ErrTypeNotApplicable   = errors.New("report type does not apply to this entity")
	ErrDuplicateReport     = errors.New("you already have an open report against this entity")
	ErrInvalidReportStatus = errors.New("invalid report status")
	ErrInvalidResolution   = errors.New("invalid resolution type")
)

// ReportService handles the moderation pipeline
type ReportService struct {
	reportRepo     *repositories.ReportRepository
	reportTypeRepo *repositories.ReportTypeRepository
	userRepo       repositories.UserRepository
	serviceRepo    *repositories.ServiceRepository
	demandRepo     *repositories.DemandRepository
	auditService   *AuditService
	notify         *NotificationService
}

// NewReportService creates a new report service
func NewReportService(
	reportRepo *repositories.ReportRepository,
	reportTypeRepo *repositories.ReportTypeRepository,
	userRepo repositories.UserRepository,
	serviceRepo *repositories.ServiceRepository,
	demandRepo *repositories.DemandRepository,
	auditService *AuditService,
	notify *NotificationService,
) *ReportService {
	return &ReportService{
		reportRepo:     reportRepo,
		reportTypeRepo: reportTypeRepo,
		userRepo:       userRepo,
		serviceRepo:    serviceRepo,
		demandRepo:     demandRepo,
		auditService:   auditService,
		notify:         notify,
	}
}

// CreateReportInput represents create report input
type CreateReportInput struct {
	ReportTypeID      uint
	ReportedUserID    *uint
	ReportedServiceID *uint
	ReportedDemandID  *uint
	Reason            string
	Description       string
	Evidence          string
	Priority          string
}

// Create files a report after the full guard chain. When more than one
// target is supplied, the first non-empty wins in user -> service ->
// demand order; exclusivity is not enforced beyond that.
func (s *ReportService) Create(ctx context.Context, reporterID uint, input *CreateReportInput) (*models.Report, error) {
	entityType, entityID := pickTarget(input)
	if entityType == "" {
		return nil, ErrNoReportTarget
	}

	reportType, err := s.reportTypeRepo.GetByID(ctx, input.ReportTypeID)
	if err != nil || !reportType.IsActive {
		return nil, ErrReportTypeNotFound
	}

	// Target must exist, not be soft-deleted, and not belong to the
	// reporter.
	ownerID, err := s.targetOwner(ctx, entityType, entityID)
	if err != nil {
		return nil, err
	}
	if ownerID == reporterID {
		return nil, ErrSelfReport
	}

	if !reportType.AppliesTo(entityType) {
		return nil, ErrTypeNotApplicable
	}

	outstanding, err := s.reportRepo.HasOutstanding(ctx, reporterID, entityType, entityID)
	if err != nil {
		return nil, err
	}
	if outstanding {
		return nil, ErrDuplicateReport
	}

	priority := input.Priority
	if priority == "" {
		priority = models.ReportPriorityMedium
	}

	report := &models.Report{
		ReporterID:   reporterID,
		ReportTypeID: input.ReportTypeID,
		Reason:       input.Reason,
		Description:  input.Description,
		Evidence:     input.Evidence,
		Priority:     priority,
		Status:       models.ReportStatusPending,
	}
	switch entityType {
	case models.ReportEntityUser:
		report.ReportedUserID = &entityID
	case models.ReportEntityService:
		report.ReportedServiceID = &entityID
	case models.ReportEntityDemand:
		report.ReportedDemandID = &entityID
	}

	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, err
	}

	return report, nil
}

// pickTarget applies the user -> service -> demand priority order
func pickTarget(input *CreateReportInput) (string, uint) {
	switch {
	case input.ReportedUserID != nil && *input.ReportedUserID > 0:
		return models.ReportEntityUser, *input.ReportedUserID
	case input.ReportedServiceID != nil && *input.ReportedServiceID > 0:
		return models.ReportEntityService, *input.ReportedServiceID
	case input.ReportedDemandID != nil && *input.ReportedDemandID > 0:
		return models.ReportEntityDemand, *input.ReportedDemandID
	}
	return "", 0
}

// targetOwner resolves the owner of the reported entity, rejecting
// missing or soft-deleted targets.
func (s *ReportService) targetOwner(ctx context.Context, entityType string, entityID uint) (uint, error) {
	switch entityType {
	case models.ReportEntityUser:
		user, err := s.userRepo.GetByID(ctx, entityID)
		if err != nil {
			return 0, ErrTargetNotFound
		}
		return user.ID, nil
	case models.ReportEntityService:
		service, err := s.serviceRepo.GetByID(ctx, entityID)
		if err != nil || service.IsSoftDeleted() {
			return 0, ErrTargetNotFound
		}
		return service.UserID, nil
	case models.ReportEntityDemand:
		demand, err := s.demandRepo.GetByID(ctx, entityID)
		if err != nil || demand.IsSoftDeleted() {
			return 0, ErrTargetNotFound
		}
		return demand.UserID, nil
	}
	return 0, ErrTargetNotFound
}

// ListReportsInput represents report listing input
type ListReportsInput struct {
	ReporterID uint // zero for admin "all" view
	Status     string
	Priority   string
	TypeID     uint
	Offset     int
	Limit      int
}

// List lists reports; non-admin callers are scoped to their own
func (s *ReportService) List(ctx context.Context, input *ListReportsInput) ([]*models.Report, int64, error) {
	filter := repositories.ReportFilter{
		ReporterID: input.ReporterID,
		Status:     input.Status,
		Priority:   input.Priority,
		TypeID:     input.TypeID,
	}
	return s.reportRepo.List(ctx, filter, input.Offset, input.Limit)
}

// GetByID gets a report by ID
func (s *ReportService) GetByID(ctx context.Context, id uint) (*models.Report, error) {
	report, err := s.reportRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return report, nil
}

// UpdateStatus moves a report through the moderation flow (admin) and
// notifies the original reporter.
func (s *ReportService) UpdateStatus(ctx context.Context, id, adminID uint, status, adminNote string, meta RequestMeta) (*models.Report, error) {
	if !contains(models.ReportStatuses, status) {
		return nil, ErrInvalidReportStatus
	}

	report, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	oldStatus := report.Status
	report.Status = status
	if adminNote != "" {
		report.AdminNote = adminNote
	}

	if err := s.reportRepo.Update(ctx, report); err != nil {
		return nil, err
	}

	s.auditService.Record(ctx, adminID, "report.set_status", "report", report.ID, map[string]interface{}{
		"old_status": oldStatus,
		"new_status": status,
	}, meta)

	s.notify.Notify(ctx, report.ReporterID, models.NotificationTypeReport,
		"Report updated",
		"Your report is now "+status,
		&report.ID, "report")

	return report, nil
}

// ResolveInput represents resolve report input
type ResolveInput struct {
	ResolutionType string
	AdminNote      string
	InternalNotes  string
}

// Resolve closes a report with a resolution type. Resolutions that punish
// the reported entity (suspend/ban the user, remove the content) run in
// the same database transaction as the report update, so a resolved
// report with an unpunished target is never observable. Notification and
// audit writes happen after commit, best-effort.
func (s *ReportService) Resolve(ctx context.Context, id, adminID uint, input *ResolveInput, meta RequestMeta) (*models.Report, error) {
	if !contains(models.ResolutionTypes, input.ResolutionType) {
		return nil, ErrInvalidResolution
	}

	report, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.reportRepo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		switch input.ResolutionType {
		case models.ResolutionUserSuspended, models.ResolutionUserBanned:
			if report.ReportedUserID != nil {
				status := models.UserStatusSuspended
				if input.ResolutionType == models.ResolutionUserBanned {
					status = models.UserStatusBanned
				}
				if err := tx.Model(&models.User{}).
					Where("id = ?", *report.ReportedUserID).
					Update("status", status).Error; err != nil {
					return err
				}
			}
		case models.ResolutionContentRemoved:
			if report.ReportedServiceID != nil {
				if err := tx.Model(&models.Service{}).
					Where("id = ?", *report.ReportedServiceID).
					Update("status", models.ServiceStatusDeleted).Error; err != nil {
					return err
				}
			}
			if report.ReportedDemandID != nil {
				if err := tx.Model(&models.Demand{}).
					Where("id = ?", *report.ReportedDemandID).
					Update("status", models.DemandStatusDeleted).Error; err != nil {
					return err
				}
			}
		}

		now := time.Now()
		report.Status = models.ReportStatusResolved
		report.ResolutionType = input.ResolutionType
		report.ResolvedBy = &adminID
		report.ResolvedAt = &now
		if input.AdminNote != "" {
			report.AdminNote = input.AdminNote
		}
		if input.InternalNotes != "" {
			report.InternalNotes = input.InternalNotes
		}

		return tx.Save(report).Error
	})
	if err != nil {
		return nil, err
	}

	s.auditService.Record(ctx, adminID, "report.resolve", "report", report.ID, map[string]interface{}{
		"resolution_type": input.ResolutionType,
	}, meta)

	s.notify.Notify(ctx, report.ReporterID, models.NotificationTypeReport,
		"Report resolved",
		"Your report has been resolved",
		&report.ID, "report")

	return report, nil
}
