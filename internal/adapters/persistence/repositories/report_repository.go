package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"skillswap/internal/adapters/persistence/models"
)

// ============================================================
// Moderation repositories: Reports, Activity Log, Error Log
// ============================================================

// ReportFilter narrows report listings
type ReportFilter struct {
	ReporterID uint
	Status     string
	Priority   string
	TypeID     uint
}

// ReportRepository handles report persistence
type ReportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// DB exposes the underlying handle for multi-statement transactions
func (r *ReportRepository) DB() *gorm.DB {
	return r.db
}

// Create creates a new report
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

// GetByID gets a report by ID with reporter and type preloaded
func (r *ReportRepository) GetByID(ctx context.Context, id uint) (*models.Report, error) {
	var report models.Report
	err := r.db.WithContext(ctx).
		Preload("Reporter").
		Preload("ReportType").
		Where("id = ?", id).
		First(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// Update updates a report
func (r *ReportRepository) Update(ctx context.Context, report *models.Report) error {
	return r.db.WithContext(ctx).Save(report).Error
}

// List lists reports with filters and pagination
func (r *ReportRepository) List(ctx context.Context, filter ReportFilter, offset, limit int) ([]*models.Report, int64, error) {
	var reports []*models.Report
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Report{})
	if filter.ReporterID > 0 {
		query = query.Where("reporter_id = ?", filter.ReporterID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.TypeID > 0 {
		query = query.Where("report_type_id = ?", filter.TypeID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("ReportType").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&reports).Error
	if err != nil {
		return nil, 0, err
	}

	return reports, total, nil
}

// HasOutstanding reports whether the reporter already has a non-terminal
// report against the same target.
func (r *ReportRepository) HasOutstanding(ctx context.Context, reporterID uint, entityType string, entityID uint) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.Report{}).
		Where("reporter_id = ?", reporterID).
		Where("status NOT IN ?", []string{models.ReportStatusResolved, models.ReportStatusDismissed})

	switch entityType {
	case models.ReportEntityUser:
		query = query.Where("reported_user_id = ?", entityID)
	case models.ReportEntityService:
		query = query.Where("reported_service_id = ?", entityID)
	case models.ReportEntityDemand:
		query = query.Where("reported_demand_id = ?", entityID)
	}

	var count int64
	err := query.Count(&count).Error
	return count > 0, err
}

// CountByStatus counts reports in one status (dashboard)
func (r *ReportRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Report{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// ActivityLogFilter narrows audit trail listings
type ActivityLogFilter struct {
	AdminID    uint
	EntityType string
	DateFrom   *time.Time
	DateTo     *time.Time
}

// ActivityLogRepository handles the append-only admin audit trail
type ActivityLogRepository struct {
	db *gorm.DB
}

// NewActivityLogRepository creates a new activity log repository
func NewActivityLogRepository(db *gorm.DB) *ActivityLogRepository {
	return &ActivityLogRepository{db: db}
}

// Create appends one audit row
func (r *ActivityLogRepository) Create(ctx context.Context, entry *models.AdminActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// List lists audit rows with filters and pagination
func (r *ActivityLogRepository) List(ctx context.Context, filter ActivityLogFilter, offset, limit int) ([]*models.AdminActivityLog, int64, error) {
	var entries []*models.AdminActivityLog
	var total int64

	query := r.db.WithContext(ctx).Model(&models.AdminActivityLog{})
	if filter.AdminID > 0 {
		query = query.Where("admin_id = ?", filter.AdminID)
	}
	if filter.EntityType != "" {
		query = query.Where("entity_type = ?", filter.EntityType)
	}
	if filter.DateFrom != nil {
		query = query.Where("created_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("created_at <= ?", *filter.DateTo)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

// ErrorLogRepository handles best-effort server fault records
type ErrorLogRepository struct {
	db *gorm.DB
}

// NewErrorLogRepository creates a new error log repository
func NewErrorLogRepository(db *gorm.DB) *ErrorLogRepository {
	return &ErrorLogRepository{db: db}
}

// Create appends one error row
func (r *ErrorLogRepository) Create(ctx context.Context, entry *models.ErrorLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}
