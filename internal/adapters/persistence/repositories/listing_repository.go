package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"skillswap/internal/adapters/persistence/models"
)

// ============================================================
// Listing repositories: Services & Demands
// ============================================================

// ServiceFilter narrows service listings
type ServiceFilter struct {
	UserID     uint
	CategoryID uint
	Status     string
	Search     string
	MinPrice   *int
	MaxPrice   *int
	Featured   *bool
}

// ServiceRepository handles service persistence
type ServiceRepository struct {
	db *gorm.DB
}

// NewServiceRepository creates a new service repository
func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

// Create creates a new service
func (r *ServiceRepository) Create(ctx context.Context, service *models.Service) error {
	return r.db.WithContext(ctx).Create(service).Error
}

// GetByID gets a service by ID with owner and category preloaded
func (r *ServiceRepository) GetByID(ctx context.Context, id uint) (*models.Service, error) {
	var service models.Service
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Category").
		Where("id = ?", id).
		First(&service).Error
	if err != nil {
		return nil, err
	}
	return &service, nil
}

// Update updates a service
func (r *ServiceRepository) Update(ctx context.Context, service *models.Service) error {
	return r.db.WithContext(ctx).Save(service).Error
}

// List lists services with filters and pagination
func (r *ServiceRepository) List(ctx context.Context, filter ServiceFilter, offset, limit int) ([]*models.Service, int64, error) {
	var services []*models.Service
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Service{})
	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.CategoryID > 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", like, like)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.Featured != nil {
		query = query.Where("is_featured = ?", *filter.Featured)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("User").Preload("Category").
		Order("is_featured DESC, created_at DESC").
		Offset(offset).Limit(limit).
		Find(&services).Error
	if err != nil {
		return nil, 0, err
	}

	return services, total, nil
}

// IncrementViews bumps the view counter without touching updated_at
func (r *ServiceRepository) IncrementViews(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.Service{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

// DemandFilter narrows demand listings
type DemandFilter struct {
	UserID     uint
	CategoryID uint
	Status     string
	Urgency    string
	Search     string
}

// DemandRepository handles demand persistence
type DemandRepository struct {
	db *gorm.DB
}

// NewDemandRepository creates a new demand repository
func NewDemandRepository(db *gorm.DB) *DemandRepository {
	return &DemandRepository{db: db}
}

// Create creates a new demand
func (r *DemandRepository) Create(ctx context.Context, demand *models.Demand) error {
	return r.db.WithContext(ctx).Create(demand).Error
}

// GetByID gets a demand by ID with owner and category preloaded
func (r *DemandRepository) GetByID(ctx context.Context, id uint) (*models.Demand, error) {
	var demand models.Demand
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Category").
		Where("id = ?", id).
		First(&demand).Error
	if err != nil {
		return nil, err
	}
	return &demand, nil
}

// Update updates a demand
func (r *DemandRepository) Update(ctx context.Context, demand *models.Demand) error {
	return r.db.WithContext(ctx).Save(demand).Error
}

// List lists demands with filters and pagination
func (r *DemandRepository) List(ctx context.Context, filter DemandFilter, offset, limit int) ([]*models.Demand, int64, error) {
	var demands []*models.Demand
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Demand{})
	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.CategoryID > 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Urgency != "" {
		query = query.Where("urgency = ?", filter.Urgency)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("title LIKE ? OR description LIKE ? OR tags LIKE ?", like, like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("User").Preload("Category").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&demands).Error
	if err != nil {
		return nil, 0, err
	}

	return demands, total, nil
}

// ExpirePastDeadline marks open demands past their deadline as expired and
// returns how many rows changed. Used by the scheduler.
func (r *DemandRepository) ExpirePastDeadline(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Demand{}).
		Where("status = ? AND deadline IS NOT NULL AND deadline < ?", models.DemandStatusOpen, now).
		Update("status", models.DemandStatusExpired)
	return result.RowsAffected, result.Error
}
