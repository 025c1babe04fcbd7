package repositories

import (
	"context"

	"gorm.io/gorm"

	"skillswap/internal/adapters/persistence/models"
)

// ============================================================
// Catalog repositories: Categories & Report Types
// ============================================================

// CategoryRepository handles category persistence
type CategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create creates a new category
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

// GetByID gets a category by ID
func (r *CategoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// List lists categories; activeOnly hides disabled ones for public callers
func (r *CategoryRepository) List(ctx context.Context, activeOnly bool) ([]*models.Category, error) {
	var categories []*models.Category
	query := r.db.WithContext(ctx).Order("name")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Find(&categories).Error
	return categories, err
}

// Update updates a category
func (r *CategoryRepository) Update(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

// Delete hard deletes a category
func (r *CategoryRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Unscoped().Delete(&models.Category{}, id).Error
}

// ExistsByName checks if a category name is taken
func (r *CategoryRepository) ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Category{}).Where("name = ?", name)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

// CountReferences counts services and demands still pointing at a category
func (r *CategoryRepository) CountReferences(ctx context.Context, id uint) (int64, error) {
	var services, demands int64
	if err := r.db.WithContext(ctx).Model(&models.Service{}).Where("category_id = ?", id).Count(&services).Error; err != nil {
		return 0, err
	}
	if err := r.db.WithContext(ctx).Model(&models.Demand{}).Where("category_id = ?", id).Count(&demands).Error; err != nil {
		return 0, err
	}
	return services + demands, nil
}

// ReportTypeRepository handles report type persistence
type ReportTypeRepository struct {
	db *gorm.DB
}

// NewReportTypeRepository creates a new report type repository
func NewReportTypeRepository(db *gorm.DB) *ReportTypeRepository {
	return &ReportTypeRepository{db: db}
}

// Create creates a new report type
func (r *ReportTypeRepository) Create(ctx context.Context, rt *models.ReportType) error {
	return r.db.WithContext(ctx).Create(rt).Error
}

// GetByID gets a report type by ID
func (r *ReportTypeRepository) GetByID(ctx context.Context, id uint) (*models.ReportType, error) {
	var rt models.ReportType
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rt).Error
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

// List lists report types ordered for display. entityType filters to types
// applicable to one entity kind ('all' types always included).
func (r *ReportTypeRepository) List(ctx context.Context, activeOnly bool, entityType string) ([]*models.ReportType, error) {
	var types []*models.ReportType
	query := r.db.WithContext(ctx).Order("display_order, id")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if entityType != "" {
		query = query.Where("entity_type = ? OR entity_type = ?", entityType, models.ReportEntityAll)
	}
	err := query.Find(&types).Error
	return types, err
}

// Update updates a report type
func (r *ReportTypeRepository) Update(ctx context.Context, rt *models.ReportType) error {
	return r.db.WithContext(ctx).Save(rt).Error
}

// Delete hard deletes a report type
func (r *ReportTypeRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Unscoped().Delete(&models.ReportType{}, id).Error
}

// ExistsBySlug checks if a report type slug is taken
func (r *ReportTypeRepository) ExistsBySlug(ctx context.Context, slug string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.ReportType{}).Where("slug = ?", slug)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

// CountReferences counts reports still pointing at a report type
func (r *ReportTypeRepository) CountReferences(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Report{}).Where("report_type_id = ?", id).Count(&count).Error
	return count, err
}
