package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"skillswap/internal/adapters/persistence/models"
	"skillswap/internal/adapters/persistence/repositories"
)

// Category service errors
var (
	ErrCategoryNotFound   = errors.New("category not found")
	ErrCategoryNameTaken  = errors.New("category name already exists")
	ErrCategoryReferenced = errors.New("category still has services or demands")
)

// CategoryService handles category business logic
type CategoryService struct {
	categoryRepo *repositories.CategoryRepository
	auditService *AuditService
}

// NewCategoryService creates a new category service
func NewCategoryService(categoryRepo *repositories.CategoryRepository, auditService *AuditService) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		auditService: auditService,
	}
}

// List lists categories; public callers see active ones only
func (s *CategoryService) List(ctx context.Context, activeOnly bool) ([]*models.Category, error) {
	return s.categoryRepo.List(ctx, activeOnly)
}

// GetByID gets a category by ID
func (s *CategoryService) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

// CreateCategoryInput represents create category input
type CreateCategoryInput struct {
	Name        string
	Description string
	Icon        string
}

// Create creates a new category (admin)
func (s *CategoryService) Create(ctx context.Context, adminID uint, input *CreateCategoryInput, meta RequestMeta) (*models.Category, error) {
	if exists, _ := s.categoryRepo.ExistsByName(ctx, input.Name, 0); exists {
		return nil, ErrCategoryNameTaken
	}

	category := &models.Category{
		Name:        input.Name,
		Description: input.Description,
		Icon:        input.Icon,
		IsActive:    true,
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	s.auditService.Record(ctx, adminID, "category.create", "category", category.ID, map[string]interface{}{
		"name": category.Name,
	}, meta)

	return category, nil
}

// UpdateCategoryInput represents update category input
type UpdateCategoryInput struct {
	Name        *string
	Description *string
	Icon        *string
	IsActive    *bool
}

// Update updates a category (admin)
func (s *CategoryService) Update(ctx context.Context, id, adminID uint, input *UpdateCategoryInput, meta RequestMeta) (*models.Category, error) {
	category, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && *input.Name != category.Name {
		if exists, _ := s.categoryRepo.ExistsByName(ctx, *input.Name, id); exists {
			return nil, ErrCategoryNameTaken
		}
		category.Name = *input.Name
	}
	if input.Description != nil {
		category.Description = *input.Description
	}
	if input.Icon != nil {
		category.Icon = *input.Icon
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}

	s.auditService.Record(ctx, adminID, "category.update", "category", category.ID, input, meta)

	return category, nil
}

// Delete removes a category. Deletion is blocked while any service or
// demand still references it.
func (s *CategoryService) Delete(ctx context.Context, id, adminID uint, meta RequestMeta) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	refs, err := s.categoryRepo.CountReferences(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return ErrCategoryReferenced
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.auditService.Record(ctx, adminID, "category.delete", "category", id, nil, meta)
	return nil
}
