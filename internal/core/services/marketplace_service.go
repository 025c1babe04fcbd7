package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"skillswap/internal/adapters/persistence/models"
	"skillswap/internal/adapters/persistence/repositories"
)

// Marketplace service errors
var (
	ErrServiceNotFound      = errors.New("service not found")
	ErrDemandNotFound       = errors.New("demand not found")
	ErrNotOwner             = errors.New("not the owner of this listing")
	ErrCategoryUnavailable  = errors.New("category does not exist or is inactive")
	ErrInvalidListingStatus = errors.New("invalid status value")
	ErrInvalidUrgency       = errors.New("invalid urgency value")
	ErrStatusNotAllowed     = errors.New("status reserved for moderation")
)

// MarketplaceService handles service and demand listings
type MarketplaceService struct {
	serviceRepo  *repositories.ServiceRepository
	demandRepo   *repositories.DemandRepository
	categoryRepo *repositories.CategoryRepository
	auditService *AuditService
}

// NewMarketplaceService creates a new marketplace service
func NewMarketplaceService(
	serviceRepo *repositories.ServiceRepository,
	demandRepo *repositories.DemandRepository,
	categoryRepo *repositories.CategoryRepository,
	auditService *AuditService,
) *MarketplaceService {
	return &MarketplaceService{
		serviceRepo:  serviceRepo,
		demandRepo:   demandRepo,
		categoryRepo: categoryRepo,
		auditService: auditService,
	}
}

// checkCategory verifies an optional category reference is usable
func (s *MarketplaceService) checkCategory(ctx context.Context, categoryID *uint) error {
	if categoryID == nil {
		return nil
	}
	category, err := s.categoryRepo.GetByID(ctx, *categoryID)
	if err != nil || !category.IsActive {
		return ErrCategoryUnavailable
	}
	return nil
}

// ============================================================
// Services
// ============================================================

// ListServicesInput represents service listing input
type ListServicesInput struct {
	UserID     uint
	CategoryID uint
	Status     string
	Search     string
	MinPrice   *int
	MaxPrice   *int
	Featured   *bool
	Offset     int
	Limit      int
}

// ListServices lists services with filters
func (s *MarketplaceService) ListServices(ctx context.Context, input *ListServicesInput) ([]*models.Service, int64, error) {
	filter := repositories.ServiceFilter{
		UserID:     input.UserID,
		CategoryID: input.CategoryID,
		Status:     input.Status,
		Search:     input.Search,
		MinPrice:   input.MinPrice,
		MaxPrice:   input.MaxPrice,
		Featured:   input.Featured,
	}
	return s.serviceRepo.List(ctx, filter, input.Offset, input.Limit)
}

// GetServiceByID gets a service and counts the view. Soft-deleted
// listings surface only when includeDeleted is set (admin callers).
func (s *MarketplaceService) GetServiceByID(ctx context.Context, id uint, countView, includeDeleted bool) (*models.Service, error) {
	service, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}
	if service.IsSoftDeleted() && !includeDeleted {
		return nil, ErrServiceNotFound
	}

	if countView {
		if err := s.serviceRepo.IncrementViews(ctx, id); err == nil {
			service.Views++
		}
	}

	return service, nil
}

// CreateServiceInput represents create service input
type CreateServiceInput struct {
	CategoryID  *uint
	Title       string
	Description string
	Price       int
}

// CreateService creates a new service listing
func (s *MarketplaceService) CreateService(ctx context.Context, ownerID uint, input *CreateServiceInput) (*models.Service, error) {
	if err := s.checkCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	service := &models.Service{
		UserID:      ownerID,
		CategoryID:  input.CategoryID,
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Status:      models.ServiceStatusActive,
	}

	if err := s.serviceRepo.Create(ctx, service); err != nil {
		return nil, err
	}

	return service, nil
}

// UpdateServiceInput represents update service input
type UpdateServiceInput struct {
	CategoryID  *uint
	Title       *string
	Description *string
	Price       *int
}

// UpdateService updates a listing; only the owner may do so
func (s *MarketplaceService) UpdateService(ctx context.Context, id, callerID uint, input *UpdateServiceInput) (*models.Service, error) {
	service, err := s.GetServiceByID(ctx, id, false, false)
	if err != nil {
		return nil, err
	}
	if service.UserID != callerID {
		return nil, ErrNotOwner
	}

	if input.CategoryID != nil {
		if err := s.checkCategory(ctx, input.CategoryID); err != nil {
			return nil, err
		}
		service.CategoryID = input.CategoryID
	}
	if input.Title != nil {
		service.Title = *input.Title
	}
	if input.Description != nil {
		service.Description = *input.Description
	}
	if input.Price != nil {
		service.Price = *input.Price
	}

	if err := s.serviceRepo.Update(ctx, service); err != nil {
		return nil, err
	}

	return service, nil
}

// DeleteService soft deletes a listing via its status flag
func (s *MarketplaceService) DeleteService(ctx context.Context, id, callerID uint) error {
	service, err := s.GetServiceByID(ctx, id, false, false)
	if err != nil {
		return err
	}
	if service.UserID != callerID {
		return ErrNotOwner
	}

	service.Status = models.ServiceStatusDeleted
	return s.serviceRepo.Update(ctx, service)
}

// SetServiceStatus sets any status on a listing (admin moderation)
func (s *MarketplaceService) SetServiceStatus(ctx context.Context, id, adminID uint, status string, meta RequestMeta) (*models.Service, error) {
	if !contains(models.ServiceStatuses, status) {
		return nil, ErrInvalidListingStatus
	}

	service, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}

	oldStatus := service.Status
	service.Status = status
	if err := s.serviceRepo.Update(ctx, service); err != nil {
		return nil, err
	}

	s.auditService.Record(ctx, adminID, "service.set_status", "service", service.ID, map[string]interface{}{
		"old_status": oldStatus,
		"new_status": status,
	}, meta)

	return service, nil
}

// SetServiceFeatured toggles the featured flag (admin)
func (s *MarketplaceService) SetServiceFeatured(ctx context.Context, id, adminID uint, featured bool, meta RequestMeta) (*models.Service, error) {
	service, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}

	service.IsFeatured = featured
	if err := s.serviceRepo.Update(ctx, service); err != nil {
		return nil, err
	}

	s.auditService.Record(ctx, adminID, "service.set_featured", "service", service.ID, map[string]interface{}{
		"featured": featured,
	}, meta)

	return service, nil
}

// ============================================================
// Demands
// ============================================================

// ListDemandsInput represents demand listing input
type ListDemandsInput struct {
	UserID     uint
	CategoryID uint
	Status     string
	Urgency    string
	Search     string
	Offset     int
	Limit      int
}

// ListDemands lists demands with filters
func (s *MarketplaceService) ListDemands(ctx context.Context, input *ListDemandsInput) ([]*models.Demand, int64, error) {
	filter := repositories.DemandFilter{
		UserID:     input.UserID,
		CategoryID: input.CategoryID,
		Status:     input.Status,
		Urgency:    input.Urgency,
		Search:     input.Search,
	}
	return s.demandRepo.List(ctx, filter, input.Offset, input.Limit)
}

// GetDemandByID gets a demand by ID. Soft-deleted demands surface only
// when includeDeleted is set (admin callers).
func (s *MarketplaceService) GetDemandByID(ctx context.Context, id uint, includeDeleted bool) (*models.Demand, error) {
	demand, err := s.demandRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDemandNotFound
		}
		return nil, err
	}
	if demand.IsSoftDeleted() && !includeDeleted {
		return nil, ErrDemandNotFound
	}
	return demand, nil
}

// CreateDemandInput represents create demand input
type CreateDemandInput struct {
	CategoryID  *uint
	Title       string
	Description string
	Budget      int
	Urgency     string
	Deadline    *time.Time
	Location    string
	Tags        string
}

// CreateDemand creates a new demand
func (s *MarketplaceService) CreateDemand(ctx context.Context, ownerID uint, input *CreateDemandInput) (*models.Demand, error) {
	if err := s.checkCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	urgency := input.Urgency
	if urgency == "" {
		urgency = models.DemandUrgencyMedium
	}
	switch urgency {
	case models.DemandUrgencyLow, models.DemandUrgencyMedium, models.DemandUrgencyHigh:
	default:
		return nil, ErrInvalidUrgency
	}

	demand := &models.Demand{
		UserID:      ownerID,
		CategoryID:  input.CategoryID,
		Title:       input.Title,
		Description: input.Description,
		Budget:      input.Budget,
		Status:      models.DemandStatusOpen,
		Urgency:     urgency,
		Deadline:    input.Deadline,
		Location:    input.Location,
		Tags:        input.Tags,
	}

	if err := s.demandRepo.Create(ctx, demand); err != nil {
		return nil, err
	}

	return demand, nil
}

// UpdateDemandInput represents update demand input
type UpdateDemandInput struct {
	CategoryID  *uint
	Title       *string
	Description *string
	Budget      *int
	Urgency     *string
	Deadline    *time.Time
	Location    *string
	Tags        *string
}

// UpdateDemand updates a demand; only the owner may do so
func (s *MarketplaceService) UpdateDemand(ctx context.Context, id, callerID uint, input *UpdateDemandInput) (*models.Demand, error) {
	demand, err := s.GetDemandByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if demand.UserID != callerID {
		return nil, ErrNotOwner
	}

	if input.CategoryID != nil {
		if err := s.checkCategory(ctx, input.CategoryID); err != nil {
			return nil, err
		}
		demand.CategoryID = input.CategoryID
	}
	if input.Title != nil {
		demand.Title = *input.Title
	}
	if input.Description != nil {
		demand.Description = *input.Description
	}
	if input.Budget != nil {
		demand.Budget = *input.Budget
	}
	if input.Urgency != nil {
		switch *input.Urgency {
		case models.DemandUrgencyLow, models.DemandUrgencyMedium, models.DemandUrgencyHigh:
			demand.Urgency = *input.Urgency
		default:
			return nil, ErrInvalidUrgency
		}
	}
	if input.Deadline != nil {
		demand.Deadline = input.Deadline
	}
	if input.Location != nil {
		demand.Location = *input.Location
	}
	if input.Tags != nil {
		demand.Tags = *input.Tags
	}

	if err := s.demandRepo.Update(ctx, demand); err != nil {
		return nil, err
	}

	return demand, nil
}

// DeleteDemand soft deletes a demand via its status flag
func (s *MarketplaceService) DeleteDemand(ctx context.Context, id, callerID uint) error {
	demand, err := s.GetDemandByID(ctx, id, false)
	if err != nil {
		return err
	}
	if demand.UserID != callerID {
		return ErrNotOwner
	}

	demand.Status = models.DemandStatusDeleted
	return s.demandRepo.Update(ctx, demand)
}

// SetDemandStatus transitions a demand's status. Owners move their own
// demands through the open/in_progress/fulfilled/closed flow; admins may
// set any status.
func (s *MarketplaceService) SetDemandStatus(ctx context.Context, id, callerID uint, isAdmin bool, status string, meta RequestMeta) (*models.Demand, error) {
	if !contains(models.DemandStatuses, status) {
		return nil, ErrInvalidListingStatus
	}

	if !isAdmin && !contains(models.DemandOwnerStatuses, status) {
		return nil, ErrStatusNotAllowed
	}

	demand, err := s.GetDemandByID(ctx, id, isAdmin)
	if err != nil {
		return nil, err
	}
	if !isAdmin && demand.UserID != callerID {
		return nil, ErrNotOwner
	}

	oldStatus := demand.Status
	demand.Status = status
	if err := s.demandRepo.Update(ctx, demand); err != nil {
		return nil, err
	}

	if isAdmin {
		s.auditService.Record(ctx, callerID, "demand.set_status", "demand", demand.ID, map[string]interface{}{
			"old_status": oldStatus,
			"new_status": status,
		}, meta)
	}

	return demand, nil
}

func contains(set []string, value string) bool {
	for _, s := range set {
		if s == value {
			return true
		}
	}
	return false
}
