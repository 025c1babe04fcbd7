package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"skillswap/internal/adapters/persistence/models"
	"skillswap/internal/adapters/persistence/repositories"
	"skillswap/internal/pkg/password"
)

// Admin service errors
var (
	ErrAdminNotFound      = errors.New("admin not found")
	ErrCannotDeleteSelf   = errors.New("cannot delete your own account")
	ErrCannotDemoteSelf   = errors.New("cannot change your own role")
	ErrInvalidAdminRole   = errors.New("invalid admin role")
	ErrInvalidAdminStatus = errors.New("invalid admin status")
)

// AdminService handles admin account management
type AdminService struct {
	adminRepo       repositories.AdminRepository
	userRepo        repositories.UserRepository
	reportRepo      *repositories.ReportRepository
	transactionRepo *repositories.TransactionRepository
	auditService    *AuditService
	db              *gorm.DB
}

// NewAdminService creates a new admin service
func NewAdminService(
	adminRepo repositories.AdminRepository,
	userRepo repositories.UserRepository,
	reportRepo *repositories.ReportRepository,
	transactionRepo *repositories.TransactionRepository,
	auditService *AuditService,
	db *gorm.DB,
) *AdminService {
	return &AdminService{
		adminRepo:       adminRepo,
		userRepo:        userRepo,
		reportRepo:      reportRepo,
		transactionRepo: transactionRepo,
		auditService:    auditService,
		db:              db,
	}
}

// ListAdmins lists admin accounts with pagination
func (s *AdminService) ListAdmins(ctx context.Context, offset, limit int) ([]*models.Admin, int64, error) {
	return s.adminRepo.List(ctx, offset, limit)
}

// GetAdminByID gets an admin by ID
func (s *AdminService) GetAdminByID(ctx context.Context, id uint) (*models.Admin, error) {
	admin, err := s.adminRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return admin, nil
}

// CreateAdminInput represents create admin input
type CreateAdminInput struct {
	Username string
	Email    string
	Password string
	FullName string
	Role     string
}

// CreateAdmin creates a new admin account
func (s *AdminService) CreateAdmin(ctx context.Context, actorID uint, input *CreateAdminInput, meta RequestMeta) (*models.Admin, error) {
	if !validAdminRole(input.Role) {
		return nil, ErrInvalidAdminRole
	}
	if exists, _ := s.adminRepo.ExistsByUsername(ctx, input.Username); exists {
		return nil, ErrUsernameAlreadyExists
	}
	if exists, _ := s.adminRepo.ExistsByEmail(ctx, input.Email); exists {
		return nil, ErrEmailAlreadyExists
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	admin := &models.Admin{
		Username: input.Username,
		Email:    input.Email,
		Password: hashed,
		FullName: input.FullName,
		Role:     input.Role,
		Status:   models.AdminStatusActive,
	}

	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return nil, err
	}

	s.auditService.Record(ctx, actorID, "admin.create", "admin", admin.ID, map[string]interface{}{
		"username": admin.Username,
		"role":     admin.Role,
	}, meta)

	return admin, nil
}

// UpdateAdminInput represents update admin input
type UpdateAdminInput struct {
	Email    *string
	FullName *string
	Role     *string
	Status   *string
}

// UpdateAdmin updates an admin account
func (s *AdminService) UpdateAdmin(ctx context.Context, id, actorID uint, input *UpdateAdminInput, meta RequestMeta) (*models.Admin, error) {
	admin, err := s.GetAdminByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Prevent admins from changing their own role
	if id == actorID && input.Role != nil {
		return nil, ErrCannotDemoteSelf
	}

	if input.Email != nil && *input.Email != admin.Email {
		exists, _ := s.adminRepo.ExistsByEmail(ctx, *input.Email)
		if exists {
			return nil, ErrEmailAlreadyExists
		}
		admin.Email = *input.Email
	}
	if input.FullName != nil {
		admin.FullName = *input.FullName
	}
	if input.Role != nil {
		if !validAdminRole(*input.Role) {
			return nil, ErrInvalidAdminRole
		}
		admin.Role = *input.Role
	}
	if input.Status != nil {
		if *input.Status != models.AdminStatusActive && *input.Status != models.AdminStatusInactive {
			return nil, ErrInvalidAdminStatus
		}
		admin.Status = *input.Status
	}

	if err := s.adminRepo.Update(ctx, admin); err != nil {
		return nil, err
	}

	s.auditService.Record(ctx, actorID, "admin.update", "admin", admin.ID, input, meta)

	return admin, nil
}

// DeleteAdmin soft deletes an admin account
func (s *AdminService) DeleteAdmin(ctx context.Context, id, actorID uint, meta RequestMeta) error {
	if id == actorID {
		return ErrCannotDeleteSelf
	}
	if _, err := s.GetAdminByID(ctx, id); err != nil {
		return err
	}

	if err := s.adminRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.auditService.Record(ctx, actorID, "admin.delete", "admin", id, nil, meta)
	return nil
}

// Stats is the dashboard counters payload
type Stats struct {
	TotalUsers        int64 `json:"total_users"`
	ActiveUsers       int64 `json:"active_users"`
	TotalServices     int64 `json:"total_services"`
	TotalDemands      int64 `json:"total_demands"`
	PendingReports    int64 `json:"pending_reports"`
	TotalTransactions int64 `json:"total_transactions"`
	CoinVolume        int64 `json:"coin_volume"`
}

// GetStats aggregates dashboard counters
func (s *AdminService) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	db := s.db.WithContext(ctx)

	if err := db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.User{}).Where("is_active = ? AND status = ?", true, models.UserStatusActive).Count(&stats.ActiveUsers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Service{}).Count(&stats.TotalServices).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Demand{}).Count(&stats.TotalDemands).Error; err != nil {
		return nil, err
	}

	pending, err := s.reportRepo.CountByStatus(ctx, models.ReportStatusPending)
	if err != nil {
		return nil, err
	}
	stats.PendingReports = pending

	if err := db.Model(&models.Transaction{}).Count(&stats.TotalTransactions).Error; err != nil {
		return nil, err
	}

	volume, err := s.transactionRepo.SumCompletedVolume(ctx)
	if err != nil {
		return nil, err
	}
	stats.CoinVolume = volume

	return stats, nil
}

func validAdminRole(role string) bool {
	switch role {
	case models.AdminRoleSuperAdmin, models.AdminRoleAdmin, models.AdminRoleModerator:
		return true
	}
	return false
}
