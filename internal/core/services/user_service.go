package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"skillswap/internal/adapters/persistence/models"
	"skillswap/internal/adapters/persistence/repositories"
	"skillswap/internal/pkg/password"
)

// User service errors
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrOldPasswordWrong = errors.New("old password is incorrect")
	ErrInvalidStatus    = errors.New("invalid status value")
)

// UserService handles user management business logic
type UserService struct {
	userRepo     repositories.UserRepository
	auditService *AuditService
	notify       *NotificationService
	logger       zerolog.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo repositories.UserRepository,
	auditService *AuditService,
	notify *NotificationService,
	logger zerolog.Logger,
) *UserService {
	return &UserService{
		userRepo:     userRepo,
		auditService: auditService,
		notify:       notify,
		logger:       logger,
	}
}

// ListUsersInput represents list users input
type ListUsersInput struct {
	Search   string
	Status   string
	Verified *bool
	Offset   int
	Limit    int
}

// ListUsers lists users with filters (admin view)
func (s *UserService) ListUsers(ctx context.Context, input *ListUsersInput) ([]*models.User, int64, error) {
	filter := repositories.UserFilter{
		Search:   input.Search,
		Status:   input.Status,
		Verified: input.Verified,
	}
	return s.userRepo.List(ctx, filter, input.Offset, input.Limit)
}

// GetUserByID gets a user by ID
func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateUserByAdminInput represents admin-side user updates
type UpdateUserByAdminInput struct {
	Email      *string
	FullName   *string
	Status     *string
	IsActive   *bool
	IsVerified *bool
}

// UpdateUserByAdmin updates a user on behalf of an admin
func (s *UserService) UpdateUserByAdmin(ctx context.Context, id, adminID uint, input *UpdateUserByAdminInput, meta RequestMeta) (*models.User, error) {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil && *input.Email != user.Email {
		// Explicit uniqueness check for a clean 409
		exists, _ := s.userRepo.ExistsByEmail(ctx, *input.Email)
		if exists {
			return nil, ErrEmailAlreadyExists
		}
		user.Email = *input.Email
	}
	if input.FullName != nil {
		user.FullName = *input.FullName
	}
	if input.Status != nil {
		switch *input.Status {
		case models.UserStatusActive, models.UserStatusSuspended, models.UserStatusBanned:
			user.Status = *input.Status
		default:
			return nil, ErrInvalidStatus
		}
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if input.IsVerified != nil {
		user.IsVerified = *input.IsVerified
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.auditService.Record(ctx, adminID, "user.update", "user", user.ID, input, meta)

	return user, nil
}

// DeleteUser soft deletes a user (admin)
func (s *UserService) DeleteUser(ctx context.Context, id, adminID uint, meta RequestMeta) error {
	if _, err := s.GetUserByID(ctx, id); err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.auditService.Record(ctx, adminID, "user.delete", "user", id, nil, meta)
	return nil
}

// AdjustBalanceInput represents an admin balance adjustment
type AdjustBalanceInput struct {
	Delta  int
	Reason string
}

// AdjustBalance applies a signed coin delta to a user's balance. No floor
// is enforced: a negative delta may drive the balance below zero, which the
// audit trail records.
func (s *UserService) AdjustBalance(ctx context.Context, id, adminID uint, input *AdjustBalanceInput, meta RequestMeta) (*models.User, error) {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	oldBalance := user.Coins
	user.Coins = oldBalance + input.Delta

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.auditService.Record(ctx, adminID, "user.adjust_balance", "user", user.ID, map[string]interface{}{
		"old_balance": oldBalance,
		"new_balance": user.Coins,
		"delta":       input.Delta,
		"reason":      input.Reason,
	}, meta)

	s.notify.Notify(ctx, user.ID, models.NotificationTypeBalance,
		"Balance adjusted",
		input.Reason,
		&user.ID, "user")

	return user, nil
}

// UpdateProfileInput represents self-service profile updates
type UpdateProfileInput struct {
	Email    *string
	FullName *string
	Phone    *string
	Bio      *string
	Skills   *string
}

// UpdateProfile updates the caller's own profile
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, input *UpdateProfileInput) (*models.User, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Email != nil && *input.Email != user.Email {
		exists, _ := s.userRepo.ExistsByEmail(ctx, *input.Email)
		if exists {
			return nil, ErrEmailAlreadyExists
		}
		user.Email = *input.Email
	}
	if input.FullName != nil {
		user.FullName = *input.FullName
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.Skills != nil {
		user.Skills = *input.Skills
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// ChangePassword changes the caller's own password
func (s *UserService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if !password.Verify(oldPassword, user.Password) {
		return ErrOldPasswordWrong
	}

	hashed, err := password.Hash(newPassword)
	if err != nil {
		return err
	}

	user.Password = hashed
	return s.userRepo.Update(ctx, user)
}

// SetProfileImage stores the uploaded image URL on the profile
func (s *UserService) SetProfileImage(ctx context.Context, userID uint, imageURL string) (*models.User, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.ProfileImage = imageURL
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
