package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"skillswap/internal/adapters/persistence/models"
	"skillswap/internal/adapters/persistence/repositories"
	"skillswap/internal/config"
	"skillswap/internal/pkg/jwt"
	"skillswap/internal/pkg/password"
)

// Auth service errors
var (
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrAccountInactive       = errors.New("account is not active")
	ErrUsernameAlreadyExists = errors.New("username already exists")
	ErrEmailAlreadyExists    = errors.New("email already exists")
	ErrRefreshTokenInvalid   = errors.New("refresh token is invalid")
	ErrResetCodeInvalid      = errors.New("reset code is invalid or expired")
)

// ResetCodeTTL is how long a password reset code stays valid
const ResetCodeTTL = 15 * time.Minute

// AuthService handles authentication for both admins and users
type AuthService struct {
	userRepo         repositories.UserRepository
	adminRepo        repositories.AdminRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	transactionRepo  *repositories.TransactionRepository
	cfg              *config.Config
	logger           zerolog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repositories.UserRepository,
	adminRepo repositories.AdminRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	transactionRepo *repositories.TransactionRepository,
	cfg *config.Config,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:         userRepo,
		adminRepo:        adminRepo,
		refreshTokenRepo: refreshTokenRepo,
		transactionRepo:  transactionRepo,
		cfg:              cfg,
		logger:           logger,
	}
}

// TokenPair carries both tokens back to the client
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RegisterInput represents user registration input
type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
	Phone    string
}

// Register creates a new user account with the welcome bonus applied
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*models.User, *TokenPair, error) {
	if exists, _ := s.userRepo.ExistsByUsername(ctx, input.Username); exists {
		return nil, nil, ErrUsernameAlreadyExists
	}
	if exists, _ := s.userRepo.ExistsByEmail(ctx, input.Email); exists {
		return nil, nil, ErrEmailAlreadyExists
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, nil, err
	}

	user := &models.User{
		Username: input.Username,
		Email:    input.Email,
		Password: hashed,
		FullName: input.FullName,
		Phone:    input.Phone,
		Coins:    s.cfg.Coins.WelcomeBonus,
		Status:   models.UserStatusActive,
		IsActive: true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, nil, err
	}

	// Welcome bonus ledger entry is best-effort; the balance is already
	// on the row.
	if s.cfg.Coins.WelcomeBonus > 0 {
		bonus := &models.Transaction{
			ReferenceNo: uuid.New().String(),
			FromUserID:  user.ID,
			ToUserID:    user.ID,
			Coins:       s.cfg.Coins.WelcomeBonus,
			Type:        models.TxTypeBonus,
			Status:      models.TxStatusCompleted,
			Notes:       "Welcome bonus",
		}
		if err := s.transactionRepo.Create(ctx, bonus); err != nil {
			s.logger.Error().Err(err).Uint("user_id", user.ID).Msg("welcome bonus ledger write failed")
		}
	}

	tokens, err := s.issueTokens(ctx, jwt.ActorUser, user.ID, user.Username, "user")
	if err != nil {
		return nil, nil, err
	}

	return user, tokens, nil
}

// LoginUser authenticates an end user
func (s *AuthService) LoginUser(ctx context.Context, username, plainPassword string) (*models.User, *TokenPair, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !password.Verify(plainPassword, user.Password) {
		return nil, nil, ErrInvalidCredentials
	}
	if !user.CanAuthenticate() {
		return nil, nil, ErrAccountInactive
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error().Err(err).Uint("user_id", user.ID).Msg("last login update failed")
	}

	tokens, err := s.issueTokens(ctx, jwt.ActorUser, user.ID, user.Username, "user")
	if err != nil {
		return nil, nil, err
	}

	return user, tokens, nil
}

// LoginAdmin authenticates an admin
func (s *AuthService) LoginAdmin(ctx context.Context, username, plainPassword string) (*models.Admin, *TokenPair, error) {
	admin, err := s.adminRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !password.Verify(plainPassword, admin.Password) {
		return nil, nil, ErrInvalidCredentials
	}
	if admin.Status != models.AdminStatusActive {
		return nil, nil, ErrAccountInactive
	}

	now := time.Now()
	admin.LastLogin = &now
	if err := s.adminRepo.Update(ctx, admin); err != nil {
		s.logger.Error().Err(err).Uint("admin_id", admin.ID).Msg("last login update failed")
	}

	tokens, err := s.issueTokens(ctx, jwt.ActorAdmin, admin.ID, admin.Username, admin.Role)
	if err != nil {
		return nil, nil, err
	}

	return admin, tokens, nil
}

// Refresh rotates a refresh token and returns a fresh pair. The old token
// is revoked, matched by its SHA-256 hash.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.cfg.JWT.RefreshSecret)
	if err != nil {
		return nil, ErrRefreshTokenInvalid
	}

	stored, err := s.refreshTokenRepo.GetByTokenHash(ctx, password.HashToken(refreshToken))
	if err != nil {
		return nil, ErrRefreshTokenInvalid
	}
	if stored.IsRevoked() || stored.IsExpired() {
		return nil, ErrRefreshTokenInvalid
	}

	// Re-fetch the principal so a deactivated account cannot rotate
	var username, role string
	switch claims.ActorType {
	case jwt.ActorAdmin:
		admin, err := s.adminRepo.GetByID(ctx, claims.ActorID)
		if err != nil || admin.Status != models.AdminStatusActive {
			return nil, ErrRefreshTokenInvalid
		}
		username, role = admin.Username, admin.Role
	case jwt.ActorUser:
		user, err := s.userRepo.GetByID(ctx, claims.ActorID)
		if err != nil || !user.CanAuthenticate() {
			return nil, ErrRefreshTokenInvalid
		}
		username, role = user.Username, "user"
	default:
		return nil, ErrRefreshTokenInvalid
	}

	if err := s.refreshTokenRepo.Revoke(ctx, stored.ID); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, claims.ActorType, claims.ActorID, username, role)
}

// Logout revokes the presented refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	stored, err := s.refreshTokenRepo.GetByTokenHash(ctx, password.HashToken(refreshToken))
	if err != nil {
		// Unknown token: nothing to revoke
		return nil
	}
	return s.refreshTokenRepo.Revoke(ctx, stored.ID)
}

// LogoutAll revokes every refresh token the actor holds
func (s *AuthService) LogoutAll(ctx context.Context, actorType string, actorID uint) error {
	return s.refreshTokenRepo.RevokeAllByActor(ctx, actorType, actorID)
}

// ForgotPassword issues a one-time reset code. The code is returned to the
// delivery channel (email sender lives outside this service); only its hash
// is stored. Unknown emails report success to avoid account enumeration.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}

	code, err := password.GenerateResetCode()
	if err != nil {
		return "", err
	}

	expires := time.Now().Add(ResetCodeTTL)
	user.ResetCodeHash = password.HashToken(code)
	user.ResetCodeExpires = &expires

	if err := s.userRepo.Update(ctx, user); err != nil {
		return "", err
	}

	return code, nil
}

// ResetPassword verifies the one-time code and sets a new password. All
// refresh tokens are revoked so stolen sessions die with the old password.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return ErrResetCodeInvalid
	}

	if user.ResetCodeHash == "" || user.ResetCodeExpires == nil {
		return ErrResetCodeInvalid
	}
	if time.Now().After(*user.ResetCodeExpires) {
		return ErrResetCodeInvalid
	}
	if user.ResetCodeHash != password.HashToken(code) {
		return ErrResetCodeInvalid
	}

	hashed, err := password.Hash(newPassword)
	if err != nil {
		return err
	}

	user.Password = hashed
	user.ResetCodeHash = ""
	user.ResetCodeExpires = nil

	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	if err := s.refreshTokenRepo.RevokeAllByActor(ctx, jwt.ActorUser, user.ID); err != nil {
		s.logger.Error().Err(err).Uint("user_id", user.ID).Msg("token revocation after reset failed")
	}

	return nil
}

// issueTokens builds an access/refresh pair and persists the refresh hash
func (s *AuthService) issueTokens(ctx context.Context, actorType string, actorID uint, username, role string) (*TokenPair, error) {
	accessToken, err := jwt.GenerateAccessToken(actorID, actorType, username, role, s.cfg.JWT.Secret, s.cfg.JWT.AccessTokenMins)
	if err != nil {
		return nil, err
	}

	tokenID := uuid.New().String()
	refreshToken, err := jwt.GenerateRefreshToken(actorID, actorType, tokenID, s.cfg.JWT.RefreshSecret, s.cfg.JWT.RefreshTokenDays)
	if err != nil {
		return nil, err
	}

	stored := &models.RefreshToken{
		ActorType: actorType,
		ActorID:   actorID,
		TokenHash: password.HashToken(refreshToken),
		ExpiresAt: jwt.GetExpiryTime(s.cfg.JWT.RefreshTokenDays),
	}
	if err := s.refreshTokenRepo.Create(ctx, stored); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
