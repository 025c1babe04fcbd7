package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Actors: Admin & User
// ============================================================

// Admin roles
const (
	AdminRoleSuperAdmin = "super_admin"
	AdminRoleAdmin      = "admin"
	AdminRoleModerator  = "moderator"
)

// Admin statuses
const (
	AdminStatusActive   = "active"
	AdminStatusInactive = "inactive"
)

// User statuses beyond the is_active flag; suspended/banned accounts keep
// their rows but fail the auth gate.
const (
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
	UserStatusBanned    = "banned"
)

// Admin represents admins table
type Admin struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	FullName  string         `gorm:"size:100" json:"full_name"`
	Role      string         `gorm:"size:20;default:'moderator'" json:"role"`
	Status    string         `gorm:"size:20;default:'active'" json:"status"`
	LastLogin *time.Time     `json:"last_login"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Admin) TableName() string {
	return "admins"
}

// AdminResponse DTO
type AdminResponse struct {
	ID        uint       `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	FullName  string     `json:"full_name"`
	Role      string     `json:"role"`
	Status    string     `json:"status"`
	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `json:"created_at"`
}

func (a *Admin) ToResponse() *AdminResponse {
	return &AdminResponse{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		FullName:  a.FullName,
		Role:      a.Role,
		Status:    a.Status,
		LastLogin: a.LastLogin,
		CreatedAt: a.CreatedAt,
	}
}

// User represents users table
type User struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Username         string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email            string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password         string         `gorm:"size:255;not null" json:"-"`
	FullName         string         `gorm:"size:100" json:"full_name"`
	Phone            string         `gorm:"size:20" json:"phone"`
	Bio              string         `gorm:"type:text" json:"bio"`
	Skills           string         `gorm:"type:text" json:"skills"`
	ProfileImage     string         `gorm:"size:255" json:"profile_image"`
	Coins            int            `gorm:"default:0" json:"coins"`
	Rating           float64        `gorm:"type:decimal(3,2);default:0" json:"rating"`
	TotalRatings     int            `gorm:"default:0" json:"total_ratings"`
	Status           string         `gorm:"size:20;default:'active'" json:"status"`
	IsActive         bool           `gorm:"default:true" json:"is_active"`
	IsVerified       bool           `gorm:"default:false" json:"is_verified"`
	ResetCodeHash    string         `gorm:"size:64" json:"-"`
	ResetCodeExpires *time.Time     `json:"-"`
	LastLogin        *time.Time     `json:"last_login"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// CanAuthenticate reports whether the auth gate should accept this account
func (u *User) CanAuthenticate() bool {
	return u.IsActive && u.Status == UserStatusActive
}

// UserResponse DTO
type UserResponse struct {
	ID           uint      `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	Phone        string    `json:"phone,omitempty"`
	Bio          string    `json:"bio,omitempty"`
	Skills       string    `json:"skills,omitempty"`
	ProfileImage string    `json:"profile_image,omitempty"`
	Coins        int       `json:"coins"`
	Rating       float64   `json:"rating"`
	TotalRatings int       `json:"total_ratings"`
	Status       string    `json:"status"`
	IsActive     bool      `json:"is_active"`
	IsVerified   bool      `json:"is_verified"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		FullName:     u.FullName,
		Phone:        u.Phone,
		Bio:          u.Bio,
		Skills:       u.Skills,
		ProfileImage: u.ProfileImage,
		Coins:        u.Coins,
		Rating:       u.Rating,
		TotalRatings: u.TotalRatings,
		Status:       u.Status,
		IsActive:     u.IsActive,
		IsVerified:   u.IsVerified,
		CreatedAt:    u.CreatedAt,
	}
}

// PublicProfile strips contact details for other users
type PublicProfile struct {
	ID           uint      `json:"id"`
	Username     string    `json:"username"`
	FullName     string    `json:"full_name"`
	Bio          string    `json:"bio,omitempty"`
	Skills       string    `json:"skills,omitempty"`
	ProfileImage string    `json:"profile_image,omitempty"`
	Rating       float64   `json:"rating"`
	TotalRatings int       `json:"total_ratings"`
	IsVerified   bool      `json:"is_verified"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) ToPublicProfile() *PublicProfile {
	return &PublicProfile{
		ID:           u.ID,
		Username:     u.Username,
		FullName:     u.FullName,
		Bio:          u.Bio,
		Skills:       u.Skills,
		ProfileImage: u.ProfileImage,
		Rating:       u.Rating,
		TotalRatings: u.TotalRatings,
		IsVerified:   u.IsVerified,
		CreatedAt:    u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table.
// ActorType distinguishes admin tokens from user tokens.
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	ActorType string     `gorm:"size:10;not null;index:idx_refresh_actor" json:"actor_type"`
	ActorID   uint       `gorm:"not null;index:idx_refresh_actor" json:"actor_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// Actors
		&Admin{},
		&User{},
		&RefreshToken{},
		// Marketplace
		&Category{},
		&Service{},
		&Demand{},
		&Transaction{},
		// Messaging
		&Message{},
		&Notification{},
		// Moderation
		&ReportType{},
		&Report{},
		&AdminActivityLog{},
		&ErrorLog{},
	)
}
