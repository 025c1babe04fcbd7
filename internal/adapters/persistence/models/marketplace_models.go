package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Marketplace: Categories, Services, Demands, Transactions
// ============================================================

// Category represents categories table
type Category struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Icon        string         `gorm:"size:100" json:"icon"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Category) TableName() string {
	return "categories"
}

// Service statuses
const (
	ServiceStatusActive    = "active"
	ServiceStatusInactive  = "inactive"
	ServiceStatusPending   = "pending"
	ServiceStatusCompleted = "completed"
	ServiceStatusReported  = "reported"
	ServiceStatusRejected  = "rejected"
	ServiceStatusDeleted   = "deleted"
	ServiceStatusSuspended = "suspended"
)

// ServiceStatuses is the closed set accepted by status updates
var ServiceStatuses = []string{
	ServiceStatusActive, ServiceStatusInactive, ServiceStatusPending,
	ServiceStatusCompleted, ServiceStatusReported, ServiceStatusRejected,
	ServiceStatusDeleted, ServiceStatusSuspended,
}

// Service represents services table (a skill offered for coins)
type Service struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	CategoryID  *uint          `gorm:"index" json:"category_id"`
	Title       string         `gorm:"size:200;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Price       int            `gorm:"not null" json:"price"`
	Status      string         `gorm:"size:20;default:'active';index" json:"status"`
	IsFeatured  bool           `gorm:"default:false" json:"is_featured"`
	Views       int            `gorm:"default:0" json:"views"`
	OrderCount  int            `gorm:"default:0" json:"order_count"`
	RatingAvg   float64        `gorm:"type:decimal(3,2);default:0" json:"rating_avg"`
	RatingCount int            `gorm:"default:0" json:"rating_count"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	User     *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

func (Service) TableName() string {
	return "services"
}

// IsSoftDeleted reports whether the listing was removed via status flag
func (s *Service) IsSoftDeleted() bool {
	return s.Status == ServiceStatusDeleted
}

// Demand statuses
const (
	DemandStatusOpen       = "open"
	DemandStatusInProgress = "in_progress"
	DemandStatusClosed     = "closed"
	DemandStatusFulfilled  = "fulfilled"
	DemandStatusDeleted    = "deleted"
	DemandStatusExpired    = "expired"
)

// DemandStatuses is the closed set accepted by status updates
var DemandStatuses = []string{
	DemandStatusOpen, DemandStatusInProgress, DemandStatusClosed,
	DemandStatusFulfilled, DemandStatusDeleted, DemandStatusExpired,
}

// DemandOwnerStatuses is the subset owners may set themselves; deleted and
// expired are system or admin outcomes.
var DemandOwnerStatuses = []string{
	DemandStatusOpen, DemandStatusInProgress, DemandStatusClosed,
	DemandStatusFulfilled,
}

// Demand urgency levels
const (
	DemandUrgencyLow    = "low"
	DemandUrgencyMedium = "medium"
	DemandUrgencyHigh   = "high"
)

// Demand represents demands table (a skill wanted, priced as a budget)
type Demand struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	CategoryID  *uint          `gorm:"index" json:"category_id"`
	Title       string         `gorm:"size:200;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Budget      int            `gorm:"not null" json:"budget"`
	Status      string         `gorm:"size:20;default:'open';index" json:"status"`
	Urgency     string         `gorm:"size:10;default:'medium'" json:"urgency"`
	Deadline    *time.Time     `json:"deadline"`
	Location    string         `gorm:"size:200" json:"location"`
	Tags        string         `gorm:"size:500" json:"tags"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	User     *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

func (Demand) TableName() string {
	return "demands"
}

// IsSoftDeleted reports whether the demand was removed via status flag
func (d *Demand) IsSoftDeleted() bool {
	return d.Status == DemandStatusDeleted
}

// Transaction types
const (
	TxTypeServicePayment = "service_payment"
	TxTypeDemandPayment  = "demand_payment"
	TxTypeBonus          = "bonus"
	TxTypeRefund         = "refund"
	TxTypePurchase       = "purchase"
)

// TransactionTypes is the closed set accepted on create
var TransactionTypes = []string{
	TxTypeServicePayment, TxTypeDemandPayment, TxTypeBonus,
	TxTypeRefund, TxTypePurchase,
}

// Transaction statuses
const (
	TxStatusPending   = "pending"
	TxStatusCompleted = "completed"
	TxStatusCancelled = "cancelled"
	TxStatusDisputed  = "disputed"
)

// TransactionStatuses is the closed set accepted on status updates
var TransactionStatuses = []string{
	TxStatusPending, TxStatusCompleted, TxStatusCancelled, TxStatusDisputed,
}

// Transaction represents transactions table (the coin ledger)
type Transaction struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ReferenceNo string     `gorm:"uniqueIndex;size:36;not null" json:"reference_no"`
	ServiceID   *uint      `gorm:"index" json:"service_id"`
	DemandID    *uint      `gorm:"index" json:"demand_id"`
	FromUserID  uint       `gorm:"not null;index" json:"from_user_id"`
	ToUserID    uint       `gorm:"not null;index" json:"to_user_id"`
	Coins       int        `gorm:"not null" json:"coins"`
	Type        string     `gorm:"size:20;not null" json:"type"`
	Status      string     `gorm:"size:20;default:'pending';index" json:"status"`
	Notes       string     `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	FromUser *User    `gorm:"foreignKey:FromUserID" json:"from_user,omitempty"`
	ToUser   *User    `gorm:"foreignKey:ToUserID" json:"to_user,omitempty"`
	Service  *Service `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	Demand   *Demand  `gorm:"foreignKey:DemandID" json:"demand,omitempty"`
}

func (Transaction) TableName() string {
	return "transactions"
}
