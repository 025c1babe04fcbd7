package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Moderation: Report Types, Reports, Audit & Error Logs
// ============================================================

// ReportType entity kinds; governs which entity a report type may target
const (
	ReportEntityAll     = "all"
	ReportEntityService = "service"
	ReportEntityDemand  = "demand"
	ReportEntityUser    = "user"
)

// ReportType represents report_types table
type ReportType struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"size:100;not null" json:"name"`
	Slug         string         `gorm:"uniqueIndex;size:100;not null" json:"slug"`
	Description  string         `gorm:"type:text" json:"description"`
	EntityType   string         `gorm:"size:10;default:'all'" json:"entity_type"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	DisplayOrder int            `gorm:"default:0" json:"display_order"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ReportType) TableName() string {
	return "report_types"
}

// AppliesTo reports whether this type may target the given entity kind
func (rt *ReportType) AppliesTo(entityType string) bool {
	return rt.EntityType == ReportEntityAll || rt.EntityType == entityType
}

// Report statuses
const (
	ReportStatusPending     = "pending"
	ReportStatusUnderReview = "under_review"
	ReportStatusResolved    = "resolved"
	ReportStatusDismissed   = "dismissed"
	ReportStatusEscalated   = "escalated"
)

// ReportStatuses is the closed set accepted on status updates
var ReportStatuses = []string{
	ReportStatusPending, ReportStatusUnderReview, ReportStatusResolved,
	ReportStatusDismissed, ReportStatusEscalated,
}

// Resolution types; some carry a side effect on the reported entity
const (
	ResolutionWarningIssued  = "warning_issued"
	ResolutionContentRemoved = "content_removed"
	ResolutionUserSuspended  = "user_suspended"
	ResolutionUserBanned     = "user_banned"
	ResolutionNoAction       = "no_action"
	ResolutionDuplicate      = "duplicate"
)

// ResolutionTypes is the closed set accepted on resolve
var ResolutionTypes = []string{
	ResolutionWarningIssued, ResolutionContentRemoved, ResolutionUserSuspended,
	ResolutionUserBanned, ResolutionNoAction, ResolutionDuplicate,
}

// Report priorities
const (
	ReportPriorityLow    = "low"
	ReportPriorityMedium = "medium"
	ReportPriorityHigh   = "high"
)

// Report represents reports table. At most one of ReportedUserID /
// ReportedServiceID / ReportedDemandID is populated.
type Report struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	ReporterID        uint       `gorm:"not null;index" json:"reporter_id"`
	ReportTypeID      uint       `gorm:"not null;index" json:"report_type_id"`
	ReportedUserID    *uint      `gorm:"index" json:"reported_user_id"`
	ReportedServiceID *uint      `gorm:"index" json:"reported_service_id"`
	ReportedDemandID  *uint      `gorm:"index" json:"reported_demand_id"`
	Reason            string     `gorm:"size:200;not null" json:"reason"`
	Description       string     `gorm:"type:text" json:"description"`
	Evidence          string     `gorm:"type:text" json:"evidence"`
	Priority          string     `gorm:"size:10;default:'medium'" json:"priority"`
	Status            string     `gorm:"size:20;default:'pending';index" json:"status"`
	AdminNote         string     `gorm:"type:text" json:"admin_note,omitempty"`
	InternalNotes     string     `gorm:"type:text" json:"internal_notes,omitempty"`
	ResolutionType    string     `gorm:"size:20" json:"resolution_type,omitempty"`
	ResolvedBy        *uint      `json:"resolved_by,omitempty"`
	ResolvedAt        *time.Time `json:"resolved_at,omitempty"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Reporter   *User       `gorm:"foreignKey:ReporterID" json:"reporter,omitempty"`
	ReportType *ReportType `gorm:"foreignKey:ReportTypeID" json:"report_type,omitempty"`
}

func (Report) TableName() string {
	return "reports"
}

// IsTerminal reports whether the report is closed for duplicate checks
func (r *Report) IsTerminal() bool {
	return r.Status == ReportStatusResolved || r.Status == ReportStatusDismissed
}

// TargetEntity returns the kind and id of the reported entity
func (r *Report) TargetEntity() (string, uint) {
	switch {
	case r.ReportedUserID != nil:
		return ReportEntityUser, *r.ReportedUserID
	case r.ReportedServiceID != nil:
		return ReportEntityService, *r.ReportedServiceID
	case r.ReportedDemandID != nil:
		return ReportEntityDemand, *r.ReportedDemandID
	}
	return "", 0
}

// ReportResponse is the caller-facing view; moderation notes are present
// only for admin viewers.
type ReportResponse struct {
	ID                uint       `json:"id"`
	ReporterID        uint       `json:"reporter_id"`
	ReportTypeID      uint       `json:"report_type_id"`
	ReportedUserID    *uint      `json:"reported_user_id,omitempty"`
	ReportedServiceID *uint      `json:"reported_service_id,omitempty"`
	ReportedDemandID  *uint      `json:"reported_demand_id,omitempty"`
	Reason            string     `json:"reason"`
	Description       string     `json:"description,omitempty"`
	Evidence          string     `json:"evidence,omitempty"`
	Priority          string     `json:"priority"`
	Status            string     `json:"status"`
	AdminNote         string     `json:"admin_note,omitempty"`
	InternalNotes     string     `json:"internal_notes,omitempty"`
	ResolutionType    string     `json:"resolution_type,omitempty"`
	ResolvedBy        *uint      `json:"resolved_by,omitempty"`
	ResolvedAt        *time.Time `json:"resolved_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// ToResponse builds the caller view; non-admin viewers get the moderation
// notes stripped.
func (r *Report) ToResponse(isAdmin bool) *ReportResponse {
	resp := &ReportResponse{
		ID:                r.ID,
		ReporterID:        r.ReporterID,
		ReportTypeID:      r.ReportTypeID,
		ReportedUserID:    r.ReportedUserID,
		ReportedServiceID: r.ReportedServiceID,
		ReportedDemandID:  r.ReportedDemandID,
		Reason:            r.Reason,
		Description:       r.Description,
		Evidence:          r.Evidence,
		Priority:          r.Priority,
		Status:            r.Status,
		ResolutionType:    r.ResolutionType,
		ResolvedBy:        r.ResolvedBy,
		ResolvedAt:        r.ResolvedAt,
		CreatedAt:         r.CreatedAt,
	}
	if isAdmin {
		resp.AdminNote = r.AdminNote
		resp.InternalNotes = r.InternalNotes
	}
	return resp
}

// AdminActivityLog is the append-only audit trail. Written on every admin
// mutation, never read back by business logic.
type AdminActivityLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	AdminID    uint      `gorm:"not null;index" json:"admin_id"`
	Action     string    `gorm:"size:100;not null" json:"action"`
	EntityType string    `gorm:"size:50;index" json:"entity_type"`
	EntityID   uint      `gorm:"index" json:"entity_id"`
	Details    string    `gorm:"type:text" json:"details"`
	IPAddress  string    `gorm:"size:45" json:"ip_address"`
	UserAgent  string    `gorm:"size:255" json:"user_agent"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AdminActivityLog) TableName() string {
	return "admin_activity_logs"
}

// ErrorLog captures request-scoped server faults, best-effort
type ErrorLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Level     string    `gorm:"size:10" json:"level"`
	Message   string    `gorm:"type:text" json:"message"`
	Path      string    `gorm:"size:255" json:"path"`
	Method    string    `gorm:"size:10" json:"method"`
	IPAddress string    `gorm:"size:45" json:"ip_address"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ErrorLog) TableName() string {
	return "error_logs"
}
