package services

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"skillswap/internal/adapters/persistence/models"
	"skillswap/internal/adapters/persistence/repositories"
)

// RequestMeta carries request attribution into the audit trail
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// AuditService appends AdminActivityLog rows for every admin mutation.
// Writes are best-effort: a failed audit write is logged and swallowed,
// it never fails the triggering request.
type AuditService struct {
	logRepo *repositories.ActivityLogRepository
	logger  zerolog.Logger
}

// NewAuditService creates a new audit service
func NewAuditService(logRepo *repositories.ActivityLogRepository, logger zerolog.Logger) *AuditService {
	return &AuditService{
		logRepo: logRepo,
		logger:  logger,
	}
}

// Record appends one audit row. details is marshalled to JSON; anything
// unmarshallable is recorded as an empty object rather than dropped.
func (s *AuditService) Record(ctx context.Context, adminID uint, action, entityType string, entityID uint, details interface{}, meta RequestMeta) {
	detailsJSON := "{}"
	if details != nil {
		if b, err := json.Marshal(details); err == nil {
			detailsJSON = string(b)
		}
	}

	entry := &models.AdminActivityLog{
		AdminID:    adminID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    detailsJSON,
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
	}

	if err := s.logRepo.Create(ctx, entry); err != nil {
		s.logger.Error().Err(err).
			Uint("admin_id", adminID).
			Str("action", action).
			Msg("audit log write failed")
	}
}
