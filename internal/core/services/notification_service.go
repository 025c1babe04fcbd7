package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"skillswap/internal/adapters/persistence/models"
	"skillswap/internal/adapters/persistence/repositories"
)

// Notification service errors
var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNotNotificationOwner = errors.New("not the notification recipient")
)

// NotificationService writes in-app notifications. Dispatch is
// best-effort: a failed write is logged, never surfaced to the caller.
type NotificationService struct {
	notificationRepo *repositories.NotificationRepository
	logger           zerolog.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(notificationRepo *repositories.NotificationRepository, logger zerolog.Logger) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// Notify writes one notification row for a user
func (s *NotificationService) Notify(ctx context.Context, userID uint, notifType, title, content string, referenceID *uint, referenceType string) {
	n := &models.Notification{
		UserID:        userID,
		Type:          notifType,
		Title:         title,
		Content:       content,
		ReferenceID:   referenceID,
		ReferenceType: referenceType,
	}

	if err := s.notificationRepo.Create(ctx, n); err != nil {
		s.logger.Error().Err(err).
			Uint("user_id", userID).
			Str("type", notifType).
			Msg("notification write failed")
	}
}

// ListInput represents notification listing input
type ListNotificationsInput struct {
	UnreadOnly bool
	Offset     int
	Limit      int
}

// List lists a user's notifications
func (s *NotificationService) List(ctx context.Context, userID uint, input *ListNotificationsInput) ([]*models.Notification, int64, error) {
	return s.notificationRepo.ListByUser(ctx, userID, input.UnreadOnly, input.Offset, input.Limit)
}

// UnreadCount counts a user's unread notifications
func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.notificationRepo.CountUnread(ctx, userID)
}

// MarkRead marks one notification read; only the recipient may do so
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uint) error {
	n, err := s.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		return ErrNotificationNotFound
	}
	if n.UserID != userID {
		return ErrNotNotificationOwner
	}
	return s.notificationRepo.MarkRead(ctx, notificationID)
}

// MarkAllRead marks every unread notification of a user read
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) error {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}
