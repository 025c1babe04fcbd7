package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"skillswap/internal/config"
	"skillswap/internal/core/services"
	"skillswap/internal/pkg/pagination"
	"skillswap/internal/pkg/response"
)

// NotificationHandler handles notification endpoints
type NotificationHandler struct {
	notificationService *services.NotificationService
	cfg                 *config.Config
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *services.NotificationService, cfg *config.Config) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService, cfg: cfg}
}

// List lists the caller's notifications
// @Summary List notifications
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.PaginatedResponse
// @Router /notifications [get]
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c, h.cfg.Pagination.MaxPerPage)

	input := &services.ListNotificationsInput{
		UnreadOnly: c.Query("unread") == "true",
		Offset:     params.Offset,
		Limit:      params.PerPage,
	}

	notifications, total, err := h.notificationService.List(c.UserContext(), actorID(c), input)
	if err != nil {
		return response.InternalServerError(c, "Failed to list notifications")
	}

	return response.Paginated(c, notifications, params, total)
}

// UnreadCount returns the caller's unread notification count
// @Summary Get unread notification count
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	count, err := h.notificationService.UnreadCount(c.UserContext(), actorID(c))
	if err != nil {
		return response.InternalServerError(c, "Failed to count unread notifications")
	}

	return response.Success(c, "Unread count retrieved successfully", fiber.Map{
		"unread_count": count,
	})
}

// MarkRead marks one notification as read
// @Summary Mark notification read
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /notifications/{id}/read [patch]
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid notification ID")
	}

	if err := h.notificationService.MarkRead(c.UserContext(), actorID(c), id); err != nil {
		switch {
		case errors.Is(err, services.ErrNotificationNotFound):
			return response.NotFound(c, "Notification not found")
		case errors.Is(err, services.ErrNotNotificationOwner):
			return response.Forbidden(c, "You can only read your own notifications")
		default:
			return response.InternalServerError(c, "Failed to mark notification read")
		}
	}

	return response.Success(c, "Notification marked as read", nil)
}

// MarkAllRead marks every notification of the caller as read
// @Summary Mark all notifications read
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	if err := h.notificationService.MarkAllRead(c.UserContext(), actorID(c)); err != nil {
		return response.InternalServerError(c, "Failed to mark notifications read")
	}

	return response.Success(c, "All notifications marked as read", nil)
}
