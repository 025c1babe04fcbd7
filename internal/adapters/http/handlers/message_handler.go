package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"skillswap/internal/config"
	"skillswap/internal/core/services"
	"skillswap/internal/pkg/pagination"
	"skillswap/internal/pkg/response"
	"skillswap/internal/pkg/validator"
)

// MessageHandler handles direct messaging endpoints
type MessageHandler struct {
	messageService *services.MessageService
	cfg            *config.Config
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(messageService *services.MessageService, cfg *config.Config) *MessageHandler {
	return &MessageHandler{messageService: messageService, cfg: cfg}
}

// Send delivers a message to another user
// @Summary Send message
// @Tags Messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /messages [post]
func (h *MessageHandler) Send(c *fiber.Ctx) error {
	body, err := parseBody(c)
	if err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	v := validator.New(body)
	v.Required("receiver_id").Integer("receiver_id").Min("receiver_id", 1)
	v.Required("content").MinLength("content", 1).MaxLength("content", 2000)
	if v.Fails() {
		return response.ValidationFailed(c, v.Errors())
	}

	receiverID, _ := bodyInt(body, "receiver_id")
	input := &services.SendInput{
		ReceiverID: uint(receiverID),
		ServiceID:  bodyUintPtr(body, "service_id"),
		DemandID:   bodyUintPtr(body, "demand_id"),
		Content:    bodyString(body, "content"),
	}

	message, err := h.messageService.Send(c.UserContext(), actorID(c), input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSelfMessage):
			return response.BadRequest(c, "You cannot message yourself")
		case errors.Is(err, services.ErrReceiverNotFound):
			return response.NotFound(c, "Receiver not found")
		case errors.Is(err, services.ErrReceiverInactive):
			return response.BadRequest(c, "Receiver account is not active")
		default:
			return response.InternalServerError(c, "Failed to send message")
		}
	}

	return response.Created(c, "Message sent successfully", message)
}

// Conversations lists the caller's conversation threads
// @Summary List conversations
// @Description List conversation threads with last message and unread count
// @Tags Messages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /messages/conversations [get]
func (h *MessageHandler) Conversations(c *fiber.Ctx) error {
	conversations, err := h.messageService.ListConversations(c.UserContext(), actorID(c))
	if err != nil {
		return response.InternalServerError(c, "Failed to list conversations")
	}

	return response.Success(c, "Conversations retrieved successfully", conversations)
}

// Conversation returns the thread with one correspondent. Fetching the
// thread marks the received messages as read.
// @Summary Get conversation
// @Tags Messages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.PaginatedResponse
// @Router /messages/conversations/{userId} [get]
func (h *MessageHandler) Conversation(c *fiber.Ctx) error {
	otherID, ok := paramID(c, "userId")
	if !ok {
		return response.BadRequest(c, "Invalid user ID")
	}

	params := pagination.GetParams(c, h.cfg.Pagination.MaxPerPage)

	messages, total, err := h.messageService.GetConversation(c.UserContext(), actorID(c), otherID, params.Offset, params.PerPage)
	if err != nil {
		return response.InternalServerError(c, "Failed to get conversation")
	}

	return response.Paginated(c, messages, params, total)
}

// UnreadCount returns the caller's unread message count
// @Summary Get unread message count
// @Tags Messages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /messages/unread-count [get]
func (h *MessageHandler) UnreadCount(c *fiber.Ctx) error {
	count, err := h.messageService.UnreadCount(c.UserContext(), actorID(c))
	if err != nil {
		return response.InternalServerError(c, "Failed to count unread messages")
	}

	return response.Success(c, "Unread count retrieved successfully", fiber.Map{
		"unread_count": count,
	})
}

// Delete removes a message the caller sent or received
// @Summary Delete message
// @Tags Messages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /messages/{id} [delete]
func (h *MessageHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid message ID")
	}

	if err := h.messageService.Delete(c.UserContext(), id, actorID(c)); err != nil {
		switch {
		case errors.Is(err, services.ErrMessageNotFound):
			return response.NotFound(c, "Message not found")
		case errors.Is(err, services.ErrNotMessageParty):
			return response.Forbidden(c, "You can only delete your own messages")
		default:
			return response.InternalServerError(c, "Failed to delete message")
		}
	}

	return response.Success(c, "Message deleted successfully", nil)
}
