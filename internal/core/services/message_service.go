package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"skillswap/internal/adapters/persistence/models"
	"skillswap/internal/adapters/persistence/repositories"
)

// Message service errors
var (
	ErrMessageNotFound    = errors.New("message not found")
	ErrReceiverNotFound   = errors.New("receiver not found")
	ErrReceiverInactive   = errors.New("receiver is not active")
	ErrSelfMessage        = errors.New("cannot message yourself")
	ErrNotMessageParty    = errors.New("not the sender or receiver of this message")
)

// MessageService handles direct messaging between users
type MessageService struct {
	messageRepo *repositories.MessageRepository
	userRepo    repositories.UserRepository
	notify      *NotificationService
}

// NewMessageService creates a new message service
func NewMessageService(
	messageRepo *repositories.MessageRepository,
	userRepo repositories.UserRepository,
	notify *NotificationService,
) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		notify:      notify,
	}
}

// SendInput represents send message input
type SendInput struct {
	ReceiverID uint
	ServiceID  *uint
	DemandID   *uint
	Content    string
}

// Send delivers a message. The receiver must exist and be active, and
// self-messaging is rejected.
func (s *MessageService) Send(ctx context.Context, senderID uint, input *SendInput) (*models.Message, error) {
	if input.ReceiverID == senderID {
		return nil, ErrSelfMessage
	}

	receiver, err := s.userRepo.GetByID(ctx, input.ReceiverID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReceiverNotFound
		}
		return nil, err
	}
	if !receiver.CanAuthenticate() {
		return nil, ErrReceiverInactive
	}

	message := &models.Message{
		SenderID:   senderID,
		ReceiverID: input.ReceiverID,
		ServiceID:  input.ServiceID,
		DemandID:   input.DemandID,
		Content:    input.Content,
	}

	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	s.notify.Notify(ctx, receiver.ID, models.NotificationTypeMessage,
		"New message",
		"You have a new message",
		&message.ID, "message")

	return message, nil
}

// ListConversations returns the correspondent-grouped inbox view
func (s *MessageService) ListConversations(ctx context.Context, userID uint) ([]*models.Conversation, error) {
	return s.messageRepo.ListConversations(ctx, userID)
}

// GetConversation returns the thread with one correspondent and, as a side
// effect, marks the caller's received messages in it read.
func (s *MessageService) GetConversation(ctx context.Context, userID, otherID uint, offset, limit int) ([]*models.Message, int64, error) {
	messages, total, err := s.messageRepo.ListConversation(ctx, userID, otherID, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	if err := s.messageRepo.MarkConversationRead(ctx, userID, otherID); err == nil {
		for _, m := range messages {
			if m.ReceiverID == userID {
				m.IsRead = true
			}
		}
	}

	return messages, total, nil
}

// UnreadCount counts the caller's unread messages
func (s *MessageService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.messageRepo.CountUnread(ctx, userID)
}

// Delete removes a message. Only the sender or the receiver may delete;
// the check is per-message, not role-based.
func (s *MessageService) Delete(ctx context.Context, messageID, callerID uint) error {
	message, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMessageNotFound
		}
		return err
	}

	if message.SenderID != callerID && message.ReceiverID != callerID {
		return ErrNotMessageParty
	}

	return s.messageRepo.Delete(ctx, messageID)
}
