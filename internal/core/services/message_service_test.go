package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"skillswap/internal/adapters/persistence/models"
	"skillswap/internal/adapters/persistence/repositories"
)

func newMessageService(db *gorm.DB) *MessageService {
	return NewMessageService(
		repositories.NewMessageRepository(db),
		repositories.NewUserRepository(db),
		newTestNotify(db),
	)
}

func TestSendRejectsSelfMessage(t *testing.T) {
	db := newTestDB(t)
	svc := newMessageService(db)
	sender := createTestUser(t, db, "sender")

	_, err := svc.Send(context.Background(), sender.ID, &SendInput{
		ReceiverID: sender.ID,
		Content:    "note to self",
	})
	assert.ErrorIs(t, err, ErrSelfMessage)
}

func TestSendRejectsUnknownReceiver(t *testing.T) {
	db := newTestDB(t)
	svc := newMessageService(db)
	sender := createTestUser(t, db, "sender")

	_, err := svc.Send(context.Background(), sender.ID, &SendInput{
		ReceiverID: 9999,
		Content:    "hello?",
	})
	assert.ErrorIs(t, err, ErrReceiverNotFound)
}

func TestSendRejectsInactiveReceiver(t *testing.T) {
	db := newTestDB(t)
	svc := newMessageService(db)
	sender := createTestUser(t, db, "sender")
	receiver := createTestUser(t, db, "receiver")
	require.NoError(t, db.Model(receiver).Update("status", models.UserStatusSuspended).Error)

	_, err := svc.Send(context.Background(), sender.ID, &SendInput{
		ReceiverID: receiver.ID,
		Content:    "hello",
	})
	assert.ErrorIs(t, err, ErrReceiverInactive)
}

func TestSendNotifiesReceiver(t *testing.T) {
	db := newTestDB(t)
	svc := newMessageService(db)
	sender := createTestUser(t, db, "sender")
	receiver := createTestUser(t, db, "receiver")

	message, err := svc.Send(context.Background(), sender.ID, &SendInput{
		ReceiverID: receiver.ID,
		Content:    "interested in your listing",
	})
	require.NoError(t, err)
	assert.False(t, message.IsRead)

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", receiver.ID, models.NotificationTypeMessage).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGetConversationMarksReceivedRead(t *testing.T) {
	db := newTestDB(t)
	svc := newMessageService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	_, err := svc.Send(context.Background(), alice.ID, &SendInput{ReceiverID: bob.ID, Content: "hi bob"})
	require.NoError(t, err)
	_, err = svc.Send(context.Background(), bob.ID, &SendInput{ReceiverID: alice.ID, Content: "hi alice"})
	require.NoError(t, err)

	unread, err := svc.UnreadCount(context.Background(), bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	messages, total, err := svc.GetConversation(context.Background(), bob.ID, alice.ID, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, m := range messages {
		if m.ReceiverID == bob.ID {
			assert.True(t, m.IsRead)
		}
	}

	unread, err = svc.UnreadCount(context.Background(), bob.ID)
	require.NoError(t, err)
	assert.Zero(t, unread)

	// Reading bob's side does not touch alice's unread messages.
	unread, err = svc.UnreadCount(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)
}

func TestMessageDeleteRequiresParty(t *testing.T) {
	db := newTestDB(t)
	svc := newMessageService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	eve := createTestUser(t, db, "eve")

	message, err := svc.Send(context.Background(), alice.ID, &SendInput{ReceiverID: bob.ID, Content: "hi"})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), message.ID, eve.ID)
	assert.ErrorIs(t, err, ErrNotMessageParty)

	err = svc.Delete(context.Background(), message.ID, bob.ID)
	require.NoError(t, err)

	err = svc.Delete(context.Background(), message.ID, bob.ID)
	assert.ErrorIs(t, err, ErrMessageNotFound)
}
