package models

import "time"

// ============================================================
// Messaging: Messages & Notifications
// ============================================================

// Message represents messages table
type Message struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	SenderID   uint       `gorm:"not null;index:idx_msg_pair" json:"sender_id"`
	ReceiverID uint       `gorm:"not null;index:idx_msg_pair" json:"receiver_id"`
	ServiceID  *uint      `gorm:"index" json:"service_id"`
	DemandID   *uint      `gorm:"index" json:"demand_id"`
	Content    string     `gorm:"type:text;not null" json:"content"`
	IsRead     bool       `gorm:"default:false;index" json:"is_read"`
	ReadAt     *time.Time `json:"read_at"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`

	Sender   *User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Receiver *User `gorm:"foreignKey:ReceiverID" json:"receiver,omitempty"`
}

func (Message) TableName() string {
	return "messages"
}

// Conversation is one row of the correspondent-grouped inbox view
type Conversation struct {
	UserID       uint      `json:"user_id"`
	Username     string    `json:"username"`
	FullName     string    `json:"full_name"`
	ProfileImage string    `json:"profile_image"`
	LastMessage  string    `json:"last_message"`
	LastAt       time.Time `json:"last_at"`
	UnreadCount  int64     `json:"unread_count"`
}

// Notification types
const (
	NotificationTypeReport      = "report_update"
	NotificationTypeBalance     = "balance_adjusted"
	NotificationTypeMessage     = "new_message"
	NotificationTypeTransaction = "transaction_update"
	NotificationTypeSystem      = "system"
)

// Notification represents notifications table
type Notification struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UserID        uint       `gorm:"not null;index" json:"user_id"`
	Type          string     `gorm:"size:30;not null" json:"type"`
	Title         string     `gorm:"size:200;not null" json:"title"`
	Content       string     `gorm:"type:text" json:"content"`
	ReferenceID   *uint      `json:"reference_id"`
	ReferenceType string     `gorm:"size:30" json:"reference_type"`
	IsRead        bool       `gorm:"default:false;index" json:"is_read"`
	ReadAt        *time.Time `json:"read_at"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
