// Package models contains data structures for the application's domain models.
package models

import "time"

// NotificationType identifies the action that produced a notification.
type NotificationType string

const (
	NotificationTypeLike    NotificationType = "like"
	NotificationTypeFollow  NotificationType = "follow"
	NotificationTypeRetweet NotificationType = "retweet"
	NotificationTypeReply   NotificationType = "reply"
	NotificationTypeMention NotificationType = "mention"
)

// Notification is a persisted best-effort notification. Delivery is
// fire-and-forget; failures never fail the action that produced it.
type Notification struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	RecipientID uint             `gorm:"not null;index" json:"recipient_id"`
	SenderID    uint             `gorm:"not null" json:"sender_id"`
	Sender      User             `gorm:"foreignKey:SenderID" json:"sender"`
	Type        NotificationType `gorm:"type:varchar(20);not null" json:"type"`
	PostID      *uint            `json:"post_id,omitempty"`
	Text        string           `gorm:"not null" json:"text"`
	Read        bool             `gorm:"not null;default:false" json:"read"`
	CreatedAt   time.Time        `json:"created_at"`
}
