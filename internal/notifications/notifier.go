// Package notifications provides best-effort notification persistence and delivery.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"chirp/internal/middleware"
	"chirp/internal/models"
	"chirp/internal/observability"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Notifier persists a notification row and publishes it to the recipient's
// Redis channel. Every method is nil-safe and swallows errors: notification
// delivery must never fail the action that triggered it.
type Notifier struct {
	db  *gorm.DB
	rdb *redis.Client
}

// NewNotifier creates a Notifier. rdb may be nil, in which case notifications
// are persisted but not pushed.
func NewNotifier(db *gorm.DB, rdb *redis.Client) *Notifier {
	return &Notifier{db: db, rdb: rdb}
}

// Notify records that sender performed an action affecting recipient.
// Self-notifications are skipped. Failures are counted and logged, never
// returned.
func (n *Notifier) Notify(ctx context.Context, recipientID, senderID uint, kind models.NotificationType, postID *uint, text string) {
	if n == nil || n.db == nil || recipientID == senderID {
		return
	}

	notif := &models.Notification{
		RecipientID: recipientID,
		SenderID:    senderID,
		Type:        kind,
		PostID:      postID,
		Text:        text,
	}
	if err := n.db.WithContext(ctx).Create(notif).Error; err != nil {
		observability.NotificationFailures.WithLabelValues(string(kind)).Inc()
		middleware.Logger.WarnContext(ctx, "failed to persist notification",
			slog.String("type", string(kind)),
			slog.Any("recipient_id", recipientID),
			slog.String("error", err.Error()),
		)
		return
	}

	n.publish(ctx, recipientID, notif)
}

func (n *Notifier) publish(ctx context.Context, recipientID uint, notif *models.Notification) {
	if n.rdb == nil {
		return
	}
	payload, err := json.Marshal(notif)
	if err != nil {
		return
	}
	channel := fmt.Sprintf("notifications:user:%d", recipientID)
	if err := n.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		observability.NotificationFailures.WithLabelValues(string(notif.Type)).Inc()
		middleware.Logger.WarnContext(ctx, "failed to publish notification",
			slog.String("channel", channel),
			slog.String("error", err.Error()),
		)
	}
}
