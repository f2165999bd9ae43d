package service

import (
	"context"

	"github.com/alankrit98/DevLog/internal/domain"
	"github.com/google/uuid"
)

// Notifier broadcasts real-time events to connected clients.
type Notifier interface {
	NotifyNotification(n *domain.Notification)
	NotifyMessage(msg *domain.Message)
	NotifyComment(comment *domain.Comment)
}

// Dispatcher records a notification and pushes it to the recipient.
type Dispatcher interface {
	Notify(ctx context.Context, recipientID, senderID uuid.UUID, typ domain.NotificationType, projectID *uuid.UUID) (*domain.Notification, error)
}
