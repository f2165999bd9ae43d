package ws

import (
	"github.com/alankrit98/DevLog/internal/domain"
	"go.uber.org/zap"
)

// HubNotifier implements service.Notifier using the WebSocket Hub.
type HubNotifier struct {
	hub *Hub
}

func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) NotifyNotification(notification *domain.Notification) {
	evt, err := NewEvent(EventTypeNewNotification, NotificationPayload{Notification: *notification})
	if err != nil {
		n.hub.logger.Error("ws notifier: marshal error", zap.Error(err))
		return
	}
	n.hub.Publish(UserRoom(notification.RecipientID), evt)
}

func (n *HubNotifier) NotifyMessage(msg *domain.Message) {
	evt, err := NewEvent(EventTypeReceiveMessage, MessagePayload{Message: *msg})
	if err != nil {
		n.hub.logger.Error("ws notifier: marshal error", zap.Error(err))
		return
	}
	n.hub.Publish(UserRoom(msg.ReceiverID), evt)
}

func (n *HubNotifier) NotifyComment(comment *domain.Comment) {
	evt, err := NewEvent(EventTypeReceiveComment, CommentPayload{Comment: *comment})
	if err != nil {
		n.hub.logger.Error("ws notifier: marshal error", zap.Error(err))
		return
	}
	n.hub.Publish(ProjectRoom(comment.ProjectID), evt)
}
