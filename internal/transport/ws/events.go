package ws

import (
	"encoding/json"
	"time"

	"github.com/alankrit98/DevLog/internal/domain"
	"github.com/google/uuid"
)

// Event types - Client → Server
const (
	EventTypeJoinUserRoom = "join_user_room"
	EventTypeJoinProject  = "join_project"
	EventTypeLeaveProject = "leave_project"
	EventTypeSendComment  = "send_comment"
	EventTypeSendMessage  = "send_message"
	EventTypePing         = "ping"
)

// Event types - Server → Client
const (
	EventTypeReceiveComment  = "receive_comment"
	EventTypeReceiveMessage  = "receive_message"
	EventTypeNewNotification = "new_notification"
	EventTypePong            = "pong"
	EventTypeError           = "error"
)

// Event is the base envelope for all WebSocket messages.
type Event struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"ts,omitempty"`
}

// --- Client → Server payloads ---

type UserRoomPayload struct {
	UserID uuid.UUID `json:"userId"`
}

type ProjectRoomPayload struct {
	ProjectID uuid.UUID `json:"projectId"`
}

// commentRoute and messageRoute pick the routing key out of relayed
// payloads; the rest of the payload is forwarded untouched.
type commentRoute struct {
	Project uuid.UUID `json:"project"`
}

type messageRoute struct {
	ReceiverID uuid.UUID `json:"receiverId"`
}

// --- Server → Client payloads ---

type CommentPayload struct {
	domain.Comment
}

type MessagePayload struct {
	domain.Message
}

type NotificationPayload struct {
	domain.Notification
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewEvent creates a server→client event with the current timestamp.
func NewEvent(eventType string, payload any) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{
		Type:      eventType,
		Payload:   data,
		Timestamp: time.Now().Unix(),
	}, nil
}

// relayEvent wraps an already encoded payload.
func relayEvent(eventType string, raw json.RawMessage) *Event {
	return &Event{
		Type:      eventType,
		Payload:   raw,
		Timestamp: time.Now().Unix(),
	}
}

func UserRoom(id uuid.UUID) string {
	return "user:" + id.String()
}

func ProjectRoom(id uuid.UUID) string {
	return "project:" + id.String()
}
