package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message is a direct chat message. Seq is assigned by the store and breaks
// ties between messages created in the same instant.
type Message struct {
	ID         uuid.UUID `json:"id"`
	SenderID   uuid.UUID `json:"sender"`
	ReceiverID uuid.UUID `json:"receiver"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	Seq        int64     `json:"-"`
}

// Between reports whether the message belongs to the conversation of a and b.
func (m *Message) Between(a, b uuid.UUID) bool {
	return (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a)
}
