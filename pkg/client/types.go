package client

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID   `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Bio       string      `json:"bio"`
	Skills    []string    `json:"skills"`
	Avatar    string      `json:"avatar"`
	Followers []uuid.UUID `json:"followers"`
	Following []uuid.UUID `json:"following"`
	CreatedAt time.Time   `json:"created_at"`
}

type Profile struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Avatar   string    `json:"avatar"`
}

type Project struct {
	ID              uuid.UUID   `json:"id"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	GithubLink      *string     `json:"githubLink,omitempty"`
	LiveLink        *string     `json:"liveLink,omitempty"`
	Tags            []string    `json:"tags"`
	CreatorID       uuid.UUID   `json:"creator_id"`
	CreatorUsername string      `json:"creator_username,omitempty"`
	Likes           []uuid.UUID `json:"likes"`
	CreatedAt       time.Time   `json:"created_at"`
}

// NewProject is the create request. Tags is comma separated.
type NewProject struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	GithubLink  *string `json:"githubLink,omitempty"`
	LiveLink    *string `json:"liveLink,omitempty"`
	Tags        string  `json:"tags"`
}

type Message struct {
	ID         uuid.UUID `json:"id"`
	SenderID   uuid.UUID `json:"sender"`
	ReceiverID uuid.UUID `json:"receiver"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

type Notification struct {
	ID           uuid.UUID  `json:"id"`
	RecipientID  uuid.UUID  `json:"recipient"`
	SenderID     uuid.UUID  `json:"sender_id"`
	Type         string     `json:"type"`
	ProjectID    *uuid.UUID `json:"project,omitempty"`
	Read         bool       `json:"read"`
	CreatedAt    time.Time  `json:"created_at"`
	Sender       *Profile   `json:"sender,omitempty"`
	ProjectTitle string     `json:"project_title,omitempty"`
}
