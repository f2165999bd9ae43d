package domain

import (
	"time"

	"github.com/google/uuid"
)

const DefaultAvatar = "https://icon-library.com/images/anonymous-avatar-icon/anonymous-avatar-icon-25.jpg"

type User struct {
	ID           uuid.UUID   `json:"id"`
	Username     string      `json:"username"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	Bio          string      `json:"bio"`
	Skills       []string    `json:"skills"`
	Avatar       string      `json:"avatar"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
	// Filled from the social graph store
	Followers []uuid.UUID `json:"followers"`
	Following []uuid.UUID `json:"following"`
}

// PublicProfile is the slice of a user shown next to content they produced.
type PublicProfile struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Avatar   string    `json:"avatar"`
}

func (u *User) Profile() PublicProfile {
	return PublicProfile{ID: u.ID, Username: u.Username, Avatar: u.Avatar}
}

// IsFollowing reports whether u follows other.
func (u *User) IsFollowing(other uuid.UUID) bool {
	for _, id := range u.Following {
		if id == other {
			return true
		}
	}
	return false
}
