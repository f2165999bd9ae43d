package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Project struct {
	ID          uuid.UUID   `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	GithubLink  *string     `json:"githubLink,omitempty"`
	LiveLink    *string     `json:"liveLink,omitempty"`
	Tags        []string    `json:"tags"`
	CreatorID   uuid.UUID   `json:"creator_id"`
	Likes       []uuid.UUID `json:"likes"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	// Joined fields
	CreatorUsername string `json:"creator_username,omitempty"`
	CreatorAvatar   string `json:"creator_avatar,omitempty"`
}

// Matches reports whether the query is a case-insensitive substring of the
// title, the description or any tag. An empty query matches everything.
func (p *Project) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(p.Title), q) || strings.Contains(strings.ToLower(p.Description), q) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

func (p *Project) LikedBy(userID uuid.UUID) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// ParseTags turns "React, Node" into ["React", "Node"], dropping empty entries.
func ParseTags(csv string) []string {
	tags := []string{}
	for _, t := range strings.Split(csv, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
