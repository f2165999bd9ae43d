package domain

import (
	"time"

	"github.com/google/uuid"
)

// Follow is a directed edge of the social graph: FollowerID follows FolloweeID.
type Follow struct {
	FollowerID uuid.UUID `json:"follower_id"`
	FolloweeID uuid.UUID `json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`
}
