package repository

import (
	"context"
	"errors"

	"github.com/alankrit98/DevLog/internal/domain"
	"github.com/google/uuid"
)

var (
	// ErrConflict is returned when a write would duplicate an existing edge.
	ErrConflict = errors.New("already exists")
	// ErrNotFound is returned by mutations targeting a missing row or edge.
	// Lookups return nil, nil instead.
	ErrNotFound = errors.New("not found")
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	ListProfiles(ctx context.Context, ids []uuid.UUID) ([]domain.PublicProfile, error)
	UpdateProfile(ctx context.Context, user *domain.User) error
}

// FollowRepository is the social graph store. Follow and Unfollow update both
// sides of the edge atomically.
type FollowRepository interface {
	Follow(ctx context.Context, followerID, followeeID uuid.UUID) error
	Unfollow(ctx context.Context, followerID, followeeID uuid.UUID) error
	IsFollowing(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error)
	ListFollowing(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	ListFollowers(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	ListMutuals(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error)
	List(ctx context.Context, search string) ([]domain.Project, error)
	ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]domain.Project, error)
	Update(ctx context.Context, project *domain.Project) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ToggleLike flips userID's membership in the project's likes as one
	// atomic step and returns whether the user now likes it plus the new set.
	ToggleLike(ctx context.Context, projectID, userID uuid.UUID) (bool, []uuid.UUID, error)
}

type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.Comment, error)
}

type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	ListConversation(ctx context.Context, userA, userB uuid.UUID) ([]domain.Message, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByRecipient(ctx context.Context, recipientID uuid.UUID) ([]domain.Notification, error)
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error)
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error)
}
