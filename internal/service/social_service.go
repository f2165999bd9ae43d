package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/alankrit98/DevLog/internal/domain"
	"github.com/alankrit98/DevLog/internal/metrics"
	"github.com/alankrit98/DevLog/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const maxCommentLength = 2000

// SocialService owns follows, likes and comments.
type SocialService struct {
	userRepo    repository.UserRepository
	followRepo  repository.FollowRepository
	projectRepo repository.ProjectRepository
	commentRepo repository.CommentRepository
	dispatcher  Dispatcher
	logger      *zap.Logger
	metrics     *metrics.Collector
	notifier    Notifier
}

func NewSocialService(
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	projectRepo repository.ProjectRepository,
	commentRepo repository.CommentRepository,
	dispatcher Dispatcher,
	logger *zap.Logger,
	m *metrics.Collector,
) *SocialService {
	return &SocialService{
		userRepo:    userRepo,
		followRepo:  followRepo,
		projectRepo: projectRepo,
		commentRepo: commentRepo,
		dispatcher:  dispatcher,
		logger:      logger,
		metrics:     m,
	}
}

// SetNotifier sets the real-time notifier (optional dependency).
func (s *SocialService) SetNotifier(n Notifier) {
	s.notifier = n
}

// Follow makes actor a follower of target and tells target about it.
func (s *SocialService) Follow(ctx context.Context, actorID, targetID uuid.UUID) error {
	if actorID == targetID {
		return ErrSelfReference
	}

	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return persistence("looking up user", err)
	}
	if target == nil {
		return ErrNotFound
	}

	if err := s.followRepo.Follow(ctx, actorID, targetID); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return ErrAlreadyFollowing
		}
		return persistence("creating follow", err)
	}

	s.dispatch(ctx, targetID, actorID, domain.NotificationFollow, nil)
	return nil
}

func (s *SocialService) Unfollow(ctx context.Context, actorID, targetID uuid.UUID) error {
	if actorID == targetID {
		return ErrSelfReference
	}

	if err := s.followRepo.Unfollow(ctx, actorID, targetID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFollowing
		}
		return persistence("removing follow", err)
	}
	return nil
}

// Mutuals returns the users that userID follows and who follow back,
// ordered by username.
func (s *SocialService) Mutuals(ctx context.Context, userID uuid.UUID) ([]domain.PublicProfile, error) {
	ids, err := s.followRepo.ListMutuals(ctx, userID)
	if err != nil {
		return nil, persistence("listing mutuals", err)
	}

	filtered := ids[:0]
	for _, id := range ids {
		if id != userID {
			filtered = append(filtered, id)
		}
	}
	if len(filtered) == 0 {
		return []domain.PublicProfile{}, nil
	}

	profiles, err := s.userRepo.ListProfiles(ctx, filtered)
	if err != nil {
		return nil, persistence("loading profiles", err)
	}
	return profiles, nil
}

// ToggleLike flips actor's like on a project and returns the resulting likes.
// Only the like transition notifies the creator.
func (s *SocialService) ToggleLike(ctx context.Context, actorID, projectID uuid.UUID) ([]uuid.UUID, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, persistence("looking up project", err)
	}
	if project == nil {
		return nil, ErrNotFound
	}

	liked, likes, err := s.projectRepo.ToggleLike(ctx, projectID, actorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, persistence("toggling like", err)
	}

	if liked {
		s.metrics.LikesToggled.WithLabelValues("liked").Inc()
		s.dispatch(ctx, project.CreatorID, actorID, domain.NotificationLike, &projectID)
	} else {
		s.metrics.LikesToggled.WithLabelValues("unliked").Inc()
	}
	return likes, nil
}

// AddComment stores a comment, then broadcasts it to the project room and
// notifies the creator. Broadcast and notification run concurrently.
func (s *SocialService) AddComment(ctx context.Context, actorID, projectID uuid.UUID, text string) (*domain.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, invalid("text", "Comment text is required")
	}
	if len(text) > maxCommentLength {
		return nil, invalid("text", "Comment is too long")
	}

	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, persistence("looking up project", err)
	}
	if project == nil {
		return nil, ErrNotFound
	}

	author, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, persistence("looking up user", err)
	}
	if author == nil {
		return nil, ErrNotFound
	}

	comment := &domain.Comment{
		ID:        uuid.New(),
		ProjectID: projectID,
		UserID:    actorID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, persistence("creating comment", err)
	}
	comment.Username = author.Username
	comment.Avatar = author.Avatar

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if s.notifier != nil {
			s.notifier.NotifyComment(comment)
		}
		return nil
	})
	g.Go(func() error {
		_, err := s.dispatcher.Notify(gctx, project.CreatorID, actorID, domain.NotificationComment, &projectID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("comment side effects", zap.Stringer("comment_id", comment.ID), zap.Error(err))
	}

	return comment, nil
}

// ListComments returns a project's comments, oldest first.
func (s *SocialService) ListComments(ctx context.Context, projectID uuid.UUID) ([]domain.Comment, error) {
	comments, err := s.commentRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, persistence("listing comments", err)
	}
	return comments, nil
}

// dispatch sends a notification; failures never undo the triggering action.
func (s *SocialService) dispatch(ctx context.Context, recipientID, senderID uuid.UUID, typ domain.NotificationType, projectID *uuid.UUID) {
	if _, err := s.dispatcher.Notify(ctx, recipientID, senderID, typ, projectID); err != nil {
		s.logger.Error("dispatching notification",
			zap.String("type", string(typ)),
			zap.Stringer("recipient_id", recipientID),
			zap.Error(err),
		)
	}
}
