package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/alankrit98/DevLog/internal/cache"
	"github.com/alankrit98/DevLog/internal/domain"
	"github.com/alankrit98/DevLog/internal/repository"
	"github.com/alankrit98/DevLog/internal/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// AvatarStore persists uploaded avatar images and returns their public URL.
type AvatarStore interface {
	Save(ctx context.Context, userID uuid.UUID, filename string, r io.Reader) (string, error)
}

type UserService struct {
	userRepo    repository.UserRepository
	followRepo  repository.FollowRepository
	projectRepo repository.ProjectRepository
	avatars     AvatarStore
	profiles    cache.ProfileCache
	logger      *zap.Logger
}

func NewUserService(
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	projectRepo repository.ProjectRepository,
	avatars AvatarStore,
	profiles cache.ProfileCache,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:    userRepo,
		followRepo:  followRepo,
		projectRepo: projectRepo,
		avatars:     avatars,
		profiles:    profiles,
		logger:      logger,
	}
}

type ProfileResponse struct {
	User     *domain.User     `json:"user"`
	Projects []domain.Project `json:"projects"`
}

type UpdateProfileInput struct {
	Bio    *string `json:"bio,omitempty" validate:"omitempty,max=500"`
	Skills *string `json:"skills,omitempty"`
	Avatar *string `json:"avatar,omitempty" validate:"omitempty,url"`
}

// AvatarUpload is an avatar file sent alongside a profile update.
type AvatarUpload struct {
	Filename string
	Content  io.Reader
}

// GetProfile loads a user with their graph edges and projects.
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileResponse, error) {
	var (
		user      *domain.User
		followers []uuid.UUID
		following []uuid.UUID
		projects  []domain.Project
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		user, err = s.userRepo.GetByID(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		followers, err = s.followRepo.ListFollowers(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		following, err = s.followRepo.ListFollowing(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		projects, err = s.projectRepo.ListByCreator(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, persistence("loading profile", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}

	user.Followers = followers
	user.Following = following
	return &ProfileResponse{User: user, Projects: projects}, nil
}

// UpdateProfile changes bio, skills and avatar. An uploaded file wins over an
// avatar URL.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput, upload *AvatarUpload) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, persistence("looking up user", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}

	if input.Bio != nil {
		user.Bio = strings.TrimSpace(*input.Bio)
	}
	if input.Skills != nil {
		user.Skills = domain.ParseTags(*input.Skills)
	}
	if input.Avatar != nil {
		if avatar := strings.TrimSpace(*input.Avatar); avatar != "" {
			user.Avatar = avatar
		}
	}
	if upload != nil {
		url, err := s.avatars.Save(ctx, userID, upload.Filename, upload.Content)
		if err != nil {
			if errors.Is(err, storage.ErrInvalidFile) {
				return nil, invalid("avatar", err.Error())
			}
			return nil, persistence("storing avatar", err)
		}
		user.Avatar = url
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, persistence("updating profile", err)
	}

	if err := s.profiles.Invalidate(ctx, userID); err != nil {
		s.logger.Warn("invalidating cached profile", zap.Stringer("user_id", userID), zap.Error(err))
	}
	return user, nil
}
