package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/alankrit98/DevLog/internal/domain"
	"github.com/alankrit98/DevLog/internal/repository"
	"github.com/google/uuid"
)

type ProjectService struct {
	projectRepo repository.ProjectRepository
}

func NewProjectService(projectRepo repository.ProjectRepository) *ProjectService {
	return &ProjectService{projectRepo: projectRepo}
}

type CreateProjectInput struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description string  `json:"description" validate:"required,max=5000"`
	GithubLink  *string `json:"githubLink,omitempty" validate:"omitempty,url"`
	LiveLink    *string `json:"liveLink,omitempty" validate:"omitempty,url"`
	Tags        string  `json:"tags"`
}

// UpdateProjectInput carries only the fields being changed.
type UpdateProjectInput struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=5000"`
	GithubLink  *string `json:"githubLink,omitempty" validate:"omitempty,url"`
	LiveLink    *string `json:"liveLink,omitempty" validate:"omitempty,url"`
	Tags        *string `json:"tags,omitempty"`
}

func (s *ProjectService) Create(ctx context.Context, creatorID uuid.UUID, input CreateProjectInput) (*domain.Project, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" {
		return nil, invalid("title", "Please add a title")
	}
	if description == "" {
		return nil, invalid("description", "Please add a description")
	}

	now := time.Now().UTC()
	project := &domain.Project{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		GithubLink:  blankToNil(input.GithubLink),
		LiveLink:    blankToNil(input.LiveLink),
		Tags:        domain.ParseTags(input.Tags),
		CreatorID:   creatorID,
		Likes:       []uuid.UUID{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, persistence("creating project", err)
	}
	return project, nil
}

// List returns projects newest first, optionally filtered by a search query.
func (s *ProjectService) List(ctx context.Context, search string) ([]domain.Project, error) {
	projects, err := s.projectRepo.List(ctx, strings.TrimSpace(search))
	if err != nil {
		return nil, persistence("listing projects", err)
	}
	return projects, nil
}

func (s *ProjectService) Get(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, persistence("looking up project", err)
	}
	if project == nil {
		return nil, ErrNotFound
	}
	return project, nil
}

func (s *ProjectService) ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]domain.Project, error) {
	projects, err := s.projectRepo.ListByCreator(ctx, creatorID)
	if err != nil {
		return nil, persistence("listing projects", err)
	}
	return projects, nil
}

func (s *ProjectService) Update(ctx context.Context, actorID, id uuid.UUID, input UpdateProjectInput) (*domain.Project, error) {
	project, err := s.owned(ctx, actorID, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if project.Title = strings.TrimSpace(*input.Title); project.Title == "" {
			return nil, invalid("title", "Title cannot be empty")
		}
	}
	if input.Description != nil {
		if project.Description = strings.TrimSpace(*input.Description); project.Description == "" {
			return nil, invalid("description", "Description cannot be empty")
		}
	}
	if input.GithubLink != nil {
		project.GithubLink = blankToNil(input.GithubLink)
	}
	if input.LiveLink != nil {
		project.LiveLink = blankToNil(input.LiveLink)
	}
	if input.Tags != nil {
		project.Tags = domain.ParseTags(*input.Tags)
	}
	project.UpdatedAt = time.Now().UTC()

	if err := s.projectRepo.Update(ctx, project); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, persistence("updating project", err)
	}
	return project, nil
}

func (s *ProjectService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	if _, err := s.owned(ctx, actorID, id); err != nil {
		return err
	}
	if err := s.projectRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return persistence("deleting project", err)
	}
	return nil
}

// owned loads a project and checks that actor created it.
func (s *ProjectService) owned(ctx context.Context, actorID, id uuid.UUID) (*domain.Project, error) {
	project, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if project.CreatorID != actorID {
		return nil, ErrNotAuthorized
	}
	return project, nil
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
