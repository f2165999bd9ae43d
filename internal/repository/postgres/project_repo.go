package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alankrit98/DevLog/internal/domain"
	"github.com/alankrit98/DevLog/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const projectSelect = `
	SELECT p.id, p.title, p.description, p.github_link, p.live_link, p.tags,
		p.creator_id, p.created_at, p.updated_at, u.username, u.avatar,
		COALESCE((
			SELECT array_agg(l.user_id ORDER BY l.created_at, l.user_id)
			FROM project_likes l WHERE l.project_id = p.id
		), '{}') AS likes
	FROM projects p
	JOIN users u ON p.creator_id = u.id`

type ProjectRepo struct {
	pool *pgxpool.Pool
}

func NewProjectRepo(pool *pgxpool.Pool) *ProjectRepo {
	return &ProjectRepo{pool: pool}
}

func (r *ProjectRepo) Create(ctx context.Context, project *domain.Project) error {
	query := `
		INSERT INTO projects (id, title, description, github_link, live_link, tags, creator_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.pool.Exec(ctx, query,
		project.ID, project.Title, project.Description, project.GithubLink, project.LiveLink,
		project.Tags, project.CreatorID, project.CreatedAt, project.UpdatedAt,
	)
	return err
}

func (r *ProjectRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	rows, err := r.pool.Query(ctx, projectSelect+` WHERE p.id = $1`, id)
	if err != nil {
		return nil, err
	}
	p, err := pgx.CollectOneRow(rows, scanProject)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepo) List(ctx context.Context, search string) ([]domain.Project, error) {
	search = strings.TrimSpace(search)
	if search == "" {
		return r.list(ctx, projectSelect+` ORDER BY p.created_at DESC`)
	}

	pattern := "%" + escapeLike(search) + "%"
	return r.list(ctx, projectSelect+`
		WHERE p.title ILIKE $1
			OR p.description ILIKE $1
			OR EXISTS (SELECT 1 FROM unnest(p.tags) AS t WHERE t ILIKE $1)
		ORDER BY p.created_at DESC`, pattern)
}

func (r *ProjectRepo) ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]domain.Project, error) {
	return r.list(ctx, projectSelect+` WHERE p.creator_id = $1 ORDER BY p.created_at DESC`, creatorID)
}

func (r *ProjectRepo) Update(ctx context.Context, project *domain.Project) error {
	query := `
		UPDATE projects
		SET title = $1, description = $2, github_link = $3, live_link = $4, tags = $5, updated_at = $6
		WHERE id = $7`
	tag, err := r.pool.Exec(ctx, query,
		project.Title, project.Description, project.GithubLink, project.LiveLink,
		project.Tags, project.UpdatedAt, project.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ToggleLike locks the project row so concurrent toggles on the same project
// serialize instead of losing updates.
func (r *ProjectRepo) ToggleLike(ctx context.Context, projectID, userID uuid.UUID) (bool, []uuid.UUID, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, nil, err
	}
	defer tx.Rollback(ctx)

	var locked uuid.UUID
	err = tx.QueryRow(ctx, `SELECT id FROM projects WHERE id = $1 FOR UPDATE`, projectID).Scan(&locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil, repository.ErrNotFound
	}
	if err != nil {
		return false, nil, err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM project_likes WHERE project_id = $1 AND user_id = $2`, projectID, userID)
	if err != nil {
		return false, nil, fmt.Errorf("removing like: %w", err)
	}

	liked := tag.RowsAffected() == 0
	if liked {
		if _, err := tx.Exec(ctx,
			`INSERT INTO project_likes (project_id, user_id) VALUES ($1, $2)`, projectID, userID,
		); err != nil {
			return false, nil, fmt.Errorf("adding like: %w", err)
		}
	}

	rows, err := tx.Query(ctx, `
		SELECT user_id FROM project_likes
		WHERE project_id = $1
		ORDER BY created_at, user_id`, projectID)
	if err != nil {
		return false, nil, err
	}
	likes, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return false, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, nil, err
	}
	return liked, likes, nil
}

func (r *ProjectRepo) list(ctx context.Context, query string, args ...any) ([]domain.Project, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanProject)
}

func scanProject(row pgx.CollectableRow) (domain.Project, error) {
	var p domain.Project
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.GithubLink, &p.LiveLink, &p.Tags,
		&p.CreatorID, &p.CreatedAt, &p.UpdatedAt, &p.CreatorUsername, &p.CreatorAvatar,
		&p.Likes,
	)
	return p, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
