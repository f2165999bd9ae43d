package postgres

import (
	"context"

	"github.com/alankrit98/DevLog/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CommentRepo struct {
	pool *pgxpool.Pool
}

func NewCommentRepo(pool *pgxpool.Pool) *CommentRepo {
	return &CommentRepo{pool: pool}
}

func (r *CommentRepo) Create(ctx context.Context, comment *domain.Comment) error {
	query := `
		INSERT INTO comments (id, project_id, user_id, text, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.pool.Exec(ctx, query,
		comment.ID, comment.ProjectID, comment.UserID, comment.Text, comment.CreatedAt,
	)
	return err
}

func (r *CommentRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.Comment, error) {
	query := `
		SELECT c.id, c.project_id, c.user_id, c.text, c.created_at, u.username, u.avatar
		FROM comments c
		JOIN users u ON c.user_id = u.id
		WHERE c.project_id = $1
		ORDER BY c.created_at ASC`

	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []domain.Comment{}
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(
			&c.ID, &c.ProjectID, &c.UserID, &c.Text, &c.CreatedAt, &c.Username, &c.Avatar,
		); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
