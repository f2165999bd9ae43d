package postgres

import (
	"context"

	"github.com/alankrit98/DevLog/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NotificationRepo struct {
	pool *pgxpool.Pool
}

func NewNotificationRepo(pool *pgxpool.Pool) *NotificationRepo {
	return &NotificationRepo{pool: pool}
}

func (r *NotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	query := `
		INSERT INTO notifications (id, recipient_id, sender_id, type, project_id, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.pool.Exec(ctx, query,
		n.ID, n.RecipientID, n.SenderID, string(n.Type), n.ProjectID, n.Read, n.CreatedAt,
	)
	return err
}

func (r *NotificationRepo) ListByRecipient(ctx context.Context, recipientID uuid.UUID) ([]domain.Notification, error) {
	query := `
		SELECT n.id, n.recipient_id, n.sender_id, n.type, n.project_id, n.read, n.created_at,
			s.username, s.avatar, p.title
		FROM notifications n
		LEFT JOIN users s ON n.sender_id = s.id
		LEFT JOIN projects p ON n.project_id = p.id
		WHERE n.recipient_id = $1
		ORDER BY n.created_at DESC`

	rows, err := r.pool.Query(ctx, query, recipientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Notification{}
	for rows.Next() {
		var (
			n            domain.Notification
			typ          string
			username     *string
			avatar       *string
			projectTitle *string
		)
		if err := rows.Scan(
			&n.ID, &n.RecipientID, &n.SenderID, &typ, &n.ProjectID, &n.Read, &n.CreatedAt,
			&username, &avatar, &projectTitle,
		); err != nil {
			return nil, err
		}
		n.Type = domain.NotificationType(typ)
		if username != nil {
			n.Sender = &domain.PublicProfile{ID: n.SenderID, Username: *username}
			if avatar != nil {
				n.Sender.Avatar = *avatar
			}
		}
		if projectTitle != nil {
			n.ProjectTitle = *projectTitle
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *NotificationRepo) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE notifications SET read = true WHERE recipient_id = $1 AND read = false`, recipientID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *NotificationRepo) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM notifications WHERE recipient_id = $1 AND read = false`, recipientID,
	).Scan(&n)
	return n, err
}
