package postgres

import (
	"context"
	"time"

	"github.com/moises-herrera/social-network-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Notification interface {
	Create(ctx context.Context, notification model.Notification) (*model.Notification, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Notification, error)
	FindForUser(ctx context.Context, recipientID uuid.UUID, limit int, offset int) ([]*model.FullNotification, error)
	CountForUser(ctx context.Context, recipientID uuid.UUID) (int64, error)
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

type notificationRepo struct {
	db *pgxpool.Pool
}

func newNotificationRepo(db *pgxpool.Pool) Notification {
	return &notificationRepo{
		db: db,
	}
}

func (r *notificationRepo) Create(ctx context.Context, notification model.Notification) (*model.Notification, error) {
	notification.ID = uuid.New()
	notification.CreatedAt = time.Now()
	_, err := r.db.Exec(
		ctx,
		`INSERT INTO notifications(id, note, recipient_id, sender_id, has_read, post_id, comment_id, created_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8)`,
		notification.ID,
		notification.Note,
		notification.RecipientID,
		notification.SenderID,
		notification.HasRead,
		notification.PostID,
		notification.CommentID,
		notification.CreatedAt,
	)
	return &notification, err
}

func (r *notificationRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	var notification model.Notification
	if err := r.db.QueryRow(ctx, `
	SELECT n.id, n.note, n.recipient_id, n.sender_id, n.has_read, n.post_id, n.comment_id, n.created_at
	FROM notifications n
	WHERE n.id = $1
	`, id).Scan(
		&notification.ID,
		&notification.Note,
		&notification.RecipientID,
		&notification.SenderID,
		&notification.HasRead,
		&notification.PostID,
		&notification.CommentID,
		&notification.CreatedAt,
	); err != nil {
		return nil, err
	}

	return &notification, nil
}

func (r *notificationRepo) FindForUser(ctx context.Context, recipientID uuid.UUID, limit int, offset int) ([]*model.FullNotification, error) {
	maximumLimit(&limit)

	rows, err := r.db.Query(
		ctx,
		`SELECT n.id, n.note, n.recipient_id, n.sender_id, n.has_read, n.post_id, n.comment_id, n.created_at,
			u.username, u.avatar_url
		FROM notifications n
		JOIN users u ON n.sender_id = u.id
		WHERE n.recipient_id = $1
		ORDER BY n.created_at DESC
		LIMIT $2 OFFSET $3`,
		recipientID,
		limit,
		offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*model.FullNotification
	for rows.Next() {
		var notification model.FullNotification
		if err := rows.Scan(
			&notification.ID,
			&notification.Note,
			&notification.RecipientID,
			&notification.SenderID,
			&notification.HasRead,
			&notification.PostID,
			&notification.CommentID,
			&notification.CreatedAt,
			&notification.Sender.Username,
			&notification.Sender.AvatarURL,
		); err != nil {
			return nil, err
		}

		notification.Sender.ID = notification.SenderID
		notifications = append(notifications, &notification)
	}

	return notifications, rows.Err()
}

func (r *notificationRepo) CountForUser(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM notifications n WHERE n.recipient_id = $1", recipientID).Scan(&count)
	return count, err
}

func (r *notificationRepo) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(
		ctx,
		"SELECT COUNT(*) FROM notifications n WHERE n.recipient_id = $1 AND NOT n.has_read",
		recipientID,
	).Scan(&count)
	return count, err
}

func (r *notificationRepo) MarkRead(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "UPDATE notifications SET has_read = true WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

func (r *notificationRepo) DeleteByID(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM notifications WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}
