package postgres

import (
	"context"
	"time"

	"github.com/moises-herrera/social-network-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Message interface {
	Create(ctx context.Context, message model.Message) (*model.Message, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Message, error)
	FindByConversation(ctx context.Context, conversationID uuid.UUID, limit int, offset int) ([]*model.Message, error)
	CountByConversation(ctx context.Context, conversationID uuid.UUID) (int64, error)
	UpdateContent(ctx context.Context, id uuid.UUID, content string) error
	MarkRead(ctx context.Context, id uuid.UUID) error
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

type messageRepo struct {
	db *pgxpool.Pool
}

func newMessageRepo(db *pgxpool.Pool) Message {
	return &messageRepo{
		db: db,
	}
}

func (r *messageRepo) Create(ctx context.Context, message model.Message) (*model.Message, error) {
	message.ID = uuid.New()
	message.CreatedAt = time.Now()
	message.UpdatedAt = message.CreatedAt
	// Delivery happens at insert time; only read_at waits for the recipient.
	message.DeliveredAt = &message.CreatedAt

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(
		ctx,
		"INSERT INTO messages(id, content, sender_id, conversation_id, delivered_at, created_at, updated_at) VALUES($1, $2, $3, $4, $5, $6, $7)",
		message.ID,
		message.Content,
		message.SenderID,
		message.ConversationID,
		message.DeliveredAt,
		message.CreatedAt,
		message.UpdatedAt,
	); err != nil {
		return nil, err
	}

	// A new message bumps the conversation for listing order.
	if _, err := tx.Exec(
		ctx,
		"UPDATE conversations SET updated_at = now() WHERE id = $1",
		message.ConversationID,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &message, nil
}

func (r *messageRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Message, error) {
	var message model.Message
	if err := r.db.QueryRow(ctx, `
	SELECT m.id, m.content, m.sender_id, m.conversation_id, m.delivered_at, m.read_at, m.created_at, m.updated_at
	FROM messages m
	WHERE m.id = $1
	`, id).Scan(
		&message.ID,
		&message.Content,
		&message.SenderID,
		&message.ConversationID,
		&message.DeliveredAt,
		&message.ReadAt,
		&message.CreatedAt,
		&message.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &message, nil
}

// Messages come back newest-first.
func (r *messageRepo) FindByConversation(ctx context.Context, conversationID uuid.UUID, limit int, offset int) ([]*model.Message, error) {
	maximumLimit(&limit)

	rows, err := r.db.Query(
		ctx,
		`SELECT m.id, m.content, m.sender_id, m.conversation_id, m.delivered_at, m.read_at, m.created_at, m.updated_at
		FROM messages m
		WHERE m.conversation_id = $1
		ORDER BY m.created_at DESC
		LIMIT $2 OFFSET $3`,
		conversationID,
		limit,
		offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*model.Message
	for rows.Next() {
		var message model.Message
		if err := rows.Scan(
			&message.ID,
			&message.Content,
			&message.SenderID,
			&message.ConversationID,
			&message.DeliveredAt,
			&message.ReadAt,
			&message.CreatedAt,
			&message.UpdatedAt,
		); err != nil {
			return nil, err
		}

		messages = append(messages, &message)
	}

	return messages, rows.Err()
}

func (r *messageRepo) CountByConversation(ctx context.Context, conversationID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM messages m WHERE m.conversation_id = $1", conversationID).Scan(&count)
	return count, err
}

func (r *messageRepo) UpdateContent(ctx context.Context, id uuid.UUID, content string) error {
	tag, err := r.db.Exec(ctx, "UPDATE messages SET content = $1, updated_at = now() WHERE id = $2", content, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

func (r *messageRepo) MarkRead(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, "UPDATE messages SET read_at = now() WHERE id = $1 AND read_at IS NULL", id)
	return err
}

func (r *messageRepo) DeleteByID(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM messages WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}
