package postgres

import (
	"context"
	"time"

	"github.com/moises-herrera/social-network-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Conversation interface {
	CreateWithMessage(ctx context.Context, participants []uuid.UUID, message model.Message) (*model.Conversation, *model.Message, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Conversation, error)
	FindForUser(ctx context.Context, userID uuid.UUID, nameFilter string, limit int, offset int) ([]*model.FullConversation, error)
	CountForUser(ctx context.Context, userID uuid.UUID) (int64, error)
	CountForUserFiltered(ctx context.Context, userID uuid.UUID, nameFilter string) (int64, error)
	HasParticipant(ctx context.Context, conversationID uuid.UUID, userID uuid.UUID) (bool, error)
	ParticipantIDs(ctx context.Context, conversationID uuid.UUID) ([]uuid.UUID, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

type conversationRepo struct {
	db *pgxpool.Pool
}

func newConversationRepo(db *pgxpool.Pool) Conversation {
	return &conversationRepo{
		db: db,
	}
}

// CreateWithMessage inserts the conversation, its participants and the first
// message in a single transaction: the caller never observes a conversation
// without its opening message.
func (r *conversationRepo) CreateWithMessage(ctx context.Context, participants []uuid.UUID, message model.Message) (*model.Conversation, *model.Message, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	conversation := model.Conversation{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
	}
	conversation.UpdatedAt = conversation.CreatedAt

	if _, err := tx.Exec(
		ctx,
		"INSERT INTO conversations(id, created_at, updated_at) VALUES($1, $2, $3)",
		conversation.ID,
		conversation.CreatedAt,
		conversation.UpdatedAt,
	); err != nil {
		return nil, nil, err
	}

	for _, participantID := range participants {
		if _, err := tx.Exec(
			ctx,
			"INSERT INTO conversation_participants(conversation_id, user_id, joined_at) VALUES($1, $2, now())",
			conversation.ID,
			participantID,
		); err != nil {
			return nil, nil, err
		}
	}

	message.ID = uuid.New()
	message.ConversationID = conversation.ID
	message.CreatedAt = time.Now()
	message.UpdatedAt = message.CreatedAt
	message.DeliveredAt = &message.CreatedAt
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
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}

	return &conversation, &message, nil
}

func (r *conversationRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Conversation, error) {
	var conversation model.Conversation
	if err := r.db.QueryRow(
		ctx,
		"SELECT c.id, c.created_at, c.updated_at FROM conversations c WHERE c.id = $1",
		id,
	).Scan(&conversation.ID, &conversation.CreatedAt, &conversation.UpdatedAt); err != nil {
		return nil, err
	}

	return &conversation, nil
}

// Filter on the display names of the other participants. Applied in SQL so
// pagination and resultsCount stay consistent with each other.
const participantNameFilter = `($2 = '' OR EXISTS (
	SELECT 1 FROM conversation_participants cp2
	JOIN users u ON cp2.user_id = u.id
	WHERE cp2.conversation_id = c.id AND cp2.user_id <> $1
	AND (u.first_name || ' ' || u.last_name) ILIKE '%' || $2 || '%'
))`

func (r *conversationRepo) FindForUser(ctx context.Context, userID uuid.UUID, nameFilter string, limit int, offset int) ([]*model.FullConversation, error) {
	maximumLimit(&limit)

	rows, err := r.db.Query(
		ctx,
		`SELECT c.id, c.created_at, c.updated_at,
			m.id, m.content, m.sender_id, m.conversation_id, m.delivered_at, m.read_at, m.created_at, m.updated_at
		FROM conversations c
		JOIN conversation_participants cp ON cp.conversation_id = c.id AND cp.user_id = $1
		LEFT JOIN LATERAL (
			SELECT id, content, sender_id, conversation_id, delivered_at, read_at, created_at, updated_at
			FROM messages
			WHERE conversation_id = c.id
			ORDER BY created_at DESC
			LIMIT 1
		) m ON true
		WHERE `+participantNameFilter+`
		ORDER BY c.updated_at DESC
		LIMIT $3 OFFSET $4`,
		userID,
		nameFilter,
		limit,
		offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conversations []*model.FullConversation
	for rows.Next() {
		var conversation model.FullConversation
		var (
			messageID             *uuid.UUID
			messageContent        *string
			messageSenderID       *uuid.UUID
			messageConversationID *uuid.UUID
			messageDeliveredAt    *time.Time
			messageReadAt         *time.Time
			messageCreatedAt      *time.Time
			messageUpdatedAt      *time.Time
		)
		if err := rows.Scan(
			&conversation.ID,
			&conversation.CreatedAt,
			&conversation.UpdatedAt,
			&messageID,
			&messageContent,
			&messageSenderID,
			&messageConversationID,
			&messageDeliveredAt,
			&messageReadAt,
			&messageCreatedAt,
			&messageUpdatedAt,
		); err != nil {
			return nil, err
		}

		if messageID != nil {
			conversation.LastMessage = &model.Message{
				ID:             *messageID,
				Content:        *messageContent,
				SenderID:       *messageSenderID,
				ConversationID: *messageConversationID,
				DeliveredAt:    messageDeliveredAt,
				ReadAt:         messageReadAt,
				CreatedAt:      *messageCreatedAt,
				UpdatedAt:      *messageUpdatedAt,
			}
		}

		conversations = append(conversations, &conversation)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, conversation := range conversations {
		participants, err := r.findOtherParticipants(ctx, conversation.ID, userID)
		if err != nil {
			return nil, err
		}
		conversation.Participants = participants
	}

	return conversations, nil
}

func (r *conversationRepo) findOtherParticipants(ctx context.Context, conversationID uuid.UUID, userID uuid.UUID) ([]model.Participant, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT u.id, u.first_name || ' ' || u.last_name, u.avatar_url
		FROM conversation_participants cp
		JOIN users u ON cp.user_id = u.id
		WHERE cp.conversation_id = $1 AND cp.user_id <> $2
		ORDER BY cp.joined_at ASC`,
		conversationID,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	participants := []model.Participant{}
	for rows.Next() {
		var participant model.Participant
		if err := rows.Scan(&participant.ID, &participant.FullName, &participant.AvatarURL); err != nil {
			return nil, err
		}
		participants = append(participants, participant)
	}

	return participants, rows.Err()
}

func (r *conversationRepo) CountForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(
		ctx,
		"SELECT COUNT(*) FROM conversation_participants cp WHERE cp.user_id = $1",
		userID,
	).Scan(&count)
	return count, err
}

func (r *conversationRepo) CountForUserFiltered(ctx context.Context, userID uuid.UUID, nameFilter string) (int64, error) {
	var count int64
	err := r.db.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM conversations c
		JOIN conversation_participants cp ON cp.conversation_id = c.id AND cp.user_id = $1
		WHERE `+participantNameFilter,
		userID,
		nameFilter,
	).Scan(&count)
	return count, err
}

func (r *conversationRepo) HasParticipant(ctx context.Context, conversationID uuid.UUID, userID uuid.UUID) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(
		ctx,
		"SELECT EXISTS(SELECT 1 FROM conversation_participants cp WHERE cp.conversation_id = $1 AND cp.user_id = $2)",
		conversationID,
		userID,
	).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

func (r *conversationRepo) ParticipantIDs(ctx context.Context, conversationID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(
		ctx,
		"SELECT cp.user_id FROM conversation_participants cp WHERE cp.conversation_id = $1",
		conversationID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func (r *conversationRepo) DeleteByID(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM messages WHERE conversation_id = $1", id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, "DELETE FROM conversation_participants WHERE conversation_id = $1", id); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, "DELETE FROM conversations WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return tx.Commit(ctx)
}
