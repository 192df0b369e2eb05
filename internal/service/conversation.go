package service

import (
	"context"

	"github.com/moises-herrera/social-network-backend/internal/dto"
	"github.com/moises-herrera/social-network-backend/internal/model"
	"github.com/moises-herrera/social-network-backend/internal/push"
	"github.com/moises-herrera/social-network-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type conversationService struct {
	logger *zap.Logger
	repo   *repository.Repository
	push   push.Sender
}

func newConversationService(logger *zap.Logger, repo *repository.Repository, pushSender push.Sender) Conversation {
	return &conversationService{
		logger: logger,
		repo:   repo,
		push:   pushSender,
	}
}

func (s *conversationService) FindAll(ctx context.Context, userID uuid.UUID, filter dto.ConversationFilterDto) (*dto.Paginated[*model.FullConversation], error) {
	page := filter.Normalized()

	conversations, err := s.repo.Postgres.Conversation.FindForUser(ctx, userID, filter.Search, page.Limit, page.Offset())
	if err != nil {
		s.logger.Sugar().Errorf("failed to find conversations of user(%s) in postgres: %s", userID, err.Error())
		return nil, ErrInternal
	}

	total, err := s.repo.Postgres.Conversation.CountForUser(ctx, userID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to count conversations of user(%s) in postgres: %s", userID, err.Error())
		return nil, ErrInternal
	}

	resultsCount, err := s.repo.Postgres.Conversation.CountForUserFiltered(ctx, userID, filter.Search)
	if err != nil {
		s.logger.Sugar().Errorf("failed to count matching conversations of user(%s) in postgres: %s", userID, err.Error())
		return nil, ErrInternal
	}

	return &dto.Paginated[*model.FullConversation]{
		Data:         conversations,
		Page:         page.Page,
		ResultsCount: resultsCount,
		Total:        total,
	}, nil
}

// Create opens a conversation together with its first message in a single
// transaction. The initiator is always a participant; the participant set is
// deduplicated before validation.
func (s *conversationService) Create(ctx context.Context, initiatorID uuid.UUID, createDto dto.CreateConversationDto) (*model.FullConversation, error) {
	participants := dedupeParticipants(initiatorID, createDto.Participants)

	if len(participants) < model.MinConversationParticipants {
		return nil, ErrSelfConversation
	}
	if len(participants) > model.MaxConversationParticipants {
		return nil, ErrInvalidParticipants
	}

	for _, participantID := range participants {
		if _, err := s.repo.Postgres.User.FindByID(ctx, participantID); err != nil {
			if err == pgx.ErrNoRows {
				return nil, ErrUserNotFound
			}

			s.logger.Sugar().Errorf("failed to find user(%s) in postgres: %s", participantID, err.Error())
			return nil, ErrInternal
		}
	}

	conversation, message, err := s.repo.Postgres.Conversation.CreateWithMessage(ctx, participants, model.Message{
		Content:  createDto.Message,
		SenderID: initiatorID,
	})
	if err != nil {
		s.logger.Sugar().Errorf("failed to create conversation in postgres: %s", err.Error())
		return nil, ErrInternal
	}

	s.notifyParticipants(participants, initiatorID, "new_conversation", map[string]string{
		"conversation_id": conversation.ID.String(),
		"message":         message.Content,
	})

	full := &model.FullConversation{
		Conversation: *conversation,
		LastMessage:  message,
	}
	for _, participantID := range participants {
		if participantID == initiatorID {
			continue
		}

		user, err := s.repo.Postgres.User.FindByID(ctx, participantID)
		if err != nil {
			s.logger.Sugar().Errorf("failed to find user(%s) in postgres: %s", participantID, err.Error())
			return nil, ErrInternal
		}
		full.Participants = append(full.Participants, model.Participant{
			ID:        user.ID,
			FullName:  user.FullName(),
			AvatarURL: user.AvatarURL,
		})
	}

	return full, nil
}

func (s *conversationService) HasParticipant(ctx context.Context, conversationID uuid.UUID, userID uuid.UUID) (bool, error) {
	if _, err := s.repo.Postgres.Conversation.FindByID(ctx, conversationID); err != nil {
		if err == pgx.ErrNoRows {
			return false, ErrConversationNotFound
		}

		s.logger.Sugar().Errorf("failed to find conversation(%s) in postgres: %s", conversationID, err.Error())
		return false, ErrInternal
	}

	ok, err := s.repo.Postgres.Conversation.HasParticipant(ctx, conversationID, userID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to check participant of conversation(%s) in postgres: %s", conversationID, err.Error())
		return false, ErrInternal
	}

	return ok, nil
}

func (s *conversationService) FindMessage(ctx context.Context, id uuid.UUID) (*model.Message, error) {
	message, err := s.repo.Postgres.Message.FindByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrMessageNotFound
		}

		s.logger.Sugar().Errorf("failed to find message(%s) in postgres: %s", id, err.Error())
		return nil, ErrInternal
	}

	return message, nil
}

func (s *conversationService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Postgres.Conversation.DeleteByID(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return ErrConversationNotFound
		}

		s.logger.Sugar().Errorf("failed to delete conversation(%s) from postgres: %s", id, err.Error())
		return ErrInternal
	}

	return nil
}

func (s *conversationService) FindMessages(ctx context.Context, conversationID uuid.UUID, page dto.PageOptions) (*dto.Paginated[*model.Message], error) {
	if _, err := s.repo.Postgres.Conversation.FindByID(ctx, conversationID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrConversationNotFound
		}

		s.logger.Sugar().Errorf("failed to find conversation(%s) in postgres: %s", conversationID, err.Error())
		return nil, ErrInternal
	}

	page = page.Normalized()

	messages, err := s.repo.Postgres.Message.FindByConversation(ctx, conversationID, page.Limit, page.Offset())
	if err != nil {
		s.logger.Sugar().Errorf("failed to find messages of conversation(%s) in postgres: %s", conversationID, err.Error())
		return nil, ErrInternal
	}

	count, err := s.repo.Postgres.Message.CountByConversation(ctx, conversationID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to count messages of conversation(%s) in postgres: %s", conversationID, err.Error())
		return nil, ErrInternal
	}

	return &dto.Paginated[*model.Message]{
		Data:         messages,
		Page:         page.Page,
		ResultsCount: count,
		Total:        count,
	}, nil
}

func (s *conversationService) CreateMessage(ctx context.Context, senderID uuid.UUID, createDto dto.CreateMessageDto) (*model.Message, error) {
	if _, err := s.repo.Postgres.Conversation.FindByID(ctx, createDto.ConversationID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrConversationNotFound
		}

		s.logger.Sugar().Errorf("failed to find conversation(%s) in postgres: %s", createDto.ConversationID, err.Error())
		return nil, ErrInternal
	}

	message, err := s.repo.Postgres.Message.Create(ctx, model.Message{
		Content:        createDto.Content,
		SenderID:       senderID,
		ConversationID: createDto.ConversationID,
	})
	if err != nil {
		s.logger.Sugar().Errorf("failed to create message in postgres: %s", err.Error())
		return nil, ErrInternal
	}

	participants, err := s.repo.Postgres.Conversation.ParticipantIDs(ctx, createDto.ConversationID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find participants of conversation(%s) in postgres: %s", createDto.ConversationID, err.Error())
	} else {
		s.notifyParticipants(participants, senderID, "new_message", map[string]string{
			"conversation_id": createDto.ConversationID.String(),
			"message_id":      message.ID.String(),
			"message":         message.Content,
		})
	}

	return message, nil
}

func (s *conversationService) UpdateMessage(ctx context.Context, id uuid.UUID, content string) (*model.Message, error) {
	if _, err := s.repo.Postgres.Message.FindByID(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrMessageNotFound
		}

		s.logger.Sugar().Errorf("failed to find message(%s) in postgres: %s", id, err.Error())
		return nil, ErrInternal
	}

	if err := s.repo.Postgres.Message.UpdateContent(ctx, id, content); err != nil {
		s.logger.Sugar().Errorf("failed to update message(%s) in postgres: %s", id, err.Error())
		return nil, ErrInternal
	}

	message, err := s.repo.Postgres.Message.FindByID(ctx, id)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find message(%s) in postgres: %s", id, err.Error())
		return nil, ErrInternal
	}

	return message, nil
}

func (s *conversationService) MarkMessageRead(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.Postgres.Message.FindByID(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return ErrMessageNotFound
		}

		s.logger.Sugar().Errorf("failed to find message(%s) in postgres: %s", id, err.Error())
		return ErrInternal
	}

	if err := s.repo.Postgres.Message.MarkRead(ctx, id); err != nil {
		s.logger.Sugar().Errorf("failed to mark message(%s) as read in postgres: %s", id, err.Error())
		return ErrInternal
	}

	return nil
}

func (s *conversationService) DeleteMessage(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Postgres.Message.DeleteByID(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return ErrMessageNotFound
		}

		s.logger.Sugar().Errorf("failed to delete message(%s) from postgres: %s", id, err.Error())
		return ErrInternal
	}

	return nil
}

// notifyParticipants fans a push event out to every participant except the
// actor. Delivery is fire and forget, the originating request never waits on
// it or fails because of it.
func (s *conversationService) notifyParticipants(participants []uuid.UUID, actorID uuid.UUID, event string, payload map[string]string) {
	for _, participantID := range participants {
		if participantID == actorID {
			continue
		}

		go func(target uuid.UUID) {
			if err := s.push.Publish(context.Background(), target.String(), event, payload); err != nil {
				s.logger.Sugar().Errorf("failed to push %s to user(%s): %s", event, target, err.Error())
			}
		}(participantID)
	}
}

func dedupeParticipants(initiatorID uuid.UUID, ids []uuid.UUID) []uuid.UUID {
	seen := map[uuid.UUID]struct{}{initiatorID: {}}
	participants := []uuid.UUID{initiatorID}
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		participants = append(participants, id)
	}

	return participants
}
