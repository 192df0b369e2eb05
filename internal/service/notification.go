package service

import (
	"context"

	"github.com/moises-herrera/social-network-backend/internal/dto"
	"github.com/moises-herrera/social-network-backend/internal/model"
	"github.com/moises-herrera/social-network-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type notificationService struct {
	logger *zap.Logger
	repo   *repository.Repository
}

func newNotificationService(logger *zap.Logger, repo *repository.Repository) Notification {
	return &notificationService{
		logger: logger,
		repo:   repo,
	}
}

func (s *notificationService) FindByID(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	notification, err := s.repo.Postgres.Notification.FindByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotificationNotFound
		}

		s.logger.Sugar().Errorf("failed to find notification(%s) in postgres: %s", id, err.Error())
		return nil, ErrInternal
	}

	return notification, nil
}

func (s *notificationService) FindAll(ctx context.Context, recipientID uuid.UUID, page dto.PageOptions) (*dto.Paginated[*model.FullNotification], error) {
	page = page.Normalized()

	notifications, err := s.repo.Postgres.Notification.FindForUser(ctx, recipientID, page.Limit, page.Offset())
	if err != nil {
		s.logger.Sugar().Errorf("failed to find notifications of user(%s) in postgres: %s", recipientID, err.Error())
		return nil, ErrInternal
	}

	count, err := s.repo.Postgres.Notification.CountForUser(ctx, recipientID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to count notifications of user(%s) in postgres: %s", recipientID, err.Error())
		return nil, ErrInternal
	}

	return &dto.Paginated[*model.FullNotification]{
		Data:         notifications,
		Page:         page.Page,
		ResultsCount: count,
		Total:        count,
	}, nil
}

// Create records an event for a recipient. Events a user triggers on their
// own content are dropped, nobody gets notified about their own actions.
func (s *notificationService) Create(ctx context.Context, senderID uuid.UUID, createDto dto.CreateNotificationDto) (*model.Notification, error) {
	if createDto.RecipientID == senderID {
		return nil, nil
	}

	if _, err := s.repo.Postgres.User.FindByID(ctx, createDto.RecipientID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrUserNotFound
		}

		s.logger.Sugar().Errorf("failed to find user(%s) in postgres: %s", createDto.RecipientID, err.Error())
		return nil, ErrInternal
	}

	notification, err := s.repo.Postgres.Notification.Create(ctx, model.Notification{
		Note:        createDto.Note,
		RecipientID: createDto.RecipientID,
		SenderID:    senderID,
		PostID:      createDto.PostID,
		CommentID:   createDto.CommentID,
	})
	if err != nil {
		s.logger.Sugar().Errorf("failed to create notification in postgres: %s", err.Error())
		return nil, ErrInternal
	}

	return notification, nil
}

func (s *notificationService) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	count, err := s.repo.Postgres.Notification.CountUnread(ctx, recipientID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to count unread notifications of user(%s) in postgres: %s", recipientID, err.Error())
		return 0, ErrInternal
	}

	return count, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.Postgres.Notification.FindByID(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return ErrNotificationNotFound
		}

		s.logger.Sugar().Errorf("failed to find notification(%s) in postgres: %s", id, err.Error())
		return ErrInternal
	}

	if err := s.repo.Postgres.Notification.MarkRead(ctx, id); err != nil {
		s.logger.Sugar().Errorf("failed to mark notification(%s) as read in postgres: %s", id, err.Error())
		return ErrInternal
	}

	return nil
}

func (s *notificationService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Postgres.Notification.DeleteByID(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return ErrNotificationNotFound
		}

		s.logger.Sugar().Errorf("failed to delete notification(%s) from postgres: %s", id, err.Error())
		return ErrInternal
	}

	return nil
}
