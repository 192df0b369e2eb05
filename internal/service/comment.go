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

type commentService struct {
	logger        *zap.Logger
	repo          *repository.Repository
	notifications Notification
}

func newCommentService(logger *zap.Logger, repo *repository.Repository, notifications Notification) Comment {
	return &commentService{
		logger:        logger,
		repo:          repo,
		notifications: notifications,
	}
}

func (s *commentService) FindByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	comment, err := s.repo.Postgres.Comment.FindByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrCommentNotFound
		}

		s.logger.Sugar().Errorf("failed to find comment(%s) in postgres: %s", id, err.Error())
		return nil, ErrInternal
	}

	return comment, nil
}

func (s *commentService) FindByPost(ctx context.Context, postID uuid.UUID) ([]*model.FullComment, error) {
	if _, err := s.repo.Postgres.Post.FindByID(ctx, postID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrPostNotFound
		}

		s.logger.Sugar().Errorf("failed to find post(%s) in postgres: %s", postID, err.Error())
		return nil, ErrInternal
	}

	comments, err := s.repo.Postgres.Comment.FindByPost(ctx, postID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find comments of post(%s) in postgres: %s", postID, err.Error())
		return nil, ErrInternal
	}

	return comments, nil
}

func (s *commentService) Create(ctx context.Context, userID uuid.UUID, createDto dto.CreateCommentDto) (*model.Comment, error) {
	post, err := s.repo.Postgres.Post.FindByID(ctx, createDto.PostID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrPostNotFound
		}

		s.logger.Sugar().Errorf("failed to find post(%s) in postgres: %s", createDto.PostID, err.Error())
		return nil, ErrInternal
	}

	comment, err := s.repo.Postgres.Comment.Create(ctx, model.Comment{
		Content: createDto.Content,
		UserID:  userID,
		PostID:  createDto.PostID,
	})
	if err != nil {
		s.logger.Sugar().Errorf("failed to create comment in postgres: %s", err.Error())
		return nil, ErrInternal
	}

	// The author does not get notified about their own comments.
	if post.UserID != userID {
		if _, err := s.notifications.Create(ctx, userID, dto.CreateNotificationDto{
			Note:        "commented on your post",
			RecipientID: post.UserID,
			PostID:      &post.ID,
			CommentID:   &comment.ID,
		}); err != nil {
			s.logger.Sugar().Errorf("failed to create comment notification for user(%s): %s", post.UserID, err.Error())
		}
	}

	return comment, nil
}

func (s *commentService) Update(ctx context.Context, id uuid.UUID, content string) (*model.Comment, error) {
	if _, err := s.repo.Postgres.Comment.FindByID(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrCommentNotFound
		}

		s.logger.Sugar().Errorf("failed to find comment(%s) in postgres: %s", id, err.Error())
		return nil, ErrInternal
	}

	if err := s.repo.Postgres.Comment.UpdateContent(ctx, id, content); err != nil {
		s.logger.Sugar().Errorf("failed to update comment(%s) in postgres: %s", id, err.Error())
		return nil, ErrInternal
	}

	comment, err := s.repo.Postgres.Comment.FindByID(ctx, id)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find comment(%s) in postgres: %s", id, err.Error())
		return nil, ErrInternal
	}

	return comment, nil
}

func (s *commentService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Postgres.Comment.DeleteByID(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return ErrCommentNotFound
		}

		s.logger.Sugar().Errorf("failed to delete comment(%s) from postgres: %s", id, err.Error())
		return ErrInternal
	}

	return nil
}
