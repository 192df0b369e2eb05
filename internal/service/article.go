package service

import (
	"context"

	"github.com/moises-herrera/social-network-backend/internal/dto"
	"github.com/moises-herrera/social-network-backend/internal/imagestore"
	"github.com/moises-herrera/social-network-backend/internal/model"
	"github.com/moises-herrera/social-network-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type articleService struct {
	logger *zap.Logger
	repo   *repository.Repository
	images imagestore.Store
}

func newArticleService(logger *zap.Logger, repo *repository.Repository, images imagestore.Store) Article {
	return &articleService{
		logger: logger,
		repo:   repo,
		images: images,
	}
}

func (s *articleService) FindAll(ctx context.Context, page dto.PageOptions) (*dto.Paginated[*model.FullArticle], error) {
	page = page.Normalized()

	articles, err := s.repo.Postgres.Article.FindAll(ctx, page.Limit, page.Offset())
	if err != nil {
		s.logger.Sugar().Errorf("failed to find articles in postgres: %s", err.Error())
		return nil, ErrInternal
	}

	count, err := s.repo.Postgres.Article.CountAll(ctx)
	if err != nil {
		s.logger.Sugar().Errorf("failed to count articles in postgres: %s", err.Error())
		return nil, ErrInternal
	}

	return &dto.Paginated[*model.FullArticle]{
		Data:         articles,
		Page:         page.Page,
		ResultsCount: count,
		Total:        count,
	}, nil
}

func (s *articleService) FindByID(ctx context.Context, id uuid.UUID) (*model.FullArticle, error) {
	article, err := s.repo.Postgres.Article.FindByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrArticleNotFound
		}

		s.logger.Sugar().Errorf("failed to find article(%s) in postgres: %s", id, err.Error())
		return nil, ErrInternal
	}

	return article, nil
}

func (s *articleService) Create(ctx context.Context, userID uuid.UUID, createDto dto.CreateArticleDto, image []byte) (*model.Article, error) {
	article := model.Article{
		Title:       createDto.Title,
		Description: createDto.Description,
		UserID:      userID,
	}

	if len(image) > 0 {
		imageURL, err := s.images.Upload(ctx, "articles", image)
		if err != nil {
			s.logger.Sugar().Errorf("failed to upload article image: %s", err.Error())
			return nil, ErrInternal
		}
		article.ImageURL = &imageURL
	}

	created, err := s.repo.Postgres.Article.Create(ctx, article)
	if err != nil {
		s.logger.Sugar().Errorf("failed to create article in postgres: %s", err.Error())
		return nil, ErrInternal
	}

	return created, nil
}

func (s *articleService) Update(ctx context.Context, id uuid.UUID, updateDto dto.UpdateArticleDto, image []byte) (*model.Article, error) {
	article, err := s.repo.Postgres.Article.FindByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrArticleNotFound
		}

		s.logger.Sugar().Errorf("failed to find article(%s) in postgres: %s", id, err.Error())
		return nil, ErrInternal
	}

	updates := map[string]interface{}{}
	if updateDto.Title != nil {
		updates["title"] = *updateDto.Title
	}
	if updateDto.Description != nil {
		updates["description"] = *updateDto.Description
	}

	if len(image) > 0 {
		if article.ImageURL != nil {
			if err := s.images.Delete(ctx, "articles", *article.ImageURL); err != nil {
				s.logger.Sugar().Errorf("failed to delete old image of article(%s): %s", id, err.Error())
				return nil, ErrInternal
			}
		}

		imageURL, err := s.images.Upload(ctx, "articles", image)
		if err != nil {
			s.logger.Sugar().Errorf("failed to upload image of article(%s): %s", id, err.Error())
			return nil, ErrInternal
		}
		updates["image_url"] = imageURL
	}

	if err := s.repo.Postgres.Article.UpdateByID(ctx, id, updates); err != nil {
		s.logger.Sugar().Errorf("failed to update article(%s) in postgres: %s", id, err.Error())
		return nil, ErrInternal
	}

	updated, err := s.repo.Postgres.Article.FindByID(ctx, id)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find article(%s) in postgres: %s", id, err.Error())
		return nil, ErrInternal
	}

	return &updated.Article, nil
}

func (s *articleService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Postgres.Article.DeleteByID(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return ErrArticleNotFound
		}

		s.logger.Sugar().Errorf("failed to delete article(%s) from postgres: %s", id, err.Error())
		return ErrInternal
	}

	return nil
}

func (s *articleService) Like(ctx context.Context, articleID uuid.UUID, userID uuid.UUID) error {
	if _, err := s.repo.Postgres.Article.FindByID(ctx, articleID); err != nil {
		if err == pgx.ErrNoRows {
			return ErrArticleNotFound
		}

		s.logger.Sugar().Errorf("failed to find article(%s) in postgres: %s", articleID, err.Error())
		return ErrInternal
	}

	if err := s.repo.Postgres.Article.Like(ctx, articleID, userID); err != nil {
		s.logger.Sugar().Errorf("failed to like article(%s) in postgres: %s", articleID, err.Error())
		return ErrInternal
	}

	return nil
}

func (s *articleService) Unlike(ctx context.Context, articleID uuid.UUID, userID uuid.UUID) error {
	if _, err := s.repo.Postgres.Article.FindByID(ctx, articleID); err != nil {
		if err == pgx.ErrNoRows {
			return ErrArticleNotFound
		}

		s.logger.Sugar().Errorf("failed to find article(%s) in postgres: %s", articleID, err.Error())
		return ErrInternal
	}

	if err := s.repo.Postgres.Article.Unlike(ctx, articleID, userID); err != nil {
		s.logger.Sugar().Errorf("failed to unlike article(%s) in postgres: %s", articleID, err.Error())
		return ErrInternal
	}

	return nil
}
