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

type postService struct {
	logger        *zap.Logger
	repo          *repository.Repository
	images        imagestore.Store
	notifications Notification
}

func newPostService(logger *zap.Logger, repo *repository.Repository, images imagestore.Store, notifications Notification) Post {
	return &postService{
		logger:        logger,
		repo:          repo,
		images:        images,
		notifications: notifications,
	}
}

// FindAll serves the feed for one mode. The page and the counts are separate
// reads; under concurrent writes they can observe different snapshots, which
// is accepted for a social feed.
func (s *postService) FindAll(ctx context.Context, callerID uuid.UUID, q model.FeedQuery, page dto.PageOptions) (*dto.Paginated[*model.FullPost], error) {
	page = page.Normalized()

	posts, err := s.repo.Postgres.Post.FindFeed(ctx, callerID, q, page.Limit, page.Offset())
	if err != nil {
		s.logger.Sugar().Errorf("failed to find feed(%s) in postgres: %s", q.Mode, err.Error())
		return nil, ErrInternal
	}

	count, err := s.repo.Postgres.Post.CountFeed(ctx, callerID, q)
	if err != nil {
		s.logger.Sugar().Errorf("failed to count feed(%s) in postgres: %s", q.Mode, err.Error())
		return nil, ErrInternal
	}

	if err := s.decorate(ctx, callerID, posts); err != nil {
		return nil, err
	}

	// Feeds carry no secondary filter, so the filtered and unfiltered
	// counts coincide.
	return &dto.Paginated[*model.FullPost]{
		Data:         posts,
		Page:         page.Page,
		ResultsCount: count,
		Total:        count,
	}, nil
}

func (s *postService) FindByID(ctx context.Context, callerID uuid.UUID, id uuid.UUID) (*model.FullPost, error) {
	post, err := s.repo.Postgres.Post.FindFullByID(ctx, id, callerID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrPostNotFound
		}

		s.logger.Sugar().Errorf("failed to find post(%s) in postgres: %s", id, err.Error())
		return nil, ErrInternal
	}

	posts := []*model.FullPost{post}
	if err := s.decorate(ctx, callerID, posts); err != nil {
		return nil, err
	}

	return post, nil
}

// Create persists the post only after a successful image upload: a post never
// exists without its declared image.
func (s *postService) Create(ctx context.Context, userID uuid.UUID, createDto dto.CreatePostDto, image []byte) (*model.Post, error) {
	post := model.Post{
		Title:       createDto.Title,
		Topic:       createDto.Topic,
		Description: createDto.Description,
		UserID:      userID,
		IsAnonymous: createDto.IsAnonymous,
	}

	if len(image) > 0 {
		imageURL, err := s.images.Upload(ctx, "posts", image)
		if err != nil {
			s.logger.Sugar().Errorf("failed to upload post image: %s", err.Error())
			return nil, ErrInternal
		}
		post.ImageURL = &imageURL
	}

	created, err := s.repo.Postgres.Post.Create(ctx, post)
	if err != nil {
		s.logger.Sugar().Errorf("failed to create post in postgres: %s", err.Error())
		return nil, ErrInternal
	}

	return created, nil
}

func (s *postService) Update(ctx context.Context, id uuid.UUID, updateDto dto.UpdatePostDto, image []byte) (*model.Post, error) {
	post, err := s.repo.Postgres.Post.FindByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrPostNotFound
		}

		s.logger.Sugar().Errorf("failed to find post(%s) in postgres: %s", id, err.Error())
		return nil, ErrInternal
	}

	updates := map[string]interface{}{}
	if updateDto.Title != nil {
		updates["title"] = *updateDto.Title
	}
	if updateDto.Topic != nil {
		updates["topic"] = *updateDto.Topic
	}
	if updateDto.Description != nil {
		updates["description"] = *updateDto.Description
	}
	if updateDto.IsAnonymous != nil {
		updates["is_anonymous"] = *updateDto.IsAnonymous
	}

	// Replacing an existing image is delete-old-then-upload-new; with no new
	// image the stored URL stays untouched.
	if len(image) > 0 {
		if post.ImageURL != nil {
			if err := s.images.Delete(ctx, "posts", *post.ImageURL); err != nil {
				s.logger.Sugar().Errorf("failed to delete old image of post(%s): %s", id, err.Error())
				return nil, ErrInternal
			}
		}

		imageURL, err := s.images.Upload(ctx, "posts", image)
		if err != nil {
			s.logger.Sugar().Errorf("failed to upload image of post(%s): %s", id, err.Error())
			return nil, ErrInternal
		}
		updates["image_url"] = imageURL
	}

	if err := s.repo.Postgres.Post.UpdateByID(ctx, id, updates); err != nil {
		s.logger.Sugar().Errorf("failed to update post(%s) in postgres: %s", id, err.Error())
		return nil, ErrInternal
	}

	updated, err := s.repo.Postgres.Post.FindByID(ctx, id)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find post(%s) in postgres: %s", id, err.Error())
		return nil, ErrInternal
	}

	return updated, nil
}

func (s *postService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Postgres.Post.DeleteByID(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return ErrPostNotFound
		}

		s.logger.Sugar().Errorf("failed to delete post(%s) from postgres: %s", id, err.Error())
		return ErrInternal
	}

	return nil
}

func (s *postService) Like(ctx context.Context, postID uuid.UUID, userID uuid.UUID) error {
	post, err := s.repo.Postgres.Post.FindByID(ctx, postID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrPostNotFound
		}

		s.logger.Sugar().Errorf("failed to find post(%s) in postgres: %s", postID, err.Error())
		return ErrInternal
	}

	if err := s.repo.Postgres.Post.Like(ctx, postID, userID); err != nil {
		s.logger.Sugar().Errorf("failed to like post(%s) in postgres: %s", postID, err.Error())
		return ErrInternal
	}

	if post.UserID != userID {
		if _, err := s.notifications.Create(ctx, userID, dto.CreateNotificationDto{
			Note:        "liked your post",
			RecipientID: post.UserID,
			PostID:      &post.ID,
		}); err != nil {
			s.logger.Sugar().Errorf("failed to create like notification for user(%s): %s", post.UserID, err.Error())
		}
	}

	return nil
}

func (s *postService) Unlike(ctx context.Context, postID uuid.UUID, userID uuid.UUID) error {
	if _, err := s.repo.Postgres.Post.FindByID(ctx, postID); err != nil {
		if err == pgx.ErrNoRows {
			return ErrPostNotFound
		}

		s.logger.Sugar().Errorf("failed to find post(%s) in postgres: %s", postID, err.Error())
		return ErrInternal
	}

	if err := s.repo.Postgres.Post.Unlike(ctx, postID, userID); err != nil {
		s.logger.Sugar().Errorf("failed to unlike post(%s) in postgres: %s", postID, err.Error())
		return ErrInternal
	}

	return nil
}

// GetLikes resolves the likers into paginated user views. Total is the raw
// likes count, independent of the username filter.
func (s *postService) GetLikes(ctx context.Context, postID uuid.UUID, filter dto.UserFilterDto) (*dto.Paginated[*model.FullFollower], error) {
	if _, err := s.repo.Postgres.Post.FindByID(ctx, postID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrPostNotFound
		}

		s.logger.Sugar().Errorf("failed to find post(%s) in postgres: %s", postID, err.Error())
		return nil, ErrInternal
	}

	page := filter.Normalized()

	likers, err := s.repo.Postgres.Post.FindLikers(ctx, postID, filter.Search, page.Limit, page.Offset())
	if err != nil {
		s.logger.Sugar().Errorf("failed to find likers of post(%s) in postgres: %s", postID, err.Error())
		return nil, ErrInternal
	}

	total, err := s.repo.Postgres.Post.CountLikes(ctx, postID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to count likes of post(%s) in postgres: %s", postID, err.Error())
		return nil, ErrInternal
	}

	resultsCount, err := s.repo.Postgres.Post.CountLikersFiltered(ctx, postID, filter.Search)
	if err != nil {
		s.logger.Sugar().Errorf("failed to count matching likers of post(%s) in postgres: %s", postID, err.Error())
		return nil, ErrInternal
	}

	return &dto.Paginated[*model.FullFollower]{
		Data:         likers,
		Page:         page.Page,
		ResultsCount: resultsCount,
		Total:        total,
	}, nil
}

// decorate fills the per-caller author fields: the verified badge and the
// anonymity mask. Anonymous posts expose no author unless the caller wrote
// them; the embedded user_id column is zeroed along with the author view so
// the serialized post carries no trace of who wrote it.
func (s *postService) decorate(ctx context.Context, callerID uuid.UUID, posts []*model.FullPost) error {
	mostFollowed, err := s.repo.Postgres.User.FindMostFollowed(ctx)
	if err != nil && err != pgx.ErrNoRows {
		s.logger.Sugar().Errorf("failed to find most followed user in postgres: %s", err.Error())
		return ErrInternal
	}

	for _, post := range posts {
		if mostFollowed != nil {
			post.Author.IsAccountVerified = post.Author.ID == mostFollowed.ID
		}

		if post.IsAnonymous && post.UserID != callerID {
			post.UserID = uuid.Nil
			post.Author = model.PostAuthor{}
		}
	}

	return nil
}
