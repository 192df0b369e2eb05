package service

import (
	"context"
	"time"

	"github.com/moises-herrera/social-network-backend/internal/dto"
	"github.com/moises-herrera/social-network-backend/internal/imagestore"
	"github.com/moises-herrera/social-network-backend/internal/model"
	"github.com/moises-herrera/social-network-backend/internal/repository"
	"github.com/moises-herrera/social-network-backend/internal/repository/redisrepo"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Short TTL: the cached view carries the followers count, which goes stale on
// every follow, so the cache is invalidated on writes and kept brief anyway.
const userCacheTTL = time.Minute * 5

type userService struct {
	logger        *zap.Logger
	repo          *repository.Repository
	images        imagestore.Store
	notifications Notification
}

func newUserService(logger *zap.Logger, repo *repository.Repository, images imagestore.Store, notifications Notification) User {
	return &userService{
		logger:        logger,
		repo:          repo,
		images:        images,
		notifications: notifications,
	}
}

func (s *userService) FindByID(ctx context.Context, id uuid.UUID) (*dto.GetUserDto, error) {
	userCache, err := redisrepo.Get[dto.GetUserDto](s.repo.Redis.Default, ctx, redisrepo.UserKey(id.String()))
	if err == nil && userCache != nil {
		return userCache, nil
	}
	if err != nil && err != redis.Nil {
		s.logger.Sugar().Errorf("failed to get user(%s) from redis: %s", id, err.Error())
	}

	fullUser, err := s.repo.Postgres.User.FindByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrUserNotFound
		}

		s.logger.Sugar().Errorf("failed to find user(%s) in postgres: %s", id, err.Error())
		return nil, ErrInternal
	}

	fullUser.IsAccountVerified, err = s.isMostFollowed(ctx, fullUser.ID)
	if err != nil {
		return nil, err
	}

	user := dto.GetUserDtoFromFullUser(*fullUser)
	if err := s.repo.Redis.Default.SetJSON(ctx, redisrepo.UserKey(id.String()), user, userCacheTTL); err != nil {
		s.logger.Sugar().Errorf("failed to set user(%s) in redis: %s", id, err.Error())
	}

	return &user, nil
}

func (s *userService) FindAll(ctx context.Context, filter dto.UserFilterDto) (*dto.Paginated[*dto.GetUserDto], error) {
	page := filter.Normalized()

	users, err := s.repo.Postgres.User.Search(ctx, filter.Search, page.Limit, page.Offset())
	if err != nil {
		s.logger.Sugar().Errorf("failed to search users in postgres: %s", err.Error())
		return nil, ErrInternal
	}

	total, err := s.repo.Postgres.User.CountAll(ctx)
	if err != nil {
		s.logger.Sugar().Errorf("failed to count users in postgres: %s", err.Error())
		return nil, ErrInternal
	}

	resultsCount, err := s.repo.Postgres.User.CountSearch(ctx, filter.Search)
	if err != nil {
		s.logger.Sugar().Errorf("failed to count matching users in postgres: %s", err.Error())
		return nil, ErrInternal
	}

	mostFollowed, err := s.mostFollowedID(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]*dto.GetUserDto, 0, len(users))
	for _, user := range users {
		user.IsAccountVerified = user.ID == mostFollowed
		view := dto.GetUserDtoFromFullUser(*user)
		views = append(views, &view)
	}

	return &dto.Paginated[*dto.GetUserDto]{
		Data:         views,
		Page:         page.Page,
		ResultsCount: resultsCount,
		Total:        total,
	}, nil
}

func (s *userService) Update(ctx context.Context, id uuid.UUID, updateDto dto.UpdateUserDto) (*dto.GetUserDto, error) {
	current, err := s.repo.Postgres.User.FindByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrUserNotFound
		}

		s.logger.Sugar().Errorf("failed to find user(%s) in postgres: %s", id, err.Error())
		return nil, ErrInternal
	}

	updates := map[string]interface{}{}
	if updateDto.FirstName != nil {
		updates["first_name"] = *updateDto.FirstName
	}
	if updateDto.LastName != nil {
		updates["last_name"] = *updateDto.LastName
	}
	if updateDto.Username != nil && *updateDto.Username != current.Username {
		updates["username"] = *updateDto.Username
	}
	if updateDto.Email != nil && *updateDto.Email != current.Email {
		updates["email"] = *updateDto.Email
	}

	// Re-check uniqueness only when the unique fields actually change.
	if _, usernameChanged := updates["username"]; usernameChanged || updates["email"] != nil {
		email := current.Email
		if updates["email"] != nil {
			email = updates["email"].(string)
		}
		username := current.Username
		if usernameChanged {
			username = updates["username"].(string)
		}

		exists, err := s.repo.Postgres.User.ExistsWithEmailOrUsername(ctx, email, username)
		if err != nil {
			s.logger.Sugar().Errorf("failed to check user existence in postgres: %s", err.Error())
			return nil, ErrInternal
		}
		if exists {
			return nil, ErrUserAlreadyExists
		}
	}

	if err := s.repo.Postgres.User.UpdateByID(ctx, id, updates); err != nil {
		s.logger.Sugar().Errorf("failed to update user(%s) in postgres: %s", id, err.Error())
		return nil, ErrInternal
	}

	s.invalidate(ctx, id)
	return s.FindByID(ctx, id)
}

// SetAvatar replaces the avatar with a delete-old-then-upload-new sequence
// against the image store; a failed upload fails the whole update.
func (s *userService) SetAvatar(ctx context.Context, id uuid.UUID, image []byte) (*dto.GetUserDto, error) {
	current, err := s.repo.Postgres.User.FindByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrUserNotFound
		}

		s.logger.Sugar().Errorf("failed to find user(%s) in postgres: %s", id, err.Error())
		return nil, ErrInternal
	}

	if current.AvatarURL != nil {
		if err := s.images.Delete(ctx, "avatars", *current.AvatarURL); err != nil {
			s.logger.Sugar().Errorf("failed to delete old avatar of user(%s): %s", id, err.Error())
			return nil, ErrInternal
		}
	}

	avatarURL, err := s.images.Upload(ctx, "avatars", image)
	if err != nil {
		s.logger.Sugar().Errorf("failed to upload avatar of user(%s): %s", id, err.Error())
		return nil, ErrInternal
	}

	if err := s.repo.Postgres.User.UpdateByID(ctx, id, map[string]interface{}{"avatar_url": avatarURL}); err != nil {
		s.logger.Sugar().Errorf("failed to update user(%s) in postgres: %s", id, err.Error())
		return nil, ErrInternal
	}

	s.invalidate(ctx, id)
	return s.FindByID(ctx, id)
}

func (s *userService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.Postgres.User.FindByID(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return ErrUserNotFound
		}

		s.logger.Sugar().Errorf("failed to find user(%s) in postgres: %s", id, err.Error())
		return ErrInternal
	}

	if err := s.repo.Postgres.User.DeleteByID(ctx, id); err != nil {
		s.logger.Sugar().Errorf("failed to delete user(%s) from postgres: %s", id, err.Error())
		return ErrInternal
	}

	s.invalidate(ctx, id)
	return nil
}

// Follow is an idempotent set-add; it notifies the target exactly when a new
// follow happens, never on unfollow and never on self.
func (s *userService) Follow(ctx context.Context, targetID uuid.UUID, followerID uuid.UUID) error {
	if targetID == followerID {
		return ErrSelfFollow
	}

	target, err := s.repo.Postgres.User.FindByID(ctx, targetID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrUserNotFound
		}

		s.logger.Sugar().Errorf("failed to find user(%s) in postgres: %s", targetID, err.Error())
		return ErrInternal
	}

	alreadyFollowing, err := s.repo.Postgres.User.IsFollowing(ctx, targetID, followerID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to check follow(%s -> %s) in postgres: %s", followerID, targetID, err.Error())
		return ErrInternal
	}

	if err := s.repo.Postgres.User.Follow(ctx, targetID, followerID); err != nil {
		s.logger.Sugar().Errorf("failed to follow user(%s) in postgres: %s", targetID, err.Error())
		return ErrInternal
	}

	s.invalidate(ctx, targetID)

	if !alreadyFollowing {
		if _, err := s.notifications.Create(ctx, followerID, dto.CreateNotificationDto{
			Note:        "started following you",
			RecipientID: target.ID,
		}); err != nil {
			s.logger.Sugar().Errorf("failed to create follow notification for user(%s): %s", target.ID, err.Error())
		}
	}

	return nil
}

func (s *userService) Unfollow(ctx context.Context, targetID uuid.UUID, followerID uuid.UUID) error {
	if _, err := s.repo.Postgres.User.FindByID(ctx, targetID); err != nil {
		if err == pgx.ErrNoRows {
			return ErrUserNotFound
		}

		s.logger.Sugar().Errorf("failed to find user(%s) in postgres: %s", targetID, err.Error())
		return ErrInternal
	}

	if err := s.repo.Postgres.User.Unfollow(ctx, targetID, followerID); err != nil {
		s.logger.Sugar().Errorf("failed to unfollow user(%s) in postgres: %s", targetID, err.Error())
		return ErrInternal
	}

	s.invalidate(ctx, targetID)
	return nil
}

func (s *userService) GetFollowers(ctx context.Context, userID uuid.UUID, filter dto.UserFilterDto) (*dto.Paginated[*model.FullFollower], error) {
	page := filter.Normalized()

	followers, err := s.repo.Postgres.User.FindFollowers(ctx, userID, filter.Search, page.Limit, page.Offset())
	if err != nil {
		s.logger.Sugar().Errorf("failed to find followers of user(%s) in postgres: %s", userID, err.Error())
		return nil, ErrInternal
	}

	total, err := s.repo.Postgres.User.CountFollowers(ctx, userID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to count followers of user(%s) in postgres: %s", userID, err.Error())
		return nil, ErrInternal
	}

	resultsCount, err := s.repo.Postgres.User.CountFollowersFiltered(ctx, userID, filter.Search)
	if err != nil {
		s.logger.Sugar().Errorf("failed to count matching followers of user(%s) in postgres: %s", userID, err.Error())
		return nil, ErrInternal
	}

	if err := s.applyBadge(ctx, followers); err != nil {
		return nil, err
	}

	return &dto.Paginated[*model.FullFollower]{
		Data:         followers,
		Page:         page.Page,
		ResultsCount: resultsCount,
		Total:        total,
	}, nil
}

func (s *userService) GetFollowing(ctx context.Context, userID uuid.UUID, filter dto.UserFilterDto) (*dto.Paginated[*model.FullFollower], error) {
	page := filter.Normalized()

	following, err := s.repo.Postgres.User.FindFollowing(ctx, userID, filter.Search, page.Limit, page.Offset())
	if err != nil {
		s.logger.Sugar().Errorf("failed to find following of user(%s) in postgres: %s", userID, err.Error())
		return nil, ErrInternal
	}

	total, err := s.repo.Postgres.User.CountFollowing(ctx, userID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to count following of user(%s) in postgres: %s", userID, err.Error())
		return nil, ErrInternal
	}

	resultsCount, err := s.repo.Postgres.User.CountFollowingFiltered(ctx, userID, filter.Search)
	if err != nil {
		s.logger.Sugar().Errorf("failed to count matching following of user(%s) in postgres: %s", userID, err.Error())
		return nil, ErrInternal
	}

	if err := s.applyBadge(ctx, following); err != nil {
		return nil, err
	}

	return &dto.Paginated[*model.FullFollower]{
		Data:         following,
		Page:         page.Page,
		ResultsCount: resultsCount,
		Total:        total,
	}, nil
}

// FindMostFollowed recomputes the founder/verified badge per call; the value
// is deliberately never cached.
func (s *userService) FindMostFollowed(ctx context.Context) (*dto.GetUserDto, error) {
	user, err := s.repo.Postgres.User.FindMostFollowed(ctx)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrUserNotFound
		}

		s.logger.Sugar().Errorf("failed to find most followed user in postgres: %s", err.Error())
		return nil, ErrInternal
	}

	user.IsAccountVerified = true
	view := dto.GetUserDtoFromFullUser(*user)
	return &view, nil
}

func (s *userService) mostFollowedID(ctx context.Context) (uuid.UUID, error) {
	user, err := s.repo.Postgres.User.FindMostFollowed(ctx)
	if err != nil {
		if err == pgx.ErrNoRows {
			return uuid.Nil, nil
		}

		s.logger.Sugar().Errorf("failed to find most followed user in postgres: %s", err.Error())
		return uuid.Nil, ErrInternal
	}

	return user.ID, nil
}

func (s *userService) isMostFollowed(ctx context.Context, id uuid.UUID) (bool, error) {
	mostFollowed, err := s.mostFollowedID(ctx)
	if err != nil {
		return false, err
	}

	return mostFollowed != uuid.Nil && mostFollowed == id, nil
}

func (s *userService) applyBadge(ctx context.Context, users []*model.FullFollower) error {
	mostFollowed, err := s.mostFollowedID(ctx)
	if err != nil {
		return err
	}

	for _, user := range users {
		user.IsAccountVerified = user.ID == mostFollowed
	}

	return nil
}

func (s *userService) invalidate(ctx context.Context, id uuid.UUID) {
	if err := s.repo.Redis.Default.Del(ctx, redisrepo.UserKey(id.String())).Err(); err != nil {
		s.logger.Sugar().Errorf("failed to delete user(%s) cache from redis: %s", id, err.Error())
	}
}
