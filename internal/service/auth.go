package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/moises-herrera/social-network-backend/internal/dto"
	"github.com/moises-herrera/social-network-backend/internal/model"
	"github.com/moises-herrera/social-network-backend/internal/rabbitmq"
	"github.com/moises-herrera/social-network-backend/internal/repository"
	"github.com/moises-herrera/social-network-backend/internal/repository/redisrepo"
	"github.com/moises-herrera/social-network-backend/pkg/utils"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	ACCESS_TOKEN_EXPIRY = time.Hour * 24
	EMAIL_TOKEN_EXPIRY  = time.Hour
)

type authService struct {
	logger *zap.Logger
	repo   *repository.Repository
	mq     rabbitmq.Publisher
}

func newAuthService(logger *zap.Logger, repo *repository.Repository, mq rabbitmq.Publisher) Auth {
	return &authService{
		logger: logger,
		repo:   repo,
		mq:     mq,
	}
}

func (s *authService) Register(ctx context.Context, registerDto dto.RegisterDto) (*dto.AuthResponse, error) {
	registerDto.Email = strings.ToLower(strings.TrimSpace(registerDto.Email))
	registerDto.Username = strings.ToLower(strings.TrimSpace(registerDto.Username))

	exists, err := s.repo.Postgres.User.ExistsWithEmailOrUsername(ctx, registerDto.Email, registerDto.Username)
	if err != nil {
		s.logger.Sugar().Errorf("failed to check user existence in postgres: %s", err.Error())
		return nil, ErrInternal
	}
	if exists {
		return nil, ErrUserAlreadyExists
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(registerDto.Password), 10)
	if err != nil {
		s.logger.Sugar().Errorf("failed to generate password hash: %s", err.Error())
		return nil, ErrInternal
	}

	createdUser, err := s.repo.Postgres.User.Create(ctx, model.User{
		FirstName:    registerDto.FirstName,
		LastName:     registerDto.LastName,
		Username:     registerDto.Username,
		Email:        registerDto.Email,
		PasswordHash: string(passwordHash),
	})
	if err != nil {
		s.logger.Sugar().Errorf("failed to create user in postgres: %s", err.Error())
		return nil, ErrInternal
	}

	// Confirmation mail failures never fail the registration.
	if err := s.queueConfirmationEmail(createdUser.ID, createdUser.Email); err != nil {
		s.logger.Sugar().Errorf("failed to queue confirmation email for user(%s): %s", createdUser.ID, err.Error())
	}

	return s.authResponseFor(ctx, createdUser.ID)
}

func (s *authService) Login(ctx context.Context, loginDto dto.LoginDto) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(loginDto.Email))

	user, err := s.repo.Postgres.User.FindByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrUserNotFound
		}

		s.logger.Sugar().Errorf("failed to get user(email: %s) from postgres: %s", email, err.Error())
		return nil, ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(loginDto.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.authResponseFor(ctx, user.ID)
}

func (s *authService) RenewToken(ctx context.Context, userID uuid.UUID) (*dto.AuthResponse, error) {
	return s.authResponseFor(ctx, userID)
}

func (s *authService) ChangePassword(ctx context.Context, userID uuid.UUID, password string) error {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		s.logger.Sugar().Errorf("failed to generate password hash: %s", err.Error())
		return ErrInternal
	}

	return s.updateUser(ctx, userID, map[string]interface{}{"password_hash": string(passwordHash)})
}

func (s *authService) VerifyEmail(ctx context.Context, userID uuid.UUID) error {
	return s.updateUser(ctx, userID, map[string]interface{}{"is_email_verified": true})
}

func (s *authService) SendConfirmationEmail(ctx context.Context, email string) error {
	user, err := s.repo.Postgres.User.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrUserNotFound
		}

		s.logger.Sugar().Errorf("failed to get user(email: %s) from postgres: %s", email, err.Error())
		return ErrInternal
	}

	if err := s.queueConfirmationEmail(user.ID, user.Email); err != nil {
		s.logger.Sugar().Errorf("failed to queue confirmation email for user(%s): %s", user.ID, err.Error())
		return ErrInternal
	}

	return nil
}

func (s *authService) SendResetPasswordEmail(ctx context.Context, email string) error {
	user, err := s.repo.Postgres.User.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrUserNotFound
		}

		s.logger.Sugar().Errorf("failed to get user(email: %s) from postgres: %s", email, err.Error())
		return ErrInternal
	}

	token, err := utils.GenerateJWT(user.ID.String(), []byte(os.Getenv("EMAIL_SECRET")), EMAIL_TOKEN_EXPIRY)
	if err != nil {
		s.logger.Sugar().Errorf("failed to generate reset token: %s", err.Error())
		return ErrInternal
	}

	// Single-use marker: ResetPassword checks and burns it.
	if err := s.repo.Redis.Default.Set(ctx, redisrepo.ResetTokenKey(tokenDigest(token)), true, EMAIL_TOKEN_EXPIRY); err != nil {
		s.logger.Sugar().Errorf("failed to set reset token for user(%s) in redis: %s", user.ID, err.Error())
		return ErrInternal
	}

	link := fmt.Sprintf("%s/auth/reset-password?token=%s", viper.GetString("client.origin"), token)
	body := fmt.Sprintf("<p>Hello %s,</p><p>Follow this link to reset your password:</p><p><a href=%q>Reset password</a></p>", user.FirstName, link)

	return s.queueEmail(rabbitmq.RESET_PASSWORD_MAIL_QUEUE, user.Email, "Reset your password", body)
}

func (s *authService) ResetPassword(ctx context.Context, token string, password string) error {
	userID, err := utils.DecodeJWT(token, []byte(os.Getenv("EMAIL_SECRET")))
	if err != nil {
		return ErrInvalidResetToken
	}

	id, err := uuid.Parse(userID)
	if err != nil {
		return ErrInvalidResetToken
	}

	key := redisrepo.ResetTokenKey(tokenDigest(token))
	deleted, err := s.repo.Redis.Default.Del(ctx, key).Result()
	if err != nil {
		s.logger.Sugar().Errorf("failed to delete reset token from redis: %s", err.Error())
		return ErrInternal
	}
	if deleted == 0 {
		return ErrInvalidResetToken
	}

	return s.ChangePassword(ctx, id, password)
}

func (s *authService) queueConfirmationEmail(userID uuid.UUID, email string) error {
	token, err := utils.GenerateJWT(userID.String(), []byte(os.Getenv("EMAIL_SECRET")), EMAIL_TOKEN_EXPIRY)
	if err != nil {
		return err
	}

	link := fmt.Sprintf("%s/auth/confirm-email?token=%s", viper.GetString("client.origin"), token)
	body := fmt.Sprintf("<p>Welcome!</p><p>Confirm your email address by following this link:</p><p><a href=%q>Confirm email</a></p>", link)

	return s.queueEmail(rabbitmq.CONFIRMATION_MAIL_QUEUE, email, "Confirm your email", body)
}

func (s *authService) queueEmail(queue string, to string, subject string, htmlBody string) error {
	queueData, err := json.Marshal(&dto.RabbitMQEmailDto{
		To:       to,
		Subject:  subject,
		HTMLBody: htmlBody,
	})
	if err != nil {
		return err
	}

	return s.mq.Publish(queue, queueData)
}

func (s *authService) authResponseFor(ctx context.Context, userID uuid.UUID) (*dto.AuthResponse, error) {
	user, err := s.repo.Postgres.User.FindByID(ctx, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrUserNotFound
		}

		s.logger.Sugar().Errorf("failed to find user(%s) in postgres: %s", userID, err.Error())
		return nil, ErrInternal
	}

	token, err := utils.GenerateJWT(user.ID.String(), []byte(os.Getenv("ACCESS_SECRET")), ACCESS_TOKEN_EXPIRY)
	if err != nil {
		s.logger.Sugar().Errorf("failed to generate jwt: %s", err.Error())
		return nil, ErrInternal
	}

	return &dto.AuthResponse{
		Ok:          true,
		AccessToken: token,
		User:        dto.GetUserDtoFromFullUser(*user),
	}, nil
}

func (s *authService) updateUser(ctx context.Context, userID uuid.UUID, updates map[string]interface{}) error {
	if _, err := s.repo.Postgres.User.FindByID(ctx, userID); err != nil {
		if err == pgx.ErrNoRows {
			return ErrUserNotFound
		}

		s.logger.Sugar().Errorf("failed to find user(%s) in postgres: %s", userID, err.Error())
		return ErrInternal
	}

	if err := s.repo.Postgres.User.UpdateByID(ctx, userID, updates); err != nil {
		s.logger.Sugar().Errorf("failed to update user(%s) in postgres: %s", userID, err.Error())
		return ErrInternal
	}

	if err := s.repo.Redis.Default.Del(ctx, redisrepo.UserKey(userID.String())).Err(); err != nil {
		s.logger.Sugar().Errorf("failed to delete user(%s) cache from redis: %s", userID, err.Error())
	}

	return nil
}

func tokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
