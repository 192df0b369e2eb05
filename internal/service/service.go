package service

import (
	"context"

	"github.com/moises-herrera/social-network-backend/internal/dto"
	"github.com/moises-herrera/social-network-backend/internal/imagestore"
	"github.com/moises-herrera/social-network-backend/internal/model"
	"github.com/moises-herrera/social-network-backend/internal/push"
	"github.com/moises-herrera/social-network-backend/internal/rabbitmq"
	"github.com/moises-herrera/social-network-backend/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Auth interface {
	Register(ctx context.Context, registerDto dto.RegisterDto) (*dto.AuthResponse, error)
	Login(ctx context.Context, loginDto dto.LoginDto) (*dto.AuthResponse, error)
	RenewToken(ctx context.Context, userID uuid.UUID) (*dto.AuthResponse, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, password string) error
	VerifyEmail(ctx context.Context, userID uuid.UUID) error
	SendConfirmationEmail(ctx context.Context, email string) error
	SendResetPasswordEmail(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token string, password string) error
}

type User interface {
	FindByID(ctx context.Context, id uuid.UUID) (*dto.GetUserDto, error)
	FindAll(ctx context.Context, filter dto.UserFilterDto) (*dto.Paginated[*dto.GetUserDto], error)
	Update(ctx context.Context, id uuid.UUID, updateDto dto.UpdateUserDto) (*dto.GetUserDto, error)
	SetAvatar(ctx context.Context, id uuid.UUID, image []byte) (*dto.GetUserDto, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Follow(ctx context.Context, targetID uuid.UUID, followerID uuid.UUID) error
	Unfollow(ctx context.Context, targetID uuid.UUID, followerID uuid.UUID) error
	GetFollowers(ctx context.Context, userID uuid.UUID, filter dto.UserFilterDto) (*dto.Paginated[*model.FullFollower], error)
	GetFollowing(ctx context.Context, userID uuid.UUID, filter dto.UserFilterDto) (*dto.Paginated[*model.FullFollower], error)
	FindMostFollowed(ctx context.Context) (*dto.GetUserDto, error)
}

type Post interface {
	FindAll(ctx context.Context, callerID uuid.UUID, q model.FeedQuery, page dto.PageOptions) (*dto.Paginated[*model.FullPost], error)
	FindByID(ctx context.Context, callerID uuid.UUID, id uuid.UUID) (*model.FullPost, error)
	Create(ctx context.Context, userID uuid.UUID, createDto dto.CreatePostDto, image []byte) (*model.Post, error)
	Update(ctx context.Context, id uuid.UUID, updateDto dto.UpdatePostDto, image []byte) (*model.Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Like(ctx context.Context, postID uuid.UUID, userID uuid.UUID) error
	Unlike(ctx context.Context, postID uuid.UUID, userID uuid.UUID) error
	GetLikes(ctx context.Context, postID uuid.UUID, filter dto.UserFilterDto) (*dto.Paginated[*model.FullFollower], error)
}

type Comment interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Comment, error)
	FindByPost(ctx context.Context, postID uuid.UUID) ([]*model.FullComment, error)
	Create(ctx context.Context, userID uuid.UUID, createDto dto.CreateCommentDto) (*model.Comment, error)
	Update(ctx context.Context, id uuid.UUID, content string) (*model.Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Conversation interface {
	FindAll(ctx context.Context, userID uuid.UUID, filter dto.ConversationFilterDto) (*dto.Paginated[*model.FullConversation], error)
	Create(ctx context.Context, initiatorID uuid.UUID, createDto dto.CreateConversationDto) (*model.FullConversation, error)
	HasParticipant(ctx context.Context, conversationID uuid.UUID, userID uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindMessages(ctx context.Context, conversationID uuid.UUID, page dto.PageOptions) (*dto.Paginated[*model.Message], error)
	FindMessage(ctx context.Context, id uuid.UUID) (*model.Message, error)
	CreateMessage(ctx context.Context, senderID uuid.UUID, createDto dto.CreateMessageDto) (*model.Message, error)
	UpdateMessage(ctx context.Context, id uuid.UUID, content string) (*model.Message, error)
	MarkMessageRead(ctx context.Context, id uuid.UUID) error
	DeleteMessage(ctx context.Context, id uuid.UUID) error
}

type Notification interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Notification, error)
	FindAll(ctx context.Context, recipientID uuid.UUID, page dto.PageOptions) (*dto.Paginated[*model.FullNotification], error)
	Create(ctx context.Context, senderID uuid.UUID, createDto dto.CreateNotificationDto) (*model.Notification, error)
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type Article interface {
	FindAll(ctx context.Context, page dto.PageOptions) (*dto.Paginated[*model.FullArticle], error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.FullArticle, error)
	Create(ctx context.Context, userID uuid.UUID, createDto dto.CreateArticleDto, image []byte) (*model.Article, error)
	Update(ctx context.Context, id uuid.UUID, updateDto dto.UpdateArticleDto, image []byte) (*model.Article, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Like(ctx context.Context, articleID uuid.UUID, userID uuid.UUID) error
	Unlike(ctx context.Context, articleID uuid.UUID, userID uuid.UUID) error
}

type Service struct {
	Auth
	User
	Post
	Comment
	Conversation
	Notification
	Article
}

func New(logger *zap.Logger, repo *repository.Repository, mq rabbitmq.Publisher, pushSender push.Sender, images imagestore.Store) *Service {
	notificationService := newNotificationService(logger, repo)
	userService := newUserService(logger, repo, images, notificationService)

	return &Service{
		Auth:         newAuthService(logger, repo, mq),
		User:         userService,
		Post:         newPostService(logger, repo, images, notificationService),
		Comment:      newCommentService(logger, repo, notificationService),
		Conversation: newConversationService(logger, repo, pushSender),
		Notification: notificationService,
		Article:      newArticleService(logger, repo, images),
	}
}
