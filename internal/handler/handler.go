package handler

import (
	"github.com/moises-herrera/social-network-backend/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
)

type Handler struct {
	services *service.Service
}

func New(services *service.Service) *Handler {
	return &Handler{
		services: services,
	}
}

func (h *Handler) InitRoutes() *gin.Engine {
	r := gin.New()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{viper.GetString("client.origin")},
		AllowMethods:     []string{"POST", "GET", "PATCH", "PUT", "DELETE"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.authRegister)
			auth.POST("/login", h.authLogin)
			auth.GET("/renew", h.authMiddleware, h.authRenew)
			auth.PATCH("/change-password", h.authMiddleware, h.authChangePassword)
			auth.POST("/confirm-email/send", h.authMiddleware, h.authSendConfirmationEmail)
			auth.POST("/confirm-email", h.authConfirmEmail)
			auth.POST("/reset-password/send", h.authSendResetPasswordEmail)
			auth.POST("/reset-password", h.authResetPassword)
		}

		users := api.Group("/users")
		{
			users.Use(h.authMiddleware)

			users.GET("", h.usersFindAll)
			users.GET("/most-followed", h.usersMostFollowed)
			users.GET("/:id", h.usersFindByID)
			users.PATCH("/:id", h.selfOrAdminMiddleware, h.usersUpdate)
			users.PATCH("/:id/avatar", h.selfOrAdminMiddleware, h.usersSetAvatar)
			users.DELETE("/:id", h.selfOrAdminMiddleware, h.usersDelete)
			users.POST("/:id/follow", h.usersFollow)
			users.DELETE("/:id/follow", h.usersUnfollow)
			users.GET("/:id/followers", h.usersGetFollowers)
			users.GET("/:id/following", h.usersGetFollowing)
		}

		posts := api.Group("/posts")
		{
			posts.Use(h.authMiddleware)

			posts.GET("", h.postsFindAll)
			posts.POST("", h.postsCreate)
			posts.GET("/:id", h.postsFindByID)
			posts.PATCH("/:id", h.postOwnerMiddleware, h.postsUpdate)
			posts.DELETE("/:id", h.postOwnerMiddleware, h.postsDelete)
			posts.POST("/:id/like", h.postsLike)
			posts.DELETE("/:id/like", h.postsUnlike)
			posts.GET("/:id/likes", h.postsGetLikes)
			posts.GET("/:id/comments", h.commentsFindByPost)
		}

		comments := api.Group("/comments")
		{
			comments.Use(h.authMiddleware)

			comments.POST("", h.commentsCreate)
			comments.PATCH("/:id", h.commentAuthorMiddleware, h.commentsUpdate)
			comments.DELETE("/:id", h.commentDeleteMiddleware, h.commentsDelete)
		}

		conversations := api.Group("/conversations")
		{
			conversations.Use(h.authMiddleware)

			conversations.GET("", h.conversationsFindAll)
			conversations.POST("", h.conversationsCreate)
			conversations.DELETE("/:id", h.conversationParticipantMiddleware, h.conversationsDelete)
			conversations.GET("/:id/messages", h.conversationParticipantMiddleware, h.messagesFindByConversation)
		}

		messages := api.Group("/messages")
		{
			messages.Use(h.authMiddleware)

			messages.POST("", h.messagesCreate)
			messages.PATCH("/:id", h.messageSenderMiddleware, h.messagesUpdate)
			messages.PATCH("/:id/read", h.messagesMarkRead)
			messages.DELETE("/:id", h.messageSenderMiddleware, h.messagesDelete)
		}

		notifications := api.Group("/notifications")
		{
			notifications.Use(h.authMiddleware)

			notifications.GET("", h.notificationsFindAll)
			notifications.GET("/unread-count", h.notificationsUnreadCount)
			notifications.PATCH("/:id/read", h.notificationRecipientMiddleware, h.notificationsMarkRead)
			notifications.DELETE("/:id", h.notificationRecipientMiddleware, h.notificationsDelete)
		}

		articles := api.Group("/articles")
		{
			articles.Use(h.authMiddleware)

			articles.GET("", h.articlesFindAll)
			articles.GET("/:id", h.articlesFindByID)
			articles.POST("", h.articlesCreate)
			articles.PATCH("/:id", h.articleOwnerMiddleware, h.articlesUpdate)
			articles.DELETE("/:id", h.articleOwnerMiddleware, h.articlesDelete)
			articles.POST("/:id/like", h.articlesLike)
			articles.DELETE("/:id/like", h.articlesUnlike)
		}
	}

	return r
}
