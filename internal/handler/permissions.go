package handler

import (
	"net/http"
	"strings"

	"github.com/moises-herrera/social-network-backend/internal/dto"
	"github.com/moises-herrera/social-network-backend/internal/model"
	"github.com/moises-herrera/social-network-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Every ownership middleware below checks existence before ownership: a
// request for a missing resource gets 404 regardless of who asks, and an
// admin can act on anything that exists but still gets 404 for what does not.

func (h *Handler) parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidID.Error()))
		c.Abort()
		return uuid.Nil, false
	}

	return id, true
}

func (h *Handler) forbid(c *gin.Context) {
	c.JSON(http.StatusForbidden, dto.NewBasicResponse(false, service.ErrForbidden.Error()))
	c.Abort()
}

func (h *Handler) abortWithServiceError(c *gin.Context, err error) {
	c.JSON(service.StatusCode(err), dto.NewBasicResponse(false, err.Error()))
	c.Abort()
}

func isAdmin(user *dto.GetUserDto) bool {
	return user.Role == model.RoleAdmin
}

func (h *Handler) selfOrAdminMiddleware(c *gin.Context) {
	user := h.getUser(c)

	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	if _, err := h.services.User.FindByID(c.Request.Context(), id); err != nil {
		h.abortWithServiceError(c, err)
		return
	}

	if id != user.ID && !isAdmin(user) {
		h.forbid(c)
		return
	}

	c.Next()
}

func (h *Handler) postOwnerMiddleware(c *gin.Context) {
	user := h.getUser(c)

	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	post, err := h.services.Post.FindByID(c.Request.Context(), user.ID, id)
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}

	if post.UserID != user.ID && !isAdmin(user) {
		h.forbid(c)
		return
	}

	c.Next()
}

func (h *Handler) commentAuthorMiddleware(c *gin.Context) {
	user := h.getUser(c)

	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	comment, err := h.services.Comment.FindByID(c.Request.Context(), id)
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}

	if comment.UserID != user.ID && !isAdmin(user) {
		h.forbid(c)
		return
	}

	c.Next()
}

// commentDeleteMiddleware additionally lets the post's author moderate
// comments under their own post.
func (h *Handler) commentDeleteMiddleware(c *gin.Context) {
	user := h.getUser(c)

	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	comment, err := h.services.Comment.FindByID(c.Request.Context(), id)
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}

	if comment.UserID == user.ID || isAdmin(user) {
		c.Next()
		return
	}

	post, err := h.services.Post.FindByID(c.Request.Context(), user.ID, comment.PostID)
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}

	if post.UserID != user.ID {
		h.forbid(c)
		return
	}

	c.Next()
}

func (h *Handler) conversationParticipantMiddleware(c *gin.Context) {
	user := h.getUser(c)

	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	isParticipant, err := h.services.Conversation.HasParticipant(c.Request.Context(), id, user.ID)
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}

	if !isParticipant && !isAdmin(user) {
		h.forbid(c)
		return
	}

	c.Next()
}

func (h *Handler) messageSenderMiddleware(c *gin.Context) {
	user := h.getUser(c)

	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	message, err := h.services.Conversation.FindMessage(c.Request.Context(), id)
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}

	if message.SenderID != user.ID && !isAdmin(user) {
		h.forbid(c)
		return
	}

	c.Next()
}

func (h *Handler) notificationRecipientMiddleware(c *gin.Context) {
	user := h.getUser(c)

	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	notification, err := h.services.Notification.FindByID(c.Request.Context(), id)
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}

	if notification.RecipientID != user.ID && !isAdmin(user) {
		h.forbid(c)
		return
	}

	c.Next()
}

func (h *Handler) articleOwnerMiddleware(c *gin.Context) {
	user := h.getUser(c)

	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	article, err := h.services.Article.FindByID(c.Request.Context(), id)
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}

	if article.UserID != user.ID && !isAdmin(user) {
		h.forbid(c)
		return
	}

	c.Next()
}
