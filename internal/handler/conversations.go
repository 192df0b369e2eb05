package handler

import (
	"net/http"

	"github.com/moises-herrera/social-network-backend/internal/dto"
	"github.com/moises-herrera/social-network-backend/internal/service"
	"github.com/gin-gonic/gin"
)

func (h *Handler) conversationsFindAll(c *gin.Context) {
	user := h.getUser(c)

	var filter dto.ConversationFilterDto
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	conversations, err := h.services.Conversation.FindAll(c.Request.Context(), user.ID, filter)
	if err != nil {
		c.JSON(service.StatusCode(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, conversations)
}

func (h *Handler) conversationsCreate(c *gin.Context) {
	user := h.getUser(c)

	var input dto.CreateConversationDto
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	conversation, err := h.services.Conversation.Create(c.Request.Context(), user.ID, input)
	if err != nil {
		c.JSON(service.StatusCode(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, conversation)
}

func (h *Handler) conversationsDelete(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	if err := h.services.Conversation.Delete(c.Request.Context(), id); err != nil {
		c.JSON(service.StatusCode(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, "conversation has been deleted"))
}

func (h *Handler) messagesFindByConversation(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var page dto.PageOptions
	if err := c.ShouldBindQuery(&page); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	messages, err := h.services.Conversation.FindMessages(c.Request.Context(), id, page)
	if err != nil {
		c.JSON(service.StatusCode(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, messages)
}

func (h *Handler) messagesCreate(c *gin.Context) {
	user := h.getUser(c)

	var input dto.CreateMessageDto
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	isParticipant, err := h.services.Conversation.HasParticipant(c.Request.Context(), input.ConversationID, user.ID)
	if err != nil {
		c.JSON(service.StatusCode(err), dto.NewBasicResponse(false, err.Error()))
		return
	}
	if !isParticipant {
		h.forbid(c)
		return
	}

	message, err := h.services.Conversation.CreateMessage(c.Request.Context(), user.ID, input)
	if err != nil {
		c.JSON(service.StatusCode(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, message)
}

func (h *Handler) messagesUpdate(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var input dto.UpdateMessageDto
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	message, err := h.services.Conversation.UpdateMessage(c.Request.Context(), id, input.Content)
	if err != nil {
		c.JSON(service.StatusCode(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, message)
}

// messagesMarkRead is for recipients only: a participant other than the
// sender records the read receipt.
func (h *Handler) messagesMarkRead(c *gin.Context) {
	user := h.getUser(c)

	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	message, err := h.services.Conversation.FindMessage(c.Request.Context(), id)
	if err != nil {
		c.JSON(service.StatusCode(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	isParticipant, err := h.services.Conversation.HasParticipant(c.Request.Context(), message.ConversationID, user.ID)
	if err != nil {
		c.JSON(service.StatusCode(err), dto.NewBasicResponse(false, err.Error()))
		return
	}
	if !isParticipant || message.SenderID == user.ID {
		h.forbid(c)
		return
	}

	if err := h.services.Conversation.MarkMessageRead(c.Request.Context(), id); err != nil {
		c.JSON(service.StatusCode(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}

func (h *Handler) messagesDelete(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	if err := h.services.Conversation.DeleteMessage(c.Request.Context(), id); err != nil {
		c.JSON(service.StatusCode(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, "message has been deleted"))
}
