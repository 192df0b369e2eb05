package handler

import (
	"net/http"

	"github.com/moises-herrera/social-network-backend/internal/dto"
	"github.com/moises-herrera/social-network-backend/internal/service"
	"github.com/gin-gonic/gin"
)

func (h *Handler) commentsFindByPost(c *gin.Context) {
	postID, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	comments, err := h.services.Comment.FindByPost(c.Request.Context(), postID)
	if err != nil {
		c.JSON(service.StatusCode(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, comments)
}

func (h *Handler) commentsCreate(c *gin.Context) {
	user := h.getUser(c)

	var input dto.CreateCommentDto
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	comment, err := h.services.Comment.Create(c.Request.Context(), user.ID, input)
	if err != nil {
		c.JSON(service.StatusCode(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, comment)
}

func (h *Handler) commentsUpdate(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var input dto.UpdateCommentDto
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	comment, err := h.services.Comment.Update(c.Request.Context(), id, input.Content)
	if err != nil {
		c.JSON(service.StatusCode(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, comment)
}

func (h *Handler) commentsDelete(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	if err := h.services.Comment.Delete(c.Request.Context(), id); err != nil {
		c.JSON(service.StatusCode(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, "comment has been deleted"))
}
