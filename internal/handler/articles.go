package handler

import (
	"net/http"

	"github.com/moises-herrera/social-network-backend/internal/dto"
	"github.com/moises-herrera/social-network-backend/internal/service"
	"github.com/gin-gonic/gin"
)

func (h *Handler) articlesFindAll(c *gin.Context) {
	var page dto.PageOptions
	if err := c.ShouldBindQuery(&page); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	articles, err := h.services.Article.FindAll(c.Request.Context(), page)
	if err != nil {
		c.JSON(service.StatusCode(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, articles)
}

func (h *Handler) articlesFindByID(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	article, err := h.services.Article.FindByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(service.StatusCode(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, article)
}

func (h *Handler) articlesCreate(c *gin.Context) {
	user := h.getUser(c)

	var input dto.CreateArticleDto
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	image, err := readImageFile(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	article, err := h.services.Article.Create(c.Request.Context(), user.ID, input, image)
	if err != nil {
		c.JSON(service.StatusCode(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, article)
}

func (h *Handler) articlesUpdate(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var input dto.UpdateArticleDto
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	image, err := readImageFile(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	article, err := h.services.Article.Update(c.Request.Context(), id, input, image)
	if err != nil {
		c.JSON(service.StatusCode(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, article)
}

func (h *Handler) articlesDelete(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	if err := h.services.Article.Delete(c.Request.Context(), id); err != nil {
		c.JSON(service.StatusCode(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, "article has been deleted"))
}

func (h *Handler) articlesLike(c *gin.Context) {
	user := h.getUser(c)

	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	if err := h.services.Article.Like(c.Request.Context(), id, user.ID); err != nil {
		c.JSON(service.StatusCode(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}

func (h *Handler) articlesUnlike(c *gin.Context) {
	user := h.getUser(c)

	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	if err := h.services.Article.Unlike(c.Request.Context(), id, user.ID); err != nil {
		c.JSON(service.StatusCode(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}
