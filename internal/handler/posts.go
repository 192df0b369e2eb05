package handler

import (
	"net/http"

	"github.com/moises-herrera/social-network-backend/internal/dto"
	"github.com/moises-herrera/social-network-backend/internal/model"
	"github.com/moises-herrera/social-network-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// feedQueryFromFilter resolves the query params into exactly one feed mode.
// When several are present the most specific wins: a user filter over a
// search, a search over the following toggle. No filter at all means the
// suggested feed.
func feedQueryFromFilter(filter dto.PostFilterDto) (model.FeedQuery, error) {
	if filter.UserID != "" {
		userID, err := uuid.Parse(filter.UserID)
		if err != nil {
			return model.FeedQuery{}, errInvalidID
		}
		return model.FeedQuery{Mode: model.FeedByUser, UserID: userID}, nil
	}

	if filter.Search != "" {
		return model.FeedQuery{Mode: model.FeedSearch, Search: filter.Search}, nil
	}

	if filter.Following {
		return model.FeedQuery{Mode: model.FeedFollowing}, nil
	}

	return model.FeedQuery{Mode: model.FeedSuggested}, nil
}

func (h *Handler) postsFindAll(c *gin.Context) {
	user := h.getUser(c)

	var filter dto.PostFilterDto
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	query, err := feedQueryFromFilter(filter)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	posts, err := h.services.Post.FindAll(c.Request.Context(), user.ID, query, filter.PageOptions)
	if err != nil {
		c.JSON(service.StatusCode(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *Handler) postsFindByID(c *gin.Context) {
	user := h.getUser(c)

	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	post, err := h.services.Post.FindByID(c.Request.Context(), user.ID, id)
	if err != nil {
		c.JSON(service.StatusCode(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *Handler) postsCreate(c *gin.Context) {
	user := h.getUser(c)

	var input dto.CreatePostDto
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	image, err := readImageFile(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	post, err := h.services.Post.Create(c.Request.Context(), user.ID, input, image)
	if err != nil {
		c.JSON(service.StatusCode(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, post)
}

func (h *Handler) postsUpdate(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var input dto.UpdatePostDto
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	image, err := readImageFile(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	post, err := h.services.Post.Update(c.Request.Context(), id, input, image)
	if err != nil {
		c.JSON(service.StatusCode(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *Handler) postsDelete(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	if err := h.services.Post.Delete(c.Request.Context(), id); err != nil {
		c.JSON(service.StatusCode(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, "post has been deleted"))
}

func (h *Handler) postsLike(c *gin.Context) {
	user := h.getUser(c)

	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	if err := h.services.Post.Like(c.Request.Context(), id, user.ID); err != nil {
		c.JSON(service.StatusCode(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}

func (h *Handler) postsUnlike(c *gin.Context) {
	user := h.getUser(c)

	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	if err := h.services.Post.Unlike(c.Request.Context(), id, user.ID); err != nil {
		c.JSON(service.StatusCode(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}

func (h *Handler) postsGetLikes(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var filter dto.UserFilterDto
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	likes, err := h.services.Post.GetLikes(c.Request.Context(), id, filter)
	if err != nil {
		c.JSON(service.StatusCode(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, likes)
}
