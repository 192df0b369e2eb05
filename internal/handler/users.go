package handler

import (
	"net/http"

	"github.com/moises-herrera/social-network-backend/internal/dto"
	"github.com/moises-herrera/social-network-backend/internal/service"
	"github.com/gin-gonic/gin"
)

func (h *Handler) usersFindAll(c *gin.Context) {
	var filter dto.UserFilterDto
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	users, err := h.services.User.FindAll(c.Request.Context(), filter)
	if err != nil {
		c.JSON(service.StatusCode(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, users)
}

func (h *Handler) usersFindByID(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	user, err := h.services.User.FindByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(service.StatusCode(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *Handler) usersMostFollowed(c *gin.Context) {
	user, err := h.services.User.FindMostFollowed(c.Request.Context())
	if err != nil {
		c.JSON(service.StatusCode(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *Handler) usersUpdate(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var input dto.UpdateUserDto
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	user, err := h.services.User.Update(c.Request.Context(), id, input)
	if err != nil {
		c.JSON(service.StatusCode(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *Handler) usersSetAvatar(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	image, err := readImageFile(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}
	if len(image) == 0 {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errMissingImage.Error()))
		return
	}

	user, err := h.services.User.SetAvatar(c.Request.Context(), id, image)
	if err != nil {
		c.JSON(service.StatusCode(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *Handler) usersDelete(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	if err := h.services.User.Delete(c.Request.Context(), id); err != nil {
		c.JSON(service.StatusCode(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, "user has been deleted"))
}

func (h *Handler) usersFollow(c *gin.Context) {
	user := h.getUser(c)

	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	if err := h.services.User.Follow(c.Request.Context(), id, user.ID); err != nil {
		c.JSON(service.StatusCode(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}

func (h *Handler) usersUnfollow(c *gin.Context) {
	user := h.getUser(c)

	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	if err := h.services.User.Unfollow(c.Request.Context(), id, user.ID); err != nil {
		c.JSON(service.StatusCode(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}

func (h *Handler) usersGetFollowers(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var filter dto.UserFilterDto
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	followers, err := h.services.User.GetFollowers(c.Request.Context(), id, filter)
	if err != nil {
		c.JSON(service.StatusCode(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, followers)
}

func (h *Handler) usersGetFollowing(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var filter dto.UserFilterDto
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	following, err := h.services.User.GetFollowing(c.Request.Context(), id, filter)
	if err != nil {
		c.JSON(service.StatusCode(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, following)
}
