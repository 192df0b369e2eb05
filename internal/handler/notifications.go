package handler

import (
	"net/http"

	"github.com/moises-herrera/social-network-backend/internal/dto"
	"github.com/moises-herrera/social-network-backend/internal/service"
	"github.com/gin-gonic/gin"
)

func (h *Handler) notificationsFindAll(c *gin.Context) {
	user := h.getUser(c)

	var page dto.PageOptions
	if err := c.ShouldBindQuery(&page); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	notifications, err := h.services.Notification.FindAll(c.Request.Context(), user.ID, page)
	if err != nil {
		c.JSON(service.StatusCode(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, notifications)
}

func (h *Handler) notificationsUnreadCount(c *gin.Context) {
	user := h.getUser(c)

	count, err := h.services.Notification.CountUnread(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(service.StatusCode(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *Handler) notificationsMarkRead(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	if err := h.services.Notification.MarkRead(c.Request.Context(), id); err != nil {
		c.JSON(service.StatusCode(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}

func (h *Handler) notificationsDelete(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	if err := h.services.Notification.Delete(c.Request.Context(), id); err != nil {
		c.JSON(service.StatusCode(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, "notification has been deleted"))
}
