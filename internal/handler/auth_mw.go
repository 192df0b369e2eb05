package handler

import (
	"net/http"
	"os"
	"strings"

	"github.com/moises-herrera/social-network-backend/internal/dto"
	"github.com/moises-herrera/social-network-backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// authMiddleware resolves the bearer token to a live user. A token whose
// account has since been deleted is rejected the same way as a bad token.
func (h *Handler) authMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		c.JSON(http.StatusUnauthorized, dto.NewBasicResponse(false, errNotAuthorized.Error()))
		c.Abort()
		return
	}

	accessToken := strings.TrimPrefix(header, "Bearer ")
	if accessToken == "" {
		c.JSON(http.StatusUnauthorized, dto.NewBasicResponse(false, errNotAuthorized.Error()))
		c.Abort()
		return
	}

	idString, err := utils.DecodeJWT(accessToken, []byte(os.Getenv("ACCESS_SECRET")))
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.NewBasicResponse(false, errNotAuthorized.Error()))
		c.Abort()
		return
	}

	id, err := uuid.Parse(idString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.NewBasicResponse(false, errNotAuthorized.Error()))
		c.Abort()
		return
	}

	user, err := h.services.User.FindByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.NewBasicResponse(false, errNotAuthorized.Error()))
		c.Abort()
		return
	}

	c.Set("user", *user)

	c.Next()
}

func (h *Handler) getUser(c *gin.Context) *dto.GetUserDto {
	userReq, _ := c.Get("user")

	user, ok := userReq.(dto.GetUserDto)
	if !ok {
		return nil
	}

	return &user
}
