package handler

import (
	"net/http"
	"os"

	"github.com/moises-herrera/social-network-backend/internal/dto"
	"github.com/moises-herrera/social-network-backend/internal/service"
	"github.com/moises-herrera/social-network-backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (h *Handler) authRegister(c *gin.Context) {
	var input dto.RegisterDto
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	response, err := h.services.Auth.Register(c.Request.Context(), input)
	if err != nil {
		c.JSON(service.StatusCode(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response)
}

func (h *Handler) authLogin(c *gin.Context) {
	var input dto.LoginDto
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	response, err := h.services.Auth.Login(c.Request.Context(), input)
	if err != nil {
		c.JSON(service.StatusCode(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *Handler) authRenew(c *gin.Context) {
	user := h.getUser(c)

	response, err := h.services.Auth.RenewToken(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(service.StatusCode(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *Handler) authChangePassword(c *gin.Context) {
	user := h.getUser(c)

	var input dto.ChangePasswordDto
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	if err := h.services.Auth.ChangePassword(c.Request.Context(), user.ID, input.Password); err != nil {
		c.JSON(service.StatusCode(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, "password has been changed"))
}

func (h *Handler) authSendConfirmationEmail(c *gin.Context) {
	user := h.getUser(c)

	if err := h.services.Auth.SendConfirmationEmail(c.Request.Context(), user.Email); err != nil {
		c.JSON(service.StatusCode(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, "confirmation email has been sent"))
}

type authTokenInput struct {
	Token string `json:"token" binding:"required"`
}

func (h *Handler) authConfirmEmail(c *gin.Context) {
	var input authTokenInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	idString, err := utils.DecodeJWT(input.Token, []byte(os.Getenv("EMAIL_SECRET")))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, utils.ErrInvalidToken.Error()))
		return
	}

	id, err := uuid.Parse(idString)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, utils.ErrInvalidToken.Error()))
		return
	}

	if err := h.services.Auth.VerifyEmail(c.Request.Context(), id); err != nil {
		c.JSON(service.StatusCode(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, "email has been confirmed"))
}

type authSendResetPasswordInput struct {
	Email string `json:"email" binding:"required,email"`
}

func (h *Handler) authSendResetPasswordEmail(c *gin.Context) {
	var input authSendResetPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	if err := h.services.Auth.SendResetPasswordEmail(c.Request.Context(), input.Email); err != nil {
		c.JSON(service.StatusCode(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, "reset password email has been sent"))
}

type authResetPasswordInput struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8,max=48"`
}

func (h *Handler) authResetPassword(c *gin.Context) {
	var input authResetPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	if err := h.services.Auth.ResetPassword(c.Request.Context(), input.Token, input.Password); err != nil {
		c.JSON(service.StatusCode(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, "password has been reset"))
}
