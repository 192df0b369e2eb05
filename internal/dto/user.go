package dto

import (
	"time"

	"github.com/moises-herrera/social-network-backend/internal/model"
	"github.com/google/uuid"
)

type RegisterDto struct {
	FirstName string `json:"first_name" binding:"required,max=50"`
	LastName  string `json:"last_name" binding:"required,max=50"`
	Username  string `json:"username" binding:"required,min=3,max=20"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8,max=48"`
}

type LoginDto struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateUserDto struct {
	FirstName *string `json:"first_name" binding:"omitempty,max=50"`
	LastName  *string `json:"last_name" binding:"omitempty,max=50"`
	Username  *string `json:"username" binding:"omitempty,min=3,max=20"`
	Email     *string `json:"email" binding:"omitempty,email"`
}

type ChangePasswordDto struct {
	Password string `json:"password" binding:"required,min=8,max=48"`
}

// GetUserDto is the sanitized user view; the password hash never leaves the
// service layer.
type GetUserDto struct {
	ID                uuid.UUID `json:"id"`
	FirstName         string    `json:"first_name"`
	LastName          string    `json:"last_name"`
	Username          string    `json:"username"`
	Email             string    `json:"email"`
	AvatarURL         *string   `json:"avatar_url"`
	Role              string    `json:"role"`
	IsEmailVerified   bool      `json:"is_email_verified"`
	IsAccountVerified bool      `json:"is_account_verified"`
	Followers         int64     `json:"followers"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func GetUserDtoFromFullUser(user model.FullUser) GetUserDto {
	return GetUserDto{
		ID:                user.ID,
		FirstName:         user.FirstName,
		LastName:          user.LastName,
		Username:          user.Username,
		Email:             user.Email,
		AvatarURL:         user.AvatarURL,
		Role:              user.Role,
		IsEmailVerified:   user.IsEmailVerified,
		IsAccountVerified: user.IsAccountVerified,
		Followers:         user.Followers,
		CreatedAt:         user.CreatedAt,
		UpdatedAt:         user.UpdatedAt,
	}
}

type UserFilterDto struct {
	PageOptions
	Search string `form:"search"`
}
