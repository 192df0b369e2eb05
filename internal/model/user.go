package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID              uuid.UUID `json:"id"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"password_hash"`
	AvatarURL       *string   `json:"avatar_url"`
	Role            string    `json:"role"`
	IsEmailVerified bool      `json:"is_email_verified"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// FullUser is a user row annotated with the derived fields the API exposes:
// the followers count and the recomputed "verified account" badge.
type FullUser struct {
	User
	Followers         int64 `json:"followers"`
	IsAccountVerified bool  `json:"is_account_verified"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
