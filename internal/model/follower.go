package model

import (
	"time"

	"github.com/google/uuid"
)

type Follower struct {
	UserID     uuid.UUID `json:"user_id"`
	FollowerID uuid.UUID `json:"follower_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// FullFollower is the projection used by followers/following listings.
type FullFollower struct {
	ID                uuid.UUID `json:"id"`
	FirstName         string    `json:"first_name"`
	LastName          string    `json:"last_name"`
	Username          string    `json:"username"`
	AvatarURL         *string   `json:"avatar_url"`
	IsAccountVerified bool      `json:"is_account_verified"`
}
