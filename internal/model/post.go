package model

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Topic       string    `json:"topic"`
	Description string    `json:"description"`
	ImageURL    *string   `json:"image_url"`
	UserID      uuid.UUID `json:"user_id"`
	IsAnonymous bool      `json:"is_anonymous"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PostAuthor is the author projection joined into feed rows. It is empty
// (zero ID) for anonymous posts when the caller is not the author.
type PostAuthor struct {
	ID                uuid.UUID `json:"id"`
	Username          string    `json:"username"`
	AvatarURL         *string   `json:"avatar_url"`
	IsAccountVerified bool      `json:"is_account_verified"`
}

type FullPost struct {
	Post
	Author        PostAuthor `json:"author"`
	LikesCount    int64      `json:"likes_count"`
	CommentsCount int64      `json:"comments_count"`
	LikedByCaller bool       `json:"liked_by_caller"`
}

type PostLike struct {
	PostID    uuid.UUID `json:"post_id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
