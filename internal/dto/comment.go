package dto

import "github.com/google/uuid"

type CreateCommentDto struct {
	Content string    `json:"content" binding:"required,max=2000"`
	PostID  uuid.UUID `json:"post_id" binding:"required"`
}

type UpdateCommentDto struct {
	Content string `json:"content" binding:"required,max=2000"`
}
