package dto

import "github.com/google/uuid"

type CreateNotificationDto struct {
	Note        string     `json:"note" binding:"required,max=1000"`
	RecipientID uuid.UUID  `json:"recipient_id" binding:"required"`
	PostID      *uuid.UUID `json:"post_id"`
	CommentID   *uuid.UUID `json:"comment_id"`
}

type RabbitMQEmailDto struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	HTMLBody string `json:"html_body"`
}
