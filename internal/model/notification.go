package model

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID          uuid.UUID  `json:"id"`
	Note        string     `json:"note"`
	RecipientID uuid.UUID  `json:"recipient_id"`
	SenderID    uuid.UUID  `json:"sender_id"`
	HasRead     bool       `json:"has_read"`
	PostID      *uuid.UUID `json:"post_id"`
	CommentID   *uuid.UUID `json:"comment_id"`
	CreatedAt   time.Time  `json:"created_at"`
}

// FullNotification joins the sender view used by the inbox.
type FullNotification struct {
	Notification
	Sender PostAuthor `json:"sender"`
}
