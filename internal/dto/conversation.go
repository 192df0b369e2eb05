package dto

import "github.com/google/uuid"

type CreateConversationDto struct {
	Participants []uuid.UUID `json:"participants" binding:"required,min=1"`
	Message      string      `json:"message" binding:"required,max=2000"`
}

type ConversationFilterDto struct {
	PageOptions
	Search string `form:"search"`
}

type CreateMessageDto struct {
	Content        string    `json:"content" binding:"required,max=2000"`
	ConversationID uuid.UUID `json:"conversation_id" binding:"required"`
}

type UpdateMessageDto struct {
	Content string `json:"content" binding:"required,max=2000"`
}
