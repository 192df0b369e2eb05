package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	MinConversationParticipants = 2
	MaxConversationParticipants = 10
)

type Conversation struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Participant is a conversation member as shown to another member.
type Participant struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"full_name"`
	AvatarURL *string   `json:"avatar_url"`
}

// FullConversation is a conversation annotated with its most recent message
// and the participant list excluding the caller.
type FullConversation struct {
	Conversation
	Participants []Participant `json:"participants"`
	LastMessage  *Message      `json:"last_message"`
}
