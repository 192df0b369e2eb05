package service

import (
	"context"
	"testing"
	"time"

	"github.com/moises-herrera/social-network-backend/internal/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("opens with the first message and lists the other members", func(t *testing.T) {
		env := newTestEnv()
		alice := env.seedUser("alice")
		bob := env.seedUser("bob")

		conversation, err := env.services.Conversation.Create(ctx, alice.ID, dto.CreateConversationDto{
			Participants: []uuid.UUID{bob.ID},
			Message:      "hey there",
		})
		require.NoError(t, err)

		require.NotNil(t, conversation.LastMessage)
		assert.Equal(t, "hey there", conversation.LastMessage.Content)
		assert.Equal(t, alice.ID, conversation.LastMessage.SenderID)

		require.Len(t, conversation.Participants, 1)
		assert.Equal(t, bob.ID, conversation.Participants[0].ID)
		assert.Equal(t, bob.FirstName+" "+bob.LastName, conversation.Participants[0].FullName)
	})

	t.Run("rejects a conversation with only the initiator", func(t *testing.T) {
		env := newTestEnv()
		alice := env.seedUser("alice")

		_, err := env.services.Conversation.Create(ctx, alice.ID, dto.CreateConversationDto{
			Participants: []uuid.UUID{alice.ID},
			Message:      "talking to myself",
		})
		assert.ErrorIs(t, err, ErrSelfConversation)
	})

	t.Run("rejects oversized participant sets", func(t *testing.T) {
		env := newTestEnv()
		alice := env.seedUser("alice")

		ids := make([]uuid.UUID, 10)
		for i := range ids {
			ids[i] = uuid.New()
		}

		_, err := env.services.Conversation.Create(ctx, alice.ID, dto.CreateConversationDto{
			Participants: ids,
			Message:      "everyone at once",
		})
		assert.ErrorIs(t, err, ErrInvalidParticipants)
	})

	t.Run("every participant must exist", func(t *testing.T) {
		env := newTestEnv()
		alice := env.seedUser("alice")

		_, err := env.services.Conversation.Create(ctx, alice.ID, dto.CreateConversationDto{
			Participants: []uuid.UUID{uuidOf(t)},
			Message:      "hello?",
		})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("duplicate ids collapse to one membership", func(t *testing.T) {
		env := newTestEnv()
		alice := env.seedUser("alice")
		bob := env.seedUser("bob")

		conversation, err := env.services.Conversation.Create(ctx, alice.ID, dto.CreateConversationDto{
			Participants: []uuid.UUID{bob.ID, bob.ID, alice.ID},
			Message:      "just us",
		})
		require.NoError(t, err)
		assert.Len(t, conversation.Participants, 1)
	})

	t.Run("pushes the event to everyone but the initiator", func(t *testing.T) {
		env := newTestEnv()
		alice := env.seedUser("alice")
		bob := env.seedUser("bob")
		carol := env.seedUser("carol")

		_, err := env.services.Conversation.Create(ctx, alice.ID, dto.CreateConversationDto{
			Participants: []uuid.UUID{bob.ID, carol.ID},
			Message:      "group chat",
		})
		require.NoError(t, err)

		// Fan-out is asynchronous.
		require.Eventually(t, func() bool {
			return len(env.push.eventsFor(bob.ID.String())) == 1 &&
				len(env.push.eventsFor(carol.ID.String())) == 1
		}, time.Second, 10*time.Millisecond)

		assert.Equal(t, "new_conversation", env.push.eventsFor(bob.ID.String())[0].Event)
		assert.Empty(t, env.push.eventsFor(alice.ID.String()))
	})
}

func TestConversationListing(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	alice := env.seedUser("alice")
	bob := env.seedUser("bob")
	carol := env.seedUser("carol")

	_, err := env.services.Conversation.Create(ctx, alice.ID, dto.CreateConversationDto{
		Participants: []uuid.UUID{bob.ID},
		Message:      "hi bob",
	})
	require.NoError(t, err)
	_, err = env.services.Conversation.Create(ctx, alice.ID, dto.CreateConversationDto{
		Participants: []uuid.UUID{carol.ID},
		Message:      "hi carol",
	})
	require.NoError(t, err)

	all, err := env.services.Conversation.FindAll(ctx, alice.ID, dto.ConversationFilterDto{})
	require.NoError(t, err)
	assert.Len(t, all.Data, 2)
	assert.EqualValues(t, 2, all.Total)

	// Search matches against the other participants' names, not the caller's.
	filtered, err := env.services.Conversation.FindAll(ctx, alice.ID, dto.ConversationFilterDto{Search: "carol"})
	require.NoError(t, err)
	require.Len(t, filtered.Data, 1)
	assert.EqualValues(t, 1, filtered.ResultsCount)
	assert.EqualValues(t, 2, filtered.Total)
	require.Len(t, filtered.Data[0].Participants, 1)
	assert.Equal(t, carol.ID, filtered.Data[0].Participants[0].ID)

	// Bob only sees the conversation he is part of.
	bobs, err := env.services.Conversation.FindAll(ctx, bob.ID, dto.ConversationFilterDto{})
	require.NoError(t, err)
	assert.Len(t, bobs.Data, 1)
}

func TestConversationMessages(t *testing.T) {
	ctx := context.Background()

	t.Run("sending appends and pushes to the other members", func(t *testing.T) {
		env := newTestEnv()
		alice := env.seedUser("alice")
		bob := env.seedUser("bob")

		conversation, err := env.services.Conversation.Create(ctx, alice.ID, dto.CreateConversationDto{
			Participants: []uuid.UUID{bob.ID},
			Message:      "opening line",
		})
		require.NoError(t, err)

		reply, err := env.services.Conversation.CreateMessage(ctx, bob.ID, dto.CreateMessageDto{
			Content:        "reply",
			ConversationID: conversation.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, bob.ID, reply.SenderID)
		assert.NotNil(t, reply.DeliveredAt)

		messages, err := env.services.Conversation.FindMessages(ctx, conversation.ID, dto.PageOptions{})
		require.NoError(t, err)
		require.Len(t, messages.Data, 2)
		assert.EqualValues(t, 2, messages.Total)

		require.Eventually(t, func() bool {
			for _, e := range env.push.eventsFor(alice.ID.String()) {
				if e.Event == "new_message" {
					return true
				}
			}
			return false
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("sending into a missing conversation is not found", func(t *testing.T) {
		env := newTestEnv()
		alice := env.seedUser("alice")

		_, err := env.services.Conversation.CreateMessage(ctx, alice.ID, dto.CreateMessageDto{
			Content:        "lost",
			ConversationID: uuidOf(t),
		})
		assert.ErrorIs(t, err, ErrConversationNotFound)
	})

	t.Run("read receipts and edits", func(t *testing.T) {
		env := newTestEnv()
		alice := env.seedUser("alice")
		bob := env.seedUser("bob")

		conversation, err := env.services.Conversation.Create(ctx, alice.ID, dto.CreateConversationDto{
			Participants: []uuid.UUID{bob.ID},
			Message:      "unread",
		})
		require.NoError(t, err)
		messageID := conversation.LastMessage.ID
		assert.NotNil(t, conversation.LastMessage.DeliveredAt)

		require.NoError(t, env.services.Conversation.MarkMessageRead(ctx, messageID))

		message, err := env.services.Conversation.FindMessage(ctx, messageID)
		require.NoError(t, err)
		assert.NotNil(t, message.ReadAt)

		edited, err := env.services.Conversation.UpdateMessage(ctx, messageID, "edited")
		require.NoError(t, err)
		assert.Equal(t, "edited", edited.Content)

		require.NoError(t, env.services.Conversation.DeleteMessage(ctx, messageID))
		_, err = env.services.Conversation.FindMessage(ctx, messageID)
		assert.ErrorIs(t, err, ErrMessageNotFound)
	})

	t.Run("deleting the conversation removes its messages", func(t *testing.T) {
		env := newTestEnv()
		alice := env.seedUser("alice")
		bob := env.seedUser("bob")

		conversation, err := env.services.Conversation.Create(ctx, alice.ID, dto.CreateConversationDto{
			Participants: []uuid.UUID{bob.ID},
			Message:      "short lived",
		})
		require.NoError(t, err)

		require.NoError(t, env.services.Conversation.Delete(ctx, conversation.ID))

		_, err = env.services.Conversation.FindMessages(ctx, conversation.ID, dto.PageOptions{})
		assert.ErrorIs(t, err, ErrConversationNotFound)

		env.store.mu.Lock()
		defer env.store.mu.Unlock()
		assert.Empty(t, env.store.messages)
	})
}

func TestConversationMembership(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	alice := env.seedUser("alice")
	bob := env.seedUser("bob")
	outsider := env.seedUser("outsider")

	conversation, err := env.services.Conversation.Create(ctx, alice.ID, dto.CreateConversationDto{
		Participants: []uuid.UUID{bob.ID},
		Message:      "members only",
	})
	require.NoError(t, err)

	ok, err := env.services.Conversation.HasParticipant(ctx, conversation.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = env.services.Conversation.HasParticipant(ctx, conversation.ID, outsider.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = env.services.Conversation.HasParticipant(ctx, uuidOf(t), bob.ID)
	assert.ErrorIs(t, err, ErrConversationNotFound)
}
