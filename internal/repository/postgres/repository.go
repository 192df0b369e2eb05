package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

const MAX_LIMIT = 50

type PostgresRepository struct {
	User         User
	Post         Post
	Comment      Comment
	Conversation Conversation
	Message      Message
	Notification Notification
	Article      Article
}

func New(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{
		User:         newUserRepo(db),
		Post:         newPostRepo(db),
		Comment:      newCommentRepo(db),
		Conversation: newConversationRepo(db),
		Message:      newMessageRepo(db),
		Notification: newNotificationRepo(db),
		Article:      newArticleRepo(db),
	}
}

func maximumLimit(l *int) {
	if *l > MAX_LIMIT {
		*l = MAX_LIMIT
	}
}
