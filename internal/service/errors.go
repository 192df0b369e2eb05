package service

import (
	"errors"
	"net/http"
)

var (
	ErrInternal           = errors.New("internal server error")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("you do not have permissions")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")

	ErrUserNotFound          = errors.New("user not found")
	ErrUserAlreadyExists     = errors.New("an account with that username or email already exists")
	ErrPostNotFound          = errors.New("post not found")
	ErrCommentNotFound       = errors.New("comment not found")
	ErrConversationNotFound  = errors.New("conversation not found")
	ErrMessageNotFound       = errors.New("message not found")
	ErrNotificationNotFound  = errors.New("notification not found")
	ErrArticleNotFound       = errors.New("article not found")
	ErrInvalidParticipants   = errors.New("a conversation must have between 2 and 10 participants")
	ErrSelfFollow            = errors.New("you cannot follow yourself")
	ErrSelfConversation      = errors.New("you cannot start a conversation with only yourself")
)

// StatusCode maps a service error to the HTTP status the handlers reply with.
// Unknown errors map to 500; they are logged at the point of failure and the
// generic message is what leaves the process.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrPostNotFound),
		errors.Is(err, ErrCommentNotFound),
		errors.Is(err, ErrConversationNotFound),
		errors.Is(err, ErrMessageNotFound),
		errors.Is(err, ErrNotificationNotFound),
		errors.Is(err, ErrArticleNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUserAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrInvalidParticipants),
		errors.Is(err, ErrSelfFollow),
		errors.Is(err, ErrSelfConversation),
		errors.Is(err, ErrInvalidResetToken):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
