package model

import "github.com/google/uuid"

// FeedMode is the closed set of mutually exclusive post-listing filters.
type FeedMode string

const (
	FeedFollowing FeedMode = "following"
	FeedSuggested FeedMode = "suggested"
	FeedByUser    FeedMode = "by_user"
	FeedSearch    FeedMode = "search"
)

// FeedQuery selects exactly one feed mode. UserID is the author filter for
// FeedByUser; Search is the topic substring for FeedSearch.
type FeedQuery struct {
	Mode   FeedMode
	UserID uuid.UUID
	Search string
}
