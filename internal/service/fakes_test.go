package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/moises-herrera/social-network-backend/internal/model"
	"github.com/moises-herrera/social-network-backend/internal/repository"
	"github.com/moises-herrera/social-network-backend/internal/repository/postgres"
	"github.com/moises-herrera/social-network-backend/internal/repository/redisrepo"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// memStore is a single in-memory backing store shared by the fake repos. The
// fakes mirror the SQL semantics of the real repos: same ordering, same
// filters, same not-found errors.
type memStore struct {
	mu  sync.Mutex
	now time.Time

	users         []*model.User
	follows       []model.Follower
	posts         []*model.Post
	postLikes     []model.PostLike
	comments      []*model.Comment
	conversations []*model.Conversation
	participants  map[uuid.UUID][]uuid.UUID
	messages      []*model.Message
	notifications []*model.Notification
	articles      []*model.Article
	articleLikes  []model.ArticleLike
}

func newMemStore() *memStore {
	return &memStore{
		now:          time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		participants: map[uuid.UUID][]uuid.UUID{},
	}
}

// tick returns a strictly increasing timestamp so created_at ordering is
// deterministic. Callers must hold mu.
func (s *memStore) tick() time.Time {
	s.now = s.now.Add(time.Second)
	return s.now
}

// uuidOf is a fresh id that is guaranteed not to belong to any stored row.
func uuidOf(t *testing.T) uuid.UUID {
	t.Helper()
	return uuid.New()
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func matchesName(u *model.User, filter string) bool {
	return filter == "" || containsFold(u.Username, filter) || containsFold(u.FullName(), filter)
}

func (s *memStore) userByID(id uuid.UUID) *model.User {
	for _, u := range s.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (s *memStore) followersCount(id uuid.UUID) int64 {
	var n int64
	for _, f := range s.follows {
		if f.UserID == id {
			n++
		}
	}
	return n
}

func (s *memStore) fullUser(u *model.User) *model.FullUser {
	return &model.FullUser{User: *u, Followers: s.followersCount(u.ID)}
}

func (s *memStore) sortByMostFollowed(users []*model.FullUser) {
	sort.SliceStable(users, func(i, j int) bool {
		if users[i].Followers != users[j].Followers {
			return users[i].Followers > users[j].Followers
		}
		if !users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].CreatedAt.Before(users[j].CreatedAt)
		}
		return users[i].ID.String() < users[j].ID.String()
	})
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit < len(items) {
		items = items[:limit]
	}
	return items
}

// ---- users ----

type fakeUserRepo struct{ s *memStore }

func (r *fakeUserRepo) Create(_ context.Context, user model.User) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user.ID = uuid.New()
	user.CreatedAt = r.s.tick()
	user.UpdatedAt = user.CreatedAt
	r.s.users = append(r.s.users, &user)
	created := user
	return &created, nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.FullUser, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u := r.s.userByID(id)
	if u == nil {
		return nil, pgx.ErrNoRows
	}
	return r.s.fullUser(u), nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) ExistsWithEmailOrUsername(_ context.Context, email, username string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == email || u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) UpdateByID(_ context.Context, id uuid.UUID, updates map[string]interface{}) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u := r.s.userByID(id)
	if u == nil {
		return nil
	}
	for field, value := range updates {
		switch field {
		case "first_name":
			u.FirstName = value.(string)
		case "last_name":
			u.LastName = value.(string)
		case "username":
			u.Username = value.(string)
		case "email":
			u.Email = value.(string)
		case "password_hash":
			u.PasswordHash = value.(string)
		case "avatar_url":
			url := value.(string)
			u.AvatarURL = &url
		case "is_email_verified":
			u.IsEmailVerified = value.(bool)
		}
	}
	u.UpdatedAt = r.s.tick()
	return nil
}

func (r *fakeUserRepo) DeleteByID(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i, u := range r.s.users {
		if u.ID == id {
			r.s.users = append(r.s.users[:i], r.s.users[i+1:]...)
			break
		}
	}
	kept := r.s.follows[:0]
	for _, f := range r.s.follows {
		if f.UserID != id && f.FollowerID != id {
			kept = append(kept, f)
		}
	}
	r.s.follows = kept
	return nil
}

func (r *fakeUserRepo) Search(_ context.Context, search string, limit, offset int) ([]*model.FullUser, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matched []*model.FullUser
	for _, u := range r.s.users {
		if matchesName(u, search) {
			matched = append(matched, r.s.fullUser(u))
		}
	}
	r.s.sortByMostFollowed(matched)
	return paginate(matched, limit, offset), nil
}

func (r *fakeUserRepo) CountAll(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.users)), nil
}

func (r *fakeUserRepo) CountSearch(_ context.Context, search string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for _, u := range r.s.users {
		if matchesName(u, search) {
			n++
		}
	}
	return n, nil
}

func (r *fakeUserRepo) Follow(_ context.Context, userID, followerID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, f := range r.s.follows {
		if f.UserID == userID && f.FollowerID == followerID {
			return nil
		}
	}
	r.s.follows = append(r.s.follows, model.Follower{UserID: userID, FollowerID: followerID, CreatedAt: r.s.tick()})
	return nil
}

func (r *fakeUserRepo) Unfollow(_ context.Context, userID, followerID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i, f := range r.s.follows {
		if f.UserID == userID && f.FollowerID == followerID {
			r.s.follows = append(r.s.follows[:i], r.s.follows[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeUserRepo) IsFollowing(_ context.Context, userID, followerID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, f := range r.s.follows {
		if f.UserID == userID && f.FollowerID == followerID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) followersOf(id uuid.UUID, following bool) []*model.User {
	var users []*model.User
	for _, f := range r.s.follows {
		var other uuid.UUID
		switch {
		case !following && f.UserID == id:
			other = f.FollowerID
		case following && f.FollowerID == id:
			other = f.UserID
		default:
			continue
		}
		if u := r.s.userByID(other); u != nil {
			users = append(users, u)
		}
	}
	return users
}

func toFullFollowers(users []*model.User, filter string) []*model.FullFollower {
	var out []*model.FullFollower
	for _, u := range users {
		if !matchesName(u, filter) {
			continue
		}
		out = append(out, &model.FullFollower{
			ID:        u.ID,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Username:  u.Username,
			AvatarURL: u.AvatarURL,
		})
	}
	return out
}

func (r *fakeUserRepo) FindFollowers(_ context.Context, id uuid.UUID, nameFilter string, limit, offset int) ([]*model.FullFollower, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return paginate(toFullFollowers(r.followersOf(id, false), nameFilter), limit, offset), nil
}

func (r *fakeUserRepo) CountFollowers(_ context.Context, id uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.followersOf(id, false))), nil
}

func (r *fakeUserRepo) CountFollowersFiltered(_ context.Context, id uuid.UUID, nameFilter string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(toFullFollowers(r.followersOf(id, false), nameFilter))), nil
}

func (r *fakeUserRepo) FindFollowing(_ context.Context, id uuid.UUID, nameFilter string, limit, offset int) ([]*model.FullFollower, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return paginate(toFullFollowers(r.followersOf(id, true), nameFilter), limit, offset), nil
}

func (r *fakeUserRepo) CountFollowing(_ context.Context, id uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.followersOf(id, true))), nil
}

func (r *fakeUserRepo) CountFollowingFiltered(_ context.Context, id uuid.UUID, nameFilter string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(toFullFollowers(r.followersOf(id, true), nameFilter))), nil
}

func (r *fakeUserRepo) FindMostFollowed(_ context.Context) (*model.FullUser, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if len(r.s.users) == 0 {
		return nil, pgx.ErrNoRows
	}
	var all []*model.FullUser
	for _, u := range r.s.users {
		all = append(all, r.s.fullUser(u))
	}
	r.s.sortByMostFollowed(all)
	return all[0], nil
}

// ---- posts ----

type fakePostRepo struct{ s *memStore }

func (r *fakePostRepo) Create(_ context.Context, post model.Post) (*model.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	post.ID = uuid.New()
	post.CreatedAt = r.s.tick()
	post.UpdatedAt = post.CreatedAt
	r.s.posts = append(r.s.posts, &post)
	created := post
	return &created, nil
}

func (r *fakePostRepo) postByID(id uuid.UUID) *model.Post {
	for _, p := range r.s.posts {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (r *fakePostRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p := r.postByID(id)
	if p == nil {
		return nil, pgx.ErrNoRows
	}
	copied := *p
	return &copied, nil
}

func (r *fakePostRepo) fullPost(p *model.Post, callerID uuid.UUID) *model.FullPost {
	full := &model.FullPost{Post: *p}
	if author := r.s.userByID(p.UserID); author != nil {
		full.Author = model.PostAuthor{ID: author.ID, Username: author.Username, AvatarURL: author.AvatarURL}
	}
	for _, l := range r.s.postLikes {
		if l.PostID == p.ID {
			full.LikesCount++
			if l.UserID == callerID {
				full.LikedByCaller = true
			}
		}
	}
	for _, c := range r.s.comments {
		if c.PostID == p.ID {
			full.CommentsCount++
		}
	}
	return full
}

func (r *fakePostRepo) FindFullByID(_ context.Context, id, callerID uuid.UUID) (*model.FullPost, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p := r.postByID(id)
	if p == nil {
		return nil, pgx.ErrNoRows
	}
	return r.fullPost(p, callerID), nil
}

func (r *fakePostRepo) inFeed(p *model.Post, callerID uuid.UUID, q model.FeedQuery) bool {
	switch q.Mode {
	case model.FeedFollowing:
		if p.IsAnonymous {
			return false
		}
		for _, f := range r.s.follows {
			if f.FollowerID == callerID && f.UserID == p.UserID {
				return true
			}
		}
		return false
	case model.FeedByUser:
		return p.UserID == q.UserID && (!p.IsAnonymous || p.UserID == callerID)
	case model.FeedSearch:
		return containsFold(p.Topic, q.Search) && p.UserID != callerID
	default:
		return p.UserID != callerID
	}
}

func (r *fakePostRepo) FindFeed(_ context.Context, callerID uuid.UUID, q model.FeedQuery, limit, offset int) ([]*model.FullPost, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matched []*model.FullPost
	for _, p := range r.s.posts {
		if r.inFeed(p, callerID, q) {
			matched = append(matched, r.fullPost(p, callerID))
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return paginate(matched, limit, offset), nil
}

func (r *fakePostRepo) CountFeed(_ context.Context, callerID uuid.UUID, q model.FeedQuery) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for _, p := range r.s.posts {
		if r.inFeed(p, callerID, q) {
			n++
		}
	}
	return n, nil
}

func (r *fakePostRepo) UpdateByID(_ context.Context, id uuid.UUID, updates map[string]interface{}) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p := r.postByID(id)
	if p == nil {
		return nil
	}
	for field, value := range updates {
		switch field {
		case "title":
			p.Title = value.(string)
		case "topic":
			p.Topic = value.(string)
		case "description":
			p.Description = value.(string)
		case "image_url":
			url := value.(string)
			p.ImageURL = &url
		case "is_anonymous":
			p.IsAnonymous = value.(bool)
		}
	}
	p.UpdatedAt = r.s.tick()
	return nil
}

func (r *fakePostRepo) DeleteByID(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	found := false
	for i, p := range r.s.posts {
		if p.ID == id {
			r.s.posts = append(r.s.posts[:i], r.s.posts[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return pgx.ErrNoRows
	}
	comments := r.s.comments[:0]
	for _, c := range r.s.comments {
		if c.PostID != id {
			comments = append(comments, c)
		}
	}
	r.s.comments = comments
	likes := r.s.postLikes[:0]
	for _, l := range r.s.postLikes {
		if l.PostID != id {
			likes = append(likes, l)
		}
	}
	r.s.postLikes = likes
	return nil
}

func (r *fakePostRepo) Like(_ context.Context, postID, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, l := range r.s.postLikes {
		if l.PostID == postID && l.UserID == userID {
			return nil
		}
	}
	r.s.postLikes = append(r.s.postLikes, model.PostLike{PostID: postID, UserID: userID, CreatedAt: r.s.tick()})
	return nil
}

func (r *fakePostRepo) Unlike(_ context.Context, postID, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i, l := range r.s.postLikes {
		if l.PostID == postID && l.UserID == userID {
			r.s.postLikes = append(r.s.postLikes[:i], r.s.postLikes[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakePostRepo) likers(postID uuid.UUID, filter string) []*model.FullFollower {
	var users []*model.User
	for _, l := range r.s.postLikes {
		if l.PostID == postID {
			if u := r.s.userByID(l.UserID); u != nil {
				users = append(users, u)
			}
		}
	}
	return toFullFollowers(users, filter)
}

func (r *fakePostRepo) FindLikers(_ context.Context, postID uuid.UUID, usernameFilter string, limit, offset int) ([]*model.FullFollower, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return paginate(r.likers(postID, usernameFilter), limit, offset), nil
}

func (r *fakePostRepo) CountLikes(_ context.Context, postID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for _, l := range r.s.postLikes {
		if l.PostID == postID {
			n++
		}
	}
	return n, nil
}

func (r *fakePostRepo) CountLikersFiltered(_ context.Context, postID uuid.UUID, usernameFilter string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.likers(postID, usernameFilter))), nil
}

// ---- comments ----

type fakeCommentRepo struct{ s *memStore }

func (r *fakeCommentRepo) Create(_ context.Context, comment model.Comment) (*model.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	comment.ID = uuid.New()
	comment.CreatedAt = r.s.tick()
	comment.UpdatedAt = comment.CreatedAt
	r.s.comments = append(r.s.comments, &comment)
	created := comment
	return &created, nil
}

func (r *fakeCommentRepo) commentByID(id uuid.UUID) *model.Comment {
	for _, c := range r.s.comments {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (r *fakeCommentRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c := r.commentByID(id)
	if c == nil {
		return nil, pgx.ErrNoRows
	}
	copied := *c
	return &copied, nil
}

func (r *fakeCommentRepo) FindByPost(_ context.Context, postID uuid.UUID) ([]*model.FullComment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*model.FullComment
	for _, c := range r.s.comments {
		if c.PostID != postID {
			continue
		}
		full := &model.FullComment{Comment: *c}
		if author := r.s.userByID(c.UserID); author != nil {
			full.Author = model.PostAuthor{ID: author.ID, Username: author.Username, AvatarURL: author.AvatarURL}
		}
		out = append(out, full)
	}
	return out, nil
}

func (r *fakeCommentRepo) UpdateContent(_ context.Context, id uuid.UUID, content string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if c := r.commentByID(id); c != nil {
		c.Content = content
		c.UpdatedAt = r.s.tick()
	}
	return nil
}

func (r *fakeCommentRepo) DeleteByID(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i, c := range r.s.comments {
		if c.ID == id {
			r.s.comments = append(r.s.comments[:i], r.s.comments[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

// ---- conversations ----

type fakeConversationRepo struct{ s *memStore }

func (r *fakeConversationRepo) CreateWithMessage(_ context.Context, participants []uuid.UUID, message model.Message) (*model.Conversation, *model.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	conversation := &model.Conversation{ID: uuid.New(), CreatedAt: r.s.tick()}
	conversation.UpdatedAt = conversation.CreatedAt
	r.s.conversations = append(r.s.conversations, conversation)
	r.s.participants[conversation.ID] = append([]uuid.UUID{}, participants...)

	message.ID = uuid.New()
	message.ConversationID = conversation.ID
	message.CreatedAt = r.s.tick()
	message.UpdatedAt = message.CreatedAt
	message.DeliveredAt = &message.CreatedAt
	r.s.messages = append(r.s.messages, &message)

	conversationCopy := *conversation
	messageCopy := message
	return &conversationCopy, &messageCopy, nil
}

func (r *fakeConversationRepo) conversationByID(id uuid.UUID) *model.Conversation {
	for _, c := range r.s.conversations {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (r *fakeConversationRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Conversation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c := r.conversationByID(id)
	if c == nil {
		return nil, pgx.ErrNoRows
	}
	copied := *c
	return &copied, nil
}

func (r *fakeConversationRepo) forUser(userID uuid.UUID, nameFilter string) []*model.Conversation {
	var out []*model.Conversation
	for _, c := range r.s.conversations {
		isMember := false
		matches := nameFilter == ""
		for _, pid := range r.s.participants[c.ID] {
			if pid == userID {
				isMember = true
				continue
			}
			if u := r.s.userByID(pid); u != nil && nameFilter != "" && containsFold(u.FullName(), nameFilter) {
				matches = true
			}
		}
		if isMember && matches {
			out = append(out, c)
		}
	}
	return out
}

func (r *fakeConversationRepo) FindForUser(_ context.Context, userID uuid.UUID, nameFilter string, limit, offset int) ([]*model.FullConversation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	conversations := r.forUser(userID, nameFilter)
	sort.SliceStable(conversations, func(i, j int) bool {
		return conversations[i].UpdatedAt.After(conversations[j].UpdatedAt)
	})
	conversations = paginate(conversations, limit, offset)

	var out []*model.FullConversation
	for _, c := range conversations {
		full := &model.FullConversation{Conversation: *c}
		for _, m := range r.s.messages {
			if m.ConversationID == c.ID && (full.LastMessage == nil || m.CreatedAt.After(full.LastMessage.CreatedAt)) {
				copied := *m
				full.LastMessage = &copied
			}
		}
		for _, pid := range r.s.participants[c.ID] {
			if pid == userID {
				continue
			}
			if u := r.s.userByID(pid); u != nil {
				full.Participants = append(full.Participants, model.Participant{ID: u.ID, FullName: u.FullName(), AvatarURL: u.AvatarURL})
			}
		}
		out = append(out, full)
	}
	return out, nil
}

func (r *fakeConversationRepo) CountForUser(_ context.Context, userID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.forUser(userID, ""))), nil
}

func (r *fakeConversationRepo) CountForUserFiltered(_ context.Context, userID uuid.UUID, nameFilter string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.forUser(userID, nameFilter))), nil
}

func (r *fakeConversationRepo) HasParticipant(_ context.Context, conversationID, userID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, pid := range r.s.participants[conversationID] {
		if pid == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeConversationRepo) ParticipantIDs(_ context.Context, conversationID uuid.UUID) ([]uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]uuid.UUID{}, r.s.participants[conversationID]...), nil
}

func (r *fakeConversationRepo) DeleteByID(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	found := false
	for i, c := range r.s.conversations {
		if c.ID == id {
			r.s.conversations = append(r.s.conversations[:i], r.s.conversations[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return pgx.ErrNoRows
	}
	delete(r.s.participants, id)
	messages := r.s.messages[:0]
	for _, m := range r.s.messages {
		if m.ConversationID != id {
			messages = append(messages, m)
		}
	}
	r.s.messages = messages
	return nil
}

// ---- messages ----

type fakeMessageRepo struct{ s *memStore }

func (r *fakeMessageRepo) Create(_ context.Context, message model.Message) (*model.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	message.ID = uuid.New()
	message.CreatedAt = r.s.tick()
	message.UpdatedAt = message.CreatedAt
	message.DeliveredAt = &message.CreatedAt
	r.s.messages = append(r.s.messages, &message)

	for _, c := range r.s.conversations {
		if c.ID == message.ConversationID {
			c.UpdatedAt = message.CreatedAt
		}
	}
	created := message
	return &created, nil
}

func (r *fakeMessageRepo) messageByID(id uuid.UUID) *model.Message {
	for _, m := range r.s.messages {
		if m.ID == id {
			return m
		}
	}
	return nil
}

func (r *fakeMessageRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m := r.messageByID(id)
	if m == nil {
		return nil, pgx.ErrNoRows
	}
	copied := *m
	return &copied, nil
}

func (r *fakeMessageRepo) FindByConversation(_ context.Context, conversationID uuid.UUID, limit, offset int) ([]*model.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matched []*model.Message
	for _, m := range r.s.messages {
		if m.ConversationID == conversationID {
			copied := *m
			matched = append(matched, &copied)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return paginate(matched, limit, offset), nil
}

func (r *fakeMessageRepo) CountByConversation(_ context.Context, conversationID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for _, m := range r.s.messages {
		if m.ConversationID == conversationID {
			n++
		}
	}
	return n, nil
}

func (r *fakeMessageRepo) UpdateContent(_ context.Context, id uuid.UUID, content string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if m := r.messageByID(id); m != nil {
		m.Content = content
		m.UpdatedAt = r.s.tick()
	}
	return nil
}

func (r *fakeMessageRepo) MarkRead(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if m := r.messageByID(id); m != nil && m.ReadAt == nil {
		at := r.s.tick()
		m.ReadAt = &at
	}
	return nil
}

func (r *fakeMessageRepo) DeleteByID(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i, m := range r.s.messages {
		if m.ID == id {
			r.s.messages = append(r.s.messages[:i], r.s.messages[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

// ---- notifications ----

type fakeNotificationRepo struct{ s *memStore }

func (r *fakeNotificationRepo) Create(_ context.Context, notification model.Notification) (*model.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	notification.ID = uuid.New()
	notification.CreatedAt = r.s.tick()
	r.s.notifications = append(r.s.notifications, &notification)
	created := notification
	return &created, nil
}

func (r *fakeNotificationRepo) notificationByID(id uuid.UUID) *model.Notification {
	for _, n := range r.s.notifications {
		if n.ID == id {
			return n
		}
	}
	return nil
}

func (r *fakeNotificationRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n := r.notificationByID(id)
	if n == nil {
		return nil, pgx.ErrNoRows
	}
	copied := *n
	return &copied, nil
}

func (r *fakeNotificationRepo) FindForUser(_ context.Context, recipientID uuid.UUID, limit, offset int) ([]*model.FullNotification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matched []*model.FullNotification
	for _, n := range r.s.notifications {
		if n.RecipientID != recipientID {
			continue
		}
		full := &model.FullNotification{Notification: *n}
		if sender := r.s.userByID(n.SenderID); sender != nil {
			full.Sender = model.PostAuthor{ID: sender.ID, Username: sender.Username, AvatarURL: sender.AvatarURL}
		}
		matched = append(matched, full)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return paginate(matched, limit, offset), nil
}

func (r *fakeNotificationRepo) CountForUser(_ context.Context, recipientID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for _, notification := range r.s.notifications {
		if notification.RecipientID == recipientID {
			n++
		}
	}
	return n, nil
}

func (r *fakeNotificationRepo) CountUnread(_ context.Context, recipientID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for _, notification := range r.s.notifications {
		if notification.RecipientID == recipientID && !notification.HasRead {
			n++
		}
	}
	return n, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if n := r.notificationByID(id); n != nil {
		n.HasRead = true
	}
	return nil
}

func (r *fakeNotificationRepo) DeleteByID(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i, n := range r.s.notifications {
		if n.ID == id {
			r.s.notifications = append(r.s.notifications[:i], r.s.notifications[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

// ---- articles ----

type fakeArticleRepo struct{ s *memStore }

func (r *fakeArticleRepo) Create(_ context.Context, article model.Article) (*model.Article, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	article.ID = uuid.New()
	article.CreatedAt = r.s.tick()
	article.UpdatedAt = article.CreatedAt
	r.s.articles = append(r.s.articles, &article)
	created := article
	return &created, nil
}

func (r *fakeArticleRepo) articleByID(id uuid.UUID) *model.Article {
	for _, a := range r.s.articles {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func (r *fakeArticleRepo) fullArticle(a *model.Article) *model.FullArticle {
	full := &model.FullArticle{Article: *a}
	for _, l := range r.s.articleLikes {
		if l.ArticleID == a.ID {
			full.LikesCount++
		}
	}
	return full
}

func (r *fakeArticleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.FullArticle, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a := r.articleByID(id)
	if a == nil {
		return nil, pgx.ErrNoRows
	}
	return r.fullArticle(a), nil
}

func (r *fakeArticleRepo) FindAll(_ context.Context, limit, offset int) ([]*model.FullArticle, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var all []*model.FullArticle
	for _, a := range r.s.articles {
		all = append(all, r.fullArticle(a))
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return paginate(all, limit, offset), nil
}

func (r *fakeArticleRepo) CountAll(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.articles)), nil
}

func (r *fakeArticleRepo) UpdateByID(_ context.Context, id uuid.UUID, updates map[string]interface{}) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a := r.articleByID(id)
	if a == nil {
		return nil
	}
	for field, value := range updates {
		switch field {
		case "title":
			a.Title = value.(string)
		case "description":
			a.Description = value.(string)
		case "image_url":
			url := value.(string)
			a.ImageURL = &url
		}
	}
	a.UpdatedAt = r.s.tick()
	return nil
}

func (r *fakeArticleRepo) DeleteByID(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	found := false
	for i, a := range r.s.articles {
		if a.ID == id {
			r.s.articles = append(r.s.articles[:i], r.s.articles[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return pgx.ErrNoRows
	}
	likes := r.s.articleLikes[:0]
	for _, l := range r.s.articleLikes {
		if l.ArticleID != id {
			likes = append(likes, l)
		}
	}
	r.s.articleLikes = likes
	return nil
}

func (r *fakeArticleRepo) Like(_ context.Context, articleID, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, l := range r.s.articleLikes {
		if l.ArticleID == articleID && l.UserID == userID {
			return nil
		}
	}
	r.s.articleLikes = append(r.s.articleLikes, model.ArticleLike{ArticleID: articleID, UserID: userID, CreatedAt: r.s.tick()})
	return nil
}

func (r *fakeArticleRepo) Unlike(_ context.Context, articleID, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i, l := range r.s.articleLikes {
		if l.ArticleID == articleID && l.UserID == userID {
			r.s.articleLikes = append(r.s.articleLikes[:i], r.s.articleLikes[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeArticleRepo) CountLikes(_ context.Context, articleID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for _, l := range r.s.articleLikes {
		if l.ArticleID == articleID {
			n++
		}
	}
	return n, nil
}

// ---- collaborators ----

type fakeCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string]string{}}
}

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = fmt.Sprint(value)
	return nil
}

func (c *fakeCache) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = string(encoded)
	return nil
}

func (c *fakeCache) Get(_ context.Context, key string) *redis.StringCmd {
	c.mu.Lock()
	defer c.mu.Unlock()
	if value, ok := c.data[key]; ok {
		return redis.NewStringResult(value, nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func (c *fakeCache) Del(_ context.Context, keys ...string) *redis.IntCmd {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	for _, key := range keys {
		if _, ok := c.data[key]; ok {
			delete(c.data, key)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

type publishedEmail struct {
	Queue string
	Body  []byte
}

type fakePublisher struct {
	mu        sync.Mutex
	published []publishedEmail
}

func (p *fakePublisher) Publish(queue string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, publishedEmail{Queue: queue, Body: body})
	return nil
}

type pushedEvent struct {
	TargetUserID string
	Event        string
}

type fakePush struct {
	mu     sync.Mutex
	events []pushedEvent
}

func (p *fakePush) Publish(_ context.Context, targetUserID, event string, _ map[string]string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, pushedEvent{TargetUserID: targetUserID, Event: event})
	return nil
}

func (p *fakePush) eventsFor(targetUserID string) []pushedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []pushedEvent
	for _, e := range p.events {
		if e.TargetUserID == targetUserID {
			out = append(out, e)
		}
	}
	return out
}

type fakeImages struct {
	mu        sync.Mutex
	uploadErr error
	uploads   int
	deleted   []string
}

func (f *fakeImages) Upload(_ context.Context, folder string, _ []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	f.uploads++
	return fmt.Sprintf("https://images.test/%s/%d.webp", folder, f.uploads), nil
}

func (f *fakeImages) Delete(_ context.Context, _ string, imageURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, imageURL)
	return nil
}

// ---- wiring ----

type testEnv struct {
	store    *memStore
	cache    *fakeCache
	mq       *fakePublisher
	push     *fakePush
	images   *fakeImages
	services *Service
}

func newTestEnv() *testEnv {
	store := newMemStore()
	cache := newFakeCache()
	mq := &fakePublisher{}
	pushSender := &fakePush{}
	images := &fakeImages{}

	repo := &repository.Repository{
		Postgres: &postgres.PostgresRepository{
			User:         &fakeUserRepo{s: store},
			Post:         &fakePostRepo{s: store},
			Comment:      &fakeCommentRepo{s: store},
			Conversation: &fakeConversationRepo{s: store},
			Message:      &fakeMessageRepo{s: store},
			Notification: &fakeNotificationRepo{s: store},
			Article:      &fakeArticleRepo{s: store},
		},
		Redis: &redisrepo.RedisRepository{Default: cache},
	}

	return &testEnv{
		store:    store,
		cache:    cache,
		mq:       mq,
		push:     pushSender,
		images:   images,
		services: New(zap.NewNop(), repo, mq, pushSender, images),
	}
}

// seedUser inserts a user directly into the store, skipping registration.
func (e *testEnv) seedUser(username string) *model.User {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()

	user := &model.User{
		ID:        uuid.New(),
		FirstName: strings.ToUpper(username[:1]) + username[1:],
		LastName:  "Test",
		Username:  username,
		Email:     username + "@example.com",
		Role:      model.RoleUser,
		CreatedAt: e.store.tick(),
	}
	user.UpdatedAt = user.CreatedAt
	e.store.users = append(e.store.users, user)
	return user
}

func (e *testEnv) seedPost(author uuid.UUID, topic string, anonymous bool) *model.Post {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()

	post := &model.Post{
		ID:          uuid.New(),
		Title:       "post about " + topic,
		Topic:       topic,
		Description: "some thoughts on " + topic,
		UserID:      author,
		IsAnonymous: anonymous,
		CreatedAt:   e.store.tick(),
	}
	post.UpdatedAt = post.CreatedAt
	e.store.posts = append(e.store.posts, post)
	return post
}
