package postgres

import (
	"context"
	"strconv"
	"time"

	"github.com/moises-herrera/social-network-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Post interface {
	Create(ctx context.Context, post model.Post) (*model.Post, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error)
	FindFullByID(ctx context.Context, id uuid.UUID, callerID uuid.UUID) (*model.FullPost, error)
	FindFeed(ctx context.Context, callerID uuid.UUID, q model.FeedQuery, limit int, offset int) ([]*model.FullPost, error)
	CountFeed(ctx context.Context, callerID uuid.UUID, q model.FeedQuery) (int64, error)
	UpdateByID(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	DeleteByID(ctx context.Context, id uuid.UUID) error
	Like(ctx context.Context, postID uuid.UUID, userID uuid.UUID) error
	Unlike(ctx context.Context, postID uuid.UUID, userID uuid.UUID) error
	FindLikers(ctx context.Context, postID uuid.UUID, usernameFilter string, limit int, offset int) ([]*model.FullFollower, error)
	CountLikes(ctx context.Context, postID uuid.UUID) (int64, error)
	CountLikersFiltered(ctx context.Context, postID uuid.UUID, usernameFilter string) (int64, error)
}

type postRepo struct {
	db *pgxpool.Pool
}

func newPostRepo(db *pgxpool.Pool) Post {
	return &postRepo{
		db: db,
	}
}

func (r *postRepo) Create(ctx context.Context, post model.Post) (*model.Post, error) {
	post.ID = uuid.New()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	_, err := r.db.Exec(
		ctx,
		`INSERT INTO posts(id, title, topic, description, image_url, user_id, is_anonymous, created_at, updated_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		post.ID,
		post.Title,
		post.Topic,
		post.Description,
		post.ImageURL,
		post.UserID,
		post.IsAnonymous,
		post.CreatedAt,
		post.UpdatedAt,
	)
	return &post, err
}

func (r *postRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	var post model.Post
	if err := r.db.QueryRow(ctx, `
	SELECT p.id, p.title, p.topic, p.description, p.image_url, p.user_id, p.is_anonymous, p.created_at, p.updated_at
	FROM posts p
	WHERE p.id = $1
	`, id).Scan(
		&post.ID,
		&post.Title,
		&post.Topic,
		&post.Description,
		&post.ImageURL,
		&post.UserID,
		&post.IsAnonymous,
		&post.CreatedAt,
		&post.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &post, nil
}

const fullPostColumns = `
p.id, p.title, p.topic, p.description, p.image_url, p.user_id, p.is_anonymous, p.created_at, p.updated_at,
u.username, u.avatar_url,
(SELECT COUNT(*) FROM post_likes pl WHERE pl.post_id = p.id) AS likes_count,
(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comments_count,
EXISTS(SELECT 1 FROM post_likes pl WHERE pl.post_id = p.id AND pl.user_id = $1) AS liked_by_caller
`

// feedCondition builds the WHERE clause for a feed mode. The caller id is
// always $1; the mode argument, when present, is $2.
func feedCondition(q model.FeedQuery) (string, []interface{}) {
	switch q.Mode {
	case model.FeedFollowing:
		return "p.user_id IN (SELECT f.user_id FROM followers f WHERE f.follower_id = $1) AND NOT p.is_anonymous", nil
	case model.FeedByUser:
		return "p.user_id = $2 AND (NOT p.is_anonymous OR p.user_id = $1)", []interface{}{q.UserID}
	case model.FeedSearch:
		return "p.topic ILIKE '%' || $2 || '%' AND p.user_id <> $1", []interface{}{q.Search}
	default: // model.FeedSuggested
		return "p.user_id <> $1", nil
	}
}

func (r *postRepo) FindFeed(ctx context.Context, callerID uuid.UUID, q model.FeedQuery, limit int, offset int) ([]*model.FullPost, error) {
	maximumLimit(&limit)

	condition, args := feedCondition(q)
	args = append([]interface{}{callerID}, args...)
	next := len(args) + 1

	query := `SELECT ` + fullPostColumns + `
	FROM posts p
	JOIN users u ON p.user_id = u.id
	WHERE ` + condition + `
	ORDER BY p.created_at DESC
	LIMIT $` + strconv.Itoa(next) + ` OFFSET $` + strconv.Itoa(next+1)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*model.FullPost
	for rows.Next() {
		post, err := scanFullPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	return posts, rows.Err()
}

func (r *postRepo) CountFeed(ctx context.Context, callerID uuid.UUID, q model.FeedQuery) (int64, error) {
	condition, args := feedCondition(q)
	args = append([]interface{}{callerID}, args...)

	var count int64
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM posts p WHERE "+condition, args...).Scan(&count)
	return count, err
}

func (r *postRepo) FindFullByID(ctx context.Context, id uuid.UUID, callerID uuid.UUID) (*model.FullPost, error) {
	return scanFullPost(r.db.QueryRow(
		ctx,
		"SELECT "+fullPostColumns+" FROM posts p JOIN users u ON p.user_id = u.id WHERE p.id = $2",
		callerID,
		id,
	))
}

func (r *postRepo) UpdateByID(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	allowedFields := []string{"title", "topic", "description", "image_url", "is_anonymous"}
	allowedFieldsSet := make(map[string]struct{}, len(allowedFields))
	for _, field := range allowedFields {
		allowedFieldsSet[field] = struct{}{}
	}

	for field := range updates {
		if _, ok := allowedFieldsSet[field]; !ok {
			delete(updates, field)
		}
	}

	if len(updates) == 0 {
		return nil
	}

	query := "UPDATE posts SET "
	args := []interface{}{}
	i := 1

	for column, value := range updates {
		query += (column + " = $" + strconv.Itoa(i) + ", ")
		args = append(args, value)
		i++
	}

	query += "updated_at = now() WHERE id = $" + strconv.Itoa(i)
	args = append(args, id)

	_, err := r.db.Exec(ctx, query, args...)
	return err
}

// DeleteByID removes the post together with its comments and likes in one
// transaction, so no orphaned rows survive a post deletion.
func (r *postRepo) DeleteByID(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM comments WHERE post_id = $1", id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, "DELETE FROM post_likes WHERE post_id = $1", id); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, "DELETE FROM posts WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return tx.Commit(ctx)
}

// Like is idempotent: the composite primary key plus ON CONFLICT DO NOTHING
// give the likes list set semantics.
func (r *postRepo) Like(ctx context.Context, postID uuid.UUID, userID uuid.UUID) error {
	_, err := r.db.Exec(
		ctx,
		"INSERT INTO post_likes(post_id, user_id, created_at) VALUES($1, $2, now()) ON CONFLICT DO NOTHING",
		postID,
		userID,
	)
	return err
}

func (r *postRepo) Unlike(ctx context.Context, postID uuid.UUID, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx, "DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2", postID, userID)
	return err
}

func (r *postRepo) FindLikers(ctx context.Context, postID uuid.UUID, usernameFilter string, limit int, offset int) ([]*model.FullFollower, error) {
	maximumLimit(&limit)

	rows, err := r.db.Query(
		ctx,
		`SELECT u.id, u.first_name, u.last_name, u.username, u.avatar_url
		FROM post_likes pl
		JOIN users u ON pl.user_id = u.id
		WHERE pl.post_id = $1 AND ($2 = '' OR u.username ILIKE '%' || $2 || '%')
		ORDER BY pl.created_at ASC
		LIMIT $3 OFFSET $4`,
		postID,
		usernameFilter,
		limit,
		offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanFullFollowers(rows)
}

func (r *postRepo) CountLikes(ctx context.Context, postID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM post_likes pl WHERE pl.post_id = $1", postID).Scan(&count)
	return count, err
}

func (r *postRepo) CountLikersFiltered(ctx context.Context, postID uuid.UUID, usernameFilter string) (int64, error) {
	var count int64
	err := r.db.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM post_likes pl JOIN users u ON pl.user_id = u.id
		WHERE pl.post_id = $1 AND ($2 = '' OR u.username ILIKE '%' || $2 || '%')`,
		postID,
		usernameFilter,
	).Scan(&count)
	return count, err
}

func scanFullPost(row interface{ Scan(...interface{}) error }) (*model.FullPost, error) {
	var post model.FullPost
	if err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Topic,
		&post.Description,
		&post.ImageURL,
		&post.UserID,
		&post.IsAnonymous,
		&post.CreatedAt,
		&post.UpdatedAt,
		&post.Author.Username,
		&post.Author.AvatarURL,
		&post.LikesCount,
		&post.CommentsCount,
		&post.LikedByCaller,
	); err != nil {
		return nil, err
	}

	post.Author.ID = post.UserID
	return &post, nil
}
