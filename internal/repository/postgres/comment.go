package postgres

import (
	"context"
	"time"

	"github.com/moises-herrera/social-network-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Comment interface {
	Create(ctx context.Context, comment model.Comment) (*model.Comment, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Comment, error)
	FindByPost(ctx context.Context, postID uuid.UUID) ([]*model.FullComment, error)
	UpdateContent(ctx context.Context, id uuid.UUID, content string) error
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

type commentRepo struct {
	db *pgxpool.Pool
}

func newCommentRepo(db *pgxpool.Pool) Comment {
	return &commentRepo{
		db: db,
	}
}

func (r *commentRepo) Create(ctx context.Context, comment model.Comment) (*model.Comment, error) {
	comment.ID = uuid.New()
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = comment.CreatedAt
	_, err := r.db.Exec(
		ctx,
		"INSERT INTO comments(id, content, user_id, post_id, created_at, updated_at) VALUES($1, $2, $3, $4, $5, $6)",
		comment.ID,
		comment.Content,
		comment.UserID,
		comment.PostID,
		comment.CreatedAt,
		comment.UpdatedAt,
	)
	return &comment, err
}

func (r *commentRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.QueryRow(ctx, `
	SELECT c.id, c.content, c.user_id, c.post_id, c.created_at, c.updated_at
	FROM comments c
	WHERE c.id = $1
	`, id).Scan(
		&comment.ID,
		&comment.Content,
		&comment.UserID,
		&comment.PostID,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &comment, nil
}

func (r *commentRepo) FindByPost(ctx context.Context, postID uuid.UUID) ([]*model.FullComment, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT c.id, c.content, c.user_id, c.post_id, c.created_at, c.updated_at, u.username, u.avatar_url
		FROM comments c
		JOIN users u ON c.user_id = u.id
		WHERE c.post_id = $1
		ORDER BY c.created_at ASC`,
		postID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*model.FullComment
	for rows.Next() {
		var comment model.FullComment
		if err := rows.Scan(
			&comment.ID,
			&comment.Content,
			&comment.UserID,
			&comment.PostID,
			&comment.CreatedAt,
			&comment.UpdatedAt,
			&comment.Author.Username,
			&comment.Author.AvatarURL,
		); err != nil {
			return nil, err
		}

		comment.Author.ID = comment.UserID
		comments = append(comments, &comment)
	}

	return comments, rows.Err()
}

func (r *commentRepo) UpdateContent(ctx context.Context, id uuid.UUID, content string) error {
	tag, err := r.db.Exec(ctx, "UPDATE comments SET content = $1, updated_at = now() WHERE id = $2", content, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

func (r *commentRepo) DeleteByID(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM comments WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}
