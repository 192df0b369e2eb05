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

type Article interface {
	Create(ctx context.Context, article model.Article) (*model.Article, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.FullArticle, error)
	FindAll(ctx context.Context, limit int, offset int) ([]*model.FullArticle, error)
	CountAll(ctx context.Context) (int64, error)
	UpdateByID(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	DeleteByID(ctx context.Context, id uuid.UUID) error
	Like(ctx context.Context, articleID uuid.UUID, userID uuid.UUID) error
	Unlike(ctx context.Context, articleID uuid.UUID, userID uuid.UUID) error
	CountLikes(ctx context.Context, articleID uuid.UUID) (int64, error)
}

type articleRepo struct {
	db *pgxpool.Pool
}

func newArticleRepo(db *pgxpool.Pool) Article {
	return &articleRepo{
		db: db,
	}
}

const fullArticleColumns = `
a.id, a.title, a.description, a.image_url, a.user_id, a.created_at, a.updated_at,
(SELECT COUNT(*) FROM article_likes al WHERE al.article_id = a.id) AS likes_count
`

func (r *articleRepo) Create(ctx context.Context, article model.Article) (*model.Article, error) {
	article.ID = uuid.New()
	article.CreatedAt = time.Now()
	article.UpdatedAt = article.CreatedAt
	_, err := r.db.Exec(
		ctx,
		"INSERT INTO articles(id, title, description, image_url, user_id, created_at, updated_at) VALUES($1, $2, $3, $4, $5, $6, $7)",
		article.ID,
		article.Title,
		article.Description,
		article.ImageURL,
		article.UserID,
		article.CreatedAt,
		article.UpdatedAt,
	)
	return &article, err
}

func (r *articleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.FullArticle, error) {
	return scanFullArticle(r.db.QueryRow(ctx, "SELECT "+fullArticleColumns+" FROM articles a WHERE a.id = $1", id))
}

func (r *articleRepo) FindAll(ctx context.Context, limit int, offset int) ([]*model.FullArticle, error) {
	maximumLimit(&limit)

	rows, err := r.db.Query(
		ctx,
		"SELECT "+fullArticleColumns+" FROM articles a ORDER BY a.created_at DESC LIMIT $1 OFFSET $2",
		limit,
		offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []*model.FullArticle
	for rows.Next() {
		article, err := scanFullArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}

	return articles, rows.Err()
}

func (r *articleRepo) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM articles").Scan(&count)
	return count, err
}

func (r *articleRepo) UpdateByID(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	allowedFields := []string{"title", "description", "image_url"}
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

	query := "UPDATE articles SET "
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

func (r *articleRepo) DeleteByID(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM article_likes WHERE article_id = $1", id); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, "DELETE FROM articles WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return tx.Commit(ctx)
}

func (r *articleRepo) Like(ctx context.Context, articleID uuid.UUID, userID uuid.UUID) error {
	_, err := r.db.Exec(
		ctx,
		"INSERT INTO article_likes(article_id, user_id, created_at) VALUES($1, $2, now()) ON CONFLICT DO NOTHING",
		articleID,
		userID,
	)
	return err
}

func (r *articleRepo) Unlike(ctx context.Context, articleID uuid.UUID, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx, "DELETE FROM article_likes WHERE article_id = $1 AND user_id = $2", articleID, userID)
	return err
}

func (r *articleRepo) CountLikes(ctx context.Context, articleID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM article_likes al WHERE al.article_id = $1", articleID).Scan(&count)
	return count, err
}

func scanFullArticle(row interface{ Scan(...interface{}) error }) (*model.FullArticle, error) {
	var article model.FullArticle
	if err := row.Scan(
		&article.ID,
		&article.Title,
		&article.Description,
		&article.ImageURL,
		&article.UserID,
		&article.CreatedAt,
		&article.UpdatedAt,
		&article.LikesCount,
	); err != nil {
		return nil, err
	}

	return &article, nil
}
