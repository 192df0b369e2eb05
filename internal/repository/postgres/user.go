package postgres

import (
	"context"
	"strconv"
	"time"

	"github.com/moises-herrera/social-network-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type User interface {
	Create(ctx context.Context, user model.User) (*model.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.FullUser, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsWithEmailOrUsername(ctx context.Context, email string, username string) (bool, error)
	UpdateByID(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	DeleteByID(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, search string, limit int, offset int) ([]*model.FullUser, error)
	CountAll(ctx context.Context) (int64, error)
	CountSearch(ctx context.Context, search string) (int64, error)
	Follow(ctx context.Context, userID uuid.UUID, followerID uuid.UUID) error
	Unfollow(ctx context.Context, userID uuid.UUID, followerID uuid.UUID) error
	IsFollowing(ctx context.Context, userID uuid.UUID, followerID uuid.UUID) (bool, error)
	FindFollowers(ctx context.Context, id uuid.UUID, nameFilter string, limit int, offset int) ([]*model.FullFollower, error)
	CountFollowers(ctx context.Context, id uuid.UUID) (int64, error)
	CountFollowersFiltered(ctx context.Context, id uuid.UUID, nameFilter string) (int64, error)
	FindFollowing(ctx context.Context, id uuid.UUID, nameFilter string, limit int, offset int) ([]*model.FullFollower, error)
	CountFollowing(ctx context.Context, id uuid.UUID) (int64, error)
	CountFollowingFiltered(ctx context.Context, id uuid.UUID, nameFilter string) (int64, error)
	FindMostFollowed(ctx context.Context) (*model.FullUser, error)
}

type userRepo struct {
	db *pgxpool.Pool
}

func newUserRepo(db *pgxpool.Pool) User {
	return &userRepo{
		db: db,
	}
}

const fullUserColumns = `
u.id, u.first_name, u.last_name, u.username, u.email, u.password_hash, u.avatar_url,
u.role, u.is_email_verified, u.created_at, u.updated_at,
(SELECT COUNT(*) FROM followers f WHERE f.user_id = u.id) AS followers
`

func scanFullUser(row interface{ Scan(...interface{}) error }) (*model.FullUser, error) {
	var user model.FullUser
	if err := row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.AvatarURL,
		&user.Role,
		&user.IsEmailVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.Followers,
	); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepo) Create(ctx context.Context, user model.User) (*model.User, error) {
	user.ID = uuid.New()
	user.Role = model.RoleUser
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	_, err := r.db.Exec(
		ctx,
		`INSERT INTO users(id, first_name, last_name, username, email, password_hash, role, is_email_verified, created_at, updated_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.IsEmailVerified,
		user.CreatedAt,
		user.UpdatedAt,
	)
	return &user, err
}

func (r *userRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.FullUser, error) {
	return scanFullUser(r.db.QueryRow(ctx, "SELECT "+fullUserColumns+" FROM users u WHERE u.id = $1", id))
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.QueryRow(ctx, `
	SELECT u.id, u.first_name, u.last_name, u.username, u.email, u.password_hash, u.avatar_url, u.role, u.is_email_verified, u.created_at, u.updated_at
	FROM users u
	WHERE u.email = $1
	`, email).Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.AvatarURL,
		&user.Role,
		&user.IsEmailVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepo) ExistsWithEmailOrUsername(ctx context.Context, email string, username string) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(
		ctx,
		"SELECT EXISTS(SELECT 1 FROM users u WHERE u.email = $1 OR u.username = $2)",
		email,
		username,
	).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

func (r *userRepo) UpdateByID(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	allowedFields := []string{"first_name", "last_name", "username", "email", "password_hash", "avatar_url", "is_email_verified"}
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

	query := "UPDATE users SET "
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

func (r *userRepo) DeleteByID(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	return err
}

func (r *userRepo) Search(ctx context.Context, search string, limit int, offset int) ([]*model.FullUser, error) {
	maximumLimit(&limit)

	rows, err := r.db.Query(
		ctx,
		`SELECT `+fullUserColumns+`
		FROM users u
		WHERE u.username ILIKE '%' || $1 || '%' OR (u.first_name || ' ' || u.last_name) ILIKE '%' || $1 || '%'
		ORDER BY followers DESC, u.created_at ASC, u.id ASC
		LIMIT $2 OFFSET $3`,
		search,
		limit,
		offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*model.FullUser
	for rows.Next() {
		user, err := scanFullUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

func (r *userRepo) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}

func (r *userRepo) CountSearch(ctx context.Context, search string) (int64, error) {
	var count int64
	err := r.db.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM users u
		WHERE u.username ILIKE '%' || $1 || '%' OR (u.first_name || ' ' || u.last_name) ILIKE '%' || $1 || '%'`,
		search,
	).Scan(&count)
	return count, err
}

func (r *userRepo) Follow(ctx context.Context, userID uuid.UUID, followerID uuid.UUID) error {
	_, err := r.db.Exec(
		ctx,
		"INSERT INTO followers(user_id, follower_id, created_at) VALUES($1, $2, now()) ON CONFLICT DO NOTHING",
		userID,
		followerID,
	)
	return err
}

func (r *userRepo) Unfollow(ctx context.Context, userID uuid.UUID, followerID uuid.UUID) error {
	_, err := r.db.Exec(ctx, "DELETE FROM followers WHERE user_id = $1 AND follower_id = $2", userID, followerID)
	return err
}

func (r *userRepo) IsFollowing(ctx context.Context, userID uuid.UUID, followerID uuid.UUID) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(
		ctx,
		"SELECT EXISTS(SELECT 1 FROM followers f WHERE f.user_id = $1 AND f.follower_id = $2)",
		userID,
		followerID,
	).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

const followerFilter = `($2 = '' OR u.username ILIKE '%' || $2 || '%' OR (u.first_name || ' ' || u.last_name) ILIKE '%' || $2 || '%')`

// Followers of a user, in insertion order.
func (r *userRepo) FindFollowers(ctx context.Context, id uuid.UUID, nameFilter string, limit int, offset int) ([]*model.FullFollower, error) {
	maximumLimit(&limit)

	rows, err := r.db.Query(
		ctx,
		`SELECT u.id, u.first_name, u.last_name, u.username, u.avatar_url
		FROM followers f
		JOIN users u ON f.follower_id = u.id
		WHERE f.user_id = $1 AND `+followerFilter+`
		ORDER BY f.created_at ASC
		LIMIT $3 OFFSET $4`,
		id,
		nameFilter,
		limit,
		offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanFullFollowers(rows)
}

func (r *userRepo) CountFollowers(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM followers f WHERE f.user_id = $1", id).Scan(&count)
	return count, err
}

func (r *userRepo) CountFollowersFiltered(ctx context.Context, id uuid.UUID, nameFilter string) (int64, error) {
	var count int64
	err := r.db.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM followers f JOIN users u ON f.follower_id = u.id
		WHERE f.user_id = $1 AND `+followerFilter,
		id,
		nameFilter,
	).Scan(&count)
	return count, err
}

func (r *userRepo) FindFollowing(ctx context.Context, id uuid.UUID, nameFilter string, limit int, offset int) ([]*model.FullFollower, error) {
	maximumLimit(&limit)

	rows, err := r.db.Query(
		ctx,
		`SELECT u.id, u.first_name, u.last_name, u.username, u.avatar_url
		FROM followers f
		JOIN users u ON f.user_id = u.id
		WHERE f.follower_id = $1 AND `+followerFilter+`
		ORDER BY f.created_at ASC
		LIMIT $3 OFFSET $4`,
		id,
		nameFilter,
		limit,
		offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanFullFollowers(rows)
}

func (r *userRepo) CountFollowing(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM followers f WHERE f.follower_id = $1", id).Scan(&count)
	return count, err
}

func (r *userRepo) CountFollowingFiltered(ctx context.Context, id uuid.UUID, nameFilter string) (int64, error) {
	var count int64
	err := r.db.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM followers f JOIN users u ON f.user_id = u.id
		WHERE f.follower_id = $1 AND `+followerFilter,
		id,
		nameFilter,
	).Scan(&count)
	return count, err
}

// FindMostFollowed returns the single user with the largest followers set.
// Ties break deterministically: earliest created user first, then lowest id.
func (r *userRepo) FindMostFollowed(ctx context.Context) (*model.FullUser, error) {
	return scanFullUser(r.db.QueryRow(
		ctx,
		"SELECT "+fullUserColumns+" FROM users u ORDER BY followers DESC, u.created_at ASC, u.id ASC LIMIT 1",
	))
}

func scanFullFollowers(rows interface {
	Next() bool
	Scan(...interface{}) error
	Err() error
}) ([]*model.FullFollower, error) {
	var followers []*model.FullFollower
	for rows.Next() {
		var follower model.FullFollower
		if err := rows.Scan(
			&follower.ID,
			&follower.FirstName,
			&follower.LastName,
			&follower.Username,
			&follower.AvatarURL,
		); err != nil {
			return nil, err
		}

		followers = append(followers, &follower)
	}

	return followers, rows.Err()
}
