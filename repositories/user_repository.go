package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/DeporS/worn11/models"
	"github.com/lib/pq"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserEmailConflict    = errors.New("user email conflict")
	ErrUserUsernameConflict = errors.New("user username conflict")
)

type UserRepository interface {
	Create(ctx context.Context, exec SQLExecutor, user *models.User) error
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	SearchByUsername(ctx context.Context, query string, limit int) ([]models.UserSearchResult, error)
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

func (r *postgresUserRepository) Create(ctx context.Context, exec SQLExecutor, user *models.User) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		user.Username,
		user.Email,
		user.PasswordHash,
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			switch pqErr.Constraint {
			case "users_email_key":
				return ErrUserEmailConflict
			case "users_username_key":
				return ErrUserUsernameConflict
			}
		}
		return err
	}
	return nil
}

func (r *postgresUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	query := `
		SELECT id, username, email, password_hash, created_at
		FROM users
		WHERE id = $1`
	return r.scanUser(ctx, query, id)
}

func (r *postgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, username, email, password_hash, created_at
		FROM users
		WHERE email = $1`
	return r.scanUser(ctx, query, email)
}

func (r *postgresUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT id, username, email, password_hash, created_at
		FROM users
		WHERE username = $1`
	return r.scanUser(ctx, query, username)
}

// SearchByUsername matches usernames case-insensitively and annotates each hit
// with its owned-kit count; results come back ordered by that count descending.
func (r *postgresUserRepository) SearchByUsername(ctx context.Context, query string, limit int) ([]models.UserSearchResult, error) {
	stmt := `
		SELECT
			u.id, u.username, p.avatar_key, COUNT(ok.id) AS kit_count
		FROM users u
		LEFT JOIN profiles p ON p.user_id = u.id
		LEFT JOIN owned_kits ok ON ok.user_id = u.id
		WHERE u.username ILIKE '%' || $1 || '%'
		GROUP BY u.id, u.username, p.avatar_key
		ORDER BY kit_count DESC, u.username ASC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, stmt, escapeLikePattern(query), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	defer rows.Close()

	results := make([]models.UserSearchResult, 0)
	for rows.Next() {
		var res models.UserSearchResult
		if err := rows.Scan(&res.ID, &res.Username, &res.AvatarKey, &res.KitCount); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

func (r *postgresUserRepository) scanUser(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
