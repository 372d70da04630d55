package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/DeporS/worn11/models"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepository interface {
	Create(ctx context.Context, exec SQLExecutor, profile *models.Profile) error
	GetByUserID(ctx context.Context, userID int) (*models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
	UpdateAvatarKey(ctx context.Context, userID int, avatarKey *string) error
}

type postgresProfileRepository struct {
	db *sql.DB
}

func NewPostgresProfileRepository(db *sql.DB) ProfileRepository {
	return &postgresProfileRepository{db: db}
}

func (r *postgresProfileRepository) Create(ctx context.Context, exec SQLExecutor, profile *models.Profile) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		INSERT INTO profiles (user_id, is_pro, is_moderator, bio, avatar_key)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := exec.ExecContext(ctx, query,
		profile.UserID,
		profile.IsPro,
		profile.IsModerator,
		profile.Bio,
		profile.AvatarKey,
	)
	return err
}

func (r *postgresProfileRepository) GetByUserID(ctx context.Context, userID int) (*models.Profile, error) {
	query := `
		SELECT user_id, is_pro, is_moderator, bio, avatar_key
		FROM profiles
		WHERE user_id = $1`

	profile := &models.Profile{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.IsPro,
		&profile.IsModerator,
		&profile.Bio,
		&profile.AvatarKey,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (r *postgresProfileRepository) Update(ctx context.Context, profile *models.Profile) error {
	query := `
		UPDATE profiles SET
			is_pro = $1,
			is_moderator = $2,
			bio = $3
		WHERE user_id = $4`

	result, err := r.db.ExecContext(ctx, query,
		profile.IsPro,
		profile.IsModerator,
		profile.Bio,
		profile.UserID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrProfileNotFound)
}

func (r *postgresProfileRepository) UpdateAvatarKey(ctx context.Context, userID int, avatarKey *string) error {
	query := `UPDATE profiles SET avatar_key = $1 WHERE user_id = $2`
	result, err := r.db.ExecContext(ctx, query, avatarKey, userID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrProfileNotFound)
}
