package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/DeporS/worn11/models"
	"github.com/lib/pq"
)

var ErrOwnedKitImageNotFound = errors.New("owned kit image not found")

type OwnedKitImageRepository interface {
	Create(ctx context.Context, exec SQLExecutor, image *models.OwnedKitImage) error
	ListByOwnedKitID(ctx context.Context, exec SQLExecutor, ownedKitID int) ([]models.OwnedKitImage, error)
	ListByOwnedKitIDs(ctx context.Context, ownedKitIDs []int) (map[int][]models.OwnedKitImage, error)
	// DeleteByIDs removes only images that belong to the given owned kit and
	// returns the storage keys of the rows it actually deleted. IDs pointing at
	// other owners' images are filtered out by the WHERE clause, not rejected.
	DeleteByIDs(ctx context.Context, exec SQLExecutor, ownedKitID int, imageIDs []int) ([]string, error)
	// UpdatePosition is a no-op (nil error) when the image does not belong to
	// the given owned kit.
	UpdatePosition(ctx context.Context, exec SQLExecutor, ownedKitID, imageID, position int) error
}

type postgresOwnedKitImageRepository struct {
	db *sql.DB
}

func NewPostgresOwnedKitImageRepository(db *sql.DB) OwnedKitImageRepository {
	return &postgresOwnedKitImageRepository{db: db}
}

func (r *postgresOwnedKitImageRepository) Create(ctx context.Context, exec SQLExecutor, image *models.OwnedKitImage) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		INSERT INTO owned_kit_images (owned_kit_id, image_key, position)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	return exec.QueryRowContext(ctx, query,
		image.OwnedKitID,
		image.ImageKey,
		image.Position,
	).Scan(&image.ID, &image.CreatedAt)
}

const ownedKitImageSelect = `
	SELECT id, owned_kit_id, image_key, position, created_at
	FROM owned_kit_images`

func (r *postgresOwnedKitImageRepository) ListByOwnedKitID(ctx context.Context, exec SQLExecutor, ownedKitID int) ([]models.OwnedKitImage, error) {
	if exec == nil {
		exec = r.db
	}
	query := ownedKitImageSelect + ` WHERE owned_kit_id = $1 ORDER BY position ASC, id ASC`

	rows, err := exec.QueryContext(ctx, query, ownedKitID)
	if err != nil {
		return nil, fmt.Errorf("failed to list owned kit images: %w", err)
	}
	defer rows.Close()

	return scanOwnedKitImages(rows)
}

func (r *postgresOwnedKitImageRepository) ListByOwnedKitIDs(ctx context.Context, ownedKitIDs []int) (map[int][]models.OwnedKitImage, error) {
	grouped := make(map[int][]models.OwnedKitImage, len(ownedKitIDs))
	if len(ownedKitIDs) == 0 {
		return grouped, nil
	}

	query := ownedKitImageSelect + ` WHERE owned_kit_id = ANY($1) ORDER BY position ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ownedKitIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to list owned kit images: %w", err)
	}
	defer rows.Close()

	images, err := scanOwnedKitImages(rows)
	if err != nil {
		return nil, err
	}
	for _, img := range images {
		grouped[img.OwnedKitID] = append(grouped[img.OwnedKitID], img)
	}
	return grouped, nil
}

func (r *postgresOwnedKitImageRepository) DeleteByIDs(ctx context.Context, exec SQLExecutor, ownedKitID int, imageIDs []int) ([]string, error) {
	if len(imageIDs) == 0 {
		return nil, nil
	}
	if exec == nil {
		exec = r.db
	}
	query := `
		DELETE FROM owned_kit_images
		WHERE owned_kit_id = $1 AND id = ANY($2)
		RETURNING image_key`

	rows, err := exec.QueryContext(ctx, query, ownedKitID, pq.Array(imageIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to delete owned kit images: %w", err)
	}
	defer rows.Close()

	keys := make([]string, 0, len(imageIDs))
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

func (r *postgresOwnedKitImageRepository) UpdatePosition(ctx context.Context, exec SQLExecutor, ownedKitID, imageID, position int) error {
	if exec == nil {
		exec = r.db
	}
	_, err := exec.ExecContext(ctx,
		`UPDATE owned_kit_images SET position = $1 WHERE id = $2 AND owned_kit_id = $3`,
		position, imageID, ownedKitID,
	)
	return err
}

func scanOwnedKitImages(rows *sql.Rows) ([]models.OwnedKitImage, error) {
	images := make([]models.OwnedKitImage, 0)
	for rows.Next() {
		var img models.OwnedKitImage
		if err := rows.Scan(&img.ID, &img.OwnedKitID, &img.ImageKey, &img.Position, &img.CreatedAt); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}
