package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/DeporS/worn11/models"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

var ErrOwnedKitNotFound = errors.New("owned kit not found")

type OwnedKitRepository interface {
	Create(ctx context.Context, exec SQLExecutor, ownedKit *models.OwnedKit) error
	Update(ctx context.Context, exec SQLExecutor, ownedKit *models.OwnedKit) error
	Delete(ctx context.Context, id int) error
	GetByID(ctx context.Context, id int) (*models.OwnedKit, error)
	ListByUserID(ctx context.Context, userID int) ([]models.OwnedKit, error)
	StatsByUserID(ctx context.Context, userID int) (*models.CollectionStats, error)

	IsLikedBy(ctx context.Context, exec SQLExecutor, ownedKitID, userID int) (bool, error)
	// LikedSetForUser reports which of the given owned kits the user likes.
	LikedSetForUser(ctx context.Context, userID int, ownedKitIDs []int) (map[int]bool, error)
	AddLike(ctx context.Context, exec SQLExecutor, ownedKitID, userID int) error
	RemoveLike(ctx context.Context, exec SQLExecutor, ownedKitID, userID int) error
	CountLikes(ctx context.Context, exec SQLExecutor, ownedKitID int) (int, error)
}

type postgresOwnedKitRepository struct {
	db *sql.DB
}

func NewPostgresOwnedKitRepository(db *sql.DB) OwnedKitRepository {
	return &postgresOwnedKitRepository{db: db}
}

func (r *postgresOwnedKitRepository) Create(ctx context.Context, exec SQLExecutor, ownedKit *models.OwnedKit) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		INSERT INTO owned_kits
			(user_id, kit_id, shirt_technology, condition, size,
			 player_name, player_number, for_sale, offer_link, manual_value, final_value)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, added_at`

	return exec.QueryRowContext(ctx, query,
		ownedKit.UserID,
		ownedKit.KitID,
		ownedKit.ShirtTechnology,
		ownedKit.Condition,
		ownedKit.Size,
		ownedKit.PlayerName,
		ownedKit.PlayerNumber,
		ownedKit.ForSale,
		ownedKit.OfferLink,
		ownedKit.ManualValue,
		ownedKit.FinalValue,
	).Scan(&ownedKit.ID, &ownedKit.AddedAt)
}

func (r *postgresOwnedKitRepository) Update(ctx context.Context, exec SQLExecutor, ownedKit *models.OwnedKit) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		UPDATE owned_kits SET
			kit_id = $1,
			shirt_technology = $2,
			condition = $3,
			size = $4,
			player_name = $5,
			player_number = $6,
			for_sale = $7,
			offer_link = $8,
			manual_value = $9,
			final_value = $10
		WHERE id = $11`

	result, err := exec.ExecContext(ctx, query,
		ownedKit.KitID,
		ownedKit.ShirtTechnology,
		ownedKit.Condition,
		ownedKit.Size,
		ownedKit.PlayerName,
		ownedKit.PlayerNumber,
		ownedKit.ForSale,
		ownedKit.OfferLink,
		ownedKit.ManualValue,
		ownedKit.FinalValue,
		ownedKit.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrOwnedKitNotFound)
}

func (r *postgresOwnedKitRepository) Delete(ctx context.Context, id int) error {
	// Images and likes go with the row via ON DELETE CASCADE.
	result, err := r.db.ExecContext(ctx, `DELETE FROM owned_kits WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrOwnedKitNotFound)
}

const ownedKitSelect = `
	SELECT
		ok.id, ok.user_id, ok.kit_id, ok.shirt_technology, ok.condition, ok.size,
		ok.player_name, ok.player_number, ok.for_sale, ok.offer_link,
		ok.manual_value, ok.final_value, ok.added_at,
		k.id, k.team_id, k.season, k.kit_type, k.estimated_price, k.main_image_key,
		t.id, t.name, t.is_verified, t.logo_key, t.created_at,
		(SELECT COUNT(*) FROM owned_kit_likes l WHERE l.owned_kit_id = ok.id) AS total_likes
	FROM owned_kits ok
	JOIN kits k ON k.id = ok.kit_id
	JOIN teams t ON t.id = k.team_id`

func (r *postgresOwnedKitRepository) GetByID(ctx context.Context, id int) (*models.OwnedKit, error) {
	query := ownedKitSelect + ` WHERE ok.id = $1`

	items, err := r.queryOwnedKits(ctx, query, id)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrOwnedKitNotFound
	}
	return &items[0], nil
}

func (r *postgresOwnedKitRepository) ListByUserID(ctx context.Context, userID int) ([]models.OwnedKit, error) {
	query := ownedKitSelect + ` WHERE ok.user_id = $1 ORDER BY ok.added_at DESC, ok.id DESC`
	return r.queryOwnedKits(ctx, query, userID)
}

func (r *postgresOwnedKitRepository) StatsByUserID(ctx context.Context, userID int) (*models.CollectionStats, error) {
	query := `
		SELECT
			COUNT(ok.id),
			COALESCE(SUM(ok.final_value), 0),
			COALESCE((SELECT COUNT(*) FROM owned_kit_likes l
				JOIN owned_kits o ON o.id = l.owned_kit_id
				WHERE o.user_id = $1), 0)
		FROM owned_kits ok
		WHERE ok.user_id = $1`

	stats := &models.CollectionStats{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&stats.TotalKits,
		&stats.TotalValue,
		&stats.LikesReceived,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate collection stats: %w", err)
	}
	return stats, nil
}

func (r *postgresOwnedKitRepository) IsLikedBy(ctx context.Context, exec SQLExecutor, ownedKitID, userID int) (bool, error) {
	if exec == nil {
		exec = r.db
	}
	var exists bool
	err := exec.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM owned_kit_likes WHERE owned_kit_id = $1 AND user_id = $2)`,
		ownedKitID, userID,
	).Scan(&exists)
	return exists, err
}

func (r *postgresOwnedKitRepository) LikedSetForUser(ctx context.Context, userID int, ownedKitIDs []int) (map[int]bool, error) {
	liked := make(map[int]bool, len(ownedKitIDs))
	if len(ownedKitIDs) == 0 {
		return liked, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT owned_kit_id FROM owned_kit_likes WHERE user_id = $1 AND owned_kit_id = ANY($2)`,
		userID, pq.Array(ownedKitIDs),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query liked set: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		liked[id] = true
	}
	return liked, rows.Err()
}

func (r *postgresOwnedKitRepository) AddLike(ctx context.Context, exec SQLExecutor, ownedKitID, userID int) error {
	if exec == nil {
		exec = r.db
	}
	_, err := exec.ExecContext(ctx,
		`INSERT INTO owned_kit_likes (owned_kit_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		ownedKitID, userID,
	)
	return err
}

func (r *postgresOwnedKitRepository) RemoveLike(ctx context.Context, exec SQLExecutor, ownedKitID, userID int) error {
	if exec == nil {
		exec = r.db
	}
	_, err := exec.ExecContext(ctx,
		`DELETE FROM owned_kit_likes WHERE owned_kit_id = $1 AND user_id = $2`,
		ownedKitID, userID,
	)
	return err
}

func (r *postgresOwnedKitRepository) CountLikes(ctx context.Context, exec SQLExecutor, ownedKitID int) (int, error) {
	if exec == nil {
		exec = r.db
	}
	var count int
	err := exec.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM owned_kit_likes WHERE owned_kit_id = $1`,
		ownedKitID,
	).Scan(&count)
	return count, err
}

func (r *postgresOwnedKitRepository) queryOwnedKits(ctx context.Context, query string, args ...interface{}) ([]models.OwnedKit, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query owned kits: %w", err)
	}
	defer rows.Close()

	items := make([]models.OwnedKit, 0)
	for rows.Next() {
		var ok models.OwnedKit
		var kit models.Kit
		var team models.Team
		var manualValue decimal.NullDecimal

		err := rows.Scan(
			&ok.ID, &ok.UserID, &ok.KitID, &ok.ShirtTechnology, &ok.Condition, &ok.Size,
			&ok.PlayerName, &ok.PlayerNumber, &ok.ForSale, &ok.OfferLink,
			&manualValue, &ok.FinalValue, &ok.AddedAt,
			&kit.ID, &kit.TeamID, &kit.Season, &kit.KitType, &kit.EstimatedPrice, &kit.MainImageKey,
			&team.ID, &team.Name, &team.IsVerified, &team.LogoKey, &team.CreatedAt,
			&ok.TotalLikes,
		)
		if err != nil {
			return nil, err
		}
		if manualValue.Valid {
			ok.ManualValue = &manualValue.Decimal
		}
		kit.Team = &team
		ok.Kit = &kit
		items = append(items, ok)
	}
	return items, rows.Err()
}
