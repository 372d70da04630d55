package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/DeporS/worn11/models"
)

var ErrKitNotFound = errors.New("kit not found")

type KitRepository interface {
	Create(ctx context.Context, exec SQLExecutor, kit *models.Kit) error
	GetByID(ctx context.Context, id int) (*models.Kit, error)
	GetByTeamSeasonType(ctx context.Context, exec SQLExecutor, teamID int, season, kitType string) (*models.Kit, error)
	// ListCatalog returns kit definitions with their team populated,
	// optionally filtered to a single team.
	ListCatalog(ctx context.Context, teamID *int) ([]models.Kit, error)
}

type postgresKitRepository struct {
	db *sql.DB
}

func NewPostgresKitRepository(db *sql.DB) KitRepository {
	return &postgresKitRepository{db: db}
}

func (r *postgresKitRepository) Create(ctx context.Context, exec SQLExecutor, kit *models.Kit) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		INSERT INTO kits (team_id, season, kit_type, estimated_price, main_image_key)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	return exec.QueryRowContext(ctx, query,
		kit.TeamID,
		kit.Season,
		kit.KitType,
		kit.EstimatedPrice,
		kit.MainImageKey,
	).Scan(&kit.ID)
}

func (r *postgresKitRepository) GetByID(ctx context.Context, id int) (*models.Kit, error) {
	query := kitWithTeamSelect + ` WHERE k.id = $1`

	kits, err := r.queryKits(ctx, r.db, query, id)
	if err != nil {
		return nil, err
	}
	if len(kits) == 0 {
		return nil, ErrKitNotFound
	}
	return &kits[0], nil
}

func (r *postgresKitRepository) GetByTeamSeasonType(ctx context.Context, exec SQLExecutor, teamID int, season, kitType string) (*models.Kit, error) {
	if exec == nil {
		exec = r.db
	}
	query := kitWithTeamSelect + ` WHERE k.team_id = $1 AND k.season = $2 AND k.kit_type = $3`

	kits, err := r.queryKits(ctx, exec, query, teamID, season, kitType)
	if err != nil {
		return nil, err
	}
	if len(kits) == 0 {
		return nil, ErrKitNotFound
	}
	return &kits[0], nil
}

func (r *postgresKitRepository) ListCatalog(ctx context.Context, teamID *int) ([]models.Kit, error) {
	if teamID != nil {
		query := kitWithTeamSelect + ` WHERE k.team_id = $1 ORDER BY t.name, k.season DESC, k.kit_type`
		return r.queryKits(ctx, r.db, query, *teamID)
	}
	query := kitWithTeamSelect + ` ORDER BY t.name, k.season DESC, k.kit_type`
	return r.queryKits(ctx, r.db, query)
}

const kitWithTeamSelect = `
	SELECT
		k.id, k.team_id, k.season, k.kit_type, k.estimated_price, k.main_image_key,
		t.id, t.name, t.is_verified, t.logo_key, t.created_at
	FROM kits k
	JOIN teams t ON t.id = k.team_id`

func (r *postgresKitRepository) queryKits(ctx context.Context, exec SQLExecutor, query string, args ...interface{}) ([]models.Kit, error) {
	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query kits: %w", err)
	}
	defer rows.Close()

	kits := make([]models.Kit, 0)
	for rows.Next() {
		var kit models.Kit
		var team models.Team
		err := rows.Scan(
			&kit.ID, &kit.TeamID, &kit.Season, &kit.KitType, &kit.EstimatedPrice, &kit.MainImageKey,
			&team.ID, &team.Name, &team.IsVerified, &team.LogoKey, &team.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		kit.Team = &team
		kits = append(kits, kit)
	}
	return kits, rows.Err()
}
