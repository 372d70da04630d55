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
	ErrTeamNotFound     = errors.New("team not found")
	ErrTeamNameConflict = errors.New("team name conflict")
)

type TeamRepository interface {
	Create(ctx context.Context, exec SQLExecutor, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	// GetByNameInsensitive resolves a team by exact name, ignoring case.
	GetByNameInsensitive(ctx context.Context, exec SQLExecutor, name string) (*models.Team, error)
	SearchVerified(ctx context.Context, query string, limit int) ([]models.Team, error)
	SetVerified(ctx context.Context, id int, verified bool) error
	UpdateLogoKey(ctx context.Context, id int, logoKey *string) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) Create(ctx context.Context, exec SQLExecutor, team *models.Team) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		INSERT INTO teams (name, is_verified, logo_key)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		team.Name,
		team.IsVerified,
		team.LogoKey,
	).Scan(&team.ID, &team.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" && pqErr.Constraint == "teams_name_key" {
			return ErrTeamNameConflict
		}
		return err
	}
	return nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `
		SELECT id, name, is_verified, logo_key, created_at
		FROM teams
		WHERE id = $1`
	return scanTeam(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresTeamRepository) GetByNameInsensitive(ctx context.Context, exec SQLExecutor, name string) (*models.Team, error) {
	if exec == nil {
		exec = r.db
	}
	query := `
		SELECT id, name, is_verified, logo_key, created_at
		FROM teams
		WHERE LOWER(name) = LOWER($1)`
	return scanTeam(exec.QueryRowContext(ctx, query, name))
}

func (r *postgresTeamRepository) SearchVerified(ctx context.Context, query string, limit int) ([]models.Team, error) {
	stmt := `
		SELECT id, name, is_verified, logo_key, created_at
		FROM teams
		WHERE is_verified AND name ILIKE '%' || $1 || '%'
		ORDER BY name ASC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, stmt, escapeLikePattern(query), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search teams: %w", err)
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		var team models.Team
		if err := rows.Scan(&team.ID, &team.Name, &team.IsVerified, &team.LogoKey, &team.CreatedAt); err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}

func (r *postgresTeamRepository) SetVerified(ctx context.Context, id int, verified bool) error {
	query := `UPDATE teams SET is_verified = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, verified, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) UpdateLogoKey(ctx context.Context, id int, logoKey *string) error {
	query := `UPDATE teams SET logo_key = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, logoKey, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func scanTeam(row *sql.Row) (*models.Team, error) {
	team := &models.Team{}
	err := row.Scan(&team.ID, &team.Name, &team.IsVerified, &team.LogoKey, &team.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}
