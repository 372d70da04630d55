package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/DeporS/worn11/models"
	"github.com/DeporS/worn11/repositories"
	"github.com/DeporS/worn11/storage"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ResolveKitInput struct {
	TeamName string
	Season   string
	KitType  string
}

type TeamService interface {
	// ResolveKit maps free-text team name, season and kit type to a canonical
	// kit definition, creating the team and the kit when absent. It accepts an
	// executor so callers can run it inside their own transaction.
	ResolveKit(ctx context.Context, exec repositories.SQLExecutor, input ResolveKitInput) (*models.Kit, error)
	GetTeamByID(ctx context.Context, id int) (*models.Team, error)
	VerifyTeam(ctx context.Context, teamID, moderatorUserID int) (*models.Team, error)
	UploadTeamLogo(ctx context.Context, teamID, moderatorUserID int, file io.Reader, contentType string) (*models.Team, error)
}

type teamService struct {
	teamRepo    repositories.TeamRepository
	kitRepo     repositories.KitRepository
	profileRepo repositories.ProfileRepository
	uploader    storage.FileUploader
}

func NewTeamService(teamRepo repositories.TeamRepository, kitRepo repositories.KitRepository, profileRepo repositories.ProfileRepository, uploader storage.FileUploader) TeamService {
	return &teamService{
		teamRepo:    teamRepo,
		kitRepo:     kitRepo,
		profileRepo: profileRepo,
		uploader:    uploader,
	}
}

// ResolveKit trims the team name and resolves it case-insensitively, so
// "barcelona " and "Barcelona" land on the same row. Punctuation variants do
// not: that is the documented resolution rule, not a defect to paper over.
// Season and kit type are stored as given, empty values included.
func (s *teamService) ResolveKit(ctx context.Context, exec repositories.SQLExecutor, input ResolveKitInput) (*models.Kit, error) {
	name := strings.TrimSpace(input.TeamName)
	if name == "" {
		return nil, ErrTeamNameRequired
	}

	team, err := s.teamRepo.GetByNameInsensitive(ctx, exec, name)
	if err != nil {
		if !errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, fmt.Errorf("failed to resolve team: %w", err)
		}
		team = &models.Team{Name: name}
		if err := s.teamRepo.Create(ctx, exec, team); err != nil {
			return nil, fmt.Errorf("failed to create team: %w", err)
		}
	}

	kit, err := s.kitRepo.GetByTeamSeasonType(ctx, exec, team.ID, input.Season, input.KitType)
	if err != nil {
		if !errors.Is(err, repositories.ErrKitNotFound) {
			return nil, fmt.Errorf("failed to resolve kit: %w", err)
		}
		kit = &models.Kit{
			TeamID:         team.ID,
			Season:         input.Season,
			KitType:        input.KitType,
			EstimatedPrice: decimal.Zero,
		}
		if err := s.kitRepo.Create(ctx, exec, kit); err != nil {
			return nil, fmt.Errorf("failed to create kit: %w", err)
		}
	}

	kit.Team = team
	return kit, nil
}

func (s *teamService) GetTeamByID(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	populateTeamLogoURL(team, s.uploader)
	return team, nil
}

func (s *teamService) VerifyTeam(ctx context.Context, teamID, moderatorUserID int) (*models.Team, error) {
	if err := s.requireModerator(ctx, moderatorUserID); err != nil {
		return nil, err
	}

	if err := s.teamRepo.SetVerified(ctx, teamID, true); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to verify team: %w", err)
	}
	return s.GetTeamByID(ctx, teamID)
}

func (s *teamService) UploadTeamLogo(ctx context.Context, teamID, moderatorUserID int, file io.Reader, contentType string) (*models.Team, error) {
	if err := s.requireModerator(ctx, moderatorUserID); err != nil {
		return nil, err
	}

	team, err := s.GetTeamByID(ctx, teamID)
	if err != nil {
		return nil, err
	}

	ext, err := GetExtensionFromContentType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	key := fmt.Sprintf("team_logos/%d/%s%s", teamID, uuid.NewString(), ext)
	if _, err := s.uploader.Upload(ctx, key, contentType, file); err != nil {
		return nil, fmt.Errorf("failed to upload team logo: %w", err)
	}

	oldKey := team.LogoKey
	if err := s.teamRepo.UpdateLogoKey(ctx, teamID, &key); err != nil {
		return nil, fmt.Errorf("failed to store team logo key: %w", err)
	}
	if oldKey != nil && *oldKey != "" {
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	team.LogoKey = &key
	team.LogoURL = nil
	populateTeamLogoURL(team, s.uploader)
	return team, nil
}

// requireModerator treats a missing profile as "not a moderator" rather than
// an error.
func (s *teamService) requireModerator(ctx context.Context, userID int) error {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return ErrModeratorOnly
		}
		return fmt.Errorf("failed to check moderator flag: %w", err)
	}
	if !profile.IsModerator {
		return ErrModeratorOnly
	}
	return nil
}
