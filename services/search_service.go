package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/DeporS/worn11/models"
	"github.com/DeporS/worn11/repositories"
	"github.com/DeporS/worn11/storage"
)

const (
	// Queries under two characters return nothing instead of scanning the
	// whole table on trivial input.
	minQueryLength = 2

	teamSearchLimit = 5
	userSearchLimit = 10
)

type SearchService interface {
	SearchTeams(ctx context.Context, query string) ([]models.Team, error)
	SearchUsers(ctx context.Context, query string) ([]models.UserSearchResult, error)
}

type searchService struct {
	teamRepo repositories.TeamRepository
	userRepo repositories.UserRepository
	uploader storage.FileUploader
}

func NewSearchService(teamRepo repositories.TeamRepository, userRepo repositories.UserRepository, uploader storage.FileUploader) SearchService {
	return &searchService{
		teamRepo: teamRepo,
		userRepo: userRepo,
		uploader: uploader,
	}
}

// SearchTeams matches verified teams by case-insensitive substring.
func (s *searchService) SearchTeams(ctx context.Context, query string) ([]models.Team, error) {
	query = strings.TrimSpace(query)
	if len(query) < minQueryLength {
		return []models.Team{}, nil
	}

	teams, err := s.teamRepo.SearchVerified(ctx, query, teamSearchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search teams: %w", err)
	}
	for i := range teams {
		populateTeamLogoURL(&teams[i], s.uploader)
	}
	return teams, nil
}

// SearchUsers matches usernames by case-insensitive substring, ordered by
// owned-kit count descending.
func (s *searchService) SearchUsers(ctx context.Context, query string) ([]models.UserSearchResult, error) {
	query = strings.TrimSpace(query)
	if len(query) < minQueryLength {
		return []models.UserSearchResult{}, nil
	}

	results, err := s.userRepo.SearchByUsername(ctx, query, userSearchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	for i := range results {
		res := &results[i]
		if res.AvatarKey != nil && *res.AvatarKey != "" && s.uploader != nil {
			if url := s.uploader.GetPublicURL(*res.AvatarKey); url != "" {
				res.AvatarURL = &url
			}
		}
	}
	return results, nil
}
