package services

import (
	"context"
	"testing"

	"github.com/DeporS/worn11/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchTeams_ShortQueryReturnsEmpty(t *testing.T) {
	teamRepo := newFakeTeamRepo()
	require.NoError(t, teamRepo.Create(context.Background(), nil, &models.Team{Name: "Ajax", IsVerified: true}))

	svc := NewSearchService(teamRepo, newFakeUserRepo(), &fakeUploader{})

	for _, query := range []string{"", "a", " a ", "  "} {
		teams, err := svc.SearchTeams(context.Background(), query)
		require.NoError(t, err)
		assert.NotNil(t, teams)
		assert.Empty(t, teams, "query %q should not hit the repository", query)
	}
}

func TestSearchTeams_OnlyVerifiedCappedAtFive(t *testing.T) {
	teamRepo := newFakeTeamRepo()
	names := []string{"Arsenal", "Aston Villa", "Athletic Club", "Atalanta", "Atletico Madrid", "Austria Wien"}
	for _, name := range names {
		require.NoError(t, teamRepo.Create(context.Background(), nil, &models.Team{Name: name, IsVerified: true}))
	}
	unverified := &models.Team{Name: "Atlanta United"}
	require.NoError(t, teamRepo.Create(context.Background(), nil, unverified))

	svc := NewSearchService(teamRepo, newFakeUserRepo(), &fakeUploader{})

	teams, err := svc.SearchTeams(context.Background(), "at")
	require.NoError(t, err)
	assert.Len(t, teams, 5)
	for _, team := range teams {
		assert.True(t, team.IsVerified)
		assert.NotEqual(t, "Atlanta United", team.Name)
	}
}

func TestSearchUsers_ShortQueryReturnsEmpty(t *testing.T) {
	userRepo := newFakeUserRepo()
	userRepo.searchResults = []models.UserSearchResult{{ID: 1, Username: "alice"}}

	svc := NewSearchService(newFakeTeamRepo(), userRepo, &fakeUploader{})

	users, err := svc.SearchUsers(context.Background(), "a")
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestSearchUsers_CappedAtTenWithAvatarURLs(t *testing.T) {
	userRepo := newFakeUserRepo()
	avatarKey := "profile_avatars/3/pic.jpg"
	for i := 1; i <= 12; i++ {
		result := models.UserSearchResult{ID: i, Username: "collector", KitCount: 20 - i}
		if i == 3 {
			result.AvatarKey = &avatarKey
		}
		userRepo.searchResults = append(userRepo.searchResults, result)
	}

	svc := NewSearchService(newFakeTeamRepo(), userRepo, &fakeUploader{})

	users, err := svc.SearchUsers(context.Background(), "collector")
	require.NoError(t, err)
	require.Len(t, users, 10)
	require.NotNil(t, users[2].AvatarURL)
	assert.Equal(t, "https://cdn.test/profile_avatars/3/pic.jpg", *users[2].AvatarURL)
	assert.Nil(t, users[0].AvatarURL)
}
