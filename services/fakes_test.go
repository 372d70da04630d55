package services

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/DeporS/worn11/models"
	"github.com/DeporS/worn11/repositories"
	"github.com/DeporS/worn11/storage"
)

// In-memory fakes for the repository and storage interfaces. They ignore the
// SQLExecutor arguments entirely, which lets service tests pass a nil executor.

type fakeUploader struct {
	mu       sync.Mutex // blob deletes fan out concurrently
	uploaded []string
	deleted  []string
	baseURL  string
}

func (f *fakeUploader) Upload(_ context.Context, key, _ string, _ io.Reader) (*storage.UploadResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploaded = append(f.uploaded, key)
	return &storage.UploadResult{Key: key}, nil
}

func (f *fakeUploader) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeUploader) GetPublicURL(key string) string {
	base := f.baseURL
	if base == "" {
		base = "https://cdn.test"
	}
	return base + "/" + key
}

type fakeTeamRepo struct {
	teams  map[int]*models.Team
	nextID int
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{teams: make(map[int]*models.Team), nextID: 1}
}

func (f *fakeTeamRepo) Create(_ context.Context, _ repositories.SQLExecutor, team *models.Team) error {
	team.ID = f.nextID
	f.nextID++
	stored := *team
	f.teams[team.ID] = &stored
	return nil
}

func (f *fakeTeamRepo) GetByID(_ context.Context, id int) (*models.Team, error) {
	team, found := f.teams[id]
	if !found {
		return nil, repositories.ErrTeamNotFound
	}
	copied := *team
	return &copied, nil
}

func (f *fakeTeamRepo) GetByNameInsensitive(_ context.Context, _ repositories.SQLExecutor, name string) (*models.Team, error) {
	for _, team := range f.teams {
		if strings.EqualFold(team.Name, name) {
			copied := *team
			return &copied, nil
		}
	}
	return nil, repositories.ErrTeamNotFound
}

func (f *fakeTeamRepo) SearchVerified(_ context.Context, query string, limit int) ([]models.Team, error) {
	var out []models.Team
	ids := make([]int, 0, len(f.teams))
	for id := range f.teams {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		team := f.teams[id]
		if team.IsVerified && strings.Contains(strings.ToLower(team.Name), strings.ToLower(query)) {
			out = append(out, *team)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (f *fakeTeamRepo) SetVerified(_ context.Context, id int, verified bool) error {
	team, found := f.teams[id]
	if !found {
		return repositories.ErrTeamNotFound
	}
	team.IsVerified = verified
	return nil
}

func (f *fakeTeamRepo) UpdateLogoKey(_ context.Context, id int, logoKey *string) error {
	team, found := f.teams[id]
	if !found {
		return repositories.ErrTeamNotFound
	}
	team.LogoKey = logoKey
	return nil
}

type fakeKitRepo struct {
	kits   map[int]*models.Kit
	nextID int
}

func newFakeKitRepo() *fakeKitRepo {
	return &fakeKitRepo{kits: make(map[int]*models.Kit), nextID: 1}
}

func (f *fakeKitRepo) Create(_ context.Context, _ repositories.SQLExecutor, kit *models.Kit) error {
	kit.ID = f.nextID
	f.nextID++
	stored := *kit
	stored.Team = nil
	f.kits[kit.ID] = &stored
	return nil
}

func (f *fakeKitRepo) GetByID(_ context.Context, id int) (*models.Kit, error) {
	kit, found := f.kits[id]
	if !found {
		return nil, repositories.ErrKitNotFound
	}
	copied := *kit
	return &copied, nil
}

func (f *fakeKitRepo) GetByTeamSeasonType(_ context.Context, _ repositories.SQLExecutor, teamID int, season, kitType string) (*models.Kit, error) {
	for _, kit := range f.kits {
		if kit.TeamID == teamID && kit.Season == season && kit.KitType == kitType {
			copied := *kit
			return &copied, nil
		}
	}
	return nil, repositories.ErrKitNotFound
}

func (f *fakeKitRepo) ListCatalog(_ context.Context, teamID *int) ([]models.Kit, error) {
	var out []models.Kit
	ids := make([]int, 0, len(f.kits))
	for id := range f.kits {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		kit := f.kits[id]
		if teamID != nil && kit.TeamID != *teamID {
			continue
		}
		out = append(out, *kit)
	}
	return out, nil
}

type fakeProfileRepo struct {
	profiles map[int]*models.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[int]*models.Profile)}
}

func (f *fakeProfileRepo) Create(_ context.Context, _ repositories.SQLExecutor, profile *models.Profile) error {
	stored := *profile
	f.profiles[profile.UserID] = &stored
	return nil
}

func (f *fakeProfileRepo) GetByUserID(_ context.Context, userID int) (*models.Profile, error) {
	profile, found := f.profiles[userID]
	if !found {
		return nil, repositories.ErrProfileNotFound
	}
	copied := *profile
	return &copied, nil
}

func (f *fakeProfileRepo) Update(_ context.Context, profile *models.Profile) error {
	stored := *profile
	f.profiles[profile.UserID] = &stored
	return nil
}

func (f *fakeProfileRepo) UpdateAvatarKey(_ context.Context, userID int, avatarKey *string) error {
	profile, found := f.profiles[userID]
	if !found {
		profile = &models.Profile{UserID: userID}
		f.profiles[userID] = profile
	}
	profile.AvatarKey = avatarKey
	return nil
}

type fakeUserRepo struct {
	users         map[int]*models.User
	searchResults []models.UserSearchResult
	nextID        int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int]*models.User), nextID: 1}
}

func (f *fakeUserRepo) Create(_ context.Context, _ repositories.SQLExecutor, user *models.User) error {
	user.ID = f.nextID
	f.nextID++
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	user, found := f.users[id]
	if !found {
		return nil, repositories.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) SearchByUsername(_ context.Context, query string, limit int) ([]models.UserSearchResult, error) {
	out := f.searchResults
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeOwnedKitRepo struct {
	items  map[int]*models.OwnedKit
	likes  map[int]map[int]bool // ownedKitID -> userID set
	nextID int
}

func newFakeOwnedKitRepo() *fakeOwnedKitRepo {
	return &fakeOwnedKitRepo{
		items:  make(map[int]*models.OwnedKit),
		likes:  make(map[int]map[int]bool),
		nextID: 1,
	}
}

func (f *fakeOwnedKitRepo) Create(_ context.Context, _ repositories.SQLExecutor, ownedKit *models.OwnedKit) error {
	ownedKit.ID = f.nextID
	f.nextID++
	stored := *ownedKit
	stored.Kit = nil
	stored.Images = nil
	f.items[ownedKit.ID] = &stored
	return nil
}

func (f *fakeOwnedKitRepo) Update(_ context.Context, _ repositories.SQLExecutor, ownedKit *models.OwnedKit) error {
	if _, found := f.items[ownedKit.ID]; !found {
		return repositories.ErrOwnedKitNotFound
	}
	stored := *ownedKit
	stored.Kit = nil
	stored.Images = nil
	f.items[ownedKit.ID] = &stored
	return nil
}

func (f *fakeOwnedKitRepo) Delete(_ context.Context, id int) error {
	if _, found := f.items[id]; !found {
		return repositories.ErrOwnedKitNotFound
	}
	delete(f.items, id)
	delete(f.likes, id)
	return nil
}

func (f *fakeOwnedKitRepo) GetByID(_ context.Context, id int) (*models.OwnedKit, error) {
	item, found := f.items[id]
	if !found {
		return nil, repositories.ErrOwnedKitNotFound
	}
	copied := *item
	return &copied, nil
}

func (f *fakeOwnedKitRepo) ListByUserID(_ context.Context, userID int) ([]models.OwnedKit, error) {
	var out []models.OwnedKit
	ids := make([]int, 0, len(f.items))
	for id := range f.items {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if f.items[id].UserID == userID {
			out = append(out, *f.items[id])
		}
	}
	return out, nil
}

func (f *fakeOwnedKitRepo) StatsByUserID(_ context.Context, userID int) (*models.CollectionStats, error) {
	stats := &models.CollectionStats{}
	for id, item := range f.items {
		if item.UserID != userID {
			continue
		}
		stats.TotalKits++
		stats.TotalValue = stats.TotalValue.Add(item.FinalValue)
		stats.LikesReceived += len(f.likes[id])
	}
	return stats, nil
}

func (f *fakeOwnedKitRepo) IsLikedBy(_ context.Context, _ repositories.SQLExecutor, ownedKitID, userID int) (bool, error) {
	return f.likes[ownedKitID][userID], nil
}

func (f *fakeOwnedKitRepo) LikedSetForUser(_ context.Context, userID int, ownedKitIDs []int) (map[int]bool, error) {
	out := make(map[int]bool)
	for _, id := range ownedKitIDs {
		if f.likes[id][userID] {
			out[id] = true
		}
	}
	return out, nil
}

func (f *fakeOwnedKitRepo) AddLike(_ context.Context, _ repositories.SQLExecutor, ownedKitID, userID int) error {
	if f.likes[ownedKitID] == nil {
		f.likes[ownedKitID] = make(map[int]bool)
	}
	f.likes[ownedKitID][userID] = true
	return nil
}

func (f *fakeOwnedKitRepo) RemoveLike(_ context.Context, _ repositories.SQLExecutor, ownedKitID, userID int) error {
	delete(f.likes[ownedKitID], userID)
	return nil
}

func (f *fakeOwnedKitRepo) CountLikes(_ context.Context, _ repositories.SQLExecutor, ownedKitID int) (int, error) {
	return len(f.likes[ownedKitID]), nil
}

type fakeImageRepo struct {
	images map[int]*models.OwnedKitImage
	nextID int
}

func newFakeImageRepo() *fakeImageRepo {
	return &fakeImageRepo{images: make(map[int]*models.OwnedKitImage), nextID: 1}
}

func (f *fakeImageRepo) Create(_ context.Context, _ repositories.SQLExecutor, image *models.OwnedKitImage) error {
	image.ID = f.nextID
	f.nextID++
	stored := *image
	f.images[image.ID] = &stored
	return nil
}

func (f *fakeImageRepo) ListByOwnedKitID(_ context.Context, _ repositories.SQLExecutor, ownedKitID int) ([]models.OwnedKitImage, error) {
	var out []models.OwnedKitImage
	for _, img := range f.images {
		if img.OwnedKitID == ownedKitID {
			out = append(out, *img)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *fakeImageRepo) ListByOwnedKitIDs(ctx context.Context, ownedKitIDs []int) (map[int][]models.OwnedKitImage, error) {
	out := make(map[int][]models.OwnedKitImage)
	for _, id := range ownedKitIDs {
		images, err := f.ListByOwnedKitID(ctx, nil, id)
		if err != nil {
			return nil, err
		}
		if len(images) > 0 {
			out[id] = images
		}
	}
	return out, nil
}

func (f *fakeImageRepo) DeleteByIDs(_ context.Context, _ repositories.SQLExecutor, ownedKitID int, imageIDs []int) ([]string, error) {
	var keys []string
	for _, id := range imageIDs {
		img, found := f.images[id]
		if !found || img.OwnedKitID != ownedKitID {
			continue
		}
		keys = append(keys, img.ImageKey)
		delete(f.images, id)
	}
	return keys, nil
}

func (f *fakeImageRepo) UpdatePosition(_ context.Context, _ repositories.SQLExecutor, ownedKitID, imageID, position int) error {
	img, found := f.images[imageID]
	if !found || img.OwnedKitID != ownedKitID {
		return nil
	}
	img.Position = position
	return nil
}
