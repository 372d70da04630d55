package services

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/DeporS/worn11/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCollectionServiceForTest() (*collectionService, *fakeOwnedKitRepo, *fakeImageRepo, *fakeUserRepo, *fakeUploader) {
	ownedKitRepo := newFakeOwnedKitRepo()
	imageRepo := newFakeImageRepo()
	userRepo := newFakeUserRepo()
	uploader := &fakeUploader{}
	teamService := NewTeamService(newFakeTeamRepo(), newFakeKitRepo(), newFakeProfileRepo(), uploader)
	svc := &collectionService{
		ownedKitRepo: ownedKitRepo,
		imageRepo:    imageRepo,
		userRepo:     userRepo,
		teamService:  teamService,
		uploader:     uploader,
	}
	return svc, ownedKitRepo, imageRepo, userRepo, uploader
}

func seedImages(t *testing.T, imageRepo *fakeImageRepo, ownedKitID int, keys ...string) []int {
	t.Helper()
	ids := make([]int, 0, len(keys))
	for position, key := range keys {
		img := &models.OwnedKitImage{OwnedKitID: ownedKitID, Position: position, ImageKey: key}
		require.NoError(t, imageRepo.Create(context.Background(), nil, img))
		ids = append(ids, img.ID)
	}
	return ids
}

func TestApplyImageEdits_DeleteThenAddThenReorder(t *testing.T) {
	svc, _, imageRepo, _, _ := newCollectionServiceForTest()
	ids := seedImages(t, imageRepo, 1, "k/a.jpg", "k/b.jpg", "k/c.jpg")

	input := CollectionItemInput{
		DeleteImageIDs: []int{ids[0], ids[2]},
		ImagesOrder:    `["new_0", ` + itoa(ids[1]) + `]`,
	}

	deletedKeys, err := svc.applyImageEdits(context.Background(), nil, 1, input, []string{"k/new.jpg"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"k/a.jpg", "k/c.jpg"}, deletedKeys)

	images, err := imageRepo.ListByOwnedKitID(context.Background(), nil, 1)
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, "k/new.jpg", images[0].ImageKey)
	assert.Equal(t, 0, images[0].Position)
	assert.Equal(t, "k/b.jpg", images[1].ImageKey)
	assert.Equal(t, 1, images[1].Position)
}

func TestApplyImageEdits_MalformedOrderSkipsReorderOnly(t *testing.T) {
	svc, _, imageRepo, _, _ := newCollectionServiceForTest()
	ids := seedImages(t, imageRepo, 1, "k/a.jpg", "k/b.jpg")

	input := CollectionItemInput{
		DeleteImageIDs: []int{ids[0]},
		ImagesOrder:    `not json at all`,
	}

	deletedKeys, err := svc.applyImageEdits(context.Background(), nil, 1, input, []string{"k/new.jpg"})
	require.NoError(t, err)
	assert.Equal(t, []string{"k/a.jpg"}, deletedKeys)

	// Deletion and addition both land, the positions stay untouched.
	images, err := imageRepo.ListByOwnedKitID(context.Background(), nil, 1)
	require.NoError(t, err)
	require.Len(t, images, 2)
	keys := []string{images[0].ImageKey, images[1].ImageKey}
	assert.ElementsMatch(t, []string{"k/b.jpg", "k/new.jpg"}, keys)
}

func TestApplyImageEdits_OutOfRangePlaceholderIsSkipped(t *testing.T) {
	svc, _, imageRepo, _, _ := newCollectionServiceForTest()
	ids := seedImages(t, imageRepo, 1, "k/a.jpg")

	input := CollectionItemInput{
		ImagesOrder: `["new_5", ` + itoa(ids[0]) + `]`,
	}

	_, err := svc.applyImageEdits(context.Background(), nil, 1, input, nil)
	require.NoError(t, err)

	images, err := imageRepo.ListByOwnedKitID(context.Background(), nil, 1)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, 1, images[0].Position)
}

func TestApplyImageEdits_ForeignImagesAreNotTouched(t *testing.T) {
	svc, _, imageRepo, _, _ := newCollectionServiceForTest()
	mine := seedImages(t, imageRepo, 1, "k/mine.jpg")
	theirs := seedImages(t, imageRepo, 2, "k/theirs.jpg")

	input := CollectionItemInput{
		DeleteImageIDs: []int{theirs[0]},
		ImagesOrder:    `[` + itoa(theirs[0]) + `, ` + itoa(mine[0]) + `]`,
	}

	deletedKeys, err := svc.applyImageEdits(context.Background(), nil, 1, input, nil)
	require.NoError(t, err)
	assert.Empty(t, deletedKeys)

	foreign, err := imageRepo.ListByOwnedKitID(context.Background(), nil, 2)
	require.NoError(t, err)
	require.Len(t, foreign, 1)
	assert.Equal(t, 0, foreign[0].Position)
}

func TestApplyImageEdits_DroppedTokensKeepTheirSlot(t *testing.T) {
	svc, _, imageRepo, _, _ := newCollectionServiceForTest()
	ids := seedImages(t, imageRepo, 1, "k/a.jpg")

	input := CollectionItemInput{
		ImagesOrder: `["garbage", ` + itoa(ids[0]) + `]`,
	}

	_, err := svc.applyImageEdits(context.Background(), nil, 1, input, nil)
	require.NoError(t, err)

	images, err := imageRepo.ListByOwnedKitID(context.Background(), nil, 1)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, 1, images[0].Position)
}

func TestCreate_ResolvesKitAndStoresImages(t *testing.T) {
	svc, ownedKitRepo, imageRepo, _, uploader := newCollectionServiceForTest()

	input := CollectionItemInput{
		TeamName:        "Barcelona",
		Season:          "2010/11",
		KitType:         "Home",
		Size:            models.SizeL,
		Condition:       models.ConditionMint,
		ShirtTechnology: models.TechnologyReplica,
		ImagesOrder:     `["new_1", "new_0"]`,
	}
	uploads := []ImageUpload{
		{Content: strings.NewReader("first"), ContentType: "image/jpeg"},
		{Content: strings.NewReader("second"), ContentType: "image/png"},
	}

	item, err := svc.Create(context.Background(), 7, input, uploads)
	require.NoError(t, err)
	assert.Equal(t, 7, item.UserID)
	// Freshly resolved kits start at base price zero.
	assert.Equal(t, "0.00", item.FinalValue.String())
	assert.Len(t, uploader.uploaded, 2)
	assert.Empty(t, uploader.deleted)

	stored, err := ownedKitRepo.GetByID(context.Background(), item.ID)
	require.NoError(t, err)
	assert.NotZero(t, stored.KitID)

	images, err := imageRepo.ListByOwnedKitID(context.Background(), nil, item.ID)
	require.NoError(t, err)
	require.Len(t, images, 2)
	// images_order put the second upload first.
	assert.Equal(t, uploader.uploaded[1], images[0].ImageKey)
	assert.Equal(t, uploader.uploaded[0], images[1].ImageKey)
}

func TestCreate_FailedWriteDeletesUploadedBlobs(t *testing.T) {
	svc, ownedKitRepo, _, _, uploader := newCollectionServiceForTest()

	input := CollectionItemInput{TeamName: "   "}
	uploads := []ImageUpload{
		{Content: strings.NewReader("first"), ContentType: "image/jpeg"},
	}

	_, err := svc.Create(context.Background(), 7, input, uploads)
	assert.ErrorIs(t, err, ErrTeamNameRequired)
	require.Len(t, uploader.uploaded, 1)
	assert.Equal(t, uploader.uploaded, uploader.deleted)
	assert.Empty(t, ownedKitRepo.items)
}

func TestToggleLike_DoubleToggleRestoresState(t *testing.T) {
	svc, ownedKitRepo, _, _, _ := newCollectionServiceForTest()
	item := &models.OwnedKit{UserID: 7}
	require.NoError(t, ownedKitRepo.Create(context.Background(), nil, item))

	first, err := svc.ToggleLike(context.Background(), 42, item.ID)
	require.NoError(t, err)
	assert.True(t, first.Liked)
	assert.Equal(t, 1, first.TotalLikes)

	second, err := svc.ToggleLike(context.Background(), 42, item.ID)
	require.NoError(t, err)
	assert.False(t, second.Liked)
	assert.Equal(t, 0, second.TotalLikes)
}

func TestToggleLike_CountsOtherUsersLikes(t *testing.T) {
	svc, ownedKitRepo, _, _, _ := newCollectionServiceForTest()
	item := &models.OwnedKit{UserID: 7}
	require.NoError(t, ownedKitRepo.Create(context.Background(), nil, item))
	require.NoError(t, ownedKitRepo.AddLike(context.Background(), nil, item.ID, 99))

	result, err := svc.ToggleLike(context.Background(), 42, item.ID)
	require.NoError(t, err)
	assert.True(t, result.Liked)
	assert.Equal(t, 2, result.TotalLikes)

	result, err = svc.ToggleLike(context.Background(), 42, item.ID)
	require.NoError(t, err)
	assert.False(t, result.Liked)
	assert.Equal(t, 1, result.TotalLikes)
}

func TestToggleLike_MissingItem(t *testing.T) {
	svc, _, _, _, _ := newCollectionServiceForTest()

	_, err := svc.ToggleLike(context.Background(), 42, 99)
	assert.ErrorIs(t, err, ErrOwnedKitNotFound)
}

func TestGetMine_OtherOwnersItemIsNotFound(t *testing.T) {
	svc, ownedKitRepo, _, _, _ := newCollectionServiceForTest()
	item := &models.OwnedKit{UserID: 7}
	require.NoError(t, ownedKitRepo.Create(context.Background(), nil, item))

	_, err := svc.GetMine(context.Background(), 8, item.ID)
	assert.ErrorIs(t, err, ErrOwnedKitNotFound)

	got, err := svc.GetMine(context.Background(), 7, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, got.ID)
}

func TestDelete_RemovesRowAndBlobs(t *testing.T) {
	svc, ownedKitRepo, imageRepo, _, uploader := newCollectionServiceForTest()
	item := &models.OwnedKit{UserID: 7}
	require.NoError(t, ownedKitRepo.Create(context.Background(), nil, item))
	seedImages(t, imageRepo, item.ID, "k/a.jpg", "k/b.jpg")

	require.NoError(t, svc.Delete(context.Background(), 7, item.ID))

	_, err := ownedKitRepo.GetByID(context.Background(), item.ID)
	assert.Error(t, err)
	assert.ElementsMatch(t, []string{"k/a.jpg", "k/b.jpg"}, uploader.deleted)
}

func TestListByUsername_AnnotatesViewerLikes(t *testing.T) {
	svc, ownedKitRepo, _, userRepo, _ := newCollectionServiceForTest()

	owner := &models.User{Username: "owner"}
	require.NoError(t, userRepo.Create(context.Background(), nil, owner))

	liked := &models.OwnedKit{UserID: owner.ID}
	plain := &models.OwnedKit{UserID: owner.ID}
	require.NoError(t, ownedKitRepo.Create(context.Background(), nil, liked))
	require.NoError(t, ownedKitRepo.Create(context.Background(), nil, plain))
	require.NoError(t, ownedKitRepo.AddLike(context.Background(), nil, liked.ID, 42))

	items, err := svc.ListByUsername(context.Background(), "owner", 42)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.True(t, items[0].LikedByMe)
	assert.False(t, items[1].LikedByMe)

	// Anonymous viewers never see a liked flag.
	items, err = svc.ListByUsername(context.Background(), "owner", 0)
	require.NoError(t, err)
	assert.False(t, items[0].LikedByMe)

	_, err = svc.ListByUsername(context.Background(), "nobody", 0)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestStatsByUsername(t *testing.T) {
	svc, ownedKitRepo, _, userRepo, _ := newCollectionServiceForTest()

	owner := &models.User{Username: "owner"}
	require.NoError(t, userRepo.Create(context.Background(), nil, owner))

	first := &models.OwnedKit{UserID: owner.ID, FinalValue: decimal.RequireFromString("120.50")}
	second := &models.OwnedKit{UserID: owner.ID, FinalValue: decimal.RequireFromString("30.25")}
	require.NoError(t, ownedKitRepo.Create(context.Background(), nil, first))
	require.NoError(t, ownedKitRepo.Create(context.Background(), nil, second))
	require.NoError(t, ownedKitRepo.AddLike(context.Background(), nil, first.ID, 42))
	require.NoError(t, ownedKitRepo.AddLike(context.Background(), nil, first.ID, 43))

	stats, err := svc.StatsByUsername(context.Background(), "owner")
	require.NoError(t, err)
	assert.Equal(t, "owner", stats.Username)
	assert.Equal(t, 2, stats.TotalKits)
	assert.True(t, stats.TotalValue.Equal(decimal.RequireFromString("150.75")))
	assert.Equal(t, 2, stats.LikesReceived)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
