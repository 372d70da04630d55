package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/DeporS/worn11/models"
	"github.com/DeporS/worn11/repositories"
	"github.com/DeporS/worn11/storage"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// CollectionItemInput is the full form submitted on create and update. The
// image edits ride along: ids to delete, raw images_order payload, and the
// uploaded files themselves are passed separately as ImageUpload values.
type CollectionItemInput struct {
	TeamName        string
	Season          string
	KitType         string
	Size            string
	Condition       string
	ShirtTechnology string
	PlayerName      *string
	PlayerNumber    *string
	ForSale         bool
	OfferLink       *string
	ManualValue     *decimal.Decimal

	DeleteImageIDs []int
	ImagesOrder    string
}

type ImageUpload struct {
	Content     io.Reader
	ContentType string
}

type LikeResult struct {
	Liked      bool `json:"liked"`
	TotalLikes int  `json:"total_likes"`
}

type CollectionService interface {
	ListMine(ctx context.Context, userID int) ([]models.OwnedKit, error)
	GetMine(ctx context.Context, userID, ownedKitID int) (*models.OwnedKit, error)
	Create(ctx context.Context, userID int, input CollectionItemInput, uploads []ImageUpload) (*models.OwnedKit, error)
	Update(ctx context.Context, userID, ownedKitID int, input CollectionItemInput, uploads []ImageUpload) (*models.OwnedKit, error)
	Delete(ctx context.Context, userID, ownedKitID int) error
	ToggleLike(ctx context.Context, userID, ownedKitID int) (*LikeResult, error)
	ListByUsername(ctx context.Context, username string, viewerID int) ([]models.OwnedKit, error)
	StatsByUsername(ctx context.Context, username string) (*models.CollectionStats, error)
}

type collectionService struct {
	db           *sql.DB
	ownedKitRepo repositories.OwnedKitRepository
	imageRepo    repositories.OwnedKitImageRepository
	userRepo     repositories.UserRepository
	teamService  TeamService
	uploader     storage.FileUploader
	logger       *slog.Logger
}

func NewCollectionService(
	db *sql.DB,
	ownedKitRepo repositories.OwnedKitRepository,
	imageRepo repositories.OwnedKitImageRepository,
	userRepo repositories.UserRepository,
	teamService TeamService,
	uploader storage.FileUploader,
	logger *slog.Logger,
) CollectionService {
	return &collectionService{
		db:           db,
		ownedKitRepo: ownedKitRepo,
		imageRepo:    imageRepo,
		userRepo:     userRepo,
		teamService:  teamService,
		uploader:     uploader,
		logger:       logger,
	}
}

func (s *collectionService) ListMine(ctx context.Context, userID int) ([]models.OwnedKit, error) {
	return s.listForUser(ctx, userID, userID)
}

func (s *collectionService) GetMine(ctx context.Context, userID, ownedKitID int) (*models.OwnedKit, error) {
	ownedKit, err := s.getOwned(ctx, userID, ownedKitID)
	if err != nil {
		return nil, err
	}

	images, err := s.imageRepo.ListByOwnedKitID(ctx, nil, ownedKit.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	ownedKit.Images = images
	populateOwnedKitDetails(ownedKit, s.uploader)
	return ownedKit, nil
}

// Create resolves the kit definition, computes the final value and persists
// the item together with its image edits in one transaction. A failed write
// deletes the blobs uploaded for it, so they do not leak.
func (s *collectionService) Create(ctx context.Context, userID int, input CollectionItemInput, uploads []ImageUpload) (*models.OwnedKit, error) {
	uploaded, err := s.uploadImages(ctx, uploads)
	if err != nil {
		return nil, err
	}

	ownedKit := &models.OwnedKit{UserID: userID}
	var deletedKeys []string
	err = s.runInTx(ctx, func(exec repositories.SQLExecutor) error {
		kit, err := s.teamService.ResolveKit(ctx, exec, ResolveKitInput{
			TeamName: input.TeamName,
			Season:   input.Season,
			KitType:  input.KitType,
		})
		if err != nil {
			return err
		}

		ownedKit.KitID = kit.ID
		ownedKit.Kit = kit
		applyItemInput(ownedKit, input)
		ownedKit.RefreshFinalValue()

		if err := s.ownedKitRepo.Create(ctx, exec, ownedKit); err != nil {
			return fmt.Errorf("failed to create owned kit: %w", err)
		}

		deletedKeys, err = s.applyImageEdits(ctx, exec, ownedKit.ID, input, uploaded)
		return err
	})
	if err != nil {
		s.deleteBlobs(ctx, uploaded)
		return nil, err
	}

	s.deleteBlobs(ctx, deletedKeys)
	return s.GetMine(ctx, userID, ownedKit.ID)
}

// Update rewrites the item from the submitted form, re-resolves the kit
// definition, recomputes the final value and reconciles the image set. The
// whole write happens in one transaction; a failed write deletes the blobs
// uploaded for it.
func (s *collectionService) Update(ctx context.Context, userID, ownedKitID int, input CollectionItemInput, uploads []ImageUpload) (*models.OwnedKit, error) {
	ownedKit, err := s.getOwned(ctx, userID, ownedKitID)
	if err != nil {
		return nil, err
	}

	uploaded, err := s.uploadImages(ctx, uploads)
	if err != nil {
		return nil, err
	}

	var deletedKeys []string
	err = s.runInTx(ctx, func(exec repositories.SQLExecutor) error {
		kit, err := s.teamService.ResolveKit(ctx, exec, ResolveKitInput{
			TeamName: input.TeamName,
			Season:   input.Season,
			KitType:  input.KitType,
		})
		if err != nil {
			return err
		}

		ownedKit.KitID = kit.ID
		ownedKit.Kit = kit
		applyItemInput(ownedKit, input)
		ownedKit.RefreshFinalValue()

		if err := s.ownedKitRepo.Update(ctx, exec, ownedKit); err != nil {
			return fmt.Errorf("failed to update owned kit: %w", err)
		}

		deletedKeys, err = s.applyImageEdits(ctx, exec, ownedKit.ID, input, uploaded)
		return err
	})
	if err != nil {
		s.deleteBlobs(ctx, uploaded)
		return nil, err
	}

	s.deleteBlobs(ctx, deletedKeys)
	return s.GetMine(ctx, userID, ownedKitID)
}

func applyItemInput(ownedKit *models.OwnedKit, input CollectionItemInput) {
	ownedKit.ShirtTechnology = input.ShirtTechnology
	ownedKit.Condition = input.Condition
	ownedKit.Size = input.Size
	ownedKit.PlayerName = input.PlayerName
	ownedKit.PlayerNumber = input.PlayerNumber
	ownedKit.ForSale = input.ForSale
	ownedKit.OfferLink = input.OfferLink
	ownedKit.ManualValue = input.ManualValue
}

func (s *collectionService) Delete(ctx context.Context, userID, ownedKitID int) error {
	ownedKit, err := s.getOwned(ctx, userID, ownedKitID)
	if err != nil {
		return err
	}

	images, err := s.imageRepo.ListByOwnedKitID(ctx, nil, ownedKit.ID)
	if err != nil {
		return fmt.Errorf("failed to list images: %w", err)
	}

	if err := s.ownedKitRepo.Delete(ctx, ownedKit.ID); err != nil {
		return fmt.Errorf("failed to delete owned kit: %w", err)
	}

	keys := make([]string, 0, len(images))
	for _, img := range images {
		keys = append(keys, img.ImageKey)
	}
	s.deleteBlobs(ctx, keys)
	return nil
}

// ToggleLike flips the caller's membership in the liking set and reports the
// new state with the resulting count. Two toggles in a row land back on the
// starting state and count.
func (s *collectionService) ToggleLike(ctx context.Context, userID, ownedKitID int) (*LikeResult, error) {
	if _, err := s.ownedKitRepo.GetByID(ctx, ownedKitID); err != nil {
		if errors.Is(err, repositories.ErrOwnedKitNotFound) {
			return nil, ErrOwnedKitNotFound
		}
		return nil, fmt.Errorf("failed to get owned kit: %w", err)
	}

	var result LikeResult
	err := s.runInTx(ctx, func(exec repositories.SQLExecutor) error {
		liked, err := s.ownedKitRepo.IsLikedBy(ctx, exec, ownedKitID, userID)
		if err != nil {
			return fmt.Errorf("failed to check like state: %w", err)
		}

		if liked {
			err = s.ownedKitRepo.RemoveLike(ctx, exec, ownedKitID, userID)
		} else {
			err = s.ownedKitRepo.AddLike(ctx, exec, ownedKitID, userID)
		}
		if err != nil {
			return fmt.Errorf("failed to toggle like: %w", err)
		}

		count, err := s.ownedKitRepo.CountLikes(ctx, exec, ownedKitID)
		if err != nil {
			return fmt.Errorf("failed to count likes: %w", err)
		}

		result = LikeResult{Liked: !liked, TotalLikes: count}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *collectionService) ListByUsername(ctx context.Context, username string, viewerID int) ([]models.OwnedKit, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return s.listForUser(ctx, user.ID, viewerID)
}

func (s *collectionService) StatsByUsername(ctx context.Context, username string) (*models.CollectionStats, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	stats, err := s.ownedKitRepo.StatsByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	stats.Username = user.Username
	return stats, nil
}

func (s *collectionService) listForUser(ctx context.Context, ownerID, viewerID int) ([]models.OwnedKit, error) {
	items, err := s.ownedKitRepo.ListByUserID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list owned kits: %w", err)
	}

	ids := make([]int, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}

	imagesByKit, err := s.imageRepo.ListByOwnedKitIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}

	var likedSet map[int]bool
	if viewerID > 0 {
		likedSet, err = s.ownedKitRepo.LikedSetForUser(ctx, viewerID, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to load liked set: %w", err)
		}
	}

	for i := range items {
		item := &items[i]
		item.Images = imagesByKit[item.ID]
		item.LikedByMe = likedSet[item.ID]
		populateOwnedKitDetails(item, s.uploader)
	}
	return items, nil
}

// runInTx wraps fn in a transaction when a pool is configured; without one the
// steps run directly against the repositories' own connections.
func (s *collectionService) runInTx(ctx context.Context, fn func(repositories.SQLExecutor) error) error {
	if s.db == nil {
		return fn(nil)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// getOwned loads an owned kit and enforces that it belongs to the caller.
// Items outside the caller's collection come back as not found, never as
// forbidden, so ids cannot be probed.
func (s *collectionService) getOwned(ctx context.Context, userID, ownedKitID int) (*models.OwnedKit, error) {
	ownedKit, err := s.ownedKitRepo.GetByID(ctx, ownedKitID)
	if err != nil {
		if errors.Is(err, repositories.ErrOwnedKitNotFound) {
			return nil, ErrOwnedKitNotFound
		}
		return nil, fmt.Errorf("failed to get owned kit: %w", err)
	}
	if ownedKit.UserID != userID {
		return nil, ErrOwnedKitNotFound
	}
	return ownedKit, nil
}

// uploadImages streams the new files to the blob store before the database
// transaction opens, so the tx only writes rows.
func (s *collectionService) uploadImages(ctx context.Context, uploads []ImageUpload) ([]string, error) {
	keys := make([]string, 0, len(uploads))
	for _, upload := range uploads {
		ext, err := GetExtensionFromContentType(upload.ContentType)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
		}
		key := fmt.Sprintf("owned_kits/%s%s", uuid.NewString(), ext)
		if _, err := s.uploader.Upload(ctx, key, upload.ContentType, upload.Content); err != nil {
			s.deleteBlobs(ctx, keys)
			return nil, fmt.Errorf("failed to upload image: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// applyImageEdits runs the three image edits in their required order:
// deletions first (stale ids in the reorder list go inert), then row creation
// for the new uploads in arrival order, then the best-effort reorder. Returns
// the storage keys freed by the deletions.
func (s *collectionService) applyImageEdits(ctx context.Context, exec repositories.SQLExecutor, ownedKitID int, input CollectionItemInput, uploadedKeys []string) ([]string, error) {
	deletedKeys, err := s.imageRepo.DeleteByIDs(ctx, exec, ownedKitID, input.DeleteImageIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to delete images: %w", err)
	}

	newImages := make([]models.OwnedKitImage, 0, len(uploadedKeys))
	for _, key := range uploadedKeys {
		img := models.OwnedKitImage{OwnedKitID: ownedKitID, ImageKey: key}
		if err := s.imageRepo.Create(ctx, exec, &img); err != nil {
			return nil, fmt.Errorf("failed to create image record: %w", err)
		}
		newImages = append(newImages, img)
	}

	tokens, parsed := parseImagesOrder(input.ImagesOrder)
	if !parsed {
		// Reorder is best-effort: a payload we cannot read skips the step,
		// deletions and additions above still stand.
		return deletedKeys, nil
	}

	// Each token owns the slot it was supplied in; an ignored token leaves a
	// gap instead of shifting its neighbors.
	for _, token := range tokens {
		var imageID int
		switch token.kind {
		case tokenImageID:
			imageID = token.value
		case tokenNewIndex:
			if token.value >= len(newImages) {
				continue
			}
			imageID = newImages[token.value].ID
		}
		// The update filters on owned_kit_id, so tokens pointing at other
		// owners' images fall through silently.
		if err := s.imageRepo.UpdatePosition(ctx, exec, ownedKitID, imageID, token.position); err != nil {
			return nil, fmt.Errorf("failed to reorder image %d: %w", imageID, err)
		}
	}
	return deletedKeys, nil
}

// deleteBlobs removes freed objects from the blob store concurrently. Failures
// are logged and swallowed: the rows are already gone and a leaked object is
// cheaper than a failed request.
func (s *collectionService) deleteBlobs(ctx context.Context, keys []string) {
	if len(keys) == 0 || s.uploader == nil {
		return
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, key := range keys {
		key := key
		g.Go(func() error {
			if err := s.uploader.Delete(gctx, key); err != nil && s.logger != nil {
				s.logger.Warn("failed to delete image blob", slog.String("key", key), slog.Any("error", err))
			}
			return nil
		})
	}
	_ = g.Wait()
}
