package services

import (
	"context"
	"fmt"

	"github.com/DeporS/worn11/models"
	"github.com/DeporS/worn11/repositories"
	"github.com/DeporS/worn11/storage"
)

type CatalogService interface {
	// ListKits returns the public catalog of kit definitions, optionally
	// filtered to a single team.
	ListKits(ctx context.Context, teamID *int) ([]models.Kit, error)
}

type catalogService struct {
	kitRepo  repositories.KitRepository
	uploader storage.FileUploader
}

func NewCatalogService(kitRepo repositories.KitRepository, uploader storage.FileUploader) CatalogService {
	return &catalogService{
		kitRepo:  kitRepo,
		uploader: uploader,
	}
}

func (s *catalogService) ListKits(ctx context.Context, teamID *int) ([]models.Kit, error) {
	kits, err := s.kitRepo.ListCatalog(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list kit catalog: %w", err)
	}
	for i := range kits {
		populateKitImageURL(&kits[i], s.uploader)
	}
	return kits, nil
}
