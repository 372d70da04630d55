package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/DeporS/worn11/models"
	"github.com/DeporS/worn11/repositories"
	"github.com/DeporS/worn11/storage"
	"github.com/google/uuid"
)

type ProfileService interface {
	GetCurrentUser(ctx context.Context, userID int) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateBio(ctx context.Context, userID int, bio string) (*models.Profile, error)
	UpdateAvatar(ctx context.Context, userID int, file io.Reader, contentType string) (*models.Profile, error)

	// ProfileOf never fails on a missing profile row: flags default to false.
	ProfileOf(ctx context.Context, userID int) (*models.Profile, error)
}

type profileService struct {
	userRepo    repositories.UserRepository
	profileRepo repositories.ProfileRepository
	uploader    storage.FileUploader
}

func NewProfileService(userRepo repositories.UserRepository, profileRepo repositories.ProfileRepository, uploader storage.FileUploader) ProfileService {
	return &profileService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		uploader:    uploader,
	}
}

func (s *profileService) GetCurrentUser(ctx context.Context, userID int) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return s.attachProfile(ctx, user)
}

func (s *profileService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return s.attachProfile(ctx, user)
}

func (s *profileService) UpdateBio(ctx context.Context, userID int, bio string) (*models.Profile, error) {
	profile, err := s.ProfileOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile.Bio = bio
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	populateProfileAvatarURL(profile, s.uploader)
	return profile, nil
}

func (s *profileService) UpdateAvatar(ctx context.Context, userID int, file io.Reader, contentType string) (*models.Profile, error) {
	profile, err := s.ProfileOf(ctx, userID)
	if err != nil {
		return nil, err
	}

	ext, err := GetExtensionFromContentType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	key := fmt.Sprintf("profile_avatars/%d/%s%s", userID, uuid.NewString(), ext)
	if _, err := s.uploader.Upload(ctx, key, contentType, file); err != nil {
		return nil, fmt.Errorf("failed to upload avatar: %w", err)
	}

	oldKey := profile.AvatarKey
	if err := s.profileRepo.UpdateAvatarKey(ctx, userID, &key); err != nil {
		return nil, fmt.Errorf("failed to store avatar key: %w", err)
	}
	if oldKey != nil && *oldKey != "" {
		// Previous avatar is unreachable now; losing the delete is harmless.
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	profile.AvatarKey = &key
	populateProfileAvatarURL(profile, s.uploader)
	return profile, nil
}

func (s *profileService) ProfileOf(ctx context.Context, userID int) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return &models.Profile{UserID: userID}, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

func (s *profileService) attachProfile(ctx context.Context, user *models.User) (*models.User, error) {
	profile, err := s.ProfileOf(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	populateProfileAvatarURL(profile, s.uploader)
	user.Profile = profile
	user.PasswordHash = ""
	return user, nil
}
