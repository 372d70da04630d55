package services

import (
	"fmt"
	"strings"

	"github.com/DeporS/worn11/models"
	"github.com/DeporS/worn11/storage"
)

func populateTeamLogoURL(team *models.Team, uploader storage.FileUploader) {
	if team != nil && team.LogoKey != nil && *team.LogoKey != "" && uploader != nil {
		if url := uploader.GetPublicURL(*team.LogoKey); url != "" {
			team.LogoURL = &url
		}
	}
}

func populateKitImageURL(kit *models.Kit, uploader storage.FileUploader) {
	if kit == nil {
		return
	}
	if kit.MainImageKey != nil && *kit.MainImageKey != "" && uploader != nil {
		if url := uploader.GetPublicURL(*kit.MainImageKey); url != "" {
			kit.MainImageURL = &url
		}
	}
	populateTeamLogoURL(kit.Team, uploader)
}

func populateProfileAvatarURL(profile *models.Profile, uploader storage.FileUploader) {
	if profile != nil && profile.AvatarKey != nil && *profile.AvatarKey != "" && uploader != nil {
		if url := uploader.GetPublicURL(*profile.AvatarKey); url != "" {
			profile.AvatarURL = &url
		}
	}
}

func populateOwnedKitDetails(ownedKit *models.OwnedKit, uploader storage.FileUploader) {
	if ownedKit == nil {
		return
	}
	populateKitImageURL(ownedKit.Kit, uploader)
	for i := range ownedKit.Images {
		img := &ownedKit.Images[i]
		if img.ImageKey != "" && uploader != nil {
			if url := uploader.GetPublicURL(img.ImageKey); url != "" {
				img.ImageURL = &url
			}
		}
	}
	ownedKit.PopulateDisplays()
}

// GetExtensionFromContentType maps an image content type to a file extension
// for storage keys.
func GetExtensionFromContentType(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/gif":
		return ".gif", nil
	case "image/webp":
		return ".webp", nil
	default:
		parts := strings.Split(contentType, "/")
		if len(parts) == 2 && parts[0] == "image" && parts[1] != "" {
			return "." + strings.Split(parts[1], "+")[0], nil
		}
		return "", fmt.Errorf("could not determine file extension from content type: %q", contentType)
	}
}
