package media

import (
	"context"
	"fmt"
	"io"

	"shopcore/internal/config"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// UploadResult holds the durable reference returned by the image host.
type UploadResult struct {
	URL      string
	PublicID string
}

// Uploader sends a file to the external image host and returns a durable URL
// plus the host-side storage reference.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, publicID, folder string) (*UploadResult, error)
}

type cloudinaryUploader struct {
	client *cloudinary.Cloudinary
}

// NewCloudinaryUploader creates an Uploader backed by Cloudinary
func NewCloudinaryUploader(cfg *config.CloudinaryConfig) (Uploader, error) {
	client, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary client: %w", err)
	}
	return &cloudinaryUploader{client: client}, nil
}

// Upload pushes a single file to Cloudinary under the given public id
func (u *cloudinaryUploader) Upload(ctx context.Context, file io.Reader, publicID, folder string) (*UploadResult, error) {
	resp, err := u.client.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID:       publicID,
		Folder:         folder,
		UniqueFilename: api.Bool(false),
		Overwrite:      api.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload failed: %w", err)
	}
	if resp.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary upload failed: %s", resp.Error.Message)
	}
	if resp.SecureURL == "" {
		return nil, fmt.Errorf("cloudinary returned no secure URL")
	}

	return &UploadResult{
		URL:      resp.SecureURL,
		PublicID: resp.PublicID,
	}, nil
}
