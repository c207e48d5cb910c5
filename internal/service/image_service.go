package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"shopcore/internal/domain"
	"shopcore/internal/media"
	"shopcore/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrOwnerRequired  = errors.New("exactly one of user_id, product_id or category_id is required")
	ErrMultipleOwners = errors.New("provide only one of user_id, product_id or category_id")
	ErrNotAnImage     = errors.New("file must be an image")
	ErrUploadFailed   = errors.New("image host upload failed")
)

// UploadFile is a single file from a multipart request
type UploadFile struct {
	Filename    string
	ContentType string
	Reader      io.Reader
}

// OwnerRef identifies the single entity an upload is attached to
type OwnerRef struct {
	UserID     *int64
	ProductID  *int64
	CategoryID *int64
}

// ImageService defines the interface for image attachment logic
type ImageService interface {
	Upload(ctx context.Context, files []UploadFile, owner OwnerRef) ([]*domain.Image, error)
}

type imageService struct {
	imageRepo    repository.ImageRepository
	userRepo     repository.UserRepository
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	uploader     media.Uploader
}

// NewImageService creates a new instance of ImageService
func NewImageService(
	imageRepo repository.ImageRepository,
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	uploader media.Uploader,
) ImageService {
	return &imageService{
		imageRepo:    imageRepo,
		userRepo:     userRepo,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		uploader:     uploader,
	}
}

// Upload validates the owner reference and every file before touching the
// image host, then uploads the batch in order. A host failure aborts the
// remaining files; files already accepted by the host are not deleted, so a
// mid-batch failure can leave orphans on the host side.
func (s *imageService) Upload(ctx context.Context, files []UploadFile, owner OwnerRef) ([]*domain.Image, error) {
	folder, err := s.checkOwner(ctx, owner)
	if err != nil {
		return nil, err
	}

	for _, file := range files {
		if !strings.HasPrefix(file.ContentType, "image/") {
			return nil, fmt.Errorf("%w: %s has content type %s", ErrNotAnImage, file.Filename, file.ContentType)
		}
	}

	images := []*domain.Image{}
	for _, file := range files {
		publicID := fmt.Sprintf("%s/%s_%s", folder, uuid.New().String(), file.Filename)

		result, err := s.uploader.Upload(ctx, file.Reader, publicID, folder)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrUploadFailed, file.Filename, err)
		}

		image := &domain.Image{
			URL:        result.URL,
			PublicID:   result.PublicID,
			UserID:     owner.UserID,
			ProductID:  owner.ProductID,
			CategoryID: owner.CategoryID,
			CreatedAt:  time.Now().UTC(),
		}

		if err := s.imageRepo.Create(ctx, image); err != nil {
			return nil, err
		}
		images = append(images, image)
	}

	return images, nil
}

// checkOwner enforces the exactly-one-owner rule and verifies the referenced
// entity exists. Returns the host-side folder for the owner.
func (s *imageService) checkOwner(ctx context.Context, owner OwnerRef) (string, error) {
	provided := 0
	if owner.UserID != nil {
		provided++
	}
	if owner.ProductID != nil {
		provided++
	}
	if owner.CategoryID != nil {
		provided++
	}
	if provided == 0 {
		return "", ErrOwnerRequired
	}
	if provided > 1 {
		return "", ErrMultipleOwners
	}

	switch {
	case owner.UserID != nil:
		if _, err := s.userRepo.FindByID(ctx, *owner.UserID); err != nil {
			return "", err
		}
		return fmt.Sprintf("users/%d", *owner.UserID), nil
	case owner.ProductID != nil:
		if _, err := s.productRepo.FindByID(ctx, *owner.ProductID); err != nil {
			return "", err
		}
		return fmt.Sprintf("products/%d", *owner.ProductID), nil
	default:
		if _, err := s.categoryRepo.FindByID(ctx, *owner.CategoryID); err != nil {
			return "", err
		}
		return fmt.Sprintf("categories/%d", *owner.CategoryID), nil
	}
}
