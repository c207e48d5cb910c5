package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shopcore/internal/domain"
)

var ErrImageNotFound = errors.New("image not found")

// ImageRepository defines the interface for image record data access
type ImageRepository interface {
	Create(ctx context.Context, image *domain.Image) error
	FindByID(ctx context.Context, id int64) (*domain.Image, error)
	List(ctx context.Context, offset, limit int) ([]*domain.Image, error)
}

type imageRepository struct {
	db *sql.DB
}

// NewImageRepository creates a new instance of ImageRepository
func NewImageRepository(db *sql.DB) ImageRepository {
	return &imageRepository{db: db}
}

// Create inserts a new image record and fills in the generated id
func (r *imageRepository) Create(ctx context.Context, image *domain.Image) error {
	query := `
		INSERT INTO images (url, public_id, user_id, product_id, category_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		image.URL,
		image.PublicID,
		image.UserID,
		image.ProductID,
		image.CategoryID,
		image.CreatedAt,
	).Scan(&image.ID)

	if err != nil {
		return fmt.Errorf("failed to create image record: %w", err)
	}

	return nil
}

// FindByID retrieves an image record by ID
func (r *imageRepository) FindByID(ctx context.Context, id int64) (*domain.Image, error) {
	query := `
		SELECT id, url, public_id, user_id, product_id, category_id, created_at
		FROM images
		WHERE id = $1
	`

	image := &domain.Image{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&image.ID,
		&image.URL,
		&image.PublicID,
		&image.UserID,
		&image.ProductID,
		&image.CategoryID,
		&image.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrImageNotFound
		}
		return nil, fmt.Errorf("failed to find image by ID: %w", err)
	}

	return image, nil
}

// List retrieves image records in insertion order
func (r *imageRepository) List(ctx context.Context, offset, limit int) ([]*domain.Image, error) {
	query := `
		SELECT id, url, public_id, user_id, product_id, category_id, created_at
		FROM images
		ORDER BY id ASC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	defer rows.Close()

	images := []*domain.Image{}
	for rows.Next() {
		image := &domain.Image{}
		err := rows.Scan(
			&image.ID,
			&image.URL,
			&image.PublicID,
			&image.UserID,
			&image.ProductID,
			&image.CategoryID,
			&image.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		images = append(images, image)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating images: %w", err)
	}

	return images, nil
}
