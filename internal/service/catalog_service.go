package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"shopcore/internal/domain"
	"shopcore/internal/repository"
)

var (
	ErrInvalidPrice     = errors.New("price must be a finite non-negative number")
	ErrCategoryRequired = errors.New("either category_id or category_name is required")
)

// CreateCategoryInput carries the fields for an explicit category create
type CreateCategoryInput struct {
	Name  string
	Image *string
}

// CreateProductInput carries the fields for a product create. Exactly one of
// CategoryID or CategoryName must be supplied; a name is resolved to an id
// via ResolveOrCreateCategory before the insert.
type CreateProductInput struct {
	Name           string
	Price          float64
	CategoryID     *int64
	CategoryName   *string
	Color          *string
	Colors         []string
	Rating         *float64
	ReviewCount    *int
	Description    *string
	Image          *string
	Features       []string
	Specifications []domain.Spec
	Tags           []string
	InStock        *bool
}

// UpdateProductInput is a sparse update: nil fields are left untouched.
type UpdateProductInput struct {
	Name           *string
	Price          *float64
	CategoryID     *int64
	CategoryName   *string
	Color          *string
	Colors         []string
	Rating         *float64
	ReviewCount    *int
	Description    *string
	Image          *string
	Features       []string
	Specifications []domain.Spec
	Tags           []string
	InStock        *bool
}

// CatalogService defines the interface for catalog business logic
type CatalogService interface {
	CreateCategory(ctx context.Context, input CreateCategoryInput) (*domain.Category, error)
	ResolveOrCreateCategory(ctx context.Context, name string, image *string) (*domain.Category, error)
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)
	ListCategories(ctx context.Context, offset, limit int) ([]*domain.Category, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, input UpdateProductInput) (*domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	ListProducts(ctx context.Context, categoryID *int64, offset, limit int) ([]*domain.Product, error)
}

type catalogService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(categoryRepo repository.CategoryRepository, productRepo repository.ProductRepository) CatalogService {
	return &catalogService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
	}
}

// CreateCategory creates a category explicitly. A duplicate name surfaces as
// repository.ErrCategoryAlreadyExists so the handler can answer 409.
func (s *catalogService) CreateCategory(ctx context.Context, input CreateCategoryInput) (*domain.Category, error) {
	category := &domain.Category{
		Name:      input.Name,
		Image:     input.Image,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrCategoryAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}

// ResolveOrCreateCategory looks a category up by exact name and creates it if
// absent. On a lookup hit the image argument is ignored: the first write wins
// for the name-to-image association. The lookup-then-insert sequence is only
// an optimization; the unique index on name is the real guard, and losing the
// insert race degrades into a second lookup of the winner's row.
func (s *catalogService) ResolveOrCreateCategory(ctx context.Context, name string, image *string) (*domain.Category, error) {
	category, err := s.categoryRepo.FindByName(ctx, name)
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, repository.ErrCategoryNotFound) {
		return nil, fmt.Errorf("failed to resolve category: %w", err)
	}

	category = &domain.Category{
		Name:      name,
		Image:     image,
		CreatedAt: time.Now().UTC(),
	}

	err = s.categoryRepo.Create(ctx, category)
	if err == nil {
		return category, nil
	}
	if errors.Is(err, repository.ErrCategoryAlreadyExists) {
		// Lost a concurrent insert race; retry as a lookup.
		return s.categoryRepo.FindByName(ctx, name)
	}

	return nil, fmt.Errorf("failed to create category: %w", err)
}

// GetCategory retrieves a category by ID
func (s *catalogService) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	return s.categoryRepo.FindByID(ctx, id)
}

// ListCategories retrieves categories in insertion order
func (s *catalogService) ListCategories(ctx context.Context, offset, limit int) ([]*domain.Category, error) {
	return s.categoryRepo.List(ctx, offset, limit)
}

func validPrice(price float64) bool {
	return !math.IsNaN(price) && !math.IsInf(price, 0) && price >= 0
}

// CreateProduct validates the price, resolves the category, and persists a new
// product. OldPrice starts unset: no prior price exists at creation. An
// explicit category id that does not exist fails against the foreign key.
func (s *catalogService) CreateProduct(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	if !validPrice(input.Price) {
		return nil, ErrInvalidPrice
	}

	categoryID, err := s.resolveCategoryID(ctx, input.CategoryID, input.CategoryName)
	if err != nil {
		return nil, err
	}

	inStock := true
	if input.InStock != nil {
		inStock = *input.InStock
	}

	product := &domain.Product{
		Name:           input.Name,
		Price:          input.Price,
		CategoryID:     categoryID,
		Color:          input.Color,
		Colors:         input.Colors,
		Rating:         input.Rating,
		ReviewCount:    input.ReviewCount,
		Description:    input.Description,
		Image:          input.Image,
		Features:       input.Features,
		Specifications: input.Specifications,
		Tags:           input.Tags,
		InStock:        inStock,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// UpdateProduct applies a sparse update. When a new price is supplied the
// current price is copied into OldPrice strictly before the price field is
// overwritten, so OldPrice always holds the one-step-back snapshot. The price
// is validated before the category branch so a rejected update never creates
// a category as a side effect.
func (s *catalogService) UpdateProduct(ctx context.Context, id int64, input UpdateProductInput) (*domain.Product, error) {
	if input.Price != nil && !validPrice(*input.Price) {
		return nil, ErrInvalidPrice
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.CategoryName != nil && input.CategoryID == nil {
		category, err := s.ResolveOrCreateCategory(ctx, *input.CategoryName, nil)
		if err != nil {
			return nil, err
		}
		product.CategoryID = category.ID
	} else if input.CategoryID != nil {
		product.CategoryID = *input.CategoryID
	}

	if input.Price != nil {
		previous := product.Price
		product.OldPrice = &previous
		product.Price = *input.Price
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Color != nil {
		product.Color = input.Color
	}
	if input.Colors != nil {
		product.Colors = input.Colors
	}
	if input.Rating != nil {
		product.Rating = input.Rating
	}
	if input.ReviewCount != nil {
		product.ReviewCount = input.ReviewCount
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.Image != nil {
		product.Image = input.Image
	}
	if input.Features != nil {
		product.Features = input.Features
	}
	if input.Specifications != nil {
		product.Specifications = input.Specifications
	}
	if input.Tags != nil {
		product.Tags = input.Tags
	}
	if input.InStock != nil {
		product.InStock = *input.InStock
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// GetProduct retrieves a product by ID
func (s *catalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

// ListProducts retrieves products in insertion order
func (s *catalogService) ListProducts(ctx context.Context, categoryID *int64, offset, limit int) ([]*domain.Product, error) {
	return s.productRepo.List(ctx, categoryID, offset, limit)
}

func (s *catalogService) resolveCategoryID(ctx context.Context, categoryID *int64, categoryName *string) (int64, error) {
	if categoryID != nil {
		return *categoryID, nil
	}
	if categoryName != nil && *categoryName != "" {
		category, err := s.ResolveOrCreateCategory(ctx, *categoryName, nil)
		if err != nil {
			return 0, err
		}
		return category.ID, nil
	}
	return 0, ErrCategoryRequired
}
