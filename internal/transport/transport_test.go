package transport

import (
	"context"
	"fmt"
	"io"
	"time"

	"shopcore/internal/domain"
	"shopcore/internal/media"
	"shopcore/internal/repository"
)

// In-memory repositories backing the handler tests. The real services run on
// top of them so the tests exercise the full request path below the router.

type fakeCategoryRepo struct {
	byID   map[int64]*domain.Category
	byName map[string]*domain.Category
	nextID int64
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{
		byID:   make(map[int64]*domain.Category),
		byName: make(map[string]*domain.Category),
	}
}

func (f *fakeCategoryRepo) Create(ctx context.Context, category *domain.Category) error {
	if _, exists := f.byName[category.Name]; exists {
		return repository.ErrCategoryAlreadyExists
	}
	f.nextID++
	category.ID = f.nextID
	stored := *category
	f.byID[category.ID] = &stored
	f.byName[category.Name] = &stored
	return nil
}

func (f *fakeCategoryRepo) FindByID(ctx context.Context, id int64) (*domain.Category, error) {
	category, exists := f.byID[id]
	if !exists {
		return nil, repository.ErrCategoryNotFound
	}
	copied := *category
	return &copied, nil
}

func (f *fakeCategoryRepo) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	category, exists := f.byName[name]
	if !exists {
		return nil, repository.ErrCategoryNotFound
	}
	copied := *category
	return &copied, nil
}

func (f *fakeCategoryRepo) List(ctx context.Context, offset, limit int) ([]*domain.Category, error) {
	categories := []*domain.Category{}
	for id := int64(1); id <= f.nextID; id++ {
		if category, exists := f.byID[id]; exists {
			copied := *category
			categories = append(categories, &copied)
		}
	}
	if offset >= len(categories) {
		return []*domain.Category{}, nil
	}
	end := offset + limit
	if end > len(categories) {
		end = len(categories)
	}
	return categories[offset:end], nil
}

type fakeProductRepo struct {
	categories *fakeCategoryRepo
	byID       map[int64]*domain.Product
	nextID     int64
}

func newFakeProductRepo(categories *fakeCategoryRepo) *fakeProductRepo {
	return &fakeProductRepo{
		categories: categories,
		byID:       make(map[int64]*domain.Product),
	}
}

func (f *fakeProductRepo) Create(ctx context.Context, product *domain.Product) error {
	if _, exists := f.categories.byID[product.CategoryID]; !exists {
		return repository.ErrProductCategoryMissing
	}
	f.nextID++
	product.ID = f.nextID
	stored := *product
	f.byID[product.ID] = &stored
	return nil
}

func (f *fakeProductRepo) Update(ctx context.Context, product *domain.Product) error {
	if _, exists := f.byID[product.ID]; !exists {
		return repository.ErrProductNotFound
	}
	if _, exists := f.categories.byID[product.CategoryID]; !exists {
		return repository.ErrProductCategoryMissing
	}
	stored := *product
	f.byID[product.ID] = &stored
	return nil
}

func (f *fakeProductRepo) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	product, exists := f.byID[id]
	if !exists {
		return nil, repository.ErrProductNotFound
	}
	copied := *product
	return &copied, nil
}

func (f *fakeProductRepo) List(ctx context.Context, categoryID *int64, offset, limit int) ([]*domain.Product, error) {
	products := []*domain.Product{}
	for id := int64(1); id <= f.nextID; id++ {
		product, exists := f.byID[id]
		if !exists {
			continue
		}
		if categoryID != nil && product.CategoryID != *categoryID {
			continue
		}
		copied := *product
		products = append(products, &copied)
	}
	if offset >= len(products) {
		return []*domain.Product{}, nil
	}
	end := offset + limit
	if end > len(products) {
		end = len(products)
	}
	return products[offset:end], nil
}

type fakeUserRepo struct {
	byEmail map[string]*domain.User
	nextID  int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*domain.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	if _, exists := f.byEmail[user.Email]; exists {
		return repository.ErrUserAlreadyExists
	}
	f.nextID++
	user.ID = f.nextID
	stored := *user
	f.byEmail[user.Email] = &stored
	return nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, exists := f.byEmail[email]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	for _, user := range f.byEmail {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

type fakeImageRepo struct {
	images []*domain.Image
	nextID int64
}

func (f *fakeImageRepo) Create(ctx context.Context, image *domain.Image) error {
	f.nextID++
	image.ID = f.nextID
	image.CreatedAt = time.Now()
	stored := *image
	f.images = append(f.images, &stored)
	return nil
}

func (f *fakeImageRepo) FindByID(ctx context.Context, id int64) (*domain.Image, error) {
	for _, image := range f.images {
		if image.ID == id {
			copied := *image
			return &copied, nil
		}
	}
	return nil, repository.ErrImageNotFound
}

func (f *fakeImageRepo) List(ctx context.Context, offset, limit int) ([]*domain.Image, error) {
	if offset >= len(f.images) {
		return []*domain.Image{}, nil
	}
	end := offset + limit
	if end > len(f.images) {
		end = len(f.images)
	}
	return f.images[offset:end], nil
}

type fakeUploader struct {
	uploads []string
}

func (f *fakeUploader) Upload(ctx context.Context, file io.Reader, publicID, folder string) (*media.UploadResult, error) {
	f.uploads = append(f.uploads, publicID)
	return &media.UploadResult{
		URL:      fmt.Sprintf("https://res.example.com/%s", publicID),
		PublicID: publicID,
	}, nil
}
