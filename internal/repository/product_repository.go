package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shopcore/internal/domain"
)

var (
	ErrProductNotFound        = errors.New("product not found")
	ErrProductCategoryMissing = errors.New("referenced category does not exist")
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, categoryID *int64, offset, limit int) ([]*domain.Product, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, name, price, old_price, category_id, color, colors, rating,
	review_count, description, image, features, specifications, tags, in_stock, created_at`

func scanProduct(row interface{ Scan(dest ...interface{}) error }) (*domain.Product, error) {
	product := &domain.Product{}
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Price,
		&product.OldPrice,
		&product.CategoryID,
		&product.Color,
		&product.Colors,
		&product.Rating,
		&product.ReviewCount,
		&product.Description,
		&product.Image,
		&product.Features,
		&product.Specifications,
		&product.Tags,
		&product.InStock,
		&product.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return product, nil
}

// Create inserts a new product and fills in the generated id. The foreign key
// on category_id is the authoritative existence check for explicit category
// ids; a violation surfaces as ErrProductCategoryMissing.
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (name, price, old_price, category_id, color, colors, rating,
			review_count, description, image, features, specifications, tags, in_stock, created_at)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7, $8, $9, $10, $11::jsonb, $12::jsonb, $13::jsonb, $14, $15)
		RETURNING id
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		product.Name,
		product.Price,
		product.OldPrice,
		product.CategoryID,
		product.Color,
		product.Colors,
		product.Rating,
		product.ReviewCount,
		product.Description,
		product.Image,
		product.Features,
		product.Specifications,
		product.Tags,
		product.InStock,
		product.CreatedAt,
	).Scan(&product.ID)

	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrProductCategoryMissing
		}
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update writes the full merged product row. Sparse-update semantics are the
// service's responsibility: it loads the row, applies only the supplied
// fields, then hands the merged entity here.
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $2, price = $3, old_price = $4, category_id = $5, color = $6,
		    colors = $7::jsonb, rating = $8, review_count = $9, description = $10,
		    image = $11, features = $12::jsonb, specifications = $13::jsonb, tags = $14::jsonb, in_stock = $15
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Price,
		product.OldPrice,
		product.CategoryID,
		product.Color,
		product.Colors,
		product.Rating,
		product.ReviewCount,
		product.Description,
		product.Image,
		product.Features,
		product.Specifications,
		product.Tags,
		product.InStock,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrProductCategoryMissing
		}
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// FindByID retrieves a product by ID using parameterized queries
func (r *productRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// List retrieves products in insertion order with offset/limit pagination and
// an optional category filter. An offset past the end yields an empty slice.
func (r *productRepository) List(ctx context.Context, categoryID *int64, offset, limit int) ([]*domain.Product, error) {
	args := []interface{}{limit, offset}
	whereClause := ""
	if categoryID != nil {
		whereClause = "WHERE category_id = $3"
		args = append(args, *categoryID)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		%s
		ORDER BY id ASC
		LIMIT $1 OFFSET $2
	`, productColumns, whereClause)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}
