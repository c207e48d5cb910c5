package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shopcore/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrCategoryNotFound      = errors.New("category not found")
	ErrCategoryAlreadyExists = errors.New("category with this name already exists")
)

// Postgres error codes for constraint violations
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	FindByID(ctx context.Context, id int64) (*domain.Category, error)
	FindByName(ctx context.Context, name string) (*domain.Category, error)
	List(ctx context.Context, offset, limit int) ([]*domain.Category, error)
}

type categoryRepository struct {
	db *sql.DB
}

// NewCategoryRepository creates a new instance of CategoryRepository
func NewCategoryRepository(db *sql.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// Create inserts a new category and fills in the generated id. The unique
// index on name is the authoritative guard against concurrent duplicate
// inserts; a violation surfaces as ErrCategoryAlreadyExists so callers can
// retry as a lookup.
func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	query := `
		INSERT INTO categories (name, image, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		category.Name,
		category.Image,
		category.CreatedAt,
	).Scan(&category.ID)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrCategoryAlreadyExists
		}
		return fmt.Errorf("failed to create category: %w", err)
	}

	return nil
}

// FindByID retrieves a category by ID using parameterized queries
func (r *categoryRepository) FindByID(ctx context.Context, id int64) (*domain.Category, error) {
	query := `
		SELECT id, name, image, created_at
		FROM categories
		WHERE id = $1
	`

	category := &domain.Category{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&category.ID,
		&category.Name,
		&category.Image,
		&category.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category by ID: %w", err)
	}

	return category, nil
}

// FindByName retrieves a category by its exact name
func (r *categoryRepository) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	query := `
		SELECT id, name, image, created_at
		FROM categories
		WHERE name = $1
	`

	category := &domain.Category{}
	err := r.db.QueryRowContext(ctx, query, name).Scan(
		&category.ID,
		&category.Name,
		&category.Image,
		&category.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category by name: %w", err)
	}

	return category, nil
}

// List retrieves categories in insertion order with offset/limit pagination.
// An offset past the end yields an empty slice, not an error.
func (r *categoryRepository) List(ctx context.Context, offset, limit int) ([]*domain.Category, error) {
	query := `
		SELECT id, name, image, created_at
		FROM categories
		ORDER BY id ASC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []*domain.Category{}
	for rows.Next() {
		category := &domain.Category{}
		err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.Image,
			&category.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}
