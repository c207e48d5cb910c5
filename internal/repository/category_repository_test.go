package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"shopcore/internal/domain"
)

func TestCategoryRepository_CreateAndFind(t *testing.T) {
	repo := NewCategoryRepository(testDB)
	ctx := context.Background()

	image := "https://res.example.com/categories/placeholder.png"
	category := &domain.Category{
		Name:      "Electronics",
		Image:     &image,
		CreatedAt: time.Now(),
	}

	if err := repo.Create(ctx, category); err != nil {
		t.Fatalf("failed to create category: %v", err)
	}
	if category.ID == 0 {
		t.Fatal("expected a generated id")
	}

	byID, err := repo.FindByID(ctx, category.ID)
	if err != nil {
		t.Fatalf("failed to find category by id: %v", err)
	}
	if byID.Name != "Electronics" || byID.Image == nil || *byID.Image != image {
		t.Fatalf("category round trip mismatch: %+v", byID)
	}

	byName, err := repo.FindByName(ctx, "Electronics")
	if err != nil {
		t.Fatalf("failed to find category by name: %v", err)
	}
	if byName.ID != category.ID {
		t.Fatalf("expected id %d from name lookup, got %d", category.ID, byName.ID)
	}
}

func TestCategoryRepository_DuplicateNameConflicts(t *testing.T) {
	repo := NewCategoryRepository(testDB)
	ctx := context.Background()

	first := &domain.Category{Name: "Shoes", CreatedAt: time.Now()}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("failed to create category: %v", err)
	}

	second := &domain.Category{Name: "Shoes", CreatedAt: time.Now()}
	err := repo.Create(ctx, second)
	if !errors.Is(err, ErrCategoryAlreadyExists) {
		t.Fatalf("expected ErrCategoryAlreadyExists, got %v", err)
	}
}

func TestCategoryRepository_FindMissing(t *testing.T) {
	repo := NewCategoryRepository(testDB)
	ctx := context.Background()

	if _, err := repo.FindByID(ctx, 999999); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound for id lookup, got %v", err)
	}
	if _, err := repo.FindByName(ctx, "no-such-category"); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound for name lookup, got %v", err)
	}
}

func TestCategoryRepository_ListPagination(t *testing.T) {
	repo := NewCategoryRepository(testDB)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		category := &domain.Category{
			Name:      fmt.Sprintf("page-cat-%d", i),
			CreatedAt: time.Now(),
		}
		if err := repo.Create(ctx, category); err != nil {
			t.Fatalf("failed to seed category %d: %v", i, err)
		}
	}

	all, err := repo.List(ctx, 0, 1000)
	if err != nil {
		t.Fatalf("failed to list categories: %v", err)
	}
	if len(all) < 5 {
		t.Fatalf("expected at least 5 categories, got %d", len(all))
	}
	// Insertion order
	for i := 1; i < len(all); i++ {
		if all[i-1].ID >= all[i].ID {
			t.Fatalf("expected ascending ids, got %d before %d", all[i-1].ID, all[i].ID)
		}
	}

	// An offset past the end yields an empty slice, not an error
	past, err := repo.List(ctx, len(all)+100, 10)
	if err != nil {
		t.Fatalf("failed to list past the end: %v", err)
	}
	if len(past) != 0 {
		t.Fatalf("expected an empty page past the end, got %d rows", len(past))
	}
}
