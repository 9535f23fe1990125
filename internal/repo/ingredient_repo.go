// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Ingredient
// model.
//
// All functions accept a *gorm.DB handle, making them safe for use within
// transactions or connection-scoped operations. They follow the "thin
// repository" approach: no business logic, only CRUD persistence and query
// composition.
//
// Error semantics:
//   - When an ingredient is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/fullydoved/mealz/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateIngredient inserts a new Ingredient row. The normalized NameKey is
// written here so every insert path maintains the lookup index.
func CreateIngredient(ctx context.Context, db *gorm.DB, name, category, defaultUnit string) (*domain.Ingredient, error) {
	ing := &domain.Ingredient{
		Name:        strings.TrimSpace(name),
		NameKey:     domain.NameKeyOf(name),
		Category:    category,
		DefaultUnit: defaultUnit,
	}
	if err := db.WithContext(ctx).Create(ing).Error; err != nil {
		return nil, err
	}
	return ing, nil
}

// GetIngredientByNameKey fetches an ingredient by its normalized name key.
// Returns ErrNotFound when no ingredient matches.
func GetIngredientByNameKey(ctx context.Context, db *gorm.DB, key string) (*domain.Ingredient, error) {
	var ing domain.Ingredient
	if err := db.WithContext(ctx).Where("name_key = ?", key).First(&ing).Error; err != nil {
		return nil, err
	}
	return &ing, nil
}

// FindOrCreateIngredient resolves an ingredient by normalized name, creating
// one with the given defaults when absent. A uniqueness conflict on create is
// treated as "someone else created it first" and resolved by re-reading.
func FindOrCreateIngredient(ctx context.Context, db *gorm.DB, name, category, defaultUnit string) (*domain.Ingredient, error) {
	key := domain.NameKeyOf(name)
	if ing, err := GetIngredientByNameKey(ctx, db, key); err == nil {
		return ing, nil
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	ing, err := CreateIngredient(ctx, db, name, category, defaultUnit)
	if err == nil {
		return ing, nil
	}
	// Lost the race: the unique index rejected the insert, use the winner.
	if existing, gerr := GetIngredientByNameKey(ctx, db, key); gerr == nil {
		return existing, nil
	}
	return nil, err
}

// ListIngredients returns ingredients ordered by name, optionally filtered by
// a case-insensitive name substring and/or exact category.
func ListIngredients(ctx context.Context, db *gorm.DB, search, category string) ([]domain.Ingredient, error) {
	q := db.WithContext(ctx).Model(&domain.Ingredient{})
	if search != "" {
		q = q.Where("name_key LIKE ?", "%"+domain.NameKeyOf(search)+"%")
	}
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var out []domain.Ingredient
	err := q.Order("name ASC").Find(&out).Error
	return out, err
}
