// Package services – IngredientService
//
// Manages the pantry-level ingredient catalogue: listing with filters and
// explicit creation. Direct creation treats a duplicate name as a client
// error; tool execution resolves duplicates silently via the repo's
// find-or-create instead.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/fullydoved/mealz/internal/domain"
	"github.com/fullydoved/mealz/internal/repo"
)

// IngredientService provides catalogue operations over ingredients.
type IngredientService struct {
	DB *gorm.DB
}

// List returns ingredients ordered by name, optionally filtered by a name
// substring and/or a category.
func (s *IngredientService) List(ctx context.Context, search, category string) ([]domain.Ingredient, error) {
	if category != "" && !domain.ValidCategory(category) {
		return nil, ErrInvalidCategory
	}
	return repo.ListIngredients(ctx, s.DB, search, category)
}

// Create inserts a new ingredient. The name must be non-blank and unused
// (compared case-insensitively); category and unit fall back to defaults
// when blank.
func (s *IngredientService) Create(ctx context.Context, name, category, defaultUnit string) (*domain.Ingredient, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}
	if category == "" {
		category = domain.CategoryOther
	}
	if !domain.ValidCategory(category) {
		return nil, ErrInvalidCategory
	}
	if defaultUnit == "" {
		defaultUnit = domain.UnitGram
	}
	if !domain.ValidUnit(defaultUnit) {
		return nil, ErrInvalidUnit
	}

	if _, err := repo.GetIngredientByNameKey(ctx, s.DB, domain.NameKeyOf(name)); err == nil {
		return nil, ErrDuplicateIngredient
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return repo.CreateIngredient(ctx, s.DB, name, category, defaultUnit)
}

// Categories returns the allowed grocery categories in display order.
func (s *IngredientService) Categories() []string {
	return domain.Categories
}
