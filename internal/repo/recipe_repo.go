// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Recipe and
// RecipeIngredient models.
//
// Functions:
//
//   - CreateRecipe(ctx, db, recipe) -> error
//     Inserts a Recipe row, maintaining its normalized NameKey.
//
//   - GetRecipe(ctx, db, id) -> *domain.Recipe, error
//     Fetches a recipe with its ingredient lines (and their ingredients)
//     preloaded, or ErrNotFound.
//
//   - GetRecipeByNameKey(ctx, db, key) -> *domain.Recipe, error
//     Case-insensitive resolution used by the tool dispatcher.
//
//   - ListRecipes(ctx, db, search, tag) -> []domain.Recipe, error
//     Name-ordered summaries with optional name/tag filters.
//
//   - ReplaceRecipeIngredients(ctx, db, recipeID, lines) -> error
//     Deletes all existing lines and inserts the given ones.
//
//   - DeleteRecipe(ctx, db, id) -> error
//     Cascade-deletes lines and nullifies meal-slot and chat-session
//     references within the caller's transaction scope.
package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/fullydoved/mealz/internal/domain"
)

// CreateRecipe inserts a new Recipe row. The caller provides a populated
// struct; Name is trimmed and NameKey derived here so all write paths keep
// the lookup index consistent.
func CreateRecipe(ctx context.Context, db *gorm.DB, r *domain.Recipe) error {
	r.Name = strings.TrimSpace(r.Name)
	r.NameKey = domain.NameKeyOf(r.Name)
	return db.WithContext(ctx).Create(r).Error
}

// SaveRecipe persists changes to an existing recipe, refreshing NameKey.
// UpdatedAt is refreshed by GORM.
func SaveRecipe(ctx context.Context, db *gorm.DB, r *domain.Recipe) error {
	r.Name = strings.TrimSpace(r.Name)
	r.NameKey = domain.NameKeyOf(r.Name)
	return db.WithContext(ctx).Save(r).Error
}

// GetRecipe fetches a recipe by ID with ingredient lines preloaded.
func GetRecipe(ctx context.Context, db *gorm.DB, id uint) (*domain.Recipe, error) {
	var r domain.Recipe
	err := db.WithContext(ctx).
		Preload("Ingredients").
		Preload("Ingredients.Ingredient").
		First(&r, id).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetRecipeByNameKey resolves a recipe by its normalized name key.
// When several recipes share a key the lowest ID wins, matching the
// first-match semantics of the original lookup.
func GetRecipeByNameKey(ctx context.Context, db *gorm.DB, key string) (*domain.Recipe, error) {
	var r domain.Recipe
	err := db.WithContext(ctx).
		Where("name_key = ?", key).
		Order("id ASC").
		First(&r).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListRecipes returns recipes ordered by name. search filters by
// case-insensitive name substring; tag matches an exact tag inside the JSON
// tags column (the array stores quoted strings, so a quoted LIKE is exact).
func ListRecipes(ctx context.Context, db *gorm.DB, search, tag string) ([]domain.Recipe, error) {
	q := db.WithContext(ctx).Model(&domain.Recipe{})
	if search != "" {
		q = q.Where("name_key LIKE ?", "%"+domain.NameKeyOf(search)+"%")
	}
	if tag != "" {
		q = q.Where("tags LIKE ?", `%"`+tag+`"%`)
	}
	var out []domain.Recipe
	err := q.Order("name ASC").Find(&out).Error
	return out, err
}

// CreateRecipeIngredient inserts one ingredient line.
func CreateRecipeIngredient(ctx context.Context, db *gorm.DB, ri *domain.RecipeIngredient) error {
	return db.WithContext(ctx).Create(ri).Error
}

// ListRecipeIngredients returns the lines of a recipe with their ingredients
// preloaded, ordered by line ID.
func ListRecipeIngredients(ctx context.Context, db *gorm.DB, recipeID uint) ([]domain.RecipeIngredient, error) {
	var out []domain.RecipeIngredient
	err := db.WithContext(ctx).
		Preload("Ingredient").
		Where("recipe_id = ?", recipeID).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

// ReplaceRecipeIngredients removes every existing line of recipeID and
// inserts lines in their place. Run inside a transaction: the delete and
// the inserts must be all-or-nothing.
func ReplaceRecipeIngredients(ctx context.Context, db *gorm.DB, recipeID uint, lines []domain.RecipeIngredient) error {
	if err := db.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Delete(&domain.RecipeIngredient{}).Error; err != nil {
		return err
	}
	for i := range lines {
		lines[i].ID = 0
		lines[i].RecipeID = recipeID
		if err := db.WithContext(ctx).Create(&lines[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// DeleteRecipe removes a recipe and, in the same scope, cascade-deletes its
// ingredient lines and nullifies references held by meal slots and chat
// sessions. Returns ErrNotFound when the recipe does not exist.
func DeleteRecipe(ctx context.Context, db *gorm.DB, id uint) error {
	var count int64
	if err := db.WithContext(ctx).Model(&domain.Recipe{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	if err := db.WithContext(ctx).
		Where("recipe_id = ?", id).
		Delete(&domain.RecipeIngredient{}).Error; err != nil {
		return err
	}
	if err := db.WithContext(ctx).Model(&domain.MealSlot{}).
		Where("recipe_id = ?", id).
		Update("recipe_id", nil).Error; err != nil {
		return err
	}
	if err := db.WithContext(ctx).Model(&domain.ChatSession{}).
		Where("recipe_id = ?", id).
		Update("recipe_id", nil).Error; err != nil {
		return err
	}
	return db.WithContext(ctx).Delete(&domain.Recipe{}, id).Error
}

// RecipesStats returns the recipe count and latest updated_at for a user's
// library, used to build weak ETags for list responses.
func RecipesStats(ctx context.Context, db *gorm.DB) (int64, *int64, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&domain.Recipe{}).Count(&count).Error; err != nil {
		return 0, nil, err
	}
	var maxTS *int64
	row := db.WithContext(ctx).Model(&domain.Recipe{}).
		Select("strftime('%s', MAX(updated_at))").Row()
	if row != nil {
		_ = row.Scan(&maxTS)
	}
	return count, maxTS, nil
}
