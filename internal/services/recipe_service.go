// Package services – RecipeService
//
// Owns the recipe lifecycle for the REST surface: create with ingredient
// lines, fetch with lines preloaded, partial update with explicit
// field-presence semantics, and delete with relational cleanup. All
// multi-row writes run in a single transaction so a recipe and its lines
// commit or roll back together.
//
// Observability: public methods are OpenTelemetry-instrumented; spans carry
// the recipe identifier where applicable.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/fullydoved/mealz/internal/domain"
	"github.com/fullydoved/mealz/internal/repo"
)

// RecipeLineInput is one ingredient line referencing an existing ingredient
// by ID. Used by the REST create/update paths; the tool dispatcher resolves
// ingredients by name instead.
type RecipeLineInput struct {
	IngredientID uint
	Quantity     float64
	Unit         string
	Preparation  *string
	Optional     bool
}

// RecipeCreateInput carries all fields for a new recipe.
type RecipeCreateInput struct {
	Name         string
	Description  *string
	Servings     int
	PrepTimeMin  *int
	CookTimeMin  *int
	Instructions *string
	Tags         []string
	Ingredients  []RecipeLineInput
}

// RecipeUpdateInput carries a partial update. Nil pointer fields are left
// untouched; a non-nil Ingredients slice fully replaces the existing lines.
// Absent-vs-null is expressed by pointer presence, never by zero values.
type RecipeUpdateInput struct {
	Name         *string
	Description  *string
	Servings     *int
	PrepTimeMin  *int
	CookTimeMin  *int
	Instructions *string
	Tags         *[]string
	Ingredients  *[]RecipeLineInput
}

// RecipeService coordinates recipe persistence for the REST surface.
type RecipeService struct {
	DB *gorm.DB
}

// List returns recipe summaries ordered by name, with optional name-substring
// and exact-tag filters.
func (s *RecipeService) List(ctx context.Context, search, tag string) ([]domain.Recipe, error) {
	return repo.ListRecipes(ctx, s.DB, search, tag)
}

// Get fetches a recipe with its ingredient lines.
func (s *RecipeService) Get(ctx context.Context, id uint) (*domain.Recipe, error) {
	r, err := repo.GetRecipe(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return r, nil
}

// Create validates the input and persists the recipe together with its
// ingredient lines in one transaction. Every referenced ingredient must
// already exist.
func (s *RecipeService) Create(ctx context.Context, in RecipeCreateInput) (*domain.Recipe, error) {
	tr := otel.Tracer("services/RecipeService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(attribute.String("recipe.name", in.Name)),
	)
	defer span.End()

	if strings.TrimSpace(in.Name) == "" {
		return nil, ErrEmptyName
	}
	if in.Servings <= 0 {
		in.Servings = 2
	}
	for _, line := range in.Ingredients {
		if !domain.ValidUnit(line.Unit) {
			return nil, ErrInvalidUnit
		}
	}

	var created *domain.Recipe
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := &domain.Recipe{
			Name:         in.Name,
			Description:  in.Description,
			Servings:     in.Servings,
			PrepTimeMin:  in.PrepTimeMin,
			CookTimeMin:  in.CookTimeMin,
			Instructions: in.Instructions,
		}
		r.SetTagList(in.Tags)
		if err := repo.CreateRecipe(ctx, tx, r); err != nil {
			return err
		}
		for _, line := range in.Ingredients {
			var ing domain.Ingredient
			if err := tx.First(&ing, line.IngredientID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrIngredientNotFound
				}
				return err
			}
			ri := &domain.RecipeIngredient{
				RecipeID:     r.ID,
				IngredientID: line.IngredientID,
				Quantity:     line.Quantity,
				Unit:         line.Unit,
				Preparation:  line.Preparation,
				Optional:     line.Optional,
			}
			if err := repo.CreateRecipeIngredient(ctx, tx, ri); err != nil {
				return err
			}
		}
		created = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return repo.GetRecipe(ctx, s.DB, created.ID)
}

// Update applies the present fields of in to the recipe, replacing the
// ingredient list when one is provided. The whole update is transactional.
func (s *RecipeService) Update(ctx context.Context, id uint, in RecipeUpdateInput) (*domain.Recipe, error) {
	tr := otel.Tracer("services/RecipeService")
	ctx, span := tr.Start(ctx, "Update",
		trace.WithAttributes(attribute.Int("recipe.id", int(id))),
	)
	defer span.End()

	if in.Ingredients != nil {
		for _, line := range *in.Ingredients {
			if !domain.ValidUnit(line.Unit) {
				return nil, ErrInvalidUnit
			}
		}
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r, err := repo.GetRecipe(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecipeNotFound
			}
			return err
		}
		applyRecipeUpdate(r, in)
		// Detach preloaded lines so Save does not upsert them.
		r.Ingredients = nil
		if err := repo.SaveRecipe(ctx, tx, r); err != nil {
			return err
		}

		if in.Ingredients != nil {
			lines := make([]domain.RecipeIngredient, 0, len(*in.Ingredients))
			for _, line := range *in.Ingredients {
				var ing domain.Ingredient
				if err := tx.First(&ing, line.IngredientID).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return ErrIngredientNotFound
					}
					return err
				}
				lines = append(lines, domain.RecipeIngredient{
					IngredientID: line.IngredientID,
					Quantity:     line.Quantity,
					Unit:         line.Unit,
					Preparation:  line.Preparation,
					Optional:     line.Optional,
				})
			}
			if err := repo.ReplaceRecipeIngredients(ctx, tx, r.ID, lines); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return repo.GetRecipe(ctx, s.DB, id)
}

// Delete removes a recipe; its lines are cascade-deleted and references from
// meal slots and chat sessions nullified, all in one transaction.
func (s *RecipeService) Delete(ctx context.Context, id uint) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return repo.DeleteRecipe(ctx, tx, id)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRecipeNotFound
	}
	return err
}

// applyRecipeUpdate copies the present fields of in onto r.
func applyRecipeUpdate(r *domain.Recipe, in RecipeUpdateInput) {
	if in.Name != nil {
		r.Name = *in.Name
	}
	if in.Description != nil {
		r.Description = in.Description
	}
	if in.Servings != nil {
		r.Servings = *in.Servings
	}
	if in.PrepTimeMin != nil {
		r.PrepTimeMin = in.PrepTimeMin
	}
	if in.CookTimeMin != nil {
		r.CookTimeMin = in.CookTimeMin
	}
	if in.Instructions != nil {
		r.Instructions = in.Instructions
	}
	if in.Tags != nil {
		r.SetTagList(*in.Tags)
	}
}
