// Package assistant implements the conversational side of the service: the
// tool operations the completion service may invoke, the system prompt, and
// the streaming conversation loop that ties them together.
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/fullydoved/mealz/internal/domain"
	"github.com/fullydoved/mealz/internal/repo"
)

// Executor dispatches named tool invocations to domain mutations. Each call
// runs in its own transaction so a failed invocation leaves no partial rows.
type Executor struct {
	DB *gorm.DB
}

// ingredientLine is one ingredient entry in create_recipe/update_recipe
// input. Ingredients are resolved by name and created when absent.
type ingredientLine struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	Preparation *string `json:"preparation"`
	Optional    bool    `json:"optional"`
}

type createRecipeInput struct {
	Name         string           `json:"name"`
	Description  *string          `json:"description"`
	Servings     int              `json:"servings"`
	PrepTimeMin  *int             `json:"prep_time_min"`
	CookTimeMin  *int             `json:"cook_time_min"`
	Instructions *string          `json:"instructions"`
	Tags         []string         `json:"tags"`
	Ingredients  []ingredientLine `json:"ingredients"`
}

// updateRecipeInput distinguishes absent from provided via pointers; only
// non-nil fields are applied.
type updateRecipeInput struct {
	RecipeName   string            `json:"recipe_name"`
	NewName      *string           `json:"new_name"`
	Description  *string           `json:"description"`
	Servings     *int              `json:"servings"`
	PrepTimeMin  *int              `json:"prep_time_min"`
	CookTimeMin  *int              `json:"cook_time_min"`
	Instructions *string           `json:"instructions"`
	Tags         *[]string         `json:"tags"`
	Ingredients  *[]ingredientLine `json:"ingredients"`
}

type addToPlanInput struct {
	RecipeName string  `json:"recipe_name"`
	Date       string  `json:"date"`
	MealType   string  `json:"meal_type"`
	Notes      *string `json:"notes"`
}

// Execute runs the named tool against the given JSON input and returns the
// acknowledgement record sent back to the completion service. Tool names are
// matched case-insensitively after trimming.
func (e *Executor) Execute(ctx context.Context, name string, input json.RawMessage) (map[string]any, error) {
	tr := otel.Tracer("assistant/Executor")
	ctx, span := tr.Start(ctx, "Execute",
		trace.WithAttributes(attribute.String("tool.name", name)),
	)
	defer span.End()

	switch strings.ToLower(strings.TrimSpace(name)) {
	case toolCreateRecipe:
		return e.createRecipe(ctx, input)
	case toolUpdateRecipe:
		return e.updateRecipe(ctx, input)
	case toolAddToPlan:
		return e.addToPlan(ctx, input)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

func (e *Executor) createRecipe(ctx context.Context, input json.RawMessage) (map[string]any, error) {
	var in createRecipeInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid create_recipe input: %w", err)
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, errors.New("recipe name is required")
	}
	if in.Servings <= 0 {
		in.Servings = 2
	}

	var r *domain.Recipe
	err := e.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r = &domain.Recipe{
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
		return e.insertLines(ctx, tx, r.ID, in.Ingredients)
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{"recipe_id": r.ID, "recipe_name": r.Name}, nil
}

func (e *Executor) updateRecipe(ctx context.Context, input json.RawMessage) (map[string]any, error) {
	var in updateRecipeInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid update_recipe input: %w", err)
	}

	var r *domain.Recipe
	err := e.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		r, err = repo.GetRecipeByNameKey(ctx, tx, domain.NameKeyOf(in.RecipeName))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("recipe '%s' not found", in.RecipeName)
			}
			return err
		}

		if in.NewName != nil {
			r.Name = *in.NewName
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
		r.Ingredients = nil
		if err := repo.SaveRecipe(ctx, tx, r); err != nil {
			return err
		}

		if in.Ingredients != nil {
			if err := tx.Where("recipe_id = ?", r.ID).Delete(&domain.RecipeIngredient{}).Error; err != nil {
				return err
			}
			return e.insertLines(ctx, tx, r.ID, *in.Ingredients)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{"recipe_id": r.ID, "recipe_name": r.Name}, nil
}

func (e *Executor) addToPlan(ctx context.Context, input json.RawMessage) (map[string]any, error) {
	var in addToPlanInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid add_to_plan input: %w", err)
	}
	slotDate, err := time.Parse("2006-01-02", in.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date '%s': expected YYYY-MM-DD", in.Date)
	}
	if in.MealType == "" {
		in.MealType = domain.MealDinner
	}
	if !domain.ValidMealType(in.MealType) {
		return nil, fmt.Errorf("invalid meal type '%s'", in.MealType)
	}

	var (
		r    *domain.Recipe
		plan *domain.WeekPlan
		slot *domain.MealSlot
	)
	err = e.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		r, err = repo.GetRecipeByNameKey(ctx, tx, domain.NameKeyOf(in.RecipeName))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("recipe '%s' not found", in.RecipeName)
			}
			return err
		}

		plan, err = repo.FindOrCreateWeekPlan(ctx, tx, domain.WeekStart(slotDate))
		if err != nil {
			return err
		}

		// Always a fresh slot; repeated calls stack rather than dedupe.
		slot = &domain.MealSlot{
			WeekPlanID: plan.ID,
			Date:       domain.DateOnly(slotDate),
			MealType:   in.MealType,
			RecipeID:   &r.ID,
			Notes:      in.Notes,
		}
		return repo.CreateMealSlot(ctx, tx, slot)
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"meal_slot_id": slot.ID,
		"date":         slot.Date.Format("2006-01-02"),
		"recipe_name":  r.Name,
		"week_plan_id": plan.ID,
	}, nil
}

// insertLines resolves each ingredient by normalized name, creating missing
// ones with the line's category/unit as defaults, and inserts the lines.
func (e *Executor) insertLines(ctx context.Context, tx *gorm.DB, recipeID uint, lines []ingredientLine) error {
	for _, l := range lines {
		if strings.TrimSpace(l.Name) == "" {
			return errors.New("ingredient name must not be empty")
		}
		category := l.Category
		if category == "" {
			category = domain.CategoryOther
		}
		unit := l.Unit
		if unit == "" {
			unit = domain.UnitGram
		}
		ing, err := repo.FindOrCreateIngredient(ctx, tx, l.Name, category, unit)
		if err != nil {
			return err
		}
		ri := &domain.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: ing.ID,
			Quantity:     l.Quantity,
			Unit:         unit,
			Preparation:  l.Preparation,
			Optional:     l.Optional,
		}
		if err := repo.CreateRecipeIngredient(ctx, tx, ri); err != nil {
			return err
		}
	}
	return nil
}
