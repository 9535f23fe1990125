// Package services – GroceryService
//
// Derives a consolidated grocery list from a week plan. Only slots that
// actually require cooking contribute: leftover slots reuse ingredients
// already purchased, and slots without a recipe have nothing to buy.
// Quantities are summed per (ingredient, unit) pair — the same ingredient
// in two different units stays as two line items; no unit conversion is
// attempted.
package services

import (
	"context"
	"errors"
	"sort"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/fullydoved/mealz/internal/repo"
)

// GroceryItem is one aggregated ingredient+unit requirement across all
// qualifying slots of a plan, with the recipes that need it.
type GroceryItem struct {
	IngredientID   uint     `json:"ingredient_id"`
	IngredientName string   `json:"ingredient_name"`
	Category       string   `json:"category"`
	TotalQuantity  float64  `json:"total_quantity"`
	Unit           string   `json:"unit"`
	Recipes        []string `json:"recipes"`
}

// GroceryList groups a plan's items by grocery category. CategoryOrder
// lists the populated categories alphabetically so output is deterministic.
type GroceryList struct {
	WeekPlanID    uint                     `json:"week_plan_id"`
	Categories    map[string][]GroceryItem `json:"categories"`
	CategoryOrder []string                 `json:"category_order"`
}

// GroceryService builds grocery lists from week plans.
type GroceryService struct {
	DB *gorm.DB
}

type aggKey struct {
	ingredientID uint
	unit         string
}

type aggVal struct {
	item    GroceryItem
	recipes map[string]struct{}
}

// Generate aggregates the plan's cooking slots into a grocery list.
// Ordering is fully deterministic: categories alphabetical, items within a
// category alphabetical by ingredient name, contributing recipes
// alphabetical and deduplicated.
func (s *GroceryService) Generate(ctx context.Context, planID uint) (*GroceryList, error) {
	tr := otel.Tracer("services/GroceryService")
	ctx, span := tr.Start(ctx, "Generate",
		trace.WithAttributes(attribute.Int("plan.id", int(planID))),
	)
	defer span.End()

	if _, err := repo.GetWeekPlan(ctx, s.DB, planID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWeekPlanNotFound
		}
		return nil, err
	}

	slots, err := repo.ListCookingSlots(ctx, s.DB, planID)
	if err != nil {
		return nil, err
	}

	aggregated := make(map[aggKey]*aggVal)
	for _, slot := range slots {
		if slot.Recipe == nil {
			continue
		}
		lines, err := repo.ListRecipeIngredients(ctx, s.DB, *slot.RecipeID)
		if err != nil {
			return nil, err
		}
		for _, ri := range lines {
			key := aggKey{ingredientID: ri.IngredientID, unit: ri.Unit}
			v, ok := aggregated[key]
			if !ok {
				v = &aggVal{
					item: GroceryItem{
						IngredientID:   ri.IngredientID,
						IngredientName: ri.Ingredient.Name,
						Category:       ri.Ingredient.Category,
						Unit:           ri.Unit,
					},
					recipes: make(map[string]struct{}),
				}
				aggregated[key] = v
			}
			v.item.TotalQuantity += ri.Quantity
			v.recipes[slot.Recipe.Name] = struct{}{}
		}
	}

	items := make([]GroceryItem, 0, len(aggregated))
	for _, v := range aggregated {
		names := make([]string, 0, len(v.recipes))
		for n := range v.recipes {
			names = append(names, n)
		}
		sort.Strings(names)
		v.item.Recipes = names
		items = append(items, v.item)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].IngredientName != items[j].IngredientName {
			return items[i].IngredientName < items[j].IngredientName
		}
		return items[i].Unit < items[j].Unit
	})

	categories := make(map[string][]GroceryItem)
	for _, item := range items {
		categories[item.Category] = append(categories[item.Category], item)
	}
	order := make([]string, 0, len(categories))
	for c := range categories {
		order = append(order, c)
	}
	sort.Strings(order)

	return &GroceryList{
		WeekPlanID:    planID,
		Categories:    categories,
		CategoryOrder: order,
	}, nil
}
