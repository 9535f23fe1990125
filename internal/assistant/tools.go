package assistant

import (
	"fmt"

	"github.com/fullydoved/mealz/internal/llm"
)

const (
	toolCreateRecipe = "create_recipe"
	toolUpdateRecipe = "update_recipe"
	toolAddToPlan    = "add_to_plan"
)

var toolLabels = map[string]string{
	toolCreateRecipe: "Creating recipe...",
	toolUpdateRecipe: "Updating recipe...",
	toolAddToPlan:    "Adding to meal plan...",
}

// toolLabel returns the progress label shown while a tool runs.
func toolLabel(name string) string {
	if label, ok := toolLabels[name]; ok {
		return label
	}
	return fmt.Sprintf("Using %s...", name)
}

// ingredientLineSchema is shared by create_recipe and update_recipe.
func ingredientLineSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name": map[string]any{
				"type":        "string",
				"description": "Ingredient name",
			},
			"category": map[string]any{
				"type":        "string",
				"enum":        []string{"produce", "meat", "dairy", "pantry", "frozen", "bakery", "other"},
				"description": "Grocery category",
			},
			"quantity": map[string]any{
				"type":        "number",
				"description": "Amount needed",
			},
			"unit": map[string]any{
				"type":        "string",
				"enum":        []string{"g", "ml", "unit"},
				"description": "Unit of measurement",
			},
			"preparation": map[string]any{
				"type":        "string",
				"description": "How to prepare, e.g. 'diced', 'minced'",
			},
			"optional": map[string]any{
				"type":        "boolean",
				"description": "Whether the ingredient is optional",
				"default":     false,
			},
		},
		"required": []string{"name", "quantity", "unit"},
	}
}

// Tools returns the operations declared to the completion service.
func Tools() []llm.Tool {
	return []llm.Tool{
		{
			Name:        toolCreateRecipe,
			Description: "Create and save a new recipe with ingredients to the database. Use this when the user asks to save, create, or keep a recipe.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name": map[string]any{
						"type":        "string",
						"description": "Recipe name",
					},
					"description": map[string]any{
						"type":        "string",
						"description": "Short description of the dish",
					},
					"servings": map[string]any{
						"type":        "integer",
						"description": "Number of servings (default 2)",
						"default":     2,
					},
					"prep_time_min": map[string]any{
						"type":        "integer",
						"description": "Preparation time in minutes",
					},
					"cook_time_min": map[string]any{
						"type":        "integer",
						"description": "Cooking time in minutes",
					},
					"instructions": map[string]any{
						"type":        "string",
						"description": "Step-by-step cooking instructions in markdown",
					},
					"tags": map[string]any{
						"type":        "array",
						"items":       map[string]any{"type": "string"},
						"description": "Tags like 'chicken', 'quick', 'asian'",
					},
					"ingredients": map[string]any{
						"type":        "array",
						"items":       ingredientLineSchema(),
						"description": "List of ingredients with quantities",
					},
				},
				"required": []string{"name", "instructions", "ingredients"},
			},
		},
		{
			Name:        toolUpdateRecipe,
			Description: "Update an existing recipe. Use this when the user wants to modify, change, or fix a recipe that already exists — for example removing an ingredient, changing quantities, or updating instructions. Do NOT create a new recipe when the user wants to change an existing one.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"recipe_name": map[string]any{
						"type":        "string",
						"description": "Current name of the recipe to update",
					},
					"new_name": map[string]any{
						"type":        "string",
						"description": "New name for the recipe (only if renaming)",
					},
					"description": map[string]any{
						"type":        "string",
						"description": "Updated description",
					},
					"servings": map[string]any{
						"type":        "integer",
						"description": "Updated number of servings",
					},
					"prep_time_min": map[string]any{
						"type":        "integer",
						"description": "Updated prep time in minutes",
					},
					"cook_time_min": map[string]any{
						"type":        "integer",
						"description": "Updated cook time in minutes",
					},
					"instructions": map[string]any{
						"type":        "string",
						"description": "Updated instructions in markdown",
					},
					"tags": map[string]any{
						"type":        "array",
						"items":       map[string]any{"type": "string"},
						"description": "Updated tags",
					},
					"ingredients": map[string]any{
						"type":        "array",
						"items":       ingredientLineSchema(),
						"description": "Complete updated ingredient list (replaces all existing ingredients)",
					},
				},
				"required": []string{"recipe_name"},
			},
		},
		{
			Name:        toolAddToPlan,
			Description: "Add a recipe to the weekly meal plan on a specific date. The recipe must already exist (create it first if needed).",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"recipe_name": map[string]any{
						"type":        "string",
						"description": "Name of the recipe to add (must match an existing recipe)",
					},
					"date": map[string]any{
						"type":        "string",
						"description": "Date in YYYY-MM-DD format",
					},
					"meal_type": map[string]any{
						"type":        "string",
						"enum":        []string{"breakfast", "lunch", "dinner"},
						"description": "Which meal slot",
						"default":     "dinner",
					},
					"notes": map[string]any{
						"type":        "string",
						"description": "Optional notes for this meal slot",
					},
				},
				"required": []string{"recipe_name", "date"},
			},
		},
	}
}
