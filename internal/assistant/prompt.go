package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/fullydoved/mealz/internal/domain"
	"github.com/fullydoved/mealz/internal/repo"
)

const systemPrompt = `You are a helpful sous chef assistant for a couple planning their weekly meals. Your role is to:

- Help plan meals for 2 people
- Suggest recipes based on preferences, seasons, and variety
- All measurements should be in grams (metric system)
- Explain cooking processes clearly and in detail
- Help modify existing recipes or suggest alternatives
- Consider variety - avoid suggesting the same cuisine/protein back to back
- Be friendly, encouraging, and practical

When suggesting recipes, include:
- Name and brief description
- Approximate prep and cook times
- Key ingredients with quantities in grams
- Clear step-by-step instructions

You have tools to create recipes, update existing recipes, and add meals to the weekly plan. When the user asks you to save a recipe, plan a meal, or add something to the calendar, use the appropriate tool proactively. When the user asks to modify an existing recipe (change ingredients, remove something, adjust quantities), use the update_recipe tool instead of creating a new one. After using a tool, confirm what you did in your response text.`

// buildSystem assembles the full system instruction for one turn: the fixed
// preamble, the current date so relative expressions resolve, and a context
// block describing the session's anchored plan or recipe when one exists.
func buildSystem(ctx context.Context, db *gorm.DB, session *domain.ChatSession, now time.Time) (string, error) {
	system := systemPrompt + fmt.Sprintf(
		"\n\nToday is %s, %s. Use this to resolve relative dates like 'tomorrow', 'next Monday', 'this weekend', etc. The planning week runs Saturday through Friday.",
		now.Weekday(), now.Format("2006-01-02"),
	)

	block, err := contextBlock(ctx, db, session)
	if err != nil {
		return "", err
	}
	if block != "" {
		system += "\n\n" + block
	}
	return system, nil
}

func contextBlock(ctx context.Context, db *gorm.DB, session *domain.ChatSession) (string, error) {
	switch {
	case session.ContextType == domain.ContextWeekPlan && session.WeekPlanID != nil:
		return weekPlanBlock(ctx, db, *session.WeekPlanID)
	case session.ContextType == domain.ContextRecipe && session.RecipeID != nil:
		return recipeBlock(ctx, db, *session.RecipeID)
	default:
		return "", nil
	}
}

func weekPlanBlock(ctx context.Context, db *gorm.DB, planID uint) (string, error) {
	plan, err := repo.GetWeekPlan(ctx, db, planID)
	if err != nil {
		// A nullified anchor just means no extra context.
		return "", nil
	}
	slots, err := repo.ListPlanSlots(ctx, db, plan.ID)
	if err != nil {
		return "", err
	}
	if len(slots) == 0 {
		return "", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Current week plan (starting %s):", plan.WeekStart.Format("2006-01-02"))
	for _, slot := range slots {
		name := "No recipe"
		if slot.Recipe != nil {
			name = slot.Recipe.Name
		}
		leftover := ""
		if slot.IsLeftover {
			leftover = " (leftover)"
		}
		fmt.Fprintf(&b, "\n- %s %s: %s%s", slot.Date.Format("2006-01-02"), slot.MealType, name, leftover)
	}
	return b.String(), nil
}

func recipeBlock(ctx context.Context, db *gorm.DB, recipeID uint) (string, error) {
	r, err := repo.GetRecipe(ctx, db, recipeID)
	if err != nil {
		return "", nil
	}

	var lines []string
	for _, ri := range r.Ingredients {
		name := ""
		if ri.Ingredient != nil {
			name = ri.Ingredient.Name
		}
		prep := ""
		if ri.Preparation != nil && *ri.Preparation != "" {
			prep = ", " + *ri.Preparation
		}
		lines = append(lines, fmt.Sprintf("- %s: %g%s%s", name, ri.Quantity, ri.Unit, prep))
	}

	return fmt.Sprintf(
		"Current recipe: %s\nDescription: %s\nServings: %d\nIngredients:\n%s\nInstructions:\n%s",
		r.Name,
		strOr(r.Description, "N/A"),
		r.Servings,
		strings.Join(lines, "\n"),
		strOr(r.Instructions, "N/A"),
	), nil
}

func strOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
