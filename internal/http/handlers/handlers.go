// Handler wiring.
//
// This file declares the service contracts consumed by the HTTP layer and
// the Handlers aggregate that binds them. Handlers are transport-thin: they
// validate input, call application services, and translate results
// (including sentinel errors) into HTTP responses.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fullydoved/mealz/internal/assistant"
	"github.com/fullydoved/mealz/internal/domain"
	"github.com/fullydoved/mealz/internal/services"
	"github.com/fullydoved/mealz/internal/utils"
)

//
// Service contracts (context-aware)
//

// IngredientService defines ingredient catalogue operations consumed by
// HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type IngredientService interface {
	// List returns ingredients ordered by name, optionally filtered.
	List(ctx context.Context, search, category string) ([]domain.Ingredient, error)
	// Create inserts a new ingredient with defaulting for blank fields.
	Create(ctx context.Context, name, category, defaultUnit string) (*domain.Ingredient, error)
	// Categories returns the allowed grocery categories in display order.
	Categories() []string
}

// RecipeService defines recipe lifecycle operations consumed by HTTP handlers.
type RecipeService interface {
	// List returns recipe summaries with optional search and tag filters.
	List(ctx context.Context, search, tag string) ([]domain.Recipe, error)
	// Get fetches one recipe with its ingredient lines.
	Get(ctx context.Context, id uint) (*domain.Recipe, error)
	// Create persists a recipe together with its ingredient lines.
	Create(ctx context.Context, in services.RecipeCreateInput) (*domain.Recipe, error)
	// Update applies a partial update, replacing lines when provided.
	Update(ctx context.Context, id uint, in services.RecipeUpdateInput) (*domain.Recipe, error)
	// Delete removes a recipe and cleans up references to it.
	Delete(ctx context.Context, id uint) error
}

// PlanService defines week-plan and meal-slot operations consumed by HTTP
// handlers.
type PlanService interface {
	// GetByStart returns the plan starting at weekStart, or nil when absent.
	GetByStart(ctx context.Context, weekStart time.Time) (*domain.WeekPlan, error)
	// Get returns a plan by ID with slots preloaded.
	Get(ctx context.Context, id uint) (*domain.WeekPlan, error)
	// Create inserts a plan for the given Saturday.
	Create(ctx context.Context, weekStart time.Time, notes *string) (*domain.WeekPlan, error)
	// UpdateNotes sets the notes of an existing plan.
	UpdateNotes(ctx context.Context, id uint, notes string) (*domain.WeekPlan, error)
	// AddSlot creates a new slot inside the plan.
	AddSlot(ctx context.Context, planID uint, in services.MealSlotCreateInput) (*domain.MealSlot, error)
	// UpdateSlot applies a partial update to a slot of the plan.
	UpdateSlot(ctx context.Context, planID, slotID uint, in services.MealSlotUpdateInput) (*domain.MealSlot, error)
	// DeleteSlot removes a slot of the plan.
	DeleteSlot(ctx context.Context, planID, slotID uint) error
}

// GroceryService defines grocery-list derivation consumed by HTTP handlers.
type GroceryService interface {
	// Generate aggregates the plan's cooking slots into a grocery list.
	Generate(ctx context.Context, planID uint) (*services.GroceryList, error)
}

// ChatService defines chat session operations consumed by HTTP handlers.
type ChatService interface {
	// CreateSession opens a new session, optionally anchored to a plan or recipe.
	CreateSession(ctx context.Context, contextType string, weekPlanID, recipeID *uint) (*domain.ChatSession, error)
	// GetSession returns a session by ID.
	GetSession(ctx context.Context, id uint) (*domain.ChatSession, error)
	// ListMessages returns all stored messages of a session in replay order.
	ListMessages(ctx context.Context, sessionID uint) ([]domain.ChatMessage, error)
}

// AssistantRunner drives one streamed assistant turn, emitting events as
// they are produced. Implemented by assistant.Loop.
type AssistantRunner interface {
	Run(ctx context.Context, sessionID uint, userMessage string, emit assistant.Emitter) error
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for ingredients, recipes, meal plans,
// grocery lists, and chat. It depends on abstract service interfaces to keep
// transport concerns separate from business logic.
type Handlers struct {
	ingredientSvc IngredientService
	recipeSvc     RecipeService
	planSvc       PlanService
	grocerySvc    GroceryService
	chatSvc       ChatService
	runner        AssistantRunner
}

// New constructs and returns a Handlers instance bound to the given services.
func New(
	ingredientSvc IngredientService,
	recipeSvc RecipeService,
	planSvc PlanService,
	grocerySvc GroceryService,
	chatSvc ChatService,
	runner AssistantRunner,
) *Handlers {
	return &Handlers{
		ingredientSvc: ingredientSvc,
		recipeSvc:     recipeSvc,
		planSvc:       planSvc,
		grocerySvc:    grocerySvc,
		chatSvc:       chatSvc,
		runner:        runner,
	}
}

//
// Helpers
//

// pathID parses a positive integer path parameter. A missing, malformed, or
// non-positive value yields a 400 response and ok=false; callers must return
// immediately in that case.
func pathID(c *gin.Context, name string) (uint, bool) {
	id := utils.AtoiDefault(c.Param(name), 0)
	if id <= 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, name+" must be a positive integer")
		return 0, false
	}
	return uint(id), true
}

// failFromService translates a service-layer error into a structured HTTP
// response. Sentinel errors map to 404/409/400; anything else is a 500 with
// the given fallback code.
func failFromService(c *gin.Context, err error, fallbackCode string) {
	switch {
	case errors.Is(err, services.ErrRecipeNotFound),
		errors.Is(err, services.ErrIngredientNotFound),
		errors.Is(err, services.ErrWeekPlanNotFound),
		errors.Is(err, services.ErrMealSlotNotFound),
		errors.Is(err, services.ErrSessionNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, services.ErrDuplicateIngredient),
		errors.Is(err, services.ErrDuplicateWeekPlan):
		fail(c, http.StatusConflict, ErrCodeConflict, err.Error())
	case errors.Is(err, services.ErrNotSaturday),
		errors.Is(err, services.ErrInvalidCategory),
		errors.Is(err, services.ErrInvalidUnit),
		errors.Is(err, services.ErrInvalidMealType),
		errors.Is(err, services.ErrInvalidContextType),
		errors.Is(err, services.ErrEmptyName),
		errors.Is(err, services.ErrEmptyMessage):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	default:
		fail(c, http.StatusInternalServerError, fallbackCode, err.Error())
	}
}

// parseDate parses a YYYY-MM-DD value, reporting ok=false on failure.
func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
