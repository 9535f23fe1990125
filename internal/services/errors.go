// Package services defines the business logic for recipes, ingredients,
// meal plans, grocery lists, and chat sessions. This file centralizes
// common service-level error values so that they can be consistently
// returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler layer.
package services

import "errors"

var (
	// ErrRecipeNotFound indicates that the requested recipe does not exist.
	ErrRecipeNotFound = errors.New("recipe not found")

	// ErrIngredientNotFound indicates that a referenced ingredient does not exist.
	ErrIngredientNotFound = errors.New("ingredient not found")

	// ErrWeekPlanNotFound indicates that the requested week plan does not exist.
	ErrWeekPlanNotFound = errors.New("week plan not found")

	// ErrMealSlotNotFound indicates that the requested meal slot does not exist
	// within the given plan.
	ErrMealSlotNotFound = errors.New("meal slot not found")

	// ErrSessionNotFound indicates that the requested chat session does not exist.
	ErrSessionNotFound = errors.New("chat session not found")

	// ErrDuplicateIngredient is returned when creating an ingredient whose
	// name already exists (case-insensitively).
	ErrDuplicateIngredient = errors.New("ingredient already exists")

	// ErrDuplicateWeekPlan is returned when creating a plan for a week that
	// already has one.
	ErrDuplicateWeekPlan = errors.New("week plan already exists for this date")

	// ErrNotSaturday is returned when a week plan's start date does not fall
	// on a Saturday.
	ErrNotSaturday = errors.New("week_start must be a Saturday")

	// ErrInvalidCategory is returned for a grocery category outside the
	// allowed set.
	ErrInvalidCategory = errors.New("invalid grocery category")

	// ErrInvalidUnit is returned for a measurement unit outside the allowed set.
	ErrInvalidUnit = errors.New("invalid unit")

	// ErrInvalidMealType is returned for a meal type outside the allowed set.
	ErrInvalidMealType = errors.New("invalid meal type")

	// ErrInvalidContextType is returned for a chat context type outside the
	// allowed set.
	ErrInvalidContextType = errors.New("invalid context type")

	// ErrEmptyName is returned when a required name field is blank.
	ErrEmptyName = errors.New("name must not be empty")

	// ErrEmptyMessage is returned when a chat message has no content.
	ErrEmptyMessage = errors.New("message content is empty")
)
