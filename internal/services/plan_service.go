// Package services – PlanService
//
// Owns week plans and meal slots for the REST surface. A plan is keyed by
// its Saturday start date; slot updates use the same pointer-presence
// semantics as recipe updates.
package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/fullydoved/mealz/internal/domain"
	"github.com/fullydoved/mealz/internal/repo"
)

// MealSlotCreateInput carries the fields for a new slot inside a plan.
type MealSlotCreateInput struct {
	Date             time.Time
	MealType         string
	RecipeID         *uint
	IsLeftover       bool
	LeftoverSourceID *uint
	Notes            *string
	SortOrder        int
}

// MealSlotUpdateInput is a partial slot update; nil fields stay untouched.
type MealSlotUpdateInput struct {
	Date             *time.Time
	MealType         *string
	RecipeID         *uint
	ClearRecipe      bool
	IsLeftover       *bool
	LeftoverSourceID *uint
	ClearLeftoverSrc bool
	Notes            *string
	SortOrder        *int
}

// PlanService coordinates week-plan and meal-slot persistence.
type PlanService struct {
	DB *gorm.DB
}

// GetByStart returns the plan whose week begins at weekStart, with slots
// preloaded chronologically, or nil when none exists (not an error: the
// calendar view treats an unplanned week as empty).
func (s *PlanService) GetByStart(ctx context.Context, weekStart time.Time) (*domain.WeekPlan, error) {
	p, err := repo.GetWeekPlanByStart(ctx, s.DB, weekStart)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return repo.GetWeekPlan(ctx, s.DB, p.ID)
}

// Get returns a plan by ID with slots preloaded.
func (s *PlanService) Get(ctx context.Context, id uint) (*domain.WeekPlan, error) {
	p, err := repo.GetWeekPlan(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWeekPlanNotFound
		}
		return nil, err
	}
	return p, nil
}

// Create inserts a plan for the given Saturday. A non-Saturday date or an
// existing plan for that week is a client error.
func (s *PlanService) Create(ctx context.Context, weekStart time.Time, notes *string) (*domain.WeekPlan, error) {
	tr := otel.Tracer("services/PlanService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(attribute.String("plan.week_start", weekStart.Format("2006-01-02"))),
	)
	defer span.End()

	weekStart = domain.DateOnly(weekStart)
	if !domain.IsSaturday(weekStart) {
		return nil, ErrNotSaturday
	}
	if _, err := repo.GetWeekPlanByStart(ctx, s.DB, weekStart); err == nil {
		return nil, ErrDuplicateWeekPlan
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return repo.CreateWeekPlan(ctx, s.DB, weekStart, notes)
}

// UpdateNotes sets the notes of an existing plan.
func (s *PlanService) UpdateNotes(ctx context.Context, id uint, notes string) (*domain.WeekPlan, error) {
	if err := repo.UpdateWeekPlanNotes(ctx, s.DB, id, notes); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWeekPlanNotFound
		}
		return nil, err
	}
	return repo.GetWeekPlan(ctx, s.DB, id)
}

// AddSlot creates a new slot inside the plan. Slots are never deduplicated.
func (s *PlanService) AddSlot(ctx context.Context, planID uint, in MealSlotCreateInput) (*domain.MealSlot, error) {
	if in.MealType == "" {
		in.MealType = domain.MealDinner
	}
	if !domain.ValidMealType(in.MealType) {
		return nil, ErrInvalidMealType
	}
	if _, err := repo.GetWeekPlan(ctx, s.DB, planID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWeekPlanNotFound
		}
		return nil, err
	}
	slot := &domain.MealSlot{
		WeekPlanID:       planID,
		Date:             in.Date,
		MealType:         in.MealType,
		RecipeID:         in.RecipeID,
		IsLeftover:       in.IsLeftover,
		LeftoverSourceID: in.LeftoverSourceID,
		Notes:            in.Notes,
		SortOrder:        in.SortOrder,
	}
	if err := repo.CreateMealSlot(ctx, s.DB, slot); err != nil {
		return nil, err
	}
	return repo.GetMealSlot(ctx, s.DB, planID, slot.ID)
}

// UpdateSlot applies the present fields of in to a slot of the plan.
func (s *PlanService) UpdateSlot(ctx context.Context, planID, slotID uint, in MealSlotUpdateInput) (*domain.MealSlot, error) {
	if in.MealType != nil && !domain.ValidMealType(*in.MealType) {
		return nil, ErrInvalidMealType
	}
	slot, err := repo.GetMealSlot(ctx, s.DB, planID, slotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMealSlotNotFound
		}
		return nil, err
	}

	if in.Date != nil {
		slot.Date = *in.Date
	}
	if in.MealType != nil {
		slot.MealType = *in.MealType
	}
	if in.RecipeID != nil {
		slot.RecipeID = in.RecipeID
	} else if in.ClearRecipe {
		slot.RecipeID = nil
	}
	if in.IsLeftover != nil {
		slot.IsLeftover = *in.IsLeftover
	}
	if in.LeftoverSourceID != nil {
		slot.LeftoverSourceID = in.LeftoverSourceID
	} else if in.ClearLeftoverSrc {
		slot.LeftoverSourceID = nil
	}
	if in.Notes != nil {
		slot.Notes = in.Notes
	}
	if in.SortOrder != nil {
		slot.SortOrder = *in.SortOrder
	}

	// Detach the preloaded recipe so Save does not upsert it.
	slot.Recipe = nil
	if err := repo.SaveMealSlot(ctx, s.DB, slot); err != nil {
		return nil, err
	}
	return repo.GetMealSlot(ctx, s.DB, planID, slot.ID)
}

// DeleteSlot removes a slot of the plan, nullifying leftover references to it.
func (s *PlanService) DeleteSlot(ctx context.Context, planID, slotID uint) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return repo.DeleteMealSlot(ctx, tx, planID, slotID)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrMealSlotNotFound
	}
	return err
}
