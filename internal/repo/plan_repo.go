// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the WeekPlan
// and MealSlot models.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/fullydoved/mealz/internal/domain"
)

// CreateWeekPlan inserts a new WeekPlan row. The unique index on week_start
// enforces one plan per week; callers decide whether a conflict is an error
// (REST create) or a reuse signal (tool dispatch).
func CreateWeekPlan(ctx context.Context, db *gorm.DB, weekStart time.Time, notes *string) (*domain.WeekPlan, error) {
	p := &domain.WeekPlan{
		WeekStart: domain.DateOnly(weekStart),
		Notes:     notes,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// GetWeekPlan fetches a plan by ID with slots preloaded in chronological
// order (date, then sort order).
func GetWeekPlan(ctx context.Context, db *gorm.DB, id uint) (*domain.WeekPlan, error) {
	var p domain.WeekPlan
	err := db.WithContext(ctx).
		Preload("Slots", func(q *gorm.DB) *gorm.DB {
			return q.Order("date ASC, sort_order ASC, id ASC")
		}).
		Preload("Slots.Recipe").
		First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetWeekPlanByStart fetches the plan whose week begins on weekStart,
// or ErrNotFound.
func GetWeekPlanByStart(ctx context.Context, db *gorm.DB, weekStart time.Time) (*domain.WeekPlan, error) {
	var p domain.WeekPlan
	err := db.WithContext(ctx).
		Where("week_start = ?", domain.DateOnly(weekStart)).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindOrCreateWeekPlan returns the plan covering weekStart, creating an
// empty one if absent. A uniqueness conflict on create is resolved by
// re-reading the winner, so concurrent callers converge on one plan.
func FindOrCreateWeekPlan(ctx context.Context, db *gorm.DB, weekStart time.Time) (*domain.WeekPlan, error) {
	if p, err := GetWeekPlanByStart(ctx, db, weekStart); err == nil {
		return p, nil
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	p, err := CreateWeekPlan(ctx, db, weekStart, nil)
	if err == nil {
		return p, nil
	}
	if existing, gerr := GetWeekPlanByStart(ctx, db, weekStart); gerr == nil {
		return existing, nil
	}
	return nil, err
}

// UpdateWeekPlanNotes sets the notes of a plan. Returns ErrNotFound when no
// row was affected.
func UpdateWeekPlanNotes(ctx context.Context, db *gorm.DB, id uint, notes string) error {
	res := db.WithContext(ctx).Model(&domain.WeekPlan{}).
		Where("id = ?", id).
		Update("notes", notes)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CreateMealSlot inserts a new slot row. Slots are never deduplicated: the
// same date/meal_type pair may hold several slots.
func CreateMealSlot(ctx context.Context, db *gorm.DB, slot *domain.MealSlot) error {
	slot.Date = domain.DateOnly(slot.Date)
	return db.WithContext(ctx).Create(slot).Error
}

// GetMealSlot fetches a slot by ID scoped to its plan, or ErrNotFound.
func GetMealSlot(ctx context.Context, db *gorm.DB, planID, slotID uint) (*domain.MealSlot, error) {
	var s domain.MealSlot
	err := db.WithContext(ctx).
		Preload("Recipe").
		Where("id = ? AND week_plan_id = ?", slotID, planID).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// SaveMealSlot persists changes to an existing slot.
func SaveMealSlot(ctx context.Context, db *gorm.DB, slot *domain.MealSlot) error {
	slot.Date = domain.DateOnly(slot.Date)
	return db.WithContext(ctx).Save(slot).Error
}

// DeleteMealSlot removes one slot and nullifies leftover references held by
// other slots that pointed at it. Returns ErrNotFound when the slot does
// not exist within the plan.
func DeleteMealSlot(ctx context.Context, db *gorm.DB, planID, slotID uint) error {
	var count int64
	if err := db.WithContext(ctx).Model(&domain.MealSlot{}).
		Where("id = ? AND week_plan_id = ?", slotID, planID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	if err := db.WithContext(ctx).Model(&domain.MealSlot{}).
		Where("leftover_source_id = ?", slotID).
		Update("leftover_source_id", nil).Error; err != nil {
		return err
	}
	return db.WithContext(ctx).Delete(&domain.MealSlot{}, slotID).Error
}

// ListPlanSlots returns the slots of a plan in chronological order.
func ListPlanSlots(ctx context.Context, db *gorm.DB, planID uint) ([]domain.MealSlot, error) {
	var out []domain.MealSlot
	err := db.WithContext(ctx).
		Preload("Recipe").
		Where("week_plan_id = ?", planID).
		Order("date ASC, sort_order ASC, id ASC").
		Find(&out).Error
	return out, err
}

// ListCookingSlots returns the slots that contribute to a grocery list:
// non-leftover slots bound to a recipe.
func ListCookingSlots(ctx context.Context, db *gorm.DB, planID uint) ([]domain.MealSlot, error) {
	var out []domain.MealSlot
	err := db.WithContext(ctx).
		Preload("Recipe").
		Where("week_plan_id = ? AND is_leftover = ? AND recipe_id IS NOT NULL", planID, false).
		Order("date ASC, sort_order ASC, id ASC").
		Find(&out).Error
	return out, err
}

// DeleteWeekPlan removes a plan, cascade-deletes its slots, and nullifies
// chat sessions anchored to it. Returns ErrNotFound when absent.
func DeleteWeekPlan(ctx context.Context, db *gorm.DB, id uint) error {
	var count int64
	if err := db.WithContext(ctx).Model(&domain.WeekPlan{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	if err := db.WithContext(ctx).
		Where("week_plan_id = ?", id).
		Delete(&domain.MealSlot{}).Error; err != nil {
		return err
	}
	if err := db.WithContext(ctx).Model(&domain.ChatSession{}).
		Where("week_plan_id = ?", id).
		Update("week_plan_id", nil).Error; err != nil {
		return err
	}
	return db.WithContext(ctx).Delete(&domain.WeekPlan{}, id).Error
}
