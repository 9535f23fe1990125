package services

import (
	"context"
	"fmt"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fullydoved/mealz/internal/domain"
	"github.com/fullydoved/mealz/internal/repo"
)

// newServiceDB opens a throwaway SQLite database with the full schema.
func newServiceDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("svc_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

var testSaturday = time.Date(2026, time.August, 29, 0, 0, 0, 0, time.UTC)

type seedLine struct {
	name, category string
	qty            float64
	unit           string
}

func seedRecipeWithLines(t *testing.T, db *gorm.DB, name string, lines ...seedLine) *domain.Recipe {
	t.Helper()
	ctx := context.Background()

	r := &domain.Recipe{Name: name, Servings: 2}
	if err := repo.CreateRecipe(ctx, db, r); err != nil {
		t.Fatalf("recipe %s: %v", name, err)
	}
	for _, l := range lines {
		ing, err := repo.FindOrCreateIngredient(ctx, db, l.name, l.category, l.unit)
		if err != nil {
			t.Fatalf("ingredient %s: %v", l.name, err)
		}
		ri := &domain.RecipeIngredient{
			RecipeID: r.ID, IngredientID: ing.ID, Quantity: l.qty, Unit: l.unit,
		}
		if err := repo.CreateRecipeIngredient(ctx, db, ri); err != nil {
			t.Fatalf("line %s: %v", l.name, err)
		}
	}
	return r
}

func addSlot(t *testing.T, db *gorm.DB, planID uint, date time.Time, recipeID *uint, leftover bool) *domain.MealSlot {
	t.Helper()
	slot := &domain.MealSlot{
		WeekPlanID: planID, Date: date,
		MealType: domain.MealDinner, RecipeID: recipeID, IsLeftover: leftover,
	}
	if err := repo.CreateMealSlot(context.Background(), db, slot); err != nil {
		t.Fatalf("slot: %v", err)
	}
	return slot
}

func TestGenerate_SumsQuantitiesAndDeduplicatesRecipes(t *testing.T) {
	db := newServiceDB(t)
	ctx := context.Background()

	bread := seedRecipeWithLines(t, db, "Bread", seedLine{"flour", domain.CategoryPantry, 200, domain.UnitGram})
	plan, _ := repo.CreateWeekPlan(ctx, db, testSaturday, nil)
	// Same recipe in two dinner slots.
	addSlot(t, db, plan.ID, testSaturday, &bread.ID, false)
	addSlot(t, db, plan.ID, testSaturday.AddDate(0, 0, 2), &bread.ID, false)

	svc := &GroceryService{DB: db}
	list, err := svc.Generate(ctx, plan.ID)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	items := list.Categories[domain.CategoryPantry]
	if len(items) != 1 {
		t.Fatalf("expected 1 pantry item, got %#v", list.Categories)
	}
	if items[0].TotalQuantity != 400 {
		t.Fatalf("expected 400g flour, got %v", items[0].TotalQuantity)
	}
	if !reflect.DeepEqual(items[0].Recipes, []string{"Bread"}) {
		t.Fatalf("recipes should be deduplicated: %#v", items[0].Recipes)
	}
}

func TestGenerate_ExcludesLeftoverAndRecipelessSlots(t *testing.T) {
	db := newServiceDB(t)
	ctx := context.Background()

	a := seedRecipeWithLines(t, db, "Soup", seedLine{"salt", domain.CategoryPantry, 5, domain.UnitGram})
	b := seedRecipeWithLines(t, db, "Roast", seedLine{"beef", domain.CategoryMeat, 800, domain.UnitGram})

	plan, _ := repo.CreateWeekPlan(ctx, db, testSaturday, nil)
	addSlot(t, db, plan.ID, testSaturday, &a.ID, false)
	addSlot(t, db, plan.ID, testSaturday.AddDate(0, 0, 1), &b.ID, true) // leftover
	addSlot(t, db, plan.ID, testSaturday.AddDate(0, 0, 2), nil, false)  // no recipe

	svc := &GroceryService{DB: db}
	list, err := svc.Generate(ctx, plan.ID)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if len(list.Categories) != 1 {
		t.Fatalf("expected only pantry category, got %#v", list.CategoryOrder)
	}
	items := list.Categories[domain.CategoryPantry]
	if len(items) != 1 || items[0].IngredientName != "salt" || items[0].TotalQuantity != 5 {
		t.Fatalf("expected only salt from Soup: %#v", items)
	}
}

func TestGenerate_DifferentUnitsStaySeparate(t *testing.T) {
	db := newServiceDB(t)
	ctx := context.Background()

	a := seedRecipeWithLines(t, db, "Cake", seedLine{"milk", domain.CategoryDairy, 250, domain.UnitMl})
	b := seedRecipeWithLines(t, db, "Custard", seedLine{"milk", domain.CategoryDairy, 100, domain.UnitGram})

	plan, _ := repo.CreateWeekPlan(ctx, db, testSaturday, nil)
	addSlot(t, db, plan.ID, testSaturday, &a.ID, false)
	addSlot(t, db, plan.ID, testSaturday.AddDate(0, 0, 1), &b.ID, false)

	svc := &GroceryService{DB: db}
	list, err := svc.Generate(ctx, plan.ID)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	items := list.Categories[domain.CategoryDairy]
	if len(items) != 2 {
		t.Fatalf("expected 2 line items for milk in different units, got %#v", items)
	}
	// No conversion: one 250ml item, one 100g item.
	units := map[string]float64{items[0].Unit: items[0].TotalQuantity, items[1].Unit: items[1].TotalQuantity}
	if units[domain.UnitMl] != 250 || units[domain.UnitGram] != 100 {
		t.Fatalf("unexpected quantities: %#v", units)
	}
}

func TestGenerate_DeterministicOrdering(t *testing.T) {
	db := newServiceDB(t)
	ctx := context.Background()

	r := seedRecipeWithLines(t, db, "Stir Fry",
		seedLine{"zucchini", domain.CategoryProduce, 150, domain.UnitGram},
		seedLine{"carrot", domain.CategoryProduce, 100, domain.UnitGram},
		seedLine{"chicken", domain.CategoryMeat, 400, domain.UnitGram},
	)
	plan, _ := repo.CreateWeekPlan(ctx, db, testSaturday, nil)
	addSlot(t, db, plan.ID, testSaturday, &r.ID, false)

	svc := &GroceryService{DB: db}
	list, err := svc.Generate(ctx, plan.ID)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if !reflect.DeepEqual(list.CategoryOrder, []string{domain.CategoryMeat, domain.CategoryProduce}) {
		t.Fatalf("categories should be alphabetical: %#v", list.CategoryOrder)
	}
	produce := list.Categories[domain.CategoryProduce]
	if produce[0].IngredientName != "carrot" || produce[1].IngredientName != "zucchini" {
		t.Fatalf("items should be alphabetical within category: %#v", produce)
	}
}

func TestGenerate_ZeroQuantityLinesIncluded(t *testing.T) {
	db := newServiceDB(t)
	ctx := context.Background()

	r := seedRecipeWithLines(t, db, "Garnish", seedLine{"parsley", domain.CategoryProduce, 0, domain.UnitGram})
	plan, _ := repo.CreateWeekPlan(ctx, db, testSaturday, nil)
	addSlot(t, db, plan.ID, testSaturday, &r.ID, false)

	svc := &GroceryService{DB: db}
	list, err := svc.Generate(ctx, plan.ID)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	items := list.Categories[domain.CategoryProduce]
	if len(items) != 1 || items[0].TotalQuantity != 0 {
		t.Fatalf("zero-quantity line should be present as-is: %#v", items)
	}
}

func TestGenerate_UnknownPlan(t *testing.T) {
	db := newServiceDB(t)
	svc := &GroceryService{DB: db}
	if _, err := svc.Generate(context.Background(), 999); err != ErrWeekPlanNotFound {
		t.Fatalf("expected ErrWeekPlanNotFound, got %v", err)
	}
}
