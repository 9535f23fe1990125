package repo

import (
	"context"
	"testing"

	"github.com/fullydoved/mealz/internal/domain"
)

func TestCreateIngredient_TrimsAndWritesNameKey(t *testing.T) {
	db := newTestDB(t, &domain.Ingredient{})

	ing, err := CreateIngredient(context.Background(), db, "  Flour ", domain.CategoryPantry, domain.UnitGram)
	if err != nil {
		t.Fatalf("CreateIngredient: %v", err)
	}
	if ing.Name != "Flour" || ing.NameKey != "flour" {
		t.Fatalf("unexpected fields: %+v", ing)
	}
}

func TestFindOrCreateIngredient_ReusesCaseInsensitively(t *testing.T) {
	db := newTestDB(t, &domain.Ingredient{})
	ctx := context.Background()

	first, err := FindOrCreateIngredient(ctx, db, "Flour", domain.CategoryPantry, domain.UnitGram)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := FindOrCreateIngredient(ctx, db, " flour", domain.CategoryOther, domain.UnitMl)
	if err != nil {
		t.Fatalf("reuse: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected reuse of %d, created %d", first.ID, second.ID)
	}
	// Defaults from the second call must not overwrite the original row.
	if second.Category != domain.CategoryPantry || second.DefaultUnit != domain.UnitGram {
		t.Fatalf("existing row mutated: %+v", second)
	}

	var total int64
	if err := db.Model(&domain.Ingredient{}).Count(&total).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected 1 ingredient row, got %d", total)
	}
}

func TestGetIngredientByNameKey_NotFound(t *testing.T) {
	db := newTestDB(t, &domain.Ingredient{})
	if _, err := GetIngredientByNameKey(context.Background(), db, "salt"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListIngredients_FiltersAndOrder(t *testing.T) {
	db := newTestDB(t, &domain.Ingredient{})
	ctx := context.Background()

	seed := []struct{ name, cat string }{
		{"Tomato", domain.CategoryProduce},
		{"Basil", domain.CategoryProduce},
		{"Milk", domain.CategoryDairy},
	}
	for _, s := range seed {
		if _, err := CreateIngredient(ctx, db, s.name, s.cat, domain.UnitGram); err != nil {
			t.Fatalf("seed %s: %v", s.name, err)
		}
	}

	all, err := ListIngredients(ctx, db, "", "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[0].Name != "Basil" || all[1].Name != "Milk" || all[2].Name != "Tomato" {
		t.Fatalf("unexpected order: %#v", all)
	}

	produce, err := ListIngredients(ctx, db, "", domain.CategoryProduce)
	if err != nil {
		t.Fatalf("list produce: %v", err)
	}
	if len(produce) != 2 {
		t.Fatalf("expected 2 produce rows, got %d", len(produce))
	}

	// Substring search is case-insensitive via the name key.
	hits, err := ListIngredients(ctx, db, "TOM", "")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 1 || hits[0].Name != "Tomato" {
		t.Fatalf("unexpected search result: %#v", hits)
	}
}
