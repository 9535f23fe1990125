package services

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/fullydoved/mealz/internal/domain"
)

func TestIngredientService_CreateDefaultsAndDuplicates(t *testing.T) {
	db := newServiceDB(t)
	svc := &IngredientService{DB: db}
	ctx := context.Background()

	ing, err := svc.Create(ctx, "Basil", "", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if ing.Category != domain.CategoryOther || ing.DefaultUnit != domain.UnitGram {
		t.Fatalf("blank fields should get defaults: %#v", ing)
	}

	if _, err := svc.Create(ctx, "  basil ", domain.CategoryProduce, domain.UnitGram); !errors.Is(err, ErrDuplicateIngredient) {
		t.Fatalf("case-insensitive duplicate: %v", err)
	}
	if _, err := svc.Create(ctx, "", "", ""); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("blank name: %v", err)
	}
	if _, err := svc.Create(ctx, "x", "minerals", ""); !errors.Is(err, ErrInvalidCategory) {
		t.Fatalf("bad category: %v", err)
	}
}

func TestIngredientService_ListFilters(t *testing.T) {
	db := newServiceDB(t)
	svc := &IngredientService{DB: db}
	ctx := context.Background()

	for _, seed := range [][2]string{
		{"carrot", domain.CategoryProduce},
		{"cabbage", domain.CategoryProduce},
		{"cheddar", domain.CategoryDairy},
	} {
		if _, err := svc.Create(ctx, seed[0], seed[1], domain.UnitGram); err != nil {
			t.Fatalf("seed %s: %v", seed[0], err)
		}
	}

	got, err := svc.List(ctx, "ca", domain.CategoryProduce)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	names := make([]string, 0, len(got))
	for _, i := range got {
		names = append(names, i.Name)
	}
	if !reflect.DeepEqual(names, []string{"cabbage", "carrot"}) {
		t.Fatalf("filtered names: %#v", names)
	}

	if _, err := svc.List(ctx, "", "minerals"); !errors.Is(err, ErrInvalidCategory) {
		t.Fatalf("bad category filter: %v", err)
	}
}

func TestIngredientService_Categories(t *testing.T) {
	svc := &IngredientService{}
	if !reflect.DeepEqual(svc.Categories(), domain.Categories) {
		t.Fatalf("categories: %#v", svc.Categories())
	}
}
