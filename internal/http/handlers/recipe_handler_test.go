package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/fullydoved/mealz/internal/domain"
)

func recipeRouter(h *Handlers) *gin.Engine {
	r := gin.New()
	r.GET("/recipes", h.ListRecipes)
	r.POST("/recipes", h.CreateRecipe)
	r.GET("/recipes/:id", h.GetRecipe)
	r.PUT("/recipes/:id", h.UpdateRecipe)
	r.DELETE("/recipes/:id", h.DeleteRecipe)
	return r
}

func TestCreateRecipe_WithLines_ResolvesIngredients(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newHandlerDB(t)
	h := newTestHandlers(t, db, nil)
	r := recipeRouter(h)

	flourID := seedIngredient(t, db, "flour", domain.CategoryPantry)

	body := fmt.Sprintf(`{
		"name": "Pancakes",
		"servings": 4,
		"tags": ["breakfast"],
		"ingredients": [{"ingredient_id": %d, "quantity": 200}]
	}`, flourID)
	w := doJSON(t, r, http.MethodPost, "/recipes", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create -> %d body=%s", w.Code, w.Body.String())
	}
	out := decode[RecipeRead](t, w)
	if out.Name != "Pancakes" || out.Servings != 4 {
		t.Fatalf("unexpected recipe: %#v", out)
	}
	if len(out.Tags) != 1 || out.Tags[0] != "breakfast" {
		t.Fatalf("tags = %v", out.Tags)
	}
	if len(out.Ingredients) != 1 {
		t.Fatalf("lines = %#v", out.Ingredients)
	}
	line := out.Ingredients[0]
	if line.IngredientName != "flour" || line.IngredientCategory != domain.CategoryPantry {
		t.Fatalf("resolved line = %#v", line)
	}
	if line.Unit != domain.UnitGram {
		t.Fatalf("unit default = %q", line.Unit)
	}
}

func TestCreateRecipe_UnknownIngredient_NotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newTestHandlers(t, newHandlerDB(t), nil)
	r := recipeRouter(h)

	body := `{"name": "Ghost stew", "ingredients": [{"ingredient_id": 999, "quantity": 1}]}`
	w := doJSON(t, r, http.MethodPost, "/recipes", body)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown ingredient -> %d body=%s", w.Code, w.Body.String())
	}
}

func TestGetRecipe_NotFound_And_BadID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newTestHandlers(t, newHandlerDB(t), nil)
	r := recipeRouter(h)

	w := doJSON(t, r, http.MethodGet, "/recipes/99", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing -> %d", w.Code)
	}
	w = doJSON(t, r, http.MethodGet, "/recipes/zero", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad id -> %d", w.Code)
	}
}

func TestUpdateRecipe_PartialThenReplaceLines(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newHandlerDB(t)
	h := newTestHandlers(t, db, nil)
	r := recipeRouter(h)

	eggID := seedIngredient(t, db, "egg", domain.CategoryDairy)
	milkID := seedIngredient(t, db, "milk", domain.CategoryDairy)

	body := fmt.Sprintf(`{"name": "Omelette", "ingredients": [{"ingredient_id": %d, "quantity": 3, "unit": "unit"}]}`, eggID)
	created := decode[RecipeRead](t, doJSON(t, r, http.MethodPost, "/recipes", body))

	// Partial update: servings only, lines untouched.
	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/recipes/%d", created.ID), `{"servings": 6}`)
	if w.Code != http.StatusOK {
		t.Fatalf("partial update -> %d body=%s", w.Code, w.Body.String())
	}
	got := decode[RecipeRead](t, w)
	if got.Servings != 6 || got.Name != "Omelette" || len(got.Ingredients) != 1 {
		t.Fatalf("after partial: %#v", got)
	}

	// Replace lines entirely.
	body = fmt.Sprintf(`{"ingredients": [{"ingredient_id": %d, "quantity": 100, "unit": "ml"}]}`, milkID)
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/recipes/%d", created.ID), body)
	if w.Code != http.StatusOK {
		t.Fatalf("replace lines -> %d body=%s", w.Code, w.Body.String())
	}
	got = decode[RecipeRead](t, w)
	if len(got.Ingredients) != 1 || got.Ingredients[0].IngredientName != "milk" || got.Ingredients[0].Unit != domain.UnitMl {
		t.Fatalf("replaced lines: %#v", got.Ingredients)
	}

	// Unknown recipe -> 404.
	w = doJSON(t, r, http.MethodPut, "/recipes/999", `{"servings": 2}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown recipe -> %d", w.Code)
	}
}

func TestDeleteRecipe_ThenGone(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newHandlerDB(t)
	h := newTestHandlers(t, db, nil)
	r := recipeRouter(h)

	created := decode[RecipeRead](t, doJSON(t, r, http.MethodPost, "/recipes", `{"name": "Toast"}`))

	w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/recipes/%d", created.ID), "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete -> %d", w.Code)
	}
	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/recipes/%d", created.ID), "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("double delete -> %d", w.Code)
	}
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/recipes/%d", created.ID), "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("get after delete -> %d", w.Code)
	}
}

func TestListRecipes_FiltersAndETag(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newHandlerDB(t)
	h := newTestHandlers(t, db, nil)
	r := recipeRouter(h)

	doJSON(t, r, http.MethodPost, "/recipes", `{"name": "Pasta al limone", "tags": ["vegetarian"]}`)
	doJSON(t, r, http.MethodPost, "/recipes", `{"name": "Beef stew", "tags": ["hearty"]}`)

	// Tag filter.
	w := doJSON(t, r, http.MethodGet, "/recipes?tag=vegetarian", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list -> %d", w.Code)
	}
	items := decode[[]RecipeSummary](t, w)
	if len(items) != 1 || items[0].Name != "Pasta al limone" {
		t.Fatalf("tag filter = %#v", items)
	}

	// Search filter, ordered by name.
	w = doJSON(t, r, http.MethodGet, "/recipes?search=e", "")
	items = decode[[]RecipeSummary](t, w)
	if len(items) != 2 || items[0].Name != "Beef stew" {
		t.Fatalf("search order = %#v", items)
	}

	// Nothing changed since the last GET, so the tag must match.
	etag := w.Header().Get("ETag")
	if etag == "" {
		t.Fatalf("missing ETag")
	}
	req := httptest.NewRequest(http.MethodGet, "/recipes", nil)
	req.Header.Set("If-None-Match", etag)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotModified {
		t.Fatalf("If-None-Match -> %d", rec.Code)
	}
}
