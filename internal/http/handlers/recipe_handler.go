// Recipe HTTP handlers.
//
// This file exposes REST endpoints for recipes:
//   - GET    /recipes        (list summaries, search/tag filters, ETag support)
//   - POST   /recipes        (create with ingredient lines)
//   - GET    /recipes/{id}   (full recipe with lines)
//   - PUT    /recipes/{id}   (partial update; provided lines fully replace)
//   - DELETE /recipes/{id}   (delete with relational cleanup)
//
// List responses are summaries without lines; detail responses include each
// line together with its resolved ingredient name and category.
package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fullydoved/mealz/internal/domain"
	"github.com/fullydoved/mealz/internal/repo"
	"github.com/fullydoved/mealz/internal/services"
)

//
// DTOs
//

// RecipeLineRequest is one ingredient line in a create/update payload,
// referencing an existing ingredient by ID.
type RecipeLineRequest struct {
	IngredientID uint    `json:"ingredient_id" binding:"required" example:"3"`
	Quantity     float64 `json:"quantity" example:"200"`
	// Unit defaults to "g" when omitted.
	Unit        string  `json:"unit" example:"g"`
	Preparation *string `json:"preparation,omitempty" example:"finely chopped"`
	Optional    bool    `json:"optional"`
}

// CreateRecipeRequest is the JSON payload for creating a recipe.
type CreateRecipeRequest struct {
	Name         string              `json:"name" binding:"required,min=1,max=255" example:"Shakshuka"`
	Description  *string             `json:"description,omitempty"`
	Servings     int                 `json:"servings" example:"2"`
	PrepTimeMin  *int                `json:"prep_time_min,omitempty"`
	CookTimeMin  *int                `json:"cook_time_min,omitempty"`
	Instructions *string             `json:"instructions,omitempty"`
	Tags         []string            `json:"tags,omitempty"`
	Ingredients  []RecipeLineRequest `json:"ingredients,omitempty"`
}

// UpdateRecipeRequest is the JSON payload for a partial recipe update.
// Absent fields are left untouched; a present Ingredients array fully
// replaces the existing lines.
type UpdateRecipeRequest struct {
	Name         *string              `json:"name,omitempty"`
	Description  *string              `json:"description,omitempty"`
	Servings     *int                 `json:"servings,omitempty"`
	PrepTimeMin  *int                 `json:"prep_time_min,omitempty"`
	CookTimeMin  *int                 `json:"cook_time_min,omitempty"`
	Instructions *string              `json:"instructions,omitempty"`
	Tags         *[]string            `json:"tags,omitempty"`
	Ingredients  *[]RecipeLineRequest `json:"ingredients,omitempty"`
}

// RecipeSummary is the list-view projection of a recipe, without lines.
type RecipeSummary struct {
	ID          uint     `json:"id"`
	Name        string   `json:"name"`
	Description *string  `json:"description,omitempty"`
	Servings    int      `json:"servings"`
	PrepTimeMin *int     `json:"prep_time_min,omitempty"`
	CookTimeMin *int     `json:"cook_time_min,omitempty"`
	Tags        []string `json:"tags"`
}

// RecipeLineRead is one ingredient line in a detail response, with the
// referenced ingredient resolved.
type RecipeLineRead struct {
	ID                 uint    `json:"id"`
	IngredientID       uint    `json:"ingredient_id"`
	Quantity           float64 `json:"quantity"`
	Unit               string  `json:"unit"`
	Preparation        *string `json:"preparation,omitempty"`
	Optional           bool    `json:"optional"`
	IngredientName     string  `json:"ingredient_name"`
	IngredientCategory string  `json:"ingredient_category"`
}

// RecipeRead is the detail-view projection of a recipe.
type RecipeRead struct {
	ID           uint             `json:"id"`
	Name         string           `json:"name"`
	Description  *string          `json:"description,omitempty"`
	Servings     int              `json:"servings"`
	PrepTimeMin  *int             `json:"prep_time_min,omitempty"`
	CookTimeMin  *int             `json:"cook_time_min,omitempty"`
	Instructions *string          `json:"instructions,omitempty"`
	Tags         []string         `json:"tags"`
	Ingredients  []RecipeLineRead `json:"ingredients"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

//
// Projections
//

func recipeSummary(r domain.Recipe) RecipeSummary {
	return RecipeSummary{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Servings:    r.Servings,
		PrepTimeMin: r.PrepTimeMin,
		CookTimeMin: r.CookTimeMin,
		Tags:        r.TagList(),
	}
}

func recipeRead(r *domain.Recipe) RecipeRead {
	lines := make([]RecipeLineRead, 0, len(r.Ingredients))
	for _, ri := range r.Ingredients {
		line := RecipeLineRead{
			ID:           ri.ID,
			IngredientID: ri.IngredientID,
			Quantity:     ri.Quantity,
			Unit:         ri.Unit,
			Preparation:  ri.Preparation,
			Optional:     ri.Optional,
		}
		if ri.Ingredient != nil {
			line.IngredientName = ri.Ingredient.Name
			line.IngredientCategory = ri.Ingredient.Category
		}
		lines = append(lines, line)
	}
	return RecipeRead{
		ID:           r.ID,
		Name:         r.Name,
		Description:  r.Description,
		Servings:     r.Servings,
		PrepTimeMin:  r.PrepTimeMin,
		CookTimeMin:  r.CookTimeMin,
		Instructions: r.Instructions,
		Tags:         r.TagList(),
		Ingredients:  lines,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func lineInputs(reqLines []RecipeLineRequest) []services.RecipeLineInput {
	out := make([]services.RecipeLineInput, 0, len(reqLines))
	for _, l := range reqLines {
		unit := l.Unit
		if unit == "" {
			unit = domain.UnitGram
		}
		out = append(out, services.RecipeLineInput{
			IngredientID: l.IngredientID,
			Quantity:     l.Quantity,
			Unit:         unit,
			Preparation:  l.Preparation,
			Optional:     l.Optional,
		})
	}
	return out
}

//
// Handlers
//

// ListRecipes godoc
// @ID          listRecipes
// @Summary     List recipes
// @Description Returns recipe summaries ordered by name. Supports a name-substring search and an exact tag filter, plus weak ETag via If-None-Match.
// @Tags        Recipes
// @Produce     json
//
// @Param       search         query   string  false "Name substring filter (case-insensitive)"  example(pasta)
// @Param       tag            query   string  false "Exact tag filter"                           example(vegetarian)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"                 example(W/\"recipes:3:1724968800\")
//
// @Success     200  {array}  handlers.RecipeSummary
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /recipes [get]
func (h *Handlers) ListRecipes(c *gin.Context) {
	ctx := c.Request.Context()

	// ETag pre-check (best effort).
	var db *gorm.DB
	if svc, isConcrete := h.recipeSvc.(*services.RecipeService); isConcrete {
		db = svc.DB
	}
	if db != nil {
		count, maxTS, err := repo.RecipesStats(ctx, db)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = *maxTS
			}
			etag := fmt.Sprintf(`W/"recipes:%d:%d"`, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, err := h.recipeSvc.List(ctx, c.Query("search"), c.Query("tag"))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	out := make([]RecipeSummary, 0, len(items))
	for _, r := range items {
		out = append(out, recipeSummary(r))
	}
	ok(c, http.StatusOK, out)
}

// CreateRecipe godoc
// @ID          createRecipe
// @Summary     Create a recipe
// @Description Creates a recipe with its ingredient lines in one transaction. Every referenced ingredient must already exist.
// @Tags        Recipes
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.CreateRecipeRequest  true  "Create recipe payload"
//
// @Success     201  {object}  handlers.RecipeRead
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Referenced ingredient not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /recipes [post]
func (h *Handlers) CreateRecipe(c *gin.Context) {
	var req CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	r, err := h.recipeSvc.Create(c.Request.Context(), services.RecipeCreateInput{
		Name:         req.Name,
		Description:  req.Description,
		Servings:     req.Servings,
		PrepTimeMin:  req.PrepTimeMin,
		CookTimeMin:  req.CookTimeMin,
		Instructions: req.Instructions,
		Tags:         req.Tags,
		Ingredients:  lineInputs(req.Ingredients),
	})
	if err != nil {
		failFromService(c, err, ErrCodeCreateFailed)
		return
	}
	ok(c, http.StatusCreated, recipeRead(r))
}

// GetRecipe godoc
// @ID          getRecipe
// @Summary     Get a recipe
// @Description Returns the full recipe with its ingredient lines.
// @Tags        Recipes
// @Produce     json
//
// @Param       id  path  int  true  "Recipe ID"  example(7)
//
// @Success     200  {object}  handlers.RecipeRead
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Recipe not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /recipes/{id} [get]
func (h *Handlers) GetRecipe(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	r, err := h.recipeSvc.Get(c.Request.Context(), id)
	if err != nil {
		failFromService(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, recipeRead(r))
}

// UpdateRecipe godoc
// @ID          updateRecipe
// @Summary     Update a recipe
// @Description Applies a partial update. Absent fields are left untouched; a present ingredients array fully replaces the existing lines.
// @Tags        Recipes
// @Accept      json
// @Produce     json
//
// @Param       id    path  int                           true  "Recipe ID"  example(7)
// @Param       body  body  handlers.UpdateRecipeRequest  true  "Partial update payload"
//
// @Success     200  {object}  handlers.RecipeRead
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Recipe not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /recipes/{id} [put]
func (h *Handlers) UpdateRecipe(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var req UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	in := services.RecipeUpdateInput{
		Name:         req.Name,
		Description:  req.Description,
		Servings:     req.Servings,
		PrepTimeMin:  req.PrepTimeMin,
		CookTimeMin:  req.CookTimeMin,
		Instructions: req.Instructions,
		Tags:         req.Tags,
	}
	if req.Ingredients != nil {
		lines := lineInputs(*req.Ingredients)
		in.Ingredients = &lines
	}

	r, err := h.recipeSvc.Update(c.Request.Context(), id, in)
	if err != nil {
		failFromService(c, err, ErrCodeUpdateFailed)
		return
	}
	ok(c, http.StatusOK, recipeRead(r))
}

// DeleteRecipe godoc
// @ID          deleteRecipe
// @Summary     Delete a recipe
// @Description Removes a recipe; its lines are cascade-deleted and meal-slot and chat-session references to it are nullified.
// @Tags        Recipes
// @Produce     json
//
// @Param       id  path  int  true  "Recipe ID"  example(7)
//
// @Success     204  {string}  string  "No Content"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Recipe not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /recipes/{id} [delete]
func (h *Handlers) DeleteRecipe(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	if err := h.recipeSvc.Delete(c.Request.Context(), id); err != nil {
		failFromService(c, err, ErrCodeDeleteFailed)
		return
	}
	noContent(c)
}
