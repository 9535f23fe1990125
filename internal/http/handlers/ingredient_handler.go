// Ingredient HTTP handlers.
//
// This file exposes REST endpoints for the ingredient catalogue:
//   - GET  /ingredients             (list, with search/category filters)
//   - POST /ingredients             (create)
//   - GET  /ingredients/categories  (allowed grocery categories)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CreateIngredientRequest is the JSON payload for creating an ingredient.
type CreateIngredientRequest struct {
	// Name is the ingredient name; must be non-blank and unused.
	Name string `json:"name" binding:"required,min=1,max=255" example:"carrot"`
	// Category optionally sets the grocery category; defaults to "other".
	Category string `json:"category" example:"produce"`
	// DefaultUnit optionally sets the default measurement unit; defaults to "g".
	DefaultUnit string `json:"default_unit" example:"g"`
}

// ListIngredients godoc
// @ID          listIngredients
// @Summary     List ingredients
// @Description Returns ingredients ordered by name, optionally filtered by a name substring and/or a grocery category.
// @Tags        Ingredients
// @Produce     json
//
// @Param       search    query  string  false "Name substring filter (case-insensitive)"  example(car)
// @Param       category  query  string  false "Grocery category filter"                   example(produce)
//
// @Success     200  {array}   domain.Ingredient
// @Failure     400  {object}  handlers.ErrorResponse  "Unknown category"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /ingredients [get]
func (h *Handlers) ListIngredients(c *gin.Context) {
	items, err := h.ingredientSvc.List(c.Request.Context(), c.Query("search"), c.Query("category"))
	if err != nil {
		failFromService(c, err, ErrCodeListFailed)
		return
	}
	ok(c, http.StatusOK, items)
}

// CreateIngredient godoc
// @ID          createIngredient
// @Summary     Create an ingredient
// @Description Creates a catalogue ingredient. Names are unique case-insensitively; category and unit fall back to defaults when omitted.
// @Tags        Ingredients
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.CreateIngredientRequest  true  "Create ingredient payload"
//
// @Success     201  {object}  domain.Ingredient
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     409  {object}  handlers.ErrorResponse  "Ingredient already exists"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /ingredients [post]
func (h *Handlers) CreateIngredient(c *gin.Context) {
	var req CreateIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	ing, err := h.ingredientSvc.Create(c.Request.Context(), req.Name, req.Category, req.DefaultUnit)
	if err != nil {
		failFromService(c, err, ErrCodeCreateFailed)
		return
	}
	ok(c, http.StatusCreated, ing)
}

// ListCategories godoc
// @ID          listCategories
// @Summary     List grocery categories
// @Description Returns the allowed grocery categories in display order.
// @Tags        Ingredients
// @Produce     json
//
// @Success     200  {array}  string
// @Router      /ingredients/categories [get]
func (h *Handlers) ListCategories(c *gin.Context) {
	ok(c, http.StatusOK, h.ingredientSvc.Categories())
}
