// Week-plan HTTP handlers.
//
// This file exposes REST endpoints for weekly meal plans:
//   - GET    /meal-plans?week_start=            (fetch by start date, null when absent)
//   - POST   /meal-plans                        (create for a Saturday)
//   - PUT    /meal-plans/{id}                   (update notes)
//   - POST   /meal-plans/{id}/slots             (add meal slot)
//   - PUT    /meal-plans/{id}/slots/{slotID}    (partial slot update)
//   - DELETE /meal-plans/{id}/slots/{slotID}    (remove slot)
//   - GET    /meal-plans/{id}/grocery-list      (aggregated grocery list)
//
// Dates travel as YYYY-MM-DD strings. Slot responses resolve the recipe name
// so the calendar view never needs a second request.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fullydoved/mealz/internal/domain"
	"github.com/fullydoved/mealz/internal/services"
)

//
// DTOs
//

// CreateWeekPlanRequest is the JSON payload for creating a week plan.
type CreateWeekPlanRequest struct {
	// WeekStart must be a Saturday, formatted YYYY-MM-DD.
	WeekStart string  `json:"week_start" binding:"required" example:"2026-08-29"`
	Notes     *string `json:"notes,omitempty"`
}

// UpdateWeekPlanRequest is the JSON payload for updating a plan's notes.
type UpdateWeekPlanRequest struct {
	Notes *string `json:"notes,omitempty"`
}

// CreateMealSlotRequest is the JSON payload for adding a slot to a plan.
type CreateMealSlotRequest struct {
	// Date is the day the slot falls on, formatted YYYY-MM-DD.
	Date string `json:"date" binding:"required" example:"2026-09-02"`
	// MealType defaults to "dinner".
	MealType         string  `json:"meal_type" example:"dinner"`
	RecipeID         *uint   `json:"recipe_id,omitempty"`
	IsLeftover       bool    `json:"is_leftover"`
	LeftoverSourceID *uint   `json:"leftover_source_id,omitempty"`
	Notes            *string `json:"notes,omitempty"`
	SortOrder        int     `json:"sort_order"`
}

// UpdateMealSlotRequest is the JSON payload for a partial slot update.
// Absent fields are left untouched. Because JSON absence and null are
// indistinguishable for pointer fields, clearing a reference is expressed
// with the explicit clear flags.
type UpdateMealSlotRequest struct {
	Date             *string `json:"date,omitempty" example:"2026-09-03"`
	MealType         *string `json:"meal_type,omitempty"`
	RecipeID         *uint   `json:"recipe_id,omitempty"`
	ClearRecipe      bool    `json:"clear_recipe"`
	IsLeftover       *bool   `json:"is_leftover,omitempty"`
	LeftoverSourceID *uint   `json:"leftover_source_id,omitempty"`
	ClearLeftoverSrc bool    `json:"clear_leftover_source"`
	Notes            *string `json:"notes,omitempty"`
	SortOrder        *int    `json:"sort_order,omitempty"`
}

// MealSlotRead is the response projection of a meal slot, with its recipe
// name resolved when one is assigned.
type MealSlotRead struct {
	ID               uint    `json:"id"`
	WeekPlanID       uint    `json:"week_plan_id"`
	Date             string  `json:"date"`
	MealType         string  `json:"meal_type"`
	RecipeID         *uint   `json:"recipe_id,omitempty"`
	RecipeName       *string `json:"recipe_name,omitempty"`
	IsLeftover       bool    `json:"is_leftover"`
	LeftoverSourceID *uint   `json:"leftover_source_id,omitempty"`
	Notes            *string `json:"notes,omitempty"`
	SortOrder        int     `json:"sort_order"`
}

// WeekPlanRead is the response projection of a week plan with its slots in
// chronological order.
type WeekPlanRead struct {
	ID        uint           `json:"id"`
	WeekStart string         `json:"week_start"`
	Notes     *string        `json:"notes,omitempty"`
	Slots     []MealSlotRead `json:"slots"`
	CreatedAt time.Time      `json:"created_at"`
}

//
// Projections
//

func slotRead(s *domain.MealSlot) MealSlotRead {
	out := MealSlotRead{
		ID:               s.ID,
		WeekPlanID:       s.WeekPlanID,
		Date:             s.Date.Format("2006-01-02"),
		MealType:         s.MealType,
		RecipeID:         s.RecipeID,
		IsLeftover:       s.IsLeftover,
		LeftoverSourceID: s.LeftoverSourceID,
		Notes:            s.Notes,
		SortOrder:        s.SortOrder,
	}
	if s.Recipe != nil {
		name := s.Recipe.Name
		out.RecipeName = &name
	}
	return out
}

func planRead(p *domain.WeekPlan) WeekPlanRead {
	slots := make([]MealSlotRead, 0, len(p.Slots))
	for i := range p.Slots {
		slots = append(slots, slotRead(&p.Slots[i]))
	}
	return WeekPlanRead{
		ID:        p.ID,
		WeekStart: p.WeekStart.Format("2006-01-02"),
		Notes:     p.Notes,
		Slots:     slots,
		CreatedAt: p.CreatedAt,
	}
}

//
// Handlers
//

// GetWeekPlan godoc
// @ID          getWeekPlan
// @Summary     Get the plan for a week
// @Description Returns the plan whose week starts at week_start, with slots in chronological order, or a JSON null when the week is unplanned.
// @Tags        MealPlans
// @Produce     json
//
// @Param       week_start  query  string  true  "Week start date (a Saturday), YYYY-MM-DD"  example(2026-08-29)
//
// @Success     200  {object}  handlers.WeekPlanRead
// @Failure     400  {object}  handlers.ErrorResponse  "Missing or malformed week_start"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /meal-plans [get]
func (h *Handlers) GetWeekPlan(c *gin.Context) {
	weekStart, valid := parseDate(c.Query("week_start"))
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "week_start must be a YYYY-MM-DD date")
		return
	}

	p, err := h.planSvc.GetByStart(c.Request.Context(), weekStart)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	if p == nil {
		// An unplanned week is not an error; the calendar shows it empty.
		ok(c, http.StatusOK, nil)
		return
	}
	ok(c, http.StatusOK, planRead(p))
}

// CreateWeekPlan godoc
// @ID          createWeekPlan
// @Summary     Create a week plan
// @Description Creates an empty plan for the week starting at the given Saturday.
// @Tags        MealPlans
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.CreateWeekPlanRequest  true  "Create week plan payload"
//
// @Success     201  {object}  handlers.WeekPlanRead
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request or non-Saturday start"
// @Failure     409  {object}  handlers.ErrorResponse  "Week plan already exists"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /meal-plans [post]
func (h *Handlers) CreateWeekPlan(c *gin.Context) {
	var req CreateWeekPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	weekStart, valid := parseDate(req.WeekStart)
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "week_start must be a YYYY-MM-DD date")
		return
	}

	p, err := h.planSvc.Create(c.Request.Context(), weekStart, req.Notes)
	if err != nil {
		failFromService(c, err, ErrCodeCreateFailed)
		return
	}
	ok(c, http.StatusCreated, planRead(p))
}

// UpdateWeekPlan godoc
// @ID          updateWeekPlan
// @Summary     Update week plan notes
// @Description Replaces the notes of an existing plan. Slots are managed through the slot endpoints.
// @Tags        MealPlans
// @Accept      json
// @Produce     json
//
// @Param       id    path  int                             true  "Week plan ID"  example(4)
// @Param       body  body  handlers.UpdateWeekPlanRequest  true  "Notes payload"
//
// @Success     200  {object}  handlers.WeekPlanRead
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Week plan not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /meal-plans/{id} [put]
func (h *Handlers) UpdateWeekPlan(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var req UpdateWeekPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	if req.Notes == nil {
		p, err := h.planSvc.Get(c.Request.Context(), id)
		if err != nil {
			failFromService(c, err, ErrCodeInternal)
			return
		}
		ok(c, http.StatusOK, planRead(p))
		return
	}

	p, err := h.planSvc.UpdateNotes(c.Request.Context(), id, *req.Notes)
	if err != nil {
		failFromService(c, err, ErrCodeUpdateFailed)
		return
	}
	ok(c, http.StatusOK, planRead(p))
}

// AddMealSlot godoc
// @ID          addMealSlot
// @Summary     Add a meal slot
// @Description Adds a slot to the plan. Slots are never deduplicated; the same date and meal may hold several.
// @Tags        MealPlans
// @Accept      json
// @Produce     json
//
// @Param       id    path  int                             true  "Week plan ID"  example(4)
// @Param       body  body  handlers.CreateMealSlotRequest  true  "Create slot payload"
//
// @Success     201  {object}  handlers.MealSlotRead
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Week plan not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /meal-plans/{id}/slots [post]
func (h *Handlers) AddMealSlot(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var req CreateMealSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	date, valid := parseDate(req.Date)
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "date must be a YYYY-MM-DD date")
		return
	}

	slot, err := h.planSvc.AddSlot(c.Request.Context(), id, services.MealSlotCreateInput{
		Date:             date,
		MealType:         req.MealType,
		RecipeID:         req.RecipeID,
		IsLeftover:       req.IsLeftover,
		LeftoverSourceID: req.LeftoverSourceID,
		Notes:            req.Notes,
		SortOrder:        req.SortOrder,
	})
	if err != nil {
		failFromService(c, err, ErrCodeCreateFailed)
		return
	}
	ok(c, http.StatusCreated, slotRead(slot))
}

// UpdateMealSlot godoc
// @ID          updateMealSlot
// @Summary     Update a meal slot
// @Description Applies a partial update to a slot of the plan. Set clear_recipe or clear_leftover_source to detach a reference.
// @Tags        MealPlans
// @Accept      json
// @Produce     json
//
// @Param       id      path  int                             true  "Week plan ID"  example(4)
// @Param       slotID  path  int                             true  "Meal slot ID"  example(11)
// @Param       body    body  handlers.UpdateMealSlotRequest  true  "Partial slot update"
//
// @Success     200  {object}  handlers.MealSlotRead
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Meal slot not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /meal-plans/{id}/slots/{slotID} [put]
func (h *Handlers) UpdateMealSlot(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	slotID, valid := pathID(c, "slotID")
	if !valid {
		return
	}
	var req UpdateMealSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	in := services.MealSlotUpdateInput{
		MealType:         req.MealType,
		RecipeID:         req.RecipeID,
		ClearRecipe:      req.ClearRecipe,
		IsLeftover:       req.IsLeftover,
		LeftoverSourceID: req.LeftoverSourceID,
		ClearLeftoverSrc: req.ClearLeftoverSrc,
		Notes:            req.Notes,
		SortOrder:        req.SortOrder,
	}
	if req.Date != nil {
		date, valid := parseDate(*req.Date)
		if !valid {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "date must be a YYYY-MM-DD date")
			return
		}
		in.Date = &date
	}

	slot, err := h.planSvc.UpdateSlot(c.Request.Context(), id, slotID, in)
	if err != nil {
		failFromService(c, err, ErrCodeUpdateFailed)
		return
	}
	ok(c, http.StatusOK, slotRead(slot))
}

// DeleteMealSlot godoc
// @ID          deleteMealSlot
// @Summary     Delete a meal slot
// @Description Removes a slot of the plan; leftover references to it are nullified.
// @Tags        MealPlans
// @Produce     json
//
// @Param       id      path  int  true  "Week plan ID"  example(4)
// @Param       slotID  path  int  true  "Meal slot ID"  example(11)
//
// @Success     204  {string}  string  "No Content"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Meal slot not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /meal-plans/{id}/slots/{slotID} [delete]
func (h *Handlers) DeleteMealSlot(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	slotID, valid := pathID(c, "slotID")
	if !valid {
		return
	}
	if err := h.planSvc.DeleteSlot(c.Request.Context(), id, slotID); err != nil {
		failFromService(c, err, ErrCodeDeleteFailed)
		return
	}
	noContent(c)
}

// GetGroceryList godoc
// @ID          getGroceryList
// @Summary     Get the grocery list for a plan
// @Description Aggregates the plan's non-leftover recipe slots into a grocery list grouped by category. Quantities are summed per ingredient and unit; no unit conversion is attempted.
// @Tags        MealPlans
// @Produce     json
//
// @Param       id  path  int  true  "Week plan ID"  example(4)
//
// @Success     200  {object}  services.GroceryList
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Week plan not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /meal-plans/{id}/grocery-list [get]
func (h *Handlers) GetGroceryList(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	list, err := h.grocerySvc.Generate(c.Request.Context(), id)
	if err != nil {
		failFromService(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, list)
}
