// Package domain defines the persistence models for the meal planner:
// ingredients, recipes and their ingredient lines, weekly plans with meal
// slots, and chat sessions with their messages. These types are mapped with
// GORM and form the core data layer of the application.
package domain

import (
	"encoding/json"
	"time"
)

// Grocery categories an ingredient can belong to.
const (
	CategoryProduce = "produce"
	CategoryMeat    = "meat"
	CategoryDairy   = "dairy"
	CategoryPantry  = "pantry"
	CategoryFrozen  = "frozen"
	CategoryBakery  = "bakery"
	CategoryOther   = "other"
)

// Categories lists all valid grocery categories in display order.
var Categories = []string{
	CategoryProduce, CategoryMeat, CategoryDairy,
	CategoryPantry, CategoryFrozen, CategoryBakery, CategoryOther,
}

// Measurement units accepted on ingredient lines.
const (
	UnitGram = "g"
	UnitMl   = "ml"
	UnitUnit = "unit"
)

// Meal types a slot can be scheduled as.
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
)

// Chat session context types.
const (
	ContextGeneral  = "general"
	ContextWeekPlan = "week_plan"
	ContextRecipe   = "recipe"
)

// Chat message author roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ValidCategory reports whether c is one of the known grocery categories.
func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// ValidUnit reports whether u is an accepted measurement unit.
func ValidUnit(u string) bool {
	return u == UnitGram || u == UnitMl || u == UnitUnit
}

// ValidMealType reports whether m is an accepted meal type.
func ValidMealType(m string) bool {
	return m == MealBreakfast || m == MealLunch || m == MealDinner
}

// Ingredient is a pantry-level item referenced by recipe lines. Names are
// unique; lookups go through NameKey, the trimmed case-folded form written on
// every insert so case-insensitive resolution stays consistent across
// storage backends.
type Ingredient struct {
	ID          uint   `json:"id"           gorm:"primaryKey"`
	Name        string `json:"name"         gorm:"type:text;not null;uniqueIndex"`
	NameKey     string `json:"-"            gorm:"type:text;not null;uniqueIndex"`
	Category    string `json:"category"     gorm:"type:varchar(50);not null;default:'other'"`
	DefaultUnit string `json:"default_unit" gorm:"type:varchar(20);not null;default:'g'"`
}

// TableName returns the database table name for Ingredient.
func (Ingredient) TableName() string { return "ingredients" }

// Recipe is a stored dish with an ordered list of ingredient lines.
// Tags are persisted as a JSON array in a text column; use TagList/SetTagList.
//
// Fields:
//   - NameKey: trimmed case-folded copy of Name, maintained on every write,
//     used for case-insensitive resolution by the tool dispatcher.
//   - UpdatedAt: refreshed by GORM on every mutation.
type Recipe struct {
	ID           uint      `json:"id"            gorm:"primaryKey"`
	Name         string    `json:"name"          gorm:"type:text;not null"`
	NameKey      string    `json:"-"             gorm:"type:text;not null;index"`
	Description  *string   `json:"description,omitempty"  gorm:"type:text"`
	Servings     int       `json:"servings"      gorm:"not null;default:2"`
	PrepTimeMin  *int      `json:"prep_time_min,omitempty"`
	CookTimeMin  *int      `json:"cook_time_min,omitempty"`
	Instructions *string   `json:"instructions,omitempty" gorm:"type:text"`
	Tags         string    `json:"-"             gorm:"type:text"` // JSON array
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Ingredients are cascade-deleted with their recipe.
	Ingredients []RecipeIngredient `json:"ingredients,omitempty" gorm:"foreignKey:RecipeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Recipe.
func (Recipe) TableName() string { return "recipes" }

// TagList decodes the JSON tags column. A missing or malformed column
// yields an empty slice, never an error.
func (r *Recipe) TagList() []string {
	if r.Tags == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(r.Tags), &out); err != nil || out == nil {
		return []string{}
	}
	return out
}

// SetTagList encodes tags into the JSON column. A nil slice stores "[]".
func (r *Recipe) SetTagList(tags []string) {
	if tags == nil {
		tags = []string{}
	}
	b, _ := json.Marshal(tags)
	r.Tags = string(b)
}

// RecipeIngredient is one ingredient line of a recipe: a quantity of an
// ingredient in a given unit, with optional preparation notes.
type RecipeIngredient struct {
	ID           uint    `json:"id"            gorm:"primaryKey"`
	RecipeID     uint    `json:"recipe_id"     gorm:"not null;index"`
	IngredientID uint    `json:"ingredient_id" gorm:"not null;index"`
	Quantity     float64 `json:"quantity"      gorm:"not null"`
	Unit         string  `json:"unit"          gorm:"type:varchar(20);not null;default:'g'"`
	Preparation  *string `json:"preparation,omitempty" gorm:"type:text"`
	Optional     bool    `json:"optional"      gorm:"not null;default:false"`

	Ingredient *Ingredient `json:"ingredient,omitempty" gorm:"foreignKey:IngredientID;references:ID"`
}

// TableName returns the database table name for RecipeIngredient.
func (RecipeIngredient) TableName() string { return "recipe_ingredients" }

// WeekPlan is the set of meal slots for one Saturday-through-Friday week,
// keyed by its start date. WeekStart is unique and must be a Saturday.
type WeekPlan struct {
	ID        uint      `json:"id"         gorm:"primaryKey"`
	WeekStart time.Time `json:"week_start" gorm:"type:date;not null;uniqueIndex"`
	Notes     *string   `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`

	// Slots are cascade-deleted with their plan.
	Slots []MealSlot `json:"slots,omitempty" gorm:"foreignKey:WeekPlanID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for WeekPlan.
func (WeekPlan) TableName() string { return "week_plans" }

// MealSlot is one (date, meal type) assignment within a week plan. It may
// point at a recipe, or be marked as a leftover reusing a prior slot's
// cooked food. A leftover slot should reference its source slot, but this
// is advisory and not enforced.
type MealSlot struct {
	ID               uint      `json:"id"           gorm:"primaryKey"`
	WeekPlanID       uint      `json:"week_plan_id" gorm:"not null;index"`
	Date             time.Time `json:"date"         gorm:"type:date;not null"`
	MealType         string    `json:"meal_type"    gorm:"type:varchar(20);not null;default:'dinner'"`
	RecipeID         *uint     `json:"recipe_id,omitempty"`
	IsLeftover       bool      `json:"is_leftover"  gorm:"not null;default:false"`
	LeftoverSourceID *uint     `json:"leftover_source_id,omitempty"`
	Notes            *string   `json:"notes,omitempty" gorm:"type:text"`
	SortOrder        int       `json:"sort_order"   gorm:"not null;default:0"`

	// Recipe references are nullified explicitly in repo.DeleteRecipe;
	// SQLite AutoMigrate does not rewrite FK actions on existing tables.
	Recipe *Recipe `json:"-" gorm:"foreignKey:RecipeID;references:ID"`
}

// TableName returns the database table name for MealSlot.
func (MealSlot) TableName() string { return "meal_slots" }

// ChatSession is one assistant conversation, optionally anchored to a week
// plan or a recipe that supplies extra context for the model. Anchors are
// nullified, not cascaded, when their target is removed.
type ChatSession struct {
	ID          uint      `json:"id"           gorm:"primaryKey"`
	ContextType string    `json:"context_type" gorm:"type:varchar(20);not null;default:'general'"`
	WeekPlanID  *uint     `json:"week_plan_id,omitempty"`
	RecipeID    *uint     `json:"recipe_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`

	// Messages are cascade-deleted with their session.
	Messages []ChatMessage `json:"-" gorm:"foreignKey:SessionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for ChatSession.
func (ChatSession) TableName() string { return "chat_sessions" }

// ChatMessage is a single utterance within a session, authored either by
// the "user" or the "assistant". Messages are replayed ordered by CreatedAt.
type ChatMessage struct {
	ID        uint      `json:"id"         gorm:"primaryKey"`
	SessionID uint      `json:"session_id" gorm:"not null;index:idx_session_msgs,priority:1"`
	Role      string    `json:"role"       gorm:"type:varchar(20);not null;check:role IN ('user','assistant')"`
	Content   string    `json:"content"    gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_session_msgs,priority:2"`
}

// TableName returns the database table name for ChatMessage.
func (ChatMessage) TableName() string { return "chat_messages" }
