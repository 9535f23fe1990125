package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fullydoved/mealz/internal/assistant"
	"github.com/fullydoved/mealz/internal/domain"
	"github.com/fullydoved/mealz/internal/repo"
	"github.com/fullydoved/mealz/internal/services"
)

// ---------- test DB + handler wiring ----------

func newHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Unique DSN per call to avoid cross-test contamination
	dsn := fmt.Sprintf("file:handlers_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// stubRunner satisfies AssistantRunner with a scripted event sequence.
type stubRunner struct {
	events []assistant.Event
	err    error
	calls  int
}

func (s *stubRunner) Run(ctx context.Context, sessionID uint, msg string, emit assistant.Emitter) error {
	s.calls++
	for _, ev := range s.events {
		emit(ev)
	}
	return s.err
}

func newTestHandlers(t *testing.T, db *gorm.DB, runner AssistantRunner) *Handlers {
	t.Helper()
	if runner == nil {
		runner = &stubRunner{events: []assistant.Event{{Type: assistant.EventDone}}}
	}
	return New(
		&services.IngredientService{DB: db},
		&services.RecipeService{DB: db},
		&services.PlanService{DB: db},
		&services.GroceryService{DB: db},
		&services.ChatService{DB: db},
		runner,
	)
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("json: %v body=%s", err, w.Body.String())
	}
	return out
}

// seedIngredient inserts an ingredient directly and returns its ID.
func seedIngredient(t *testing.T, db *gorm.DB, name, category string) uint {
	t.Helper()
	ing, err := repo.CreateIngredient(context.Background(), db, name, category, domain.UnitGram)
	if err != nil {
		t.Fatalf("seed ingredient %s: %v", name, err)
	}
	return ing.ID
}

// ---------- helpers-only tests ----------

func Test_pathID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	var got uint
	var valid bool
	r.GET("/x/:id", func(c *gin.Context) {
		got, valid = pathID(c, "id")
		if valid {
			c.Status(http.StatusOK)
		}
	})

	w := doJSON(t, r, http.MethodGet, "/x/42", "")
	if !valid || got != 42 || w.Code != http.StatusOK {
		t.Fatalf("valid id: got=%d valid=%v code=%d", got, valid, w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/x/abc", "")
	if valid || w.Code != http.StatusBadRequest {
		t.Fatalf("malformed id: valid=%v code=%d", valid, w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/x/-3", "")
	if valid || w.Code != http.StatusBadRequest {
		t.Fatalf("negative id: valid=%v code=%d", valid, w.Code)
	}
}

func Test_failFromService_Mapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err    error
		status int
		code   string
	}{
		{services.ErrRecipeNotFound, http.StatusNotFound, ErrCodeNotFound},
		{services.ErrSessionNotFound, http.StatusNotFound, ErrCodeNotFound},
		{services.ErrDuplicateWeekPlan, http.StatusConflict, ErrCodeConflict},
		{services.ErrDuplicateIngredient, http.StatusConflict, ErrCodeConflict},
		{services.ErrNotSaturday, http.StatusBadRequest, ErrCodeBadRequest},
		{services.ErrInvalidMealType, http.StatusBadRequest, ErrCodeBadRequest},
		{gorm.ErrInvalidField, http.StatusInternalServerError, ErrCodeListFailed},
	}
	for _, tc := range cases {
		r := gin.New()
		r.GET("/", func(c *gin.Context) { failFromService(c, tc.err, ErrCodeListFailed) })
		w := doJSON(t, r, http.MethodGet, "/", "")
		if w.Code != tc.status {
			t.Fatalf("%v: status = %d, want %d", tc.err, w.Code, tc.status)
		}
		resp := decode[ErrorResponse](t, w)
		if resp.Code != tc.code {
			t.Fatalf("%v: code = %q, want %q", tc.err, resp.Code, tc.code)
		}
	}
}
