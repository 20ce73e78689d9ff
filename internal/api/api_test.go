package api

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"fresh/internal/auth"
	"fresh/internal/config"
	"fresh/internal/database"
	"fresh/internal/media"
	"fresh/internal/models"
	"fresh/internal/planner"
	"fresh/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var testNow = time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	api    *API
	store  *repository.Store
	tokens *auth.Tokens
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{Driver: "sqlite3", URL: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.Seed(db, testNow))

	store := repository.New(db, media.Disabled{})
	tokens := auth.NewTokens("test-secret", time.Hour)
	a := NewAPI(Options{
		Store:  store,
		Tokens: tokens,
		Sessions: planner.NewSessions(func(userID uint) rand.Source {
			return rand.NewSource(int64(userID))
		}),
	})
	a.now = func() time.Time { return testNow }
	return &testServer{api: a, store: store, tokens: tokens}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.api.Router.ServeHTTP(w, req)
	return w
}

// signUp registers a user, stocks their pantry with names and returns a token
func (s *testServer) signUp(t *testing.T, email string, names ...string) (uint, string) {
	t.Helper()
	user := &models.User{FirstName: "Test", LastName: "Cook", Email: email}
	require.NoError(t, s.store.Users.Register(user, "secret"))
	for _, name := range names {
		item := &models.PantryItem{UserID: user.ID, Name: name, ExpirationDate: testNow.AddDate(0, 0, 30)}
		require.NoError(t, s.store.Pantry.Add(item))
	}
	token, err := s.tokens.Issue(user.ID)
	require.NoError(t, err)
	return user.ID, token
}

func decodePlan(t *testing.T, w *httptest.ResponseRecorder) *planner.WeeklyMealPlan {
	t.Helper()
	plan := &planner.WeeklyMealPlan{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), plan))
	return plan
}

func recipeID(t *testing.T, s *testServer, title string) uint {
	t.Helper()
	recipes, err := s.store.Recipes.List()
	require.NoError(t, err)
	for _, r := range recipes {
		if r.Title == title {
			return r.ID
		}
	}
	t.Fatalf("recipe %q not seeded", title)
	return 0
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Contains(t, body, "uptime_seconds")
}

func TestCatalog(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/recipes", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var recipes []models.Recipe
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &recipes))
	assert.Len(t, recipes, 11)

	w = s.do(t, http.MethodGet, "/api/recipes/category?category=dinner", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	recipes = nil
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &recipes))
	for _, r := range recipes {
		assert.Contains(t, strings.ToLower(r.Category), "dinner")
	}
	assert.Len(t, recipes, 4)

	for _, wildcard := range []string{"%25", "_", "Din_er"} {
		w = s.do(t, http.MethodGet, "/api/recipes/category?category="+wildcard, "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String(), wildcard)
	}

	id := recipeID(t, s, "Roast Chicken")
	w = s.do(t, http.MethodGet, "/api/recipe/"+itoa(id), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Roast Chicken")

	w = s.do(t, http.MethodGet, "/api/recipe/9999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Recipe not found"}`, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/recipe/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/nutrients/"+itoa(id), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodGet, "/api/nutrients/9999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/api/ingredients", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var names []string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &names))
	assert.NotEmpty(t, names)
}

func TestAIMenu_SharedAndPersonalPantry(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/ai-menu", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var shared []models.Recipe
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &shared))
	titles := make([]string, 0, len(shared))
	for _, r := range shared {
		titles = append(titles, r.Title)
	}
	assert.Contains(t, titles, "Roast Chicken")
	assert.NotContains(t, titles, "Beef Stew")
	assert.NotContains(t, titles, "Rice Pudding")

	_, token := s.signUp(t, "eggs@example.com", "Eggs", "Bread", "Butter", "Salt", "Pepper")
	w = s.do(t, http.MethodGet, "/api/ai-menu", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mine []models.Recipe
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, "Scrambled Eggs on Toast", mine[0].Title)
}

func TestMissingIngredients(t *testing.T) {
	s := newTestServer(t)
	id := recipeID(t, s, "Beef Stew")

	w := s.do(t, http.MethodGet, "/api/recipe/"+itoa(id)+"/missing", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Matchable bool     `json:"matchable"`
		Missing   []string `json:"missing"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Matchable)
	assert.Equal(t, []string{"800g Beef", "2 Carrots", "3 Potatoes"}, body.Missing)
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)

	register := gin.H{
		"first_name": "Ada",
		"last_name":  "Lovelace",
		"email":      "Ada@Example.com",
		"password":   "engine",
	}
	w := s.do(t, http.MethodPost, "/api/register", "", register)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "engine")

	var user models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	assert.Equal(t, "ada@example.com", user.Email)

	w = s.do(t, http.MethodPost, "/api/register", "", register)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Email already exists"}`, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/register", "", gin.H{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/login", "", gin.H{"email": "ada@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid email or password"}`, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/login", "", gin.H{"email": "ada@example.com", "password": "engine"})
	require.Equal(t, http.StatusOK, w.Code)
	var login struct {
		User  models.User `json:"user"`
		Token string      `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	id, err := s.tokens.Parse(login.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)

	w = s.do(t, http.MethodGet, "/api/user/"+itoa(user.ID), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodGet, "/api/user/9999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPantry(t *testing.T) {
	s := newTestServer(t)
	_, token := s.signUp(t, "pantry@example.com")

	w := s.do(t, http.MethodGet, "/api/pantry", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/pantry", token, gin.H{"name": "Milk", "expiration_date": "2024-03-06"})
	require.Equal(t, http.StatusCreated, w.Code)
	var added pantryView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &added))
	assert.Equal(t, "Milk", added.Name)
	assert.Equal(t, 2, added.DaysUntilExpiry)
	assert.Equal(t, models.StatusSoon, added.Status)

	w = s.do(t, http.MethodPost, "/api/pantry", token, gin.H{"name": "Rice", "expiration_date": "2025-03-04T00:00:00Z"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodPost, "/api/pantry", token, gin.H{"name": "   ", "expiration_date": "2024-03-06"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(t, http.MethodPost, "/api/pantry", token, gin.H{"name": "Tea", "expiration_date": "soon"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/pantry", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []pantryView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 2)
	assert.Equal(t, "Milk", items[0].Name)

	w = s.do(t, http.MethodGet, "/api/pantry/expiring", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	items = nil
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "Milk", items[0].Name)

	w = s.do(t, http.MethodDelete, "/api/pantry/"+itoa(added.ID), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodDelete, "/api/pantry/"+itoa(added.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMealPlan_CraftInsufficient(t *testing.T) {
	s := newTestServer(t)
	_, token := s.signUp(t, "breakfast@example.com", "Eggs", "Bread", "Butter", "Salt", "Pepper")

	w := s.do(t, http.MethodPost, "/api/mealplan/craft", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{"error":"not enough recipes to craft a plan","category":"Lunch"}`, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/mealplan", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, decodePlan(t, w).MealCount())
}

func TestMealPlan_CraftAndEdit(t *testing.T) {
	s := newTestServer(t)
	_, token := s.signUp(t, "cook@example.com",
		"Eggs", "Bread", "Butter", "Salt", "Pepper", "Rice", "Onion", "Olive Oil")

	w := s.do(t, http.MethodPost, "/api/mealplan/craft", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("Last-Modified"))

	plan := decodePlan(t, w)
	for _, day := range planner.Week {
		meals := plan.Meals(day)
		require.Len(t, meals, 3, day)
		assert.Equal(t, "Scrambled Eggs on Toast", meals[0].Title)
		assert.Equal(t, "Egg Fried Rice", meals[1].Title)
		assert.Equal(t, "Egg Fried Rice", meals[2].Title)
	}

	garlicBread := recipeID(t, s, "Garlic Bread")
	w = s.do(t, http.MethodPost, "/api/mealplan/monday/meals", token, gin.H{"recipe_ids": []uint{garlicBread, garlicBread}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodePlan(t, w).Meals(planner.Monday), 5)

	w = s.do(t, http.MethodDelete, "/api/mealplan/Monday/meals/"+itoa(garlicBread), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	monday := decodePlan(t, w).Meals(planner.Monday)
	require.Len(t, monday, 4)
	assert.Equal(t, "Garlic Bread", monday[3].Title)

	w = s.do(t, http.MethodDelete, "/api/mealplan/Monday/meals/9999", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodePlan(t, w).Meals(planner.Monday), 4)

	w = s.do(t, http.MethodPost, "/api/mealplan/Funday/meals", token, gin.H{"recipe_ids": []uint{garlicBread}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(t, http.MethodPost, "/api/mealplan/Monday/meals", token, gin.H{"recipe_ids": []uint{9999}})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodDelete, "/api/mealplan", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	cleared := decodePlan(t, w)
	assert.Zero(t, cleared.MealCount())
	assert.Len(t, cleared.Days(), 7)
}

func TestMealPlan_SessionsAreIsolated(t *testing.T) {
	s := newTestServer(t)
	_, first := s.signUp(t, "first@example.com")
	_, second := s.signUp(t, "second@example.com")

	id := recipeID(t, s, "Garlic Bread")
	w := s.do(t, http.MethodPost, "/api/mealplan/Friday/meals", first, gin.H{"recipe_ids": []uint{id}})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/mealplan", second, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, decodePlan(t, w).MealCount())
	assert.Equal(t, 2, s.api.sessions.Len())
}

func TestMealPlan_Export(t *testing.T) {
	s := newTestServer(t)
	_, token := s.signUp(t, "export@example.com")

	id := recipeID(t, s, "Rice Pudding")
	w := s.do(t, http.MethodPost, "/api/mealplan/Sunday/meals", token, gin.H{"recipe_ids": []uint{id}})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/mealplan/export", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "meal-plan.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Meal Plan")
	require.NoError(t, err)
	found := false
	for _, row := range rows {
		if len(row) > 2 && row[0] == "Sunday" && row[2] == "Rice Pudding" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestMealPlan_Live(t *testing.T) {
	s := newTestServer(t)
	_, token := s.signUp(t, "live@example.com")

	server := httptest.NewServer(s.api.Router)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/mealplan/live?access_token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	read := func() *planner.WeeklyMealPlan {
		t.Helper()
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		var msg struct {
			Type string                  `json:"type"`
			Plan *planner.WeeklyMealPlan `json:"plan"`
		}
		require.NoError(t, conn.ReadJSON(&msg))
		assert.Equal(t, "plan", msg.Type)
		return msg.Plan
	}

	assert.Zero(t, read().MealCount())

	id := recipeID(t, s, "Garlic Bread")
	w := s.do(t, http.MethodPost, "/api/mealplan/Tuesday/meals", token, gin.H{"recipe_ids": []uint{id}})
	require.Equal(t, http.StatusOK, w.Code)

	updated := read()
	require.Len(t, updated.Meals(planner.Tuesday), 1)
	assert.Equal(t, "Garlic Bread", updated.Meals(planner.Tuesday)[0].Title)

	require.NoError(t, conn.WriteJSON(gin.H{"type": "refresh"}))
	assert.Equal(t, 1, read().MealCount())
}

func TestMealPlan_LiveRequiresToken(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/api/mealplan/live", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMedia(t *testing.T) {
	s := newTestServer(t)
	_, token := s.signUp(t, "chef@example.com")

	w := s.do(t, http.MethodGet, "/api/media", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	upload := gin.H{"title": "Clip", "videoUri": "file:///tmp/a.mp4", "imageUri": "file:///tmp/a.jpg"}
	w = s.do(t, http.MethodPost, "/api/upload", "", upload)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/upload", token, gin.H{"title": "Clip"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/upload", token, upload)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMetricsRouter(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodGet, "/api/recipes", "", nil)

	w := httptest.NewRecorder()
	s.api.MetricsRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "fresh_http_request_duration_seconds")
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
