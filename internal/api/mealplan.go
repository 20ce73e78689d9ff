package api

import (
	"bytes"
	"errors"
	"net/http"

	"fresh/internal/auth"
	"fresh/internal/export"
	"fresh/internal/metrics"
	"fresh/internal/models"
	"fresh/internal/planner"
	"fresh/internal/repository"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type addMealsRequest struct {
	RecipeIDs []uint `json:"recipe_ids" binding:"required"`
}

// session returns the caller's plan store
func (a *API) session(c *gin.Context) *planner.Store {
	userID, _ := auth.UserID(c)
	store := a.sessions.Get(userID)
	a.metrics.RecordSessions(a.sessions.Len())
	return store
}

// writePlan answers with the store's current plan. Last-Modified carries
// the time of the latest mutation.
func writePlan(c *gin.Context, store *planner.Store) {
	plan, updatedAt := store.Current()
	if !updatedAt.IsZero() {
		c.Header("Last-Modified", updatedAt.UTC().Format(http.TimeFormat))
	}
	c.JSON(http.StatusOK, plan)
}

// GetMealPlan returns the caller's current week
func (a *API) GetMealPlan(c *gin.Context) {
	writePlan(c, a.session(c))
}

// CraftMealPlan fills every day of the week from the caller's AI Menu
func (a *API) CraftMealPlan(c *gin.Context) {
	store := a.session(c)
	userID, _ := auth.UserID(c)

	matched, err := a.store.AIMenu(userID)
	if err != nil {
		a.metrics.RecordCraft(metrics.OutcomeError)
		a.monitor.RecordCraft(metrics.OutcomeError, 0)
		a.internalError(c, "Error fetching AI Menu recipes", err)
		return
	}
	a.metrics.RecordMatched(len(matched))

	var insufficient *planner.InsufficientRecipesError
	if err := store.Craft(matched); errors.As(err, &insufficient) {
		a.metrics.RecordCraft(metrics.OutcomeInsufficient)
		a.monitor.RecordCraft(metrics.OutcomeInsufficient, len(matched))
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":    "not enough recipes to craft a plan",
			"category": insufficient.Category,
		})
		return
	} else if err != nil {
		a.metrics.RecordCraft(metrics.OutcomeError)
		a.monitor.RecordCraft(metrics.OutcomeError, len(matched))
		a.internalError(c, "Error crafting meal plan", err)
		return
	}

	a.metrics.RecordCraft(metrics.OutcomeCrafted)
	a.metrics.RecordMutation("craft")
	a.monitor.RecordCraft(metrics.OutcomeCrafted, len(matched))
	writePlan(c, store)
}

// AddMeals appends recipes to one day of the caller's plan
func (a *API) AddMeals(c *gin.Context) {
	day, err := planner.ParseDay(c.Param("day"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var req addMealsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipes, err := a.store.Recipes.GetMany(req.RecipeIDs)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		a.internalError(c, "Error fetching recipes", err)
		return
	}

	store := a.session(c)
	store.AddMeals(day, recipes)
	a.metrics.RecordMutation("add")
	writePlan(c, store)
}

// RemoveMeal removes the first occurrence of a recipe from one day
func (a *API) RemoveMeal(c *gin.Context) {
	day, err := planner.ParseDay(c.Param("day"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	store := a.session(c)
	store.RemoveMeal(day, models.Recipe{ID: id})
	a.metrics.RecordMutation("remove")
	writePlan(c, store)
}

// ClearMealPlan empties every day of the caller's plan
func (a *API) ClearMealPlan(c *gin.Context) {
	store := a.session(c)
	store.ClearAll()
	a.metrics.RecordMutation("clear")
	writePlan(c, store)
}

// ExportMealPlan downloads the caller's week as a spreadsheet
func (a *API) ExportMealPlan(c *gin.Context) {
	var buf bytes.Buffer
	if err := export.WriteWeek(&buf, a.session(c).Snapshot()); err != nil {
		a.internalError(c, "Error exporting meal plan", err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="meal-plan.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
