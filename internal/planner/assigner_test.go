package planner

import (
	"errors"
	"math/rand"
	"testing"

	"fresh/internal/matching"
	"fresh/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecipe(id uint, category string, ingredients ...string) models.Recipe {
	r := models.Recipe{ID: id, Title: category, Category: category}
	r.SetIngredientList(ingredients)
	return r
}

func fullCatalog() []models.Recipe {
	return []models.Recipe{
		testRecipe(1, models.CategoryBreakfast),
		testRecipe(2, models.CategoryBreakfast),
		testRecipe(3, models.CategoryLunch),
		testRecipe(4, models.CategoryLunch),
		testRecipe(5, models.CategoryDinner),
		testRecipe(6, models.CategoryDinner),
		testRecipe(7, models.CategorySnack),
	}
}

func newTestAssigner(seed int64) *Assigner {
	return NewAssigner(rand.NewSource(seed))
}

func TestAutoCraft_Complete(t *testing.T) {
	plan, err := newTestAssigner(1).AutoCraft(fullCatalog())
	require.NoError(t, err)

	days := plan.Days()
	require.Len(t, days, 7)
	for i, assignment := range days {
		assert.Equal(t, Week[i], assignment.Day)
		require.Len(t, assignment.Meals, 3)
		for j, slot := range Slots {
			assert.Equal(t, slot.Category, assignment.Meals[j].Category, "%s slot %d", assignment.Day, j)
		}
	}
}

func TestAutoCraft_Deterministic(t *testing.T) {
	first, err := newTestAssigner(42).AutoCraft(fullCatalog())
	require.NoError(t, err)
	second, err := newTestAssigner(42).AutoCraft(fullCatalog())
	require.NoError(t, err)

	assert.Equal(t, first.Days(), second.Days())
}

func TestAutoCraft_RepeatsSingleRecipe(t *testing.T) {
	catalog := []models.Recipe{
		testRecipe(1, models.CategoryBreakfast),
		testRecipe(2, models.CategoryLunch),
		testRecipe(3, models.CategoryDinner),
	}

	plan, err := newTestAssigner(3).AutoCraft(catalog)
	require.NoError(t, err)
	for _, day := range Week {
		assert.Equal(t, catalog, plan.Meals(day))
	}
}

func TestAutoCraft_InsufficientRecipes(t *testing.T) {
	pantry := []models.PantryItem{{Name: "Apple"}, {Name: "Rice"}}
	catalog := []models.Recipe{
		testRecipe(1, models.CategoryBreakfast, "Apple"),
		testRecipe(2, models.CategoryDinner, "Apple", "Beef"),
	}

	matched := matching.MatchableRecipes(pantry, catalog)
	plan, err := newTestAssigner(1).AutoCraft(matched)

	assert.Nil(t, plan)
	var insufficient *InsufficientRecipesError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, models.CategoryLunch, insufficient.Category)
}

func TestAutoCraft_NamesFirstEmptyCategory(t *testing.T) {
	_, err := newTestAssigner(1).AutoCraft(nil)

	var insufficient *InsufficientRecipesError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, models.CategoryBreakfast, insufficient.Category)
	assert.Contains(t, err.Error(), "not enough recipes")
}

func TestAddRemoveRoundTrip(t *testing.T) {
	a := newTestAssigner(1)
	plan := NewWeeklyMealPlan()
	a.AddMeals(plan, Tuesday, []models.Recipe{testRecipe(1, "Lunch"), testRecipe(2, "Dinner")})
	before := plan.Meals(Tuesday)

	r := testRecipe(9, "Snack")
	a.AddMeals(plan, Tuesday, []models.Recipe{r})
	a.RemoveMeal(plan, Tuesday, r)

	assert.Equal(t, before, plan.Meals(Tuesday))
}

func TestAddMeals_AllowsDuplicates(t *testing.T) {
	a := newTestAssigner(1)
	plan := NewWeeklyMealPlan()
	r := testRecipe(5, "Dinner")

	a.AddMeals(plan, Friday, []models.Recipe{r, r})
	a.AddMeals(plan, Friday, []models.Recipe{r})

	assert.Len(t, plan.Meals(Friday), 3)
	assert.Empty(t, plan.Meals(Thursday))
}

func TestRemoveMeal_FirstOccurrenceOnly(t *testing.T) {
	a := newTestAssigner(1)
	plan := NewWeeklyMealPlan()
	r := testRecipe(5, "Dinner")
	other := testRecipe(6, "Lunch")
	a.AddMeals(plan, Monday, []models.Recipe{r, other, r})

	a.RemoveMeal(plan, Monday, r)

	assert.Equal(t, []models.Recipe{other, r}, plan.Meals(Monday))
}

func TestRemoveMeal_NoMatchIsNoop(t *testing.T) {
	a := newTestAssigner(1)
	plan := NewWeeklyMealPlan()
	a.AddMeals(plan, Sunday, []models.Recipe{testRecipe(1, "Lunch")})

	a.RemoveMeal(plan, Sunday, testRecipe(2, "Lunch"))
	a.RemoveMeal(plan, Saturday, testRecipe(1, "Lunch"))

	assert.Len(t, plan.Meals(Sunday), 1)
	assert.Empty(t, plan.Meals(Saturday))
}

func TestClearAll_Idempotent(t *testing.T) {
	a := newTestAssigner(1)
	plan, err := a.AutoCraft(fullCatalog())
	require.NoError(t, err)

	a.ClearAll(plan)
	once := plan.Days()
	a.ClearAll(plan)

	assert.Equal(t, once, plan.Days())
	assert.Equal(t, 0, plan.MealCount())
	assert.Len(t, plan.Days(), 7)
}

func TestDayKeysInvariant(t *testing.T) {
	a := newTestAssigner(1)
	plan := NewWeeklyMealPlan()

	a.AddMeals(plan, Day("Someday"), []models.Recipe{testRecipe(1, "Lunch")})
	a.RemoveMeal(plan, Day("Someday"), testRecipe(1, "Lunch"))
	a.ClearAll(plan)

	assert.Len(t, plan.days, 7)
	for _, day := range Week {
		_, ok := plan.days[day]
		assert.True(t, ok, day)
	}
}
