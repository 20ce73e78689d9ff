package export

import (
	"bytes"
	"math/rand"
	"path/filepath"
	"testing"

	"fresh/internal/models"
	"fresh/internal/planner"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func samplePlan() *planner.WeeklyMealPlan {
	toast := models.Recipe{ID: 1, Title: "Toast", Category: "Breakfast", TotalTime: 5}
	toast.SetIngredientList([]string{"Bread", "Butter"})
	soup := models.Recipe{ID: 2, Title: "Soup", Category: "Lunch", TotalTime: 40}
	soup.SetIngredientList([]string{"Tomato", "bread"})

	plan := planner.NewWeeklyMealPlan()
	a := planner.NewAssigner(rand.NewSource(1))
	a.AddMeals(plan, planner.Monday, []models.Recipe{toast, soup})
	a.AddMeals(plan, planner.Wednesday, []models.Recipe{toast})
	return plan
}

func TestWriteWeek(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWeek(&buf, samplePlan()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{planSheet, shoppingSheet}, f.GetSheetList())

	rows, err := f.GetRows(planSheet)
	require.NoError(t, err)
	// header, two Monday meals, one row for each of the other six days
	require.Len(t, rows, 1+2+6)
	assert.Equal(t, []string{"Day", "Meal", "Recipe", "Category", "Total Time (min)", "Ingredients"}, rows[0])
	assert.Equal(t, []string{"Monday", "1", "Toast", "Breakfast", "5", "Bread, Butter"}, rows[1])
	assert.Equal(t, "Soup", rows[2][2])
	assert.Equal(t, []string{"Tuesday"}, rows[3])
	assert.Equal(t, "Wednesday", rows[4][0])
	assert.Equal(t, "Toast", rows[4][2])
	assert.Equal(t, []string{"Sunday"}, rows[8])

	ingredients, err := f.GetRows(shoppingSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Ingredient", "Meals"},
		{"Bread", "3"},
		{"Butter", "2"},
		{"Tomato", "1"},
	}, ingredients)
}

func TestSaveWeek(t *testing.T) {
	path := filepath.Join(t.TempDir(), "week.xlsx")
	require.NoError(t, SaveWeek(path, planner.NewWeeklyMealPlan()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(planSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 8)
}
